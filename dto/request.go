package dto

import "errors"

// Custom errors surfaced by request validation.
var (
	ErrMissingDocumentText = errors.New("document text is required")
	ErrMissingIncomeText   = errors.New("at least one income document text is required")
)

// IdentityParseRequest carries the raw inference-engine responses for the
// front and back of one identity document.
type IdentityParseRequest struct {
	FrontText string `json:"front_text"`
	BackText  string `json:"back_text"`
}

// Validate performs basic validation on the request.
func (r *IdentityParseRequest) Validate() error {
	if r.FrontText == "" && r.BackText == "" {
		return ErrMissingDocumentText
	}
	return nil
}

// IncomeParseRequest carries the raw inference-engine response for one pay
// document.
type IncomeParseRequest struct {
	Text string `json:"text"`
}

// Validate performs basic validation on the request.
func (r *IncomeParseRequest) Validate() error {
	if r.Text == "" {
		return ErrMissingIncomeText
	}
	return nil
}

// ValidateApplicationRequest asks for a rule evaluation of an assembled
// dataset, optionally against a specific requested amount.
type ValidateApplicationRequest struct {
	Identity        IdentityRecord `json:"identity" binding:"required"`
	IncomeRecords   []IncomeRecord `json:"income_records" binding:"required"`
	RequestedAmount float64        `json:"requested_amount"`
}

// AssessApplicationRequest runs validation and, when eligible, produces an
// offer in the same call.
type AssessApplicationRequest struct {
	Identity        IdentityRecord `json:"identity" binding:"required"`
	IncomeRecords   []IncomeRecord `json:"income_records" binding:"required"`
	RequestedAmount float64        `json:"requested_amount"`
	PreferredTerm   int            `json:"preferred_term"`
}

// RecalculateOfferRequest adjusts an existing offer to a new principal.
type RecalculateOfferRequest struct {
	Offer         LoanOffer      `json:"offer" binding:"required"`
	NewAmount     float64        `json:"new_amount" binding:"required"`
	IncomeRecords []IncomeRecord `json:"income_records" binding:"required"`
}
