package dto

// ErrorResponse represents a structured error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// AssessApplicationResponse bundles the validation result with the offer
// produced for an eligible application. Offer is null when ineligible --
// absence of an offer is an expected outcome, not an error.
type AssessApplicationResponse struct {
	Dataset    ApplicationDataset          `json:"dataset"`
	Validation ApplicationValidationResult `json:"validation"`
	Offer      *LoanOffer                  `json:"offer,omitempty"`
}

// OfferOptionsResponse lists one offer per available loan term, sorted by
// term ascending.
type OfferOptionsResponse struct {
	Options []LoanOffer `json:"options"`
}
