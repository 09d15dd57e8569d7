package dto

import "time"

// LoanOffer is a value object describing one concrete, time-limited offer.
// Recalculation derives a new LoanOffer from an existing one; offers are
// never mutated in place.
type LoanOffer struct {
	ID                string            `json:"id"`
	MaxLoanAmount     float64           `json:"max_loan_amount"`
	RecommendedAmount float64           `json:"recommended_amount"`
	InterestRate      float64           `json:"interest_rate"` // annual, percent
	TermMonths        int               `json:"term_months"`
	MonthlyPayment    float64           `json:"monthly_payment"`
	TotalRepayment    float64           `json:"total_repayment"`
	TotalInterest     float64           `json:"total_interest"`
	ProcessingFee     float64           `json:"processing_fee"`
	DebtServiceRatio  float64           `json:"debt_service_ratio"` // percent
	ValidUntil        time.Time         `json:"valid_until"`
	Conditions        []string          `json:"conditions"`
	Warnings          []string          `json:"warnings"`
	Metadata          map[string]string `json:"metadata,omitempty"`
	GeneratedAt       time.Time         `json:"generated_at"`
}
