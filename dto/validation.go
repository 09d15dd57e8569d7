package dto

import "time"

// ValidationOutcome is the result of a single rule execution. Produced
// once, never mutated.
type ValidationOutcome struct {
	RuleName       string            `json:"rule_name"`
	IsValid        bool              `json:"is_valid"`
	ErrorMessage   string            `json:"error_message,omitempty"`
	WarningMessage string            `json:"warning_message,omitempty"`
	Confidence     float64           `json:"confidence"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// ApplicationValidationResult is the immutable snapshot of one validation
// run across all enabled rules.
type ApplicationValidationResult struct {
	IsEligible        bool                `json:"is_eligible"`
	Outcomes          []ValidationOutcome `json:"outcomes"`
	FailedRules       []string            `json:"failed_rules"`
	WarnedRules       []string            `json:"warned_rules"`
	OverallConfidence float64             `json:"overall_confidence"`
	ValidatedAt       time.Time           `json:"validated_at"`
}

// ErrorMessages collects the error messages of all failed outcomes, in
// rule execution order.
func (r ApplicationValidationResult) ErrorMessages() []string {
	var msgs []string
	for _, o := range r.Outcomes {
		if !o.IsValid && o.ErrorMessage != "" {
			msgs = append(msgs, o.ErrorMessage)
		}
	}
	return msgs
}

// WarningMessages collects the non-blocking warnings of all outcomes.
func (r ApplicationValidationResult) WarningMessages() []string {
	var msgs []string
	for _, o := range r.Outcomes {
		if o.WarningMessage != "" {
			msgs = append(msgs, o.WarningMessage)
		}
	}
	return msgs
}
