// Package rules implements the configurable business-rule validation of a
// loan application dataset. Rules are independent units: each projects the
// dataset fields it needs, so the engine holds one homogeneous collection
// without casting, and one rule's failure never stops the others.
package rules

import (
	"strconv"
	"strings"

	"github.com/shikoli-turnkeyafrica/mkopo/dto"
)

// Rule names double as the keys under validationRules and errorMessages in
// the policy file.
const (
	RuleRecency              = "recency"
	RuleIncomeCount          = "income_count"
	RuleNameConsistency      = "name_consistency"
	RuleAgeBounds            = "age_bounds"
	RuleExtractionConfidence = "extraction_confidence"
	RuleAffordability        = "affordability"
)

// Rule is one independent validation unit. Priority orders execution
// (lower first) and comes from policy; it has no effect on whether a
// failure blocks eligibility.
type Rule interface {
	Name() string
	Description() string
	Priority() int
	Evaluate(ds dto.ApplicationDataset, requestedAmount float64) dto.ValidationOutcome
}

// renderMessage fills {placeholder} slots in a policy message template.
func renderMessage(template string, values map[string]string) string {
	for key, val := range values {
		template = strings.ReplaceAll(template, "{"+key+"}", val)
	}
	return template
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func intString(n int) string {
	return strconv.Itoa(n)
}

func pass(name string, confidence float64) dto.ValidationOutcome {
	return dto.ValidationOutcome{
		RuleName:   name,
		IsValid:    true,
		Confidence: confidence,
	}
}

func fail(name, message string, confidence float64, metadata map[string]string) dto.ValidationOutcome {
	return dto.ValidationOutcome{
		RuleName:     name,
		IsValid:      false,
		ErrorMessage: message,
		Confidence:   confidence,
		Metadata:     metadata,
	}
}
