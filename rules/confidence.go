package rules

import (
	"strings"

	"github.com/shikoli-turnkeyafrica/mkopo/config"
	"github.com/shikoli-turnkeyafrica/mkopo/dto"
)

// ExtractionConfidenceRule requires every underlying record, and the
// dataset as a whole, to clear the policy's minimum extraction confidence.
// Low-confidence extractions mean the other rules ran on questionable
// data, so this rule blocks rather than warns.
type ExtractionConfidenceRule struct {
	policy *config.PolicyConfiguration
	cfg    config.RuleConfig
}

func NewExtractionConfidenceRule(policy *config.PolicyConfiguration) *ExtractionConfidenceRule {
	return &ExtractionConfidenceRule{policy: policy, cfg: policy.RuleFor(RuleExtractionConfidence)}
}

func (r *ExtractionConfidenceRule) Name() string { return RuleExtractionConfidence }

func (r *ExtractionConfidenceRule) Description() string {
	return "Extraction confidence must meet the policy minimum on every record"
}

func (r *ExtractionConfidenceRule) Priority() int { return r.cfg.Priority }

func (r *ExtractionConfidenceRule) Evaluate(ds dto.ApplicationDataset, _ float64) dto.ValidationOutcome {
	min := r.policy.LendingPolicy.MinExtractionConfidence

	var low []string
	if ds.Identity.Confidence < min {
		low = append(low, "identity document ("+formatScore(ds.Identity.Confidence)+")")
	}
	for _, rec := range ds.IncomeRecords {
		if rec.Confidence < min {
			low = append(low, "income document "+rec.PayPeriod+" ("+formatScore(rec.Confidence)+")")
		}
	}
	if ds.OverallConfidence < min {
		low = append(low, "overall ("+formatScore(ds.OverallConfidence)+")")
	}

	if len(low) > 0 {
		msg := r.policy.MessageFor(RuleExtractionConfidence,
			"extraction confidence below {min} for: {records}")
		return fail(RuleExtractionConfidence, renderMessage(msg, map[string]string{
			"min":     formatScore(min),
			"records": strings.Join(low, ", "),
		}), ds.OverallConfidence, map[string]string{
			"low_confidence_records": strings.Join(low, ","),
		})
	}

	return pass(RuleExtractionConfidence, ds.OverallConfidence)
}
