package rules

import (
	"github.com/shikoli-turnkeyafrica/mkopo/config"
	"github.com/shikoli-turnkeyafrica/mkopo/dto"
)

// IncomeCountRule requires enough valid income observations for a
// statistically meaningful income assessment.
type IncomeCountRule struct {
	policy *config.PolicyConfiguration
	cfg    config.RuleConfig
}

func NewIncomeCountRule(policy *config.PolicyConfiguration) *IncomeCountRule {
	return &IncomeCountRule{policy: policy, cfg: policy.RuleFor(RuleIncomeCount)}
}

func (r *IncomeCountRule) Name() string { return RuleIncomeCount }

func (r *IncomeCountRule) Description() string {
	return "A minimum number of valid income documents is required"
}

func (r *IncomeCountRule) Priority() int { return r.cfg.Priority }

func (r *IncomeCountRule) Evaluate(ds dto.ApplicationDataset, _ float64) dto.ValidationOutcome {
	required := r.policy.LendingPolicy.MinIncomeRecords
	actual := len(ds.ValidIncomeRecords())

	if actual < required {
		msg := r.policy.MessageFor(RuleIncomeCount,
			"{actual} valid income documents provided, {required} required")
		return fail(RuleIncomeCount, renderMessage(msg, map[string]string{
			"actual":   intString(actual),
			"required": intString(required),
		}), 1.0, map[string]string{
			"actual":   intString(actual),
			"required": intString(required),
		})
	}

	return pass(RuleIncomeCount, 1.0)
}
