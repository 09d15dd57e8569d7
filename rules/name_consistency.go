package rules

import (
	"strings"

	"github.com/shikoli-turnkeyafrica/mkopo/config"
	"github.com/shikoli-turnkeyafrica/mkopo/dto"
	"github.com/shikoli-turnkeyafrica/mkopo/utils"
)

// NameConsistencyRule checks that the name on the identity document and
// the employee name on every valid payslip belong to the same person.
// Word-set overlap tolerates reordered names ("John Otieno Kamau" vs
// "Otieno Kamau John") that an exact comparison would reject.
type NameConsistencyRule struct {
	policy *config.PolicyConfiguration
	cfg    config.RuleConfig
}

func NewNameConsistencyRule(policy *config.PolicyConfiguration) *NameConsistencyRule {
	return &NameConsistencyRule{policy: policy, cfg: policy.RuleFor(RuleNameConsistency)}
}

func (r *NameConsistencyRule) Name() string { return RuleNameConsistency }

func (r *NameConsistencyRule) Description() string {
	return "Identity and payslip names must refer to the same person"
}

func (r *NameConsistencyRule) Priority() int { return r.cfg.Priority }

func (r *NameConsistencyRule) Evaluate(ds dto.ApplicationDataset, _ float64) dto.ValidationOutcome {
	valid := ds.ValidIncomeRecords()
	if len(valid) == 0 {
		return pass(RuleNameConsistency, 0.5)
	}

	threshold := r.policy.LendingPolicy.NameMatchThreshold
	metadata := map[string]string{}

	var mismatched []string
	for _, rec := range valid {
		score := utils.NameSimilarity(ds.Identity.FullName, rec.EmployeeName)
		metadata[rec.EmployeeName] = formatScore(score)
		if score < threshold {
			mismatched = append(mismatched,
				rec.EmployeeName+" (similarity "+formatScore(score)+")")
		}
	}

	if len(mismatched) > 0 {
		msg := r.policy.MessageFor(RuleNameConsistency,
			"payslip names do not match identity name {identity}: {mismatches}")
		return fail(RuleNameConsistency, renderMessage(msg, map[string]string{
			"identity":   ds.Identity.FullName,
			"mismatches": strings.Join(mismatched, "; "),
		}), 1.0, metadata)
	}

	return pass(RuleNameConsistency, 1.0)
}
