package rules

import (
	"strings"
	"time"

	"github.com/shikoli-turnkeyafrica/mkopo/config"
	"github.com/shikoli-turnkeyafrica/mkopo/dto"
)

// RecencyRule requires every income document to fall inside the policy's
// recency window. Stale or unparsable pay periods say nothing about the
// applicant's current income, so both count as violations.
type RecencyRule struct {
	policy *config.PolicyConfiguration
	cfg    config.RuleConfig
	now    func() time.Time
}

func NewRecencyRule(policy *config.PolicyConfiguration, now func() time.Time) *RecencyRule {
	return &RecencyRule{policy: policy, cfg: policy.RuleFor(RuleRecency), now: now}
}

func (r *RecencyRule) Name() string { return RuleRecency }

func (r *RecencyRule) Description() string {
	return "Income documents must be recent enough to reflect current income"
}

func (r *RecencyRule) Priority() int { return r.cfg.Priority }

func (r *RecencyRule) Evaluate(ds dto.ApplicationDataset, _ float64) dto.ValidationOutcome {
	if len(ds.IncomeRecords) == 0 {
		// Nothing to judge; the count rule reports the absence.
		return pass(RuleRecency, 0.5)
	}

	window := r.policy.LendingPolicy.PayslipRecencyMonths
	reference := r.now()

	var stale []string
	for _, rec := range ds.IncomeRecords {
		period, ok := dto.ParsePayPeriod(rec.PayPeriod)
		if !ok {
			stale = append(stale, rec.PayPeriod+" (unparseable)")
			continue
		}
		if monthsBetween(period, reference) > window {
			stale = append(stale, rec.PayPeriod)
		}
	}

	if len(stale) > 0 {
		msg := r.policy.MessageFor(RuleRecency,
			"income documents older than {window} months: {periods}")
		return fail(RuleRecency, renderMessage(msg, map[string]string{
			"window":  intString(window),
			"periods": strings.Join(stale, ", "),
		}), 1.0, map[string]string{"stale_periods": strings.Join(stale, ",")})
	}

	return pass(RuleRecency, 1.0)
}

// monthsBetween counts whole calendar months from the pay period to the
// reference date. A payslip for the current month is 0 months old.
func monthsBetween(period, reference time.Time) int {
	years := reference.Year() - period.Year()
	months := int(reference.Month()) - int(period.Month())
	return years*12 + months
}
