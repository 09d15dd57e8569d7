package rules

import (
	"github.com/shikoli-turnkeyafrica/mkopo/config"
	"github.com/shikoli-turnkeyafrica/mkopo/dto"
	"github.com/shikoli-turnkeyafrica/mkopo/finance"
)

// AffordabilityRule checks minimum salary and the debt-service ratio the
// proposed loan would produce. All arithmetic is delegated to the finance
// package; this rule only decides which numbers to feed it.
type AffordabilityRule struct {
	policy *config.PolicyConfiguration
	cfg    config.RuleConfig
}

func NewAffordabilityRule(policy *config.PolicyConfiguration) *AffordabilityRule {
	return &AffordabilityRule{policy: policy, cfg: policy.RuleFor(RuleAffordability)}
}

func (r *AffordabilityRule) Name() string { return RuleAffordability }

func (r *AffordabilityRule) Description() string {
	return "Salary must meet the minimum and the proposed loan must fit the DSR ceiling"
}

func (r *AffordabilityRule) Priority() int { return r.cfg.Priority }

func (r *AffordabilityRule) Evaluate(ds dto.ApplicationDataset, requestedAmount float64) dto.ValidationOutcome {
	lp := r.policy.LendingPolicy
	valid := ds.ValidIncomeRecords()

	avgGross := finance.AverageGrossSalary(ds.IncomeRecords)
	if avgGross <= 0 {
		msg := r.policy.MessageFor(RuleAffordability,
			"no valid income documents to assess affordability")
		return fail(RuleAffordability, msg, 0.5, nil)
	}

	if avgGross < lp.MinMonthlySalary {
		msg := r.policy.MessageFor(RuleAffordability,
			"average gross salary {salary} is below the minimum of {min}")
		return fail(RuleAffordability, renderMessage(msg, map[string]string{
			"salary": formatAmount(avgGross),
			"min":    formatAmount(lp.MinMonthlySalary),
		}), 1.0, map[string]string{"average_gross_salary": formatAmount(avgGross)})
	}

	// When the applicant did not name an amount, probe with the policy's
	// conservative default so the verdict reflects a realistic offer.
	amount := requestedAmount
	if amount <= 0 {
		amount = lp.MaxLoanAmount * lp.ConservativeOfferRatio
	}

	existing := finance.TotalDeductions(finance.AverageDeductions(valid))
	payment := finance.MonthlyPayment(amount, lp.DefaultInterestRate, lp.DefaultTermMonths)
	dsr := finance.DebtServiceRatio(avgGross, existing, payment)

	metadata := map[string]string{
		"assessed_amount":      formatAmount(amount),
		"monthly_payment":      formatAmount(payment),
		"existing_obligations": formatAmount(existing),
		"debt_service_ratio":   formatScore(dsr),
	}

	if dsr > lp.MaxDebtServiceRatio {
		msg := r.policy.MessageFor(RuleAffordability,
			"debt service ratio {dsr}% exceeds the ceiling of {ceiling}%")
		return fail(RuleAffordability, renderMessage(msg, map[string]string{
			"dsr":     formatScore(dsr),
			"ceiling": formatScore(lp.MaxDebtServiceRatio),
		}), 1.0, metadata)
	}

	outcome := pass(RuleAffordability, 1.0)
	outcome.Metadata = metadata
	if dsr > 0.9*lp.MaxDebtServiceRatio {
		outcome.WarningMessage = "debt service ratio " + formatScore(dsr) +
			"% is close to the ceiling of " + formatScore(lp.MaxDebtServiceRatio) + "%"
	}
	return outcome
}
