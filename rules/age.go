package rules

import (
	"time"

	"github.com/shikoli-turnkeyafrica/mkopo/config"
	"github.com/shikoli-turnkeyafrica/mkopo/dto"
)

// AgeBoundsRule checks the applicant's age against the policy bounds. The
// upper bound is forward-looking: the applicant must still be under the
// maximum age when the default loan term ends, not merely today.
type AgeBoundsRule struct {
	policy *config.PolicyConfiguration
	cfg    config.RuleConfig
	now    func() time.Time
}

func NewAgeBoundsRule(policy *config.PolicyConfiguration, now func() time.Time) *AgeBoundsRule {
	return &AgeBoundsRule{policy: policy, cfg: policy.RuleFor(RuleAgeBounds), now: now}
}

func (r *AgeBoundsRule) Name() string { return RuleAgeBounds }

func (r *AgeBoundsRule) Description() string {
	return "Applicant age must stay within policy bounds through the loan term"
}

func (r *AgeBoundsRule) Priority() int { return r.cfg.Priority }

// dobFormats covers the date renderings seen across ID layouts.
var dobFormats = []string{
	"02/01/2006",
	"02-01-2006",
	"02.01.2006",
	"2006-01-02",
}

func (r *AgeBoundsRule) Evaluate(ds dto.ApplicationDataset, _ float64) dto.ValidationOutcome {
	dob, ok := parseDateOfBirth(ds.Identity.DateOfBirth)
	if !ok {
		msg := r.policy.MessageFor(RuleAgeBounds,
			"could not determine applicant age from date of birth {dob}")
		return fail(RuleAgeBounds, renderMessage(msg, map[string]string{
			"dob": ds.Identity.DateOfBirth,
		}), 0.5, nil)
	}

	lp := r.policy.LendingPolicy
	reference := r.now()
	age := yearsBetween(dob, reference)
	termEnd := reference.AddDate(0, lp.DefaultTermMonths, 0)
	projectedAge := yearsBetween(dob, termEnd)

	metadata := map[string]string{
		"age":           intString(age),
		"projected_age": intString(projectedAge),
	}

	if age < lp.MinApplicantAge {
		msg := r.policy.MessageFor(RuleAgeBounds,
			"applicant age {age} is below the minimum of {min}")
		return fail(RuleAgeBounds, renderMessage(msg, map[string]string{
			"age": intString(age),
			"min": intString(lp.MinApplicantAge),
		}), 1.0, metadata)
	}

	if projectedAge > lp.MaxApplicantAge {
		msg := r.policy.MessageFor(RuleAgeBounds,
			"applicant would be {projected} at the end of a {term}-month loan, above the maximum of {max}")
		return fail(RuleAgeBounds, renderMessage(msg, map[string]string{
			"projected": intString(projectedAge),
			"term":      intString(lp.DefaultTermMonths),
			"max":       intString(lp.MaxApplicantAge),
		}), 1.0, metadata)
	}

	outcome := pass(RuleAgeBounds, 1.0)
	outcome.Metadata = metadata
	return outcome
}

func parseDateOfBirth(raw string) (time.Time, bool) {
	for _, format := range dobFormats {
		if t, err := time.Parse(format, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// yearsBetween counts completed years from dob to the reference date.
func yearsBetween(dob, reference time.Time) int {
	years := reference.Year() - dob.Year()
	if reference.Month() < dob.Month() ||
		(reference.Month() == dob.Month() && reference.Day() < dob.Day()) {
		years--
	}
	return years
}
