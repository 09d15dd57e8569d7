package rules

import (
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/shikoli-turnkeyafrica/mkopo/config"
	"github.com/shikoli-turnkeyafrica/mkopo/dto"
)

// Engine executes the enabled rules against a dataset and aggregates the
// outcomes. It is stateless across calls; every validation run is an
// independent snapshot.
type Engine struct {
	policy *config.PolicyConfiguration
	rules  []Rule
}

// NewEngine builds an engine whose time-sensitive rules evaluate against
// the wall clock.
func NewEngine(policy *config.PolicyConfiguration) *Engine {
	return NewEngineAt(policy, time.Now)
}

// NewEngineAt builds an engine with an injected clock, so recency and age
// checks are reproducible in tests.
func NewEngineAt(policy *config.PolicyConfiguration, now func() time.Time) *Engine {
	all := []Rule{
		NewRecencyRule(policy, now),
		NewIncomeCountRule(policy),
		NewNameConsistencyRule(policy),
		NewAgeBoundsRule(policy, now),
		NewExtractionConfidenceRule(policy),
		NewAffordabilityRule(policy),
	}

	enabled := make([]Rule, 0, len(all))
	for _, r := range all {
		if policy.RuleFor(r.Name()).Enabled {
			enabled = append(enabled, r)
		}
	}

	// Ascending priority; name breaks ties deterministically.
	sort.SliceStable(enabled, func(i, j int) bool {
		if enabled[i].Priority() != enabled[j].Priority() {
			return enabled[i].Priority() < enabled[j].Priority()
		}
		return enabled[i].Name() < enabled[j].Name()
	})

	return &Engine{policy: policy, rules: enabled}
}

// Validate runs every enabled rule, in priority order, with no
// short-circuiting: the caller always gets the complete diagnostic
// picture. The application is eligible iff no rule failed.
func (e *Engine) Validate(ds dto.ApplicationDataset, requestedAmount float64) dto.ApplicationValidationResult {
	result := dto.ApplicationValidationResult{
		FailedRules: []string{},
		WarnedRules: []string{},
		ValidatedAt: time.Now(),
	}

	for _, rule := range e.rules {
		outcome := e.run(rule, ds, requestedAmount)
		result.Outcomes = append(result.Outcomes, outcome)

		if !outcome.IsValid {
			result.FailedRules = append(result.FailedRules, rule.Name())
			log.Printf("Rule %s failed: %s", rule.Name(), outcome.ErrorMessage)
		}
		if outcome.WarningMessage != "" {
			result.WarnedRules = append(result.WarnedRules, rule.Name())
		}
	}

	result.IsEligible = len(result.FailedRules) == 0
	result.OverallConfidence = meanConfidence(result.Outcomes)
	return result
}

// run executes one rule, converting a panic inside it into a failed
// outcome so an internal rule error can never abort the whole validation.
func (e *Engine) run(rule Rule, ds dto.ApplicationDataset, requestedAmount float64) (outcome dto.ValidationOutcome) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Rule %s panicked: %v", rule.Name(), r)
			outcome = dto.ValidationOutcome{
				RuleName:     rule.Name(),
				IsValid:      false,
				ErrorMessage: fmt.Sprintf("rule %s failed internally: %v", rule.Name(), r),
				Confidence:   0,
			}
		}
	}()
	return rule.Evaluate(ds, requestedAmount)
}

func meanConfidence(outcomes []dto.ValidationOutcome) float64 {
	if len(outcomes) == 0 {
		return 1.0
	}
	var sum float64
	for _, o := range outcomes {
		sum += o.Confidence
	}
	return sum / float64(len(outcomes))
}
