package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

const validPolicyJSON = `{
  "lendingPolicy": {
    "maxDebtServiceRatio": 50,
    "minApplicantAge": 21,
    "maxApplicantAge": 65,
    "minMonthlySalary": 30000,
    "maxLoanAmount": 3000000,
    "defaultInterestRate": 15,
    "defaultTermMonths": 12,
    "payslipRecencyMonths": 3,
    "minExtractionConfidence": 0.6,
    "conservativeOfferRatio": 0.8,
    "minIncomeRecords": 2,
    "nameMatchThreshold": 0.6,
    "processingFeeRate": 0.02,
    "minProcessingFee": 500,
    "maxProcessingFee": 10000,
    "offerValidityHours": 72
  },
  "validationRules": {
    "recency": {"enabled": true, "priority": 10},
    "affordability": {"enabled": true, "priority": 60}
  },
  "loanTerms": {
    "availableTerms": [6, 12, 24],
    "defaultTerm": 12,
    "interestRates": {"6": 13, "12": 15, "24": 17}
  },
  "errorMessages": {
    "recency": "payslips outside {window}-month window: {periods}"
  }
}`

func TestParsePolicy(t *testing.T) {
	policy, err := ParsePolicy([]byte(validPolicyJSON))

	assert.NoError(t, err)
	assert.Equal(t, 50.0, policy.LendingPolicy.MaxDebtServiceRatio)
	assert.Equal(t, 12, policy.LendingPolicy.DefaultTermMonths)
	assert.Equal(t, 2, policy.LendingPolicy.MinIncomeRecords)
	assert.True(t, policy.ValidationRules["recency"].Enabled)
	assert.Equal(t, 60, policy.ValidationRules["affordability"].Priority)
}

func TestParsePolicyRejectsInvalidJSON(t *testing.T) {
	_, err := ParsePolicy([]byte("{not json"))
	assert.Error(t, err)
}

func TestParsePolicyRejectsSchemaViolation(t *testing.T) {
	// DSR ceiling above 100% is structurally invalid.
	raw := []byte(`{
	  "lendingPolicy": {
	    "maxDebtServiceRatio": 150,
	    "minApplicantAge": 21,
	    "maxApplicantAge": 65,
	    "minMonthlySalary": 30000,
	    "maxLoanAmount": 3000000,
	    "defaultInterestRate": 15,
	    "defaultTermMonths": 12,
	    "payslipRecencyMonths": 3,
	    "minExtractionConfidence": 0.6,
	    "conservativeOfferRatio": 0.8
	  },
	  "validationRules": {},
	  "loanTerms": {"availableTerms": [12], "defaultTerm": 12, "interestRates": {}},
	  "errorMessages": {}
	}`)

	_, err := ParsePolicy(raw)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "schema")
}

func TestParsePolicyRejectsMissingSection(t *testing.T) {
	_, err := ParsePolicy([]byte(`{"lendingPolicy": {}}`))
	assert.Error(t, err)
}

func TestParsePolicySanityChecks(t *testing.T) {
	// defaultTerm must be one of the available terms.
	raw := []byte(`{
	  "lendingPolicy": {
	    "maxDebtServiceRatio": 50,
	    "minApplicantAge": 21,
	    "maxApplicantAge": 65,
	    "minMonthlySalary": 30000,
	    "maxLoanAmount": 3000000,
	    "defaultInterestRate": 15,
	    "defaultTermMonths": 12,
	    "payslipRecencyMonths": 3,
	    "minExtractionConfidence": 0.6,
	    "conservativeOfferRatio": 0.8
	  },
	  "validationRules": {},
	  "loanTerms": {"availableTerms": [6, 24], "defaultTerm": 12, "interestRates": {}},
	  "errorMessages": {}
	}`)

	_, err := ParsePolicy(raw)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "defaultTerm")
}

func TestLoadPolicy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.json")
	assert.NoError(t, os.WriteFile(path, []byte(validPolicyJSON), 0o644))

	policy, err := LoadPolicy(path)

	assert.NoError(t, err)
	assert.Equal(t, 3000000.0, policy.LendingPolicy.MaxLoanAmount)
}

func TestLoadPolicyMissingFile(t *testing.T) {
	_, err := LoadPolicy("/nonexistent/policy.json")
	assert.Error(t, err)
}

func TestRateForTerm(t *testing.T) {
	policy, err := ParsePolicy([]byte(validPolicyJSON))
	assert.NoError(t, err)

	assert.Equal(t, 17.0, policy.RateForTerm(24))
	// Unmapped terms fall back to the default rate.
	assert.Equal(t, 15.0, policy.RateForTerm(36))
}

func TestIsAvailableTerm(t *testing.T) {
	policy, err := ParsePolicy([]byte(validPolicyJSON))
	assert.NoError(t, err)

	assert.True(t, policy.IsAvailableTerm(6))
	assert.False(t, policy.IsAvailableTerm(36))
}

func TestRuleForUnconfigured(t *testing.T) {
	policy, err := ParsePolicy([]byte(validPolicyJSON))
	assert.NoError(t, err)

	assert.False(t, policy.RuleFor("age_bounds").Enabled)
}

func TestMessageFor(t *testing.T) {
	policy, err := ParsePolicy([]byte(validPolicyJSON))
	assert.NoError(t, err)

	assert.Equal(t, "payslips outside {window}-month window: {periods}",
		policy.MessageFor("recency", "fallback"))
	assert.Equal(t, "fallback", policy.MessageFor("affordability", "fallback"))
}
