package rules

import (
	"testing"

	"github.com/shikoli-turnkeyafrica/mkopo/dto"
	"github.com/stretchr/testify/assert"
)

func TestAffordabilityRuleAccepts(t *testing.T) {
	rule := NewAffordabilityRule(testPolicy())

	outcome := rule.Evaluate(testDataset("2025-04", "2025-03"), 100000)

	assert.True(t, outcome.IsValid)
	assert.NotEmpty(t, outcome.Metadata["debt_service_ratio"])
}

func TestAffordabilityRuleRejectsExcessiveRequest(t *testing.T) {
	// 300,000 over 12 months at 15% costs about 27,078 a month. With
	// 5,000 of existing deductions on 60,000 gross the DSR lands around
	// 53.5%, through the 50% ceiling.
	rule := NewAffordabilityRule(testPolicy())

	ds := testDataset("2025-04", "2025-03")
	for i := range ds.IncomeRecords {
		ds.IncomeRecords[i].GrossSalary = 60000
		ds.IncomeRecords[i].NetSalary = 48000
		ds.IncomeRecords[i].Deductions = map[string]float64{"PAYE": 5000}
	}

	outcome := rule.Evaluate(ds, 300000)

	assert.False(t, outcome.IsValid)
	assert.Contains(t, outcome.ErrorMessage, "50.00")
	assert.Equal(t, "300000.00", outcome.Metadata["assessed_amount"])
	assert.Equal(t, "53.46", outcome.Metadata["debt_service_ratio"])
}

func TestAffordabilityRuleRejectsLowSalary(t *testing.T) {
	rule := NewAffordabilityRule(testPolicy())

	ds := testDataset("2025-04", "2025-03")
	for i := range ds.IncomeRecords {
		ds.IncomeRecords[i].GrossSalary = 20000
		ds.IncomeRecords[i].NetSalary = 15000
	}

	outcome := rule.Evaluate(ds, 50000)

	assert.False(t, outcome.IsValid)
	assert.Contains(t, outcome.ErrorMessage, "30000.00")
}

func TestAffordabilityRuleNoValidIncome(t *testing.T) {
	rule := NewAffordabilityRule(testPolicy())

	ds := testDataset("2025-04")
	ds.IncomeRecords[0].IsValid = false

	outcome := rule.Evaluate(ds, 100000)

	assert.False(t, outcome.IsValid)
	assert.Equal(t, 0.5, outcome.Confidence)
}

func TestAffordabilityRuleProbesConservativeAmountWithoutRequest(t *testing.T) {
	rule := NewAffordabilityRule(testPolicy())

	outcome := rule.Evaluate(testDataset("2025-04", "2025-03"), 0)

	// maxLoanAmount * conservativeOfferRatio = 3,000,000 * 0.8.
	assert.Equal(t, "2400000.00", outcome.Metadata["assessed_amount"])
}

func TestAffordabilityRuleWarnsNearCeiling(t *testing.T) {
	rule := NewAffordabilityRule(testPolicy())

	// Payment around 23,000 on 50,000 gross with no deductions: a DSR of
	// roughly 46% passes a 50% ceiling but clears the 90% warning line.
	ds := testDataset("2025-04", "2025-03")
	for i := range ds.IncomeRecords {
		ds.IncomeRecords[i].GrossSalary = 50000
		ds.IncomeRecords[i].NetSalary = 40000
		ds.IncomeRecords[i].Deductions = nil
	}

	outcome := rule.Evaluate(ds, 254000)

	assert.True(t, outcome.IsValid)
	assert.NotEmpty(t, outcome.WarningMessage)
}

func TestAffordabilityRuleIgnoresInvalidRecordsForAverage(t *testing.T) {
	rule := NewAffordabilityRule(testPolicy())

	ds := testDataset("2025-04", "2025-03")
	ds.IncomeRecords = append(ds.IncomeRecords, dto.IncomeRecord{
		GrossSalary: 1000000, IsValid: false,
	})

	outcome := rule.Evaluate(ds, 100000)

	// The inflated invalid record must not raise the averages.
	assert.True(t, outcome.IsValid)
	assert.Equal(t, "12000.00", outcome.Metadata["existing_obligations"])
}
