package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIncomeCountRuleAccepts(t *testing.T) {
	rule := NewIncomeCountRule(testPolicy())

	outcome := rule.Evaluate(testDataset("2025-04", "2025-03"), 0)

	assert.True(t, outcome.IsValid)
}

func TestIncomeCountRuleRejectsTooFew(t *testing.T) {
	rule := NewIncomeCountRule(testPolicy())

	outcome := rule.Evaluate(testDataset("2025-04"), 0)

	assert.False(t, outcome.IsValid)
	assert.Equal(t, "1", outcome.Metadata["actual"])
	assert.Equal(t, "2", outcome.Metadata["required"])
}

func TestIncomeCountRuleCountsOnlyValidRecords(t *testing.T) {
	rule := NewIncomeCountRule(testPolicy())

	ds := testDataset("2025-04", "2025-03")
	ds.IncomeRecords[1].IsValid = false

	outcome := rule.Evaluate(ds, 0)

	assert.False(t, outcome.IsValid)
	assert.Equal(t, "1", outcome.Metadata["actual"])
}
