package finance

import (
	"math"
	"testing"

	"github.com/shikoli-turnkeyafrica/mkopo/dto"
	"github.com/stretchr/testify/assert"
)

func TestMonthlyPayment(t *testing.T) {
	// 300,000 at 15% annual over 12 months.
	payment := MonthlyPayment(300000, 15, 12)
	assert.InDelta(t, 27077.5, payment, 1.0)
}

func TestMonthlyPaymentZeroRate(t *testing.T) {
	assert.Equal(t, 10000.0, MonthlyPayment(120000, 0, 12))
}

func TestMonthlyPaymentDegenerateInputs(t *testing.T) {
	assert.Equal(t, 0.0, MonthlyPayment(0, 15, 12))
	assert.Equal(t, 0.0, MonthlyPayment(-500, 15, 12))
	assert.Equal(t, 0.0, MonthlyPayment(100000, 15, 0))
	assert.Equal(t, 0.0, MonthlyPayment(100000, -1, 12))
}

func TestPrincipalFromPaymentInvertsMonthlyPayment(t *testing.T) {
	payment := MonthlyPayment(300000, 15, 12)
	assert.InDelta(t, 300000, PrincipalFromPayment(payment, 15, 12), 0.01)

	assert.Equal(t, 120000.0, PrincipalFromPayment(10000, 0, 12))
}

func TestDebtServiceRatio(t *testing.T) {
	assert.InDelta(t, 50.0, DebtServiceRatio(50000, 5000, 20000), 1e-9)
	assert.InDelta(t, 0.0, DebtServiceRatio(50000, 0, 0), 1e-9)
}

func TestDebtServiceRatioZeroSalary(t *testing.T) {
	// The sentinel always exceeds any finite policy ceiling.
	assert.True(t, math.IsInf(DebtServiceRatio(0, 0, 10000), 1))
	assert.True(t, math.IsInf(DebtServiceRatio(-100, 0, 10000), 1))
}

func TestMaxLoanAmount(t *testing.T) {
	// Whatever principal comes out must amortize to exactly the monthly
	// budget left under the ceiling.
	max := MaxLoanAmount(50000, 0, 50, 15, 12)
	assert.Greater(t, max, 0.0)
	assert.InDelta(t, 25000, MonthlyPayment(max, 15, 12), 0.01)
}

func TestMaxLoanAmountNoBudget(t *testing.T) {
	// Existing obligations already consume the DSR budget.
	assert.Equal(t, 0.0, MaxLoanAmount(50000, 30000, 50, 15, 12))
	assert.Equal(t, 0.0, MaxLoanAmount(0, 0, 50, 15, 12))
}

func TestAverageDeductionsSkipsAbsentTypes(t *testing.T) {
	records := []dto.IncomeRecord{
		{Deductions: map[string]float64{"PAYE": 10000, "NSSF": 200}},
		{Deductions: map[string]float64{"PAYE": 12000}},
	}

	averages := AverageDeductions(records)

	assert.InDelta(t, 11000, averages["PAYE"], 1e-9)
	// NSSF appears once; the record omitting it contributes no implicit zero.
	assert.InDelta(t, 200, averages["NSSF"], 1e-9)
}

func TestTotalDeductions(t *testing.T) {
	assert.InDelta(t, 12280, TotalDeductions(map[string]float64{
		"PAYE": 11200, "NSSF": 1080,
	}), 1e-9)
	assert.Equal(t, 0.0, TotalDeductions(nil))
}

func TestAverageGrossSalaryValidOnly(t *testing.T) {
	records := []dto.IncomeRecord{
		{GrossSalary: 80000, IsValid: true},
		{GrossSalary: 90000, IsValid: true},
		{GrossSalary: 500000, IsValid: false},
	}

	assert.InDelta(t, 85000, AverageGrossSalary(records), 1e-9)
	assert.Equal(t, 0.0, AverageGrossSalary(nil))
}
