// Package finance holds the amortization and debt-service arithmetic used
// by both the rule engine and the offer engine. Every function is pure and
// total: degenerate inputs return 0 or a documented sentinel, never panic,
// because these run inside rule evaluation where errors must not escape.
package finance

import (
	"math"

	"github.com/shikoli-turnkeyafrica/mkopo/dto"
)

// MonthlyPayment computes the fixed amortizing-annuity payment for a
// principal at an annual percentage rate over a term in months. A zero
// rate degenerates to straight-line repayment.
func MonthlyPayment(principal, annualRate float64, months int) float64 {
	if principal <= 0 || months <= 0 || annualRate < 0 {
		return 0
	}
	if annualRate == 0 {
		return principal / float64(months)
	}
	r := annualRate / 100 / 12
	factor := math.Pow(1+r, float64(months))
	return principal * r * factor / (factor - 1)
}

// PrincipalFromPayment is the algebraic inverse of MonthlyPayment: the
// largest principal a fixed monthly budget can amortize.
func PrincipalFromPayment(payment, annualRate float64, months int) float64 {
	if payment <= 0 || months <= 0 || annualRate < 0 {
		return 0
	}
	if annualRate == 0 {
		return payment * float64(months)
	}
	r := annualRate / 100 / 12
	factor := math.Pow(1+r, float64(months))
	return payment * (factor - 1) / (r * factor)
}

// DebtServiceRatio returns total monthly obligations as a percentage of
// gross monthly salary. A non-positive salary yields +Inf rather than a
// division by zero; callers compare against a finite policy ceiling, so
// the sentinel always fails the check.
func DebtServiceRatio(grossSalary, existingObligations, proposedPayment float64) float64 {
	if grossSalary <= 0 {
		return math.Inf(1)
	}
	return 100 * (existingObligations + proposedPayment) / grossSalary
}

// MaxLoanAmount sizes the largest principal the applicant can carry under
// the DSR ceiling after existing obligations, at the given rate and term.
// Returns 0 when no monthly budget remains.
func MaxLoanAmount(grossSalary, existingObligations, maxDSRPercent, annualRate float64, months int) float64 {
	if grossSalary <= 0 || maxDSRPercent <= 0 {
		return 0
	}
	budget := grossSalary*maxDSRPercent/100 - existingObligations
	if budget <= 0 {
		return 0
	}
	return PrincipalFromPayment(budget, annualRate, months)
}

// AverageDeductions averages each deduction type across the records that
// report it. A record that omits a type does not drag the average down
// with an implicit zero.
func AverageDeductions(records []dto.IncomeRecord) map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, rec := range records {
		for name, amount := range rec.Deductions {
			sums[name] += amount
			counts[name]++
		}
	}

	averages := make(map[string]float64, len(sums))
	for name, sum := range sums {
		averages[name] = sum / float64(counts[name])
	}
	return averages
}

// TotalDeductions sums a deduction map.
func TotalDeductions(deductions map[string]float64) float64 {
	var total float64
	for _, amount := range deductions {
		total += amount
	}
	return total
}

// AverageGrossSalary averages gross salary across the valid records only.
// Returns 0 when none are valid.
func AverageGrossSalary(records []dto.IncomeRecord) float64 {
	var sum float64
	var count int
	for _, rec := range records {
		if rec.IsValid {
			sum += rec.GrossSalary
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
