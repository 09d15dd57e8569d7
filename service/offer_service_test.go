package service

import (
	"testing"
	"time"

	"github.com/shikoli-turnkeyafrica/mkopo/config"
	"github.com/shikoli-turnkeyafrica/mkopo/dto"
	"github.com/shikoli-turnkeyafrica/mkopo/finance"
	"github.com/stretchr/testify/assert"
)

func testPolicy() *config.PolicyConfiguration {
	return &config.PolicyConfiguration{
		LendingPolicy: config.LendingPolicy{
			MaxDebtServiceRatio:     50,
			MinApplicantAge:         21,
			MaxApplicantAge:         65,
			MinMonthlySalary:        30000,
			MaxLoanAmount:           3000000,
			DefaultInterestRate:     15,
			DefaultTermMonths:       12,
			PayslipRecencyMonths:    3,
			MinExtractionConfidence: 0.6,
			ConservativeOfferRatio:  0.8,
			MinIncomeRecords:        2,
			NameMatchThreshold:      0.6,
			ProcessingFeeRate:       0.02,
			MinProcessingFee:        500,
			MaxProcessingFee:        10000,
			OfferValidityHours:      72,
		},
		ValidationRules: map[string]config.RuleConfig{},
		LoanTerms: config.LoanTermsConfig{
			AvailableTerms: []int{6, 12, 24},
			DefaultTerm:    12,
			InterestRates: map[string]float64{
				"6": 13, "12": 15, "24": 17,
			},
		},
		ErrorMessages: map[string]string{},
	}
}

func testClock() time.Time {
	return time.Date(2025, 5, 15, 12, 0, 0, 0, time.UTC)
}

func testDataset() dto.ApplicationDataset {
	income := dto.IncomeRecord{
		EmployeeName: "John Otieno Kamau",
		EmployerName: "Savannah Tea Ltd",
		GrossSalary:  80000,
		NetSalary:    60000,
		Deductions:   map[string]float64{"PAYE": 12000},
		Confidence:   0.8,
		IsValid:      true,
	}
	first, second := income, income
	first.PayPeriod = "2025-04"
	second.PayPeriod = "2025-03"

	return dto.ApplicationDataset{
		ID: "app-1",
		Identity: dto.IdentityRecord{
			FullName:   "John Otieno Kamau",
			IDNumber:   "23456789",
			Confidence: 0.8,
			IsValid:    true,
		},
		IncomeRecords:     []dto.IncomeRecord{first, second},
		OverallConfidence: 0.8,
		IsComplete:        true,
	}
}

func eligibleResult() dto.ApplicationValidationResult {
	return dto.ApplicationValidationResult{
		IsEligible:        true,
		OverallConfidence: 0.9,
	}
}

func TestGenerateOffer(t *testing.T) {
	svc := NewOfferServiceAt(testPolicy(), testClock)
	ds := testDataset()

	offer := svc.GenerateOffer(ds, eligibleResult(), 100000, 0)

	assert.NotNil(t, offer)
	assert.NotEmpty(t, offer.ID)
	assert.Equal(t, 100000.0, offer.RecommendedAmount)
	assert.Equal(t, 12, offer.TermMonths)
	assert.Equal(t, 15.0, offer.InterestRate)
	assert.InDelta(t, finance.MonthlyPayment(100000, 15, 12), offer.MonthlyPayment, 1e-9)
	assert.InDelta(t, offer.MonthlyPayment*12, offer.TotalRepayment, 1e-9)
	assert.InDelta(t, offer.TotalRepayment-100000, offer.TotalInterest, 1e-9)
	assert.Equal(t, 2000.0, offer.ProcessingFee)
	assert.Equal(t, testClock().Add(72*time.Hour), offer.ValidUntil)
	assert.Equal(t, "app-1", offer.Metadata["dataset_id"])
}

func TestGenerateOfferIneligible(t *testing.T) {
	svc := NewOfferServiceAt(testPolicy(), testClock)

	offer := svc.GenerateOffer(testDataset(), dto.ApplicationValidationResult{IsEligible: false}, 100000, 0)

	assert.Nil(t, offer)
}

func TestGenerateOfferNoIncome(t *testing.T) {
	svc := NewOfferServiceAt(testPolicy(), testClock)
	ds := testDataset()
	ds.IncomeRecords = nil

	offer := svc.GenerateOffer(ds, eligibleResult(), 100000, 0)

	assert.Nil(t, offer)
}

func TestGenerateOfferConservativeDefault(t *testing.T) {
	// Without a requested amount the recommendation deliberately
	// under-offers relative to the affordable maximum.
	svc := NewOfferServiceAt(testPolicy(), testClock)

	offer := svc.GenerateOffer(testDataset(), eligibleResult(), 0, 0)

	assert.NotNil(t, offer)
	assert.InDelta(t, 0.8*offer.MaxLoanAmount, offer.RecommendedAmount, 0.01)
}

func TestGenerateOfferClipsRequestToMaximum(t *testing.T) {
	svc := NewOfferServiceAt(testPolicy(), testClock)

	offer := svc.GenerateOffer(testDataset(), eligibleResult(), 99000000, 0)

	assert.NotNil(t, offer)
	assert.Equal(t, offer.MaxLoanAmount, offer.RecommendedAmount)
}

func TestGenerateOfferPreferredTerm(t *testing.T) {
	svc := NewOfferServiceAt(testPolicy(), testClock)

	offer := svc.GenerateOffer(testDataset(), eligibleResult(), 100000, 24)

	assert.NotNil(t, offer)
	assert.Equal(t, 24, offer.TermMonths)
	assert.Equal(t, 17.0, offer.InterestRate)
}

func TestGenerateOfferUnavailableTermFallsBack(t *testing.T) {
	svc := NewOfferServiceAt(testPolicy(), testClock)

	offer := svc.GenerateOffer(testDataset(), eligibleResult(), 100000, 9)

	assert.NotNil(t, offer)
	assert.Equal(t, 12, offer.TermMonths)
	assert.Equal(t, 15.0, offer.InterestRate)
}

func TestGenerateOfferManualReviewCondition(t *testing.T) {
	svc := NewOfferServiceAt(testPolicy(), testClock)

	result := eligibleResult()
	result.OverallConfidence = 0.65

	offer := svc.GenerateOffer(testDataset(), result, 100000, 0)

	assert.NotNil(t, offer)
	found := false
	for _, c := range offer.Conditions {
		if c == "Manual review of the extracted documents is required before disbursement" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestGenerateOfferOptions(t *testing.T) {
	svc := NewOfferServiceAt(testPolicy(), testClock)

	options := svc.GenerateOfferOptions(testDataset(), eligibleResult(), 100000)

	assert.Len(t, options, 3)
	assert.Equal(t, 6, options[0].TermMonths)
	assert.Equal(t, 12, options[1].TermMonths)
	assert.Equal(t, 24, options[2].TermMonths)
	assert.Equal(t, 13.0, options[0].InterestRate)
	assert.Equal(t, 17.0, options[2].InterestRate)
}

func TestGenerateOfferOptionsIneligible(t *testing.T) {
	svc := NewOfferServiceAt(testPolicy(), testClock)

	options := svc.GenerateOfferOptions(testDataset(), dto.ApplicationValidationResult{}, 100000)

	assert.Empty(t, options)
}

func TestRecalculateOffer(t *testing.T) {
	svc := NewOfferServiceAt(testPolicy(), testClock)
	ds := testDataset()

	base := svc.GenerateOffer(ds, eligibleResult(), 100000, 0)
	assert.NotNil(t, base)

	offer := svc.RecalculateOffer(*base, 50000, ds.IncomeRecords)

	assert.NotNil(t, offer)
	assert.NotEqual(t, base.ID, offer.ID)
	assert.Equal(t, 50000.0, offer.RecommendedAmount)
	assert.Equal(t, base.TermMonths, offer.TermMonths)
	assert.Equal(t, base.InterestRate, offer.InterestRate)
	assert.InDelta(t, finance.MonthlyPayment(50000, base.InterestRate, base.TermMonths), offer.MonthlyPayment, 1e-9)
	assert.Equal(t, base.ID, offer.Metadata["derived_from"])

	// The base offer is a value object; deriving from it changes nothing.
	assert.Equal(t, 100000.0, base.RecommendedAmount)
}

func TestRecalculateOfferOutOfRange(t *testing.T) {
	svc := NewOfferServiceAt(testPolicy(), testClock)
	ds := testDataset()

	base := svc.GenerateOffer(ds, eligibleResult(), 100000, 0)
	assert.NotNil(t, base)

	assert.Nil(t, svc.RecalculateOffer(*base, base.MaxLoanAmount+1, ds.IncomeRecords))
	assert.Nil(t, svc.RecalculateOffer(*base, 0, ds.IncomeRecords))
	assert.Nil(t, svc.RecalculateOffer(*base, -500, ds.IncomeRecords))
}

func TestRecalculateOfferMinimumProcessingFee(t *testing.T) {
	svc := NewOfferServiceAt(testPolicy(), testClock)
	ds := testDataset()

	base := svc.GenerateOffer(ds, eligibleResult(), 100000, 0)
	assert.NotNil(t, base)

	offer := svc.RecalculateOffer(*base, 10000, ds.IncomeRecords)

	assert.NotNil(t, offer)
	// 2% of 10,000 is below the fixed minimum.
	assert.Equal(t, 500.0, offer.ProcessingFee)
}

func TestMaxAffordableLoanCappedByPolicy(t *testing.T) {
	policy := testPolicy()
	policy.LendingPolicy.MaxLoanAmount = 200000
	svc := NewOfferServiceAt(policy, testClock)

	max := svc.MaxAffordableLoan(testDataset().IncomeRecords)

	assert.Equal(t, 200000.0, max)
}
