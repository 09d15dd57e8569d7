package service

import (
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shikoli-turnkeyafrica/mkopo/config"
	"github.com/shikoli-turnkeyafrica/mkopo/dto"
	"github.com/shikoli-turnkeyafrica/mkopo/finance"
)

// OfferService turns an eligible validation result into concrete loan
// offers. Offers are value objects: recalculation derives a new offer
// from an existing one, never mutates it.
type OfferService struct {
	policy *config.PolicyConfiguration
	now    func() time.Time
}

func NewOfferService(policy *config.PolicyConfiguration) *OfferService {
	return NewOfferServiceAt(policy, time.Now)
}

// NewOfferServiceAt injects the clock so validity windows are
// reproducible in tests.
func NewOfferServiceAt(policy *config.PolicyConfiguration, now func() time.Time) *OfferService {
	return &OfferService{policy: policy, now: now}
}

// MaxAffordableLoan computes the largest principal the applicant's income
// can carry under the DSR ceiling at the default rate and term, capped by
// the policy's absolute maximum.
func (s *OfferService) MaxAffordableLoan(incomes []dto.IncomeRecord) float64 {
	lp := s.policy.LendingPolicy
	return s.maxAffordable(incomes, lp.DefaultInterestRate, lp.DefaultTermMonths)
}

func (s *OfferService) maxAffordable(incomes []dto.IncomeRecord, annualRate float64, termMonths int) float64 {
	lp := s.policy.LendingPolicy

	var valid []dto.IncomeRecord
	for _, rec := range incomes {
		if rec.IsValid {
			valid = append(valid, rec)
		}
	}

	avgGross := finance.AverageGrossSalary(incomes)
	existing := finance.TotalDeductions(finance.AverageDeductions(valid))

	max := finance.MaxLoanAmount(avgGross, existing, lp.MaxDebtServiceRatio, annualRate, termMonths)
	if max > lp.MaxLoanAmount {
		max = lp.MaxLoanAmount
	}
	return max
}

// GenerateOffer produces an offer for an eligible application, or nil
// when the application is ineligible or carries no income data. Absence
// of an offer is an expected outcome, not an error.
func (s *OfferService) GenerateOffer(ds dto.ApplicationDataset, result dto.ApplicationValidationResult, requestedAmount float64, preferredTerm int) *dto.LoanOffer {
	if !result.IsEligible || len(ds.IncomeRecords) == 0 {
		return nil
	}

	lp := s.policy.LendingPolicy

	term := s.policy.LoanTerms.DefaultTerm
	if preferredTerm > 0 && s.policy.IsAvailableTerm(preferredTerm) {
		term = preferredTerm
	}
	rate := s.policy.RateForTerm(term)

	maxAffordable := s.maxAffordable(ds.IncomeRecords, rate, term)
	if maxAffordable <= 0 {
		return nil
	}

	// Explicit requests are honored up to the affordable maximum; without
	// one, the conservative ratio deliberately under-offers.
	recommended := maxAffordable * lp.ConservativeOfferRatio
	if requestedAmount > 0 {
		recommended = requestedAmount
		if recommended > maxAffordable {
			recommended = maxAffordable
		}
	}

	payment := finance.MonthlyPayment(recommended, rate, term)
	totalRepayment := payment * float64(term)

	var valid []dto.IncomeRecord
	for _, rec := range ds.IncomeRecords {
		if rec.IsValid {
			valid = append(valid, rec)
		}
	}
	avgGross := finance.AverageGrossSalary(ds.IncomeRecords)
	existing := finance.TotalDeductions(finance.AverageDeductions(valid))
	dsr := finance.DebtServiceRatio(avgGross, existing, payment)

	generatedAt := s.now()
	offer := &dto.LoanOffer{
		ID:                uuid.NewString(),
		MaxLoanAmount:     maxAffordable,
		RecommendedAmount: recommended,
		InterestRate:      rate,
		TermMonths:        term,
		MonthlyPayment:    payment,
		TotalRepayment:    totalRepayment,
		TotalInterest:     totalRepayment - recommended,
		ProcessingFee:     s.processingFee(recommended),
		DebtServiceRatio:  dsr,
		ValidUntil:        generatedAt.Add(time.Duration(lp.OfferValidityHours) * time.Hour),
		Conditions:        s.offerConditions(result),
		Warnings:          s.offerWarnings(result, dsr),
		Metadata: map[string]string{
			"dataset_id": ds.ID,
		},
		GeneratedAt: generatedAt,
	}
	return offer
}

// GenerateOfferOptions produces one offer per policy-available term,
// sorted by term ascending. A failure on a single term is logged and
// skipped rather than propagated.
func (s *OfferService) GenerateOfferOptions(ds dto.ApplicationDataset, result dto.ApplicationValidationResult, requestedAmount float64) []dto.LoanOffer {
	terms := make([]int, len(s.policy.LoanTerms.AvailableTerms))
	copy(terms, s.policy.LoanTerms.AvailableTerms)
	sort.Ints(terms)

	var options []dto.LoanOffer
	for _, term := range terms {
		offer := s.GenerateOffer(ds, result, requestedAmount, term)
		if offer == nil {
			log.Printf("Skipping offer option for %d-month term: no viable offer", term)
			continue
		}
		options = append(options, *offer)
	}
	return options
}

// RecalculateOffer derives a new offer from an existing one for a
// user-adjusted principal at the same rate and term. Returns nil when the
// new amount is non-positive or above the base offer's affordable
// maximum; the base offer is never touched.
func (s *OfferService) RecalculateOffer(base dto.LoanOffer, newAmount float64, incomes []dto.IncomeRecord) *dto.LoanOffer {
	if newAmount <= 0 || newAmount > base.MaxLoanAmount {
		return nil
	}

	payment := finance.MonthlyPayment(newAmount, base.InterestRate, base.TermMonths)
	totalRepayment := payment * float64(base.TermMonths)

	var valid []dto.IncomeRecord
	for _, rec := range incomes {
		if rec.IsValid {
			valid = append(valid, rec)
		}
	}
	avgGross := finance.AverageGrossSalary(incomes)
	existing := finance.TotalDeductions(finance.AverageDeductions(valid))
	dsr := finance.DebtServiceRatio(avgGross, existing, payment)

	recalculated := base
	recalculated.ID = uuid.NewString()
	recalculated.RecommendedAmount = newAmount
	recalculated.MonthlyPayment = payment
	recalculated.TotalRepayment = totalRepayment
	recalculated.TotalInterest = totalRepayment - newAmount
	recalculated.ProcessingFee = s.processingFee(newAmount)
	recalculated.DebtServiceRatio = dsr
	recalculated.Warnings = s.dsrWarnings(dsr)
	recalculated.Metadata = map[string]string{
		"derived_from": base.ID,
	}
	recalculated.GeneratedAt = s.now()
	return &recalculated
}

// processingFee is a percentage of the principal clamped to the policy's
// fixed bounds.
func (s *OfferService) processingFee(amount float64) float64 {
	lp := s.policy.LendingPolicy
	fee := amount * lp.ProcessingFeeRate
	if fee < lp.MinProcessingFee {
		fee = lp.MinProcessingFee
	}
	if lp.MaxProcessingFee > 0 && fee > lp.MaxProcessingFee {
		fee = lp.MaxProcessingFee
	}
	return fee
}

func (s *OfferService) offerConditions(result dto.ApplicationValidationResult) []string {
	lp := s.policy.LendingPolicy
	conditions := []string{
		"Offer is subject to verification of the original documents",
		fmt.Sprintf("Offer is valid for %d hours from generation", lp.OfferValidityHours),
	}
	if result.OverallConfidence < lp.MinExtractionConfidence+0.1 {
		conditions = append(conditions,
			"Manual review of the extracted documents is required before disbursement")
	}
	return conditions
}

func (s *OfferService) offerWarnings(result dto.ApplicationValidationResult, dsr float64) []string {
	warnings := s.dsrWarnings(dsr)
	warnings = append(warnings, result.WarningMessages()...)
	return warnings
}

func (s *OfferService) dsrWarnings(dsr float64) []string {
	lp := s.policy.LendingPolicy
	var warnings []string
	if dsr > 0.8*lp.MaxDebtServiceRatio {
		warnings = append(warnings, fmt.Sprintf(
			"Debt service ratio of %.1f%% leaves little room for other obligations", dsr))
	}
	return warnings
}
