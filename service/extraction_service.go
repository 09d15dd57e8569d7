package service

import (
	"github.com/google/uuid"
	"github.com/shikoli-turnkeyafrica/mkopo/config"
	"github.com/shikoli-turnkeyafrica/mkopo/dto"
	"github.com/shikoli-turnkeyafrica/mkopo/utils"
)

// ExtractionService turns raw inference-engine text into validated,
// merged records and assembles application datasets. It is stateless;
// all application state lives in the records it returns.
type ExtractionService struct {
	policy *config.PolicyConfiguration
}

func NewExtractionService(policy *config.PolicyConfiguration) *ExtractionService {
	return &ExtractionService{policy: policy}
}

// ExtractIdentity parses the front and back inference responses of one
// identity document and merges them into a single validated record.
func (s *ExtractionService) ExtractIdentity(frontText, backText string) dto.IdentityRecord {
	front := utils.ParseIdentityDocument(frontText, dto.DocSideIdentityFront)
	back := utils.ParseIdentityDocument(backText, dto.DocSideIdentityBack)

	merged := utils.MergeIdentityRecords(front, back)
	return merged.Validated(s.policy.LendingPolicy.MinExtractionConfidence)
}

// ExtractIncome parses one pay document inference response into a
// validated income record.
func (s *ExtractionService) ExtractIncome(text string) dto.IncomeRecord {
	rec := utils.ParseIncomeDocument(text)
	return rec.Validated(s.policy.LendingPolicy.MinExtractionConfidence)
}

// BuildDataset assembles an application dataset from its records and
// recomputes the derived fields. Call it again after any record changes;
// the derived fields are never patched in place.
func (s *ExtractionService) BuildDataset(identity dto.IdentityRecord, incomes []dto.IncomeRecord) dto.ApplicationDataset {
	ds := dto.ApplicationDataset{
		ID:            uuid.NewString(),
		Identity:      identity,
		IncomeRecords: incomes,
	}

	// Overall confidence is the mean across all records, identity
	// included. Completeness means the rule engine has enough material
	// to produce a meaningful verdict.
	sum := identity.Confidence
	count := 1
	validIncomes := 0
	for _, rec := range incomes {
		sum += rec.Confidence
		count++
		if rec.IsValid {
			validIncomes++
		}
	}
	ds.OverallConfidence = sum / float64(count)
	ds.IsComplete = identity.IsValid && validIncomes >= s.policy.LendingPolicy.MinIncomeRecords

	return ds
}
