package utils

import "github.com/shikoli-turnkeyafrica/mkopo/dto"

// Observations at or below the low extraction constant carry no real
// signal and must not dilute a good observation's confidence.
const trivialConfidence = LowConfidence

// MergeIdentityRecords combines the front and back observations of one
// identity document into a single canonical record. The higher-confidence
// observation is primary; its blank fields are filled from the secondary.
// The merged confidence is the arithmetic mean only when both sides
// contributed non-trivially, otherwise the primary's confidence stands.
// The caller re-runs validation on the merged result.
func MergeIdentityRecords(a, b dto.IdentityRecord) dto.IdentityRecord {
	primary, secondary := a, b
	if b.Confidence > a.Confidence {
		primary, secondary = b, a
	}

	merged := primary
	if merged.FullName == "" {
		merged.FullName = secondary.FullName
	}
	if merged.IDNumber == "" {
		merged.IDNumber = secondary.IDNumber
	}
	if merged.DateOfBirth == "" {
		merged.DateOfBirth = secondary.DateOfBirth
	}
	if merged.ExpiryDate == "" {
		merged.ExpiryDate = secondary.ExpiryDate
	}
	if merged.PlaceOfBirth == "" {
		merged.PlaceOfBirth = secondary.PlaceOfBirth
	}

	if primary.Confidence > trivialConfidence && secondary.Confidence > trivialConfidence {
		merged.Confidence = (primary.Confidence + secondary.Confidence) / 2
	}

	if secondary.CapturedAt.After(merged.CapturedAt) {
		merged.CapturedAt = secondary.CapturedAt
	}

	return merged
}
