package utils

import (
	"regexp"
	"strings"
	"time"

	"github.com/shikoli-turnkeyafrica/mkopo/dto"
)

// ParseIdentityDocument extracts an identity record from the raw
// inference-engine response for one side of an identity document. The
// front carries the holder's details; the back typically only repeats the
// ID number and expiry, so most fields come back empty for it.
func ParseIdentityDocument(text string, side dto.DocumentSide) dto.IdentityRecord {
	rec := dto.IdentityRecord{
		FullName:     extractField(text, fullNamePatterns),
		IDNumber:     extractIDNumber(text),
		DateOfBirth:  extractField(text, dateOfBirthPatterns),
		ExpiryDate:   extractField(text, expiryDatePatterns),
		PlaceOfBirth: extractField(text, placeOfBirthPatterns),
		Confidence:   LowConfidence,
		CapturedAt:   time.Now(),
	}

	// Name plus an identifying number is the minimum for a usable
	// observation. Back sides rarely carry the name, so a back-only
	// observation stays low-confidence until merged with the front.
	if rec.FullName != "" && rec.IDNumber != "" {
		rec.Confidence = BaseConfidence
	}

	return rec
}

var (
	fullNamePatterns = compilePatterns(
		`(?i)\*\*(?:full\s*)?name:?\*\*\s*:?\s*([A-Za-z][A-Za-z .']+)`,
		`(?i)full\s*names?\s*[:\-]\s*([A-Za-z][A-Za-z .']+)`,
		`(?i)\bnames?\s*[:\-]\s*([A-Za-z][A-Za-z .']+)`,
	)

	idNumberPatterns = compilePatterns(
		`(?i)\*\*(?:national\s*)?id(?:entity)?\s*(?:card\s*)?(?:no|number):?\*\*\s*:?\s*([A-Z0-9][A-Z0-9\-]{4,19})`,
		`(?i)(?:national\s*)?id(?:entity)?\s*(?:card\s*)?(?:no|number)\s*[.:\-]*\s*([A-Z0-9][A-Z0-9\-]{4,19})`,
		`(?i)serial\s*(?:no|number)\s*[.:\-]*\s*([A-Z0-9][A-Z0-9\-]{4,19})`,
	)

	dateOfBirthPatterns = compilePatterns(
		`(?i)\*\*date\s*of\s*birth:?\*\*\s*:?\s*([0-9]{1,2}[./\-][0-9]{1,2}[./\-][0-9]{4}|[0-9]{4}-[0-9]{2}-[0-9]{2})`,
		`(?i)(?:date\s*of\s*birth|d\.?o\.?b\.?)\s*[:\-]?\s*([0-9]{1,2}[./\-][0-9]{1,2}[./\-][0-9]{4}|[0-9]{4}-[0-9]{2}-[0-9]{2})`,
	)

	expiryDatePatterns = compilePatterns(
		`(?i)\*\*(?:date\s*of\s*)?expiry(?:\s*date)?:?\*\*\s*:?\s*([0-9]{1,2}[./\-][0-9]{1,2}[./\-][0-9]{4}|[0-9]{4}-[0-9]{2}-[0-9]{2})`,
		`(?i)(?:date\s*of\s*expiry|expiry\s*date|valid\s*until|expires?)\s*[:\-]?\s*([0-9]{1,2}[./\-][0-9]{1,2}[./\-][0-9]{4}|[0-9]{4}-[0-9]{2}-[0-9]{2})`,
	)

	placeOfBirthPatterns = compilePatterns(
		`(?i)\*\*(?:place|district)\s*of\s*birth:?\*\*\s*:?\s*([A-Za-z][A-Za-z .'\-]+)`,
		`(?i)(?:place|district)\s*of\s*birth\s*[:\-]\s*([A-Za-z][A-Za-z .'\-]+)`,
	)
)

// extractIDNumber upcases the captured value so downstream format checks
// see a canonical form.
func extractIDNumber(text string) string {
	return strings.ToUpper(extractField(text, idNumberPatterns))
}

func compilePatterns(exprs ...string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		patterns = append(patterns, regexp.MustCompile(expr))
	}
	return patterns
}
