package utils

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shikoli-turnkeyafrica/mkopo/dto"
)

// Extraction confidence is a coarse gate, not a calibrated probability:
// records where the minimally required fields were found get the base
// constant, everything else gets the low constant and fails the policy
// threshold downstream.
const (
	BaseConfidence = 0.8
	LowConfidence  = 0.1
)

// ParseIncomeDocument extracts a structured income record from the raw
// inference-engine response for one pay document. Extraction is total:
// fields that cannot be found degrade to empty strings or zero.
func ParseIncomeDocument(text string) dto.IncomeRecord {
	rec := dto.IncomeRecord{
		EmployeeName: extractField(text, employeeNamePatterns),
		EmployerName: extractField(text, employerNamePatterns),
		GrossSalary:  extractAmount(text, grossSalaryPatterns),
		NetSalary:    extractAmount(text, netSalaryPatterns),
		PayPeriod:    NormalizePeriod(extractField(text, payPeriodPatterns)),
		Deductions:   extractLineItems(text, deductionSection, knownDeductions),
		Allowances:   extractLineItems(text, allowanceSection, knownAllowances),
		Confidence:   LowConfidence,
		CapturedAt:   time.Now(),
	}

	// Name plus a salary figure is the minimum for a usable observation.
	if rec.EmployeeName != "" && (rec.GrossSalary > 0 || rec.NetSalary > 0) {
		rec.Confidence = BaseConfidence
	}

	return rec
}

// Ordered per-field patterns: the markdown-aware pattern the inference
// engine usually produces first, a looser plain-text fallback second.
// The first match wins.
var (
	employeeNamePatterns = compilePatterns(
		`(?i)\*\*employee\s*name:?\*\*\s*:?\s*([A-Za-z][A-Za-z .']+)`,
		`(?i)employee\s*(?:name)?\s*[:\-]\s*([A-Za-z][A-Za-z .']+)`,
		`(?i)\bname\s*[:\-]\s*([A-Za-z][A-Za-z .']+)`,
	)

	employerNamePatterns = compilePatterns(
		`(?i)\*\*employer(?:\s*name)?:?\*\*\s*:?\s*([A-Za-z0-9][A-Za-z0-9 .,&()'\-]+)`,
		`(?i)employer\s*(?:name)?\s*[:\-]\s*([A-Za-z0-9][A-Za-z0-9 .,&()'\-]+)`,
		`(?i)company\s*(?:name)?\s*[:\-]\s*([A-Za-z0-9][A-Za-z0-9 .,&()'\-]+)`,
	)

	grossSalaryPatterns = compilePatterns(
		`(?i)\*\*gross\s*(?:pay|salary|income):?\*\*\s*:?\s*(?:KES|Ksh\.?|KSH)?\s*([0-9,]+\.?\d*)`,
		`(?i)gross\s*(?:pay|salary|income|earnings)\s*[:\-]?\s*(?:KES|Ksh\.?|KSH)?\s*([0-9,]+\.?\d*)`,
		`(?i)total\s*earnings\s*[:\-]?\s*(?:KES|Ksh\.?|KSH)?\s*([0-9,]+\.?\d*)`,
	)

	netSalaryPatterns = compilePatterns(
		`(?i)\*\*net\s*(?:pay|salary|income):?\*\*\s*:?\s*(?:KES|Ksh\.?|KSH)?\s*([0-9,]+\.?\d*)`,
		`(?i)net\s*(?:pay|salary|income|amount)\s*[:\-]?\s*(?:KES|Ksh\.?|KSH)?\s*([0-9,]+\.?\d*)`,
		`(?i)take\s*home\s*(?:pay)?\s*[:\-]?\s*(?:KES|Ksh\.?|KSH)?\s*([0-9,]+\.?\d*)`,
	)

	payPeriodPatterns = compilePatterns(
		`(?i)\*\*pay\s*(?:period|month):?\*\*\s*:?\s*([A-Za-z0-9 ,/\-]+)`,
		`(?i)pay\s*(?:period|month)\s*[:\-]\s*([A-Za-z0-9 ,/\-]+)`,
		`(?i)(?:salary|pay\s*slip)\s*for\s*(?:the\s*month\s*of\s*)?([A-Za-z]+[ ,\-]*\d{4})`,
		`(?i)period\s*[:\-]\s*([A-Za-z0-9 ,/\-]+)`,
	)
)

// Section headers and keyword fallbacks for itemized amounts. When the
// response carries a labeled section we only scan inside it; otherwise we
// hunt for the known Kenyan payslip line items anywhere in the text.
var (
	deductionSection = regexp.MustCompile(`(?i)(?:\*\*)?deductions?:?(?:\*\*)?\s*\n`)
	allowanceSection = regexp.MustCompile(`(?i)(?:\*\*)?(?:allowances?|benefits?):?(?:\*\*)?\s*\n`)

	// A new labeled section ends the current one.
	sectionTerminator = regexp.MustCompile(`(?im)^\s*(?:\*\*)?(?:deductions?|allowances?|benefits?|earnings?|summary|totals?|net\s*pay|gross\s*pay):?(?:\*\*)?\s*$`)

	knownDeductions = []string{
		"PAYE", "NSSF", "NHIF", "SHA", "SHIF", "Loan", "HELB",
		"Sacco", "Welfare", "Insurance", "Pension",
	}
	knownAllowances = []string{
		"Housing", "House", "Transport", "Commuter",
		"Medical", "Airtime", "Leave", "Responsibility",
	}

	lineItemPattern = regexp.MustCompile(`(?m)^\s*[-*]?\s*([A-Za-z][A-Za-z ./&'\-]*?)\s*[:\-]\s*(?:KES|Ksh\.?|KSH)?\s*([0-9,]+\.?\d*)\s*$`)
)

// extractField returns the first submatch of the first pattern that hits.
func extractField(text string, patterns []*regexp.Regexp) string {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(text); len(m) > 1 {
			return cleanFieldValue(m[1])
		}
	}
	return ""
}

// extractAmount parses the first matching monetary figure, stripping
// thousands separators. Unparsable numbers degrade to 0.
func extractAmount(text string, patterns []*regexp.Regexp) float64 {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(text); len(m) > 1 {
			if amount, ok := ParseAmount(m[1]); ok {
				return amount
			}
		}
	}
	return 0
}

// ParseAmount converts a raw money string to a float, tolerating commas
// and currency markers.
func ParseAmount(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	s = strings.NewReplacer(",", "", "KES", "", "Ksh", "", "KSH", "", "/=", "", "/-", "").Replace(s)
	s = strings.TrimSpace(s)
	amount, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return amount, true
}

// extractLineItems pulls name→amount pairs out of the labeled section when
// one exists, otherwise falls back to scanning the whole text for the
// known line-item keywords.
func extractLineItems(text string, section *regexp.Regexp, keywords []string) map[string]float64 {
	items := make(map[string]float64)

	if body := isolateSection(text, section); body != "" {
		for _, m := range lineItemPattern.FindAllStringSubmatch(body, -1) {
			name := cleanFieldValue(m[1])
			if name == "" || isSummaryLabel(name) {
				continue
			}
			if amount, ok := ParseAmount(m[2]); ok && amount > 0 {
				items[name] = amount
			}
		}
		if len(items) > 0 {
			return items
		}
	}

	// Fallback: known keywords anywhere in the text.
	for _, kw := range keywords {
		re := regexp.MustCompile(`(?i)\b(` + regexp.QuoteMeta(kw) + `[a-z ]*?)\s*[:\-]\s*(?:KES|Ksh\.?|KSH)?\s*([0-9,]+\.?\d*)`)
		if m := re.FindStringSubmatch(text); len(m) > 2 {
			name := cleanFieldValue(m[1])
			if amount, ok := ParseAmount(m[2]); ok && amount > 0 {
				items[name] = amount
			}
		}
	}

	return items
}

// isolateSection returns the text between a section header and the next
// section header (or end of text). Empty when the header is absent.
func isolateSection(text string, header *regexp.Regexp) string {
	loc := header.FindStringIndex(text)
	if loc == nil {
		return ""
	}
	body := text[loc[1]:]
	if end := sectionTerminator.FindStringIndex(body); end != nil {
		body = body[:end[0]]
	}
	return body
}

// isSummaryLabel rejects total rows that would otherwise be captured as a
// deduction or allowance in their own right.
func isSummaryLabel(name string) bool {
	lower := strings.ToLower(name)
	for _, label := range []string{"total", "gross", "net", "subtotal"} {
		if strings.Contains(lower, label) {
			return true
		}
	}
	return false
}

// cleanFieldValue trims surrounding noise from a captured field.
func cleanFieldValue(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "*:-.,")
	s = regexp.MustCompile(`\s+`).ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// monthNames maps month words to their calendar number for period
// normalization.
var monthNames = map[string]int{
	"january": 1, "jan": 1,
	"february": 2, "feb": 2,
	"march": 3, "mar": 3,
	"april": 4, "apr": 4,
	"may":  5,
	"june": 6, "jun": 6,
	"july": 7, "jul": 7,
	"august": 8, "aug": 8,
	"september": 9, "sep": 9, "sept": 9,
	"october": 10, "oct": 10,
	"november": 11, "nov": 11,
	"december": 12, "dec": 12,
}

var (
	wordPeriodPattern    = regexp.MustCompile(`(?i)\b([A-Za-z]+)[\s,\-]+(\d{4})\b`)
	numericPeriodPattern = regexp.MustCompile(`\b(\d{1,2})[/\-](\d{4})\b`)
	canonicalPeriod      = regexp.MustCompile(`^\d{4}-\d{2}$`)
)

// NormalizePeriod converts "Month Year" words and MM/YYYY figures to the
// canonical "YYYY-MM". Unrecognized formats pass through unchanged and
// are treated as invalid downstream.
func NormalizePeriod(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if canonicalPeriod.MatchString(s) {
		return s
	}

	if m := wordPeriodPattern.FindStringSubmatch(s); len(m) > 2 {
		if month, ok := monthNames[strings.ToLower(m[1])]; ok {
			year, _ := strconv.Atoi(m[2])
			return formatPeriod(year, month)
		}
	}

	if m := numericPeriodPattern.FindStringSubmatch(s); len(m) > 2 {
		month, _ := strconv.Atoi(m[1])
		year, _ := strconv.Atoi(m[2])
		if month >= 1 && month <= 12 {
			return formatPeriod(year, month)
		}
	}

	return s
}

func formatPeriod(year, month int) string {
	return strconv.Itoa(year) + "-" + twoDigit(month)
}

func twoDigit(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
