package dto

import (
	"regexp"
	"strings"
	"time"
)

// DocumentSide identifies which physical side of an identity document a
// piece of extracted text came from.
type DocumentSide string

const (
	DocSideIdentityFront DocumentSide = "identity_front"
	DocSideIdentityBack  DocumentSide = "identity_back"
	DocTypeIncome        DocumentSide = "income"
)

// IdentityRecord holds the fields extracted from one (or two merged)
// identity document observations. Records are immutable snapshots: the
// Validated constructor returns a new copy, it never mutates in place.
type IdentityRecord struct {
	FullName     string    `json:"full_name"`
	IDNumber     string    `json:"id_number"`
	DateOfBirth  string    `json:"date_of_birth"`
	ExpiryDate   string    `json:"expiry_date"`
	PlaceOfBirth string    `json:"place_of_birth"`
	Confidence   float64   `json:"confidence"`
	IsValid      bool      `json:"is_valid"`
	CapturedAt   time.Time `json:"captured_at"`
}

var idNumberPattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9\-]{4,19}$`)

// Validated returns a copy of the record with IsValid recomputed against
// the policy's minimum extraction confidence. Safe to call repeatedly.
func (r IdentityRecord) Validated(minConfidence float64) IdentityRecord {
	out := r
	out.IsValid = r.hasPlausibleName() &&
		idNumberPattern.MatchString(strings.ToUpper(strings.TrimSpace(r.IDNumber))) &&
		r.Confidence >= minConfidence
	return out
}

func (r IdentityRecord) hasPlausibleName() bool {
	words := strings.Fields(r.FullName)
	if len(words) < 2 {
		return false
	}
	for _, w := range words {
		if len(w) < 2 {
			return false
		}
	}
	return true
}

// IsBlank reports whether no field of the record carries data.
func (r IdentityRecord) IsBlank() bool {
	return r.FullName == "" && r.IDNumber == "" && r.DateOfBirth == "" &&
		r.ExpiryDate == "" && r.PlaceOfBirth == ""
}

// IncomeRecord holds the fields extracted from one pay document. Each
// capture is an independent monthly observation; retries supersede a
// record rather than editing it.
type IncomeRecord struct {
	EmployeeName string             `json:"employee_name"`
	EmployerName string             `json:"employer_name"`
	GrossSalary  float64            `json:"gross_salary"`
	NetSalary    float64            `json:"net_salary"`
	PayPeriod    string             `json:"pay_period"` // "YYYY-MM"
	Deductions   map[string]float64 `json:"deductions"`
	Allowances   map[string]float64 `json:"allowances"`
	Confidence   float64            `json:"confidence"`
	IsValid      bool               `json:"is_valid"`
	CapturedAt   time.Time          `json:"captured_at"`
}

// payPeriodBounds keep obviously garbled periods (OCR noise like "0201-13")
// from passing as parseable.
const (
	minPayPeriodYear = 2000
	maxPayPeriodYear = 2100
)

// ParsePayPeriod parses a canonical "YYYY-MM" pay period. Anything the
// extractor could not normalize fails here and is treated as invalid by
// the caller.
func ParsePayPeriod(period string) (time.Time, bool) {
	t, err := time.Parse("2006-01", strings.TrimSpace(period))
	if err != nil {
		return time.Time{}, false
	}
	if t.Year() < minPayPeriodYear || t.Year() > maxPayPeriodYear {
		return time.Time{}, false
	}
	return t, true
}

// Validated returns a copy of the record with IsValid recomputed.
func (r IncomeRecord) Validated(minConfidence float64) IncomeRecord {
	out := r
	_, periodOK := ParsePayPeriod(r.PayPeriod)
	out.IsValid = strings.TrimSpace(r.EmployeeName) != "" &&
		strings.TrimSpace(r.EmployerName) != "" &&
		r.GrossSalary > 0 &&
		r.NetSalary > 0 &&
		r.NetSalary <= r.GrossSalary &&
		periodOK &&
		r.Confidence >= minConfidence
	return out
}

// ApplicationDataset aggregates everything extracted for one application.
// It is rebuilt from its underlying records whenever they change; the
// derived fields are never patched individually.
type ApplicationDataset struct {
	ID                string         `json:"id"`
	Identity          IdentityRecord `json:"identity"`
	IncomeRecords     []IncomeRecord `json:"income_records"`
	OverallConfidence float64        `json:"overall_confidence"`
	IsComplete        bool           `json:"is_complete"`
}

// ValidIncomeRecords returns the income records that passed validation,
// in capture order.
func (d ApplicationDataset) ValidIncomeRecords() []IncomeRecord {
	var out []IncomeRecord
	for _, rec := range d.IncomeRecords {
		if rec.IsValid {
			out = append(out, rec)
		}
	}
	return out
}
