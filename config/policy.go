package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// PolicyConfiguration holds every tunable lending parameter. It is loaded
// once at startup, is immutable afterwards, and is passed by pointer into
// every component that needs it -- there is no ambient singleton, so tests
// can substitute arbitrary fixtures.
type PolicyConfiguration struct {
	LendingPolicy   LendingPolicy         `json:"lendingPolicy"`
	ValidationRules map[string]RuleConfig `json:"validationRules"`
	LoanTerms       LoanTermsConfig       `json:"loanTerms"`
	ErrorMessages   map[string]string     `json:"errorMessages"`
}

// LendingPolicy carries the bank-wide thresholds and defaults.
type LendingPolicy struct {
	MaxDebtServiceRatio     float64 `json:"maxDebtServiceRatio"` // percent
	MinApplicantAge         int     `json:"minApplicantAge"`
	MaxApplicantAge         int     `json:"maxApplicantAge"`
	MinMonthlySalary        float64 `json:"minMonthlySalary"`
	MaxLoanAmount           float64 `json:"maxLoanAmount"`
	DefaultInterestRate     float64 `json:"defaultInterestRate"` // annual, percent
	DefaultTermMonths       int     `json:"defaultTermMonths"`
	PayslipRecencyMonths    int     `json:"payslipRecencyMonths"`
	MinExtractionConfidence float64 `json:"minExtractionConfidence"`
	ConservativeOfferRatio  float64 `json:"conservativeOfferRatio"`
	MinIncomeRecords        int     `json:"minIncomeRecords"`
	NameMatchThreshold      float64 `json:"nameMatchThreshold"`
	ProcessingFeeRate       float64 `json:"processingFeeRate"`
	MinProcessingFee        float64 `json:"minProcessingFee"`
	MaxProcessingFee        float64 `json:"maxProcessingFee"`
	OfferValidityHours      int     `json:"offerValidityHours"`
}

// RuleConfig enables and orders one validation rule. Lower priority runs
// first.
type RuleConfig struct {
	Enabled  bool `json:"enabled"`
	Priority int  `json:"priority"`
}

// LoanTermsConfig enumerates the terms the lender actually sells and the
// rate attached to each. Interest rate keys are term months as strings.
type LoanTermsConfig struct {
	AvailableTerms []int              `json:"availableTerms"`
	DefaultTerm    int                `json:"defaultTerm"`
	InterestRates  map[string]float64 `json:"interestRates"`
}

// RateForTerm looks up the annual interest rate for a term, falling back
// to the policy default when the term is unmapped.
func (p *PolicyConfiguration) RateForTerm(termMonths int) float64 {
	if rate, ok := p.LoanTerms.InterestRates[strconv.Itoa(termMonths)]; ok {
		return rate
	}
	return p.LendingPolicy.DefaultInterestRate
}

// IsAvailableTerm reports whether the term is one the lender offers.
func (p *PolicyConfiguration) IsAvailableTerm(termMonths int) bool {
	for _, t := range p.LoanTerms.AvailableTerms {
		if t == termMonths {
			return true
		}
	}
	return false
}

// RuleFor returns the configuration block for a rule name. Unconfigured
// rules are disabled; a rule must be named in the policy to run.
func (p *PolicyConfiguration) RuleFor(name string) RuleConfig {
	cfg, ok := p.ValidationRules[name]
	if !ok {
		return RuleConfig{Enabled: false}
	}
	return cfg
}

// MessageFor returns the error message template configured for a rule,
// or the given fallback when the policy does not override it.
func (p *PolicyConfiguration) MessageFor(rule, fallback string) string {
	if msg, ok := p.ErrorMessages[rule]; ok && msg != "" {
		return msg
	}
	return fallback
}

// policySchema is the JSON Schema the policy file must satisfy before it
// is decoded. Structural errors at load time are fatal to the engine.
const policySchema = `{
  "type": "object",
  "required": ["lendingPolicy", "validationRules", "loanTerms", "errorMessages"],
  "properties": {
    "lendingPolicy": {
      "type": "object",
      "required": [
        "maxDebtServiceRatio", "minApplicantAge", "maxApplicantAge",
        "minMonthlySalary", "maxLoanAmount", "defaultInterestRate",
        "defaultTermMonths", "payslipRecencyMonths",
        "minExtractionConfidence", "conservativeOfferRatio"
      ],
      "properties": {
        "maxDebtServiceRatio": {"type": "number", "exclusiveMinimum": 0, "maximum": 100},
        "minApplicantAge": {"type": "integer", "minimum": 18},
        "maxApplicantAge": {"type": "integer", "maximum": 120},
        "minMonthlySalary": {"type": "number", "minimum": 0},
        "maxLoanAmount": {"type": "number", "exclusiveMinimum": 0},
        "defaultInterestRate": {"type": "number", "minimum": 0},
        "defaultTermMonths": {"type": "integer", "exclusiveMinimum": 0},
        "payslipRecencyMonths": {"type": "integer", "exclusiveMinimum": 0},
        "minExtractionConfidence": {"type": "number", "minimum": 0, "maximum": 1},
        "conservativeOfferRatio": {"type": "number", "exclusiveMinimum": 0, "maximum": 1},
        "minIncomeRecords": {"type": "integer", "minimum": 0},
        "nameMatchThreshold": {"type": "number", "minimum": 0, "maximum": 1},
        "processingFeeRate": {"type": "number", "minimum": 0},
        "minProcessingFee": {"type": "number", "minimum": 0},
        "maxProcessingFee": {"type": "number", "minimum": 0},
        "offerValidityHours": {"type": "integer", "minimum": 0}
      }
    },
    "validationRules": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "required": ["enabled", "priority"],
        "properties": {
          "enabled": {"type": "boolean"},
          "priority": {"type": "integer"}
        }
      }
    },
    "loanTerms": {
      "type": "object",
      "required": ["availableTerms", "defaultTerm", "interestRates"],
      "properties": {
        "availableTerms": {"type": "array", "items": {"type": "integer", "exclusiveMinimum": 0}, "minItems": 1},
        "defaultTerm": {"type": "integer", "exclusiveMinimum": 0},
        "interestRates": {"type": "object", "additionalProperties": {"type": "number", "minimum": 0}}
      }
    },
    "errorMessages": {
      "type": "object",
      "additionalProperties": {"type": "string"}
    }
  }
}`

// LoadPolicy reads, schema-validates and decodes the lending policy file.
// Any failure here is fatal to engine initialization; there is no safe
// default policy to fall back to.
func LoadPolicy(path string) (*PolicyConfiguration, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file %s: %w", path, err)
	}
	return ParsePolicy(raw)
}

// ParsePolicy validates and decodes raw policy JSON.
func ParsePolicy(raw []byte) (*PolicyConfiguration, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("policy-schema.json", bytes.NewReader([]byte(policySchema))); err != nil {
		return nil, fmt.Errorf("failed to register policy schema: %w", err)
	}
	schema, err := compiler.Compile("policy-schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile policy schema: %w", err)
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("policy file is not valid JSON: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("policy file does not match schema: %w", err)
	}

	var policy PolicyConfiguration
	if err := json.Unmarshal(raw, &policy); err != nil {
		return nil, fmt.Errorf("failed to decode policy file: %w", err)
	}

	if err := policy.sanityCheck(); err != nil {
		return nil, err
	}
	return &policy, nil
}

// sanityCheck catches cross-field mistakes the schema cannot express.
func (p *PolicyConfiguration) sanityCheck() error {
	lp := p.LendingPolicy
	if lp.MinApplicantAge >= lp.MaxApplicantAge {
		return fmt.Errorf("minApplicantAge %d must be below maxApplicantAge %d", lp.MinApplicantAge, lp.MaxApplicantAge)
	}
	if lp.MinProcessingFee > lp.MaxProcessingFee && lp.MaxProcessingFee > 0 {
		return fmt.Errorf("minProcessingFee %.2f exceeds maxProcessingFee %.2f", lp.MinProcessingFee, lp.MaxProcessingFee)
	}
	if !p.IsAvailableTerm(p.LoanTerms.DefaultTerm) {
		return fmt.Errorf("defaultTerm %d is not in availableTerms", p.LoanTerms.DefaultTerm)
	}
	return nil
}
