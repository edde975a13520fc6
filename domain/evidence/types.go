package evidence

import (
	"strings"
)

// TestType identifies the statistical test an evidence record reports.
type TestType string

const (
	TestTTest              TestType = "t-test"
	TestChiSquare          TestType = "chi-square"
	TestLogisticRegression TestType = "logistic-regression"
	TestKaplanMeier        TestType = "kaplan-meier"
	TestUnknown            TestType = "unknown"
)

// ParseTestType normalizes a test-type identifier. Unrecognized identifiers
// map to TestUnknown rather than an error: a record with an unknown test
// still flows through the pipeline and simply produces a sparser graph.
func ParseTestType(s string) TestType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "t-test", "ttest", "t_test":
		return TestTTest
	case "chi-square", "chisquare", "chi_square", "chi2":
		return TestChiSquare
	case "logistic-regression", "logistic_regression":
		return TestLogisticRegression
	case "kaplan-meier", "kaplan_meier", "survival":
		return TestKaplanMeier
	default:
		return TestUnknown
	}
}

// Known reports whether the test type maps to a known ontology class.
func (t TestType) Known() bool {
	return t != TestUnknown && t != ""
}

// Statistic is one named numeric value reported by a test
// (e.g. the t statistic, a chi-square statistic).
type Statistic struct {
	Type  string  `json:"type,omitempty"`
	Value float64 `json:"value"`
}

// Variable describes a covariate declared by the record.
type Variable struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
}

// Identifier is a provenance identifier such as a DOI.
type Identifier struct {
	System string `json:"system,omitempty"`
	Value  string `json:"value"`
}

// Record is one structured statistical-evidence submission.
// Optional fields use pointers so absence is distinguishable from zero;
// absent fields are skipped during graph construction, never an error.
type Record struct {
	ID         string      `json:"id,omitempty"`
	Status     string      `json:"status,omitempty"`
	TestType   TestType    `json:"test_type"`
	Statistics []Statistic `json:"statistic,omitempty"`
	PValue     *float64    `json:"p_value,omitempty"`
	SampleSize *int        `json:"sample_size,omitempty"`
	Variables  []Variable  `json:"variable,omitempty"`

	// Logistic-regression only.
	Outcome      *bool     `json:"outcome,omitempty"`
	Coefficients []float64 `json:"coefficient,omitempty"`
	OddsRatios   []float64 `json:"odds_ratio,omitempty"`

	// Survival analysis only.
	TimeToEvent []float64 `json:"time_to_event,omitempty"`
	EventStatus []bool    `json:"event_status,omitempty"`

	// FAIR provenance metadata.
	License     string       `json:"license,omitempty"`
	Identifiers []Identifier `json:"identifier,omitempty"`
	Version     string       `json:"version,omitempty"`
}

// PrimaryStatistic returns the first declared statistic value, if any.
func (r *Record) PrimaryStatistic() (float64, bool) {
	if len(r.Statistics) == 0 {
		return 0, false
	}
	return r.Statistics[0].Value, true
}

// PrimaryIdentifier returns the first identifier value, if any.
func (r *Record) PrimaryIdentifier() (string, bool) {
	if len(r.Identifiers) == 0 || r.Identifiers[0].Value == "" {
		return "", false
	}
	return r.Identifiers[0].Value, true
}

// HasStatisticBlock reports whether the record declares any statistic
// value or a p-value. Used by the resource-model compliance check.
func (r *Record) HasStatisticBlock() bool {
	return len(r.Statistics) > 0 || r.PValue != nil
}

// HasFAIRCore reports whether both an identifier and a license are present.
func (r *Record) HasFAIRCore() bool {
	_, hasID := r.PrimaryIdentifier()
	return hasID && r.License != ""
}
