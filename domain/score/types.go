package score

// ConstraintDiagnostics is the structured result of one constraint
// validation round trip.
//
// Invariants: 0 <= ConstraintsPassing <= ConstraintsTotal, and when counts
// are reconstructed from raw report text,
// ConstraintsPassing = ConstraintsTotal - len(Violations).
type ConstraintDiagnostics struct {
	Conforms           bool     `json:"conforms"`
	Violations         []string `json:"violations"`
	ConstraintsTotal   int      `json:"constraints_total"`
	ConstraintsPassing int      `json:"constraints_passing"`

	// RawReport preserves the validator's diagnostic text verbatim for audit.
	RawReport string `json:"raw_report,omitempty"`
}

// ViolationCount returns the number of recorded violations.
func (d *ConstraintDiagnostics) ViolationCount() int {
	return len(d.Violations)
}

// ScoreSet is the multi-dimensional quality verdict for one validation run.
// All four values live in [0,1]; Overall is the fixed convex combination
// 0.4*Integrity + 0.3*Fairness + 0.3*FHIRCompliance.
type ScoreSet struct {
	Integrity      float64 `json:"integrity"`
	Fairness       float64 `json:"fairness"`
	FHIRCompliance float64 `json:"fhir_compliance"`
	Overall        float64 `json:"overall"`
}

// Feedback carries the tiered human-readable verdict per dimension.
type Feedback struct {
	Integrity      string `json:"integrity"`
	Fairness       string `json:"fairness"`
	FHIRCompliance string `json:"fhir_compliance"`
	Overall        string `json:"overall"`
}
