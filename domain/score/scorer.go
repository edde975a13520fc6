package score

import (
	"strings"

	"ocev/domain/evidence"
)

// Fixed overall weights. Not configurable.
const (
	weightIntegrity  = 0.4
	weightFairness   = 0.3
	weightCompliance = 0.3
)

// fairViolationPenalty is deducted per FAIR-related violation; three or
// more such violations floor the fairness score at zero.
const fairViolationPenalty = 0.33

// Scorer derives the quality verdict from constraint diagnostics and the
// raw records. Stateless; safe for concurrent use.
type Scorer struct{}

// NewScorer creates a scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score computes all three sub-scores plus the weighted overall score.
// An empty record set yields an all-zero ScoreSet: there is nothing to
// judge, and a zero verdict must stay a convex combination of the parts.
func (s *Scorer) Score(diags ConstraintDiagnostics, records []evidence.Record) ScoreSet {
	if len(records) == 0 {
		return ScoreSet{}
	}

	integrity := s.Integrity(diags)
	fairness := s.Fairness(diags)
	compliance := s.ResourceCompliance(records)

	return ScoreSet{
		Integrity:      integrity,
		Fairness:       fairness,
		FHIRCompliance: compliance,
		Overall:        weightIntegrity*integrity + weightFairness*fairness + weightCompliance*compliance,
	}
}

// Integrity is the constraint pass rate: passing/total, 0 when total is 0.
func (s *Scorer) Integrity(diags ConstraintDiagnostics) float64 {
	if diags.ConstraintsTotal == 0 {
		return 0
	}
	return float64(diags.ConstraintsPassing) / float64(diags.ConstraintsTotal)
}

// Fairness penalizes violations that mention FAIR provenance fields
// (license, identifier, version). 1 - 0.33*count, exactly zero at three
// or more such violations (3*0.33 alone would leave 0.01).
func (s *Scorer) Fairness(diags ConstraintDiagnostics) float64 {
	count := 0
	for _, v := range diags.Violations {
		lower := strings.ToLower(v)
		if strings.Contains(lower, "license") ||
			strings.Contains(lower, "identifier") ||
			strings.Contains(lower, "version") {
			count++
		}
	}
	if count >= 3 {
		return 0
	}
	return 1 - float64(count)*fairViolationPenalty
}

// ResourceCompliance checks the structural shape of each raw record,
// independent of the constraint engine: declared status, a statistic or
// p-value block, identifier plus license, and a recognized test type.
// Returns the per-record check fraction averaged over all records.
func (s *Scorer) ResourceCompliance(records []evidence.Record) float64 {
	if len(records) == 0 {
		return 0
	}
	sum := 0.0
	for i := range records {
		sum += complianceChecks(&records[i])
	}
	return sum / float64(len(records))
}

func complianceChecks(rec *evidence.Record) float64 {
	passed := 0
	if rec.Status != "" {
		passed++
	}
	if rec.HasStatisticBlock() {
		passed++
	}
	if rec.HasFAIRCore() {
		passed++
	}
	if rec.TestType.Known() {
		passed++
	}
	return float64(passed) / 4.0
}
