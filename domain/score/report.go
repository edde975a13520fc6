package score

import (
	"strings"
)

// Total-constraint reconstruction constants. The validator's text report
// does not carry native pass/total counts, so totals are estimated from
// violation lines with a conservative floor: a run is never scored against
// fewer than minConstraintFloor constraints. These values are a behavioral
// contract; changing them changes every integrity score.
const (
	assumedPassedConstraints = 5
	minConstraintFloor       = 10
)

// ParseReport normalizes a validator's raw output into structured
// diagnostics. A report line counts as a violation marker when it contains
// "Constraint Violation" or "Message:". Text with no recognizable markers
// parses as zero violations against the floor-of-10 total, a deliberately
// lenient default. Parsing is idempotent: same text, same diagnostics.
func ParseReport(conforms bool, rawReport string) ConstraintDiagnostics {
	violations := scanViolationLines(rawReport)
	total, passing := ReconstructCounts(len(violations))

	return ConstraintDiagnostics{
		Conforms:           conforms,
		Violations:         violations,
		ConstraintsTotal:   total,
		ConstraintsPassing: passing,
		RawReport:          rawReport,
	}
}

// ReconstructCounts estimates total and passing constraint counts from a
// violation count. This is the single home of the +5/floor-10 contract;
// callers that obtain violations outside the text scan (e.g. native
// engine lists) must use it so scores stay comparable.
func ReconstructCounts(violations int) (total, passing int) {
	total = violations + assumedPassedConstraints
	if total < minConstraintFloor {
		total = minConstraintFloor
	}
	return total, total - violations
}

func scanViolationLines(report string) []string {
	violations := []string{}
	for _, line := range strings.Split(report, "\n") {
		if strings.Contains(line, "Constraint Violation") || strings.Contains(line, "Message:") {
			violations = append(violations, strings.TrimSpace(line))
		}
	}
	return violations
}
