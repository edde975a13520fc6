package report

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"ocev/domain/evidence"
	"ocev/domain/score"
	"ocev/ports"
)

func sampleRun() *ports.RunResult {
	p := 0.021
	return &ports.RunResult{
		RunID:        "0190f0a2-run",
		EvidenceType: evidence.TestTTest,
		Records: []evidence.Record{{
			ID:       "rec-1",
			Status:   "final",
			TestType: evidence.TestTTest,
			PValue:   &p,
		}},
		Diagnostics: score.ConstraintDiagnostics{
			Conforms:           false,
			Violations:         []string{"Message: missing license"},
			ConstraintsTotal:   10,
			ConstraintsPassing: 9,
			RawReport:          "Conforms: False",
		},
		Scores: score.ScoreSet{
			Integrity:      0.9,
			Fairness:       0.67,
			FHIRCompliance: 0.5,
			Overall:        0.711,
		},
		Feedback:  score.GenerateFeedback(score.ScoreSet{Integrity: 0.9, Fairness: 0.67, FHIRCompliance: 0.5, Overall: 0.711}),
		CreatedAt: time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC),
	}
}

func TestJSONReportRoundTrips(t *testing.T) {
	gen := NewGenerator()
	data, err := gen.JSON(sampleRun())
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
}

func TestTurtleReportCarriesScores(t *testing.T) {
	gen := NewGenerator()
	ttl := gen.Turtle(sampleRun())

	for _, want := range []string{
		classValidationResult,
		propOverallScore,
		`"0.711"`,
		`"false"`,
		propConstraintsTotal,
	} {
		if !strings.Contains(ttl, want) {
			t.Errorf("turtle report missing %q:\n%s", want, ttl)
		}
	}
}

func TestMarkdownReportSections(t *testing.T) {
	gen := NewGenerator()
	md := gen.Markdown(sampleRun())

	for _, want := range []string{
		"# Clinical Evidence Validation Report",
		"0190f0a2-run",
		"## Executive Summary",
		"0.71/1.00",
		"Constraint conformance: FAIL",
		"Constraints passing: 9/10",
		"Message: missing license",
		"## Feedback",
		"Records: 1",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown report missing %q", want)
		}
	}
}

func TestHTMLReportIsCompletePage(t *testing.T) {
	gen := NewGenerator()
	page := string(gen.HTML(sampleRun()))

	if !strings.Contains(page, "<html") || !strings.Contains(page, "</html>") {
		t.Error("expected a complete HTML page")
	}
	if !strings.Contains(page, "Clinical Evidence Validation Report") {
		t.Error("title heading missing")
	}
	if !strings.Contains(page, "<table") {
		t.Error("metric table not rendered")
	}
}
