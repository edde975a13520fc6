package app

import (
	"context"
	"errors"
	"testing"

	"ocev/adapters/memory"
	"ocev/adapters/shacl"
	"ocev/domain/evidence"
	"ocev/domain/ontology"
	apperrors "ocev/internal/errors"
	"ocev/ports"
)

var testShapes = []byte("@prefix sh: <http://www.w3.org/ns/shacl#> .\n")

func newTestService(t *testing.T, mock *shacl.MockValidator) (*ValidationService, *memory.RunRepository) {
	t.Helper()
	repo := memory.NewRunRepository()
	builder := ontology.NewGraphBuilder(ontology.NewRegistry())
	svc, err := NewValidationService(builder, mock, repo, testShapes, nil, DefaultValidationConfig())
	if err != nil {
		t.Fatalf("NewValidationService: %v", err)
	}
	return svc, repo
}

func testRecords() []evidence.Record {
	p := 0.021
	n := 120
	return []evidence.Record{{
		ID:          "rec-1",
		Status:      "final",
		TestType:    evidence.TestTTest,
		Statistics:  []evidence.Statistic{{Type: "t", Value: 2.31}},
		PValue:      &p,
		SampleSize:  &n,
		License:     "CC-BY-4.0",
		Version:     "1.0.0",
		Identifiers: []evidence.Identifier{{Value: "10.1234/x"}},
	}}
}

func TestValidateRecordsCleanRun(t *testing.T) {
	mock := &shacl.MockValidator{}
	svc, repo := newTestService(t, mock)

	result, err := svc.ValidateRecords(context.Background(), testRecords(), evidence.TestTTest)
	if err != nil {
		t.Fatalf("ValidateRecords: %v", err)
	}

	if result.RunID == "" {
		t.Error("run ID not assigned")
	}
	if !result.Diagnostics.Conforms {
		t.Error("expected conforming diagnostics")
	}
	if result.Scores.Overall != 1.0 {
		t.Errorf("overall = %f, want 1.0", result.Scores.Overall)
	}
	if result.Feedback.Overall == "" {
		t.Error("feedback missing")
	}

	// Result must be retrievable afterwards.
	stored, err := repo.Get(context.Background(), result.RunID)
	if err != nil {
		t.Fatalf("Get stored run: %v", err)
	}
	if stored.RunID != result.RunID {
		t.Error("stored run does not match")
	}

	// The pipeline must have submitted the projected graph.
	if mock.LastDataGraph == nil || mock.LastDataGraph.Len() == 0 {
		t.Error("no data graph submitted to the validator")
	}
}

func TestValidateRecordsParsesViolations(t *testing.T) {
	mock := &shacl.MockValidator{
		Result: &ports.RawValidationResult{
			Conforms: false,
			Report:   "Constraint Violation in shape A\n\tMessage: missing license\n",
		},
	}
	svc, _ := newTestService(t, mock)

	result, err := svc.ValidateRecords(context.Background(), testRecords(), evidence.TestTTest)
	if err != nil {
		t.Fatalf("ValidateRecords: %v", err)
	}

	if got := result.Diagnostics.ViolationCount(); got != 2 {
		t.Errorf("violations = %d, want 2", got)
	}
	if result.Scores.Overall >= 1.0 {
		t.Errorf("overall = %f, should reflect violations", result.Scores.Overall)
	}
	// "missing license" counts against fairness.
	if result.Scores.Fairness >= 1.0 {
		t.Errorf("fairness = %f, should be penalized", result.Scores.Fairness)
	}
}

func TestValidateRecordsUsesNativeViolationsWhenReportUnparseable(t *testing.T) {
	mock := &shacl.MockValidator{
		Result: &ports.RawValidationResult{
			Conforms:   false,
			Violations: []string{"node 0: license missing", "node 0: identifier missing"},
			Report:     "opaque engine output with no markers",
		},
	}
	svc, _ := newTestService(t, mock)

	result, err := svc.ValidateRecords(context.Background(), testRecords(), evidence.TestTTest)
	if err != nil {
		t.Fatalf("ValidateRecords: %v", err)
	}

	if got := result.Diagnostics.ViolationCount(); got != 2 {
		t.Errorf("violations = %d, want the 2 native descriptions", got)
	}
	if result.Diagnostics.ConstraintsTotal != 10 {
		t.Errorf("total = %d, want floor of 10", result.Diagnostics.ConstraintsTotal)
	}
	if result.Diagnostics.ConstraintsPassing != 8 {
		t.Errorf("passing = %d, want 8", result.Diagnostics.ConstraintsPassing)
	}
}

func TestValidateRecordsValidatorFailureAbortsRun(t *testing.T) {
	mock := &shacl.MockValidator{Error: errors.New("connection refused")}
	svc, repo := newTestService(t, mock)

	_, err := svc.ValidateRecords(context.Background(), testRecords(), evidence.TestTTest)
	if err == nil {
		t.Fatal("expected error from validator failure")
	}
	if apperrors.GetCode(err) != apperrors.CodeExternalService {
		t.Errorf("error code = %s, want %s", apperrors.GetCode(err), apperrors.CodeExternalService)
	}

	// Nothing may be persisted for an aborted run.
	runs, err := repo.List(context.Background(), 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("persisted runs = %d, want 0", len(runs))
	}
}

func TestValidateRecordsEmptySetScoresZero(t *testing.T) {
	mock := &shacl.MockValidator{}
	svc, _ := newTestService(t, mock)

	result, err := svc.ValidateRecords(context.Background(), nil, evidence.TestUnknown)
	if err != nil {
		t.Fatalf("ValidateRecords: %v", err)
	}

	s := result.Scores
	if s.Overall != 0 || s.Integrity != 0 || s.Fairness != 0 || s.FHIRCompliance != 0 {
		t.Errorf("empty record set should score all-zero, got %+v", s)
	}
	// Diagnostics still report the constraint floor.
	if result.Diagnostics.ConstraintsTotal != 10 {
		t.Errorf("total = %d, want 10", result.Diagnostics.ConstraintsTotal)
	}
}

func TestValidateRecordsDegradedStatisticLowersScore(t *testing.T) {
	mock := &shacl.MockValidator{}
	svc, _ := newTestService(t, mock)

	// An out-of-range p-value is dropped at decode time; the record runs
	// with no statistic block and loses that compliance check.
	payload := `{"status": "final",
		"statisticalTest": {"coding": [{"code": "t-test"}]},
		"pValue": {"value": 1.5},
		"license": "CC-BY-4.0",
		"identifier": [{"value": "10.1234/x"}]}`
	records, err := evidence.DecodeRecords([]byte(payload))
	if err != nil {
		t.Fatalf("DecodeRecords: %v", err)
	}

	result, err := svc.ValidateRecords(context.Background(), records, evidence.TestTTest)
	if err != nil {
		t.Fatalf("ValidateRecords: %v", err)
	}

	if result.Scores.FHIRCompliance != 0.75 {
		t.Errorf("compliance = %f, want 0.75 with the statistic check lost", result.Scores.FHIRCompliance)
	}
	if result.Scores.Overall >= 1.0 {
		t.Errorf("overall = %f, must reflect the degraded record", result.Scores.Overall)
	}
}

func TestNewValidationServiceRequiresShapes(t *testing.T) {
	builder := ontology.NewGraphBuilder(ontology.NewRegistry())
	_, err := NewValidationService(builder, &shacl.MockValidator{}, memory.NewRunRepository(), nil, nil, DefaultValidationConfig())
	if err == nil {
		t.Fatal("service must refuse to start without a constraint schema")
	}
	if apperrors.GetCode(err) != apperrors.CodeConfigInvalid {
		t.Errorf("error code = %s, want %s", apperrors.GetCode(err), apperrors.CodeConfigInvalid)
	}
}

func TestGetRunNotFound(t *testing.T) {
	svc, _ := newTestService(t, &shacl.MockValidator{})
	if _, err := svc.GetRun(context.Background(), "no-such-run"); err == nil {
		t.Fatal("expected not-found error")
	}
}
