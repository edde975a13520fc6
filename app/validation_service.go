package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/semaphore"

	"ocev/domain/core"
	"ocev/domain/evidence"
	"ocev/domain/ontology"
	"ocev/domain/score"
	"ocev/internal"
	"ocev/internal/errors"
	"ocev/ports"
)

// ValidationConfig tunes the run pipeline.
type ValidationConfig struct {
	// MaxConcurrentRuns bounds in-flight constraint-validation calls; the
	// external engine is the dominant-cost stage.
	MaxConcurrentRuns int64

	// RunTimeout is enforced around the constraint-validation call only;
	// graph construction and scoring are effectively instantaneous.
	RunTimeout time.Duration
}

// DefaultValidationConfig returns sensible pipeline defaults.
func DefaultValidationConfig() ValidationConfig {
	return ValidationConfig{
		MaxConcurrentRuns: 4,
		RunTimeout:        90 * time.Second,
	}
}

// ValidationService runs the evidence validation pipeline:
// records -> semantic graph -> constraint validation -> diagnostics ->
// scores -> feedback. Each run is a pure function of its inputs; the
// service holds only immutable process-lifetime data (shapes, ontology,
// registry) plus the bound on concurrent validator calls.
type ValidationService struct {
	builder   *ontology.GraphBuilder
	validator ports.ConstraintValidatorPort
	scorer    *score.Scorer
	runs      ports.RunRepository

	shapes   []byte
	ontology []byte

	sem    *semaphore.Weighted
	config ValidationConfig
	logger *internal.Logger
}

// NewValidationService wires the pipeline. shapes must be the loaded
// constraint schema; startup fails before this point if it is missing.
// ontologyDoc may be nil, in which case the built-in minimal ontology is
// sent as background graph.
func NewValidationService(
	builder *ontology.GraphBuilder,
	validator ports.ConstraintValidatorPort,
	runs ports.RunRepository,
	shapes []byte,
	ontologyDoc []byte,
	config ValidationConfig,
) (*ValidationService, error) {
	if len(shapes) == 0 {
		return nil, errors.ConfigInvalid("validation service requires a loaded constraint schema")
	}
	if config.MaxConcurrentRuns <= 0 {
		config.MaxConcurrentRuns = 1
	}
	if ontologyDoc == nil {
		ontologyDoc = []byte(ontology.MinimalOntologyGraph().EncodeTurtle())
	}
	return &ValidationService{
		builder:   builder,
		validator: validator,
		scorer:    score.NewScorer(),
		runs:      runs,
		shapes:    shapes,
		ontology:  ontologyDoc,
		sem:       semaphore.NewWeighted(config.MaxConcurrentRuns),
		config:    config,
		logger:    internal.NewDefaultLogger(),
	}, nil
}

// ValidateRecords executes one validation run and persists the result.
// An empty record list is not an error: it yields an all-zero ScoreSet
// with the diagnostics still reporting the schema's constraint floor.
// A validator failure aborts the run; nothing is persisted and the error
// is reported rather than coerced into a zero score.
func (s *ValidationService) ValidateRecords(ctx context.Context, records []evidence.Record, evidenceType evidence.TestType) (*ports.RunResult, error) {
	dataGraph := s.builder.Build(records)
	s.logger.Debug("Built evidence graph: %d record(s), %d triple(s)", len(records), dataGraph.Len())

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, errors.Wrap(err, "validation queue full")
	}
	defer s.sem.Release(1)

	callCtx := ctx
	if s.config.RunTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.config.RunTimeout)
		defer cancel()
	}

	raw, err := s.validator.Validate(callCtx, dataGraph, s.shapes, s.ontology)
	if err != nil {
		return nil, errors.WithCode(errors.CodeExternalService,
			fmt.Errorf("constraint validation failed for %d record(s): %w", len(records), err))
	}

	diags := score.ParseReport(raw.Conforms, raw.Report)
	// Prefer the violation descriptions the engine returned natively; the
	// line-scan reconstruction only fills in when the engine sent none.
	if len(raw.Violations) > 0 && len(diags.Violations) == 0 {
		diags.Violations = raw.Violations
		diags.ConstraintsTotal, diags.ConstraintsPassing = score.ReconstructCounts(len(raw.Violations))
	}

	scores := s.scorer.Score(diags, records)
	result := &ports.RunResult{
		RunID:        core.RunID(core.NewID()),
		EvidenceType: evidenceType,
		Records:      records,
		Diagnostics:  diags,
		Scores:       scores,
		Feedback:     score.GenerateFeedback(scores),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.runs.Save(ctx, result); err != nil {
		return nil, errors.Wrap(err, "failed to persist run result")
	}
	s.logger.Info("Validation run %s complete: conforms=%t overall=%.2f", result.RunID, diags.Conforms, scores.Overall)
	return result, nil
}

// GetRun retrieves a stored run result.
func (s *ValidationService) GetRun(ctx context.Context, id core.RunID) (*ports.RunResult, error) {
	return s.runs.Get(ctx, id)
}

// ListRuns returns recent run results.
func (s *ValidationService) ListRuns(ctx context.Context, limit int) ([]*ports.RunResult, error) {
	return s.runs.List(ctx, limit)
}
