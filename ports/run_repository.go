package ports

import (
	"context"
	"time"

	"ocev/domain/core"
	"ocev/domain/evidence"
	"ocev/domain/score"
)

// RunResult is the stored outcome of one completed validation run.
type RunResult struct {
	RunID        core.RunID                  `json:"run_id"`
	EvidenceType evidence.TestType           `json:"evidence_type"`
	Records      []evidence.Record           `json:"records"`
	Diagnostics  score.ConstraintDiagnostics `json:"diagnostics"`
	Scores       score.ScoreSet              `json:"scores"`
	Feedback     score.Feedback              `json:"feedback"`
	CreatedAt    time.Time                   `json:"created_at"`
}

// RunRepository stores completed run results keyed by run ID. The engine
// itself is stateless; persistence is a surrounding-service concern, so
// implementations must never be consulted mid-run.
type RunRepository interface {
	Save(ctx context.Context, result *RunResult) error
	Get(ctx context.Context, id core.RunID) (*RunResult, error)
	List(ctx context.Context, limit int) ([]*RunResult, error)
}
