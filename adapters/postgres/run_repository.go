package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"ocev/domain/core"
	"ocev/domain/evidence"
	"ocev/domain/score"
	"ocev/ports"
)

// RunRepository persists completed validation runs in Postgres.
type RunRepository struct {
	db *sqlx.DB
}

// NewRunRepository creates a new run repository.
func NewRunRepository(db *sqlx.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Migrate creates the validation_runs table if it does not exist.
func (r *RunRepository) Migrate(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS validation_runs (
			run_id        TEXT PRIMARY KEY,
			evidence_type TEXT NOT NULL,
			records       JSONB NOT NULL,
			diagnostics   JSONB NOT NULL,
			scores        JSONB NOT NULL,
			feedback      JSONB NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL
		)`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create validation_runs table: %w", err)
	}
	return nil
}

// Save stores one completed run.
func (r *RunRepository) Save(ctx context.Context, result *ports.RunResult) error {
	recordsJSON, err := json.Marshal(result.Records)
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}
	diagsJSON, err := json.Marshal(result.Diagnostics)
	if err != nil {
		return fmt.Errorf("failed to marshal diagnostics: %w", err)
	}
	scoresJSON, err := json.Marshal(result.Scores)
	if err != nil {
		return fmt.Errorf("failed to marshal scores: %w", err)
	}
	feedbackJSON, err := json.Marshal(result.Feedback)
	if err != nil {
		return fmt.Errorf("failed to marshal feedback: %w", err)
	}

	query := `
		INSERT INTO validation_runs (
			run_id, evidence_type, records, diagnostics, scores, feedback, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (run_id) DO NOTHING`

	_, err = r.db.ExecContext(ctx, query,
		result.RunID.String(),
		string(result.EvidenceType),
		recordsJSON,
		diagsJSON,
		scoresJSON,
		feedbackJSON,
		result.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run result: %w", err)
	}
	return nil
}

// Get retrieves one run by ID.
func (r *RunRepository) Get(ctx context.Context, id core.RunID) (*ports.RunResult, error) {
	query := `
		SELECT run_id, evidence_type, records, diagnostics, scores, feedback, created_at
		FROM validation_runs
		WHERE run_id = $1`

	result, err := r.scanRow(r.db.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, core.NewNotFoundError("run", id.String())
		}
		return nil, fmt.Errorf("failed to get run result: %w", err)
	}
	return result, nil
}

// List returns the most recent runs, newest first.
func (r *RunRepository) List(ctx context.Context, limit int) ([]*ports.RunResult, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT run_id, evidence_type, records, diagnostics, scores, feedback, created_at
		FROM validation_runs
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list run results: %w", err)
	}
	defer rows.Close()

	var results []*ports.RunResult
	for rows.Next() {
		result, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run result: %w", err)
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *RunRepository) scanRow(row rowScanner) (*ports.RunResult, error) {
	var (
		result       ports.RunResult
		runID        string
		evidenceType string
		recordsJSON  []byte
		diagsJSON    []byte
		scoresJSON   []byte
		feedbackJSON []byte
		createdAt    time.Time
	)
	if err := row.Scan(&runID, &evidenceType, &recordsJSON, &diagsJSON, &scoresJSON, &feedbackJSON, &createdAt); err != nil {
		return nil, err
	}

	result.RunID = core.RunID(runID)
	result.EvidenceType = evidence.TestType(evidenceType)
	result.CreatedAt = createdAt

	if err := json.Unmarshal(recordsJSON, &result.Records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal records: %w", err)
	}
	var diags score.ConstraintDiagnostics
	if err := json.Unmarshal(diagsJSON, &diags); err != nil {
		return nil, fmt.Errorf("failed to unmarshal diagnostics: %w", err)
	}
	result.Diagnostics = diags
	if err := json.Unmarshal(scoresJSON, &result.Scores); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scores: %w", err)
	}
	if err := json.Unmarshal(feedbackJSON, &result.Feedback); err != nil {
		return nil, fmt.Errorf("failed to unmarshal feedback: %w", err)
	}
	return &result, nil
}
