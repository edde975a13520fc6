package memory

import (
	"context"
	"testing"
	"time"

	"ocev/domain/core"
	"ocev/domain/evidence"
	"ocev/domain/score"
	"ocev/ports"
)

func storedRun(id string, createdAt time.Time) *ports.RunResult {
	return &ports.RunResult{
		RunID:        core.RunID(id),
		EvidenceType: evidence.TestTTest,
		Scores:       score.ScoreSet{Overall: 0.9},
		CreatedAt:    createdAt,
	}
}

func TestSaveAndGet(t *testing.T) {
	repo := NewRunRepository()
	ctx := context.Background()

	want := storedRun("run-1", time.Now())
	if err := repo.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.Get(ctx, "run-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.RunID != want.RunID || got.Scores.Overall != 0.9 {
		t.Errorf("got %+v", got)
	}
}

func TestGetMissingRun(t *testing.T) {
	repo := NewRunRepository()
	_, err := repo.Get(context.Background(), "absent")
	if err == nil {
		t.Fatal("expected not-found error")
	}
	if !core.IsNotFoundError(err) {
		t.Errorf("error %v should satisfy the not-found check", err)
	}
}

func TestListNewestFirstWithLimit(t *testing.T) {
	repo := NewRunRepository()
	ctx := context.Background()
	base := time.Now()

	for i, id := range []string{"run-a", "run-b", "run-c"} {
		if err := repo.Save(ctx, storedRun(id, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	got, err := repo.List(ctx, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].RunID != "run-c" || got[1].RunID != "run-b" {
		t.Errorf("order = [%s, %s], want newest first", got[0].RunID, got[1].RunID)
	}
}
