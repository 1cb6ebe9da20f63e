package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"lotto-cover-lab/internal/domain"
	"lotto-cover-lab/internal/storage"
)

func TestRunStore_InsertAndGet(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()

	r := &domain.RunRecord{RunID: "run-1", Mode: "random", Target: 1000, Accepted: 950, Shortfall: true}
	if err := store.Insert(ctx, r); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := store.Insert(ctx, r); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}

	got, err := store.GetByID(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Accepted != 950 || !got.Shortfall {
		t.Errorf("unexpected record: %+v", got)
	}

	if _, err := store.GetByID(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRunStore_Recent(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		_ = store.Insert(ctx, &domain.RunRecord{RunID: id, StartedAt: base.Add(time.Duration(i) * time.Minute)})
	}

	got, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(got) != 2 || got[0].RunID != "c" || got[1].RunID != "b" {
		t.Errorf("unexpected order: %v, %v", got[0].RunID, got[1].RunID)
	}
}
