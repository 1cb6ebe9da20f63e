package memory

import (
	"context"
	"errors"
	"testing"

	"lotto-cover-lab/internal/domain"
	"lotto-cover-lab/internal/storage"
)

func TestRankProfileStore_GetEmpty(t *testing.T) {
	store := NewRankProfileStore()

	_, err := store.Get(context.Background())
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRankProfileStore_SaveAndGet(t *testing.T) {
	store := NewRankProfileStore()
	ctx := context.Background()

	p := domain.DefaultRankProfile(domain.DefaultUniverse)
	if err := store.Save(ctx, &p); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Mutating the saved value must not affect the store
	p.Counts[0] = 99

	got, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Counts[0] != domain.DefaultRankCounts[0] {
		t.Errorf("store aliased caller's profile: counts[0] = %d", got.Counts[0])
	}
	if len(got.Limits) != domain.RankBucketCount {
		t.Errorf("expected %d limits, got %d", domain.RankBucketCount, len(got.Limits))
	}
}

func TestRankProfileStore_SaveInvalid(t *testing.T) {
	store := NewRankProfileStore()

	if err := store.Save(context.Background(), nil); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
