package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lotto-cover-lab/internal/domain"
	"lotto-cover-lab/internal/storage/memory"
)

func TestParseInts(t *testing.T) {
	got, err := parseInts("1, 2,3")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, got)

	_, err = parseInts("1,x")
	assert.Error(t, err)
}

func TestSeedRankProfile(t *testing.T) {
	store := memory.NewRankProfileStore()
	ctx := context.Background()
	u := domain.DefaultUniverse

	seeded, err := seedRankProfile(ctx, store, u)
	require.NoError(t, err)
	assert.True(t, seeded)

	seeded, err = seedRankProfile(ctx, store, u)
	require.NoError(t, err)
	assert.False(t, seeded)
}

func TestUpdateRankProfile(t *testing.T) {
	store := memory.NewRankProfileStore()
	ctx := context.Background()
	u := domain.Universe{N: 10, K: 3}

	require.NoError(t, updateRankProfile(ctx, store, u, "1,2,3,4,5,6,7,8,9,10", "2,2,2,2,2,2,2,2"))

	p, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, p.Counts)
	assert.Equal(t, []int{2, 2, 2, 2, 2, 2, 2, 2}, p.Limits)

	// Limits only: counts stay.
	require.NoError(t, updateRankProfile(ctx, store, u, "", "1,1,1,1,1,1,1,1"))
	p, err = store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, p.Counts[9])
	assert.Equal(t, 1, p.Limits[0])

	// Wrong shape is rejected.
	err = updateRankProfile(ctx, store, u, "1,2,3", "")
	var cfgErr *domain.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}
