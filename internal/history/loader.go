package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lotto-cover-lab/internal/domain"
	"lotto-cover-lab/internal/storage"
)

// LoadReport describes what the loader could and could not fetch.
// Load failures are soft: the snapshot falls back to defaults.
type LoadReport struct {
	DrawsLoaded int
	DrawErr     error // nil, or why history is unavailable
	RankErr     error // nil, or why the default rank profile was used
}

// Loader reads draws and the rank profile from storage once per run.
type Loader struct {
	draws storage.DrawStore
	ranks storage.RankProfileStore
}

// NewLoader creates a loader. Either store may be nil.
func NewLoader(draws storage.DrawStore, ranks storage.RankProfileStore) *Loader {
	return &Loader{draws: draws, ranks: ranks}
}

// Load fetches everything the snapshot needs and builds it.
func (l *Loader) Load(ctx context.Context, opts Options) (*Context, LoadReport) {
	var report LoadReport

	draws, err := l.loadDraws(ctx, opts)
	if err != nil {
		report.DrawErr = err
	}
	report.DrawsLoaded = len(draws)

	profile, err := l.loadRankProfile(ctx, opts.Universe)
	if err != nil {
		report.RankErr = err
	}

	return NewContext(draws, profile, opts), report
}

func (l *Loader) loadDraws(ctx context.Context, opts Options) ([]*domain.HistoricalDraw, error) {
	if l.draws == nil {
		return nil, errors.New("no draw store configured")
	}

	anchor := opts.Anchor
	if anchor.IsZero() {
		newest, err := l.draws.Recent(ctx, 1)
		if err != nil {
			return nil, fmt.Errorf("load newest draw: %w", err)
		}
		if len(newest) == 0 {
			return nil, storage.ErrNotFound
		}
		anchor = newest[0].DrawDate
	}

	from := time.Time{}
	if opts.Col1LookbackDays > 0 {
		days := max(opts.FrequencyLookbackDays, opts.AverageSumDays, opts.Col1LookbackDays)
		from = anchor.AddDate(0, 0, -days)
	}

	draws, err := l.draws.Since(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("load draws since %s: %w", from.Format(time.DateOnly), err)
	}

	// Count-based windows may reach past the day windows.
	need := max(opts.DuplicateDepth, opts.FrequencyLookbackDraws)
	if len(draws) < need {
		draws, err = l.draws.Recent(ctx, need)
		if err != nil {
			return nil, fmt.Errorf("load %d recent draws: %w", need, err)
		}
	}

	if len(draws) == 0 {
		return nil, storage.ErrNotFound
	}
	return draws, nil
}

func (l *Loader) loadRankProfile(ctx context.Context, u domain.Universe) (*domain.RankProfile, error) {
	if l.ranks == nil {
		return nil, errors.New("no rank profile store configured")
	}

	p, err := l.ranks.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load rank profile: %w", err)
	}
	if err := p.Validate(u); err != nil {
		return nil, fmt.Errorf("stored rank profile: %w", err)
	}
	return p, nil
}
