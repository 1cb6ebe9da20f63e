package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"lotto-cover-lab/internal/domain"
	"lotto-cover-lab/internal/generator"
	"lotto-cover-lab/internal/history"
	"lotto-cover-lab/internal/idhash"
	"lotto-cover-lab/internal/observability"
	"lotto-cover-lab/internal/storage"
)

// Runner coordinates a full run.
// Flow: validate → load history → search → select → persist
type Runner struct {
	// Stores
	drawStore        storage.DrawStore
	rankProfileStore storage.RankProfileStore
	runStore         storage.RunStore
	candidateStore   storage.CandidateStore

	metrics *observability.Metrics
	clock   func() time.Time
	newID   func() string
	verbose bool
}

// Options for creating Runner.
type Options struct {
	// History sources. Either may be nil; the run then uses defaults.
	DrawStore        storage.DrawStore
	RankProfileStore storage.RankProfileStore

	// Optional persistence, used when Request.Persist is set.
	RunStore       storage.RunStore
	CandidateStore storage.CandidateStore

	Metrics *observability.Metrics
	Clock   func() time.Time // defaults to time.Now
	Verbose bool
}

// NewRunner creates a new Runner.
func NewRunner(opts Options) *Runner {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Runner{
		drawStore:        opts.DrawStore,
		rankProfileStore: opts.RankProfileStore,
		runStore:         opts.RunStore,
		candidateStore:   opts.CandidateStore,
		metrics:          opts.Metrics,
		clock:            clock,
		newID:            uuid.NewString,
		verbose:          opts.Verbose,
	}
}

// Shortfall reports a run that accepted fewer candidates than targeted.
type Shortfall struct {
	Accepted int
	Attempts int
	Target   int
}

// Diagnostics describes how a run went. Soft failures live here, not in
// the returned error.
type Diagnostics struct {
	RunID      string
	ConfigHash string
	Mode       generator.Mode

	// SearchSpace is C(N,K), or -1 when it overflows.
	SearchSpace int

	Target    int
	Accepted  int
	Attempts  int
	Selected  int
	Shortfall *Shortfall // nil when the target was met
	Cancelled bool

	HistoryDraws         int
	HistoryUnavailable   bool
	HistoryErr           error
	RankProfileDefaulted bool
	RankErr              error

	Rejections map[string]int

	StartedAt  time.Time
	FinishedAt time.Time
	Duration   time.Duration
}

// Result contains results from a run.
type Result struct {
	Selected    []domain.ScoredCandidate
	Pool        []domain.ScoredCandidate
	History     *history.Context
	Diagnostics Diagnostics
}

// Run executes one generation.
// Phases:
//  1. Validate the request
//  2. Load the history snapshot
//  3. Search and select
//  4. Persist the run (optional)
//
// A *domain.ConfigError is returned before any work. A persistence failure
// is returned together with the otherwise complete result.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	// Phase 1: Validation
	if err := req.Validate(); err != nil {
		return nil, err
	}
	started := r.clock()

	// Phase 2: History
	r.log("Phase 2: Loading history...")
	loader := history.NewLoader(r.drawStore, r.rankProfileStore)
	if req.RankProfile != nil {
		loader = history.NewLoader(r.drawStore, fixedRankProfile{p: req.RankProfile})
	}
	full := req.withDefaults()
	hist, report := loader.Load(ctx, full.History)
	if report.DrawErr != nil {
		r.log("  History unavailable: %v", report.DrawErr)
	}
	if report.RankErr != nil {
		r.log("  Using default rank profile: %v", report.RankErr)
	}
	r.log("  Loaded %d draws", report.DrawsLoaded)

	eng, err := New(req, hist)
	if err != nil {
		return nil, err
	}

	// Phase 3: Search
	searchCtx := ctx
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		searchCtx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	genOpts := eng.GeneratorOptions()
	r.log("Phase 3: Searching (mode=%s, space=%d)...", generator.ResolveMode(genOpts), generator.SearchSpace(full.Universe))
	out := eng.Search(searchCtx)
	finished := r.clock()
	r.log("  Accepted %d of %d attempts, selected %d (cancelled=%v)",
		len(out.Pool), out.Attempts, len(out.Selected), out.Cancelled)

	diag := Diagnostics{
		RunID:                r.newID(),
		ConfigHash:           configHash(eng.Request()),
		Mode:                 out.Mode,
		SearchSpace:          generator.SearchSpace(full.Universe),
		Target:               eng.Target(out.Mode),
		Accepted:             len(out.Pool),
		Attempts:             out.Attempts,
		Selected:             len(out.Selected),
		Cancelled:            out.Cancelled,
		HistoryDraws:         hist.DrawCount(),
		HistoryUnavailable:   !hist.Available(),
		HistoryErr:           report.DrawErr,
		RankProfileDefaulted: hist.RankDefaulted(),
		RankErr:              report.RankErr,
		Rejections:           eng.Rejections(),
		StartedAt:            started,
		FinishedAt:           finished,
		Duration:             finished.Sub(started),
	}
	if diag.Accepted < diag.Target {
		diag.Shortfall = &Shortfall{Accepted: diag.Accepted, Attempts: diag.Attempts, Target: diag.Target}
		r.log("  Shortfall: %d/%d accepted after %d attempts", diag.Accepted, diag.Target, diag.Attempts)
	}

	result := &Result{
		Selected:    out.Selected,
		Pool:        out.Pool,
		History:     hist,
		Diagnostics: diag,
	}

	// Phase 4: Persistence
	var persistErr error
	if req.Persist {
		r.log("Phase 4: Persisting run %s...", diag.RunID)
		persistErr = r.persist(ctx, result)
	}

	r.record(diag, persistErr)
	r.log("Run completed: %s mode=%s accepted=%d selected=%d in %s",
		diag.RunID, diag.Mode, diag.Accepted, diag.Selected, diag.Duration)

	return result, persistErr
}

// persist stores the run record and its selection.
func (r *Runner) persist(ctx context.Context, res *Result) error {
	d := res.Diagnostics
	var errs []error

	if r.runStore != nil {
		rec := &domain.RunRecord{
			RunID:                d.RunID,
			ConfigHash:           d.ConfigHash,
			Mode:                 string(d.Mode),
			Target:               d.Target,
			Accepted:             d.Accepted,
			Attempts:             d.Attempts,
			Selected:             d.Selected,
			Shortfall:            d.Shortfall != nil,
			Cancelled:            d.Cancelled,
			HistoryUnavailable:   d.HistoryUnavailable,
			RankProfileDefaulted: d.RankProfileDefaulted,
			StartedAt:            d.StartedAt,
			FinishedAt:           d.FinishedAt,
		}
		start := r.clock()
		err := r.runStore.Insert(ctx, rec)
		r.metrics.RecordStoreOp("insert_run", r.clock().Sub(start).Seconds(), err)
		if err != nil {
			errs = append(errs, fmt.Errorf("insert run %s: %w", d.RunID, err))
		}
	}

	if r.candidateStore != nil && len(res.Selected) > 0 {
		cands := make([]*domain.RunCandidate, len(res.Selected))
		for i, sc := range res.Selected {
			cands[i] = &domain.RunCandidate{
				RunID:       d.RunID,
				Rank:        i + 1,
				CandidateID: idhash.ComputeCandidateID(d.ConfigHash, sc.Combination),
				Candidate:   sc,
			}
		}
		start := r.clock()
		err := r.candidateStore.InsertBulk(ctx, cands)
		r.metrics.RecordStoreOp("insert_candidates", r.clock().Sub(start).Seconds(), err)
		if err != nil {
			errs = append(errs, fmt.Errorf("insert candidates for run %s: %w", d.RunID, err))
		}
	}

	return errors.Join(errs...)
}

func (r *Runner) record(d Diagnostics, persistErr error) {
	status := observability.StatusComplete
	switch {
	case persistErr != nil:
		status = observability.StatusFailed
	case d.Cancelled:
		status = observability.StatusCancelled
	case d.Shortfall != nil:
		status = observability.StatusShortfall
	}

	r.metrics.RecordHistory(d.HistoryDraws, d.HistoryUnavailable, d.RankProfileDefaulted)
	r.metrics.RecordRun(observability.RunSample{
		Mode:            string(d.Mode),
		Status:          status,
		DurationSeconds: d.Duration.Seconds(),
		Evaluated:       d.Attempts,
		Accepted:        d.Accepted,
		Selected:        d.Selected,
		Rejections:      d.Rejections,
		FinishedUnix:    d.FinishedAt.Unix(),
	})
}

func configHash(req Request) string {
	return idhash.ComputeConfigHash(req.Universe, req.Constraints, req.Weights, idhash.RunParams{
		Mode:            string(req.Mode),
		Sampling:        string(req.Sampling),
		Target:          req.Target,
		MaxAttempts:     req.MaxAttempts,
		ExhaustiveLimit: req.ExhaustiveLimit,
		Seed:            req.Seed,
		Select:          req.Select,
	})
}

// fixedRankProfile serves a request-supplied rank profile to the loader.
type fixedRankProfile struct {
	p *domain.RankProfile
}

func (f fixedRankProfile) Get(context.Context) (*domain.RankProfile, error) {
	p := f.p.Clone()
	return &p, nil
}

func (f fixedRankProfile) Save(context.Context, *domain.RankProfile) error {
	return errors.New("rank profile is fixed by the request")
}

var _ storage.RankProfileStore = fixedRankProfile{}

func (r *Runner) log(format string, args ...interface{}) {
	if r.verbose {
		log.Printf("[engine] "+format, args...)
	}
}
