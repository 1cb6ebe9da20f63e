package engine

import (
	"time"

	"lotto-cover-lab/internal/domain"
	"lotto-cover-lab/internal/generator"
	"lotto-cover-lab/internal/history"
	"lotto-cover-lab/internal/scoring"
)

// DefaultSelect is the default size of the final selection.
const DefaultSelect = 10

// Request is everything a run needs apart from storage.
type Request struct {
	Universe    domain.Universe
	Constraints domain.ConstraintConfig
	Weights     domain.ScoreWeights

	// History controls the snapshot windows. Its Universe and DuplicateDepth
	// are derived from the request.
	History history.Options

	// RankProfile overrides the stored profile when set.
	RankProfile *domain.RankProfile

	FrequencyCap int

	Mode            generator.Mode
	Sampling        generator.Sampling
	Target          int
	MaxAttempts     int
	ExhaustiveLimit int
	Workers         int
	Seed            uint64

	// Select is the size of the diversity-aware output.
	Select int

	// Timeout bounds the search. Zero means no limit beyond ctx.
	Timeout time.Duration

	// Persist stores the run record and selection when stores are configured.
	Persist bool
}

// DefaultRequest returns a request with every threshold at its default.
func DefaultRequest() Request {
	u := domain.DefaultUniverse
	return Request{
		Universe:        u,
		Constraints:     domain.DefaultConstraintConfig(),
		Weights:         domain.DefaultScoreWeights(),
		History:         history.DefaultOptions(u),
		FrequencyCap:    scoring.DefaultFrequencyCap,
		Mode:            generator.ModeAuto,
		Sampling:        generator.SamplingUniform,
		Target:          generator.DefaultTarget,
		MaxAttempts:     generator.DefaultMaxAttempts,
		ExhaustiveLimit: generator.DefaultExhaustiveLimit,
		Workers:         1,
		Select:          DefaultSelect,
	}
}

// Validate returns a *domain.ConfigError describing the first invalid field.
func (r Request) Validate() error {
	if err := r.Constraints.Validate(r.Universe); err != nil {
		return err
	}
	if err := r.Weights.Validate(); err != nil {
		return err
	}
	if r.RankProfile != nil {
		if err := r.RankProfile.Validate(r.Universe); err != nil {
			return err
		}
	}

	switch r.Mode {
	case generator.ModeAuto, generator.ModeExhaustive, generator.ModeRandom:
	default:
		return domain.NewConfigError("mode", "unknown mode %q", r.Mode)
	}
	switch r.Sampling {
	case "", generator.SamplingUniform, generator.SamplingWeighted, generator.SamplingCol1:
	default:
		return domain.NewConfigError("sampling", "unknown sampling %q", r.Sampling)
	}

	for _, f := range []struct {
		name  string
		value int
	}{
		{"target", r.Target},
		{"max_attempts", r.MaxAttempts},
		{"exhaustive_limit", r.ExhaustiveLimit},
		{"workers", r.Workers},
		{"frequency_cap", r.FrequencyCap},
		{"history.frequency_lookback_days", r.History.FrequencyLookbackDays},
		{"history.frequency_lookback_draws", r.History.FrequencyLookbackDraws},
		{"history.average_sum_days", r.History.AverageSumDays},
		{"history.col1_lookback_days", r.History.Col1LookbackDays},
	} {
		if f.value < 0 {
			return domain.NewConfigError(f.name, "must be non-negative, got %d", f.value)
		}
	}
	if r.Select < 1 {
		return domain.NewConfigError("select", "must be at least 1, got %d", r.Select)
	}
	if r.Timeout < 0 {
		return domain.NewConfigError("timeout", "must be non-negative, got %s", r.Timeout)
	}
	return nil
}

// withDefaults fills zero-valued knobs that have a non-zero default.
func (r Request) withDefaults() Request {
	if r.Target == 0 {
		r.Target = generator.DefaultTarget
	}
	if r.MaxAttempts == 0 {
		r.MaxAttempts = generator.DefaultMaxAttempts
	}
	if r.ExhaustiveLimit == 0 {
		r.ExhaustiveLimit = generator.DefaultExhaustiveLimit
	}
	if r.Workers == 0 {
		r.Workers = 1
	}
	if r.Sampling == "" {
		r.Sampling = generator.SamplingUniform
	}
	if r.FrequencyCap == 0 {
		r.FrequencyCap = scoring.DefaultFrequencyCap
	}
	if r.History.DefaultAverageSum == 0 {
		r.History.DefaultAverageSum = history.DefaultAverageSum
	}
	r.History.Universe = r.Universe
	r.History.DuplicateDepth = len(r.Constraints.DuplicateCaps)
	return r
}
