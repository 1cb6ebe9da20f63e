// Package config loads run configuration from defaults, an optional file
// and LOTTO_* environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"lotto-cover-lab/internal/domain"
	"lotto-cover-lab/internal/engine"
	"lotto-cover-lab/internal/generator"
	"lotto-cover-lab/internal/history"
	"lotto-cover-lab/internal/scoring"
)

// EnvPrefix prefixes every environment override, e.g. LOTTO_SEARCH_TARGET.
const EnvPrefix = "LOTTO"

// RunConfig mirrors engine.Request in a file/env friendly shape.
type RunConfig struct {
	Universe    UniverseConfig    `mapstructure:"universe"`
	Constraints ConstraintsConfig `mapstructure:"constraints"`
	Weights     WeightsConfig     `mapstructure:"weights"`
	History     HistoryConfig     `mapstructure:"history"`
	Search      SearchConfig      `mapstructure:"search"`
	Storage     StorageConfig     `mapstructure:"storage"`
}

type UniverseConfig struct {
	N int `mapstructure:"n"`
	K int `mapstructure:"k"`
}

type ConstraintsConfig struct {
	MaxSeq2       int   `mapstructure:"max_seq2"`
	MaxSeq3       int   `mapstructure:"max_seq3"`
	MaxModTotal   int   `mapstructure:"max_mod_total"`
	MaxModX       int   `mapstructure:"max_mod_x"`
	DecadeCap     int   `mapstructure:"decade_cap"`
	SumMin        int   `mapstructure:"sum_min"`
	SumMax        int   `mapstructure:"sum_max"`
	DuplicateCaps []int `mapstructure:"duplicate_caps"`
	EvenCounts    []int `mapstructure:"even_counts"`
}

type WeightsConfig struct {
	Frequency float64 `mapstructure:"frequency"`
	Balance   float64 `mapstructure:"balance"`
	Decade    float64 `mapstructure:"decade"`
	Sequence  float64 `mapstructure:"sequence"`
	Sum       float64 `mapstructure:"sum"`
	Rank      float64 `mapstructure:"rank"`
	Col1      float64 `mapstructure:"col1"`
}

type HistoryConfig struct {
	FrequencyLookbackDays  int     `mapstructure:"frequency_lookback_days"`
	FrequencyLookbackDraws int     `mapstructure:"frequency_lookback_draws"`
	FrequencyCap           int     `mapstructure:"frequency_cap"`
	AverageSumDays         int     `mapstructure:"average_sum_days"`
	DefaultAverageSum      float64 `mapstructure:"default_average_sum"`
	Col1LookbackDays       int     `mapstructure:"col1_lookback_days"`
	Col1Bands              []int   `mapstructure:"col1_bands"`
	Anchor                 string  `mapstructure:"anchor"` // YYYY-MM-DD, empty = newest draw
}

type SearchConfig struct {
	Mode            string        `mapstructure:"mode"`
	Sampling        string        `mapstructure:"sampling"`
	Target          int           `mapstructure:"target"`
	MaxAttempts     int           `mapstructure:"max_attempts"`
	ExhaustiveLimit int           `mapstructure:"exhaustive_limit"`
	Workers         int           `mapstructure:"workers"`
	Seed            uint64        `mapstructure:"seed"`
	Select          int           `mapstructure:"select"`
	Timeout         time.Duration `mapstructure:"timeout"`
	Persist         bool          `mapstructure:"persist"`
}

type StorageConfig struct {
	PostgresDSN   string `mapstructure:"postgres_dsn"`
	ClickhouseDSN string `mapstructure:"clickhouse_dsn"`
}

func setDefaults(v *viper.Viper) {
	u := domain.DefaultUniverse
	v.SetDefault("universe.n", u.N)
	v.SetDefault("universe.k", u.K)

	c := domain.DefaultConstraintConfig()
	v.SetDefault("constraints.max_seq2", c.MaxSeq2)
	v.SetDefault("constraints.max_seq3", c.MaxSeq3)
	v.SetDefault("constraints.max_mod_total", c.MaxModTotal)
	v.SetDefault("constraints.max_mod_x", c.MaxModX)
	v.SetDefault("constraints.decade_cap", c.DecadeCap)
	v.SetDefault("constraints.sum_min", c.SumRange.Min)
	v.SetDefault("constraints.sum_max", c.SumRange.Max)
	v.SetDefault("constraints.duplicate_caps", c.DuplicateCaps)
	v.SetDefault("constraints.even_counts", []int{})

	w := domain.DefaultScoreWeights()
	v.SetDefault("weights.frequency", w.Frequency)
	v.SetDefault("weights.balance", w.Balance)
	v.SetDefault("weights.decade", w.Decade)
	v.SetDefault("weights.sequence", w.Sequence)
	v.SetDefault("weights.sum", w.Sum)
	v.SetDefault("weights.rank", w.Rank)
	v.SetDefault("weights.col1", w.Col1)

	v.SetDefault("history.frequency_lookback_days", history.DefaultFrequencyLookbackDays)
	v.SetDefault("history.frequency_lookback_draws", 0)
	v.SetDefault("history.frequency_cap", scoring.DefaultFrequencyCap)
	v.SetDefault("history.average_sum_days", history.DefaultAverageSumDays)
	v.SetDefault("history.default_average_sum", history.DefaultAverageSum)
	v.SetDefault("history.col1_lookback_days", 0)
	v.SetDefault("history.col1_bands", history.DefaultCol1Bands)
	v.SetDefault("history.anchor", "")

	v.SetDefault("search.mode", string(generator.ModeAuto))
	v.SetDefault("search.sampling", string(generator.SamplingUniform))
	v.SetDefault("search.target", generator.DefaultTarget)
	v.SetDefault("search.max_attempts", generator.DefaultMaxAttempts)
	v.SetDefault("search.exhaustive_limit", generator.DefaultExhaustiveLimit)
	v.SetDefault("search.workers", 1)
	v.SetDefault("search.seed", 0)
	v.SetDefault("search.select", engine.DefaultSelect)
	v.SetDefault("search.timeout", time.Duration(0))
	v.SetDefault("search.persist", false)

	v.SetDefault("storage.postgres_dsn", "")
	v.SetDefault("storage.clickhouse_dsn", "")
}

// Load reads configuration. path may be empty; its format follows the
// file extension (yaml, json, toml). Environment variables override both.
func Load(path string) (*RunConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg RunConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// ToRequest converts the configuration into an engine request. Field
// validation is left to engine.Request.Validate; only the anchor date is
// parsed here.
func (c *RunConfig) ToRequest() (engine.Request, error) {
	u := domain.Universe{N: c.Universe.N, K: c.Universe.K}

	req := engine.Request{
		Universe: u,
		Constraints: domain.ConstraintConfig{
			MaxSeq2:       c.Constraints.MaxSeq2,
			MaxSeq3:       c.Constraints.MaxSeq3,
			MaxModTotal:   c.Constraints.MaxModTotal,
			MaxModX:       c.Constraints.MaxModX,
			DecadeCap:     c.Constraints.DecadeCap,
			SumRange:      domain.SumRange{Min: c.Constraints.SumMin, Max: c.Constraints.SumMax},
			DuplicateCaps: nonEmpty(c.Constraints.DuplicateCaps),
			EvenCounts:    nonEmpty(c.Constraints.EvenCounts),
		},
		Weights: domain.ScoreWeights{
			Frequency: c.Weights.Frequency,
			Balance:   c.Weights.Balance,
			Decade:    c.Weights.Decade,
			Sequence:  c.Weights.Sequence,
			Sum:       c.Weights.Sum,
			Rank:      c.Weights.Rank,
			Col1:      c.Weights.Col1,
		},
		History: history.Options{
			Universe:               u,
			FrequencyLookbackDays:  c.History.FrequencyLookbackDays,
			FrequencyLookbackDraws: c.History.FrequencyLookbackDraws,
			AverageSumDays:         c.History.AverageSumDays,
			DefaultAverageSum:      c.History.DefaultAverageSum,
			DuplicateDepth:         len(c.Constraints.DuplicateCaps),
			Col1LookbackDays:       c.History.Col1LookbackDays,
			Col1Bands:              nonEmpty(c.History.Col1Bands),
		},
		FrequencyCap:    c.History.FrequencyCap,
		Mode:            generator.Mode(c.Search.Mode),
		Sampling:        generator.Sampling(c.Search.Sampling),
		Target:          c.Search.Target,
		MaxAttempts:     c.Search.MaxAttempts,
		ExhaustiveLimit: c.Search.ExhaustiveLimit,
		Workers:         c.Search.Workers,
		Seed:            c.Search.Seed,
		Select:          c.Search.Select,
		Timeout:         c.Search.Timeout,
		Persist:         c.Search.Persist,
	}

	if c.History.Anchor != "" {
		anchor, err := time.Parse(time.DateOnly, c.History.Anchor)
		if err != nil {
			return engine.Request{}, domain.NewConfigError("history.anchor", "expected YYYY-MM-DD, got %q", c.History.Anchor)
		}
		req.History.Anchor = anchor
	}
	return req, nil
}

func nonEmpty(vs []int) []int {
	if len(vs) == 0 {
		return nil
	}
	out := make([]int, len(vs))
	copy(out, vs)
	return out
}
