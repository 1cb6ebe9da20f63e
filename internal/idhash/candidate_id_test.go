package idhash

import (
	"testing"

	"lotto-cover-lab/internal/domain"
)

func TestComputeCandidateID(t *testing.T) {
	tests := []struct {
		name       string
		configHash string
		combo      domain.Combination
	}{
		{"default universe", "abc123", domain.Combination{5, 12, 18, 25, 30}},
		{"empty hash", "", domain.Combination{1, 2, 3, 4, 5}},
		{"large universe", "ffff", domain.Combination{3, 17, 44, 58, 61, 70}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeCandidateID(tt.configHash, tt.combo)
			if len(got) != 64 {
				t.Errorf("ComputeCandidateID() length = %d, want 64", len(got))
			}

			// Verify determinism: same inputs should produce same output
			if again := ComputeCandidateID(tt.configHash, tt.combo); got != again {
				t.Errorf("ComputeCandidateID() not deterministic: %s != %s", got, again)
			}
		})
	}
}

func TestComputeCandidateID_Uniqueness(t *testing.T) {
	base := ComputeCandidateID("h", domain.Combination{5, 12, 18, 25, 30})

	if other := ComputeCandidateID("h", domain.Combination{5, 12, 18, 25, 31}); base == other {
		t.Error("different combinations should produce different IDs")
	}
	if other := ComputeCandidateID("g", domain.Combination{5, 12, 18, 25, 30}); base == other {
		t.Error("different config hashes should produce different IDs")
	}
}

func TestComputeConfigHash(t *testing.T) {
	u := domain.DefaultUniverse
	cfg := domain.DefaultConstraintConfig()
	w := domain.DefaultScoreWeights()
	p := RunParams{Mode: "auto", Sampling: "uniform", Target: 1000, MaxAttempts: 100000, Seed: 7, Select: 10}

	base := ComputeConfigHash(u, cfg, w, p)
	if len(base) != 64 {
		t.Fatalf("ComputeConfigHash() length = %d, want 64", len(base))
	}
	if again := ComputeConfigHash(u, cfg, w, p); again != base {
		t.Errorf("ComputeConfigHash() not deterministic")
	}

	tests := []struct {
		name   string
		mutate func(*domain.Universe, *domain.ConstraintConfig, *domain.ScoreWeights, *RunParams)
	}{
		{"universe", func(u *domain.Universe, _ *domain.ConstraintConfig, _ *domain.ScoreWeights, _ *RunParams) { u.N = 49 }},
		{"sum range", func(_ *domain.Universe, c *domain.ConstraintConfig, _ *domain.ScoreWeights, _ *RunParams) { c.SumRange.Max = 140 }},
		{"duplicate caps", func(_ *domain.Universe, c *domain.ConstraintConfig, _ *domain.ScoreWeights, _ *RunParams) {
			c.DuplicateCaps = []int{1, 2}
		}},
		{"even counts", func(_ *domain.Universe, c *domain.ConstraintConfig, _ *domain.ScoreWeights, _ *RunParams) {
			c.EvenCounts = []int{2}
		}},
		{"weights", func(_ *domain.Universe, _ *domain.ConstraintConfig, w *domain.ScoreWeights, _ *RunParams) {
			w.Frequency, w.Balance = 0.25, 0.10
		}},
		{"seed", func(_ *domain.Universe, _ *domain.ConstraintConfig, _ *domain.ScoreWeights, p *RunParams) { p.Seed = 8 }},
		{"mode", func(_ *domain.Universe, _ *domain.ConstraintConfig, _ *domain.ScoreWeights, p *RunParams) { p.Mode = "random" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u2, c2, w2, p2 := u, cfg, w, p
			c2.DuplicateCaps = append([]int(nil), cfg.DuplicateCaps...)
			tt.mutate(&u2, &c2, &w2, &p2)
			if got := ComputeConfigHash(u2, c2, w2, p2); got == base {
				t.Errorf("changing %s should change the hash", tt.name)
			}
		})
	}
}
