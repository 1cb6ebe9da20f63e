package domain

import (
	"errors"
	"testing"
)

func TestNewCombination(t *testing.T) {
	tests := []struct {
		name    string
		nums    []int
		want    string
		wantErr bool
	}{
		{"sorted", []int{5, 12, 18, 25, 30}, "5-12-18-25-30", false},
		{"unsorted", []int{30, 5, 25, 12, 18}, "5-12-18-25-30", false},
		{"too short", []int{1, 2, 3, 4}, "", true},
		{"duplicate", []int{1, 2, 2, 4, 5}, "", true},
		{"zero", []int{0, 2, 3, 4, 5}, "", true},
		{"above n", []int{1, 2, 3, 4, 43}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCombination(tt.nums, DefaultUniverse)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidCombination) {
					t.Fatalf("expected ErrInvalidCombination, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if c.Key() != tt.want {
				t.Errorf("Key() = %s, want %s", c.Key(), tt.want)
			}
		})
	}
}

func TestCombination_Accessors(t *testing.T) {
	c := Combination{5, 12, 18, 25, 30}

	if c.Sum() != 90 {
		t.Errorf("Sum() = %d, want 90", c.Sum())
	}
	if c.Leading() != 5 || c.Trailing() != 30 {
		t.Errorf("Leading/Trailing = %d/%d, want 5/30", c.Leading(), c.Trailing())
	}
	if !c.Contains(18) || c.Contains(19) {
		t.Error("Contains mismatch")
	}
	if c.Compare(Combination{5, 12, 18, 25, 31}) >= 0 {
		t.Error("expected c < other")
	}
}

func TestNewCombination_DoesNotAliasInput(t *testing.T) {
	nums := []int{3, 1, 2, 4, 5}
	c, err := NewCombination(nums, DefaultUniverse)
	if err != nil {
		t.Fatal(err)
	}
	nums[0] = 40
	if c.Key() != "1-2-3-4-5" {
		t.Errorf("combination mutated through input: %s", c.Key())
	}
}

func TestConstraintConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *ConstraintConfig)
		u       Universe
		wantErr bool
	}{
		{"defaults", func(*ConstraintConfig) {}, DefaultUniverse, false},
		{"exact sum", func(c *ConstraintConfig) { c.SumRange = SumRange{Min: 100, Max: 100} }, DefaultUniverse, false},
		{"inverted sum range", func(c *ConstraintConfig) { c.SumRange = SumRange{Min: 140, Max: 70} }, DefaultUniverse, true},
		{"decreasing caps", func(c *ConstraintConfig) { c.DuplicateCaps = []int{2, 1, 3} }, DefaultUniverse, true},
		{"negative cap", func(c *ConstraintConfig) { c.DuplicateCaps = []int{-1} }, DefaultUniverse, true},
		{"negative seq2", func(c *ConstraintConfig) { c.MaxSeq2 = -1 }, DefaultUniverse, true},
		{"k above n", func(*ConstraintConfig) {}, Universe{N: 4, K: 5}, true},
		{"even count out of range", func(c *ConstraintConfig) { c.EvenCounts = []int{6} }, DefaultUniverse, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConstraintConfig()
			tt.mutate(&cfg)
			err := cfg.Validate(tt.u)
			if tt.wantErr && !IsConfigError(err) {
				t.Fatalf("expected ConfigError, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestScoreWeights_Validate(t *testing.T) {
	if err := DefaultScoreWeights().Validate(); err != nil {
		t.Fatalf("default weights invalid: %v", err)
	}

	w := DefaultScoreWeights()
	w.Col1 = 0.5
	if !IsConfigError(w.Validate()) {
		t.Error("expected ConfigError for weights summing to 1.4")
	}

	w = DefaultScoreWeights()
	w.Frequency = -0.1
	w.Balance = 0.45
	if !IsConfigError(w.Validate()) {
		t.Error("expected ConfigError for negative weight")
	}
}

func TestDefaultRankProfile(t *testing.T) {
	p := DefaultRankProfile(DefaultUniverse)
	if err := p.Validate(DefaultUniverse); err != nil {
		t.Fatalf("default profile invalid: %v", err)
	}

	// Fresh copy each call
	p.Limits[0] = 99
	if DefaultRankLimits[0] != 1 {
		t.Error("DefaultRankProfile aliases package defaults")
	}

	if c, ok := p.Count(19); !ok || c != 0 {
		t.Errorf("Count(19) = %d, %v; want 0, true", c, ok)
	}
	if _, ok := p.Count(43); ok {
		t.Error("Count(43) should be uncovered")
	}

	wide := DefaultRankProfile(Universe{N: 50, K: 5})
	if len(wide.Counts) != 50 || wide.Counts[49] != 0 {
		t.Errorf("expected padded counts, got len %d", len(wide.Counts))
	}
}
