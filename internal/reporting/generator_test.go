package reporting

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"lotto-cover-lab/internal/domain"
	"lotto-cover-lab/internal/engine"
	"lotto-cover-lab/internal/features"
	"lotto-cover-lab/internal/generator"
	"lotto-cover-lab/internal/history"
	"lotto-cover-lab/internal/storage"
	"lotto-cover-lab/internal/storage/memory"
)

var fixedTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func scored(score float64, nums ...int) domain.ScoredCandidate {
	c := domain.Combination(nums)
	return domain.ScoredCandidate{
		Combination: c,
		Features:    features.Extract(c, domain.DefaultUniverse),
		Score:       score,
	}
}

func setupResult(t *testing.T) *engine.Result {
	t.Helper()
	u := domain.DefaultUniverse

	newest, err := domain.NewCombination([]int{5, 12, 19, 30, 41}, u)
	if err != nil {
		t.Fatalf("NewCombination failed: %v", err)
	}
	hist := history.NewContext(
		[]*domain.HistoricalDraw{{DrawDate: fixedTime, Numbers: newest}},
		nil,
		history.DefaultOptions(u),
	)

	selected := []domain.ScoredCandidate{
		scored(80, 5, 12, 18, 25, 30),
		scored(70, 3, 14, 22, 27, 39),
		scored(60, 5, 16, 21, 33, 40),
	}
	pool := append(append([]domain.ScoredCandidate{}, selected...), scored(40, 7, 11, 24, 28, 36))

	return &engine.Result{
		Selected: selected,
		Pool:     pool,
		History:  hist,
		Diagnostics: engine.Diagnostics{
			RunID:       "run-1",
			ConfigHash:  "hash-1",
			Mode:        generator.ModeRandom,
			SearchSpace: 850668,
			Target:      100,
			Accepted:    4,
			Attempts:    500,
			Selected:    3,
			Shortfall:   &engine.Shortfall{Accepted: 4, Attempts: 500, Target: 100},
			Rejections:  map[string]int{"balance": 10, "sum": 10, "decade": 3, "modular": 0},
			Duration:    2 * time.Second,
		},
	}
}

func TestFromResult_Summary(t *testing.T) {
	g := NewGenerator(nil, nil, nil).WithClock(func() time.Time { return fixedTime })
	r := g.FromResult(setupResult(t), domain.DefaultUniverse)

	if !r.GeneratedAt.Equal(fixedTime) {
		t.Errorf("GeneratedAt = %v, want %v", r.GeneratedAt, fixedTime)
	}
	if !r.Run.Shortfall || r.Run.Selected != 3 {
		t.Errorf("run section = %+v", r.Run)
	}

	if r.SumStats.N != 3 || r.SumStats.Min != 90 || r.SumStats.Max != 115 || r.SumStats.Median != 105 {
		t.Errorf("SumStats = %+v", r.SumStats)
	}
	if r.PoolScoreStats.N != 4 || r.PoolScoreStats.Min != 40 {
		t.Errorf("PoolScoreStats = %+v", r.PoolScoreStats)
	}
	if r.ScoreStats.Mean != 70 {
		t.Errorf("ScoreStats.Mean = %v, want 70", r.ScoreStats.Mean)
	}

	wantEven := []CountRow{{Value: 2, Count: 2}, {Value: 3, Count: 1}}
	if len(r.EvenDistribution) != len(wantEven) {
		t.Fatalf("EvenDistribution = %+v", r.EvenDistribution)
	}
	for i, row := range wantEven {
		if r.EvenDistribution[i] != row {
			t.Errorf("EvenDistribution[%d] = %+v, want %+v", i, r.EvenDistribution[i], row)
		}
	}

	wantRejections := []RejectionRow{{"balance", 10}, {"sum", 10}, {"decade", 3}}
	if len(r.Rejections) != len(wantRejections) {
		t.Fatalf("Rejections = %+v", r.Rejections)
	}
	for i, row := range wantRejections {
		if r.Rejections[i] != row {
			t.Errorf("Rejections[%d] = %+v, want %+v", i, r.Rejections[i], row)
		}
	}
}

func TestFromResult_NumberFrequency(t *testing.T) {
	r := NewGenerator(nil, nil, nil).FromResult(setupResult(t), domain.DefaultUniverse)

	wantHot := []int{5, 3, 12, 14, 16}
	for i, n := range wantHot {
		if r.HotNumbers[i].Number != n {
			t.Errorf("HotNumbers[%d] = %d, want %d", i, r.HotNumbers[i].Number, n)
		}
	}
	if r.HotNumbers[0].Count != 2 {
		t.Errorf("hottest count = %d, want 2", r.HotNumbers[0].Count)
	}

	wantCold := []int{1, 2, 4, 6, 7}
	for i, n := range wantCold {
		if r.ColdNumbers[i].Number != n || r.ColdNumbers[i].Count != 0 {
			t.Errorf("ColdNumbers[%d] = %+v, want number %d", i, r.ColdNumbers[i], n)
		}
	}

	if got := r.PositionFrequency[0]; got != (PositionRow{Position: 1, Number: 5, Count: 2}) {
		t.Errorf("PositionFrequency[0] = %+v", got)
	}
}

func TestFromResult_OverlapAndRankBuckets(t *testing.T) {
	r := NewGenerator(nil, nil, nil).FromResult(setupResult(t), domain.DefaultUniverse)

	if len(r.Duplicates) != 1 {
		t.Fatalf("Duplicates = %+v, want one depth", r.Duplicates)
	}
	d := r.Duplicates[0]
	if d.Depth != 1 || d.MaxOverlap != 3 {
		t.Errorf("Duplicates[0] = %+v", d)
	}
	if want := 4.0 / 3.0; d.MeanOverlap < want-1e-9 || d.MeanOverlap > want+1e-9 {
		t.Errorf("MeanOverlap = %v, want %v", d.MeanOverlap, want)
	}

	// 5, 25, 30 have count 3 (bucket 4); 12, 18 have count 4 (bucket 3).
	buckets := r.Candidates[0].RankBuckets
	if buckets[3] != 2 || buckets[4] != 3 {
		t.Errorf("RankBuckets = %v", buckets)
	}
	if got := rankBuckets(buckets); got != "r3:2 r4:3" {
		t.Errorf("rankBuckets() = %q", got)
	}
}

func TestRenderMarkdown_Sections(t *testing.T) {
	g := NewGenerator(nil, nil, nil).WithClock(func() time.Time { return fixedTime })
	md := RenderMarkdown(g.FromResult(setupResult(t), domain.DefaultUniverse))

	for _, section := range []string{
		"# Generation Report",
		"## Run Summary",
		"### Warnings",
		"Shortfall: accepted 4 of 100 after 500 attempts.",
		"## Rejections",
		"## Statistics",
		"## Distributions",
		"## Number Frequency",
		"## Overlap With Recent Draws",
		"## Selected Candidates",
		"| 1 | 5-12-18-25-30 | 90 | 3/2 | 80.00 |",
		"Generated: 2024-06-01T12:00:00Z",
	} {
		if !strings.Contains(md, section) {
			t.Errorf("markdown missing %q", section)
		}
	}
}

func TestRenderMarkdown_Deterministic(t *testing.T) {
	g := NewGenerator(nil, nil, nil).WithClock(func() time.Time { return fixedTime })
	res := setupResult(t)

	first := RenderMarkdown(g.FromResult(res, domain.DefaultUniverse))
	for i := 0; i < 5; i++ {
		if again := RenderMarkdown(g.FromResult(res, domain.DefaultUniverse)); again != first {
			t.Fatal("markdown output is not deterministic")
		}
	}
}

func TestRenderMarkdown_Empty(t *testing.T) {
	md := RenderMarkdown(&Report{GeneratedAt: fixedTime})
	for _, s := range []string{"No rejections recorded.", "No recent draws available.", "No candidates selected."} {
		if !strings.Contains(md, s) {
			t.Errorf("markdown missing %q", s)
		}
	}
}

func TestGenerate_FromStores(t *testing.T) {
	ctx := context.Background()
	runs := memory.NewRunStore()
	cands := memory.NewCandidateStore()

	rec := &domain.RunRecord{
		RunID:      "run-7",
		ConfigHash: "h",
		Mode:       "exhaustive",
		Target:     10,
		Accepted:   2,
		Attempts:   850668,
		Selected:   2,
		Shortfall:  true,
		StartedAt:  fixedTime,
		FinishedAt: fixedTime.Add(3 * time.Second),
	}
	if err := runs.Insert(ctx, rec); err != nil {
		t.Fatalf("Insert run failed: %v", err)
	}
	if err := cands.InsertBulk(ctx, []*domain.RunCandidate{
		{RunID: "run-7", Rank: 1, Candidate: scored(75, 5, 12, 18, 25, 30)},
		{RunID: "run-7", Rank: 2, Candidate: scored(65, 3, 14, 22, 27, 39)},
	}); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	g := NewGenerator(runs, cands, memory.NewRankProfileStore()).WithClock(func() time.Time { return fixedTime })
	r, err := g.Generate(ctx, "run-7", domain.DefaultUniverse)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if r.Run.Duration != 3*time.Second || !r.Run.Shortfall {
		t.Errorf("run section = %+v", r.Run)
	}
	if len(r.Candidates) != 2 || r.Candidates[0].Key != "5-12-18-25-30" {
		t.Errorf("Candidates = %+v", r.Candidates)
	}
	if len(r.Duplicates) != 0 {
		t.Errorf("stored runs carry no history, got %+v", r.Duplicates)
	}

	_, err = g.Generate(ctx, "missing", domain.DefaultUniverse)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Generate(missing) error = %v, want ErrNotFound", err)
	}
}
