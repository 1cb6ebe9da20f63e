package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"lotto-cover-lab/internal/domain"
)

// RunParams are the non-constraint inputs that influence a run's output.
type RunParams struct {
	Mode            string
	Sampling        string
	Target          int
	MaxAttempts     int
	ExhaustiveLimit int
	Seed            uint64
	Select          int
}

// ComputeConfigHash computes a deterministic hash of everything that
// determines a run's output apart from history.
// Formula: SHA256(universe|constraints|weights|params), each section
// rendered with fixed field order.
// Returns hex-encoded hash (64 characters).
func ComputeConfigHash(u domain.Universe, cfg domain.ConstraintConfig, w domain.ScoreWeights, p RunParams) string {
	data := strings.Join([]string{
		fmt.Sprintf("n=%d,k=%d", u.N, u.K),
		fmt.Sprintf("seq2=%d,seq3=%d,mod=%d,modx=%d,decade=%d,sum=%d..%d,dup=%s,even=%s",
			cfg.MaxSeq2, cfg.MaxSeq3, cfg.MaxModTotal, cfg.MaxModX, cfg.DecadeCap,
			cfg.SumRange.Min, cfg.SumRange.Max, joinInts(cfg.DuplicateCaps), joinInts(cfg.EvenCounts)),
		"w=" + joinFloats(w.Frequency, w.Balance, w.Decade, w.Sequence, w.Sum, w.Rank, w.Col1),
		fmt.Sprintf("mode=%s,sampling=%s,target=%d,attempts=%d,limit=%d,seed=%d,select=%d",
			p.Mode, p.Sampling, p.Target, p.MaxAttempts, p.ExhaustiveLimit, p.Seed, p.Select),
	}, "|")

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

func joinInts(vs []int) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func joinFloats(vs ...float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}
