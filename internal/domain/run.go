package domain

import "time"

// RunRecord is the persisted outcome of one engine run.
type RunRecord struct {
	RunID                string
	ConfigHash           string // SHA256 of the effective request
	Mode                 string // resolved generator mode
	Target               int
	Accepted             int
	Attempts             int
	Selected             int
	Shortfall            bool
	Cancelled            bool
	HistoryUnavailable   bool
	RankProfileDefaulted bool
	StartedAt            time.Time
	FinishedAt           time.Time
}

// RunCandidate is one selected candidate of a run, at its output rank (1-based).
type RunCandidate struct {
	RunID       string
	Rank        int
	CandidateID string // SHA256(config_hash|key), stable across runs of one config
	Candidate   ScoredCandidate
}
