package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"lotto-cover-lab/internal/domain"
)

// ComputeCandidateID computes a deterministic candidate_id using SHA256.
// Formula: SHA256(config_hash|combination_key)
// Returns hex-encoded hash (64 characters).
func ComputeCandidateID(configHash string, c domain.Combination) string {
	data := fmt.Sprintf("%s|%s", configHash, c.Key())

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
