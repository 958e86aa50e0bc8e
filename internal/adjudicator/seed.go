package adjudicator

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
)

// BuildSeed builds the textual base seed for the given algorithm version.
// ordered must already be in canonical order.
func BuildSeed(version string, in Input, ordered []Participant) (string, error) {
	switch version {
	case AlgorithmFullBinding:
		var ids strings.Builder
		for _, p := range ordered {
			ids.WriteString(p.ParticipantID)
		}
		parts := []string{in.SessionID, in.ClosingTimestamp, ids.String()}
		if hasPublicSeed(in) {
			parts = append(parts, *in.PublicSeed)
		}
		return strings.Join(parts, SeedDelimiter), nil
	case AlgorithmSessionSeed:
		if !hasPublicSeed(in) {
			return "", newValidationError("public_seed", "is required by algorithm version %q", version)
		}
		return in.SessionID + SeedDelimiter + *in.PublicSeed, nil
	default:
		return "", newValidationError("algorithm_version", "unsupported version %q", version)
	}
}

// hasPublicSeed treats an empty public seed the same as an absent one.
func hasPublicSeed(in Input) bool {
	return in.PublicSeed != nil && *in.PublicSeed != ""
}

// NormalizeSeed hashes the UTF-8 seed with SHA-256 and reads the digest as a
// big-endian unsigned integer.
func NormalizeSeed(seed string) *big.Int {
	sum := sha256.Sum256([]byte(seed))
	return new(big.Int).SetBytes(sum[:])
}

// WinnerIndex maps the numeric seed onto [0, n).
func WinnerIndex(numericSeed *big.Int, n int) (int, error) {
	if n <= 0 {
		return 0, &InvalidStateError{Reason: "no participants"}
	}
	if numericSeed == nil || numericSeed.Sign() < 0 {
		return 0, &InvalidStateError{Reason: "numeric seed must be a non-negative integer"}
	}
	idx := new(big.Int).Mod(numericSeed, big.NewInt(int64(n)))
	return int(idx.Int64()), nil
}

// ResultHash fingerprints an outcome: hex(SHA-256(session_id|winner_id|numeric_seed)).
func ResultHash(sessionID, winnerParticipantID string, numericSeed *big.Int) string {
	base := fmt.Sprintf("%s%s%s%s%s", sessionID, SeedDelimiter, winnerParticipantID, SeedDelimiter, numericSeed.String())
	sum := sha256.Sum256([]byte(base))
	return hex.EncodeToString(sum[:])
}
