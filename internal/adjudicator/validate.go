package adjudicator

import (
	"fmt"
	"strings"
	"time"
)

// iso8601Layouts are the timestamp shapes accepted at the boundary. Offsets are
// optional because closing timestamps written by older collaborators carry none.
var iso8601Layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02",
}

// ParseTimestamp parses an ISO-8601 timestamp in one of the accepted layouts.
func ParseTimestamp(value string) (time.Time, error) {
	for _, layout := range iso8601Layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%q is not an ISO-8601 timestamp", value)
}

// SupportedVersions lists the algorithm versions this engine can compute.
func SupportedVersions() []string {
	return []string{AlgorithmFullBinding, AlgorithmSessionSeed}
}

// IsSupportedVersion reports whether version names a known seed construction.
func IsSupportedVersion(version string) bool {
	for _, v := range SupportedVersions() {
		if v == version {
			return true
		}
	}
	return false
}

// validateInput checks every field the computation depends on and returns the
// algorithm version the input resolves to.
func validateInput(in Input, defaultVersion string) (string, error) {
	if in.SessionID == "" {
		return "", newValidationError("session_id", "is required")
	}
	if strings.Contains(in.SessionID, SeedDelimiter) {
		return "", newValidationError("session_id", "must not contain %q", SeedDelimiter)
	}
	if in.ProductID == "" {
		return "", newValidationError("product_id", "is required")
	}
	if in.GroupID == "" {
		return "", newValidationError("group_id", "is required")
	}

	version := in.AlgorithmVersion
	if version == "" {
		version = defaultVersion
	}
	if !IsSupportedVersion(version) {
		return "", newValidationError("algorithm_version", "unsupported version %q (supported: %s)",
			version, strings.Join(SupportedVersions(), ", "))
	}

	if in.ClosingTimestamp == "" {
		return "", newValidationError("closing_timestamp", "is required")
	}
	if _, err := ParseTimestamp(in.ClosingTimestamp); err != nil {
		return "", newValidationError("closing_timestamp", "%v", err)
	}

	if version == AlgorithmSessionSeed && !hasPublicSeed(in) {
		return "", newValidationError("public_seed", "is required by algorithm version %q", version)
	}

	if len(in.Participants) == 0 {
		return "", newValidationError("participants", "must not be empty")
	}
	seen := make(map[string]int, len(in.Participants))
	for i, p := range in.Participants {
		field := fmt.Sprintf("participants[%d]", i)
		if p.ParticipantID == "" {
			return "", newValidationError(field+".participant_id", "is required")
		}
		if strings.Contains(p.ParticipantID, SeedDelimiter) {
			return "", newValidationError(field+".participant_id", "must not contain %q", SeedDelimiter)
		}
		if prev, dup := seen[p.ParticipantID]; dup {
			return "", newValidationError(field+".participant_id", "duplicates participants[%d] (%q)", prev, p.ParticipantID)
		}
		seen[p.ParticipantID] = i

		if p.TicketNumber < 1 {
			return "", newValidationError(field+".ticket_number", "must be >= 1, got %d", p.TicketNumber)
		}
		if p.TicketNumber > maxTicketNumber {
			return "", newValidationError(field+".ticket_number", "must be <= %d, got %d", maxTicketNumber, p.TicketNumber)
		}
		if p.JoinTimestamp != "" {
			if _, err := ParseTimestamp(p.JoinTimestamp); err != nil {
				return "", newValidationError(field+".join_timestamp", "%v", err)
			}
		}
	}
	return version, nil
}
