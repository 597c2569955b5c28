package schema

import (
	"encoding/json"
	"strings"
)

// ParseKeyList parses a persisted key list (PrimaryKeys, ScdJoinKeys,
// ScdSequenceKeys) into an ordered list of field identities.
//
// The persisted value may be a JSON array string written by this editor or a
// plain comma-separated list written by an upstream process, so both formats
// are accepted. A string that looks like a JSON array but fails to parse
// degrades to the comma-split path; this never returns an error.
func ParseKeyList(raw string) []string {
	if strings.HasPrefix(strings.TrimSpace(raw), "[") {
		var parsed []string
		if err := json.Unmarshal([]byte(raw), &parsed); err == nil {
			return cleanKeys(parsed)
		}
	}
	return cleanKeys(strings.Split(raw, ","))
}

// FormatKeyList serializes a key list the way the save path persists it.
func FormatKeyList(keys []string) string {
	if keys == nil {
		keys = []string{}
	}
	out, _ := json.Marshal(keys)
	return string(out)
}

func cleanKeys(keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if trimmed := strings.TrimSpace(k); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
