// Package matchinfo persists the match set between runs as a small JSON
// document: {"matches": {"<voucher>": ["file.pdf", ...]}}.
package matchinfo

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/bilag-dev/bilag/internal/match"
)

type fileFormat struct {
	Matches map[string][]string `json:"matches"`
}

// Load reads a persisted match set. A missing file is a first run and
// yields an empty set; unknown keys in the document are ignored.
func Load(path string) (match.MatchSet, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return match.MatchSet{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading match set: %w", err)
	}

	var f fileFormat
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing match set %s: %w", path, err)
	}
	if f.Matches == nil {
		return match.MatchSet{}, nil
	}
	return match.MatchSet(f.Matches), nil
}

// Save writes the match set, overwriting any previous file. Only the
// matches object is persisted; the unmatched pools are derived state.
func Save(path string, m match.MatchSet) error {
	data, err := json.MarshalIndent(fileFormat{Matches: m}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling match set: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing match set: %w", err)
	}
	return nil
}
