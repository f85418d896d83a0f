// Package store manages the exemption store: the persisted, ordered,
// human-curated list of patterns for recognized log messages.
//
// The file is line oriented. Blank lines and "#"-prefixed comments are
// non-matching; everything else is one pattern per line. Ordering and
// grouping are human-meaningful (entries are grouped under commented
// task markers like "# > Task :docs"), so the store is never re-sorted
// on disk, only extended in place.
package store

import (
	"os"
	"sort"
	"strings"

	"github.com/arthur-debert/logtrim/pkg/errors"
	"github.com/arthur-debert/logtrim/pkg/pattern"
)

// Store holds the raw store lines in file order.
type Store struct {
	lines []string
}

// Load reads and parses the exemption store at path.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrStoreRead, "failed to read exemption store %s", path)
	}
	return Parse(SplitLines(string(data)))
}

// Parse builds a store from raw lines, validating that no pattern line
// contains control characters. Such a line can never match a
// control-stripped log line, so it signals a copying mistake and is
// rejected loudly instead of being absorbed.
func Parse(lines []string) (*Store, error) {
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if pattern.HasControlCharacters(trimmed) {
			return nil, errors.Newf(errors.ErrPatternControl,
				"unexpected control characters found in configuration line: %q", trimmed).
				WithDetail("line", trimmed)
		}
	}
	kept := make([]string, len(lines))
	copy(kept, lines)
	return &Store{lines: kept}, nil
}

// Lines returns the raw store lines in file order.
func (s *Store) Lines() []string {
	return s.lines
}

// MatchingPatterns returns the comment-stripped view used to classify
// log lines: every pattern line, trimmed and sorted. Order is irrelevant
// to matching, and sorting groups patterns with common prefixes into the
// same subtree of the hierarchical matcher.
func (s *Store) MatchingPatterns() []string {
	var patterns []string
	for _, line := range s.lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		patterns = append(patterns, trimmed)
	}
	sort.Strings(patterns)
	return patterns
}

// InsertionLines returns the comment-aware, position-stable view used
// when editing the store itself: every non-blank line, trimmed, in file
// order. Comments are entries too, so a matcher built over this view
// yields ranks that map 1:1 to store positions.
func (s *Store) InsertionLines() []string {
	var entries []string
	for _, line := range s.lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		entries = append(entries, trimmed)
	}
	return entries
}

// Save writes the store content to path.
func (s *Store) Save(path string) error {
	if err := WriteLines(path, s.lines); err != nil {
		return errors.Wrapf(err, errors.ErrStoreWrite, "failed to write exemption store %s", path)
	}
	return nil
}

// WriteLines writes a line-oriented artifact in the store's format.
// Callers wrap the error with the code matching what they were writing.
func WriteLines(path string, lines []string) error {
	content := strings.Join(lines, "\n") + "\n"
	return os.WriteFile(path, []byte(content), 0644)
}

// SplitLines splits file content into lines, tolerating CRLF endings and
// a trailing newline.
func SplitLines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	lines := strings.Split(content, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
