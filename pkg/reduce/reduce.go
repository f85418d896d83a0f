// Package reduce orchestrates a full reduction run: it loads the log and
// the exemption store, applies the filter pipeline, classifies the
// residue against the store, and in validate and update modes hands the
// leftover lines to the suggestion generator.
//
// Everything is a single-threaded, single-pass batch computation. The
// store used for matching is loaded once and never mutated mid-run;
// update mode writes a full replacement instead.
package reduce

import (
	"os"
	"strings"

	"github.com/arthur-debert/logtrim/pkg/config"
	"github.com/arthur-debert/logtrim/pkg/errors"
	"github.com/arthur-debert/logtrim/pkg/logging"
	"github.com/arthur-debert/logtrim/pkg/matcher"
	"github.com/arthur-debert/logtrim/pkg/pipeline"
	"github.com/arthur-debert/logtrim/pkg/store"
	"github.com/arthur-debert/logtrim/pkg/suggest"
)

// SuggestionSuffix is appended to the log path to name the suggestion
// artifact written in validate mode.
const SuggestionSuffix = ".ignore"

// Options configures a reduction run.
type Options struct {
	// LogPath is the log file to reduce.
	LogPath string
	// StorePath is the exemption store to classify against.
	StorePath string
	// Config overrides the default configuration when non-nil.
	Config *config.Config
}

// Result reports what a run produced.
type Result struct {
	// Residual holds the lines that survived filtering and matched no
	// exemption. In report mode this is the program's output; in
	// validate mode any content here is a failure.
	Residual []string
	// SuggestionPath is where validate mode wrote its suggestion file,
	// empty when no residual lines were found.
	SuggestionPath string
	// StoreUpdated reports whether update mode rewrote the store.
	StoreUpdated bool
}

// Report runs the default mode: reduce the log and return the residual
// lines for printing. Residual content here is expected output, not an
// error.
func Report(opts Options) (*Result, error) {
	residual, _, err := run(opts, true, false)
	if err != nil {
		return nil, err
	}
	return &Result{Residual: residual}, nil
}

// Validate reduces the log with ambiguity checking on and, when residual
// lines remain, writes a directly mergeable suggestion file alongside
// the log. The caller decides the process exit code from the result.
func Validate(opts Options) (*Result, error) {
	residual, st, err := run(opts, false, true)
	if err != nil {
		return nil, err
	}
	result := &Result{Residual: residual}
	if len(residual) == 0 {
		return result, nil
	}
	suggested, err := suggest.Generate(residual, st)
	if err != nil {
		return nil, err
	}
	suggestionPath := opts.LogPath + SuggestionSuffix
	if err := store.WriteLines(suggestionPath, suggested); err != nil {
		return nil, errors.Wrapf(err, errors.ErrSuggestionWrite,
			"failed to write suggested exemptions to %s", suggestionPath)
	}
	result.SuggestionPath = suggestionPath
	return result, nil
}

// Update reduces the log and, when residual lines remain, overwrites the
// exemption store in place with the generated suggestions.
func Update(opts Options) (*Result, error) {
	residual, st, err := run(opts, true, false)
	if err != nil {
		return nil, err
	}
	result := &Result{Residual: residual}
	if len(residual) == 0 {
		return result, nil
	}
	suggested, err := suggest.Generate(residual, st)
	if err != nil {
		return nil, err
	}
	if err := store.WriteLines(opts.StorePath, suggested); err != nil {
		return nil, errors.Wrapf(err, errors.ErrStoreWrite,
			"failed to update exemption store %s", opts.StorePath)
	}
	result.StoreUpdated = true
	return result, nil
}

// run applies the filter pipeline and classification, returning the
// residual lines and the loaded store.
func run(opts Options, selectFailing, checkAmbiguity bool) ([]string, *store.Store, error) {
	logger := logging.GetLogger("reduce")

	cfg := opts.Config
	if cfg == nil {
		loaded, err := config.Default()
		if err != nil {
			return nil, nil, err
		}
		cfg = loaded
	}

	data, err := os.ReadFile(opts.LogPath)
	if err != nil {
		return nil, nil, errors.Wrapf(err, errors.ErrLogRead, "failed to read log %s", opts.LogPath)
	}
	lines := store.SplitLines(string(data))
	total := len(lines)

	lines = pipeline.StripControlCharacters(lines)
	lines = pipeline.NormalizePaths(lines, cfg.Normalize)

	st, err := store.Load(opts.StorePath)
	if err != nil {
		return nil, nil, err
	}

	if selectFailing {
		lines = pipeline.SelectFailingTaskOutput(lines)
	}
	lines = pipeline.ShortenStackFrames(lines, cfg.Stack.BoringPrefixes)
	lines = pipeline.RemoveKnownNoise(lines, cfg.Noise)
	lines, err = classify(lines, st, cfg, checkAmbiguity)
	if err != nil {
		return nil, nil, err
	}
	lines = pipeline.CollapseEmptyTasks(lines)
	lines = pipeline.CollapseBlankLines(lines)

	logger.Debug().
		Int("totalLines", total).
		Int("residualLines", len(lines)).
		Int("exemptions", len(st.MatchingPatterns())).
		Msg("Reduction finished")
	return lines, st, nil
}

// classify drops every line covered by an exemption. With ambiguity
// checking on, a line fully matching more than one pattern is a
// configuration error reported with every matching pattern, never
// silently resolved by picking one.
func classify(lines []string, st *store.Store, cfg *config.Config, checkAmbiguity bool) ([]string, error) {
	m := matcher.NewWithBranchFactor(st.MatchingPatterns(), cfg.Matcher.BranchFactor)
	var residual []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		matches, err := m.MatchingPatterns(trimmed, true)
		if err != nil {
			return nil, err
		}
		if checkAmbiguity && len(matches) > 1 {
			return nil, errors.Newf(errors.ErrAmbiguousMatch,
				"multiple message exemptions match the same message; are some exemptions too broad?").
				WithDetail("line", trimmed).
				WithDetail("patterns", matches)
		}
		if len(matches) == 0 {
			residual = append(residual, line)
		}
	}
	return residual, nil
}
