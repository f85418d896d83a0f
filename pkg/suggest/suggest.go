// Package suggest generates replacement exemption-store content from the
// residual lines of a reduced log: every line nobody has exempted yet
// becomes a suggested pattern, generalized and filed at a position that
// preserves the store's human-curated grouping.
//
// A naive alphabetical or append-only insertion would churn the file and
// destroy reviewability. Instead, each suggestion is placed either under
// the task marker it came from (when that task had no prior coverage) or
// immediately after the last store entry confirmed present in the log.
package suggest

import (
	"strings"

	"github.com/arthur-debert/logtrim/pkg/logging"
	"github.com/arthur-debert/logtrim/pkg/matcher"
	"github.com/arthur-debert/logtrim/pkg/pattern"
	"github.com/arthur-debert/logtrim/pkg/store"
)

// TaskLinePrefix marks task headers in reduced log output.
const TaskLinePrefix = "> Task :"

// Generate walks the residual lines against the comment-aware store view
// and returns the full replacement store content: the existing entries in
// their original order with new suggestions interleaved. Suggestions from
// a task with no prior coverage form a new trailing group headed by a
// commented task line.
func Generate(residual []string, st *store.Store) ([]string, error) {
	logger := logging.GetLogger("suggest")

	// A matcher over the comment-aware view: comments are entries too, so
	// ranks returned here map 1:1 to positions in the store.
	entries := st.InsertionLines()
	codeMatcher := matcher.New(entries)

	// Rank of the last entry confirmed present, "before start" initially.
	previousFound := -1
	// Task marker waiting to be surfaced, if it turns out to produce
	// unexempted output.
	pendingTask := ""

	insertionsByPosition := make(map[int][]string)
	insertionsByTask := make(map[string][]string)
	var taskOrder []string
	seen := make(map[string]struct{})

	for _, raw := range residual {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		isTask := false
		if strings.HasPrefix(line, TaskLinePrefix) {
			// Task headers are stored commented out; they are not
			// exemptions themselves, only grouping.
			line = "# " + line
			pendingTask = line
			isTask = true
		}
		index, found, err := codeMatcher.IndexOfFirstMatch(line)
		if err != nil {
			return nil, err
		}
		if found {
			// Already mentioned; nothing to exempt, but this informs
			// where the next suggestion is inserted.
			previousFound = index
			pendingTask = ""
			continue
		}
		if isTask {
			// Only surfaced later, if the task produces real output.
			continue
		}

		suggested := pattern.Generalize(line)
		if _, dup := seen[suggested]; dup {
			continue
		}
		if pendingTask != "" {
			if _, known := insertionsByTask[pendingTask]; !known {
				taskOrder = append(taskOrder, pendingTask)
			}
			insertionsByTask[pendingTask] = append(insertionsByTask[pendingTask], suggested)
		} else {
			insertionsByPosition[previousFound] = append(insertionsByPosition[previousFound], suggested)
		}
		seen[suggested] = struct{}{}
	}

	logger.Debug().
		Int("entries", len(entries)).
		Int("suggestions", len(seen)).
		Int("newTaskGroups", len(taskOrder)).
		Msg("Generated exemption suggestions")

	// Reassemble: existing entries in order, each followed by the
	// suggestions anchored to it.
	result := make([]string, 0, len(entries)+len(seen)+len(taskOrder))
	for i, entry := range entries {
		result = append(result, entry)
		result = append(result, insertionsByPosition[i]...)
	}
	// Suggestions that preceded any confirmed entry come next.
	result = append(result, insertionsByPosition[-1]...)
	// Finally the brand-new task groups, in first-seen order.
	for _, task := range taskOrder {
		result = append(result, task)
		result = append(result, insertionsByTask[task]...)
	}
	return result, nil
}
