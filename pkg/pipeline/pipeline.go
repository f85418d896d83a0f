// Package pipeline implements the sequential line filters that run
// before and after exemption matching: control-character stripping, path
// normalization, failing-task selection, stack-frame shortening,
// built-in noise removal, and the collapsing of empty tasks and blank
// runs. Each filter is a pure []string to []string transform; the
// orchestrator in pkg/reduce decides which to apply for a given mode.
package pipeline

import (
	"strings"

	"github.com/arthur-debert/logtrim/pkg/config"
	"github.com/arthur-debert/logtrim/pkg/logging"
	"github.com/arthur-debert/logtrim/pkg/pattern"
)

// TaskHeaderPrefix starts the task headers a build tool emits before a
// task's output.
const TaskHeaderPrefix = "> Task "

// StripControlCharacters removes color codes and other ANSI control
// sequences from every line.
func StripControlCharacters(lines []string) []string {
	result := make([]string, len(lines))
	for i, line := range lines {
		result[i] = pattern.StripControlCharacters(line)
	}
	return result
}

// NormalizePaths reads the directory declarations the log carries (lines
// like "OUT_DIR=/path/to/out") and replaces every later mention of those
// directories with stable placeholders, so the same message compares
// equal across machines and build servers.
func NormalizePaths(lines []string, markers []config.Marker) []string {
	values := make(map[string]string, len(markers))
	for _, line := range lines {
		for _, marker := range markers {
			if strings.HasPrefix(line, marker.Key) {
				values[marker.Key] = strings.TrimSpace(strings.TrimPrefix(line, marker.Key))
			}
		}
		if len(values) == len(markers) {
			break
		}
	}

	// Replacement order follows the config: aliases rewrite well-known
	// subdirectories before the root placeholder swallows them.
	type replacement struct{ path, placeholder string }
	var replacements []replacement
	for _, marker := range markers {
		dir, found := values[marker.Key]
		if !found || dir == "" {
			continue
		}
		for _, alias := range marker.Aliases {
			replacements = append(replacements, replacement{dir + "/" + alias.Subpath, alias.Replacement})
		}
		replacements = append(replacements, replacement{dir, marker.Replacement})
	}

	result := make([]string, len(lines))
	for i, line := range lines {
		for _, r := range replacements {
			if strings.Contains(line, r.path) {
				line = strings.ReplaceAll(line, r.path, r.placeholder)
			}
		}
		result[i] = line
	}
	return result
}

// SelectFailingTaskOutput keeps only the excerpts produced by failing
// tasks: everything between the Starting and Finished markers of any
// task named in an "Execution failed for task '...'" line. If no failing
// task produced output, the whole log is kept, since useful output may
// have come from somewhere else.
func SelectFailingTaskOutput(lines []string) []string {
	logger := logging.GetLogger("pipeline")

	var tasksOfInterest []string
	for _, line := range lines {
		if !strings.HasPrefix(line, "Execution failed for task") {
			continue
		}
		if _, rest, found := strings.Cut(line, "task '"); found {
			tasksOfInterest = append(tasksOfInterest, strings.TrimSuffix(strings.TrimSpace(rest), "'."))
		}
	}
	logger.Info().Strs("tasks", tasksOfInterest).Msg("Detected failing tasks")

	interesting := make(map[string]bool, len(tasksOfInterest))
	for _, task := range tasksOfInterest {
		interesting[task] = true
	}

	active := make(map[string]int)
	var retained []string
	for _, line := range lines {
		if strings.HasPrefix(line, "Task ") {
			fields := strings.Fields(line)
			if len(fields) >= 2 && interesting[fields[1]] {
				switch fields[len(fields)-1] {
				case "Starting":
					active[fields[1]]++
				case "Finished":
					if active[fields[1]] > 0 {
						active[fields[1]]--
						if active[fields[1]] == 0 {
							delete(active, fields[1])
						}
					}
					retained = append(retained, line)
				}
			}
		}
		if len(active) > 0 {
			retained = append(retained, line)
		}
	}
	if len(retained) > 0 {
		return retained
	}
	return lines
}

// ShortenStackFrames collapses consecutive stack frames from boring
// packages into a single elided frame.
func ShortenStackFrames(lines []string, boringPrefixes []string) []string {
	var result []string
	prevBoring := false
	for _, line := range lines {
		prefix := matchingPrefix(line, boringPrefixes)
		if prefix != "" {
			if !prevBoring {
				result = append(result, prefix+"...")
			}
			prevBoring = true
		} else {
			result = append(result, line)
			prevBoring = false
		}
	}
	return result
}

// RemoveKnownNoise drops lines that match the built-in noise lists, by
// exact trimmed content or by prefix.
func RemoveKnownNoise(lines []string, noise config.NoiseConfig) []string {
	exact := make(map[string]bool, len(noise.Lines))
	for _, line := range noise.Lines {
		exact[line] = true
	}
	var result []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if exact[trimmed] {
			continue
		}
		if matchingPrefix(trimmed, noise.Prefixes) != "" {
			continue
		}
		result = append(result, line)
	}
	return result
}

// CollapseEmptyTasks removes task headers whose output was entirely
// filtered away. A header is held back until some nonempty output
// arrives; blank lines under a held header are held with it.
func CollapseEmptyTasks(lines []string) []string {
	var result []string
	pendingTask := ""
	havePending := false
	var pendingBlanks []string
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, TaskHeaderPrefix):
			pendingTask = line
			havePending = true
			pendingBlanks = nil
		case strings.TrimSpace(line) == "":
			if havePending {
				pendingBlanks = append(pendingBlanks, line)
			} else {
				result = append(result, line)
			}
		default:
			if havePending {
				result = append(result, pendingTask)
				result = append(result, pendingBlanks...)
				havePending = false
				pendingBlanks = nil
			}
			result = append(result, line)
		}
	}
	return result
}

// CollapseBlankLines reduces runs of blank lines to a single blank line
// and drops leading blanks.
func CollapseBlankLines(lines []string) []string {
	var result []string
	prevBlank := true
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			if !prevBlank {
				result = append(result, line)
			}
			prevBlank = true
		} else {
			result = append(result, line)
			prevBlank = false
		}
	}
	return result
}

func matchingPrefix(line string, prefixes []string) string {
	for _, prefix := range prefixes {
		if strings.HasPrefix(line, prefix) {
			return prefix
		}
	}
	return ""
}
