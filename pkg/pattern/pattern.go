// Package pattern provides the shared pattern utilities used by the
// matcher, store and suggestion packages: control-character handling,
// literal escaping, and generalization of volatile tokens.
//
// Patterns come in two flavors that must not be unified: entries written
// by hand in the exemption store are true regular expressions, while
// machine-generated suggestions are literal-escaped text with hex and
// decimal runs generalized. Both must fully match one trimmed log line.
package pattern

import (
	"regexp"
	"strings"
)

// HexClass matches a 32-character lowercase hex token (a content hash).
const HexClass = "[0-9a-f]{32}"

// DecimalClass matches a run of decimal digits.
const DecimalClass = "[0-9]+"

var (
	// controlRegex matches ANSI control sequences: a 7-bit C1 escape, or
	// CSI followed by parameter, intermediate and final bytes.
	controlRegex = regexp.MustCompile("\x1b(?:[@-Z\\\\-_]|\\[[0-?]*[ -/]*[@-~])")

	hexRegex     = regexp.MustCompile(HexClass)
	decimalRegex = regexp.MustCompile(DecimalClass)
)

// HasControlCharacters reports whether s contains ANSI control sequences.
// A configured pattern containing them can never match a control-stripped
// log line, so the store treats this as an authoring mistake.
func HasControlCharacters(s string) bool {
	return controlRegex.MatchString(s)
}

// StripControlCharacters removes color codes and other ANSI control
// sequences from s.
func StripControlCharacters(s string) string {
	return controlRegex.ReplaceAllString(s, "")
}

// Escape quotes regex metacharacters in a literal log line so the result
// matches exactly that line. Spaces are left unescaped for readability.
func Escape(line string) string {
	escaped := regexp.QuoteMeta(line)
	return strings.ReplaceAll(escaped, `\ `, " ")
}

// GeneralizeHashes replaces 32-character lowercase hex tokens, such as
// content hashes in cache paths, with a class that matches any of them.
// For example ".gradle/caches/transforms-2/files-2.1/73f631f487bd87cfd8cb2aabafbac6a8"
// becomes ".gradle/caches/transforms-2/files-2.1/[0-9a-f]{32}".
func GeneralizeHashes(s string) string {
	return hexRegex.ReplaceAllLiteralString(s, HexClass)
}

// GeneralizeNumbers replaces runs of decimal digits with a class that
// matches any number. The naive replacement corrupts hex classes that
// GeneralizeHashes already inserted, so those are repaired afterwards.
func GeneralizeNumbers(s string) string {
	generalized := decimalRegex.ReplaceAllLiteralString(s, DecimalClass)
	return strings.ReplaceAll(generalized, "[[0-9]+-[0-9]+a-f]{[0-9]+}", HexClass)
}

// Generalize escapes a literal log line and generalizes its volatile
// tokens, producing a suggested exemption pattern.
func Generalize(line string) string {
	escaped := Escape(line)
	escaped = GeneralizeHashes(escaped)
	return GeneralizeNumbers(escaped)
}
