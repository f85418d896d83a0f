// Package matcher implements a hierarchical regex matcher that can
// quickly identify which of a large set of patterns fully match a given
// line.
//
// Testing thousands of small regexes one by one against every line of a
// huge log is too slow. Instead the matcher compiles one composite
// alternation regex per node as a fast existence pre-test, and lazily
// partitions the pattern list into a dispatch tree only when a node needs
// to identify which of its patterns matched. Most lines either match
// nothing or are resolved near the root, so the tree stays mostly
// unexpanded.
package matcher

import (
	"regexp"
	"strings"
	"sync"

	"github.com/arthur-debert/logtrim/pkg/errors"
)

// DefaultBranchFactor is the maximum number of children per node. A
// longer composite regex takes more time to compile, but testing lots of
// small regexes also takes time; this width balances the two in practice.
const DefaultBranchFactor = 32

// Matcher answers "which patterns fully match this line" and "what is
// the rank of the first matching pattern" for an ordered pattern list.
//
// The pattern list is one immutable backing array; every node owns a
// contiguous [lo, hi) sub-range of it. Matching is always full-line
// against an already trimmed line, never substring, so an overly broad
// pattern cannot silently exempt unrelated content.
type Matcher struct {
	patterns []string
	branch   int
	root     *node
}

// node owns the patterns[lo:hi] sub-range. Its composite regex and its
// child split are each initialized at most once, on first demand, even
// if callers ever classify lines concurrently.
type node struct {
	patterns []string // full backing array, shared by all nodes
	branch   int
	lo, hi   int

	compileOnce sync.Once
	composite   *regexp.Regexp
	compileErr  error

	splitOnce sync.Once
	children  []*node
}

// New creates a matcher over patterns with the default branch factor.
// The pattern order is preserved and duplicates are not removed; callers
// validate duplicates at a higher level where they can name the source.
func New(patterns []string) *Matcher {
	return NewWithBranchFactor(patterns, DefaultBranchFactor)
}

// NewWithBranchFactor creates a matcher with an explicit maximum number
// of children per node. Results are identical for any branch factor >= 1;
// only the internal tree shape changes.
func NewWithBranchFactor(patterns []string, branch int) *Matcher {
	if branch < 1 {
		branch = 1
	}
	backing := make([]string, len(patterns))
	copy(backing, patterns)
	return &Matcher{
		patterns: backing,
		branch:   branch,
		root: &node{
			patterns: backing,
			branch:   branch,
			lo:       0,
			hi:       len(backing),
		},
	}
}

// Patterns returns the pattern list in its original order.
func (m *Matcher) Patterns() []string {
	return m.patterns
}

// Len returns the number of patterns.
func (m *Matcher) Len() int {
	return len(m.patterns)
}

// MatchingPatterns returns the sub-sequence of patterns, in their
// original order, that fully match line. When expectMatch is true and
// the matcher holds more than one pattern, the composite pre-test is
// skipped and children are queried directly, since the caller already
// knows something matches.
func (m *Matcher) MatchingPatterns(line string, expectMatch bool) ([]string, error) {
	return m.root.matching(line, expectMatch)
}

// IndexOfFirstMatch returns the 0-based rank, in the original pattern
// ordering, of the first pattern fully matching line. The second result
// is false when no pattern matches.
func (m *Matcher) IndexOfFirstMatch(line string) (int, bool, error) {
	return m.root.indexOfFirstMatch(line)
}

func (n *node) size() int {
	return n.hi - n.lo
}

func (n *node) texts() []string {
	return n.patterns[n.lo:n.hi]
}

func (n *node) matching(line string, expectMatch bool) ([]string, error) {
	if expectMatch && n.size() > 1 {
		// The caller already expects a match, jump straight to the children.
		return n.askChildren(line)
	}
	ok, err := n.matches(line)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	if n.size() > 1 {
		// At least one owned pattern matches; the children identify which.
		return n.askChildren(line)
	}
	return n.texts(), nil
}

func (n *node) askChildren(line string) ([]string, error) {
	n.ensureSplit()
	var results []string
	for _, child := range n.children {
		childResults, err := child.matching(line, false)
		if err != nil {
			return nil, err
		}
		results = append(results, childResults...)
	}
	return results, nil
}

func (n *node) indexOfFirstMatch(line string) (int, bool, error) {
	if n.size() == 0 {
		return 0, false, nil
	}
	if n.size() == 1 {
		ok, err := n.matches(line)
		return 0, ok, err
	}
	n.ensureSplit()
	count := 0
	for _, child := range n.children {
		index, ok, err := child.indexOfFirstMatch(line)
		if err != nil {
			return 0, false, err
		}
		if ok {
			return count + index, true, nil
		}
		count += child.size()
	}
	return 0, false, nil
}

// matches runs the composite existence pre-test: a single alternation
// over all owned patterns, anchored so only full-line matches count.
func (n *node) matches(line string) (bool, error) {
	if n.size() == 0 {
		return false, nil
	}
	n.compileOnce.Do(func() {
		// The whole alternation sits inside one group so the anchors
		// apply to every branch, not just the outermost two.
		var b strings.Builder
		b.WriteString(`\A(?:(?:`)
		for i, text := range n.texts() {
			if i > 0 {
				b.WriteString(")|(?:")
			}
			b.WriteString(text)
		}
		b.WriteString(`))\z`)
		n.composite, n.compileErr = regexp.Compile(b.String())
	})
	if n.compileErr != nil {
		return false, errors.Wrapf(n.compileErr, errors.ErrPatternInvalid,
			"failed to compile composite of %d patterns", n.size())
	}
	return n.composite.MatchString(line), nil
}

// ensureSplit lazily partitions the node's range into at most branch
// contiguous children, each owning a proportional sub-range.
func (n *node) ensureSplit() {
	n.splitOnce.Do(func() {
		numChildren := n.branch
		if n.size() < numChildren {
			numChildren = n.size()
		}
		children := make([]*node, 0, numChildren)
		childStart := n.lo
		for i := 0; i < numChildren; i++ {
			childEnd := n.lo + n.size()*(i+1)/numChildren
			children = append(children, &node{
				patterns: n.patterns,
				branch:   n.branch,
				lo:       childStart,
				hi:       childEnd,
			})
			childStart = childEnd
		}
		n.children = children
	})
}
