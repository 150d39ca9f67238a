package model

import "strings"

// RemapRule rewrites an absolute path from one root prefix to another.
// It is a total function: paths that do not start with From pass through
// unchanged, which keeps canonicalization safe to re-apply.
type RemapRule struct {
	From string
	To   string
}

// Apply rewrites the path when it starts with the rule's From prefix.
// The second return value reports whether a rewrite happened.
func (r RemapRule) Apply(path string) (string, bool) {
	if r.From == "" || !strings.HasPrefix(path, r.From) {
		return path, false
	}

	return r.To + path[len(r.From):], true
}

// RuleSet is an ordered list of remap rules; the first matching prefix wins.
type RuleSet []RemapRule

// Apply rewrites the path using the first matching rule, or returns the
// path unchanged when no rule matches.
func (rs RuleSet) Apply(path string) (string, bool) {
	for _, rule := range rs {
		if remapped, ok := rule.Apply(path); ok {
			return remapped, true
		}
	}

	return path, false
}
