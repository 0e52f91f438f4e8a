// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/wad

package wad

import (
	"fmt"

	"github.com/woozymasta/pathrules"
)

// pathFilter holds compiled include/exclude rules. A nil filter selects everything.
type pathFilter struct {
	matcher *pathrules.Matcher
}

// newPathFilter compiles filter rules; empty rule set yields nil filter.
func newPathFilter(opts FilterOptions) (*pathFilter, error) {
	opts.Rules = normalizeFilterRules(opts.Rules)
	if len(opts.Rules) == 0 {
		return nil, nil
	}

	opts.applyDefaults()

	matcher, err := pathrules.NewMatcher(opts.Rules, opts.MatcherOptions)
	if err != nil {
		return nil, fmt.Errorf("%w: compile rules: %w", ErrInvalidPathRules, err)
	}

	return &pathFilter{matcher: matcher}, nil
}

// normalizeFilterRules normalizes rule patterns and drops empty patterns.
func normalizeFilterRules(rules []pathrules.Rule) []pathrules.Rule {
	normalized := make([]pathrules.Rule, 0, len(rules))
	for _, rule := range rules {
		pattern := normalizePathForMatching(rule.Pattern)
		if pattern == "" {
			continue
		}

		normalized = append(normalized, pathrules.Rule{
			Action:  rule.Action,
			Pattern: pattern,
		})
	}

	return normalized
}

// Match reports whether file path is selected.
func (f *pathFilter) Match(p string) bool {
	if f == nil || f.matcher == nil {
		return true
	}

	candidate := NormalizePath(p)
	if candidate == "" {
		return false
	}

	return f.matcher.Included(candidate, false)
}

// SelectFiles returns file records whose paths match filter, in table order.
// Records shadowed by a later duplicate path are skipped.
func (a *Archive) SelectFiles(opts FilterOptions) ([]FileEntry, error) {
	filter, err := newPathFilter(opts)
	if err != nil {
		return nil, err
	}

	return a.selectFiles(filter), nil
}

// selectFiles applies compiled filter to the file table.
func (a *Archive) selectFiles(filter *pathFilter) []FileEntry {
	out := make([]FileEntry, 0, len(a.header.Files))
	for i := range a.header.Files {
		entry := a.header.Files[i]
		if a.files[entry.Path] != i {
			continue
		}

		if !filter.Match(entry.Path) {
			continue
		}

		out = append(out, entry)
	}

	return out
}
