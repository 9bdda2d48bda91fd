// SPDX-FileCopyrightText:  Copyright 2024 Roland Csaszar
// SPDX-License-Identifier: MIT
//
// Project:  go-textcore
// File:     regexsearch.go
// Date:     07.Feb.2024
//
// =============================================================================

package search

import (
	"github.com/dlclark/regexp2"
	"github.com/pkg/errors"
)

// ErrInvalidRegex wraps a pattern compilation failure.
var ErrInvalidRegex = errors.New("search: invalid regex")

// ErrRegexExecutionFailed wraps a non-timeout, non-no-match execution
// failure, the Go analogue of a negative, non-NOMATCH PCRE return code.
var ErrRegexExecutionFailed = errors.New("search: regex execution failed")

// RegexSearch is a PCRE-style regular expression search over a flattened
// byte buffer, backed by regexp2's backtracking engine so that
// backreferences in the replacement text (package replace) can be resolved
// against real capture offsets, something Go's RE2-based regexp package
// cannot provide.
type RegexSearch struct {
	re          *regexp2.Regexp
	matchPoint  int
	matchLength int
	captures    []Range
}

// NewRegexSearch compiles pattern with multiline semantics always enabled
// and case-insensitive comparison when requested.
func NewRegexSearch(pattern string, caseInsensitive bool) (*RegexSearch, error) {
	if len(pattern) == 0 {
		return nil, ErrEmptyPattern
	}

	opts := regexp2.RegexOptions(regexp2.Multiline)
	if caseInsensitive {
		opts |= regexp2.IgnoreCase
	}

	re, err := regexp2.Compile(pattern, opts)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidRegex, "%q: %s", pattern, err)
	}

	return &RegexSearch{re: re}, nil
}

// MatchPoint returns the byte offset of the most recent match.
func (rs *RegexSearch) MatchPoint() int { return rs.matchPoint }

// MatchLength returns the byte length of the most recent match.
func (rs *RegexSearch) MatchLength() int { return rs.matchLength }

// Captures returns the byte ranges of every group captured by the most
// recent match, index 0 being the whole match, matching PCRE's
// output_vector numbering.
func (rs *RegexSearch) Captures() []Range { return rs.captures }

// recordMatch copies m's group offsets into rs in PCRE output_vector order:
// group 0 is the whole match, followed by one entry per explicit capture
// group in the order they appear in the pattern. A group that did not
// participate in the match (e.g. inside an unmatched alternative) records a
// zero-length range at offset -1, mirroring PCRE's -1 sentinel.
func (rs *RegexSearch) recordMatch(m *regexp2.Match) {
	rs.matchPoint = m.Index
	rs.matchLength = m.Length

	groups := m.Groups()
	captures := make([]Range, len(groups))

	for i, g := range groups {
		if len(g.Captures) == 0 {
			captures[i] = Range{Start: -1, End: -1}

			continue
		}

		captures[i] = Range{Start: g.Index, End: g.Index + g.Length}
	}

	rs.captures = captures
}

// execFrom runs the regex against text[:limit], starting the search no
// earlier than at. It reports whether a match was found at or after at and
// strictly before limit.
func (rs *RegexSearch) execFrom(text string, at, limit int) (bool, error) {
	if limit > len(text) {
		limit = len(text)
	}

	if at < 0 || at > limit {
		return false, nil
	}

	m, err := rs.re.FindStringMatchStartingAt(text[:limit], at)
	if err != nil {
		return false, errors.Wrap(ErrRegexExecutionFailed, err.Error())
	}

	if m == nil {
		return false, nil
	}

	rs.recordMatch(m)

	return true, nil
}

// FindNext searches text[start:limit] for the first match at or after
// start.
func (rs *RegexSearch) FindNext(text string, start, limit int) (bool, error) {
	return rs.execFrom(text, start, limit)
}

// FindPrev searches text for the last match whose start offset is at or
// after limit and strictly before point, by sliding a regexBufferSize
// window backward and, within each window, repeatedly matching forward -
// there is no reverse regex execution, so the last match found in the first
// window that yields one is returned.
func (rs *RegexSearch) FindPrev(text string, point, limit int) (bool, error) {
	strLen := len(text)
	startPoint := point

	for point > limit {
		searchLen := minInt(point-limit, regexBufferSize)
		point -= searchLen
		searchLen = minInt(searchLen+regexBufferSize, strLen-point)

		searchPoint := point
		foundAny := false

		var lastPoint, lastLength int

		for searchPoint < startPoint {
			ok, err := rs.execFrom(text, searchPoint, point+searchLen)
			if err != nil {
				return false, err
			}

			if !ok || rs.matchPoint >= startPoint {
				break
			}

			foundAny = true
			lastPoint = rs.matchPoint
			lastLength = rs.matchLength
			searchPoint = rs.matchPoint + rs.matchLength
		}

		if foundAny {
			// Matching forward through the whole window may have
			// overwritten the capture data for the last in-range match;
			// re-run anchored exactly at it to repopulate captures.
			if rs.matchPoint != lastPoint {
				if _, err := rs.execFrom(text, lastPoint, lastPoint+lastLength); err != nil {
					return false, err
				}
			}

			return true, nil
		}
	}

	return false, nil
}
