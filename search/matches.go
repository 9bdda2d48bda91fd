// SPDX-FileCopyrightText:  Copyright 2024 Roland Csaszar
// SPDX-License-Identifier: MIT
//
// Project:  go-textcore
// File:     matches.go
// Date:     07.Feb.2024
//
// =============================================================================

package search

// MaxMatchNum bounds the number of match ranges a Matches collection keeps.
// A "find all" pass over a pathological buffer (say, searching a megabyte of
// "aaaa" for "a") stops collecting here rather than growing without bound.
const MaxMatchNum = 1024

// Matches is a bounded collection of match ranges with a movable cursor,
// the result of a "find all" pass that callers then step through one match
// at a time (e.g. highlighting each in turn).
type Matches struct {
	ranges  []Range
	current int
}

// Add appends r to the collection. It reports false once the collection is
// full, the signal for an enumeration loop to stop searching.
func (m *Matches) Add(r Range) bool {
	if len(m.ranges) >= MaxMatchNum {
		return false
	}

	m.ranges = append(m.ranges, r)

	return true
}

// Len returns the number of collected matches.
func (m *Matches) Len() int { return len(m.ranges) }

// Current returns the match under the cursor, or a zero Range and false when
// the collection is empty.
func (m *Matches) Current() (Range, bool) {
	if len(m.ranges) == 0 {
		return Range{}, false
	}

	return m.ranges[m.current], true
}

// Next moves the cursor to the following match, wrapping to the first after
// the last, and returns it.
func (m *Matches) Next() (Range, bool) {
	if len(m.ranges) == 0 {
		return Range{}, false
	}

	m.current = (m.current + 1) % len(m.ranges)

	return m.ranges[m.current], true
}

// Prev moves the cursor to the preceding match, wrapping to the last before
// the first, and returns it.
func (m *Matches) Prev() (Range, bool) {
	if len(m.ranges) == 0 {
		return Range{}, false
	}

	m.current = (m.current + len(m.ranges) - 1) % len(m.ranges)

	return m.ranges[m.current], true
}

// Reset empties the collection and rewinds the cursor, ready for the next
// "find all" pass without reallocating.
func (m *Matches) Reset() {
	m.ranges = m.ranges[:0]
	m.current = 0
}

// FindAll enumerates every match of bs in source starting from offset start,
// collecting ranges until the walk comes back around to its start, no more
// matches exist, or the collection is full.
func FindAll(bs *BufferSearch, source Source, start int) (*Matches, error) {
	matches := &Matches{}

	bs.SetAnchor(start)
	defer bs.ClearAnchor()

	current := start
	wrapped := false

	for {
		r, ok, err := bs.FindNext(source, current)
		if err != nil {
			return nil, err
		}

		if !ok || bs.Finished() {
			break
		}

		// Once the walk has wrapped, any match at or past the starting point
		// was already collected on the first pass.
		wrapped = wrapped || bs.Wrapped()
		if wrapped && r.Start >= start {
			break
		}

		if !matches.Add(r) {
			break
		}

		current = r.End
	}

	return matches, nil
}
