// SPDX-FileCopyrightText:  Copyright 2024 Roland Csaszar
// SPDX-License-Identifier: MIT
//
// Project:  go-textcore
// File:     textsearch.go
// Date:     07.Feb.2024
//
// =============================================================================

package search

// alphabetSize is the number of distinct byte values a bad-character shift
// table or case-fold table needs one entry for.
const alphabetSize = 256

// TextSearch is a literal Boyer-Moore-Horspool search over a flattened byte
// buffer. The ASCII case-fold table is per-search state, not a process-wide
// global, so two TextSearch values can be used from different buffers
// without interfering with each other.
type TextSearch struct {
	pattern     []byte
	foldTable   [alphabetSize]byte
	badCharTbl  [alphabetSize]int
	patternLen  int
	caseFolding bool
}

// NewTextSearch compiles pattern into a TextSearch ready to scan flattened
// buffers. If caseInsensitive is set, ASCII letters in pattern (and later in
// scanned text) are folded to lower case before comparison; non-ASCII bytes
// are compared as-is - case folding is ASCII-only.
func NewTextSearch(pattern string, caseInsensitive bool) (*TextSearch, error) {
	if len(pattern) == 0 {
		return nil, ErrEmptyPattern
	}

	ts := &TextSearch{
		patternLen:  len(pattern),
		caseFolding: caseInsensitive,
	}

	for i := 0; i < alphabetSize; i++ {
		ts.foldTable[i] = byte(i)
	}

	if caseInsensitive {
		for c := byte('A'); c <= 'Z'; c++ {
			ts.foldTable[c] = c + 32
		}
	}

	ts.pattern = make([]byte, len(pattern))
	for i := 0; i < len(pattern); i++ {
		ts.pattern[i] = ts.foldTable[pattern[i]]
	}

	ts.populateBadCharTable()

	return ts, nil
}

// PatternLen returns the byte length of the compiled pattern.
func (ts *TextSearch) PatternLen() int { return ts.patternLen }

func (ts *TextSearch) populateBadCharTable() {
	for i := range ts.badCharTbl {
		ts.badCharTbl[i] = ts.patternLen
	}

	for k := 0; k < ts.patternLen-1; k++ {
		ts.badCharTbl[ts.pattern[k]] = ts.patternLen - 1 - k
	}
}

// findNextInRange runs one Boyer-Moore-Horspool scan of text[start:limit],
// returning the offset of the first match at or after start, or false if
// none is found before limit.
func (ts *TextSearch) findNextInRange(text []byte, start, limit int) (int, bool) {
	patLen := ts.patternLen
	point := start + patLen - 1

	for point < limit {
		patIdx := patLen
		subStart := point

		for patIdx != 0 && ts.foldTable[text[point]] == ts.pattern[patIdx-1] {
			patIdx--
			point--
		}

		if patIdx == 0 {
			return subStart - (patLen - 1), true
		}

		point = subStart + ts.badCharTbl[ts.foldTable[text[subStart]]]
	}

	return 0, false
}

// FindNext searches text[start:limit] (limit clamped to len(text)) for the
// first occurrence of the pattern at or after start.
func (ts *TextSearch) FindNext(text []byte, start, limit int) (int, bool) {
	if limit > len(text) {
		limit = len(text)
	}

	if start < 0 || start+ts.patternLen > limit {
		return 0, false
	}

	return ts.findNextInRange(text, start, limit)
}

// FindNextGapped searches a gap buffer's stored text for the first match at
// or after start ending at or before limit, without moving the gap or
// copying the document: the region before the gap, a scratch bridge of at
// most 2*(patternLen-1) bytes straddling it, and the region after the gap
// are each scanned with the flat routine, and bridge matches map back to
// external offsets by adding the bridge base. Region order gives the
// smallest match: every before-gap match starts before every bridge match,
// which starts before every after-gap match.
func (ts *TextSearch) FindNextGapped(src GappedSource, start, limit int) (int, bool) {
	before := src.BeforeGap()
	after := src.AfterGap()
	gapStart := len(before)

	if limit > src.Length() {
		limit = src.Length()
	}

	if start < 0 || start+ts.patternLen > limit {
		return 0, false
	}

	if off, ok := ts.FindNext(before, start, minInt(gapStart, limit)); ok {
		return off, true
	}

	if ts.patternLen > 1 && gapStart > 0 && gapStart < limit {
		bridgeStart := maxInt(start, gapStart-ts.patternLen+1)
		bridgeEnd := minInt(limit, gapStart+ts.patternLen-1)

		if bridgeEnd-bridgeStart >= ts.patternLen {
			bridge := make([]byte, bridgeEnd-bridgeStart)
			got := src.GetRange(bridgeStart, bridge)

			if off, ok := ts.FindNext(bridge[:got], 0, got); ok {
				return bridgeStart + off, true
			}
		}
	}

	if off, ok := ts.FindNext(after, maxInt(0, start-gapStart), limit-gapStart); ok {
		return gapStart + off, true
	}

	return 0, false
}

// FindPrevGapped searches a gap buffer's stored text for the last match
// starting at or after limit and strictly before point, the reverse
// counterpart of [TextSearch.FindNextGapped]: the same three regions are
// scanned, in back-to-front order.
func (ts *TextSearch) FindPrevGapped(src GappedSource, point, limit int) (int, bool) {
	before := src.BeforeGap()
	after := src.AfterGap()
	gapStart := len(before)

	if point > src.Length() {
		point = src.Length()
	}

	if off, ok := ts.FindPrev(after, maxInt(0, point-gapStart), maxInt(0, limit-gapStart)); ok {
		return gapStart + off, true
	}

	if ts.patternLen > 1 && gapStart > 0 && gapStart < src.Length() {
		bridgeStart := maxInt(limit, gapStart-ts.patternLen+1)
		bridgeEnd := minInt(src.Length(), gapStart+ts.patternLen-1)

		if bridgeEnd-bridgeStart >= ts.patternLen {
			bridge := make([]byte, bridgeEnd-bridgeStart)
			got := src.GetRange(bridgeStart, bridge)

			if localPoint := minInt(got, point-bridgeStart); localPoint > 0 {
				if off, ok := ts.FindPrev(bridge[:got], localPoint, 0); ok {
					return bridgeStart + off, true
				}
			}
		}
	}

	if off, ok := ts.FindPrev(before, minInt(point, gapStart), minInt(limit, gapStart)); ok {
		return off, true
	}

	return 0, false
}

// FindPrev searches text[limit:point] for the last occurrence of the pattern
// strictly before point, by sliding a window of searchBufferSize (plus
// enough overlap to cover a match straddling a window boundary) backward
// through the text and forward-scanning each window with
// [TextSearch.FindNext]. BMH has no natural reverse form, so this "last
// match in the first window that has one" strategy derives last-occurrence
// semantics from a forward-only algorithm. The window overlap must cover
// patternLen-1 bytes or a match straddling a window boundary is lost.
func (ts *TextSearch) FindPrev(text []byte, point, limit int) (int, bool) {
	bufLen := len(text)

	for point > limit {
		searchLen := minInt(point-limit, searchBufferSize)
		point -= searchLen
		searchLen = minInt(searchLen+ts.patternLen-1, bufLen-point)

		searchPoint := point
		found := false
		last := 0

		for {
			off, ok := ts.FindNext(text, searchPoint, point+searchLen)
			if !ok {
				break
			}

			found = true
			last = off
			searchPoint = off + 1
		}

		if found {
			return last, true
		}
	}

	return 0, false
}
