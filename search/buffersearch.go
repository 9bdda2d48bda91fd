// SPDX-FileCopyrightText:  Copyright 2024 Roland Csaszar
// SPDX-License-Identifier: MIT
//
// Project:  go-textcore
// File:     buffersearch.go
// Date:     07.Feb.2024
//
// =============================================================================

package search

// Kind selects which underlying engine a BufferSearch uses.
type Kind int

const (
	// Literal selects Boyer-Moore-Horspool text search.
	Literal Kind = iota
	// Regex selects regular expression search.
	Regex
)

// BufferSearch is the single entry point callers drive: it owns either a
// TextSearch or a RegexSearch, the options it was built from, and the
// running wrap-around state (whether the most recent find wrapped past the
// buffer edge, and - for a bounded "find all" pass - whether the walk has
// come full circle and should stop).
type BufferSearch struct {
	opt      Options
	kind     Kind
	text     *TextSearch
	regex    *RegexSearch
	anchor   *int
	last     Range
	wrapped  bool
	finished bool
}

// NewBufferSearch compiles opt.Pattern as literal or regular expression
// text, selected by kind.
func NewBufferSearch(opt Options, kind Kind) (*BufferSearch, error) {
	bs := &BufferSearch{opt: opt, kind: kind}

	switch kind {
	case Regex:
		rs, err := NewRegexSearch(opt.Pattern, opt.CaseInsensitive)
		if err != nil {
			return nil, err
		}

		bs.regex = rs
	default:
		ts, err := NewTextSearch(opt.Pattern, opt.CaseInsensitive)
		if err != nil {
			return nil, err
		}

		bs.text = ts
	}

	return bs, nil
}

// Kind reports whether this search is literal or regular-expression based.
func (bs *BufferSearch) Kind() Kind { return bs.kind }

// Options returns the options the search was built from.
func (bs *BufferSearch) Options() Options { return bs.opt }

// PatternLength returns the byte length of a literal pattern, or the byte
// length of the most recent regex match - whichever a caller needs to
// advance a cursor past a match without separately tracking match length.
func (bs *BufferSearch) PatternLength() int {
	if bs.kind == Literal {
		return bs.text.PatternLen()
	}

	return bs.regex.MatchLength()
}

// SetAnchor fixes offset as the bound a "find all"-style walk started from:
// once a wrapped match lands at or past the anchor (searching forward) or
// at or before it (searching backward), Finished reports true so the
// caller's enumeration loop knows to stop rather than re-visiting matches
// already seen this pass.
func (bs *BufferSearch) SetAnchor(offset int) {
	bs.anchor = &offset
	bs.wrapped = false
	bs.finished = false
}

// ClearAnchor removes the bound set by SetAnchor, returning to plain
// live-interactive search: every call may wrap, and Finished never reports
// true.
func (bs *BufferSearch) ClearAnchor() {
	bs.anchor = nil
	bs.wrapped = false
	bs.finished = false
}

// Wrapped reports whether the most recent find crossed the buffer edge to
// produce its result.
func (bs *BufferSearch) Wrapped() bool { return bs.wrapped }

// Finished reports whether a bounded ("find all") walk has come back around
// to its anchor and should stop.
func (bs *BufferSearch) Finished() bool { return bs.finished }

// LastMatch returns the range of the most recent successful find.
func (bs *BufferSearch) LastMatch() Range { return bs.last }

// Captures returns the capture groups of the most recent regex match (nil
// for a literal search), index 0 being the whole match.
func (bs *BufferSearch) Captures() []Range {
	if bs.kind != Regex {
		return nil
	}

	return bs.regex.Captures()
}

func (bs *BufferSearch) patternExtra() int {
	if bs.kind == Literal {
		return bs.text.PatternLen() - 1
	}

	return regexBufferSize
}

func (bs *BufferSearch) matchForward(text []byte, start, limit int) (Range, bool, error) {
	if bs.kind == Literal {
		off, ok := bs.text.FindNext(text, start, limit)
		if !ok {
			return Range{}, false, nil
		}

		return Range{Start: off, End: off + bs.text.PatternLen()}, true, nil
	}

	ok, err := bs.regex.FindNext(string(text), start, limit)
	if err != nil || !ok {
		return Range{}, false, err
	}

	return Range{Start: bs.regex.MatchPoint(), End: bs.regex.MatchPoint() + bs.regex.MatchLength()}, true, nil
}

func (bs *BufferSearch) matchBackward(text []byte, point, limit int) (Range, bool, error) {
	if bs.kind == Literal {
		off, ok := bs.text.FindPrev(text, point, limit)
		if !ok {
			return Range{}, false, nil
		}

		return Range{Start: off, End: off + bs.text.PatternLen()}, true, nil
	}

	ok, err := bs.regex.FindPrev(string(text), point, limit)
	if err != nil || !ok {
		return Range{}, false, err
	}

	return Range{Start: bs.regex.MatchPoint(), End: bs.regex.MatchPoint() + bs.regex.MatchLength()}, true, nil
}

// findNextLiteralGapped is the forward wrap-around walk for a literal search
// over a buffer with a directly addressable gap: the buffer is scanned in
// place, never flattened or copied.
func (bs *BufferSearch) findNextLiteralGapped(src GappedSource, current int) (Range, bool, error) {
	patLen := bs.text.PatternLen()

	if off, ok := bs.text.FindNextGapped(src, current, src.Length()); ok {
		bs.wrapped = false
		bs.last = Range{Start: off, End: off + patLen}

		return bs.last, true, nil
	}

	limit := minInt(current+patLen-1, src.Length())

	off, ok := bs.text.FindNextGapped(src, 0, limit)
	if !ok {
		bs.wrapped = false

		return Range{}, false, nil
	}

	bs.wrapped = true
	bs.last = Range{Start: off, End: off + patLen}

	if bs.anchor != nil && off >= *bs.anchor {
		bs.finished = true
	}

	return bs.last, true, nil
}

// findPrevLiteralGapped mirrors findNextLiteralGapped for the reverse
// direction.
func (bs *BufferSearch) findPrevLiteralGapped(src GappedSource, current int) (Range, bool, error) {
	patLen := bs.text.PatternLen()

	if off, ok := bs.text.FindPrevGapped(src, current, 0); ok {
		bs.wrapped = false
		bs.last = Range{Start: off, End: off + patLen}

		return bs.last, true, nil
	}

	limit := maxInt(current-(patLen-1), 0)

	off, ok := bs.text.FindPrevGapped(src, src.Length(), limit)
	if !ok {
		bs.wrapped = false

		return Range{}, false, nil
	}

	bs.wrapped = true
	bs.last = Range{Start: off, End: off + patLen}

	if bs.anchor != nil && off <= *bs.anchor {
		bs.finished = true
	}

	return bs.last, true, nil
}

// FindNext searches source forward starting at current, wrapping to the
// buffer start and searching back up to current (plus enough overlap to
// catch a match straddling the boundary) if nothing is found in the tail.
// It reports the match range and whether one was found; [BufferSearch.Wrapped]
// reports whether the result came from the wrapped pass.
//
// A literal search over a [GappedSource] scans the buffer in place; only
// regex search, and storage with no single gap, flattens the buffer first.
func (bs *BufferSearch) FindNext(source Source, current int) (Range, bool, error) {
	if bs.kind == Literal {
		if gapped, ok := source.(GappedSource); ok {
			return bs.findNextLiteralGapped(gapped, current)
		}
	}

	text := source.FlatBytes()
	bufLen := len(text)

	if r, ok, err := bs.matchForward(text, current, bufLen); err != nil {
		return Range{}, false, err
	} else if ok {
		bs.last = r
		bs.wrapped = false

		return r, true, nil
	}

	limit := minInt(current+bs.patternExtra(), bufLen)

	r, ok, err := bs.matchForward(text, 0, limit)
	if err != nil {
		return Range{}, false, err
	}

	if !ok {
		bs.wrapped = false

		return Range{}, false, nil
	}

	bs.wrapped = true
	bs.last = r

	if bs.anchor != nil && r.Start >= *bs.anchor {
		bs.finished = true
	}

	return r, true, nil
}

// FindPrev searches source backward starting at current, wrapping to the
// buffer end and searching down to current if nothing is found before it.
// See [BufferSearch.FindNext] for the wrap/anchor semantics, mirrored here
// for the reverse direction.
func (bs *BufferSearch) FindPrev(source Source, current int) (Range, bool, error) {
	if bs.kind == Literal {
		if gapped, ok := source.(GappedSource); ok {
			return bs.findPrevLiteralGapped(gapped, current)
		}
	}

	text := source.FlatBytes()
	bufLen := len(text)

	if r, ok, err := bs.matchBackward(text, current, 0); err != nil {
		return Range{}, false, err
	} else if ok {
		bs.last = r
		bs.wrapped = false

		return r, true, nil
	}

	limit := maxInt(current-bs.patternExtra(), 0)

	r, ok, err := bs.matchBackward(text, bufLen, limit)
	if err != nil {
		return Range{}, false, err
	}

	if !ok {
		bs.wrapped = false

		return Range{}, false, nil
	}

	bs.wrapped = true
	bs.last = r

	if bs.anchor != nil && r.Start <= *bs.anchor {
		bs.finished = true
	}

	return r, true, nil
}
