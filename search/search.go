// SPDX-FileCopyrightText:  Copyright 2024 Roland Csaszar
// SPDX-License-Identifier: MIT
//
// Project:  go-textcore
// File:     search.go
// Date:     07.Feb.2024
//
// =============================================================================

// Package search implements literal (Boyer-Moore-Horspool) and regular
// expression search over a text buffer, with forward/backward direction and
// wrap-around-at-the-buffer-edge semantics.
//
// Literal search is gap-aware: a buffer that exposes its gap (a
// [GappedSource], such as gapbuffer.GapBuffer) is scanned in place as three
// regions - the bytes before the gap, a small scratch bridge straddling it,
// and the bytes after - so searching never moves the gap or copies the
// document. The regex engine requires a contiguous byte slice, so regex
// search (and literal search over storage with no single gap, such as
// segment.Buffer) flattens the buffer first via [Source].FlatBytes.
package search

import (
	"github.com/pkg/errors"
)

// outputVectorSize mirrors PCRE's OUTPUT_VECTOR_SIZE: three ints per group
// (the pair of offsets plus PCRE's internal workspace slot), group 0 - the
// whole match - included, so 90 ints cover 30 groups.
const outputVectorSize = 90

// MaxCaptureGroupNum is the highest regex capture group number a
// [RegexSearch] can report, derived from the fixed output vector size the
// way PCRE callers size theirs: a third of the vector is engine workspace,
// the rest holds one offset pair per group, group 0 being the whole match.
const MaxCaptureGroupNum = ((outputVectorSize - outputVectorSize/3) / 2) - 1

// MaxBackRefOccurrences bounds the number of backreferences package replace
// will parse out of a single replacement string.
const MaxBackRefOccurrences = 32

// searchBufferSize is the chunk size literal reverse search slides backward
// through the buffer by.
const searchBufferSize = 8192

// regexBufferSize is the chunk size regex reverse search slides backward
// through the buffer by, and the amount forward search over-extends its
// limit by so that a match straddling a wrap/chunk boundary is not missed.
const regexBufferSize = 8192

// Range is a half-open byte range [Start, End) within a flattened buffer.
type Range struct {
	Start int
	End   int
}

// Len returns the number of bytes the range spans.
func (r Range) Len() int { return r.End - r.Start }

// Options selects the pattern and behaviour of a search.
type Options struct {
	// Pattern is the literal text or regular expression to search for.
	Pattern string

	// CaseInsensitive folds ASCII letters before comparing.
	CaseInsensitive bool

	// Forward selects search direction; false searches backward.
	Forward bool
}

// Source is a flattened view of a text buffer: a contiguous byte slice a
// search can scan directly, together with the byte length it spans.
// gapbuffer.GapBuffer.FlatBytes and segment.Buffer.FlatBytes both produce
// one.
type Source interface {
	Length() int
	FlatBytes() []byte
}

// GappedSource is a text buffer stored as a single gap buffer: the bytes
// before and after the gap are directly addressable, so literal search can
// splice its scan across the gap instead of flattening the whole document.
// gapbuffer.GapBuffer satisfies it; segment.Buffer, with one gap per
// segment, does not.
type GappedSource interface {
	Length() int
	BeforeGap() []byte
	AfterGap() []byte
	GetRange(p int, buf []byte) int
}

// ErrEmptyPattern is returned by NewTextSearch/NewRegexSearch for a
// zero-length pattern: every compiled search carries a pattern of at least
// one byte.
var ErrEmptyPattern = errors.New("search: pattern must not be empty")

func minInt(a, b int) int {
	if a < b {
		return a
	}

	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}

	return b
}
