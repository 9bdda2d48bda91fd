// SPDX-FileCopyrightText:  Copyright 2024 Roland Csaszar
// SPDX-License-Identifier: MIT
//
// Project:  go-textcore
// File:     syntax.go
// Date:     07.Feb.2024
//
// =============================================================================

// Package syntax defines the data types a syntax tokenizer fills in for the
// screen renderer. The tokenizer itself is an external collaborator: it
// consumes a contiguous byte slice (gapbuffer.GapBuffer.FlatBytes or
// segment.Buffer.FlatBytes) and produces one Match span per token it
// recognizes. This package only provides the collection those spans land in
// and the coalescing rule that keeps it compact.
package syntax

// Token classifies a matched span of text for the renderer.
type Token int

const (
	// Normal is unhighlighted text.
	Normal Token = iota
	// Comment covers comment text.
	Comment
	// Constant covers literals: strings, numbers, character constants.
	Constant
	// Identifier covers variable and function names.
	Identifier
	// Statement covers keywords that form statements.
	Statement
	// Type covers type names.
	Type
	// Special covers special symbols and punctuation worth highlighting.
	Special
	// Todo covers TODO/FIXME style markers inside comments.
	Todo
)

// MaxMatchNum bounds the number of token spans a Matches collection keeps
// for a single tokenizer run.
const MaxMatchNum = 4096

// Match is one token span: a half-open byte range [Offset, Offset+Length)
// and the token it was classified as.
type Match struct {
	Offset int
	Length int
	Token  Token
}

// Matches collects the token spans of one tokenizer run over a flattened
// buffer.
type Matches struct {
	matches []Match
}

// Len returns the number of collected spans.
func (m *Matches) Len() int { return len(m.matches) }

// At returns the span at index i.
func (m *Matches) At(i int) Match { return m.matches[i] }

// Add records a token span. Two contiguous spans with the same token are
// coalesced by extending the previous span rather than storing a new one, so
// a run of identically classified text costs one entry no matter how many
// times the tokenizer reported pieces of it. Add reports false once the
// collection is full.
func (m *Matches) Add(offset, length int, token Token) bool {
	if n := len(m.matches); n > 0 {
		last := &m.matches[n-1]
		if last.Token == token && last.Offset+last.Length == offset {
			last.Length += length

			return true
		}
	}

	if len(m.matches) >= MaxMatchNum {
		return false
	}

	m.matches = append(m.matches, Match{Offset: offset, Length: length, Token: token})

	return true
}

// Reset empties the collection for the next tokenizer run without
// reallocating.
func (m *Matches) Reset() {
	m.matches = m.matches[:0]
}

// TokenAt returns the token covering byte offset, or Normal when no span
// covers it. Spans are stored in increasing offset order, so a binary search
// keeps renderer lookups cheap on long lines.
func (m *Matches) TokenAt(offset int) Token {
	lo, hi := 0, len(m.matches)-1

	for lo <= hi {
		mid := (lo + hi) / 2
		match := m.matches[mid]

		switch {
		case offset < match.Offset:
			hi = mid - 1
		case offset >= match.Offset+match.Length:
			lo = mid + 1
		default:
			return match.Token
		}
	}

	return Normal
}
