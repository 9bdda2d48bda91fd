// SPDX-FileCopyrightText:  Copyright 2024 Roland Csaszar
// SPDX-License-Identifier: MIT
//
// Project:  go-textcore
// File:     replace.go
// Date:     07.Feb.2024
//
// =============================================================================

// Package replace turns a search match into a buffer edit: literal
// replacement text is spliced in as-is, and regular-expression replacement
// text may reference the match's own capture groups through backreferences
// (\N or \{N}).
package replace

import (
	"github.com/pkg/errors"

	"github.com/Release-Candidate/go-textcore/search"
)

// MaxCaptureGroupNum is the highest capture group number a backreference may
// name, matching the capacity of a single match's output vector.
const MaxCaptureGroupNum = search.MaxCaptureGroupNum

// MaxBackRefOccurrences is the most backreferences a single piece of
// replacement text may contain.
const MaxBackRefOccurrences = search.MaxBackRefOccurrences

// ErrTooManyCaptureGroups is returned when a backreference names a capture
// group beyond MaxCaptureGroupNum.
var ErrTooManyCaptureGroups = errors.New("replace: backreference exceeds maximum capture group number")

// ErrTooManyBackReferences is returned when replacement text contains more
// than MaxBackRefOccurrences backreferences.
var ErrTooManyBackReferences = errors.New("replace: too many backreferences in replacement text")

// backReference records where a \N or \{N} token sits inside a Replacement's
// unescaped text, so Expand can splice around it without re-scanning.
type backReference struct {
	num        int
	textIndex  int
	textLength int
}

// Mutator is the minimum a buffer needs to support in-place replacement of a
// search match: both gapbuffer.GapBuffer and segment.Buffer satisfy it.
type Mutator interface {
	search.Source
	GetPoint() int
	SetPoint(p int) error
	Replace(n int, str string) error
}

// Replacement is replacement text pre-parsed for backreferences, ready to be
// expanded against a particular match's captures and spliced into a buffer
// with Apply. Building one is cheap enough to do once per replace-all pass
// and reuse across every match.
type Replacement struct {
	text     []byte
	backRefs []backReference
}

// New parses repText as replacement text in a single pass: escape sequences
// (\t, \n, \\, \xHH) are expanded immediately (\n becomes \r\n when
// winLineEndings is set, the same convention package search uses for
// patterns), and - only when isRegex is set - any \N or \{N} token is
// recorded as a backreference to be resolved later against a particular
// match's captures. A single pass is required for correctness: \\1 is an
// escaped backslash followed by a literal digit, not a backreference, which
// an unescape-then-scan split would misread.
//
// It is not an error for repText to contain backreferences naming more
// groups than a pattern has; that only matters once Expand is called against
// an actual match, since only then is the number of captured groups known.
func New(repText string, winLineEndings, isRegex bool) (*Replacement, error) {
	rep := &Replacement{}
	out := make([]byte, 0, len(repText))

	for k := 0; k < len(repText); {
		if repText[k] != '\\' || k+1 >= len(repText) {
			out = append(out, repText[k])
			k++

			continue
		}

		switch repText[k+1] {
		case 't':
			out = append(out, '\t')
			k += 2
		case 'n':
			if winLineEndings {
				out = append(out, '\r')
			}

			out = append(out, '\n')
			k += 2
		case '\\':
			out = append(out, '\\')
			k += 2
		case 'x':
			if k+3 < len(repText) && isHexDigit(repText[k+2]) && isHexDigit(repText[k+3]) {
				out = append(out, hexByte(repText[k+2], repText[k+3]))
				k += 4
			} else {
				out = append(out, repText[k])
				k++
			}
		default:
			num, length, ok := parseBackreference([]byte(repText[k:]))
			if !ok || !isRegex {
				out = append(out, repText[k])
				k++

				continue
			}

			if num > MaxCaptureGroupNum {
				return nil, errors.Wrapf(ErrTooManyCaptureGroups, "\\%d", num)
			}

			if len(rep.backRefs) >= MaxBackRefOccurrences {
				return nil, ErrTooManyBackReferences
			}

			rep.backRefs = append(rep.backRefs,
				backReference{num: num, textIndex: len(out), textLength: length})
			out = append(out, repText[k:k+length]...)
			k += length
		}
	}

	rep.text = out

	return rep, nil
}

// HasBackReferences reports whether Expand needs a match's captures to
// produce this replacement's final text, or whether the parsed text can be
// used as-is.
func (r *Replacement) HasBackReferences() bool {
	return len(r.backRefs) > 0
}

// parseBackreference recognizes a \N or \{N} token at the start of s,
// returning the group number, the token's length in bytes, and whether one
// was found at all. A bare \N requires at least one digit; a braced \{N}
// requires the closing brace and at least one digit between the braces.
func parseBackreference(s []byte) (num, length int, ok bool) {
	if len(s) < 2 || s[0] != '\\' {
		return 0, 0, false
	}

	index := 1
	bracketed := s[1] == '{'

	if bracketed {
		if len(s) < 4 {
			return 0, 0, false
		}

		index++
	}

	for index < len(s) && isDigit(s[index]) {
		num = num*10 + int(s[index]-'0')
		index++
	}

	if bracketed {
		if !(index < len(s) && s[index] == '}' && index > 2) {
			return 0, 0, false
		}

		index++
	} else if index < 2 {
		return 0, 0, false
	}

	return num, index, true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexVal(c byte) byte {
	switch {
	case isDigit(c):
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}

func hexByte(hi, lo byte) byte {
	return hexVal(hi)<<4 | hexVal(lo)
}

// Expand produces this replacement's final text against one match: flat is
// the buffer's contiguous bytes (as returned by search.Source.FlatBytes) and
// captures is the match's capture ranges, index 0 being the whole match, as
// returned by search.BufferSearch.Captures. Literal replacement text with no
// backreferences is returned unchanged regardless of captures.
func (r *Replacement) Expand(flat []byte, captures []search.Range) ([]byte, error) {
	if len(r.backRefs) == 0 {
		return r.text, nil
	}

	out := make([]byte, 0, len(r.text))
	repIndex := 0

	for _, br := range r.backRefs {
		if br.num >= len(captures) {
			return nil, errors.Errorf(
				"replace: backreference \\%d exceeds number of captured groups %d",
				br.num, len(captures)-1)
		}

		if br.textIndex > repIndex {
			out = append(out, r.text[repIndex:br.textIndex]...)
		}

		repIndex = br.textIndex + br.textLength

		group := captures[br.num]
		if group.Len() > 0 {
			out = append(out, flat[group.Start:group.End]...)
		}
	}

	if repIndex < len(r.text) {
		out = append(out, r.text[repIndex:]...)
	}

	return out, nil
}

// Apply splices rep into buf in place of match, the range most recently
// found by search (bs.LastMatch() after a successful FindNext/FindPrev),
// expanding backreferences against bs's captures when rep has any. The point
// ends up just past the replacement text.
func Apply(buf Mutator, bs *search.BufferSearch, match search.Range, rep *Replacement) error {
	text := rep.text

	if rep.HasBackReferences() {
		expanded, err := rep.Expand(buf.FlatBytes(), bs.Captures())
		if err != nil {
			return err
		}

		text = expanded
	}

	if err := buf.SetPoint(match.Start); err != nil {
		return err
	}

	return buf.Replace(match.Len(), string(text))
}
