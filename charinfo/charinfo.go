// SPDX-FileCopyrightText:  Copyright 2024 Roland Csaszar
// SPDX-License-Identifier: MIT
//
// Project:  go-textcore
// File:     charinfo.go
// Date:     07.Feb.2024
//
// =============================================================================

// Package charinfo inspects a byte, or the bytes of a single UTF-8 encoded
// character, and reports its byte length, the number of terminal columns it
// occupies, whether it is valid UTF-8, and whether it is printable.
//
// Navigation (package position) relies entirely on this package to step
// across a single logical character at a time, rather than assuming every
// character is a single byte wide or a single column wide.
package charinfo

import (
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/Release-Candidate/go-textcore/config"
)

// Info describes the character found at the start of a byte slice.
type Info struct {
	// ByteLength is the number of bytes this character occupies.
	ByteLength int

	// ScreenLength is the number of terminal columns this character
	// occupies, accounting for tab stops, zero-width newlines, and
	// double-width control-character representations.
	ScreenLength int

	// Valid is false for a byte sequence that is not well-formed UTF-8.
	Valid bool

	// Printable is false for control characters, which are conventionally
	// rendered some other way (e.g. "^M") rather than drawn directly.
	Printable bool

	// CodePoint is the decoded rune, or utf8.RuneError for invalid input.
	CodePoint rune
}

// Of inspects the character at the start of b, given the current screen
// column col (1-based, used for tab-stop calculation) and buffer
// configuration cfg. It never reads past len(b).
//
// Of returns a zero-length Info for an empty b, representing the position
// just past the end of a buffer.
func Of(b []byte, col int, cfg config.Config) Info {
	if len(b) == 0 {
		return Info{CodePoint: utf8.RuneError}
	}

	if b[0] < utf8.RuneSelf {
		return asciiInfo(b, col, cfg)
	}

	return utf8Info(b)
}

func asciiInfo(b []byte, col int, cfg config.Config) Info {
	c := b[0]

	switch {
	case c == '\n':
		return Info{ByteLength: 1, ScreenLength: 0, Valid: true, Printable: true, CodePoint: rune(c)}
	case c == '\r' && cfg.LineEnding == config.Windows && len(b) > 1 && b[1] == '\n':
		return Info{ByteLength: 1, ScreenLength: 0, Valid: true, Printable: true, CodePoint: rune(c)}
	case c == '\t':
		width := tabWidth(col, cfg)

		return Info{ByteLength: 1, ScreenLength: width, Valid: true, Printable: true, CodePoint: rune(c)}
	case c < 32 || c == 127:
		return Info{ByteLength: 1, ScreenLength: 2, Valid: true, Printable: false, CodePoint: rune(c)}
	default:
		return Info{ByteLength: 1, ScreenLength: 1, Valid: true, Printable: true, CodePoint: rune(c)}
	}
}

func tabWidth(col int, cfg config.Config) int {
	width := cfg.TabWidth
	if width <= 0 {
		width = config.DefaultTabWidth
	}

	return width - ((col - 1) % width)
}

func utf8Info(b []byte) Info {
	byteLength, ok := isValidUTF8Char(b)
	if !ok {
		// A byte that can never lead a character (0xC0, 0xC1, 0xF5 and up)
		// advances by exactly one. A stray continuation byte, or a
		// well-ranged lead with a malformed tail, collapses together with
		// the continuation bytes that follow it into a single replacement
		// character, so navigation always makes forward progress.
		consumed := 1

		if isContinuationByte(b[0]) || (b[0] >= 0xC2 && b[0] < 0xF5) {
			for consumed < len(b) && isContinuationByte(b[consumed]) {
				consumed++
			}
		}

		return Info{ByteLength: consumed, ScreenLength: 1, Valid: false, Printable: false, CodePoint: utf8.RuneError}
	}

	cp := codePoint(b, byteLength)

	return Info{
		ByteLength:   byteLength,
		ScreenLength: runewidth.RuneWidth(cp),
		Valid:        true,
		Printable:    true,
		CodePoint:    cp,
	}
}

func isContinuationByte(b byte) bool {
	return b&0xC0 == 0x80
}

// isValidUTF8Char determines whether b begins with a well-formed UTF-8
// encoded character and, if so, how many bytes it occupies. It rejects
// overlong encodings and truncated sequences the way RFC 3629 requires.
func isValidUTF8Char(b []byte) (int, bool) {
	lead := b[0]

	switch {
	case lead < 0x80:
		return 1, true
	case lead < 0xC2:
		return 0, false
	case lead < 0xE0:
		return validContinuation(b, 2, 0, 0)
	case lead < 0xF0:
		return validContinuation(b, 3, 0xE0, 0xA0)
	case lead < 0xF5:
		return validContinuation(b, 4, 0xF0, 0x90)
	default:
		return 0, false
	}
}

// validContinuation checks that b holds need bytes with the trailing
// need-1 bytes all being valid continuation bytes, additionally rejecting
// the overlong encoding that occurs when the lead byte is overlongLead and
// the first continuation byte is below overlongMin.
func validContinuation(b []byte, need int, overlongLead byte, overlongMin byte) (int, bool) {
	if len(b) < need {
		return 0, false
	}

	if overlongLead != 0 && b[0] == overlongLead && b[1] < overlongMin {
		return 0, false
	}

	// F4 is the last valid 4-byte lead; anything from it with a
	// continuation byte >= 0x90 would encode past U+10FFFF.
	if need == 4 && b[0] == 0xF4 && b[1] >= 0x90 {
		return 0, false
	}

	for i := 1; i < need; i++ {
		if !isContinuationByte(b[i]) {
			return 0, false
		}
	}

	return need, true
}

func codePoint(b []byte, byteLength int) rune {
	switch byteLength {
	case 1:
		return rune(b[0])
	case 2:
		return rune(b[0]&0x1F)<<6 | rune(b[1]&0x3F)
	case 3:
		return rune(b[0]&0x0F)<<12 | rune(b[1]&0x3F)<<6 | rune(b[2]&0x3F)
	case 4:
		return rune(b[0]&0x07)<<18 | rune(b[1]&0x3F)<<12 | rune(b[2]&0x3F)<<6 | rune(b[3]&0x3F)
	default:
		return utf8.RuneError
	}
}

// ByteReader is the single accessor PreviousCharOffset needs to step
// backward through stored text. Both gapbuffer.GapBuffer and segment.Buffer
// satisfy it.
type ByteReader interface {
	GetAt(p int) byte
}

// PreviousCharOffset scans backward from pos (exclusive) over continuation
// bytes and returns the number of bytes that precede pos up to and
// including the previous character's lead byte. Subtracting it from pos
// yields that lead byte's offset, which is how callers (package position)
// step backward a character at a time when only a byte offset, not a
// decoded length, is at hand.
func PreviousCharOffset(store ByteReader, pos int) int {
	count := 1

	for pos-count > 0 && isContinuationByte(store.GetAt(pos-count)) {
		count++
	}

	return count
}
