// SPDX-FileCopyrightText:  Copyright 2024 Roland Csaszar
// SPDX-License-Identifier: MIT
//
// Project:  go-textcore
// File:     position.go
// Date:     07.Feb.2024
//
// =============================================================================

// Package position implements buffer-relative navigation: a Pos binds a
// byte offset to the line and (screen) column it falls on within a
// backing store, and knows how to step across characters, lines, and
// arbitrary offsets one logical unit at a time using package charinfo.
//
// A Mark is a lightweight, re-resolvable bookmark: rather than caching a
// line and column that an edit elsewhere in the buffer could invalidate, it
// tracks a byte offset and is resolved back into a Pos on demand.
package position

import (
	"github.com/pkg/errors"

	"github.com/Release-Candidate/go-textcore/charinfo"
	"github.com/Release-Candidate/go-textcore/config"
)

// maxCharBytes is the widest a single UTF-8 encoded character can be.
const maxCharBytes = 4

// Store is the byte-addressable backing a Pos navigates. Both
// gapbuffer.GapBuffer and segment.Buffer satisfy it.
type Store interface {
	Length() int
	Lines() int
	GetAt(p int) byte
	GetRange(p int, buf []byte) int
	FindNext(p int, c byte) (int, bool)
	FindPrev(p int, c byte) (int, bool)
}

// Pos is a single navigable position within a Store: a byte offset together
// with the 1-based line number and 1-based screen column it corresponds to.
type Pos struct {
	store  Store
	cfg    config.Config
	offset int
	line   int
	col    int
}

// New returns a Pos at the very start of store: offset 0, line 1, column 1.
//
// See also [FromOffset], [FromLineCol].
func New(store Store, cfg config.Config) Pos {
	return Pos{store: store, cfg: cfg, offset: 0, line: 1, col: 1}
}

// Offset returns the current byte offset.
func (p Pos) Offset() int { return p.offset }

// Line returns the current 1-based line number.
func (p Pos) Line() int { return p.line }

// Col returns the current 1-based screen column.
func (p Pos) Col() int { return p.col }

// GetChar returns the byte at the position, or 0 at buffer end.
func (p Pos) GetChar() byte { return p.store.GetAt(p.offset) }

// IsCharBefore reports whether the byte immediately before the position is
// c.
func (p Pos) IsCharBefore(c byte) bool {
	return p.offset > 0 && p.store.GetAt(p.offset-1) == c
}

// Compare orders two positions in the same store by offset, returning a
// negative number, zero, or a positive number as p is before, at, or after
// other. Offset order and line/column order coincide for any two positions
// derived from the same store.
func (p Pos) Compare(other Pos) int {
	switch {
	case p.offset < other.offset:
		return -1
	case p.offset > other.offset:
		return 1
	default:
		return 0
	}
}

// Min returns whichever of p and other comes first.
func (p Pos) Min(other Pos) Pos {
	if p.Compare(other) <= 0 {
		return p
	}

	return other
}

// Max returns whichever of p and other comes last.
func (p Pos) Max(other Pos) Pos {
	if p.Compare(other) >= 0 {
		return p
	}

	return other
}

// AtBufferStart reports whether the position is at offset 0.
func (p Pos) AtBufferStart() bool { return p.offset == 0 }

// AtBufferEnd reports whether the position is at or past the end of the
// store.
func (p Pos) AtBufferEnd() bool { return p.offset >= p.store.Length() }

// AtFirstLine reports whether the position is on line 1.
func (p Pos) AtFirstLine() bool { return p.line == 1 }

// AtLastLine reports whether the position is on the last line the store
// currently has.
func (p Pos) AtLastLine() bool { return p.line == p.store.Lines()+1 }

func (p Pos) terminatorByte() byte {
	if p.cfg.LineEnding == config.Mac {
		return '\r'
	}

	return '\n'
}

// terminatorLength returns the number of bytes the line terminator at the
// position occupies, or 0 if the position is not at one.
func (p Pos) terminatorLength() int {
	c := p.store.GetAt(p.offset)
	if c == 0 {
		return 0
	}

	switch p.cfg.LineEnding {
	case config.Windows:
		if c == '\r' && p.store.GetAt(p.offset+1) == '\n' {
			return 2
		}

		return 0
	case config.Mac:
		if c == '\r' {
			return 1
		}

		return 0
	default:
		if c == '\n' {
			return 1
		}

		return 0
	}
}

// AtLineEnd reports whether the position sits immediately before a line
// terminator (or the end of the buffer).
func (p Pos) AtLineEnd() bool {
	return p.terminatorLength() > 0 || p.AtBufferEnd()
}

func (p Pos) lineStartOffset() int {
	if idx, ok := p.store.FindPrev(p.offset, p.terminatorByte()); ok {
		return idx + 1
	}

	return 0
}

// AtLineStart reports whether the position is at the first byte of its
// line.
func (p Pos) AtLineStart() bool {
	return p.offset == p.lineStartOffset()
}

// OnEmptyLine reports whether the current line has no content at all.
func (p Pos) OnEmptyLine() bool {
	return p.AtLineStart() && p.AtLineEnd()
}

// OnWhitespaceLine reports whether every byte on the current line is a
// space or a tab.
func (p Pos) OnWhitespaceLine() bool {
	start := p.lineStartOffset()
	end := p.store.Length()

	if idx, ok := p.store.FindNext(start, p.terminatorByte()); ok {
		end = idx
	}

	for i := start; i < end; i++ {
		c := p.store.GetAt(i)
		if c != ' ' && c != '\t' {
			return false
		}
	}

	return true
}

func (p *Pos) peekFrom(offset, maxLen int) []byte {
	length := p.store.Length()
	if offset >= length {
		return nil
	}

	if offset+maxLen > length {
		maxLen = length - offset
	}

	buf := make([]byte, maxLen)
	got := p.store.GetRange(offset, buf)

	return buf[:got]
}

func (p *Pos) peek(maxLen int) []byte {
	return p.peekFrom(p.offset, maxLen)
}

// prevCharStart returns the offset of the lead byte of the character
// immediately before offset, by stepping back over however many bytes
// charinfo reports the previous character occupies.
func (p *Pos) prevCharStart(offset int) int {
	return offset - charinfo.PreviousCharOffset(p.store, offset)
}

// recalcCol rescans from the start of the current line up to the current
// offset, recomputing the screen column. Needed whenever a move lands on a
// new line or steps backward over a multi-byte or invalid sequence, since
// tab widths depend on everything that came before them on the line.
func (p *Pos) recalcCol() {
	offset := p.lineStartOffset()
	col := 1

	for offset < p.offset {
		info := charinfo.Of(p.peekFrom(offset, maxCharBytes), col, p.cfg)
		if info.ByteLength == 0 {
			break
		}

		col += info.ScreenLength
		offset += info.ByteLength
	}

	p.col = col
}

// NextChar advances one logical character: across a line terminator if the
// position is at one, otherwise by the byte and screen length of the
// character at the position. It is a no-op at the end of the buffer.
func (p *Pos) NextChar() error {
	if p.AtBufferEnd() {
		return nil
	}

	if tlen := p.terminatorLength(); tlen > 0 {
		p.offset += tlen
		p.line++
		p.col = 1

		return nil
	}

	info := charinfo.Of(p.peek(maxCharBytes), p.col, p.cfg)
	if info.ByteLength == 0 {
		return nil
	}

	p.offset += info.ByteLength
	p.col += info.ScreenLength

	return nil
}

// PrevChar retreats one logical character, the mirror image of NextChar. It
// is a no-op at the start of the buffer.
func (p *Pos) PrevChar() error {
	if p.AtBufferStart() {
		return nil
	}

	prevByte := p.store.GetAt(p.offset - 1)

	switch {
	case p.cfg.LineEnding == config.Windows && prevByte == '\n' &&
		p.offset >= 2 && p.store.GetAt(p.offset-2) == '\r':
		p.offset -= 2
		p.line--
		p.recalcCol()
	case p.cfg.LineEnding == config.Mac && prevByte == '\r':
		p.offset--
		p.line--
		p.recalcCol()
	case p.cfg.LineEnding != config.Windows && p.cfg.LineEnding != config.Mac && prevByte == '\n':
		p.offset--
		p.line--
		p.recalcCol()
	default:
		p.offset = p.prevCharStart(p.offset)
		p.recalcCol()
	}

	return nil
}

// ToLineStart moves to the first byte of the current line.
func (p *Pos) ToLineStart() error {
	p.offset = p.lineStartOffset()
	p.col = 1

	return nil
}

// ToLineEnd moves to the line terminator (or buffer end) of the current
// line. Under Windows line endings the terminator is the two-byte "\r\n"
// pair, so the position stops before the '\r'.
func (p *Pos) ToLineEnd() error {
	if idx, ok := p.store.FindNext(p.offset, p.terminatorByte()); ok {
		if p.cfg.LineEnding == config.Windows && idx > 0 &&
			p.store.GetAt(idx-1) == '\r' {
			idx--
		}

		p.offset = idx
	} else {
		p.offset = p.store.Length()
	}

	p.recalcCol()

	return nil
}

// NextLine moves to the start of the following line. The last line has no
// following line: there NextLine moves to the end of the buffer and returns
// no error.
func (p *Pos) NextLine() error {
	if err := p.ToLineEnd(); err != nil {
		return err
	}

	return p.NextChar()
}

// PrevLine moves to the start of the preceding line. On line 2 this always
// lands exactly on the buffer start, matching line 1's start by
// definition - a case worth calling out explicitly rather than leaving
// implicit in the general path below.
func (p *Pos) PrevLine() error {
	if p.line <= 1 {
		return nil
	}

	if p.line == 2 {
		p.ToBufferStart()

		return nil
	}

	if err := p.ToLineStart(); err != nil {
		return err
	}

	if err := p.PrevChar(); err != nil {
		return err
	}

	return p.ToLineStart()
}

// ToBufferStart moves to offset 0, line 1, column 1.
func (p *Pos) ToBufferStart() {
	p.offset = 0
	p.line = 1
	p.col = 1
}

// ToBufferEnd moves to the end of the store.
func (p *Pos) ToBufferEnd() error {
	p.offset = p.store.Length()
	p.line = p.store.Lines() + 1
	p.recalcCol()

	return nil
}

// AdvanceToOffset moves forward character by character until reaching
// offset, which must be at or after the current position.
func (p *Pos) AdvanceToOffset(offset int) error {
	if offset < p.offset || offset > p.store.Length() {
		return errors.Errorf("position: cannot advance to offset %d from %d", offset, p.offset)
	}

	for p.offset < offset {
		if err := p.NextChar(); err != nil {
			return err
		}
	}

	return nil
}

// ReverseToOffset moves backward character by character until reaching
// offset, which must be at or before the current position.
func (p *Pos) ReverseToOffset(offset int) error {
	if offset > p.offset || offset < 0 {
		return errors.Errorf("position: cannot reverse to offset %d from %d", offset, p.offset)
	}

	for p.offset > offset {
		if err := p.PrevChar(); err != nil {
			return err
		}
	}

	return nil
}

// AdvanceToLine moves forward line by line until reaching line, which must
// be at or after the current line. When endOfLine is set the position ends
// at that line's terminator rather than its start.
func (p *Pos) AdvanceToLine(line int, endOfLine bool) error {
	for p.line < line && !p.AtBufferEnd() {
		if err := p.NextLine(); err != nil {
			return err
		}
	}

	if endOfLine {
		return p.ToLineEnd()
	}

	return nil
}

// ReverseToLine moves backward line by line until reaching line, which must
// be at or before the current line. When endOfLine is set the position ends
// at that line's terminator rather than its start.
func (p *Pos) ReverseToLine(line int, endOfLine bool) error {
	for p.line > line && !p.AtBufferStart() {
		if err := p.PrevLine(); err != nil {
			return err
		}
	}

	if endOfLine {
		return p.ToLineEnd()
	}

	return nil
}

// AdvanceToCol moves forward within the current line until reaching col or
// the end of the line, whichever comes first.
func (p *Pos) AdvanceToCol(col int) error {
	for p.col < col && !p.AtLineEnd() {
		if err := p.NextChar(); err != nil {
			return err
		}
	}

	return nil
}

// ReverseToCol moves backward within the current line until reaching col or
// the start of the line, whichever comes first.
func (p *Pos) ReverseToCol(col int) error {
	for p.col > col && !p.AtLineStart() {
		if err := p.PrevChar(); err != nil {
			return err
		}
	}

	return nil
}

// AdvanceToLineCol moves forward to line, then within that line forward to
// col.
func (p *Pos) AdvanceToLineCol(line, col int) error {
	if err := p.AdvanceToLine(line, false); err != nil {
		return err
	}

	return p.AdvanceToCol(col)
}

// ReverseToLineCol moves backward to line, then within that line backward
// to col.
func (p *Pos) ReverseToLineCol(line, col int) error {
	if err := p.ReverseToLine(line, false); err != nil {
		return err
	}

	return p.ReverseToCol(col)
}

func endPos(store Store, cfg config.Config) (Pos, error) {
	p := New(store, cfg)
	if err := p.ToBufferEnd(); err != nil {
		return Pos{}, err
	}

	return p, nil
}

func absDiff(a, b int) int {
	if a < b {
		return b - a
	}

	return a - b
}

// FromOffset returns a Pos at offset, reached by walking forward or
// backward from whichever of {buffer start, known, buffer end} is nearest
// to offset, so a short move never rescans a large buffer from the start.
func FromOffset(store Store, cfg config.Config, known Pos, offset int) (Pos, error) {
	if offset < 0 || offset > store.Length() {
		return Pos{}, errors.Errorf("position: offset %d out of range [0, %d]", offset, store.Length())
	}

	end, err := endPos(store, cfg)
	if err != nil {
		return Pos{}, err
	}

	candidates := [3]Pos{New(store, cfg), known, end}
	nearest := candidates[0]
	best := absDiff(nearest.offset, offset)

	for _, c := range candidates[1:] {
		if d := absDiff(c.offset, offset); d < best {
			nearest, best = c, d
		}
	}

	p := nearest

	switch {
	case p.offset < offset:
		if err := p.AdvanceToOffset(offset); err != nil {
			return Pos{}, err
		}
	case p.offset > offset:
		if err := p.ReverseToOffset(offset); err != nil {
			return Pos{}, err
		}
	}

	return p, nil
}

// FromLineCol returns a Pos at (line, col), reached by walking from
// whichever of {buffer start, known, buffer end} is nearest in line/column
// terms.
func FromLineCol(store Store, cfg config.Config, known Pos, line, col int) (Pos, error) {
	if line < 1 {
		line = 1
	}

	if col < 1 {
		col = 1
	}

	end, err := endPos(store, cfg)
	if err != nil {
		return Pos{}, err
	}

	candidates := [3]Pos{New(store, cfg), known, end}
	dist := func(p Pos) int { return absDiff(p.line, line)*1_000_000 + absDiff(p.col, col) }

	nearest := candidates[0]
	best := dist(nearest)

	for _, c := range candidates[1:] {
		if d := dist(c); d < best {
			nearest, best = c, d
		}
	}

	p := nearest

	switch {
	case p.line < line:
		if err := p.AdvanceToLine(line, false); err != nil {
			return Pos{}, err
		}
	case p.line > line:
		if err := p.ReverseToLine(line, false); err != nil {
			return Pos{}, err
		}
	}

	switch {
	case p.col < col:
		if err := p.AdvanceToCol(col); err != nil {
			return Pos{}, err
		}
	case p.col > col:
		if err := p.ReverseToCol(col); err != nil {
			return Pos{}, err
		}
	}

	return p, nil
}

// MarkProperty is a bitset of behaviours a Mark can opt into when text is
// edited at or around its offset.
type MarkProperty int

const (
	// MarkTracksInsertAtOffset makes a mark move forward when text is
	// inserted exactly at its offset, rather than staying put and ending up
	// before the inserted text.
	MarkTracksInsertAtOffset MarkProperty = 1 << iota
)

// Mark is a lightweight, re-resolvable bookmark: a byte offset plus the
// policy for how it reacts to edits elsewhere in the buffer. It is
// deliberately not a cached Pos, since a cached line/column pair is
// invalidated by any edit before it - Resolve recomputes one on demand.
type Mark struct {
	Offset int
	Prop   MarkProperty
}

// NewMark creates a Mark at offset with the given property flags.
func NewMark(offset int, prop MarkProperty) Mark {
	return Mark{Offset: offset, Prop: prop}
}

// AdjustForInsert updates the mark's offset in response to length bytes
// having been inserted at atOffset elsewhere in the buffer.
func (m *Mark) AdjustForInsert(atOffset, length int) {
	if atOffset < m.Offset || (atOffset == m.Offset && m.Prop&MarkTracksInsertAtOffset != 0) {
		m.Offset += length
	}
}

// AdjustForDelete updates the mark's offset in response to length bytes
// having been deleted starting at atOffset elsewhere in the buffer.
func (m *Mark) AdjustForDelete(atOffset, length int) {
	if atOffset >= m.Offset {
		return
	}

	removed := length
	if atOffset+length > m.Offset {
		removed = m.Offset - atOffset
	}

	m.Offset -= removed
}

// Resolve turns the mark back into a full Pos, using known as the search
// anchor hint.
func (m Mark) Resolve(store Store, cfg config.Config, known Pos) (Pos, error) {
	return FromOffset(store, cfg, known, m.Offset)
}
