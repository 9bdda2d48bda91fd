// SPDX-FileCopyrightText:  Copyright 2024 Roland Csaszar
// SPDX-License-Identifier: MIT
//
// Project:  go-textcore
// File:     gap-buffer.go
// Date:     07.Feb.2024
//
// =============================================================================

// Package gapbuffer implements a gap buffer, a single contiguous byte
// allocation with a moveable gap that gives amortized-cheap insertion and
// deletion at an edit point.
//
// A gap buffer stores raw bytes, not decoded runes - higher layers (packages
// charinfo and position) are responsible for UTF-8 aware navigation. A gap
// buffer itself only tracks byte length and a running count of '\n' bytes,
// used by callers that need a cheap line count without rescanning the text.
//
// The string "Hello world!" with the point after "Hello" looks like this in
// the underlying array:
//
//	Hello|<       gap        >| world!
//
//	['H', 'e', 'l', 'l', 'o', _, _, _, ' ', 'w', 'o', 'r', 'l', 'd', '!']
//	  0    1    2    3    4  |    gap    |  5    6    7    8    9   10  11
//
// Insertion happens at the point by copying into the start of the gap and
// advancing the gap start; deletion extends the gap by advancing its end.
// Moving the point elsewhere first slides the whole gap to that position.
package gapbuffer

import (
	"strings"

	"github.com/pkg/errors"
)

// Increment is the number of extra bytes allocated whenever the gap needs to
// grow, and the granularity at which storage shrinks back down again.
const Increment = 1024

// ErrOutOfMemory is returned when a requested allocation cannot be satisfied.
// Go gives no recoverable signal for genuine process-level exhaustion (the
// runtime terminates the program instead), so this models the only
// realistically recoverable case here: a request so large it is rejected
// before ever reaching the allocator.
var ErrOutOfMemory = errors.New("gapbuffer: out of memory")

// maxReasonableAlloc bounds the size New/Preallocate/grow will ever attempt,
// so a runaway or corrupt length value fails as ErrOutOfMemory instead of
// crashing the process in make().
const maxReasonableAlloc = 1 << 40

// GapBuffer is a contiguous byte region partitioned into three zones: stored
// text before the gap, the gap itself, and stored text after the gap.
type GapBuffer struct {
	data     []byte
	point    int // point in internal coordinates; never inside the gap
	gapStart int
	gapEnd   int
	lines    int
}

// New allocates an empty GapBuffer with the given capacity. capacity must be
// greater than zero.
//
// See also [NewFromString].
func New(capacity int) (*GapBuffer, error) {
	if capacity <= 0 {
		return nil, errors.Errorf("gapbuffer: capacity must be > 0, got %d", capacity)
	}

	data, err := safeMake(capacity)
	if err != nil {
		return nil, err
	}

	return &GapBuffer{data: data, gapEnd: capacity}, nil
}

// NewFromString allocates a GapBuffer pre-populated with s, with the point
// left at the end of s.
//
// See also [New].
func NewFromString(s string) (*GapBuffer, error) {
	gb, err := New(len(s) + Increment)
	if err != nil {
		return nil, err
	}

	if err := gb.Add(s); err != nil {
		return nil, err
	}

	return gb, nil
}

func safeMake(size int) ([]byte, error) {
	if size < 0 || size > maxReasonableAlloc {
		return nil, ErrOutOfMemory
	}

	return make([]byte, size), nil
}

// Length returns the number of stored bytes, excluding the gap.
func (g *GapBuffer) Length() int {
	return len(g.data) - g.GapSize()
}

// Lines returns the number of '\n' bytes currently stored.
func (g *GapBuffer) Lines() int {
	return g.lines
}

// GapSize returns the number of free bytes currently in the gap.
func (g *GapBuffer) GapSize() int {
	return g.gapEnd - g.gapStart
}

// GetPoint returns the current point as an external byte offset in the range
// [0, Length()].
//
// See also [GapBuffer.SetPoint].
func (g *GapBuffer) GetPoint() int {
	return g.externalPoint(g.point)
}

// SetPoint moves the point to external byte offset p, which must satisfy
// 0 <= p <= Length().
//
// See also [GapBuffer.GetPoint].
func (g *GapBuffer) SetPoint(p int) error {
	if p < 0 || p > g.Length() {
		return errors.Errorf("gapbuffer: point %d out of range [0, %d]", p, g.Length())
	}

	g.point = g.internalPoint(p)

	return nil
}

// internalPoint converts an external (gap-free) offset to an internal
// (gap-aware) one.
func (g *GapBuffer) internalPoint(external int) int {
	if external > g.gapStart {
		return external + g.GapSize()
	}

	return external
}

// externalPoint converts an internal offset back to an external one.
func (g *GapBuffer) externalPoint(internal int) int {
	if internal > g.gapStart {
		return internal - g.GapSize()
	}

	return internal
}

// moveGapToPoint slides the gap so that it starts exactly at the point.
func (g *GapBuffer) moveGapToPoint() {
	switch {
	case g.point == g.gapStart:
		return
	case g.point < g.gapStart:
		byteNum := g.gapStart - g.point
		copy(g.data[g.point+g.GapSize():], g.data[g.point:g.gapStart])
		g.gapEnd -= byteNum
		g.gapStart = g.point
	default:
		byteNum := g.point - g.gapEnd
		copy(g.data[g.gapStart:], g.data[g.gapEnd:g.gapEnd+byteNum])
		g.gapStart += byteNum
		g.gapEnd += byteNum
		g.point = g.gapStart
	}
}

// increaseGapIfRequired grows storage, if required, so the buffer can hold
// newLength total stored bytes without running out of gap.
func (g *GapBuffer) increaseGapIfRequired(newLength int) error {
	if newLength <= len(g.data) {
		return nil
	}

	newAlloc := newLength + Increment

	grown, err := safeMake(newAlloc)
	if err != nil {
		return err
	}

	copy(grown, g.data[:g.gapStart])

	tailLen := len(g.data) - g.gapEnd
	if tailLen > 0 {
		copy(grown[newAlloc-tailLen:], g.data[g.gapEnd:])
	}

	sizeIncrease := newAlloc - len(g.data)
	if g.point > g.gapEnd {
		g.point += sizeIncrease
	}

	g.gapEnd += sizeIncrease
	g.data = grown

	return nil
}

// decreaseGapIfRequired gives memory back after a large deletion, once the
// gap has grown past twice Increment.
func (g *GapBuffer) decreaseGapIfRequired() error {
	if g.GapSize() <= 2*Increment {
		return nil
	}

	length := g.Length()
	point := g.GetPoint()

	if err := g.SetPoint(length); err != nil {
		return err
	}

	g.moveGapToPoint()

	newAlloc := length + Increment

	shrunk, err := safeMake(newAlloc)
	if err != nil {
		return err
	}

	copy(shrunk, g.data[:g.gapStart])

	g.data = shrunk
	g.gapEnd = g.gapStart + Increment

	if err := g.SetPoint(point); err != nil {
		return err
	}

	return nil
}

// Insert copies str into the buffer at the point without advancing the
// point itself.
//
// See also [GapBuffer.Add].
func (g *GapBuffer) Insert(str string) error {
	if len(str) == 0 {
		return nil
	}

	g.moveGapToPoint()

	if err := g.increaseGapIfRequired(g.Length() + len(str)); err != nil {
		return err
	}

	n := copy(g.data[g.point:], str)
	g.lines += strings.Count(str, "\n")
	g.gapStart += n

	return nil
}

// Add inserts str at the point and advances the point past the inserted
// text, as a typed character or pasted block would.
//
// See also [GapBuffer.Insert].
func (g *GapBuffer) Add(str string) error {
	if err := g.Insert(str); err != nil {
		return err
	}

	g.point += len(str)

	return nil
}

// Delete removes up to byteNum bytes starting at the point, clamped to the
// bytes remaining after the point. The point itself does not move.
func (g *GapBuffer) Delete(byteNum int) error {
	if byteNum <= 0 {
		return nil
	}

	g.moveGapToPoint()

	if g.gapEnd+byteNum > len(g.data) {
		byteNum = len(g.data) - g.gapEnd
	}

	g.lines -= strings.Count(string(g.data[g.gapEnd:g.gapEnd+byteNum]), "\n")
	g.gapEnd += byteNum

	return g.decreaseGapIfRequired()
}

// Replace atomically overwrites up to n bytes at the point with str: bytes
// are overwritten in place where the existing and new text overlap, any
// surplus of str is appended, and any surplus of the original n bytes is
// deleted. The point ends up just past the replaced text.
func (g *GapBuffer) Replace(n int, str string) error {
	g.moveGapToPoint()

	length := g.Length()
	point := g.GetPoint()

	if point+n > length {
		n = length - point
	}

	afterGap := len(g.data) - g.gapEnd
	overwrite := minInt(afterGap, minInt(n, len(str)))

	removed := g.data[g.gapEnd : g.gapEnd+overwrite]
	g.lines -= strings.Count(string(removed), "\n")
	g.lines += strings.Count(str[:overwrite], "\n")
	copy(g.data[g.gapEnd:], str[:overwrite])

	if overwrite > 0 {
		g.point += g.GapSize() + overwrite
	}

	if len(str) > overwrite {
		if err := g.Add(str[overwrite:]); err != nil {
			return err
		}
	}

	if n > len(str) {
		return g.Delete(n - len(str))
	}

	return nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}

	return b
}

// GetAt returns the byte at external offset p, or 0 if p is at or past the
// end of the buffer.
//
// See also [GapBuffer.GetRange].
func (g *GapBuffer) GetAt(p int) byte {
	if p < 0 || p >= g.Length() {
		return 0
	}

	ip := g.internalPoint(p)
	if ip == g.gapStart {
		return g.data[g.gapEnd]
	}

	return g.data[ip]
}

// GetRange copies up to len(buf) bytes starting at external offset p into
// buf, splicing around the gap as necessary, and returns the number of
// bytes actually copied.
//
// See also [GapBuffer.GetAt], [GapBuffer.Bytes].
func (g *GapBuffer) GetRange(p int, buf []byte) int {
	length := g.Length()
	if p < 0 || p >= length || len(buf) == 0 {
		return 0
	}

	numBytes := len(buf)
	if p+numBytes > length {
		numBytes = length - p
	}

	ip := g.internalPoint(p)
	iend := g.internalPoint(p + numBytes)

	if iend <= g.gapStart || ip >= g.gapEnd {
		copy(buf, g.data[ip:ip+numBytes])
		return numBytes
	}

	preGap := g.gapStart - ip
	if preGap > 0 {
		copy(buf, g.data[ip:g.gapStart])
	}

	copy(buf[preGap:], g.data[g.gapEnd:iend])

	return numBytes
}

// Bytes returns the numBytes bytes starting at external offset p as a new,
// independent slice. A thin convenience wrapper over GetRange for callers
// that do not want to manage their own buffer.
func (g *GapBuffer) Bytes(p, numBytes int) []byte {
	buf := make([]byte, numBytes)

	return buf[:g.GetRange(p, buf)]
}

// FindNext searches forward from external offset p (inclusive) for byte c,
// splicing the search across the gap. It returns the matching offset and
// true, or (0, false) if c does not occur at or after p.
//
// See also [GapBuffer.FindPrev].
func (g *GapBuffer) FindNext(p int, c byte) (int, bool) {
	length := g.Length()
	if p < 0 || p >= length {
		return 0, false
	}

	ip := g.internalPoint(p)

	if ip < g.gapStart {
		if idx := indexByte(g.data[ip:g.gapStart], c); idx >= 0 {
			return g.externalPoint(ip + idx), true
		}

		ip = g.gapEnd
	} else if ip == g.gapStart {
		ip = g.gapEnd
	}

	if idx := indexByte(g.data[ip:], c); idx >= 0 {
		return g.externalPoint(ip + idx), true
	}

	return 0, false
}

// FindPrev searches backward from external offset p (exclusive) for byte c,
// splicing the search across the gap. It returns the matching offset and
// true, or (0, false) if c does not occur before p.
//
// See also [GapBuffer.FindNext].
func (g *GapBuffer) FindPrev(p int, c byte) (int, bool) {
	length := g.Length()
	if length == 0 || p <= 0 {
		return 0, false
	}

	if p > length {
		p = length
	}

	ip := g.internalPoint(p)

	if ip > g.gapEnd {
		if idx := lastIndexByte(g.data[g.gapEnd:ip], c); idx >= 0 {
			return g.externalPoint(g.gapEnd + idx), true
		}

		ip = g.gapStart
	} else if ip == g.gapEnd {
		ip = g.gapStart
	}

	if idx := lastIndexByte(g.data[:ip], c); idx >= 0 {
		return g.externalPoint(idx), true
	}

	return 0, false
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}

	return -1
}

func lastIndexByte(b []byte, c byte) int {
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] == c {
			return i
		}
	}

	return -1
}

// BeforeGap returns the stored bytes before the gap, external offsets
// [0, gap start), as a view into the buffer's own storage. The slice is only
// valid until the next mutating call. Together with AfterGap it lets a
// scanner walk the stored text without moving the gap first.
//
// See also [GapBuffer.AfterGap].
func (g *GapBuffer) BeforeGap() []byte {
	return g.data[:g.gapStart]
}

// AfterGap returns the stored bytes after the gap, external offsets
// [gap start, Length()), as a view into the buffer's own storage. The slice
// is only valid until the next mutating call.
//
// See also [GapBuffer.BeforeGap].
func (g *GapBuffer) AfterGap() []byte {
	return g.data[g.gapEnd:]
}

// Preallocate ensures capacity for at least n total stored bytes, avoiding
// repeated reallocation when a caller knows it is about to load a large
// amount of text.
func (g *GapBuffer) Preallocate(n int) error {
	return g.increaseGapIfRequired(n)
}

// ContiguousStorage moves the gap to the end of the stored text so that
// bytes [0, Length()) are contiguous at the start of the allocation. Callers
// that need a flat byte slice to hand to an external scanner (for example
// the regex engine in package search) should call this, then FlatBytes.
//
// See also [GapBuffer.FlatBytes].
func (g *GapBuffer) ContiguousStorage() {
	_ = g.SetPoint(g.Length())
	g.moveGapToPoint()
}

// String returns the full contents of the buffer as a string.
func (g *GapBuffer) String() string {
	var b strings.Builder

	b.Grow(g.Length())
	b.Write(g.data[:g.gapStart])
	b.Write(g.data[g.gapEnd:])

	return b.String()
}

// FlatBytes flattens the buffer (see ContiguousStorage) and returns the
// stored bytes as a slice backed by the buffer's own storage. The slice is
// only valid until the next mutating call.
func (g *GapBuffer) FlatBytes() []byte {
	g.ContiguousStorage()

	return g.data[:g.Length()]
}
