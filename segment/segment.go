// SPDX-FileCopyrightText:  Copyright 2024 Roland Csaszar
// SPDX-License-Identifier: MIT
//
// Project:  go-textcore
// File:     segment.go
// Date:     07.Feb.2024
//
// =============================================================================

// Package segment implements a segmented buffer: a doubly-linked chain of
// gap buffers (package gapbuffer), each capped at MaxSegmentSize.
//
// A single gap buffer works well for small to medium files, but a gap that
// has to slide across megabytes of text on every edit gets expensive. The
// segmented buffer bounds that cost by splitting storage into a chain of
// segments, so a gap only ever has to move within its own ~1MiB segment; an
// edit that grows a segment past the cap splits it in two, and deleting a
// segment down to nothing prunes it from the chain.
package segment

import (
	"github.com/pkg/errors"

	gapbuffer "github.com/Release-Candidate/go-textcore"
)

// MaxSegmentSize is the largest a single segment's gap buffer is allowed to
// grow to before it is split in two.
const MaxSegmentSize = 1024 * 1024

// NewSegmentSize is the capacity newly allocated segments are given, chosen
// so that an immediate full-width insert still leaves room for one gap
// growth before a second split is required.
const NewSegmentSize = MaxSegmentSize - gapbuffer.Increment

// Segment is one link in a Buffer's chain: a gap buffer together with its
// neighbours.
type Segment struct {
	next, prev *Segment
	buf        *gapbuffer.GapBuffer
}

func newSegment(initial string) (*Segment, error) {
	capacity := NewSegmentSize
	if len(initial) >= capacity {
		capacity = len(initial) + gapbuffer.Increment
	}

	buf, err := gapbuffer.New(capacity)
	if err != nil {
		return nil, err
	}

	if initial != "" {
		if err := buf.Add(initial); err != nil {
			return nil, err
		}
	}

	return &Segment{buf: buf}, nil
}

// split moves the bytes from local offset at onward into a new segment,
// copying through a bounded scratch buffer rather than all at once, and
// returns that new segment (not yet linked into any chain).
func (s *Segment) split(at int) (*Segment, error) {
	tailLen := s.buf.Length() - at

	newSeg, err := newSegment("")
	if err != nil {
		return nil, err
	}

	const scratchSize = 1024

	scratch := make([]byte, scratchSize)
	offset := at

	for remaining := tailLen; remaining > 0; {
		n := remaining
		if n > scratchSize {
			n = scratchSize
		}

		got := s.buf.GetRange(offset, scratch[:n])
		if err := newSeg.buf.Add(string(scratch[:got])); err != nil {
			return nil, err
		}

		offset += got
		remaining -= got
	}

	if err := s.buf.SetPoint(at); err != nil {
		return nil, err
	}

	if err := s.buf.Delete(tailLen); err != nil {
		return nil, err
	}

	return newSeg, nil
}

// Buffer is a segmented text buffer: a chain of Segments presenting a
// single logical byte stream and a single point.
type Buffer struct {
	head          *Segment
	current       *Segment
	beforeCurrent int // sum of the lengths of all segments before current
	length        int
}

// New creates an empty, single-segment Buffer.
//
// See also [NewFromString].
func New() (*Buffer, error) {
	seg, err := newSegment("")
	if err != nil {
		return nil, err
	}

	return &Buffer{head: seg, current: seg}, nil
}

// NewFromString creates a Buffer pre-populated with s, with the point left
// at the end of s.
func NewFromString(s string) (*Buffer, error) {
	b, err := New()
	if err != nil {
		return nil, err
	}

	if err := b.Insert(s); err != nil {
		return nil, err
	}

	return b, nil
}

// Length returns the total number of stored bytes across every segment.
func (b *Buffer) Length() int {
	return b.length
}

// Lines returns the total number of '\n' bytes across every segment.
func (b *Buffer) Lines() int {
	lines := 0

	for seg := b.head; seg != nil; seg = seg.next {
		lines += seg.buf.Lines()
	}

	return lines
}

// GetPoint returns the current point as a global byte offset in the range
// [0, Length()].
func (b *Buffer) GetPoint() int {
	return b.beforeCurrent + b.current.buf.GetPoint()
}

// SetPoint moves the point to global byte offset p, which must satisfy
// 0 <= p <= Length(). When p falls exactly on a segment boundary the point
// lands at the start of the following segment, when one exists - of two
// equivalent positions, retrieval prefers the later one.
func (b *Buffer) SetPoint(p int) error {
	if p < 0 || p > b.length {
		return errors.Errorf("segment: point %d out of range [0, %d]", p, b.length)
	}

	before := 0

	for seg := b.head; seg != nil; seg = seg.next {
		segLen := seg.buf.Length()

		if p < before+segLen || (p == before+segLen && seg.next == nil) {
			b.current = seg
			b.beforeCurrent = before

			return seg.buf.SetPoint(p - before)
		}

		before += segLen
	}

	return errors.New("segment: point resolution failed unexpectedly")
}

func (b *Buffer) globalOffsetOf(target *Segment) int {
	before := 0

	for seg := b.head; seg != nil; seg = seg.next {
		if seg == target {
			return before
		}

		before += seg.buf.Length()
	}

	return before
}

func (b *Buffer) linkAfter(anchor, fresh *Segment) {
	fresh.prev = anchor
	fresh.next = anchor.next

	if anchor.next != nil {
		anchor.next.prev = fresh
	}

	anchor.next = fresh
}

// freeSegmentIfEmpty unlinks seg from the chain if it holds no bytes,
// unless it is the sole remaining segment.
func (b *Buffer) freeSegmentIfEmpty(seg *Segment) {
	if seg.buf.Length() != 0 {
		return
	}

	if seg.prev == nil && seg.next == nil {
		return
	}

	if seg.prev != nil {
		seg.prev.next = seg.next
	} else {
		b.head = seg.next
	}

	if seg.next != nil {
		seg.next.prev = seg.prev
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}

	return b
}

// Insert splices str into the buffer at the point, splitting and chaining
// segments as required to keep every segment at or below MaxSegmentSize.
// The point ends up just past the inserted text.
func (b *Buffer) Insert(str string) error {
	if len(str) == 0 {
		return nil
	}

	originalGlobalPoint := b.GetPoint()
	seg := b.current
	point := seg.buf.GetPoint()

	capLeft := MaxSegmentSize - seg.buf.Length()
	if capLeft < 0 {
		capLeft = 0
	}

	n := minInt(capLeft, len(str))

	if n > 0 {
		if err := seg.buf.SetPoint(point); err != nil {
			return err
		}

		if err := seg.buf.Insert(str[:n]); err != nil {
			return err
		}

		b.length += n
	}

	remaining := str[n:]
	if len(remaining) == 0 {
		return b.SetPoint(originalGlobalPoint + n)
	}

	// Any tail text after the insertion point has to move into its own
	// segment before more full segments can be chained in behind it.
	tailLen := seg.buf.Length() - (point + n)

	var tailSeg *Segment

	if tailLen > 0 {
		var err error

		tailSeg, err = seg.split(point + n)
		if err != nil {
			return err
		}

		b.linkAfter(seg, tailSeg)
	}

	insertAfter := seg

	for len(remaining) > 0 {
		chunk := remaining
		if len(chunk) > NewSegmentSize {
			chunk = chunk[:NewSegmentSize]
		}

		newSeg, err := newSegment(chunk)
		if err != nil {
			return err
		}

		b.linkAfter(insertAfter, newSeg)
		b.length += len(chunk)
		insertAfter = newSeg
		remaining = remaining[len(chunk):]
	}

	return b.SetPoint(originalGlobalPoint + len(str))
}

// Add is an alias for Insert kept for symmetry with gapbuffer.GapBuffer; the
// point always ends up past the inserted text for a segmented buffer, since
// a single insert may span several segments.
func (b *Buffer) Add(str string) error {
	return b.Insert(str)
}

// Delete removes up to byteNum bytes starting at the point, continuing
// across segment boundaries and pruning any segment left empty (unless it
// is the sole remaining segment). The point does not move.
func (b *Buffer) Delete(byteNum int) error {
	if byteNum <= 0 {
		return nil
	}

	originalGlobalPoint := b.GetPoint()

	seg := b.current
	point := seg.buf.GetPoint()
	remaining := byteNum

	for remaining > 0 && seg != nil {
		if err := seg.buf.SetPoint(point); err != nil {
			return err
		}

		segRemaining := seg.buf.Length() - point
		n := minInt(segRemaining, remaining)

		if err := seg.buf.Delete(n); err != nil {
			return err
		}

		b.length -= n
		remaining -= n

		// Capture next before the current segment is potentially pruned:
		// freeing it first and reading seg.next afterwards would read a
		// detached node's stale pointer.
		next := seg.next
		b.freeSegmentIfEmpty(seg)
		seg = next
		point = 0
	}

	if originalGlobalPoint > b.length {
		originalGlobalPoint = b.length
	}

	return b.SetPoint(originalGlobalPoint)
}

// GetAt returns the byte at global offset p, or 0 past the end of the
// buffer.
func (b *Buffer) GetAt(p int) byte {
	before := 0

	for seg := b.head; seg != nil; seg = seg.next {
		segLen := seg.buf.Length()
		if p < before+segLen {
			return seg.buf.GetAt(p - before)
		}

		before += segLen
	}

	return 0
}

// GetRange copies up to len(buf) bytes starting at global offset p into
// buf, splicing across as many segments as necessary, and returns the
// number of bytes copied.
func (b *Buffer) GetRange(p int, buf []byte) int {
	copied := 0
	before := 0

	for seg := b.head; seg != nil && copied < len(buf); seg = seg.next {
		segLen := seg.buf.Length()
		segEnd := before + segLen

		if p+copied < segEnd && p+copied >= before {
			n := seg.buf.GetRange((p+copied)-before, buf[copied:])
			copied += n
		}

		before = segEnd
	}

	return copied
}

// FindNext searches forward from global offset p (inclusive) for byte c,
// scanning across segment boundaries. It returns the matching offset and
// true, or (0, false) if c does not occur at or after p.
func (b *Buffer) FindNext(p int, c byte) (int, bool) {
	before := 0

	for seg := b.head; seg != nil; seg = seg.next {
		segLen := seg.buf.Length()

		if p < before+segLen {
			local := p - before
			if local < 0 {
				local = 0
			}

			if idx, ok := seg.buf.FindNext(local, c); ok {
				return before + idx, true
			}
		}

		before += segLen
	}

	return 0, false
}

// FindPrev searches backward from global offset p (exclusive) for byte c,
// scanning across segment boundaries. It returns the matching offset and
// true, or (0, false) if c does not occur before p.
func (b *Buffer) FindPrev(p int, c byte) (int, bool) {
	// No tail pointer is kept, so collect the segments in forward order
	// first and then walk them in reverse.
	type span struct {
		seg    *Segment
		before int
	}

	spans := make([]span, 0)
	before := 0

	for seg := b.head; seg != nil; seg = seg.next {
		spans = append(spans, span{seg, before})
		before += seg.buf.Length()
	}

	for i := len(spans) - 1; i >= 0; i-- {
		segLen := spans[i].seg.buf.Length()

		if spans[i].before < p {
			local := p - spans[i].before
			if local > segLen {
				local = segLen
			}

			if idx, ok := spans[i].seg.buf.FindPrev(local, c); ok {
				return spans[i].before + idx, true
			}
		}
	}

	return 0, false
}

// Bytes returns the numBytes bytes starting at global offset p as a new,
// independent slice.
//
// See also [Buffer.GetRange].
func (b *Buffer) Bytes(p, numBytes int) []byte {
	buf := make([]byte, numBytes)

	return buf[:b.GetRange(p, buf)]
}

// FlatBytes returns the full contents of the buffer as a single contiguous
// slice, the same shape gapbuffer.GapBuffer.FlatBytes presents, so that
// package search and package replace can scan either storage kind through
// one interface.
func (b *Buffer) FlatBytes() []byte {
	buf := make([]byte, b.length)
	b.GetRange(0, buf)

	return buf
}

// Replace atomically overwrites up to n bytes at the point with str,
// matching gapbuffer.GapBuffer.Replace: bytes are overwritten in place where
// the existing and new text overlap, any surplus of str is appended, and any
// surplus of the original n bytes is deleted. The point ends up just past
// the replaced text. The overwritten span is written in place segment by
// segment (see overwriteAtPoint); the surplus goes through Insert or Delete,
// which splice across segment boundaries.
func (b *Buffer) Replace(n int, str string) error {
	originalGlobalPoint := b.GetPoint()

	if n < 0 {
		n = 0
	}

	if originalGlobalPoint+n > b.length {
		n = b.length - originalGlobalPoint
	}

	overwrite := minInt(n, len(str))

	if overwrite > 0 {
		if err := b.overwriteAtPoint(str[:overwrite]); err != nil {
			return err
		}
	}

	if len(str) > overwrite {
		if err := b.Insert(str[overwrite:]); err != nil {
			return err
		}
	}

	if n > len(str) {
		return b.Delete(n - len(str))
	}

	return nil
}

// overwriteAtPoint replaces the len(str) bytes starting at the point in
// place, without growing or shrinking the buffer, splicing across as many
// segments as the overwritten span touches.
func (b *Buffer) overwriteAtPoint(str string) error {
	originalGlobalPoint := b.GetPoint()
	remaining := str

	seg := b.current
	point := seg.buf.GetPoint()

	for len(remaining) > 0 {
		segRemaining := seg.buf.Length() - point
		n := minInt(segRemaining, len(remaining))

		if err := seg.buf.SetPoint(point); err != nil {
			return err
		}

		if err := seg.buf.Replace(n, remaining[:n]); err != nil {
			return err
		}

		remaining = remaining[n:]

		if len(remaining) == 0 {
			break
		}

		seg = seg.next
		point = 0
	}

	return b.SetPoint(originalGlobalPoint + len(str))
}

// String returns the full contents of the buffer as a string.
func (b *Buffer) String() string {
	return string(b.FlatBytes())
}
