// SPDX-FileCopyrightText:  Copyright 2024 Roland Csaszar
// SPDX-License-Identifier: MIT
//
// Project:  go-textcore
// File:     segment_test.go
// Date:     07.Feb.2024
//
// =============================================================================

// Black-box testing of the segmented buffer library.
package segment_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Release-Candidate/go-textcore/segment"
)

func TestEmpty(t *testing.T) {
	t.Parallel()

	buf, err := segment.New()
	require.NoError(t, err)

	assert.Equal(t, "", buf.String())
	assert.Equal(t, 0, buf.Length())
}

func TestNewFromStringSmall(t *testing.T) {
	t.Parallel()

	buf, err := segment.NewFromString("Hello World!")
	require.NoError(t, err)

	assert.Equal(t, "Hello World!", buf.String())
	assert.Equal(t, len("Hello World!"), buf.GetPoint())
}

func TestInsertAtPoint(t *testing.T) {
	t.Parallel()

	buf, err := segment.NewFromString("Hello !")
	require.NoError(t, err)
	require.NoError(t, buf.SetPoint(6))
	require.NoError(t, buf.Insert("World"))

	assert.Equal(t, "Hello World!", buf.String())
	assert.Equal(t, 11, buf.GetPoint())
}

func TestDeleteAcrossBuffer(t *testing.T) {
	t.Parallel()

	buf, err := segment.NewFromString("Hello World!")
	require.NoError(t, err)
	require.NoError(t, buf.SetPoint(5))
	require.NoError(t, buf.Delete(6))

	assert.Equal(t, "Hello!", buf.String())
	assert.Equal(t, 5, buf.GetPoint())
}

func TestLinesSpanningSegments(t *testing.T) {
	t.Parallel()

	buf, err := segment.NewFromString("one\ntwo\nthree")
	require.NoError(t, err)

	assert.Equal(t, 2, buf.Lines())
}

// TestInsertSplitsSegments forces an insert large enough that it must span
// more than one MaxSegmentSize-capped segment to verify chain splitting.
func TestInsertSplitsSegments(t *testing.T) {
	t.Parallel()

	buf, err := segment.New()
	require.NoError(t, err)

	big := strings.Repeat("a", segment.MaxSegmentSize+segment.NewSegmentSize+10)
	require.NoError(t, buf.Insert(big))

	assert.Equal(t, len(big), buf.Length())
	assert.Equal(t, big, buf.String())
}

// TestInsertInMiddleOfLargeBuffer exercises the split-and-chain path of
// Insert: inserting into the middle of a nearly full segment must move the
// tail into its own segment before splicing the new text's own segments in.
func TestInsertInMiddleOfLargeBuffer(t *testing.T) {
	t.Parallel()

	buf, err := segment.NewFromString(strings.Repeat("x", segment.MaxSegmentSize-10))
	require.NoError(t, err)

	require.NoError(t, buf.SetPoint(5))
	require.NoError(t, buf.Insert(strings.Repeat("y", 100)))

	want := strings.Repeat("x", 5) + strings.Repeat("y", 100) + strings.Repeat("x", segment.MaxSegmentSize-15)
	assert.Equal(t, want, buf.String())
}

func TestDeletePrunesEmptySegmentsButKeepsLast(t *testing.T) {
	t.Parallel()

	buf, err := segment.New()
	require.NoError(t, err)

	big := strings.Repeat("a", segment.MaxSegmentSize+segment.NewSegmentSize+10)
	require.NoError(t, buf.Insert(big))

	require.NoError(t, buf.SetPoint(0))
	require.NoError(t, buf.Delete(len(big)))

	assert.Equal(t, "", buf.String())
	assert.Equal(t, 0, buf.Length())
}

func TestFindNextAndPrevSpanningSegments(t *testing.T) {
	t.Parallel()

	buf, err := segment.New()
	require.NoError(t, err)

	big := strings.Repeat("a", segment.MaxSegmentSize+10) + "\n" + strings.Repeat("b", 10)
	require.NoError(t, buf.Insert(big))

	pos, found := buf.FindNext(0, '\n')
	require.True(t, found)
	assert.Equal(t, segment.MaxSegmentSize+10, pos)

	pos, found = buf.FindPrev(buf.Length(), '\n')
	require.True(t, found)
	assert.Equal(t, segment.MaxSegmentSize+10, pos)
}

func TestGetAtAndGetRangeSpanningSegments(t *testing.T) {
	t.Parallel()

	buf, err := segment.New()
	require.NoError(t, err)

	big := strings.Repeat("a", segment.MaxSegmentSize) + "bcdef"
	require.NoError(t, buf.Insert(big))

	assert.Equal(t, byte('b'), buf.GetAt(segment.MaxSegmentSize))

	out := make([]byte, 5)
	n := buf.GetRange(segment.MaxSegmentSize, out)
	assert.Equal(t, 5, n)
	assert.Equal(t, "bcdef", string(out))
}

func TestReplaceSameLength(t *testing.T) {
	t.Parallel()

	buf, err := segment.NewFromString("Hello World!")
	require.NoError(t, err)

	require.NoError(t, buf.SetPoint(6))
	require.NoError(t, buf.Replace(5, "Gophr"))

	assert.Equal(t, "Hello Gophr!", buf.String())
}

func TestReplaceShorterShrinksBuffer(t *testing.T) {
	t.Parallel()

	buf, err := segment.NewFromString("Hello World!")
	require.NoError(t, err)

	require.NoError(t, buf.SetPoint(6))
	require.NoError(t, buf.Replace(5, "Go"))

	assert.Equal(t, "Hello Go!", buf.String())
}

func TestReplaceLongerGrowsBuffer(t *testing.T) {
	t.Parallel()

	buf, err := segment.NewFromString("Hello World!")
	require.NoError(t, err)

	require.NoError(t, buf.SetPoint(6))
	require.NoError(t, buf.Replace(5, "Gophers"))

	assert.Equal(t, "Hello Gophers!", buf.String())
}

func TestReplaceAcrossSegmentBoundary(t *testing.T) {
	t.Parallel()

	buf, err := segment.New()
	require.NoError(t, err)

	left := strings.Repeat("a", segment.MaxSegmentSize-2)
	require.NoError(t, buf.Insert(left))
	require.NoError(t, buf.Insert("XXXX"))
	require.NoError(t, buf.Insert(strings.Repeat("b", 10)))

	require.NoError(t, buf.SetPoint(segment.MaxSegmentSize-2))
	require.NoError(t, buf.Replace(4, "YYYY"))

	out := buf.Bytes(segment.MaxSegmentSize-2, 4)
	assert.Equal(t, "YYYY", string(out))
}

func TestFlatBytesMatchesString(t *testing.T) {
	t.Parallel()

	buf, err := segment.New()
	require.NoError(t, err)

	big := strings.Repeat("a", segment.MaxSegmentSize+10) + "end"
	require.NoError(t, buf.Insert(big))

	assert.Equal(t, big, string(buf.FlatBytes()))
}
