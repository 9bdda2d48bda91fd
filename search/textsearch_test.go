// SPDX-FileCopyrightText:  Copyright 2024 Roland Csaszar
// SPDX-License-Identifier: MIT
//
// Project:  go-textcore
// File:     textsearch_test.go
// Date:     07.Feb.2024
//
// =============================================================================

package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gapbuffer "github.com/Release-Candidate/go-textcore"
	"github.com/Release-Candidate/go-textcore/search"
)

func TestTextSearchEmptyPatternIsError(t *testing.T) {
	t.Parallel()

	_, err := search.NewTextSearch("", false)
	assert.Error(t, err)
}

func TestTextSearchFindNextCaseSensitive(t *testing.T) {
	t.Parallel()

	ts, err := search.NewTextSearch("lo", false)
	require.NoError(t, err)

	text := []byte("Hello Hello")
	off, ok := ts.FindNext(text, 0, len(text))
	require.True(t, ok)
	assert.Equal(t, 3, off)
}

func TestTextSearchFindNextCaseInsensitive(t *testing.T) {
	t.Parallel()

	ts, err := search.NewTextSearch("LO", true)
	require.NoError(t, err)

	text := []byte("Hello Hello")

	off, ok := ts.FindNext(text, 0, len(text))
	require.True(t, ok)
	assert.Equal(t, 3, off)

	off, ok = ts.FindNext(text, 5, len(text))
	require.True(t, ok)
	assert.Equal(t, 9, off)

	_, ok = ts.FindNext(text, 10, len(text))
	assert.False(t, ok)
}

func TestTextSearchFindNextNoMatch(t *testing.T) {
	t.Parallel()

	ts, err := search.NewTextSearch("zzz", false)
	require.NoError(t, err)

	_, ok := ts.FindNext([]byte("Hello Hello"), 0, 11)
	assert.False(t, ok)
}

func TestTextSearchFindPrev(t *testing.T) {
	t.Parallel()

	ts, err := search.NewTextSearch("lo", true)
	require.NoError(t, err)

	text := []byte("Hello Hello")

	off, ok := ts.FindPrev(text, 11, 0)
	require.True(t, ok)
	assert.Equal(t, 9, off)

	off, ok = ts.FindPrev(text, 9, 0)
	require.True(t, ok)
	assert.Equal(t, 3, off)

	_, ok = ts.FindPrev(text, 3, 0)
	assert.False(t, ok)
}

// parkGap moves the buffer's gap to offset without changing the stored
// text: a throwaway byte is inserted there and deleted again, which leaves
// the gap parked at the edit point.
func parkGap(t *testing.T, gb *gapbuffer.GapBuffer, offset int) {
	t.Helper()

	require.NoError(t, gb.SetPoint(offset))
	require.NoError(t, gb.Insert("\x00"))
	require.NoError(t, gb.Delete(1))
	require.Equal(t, offset, len(gb.BeforeGap()))
}

func TestTextSearchFindNextGappedStraddlesGap(t *testing.T) {
	t.Parallel()

	gb, err := gapbuffer.NewFromString("Hello Hello")
	require.NoError(t, err)

	// Park the gap inside the second match, so it can only be found by the
	// bridge scan.
	parkGap(t, gb, 8)

	ts, err := search.NewTextSearch("Hello", false)
	require.NoError(t, err)

	off, ok := ts.FindNextGapped(gb, 0, gb.Length())
	require.True(t, ok)
	assert.Equal(t, 0, off)

	off, ok = ts.FindNextGapped(gb, 1, gb.Length())
	require.True(t, ok)
	assert.Equal(t, 6, off)

	_, ok = ts.FindNextGapped(gb, 7, gb.Length())
	assert.False(t, ok)
}

func TestTextSearchFindPrevGappedStraddlesGap(t *testing.T) {
	t.Parallel()

	gb, err := gapbuffer.NewFromString("Hello Hello")
	require.NoError(t, err)
	parkGap(t, gb, 8)

	ts, err := search.NewTextSearch("Hello", false)
	require.NoError(t, err)

	off, ok := ts.FindPrevGapped(gb, gb.Length(), 0)
	require.True(t, ok)
	assert.Equal(t, 6, off)

	off, ok = ts.FindPrevGapped(gb, 6, 0)
	require.True(t, ok)
	assert.Equal(t, 0, off)

	_, ok = ts.FindPrevGapped(gb, 0, 0)
	assert.False(t, ok)
}

func TestTextSearchGappedDoesNotMoveTheGap(t *testing.T) {
	t.Parallel()

	gb, err := gapbuffer.NewFromString("one two three two one")
	require.NoError(t, err)
	parkGap(t, gb, 9)

	ts, err := search.NewTextSearch("two", false)
	require.NoError(t, err)

	off, ok := ts.FindNextGapped(gb, 0, gb.Length())
	require.True(t, ok)
	assert.Equal(t, 4, off)

	off, ok = ts.FindPrevGapped(gb, gb.Length(), 0)
	require.True(t, ok)
	assert.Equal(t, 14, off)

	// Flattening would have slid the gap to the end of the text.
	assert.Equal(t, 9, len(gb.BeforeGap()))
}

func TestTextSearchFindPrevSpansLargeSearchBuffer(t *testing.T) {
	t.Parallel()

	// Pad the haystack well past one search-buffer chunk so the sliding
	// reverse window has to cross at least one boundary before finding the
	// single match near the start.
	padding := make([]byte, 20000)
	for i := range padding {
		padding[i] = 'x'
	}

	text := append([]byte("needle"), padding...)

	ts, err := search.NewTextSearch("needle", false)
	require.NoError(t, err)

	off, ok := ts.FindPrev(text, len(text), 0)
	require.True(t, ok)
	assert.Equal(t, 0, off)
}
