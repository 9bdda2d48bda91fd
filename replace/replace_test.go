// SPDX-FileCopyrightText:  Copyright 2024 Roland Csaszar
// SPDX-License-Identifier: MIT
//
// Project:  go-textcore
// File:     replace_test.go
// Date:     07.Feb.2024
//
// =============================================================================

package replace_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gapbuffer "github.com/Release-Candidate/go-textcore"
	"github.com/Release-Candidate/go-textcore/replace"
	"github.com/Release-Candidate/go-textcore/search"
)

func TestNewPlainTextHasNoBackReferences(t *testing.T) {
	t.Parallel()

	rep, err := replace.New("Gophers", false, false)
	require.NoError(t, err)
	assert.False(t, rep.HasBackReferences())
}

func TestNewExpandsEscapeSequences(t *testing.T) {
	t.Parallel()

	rep, err := replace.New(`a\tb`, false, false)
	require.NoError(t, err)

	text, err := rep.Expand(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "a\tb", string(text))
}

func TestNewRejectsBackReferenceBeyondMax(t *testing.T) {
	t.Parallel()

	_, err := replace.New(`\{30}`, false, true)
	assert.ErrorIs(t, err, replace.ErrTooManyCaptureGroups)
}

func TestNewRejectsTooManyBackReferences(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	for i := 0; i < replace.MaxBackRefOccurrences+1; i++ {
		sb.WriteString(`\1`)
	}

	_, err := replace.New(sb.String(), false, true)
	assert.ErrorIs(t, err, replace.ErrTooManyBackReferences)
}

func TestExpandSimpleBackReference(t *testing.T) {
	t.Parallel()

	rep, err := replace.New(`[\1]`, false, true)
	require.NoError(t, err)
	require.True(t, rep.HasBackReferences())

	flat := []byte("foo bar baz")
	captures := []search.Range{{Start: 0, End: 7}, {Start: 0, End: 3}, {Start: 4, End: 7}}

	text, err := rep.Expand(flat, captures)
	require.NoError(t, err)
	assert.Equal(t, "[foo]", string(text))
}

func TestExpandBracedBackReference(t *testing.T) {
	t.Parallel()

	rep, err := replace.New(`\{2} \{1}`, false, true)
	require.NoError(t, err)

	flat := []byte("foo bar baz")
	captures := []search.Range{{Start: 0, End: 7}, {Start: 0, End: 3}, {Start: 4, End: 7}}

	text, err := rep.Expand(flat, captures)
	require.NoError(t, err)
	assert.Equal(t, "bar foo", string(text))
}

func TestNewEscapedBackslashIsNotABackReference(t *testing.T) {
	t.Parallel()

	rep, err := replace.New(`\\1`, false, true)
	require.NoError(t, err)
	assert.False(t, rep.HasBackReferences())

	text, err := rep.Expand(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, `\1`, string(text))
}

func TestNewLiteralModeIgnoresBackReferences(t *testing.T) {
	t.Parallel()

	rep, err := replace.New(`\1`, false, false)
	require.NoError(t, err)
	assert.False(t, rep.HasBackReferences())

	text, err := rep.Expand(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, `\1`, string(text))
}

func TestNewWindowsLineEndingExpansion(t *testing.T) {
	t.Parallel()

	rep, err := replace.New(`a\nb`, true, false)
	require.NoError(t, err)

	text, err := rep.Expand(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "a\r\nb", string(text))
}

func TestExpandBackReferenceOutOfRangeIsError(t *testing.T) {
	t.Parallel()

	rep, err := replace.New(`\5`, false, true)
	require.NoError(t, err)

	_, err = rep.Expand([]byte("abc"), []search.Range{{Start: 0, End: 3}})
	assert.Error(t, err)
}

func TestApplyLiteralReplacement(t *testing.T) {
	t.Parallel()

	gb, err := gapbuffer.NewFromString("Hello World!")
	require.NoError(t, err)

	bs, err := search.NewBufferSearch(search.Options{Pattern: "World"}, search.Literal)
	require.NoError(t, err)

	match, ok, err := bs.FindNext(gb, 0)
	require.NoError(t, err)
	require.True(t, ok)

	rep, err := replace.New("Gophers", false, false)
	require.NoError(t, err)

	require.NoError(t, replace.Apply(gb, bs, match, rep))
	assert.Equal(t, "Hello Gophers!", gb.String())
}

func TestApplyRegexReplacementWithBackReference(t *testing.T) {
	t.Parallel()

	gb, err := gapbuffer.NewFromString("foo bar baz")
	require.NoError(t, err)

	bs, err := search.NewBufferSearch(search.Options{Pattern: `(\w+) (\w+)`}, search.Regex)
	require.NoError(t, err)

	match, ok, err := bs.FindNext(gb, 0)
	require.NoError(t, err)
	require.True(t, ok)

	rep, err := replace.New(`\2 \1`, false, true)
	require.NoError(t, err)

	require.NoError(t, replace.Apply(gb, bs, match, rep))
	assert.Equal(t, "bar foo baz", gb.String())
}
