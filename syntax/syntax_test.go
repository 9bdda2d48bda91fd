// SPDX-FileCopyrightText:  Copyright 2024 Roland Csaszar
// SPDX-License-Identifier: MIT
//
// Project:  go-textcore
// File:     syntax_test.go
// Date:     07.Feb.2024
//
// =============================================================================

package syntax_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Release-Candidate/go-textcore/syntax"
)

func TestAddKeepsDistinctTokensSeparate(t *testing.T) {
	t.Parallel()

	var m syntax.Matches

	require.True(t, m.Add(0, 4, syntax.Statement))
	require.True(t, m.Add(5, 3, syntax.Identifier))

	require.Equal(t, 2, m.Len())
	assert.Equal(t, syntax.Match{Offset: 0, Length: 4, Token: syntax.Statement}, m.At(0))
	assert.Equal(t, syntax.Match{Offset: 5, Length: 3, Token: syntax.Identifier}, m.At(1))
}

func TestAddCoalescesContiguousSameToken(t *testing.T) {
	t.Parallel()

	var m syntax.Matches

	require.True(t, m.Add(0, 4, syntax.Comment))
	require.True(t, m.Add(4, 6, syntax.Comment))
	require.True(t, m.Add(10, 2, syntax.Comment))

	require.Equal(t, 1, m.Len())
	assert.Equal(t, syntax.Match{Offset: 0, Length: 12, Token: syntax.Comment}, m.At(0))
}

func TestAddDoesNotCoalesceAcrossGapsOrTokens(t *testing.T) {
	t.Parallel()

	var m syntax.Matches

	require.True(t, m.Add(0, 4, syntax.Comment))
	require.True(t, m.Add(6, 2, syntax.Comment))
	require.True(t, m.Add(8, 2, syntax.Todo))

	assert.Equal(t, 3, m.Len())
}

func TestTokenAt(t *testing.T) {
	t.Parallel()

	var m syntax.Matches

	require.True(t, m.Add(0, 4, syntax.Statement))
	require.True(t, m.Add(5, 3, syntax.Constant))
	require.True(t, m.Add(12, 4, syntax.Comment))

	assert.Equal(t, syntax.Statement, m.TokenAt(0))
	assert.Equal(t, syntax.Statement, m.TokenAt(3))
	assert.Equal(t, syntax.Normal, m.TokenAt(4))
	assert.Equal(t, syntax.Constant, m.TokenAt(6))
	assert.Equal(t, syntax.Normal, m.TokenAt(10))
	assert.Equal(t, syntax.Comment, m.TokenAt(15))
	assert.Equal(t, syntax.Normal, m.TokenAt(100))
}

func TestResetEmptiesCollection(t *testing.T) {
	t.Parallel()

	var m syntax.Matches

	require.True(t, m.Add(0, 4, syntax.Type))
	m.Reset()

	assert.Equal(t, 0, m.Len())
	assert.Equal(t, syntax.Normal, m.TokenAt(1))
}
