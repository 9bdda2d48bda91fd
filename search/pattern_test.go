// SPDX-FileCopyrightText:  Copyright 2024 Roland Csaszar
// SPDX-License-Identifier: MIT
//
// Project:  go-textcore
// File:     pattern_test.go
// Date:     07.Feb.2024
//
// =============================================================================

package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Release-Candidate/go-textcore/search"
)

func TestUnescapePatternTab(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a\tb", search.UnescapePattern(`a\tb`, false))
}

func TestUnescapePatternNewlineUnix(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a\nb", search.UnescapePattern(`a\nb`, false))
}

func TestUnescapePatternNewlineWindows(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a\r\nb", search.UnescapePattern(`a\nb`, true))
}

func TestUnescapePatternBackslash(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `a\b`, search.UnescapePattern(`a\\b`, false))
}

func TestUnescapePatternHexByte(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a\x41b", search.UnescapePattern(`a\x41b`, false))
}

func TestUnescapePatternLeavesRegexMetacharsAlone(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `\d+\w*`, search.UnescapePattern(`\d+\w*`, false))
}

func TestUnescapePatternTrailingBackslash(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `a\`, search.UnescapePattern(`a\`, false))
}

func TestUnescapePatternIncompleteHexEscape(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `\x4`, search.UnescapePattern(`\x4`, false))
}
