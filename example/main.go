// SPDX-FileCopyrightText:  Copyright 2024 Roland Csaszar
// SPDX-License-Identifier: MIT
//
// Project:  go-textcore
// File:     main.go
// Date:     07.Feb.2024
//
// =============================================================================

package main

import (
	"fmt"

	gapbuffer "github.com/Release-Candidate/go-textcore"
	"github.com/Release-Candidate/go-textcore/config"
	"github.com/Release-Candidate/go-textcore/position"
	"github.com/Release-Candidate/go-textcore/radix"
	"github.com/Release-Candidate/go-textcore/replace"
	"github.com/Release-Candidate/go-textcore/search"
)

func main() {
	// Create a new gap buffer pre-populated with two lines of text, the
	// point left at the end.
	buf, err := gapbuffer.NewFromString("Hello\nworld")
	if err != nil {
		panic(err)
	}

	fmt.Println(buf.String())
	fmt.Println("================================================================================")

	// Move the point to the start of the buffer and insert a prefix there.
	// Insert leaves the point where it was, so the prefix ends up after it.
	if err := buf.SetPoint(0); err != nil {
		panic(err)
	}

	if err := buf.Insert("Say: "); err != nil {
		panic(err)
	}

	fmt.Println(buf.String())
	fmt.Printf("length: %d, lines: %d\n", buf.Length(), buf.Lines())
	fmt.Println("================================================================================")

	// Navigate to the very end of the buffer and report the line and screen
	// column the final offset falls on.
	pos := position.New(buf, config.Default())
	if err := pos.AdvanceToOffset(buf.Length()); err != nil {
		panic(err)
	}

	fmt.Printf("offset %d is line %d, column %d\n", pos.Offset(), pos.Line(), pos.Col())
	fmt.Println("================================================================================")

	// Case-insensitive literal search, wrapping past the end of the buffer
	// back to the first match.
	bs, err := search.NewBufferSearch(
		search.Options{Pattern: "HELLO", CaseInsensitive: true, Forward: true},
		search.Literal)
	if err != nil {
		panic(err)
	}

	match, found, err := bs.FindNext(buf, 6)
	if err != nil {
		panic(err)
	}

	fmt.Printf("found: %v, match: %v, wrapped: %v\n", found, match, bs.Wrapped())
	fmt.Println("================================================================================")

	// Regex search with capture groups, then swap the two captured words
	// using backreferences in the replacement text.
	words, err := gapbuffer.NewFromString("foo bar baz")
	if err != nil {
		panic(err)
	}

	rs, err := search.NewBufferSearch(
		search.Options{Pattern: `(\w+) (\w+)`, Forward: true},
		search.Regex)
	if err != nil {
		panic(err)
	}

	match, found, err = rs.FindNext(words, 0)
	if err != nil || !found {
		panic("no regex match")
	}

	rep, err := replace.New(`\2 \1`, false, true)
	if err != nil {
		panic(err)
	}

	if err := replace.Apply(words, rs, match, rep); err != nil {
		panic(err)
	}

	fmt.Println(words.String())
	fmt.Println("================================================================================")

	// A radix tree distinguishes stored keys from prefixes of stored keys,
	// which is what drives command-name completion.
	tree := radix.New()
	tree.Insert("open", 1)
	tree.Insert("opened", 2)
	tree.Insert("close", 3)

	_, found, isPrefix := tree.Find("open")
	fmt.Printf("find %q: found=%v isPrefix=%v\n", "open", found, isPrefix)

	_, found, isPrefix = tree.Find("op")
	fmt.Printf("find %q: found=%v isPrefix=%v\n", "op", found, isPrefix)

	_, found, isPrefix = tree.Find("quit")
	fmt.Printf("find %q: found=%v isPrefix=%v\n", "quit", found, isPrefix)
}
