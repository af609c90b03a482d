// Copyright (c) 2026 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package strparse compiles capture-format strings into parser state graphs
// and executes them over Unicode strings.  The graph is an NFA: states
// consume codepoints or group sub-graphs, a next pointer chains states, and
// an alternative pointer branches to the next choice when a state fails.
//
// The compiler in regex.go understands a regular-expression subset (see
// Regex); fromtext.go builds graphs for the formatted parsing of basic
// types.
package strparse

import (
	"github.com/aristanetworks/lofty/utf"
)

type stateType int

const (
	stateCodepoint stateType = iota
	stateCPRange
	stateRepetition
	stateCapture
	stateBegin
	stateEnd
)

// State is one node of a parser graph.  States are created through a Parser
// and wired with SetNext and SetAlternative.
type State struct {
	typ  stateType
	next *State
	// alternative is tried when this state cannot match.
	alternative *State

	// Codepoint and range states.
	first, last rune

	// Group states: the sub-graph, and for repetitions the repeat counts;
	// max 0 means unbounded.
	inner    *State
	min, max uint16

	// Capture creation order, for diagnostics.
	captureIndex int
}

// Parser owns the states of one or more graphs and executes them.
type Parser struct {
	states   []*State
	captures int
}

// NewParser creates an empty parser.
func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) add(s *State) *State {
	p.states = append(p.states, s)
	return s
}

// CreateCodepointState returns a state matching exactly cp.
func (p *Parser) CreateCodepointState(cp rune) *State {
	return p.add(&State{typ: stateCodepoint, first: cp, last: cp})
}

// CreateCodepointRangeState returns a state matching any codepoint in
// [first, last].
func (p *Parser) CreateCodepointRangeState(first, last rune) *State {
	return p.add(&State{typ: stateCPRange, first: first, last: last})
}

// CreateRepetitionGroup returns a state repeating the sub-graph at first
// between min and max times; max 0 means unbounded.
func (p *Parser) CreateRepetitionGroup(first *State, min, max uint16) *State {
	return p.add(&State{typ: stateRepetition, inner: first, min: min, max: max})
}

// CreateCaptureGroup returns a state that records the input span its
// sub-graph matches.  A nil sub-graph captures the empty string; such
// placeholders keep capture numbering aligned across alternatives.
func (p *Parser) CreateCaptureGroup(first *State) *State {
	s := p.add(&State{typ: stateCapture, inner: first, captureIndex: p.captures})
	p.captures++
	return s
}

// CreateBeginState returns a zero-width state matching the start of input.
func (p *Parser) CreateBeginState() *State {
	return p.add(&State{typ: stateBegin})
}

// CreateEndState returns a zero-width state matching the end of input.
func (p *Parser) CreateEndState() *State {
	return p.add(&State{typ: stateEnd})
}

// SetNext chains s2 after s, returning s.
func (s *State) SetNext(s2 *State) *State {
	s.next = s2
	return s
}

// SetAlternative makes s2 the branch tried when s fails, returning s.
func (s *State) SetAlternative(s2 *State) *State {
	s.alternative = s2
	return s
}

// Type helpers used by the compiler.
func (s *State) isRepetitionGroup() bool {
	return s != nil && s.typ == stateRepetition
}

// decodeInput converts UTF-8 bytes into codepoints once per match run.
func decodeInput(b []byte) []rune {
	runes := make([]rune, 0, len(b))
	for i := 0; i < len(b); {
		cp, n := utf.UTF8Decode(b[i:])
		runes = append(runes, cp)
		i += n
	}
	return runes
}
