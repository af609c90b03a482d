// Copyright (c) 2026 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package strparse

import (
	"github.com/aristanetworks/lofty/errs"
	"github.com/aristanetworks/lofty/utf"
)

// VarPair is one format variable set by a "?.name='value';" group prefix.
type VarPair struct {
	Name  string
	Value string
}

// CaptureFormat describes one capture group handed back to the caller: the
// raw format expression between the parentheses, plus any format variables.
type CaptureFormat struct {
	Expr string
	Vars []VarPair
}

// Regex compiles a format expression into a parser state graph.  The
// supported syntax: literal codepoints, ".", escapes, positive and negative
// bracket expressions with ranges, "(?:...)" groups, "(...)" capture groups
// (whose content is a nested format handed to the caller, not a
// sub-expression), "(?.name='value';)" format variables, quantifiers
// "* + ? {m,n}", alternation "|", and the "^" and "$" anchors.
type Regex struct {
	parser *Parser
	expr   []rune
	pos    int

	nextCaptureIndex int
	subexprStack     []*subexpression
	beginAlternative bool

	// Vars collects the variables of bare "(?.name='value';)" groups, which
	// set format variables without capturing.
	Vars []VarPair
}

// subexpression tracks the growing graph of one nesting level: the first
// state, the head of the branch being built, and the chain position where
// the next state attaches.
type subexpression struct {
	firstState   *State
	currAltFirst *State
	prevAltFirst *State
	prevState    *State
	currState    *State
}

// pushNext chains a state after the current one.
func (sub *subexpression) pushNext(s *State) {
	if sub.currState != nil {
		sub.prevState = sub.currState
		sub.currState.SetNext(s)
	} else {
		sub.firstState = s
		sub.currAltFirst = s
		sub.prevState = nil
	}
	sub.currState = s
}

// pushAlternative starts a new branch headed by s.
func (sub *subexpression) pushAlternative(s *State) {
	if sub.currAltFirst == nil {
		sub.firstState = s
		sub.currAltFirst = s
	} else {
		sub.currAltFirst.SetAlternative(s)
		sub.prevAltFirst = sub.currAltFirst
		sub.currAltFirst = s
	}
	sub.prevState = nil
	sub.currState = s
}

// NewRegex prepares the compilation of expr with parser.
func NewRegex(parser *Parser, expr string) *Regex {
	r := &Regex{parser: parser, expr: decodeInput([]byte(expr))}
	r.subexprStack = []*subexpression{{}}
	return r
}

func (r *Regex) syntaxError(description string) error {
	// The offset is 1-based: the first character is 1, to human beings.
	return &errs.SyntaxError{
		Description: description, Expr: string(r.expr), Offset: r.pos + 1,
	}
}

func (r *Regex) atEnd() bool {
	return r.pos >= len(r.expr)
}

func (r *Regex) peek() rune {
	return r.expr[r.pos]
}

func (r *Regex) top() *subexpression {
	return r.subexprStack[len(r.subexprStack)-1]
}

// Parse compiles the whole expression, rejecting capture groups.
func (r *Regex) Parse() (*State, error) {
	index, _, err := r.ParseUpToNextCapture()
	if err != nil {
		return nil, err
	}
	if index >= 0 {
		return nil, r.syntaxError("capturing groups not supported in this expression")
	}
	return r.subexprStack[0].firstState, nil
}

// ParseUpToNextCapture compiles states until a capture group or the end of
// the expression.  On a capture it returns the capture index and its
// format; the caller compiles the capture's content and resumes with
// InsertCaptureGroup followed by another ParseUpToNextCapture.  At the end
// it returns index -1; First then yields the graph.
func (r *Regex) ParseUpToNextCapture() (int, *CaptureFormat, error) {
	for !r.atEnd() {
		cp := r.peek()
		r.pos++
		switch cp {
		case '.':
			r.pushState(r.parser.CreateCodepointRangeState(0, utf.MaxCP))
		case '[':
			if err := r.parseBracketExpression(); err != nil {
				return 0, nil, err
			}
		case '\\':
			if r.atEnd() {
				return 0, nil, r.syntaxError("unexpected end of escape")
			}
			r.pushState(r.parser.CreateCodepointState(r.peek()))
			r.pos++
		case '(':
			index, format, err := r.parseGroup()
			if err != nil {
				return 0, nil, err
			}
			if index >= 0 {
				return index, format, nil
			}
		case ')':
			if len(r.subexprStack) == 1 {
				return 0, nil, r.syntaxError("mismatched parentheses")
			}
			r.closeSubexpr()
		case '*':
			if err := r.setCurrStateRepetitions(0, 0); err != nil {
				return 0, nil, err
			}
		case '+':
			if err := r.setCurrStateRepetitions(1, 0); err != nil {
				return 0, nil, err
			}
		case '?':
			if err := r.setCurrStateRepetitions(0, 1); err != nil {
				return 0, nil, err
			}
		case '{':
			min, max, err := r.parseRepetitionRange()
			if err != nil {
				return 0, nil, err
			}
			if err := r.setCurrStateRepetitions(min, max); err != nil {
				return 0, nil, err
			}
		case '|':
			r.beginAlternative = true
		case '^':
			r.pushState(r.parser.CreateBeginState())
		case '$':
			r.pushState(r.parser.CreateEndState())
		default:
			r.pushState(r.parser.CreateCodepointState(cp))
		}
	}
	if r.beginAlternative {
		return 0, nil, r.syntaxError("unexpected final state")
	}
	if len(r.subexprStack) != 1 {
		return 0, nil, r.syntaxError("mismatched parentheses")
	}
	return -1, nil, nil
}

// First returns the entry state of the compiled graph.
func (r *Regex) First() *State {
	return r.subexprStack[0].firstState
}

// InsertCaptureGroup pushes a capture group compiled by the caller for the
// format returned by ParseUpToNextCapture.
func (r *Regex) InsertCaptureGroup(first *State) {
	r.pushState(r.parser.CreateCaptureGroup(first))
}

// pushState adds a state to the current subexpression, starting a new
// branch if an alternation is pending.
func (r *Regex) pushState(s *State) {
	sub := r.top()
	if r.beginAlternative {
		r.beginAlternative = false
		sub.pushAlternative(s)
		return
	}
	sub.pushNext(s)
}

// parseGroup handles the text after "(".
func (r *Regex) parseGroup() (int, *CaptureFormat, error) {
	if r.atEnd() {
		return 0, nil, r.syntaxError("unexpected end of group")
	}
	format := &CaptureFormat{}
	if r.peek() == '?' {
		r.pos++
		if r.atEnd() {
			return 0, nil, r.syntaxError("unexpected end of group modifier")
		}
		switch r.peek() {
		case ':':
			r.pos++
			r.subexprStack = append(r.subexprStack, &subexpression{})
			return -1, nil, nil
		case '.':
			if err := r.parseFormatVars(format); err != nil {
				return 0, nil, err
			}
		default:
			return 0, nil, r.syntaxError("unsupported group modifier")
		}
	}
	if !r.atEnd() && r.peek() == ')' {
		r.pos++
		if len(format.Vars) != 0 {
			// A bare variable-assignment group sets format variables
			// without capturing.
			r.Vars = append(r.Vars, format.Vars...)
			return -1, nil, nil
		}
		// "()" captures the empty string.
		return r.takeCaptureIndex(), format, nil
	}
	// The group content is the capture's format expression, taken verbatim
	// up to the unescaped closing parenthesis.
	begin := r.pos
	escape := false
	for ; !r.atEnd(); r.pos++ {
		if escape {
			escape = false
			continue
		}
		switch r.peek() {
		case '\\':
			escape = true
		case ')':
			format.Expr = string(r.expr[begin:r.pos])
			r.pos++
			return r.takeCaptureIndex(), format, nil
		}
	}
	return 0, nil, r.syntaxError("unterminated capturing group")
}

func (r *Regex) takeCaptureIndex() int {
	index := r.nextCaptureIndex
	r.nextCaptureIndex++
	return index
}

// parseFormatVars consumes ".name='value'[,name='value']...;" with
// backslash escapes inside values.
func (r *Regex) parseFormatVars(format *CaptureFormat) error {
	for {
		// Skip the "." or ",".
		r.pos++
		begin := r.pos
		for !r.atEnd() && r.peek() != '=' {
			r.pos++
		}
		if r.atEnd() {
			return r.syntaxError("expected \"=\" for \"?.var='value';\" group modifier")
		}
		name := string(r.expr[begin:r.pos])
		r.pos++
		if r.atEnd() || r.peek() != '\'' {
			return r.syntaxError("expected single quote for value of \"?.var='value';\" group modifier")
		}
		r.pos++
		var value []rune
		escape := false
		closed := false
		for !r.atEnd() {
			cp := r.peek()
			r.pos++
			if escape {
				value = append(value, cp)
				escape = false
			} else if cp == '\\' {
				escape = true
			} else if cp == '\'' {
				closed = true
				break
			} else {
				value = append(value, cp)
			}
		}
		if !closed {
			return r.syntaxError("unexpected end of \"?.var='value';\" group modifier")
		}
		format.Vars = append(format.Vars, VarPair{Name: name, Value: string(value)})
		if r.atEnd() {
			return r.syntaxError("unexpected end of \"?.var='value';\" group modifier")
		}
		if r.peek() != ',' {
			break
		}
	}
	if r.peek() != ';' {
		return r.syntaxError("expected \",\" or \";\" after value of \"?.var='value';\" group modifier")
	}
	r.pos++
	return nil
}

// closeSubexpr pops the current subexpression and pushes it into the
// enclosing one as a single repetition group, so a following quantifier
// applies to the whole of it.
func (r *Regex) closeSubexpr() {
	sub := r.top()
	r.subexprStack = r.subexprStack[:len(r.subexprStack)-1]
	r.pushState(r.parser.CreateRepetitionGroup(sub.firstState, 1, 1))
}

// setCurrStateRepetitions applies a quantifier to the last pushed state,
// wrapping it in a repetition group unless it already is one.
func (r *Regex) setCurrStateRepetitions(min, max uint16) error {
	sub := r.top()
	if sub.currState == nil {
		return r.syntaxError("expression cannot start with ?*+{")
	}
	if sub.currState.isRepetitionGroup() {
		sub.currState.min = min
		sub.currState.max = max
		return nil
	}
	wrapped := sub.currState
	group := r.parser.CreateRepetitionGroup(wrapped, min, max)
	// The group takes over the wrapped state's place in the chain, its
	// branch links included.
	group.SetAlternative(wrapped.alternative)
	wrapped.SetAlternative(nil)
	if sub.prevState != nil {
		sub.prevState.SetNext(group)
	} else {
		if sub.firstState == wrapped {
			sub.firstState = group
		}
		if sub.prevAltFirst != nil && sub.prevAltFirst.alternative == wrapped {
			sub.prevAltFirst.SetAlternative(group)
		}
		if sub.currAltFirst == wrapped {
			sub.currAltFirst = group
		}
	}
	sub.currState = group
	return nil
}

// parseRepetitionRange consumes "m}", "m,}" or "m,n}" after "{".
func (r *Regex) parseRepetitionRange() (uint16, uint16, error) {
	readNumber := func() (uint16, bool) {
		var n uint16
		read := false
		for !r.atEnd() {
			cp := r.peek()
			if cp < '0' || cp > '9' {
				break
			}
			n = n*10 + uint16(cp-'0')
			read = true
			r.pos++
		}
		return n, read
	}
	min, readMin := readNumber()
	max := min
	if !r.atEnd() && r.peek() == ',' {
		r.pos++
		var readMax bool
		max, readMax = readNumber()
		if !readMax {
			// "{m,}": no upper bound.
			max = 0
		}
	}
	if r.atEnd() || r.peek() != '}' || !readMin {
		return 0, 0, r.syntaxError("malformed repetition range")
	}
	r.pos++
	return min, max, nil
}

// parseBracketExpression consumes a positive or negative bracket expression
// after "[", compiling it to a chain of single-codepoint or codepoint-range
// alternatives wrapped in one group.
func (r *Regex) parseBracketExpression() error {
	if r.atEnd() {
		return r.syntaxError("unexpected end of bracket expression")
	}
	if r.peek() == '^' {
		r.pos++
		if r.atEnd() {
			return r.syntaxError("unexpected end of negative bracket expression")
		}
		return r.parseNegativeBracketExpression()
	}
	return r.parsePositiveBracketExpression()
}

func (r *Regex) parsePositiveBracketExpression() error {
	sub := &subexpression{}
	lastRangeState := r.parser.CreateCodepointState(r.peek())
	r.pos++
	sub.pushNext(lastRangeState)
	formingRange := false
	escape := false
	for !r.atEnd() {
		cp := r.peek()
		r.pos++
		if cp == ']' && !escape {
			if formingRange {
				// The dash did not indicate a range after all.
				sub.pushAlternative(r.parser.CreateCodepointState('-'))
			}
			r.wrapBracketAlternatives(sub)
			return nil
		}
		if formingRange {
			formingRange = false
			// Turn the last codepoint state into a range.
			lastRangeState.last = cp
			continue
		}
		if !escape {
			switch cp {
			case '-':
				formingRange = true
				continue
			case '\\':
				escape = true
				continue
			}
		}
		escape = false
		lastRangeState = r.parser.CreateCodepointState(cp)
		sub.pushAlternative(lastRangeState)
	}
	return r.syntaxError("unexpected end of bracket expression")
}

// parseNegativeBracketExpression compiles "[^...]" into alternatives of
// codepoint ranges covering the complement of the enumerated codepoints.
// Enumerated codepoints must be listed in ascending order.
func (r *Regex) parseNegativeBracketExpression() error {
	sub := &subexpression{}
	first := r.peek()
	r.pos++
	nextRangeBegin := first + 1
	if first > 0 {
		sub.pushNext(r.parser.CreateCodepointRangeState(0, first-1))
	}
	formingRange := false
	escape := false
	for !r.atEnd() {
		cp := r.peek()
		r.pos++
		if cp == ']' && !escape {
			if formingRange {
				// The dash did not indicate a range; exclude the dash itself.
				if '-' >= nextRangeBegin {
					sub.bracketAlternative(r.parser.CreateCodepointRangeState(nextRangeBegin, '-'-1))
				}
				nextRangeBegin = '-' + 1
			}
			// Close the complement with a range to the top of the space.
			sub.bracketAlternative(r.parser.CreateCodepointRangeState(nextRangeBegin, utf.MaxCP))
			r.wrapBracketAlternatives(sub)
			return nil
		}
		if formingRange {
			formingRange = false
			nextRangeBegin = cp + 1
			continue
		}
		if !escape {
			switch cp {
			case '-':
				formingRange = true
				continue
			case '\\':
				escape = true
				continue
			}
		}
		escape = false
		if cp > nextRangeBegin {
			// One or more codepoints were skipped; emit the gap range.
			sub.bracketAlternative(r.parser.CreateCodepointRangeState(nextRangeBegin, cp-1))
		}
		nextRangeBegin = cp + 1
	}
	return r.syntaxError("unexpected end of bracket expression")
}

// bracketAlternative adds a state as the next bracket alternative, as the
// head state when nothing was pushed yet.
func (sub *subexpression) bracketAlternative(s *State) {
	if sub.firstState == nil {
		sub.pushNext(s)
	} else {
		sub.pushAlternative(s)
	}
}

// wrapBracketAlternatives pushes the finished bracket alternatives into the
// current subexpression as one quantifiable group.
func (r *Regex) wrapBracketAlternatives(sub *subexpression) {
	r.pushState(r.parser.CreateRepetitionGroup(sub.firstState, 1, 1))
}
