// Copyright (c) 2026 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package strparse

import (
	"github.com/aristanetworks/lofty/errs"
	"github.com/aristanetworks/lofty/utf"
)

// matchError is the failure every adapter reports when input does not match
// its compiled graph.
func matchError(input string) error {
	return &errs.SyntaxError{Description: "input does not match format", Expr: input, Offset: 1}
}

// BoolParser parses "true" and "false".
type BoolParser struct {
	parser   *Parser
	first    *State
	trueCap  *State
	falseCap *State
}

// NewBoolParser compiles the boolean parser graph.
func NewBoolParser(p *Parser) *BoolParser {
	b := &BoolParser{parser: p}
	b.trueCap = p.CreateCaptureGroup(wordStates(p, "true"))
	b.falseCap = p.CreateCaptureGroup(wordStates(p, "false"))
	b.first = b.trueCap.SetAlternative(b.falseCap)
	return b
}

func wordStates(p *Parser, word string) *State {
	var first, curr *State
	for _, cp := range word {
		s := p.CreateCodepointState(cp)
		if curr != nil {
			curr.SetNext(s)
		} else {
			first = s
		}
		curr = s
	}
	return first
}

// Parse converts input.
func (b *BoolParser) Parse(input []byte) (bool, error) {
	match := b.parser.MatchFull(b.first, input)
	if match == nil {
		return false, matchError(string(input))
	}
	return match.Matched(b.trueCap), nil
}

// intBase is one base alternative of an IntParser: the capture group of its
// digits, the bit shift per digit (0 for base 10), and the optional prefix
// capture.
type intBase struct {
	digitsCap *State
	prefixCap *State
	shift     uint
}

// IntParser parses integers under a format expression: optional "#" to
// accept base prefixes ("0b", "0o"/"0", "0x", upper or lower case),
// followed by any of "b", "d", "o", "x" selecting the bases to accept.
// With "#" and no base letters, all four bases are accepted; without "#",
// at most one base letter may be given (no letter means base 10), since
// without a prefix the digits alone cannot reveal the base.
type IntParser struct {
	parser *Parser
	signed bool
	prefix bool
	first  *State

	signCap *State
	bases   []intBase
}

// NewIntParser compiles the integer parser graph for format.
func NewIntParser(p *Parser, signed bool, format string) (*IntParser, error) {
	ip := &IntParser{parser: p, signed: signed}
	expr := []rune(format)
	i := 0
	if i < len(expr) && expr[i] == '#' {
		ip.prefix = true
		i++
	}
	var add2, add8, add10, add16 bool
	for ; i < len(expr); i++ {
		var chosen *bool
		switch expr[i] {
		case 'b':
			chosen = &add2
		case 'd':
			chosen = &add10
		case 'o':
			chosen = &add8
		case 'x':
			chosen = &add16
		default:
			return nil, &errs.SyntaxError{
				Description: "unexpected format character", Expr: format, Offset: i + 1,
			}
		}
		if !ip.prefix && (add2 || add8 || add10 || add16) {
			// Without a prefix the digits alone cannot reveal the base.
			return nil, &errs.SyntaxError{
				Description: "prefix (#) required if multiple bases are specified",
				Expr:        format, Offset: i + 1,
			}
		}
		*chosen = true
	}
	if ip.prefix && !add2 && !add8 && !add10 && !add16 {
		// Prefixed with no explicit bases: allow all of them.
		add2, add8, add10, add16 = true, true, true, true
	} else if !add2 && !add8 && !add16 {
		// Not prefixed and no non-decimal base selected: force base 10.
		add10 = true
	}

	// The base alternatives must keep this order, so that base 8 with its
	// bare "0" prefix is tried before base 10 swallows the zero.
	var first *State
	if add10 {
		first = ip.addBase10(first)
	}
	if add8 {
		first = ip.addBaseShift(first, 3, '0', '7', "oO", true)
	}
	if add16 {
		first = ip.addBase16(first)
	}
	if add2 {
		first = ip.addBaseShift(first, 1, '0', '1', "bB", false)
	}

	if signed {
		plus := p.CreateCodepointState('+')
		minus := p.CreateCodepointState('-').SetAlternative(plus)
		signGroup := p.CreateRepetitionGroup(minus, 0, 1)
		ip.signCap = p.CreateCaptureGroup(signGroup)
		ip.signCap.SetNext(first)
		ip.first = ip.signCap
	} else {
		// Unsigned: no sign is accepted at all.
		ip.first = first
	}
	return ip, nil
}

// addBaseShift builds the states of a power-of-two base: digits in
// [digitFirst, digitLast], an optional prefix "0" + one of prefixRunes.
// When optionalPrefixLetter is set the letter may be omitted, the base 8
// "0[Oo]?" quirk.
func (ip *IntParser) addBaseShift(
	alt *State, shift uint, digitFirst, digitLast rune, prefixRunes string,
	optionalPrefixLetter bool,
) *State {
	p := ip.parser
	digit := p.CreateCodepointRangeState(digitFirst, digitLast)
	digitsRep := p.CreateRepetitionGroup(digit, 1, 0)
	digitsCap := p.CreateCaptureGroup(digitsRep)
	base := intBase{digitsCap: digitsCap, shift: shift}
	if ip.prefix {
		letters := wordAlternatives(p, prefixRunes)
		var after *State = letters
		if optionalPrefixLetter {
			after = p.CreateRepetitionGroup(letters, 0, 1)
		}
		zero := p.CreateCodepointState('0')
		zero.SetNext(after)
		base.prefixCap = p.CreateCaptureGroup(zero)
		base.prefixCap.SetNext(digitsCap)
		ip.bases = append(ip.bases, base)
		return base.prefixCap.SetAlternative(alt)
	}
	ip.bases = append(ip.bases, base)
	return digitsCap.SetAlternative(alt)
}

func (ip *IntParser) addBase16(alt *State) *State {
	p := ip.parser
	upper := p.CreateCodepointRangeState('A', 'F')
	lower := p.CreateCodepointRangeState('a', 'f').SetAlternative(upper)
	num := p.CreateCodepointRangeState('0', '9').SetAlternative(lower)
	digitsRep := p.CreateRepetitionGroup(num, 1, 0)
	digitsCap := p.CreateCaptureGroup(digitsRep)
	base := intBase{digitsCap: digitsCap, shift: 4}
	if ip.prefix {
		letters := wordAlternatives(p, "xX")
		zero := p.CreateCodepointState('0')
		zero.SetNext(letters)
		base.prefixCap = p.CreateCaptureGroup(zero)
		base.prefixCap.SetNext(digitsCap)
		ip.bases = append(ip.bases, base)
		return base.prefixCap.SetAlternative(alt)
	}
	ip.bases = append(ip.bases, base)
	return digitsCap.SetAlternative(alt)
}

func (ip *IntParser) addBase10(alt *State) *State {
	p := ip.parser
	digit := p.CreateCodepointRangeState('0', '9')
	digitsRep := p.CreateRepetitionGroup(digit, 1, 0)
	digitsCap := p.CreateCaptureGroup(digitsRep)
	base := intBase{digitsCap: digitsCap}
	if ip.prefix {
		// Base 10 has no prefix, but gets an empty capture group so that
		// capture numbering stays aligned with the other bases.
		base.prefixCap = p.CreateCaptureGroup(nil)
		base.prefixCap.SetNext(digitsCap)
		ip.bases = append(ip.bases, base)
		return base.prefixCap.SetAlternative(alt)
	}
	ip.bases = append(ip.bases, base)
	return digitsCap.SetAlternative(alt)
}

func wordAlternatives(p *Parser, runes string) *State {
	var first *State
	for _, cp := range runes {
		first = p.CreateCodepointState(cp).SetAlternative(first)
	}
	return first
}

// ParseUint converts input to an unsigned integer.
func (ip *IntParser) ParseUint(input []byte) (uint64, error) {
	match := ip.parser.MatchFull(ip.first, input)
	if match == nil {
		return 0, matchError(string(input))
	}
	v, _, err := ip.convert(match)
	return v, err
}

// ParseInt converts input to a signed integer.
func (ip *IntParser) ParseInt(input []byte) (int64, error) {
	match := ip.parser.MatchFull(ip.first, input)
	if match == nil {
		return 0, matchError(string(input))
	}
	v, negative, err := ip.convert(match)
	if err != nil {
		return 0, err
	}
	if negative {
		return -int64(v), nil
	}
	return int64(v), nil
}

func (ip *IntParser) convert(match *Match) (uint64, bool, error) {
	negative := false
	if ip.signed {
		if sign, ok := match.Text(ip.signCap); ok && sign == "-" {
			negative = true
		}
	}
	for _, base := range ip.bases {
		digits, ok := match.Text(base.digitsCap)
		if !ok {
			continue
		}
		var v uint64
		for _, cp := range digits {
			var d uint64
			switch {
			case cp >= '0' && cp <= '9':
				d = uint64(cp - '0')
			case cp >= 'a' && cp <= 'f':
				d = uint64(cp-'a') + 10
			case cp >= 'A' && cp <= 'F':
				d = uint64(cp-'A') + 10
			}
			if base.shift != 0 {
				v = v<<base.shift | d
			} else {
				v = v*10 + d
			}
		}
		return v, negative, nil
	}
	return 0, false, &errs.SyntaxError{Description: "no base matched", Offset: 1}
}

// StrParser parses a string field: with an empty format it accepts
// anything; a non-empty format is compiled as an expression the field must
// match.
type StrParser struct {
	parser *Parser
	first  *State
	cap    *State
}

// NewStrParser compiles the string parser graph for format.
func NewStrParser(p *Parser, format string) (*StrParser, error) {
	sp := &StrParser{parser: p}
	var inner *State
	if format == "" {
		inner = p.CreateRepetitionGroup(p.CreateCodepointRangeState(0, utf.MaxCP), 0, 0)
	} else {
		regex := NewRegex(p, format)
		first, err := regex.Parse()
		if err != nil {
			return nil, err
		}
		inner = first
	}
	sp.cap = p.CreateCaptureGroup(inner)
	sp.first = sp.cap
	return sp, nil
}

// Parse converts input.
func (sp *StrParser) Parse(input []byte) (string, error) {
	match := sp.parser.MatchFull(sp.first, input)
	if match == nil {
		return "", matchError(string(input))
	}
	text, _ := match.Text(sp.cap)
	return text, nil
}

// SequenceParser parses a delimited sequence of string elements, each
// matching an element format: start delimiter, elements separated by the
// separator, end delimiter.
type SequenceParser struct {
	parser *Parser
	first  *State
	eltCap *State

	// Separator and delimiters, "{", ", ", "}" by default.
	Separator  string
	StartDelim string
	EndDelim   string
}

// NewSequenceParser compiles the sequence parser graph; eltFormat
// constrains each element, empty to accept any run of codepoints free of
// the separator head and the end delimiter.
func NewSequenceParser(p *Parser, eltFormat string) (*SequenceParser, error) {
	sq := &SequenceParser{
		parser: p, Separator: ", ", StartDelim: "{", EndDelim: "}",
	}
	var elt *State
	if eltFormat == "" {
		lo := []rune(sq.Separator)[0]
		hi := []rune(sq.EndDelim)[0]
		if lo > hi {
			lo, hi = hi, lo
		}
		head := p.CreateCodepointRangeState(0, lo-1)
		mid := p.CreateCodepointRangeState(lo+1, hi-1)
		tail := p.CreateCodepointRangeState(hi+1, utf.MaxCP)
		head.SetAlternative(mid.SetAlternative(tail))
		elt = p.CreateRepetitionGroup(head, 1, 0)
	} else {
		first, err := NewRegex(p, eltFormat).Parse()
		if err != nil {
			return nil, err
		}
		elt = first
	}
	sq.eltCap = p.CreateCaptureGroup(elt)

	// start elt? (sep elt)* end — an empty sequence has no elements.
	sep, err := NewRegex(p, escapeLiteral(sq.Separator)).Parse()
	if err != nil {
		return nil, err
	}
	lastInChain(sep).SetNext(sq.eltCap)
	moreElts := p.CreateRepetitionGroup(sep, 0, 0)
	start, err := NewRegex(p, escapeLiteral(sq.StartDelim)).Parse()
	if err != nil {
		return nil, err
	}
	end, err := NewRegex(p, escapeLiteral(sq.EndDelim)).Parse()
	if err != nil {
		return nil, err
	}
	firstElt := p.CreateRepetitionGroup(sq.eltCap, 0, 1)
	lastInChain(start).SetNext(firstElt)
	firstElt.SetNext(moreElts)
	moreElts.SetNext(end)
	sq.first = start
	return sq, nil
}

func lastInChain(s *State) *State {
	for s.next != nil {
		s = s.next
	}
	return s
}

func escapeLiteral(s string) string {
	var out []rune
	for _, cp := range s {
		switch cp {
		case '.', '[', ']', '(', ')', '*', '+', '?', '{', '}', '|', '^', '$', '\\', '-':
			out = append(out, '\\')
		}
		out = append(out, cp)
	}
	return string(out)
}

// Parse converts input to its elements.
func (sq *SequenceParser) Parse(input []byte) ([]string, error) {
	match := sq.parser.MatchFull(sq.first, input)
	if match == nil {
		return nil, matchError(string(input))
	}
	return match.Texts(sq.eltCap), nil
}
