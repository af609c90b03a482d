// Copyright (c) 2026 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package utf implements codepoint traits for UTF-8, UTF-16 and UTF-32:
// sequence lengths, validation, decoding, encoding and code-unit searches.
// The host encoding, used internally by ustr, is UTF-8.
//
// Invalid input bytes can round-trip through decoding: a byte that is not
// part of a valid sequence decodes to an escape codepoint in
// [U+DC80, U+DCFF], and encoding such a codepoint restores the original
// byte.  IsValidCP accepts that range; the sequence validators
// (UTF8ValidSeq, UTF16ValidSeq, Valid) reject every surrogate, and an
// escaped input byte is not a valid UTF-8 sequence.
package utf

// MaxCP is the highest valid codepoint.
const MaxCP rune = 0x10ffff

// Escape range for round-tripping invalid input bytes.
const (
	escapeFirst rune = 0xdc80
	escapeLast  rune = 0xdcff
)

const (
	surrogateFirst rune = 0xd800
	surrogateLast  rune = 0xdfff
)

// UTF8MaxLen is the longest UTF-8 sequence in code units.
const UTF8MaxLen = 4

// utf8SeqLens maps the top five bits of a lead byte to the sequence length;
// 0 marks an invalid lead (continuation bytes and the unused 0xf8-0xff
// range).
var utf8SeqLens = [32]uint8{
	// 0xxxx
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	// 10xxx: continuation bytes.
	0, 0, 0, 0, 0, 0, 0, 0,
	// 110xx
	2, 2, 2, 2,
	// 1110x
	3, 3,
	// 11110
	4,
	// 11111
	0,
}

// utf8OverlongMasks is indexed by sequence length; a sequence whose lead
// byte carries no codepoint bits is overlong unless the first continuation
// byte has one of these bits set.
var utf8OverlongMasks = [5]uint8{0, 0, 0, 0x20, 0x30}

// utf8LeadBits is indexed by sequence length: how many codepoint bits the
// lead byte carries.
var utf8LeadBits = [5]uint8{0, 7, 5, 4, 3}

// UTF8SeqLen returns the length in bytes of the sequence started by lead,
// or 0 if lead cannot start one.
func UTF8SeqLen(lead byte) int {
	return int(utf8SeqLens[lead>>3])
}

// UTF8CPLen returns the number of bytes needed to encode cp, or 0 if cp is
// not encodable.
func UTF8CPLen(cp rune) int {
	switch {
	case cp >= escapeFirst && cp <= escapeLast:
		return 1
	case cp < 0:
		return 0
	case cp < 0x80:
		return 1
	case cp < 0x800:
		return 2
	case cp >= surrogateFirst && cp <= surrogateLast:
		return 0
	case cp < 0x10000:
		return 3
	case cp <= MaxCP:
		return 4
	}
	return 0
}

// utf8DecodeRaw decodes exactly one sequence at the start of b, applying
// every validity rule: continuation bytes, overlong encodings, surrogates,
// the U+10FFFF ceiling.
func utf8DecodeRaw(b []byte) (rune, int, bool) {
	if len(b) == 0 {
		return 0, 0, false
	}
	lead := b[0]
	n := UTF8SeqLen(lead)
	if n == 0 || n > len(b) {
		return 0, 0, false
	}
	if n == 1 {
		return rune(lead), 1, true
	}
	cp := rune(lead & (0x7f >> (7 - utf8LeadBits[n])))
	for _, c := range b[1:n] {
		if c&0xc0 != 0x80 {
			return 0, 0, false
		}
		cp = cp<<6 | rune(c&0x3f)
	}
	// Overlong: the lead byte carries no codepoint bits and the first
	// continuation byte adds none above the next shorter form.
	if cp == 0 && n > 1 {
		return 0, 0, false
	}
	if b[0]&(0x7f>>(7-utf8LeadBits[n])) == 0 && b[1]&utf8OverlongMasks[n] == 0 {
		return 0, 0, false
	}
	if n == 2 && cp < 0x80 {
		return 0, 0, false
	}
	if cp >= surrogateFirst && cp <= surrogateLast {
		return 0, 0, false
	}
	if cp > MaxCP {
		return 0, 0, false
	}
	return cp, n, true
}

// UTF8ValidSeq reports whether b is exactly one valid sequence: correct
// continuation bytes, no overlong encoding, no surrogate, nothing past
// U+10FFFF.
func UTF8ValidSeq(b []byte) bool {
	_, n, ok := utf8DecodeRaw(b)
	return ok && n == len(b)
}

// UTF8Decode decodes the first codepoint of b, returning it and the number
// of bytes consumed.  Invalid input consumes one byte and yields its escape
// codepoint, so that encoding the result restores the byte.
func UTF8Decode(b []byte) (rune, int) {
	if len(b) == 0 {
		return 0, 0
	}
	if cp, n, ok := utf8DecodeRaw(b); ok {
		return cp, n
	}
	return escapeFirst&^0xff | rune(b[0]), 1
}

// UTF8Encode writes cp at the start of dst, returning the number of bytes
// written, or 0 if cp is not encodable or dst is too short.  Escape
// codepoints restore their original byte.
func UTF8Encode(cp rune, dst []byte) int {
	n := UTF8CPLen(cp)
	if n == 0 || n > len(dst) {
		return 0
	}
	if cp >= escapeFirst && cp <= escapeLast {
		dst[0] = byte(cp)
		return 1
	}
	switch n {
	case 1:
		dst[0] = byte(cp)
	case 2:
		dst[0] = 0xc0 | byte(cp>>6)
		dst[1] = 0x80 | byte(cp)&0x3f
	case 3:
		dst[0] = 0xe0 | byte(cp>>12)
		dst[1] = 0x80 | byte(cp>>6)&0x3f
		dst[2] = 0x80 | byte(cp)&0x3f
	case 4:
		dst[0] = 0xf0 | byte(cp>>18)
		dst[1] = 0x80 | byte(cp>>12)&0x3f
		dst[2] = 0x80 | byte(cp>>6)&0x3f
		dst[3] = 0x80 | byte(cp)&0x3f
	}
	return n
}

// UTF8AppendRune appends the encoding of cp to dst.
func UTF8AppendRune(dst []byte, cp rune) []byte {
	var buf [UTF8MaxLen]byte
	n := UTF8Encode(cp, buf[:])
	return append(dst, buf[:n]...)
}

// Valid reports whether b consists entirely of valid sequences.  A byte that
// UTF8Decode would turn into an escape codepoint makes b invalid.
func Valid(b []byte) bool {
	for i := 0; i < len(b); {
		n := UTF8SeqLen(b[i])
		if n == 0 || i+n > len(b) || !UTF8ValidSeq(b[i:i+n]) {
			return false
		}
		i += n
	}
	return true
}

// RuneCount returns the number of codepoints in b.  Invalid bytes count one
// codepoint each.
func RuneCount(b []byte) int {
	count := 0
	for i := 0; i < len(b); count++ {
		_, n := UTF8Decode(b[i:])
		i += n
	}
	return count
}

// IndexRune returns the byte index of the first occurrence of cp in b, or
// -1.
func IndexRune(b []byte, cp rune) int {
	for i := 0; i < len(b); {
		got, n := UTF8Decode(b[i:])
		if got == cp {
			return i
		}
		i += n
	}
	return -1
}

// LastIndexRune returns the byte index of the last occurrence of cp in b,
// or -1.
func LastIndexRune(b []byte, cp rune) int {
	last := -1
	for i := 0; i < len(b); {
		got, n := UTF8Decode(b[i:])
		if got == cp {
			last = i
		}
		i += n
	}
	return last
}

// Index returns the byte index of the first occurrence of needle in b, or
// -1.  Matches are aligned to sequence boundaries of b.
func Index(b, needle []byte) int {
	if len(needle) == 0 {
		return 0
	}
	for i := 0; i+len(needle) <= len(b); {
		if b[i] == needle[0] && equalBytes(b[i:i+len(needle)], needle) {
			return i
		}
		_, n := UTF8Decode(b[i:])
		i += n
	}
	return -1
}

// LastIndex returns the byte index of the last occurrence of needle in b,
// or -1.
func LastIndex(b, needle []byte) int {
	if len(needle) == 0 {
		return len(b)
	}
	last := -1
	for i := 0; i+len(needle) <= len(b); {
		if b[i] == needle[0] && equalBytes(b[i:i+len(needle)], needle) {
			last = i
		}
		_, n := UTF8Decode(b[i:])
		i += n
	}
	return last
}

// Compare orders two buffers by code unit, the collation the original
// strings use.
func Compare(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

func equalBytes(a, b []byte) bool {
	for i := range b {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
