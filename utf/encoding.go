// Copyright (c) 2026 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package utf

import (
	"github.com/aristanetworks/lofty/errs"
)

// Encoding tags a byte-level Unicode encoding.
type Encoding int

const (
	// EncodingUnknown is returned by GuessEncoding on undetectable input.
	EncodingUnknown Encoding = iota
	// EncodingUTF8 is the host encoding.
	EncodingUTF8
	EncodingUTF16LE
	EncodingUTF16BE
	EncodingUTF32LE
	EncodingUTF32BE
)

// Host is the encoding ustr buffers use internally.
const Host = EncodingUTF8

// String returns the conventional name of e.
func (e Encoding) String() string {
	switch e {
	case EncodingUTF8:
		return "UTF-8"
	case EncodingUTF16LE:
		return "UTF-16LE"
	case EncodingUTF16BE:
		return "UTF-16BE"
	case EncodingUTF32LE:
		return "UTF-32LE"
	case EncodingUTF32BE:
		return "UTF-32BE"
	}
	return "unknown"
}

// CodeUnitSize returns the size in bytes of one code unit of e.
func (e Encoding) CodeUnitSize() int {
	switch e {
	case EncodingUTF16LE, EncodingUTF16BE:
		return 2
	case EncodingUTF32LE, EncodingUTF32BE:
		return 4
	}
	return 1
}

// BOM returns the byte-order mark of e.
func (e Encoding) BOM() []byte {
	switch e {
	case EncodingUTF8:
		return []byte{0xef, 0xbb, 0xbf}
	case EncodingUTF16LE:
		return []byte{0xff, 0xfe}
	case EncodingUTF16BE:
		return []byte{0xfe, 0xff}
	case EncodingUTF32LE:
		return []byte{0xff, 0xfe, 0x00, 0x00}
	case EncodingUTF32BE:
		return []byte{0x00, 0x00, 0xfe, 0xff}
	}
	return nil
}

// GuessEncoding inspects the head of b for a byte-order mark.  The UTF-32LE
// mark is tried before UTF-16LE, whose mark it contains as a prefix.
func GuessEncoding(b []byte) Encoding {
	for _, e := range []Encoding{
		EncodingUTF32LE, EncodingUTF32BE, EncodingUTF16LE, EncodingUTF16BE, EncodingUTF8,
	} {
		bom := e.BOM()
		if len(b) >= len(bom) && equalBytes(b[:len(bom)], bom) {
			return e
		}
	}
	if Valid(b) {
		return EncodingUTF8
	}
	return EncodingUnknown
}

// AppendRune appends the encoding of cp in e to dst.
func AppendRune(dst []byte, e Encoding, cp rune) []byte {
	switch e {
	case EncodingUTF8:
		return UTF8AppendRune(dst, cp)
	case EncodingUTF16LE, EncodingUTF16BE:
		var units [UTF16MaxLen]uint16
		n := UTF16Encode(cp, units[:])
		for _, u := range units[:n] {
			if e == EncodingUTF16BE {
				dst = append(dst, byte(u>>8), byte(u))
			} else {
				dst = append(dst, byte(u), byte(u>>8))
			}
		}
		return dst
	case EncodingUTF32LE:
		return append(dst, byte(cp), byte(cp>>8), byte(cp>>16), byte(cp>>24))
	case EncodingUTF32BE:
		return append(dst, byte(cp>>24), byte(cp>>16), byte(cp>>8), byte(cp))
	}
	return dst
}

// DecodeRune decodes the first codepoint of b in encoding e, returning the
// codepoint and the number of bytes consumed.  Under strict mode invalid
// input fails with errs.ErrEncoding instead of escaping.
func DecodeRune(b []byte, e Encoding, strict bool) (rune, int, error) {
	switch e {
	case EncodingUTF8:
		if strict {
			if _, _, ok := utf8DecodeRaw(b); !ok {
				return 0, 0, &errs.EncodingError{Encoding: e.String()}
			}
		}
		cp, n := UTF8Decode(b)
		return cp, n, nil
	case EncodingUTF16LE, EncodingUTF16BE:
		if len(b) < 2 {
			return 0, 0, &errs.EncodingError{Encoding: e.String()}
		}
		units := make([]uint16, 0, UTF16MaxLen)
		for i := 0; i+1 < len(b) && len(units) < UTF16MaxLen; i += 2 {
			if e == EncodingUTF16BE {
				units = append(units, uint16(b[i])<<8|uint16(b[i+1]))
			} else {
				units = append(units, uint16(b[i])|uint16(b[i+1])<<8)
			}
		}
		cp, n := UTF16Decode(units)
		if strict && !UTF16ValidSeq(units[:n]) {
			return 0, 0, &errs.EncodingError{Encoding: e.String()}
		}
		return cp, n * 2, nil
	case EncodingUTF32LE, EncodingUTF32BE:
		if len(b) < 4 {
			return 0, 0, &errs.EncodingError{Encoding: e.String()}
		}
		var cp rune
		if e == EncodingUTF32BE {
			cp = rune(b[0])<<24 | rune(b[1])<<16 | rune(b[2])<<8 | rune(b[3])
		} else {
			cp = rune(b[0]) | rune(b[1])<<8 | rune(b[2])<<16 | rune(b[3])<<24
		}
		if strict && !IsValidCP(cp) {
			return 0, 0, &errs.EncodingError{Encoding: e.String()}
		}
		return cp, 4, nil
	}
	return 0, 0, &errs.EncodingError{Encoding: e.String()}
}
