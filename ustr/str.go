// Copyright (c) 2026 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package ustr implements a Unicode string over UTF-8 code units with three
// storage modes: a non-owning view of external bytes (typically a literal),
// an owned heap buffer, and an owned small buffer embedded in the string
// itself.  Views are read-only; the first mutating operation clones the
// content into an owned buffer.
//
// Indexing is in code units; codepoint access goes through Iter, which
// validates itself against the owner on every use.
package ustr

import (
	"unsafe"

	"github.com/aristanetworks/lofty/errs"
	"github.com/aristanetworks/lofty/utf"
)

const (
	// growthRate multiplies the capacity on reallocation.
	growthRate = 2
	// minCapacity is the smallest owned allocation, in bytes.
	minCapacity = 16
	// smallCapacity is the embedded capacity of strings built with
	// NewSmall.
	smallCapacity = 24
)

// nulByte backs the c-string bridging of every empty, unterminated string;
// one per process.
var nulByte = [1]byte{0}

// Str is a sequence of UTF-8 code units.  The zero value is an empty
// read-only string.  Strs are passed by pointer; copying one whose content
// lives in its embedded buffer would leave the copy aliasing the original.
type Str struct {
	data []byte
	// small is the embedded buffer of strings built with NewSmall; data
	// aliases it while the content fits.
	small [smallCapacity]byte
	// owned is set when data is writable by this Str: embedded or heap,
	// never external.
	owned bool
	// dynamic is set when data is heap-allocated.
	dynamic bool
	// nulTerm is set when the code unit after the content is an allocated
	// zero, making Bytes()[0:Len()+1] a C string.
	nulTerm bool
	// rev is bumped whenever data is reallocated or the Str reassigned, to
	// invalidate iterators.
	rev uint32
}

// Empty returns an empty string view.  Its c-string form borrows the
// process-wide static NUL.
func Empty() *Str {
	return &Str{}
}

// Literal wraps s in a non-owning read-only view without copying.
func Literal(s string) *Str {
	if len(s) == 0 {
		return &Str{}
	}
	return &Str{data: unsafe.Slice(unsafe.StringData(s), len(s))}
}

// FromBytes copies b into an owned string.
func FromBytes(b []byte) *Str {
	s := &Str{}
	s.ensureCapacity(len(b), false)
	s.data = append(s.data, b...)
	return s
}

// FromString copies the content of a native string.
func FromString(str string) *Str {
	return FromBytes([]byte(str))
}

// TakeBytes steals b as the string's owned buffer, without copying.
func TakeBytes(b []byte) *Str {
	return &Str{data: b, owned: true, dynamic: true}
}

// NewSmall returns an empty owned string whose content lives in the string
// itself until it outgrows the embedded capacity.
func NewSmall() *Str {
	s := &Str{owned: true}
	s.data = s.small[:0:smallCapacity]
	return s
}

// Move steals the content of src, leaving it empty.  A dynamic buffer moves
// by pointer; content in an embedded buffer is copied, as it cannot outlive
// its owner.
func Move(src *Str) *Str {
	var dst *Str
	if src.dynamic || !src.owned {
		dst = &Str{
			data: src.data, owned: src.owned, dynamic: src.dynamic, nulTerm: src.nulTerm,
		}
	} else {
		dst = FromBytes(src.data)
	}
	src.data = nil
	src.owned = false
	src.dynamic = false
	src.nulTerm = false
	src.rev++
	return dst
}

// Len returns the size in code units.
func (s *Str) Len() int {
	return len(s.data)
}

// IsEmpty reports whether the string has no content.
func (s *Str) IsEmpty() bool {
	return len(s.data) == 0
}

// RuneLen returns the number of codepoints; it walks the buffer.
func (s *Str) RuneLen() int {
	return utf.RuneCount(s.data)
}

// Bytes returns the content.  Callers must not write through it.
func (s *Str) Bytes() []byte {
	return s.data
}

// String copies the content into a native string.
func (s *Str) String() string {
	return string(s.data)
}

// Equal reports content equality.
func (s *Str) Equal(other *Str) bool {
	return utf.Compare(s.data, other.data) == 0
}

// Compare orders s against other by code unit.
func (s *Str) Compare(other *Str) int {
	return utf.Compare(s.data, other.data)
}

// prepareForWriting clones external content into an owned buffer, so that
// every mutating operation below may assume writability.
func (s *Str) prepareForWriting() {
	if s.owned {
		return
	}
	content := s.data
	s.owned = true
	s.nulTerm = false
	s.data = nil
	s.ensureCapacity(len(content), false)
	s.data = s.data[:copy(s.data[:cap(s.data)], content)]
}

// ensureCapacity reallocates so that at least size code units fit,
// preserving content when asked.  Growth is geometric with a byte floor.
func (s *Str) ensureCapacity(size int, preserve bool) {
	if s.owned && size <= cap(s.data) {
		return
	}
	newCap := cap(s.data) * growthRate
	if newCap < size {
		newCap = size
	}
	if newCap < minCapacity {
		newCap = minCapacity
	}
	// Quantize so that short follow-up appends don't reallocate again.
	newCap = (newCap + minCapacity - 1) / minCapacity * minCapacity
	buf := make([]byte, 0, newCap)
	if preserve {
		buf = append(buf, s.data...)
	}
	s.data = buf
	s.owned = true
	s.dynamic = true
	s.nulTerm = false
	s.rev++
}

// setLen adjusts the content length within the current capacity.
func (s *Str) setLen(n int) {
	s.data = s.data[:n]
}

// Append adds the content of other at the end.
func (s *Str) Append(other *Str) *Str {
	return s.appendBytes(other.data)
}

// AppendString adds the content of a native string at the end.
func (s *Str) AppendString(str string) *Str {
	return s.appendBytes(unsafe.Slice(unsafe.StringData(str), len(str)))
}

// AppendRune adds one codepoint at the end.
func (s *Str) AppendRune(cp rune) *Str {
	var buf [utf.UTF8MaxLen]byte
	n := utf.UTF8Encode(cp, buf[:])
	return s.appendBytes(buf[:n])
}

func (s *Str) appendBytes(b []byte) *Str {
	s.prepareForWriting()
	size := len(s.data) + len(b)
	if size > cap(s.data) {
		s.ensureCapacity(size, true)
	}
	s.nulTerm = false
	s.data = append(s.data, b...)
	return s
}

// Prepend adds the content of other at the beginning.
func (s *Str) Prepend(other *Str) *Str {
	s.insertRemoveBytes(0, other.data, 0)
	return s
}

// PrependRune adds one codepoint at the beginning.
func (s *Str) PrependRune(cp rune) *Str {
	var buf [utf.UTF8MaxLen]byte
	n := utf.UTF8Encode(cp, buf[:])
	s.insertRemoveBytes(0, buf[:n], 0)
	return s
}

// Concat returns a new owned string holding a then b; neither argument is
// modified.
func Concat(a, b *Str) *Str {
	s := FromBytes(a.data)
	return s.Append(b)
}

// insertRemoveBytes replaces removeLen code units at index with insert; the
// buffer shrinks or grows as needed.  This is the single primitive behind
// every size-changing edit.
func (s *Str) insertRemoveBytes(index int, insert []byte, removeLen int) {
	s.prepareForWriting()
	oldLen := len(s.data)
	newLen := oldLen + len(insert) - removeLen
	if newLen > cap(s.data) {
		s.ensureCapacity(newLen, true)
	}
	s.nulTerm = false
	tail := append([]byte(nil), s.data[index+removeLen:]...)
	s.data = s.data[:index]
	s.data = append(s.data, insert...)
	s.data = append(s.data, tail...)
}

// ReplaceAll substitutes every occurrence of the codepoint search with
// replacement.  The buffer size may change, since the two codepoints may
// encode to different widths.
func (s *Str) ReplaceAll(search, replacement rune) *Str {
	s.prepareForWriting()
	var repl [utf.UTF8MaxLen]byte
	replLen := utf.UTF8Encode(replacement, repl[:])
	for i := 0; i < len(s.data); {
		cp, n := utf.UTF8Decode(s.data[i:])
		if cp != search {
			i += n
			continue
		}
		s.insertRemoveBytes(i, repl[:replLen], n)
		i += replLen
	}
	return s
}

// ReplaceAt overwrites the codepoint starting at code-unit index with cp.
func (s *Str) ReplaceAt(index int, cp rune) error {
	if index < 0 || index >= len(s.data) {
		return &errs.RangeError{Index: index, Size: len(s.data)}
	}
	_, removeLen := utf.UTF8Decode(s.data[index:])
	var buf [utf.UTF8MaxLen]byte
	n := utf.UTF8Encode(cp, buf[:])
	if n == 0 {
		return &errs.EncodingError{Encoding: utf.Host.String()}
	}
	s.insertRemoveBytes(index, buf[:n], removeLen)
	return nil
}

// Insert adds the content of other at a code-unit index.
func (s *Str) Insert(index int, other *Str) error {
	if index < 0 || index > len(s.data) {
		return &errs.RangeError{Index: index, Size: len(s.data)}
	}
	s.insertRemoveBytes(index, other.data, 0)
	return nil
}

// RemoveAt removes the codepoint starting at a code-unit index.
func (s *Str) RemoveAt(index int) error {
	if index < 0 || index >= len(s.data) {
		return &errs.RangeError{Index: index, Size: len(s.data)}
	}
	_, n := utf.UTF8Decode(s.data[index:])
	s.insertRemoveBytes(index, nil, n)
	return nil
}

// StartsWith reports whether the content begins with other.
func (s *Str) StartsWith(other *Str) bool {
	if len(other.data) > len(s.data) {
		return false
	}
	return utf.Compare(s.data[:len(other.data)], other.data) == 0
}

// EndsWith reports whether the content ends with other.
func (s *Str) EndsWith(other *Str) bool {
	if len(other.data) > len(s.data) {
		return false
	}
	return utf.Compare(s.data[len(s.data)-len(other.data):], other.data) == 0
}

// SetFrom fills the string through fn, which writes into the passed buffer
// and returns the number of code units produced.  A return equal to the
// buffer size means the buffer was too small: the capacity doubles and fn
// runs again.
func (s *Str) SetFrom(fn func(dst []byte) int) {
	s.prepareForWriting()
	max := minCapacity * growthRate
	for {
		max *= growthRate
		s.ensureCapacity(max, false)
		n := fn(s.data[:max])
		if n < max {
			s.setLen(n)
			return
		}
	}
}

// Encode transcodes the content to enc, appending a terminating NUL in that
// encoding when addNul is set.  For the host encoding the content is copied
// bytewise.
func (s *Str) Encode(enc utf.Encoding, addNul bool) ([]byte, error) {
	var out []byte
	if enc == utf.Host {
		out = append(out, s.data...)
	} else {
		for i := 0; i < len(s.data); {
			cp, n := utf.UTF8Decode(s.data[i:])
			out = utf.AppendRune(out, enc, cp)
			i += n
		}
	}
	if addNul {
		out = append(out, make([]byte, enc.CodeUnitSize())...)
	}
	return out, nil
}

// CStr is the result of c-string bridging: a NUL-terminated byte sequence
// plus ownership of it.  When Owned is set the bytes were allocated for
// this CStr alone; otherwise they borrow the string's buffer or the shared
// static NUL.
type CStr struct {
	bytes []byte
	owned bool
}

// Ptr returns the address of the first byte.
func (c CStr) Ptr() *byte {
	return &c.bytes[0]
}

// Bytes returns the content without the terminating NUL.
func (c CStr) Bytes() []byte {
	return c.bytes[:len(c.bytes)-1]
}

// Owned reports whether the bytes belong to this CStr rather than to the
// originating string.
func (c CStr) Owned() bool {
	return c.owned
}

// CStr returns a NUL-terminated form of the content.  An owned string that
// lacks the terminator is mutated in place to gain one; empty strings
// borrow the shared static NUL.
func (s *Str) CStr() CStr {
	if s.nulTerm {
		return CStr{bytes: s.data[:len(s.data)+1]}
	}
	if len(s.data) == 0 {
		return CStr{bytes: nulByte[:]}
	}
	if s.owned {
		size := len(s.data)
		s.ensureCapacity(size+1, true)
		s.data = s.data[:size+1]
		s.data[size] = 0
		s.data = s.data[:size]
		s.nulTerm = true
		return CStr{bytes: s.data[:size+1]}
	}
	// Immutable view: allocate an owned copy.
	buf := make([]byte, len(s.data)+1)
	copy(buf, s.data)
	return CStr{bytes: buf, owned: true}
}

// CStrConst is CStr without the self-mutating path: an owned unterminated
// string also gets a temporary copy.
func (s *Str) CStrConst() CStr {
	if s.nulTerm {
		return CStr{bytes: s.data[:len(s.data)+1]}
	}
	if len(s.data) == 0 {
		return CStr{bytes: nulByte[:]}
	}
	buf := make([]byte, len(s.data)+1)
	copy(buf, s.data)
	return CStr{bytes: buf, owned: true}
}
