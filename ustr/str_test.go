// Copyright (c) 2026 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package ustr

import (
	"bytes"
	"testing"

	"github.com/aristanetworks/lofty/utf"
)

const (
	cp0 = '€'          // 3 UTF-8 bytes
	cp2 = '\U00024b62' // 4 UTF-8 bytes
)

func TestEncodePerEncoding(t *testing.T) {
	s := Empty()
	for _, cp := range []rune{0x24, 0xa2, 0x20ac, 0x24b62} {
		s.AppendRune(cp)
	}
	tests := []struct {
		enc  utf.Encoding
		want []byte
	}{{
		enc:  utf.EncodingUTF8,
		want: []byte{0x24, 0xc2, 0xa2, 0xe2, 0x82, 0xac, 0xf0, 0xa4, 0xad, 0xa2},
	}, {
		enc:  utf.EncodingUTF16BE,
		want: []byte{0x00, 0x24, 0x00, 0xa2, 0x20, 0xac, 0xd8, 0x52, 0xdf, 0x62},
	}, {
		enc: utf.EncodingUTF32LE,
		want: []byte{
			0x24, 0x00, 0x00, 0x00, 0xa2, 0x00, 0x00, 0x00,
			0xac, 0x20, 0x00, 0x00, 0x62, 0x4b, 0x02, 0x00,
		},
	}}
	for _, tcase := range tests {
		got, err := s.Encode(tcase.enc, false)
		if err != nil {
			t.Fatalf("%s: %v", tcase.enc, err)
		}
		if !bytes.Equal(got, tcase.want) {
			t.Errorf("%s: got % x, but expected % x", tcase.enc, got, tcase.want)
		}
	}
	// addNul appends one zero code unit of the target encoding.
	got, err := s.Encode(utf.EncodingUTF16BE, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 12 || got[10] != 0 || got[11] != 0 {
		t.Errorf("encode with NUL produced % x", got)
	}
}

// mixed returns "a" cp0 "a" cp2 "aa" cp2 cp0 "a".
func mixed() *Str {
	s := Empty()
	for _, cp := range []rune{'a', cp0, 'a', cp2, 'a', 'a', cp2, cp0, 'a'} {
		s.AppendRune(cp)
	}
	return s
}

func cpIndexOf(t *testing.T, it Iter) int {
	t.Helper()
	i, err := it.CPIndex()
	if err != nil {
		t.Fatal(err)
	}
	return i
}

func TestFindOnMixedWidthString(t *testing.T) {
	s := mixed()
	if got := cpIndexOf(t, s.Find(cp0)); got != 1 {
		t.Errorf("Find(U+20AC) at codepoint %d, but expected 1", got)
	}
	sub := Empty().AppendRune('a').AppendRune(cp2)
	if got := cpIndexOf(t, s.FindSub(sub)); got != 2 {
		t.Errorf("Find(a+cp2) at codepoint %d, but expected 2", got)
	}
	sub = Empty().AppendRune('a').AppendRune(cp2).AppendRune(cp0).AppendRune('a')
	if got := cpIndexOf(t, s.FindSub(sub)); got != 5 {
		t.Errorf("Find(a+cp2+cp0+a) at codepoint %d, but expected 5", got)
	}
	sub = Empty()
	for _, cp := range []rune{'a', cp2, 'a', 'a', cp2, cp0} {
		sub.AppendRune(cp)
	}
	if got := cpIndexOf(t, s.FindSub(sub)); got != 2 {
		t.Errorf("Find(a+cp2+a+a+cp2+cp0) at codepoint %d, but expected 2", got)
	}
	if !s.FindSub(Literal("zz")).AtEnd() {
		t.Error("Find of absent substring did not return the end iterator")
	}
	if got := cpIndexOf(t, s.FindLast(cp0)); got != 7 {
		t.Errorf("FindLast(U+20AC) at codepoint %d, but expected 7", got)
	}
}

func TestReplaceAcrossWidths(t *testing.T) {
	s := FromString("aaaaa")
	original := len(s.Bytes())
	s.ReplaceAll('a', cp2)
	if s.RuneLen() != 5 {
		t.Errorf("codepoint count is %d after replace, but expected 5", s.RuneLen())
	}
	if len(s.Bytes()) <= original {
		t.Errorf("byte length is %d, but expected more than %d", len(s.Bytes()), original)
	}
	for it := s.Begin(); !it.AtEnd(); {
		cp, err := it.Rune()
		if err != nil {
			t.Fatal(err)
		}
		if cp != cp2 {
			t.Errorf("found %#x, but expected %#x", cp, cp2)
		}
		if it, err = it.Next(); err != nil {
			t.Fatal(err)
		}
	}
	s.ReplaceAll(cp2, 'a')
	if s.String() != "aaaaa" {
		t.Errorf("replacing back produced %q, but expected %q", s.String(), "aaaaa")
	}
}

func TestStartsEndsWithMixedWidth(t *testing.T) {
	s := mixed()
	tests := []struct {
		prefix []rune
		starts bool
		suffix []rune
		ends   bool
	}{
		{[]rune{'a', cp0}, true, []rune{cp0, 'a'}, true},
		{[]rune{'a', cp2}, false, []rune{cp2, 'a'}, false},
		{[]rune{'a'}, true, []rune{'a'}, true},
	}
	for _, tcase := range tests {
		prefix := Empty()
		for _, cp := range tcase.prefix {
			prefix.AppendRune(cp)
		}
		suffix := Empty()
		for _, cp := range tcase.suffix {
			suffix.AppendRune(cp)
		}
		if got := s.StartsWith(prefix); got != tcase.starts {
			t.Errorf("StartsWith(%q) is %t, but expected %t", prefix.String(), got, tcase.starts)
		}
		if got := s.EndsWith(suffix); got != tcase.ends {
			t.Errorf("EndsWith(%q) is %t, but expected %t", suffix.String(), got, tcase.ends)
		}
	}
}

func TestCStrContract(t *testing.T) {
	// Empty strings, empty literal views included, borrow the shared static
	// NUL.
	empty := Empty()
	cs := empty.CStr()
	if cs.Owned() {
		t.Error("CStr of empty string is owned, but expected borrowed")
	}
	if cs.Ptr() != &nulByte[0] {
		t.Error("CStr of empty string did not borrow the static NUL")
	}
	if cs2 := Literal("").CStr(); cs2.Ptr() != &nulByte[0] {
		t.Error("CStr of empty literal did not borrow the static NUL")
	}

	// An owned string missing the terminator gains one in place and lends
	// an internal pointer.
	owned := FromString("abc")
	cs = owned.CStr()
	if cs.Owned() {
		t.Error("CStr of owned string is owned, but expected borrowed")
	}
	if !owned.nulTerm {
		t.Error("owned string not marked NUL-terminated after CStr")
	}
	if cs.Ptr() != &owned.data[0] {
		t.Error("CStr of owned string did not lend the internal buffer")
	}
	if got := cs.Bytes(); string(got) != "abc" {
		t.Errorf("CStr content is %q, but expected %q", got, "abc")
	}
	// A second call reuses the terminator without work.
	if cs2 := owned.CStr(); cs2.Ptr() != cs.Ptr() {
		t.Error("second CStr did not reuse the terminated buffer")
	}

	// An immutable view that needs a terminator gets an owning copy.
	view := Literal("xyz")
	cs = view.CStr()
	if !cs.Owned() {
		t.Error("CStr of literal view is borrowed, but expected owned")
	}
	if string(cs.Bytes()) != "xyz" {
		t.Errorf("CStr content is %q, but expected %q", cs.Bytes(), "xyz")
	}
	if view.owned {
		t.Error("CStr mutated a literal view")
	}
}

func TestMoveStealsDynamicBuffer(t *testing.T) {
	s1 := FromString("some text long enough to live on the heap")
	s1.ReplaceAt(0, 'b')
	before := &s1.data[0]
	s2 := Move(s1)
	s2.AppendString("c")
	if &s2.data[0] != before {
		t.Error("move copied the buffer, but expected it stolen")
	}
	if !s1.IsEmpty() {
		t.Errorf("source holds %q after move, but expected empty", s1.String())
	}
	if got := s2.String(); got[0] != 'b' || got[len(got)-1] != 'c' {
		t.Errorf("moved string is %q", got)
	}
}

func TestSmallBufferAvoidsHeap(t *testing.T) {
	s := NewSmall()
	s.AppendString("short")
	if s.dynamic {
		t.Error("small content spilled to the heap")
	}
	if s.String() != "short" {
		t.Errorf("content is %q", s.String())
	}
	// Exceeding the embedded capacity spills transparently.
	s.AppendString(" and then some much longer content follows")
	if !s.dynamic {
		t.Error("large content did not spill to the heap")
	}
	if !bytes.HasPrefix(s.Bytes(), []byte("short and then")) {
		t.Errorf("content is %q", s.String())
	}
}

func TestViewCloneOnWrite(t *testing.T) {
	lit := Literal("immutable")
	s := Move(lit)
	s.AppendString("!")
	if s.String() != "immutable!" {
		t.Errorf("content is %q", s.String())
	}
	// The literal's backing bytes are untouched; the mutation cloned.
	if Literal("immutable").String() != "immutable" {
		t.Error("literal backing modified")
	}
}

func TestPrependInsertRemove(t *testing.T) {
	s := FromString("world")
	s.Prepend(Literal("hello "))
	if s.String() != "hello world" {
		t.Errorf("content is %q", s.String())
	}
	s.PrependRune(cp0)
	if got, _ := s.Begin().Rune(); got != cp0 {
		t.Errorf("first codepoint is %#x, but expected %#x", got, cp0)
	}
	if err := s.RemoveAt(0); err != nil {
		t.Fatal(err)
	}
	if s.String() != "hello world" {
		t.Errorf("content is %q after RemoveAt", s.String())
	}
	if err := s.Insert(5, Literal(",")); err != nil {
		t.Fatal(err)
	}
	if s.String() != "hello, world" {
		t.Errorf("content is %q after Insert", s.String())
	}
	if err := s.Insert(100, Literal("x")); err == nil {
		t.Error("Insert out of range did not fail")
	}
}

func TestSetFrom(t *testing.T) {
	content := bytes.Repeat([]byte("0123456789"), 20)
	s := Empty()
	calls := 0
	s.SetFrom(func(dst []byte) int {
		calls++
		if len(dst) < len(content) {
			// Not enough room: ask for a doubling by filling the buffer.
			return len(dst)
		}
		return copy(dst, content)
	})
	if !bytes.Equal(s.Bytes(), content) {
		t.Errorf("content length is %d, but expected %d", s.Len(), len(content))
	}
	if calls < 2 {
		t.Errorf("callback ran %d times, but expected at least 2 (one undersized)", calls)
	}
}

func TestSubstr(t *testing.T) {
	s := mixed()
	begin := s.Find(cp2)
	end := s.FindLast(cp0)
	sub, err := s.Substr(begin, end)
	if err != nil {
		t.Fatal(err)
	}
	want := Empty()
	for _, cp := range []rune{cp2, 'a', 'a', cp2} {
		want.AppendRune(cp)
	}
	if !sub.Equal(want) {
		t.Errorf("substring is %q, but expected %q", sub.String(), want.String())
	}
	// On a literal view the substring is a view into the same bytes.
	lit := Literal("hello world")
	b, _ := lit.IterAt(6)
	sub, err = lit.Substr(b, lit.End())
	if err != nil {
		t.Fatal(err)
	}
	if sub.owned {
		t.Error("substring of a view is owned, but expected a view")
	}
	if &sub.data[0] != &lit.data[6] {
		t.Error("substring of a view copied the bytes")
	}
}

func TestIterInvalidatedByReallocation(t *testing.T) {
	s := FromString("ab")
	it := s.Begin()
	if _, err := it.Rune(); err != nil {
		t.Fatal(err)
	}
	// Append enough to force a reallocation.
	s.AppendString("0123456789012345678901234567890123456789")
	if _, err := it.Rune(); err == nil {
		t.Error("iterator survived a reallocation")
	}
	if _, err := it.Next(); err == nil {
		t.Error("Next on invalidated iterator did not fail")
	}
}

func TestIterAdvanceDistance(t *testing.T) {
	s := mixed()
	it, err := s.Begin().Advance(3)
	if err != nil {
		t.Fatal(err)
	}
	if cp, _ := it.Rune(); cp != cp2 {
		t.Errorf("codepoint at 3 is %#x, but expected %#x", cp, cp2)
	}
	back, err := it.Advance(-2)
	if err != nil {
		t.Fatal(err)
	}
	if cp, _ := back.Rune(); cp != cp0 {
		t.Errorf("codepoint at 1 is %#x, but expected %#x", cp, cp0)
	}
	d, err := back.Distance(it)
	if err != nil {
		t.Fatal(err)
	}
	if d != 2 {
		t.Errorf("distance is %d, but expected 2", d)
	}
	d, err = it.Distance(back)
	if err != nil {
		t.Fatal(err)
	}
	if d != -2 {
		t.Errorf("reverse distance is %d, but expected -2", d)
	}
}

func TestRuneLen(t *testing.T) {
	if got := mixed().RuneLen(); got != 9 {
		t.Errorf("RuneLen is %d, but expected 9", got)
	}
	if got := Empty().RuneLen(); got != 0 {
		t.Errorf("RuneLen of empty is %d, but expected 0", got)
	}
}

func TestConcatAndTakeBytes(t *testing.T) {
	a := Literal("left-")
	b := Literal("right")
	c := Concat(a, b)
	if c.String() != "left-right" {
		t.Errorf("concat is %q", c.String())
	}
	if a.String() != "left-" || b.String() != "right" {
		t.Error("concat modified its arguments")
	}

	buf := []byte("stolen")
	s := TakeBytes(buf)
	if &s.data[0] != &buf[0] {
		t.Error("TakeBytes copied the buffer")
	}
	s.AppendRune(cp0)
	if s.String() != "stolen€" {
		t.Errorf("content is %q", s.String())
	}

	// CStrConst never mutates the receiver.
	owned := FromString("abc")
	cs := owned.CStrConst()
	if !cs.Owned() || owned.nulTerm {
		t.Error("CStrConst borrowed or mutated the receiver")
	}
	if string(cs.Bytes()) != "abc" {
		t.Errorf("CStrConst content is %q", cs.Bytes())
	}
}
