// Copyright (c) 2026 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package ustr

import (
	"github.com/aristanetworks/lofty/errs"
	"github.com/aristanetworks/lofty/utf"
)

// Iter is a codepoint iterator: an owner reference plus a code-unit index.
// It is random-access over codepoints, but each step walks lead and trail
// units, and the distance between two iterators requires a walk.
//
// Reallocation of the owner's buffer, or reassignment of the owner,
// invalidates every outstanding iterator; any use after that fails with
// errs.ErrIteratorInvalidated.
type Iter struct {
	s   *Str
	i   int
	rev uint32
}

// Begin returns an iterator at the first codepoint.
func (s *Str) Begin() Iter {
	return Iter{s: s, rev: s.rev}
}

// End returns an iterator one past the last codepoint.
func (s *Str) End() Iter {
	return Iter{s: s, i: len(s.data), rev: s.rev}
}

// IterAt returns an iterator at a code-unit index, which must fall on a
// sequence boundary in [0, Len()].
func (s *Str) IterAt(index int) (Iter, error) {
	if index < 0 || index > len(s.data) {
		return Iter{}, &errs.RangeError{Index: index, Size: len(s.data)}
	}
	return Iter{s: s, i: index, rev: s.rev}, nil
}

func (it Iter) validate() error {
	if it.s == nil || it.rev != it.s.rev {
		return &errs.IteratorError{Reason: "owner buffer reallocated"}
	}
	return nil
}

// Index returns the code-unit index of the iterator.
func (it Iter) Index() int {
	return it.i
}

// AtEnd reports whether the iterator is one past the last codepoint.
func (it Iter) AtEnd() bool {
	return it.s == nil || it.i >= len(it.s.data)
}

// Rune decodes the codepoint at the iterator.
func (it Iter) Rune() (rune, error) {
	if err := it.validate(); err != nil {
		return 0, err
	}
	if it.i >= len(it.s.data) {
		return 0, &errs.RangeError{Index: it.i, Size: len(it.s.data)}
	}
	cp, _ := utf.UTF8Decode(it.s.data[it.i:])
	return cp, nil
}

// Next returns the iterator advanced by one codepoint.
func (it Iter) Next() (Iter, error) {
	if err := it.validate(); err != nil {
		return Iter{}, err
	}
	if it.i >= len(it.s.data) {
		return Iter{}, &errs.RangeError{Index: it.i, Size: len(it.s.data)}
	}
	_, n := utf.UTF8Decode(it.s.data[it.i:])
	return Iter{s: it.s, i: it.i + n, rev: it.rev}, nil
}

// Prev returns the iterator moved back by one codepoint.
func (it Iter) Prev() (Iter, error) {
	if err := it.validate(); err != nil {
		return Iter{}, err
	}
	if it.i == 0 {
		return Iter{}, &errs.RangeError{Index: -1, Size: len(it.s.data)}
	}
	i := it.i - 1
	for i > 0 && it.s.data[i]&0xc0 == 0x80 {
		i--
	}
	return Iter{s: it.s, i: i, rev: it.rev}, nil
}

// Advance moves the iterator by delta codepoints, negative for backward.
func (it Iter) Advance(delta int) (Iter, error) {
	var err error
	for ; delta > 0; delta-- {
		if it, err = it.Next(); err != nil {
			return Iter{}, err
		}
	}
	for ; delta < 0; delta++ {
		if it, err = it.Prev(); err != nil {
			return Iter{}, err
		}
	}
	return it, nil
}

// Distance returns the number of codepoints between it and other, negative
// when other precedes it.  Both must iterate the same owner.
func (it Iter) Distance(other Iter) (int, error) {
	if err := it.validate(); err != nil {
		return 0, err
	}
	if err := other.validate(); err != nil {
		return 0, err
	}
	if it.s != other.s {
		return 0, &errs.IteratorError{Reason: "iterators of different owners"}
	}
	if other.i >= it.i {
		return utf.RuneCount(it.s.data[it.i:other.i]), nil
	}
	return -utf.RuneCount(it.s.data[other.i:it.i]), nil
}

// CPIndex returns the codepoint index of the iterator, walking from the
// start of the owner.
func (it Iter) CPIndex() (int, error) {
	if err := it.validate(); err != nil {
		return 0, err
	}
	return utf.RuneCount(it.s.data[:it.i]), nil
}

// Find returns an iterator at the first occurrence of cp, or the end
// iterator.
func (s *Str) Find(cp rune) Iter {
	if i := utf.IndexRune(s.data, cp); i >= 0 {
		return Iter{s: s, i: i, rev: s.rev}
	}
	return s.End()
}

// FindLast returns an iterator at the last occurrence of cp, or the end
// iterator.
func (s *Str) FindLast(cp rune) Iter {
	if i := utf.LastIndexRune(s.data, cp); i >= 0 {
		return Iter{s: s, i: i, rev: s.rev}
	}
	return s.End()
}

// FindSub returns an iterator at the first occurrence of sub, or the end
// iterator.
func (s *Str) FindSub(sub *Str) Iter {
	if i := utf.Index(s.data, sub.data); i >= 0 {
		return Iter{s: s, i: i, rev: s.rev}
	}
	return s.End()
}

// FindLastSub returns an iterator at the last occurrence of sub, or the end
// iterator.
func (s *Str) FindLastSub(sub *Str) Iter {
	if i := utf.LastIndex(s.data, sub.data); i >= 0 {
		return Iter{s: s, i: i, rev: s.rev}
	}
	return s.End()
}

// Substr returns the content between two iterators.  On a non-owning view
// the result is a view into the same bytes; on an owned string it is a new
// owned string.
func (s *Str) Substr(begin, end Iter) (*Str, error) {
	if err := begin.validate(); err != nil {
		return nil, err
	}
	if err := end.validate(); err != nil {
		return nil, err
	}
	if begin.s != s || end.s != s || begin.i > end.i {
		return nil, &errs.RangeError{Index: begin.i, Size: len(s.data)}
	}
	if !s.owned {
		return &Str{data: s.data[begin.i:end.i]}, nil
	}
	return FromBytes(s.data[begin.i:end.i]), nil
}
