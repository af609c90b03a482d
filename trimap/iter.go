// Copyright (c) 2026 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package trimap

import (
	"unsafe"

	"github.com/aristanetworks/lofty/errs"
)

// Iter iterates keys in ascending order; within one key, values in insertion
// order.  Any mutation that removes or relocates a list node invalidates the
// iterator.
type Iter struct {
	e    *Engine
	key  uint64
	ln   *ListNode
	rev  uint64
	done bool
}

// Iter returns an iterator positioned before the first value; call Next to
// advance onto it.
func (e *Engine) Iter() *Iter {
	return &Iter{e: e, ln: nil, rev: e.rev}
}

func (it *Iter) validate() error {
	if it.rev != it.e.rev {
		return &errs.IteratorError{Rev: it.rev, OwnerRev: it.e.rev}
	}
	return nil
}

// Next advances to the next value, reporting whether one exists.
func (it *Iter) Next() (bool, error) {
	if err := it.validate(); err != nil {
		return false, err
	}
	if it.done {
		return false, nil
	}
	if it.ln == nil {
		key, ln, ok := it.e.Front()
		if !ok {
			it.done = true
			return false, nil
		}
		it.key, it.ln = key, ln
		return true, nil
	}
	if it.ln.next != nil {
		it.ln = it.ln.next
		return true, nil
	}
	key, ln, ok := it.e.FindNextKey(it.key)
	if !ok {
		it.ln = nil
		it.key = 0
		it.done = true
		return false, nil
	}
	it.key, it.ln = key, ln
	return true, nil
}

// Key returns the key of the current value.
func (it *Iter) Key() (uint64, error) {
	if err := it.validate(); err != nil {
		return 0, err
	}
	if it.ln == nil {
		return 0, &errs.IteratorError{Reason: "past end"}
	}
	return it.key, nil
}

// Value returns the address of the current value's payload slot.
func (it *Iter) Value() (unsafe.Pointer, error) {
	if err := it.validate(); err != nil {
		return nil, err
	}
	if it.ln == nil {
		return nil, &errs.IteratorError{Reason: "past end"}
	}
	return it.ln.payload, nil
}

// Node returns the current list-node handle.
func (it *Iter) Node() *ListNode {
	return it.ln
}
