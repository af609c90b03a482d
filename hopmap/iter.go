// Copyright (c) 2026 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package hopmap

import (
	"unsafe"

	"github.com/aristanetworks/lofty/dtype"
	"github.com/aristanetworks/lofty/errs"
)

// Iter is a forward iterator over the occupied buckets of an Engine.  The
// iteration order is the bucket order; it is stable until the next mutation.
// Any mutation of the owner invalidates the iterator, and subsequent calls
// fail with errs.ErrIteratorInvalidated.
type Iter struct {
	e      *Engine
	bucket int
	rev    uint64
}

// Iter returns an iterator positioned before the first occupied bucket; call
// Next to advance onto it.
func (e *Engine) Iter() *Iter {
	return &Iter{e: e, bucket: NullIndex, rev: e.rev}
}

// IterAt returns an iterator positioned at an occupied bucket.
func (e *Engine) IterAt(bucket int) *Iter {
	return &Iter{e: e, bucket: bucket, rev: e.rev}
}

func (it *Iter) validate() error {
	if it.rev != it.e.rev {
		return &errs.IteratorError{Rev: it.rev, OwnerRev: it.e.rev}
	}
	return nil
}

// Next advances to the next occupied bucket, reporting whether one exists.
func (it *Iter) Next() (bool, error) {
	if err := it.validate(); err != nil {
		return false, err
	}
	for i := it.bucket + 1; i < it.e.totalBuckets; i++ {
		if it.e.hashes[i] != emptyHash {
			it.bucket = i
			return true, nil
		}
	}
	it.bucket = it.e.totalBuckets
	return false, nil
}

// Bucket returns the bucket the iterator is positioned at.
func (it *Iter) Bucket() int {
	return it.bucket
}

// Key returns the address of the current key slot.
func (it *Iter) Key(kt *dtype.Desc) (unsafe.Pointer, error) {
	if err := it.validate(); err != nil {
		return nil, err
	}
	if it.bucket < 0 || it.bucket >= it.e.totalBuckets {
		return nil, &errs.IteratorError{Reason: "past end"}
	}
	return it.e.KeyAt(kt, it.bucket), nil
}

// Value returns the address of the current value slot.
func (it *Iter) Value(vt *dtype.Desc) (unsafe.Pointer, error) {
	if err := it.validate(); err != nil {
		return nil, err
	}
	if it.bucket < 0 || it.bucket >= it.e.totalBuckets {
		return nil, &errs.IteratorError{Reason: "past end"}
	}
	return it.e.ValueAt(vt, it.bucket), nil
}
