// Copyright (c) 2026 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package dtype provides runtime type descriptors for type-erased element
// storage.  The collection engines in hopmap and trimap are not generic; they
// operate on raw element slots and use a descriptor, passed by the caller on
// every call, to allocate, construct, move and destruct elements of a type
// they never see statically.
//
// Descriptors are stack values: engines never retain one past the call that
// received it.
package dtype

import (
	"unsafe"

	"github.com/aristanetworks/lofty/errs"
)

// Desc describes one element type to a type-erased engine.
//
// AllocArray must return storage the garbage collector sees as an array of
// the described type, so that element payloads containing pointers keep
// their referents alive.  All other operations address single elements
// within such an array.
//
// A nil operation is allowed; an engine that needs it fails with
// errs.ErrUnsupportedOp instead of calling it.
type Desc struct {
	size  uintptr
	align uintptr

	allocArray func(n int) unsafe.Pointer
	construct  func(dst unsafe.Pointer)
	move       func(dst, src unsafe.Pointer)
	copy       func(dst, src unsafe.Pointer)
	destruct   func(p unsafe.Pointer)
}

// Of returns the descriptor for T.  All operations are provided:
// construction zeroes the slot, destruction zeroes it again so the collector
// can drop referents, and a move is a copy followed by destruction of the
// source.
func Of[T any]() Desc {
	var zero T
	return Desc{
		size:  unsafe.Sizeof(zero),
		align: unsafe.Alignof(zero),
		allocArray: func(n int) unsafe.Pointer {
			s := make([]T, n)
			return unsafe.Pointer(unsafe.SliceData(s))
		},
		construct: func(dst unsafe.Pointer) {
			*(*T)(dst) = zero
		},
		move: func(dst, src unsafe.Pointer) {
			*(*T)(dst) = *(*T)(src)
			*(*T)(src) = zero
		},
		copy: func(dst, src unsafe.Pointer) {
			*(*T)(dst) = *(*T)(src)
		},
		destruct: func(p unsafe.Pointer) {
			*(*T)(p) = zero
		},
	}
}

// MoveOnlyOf returns a descriptor for T with no copy operation.  Engines
// asked to copy-construct through it fail with errs.ErrUnsupportedOp.
func MoveOnlyOf[T any]() Desc {
	d := Of[T]()
	d.copy = nil
	return d
}

// Size returns the element size in bytes.
func (d *Desc) Size() uintptr {
	return d.size
}

// Align returns the element alignment in bytes.
func (d *Desc) Align() uintptr {
	return d.align
}

// CheckAlign verifies that p satisfies the element alignment contract.
func (d *Desc) CheckAlign(p unsafe.Pointer) error {
	if d.align > 1 && uintptr(p)&(d.align-1) != 0 {
		return &errs.AlignmentError{Align: d.align, Addr: uintptr(p)}
	}
	return nil
}

// AllocArray allocates typed storage for n elements and returns its base.
func (d *Desc) AllocArray(n int) (unsafe.Pointer, error) {
	if d.allocArray == nil {
		return nil, &errs.UnsupportedOpError{Op: "alloc"}
	}
	return d.allocArray(n), nil
}

// At returns the address of element i in an array based at base.
func (d *Desc) At(base unsafe.Pointer, i int) unsafe.Pointer {
	return unsafe.Add(base, d.size*uintptr(i))
}

// Construct default-constructs the element at dst.
func (d *Desc) Construct(dst unsafe.Pointer) error {
	if d.construct == nil {
		return &errs.UnsupportedOpError{Op: "construct"}
	}
	d.construct(dst)
	return nil
}

// MoveConstruct moves the element at src into dst, leaving src destructed.
// Engines rely on this not failing once the operation is present; a nil move
// is the only error path.
func (d *Desc) MoveConstruct(dst, src unsafe.Pointer) error {
	if d.move == nil {
		return &errs.UnsupportedOpError{Op: "move-construct"}
	}
	d.move(dst, src)
	return nil
}

// CopyConstruct copies the element at src into dst.
func (d *Desc) CopyConstruct(dst, src unsafe.Pointer) error {
	if d.copy == nil {
		return &errs.UnsupportedOpError{Op: "copy-construct"}
	}
	d.copy(dst, src)
	return nil
}

// Destruct destructs the element at p.  The slot is zeroed so that pointer
// payloads stop keeping their referents alive.
func (d *Desc) Destruct(p unsafe.Pointer) error {
	if d.destruct == nil {
		return &errs.UnsupportedOpError{Op: "destruct"}
	}
	d.destruct(p)
	return nil
}

// Get reads the element at p as a T.  The caller must pass the same T the
// descriptor was created with.
func Get[T any](p unsafe.Pointer) T {
	return *(*T)(p)
}

// Set writes v into the element at p.
func Set[T any](p unsafe.Pointer, v T) {
	*(*T)(p) = v
}
