// Copyright (c) 2026 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package errs defines the error kinds raised by the collection and text
// engines.  Callers are expected to test for kinds with errors.Is; the
// concrete error structs carry enough context to produce a useful message
// without the caller having to wrap them.
package errs

import (
	"errors"
	"fmt"
)

// Kind sentinels. Engines never recover internally; every error surfaces to
// the caller tagged with exactly one of these.
var (
	// ErrBadKey indicates that a lookup demanded a value for a key that is
	// not in the map.
	ErrBadKey = errors.New("bad key")
	// ErrIteratorInvalidated indicates that an iterator was used after a
	// mutation of its owner bumped the revision counter, or that it was
	// advanced or dereferenced past the end.
	ErrIteratorInvalidated = errors.New("iterator invalidated")
	// ErrOutOfRange indicates an indexed access outside [0, size), or
	// [0, size] where an end position is acceptable.
	ErrOutOfRange = errors.New("out of range")
	// ErrOutOfMemory indicates that the allocator refused a request.
	ErrOutOfMemory = errors.New("out of memory")
	// ErrEncoding indicates that transcoding encountered invalid input
	// under strict mode.
	ErrEncoding = errors.New("encoding error")
	// ErrSyntax indicates that the format-string compiler saw unexpected or
	// missing syntax.
	ErrSyntax = errors.New("syntax error")
	// ErrUnsupportedOp indicates that a type descriptor is missing an
	// operation the engine needed to call.
	ErrUnsupportedOp = errors.New("unsupported operation")
	// ErrBadAlignment indicates that a pointer supplied by external code
	// failed the alignment contract.
	ErrBadAlignment = errors.New("bad alignment")
)

// BadKeyError reports the key a map lookup failed to find.
type BadKeyError struct {
	Key interface{}
}

func (e *BadKeyError) Error() string {
	return fmt.Sprintf("bad key: %v not in map", e.Key)
}

// Is reports kind membership for errors.Is.
func (e *BadKeyError) Is(target error) bool {
	return target == ErrBadKey
}

// IteratorError reports iterator misuse. Rev and OwnerRev are the revisions
// seen by the iterator and its owner; they differ when the owner mutated.
type IteratorError struct {
	Rev      uint64
	OwnerRev uint64
	Reason   string
}

func (e *IteratorError) Error() string {
	if e.Reason != "" {
		return "iterator invalidated: " + e.Reason
	}
	return fmt.Sprintf("iterator invalidated: owner at revision %d, iterator at %d",
		e.OwnerRev, e.Rev)
}

func (e *IteratorError) Is(target error) bool {
	return target == ErrIteratorInvalidated
}

// RangeError reports an index outside the valid interval.
type RangeError struct {
	Index int
	Size  int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("out of range: index %d, size %d", e.Index, e.Size)
}

func (e *RangeError) Is(target error) bool {
	return target == ErrOutOfRange
}

// EncodingError reports invalid input found while transcoding. Offset is in
// code units of the source encoding.
type EncodingError struct {
	Encoding string
	Offset   int
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encoding error: invalid %s sequence at offset %d", e.Encoding, e.Offset)
}

func (e *EncodingError) Is(target error) bool {
	return target == ErrEncoding
}

// SyntaxError reports a defect in a format string. Offset counts codepoints
// from 1, because it is meant for human display.
type SyntaxError struct {
	Description string
	Expr        string
	Offset      int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error: %s in %q at character %d", e.Description, e.Expr, e.Offset)
}

func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}

// UnsupportedOpError names the descriptor operation an engine needed but the
// caller did not provide.
type UnsupportedOpError struct {
	Op string
}

func (e *UnsupportedOpError) Error() string {
	return fmt.Sprintf("unsupported operation: descriptor has no %s", e.Op)
}

func (e *UnsupportedOpError) Is(target error) bool {
	return target == ErrUnsupportedOp
}

// AlignmentError reports a pointer that failed the alignment contract.
type AlignmentError struct {
	Align uintptr
	Addr  uintptr
}

func (e *AlignmentError) Error() string {
	return fmt.Sprintf("bad alignment: address %#x not %d-byte aligned", e.Addr, e.Align)
}

func (e *AlignmentError) Is(target error) bool {
	return target == ErrBadAlignment
}
