// Copyright (c) 2026 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package errs

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestKindMembership(t *testing.T) {
	tests := []struct {
		err  error
		kind error
	}{
		{&BadKeyError{Key: 42}, ErrBadKey},
		{&IteratorError{Rev: 1, OwnerRev: 2}, ErrIteratorInvalidated},
		{&RangeError{Index: 9, Size: 4}, ErrOutOfRange},
		{&EncodingError{Encoding: "UTF-8", Offset: 3}, ErrEncoding},
		{&SyntaxError{Description: "x", Expr: "[", Offset: 1}, ErrSyntax},
		{&UnsupportedOpError{Op: "copy-construct"}, ErrUnsupportedOp},
		{&AlignmentError{Align: 8, Addr: 0x1001}, ErrBadAlignment},
	}
	kinds := []error{
		ErrBadKey, ErrIteratorInvalidated, ErrOutOfRange, ErrOutOfMemory,
		ErrEncoding, ErrSyntax, ErrUnsupportedOp, ErrBadAlignment,
	}
	for _, tcase := range tests {
		if !errors.Is(tcase.err, tcase.kind) {
			t.Errorf("%T does not match its kind %v", tcase.err, tcase.kind)
		}
		// Exactly one kind matches.
		for _, kind := range kinds {
			if kind != tcase.kind && errors.Is(tcase.err, kind) {
				t.Errorf("%T also matches kind %v", tcase.err, kind)
			}
		}
		// Wrapping keeps the kind reachable.
		wrapped := fmt.Errorf("outer: %w", tcase.err)
		if !errors.Is(wrapped, tcase.kind) {
			t.Errorf("wrapped %T lost its kind", tcase.err)
		}
	}
}

func TestMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&BadKeyError{Key: "k"}, "bad key"},
		{&RangeError{Index: 9, Size: 4}, "index 9, size 4"},
		{&IteratorError{Rev: 1, OwnerRev: 2}, "revision 2"},
		{&IteratorError{Reason: "past end"}, "past end"},
		{&EncodingError{Encoding: "UTF-16LE", Offset: 6}, "UTF-16LE"},
		{&SyntaxError{Description: "missing )", Expr: "(a", Offset: 3}, "at character 3"},
		{&UnsupportedOpError{Op: "move-construct"}, "move-construct"},
		{&AlignmentError{Align: 8, Addr: 0x11}, "not 8-byte aligned"},
	}
	for _, tcase := range tests {
		if got := tcase.err.Error(); !strings.Contains(got, tcase.want) {
			t.Errorf("%T message %q does not contain %q", tcase.err, got, tcase.want)
		}
	}
}
