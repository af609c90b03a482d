// Copyright (c) 2026 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package test

import (
	"fmt"
	"testing"
)

// ShouldPanic checks that the given function panics.
func ShouldPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("%p should have panicked", fn)
		}
	}()
	fn()
}

// ShouldPanicWith checks that the given function panics with the expected
// message.
func ShouldPanicWith(t *testing.T, msg interface{}, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Errorf("%p should have panicked with %q", fn, msg)
		} else if got, want := fmt.Sprintf("%v", r), fmt.Sprintf("%v", msg); got != want {
			t.Errorf("panic message is %q, but expected %q", got, want)
		}
	}()
	fn()
}
