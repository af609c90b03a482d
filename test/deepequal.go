// Copyright (c) 2026 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package test provides the comparison helpers the test suites of this
// repository share: DeepEqual with support for self-comparing types, Diff
// for readable failure messages, and ShouldPanic.
package test

import (
	"reflect"
)

// comparable types have an equality-testing method.
type comparable interface {
	// Equal returns true if this object is equal to the other one.
	Equal(other interface{}) bool
}

// DeepEqual is a reflect.DeepEqual variant that gives data types the
// ability to define their own comparison by implementing Equal.
func DeepEqual(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == b
	}
	if ac, ok := a.(comparable); ok {
		return ac.Equal(b)
	}
	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	if av.Type() != bv.Type() {
		return false
	}
	return reflect.DeepEqual(a, b)
}
