// Copyright (c) 2026 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package test

import (
	"github.com/kylelemons/godebug/pretty"
)

// diffable types have a method that returns the diff of two objects; an
// empty string means they are equal.
type diffable interface {
	// Diff returns a human readable string of the diff of the two objects.
	Diff(other interface{}) string
}

// Diff returns the difference of two objects in a human readable format.
// An empty string is returned when there is no difference.
func Diff(a, b interface{}) string {
	if DeepEqual(a, b) {
		return ""
	}
	if ad, ok := a.(diffable); ok {
		return ad.Diff(b)
	}
	return pretty.Compare(a, b)
}
