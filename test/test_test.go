// Copyright (c) 2026 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package test

import (
	"testing"
)

type selfEqual struct {
	id int
}

func (s selfEqual) Equal(other interface{}) bool {
	o, ok := other.(selfEqual)
	return ok && o.id%10 == s.id%10
}

func TestDeepEqual(t *testing.T) {
	tests := []struct {
		a, b  interface{}
		equal bool
	}{
		{nil, nil, true},
		{nil, 1, false},
		{1, 1, true},
		{1, 2, false},
		{1, int64(1), false},
		{[]int{1, 2}, []int{1, 2}, true},
		{map[string]int{"a": 1}, map[string]int{"a": 1}, true},
		{selfEqual{3}, selfEqual{13}, true},
		{selfEqual{3}, selfEqual{4}, false},
	}
	for _, tcase := range tests {
		if got := DeepEqual(tcase.a, tcase.b); got != tcase.equal {
			t.Errorf("DeepEqual(%v, %v) is %t, but expected %t",
				tcase.a, tcase.b, got, tcase.equal)
		}
	}
}

func TestDiff(t *testing.T) {
	if d := Diff([]int{1, 2}, []int{1, 2}); d != "" {
		t.Errorf("diff of equal values is %q, but expected empty", d)
	}
	if d := Diff([]int{1, 2}, []int{1, 3}); d == "" {
		t.Error("diff of different values is empty")
	}
}

func TestShouldPanic(t *testing.T) {
	ShouldPanic(t, func() { panic("boom") })
	ShouldPanicWith(t, "boom", func() { panic("boom") })
}
