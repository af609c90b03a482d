// Copyright (c) 2026 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package trimap

import (
	"errors"
	"math/rand"
	"sort"
	"testing"
	"unsafe"

	"github.com/aristanetworks/lofty/dtype"
	"github.com/aristanetworks/lofty/errs"
)

func TestEngineAddFindRemove(t *testing.T) {
	vt := dtype.Of[string]()
	e, err := NewEngine(2)
	if err != nil {
		t.Fatal(err)
	}
	v := "hello"
	ln, err := e.Add(&vt, 0x1234, unsafe.Pointer(&v), false)
	if err != nil {
		t.Fatal(err)
	}
	if got := e.FindFirst(0x1234); got != ln {
		t.Errorf("FindFirst returned %p, but expected %p", got, ln)
	}
	if got := dtype.Get[string](ln.Payload()); got != "hello" {
		t.Errorf("payload is %q, but expected %q", got, "hello")
	}
	if e.FindFirst(0x1235) != nil {
		t.Error("FindFirst on absent key returned a node")
	}
	if err := e.Remove(&vt, 0x1234, ln); err != nil {
		t.Fatal(err)
	}
	if !e.Empty() {
		t.Errorf("size is %d after removal, but expected empty", e.Size())
	}
	// The branch must have been pruned all the way to the root.
	if e.root != nil {
		t.Error("root not pruned after removing the last value")
	}
}

func TestEngineKeyWidth(t *testing.T) {
	vt := dtype.Of[int]()
	e, err := NewEngine(2)
	if err != nil {
		t.Fatal(err)
	}
	v := 1
	if _, err := e.Add(&vt, 0x10000, unsafe.Pointer(&v), false); !errors.Is(err, errs.ErrOutOfRange) {
		t.Errorf("Add of oversized key returned %v, but expected ErrOutOfRange", err)
	}
	if _, err := NewEngine(0); !errors.Is(err, errs.ErrOutOfRange) {
		t.Errorf("NewEngine(0) returned %v, but expected ErrOutOfRange", err)
	}
	if _, err := NewEngine(9); !errors.Is(err, errs.ErrOutOfRange) {
		t.Errorf("NewEngine(9) returned %v, but expected ErrOutOfRange", err)
	}
}

func TestMapDuplicateKeysPopInInsertionOrder(t *testing.T) {
	m := New[uint32, string]()
	m.Add(1000, "a")
	m.Add(1000, "b")
	m.Add(1000, "c")
	for _, want := range []string{"a", "b", "c"} {
		key, got, ok := m.PopFront()
		if !ok {
			t.Fatalf("PopFront ran out, but expected %q", want)
		}
		if key != 1000 || got != want {
			t.Errorf("PopFront returned (%d, %q), but expected (1000, %q)", key, got, want)
		}
	}
	if !m.Empty() {
		t.Errorf("length is %d, but expected empty", m.Len())
	}
}

func TestMapOrderedIteration(t *testing.T) {
	m := New[uint16, string]()
	m.Add(5, "x")
	m.Add(1, "y")
	m.Add(3, "z")
	var keys []uint16
	if err := m.Iter(func(k uint16, v string) bool {
		keys = append(keys, k)
		return true
	}); err != nil {
		t.Fatal(err)
	}
	want := []uint16{1, 3, 5}
	if len(keys) != len(want) {
		t.Fatalf("visited %v, but expected %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("visited %v, but expected %v", keys, want)
		}
	}
}

func TestMapRandomOrderedTraversal(t *testing.T) {
	m := New[uint64, int]()
	rng := rand.New(rand.NewSource(7))
	keys := make([]uint64, 500)
	for i := range keys {
		keys[i] = rng.Uint64()
		m.Add(keys[i], i)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	i := 0
	if err := m.Iter(func(k uint64, v int) bool {
		if k != keys[i] {
			t.Fatalf("position %d: visited key %d, but expected %d", i, k, keys[i])
		}
		i++
		return true
	}); err != nil {
		t.Fatal(err)
	}
	if i != len(keys) {
		t.Errorf("visited %d keys, but expected %d", i, len(keys))
	}
}

func TestMapMixedDuplicatesOrdering(t *testing.T) {
	m := New[uint8, int]()
	// Values of one key stay in insertion order while keys sort
	// numerically.
	m.Add(9, 90)
	m.Add(2, 20)
	m.Add(9, 91)
	m.Add(2, 21)
	m.Add(200, 0)
	var got []int
	if err := m.Iter(func(k uint8, v int) bool {
		got = append(got, v)
		return true
	}); err != nil {
		t.Fatal(err)
	}
	want := []int{20, 21, 90, 91, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("visited values %v, but expected %v", got, want)
		}
	}
}

func TestMapRemoveMiddleValue(t *testing.T) {
	m := New[uint32, string]()
	m.Add(7, "a")
	h := m.Add(7, "b")
	m.Add(7, "c")
	if err := m.Remove(7, h); err != nil {
		t.Fatal(err)
	}
	var got []string
	if err := m.Iter(func(k uint32, v string) bool {
		got = append(got, v)
		return true
	}); err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Errorf("values are %v, but expected [a c]", got)
	}
}

func TestEngineFindNextKeyFromGaps(t *testing.T) {
	vt := dtype.Of[int]()
	e, err := NewEngine(4)
	if err != nil {
		t.Fatal(err)
	}
	add := func(key uint64) {
		v := int(key)
		if _, err := e.Add(&vt, key, unsafe.Pointer(&v), false); err != nil {
			t.Fatal(err)
		}
	}
	add(0x10)
	add(0x1000)
	add(0xfffffffe)
	tests := []struct {
		from uint64
		want uint64
		ok   bool
	}{
		{0, 0x10, true},
		{0x10, 0x1000, true},
		{0x11, 0x1000, true},
		{0xfff, 0x1000, true},
		{0x1000, 0xfffffffe, true},
		{0xfffffffe, 0, false},
	}
	for _, tcase := range tests {
		got, _, ok := e.FindNextKey(tcase.from)
		if ok != tcase.ok || got != tcase.want {
			t.Errorf("FindNextKey(%#x) returned (%#x, %t), but expected (%#x, %t)",
				tcase.from, got, ok, tcase.want, tcase.ok)
		}
	}
}

func TestIterInvalidatedByRemove(t *testing.T) {
	m := New[uint16, int]()
	m.Add(1, 10)
	h := m.Add(2, 20)
	m.Add(3, 30)
	it := m.engine.Iter()
	if ok, err := it.Next(); !ok || err != nil {
		t.Fatalf("Next returned (%t, %v)", ok, err)
	}
	if err := m.Remove(2, h); err != nil {
		t.Fatal(err)
	}
	if _, err := it.Next(); !errors.Is(err, errs.ErrIteratorInvalidated) {
		t.Errorf("Next after remove returned %v, but expected ErrIteratorInvalidated", err)
	}
	if _, err := it.Key(); !errors.Is(err, errs.ErrIteratorInvalidated) {
		t.Errorf("Key after remove returned %v, but expected ErrIteratorInvalidated", err)
	}
}

func TestMapFrontAfterMutations(t *testing.T) {
	m := New[uint32, string]()
	m.Add(50, "fifty")
	if k, v, ok := m.Front(); !ok || k != 50 || v != "fifty" {
		t.Fatalf("Front returned (%d, %q, %t)", k, v, ok)
	}
	// A smaller key takes over the front.
	m.Add(10, "ten")
	if k, v, ok := m.Front(); !ok || k != 10 || v != "ten" {
		t.Fatalf("Front returned (%d, %q, %t), but expected (10, ten, true)", k, v, ok)
	}
	// Popping the minimum falls back to the next key.
	if k, v, ok := m.PopFront(); !ok || k != 10 || v != "ten" {
		t.Fatalf("PopFront returned (%d, %q, %t)", k, v, ok)
	}
	if k, v, ok := m.Front(); !ok || k != 50 || v != "fifty" {
		t.Fatalf("Front returned (%d, %q, %t), but expected (50, fifty, true)", k, v, ok)
	}
}

func TestMapClear(t *testing.T) {
	m := New[uint16, string]()
	for i := uint16(0); i < 100; i++ {
		m.Add(i, "v")
	}
	m.Clear()
	if !m.Empty() {
		t.Errorf("length is %d after Clear, but expected empty", m.Len())
	}
	if _, _, ok := m.Front(); ok {
		t.Error("Front returned a value after Clear")
	}
	m.Add(3, "again")
	if k, v, ok := m.Front(); !ok || k != 3 || v != "again" {
		t.Errorf("Front returned (%d, %q, %t) after reuse", k, v, ok)
	}
}

func BenchmarkAddPopFront(b *testing.B) {
	b.ReportAllocs()
	m := New[uint64, int]()
	for i := 0; i < b.N; i++ {
		m.Add(uint64(i)*2654435761, i)
	}
	for i := 0; i < b.N; i++ {
		if _, _, ok := m.PopFront(); !ok {
			b.Fatal("ran out of values")
		}
	}
}
