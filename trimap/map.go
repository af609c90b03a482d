// Copyright (c) 2026 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package trimap

import (
	"unsafe"

	"golang.org/x/exp/constraints"

	"github.com/aristanetworks/lofty/dtype"
)

// Map is the generic facade over Engine for unsigned scalar keys.  The key
// width, and with it the trie depth, is the width of K.
type Map[K constraints.Unsigned, V any] struct {
	engine Engine
	vt     dtype.Desc
}

// Handle identifies one value in the map, for targeted removal.
type Handle = *ListNode

// New creates an empty Map.
func New[K constraints.Unsigned, V any]() *Map[K, V] {
	var zero K
	return &Map[K, V]{
		engine: Engine{keyBytes: int(unsafe.Sizeof(zero))},
		vt:     dtype.Of[V](),
	}
}

// Len returns the number of values in m, counting duplicates.
func (m *Map[K, V]) Len() int {
	return m.engine.Size()
}

// Empty reports whether m holds no values.
func (m *Map[K, V]) Empty() bool {
	return m.engine.Empty()
}

// Add appends v to the values of k, returning a handle usable with Remove.
func (m *Map[K, V]) Add(k K, v V) Handle {
	ln, err := m.engine.Add(&m.vt, uint64(k), unsafe.Pointer(&v), true)
	if err != nil {
		// Of[V] provides every operation and K's width bounds the key, so
		// the engine cannot fail.
		panic(err)
	}
	return ln
}

// First returns the oldest value added for k.
func (m *Map[K, V]) First(k K) (V, bool) {
	ln := m.engine.FindFirst(uint64(k))
	if ln == nil {
		var zero V
		return zero, false
	}
	return dtype.Get[V](ln.payload), true
}

// FirstHandle returns the handle of the oldest value added for k, or nil.
func (m *Map[K, V]) FirstHandle(k K) Handle {
	return m.engine.FindFirst(uint64(k))
}

// Remove unlinks the value identified by h from the values of k.
func (m *Map[K, V]) Remove(k K, h Handle) error {
	return m.engine.Remove(&m.vt, uint64(k), h)
}

// Front returns the minimum key and its oldest value.
func (m *Map[K, V]) Front() (K, V, bool) {
	key, ln, ok := m.engine.Front()
	if !ok {
		var zeroK K
		var zeroV V
		return zeroK, zeroV, false
	}
	return K(key), dtype.Get[V](ln.payload), true
}

// PopFront removes and returns the oldest value of the minimum key.
func (m *Map[K, V]) PopFront() (K, V, bool) {
	var out V
	key, ok, err := m.engine.PopFront(&m.vt, unsafe.Pointer(&out))
	if err != nil {
		panic(err)
	}
	if !ok {
		var zeroK K
		return zeroK, out, false
	}
	return K(key), out, true
}

// Clear removes every value.
func (m *Map[K, V]) Clear() {
	if err := m.engine.Clear(&m.vt); err != nil {
		panic(err)
	}
}

// Iter calls f for each key/value pair in ascending key order, values of one
// key in insertion order.  f must not mutate m.
func (m *Map[K, V]) Iter(f func(k K, v V) bool) error {
	it := m.engine.Iter()
	for {
		ok, err := it.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		key, err := it.Key()
		if err != nil {
			return err
		}
		vp, err := it.Value()
		if err != nil {
			return err
		}
		if !f(K(key), dtype.Get[V](vp)) {
			return nil
		}
	}
}
