// Copyright (c) 2026 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package hopmap

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/aristanetworks/lofty/dtype"
	"github.com/aristanetworks/lofty/errs"
)

// Map is the generic facade over Engine.  Users provide hash and equality
// functions for the key type and never see a descriptor or a raw slot.
type Map[K any, V any] struct {
	engine Engine
	kt     dtype.Desc
	vt     dtype.Desc
	hash   func(K) uint64
	equal  func(K, K) bool
}

// New creates a Map with hash and equality functions for K.  size is a hint
// of the number of entries the map will hold; 0 defers allocation to the
// first insertion.
func New[K any, V any](size uint, hash func(K) uint64, equal func(K, K) bool) *Map[K, V] {
	m := &Map[K, V]{
		kt:    dtype.Of[K](),
		vt:    dtype.Of[V](),
		hash:  hash,
		equal: equal,
	}
	for m.engine.Capacity() < int(size) {
		if err := m.engine.growTable(&m.kt, &m.vt); err != nil {
			panic(err)
		}
	}
	return m
}

func (m *Map[K, V]) keysEqual(a, b unsafe.Pointer) bool {
	return m.equal(*(*K)(a), *(*K)(b))
}

// Len returns the number of entries in m.
func (m *Map[K, V]) Len() int {
	return m.engine.Size()
}

// Capacity returns the current bucket count of m.
func (m *Map[K, V]) Capacity() int {
	return m.engine.Capacity()
}

// NeighborhoodSize returns the current probe-distance bound of m.
func (m *Map[K, V]) NeighborhoodSize() int {
	return m.engine.NeighborhoodSize()
}

// Set associates k with v in m.
func (m *Map[K, V]) Set(k K, v V) {
	h := AdjustHash(m.hash(k))
	_, _, err := m.engine.AddOrAssign(
		&m.kt, &m.vt, m.keysEqual, unsafe.Pointer(&k), h, unsafe.Pointer(&v), true, true)
	if err != nil {
		// Of[K]/Of[V] provide every operation, so the engine cannot fail.
		panic(err)
	}
}

// Get returns the value associated with k.
func (m *Map[K, V]) Get(k K) (V, bool) {
	h := AdjustHash(m.hash(k))
	bucket := m.engine.Lookup(&m.kt, m.keysEqual, unsafe.Pointer(&k), h)
	if bucket == NullIndex {
		var zero V
		return zero, false
	}
	return dtype.Get[V](m.engine.ValueAt(&m.vt, bucket)), true
}

// MustGet returns the value associated with k, failing with errs.ErrBadKey
// if k is not in m.
func (m *Map[K, V]) MustGet(k K) (V, error) {
	v, ok := m.Get(k)
	if !ok {
		return v, &errs.BadKeyError{Key: k}
	}
	return v, nil
}

// Delete removes k from m, reporting whether it was present.
func (m *Map[K, V]) Delete(k K) bool {
	h := AdjustHash(m.hash(k))
	found, err := m.engine.RemoveIfFound(&m.kt, &m.vt, m.keysEqual, unsafe.Pointer(&k), h)
	if err != nil {
		panic(err)
	}
	return found
}

// Remove removes k from m, failing with errs.ErrBadKey if absent.
func (m *Map[K, V]) Remove(k K) error {
	if !m.Delete(k) {
		return &errs.BadKeyError{Key: k}
	}
	return nil
}

// Clear removes every entry, keeping the allocation.
func (m *Map[K, V]) Clear() {
	if err := m.engine.Clear(&m.kt, &m.vt); err != nil {
		panic(err)
	}
}

// Iter calls f for each key/value pair in m, in bucket order.  f must not
// mutate m.
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
		kp, err := it.Key(&m.kt)
		if err != nil {
			return err
		}
		vp, err := it.Value(&m.vt)
		if err != nil {
			return err
		}
		if !f(dtype.Get[K](kp), dtype.Get[V](vp)) {
			return nil
		}
	}
}

func (m *Map[K, V]) debug() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "len: %d capacity: %d neighborhood: %d\n",
		m.Len(), m.Capacity(), m.NeighborhoodSize())
	for i := 0; i < m.engine.Capacity(); i++ {
		h := m.engine.HashAt(i)
		if h == emptyHash {
			fmt.Fprintf(&sb, "%d: empty\n", i)
			continue
		}
		fmt.Fprintf(&sb, "%d: hash: %d home: %d key: %v value: %v\n",
			i, h, m.engine.hashNeighborhoodIndex(h),
			dtype.Get[K](m.engine.KeyAt(&m.kt, i)),
			dtype.Get[V](m.engine.ValueAt(&m.vt, i)))
	}
	return sb.String()
}
