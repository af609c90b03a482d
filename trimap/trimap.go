// Copyright (c) 2026 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package trimap implements an ordered multimap for scalar keys, built on a
// fixed-depth trie that consumes one nibble (4 bits) per level, most
// significant nibble first.  The deepest trie level holds anchors: per-nibble
// head and tail pointers into a doubly-linked list of values sharing that
// key.  Insertion is O(1) beyond the fixed key-width walk, and iteration
// visits keys in ascending numeric order, values of one key in insertion
// order.
//
// For a key of K bytes the trie has 2K-1 interior levels plus the anchor
// level.  Branches left empty by removals are pruned immediately.
//
// Engine stores type-erased value payloads driven by dtype descriptors;
// Map wraps it generically.
package trimap

import (
	"unsafe"

	"github.com/aristanetworks/lofty/dtype"
	"github.com/aristanetworks/lofty/errs"
)

const nibbleFan = 16

// trieNode is an interior node.  A child is a *trieNode, or an *anchorNode
// on the last interior level.
type trieNode struct {
	children [nibbleFan]unsafe.Pointer
}

// anchorNode terminates a key's path: first and last point at the bounds of
// the doubly-linked value list of the key ending in each final nibble.
type anchorNode struct {
	first [nibbleFan]*ListNode
	last  [nibbleFan]*ListNode
}

// ListNode is one value in a key's list.  Callers treat it as an opaque
// handle; prev/next are nil at the list bounds.
type ListNode struct {
	prev, next *ListNode
	payload    unsafe.Pointer
}

// Payload returns the address of the node's value slot.
func (ln *ListNode) Payload() unsafe.Pointer {
	return ln.payload
}

// Engine is the type-erased trie multimap.  Key width is fixed at
// construction; keys are passed as uint64 and must fit the width.
//
// Engines are not safe for concurrent mutation.
type Engine struct {
	root     *trieNode
	keyBytes int
	size     int
	rev      uint64

	// Cached leftmost key/head for O(1) Front between mutations.
	frontKey   uint64
	frontNode  *ListNode
	frontValid bool
}

// NewEngine creates an empty engine for keys of keyBytes bytes (1 to 8).
func NewEngine(keyBytes int) (*Engine, error) {
	if keyBytes < 1 || keyBytes > 8 {
		return nil, &errs.RangeError{Index: keyBytes, Size: 8}
	}
	return &Engine{keyBytes: keyBytes}, nil
}

// Size returns the number of values in the map, counting duplicates.
func (e *Engine) Size() int {
	return e.size
}

// Empty reports whether the map holds no values.
func (e *Engine) Empty() bool {
	return e.size == 0
}

// Rev returns the current revision, for iterator validation.
func (e *Engine) Rev() uint64 {
	return e.rev
}

// levels returns the number of nibble levels, anchor level included.
func (e *Engine) levels() int {
	return 2 * e.keyBytes
}

func (e *Engine) nibbleAt(key uint64, level int) int {
	return int(key>>(4*uint(e.levels()-1-level))) & 0xf
}

func (e *Engine) checkKey(key uint64) error {
	if e.keyBytes < 8 && key>>(8*uint(e.keyBytes)) != 0 {
		return &errs.RangeError{Index: int(key), Size: 1 << (8 * uint(e.keyBytes))}
	}
	return nil
}

// Add appends value to the list for key, creating any missing trie nodes on
// the path.  move selects move-construction of the payload.  Returns the new
// node's handle.
func (e *Engine) Add(vt *dtype.Desc, key uint64, value unsafe.Pointer, move bool) (*ListNode, error) {
	if err := e.checkKey(key); err != nil {
		return nil, err
	}
	if e.root == nil {
		e.root = new(trieNode)
	}
	levels := e.levels()
	node := e.root
	var anchor *anchorNode
	for level := 0; level < levels-1; level++ {
		nib := e.nibbleAt(key, level)
		child := node.children[nib]
		if level == levels-2 {
			if child == nil {
				anchor = new(anchorNode)
				node.children[nib] = unsafe.Pointer(anchor)
			} else {
				anchor = (*anchorNode)(child)
			}
			break
		}
		if child == nil {
			next := new(trieNode)
			node.children[nib] = unsafe.Pointer(next)
			node = next
		} else {
			node = (*trieNode)(child)
		}
	}

	payload, err := vt.AllocArray(1)
	if err != nil {
		return nil, err
	}
	if move {
		err = vt.MoveConstruct(payload, value)
	} else {
		err = vt.CopyConstruct(payload, value)
	}
	if err != nil {
		return nil, err
	}
	ln := &ListNode{payload: payload}

	nib := e.nibbleAt(key, levels-1)
	if tail := anchor.last[nib]; tail != nil {
		// Append in O(1): the anchor tracks the tail exactly so that this
		// needs no list walk.
		tail.next = ln
		ln.prev = tail
		anchor.last[nib] = ln
	} else {
		anchor.first[nib] = ln
		anchor.last[nib] = ln
	}
	e.size++
	if e.frontValid && key < e.frontKey {
		e.frontKey, e.frontNode = key, ln
	}
	return ln, nil
}

// findAnchor walks the trie for key without creating nodes.
func (e *Engine) findAnchor(key uint64) *anchorNode {
	if e.root == nil {
		return nil
	}
	levels := e.levels()
	node := e.root
	for level := 0; level < levels-1; level++ {
		child := node.children[e.nibbleAt(key, level)]
		if child == nil {
			return nil
		}
		if level == levels-2 {
			return (*anchorNode)(child)
		}
		node = (*trieNode)(child)
	}
	return nil
}

// FindFirst returns the head of the value list for key, or nil.
func (e *Engine) FindFirst(key uint64) *ListNode {
	if e.checkKey(key) != nil {
		return nil
	}
	anchor := e.findAnchor(key)
	if anchor == nil {
		return nil
	}
	return anchor.first[e.nibbleAt(key, e.levels()-1)]
}

// FindNextKey returns the smallest key strictly greater than key that has
// values, along with the head of its list.
func (e *Engine) FindNextKey(key uint64) (uint64, *ListNode, bool) {
	if e.root == nil {
		return 0, nil, false
	}
	levels := e.levels()
	// Walk down along key's nibbles as far as nodes exist, keeping the
	// path; the anchor, if reached, sits at the last level.
	nodes := make([]unsafe.Pointer, levels)
	nodes[0] = unsafe.Pointer(e.root)
	deepest := 0
	for level := 0; level < levels-1; level++ {
		child := (*trieNode)(nodes[level]).children[e.nibbleAt(key, level)]
		if child == nil {
			break
		}
		nodes[level+1] = child
		deepest = level + 1
	}
	// Ascend, trying nibbles greater than key's at each level; on the first
	// hit, descend leftmost-first to an anchor.
	for level := deepest; level >= 0; level-- {
		prefix := e.keyPrefix(key, level)
		if level == levels-1 {
			anchor := (*anchorNode)(nodes[level])
			for nib := e.nibbleAt(key, level) + 1; nib < nibbleFan; nib++ {
				if head := anchor.first[nib]; head != nil {
					return prefix | uint64(nib), head, true
				}
			}
			continue
		}
		node := (*trieNode)(nodes[level])
		for nib := e.nibbleAt(key, level) + 1; nib < nibbleFan; nib++ {
			if child := node.children[nib]; child != nil {
				shift := 4 * uint(levels-1-level)
				return e.descendLeftmost(child, level+1, prefix|uint64(nib)<<shift)
			}
		}
	}
	return 0, nil, false
}

// keyPrefix returns key with every nibble at or below level cleared.
func (e *Engine) keyPrefix(key uint64, level int) uint64 {
	shift := 4 * uint(e.levels()-level)
	if shift >= 64 {
		return 0
	}
	return key >> shift << shift
}

// descendLeftmost walks from a node at the given level to the smallest
// existing key below it.  Every live node has at least one child, so the
// descent cannot fail.
func (e *Engine) descendLeftmost(p unsafe.Pointer, level int, prefix uint64) (uint64, *ListNode, bool) {
	levels := e.levels()
	for ; level < levels-1; level++ {
		node := (*trieNode)(p)
		for nib := 0; nib < nibbleFan; nib++ {
			if child := node.children[nib]; child != nil {
				shift := 4 * uint(levels-1-level)
				prefix |= uint64(nib) << shift
				p = child
				break
			}
		}
	}
	anchor := (*anchorNode)(p)
	for nib := 0; nib < nibbleFan; nib++ {
		if head := anchor.first[nib]; head != nil {
			return prefix | uint64(nib), head, true
		}
	}
	return 0, nil, false
}

// Front returns the minimum key and the head of its list.
func (e *Engine) Front() (uint64, *ListNode, bool) {
	if e.size == 0 {
		return 0, nil, false
	}
	if !e.frontValid {
		key, ln, ok := e.descendLeftmost(unsafe.Pointer(e.root), 0, 0)
		if !ok {
			return 0, nil, false
		}
		e.frontKey, e.frontNode, e.frontValid = key, ln, true
	}
	return e.frontKey, e.frontNode, true
}

// PopFront removes the first value of the minimum key.  The payload is
// move-constructed into out (a slot of the value type, may be nil to
// discard) before the node is freed.
func (e *Engine) PopFront(vt *dtype.Desc, out unsafe.Pointer) (uint64, bool, error) {
	key, ln, ok := e.Front()
	if !ok {
		return 0, false, nil
	}
	if out != nil {
		if err := vt.MoveConstruct(out, ln.payload); err != nil {
			return 0, false, err
		}
	}
	if err := e.Remove(vt, key, ln); err != nil {
		return 0, false, err
	}
	return key, true, nil
}

// Remove unlinks ln from the list for key, destructs its payload and prunes
// any trie branches left empty.
func (e *Engine) Remove(vt *dtype.Desc, key uint64, ln *ListNode) error {
	if err := e.checkKey(key); err != nil {
		return err
	}
	levels := e.levels()
	// Re-walk the path to the anchor, keeping the interior nodes for
	// pruning.
	nodes := make([]*trieNode, levels-1)
	node := e.root
	var anchor *anchorNode
	for level := 0; level < levels-1; level++ {
		if node == nil {
			return &errs.BadKeyError{Key: key}
		}
		nodes[level] = node
		child := node.children[e.nibbleAt(key, level)]
		if child == nil {
			return &errs.BadKeyError{Key: key}
		}
		if level == levels-2 {
			anchor = (*anchorNode)(child)
		} else {
			node = (*trieNode)(child)
		}
	}
	nib := e.nibbleAt(key, levels-1)

	// Unlink, updating the anchor if ln was an endpoint.
	if ln.prev != nil {
		ln.prev.next = ln.next
	} else {
		anchor.first[nib] = ln.next
	}
	if ln.next != nil {
		ln.next.prev = ln.prev
	} else {
		anchor.last[nib] = ln.prev
	}
	if err := vt.Destruct(ln.payload); err != nil {
		return err
	}
	ln.prev, ln.next, ln.payload = nil, nil, nil

	if anchor.first[nib] == nil {
		e.pruneIfEmpty(nodes, key, anchor)
	}
	e.size--
	e.rev++
	e.frontValid = false
	return nil
}

// pruneIfEmpty deallocates the anchor if it holds no lists, then every
// interior node on the path up that became childless.
func (e *Engine) pruneIfEmpty(nodes []*trieNode, key uint64, anchor *anchorNode) {
	for nib := 0; nib < nibbleFan; nib++ {
		if anchor.first[nib] != nil {
			return
		}
	}
	levels := e.levels()
	nodes[levels-2].children[e.nibbleAt(key, levels-2)] = nil
	for level := levels - 2; level > 0; level-- {
		node := nodes[level]
		for nib := 0; nib < nibbleFan; nib++ {
			if node.children[nib] != nil {
				return
			}
		}
		nodes[level-1].children[e.nibbleAt(key, level-1)] = nil
	}
	for nib := 0; nib < nibbleFan; nib++ {
		if e.root.children[nib] != nil {
			return
		}
	}
	e.root = nil
}

// Clear removes every value, destructing payloads in order.
func (e *Engine) Clear(vt *dtype.Desc) error {
	if e.root != nil {
		if err := e.clearNode(vt, unsafe.Pointer(e.root), 0); err != nil {
			return err
		}
	}
	e.root = nil
	e.size = 0
	e.rev++
	e.frontValid = false
	return nil
}

func (e *Engine) clearNode(vt *dtype.Desc, p unsafe.Pointer, level int) error {
	if level == e.levels()-1 {
		anchor := (*anchorNode)(p)
		for nib := 0; nib < nibbleFan; nib++ {
			for ln := anchor.first[nib]; ln != nil; {
				next := ln.next
				if err := vt.Destruct(ln.payload); err != nil {
					return err
				}
				ln.prev, ln.next, ln.payload = nil, nil, nil
				ln = next
			}
			anchor.first[nib], anchor.last[nib] = nil, nil
		}
		return nil
	}
	node := (*trieNode)(p)
	for nib := 0; nib < nibbleFan; nib++ {
		if child := node.children[nib]; child != nil {
			if err := e.clearNode(vt, child, level+1); err != nil {
				return err
			}
			node.children[nib] = nil
		}
	}
	return nil
}
