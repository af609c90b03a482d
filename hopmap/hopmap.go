// Copyright (c) 2026 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package hopmap implements a hopscotch hash table: open addressing where
// every key is constrained to live within a bounded range of buckets (its
// neighborhood) starting at the bucket its hash maps to.  Inserting into a
// full neighborhood displaces other occupants toward their own neighborhoods
// to make room; when that fails the table grows, or the neighborhoods widen
// for pathological hash distributions.
//
// Engine is type-erased: it stores keys and values in raw slots and drives
// their lifetime through dtype descriptors passed on every call.  Map wraps
// it in a generic facade; users of Map never see a descriptor.
package hopmap

import (
	"unsafe"

	"github.com/aristanetworks/lofty/dtype"
	"github.com/aristanetworks/lofty/errs"
)

// EqualFunc compares two key slots for equality.
type EqualFunc func(a, b unsafe.Pointer) bool

const (
	// emptyHash marks an unoccupied bucket.
	emptyHash = 0
	// zeroHashSubstitute is stored in place of a natural hash of 0, which
	// would read as an empty bucket.  Largest prime below 2^16.
	zeroHashSubstitute = 65521

	// growthFactor multiplies the bucket count on table growth and the
	// neighborhood size on neighborhood growth.
	growthFactor = 4
	// minBuckets is the bucket count of the first allocation.
	minBuckets = 8
	// idealNeighborhoodSize is the neighborhood size the table prefers:
	// machine word bits / 8.
	idealNeighborhoodSize = int(unsafe.Sizeof(uintptr(0)) * 8 / 8)
)

// Special return values of the bucket-finding methods.
const (
	// NullIndex reports that no bucket was found.
	NullIndex = -1
	// needLargerTable reports that displacement failed with few hash
	// collisions in the scanned window: redistributing over more buckets
	// will succeed.
	needLargerTable = -2
	// needLargerNeighborhoods reports that displacement failed because the
	// scanned window is dominated by identical hashes: only wider
	// neighborhoods can help.
	needLargerNeighborhoods = -3
)

// Engine is the type-erased hopscotch table.  The zero value is an empty map
// with no storage; the first insertion allocates.
//
// Engines are not safe for concurrent mutation.
type Engine struct {
	hashes []uint64
	keys   unsafe.Pointer
	values unsafe.Pointer

	totalBuckets     int
	usedBuckets      int
	neighborhoodSize int

	// rev is bumped by every mutation that may invalidate iterators.
	rev uint64
}

// AdjustHash maps a natural key hash to its stored form, replacing the
// reserved empty marker with a fixed substitute.
func AdjustHash(h uint64) uint64 {
	if h == emptyHash {
		return zeroHashSubstitute
	}
	return h
}

// Size returns the number of key/value pairs in the map.
func (e *Engine) Size() int {
	return e.usedBuckets
}

// Capacity returns the current bucket count.
func (e *Engine) Capacity() int {
	return e.totalBuckets
}

// NeighborhoodSize returns the current bound on probe distance.
func (e *Engine) NeighborhoodSize() int {
	return e.neighborhoodSize
}

// Rev returns the current revision, for iterator validation.
func (e *Engine) Rev() uint64 {
	return e.rev
}

// KeyAt returns the address of the key slot of an occupied bucket.
func (e *Engine) KeyAt(kt *dtype.Desc, bucket int) unsafe.Pointer {
	return kt.At(e.keys, bucket)
}

// ValueAt returns the address of the value slot of an occupied bucket.
func (e *Engine) ValueAt(vt *dtype.Desc, bucket int) unsafe.Pointer {
	return vt.At(e.values, bucket)
}

// HashAt returns the stored hash of a bucket; 0 means empty.
func (e *Engine) HashAt(bucket int) uint64 {
	return e.hashes[bucket]
}

func (e *Engine) hashNeighborhoodIndex(h uint64) int {
	return int(h) & (e.totalBuckets - 1)
}

func (e *Engine) hashNeighborhoodRange(h uint64) (nhBegin, nhEnd int) {
	nhBegin = e.hashNeighborhoodIndex(h)
	nhEnd = (nhBegin + e.neighborhoodSize) & (e.totalBuckets - 1)
	return nhBegin, nhEnd
}

// AddOrAssign inserts a new key/value pair, or overwrites the value of an
// existing key.  keyHash must already be adjusted with AdjustHash.  moveKey
// and moveValue select move-construction over copy-construction for each
// slot; a moved source is left destructed.  Returns the bucket the pair
// landed in and whether a new pair was inserted.
func (e *Engine) AddOrAssign(
	kt, vt *dtype.Desc, keysEqual EqualFunc, key unsafe.Pointer, keyHash uint64,
	value unsafe.Pointer, moveKey, moveValue bool,
) (bucket int, added bool, err error) {
	if e.totalBuckets == 0 {
		if err = e.growTable(kt, vt); err != nil {
			return NullIndex, false, err
		}
	}
	// Repeatedly grow the table until a bucket for the key can be found.
	// This typically loops at most once, but neighborhood growth may need
	// more.
	for {
		bucket = e.existingOrEmptyBucketForKey(kt, vt, keysEqual, key, keyHash)
		if bucket >= 0 {
			break
		}
		if bucket == needLargerNeighborhoods {
			e.growNeighborhoods()
		} else {
			if err = e.growTable(kt, vt); err != nil {
				return NullIndex, false, err
			}
		}
	}

	added = e.hashes[bucket] == emptyHash
	if added {
		// The bucket is empty: initialize it with hash/key/value.
		if err = e.setBucketKeyValue(kt, vt, bucket, key, value, moveKey, moveValue); err != nil {
			return NullIndex, false, err
		}
		e.hashes[bucket] = keyHash
		e.usedBuckets++
	} else {
		// The bucket already has this key: overwrite only the value.
		if err = vt.Destruct(vt.At(e.values, bucket)); err != nil {
			return NullIndex, false, err
		}
		if err = e.setBucketKeyValue(kt, vt, bucket, nil, value, moveKey, moveValue); err != nil {
			return NullIndex, false, err
		}
	}
	e.rev++
	return bucket, added, nil
}

// Lookup returns the bucket holding key, or NullIndex.  keyHash must already
// be adjusted with AdjustHash.
func (e *Engine) Lookup(kt *dtype.Desc, keysEqual EqualFunc, key unsafe.Pointer, keyHash uint64) int {
	if e.totalBuckets == 0 {
		return NullIndex
	}
	nhBegin, nhEnd := e.hashNeighborhoodRange(keyHash)
	i := nhBegin
	// The range may wrap, so only test for inequality and rely on the
	// wrap-around at the end of the loop body.  Iterate at least once:
	// begin equals end when the neighborhood spans the whole table.
	for {
		// Removal can leave an empty bucket ahead of a key in the same
		// neighborhood, so the scan must not stop early on empties.
		if e.hashes[i] == keyHash && keysEqual(kt.At(e.keys, i), key) {
			return i
		}
		i++
		if i == e.totalBuckets {
			i = 0
		}
		if i == nhEnd {
			return NullIndex
		}
	}
}

// Remove removes the pair for key, failing with errs.ErrBadKey if absent.
func (e *Engine) Remove(
	kt, vt *dtype.Desc, keysEqual EqualFunc, key unsafe.Pointer, keyHash uint64,
) error {
	bucket := e.Lookup(kt, keysEqual, key, keyHash)
	if bucket == NullIndex {
		return &errs.BadKeyError{}
	}
	return e.RemoveAt(kt, vt, bucket)
}

// RemoveIfFound removes the pair for key if present, reporting whether it
// did.
func (e *Engine) RemoveIfFound(
	kt, vt *dtype.Desc, keysEqual EqualFunc, key unsafe.Pointer, keyHash uint64,
) (bool, error) {
	bucket := e.Lookup(kt, keysEqual, key, keyHash)
	if bucket == NullIndex {
		return false, nil
	}
	return true, e.RemoveAt(kt, vt, bucket)
}

// RemoveAt destructs the key and value of an occupied bucket and marks it
// empty.
func (e *Engine) RemoveAt(kt, vt *dtype.Desc, bucket int) error {
	if bucket < 0 || bucket >= e.totalBuckets || e.hashes[bucket] == emptyHash {
		return &errs.RangeError{Index: bucket, Size: e.totalBuckets}
	}
	e.hashes[bucket] = emptyHash
	if err := kt.Destruct(kt.At(e.keys, bucket)); err != nil {
		return err
	}
	if err := vt.Destruct(vt.At(e.values, bucket)); err != nil {
		return err
	}
	e.usedBuckets--
	// No other bucket changed, but an iterator to the removed pair must not
	// remain dereferenceable, so the revision is bumped anyway.
	e.rev++
	return nil
}

// Clear destructs every occupied bucket, keeping the allocation.
func (e *Engine) Clear(kt, vt *dtype.Desc) error {
	for i := 0; i < e.totalBuckets; i++ {
		if e.hashes[i] != emptyHash {
			e.hashes[i] = emptyHash
			if err := kt.Destruct(kt.At(e.keys, i)); err != nil {
				return err
			}
			if err := vt.Destruct(vt.At(e.values, i)); err != nil {
				return err
			}
		}
	}
	e.usedBuckets = 0
	e.rev++
	return nil
}

// existingOrEmptyBucketForKey returns the bucket already holding key, or an
// empty bucket in the key's neighborhood (displacing occupants if needed).
// Returns needLargerTable or needLargerNeighborhoods when neither works.
func (e *Engine) existingOrEmptyBucketForKey(
	kt, vt *dtype.Desc, keysEqual EqualFunc, key unsafe.Pointer, keyHash uint64,
) int {
	nhBegin, nhEnd := e.hashNeighborhoodRange(keyHash)
	// Look for the key or an empty bucket in the neighborhood.  The whole
	// window is scanned: an existing key must win over an earlier hole left
	// by a removal.
	firstEmpty := NullIndex
	i := nhBegin
	for {
		if e.hashes[i] == emptyHash {
			if firstEmpty == NullIndex {
				firstEmpty = i
			}
		} else if e.hashes[i] == keyHash && keysEqual(kt.At(e.keys, i), key) {
			return i
		}
		i++
		if i == e.totalBuckets {
			i = 0
		}
		if i == nhEnd {
			break
		}
	}
	if firstEmpty != NullIndex {
		return firstEmpty
	}
	return e.findEmptyBucketOutsideNeighborhood(kt, vt, nhBegin, nhEnd)
}

// emptyBucketForKey returns an empty bucket in the neighborhood of keyHash,
// displacing occupants if needed.  Used during table growth, when the key is
// known not to be present.
func (e *Engine) emptyBucketForKey(kt, vt *dtype.Desc, keyHash uint64) int {
	nhBegin, nhEnd := e.hashNeighborhoodRange(keyHash)
	if bucket := e.findEmptyBucket(nhBegin, nhEnd); bucket != NullIndex {
		return bucket
	}
	return e.findEmptyBucketOutsideNeighborhood(kt, vt, nhBegin, nhEnd)
}

// findEmptyBucket scans [nhBegin, nhEnd), wrapping, for an empty bucket.
func (e *Engine) findEmptyBucket(nhBegin, nhEnd int) int {
	i := nhBegin
	for {
		if e.hashes[i] == emptyHash {
			return i
		}
		i++
		if i == e.totalBuckets {
			i = 0
		}
		if i == nhEnd {
			return NullIndex
		}
	}
}

// findEmptyBucketOutsideNeighborhood finds an empty bucket anywhere outside
// [nhBegin, nhEnd) and iteratively moves displaceable occupants into it
// until the hole reaches the target neighborhood.
func (e *Engine) findEmptyBucketOutsideNeighborhood(kt, vt *dtype.Desc, nhBegin, nhEnd int) int {
	// Scan every bucket outside the neighborhood.
	emptyBucket := e.findEmptyBucket(nhEnd, nhBegin)
	if emptyBucket == NullIndex {
		// The table is full.
		return needLargerTable
	}
	// Loop while the empty bucket is outside the key's neighborhood, which
	// is complicated by the fact the range may wrap.
	for !e.inNeighborhood(emptyBucket, nhBegin, nhEnd) {
		movableBucket := e.findBucketMovableToEmpty(emptyBucket)
		if movableBucket < 0 {
			// No bucket's contents can be moved into the hole; the table or
			// the neighborhoods need to grow.
			return movableBucket
		}
		// Move the contents of movableBucket into the hole.
		kt.MoveConstruct(kt.At(e.keys, emptyBucket), kt.At(e.keys, movableBucket))
		vt.MoveConstruct(vt.At(e.values, emptyBucket), vt.At(e.values, movableBucket))
		e.hashes[emptyBucket] = e.hashes[movableBucket]
		e.hashes[movableBucket] = emptyHash
		emptyBucket = movableBucket
	}
	return emptyBucket
}

// inNeighborhood reports whether bucket lies in [nhBegin, nhEnd), a range
// that may wrap around the end of the table.
func (e *Engine) inNeighborhood(bucket, nhBegin, nhEnd int) bool {
	if nhBegin < nhEnd {
		// Non-wrapping: |---[begin end)---|
		return bucket >= nhBegin && bucket < nhEnd
	}
	// Wrapping: | end)-----[begin |
	return bucket >= nhBegin || bucket < nhEnd
}

// findBucketMovableToEmpty scans the neighborhood ending at emptyBucket for
// the first bucket whose key's own neighborhood also contains emptyBucket.
func (e *Engine) findBucketMovableToEmpty(emptyBucket int) int {
	bucketsRightOfEmpty := e.neighborhoodSize - 1
	// Always keep emptyBucket on the right of every scanned bucket: when the
	// window would wrap, shift the empty index up by the table size so that
	// indices stay monotonic during the scan.
	adjustedEmpty := emptyBucket
	if adjustedEmpty < bucketsRightOfEmpty {
		adjustedEmpty += e.totalBuckets
	}
	i := adjustedEmpty - bucketsRightOfEmpty
	// Track hash collisions in the scanned window to decide how to grow if
	// no movable bucket is found.
	sampleHash := e.hashes[i]
	collisions := 0
	for i != emptyBucket {
		// End of the original neighborhood for the key in this bucket; if
		// the empty bucket is within it, this bucket's contents can move.
		currNhEnd := e.hashNeighborhoodIndex(e.hashes[i]) + e.neighborhoodSize
		if adjustedEmpty < currNhEnd {
			return i
		}
		if sampleHash == e.hashes[i] {
			collisions++
		}
		i++
		if i == e.totalBuckets {
			i = 0
		}
	}
	if collisions < bucketsRightOfEmpty {
		// Growing the table redistributes the hashes in the scanned window
		// over multiple neighborhoods, after which this scan will succeed.
		return needLargerTable
	}
	return needLargerNeighborhoods
}

// growNeighborhoods widens every neighborhood, bounded by the table size.
// No rehash is needed: existing buckets stay within the wider ranges.
func (e *Engine) growNeighborhoods() {
	if n := e.neighborhoodSize * growthFactor; n < e.totalBuckets {
		e.neighborhoodSize = n
	} else {
		e.neighborhoodSize = e.totalBuckets
	}
}

// growTable re-creates the table with growthFactor times as many buckets and
// reinserts every pair with move-construction.  The engine state is only
// swapped once all allocations succeeded; the payload moves themselves are
// assumed not to fail, and the map state is undefined if one does.
func (e *Engine) growTable(kt, vt *dtype.Desc) error {
	oldTotal := e.totalBuckets
	newTotal := minBuckets
	if oldTotal != 0 {
		newTotal = oldTotal * growthFactor
	}
	newKeys, err := kt.AllocArray(newTotal)
	if err != nil {
		return err
	}
	newValues, err := vt.AllocArray(newTotal)
	if err != nil {
		return err
	}
	oldHashes, oldKeys, oldValues := e.hashes, e.keys, e.values
	e.hashes = make([]uint64, newTotal)
	e.keys, e.values = newKeys, newValues
	e.totalBuckets = newTotal

	// Recalculate the neighborhood size.  A neighborhood already grown past
	// the ideal (subpar hash function) is left alone: more buckets change
	// nothing for it, the fix was already applied before this call.
	if e.neighborhoodSize < idealNeighborhoodSize {
		if e.totalBuckets < idealNeighborhoodSize {
			e.neighborhoodSize = e.totalBuckets
		} else {
			e.neighborhoodSize = idealNeighborhoodSize
		}
	}

	// Move each hash/key/value triplet from the old arrays to the new ones.
	for i := 0; i < oldTotal; i++ {
		if oldHashes[i] == emptyHash {
			continue
		}
		newBucket := e.emptyBucketForKey(kt, vt, oldHashes[i])
		if newBucket < 0 {
			// If an empty bucket could be found before, it must be findable
			// now that there are more of them.
			panic("hopmap: no empty bucket while growing table")
		}
		if err := kt.MoveConstruct(kt.At(e.keys, newBucket), kt.At(oldKeys, i)); err != nil {
			return err
		}
		if err := vt.MoveConstruct(vt.At(e.values, newBucket), vt.At(oldValues, i)); err != nil {
			return err
		}
		e.hashes[newBucket] = oldHashes[i]
	}
	return nil
}

// setBucketKeyValue writes key (unless nil) and value into a bucket's slots.
func (e *Engine) setBucketKeyValue(
	kt, vt *dtype.Desc, bucket int, key, value unsafe.Pointer, moveKey, moveValue bool,
) error {
	if key != nil {
		dst := kt.At(e.keys, bucket)
		var err error
		if moveKey {
			err = kt.MoveConstruct(dst, key)
		} else {
			err = kt.CopyConstruct(dst, key)
		}
		if err != nil {
			return err
		}
	}
	dst := vt.At(e.values, bucket)
	if moveValue {
		return vt.MoveConstruct(dst, value)
	}
	return vt.CopyConstruct(dst, value)
}
