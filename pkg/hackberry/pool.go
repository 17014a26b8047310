package hackberry

import (
	"math/bits"
	"sync"
)

// Size-tiered pools for buffer backing storage.
// Storage is pooled in size classes: 256, 1024, 4096, 16384, 65536 bytes.
var backingPools = [5]sync.Pool{
	{New: func() any { return make([]byte, 256) }},   // Small: <= 256 bytes
	{New: func() any { return make([]byte, 1024) }},  // Medium: <= 1KB
	{New: func() any { return make([]byte, 4096) }},  // Large: <= 4KB
	{New: func() any { return make([]byte, 16384) }}, // XLarge: <= 16KB
	{New: func() any { return make([]byte, 65536) }}, // XXLarge: <= 64KB
}

// backingSizes maps pool index to capacity.
var backingSizes = [5]int{256, 1024, 4096, 16384, 65536}

// poolIndex returns the pool index for a given size hint.
func poolIndex(size int) int {
	switch {
	case size <= 256:
		return 0
	case size <= 1024:
		return 1
	case size <= 4096:
		return 2
	case size <= 16384:
		return 3
	case size <= 65536:
		return 4
	default:
		return -1 // Too large for pooling
	}
}

// grabBacking returns a storage slice with length >= size from the
// appropriate size-tiered pool. Oversize requests bypass the pools and
// round up to the next power of two.
func grabBacking(size int) []byte {
	if size <= 0 {
		size = 1
	}
	idx := poolIndex(size)
	if idx < 0 {
		return make([]byte, 1<<bits.Len(uint(size-1)))
	}
	b := backingPools[idx].Get().([]byte)
	return b[:cap(b)]
}

// releaseBacking returns a storage slice to its pool.
// Slices whose capacity does not match a size class are left to the GC.
func releaseBacking(b []byte) {
	c := cap(b)
	idx := poolIndex(c)
	if idx >= 0 && c == backingSizes[idx] {
		backingPools[idx].Put(b[:c])
	}
}
