// Package pool provides sync.Pool wrappers for the codec's scratch
// allocations: the string slices used when splitting segment lines and
// the byte slices used when encoding.
package pool

import "sync"

// stringSlicePool holds reusable []string scratch for field splitting.
var stringSlicePool = sync.Pool{
	New: func() any {
		s := make([]string, 0, 32)
		return &s
	},
}

// AcquireStringSlice gets an empty string slice from the pool.
func AcquireStringSlice() *[]string {
	s := stringSlicePool.Get().(*[]string)
	*s = (*s)[:0]
	return s
}

// ReleaseStringSlice returns a string slice to the pool.
func ReleaseStringSlice(s *[]string) {
	if s == nil {
		return
	}
	// Don't return oversized slices
	if cap(*s) <= 512 {
		stringSlicePool.Put(s)
	}
}

// byteSlicePool holds reusable []byte encode buffers.
var byteSlicePool = sync.Pool{
	New: func() any {
		b := make([]byte, 0, 4096)
		return &b
	},
}

// AcquireByteSlice gets an empty byte slice from the pool.
func AcquireByteSlice() *[]byte {
	b := byteSlicePool.Get().(*[]byte)
	*b = (*b)[:0]
	return b
}

// ReleaseByteSlice returns a byte slice to the pool.
func ReleaseByteSlice(b *[]byte) {
	if b == nil {
		return
	}
	// Don't return oversized buffers
	if cap(*b) <= 1<<16 {
		byteSlicePool.Put(b)
	}
}
