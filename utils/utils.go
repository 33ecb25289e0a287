package utils

import (
	"math/bits"
	"unsafe"
)

func BytesToString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(b), len(b))
}

func IsPow2(n uint64) bool {
	return n != 0 && n&(n-1) == 0
}

// Log2 n must be a power of two
func Log2(n uint64) uint {
	return uint(bits.TrailingZeros64(n))
}
