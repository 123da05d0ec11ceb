package primitives

import (
	"crypto/subtle"
	"runtime"
)

// CtEqual reports whether a and b are equal in constant time with respect
// to their contents. Differing lengths are reported as unequal (in
// non-constant time, which leaks only the length, not the content).
func CtEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}

// Zeroize overwrites buf with zeros. Best-effort against compiler dead-store
// elimination, in the style the corpus uses for wiping key material before
// it is dropped.
//
//go:noinline
func Zeroize(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
	runtime.KeepAlive(buf)
}
