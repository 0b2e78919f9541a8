package render

import "bytes"

// FindByte returns the index of the first occurrence of needle in
// haystack, or -1 if it is absent. It is a plain linear scan; the
// interpolation scanner relies on it to locate delimiter bytes without
// per-call allocation.
func FindByte(haystack []byte, needle byte) int {
	for i, b := range haystack {
		if b == needle {
			return i
		}
	}
	return -1
}

// FindSubsequence returns the index of the first window of haystack equal
// to needle, or -1 if there is none. An empty needle matches at index 0.
// The scan is a naive sliding window with no preprocessing.
func FindSubsequence(haystack, needle []byte) int {
	if len(needle) == 0 {
		return 0
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if bytes.Equal(haystack[i:i+len(needle)], needle) {
			return i
		}
	}
	return -1
}
