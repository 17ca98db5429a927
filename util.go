package itemcodec

import "golang.org/x/exp/constraints"

// minInt returns the smaller of a and b. Kept generic over
// constraints.Integer since ComposedInput clamps both int and int64 byte
// counts with it.
func minInt[T constraints.Integer](a, b T) T {
	if a < b {
		return a
	}
	return b
}

// maxInt is minInt's mirror; nothing in this module calls it.
func maxInt[T constraints.Integer](a, b T) T {
	if a > b {
		return a
	}
	return b
}
