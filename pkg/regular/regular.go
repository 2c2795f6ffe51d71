// Package regular provides sequential reference implementations for regular
// numbers, the numbers whose only prime factors are 2, 3 and 5.
package regular

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Count is the number of regular numbers that fit into an int64.
const Count = 12691

// IsRegular reports whether v is a positive number without prime factors
// other than 2, 3 and 5. 1 is regular.
func IsRegular[T constraints.Integer](v T) bool {
	if v <= 0 {
		return false
	}
	for _, p := range []T{2, 3, 5} {
		for v%p == 0 {
			v /= p
		}
	}
	return v == 1
}

// First returns the first n regular numbers in ascending order. Numbers
// beyond the int64 range are not generated, so at most Count values are
// returned.
func First(n int) []int64 {
	if n <= 0 {
		return nil
	}

	out := make([]int64, 1, min(n, Count))
	out[0] = 1

	// One index per factor into out, pointing at the next value to multiply.
	var i2, i3, i5 int
	for len(out) < n {
		next2, ok2 := mul(out[i2], 2)
		next3, ok3 := mul(out[i3], 3)
		next5, ok5 := mul(out[i5], 5)
		if !ok2 && !ok3 && !ok5 {
			break
		}

		next := int64(math.MaxInt64)
		if ok2 {
			next = min(next, next2)
		}
		if ok3 {
			next = min(next, next3)
		}
		if ok5 {
			next = min(next, next5)
		}
		out = append(out, next)

		if ok2 && next2 == next {
			i2++
		}
		if ok3 && next3 == next {
			i3++
		}
		if ok5 && next5 == next {
			i5++
		}
	}
	return out
}

func mul(v, f int64) (int64, bool) {
	if v > math.MaxInt64/f {
		return 0, false
	}
	return v * f, true
}
