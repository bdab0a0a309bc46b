// Package permute enumerates every ordering of a sequence with Heap's algorithm.
//
// Elements are permuted by position, not by value: a sequence holding equal
// values in two slots still yields n! orderings. Each call owns its scratch
// buffer, so concurrent calls on the same input are safe as long as the input
// itself is not mutated.
//
// The enumeration order is the one Heap's algorithm produces. Callers may rely
// on completeness and uniqueness but not on any particular order.
//
// Growth is factorial: 10 elements already give 3,628,800 orderings. Prefer
// Seq or Indices over All beyond a handful of elements.
package permute

import (
	"iter"
	"math"
)

// All returns every ordering of s as freshly allocated slices.
// An empty s yields a single empty ordering.
func All[T any](s []T) [][]T {
	total, ok := Count(len(s))
	if !ok || total > math.MaxInt32 {
		panic("permute: too many orderings to materialise")
	}

	out := make([][]T, 0, int(total))
	for p := range Seq(s) {
		out = append(out, append(make([]T, 0, len(p)), p...))
	}
	return out
}

// Seq lazily yields every ordering of s.
// The yielded slice is reused between iterations; copy it to keep it.
func Seq[T any](s []T) iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		scratch := append(make([]T, 0, len(s)), s...)
		heap(scratch, len(scratch), yield)
	}
}

// Indices lazily yields every ordering of the positions 0..n-1.
// The yielded slice is reused between iterations; copy it to keep it.
func Indices(n int) iter.Seq[[]int] {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return Seq(idx)
}

// Count returns n! and false when it does not fit in a uint64.
func Count(n int) (uint64, bool) {
	if n < 0 {
		return 0, false
	}
	total := uint64(1)
	for i := 2; i <= n; i++ {
		if total > math.MaxUint64/uint64(i) {
			return 0, false
		}
		total *= uint64(i)
	}
	return total, true
}

// heap visits every ordering of buf[:k], emitting the whole buffer at each leaf.
// It returns false once yield asks to stop.
func heap[T any](buf []T, k int, yield func([]T) bool) bool {
	if k <= 1 {
		return yield(buf)
	}

	for i := 0; i < k-1; i++ {
		if !heap(buf, k-1, yield) {
			return false
		}
		j := i
		if k%2 == 1 {
			j = 0
		}
		buf[j], buf[k-1] = buf[k-1], buf[j]
	}
	return heap(buf, k-1, yield)
}
