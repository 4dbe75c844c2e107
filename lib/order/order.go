/*package order sorts scattered samples into grid order.

Grid order is lexicographic in (x, y, z) with x as the slowest-varying key and
z as the fastest. This is the same "z-major" layout used by most simulation
codes for their ID orderings, and it means that a sorted list of samples from
a structured grid can be reshaped directly into a row-major array.
*/
package order

import (
	"cmp"
	"slices"
)

// Compare returns -1, 0, or +1 depending on whether p1 comes before, at the
// same place as, or after p2 in grid order. NaN coordinates sort before every
// other value, so the order is total.
func Compare(p1, p2 [3]float64) int {
	for dim := 0; dim < 3; dim++ {
		if c := cmp.Compare(p1[dim], p2[dim]); c != 0 {
			return c
		}
	}
	return 0
}

// Sort returns the permutation which puts points into grid order along with
// the sorted points, so that sorted[i] = points[perm[i]]. The sort is stable:
// exactly duplicated coordinates keep their input order. points is not
// modified.
func Sort(points [][3]float64) (perm []int, sorted [][3]float64) {
	perm = make([]int, len(points))
	for i := range perm {
		perm[i] = i
	}

	slices.SortStableFunc(perm, func(i, j int) int {
		return Compare(points[i], points[j])
	})

	sorted = make([][3]float64, len(points))
	for i := range perm {
		sorted[i] = points[perm[i]]
	}

	return perm, sorted
}

// IsSorted returns true if points are already in grid order.
func IsSorted(points [][3]float64) bool {
	for i := 1; i < len(points); i++ {
		if Compare(points[i-1], points[i]) > 0 {
			return false
		}
	}
	return true
}

// Permute applies a permutation from Sort to a field, returning a new array
// with out[i] = x[perm[i]]. It panics if the lengths differ, since that can
// only happen if the permutation was created for different samples.
func Permute[T any](perm []int, x []T) []T {
	if len(perm) != len(x) {
		panic("Internal error: permutation and field have different lengths.")
	}
	out := make([]T, len(x))
	for i := range perm {
		out[i] = x[perm[i]]
	}
	return out
}
