/*package eq is a simple package for telling whether two arrays are equal to
one another. It is mostly used by tests.*/
package eq

// Slices returns true if two slices have the same length and elements and
// false otherwise.
func Slices[T comparable](x, y []T) bool {
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}

// Float64s returns true if two []float64 arrays are the same and false
// otherwise.
func Float64s(x, y []float64) bool { return Slices(x, y) }

// Ints returns true if two []int arrays are the same and false otherwise.
func Ints(x, y []int) bool { return Slices(x, y) }

// Strings returns true if two []string arrays are the same and false
// otherwise.
func Strings(x, y []string) bool { return Slices(x, y) }

// Vec64s returns true if two [][3]float64 arrays are the same and false
// otherwise.
func Vec64s(x, y [][3]float64) bool { return Slices(x, y) }

// Float64sEps returns true if the two []float64 arrays are within eps of one
// another and false otherwise.
func Float64sEps(x, y []float64, eps float64) bool {
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if x[i]+eps < y[i] || x[i]-eps > y[i] {
			return false
		}
	}
	return true
}

// Vec64sEps returns true if every component of the two [][3]float64 arrays
// is within eps of the other and false otherwise.
func Vec64sEps(x, y [][3]float64, eps float64) bool {
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if !Float64sEps(x[i][:], y[i][:], eps) {
			return false
		}
	}
	return true
}
