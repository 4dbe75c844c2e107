/*package grid infers the shape of structured grids from sorted samples and
reshapes per-sample data into dense row-major arrays.

Everything in this package assumes the samples are in grid order (see
package order), i.e. sorted lexicographically in (x, y, z) with z varying
fastest. It also assumes that the grid is separable: every combination of
the distinct x, y (and z) values occurs exactly once. Infer only checks that
the inferred shape accounts for every sample; CheckSeparable does the full
check. Adaptively refined grids are not supported.
*/
package grid

import (
	"fmt"
)

// Shape gives the number of grid points along each axis, slowest-varying
// axis first.
type Shape []int

// Len returns the number of elements in an array with this shape.
func (s Shape) Len() int {
	n := 1
	for _, x := range s {
		n *= x
	}
	return n
}

// Check returns a ShapeError if the shape does not describe exactly n
// elements.
func (s Shape) Check(n int) error {
	for _, x := range s {
		if x <= 0 {
			return newShapeError(s, n)
		}
	}
	if s.Len() != n {
		return newShapeError(s, n)
	}
	return nil
}

// Infer infers the shape of a dims-dimensional grid (dims = 2 or 3) from
// points in grid order. The extent along each axis is the number of points
// which share the first point's coordinates along every other axis. The
// product of the inferred extents must equal len(sorted), otherwise a
// ShapeError is returned.
func Infer(sorted [][3]float64, dims int) (Shape, error) {
	if dims != 2 && dims != 3 {
		panic(fmt.Sprintf("Internal error: cannot infer a %d-dimensional "+
			"grid shape.", dims))
	} else if len(sorted) == 0 {
		return nil, newShapeError(Shape{}, 0)
	}

	p0 := sorted[0]
	shape := make(Shape, dims)

	for _, p := range sorted {
		if dims == 2 {
			if p[1] == p0[1] {
				shape[0]++
			}
			if p[0] == p0[0] {
				shape[1]++
			}
		} else {
			if p[1] == p0[1] && p[2] == p0[2] {
				shape[0]++
			}
			if p[0] == p0[0] && p[2] == p0[2] {
				shape[1]++
			}
			if p[0] == p0[0] && p[1] == p0[1] {
				shape[2]++
			}
		}
	}

	if err := shape.Check(len(sorted)); err != nil {
		return nil, err
	}
	return shape, nil
}

// CheckSeparable returns an error wrapping ErrNotSeparable unless sorted is
// exactly the Cartesian product of its distinct coordinate values laid out
// with the given shape. Axes beyond len(shape) must be constant.
func CheckSeparable(sorted [][3]float64, shape Shape) error {
	if err := shape.Check(len(sorted)); err != nil {
		return err
	}

	// axes[dim] holds the coordinate values along dimension dim, read from
	// the lines through the first point.
	axes := make([][]float64, len(shape))
	for dim := range shape {
		axes[dim] = make([]float64, shape[dim])
		idx := make([]int, len(shape))
		for i := 0; i < shape[dim]; i++ {
			idx[dim] = i
			axes[dim][i] = sorted[IndexVecToIndex(shape, idx)][dim]
		}
		for i := 1; i < len(axes[dim]); i++ {
			if axes[dim][i] <= axes[dim][i-1] {
				return fmt.Errorf("Axis %d has repeated or unordered "+
					"coordinates %g: %w", dim, axes[dim], ErrNotSeparable)
			}
		}
	}

	idx := make([]int, len(shape))
	for i, p := range sorted {
		IndexToIndexVec(shape, i, idx)
		for dim := 0; dim < 3; dim++ {
			want := sorted[0][dim]
			if dim < len(shape) {
				want = axes[dim][idx[dim]]
			}
			if p[dim] != want {
				return fmt.Errorf("Point %d, %g, is not at grid index %d, "+
					"coordinate %d should be %g: %w",
					i, p, idx, dim, want, ErrNotSeparable)
			}
		}
	}

	return nil
}

// IndexVecToIndex converts an index vector into a flat row-major index for
// an array with the given shape. The last axis varies fastest.
func IndexVecToIndex(shape Shape, vec []int) int {
	idx := 0
	for dim := range shape {
		idx = idx*shape[dim] + vec[dim]
	}
	return idx
}

// IndexToIndexVec converts a flat row-major index into an index vector,
// writing it to vec, which must have len(shape) elements.
func IndexToIndexVec(shape Shape, idx int, vec []int) {
	for dim := len(shape) - 1; dim >= 0; dim-- {
		vec[dim] = idx % shape[dim]
		idx /= shape[dim]
	}
}
