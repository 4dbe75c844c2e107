package grid

import (
	"errors"
	"fmt"
)

var (
	// ErrShapeMismatch is matched by every ShapeError.
	ErrShapeMismatch = errors.New("shape mismatch")
	// ErrNotSeparable is returned by CheckSeparable when the samples are not
	// a full Cartesian product along the coordinate axes.
	ErrNotSeparable = errors.New("grid is not separable")
)

// ShapeError reports that a shape's element count does not equal the number
// of samples it is supposed to describe.
type ShapeError struct {
	Shape Shape
	Want  int // product of Shape
	Got   int // number of samples
	// Time is the index of the time-series frame that failed, or -1 for
	// errors outside of a time series.
	Time int
}

func (e *ShapeError) Error() string {
	if e.Time >= 0 {
		return fmt.Sprintf("frame %d has %d samples, but the grid shape %v "+
			"of the first frame needs %d", e.Time, e.Got, []int(e.Shape), e.Want)
	}
	return fmt.Sprintf("grid shape %v needs %d samples, but there are %d",
		[]int(e.Shape), e.Want, e.Got)
}

// Is makes errors.Is(err, ErrShapeMismatch) true for every ShapeError.
func (e *ShapeError) Is(target error) bool { return target == ErrShapeMismatch }

func newShapeError(shape Shape, n int) *ShapeError {
	return &ShapeError{Shape: shape, Want: shape.Len(), Got: n, Time: -1}
}
