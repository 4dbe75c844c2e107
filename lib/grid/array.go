package grid

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Array is a dense row-major N-dimensional array of float64s. Extracted
// arrays have shape (channels, size_x[, size_y[, size_z]]) or, for time
// series, (time, channels, size_x, ...).
type Array struct {
	shape Shape
	data  []float64
}

// NewArray allocates a zeroed array with the given shape.
func NewArray(shape Shape) *Array {
	s := make(Shape, len(shape))
	copy(s, shape)
	return &Array{s, make([]float64, s.Len())}
}

// FromData wraps data in an array with the given shape. It returns a
// ShapeError instead of truncating or padding if the sizes differ.
func FromData(shape Shape, data []float64) (*Array, error) {
	if err := shape.Check(len(data)); err != nil {
		return nil, err
	}
	s := make(Shape, len(shape))
	copy(s, shape)
	return &Array{s, data}, nil
}

// Shape returns a copy of the array's shape.
func (a *Array) Shape() Shape {
	s := make(Shape, len(a.shape))
	copy(s, a.shape)
	return s
}

// Dims returns the number of axes in the array.
func (a *Array) Dims() int { return len(a.shape) }

// Len returns the total number of elements in the array.
func (a *Array) Len() int { return len(a.data) }

// Data returns the underlying row-major data. Changes to it are visible
// through the array.
func (a *Array) Data() []float64 { return a.data }

// Flatten returns a copy of the data in row-major order.
func (a *Array) Flatten() []float64 {
	out := make([]float64, len(a.data))
	copy(out, a.data)
	return out
}

// Index returns the flat index of an element. It panics if the number of
// indices is wrong or if any of them is out of range.
func (a *Array) Index(idx ...int) int {
	if len(idx) != len(a.shape) {
		panic(fmt.Sprintf("%d indices given for a %d-dimensional array.",
			len(idx), len(a.shape)))
	}
	for dim := range idx {
		if idx[dim] < 0 || idx[dim] >= a.shape[dim] {
			panic(fmt.Sprintf("Index %d is out of range for axis %d of "+
				"shape %v.", idx[dim], dim, []int(a.shape)))
		}
	}
	return IndexVecToIndex(a.shape, idx)
}

// At returns the element at the given indices.
func (a *Array) At(idx ...int) float64 { return a.data[a.Index(idx...)] }

// Set sets the element at the given indices.
func (a *Array) Set(x float64, idx ...int) { a.data[a.Index(idx...)] = x }

// Sub returns the sub-array with the first axis fixed to i. The result
// shares memory with a.
func (a *Array) Sub(i int) *Array {
	if len(a.shape) < 2 {
		panic("Sub() requires an array with at least two axes.")
	} else if i < 0 || i >= a.shape[0] {
		panic(fmt.Sprintf("Index %d is out of range for axis 0 of shape %v.",
			i, []int(a.shape)))
	}
	shape := a.Shape()[1:]
	n := shape.Len()
	return &Array{shape, a.data[i*n : (i+1)*n]}
}

// Matrix returns a gonum view of a two-dimensional array. The matrix shares
// memory with a. Like gonum itself, it panics if either axis is empty.
func (a *Array) Matrix() *mat.Dense {
	if len(a.shape) != 2 {
		panic(fmt.Sprintf("Matrix() requires a 2-dimensional array, but the "+
			"array has shape %v.", []int(a.shape)))
	}
	return mat.NewDense(a.shape[0], a.shape[1], a.data)
}

// Reshape lays out per-channel values, which must already be in grid order,
// as an array of shape (len(values), shape...). Every channel must have
// exactly shape.Len() values; otherwise a ShapeError is returned.
func Reshape(values [][]float64, shape Shape) (*Array, error) {
	n := shape.Len()
	for i := range values {
		if err := shape.Check(len(values[i])); err != nil {
			return nil, err
		}
	}

	out := NewArray(append(Shape{len(values)}, shape...))
	for i := range values {
		copy(out.data[i*n:(i+1)*n], values[i])
	}
	return out, nil
}

// ReshapePoints lays out points in grid order as an array of shape
// (shape..., 3).
func ReshapePoints(sorted [][3]float64, shape Shape) (*Array, error) {
	if err := shape.Check(len(sorted)); err != nil {
		return nil, err
	}

	out := NewArray(append(shape.copy(), 3))
	for i := range sorted {
		copy(out.data[3*i:3*i+3], sorted[i][:])
	}
	return out, nil
}

// Stack stacks arrays with identical shapes along a new leading axis.
func Stack(arrays []*Array) (*Array, error) {
	if len(arrays) == 0 {
		return nil, fmt.Errorf("Cannot stack zero arrays.")
	}

	shape := arrays[0].shape
	n := shape.Len()
	out := NewArray(append(Shape{len(arrays)}, shape...))
	for i, a := range arrays {
		if !equalShapes(a.shape, shape) {
			return nil, &ShapeError{Shape: shape, Want: n, Got: a.Len(), Time: i}
		}
		copy(out.data[i*n:(i+1)*n], a.data)
	}
	return out, nil
}

func (s Shape) copy() Shape {
	out := make(Shape, len(s))
	copy(out, s)
	return out
}

func equalShapes(s1, s2 Shape) bool {
	if len(s1) != len(s2) {
		return false
	}
	for i := range s1 {
		if s1[i] != s2[i] {
			return false
		}
	}
	return true
}
