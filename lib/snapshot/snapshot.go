/*package snapshot defines the data sources that gridify extracts arrays from.
A Source is a handle to a (possibly time-dependent) dataset owned by some
external loader. It exposes the points and fields of its current Frame, the
time coordinates it declares, and the ability to re-evaluate itself at any
time coordinate.

Adding support for a new backend requires writing a type which implements
Source. Memory and Text are the two implementations that ship with gridify.
*/
package snapshot

import (
	"context"
	"errors"
)

// ErrUnknownField is returned (wrapped) by Frame lookups when the requested
// field does not exist.
var ErrUnknownField = errors.New("unknown field")

// Frame is the full set of samples evaluated at one time coordinate.
type Frame interface {
	// Points returns one 3D coordinate per sample. The returned slice must
	// not be modified by the caller.
	Points() [][3]float64
	// Scalar returns the per-sample values of a scalar field. An error
	// wrapping ErrUnknownField is returned if there is no such field.
	Scalar(name string) ([]float64, error)
	// Vector returns the per-sample values of a vector field. An error
	// wrapping ErrUnknownField is returned if there is no such field.
	Vector(name string) ([][3]float64, error)
}

// Source is a handle to a dataset which can be re-evaluated in time. The
// embedded Frame is the dataset at its current time.
type Source interface {
	Frame
	// Times returns the time coordinates declared by the dataset. It may be
	// empty for static data.
	Times() []float64
	// At evaluates the dataset at time t. This may be expensive.
	At(ctx context.Context, t float64) (Frame, error)
}
