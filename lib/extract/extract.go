/*package extract turns the scattered samples of a single frame into dense
arrays. Line keeps the samples as a flat, sorted list, which works for any
point set, while Grid reshapes them into 2D or 3D structured-grid arrays.

Both entry points sort the frame's points into grid order (x slowest, z
fastest), read the requested fields, and apply the same permutation to every
field, so that sample i of every output channel belongs to point i.
*/
package extract

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/phil-mansfield/gridify/lib/field"
	"github.com/phil-mansfield/gridify/lib/grid"
	"github.com/phil-mansfield/gridify/lib/order"
	"github.com/phil-mansfield/gridify/lib/snapshot"
)

// Options control extraction. The zero value extracts along x, keeps every
// sample, trusts the inferred grid shape, and does not log.
type Options struct {
	// Direction is the axis (0, 1, or 2) whose coordinates Line returns.
	Direction int
	// Min and Max, if non-nil, restrict Line to samples whose coordinate
	// along Direction lies in [*Min, *Max].
	Min, Max *float64
	// Strict makes Grid verify that the samples form a full Cartesian
	// product instead of only checking the element count.
	Strict bool
	// Logger receives debug messages. It may be nil.
	Logger *log.Logger
}

func (opts *Options) debug(msg string, keyvals ...interface{}) {
	if opts.Logger != nil {
		opts.Logger.Debug(msg, keyvals...)
	}
}

// LineData is the result of a 1D extraction.
type LineData struct {
	// Coords holds the coordinate of each sample along the extraction
	// direction, in grid order.
	Coords []float64
	// Points holds the full coordinates of each sample, in grid order.
	Points [][3]float64
	// Data has shape (channels, samples).
	Data *grid.Array
	// Names gives the name of each channel.
	Names []string
}

// GridData is the result of a 2D or 3D extraction.
type GridData struct {
	Shape grid.Shape
	// Points has shape (Shape..., 3).
	Points *grid.Array
	// Data has shape (channels, Shape...).
	Data *grid.Array
	// Names gives the name of each channel.
	Names []string
}

// Samples sorts the points of frame into grid order and reads every selector,
// permuting the values the same way. values[i][j] is the value of sels[i] at
// sorted[j].
func Samples(
	frame snapshot.Frame, sels []field.Selector,
) (sorted [][3]float64, values [][]float64, err error) {
	raw, err := field.ReadAll(frame, sels)
	if err != nil {
		return nil, nil, err
	}

	perm, sorted := order.Sort(frame.Points())
	values = make([][]float64, len(raw))
	for i := range raw {
		values[i] = order.Permute(perm, raw[i])
	}
	return sorted, values, nil
}

// Line extracts the selected fields of frame as flat arrays in grid order.
func Line(
	frame snapshot.Frame, sels []field.Selector, opts Options,
) (*LineData, error) {
	if opts.Direction < 0 || opts.Direction > 2 {
		return nil, fmt.Errorf("The extraction direction must be 0, 1, or 2, "+
			"not %d.", opts.Direction)
	}

	sorted, values, err := Samples(frame, sels)
	if err != nil {
		return nil, err
	}

	keep := make([]int, 0, len(sorted))
	for i := range sorted {
		x := sorted[i][opts.Direction]
		if (opts.Min == nil || x >= *opts.Min) &&
			(opts.Max == nil || x <= *opts.Max) {
			keep = append(keep, i)
		}
	}
	opts.debug("extracted line", "samples", len(sorted), "kept", len(keep),
		"channels", len(sels))

	out := &LineData{
		Coords: make([]float64, len(keep)),
		Points: make([][3]float64, len(keep)),
		Data:   grid.NewArray(grid.Shape{len(sels), len(keep)}),
		Names:  field.Names(sels),
	}
	for j, i := range keep {
		out.Coords[j] = sorted[i][opts.Direction]
		out.Points[j] = sorted[i]
		for c := range values {
			out.Data.Set(values[c][i], c, j)
		}
	}

	return out, nil
}

// Grid extracts the selected fields of frame as a dims-dimensional structured
// grid (dims = 2 or 3). The grid shape is inferred from the sorted points.
func Grid(
	frame snapshot.Frame, sels []field.Selector, dims int, opts Options,
) (*GridData, error) {
	if dims != 2 && dims != 3 {
		return nil, fmt.Errorf("Grids must be 2- or 3-dimensional, not "+
			"%d-dimensional.", dims)
	}

	sorted, values, err := Samples(frame, sels)
	if err != nil {
		return nil, err
	}

	shape, err := grid.Infer(sorted, dims)
	if err != nil {
		return nil, err
	}
	opts.debug("inferred grid shape", "shape", []int(shape),
		"samples", len(sorted))

	return Reshape(sorted, values, shape, field.Names(sels), opts)
}

// Reshape builds a GridData from samples that are already in grid order,
// using a known shape rather than inferring one.
func Reshape(
	sorted [][3]float64, values [][]float64, shape grid.Shape,
	names []string, opts Options,
) (*GridData, error) {
	if opts.Strict {
		if err := grid.CheckSeparable(sorted, shape); err != nil {
			return nil, err
		}
	}

	points, err := grid.ReshapePoints(sorted, shape)
	if err != nil {
		return nil, err
	}
	data, err := grid.Reshape(values, shape)
	if err != nil {
		return nil, err
	}

	return &GridData{Shape: shape, Points: points, Data: data, Names: names}, nil
}
