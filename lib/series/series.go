/*package series collects extractions over a sequence of time coordinates.

Collect makes no assumptions about the geometry of each frame and returns the
frames as they are. Grid assumes that the grid does not change in time: the
shape is inferred once from the first frame, every later frame is reshaped
against it, and the frames are stacked into a single array of shape
(time, channels, shape...). A later frame with a different number of samples
is an error that names the frame's time index. A frame whose geometry changes
but whose sample count does not is not detected unless Options.Strict is set.
*/
package series

import (
	"context"
	"errors"
	"fmt"

	"github.com/phil-mansfield/gridify/lib/extract"
	"github.com/phil-mansfield/gridify/lib/field"
	"github.com/phil-mansfield/gridify/lib/grid"
	"github.com/phil-mansfield/gridify/lib/snapshot"
)

// ErrNoTimes is returned by Grid when there are no time coordinates to
// evaluate.
var ErrNoTimes = errors.New("no time coordinates")

// Series is the result of Collect. Points[i] and Data[i] are the sorted
// points and the (channels, samples) array of the frame at Times[i].
type Series struct {
	Times  []float64
	Points [][][3]float64
	Data   []*grid.Array
	Names  []string
}

// GridSeries is the result of Grid.
type GridSeries struct {
	Times []float64
	Shape grid.Shape
	// Points has shape (Shape..., 3) and is taken from the first frame.
	Points *grid.Array
	// Data has shape (time, channels, Shape...).
	Data  *grid.Array
	Names []string
}

// Frame returns the (channels, Shape...) array of time index i. It shares
// memory with s.Data.
func (s *GridSeries) Frame(i int) *grid.Array { return s.Data.Sub(i) }

// frameTimes returns times or, if it is nil, the times declared by src.
func frameTimes(src snapshot.Source, times []float64) []float64 {
	if times == nil {
		return src.Times()
	}
	out := make([]float64, len(times))
	copy(out, times)
	return out
}

// evaluate evaluates src at times[i] and returns its sorted samples.
func evaluate(
	ctx context.Context, src snapshot.Source, sels []field.Selector,
	times []float64, i int,
) ([][3]float64, [][]float64, error) {
	frame, err := src.At(ctx, times[i])
	if err != nil {
		return nil, nil, fmt.Errorf("Could not evaluate frame %d at t = %g: "+
			"%w", i, times[i], err)
	}
	sorted, values, err := extract.Samples(frame, sels)
	if err != nil {
		return nil, nil, fmt.Errorf("frame %d (t = %g): %w", i, times[i], err)
	}
	return sorted, values, nil
}

// Collect evaluates src at each of times (or at src.Times() if times is nil)
// and extracts the selected fields of every frame as flat arrays in grid
// order. Frames may have different numbers of samples.
func Collect(
	ctx context.Context, src snapshot.Source, sels []field.Selector,
	times []float64, opts extract.Options,
) (*Series, error) {
	times = frameTimes(src, times)
	out := &Series{
		Times:  times,
		Points: make([][][3]float64, 0, len(times)),
		Data:   make([]*grid.Array, 0, len(times)),
		Names:  field.Names(sels),
	}

	for i := range times {
		sorted, values, err := evaluate(ctx, src, sels, times, i)
		if err != nil {
			return nil, err
		}

		data, err := grid.Reshape(values, grid.Shape{len(sorted)})
		if err != nil {
			return nil, err
		}
		out.Points = append(out.Points, sorted)
		out.Data = append(out.Data, data)

		if opts.Logger != nil {
			opts.Logger.Debug("collected frame", "index", i, "t", times[i],
				"samples", len(sorted))
		}
	}

	return out, nil
}

// Grid evaluates src at each of times (or at src.Times() if times is nil) and
// extracts the selected fields as a dims-dimensional grid (dims = 2 or 3)
// whose shape is inferred from the first frame only.
func Grid(
	ctx context.Context, src snapshot.Source, sels []field.Selector,
	dims int, times []float64, opts extract.Options,
) (*GridSeries, error) {
	if dims != 2 && dims != 3 {
		return nil, fmt.Errorf("Grids must be 2- or 3-dimensional, not "+
			"%d-dimensional.", dims)
	}

	times = frameTimes(src, times)
	if len(times) == 0 {
		return nil, ErrNoTimes
	}

	// The first frame fixes the geometry of every frame.
	sorted, values, err := evaluate(ctx, src, sels, times, 0)
	if err != nil {
		return nil, err
	}
	shape, err := grid.Infer(sorted, dims)
	if err != nil {
		return nil, withTime(err, 0)
	}
	first, err := extract.Reshape(sorted, values, shape, field.Names(sels), opts)
	if err != nil {
		return nil, withTime(err, 0)
	}
	if opts.Logger != nil {
		opts.Logger.Debug("inferred grid shape from first frame",
			"shape", []int(shape), "frames", len(times))
	}

	out := &GridSeries{
		Times:  times,
		Shape:  shape,
		Points: first.Points,
		Data:   grid.NewArray(append(grid.Shape{len(times)}, first.Data.Shape()...)),
		Names:  first.Names,
	}
	copy(out.Data.Sub(0).Data(), first.Data.Data())

	for i := 1; i < len(times); i++ {
		sorted, values, err := evaluate(ctx, src, sels, times, i)
		if err != nil {
			return nil, err
		}

		if err := shape.Check(len(sorted)); err != nil {
			return nil, withTime(err, i)
		}
		if opts.Strict {
			if err := grid.CheckSeparable(sorted, shape); err != nil {
				return nil, fmt.Errorf("frame %d (t = %g): %w", i, times[i], err)
			}
		}

		data, err := grid.Reshape(values, shape)
		if err != nil {
			return nil, withTime(err, i)
		}
		copy(out.Data.Sub(i).Data(), data.Data())
	}

	return out, nil
}

// withTime records the time index in a ShapeError and passes other errors
// through unchanged.
func withTime(err error, i int) error {
	var shapeErr *grid.ShapeError
	if errors.As(err, &shapeErr) {
		shapeErr.Time = i
	}
	return err
}

// Select returns the times at the given indices, e.g. indices expanded from
// a sequence format string.
func Select(times []float64, indices []int) ([]float64, error) {
	out := make([]float64, len(indices))
	for i, idx := range indices {
		if idx < 0 || idx >= len(times) {
			return nil, fmt.Errorf("Time index %d is out of range: there are "+
				"only %d time coordinates.", idx, len(times))
		}
		out[i] = times[idx]
	}
	return out, nil
}
