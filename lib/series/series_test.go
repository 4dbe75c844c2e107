package series

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/phil-mansfield/gridify/lib/eq"
	"github.com/phil-mansfield/gridify/lib/extract"
	"github.com/phil-mansfield/gridify/lib/field"
	"github.com/phil-mansfield/gridify/lib/grid"
	"github.com/phil-mansfield/gridify/lib/snapshot"
)

var square = [][3]float64{{1, 1, 0}, {0, 0, 0}, {1, 0, 0}, {0, 1, 0}}

// squareFrame returns a 2 x 2 grid listed out of order with f given in grid
// order.
func squareFrame(f [4]float64) *snapshot.MemoryFrame {
	return snapshot.NewMemoryFrame(square).
		AddScalar("f", []float64{f[3], f[0], f[2], f[1]})
}

func mustMemory(t *testing.T, times []float64, frames ...*snapshot.MemoryFrame) *snapshot.Memory {
	src, err := snapshot.NewMemory(times, frames)
	if err != nil {
		t.Fatalf("Expected NewMemory() to succeed, got '%s'.", err.Error())
	}
	return src
}

var fSel = []field.Selector{field.Scalar{Name: "f"}}

func TestGrid(t *testing.T) {
	src := mustMemory(t, []float64{0, 1},
		squareFrame([4]float64{1, 2, 3, 4}), squareFrame([4]float64{5, 6, 7, 8}))

	s, err := Grid(context.Background(), src, fSel, 2, nil, extract.Options{})
	if err != nil {
		t.Fatalf("Expected Grid() to succeed, got '%s'.", err.Error())
	}

	if diff := cmp.Diff(grid.Shape{2, 1, 2, 2}, s.Data.Shape()); diff != "" {
		t.Errorf("Data shape mismatch (-want +got):\n%s", diff)
	}
	if !eq.Float64s(s.Frame(0).Flatten(), []float64{1, 2, 3, 4}) {
		t.Errorf("Expected frame 0 = [1 2 3 4], got %g.", s.Frame(0).Flatten())
	} else if !eq.Float64s(s.Frame(1).Flatten(), []float64{5, 6, 7, 8}) {
		t.Errorf("Expected frame 1 = [5 6 7 8], got %g.", s.Frame(1).Flatten())
	} else if !eq.Float64s(s.Times, []float64{0, 1}) {
		t.Errorf("Expected times [0 1], got %g.", s.Times)
	}
	if s.Data.At(1, 0, 0, 1) != 6 {
		t.Errorf("Expected data[1, 0, 0, 1] = 6, got %g.", s.Data.At(1, 0, 0, 1))
	}
}

func TestGridExplicitTimes(t *testing.T) {
	src := mustMemory(t, []float64{0, 1, 2},
		squareFrame([4]float64{1, 2, 3, 4}), squareFrame([4]float64{5, 6, 7, 8}),
		squareFrame([4]float64{9, 10, 11, 12}))

	times, err := Select(src.Times(), []int{2, 0})
	if err != nil {
		t.Fatalf("Expected Select() to succeed, got '%s'.", err.Error())
	}

	s, err := Grid(context.Background(), src, fSel, 2, times, extract.Options{})
	if err != nil {
		t.Fatalf("Expected Grid() to succeed, got '%s'.", err.Error())
	}
	if !eq.Float64s(s.Data.Flatten(), []float64{9, 10, 11, 12, 1, 2, 3, 4}) {
		t.Errorf("Expected frames 2 then 0, got %g.", s.Data.Flatten())
	}

	if _, err := Select(src.Times(), []int{3}); err == nil {
		t.Errorf("Expected an out-of-range index to fail.")
	}
}

func TestGridMismatchedFrame(t *testing.T) {
	five := snapshot.NewMemoryFrame(append([][3]float64{{2, 0, 0}}, square...)).
		AddScalar("f", []float64{0, 1, 2, 3, 4})
	src := mustMemory(t, []float64{0, 1}, squareFrame([4]float64{1, 2, 3, 4}), five)

	_, err := Grid(context.Background(), src, fSel, 2, nil, extract.Options{})

	var shapeErr *grid.ShapeError
	if !errors.As(err, &shapeErr) {
		t.Fatalf("Expected a ShapeError, got %v.", err)
	} else if shapeErr.Time != 1 {
		t.Errorf("Expected the error to name time index 1, got %d.", shapeErr.Time)
	} else if shapeErr.Want != 4 || shapeErr.Got != 5 {
		t.Errorf("Expected Want = 4 and Got = 5, got %+v.", *shapeErr)
	}
}

func TestGridBadFirstFrame(t *testing.T) {
	three := snapshot.NewMemoryFrame(square[:3]).AddScalar("f", []float64{1, 2, 3})
	src := mustMemory(t, []float64{0, 1}, three, squareFrame([4]float64{}))

	_, err := Grid(context.Background(), src, fSel, 2, nil, extract.Options{})
	var shapeErr *grid.ShapeError
	if !errors.As(err, &shapeErr) || shapeErr.Time != 0 {
		t.Errorf("Expected a ShapeError at time index 0, got %v.", err)
	}
}

func TestGridFailure(t *testing.T) {
	static := mustMemory(t, nil, squareFrame([4]float64{}))
	if _, err := Grid(context.Background(), static, fSel, 2, nil,
		extract.Options{}); !errors.Is(err, ErrNoTimes) {
		t.Errorf("Expected a static source to fail with ErrNoTimes, got %v.", err)
	}

	src := mustMemory(t, []float64{0}, squareFrame([4]float64{}))
	sels := []field.Selector{field.Component{Name: "B", Axis: 2}}
	if _, err := Grid(context.Background(), src, sels, 2, nil,
		extract.Options{}); !errors.Is(err, field.ErrUnknownField) {
		t.Errorf("Expected an unknown field to fail with ErrUnknownField, got %v.", err)
	}

	if _, err := Grid(context.Background(), src, fSel, 1, nil,
		extract.Options{}); err == nil {
		t.Errorf("Expected a 1D grid series to fail.")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Grid(ctx, src, fSel, 2, nil, extract.Options{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected a cancelled context to fail, got %v.", err)
	}
}

func TestCollect(t *testing.T) {
	line := func(n int) *snapshot.MemoryFrame {
		points, f := make([][3]float64, n), make([]float64, n)
		for i := range points {
			// Listed in reverse order.
			points[i] = [3]float64{float64(n - 1 - i), 0, 0}
			f[i] = float64(10 * (n - 1 - i))
		}
		return snapshot.NewMemoryFrame(points).AddScalar("f", f)
	}
	src := mustMemory(t, []float64{0, 0.5}, line(3), line(5))

	s, err := Collect(context.Background(), src, fSel, nil, extract.Options{})
	if err != nil {
		t.Fatalf("Expected Collect() to succeed, got '%s'.", err.Error())
	}

	if len(s.Points) != 2 || len(s.Data) != 2 {
		t.Fatalf("Expected 2 frames, got %d and %d.", len(s.Points), len(s.Data))
	}
	if !eq.Float64s(s.Data[0].Flatten(), []float64{0, 10, 20}) {
		t.Errorf("Expected frame 0 = [0 10 20], got %g.", s.Data[0].Flatten())
	} else if !eq.Float64s(s.Data[1].Flatten(), []float64{0, 10, 20, 30, 40}) {
		t.Errorf("Expected frame 1 = [0 10 20 30 40], got %g.", s.Data[1].Flatten())
	} else if s.Points[1][4] != [3]float64{4, 0, 0} {
		t.Errorf("Expected the last point of frame 1 to be (4, 0, 0), got %g.",
			s.Points[1][4])
	} else if !eq.Strings(s.Names, []string{"f"}) {
		t.Errorf("Expected names [f], got %s.", s.Names)
	}
}
