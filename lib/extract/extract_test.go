package extract

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/phil-mansfield/gridify/lib/eq"
	"github.com/phil-mansfield/gridify/lib/field"
	"github.com/phil-mansfield/gridify/lib/grid"
	"github.com/phil-mansfield/gridify/lib/snapshot"
)

// shuffledGrid returns a frame whose points form a Cartesian grid with the
// given extents, listed in a random order. The scalar "f" and the vector
// "v" are set so that, in grid order, f = i and v = (i, -i, 2i).
func shuffledGrid(seed int64, nx, ny, nz int) *snapshot.MemoryFrame {
	n := nx * ny * nz
	perm := rand.New(rand.NewSource(seed)).Perm(n)

	points := make([][3]float64, n)
	f := make([]float64, n)
	v := make([][3]float64, n)
	for i := 0; i < n; i++ {
		x, y, z := i/(ny*nz), (i/nz)%ny, i%nz
		j := perm[i]
		points[j] = [3]float64{0.5 * float64(x), float64(y) - 3, 10 * float64(z)}
		f[j] = float64(i)
		v[j] = [3]float64{float64(i), -float64(i), 2 * float64(i)}
	}

	return snapshot.NewMemoryFrame(points).AddScalar("f", f).AddVector("v", v)
}

func mustParse(t *testing.T, names ...string) []field.Selector {
	sels, err := field.ParseAll(names)
	if err != nil {
		t.Fatalf("Expected ParseAll(%s) to succeed, got '%s'.", names, err.Error())
	}
	return sels
}

func TestLine(t *testing.T) {
	frame := snapshot.NewMemoryFrame([][3]float64{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}}).
		AddScalar("f", []float64{10, 20, 30})

	line, err := Line(frame, mustParse(t, "f"), Options{})
	if err != nil {
		t.Fatalf("Expected Line() to succeed, got '%s'.", err.Error())
	}

	if !eq.Float64s(line.Coords, []float64{0, 1, 2}) {
		t.Errorf("Expected coordinates [0 1 2], got %g.", line.Coords)
	} else if diff := cmp.Diff(grid.Shape{1, 3}, line.Data.Shape()); diff != "" {
		t.Errorf("Data shape mismatch (-want +got):\n%s", diff)
	} else if !eq.Float64s(line.Data.Flatten(), []float64{10, 20, 30}) {
		t.Errorf("Expected data [[10 20 30]], got %g.", line.Data.Flatten())
	} else if !eq.Strings(line.Names, []string{"f"}) {
		t.Errorf("Expected names [f], got %s.", line.Names)
	}
}

func TestLineUnsorted(t *testing.T) {
	frame := snapshot.NewMemoryFrame([][3]float64{{0, 2, 0}, {0, 0, 0}, {0, 1, 0}}).
		AddScalar("f", []float64{30, 10, 20}).
		AddVector("E", [][3]float64{{3, 0, 0}, {1, 0, 0}, {2, 0, 0}})

	lo, hi := 0.5, 2.0
	line, err := Line(frame, mustParse(t, "f", "E_X"),
		Options{Direction: 1, Min: &lo, Max: &hi})
	if err != nil {
		t.Fatalf("Expected Line() to succeed, got '%s'.", err.Error())
	}

	if !eq.Float64s(line.Coords, []float64{1, 2}) {
		t.Errorf("Expected y coordinates [1 2], got %g.", line.Coords)
	} else if !eq.Float64s(line.Data.Sub(0).Flatten(), []float64{20, 30}) {
		t.Errorf("Expected f = [20 30], got %g.", line.Data.Sub(0).Flatten())
	} else if !eq.Float64s(line.Data.Sub(1).Flatten(), []float64{2, 3}) {
		t.Errorf("Expected E_X = [2 3], got %g.", line.Data.Sub(1).Flatten())
	}

	if _, err := Line(frame, nil, Options{Direction: 3}); err == nil {
		t.Errorf("Expected Direction = 3 to fail.")
	}
}

func TestLineEmptyRange(t *testing.T) {
	frame := snapshot.NewMemoryFrame([][3]float64{{0, 0, 0}, {1, 0, 0}}).
		AddScalar("f", []float64{1, 2})
	lo := 5.0
	line, err := Line(frame, mustParse(t, "f"), Options{Min: &lo})
	if err != nil {
		t.Fatalf("Expected Line() to succeed, got '%s'.", err.Error())
	}
	if diff := cmp.Diff(grid.Shape{1, 0}, line.Data.Shape()); diff != "" {
		t.Errorf("Data shape mismatch (-want +got):\n%s", diff)
	}
}

func TestGrid2D(t *testing.T) {
	// A 2 x 3 grid listed in a scrambled order. In grid order f = 1..6.
	points := [][3]float64{
		{1, 2, 0}, {0, 0, 0}, {1, 0, 0}, {0, 2, 0}, {0, 1, 0}, {1, 1, 0},
	}
	f := []float64{6, 1, 4, 3, 2, 5}
	frame := snapshot.NewMemoryFrame(points).AddScalar("f", f)

	g, err := Grid(frame, mustParse(t, "f"), 2, Options{Strict: true})
	if err != nil {
		t.Fatalf("Expected Grid() to succeed, got '%s'.", err.Error())
	}

	if diff := cmp.Diff(grid.Shape{1, 2, 3}, g.Data.Shape()); diff != "" {
		t.Errorf("Data shape mismatch (-want +got):\n%s", diff)
	}
	row := []float64{g.Data.At(0, 0, 0), g.Data.At(0, 0, 1), g.Data.At(0, 0, 2)}
	if !eq.Float64s(row, []float64{1, 2, 3}) {
		t.Errorf("Expected the x = 0 row to be [1 2 3], got %g.", row)
	}
	if diff := cmp.Diff(grid.Shape{2, 3, 3}, g.Points.Shape()); diff != "" {
		t.Errorf("Points shape mismatch (-want +got):\n%s", diff)
	} else if g.Points.At(1, 0, 0) != 1 || g.Points.At(1, 0, 1) != 0 {
		t.Errorf("Expected point [1, 0] to be (1, 0, 0).")
	}
}

func TestGridRoundTrip(t *testing.T) {
	tests := []struct {
		dims       int
		nx, ny, nz int
	}{
		{2, 4, 5, 1},
		{2, 1, 7, 1},
		{3, 3, 4, 5},
		{3, 2, 2, 2},
	}

	for i := range tests {
		nx, ny, nz := tests[i].nx, tests[i].ny, tests[i].nz
		frame := shuffledGrid(int64(i), nx, ny, nz)

		g, err := Grid(frame, mustParse(t, "f", "v_Y"), tests[i].dims,
			Options{Strict: true})
		if err != nil {
			t.Errorf("%d) Expected Grid() to succeed, got '%s'.", i, err.Error())
			continue
		}

		shape := grid.Shape{nx, ny, nz}[:tests[i].dims]
		if diff := cmp.Diff(shape, g.Shape); diff != "" {
			t.Errorf("%d) Shape mismatch (-want +got):\n%s", i, diff)
			continue
		}

		n := nx * ny * nz
		f, vy := g.Data.Sub(0).Flatten(), g.Data.Sub(1).Flatten()
		for j := 0; j < n; j++ {
			if f[j] != float64(j) || vy[j] != -float64(j) {
				t.Errorf("%d) Expected f[%d] = %d and v_Y[%d] = %d, got %g "+
					"and %g.", i, j, j, j, -j, f[j], vy[j])
				break
			}
		}
	}
}

func TestGridFailure(t *testing.T) {
	frame := shuffledGrid(0, 3, 3, 1)

	if _, err := Grid(frame, mustParse(t, "g"), 2, Options{}); !errors.Is(err, field.ErrUnknownField) {
		t.Errorf("Expected an unknown field to fail with ErrUnknownField, got %v.", err)
	}
	if _, err := Grid(frame, mustParse(t, "B_X"), 2, Options{}); !errors.Is(err, field.ErrUnknownField) {
		t.Errorf("Expected an unknown vector to fail with ErrUnknownField, got %v.", err)
	}
	if _, err := Grid(frame, mustParse(t, "f"), 4, Options{}); err == nil {
		t.Errorf("Expected a 4D grid to fail.")
	}

	// Drop one sample: the inferred 3 x 3 shape no longer matches.
	points, f := frame.Points()[:8], make([]float64, 8)
	short := snapshot.NewMemoryFrame(points).AddScalar("f", f)
	if _, err := Grid(short, mustParse(t, "f"), 2, Options{}); !errors.Is(err, grid.ErrShapeMismatch) {
		t.Errorf("Expected a missing sample to fail with ErrShapeMismatch, got %v.", err)
	}
}

func TestReshapeStrict(t *testing.T) {
	sorted := [][3]float64{{0, 0, 0}, {0, 1, 0}, {1, 0, 0}, {1, 2, 0}}
	values := [][]float64{{1, 2, 3, 4}}

	if _, err := Reshape(sorted, values, grid.Shape{2, 2}, []string{"f"},
		Options{}); err != nil {
		t.Errorf("Expected a non-strict reshape to succeed, got '%s'.", err.Error())
	}
	if _, err := Reshape(sorted, values, grid.Shape{2, 2}, []string{"f"},
		Options{Strict: true}); !errors.Is(err, grid.ErrNotSeparable) {
		t.Errorf("Expected a strict reshape to fail with ErrNotSeparable, got %v.", err)
	}
}
