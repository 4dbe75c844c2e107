package order

import (
	"math/rand"
	"testing"

	"github.com/phil-mansfield/gridify/lib/eq"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		p1, p2 [3]float64
		res    int
	}{
		{[3]float64{0, 0, 0}, [3]float64{0, 0, 0}, 0},
		{[3]float64{0, 9, 9}, [3]float64{1, 0, 0}, -1},
		{[3]float64{1, 0, 9}, [3]float64{1, 1, 0}, -1},
		{[3]float64{1, 1, 2}, [3]float64{1, 1, 1}, +1},
		{[3]float64{-1, 5, 5}, [3]float64{-2, 5, 5}, +1},
	}

	for i := range tests {
		if res := Compare(tests[i].p1, tests[i].p2); res != tests[i].res {
			t.Errorf("%d) Expected Compare(%g, %g) = %d, got %d.",
				i, tests[i].p1, tests[i].p2, tests[i].res, res)
		}
	}
}

func TestSort(t *testing.T) {
	points := [][3]float64{
		{1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {0, 0, 0}, {1, 1, 1}, {0, 1, 1},
	}
	permExp := []int{3, 2, 1, 5, 0, 4}
	sortedExp := [][3]float64{
		{0, 0, 0}, {0, 0, 1}, {0, 1, 0}, {0, 1, 1}, {1, 0, 0}, {1, 1, 1},
	}
	orig := append([][3]float64{}, points...)

	perm, sorted := Sort(points)
	if !eq.Ints(perm, permExp) {
		t.Errorf("Expected perm = %d, got %d.", permExp, perm)
	} else if !eq.Vec64s(sorted, sortedExp) {
		t.Errorf("Expected sorted = %g, got %g.", sortedExp, sorted)
	} else if !eq.Vec64s(points, orig) {
		t.Errorf("Sort() modified its input.")
	}
}

func TestSortIdempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(1337))
	points := make([][3]float64, 200)
	for i := range points {
		for dim := 0; dim < 3; dim++ {
			// Small integer range so that there are plenty of ties.
			points[i][dim] = float64(rng.Intn(4))
		}
	}

	_, sorted := Sort(points)
	if !IsSorted(sorted) {
		t.Fatalf("Sort() output is not in grid order.")
	}

	perm2, sorted2 := Sort(sorted)
	if !eq.Vec64s(sorted, sorted2) {
		t.Errorf("Sorting a sorted list changed it.")
	}
	for i := range perm2 {
		if perm2[i] != i {
			t.Errorf("Expected the identity permutation on sorted input, "+
				"got perm[%d] = %d.", i, perm2[i])
			break
		}
	}
}

func TestSortStableTies(t *testing.T) {
	points := [][3]float64{{1, 1, 1}, {0, 0, 0}, {1, 1, 1}, {0, 0, 0}, {1, 1, 1}}
	perm, _ := Sort(points)
	if exp := []int{1, 3, 0, 2, 4}; !eq.Ints(perm, exp) {
		t.Errorf("Expected duplicates to keep input order, perm = %d, got %d.",
			exp, perm)
	}
}

func TestPermute(t *testing.T) {
	points := [][3]float64{{2, 0, 0}, {0, 0, 0}, {1, 0, 0}}
	f := []float64{30, 10, 20}

	perm, _ := Sort(points)
	if out := Permute(perm, f); !eq.Float64s(out, []float64{10, 20, 30}) {
		t.Errorf("Expected Permute() = [10 20 30], got %g.", out)
	}
	if !eq.Float64s(f, []float64{30, 10, 20}) {
		t.Errorf("Permute() modified its input.")
	}
}
