package snapshot

import (
	"context"
	"testing"

	"github.com/phil-mansfield/gridify/lib/eq"
)

func TestScaleTimes(t *testing.T) {
	src, err := ScaleTimes(threeFrames(t), 10, 20)
	if err != nil {
		t.Fatalf("Expected ScaleTimes() to succeed, got '%s'.", err.Error())
	}

	// threeFrames declares 0, 0.5, 1, which are treated as step indices.
	if times := src.Times(); !eq.Float64sEps(times, []float64{10, 12.5, 15}, 1e-12) {
		t.Errorf("Expected scaled times [10 12.5 15], got %g.", times)
	}

	for i, tt := range src.Times() {
		frame, err := src.At(context.Background(), tt)
		if err != nil {
			t.Fatalf("%d) Expected At(%g) to succeed, got '%s'.", i, tt, err.Error())
		}
		if f, _ := frame.Scalar("f"); f[0] != float64(i+1) {
			t.Errorf("%d) Expected At(%g) to give f = %d, got %g.", i, tt, i+1, f[0])
		}
	}

	if _, err := ScaleTimes(threeFrames(t), 1, 0); err == nil {
		t.Errorf("Expected end < start to fail.")
	}
	if _, err := ScaleTimesBy(threeFrames(t), 0, 0); err == nil {
		t.Errorf("Expected a zero scale to fail.")
	}
}
