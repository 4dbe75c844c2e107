package snapshot

import (
	"context"
	"errors"
	"testing"

	"github.com/phil-mansfield/gridify/lib/eq"
)

func threeFrames(t *testing.T) *Memory {
	frames := []*MemoryFrame{
		NewMemoryFrame([][3]float64{{0, 0, 0}}).AddScalar("f", []float64{1}),
		NewMemoryFrame([][3]float64{{0, 0, 0}}).AddScalar("f", []float64{2}),
		NewMemoryFrame([][3]float64{{0, 0, 0}}).AddScalar("f", []float64{3}),
	}
	m, err := NewMemory([]float64{0, 0.5, 1}, frames)
	if err != nil {
		t.Fatalf("Expected NewMemory() to succeed, got error '%s'.", err.Error())
	}
	return m
}

func TestMemoryAt(t *testing.T) {
	m := threeFrames(t)

	tests := []struct {
		t   float64
		exp float64
	}{
		{-1, 1}, {0, 1}, {0.25, 1}, {0.5, 2}, {0.99, 2}, {1, 3}, {10, 3},
	}

	for i := range tests {
		frame, err := m.At(context.Background(), tests[i].t)
		if err != nil {
			t.Errorf("%d) Expected At(%g) to succeed, got error '%s'.",
				i, tests[i].t, err.Error())
			continue
		}
		f, _ := frame.Scalar("f")
		if f[0] != tests[i].exp {
			t.Errorf("%d) Expected At(%g) to give f = %g, got %g.",
				i, tests[i].t, tests[i].exp, f[0])
		}
	}

	if times := m.Times(); !eq.Float64s(times, []float64{0, 0.5, 1}) {
		t.Errorf("Expected Times() = [0 0.5 1], got %g.", times)
	}
}

func TestMemoryUnknownField(t *testing.T) {
	m := threeFrames(t)
	if _, err := m.Scalar("g"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("Expected Scalar(\"g\") to fail with ErrUnknownField, got %v.", err)
	}
	if _, err := m.Vector("f"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("Expected Vector(\"f\") to fail with ErrUnknownField, got %v.", err)
	}
}

func TestNewMemoryFailure(t *testing.T) {
	frame := NewMemoryFrame(nil)
	tests := []struct {
		times  []float64
		frames []*MemoryFrame
	}{
		{nil, nil},
		{nil, []*MemoryFrame{frame, frame}},
		{[]float64{0}, []*MemoryFrame{frame, frame}},
		{[]float64{1, 0}, []*MemoryFrame{frame, frame}},
		{[]float64{1, 1}, []*MemoryFrame{frame, frame}},
	}

	for i := range tests {
		if _, err := NewMemory(tests[i].times, tests[i].frames); err == nil {
			t.Errorf("%d) Expected NewMemory(%g, ...) with %d frames to fail.",
				i, tests[i].times, len(tests[i].frames))
		}
	}

	if _, err := NewMemory(nil, []*MemoryFrame{frame}); err != nil {
		t.Errorf("Expected a static source to succeed, got '%s'.", err.Error())
	}
}

func TestAtCancelled(t *testing.T) {
	m := threeFrames(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := m.At(ctx, 0); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected At() on a cancelled context to fail, got %v.", err)
	}
}
