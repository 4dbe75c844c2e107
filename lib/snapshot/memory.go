package snapshot

import (
	"context"
	"fmt"
	"sort"
)

// MemoryFrame is a Frame whose points and fields are held in memory. It is
// mainly intended for tests and for callers that already have their data in
// arrays.
type MemoryFrame struct {
	points  [][3]float64
	scalars map[string][]float64
	vectors map[string][][3]float64
}

// Memory is a Source made out of a fixed list of MemoryFrames, one per time
// coordinate. See the Source interface for method documentation.
type Memory struct {
	times  []float64
	frames []*MemoryFrame
}

// Type assertions
var (
	_ Frame  = &MemoryFrame{}
	_ Source = &Memory{}
)

// NewMemoryFrame creates a frame with the given points and no fields.
func NewMemoryFrame(points [][3]float64) *MemoryFrame {
	return &MemoryFrame{
		points:  points,
		scalars: map[string][]float64{},
		vectors: map[string][][3]float64{},
	}
}

// AddScalar associates a scalar field with the frame and returns the frame
// so that calls can be chained.
func (f *MemoryFrame) AddScalar(name string, x []float64) *MemoryFrame {
	f.scalars[name] = x
	return f
}

// AddVector associates a vector field with the frame and returns the frame
// so that calls can be chained.
func (f *MemoryFrame) AddVector(name string, x [][3]float64) *MemoryFrame {
	f.vectors[name] = x
	return f
}

func (f *MemoryFrame) Points() [][3]float64 { return f.points }

func (f *MemoryFrame) Scalar(name string) ([]float64, error) {
	x, ok := f.scalars[name]
	if !ok {
		return nil, fmt.Errorf("no scalar field '%s': %w", name, ErrUnknownField)
	}
	return x, nil
}

func (f *MemoryFrame) Vector(name string) ([][3]float64, error) {
	x, ok := f.vectors[name]
	if !ok {
		return nil, fmt.Errorf("no vector field '%s': %w", name, ErrUnknownField)
	}
	return x, nil
}

// Names returns the sorted names of the frame's scalar and vector fields.
func (f *MemoryFrame) Names() (scalars, vectors []string) {
	scalars, vectors = []string{}, []string{}
	for name := range f.scalars {
		scalars = append(scalars, name)
	}
	for name := range f.vectors {
		vectors = append(vectors, name)
	}
	sort.Strings(scalars)
	sort.Strings(vectors)
	return scalars, vectors
}

// NewMemory creates a Source from frames and their time coordinates. The
// first frame is the current one. If times is nil, the source is static and
// declares no time coordinates; it must then have exactly one frame.
func NewMemory(times []float64, frames []*MemoryFrame) (*Memory, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("A Memory source needs at least one frame.")
	} else if times == nil && len(frames) != 1 {
		return nil, fmt.Errorf("%d frames were given without any time "+
			"coordinates.", len(frames))
	} else if times != nil && len(times) != len(frames) {
		return nil, fmt.Errorf("%d time coordinates were given for %d frames.",
			len(times), len(frames))
	}

	for i := 1; i < len(times); i++ {
		if times[i] <= times[i-1] {
			return nil, fmt.Errorf("Time coordinates must be strictly "+
				"increasing, but times[%d] = %g follows times[%d] = %g.",
				i, times[i], i-1, times[i-1])
		}
	}

	return &Memory{times: times, frames: frames}, nil
}

func (m *Memory) Points() [][3]float64 { return m.frames[0].Points() }

func (m *Memory) Scalar(name string) ([]float64, error) {
	return m.frames[0].Scalar(name)
}

func (m *Memory) Vector(name string) ([][3]float64, error) {
	return m.frames[0].Vector(name)
}

func (m *Memory) Times() []float64 {
	out := make([]float64, len(m.times))
	copy(out, m.times)
	return out
}

// At returns the frame with the largest time coordinate that is not after t.
// Times before the first coordinate map to the first frame, which is how
// pipeline-based visualization backends snap requested times to data.
func (m *Memory) At(ctx context.Context, t float64) (Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.frames[snapIndex(m.times, t)], nil
}

// snapIndex returns the index of the largest element of times which is <= t,
// or 0 if there is no such element.
func snapIndex(times []float64, t float64) int {
	i := sort.Search(len(times), func(i int) bool { return times[i] > t })
	if i == 0 {
		return 0
	}
	return i - 1
}
