package snapshot

import (
	"context"
	"fmt"
)

// Scaled wraps a Source whose declared time coordinates are step indices
// (0, 1, 2, ...) or otherwise in the wrong units and maps them onto physical
// times through t' = start + scale*t. At accepts physical times.
type Scaled struct {
	Source
	start, scale float64
}

// ScaleTimes rescales src so that its first declared time maps to start and
// its last maps to end. Like a temporal shift/scale filter, this assumes the
// underlying times are step indices, so the scale is (end - start)/(n - 1)
// for n declared times.
func ScaleTimes(src Source, start, end float64) (*Scaled, error) {
	n := len(src.Times())
	if n < 2 {
		return nil, fmt.Errorf("At least two time coordinates are needed "+
			"to rescale to [%g, %g], but the source declares %d.",
			start, end, n)
	} else if end <= start {
		return nil, fmt.Errorf("The end time, %g, must be larger than the "+
			"start time, %g.", end, start)
	}
	return &Scaled{src, start, (end - start) / float64(n-1)}, nil
}

// ScaleTimesBy rescales src with a fixed factor instead of an end time.
func ScaleTimesBy(src Source, start, scale float64) (*Scaled, error) {
	if scale <= 0 {
		return nil, fmt.Errorf("The time scale must be positive, got %g.",
			scale)
	}
	return &Scaled{src, start, scale}, nil
}

func (s *Scaled) Times() []float64 {
	times := s.Source.Times()
	for i := range times {
		times[i] = s.start + s.scale*times[i]
	}
	return times
}

// At snaps t to the rescaled time coordinates before mapping it back, so
// that a time taken from Times() always lands exactly on its frame.
func (s *Scaled) At(ctx context.Context, t float64) (Frame, error) {
	orig := s.Source.Times()
	if len(orig) == 0 {
		return s.Source.At(ctx, (t-s.start)/s.scale)
	}
	return s.Source.At(ctx, orig[snapIndex(s.Times(), t)])
}
