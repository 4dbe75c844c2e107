/*package plot renders extracted 1D data as line charts. Each channel of a
line extraction (or each frame of a collected time series) becomes one
labeled curve. The output format is chosen from the file extension, so
".png", ".svg", ".pdf" and ".eps" all work.
*/
package plot

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/phil-mansfield/gridify/lib/extract"
	"github.com/phil-mansfield/gridify/lib/series"
)

// Curve is a single labeled line.
type Curve struct {
	Label string
	X, Y  []float64
}

// Options control the look of a chart. Zero-valued sizes are replaced by
// DefaultWidth and DefaultHeight.
type Options struct {
	Title, XLabel, YLabel string
	LogX, LogY            bool
	Width, Height         vg.Length
}

const (
	DefaultWidth  = 8 * vg.Inch
	DefaultHeight = 5 * vg.Inch
)

// Line returns one curve per channel of ld, plotted against ld.Coords.
func Line(ld *extract.LineData) []Curve {
	curves := make([]Curve, len(ld.Names))
	for c := range curves {
		curves[c] = Curve{
			Label: ld.Names[c],
			X:     ld.Coords,
			Y:     ld.Data.Sub(c).Flatten(),
		}
	}
	return curves
}

// Series returns one curve per frame of s for a single channel, plotted
// against the coordinate along direction.
func Series(s *series.Series, channel, direction int) ([]Curve, error) {
	if channel < 0 || channel >= len(s.Names) {
		return nil, fmt.Errorf("Channel %d does not exist. There are only %d "+
			"channels.", channel, len(s.Names))
	} else if direction < 0 || direction > 2 {
		return nil, fmt.Errorf("The direction must be 0, 1, or 2, not %d.",
			direction)
	}

	curves := make([]Curve, len(s.Times))
	for i := range s.Times {
		x := make([]float64, len(s.Points[i]))
		for j := range x {
			x[j] = s.Points[i][j][direction]
		}
		curves[i] = Curve{
			Label: fmt.Sprintf("%s, t = %g", s.Names[channel], s.Times[i]),
			X:     x,
			Y:     s.Data[i].Sub(channel).Flatten(),
		}
	}
	return curves, nil
}

// New builds a chart from curves.
func New(curves []Curve, opts Options) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = opts.XLabel
	p.Y.Label.Text = opts.YLabel

	if opts.LogX {
		p.X.Scale = plot.LogScale{}
		p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	}
	if opts.LogY {
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	}

	for i, c := range curves {
		if len(c.X) != len(c.Y) {
			return nil, fmt.Errorf("Curve '%s' has %d x values but %d y "+
				"values.", c.Label, len(c.X), len(c.Y))
		}

		pts := make(plotter.XYs, len(c.X))
		for j := range pts {
			if (opts.LogX && c.X[j] <= 0) || (opts.LogY && c.Y[j] <= 0) {
				return nil, fmt.Errorf("Point %d of curve '%s', (%g, %g), "+
					"cannot be shown on a log axis.", j, c.Label, c.X[j],
					c.Y[j])
			}
			pts[j] = plotter.XY{X: c.X[j], Y: c.Y[j]}
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("curve '%s': %w", c.Label, err)
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(c.Label, line)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	return p, nil
}

// Save renders curves to fname.
func Save(fname string, curves []Curve, opts Options) error {
	p, err := New(curves, opts)
	if err != nil {
		return err
	}

	w, h := opts.Width, opts.Height
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}
	if err := p.Save(w, h, fname); err != nil {
		return fmt.Errorf("save plot: %w", err)
	}
	return nil
}
