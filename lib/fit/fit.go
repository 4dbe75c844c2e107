/*package fit fits straight lines and power laws to extracted 1D data. Its main
use is measuring the spectral index of a distribution function, f(p) ~ p^-s,
from a line extracted along the momentum axis.
*/
package fit

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Line is the least-squares fit y = Intercept + Slope*x.
type Line struct {
	Intercept, Slope float64

	// R2 is the coefficient of determination of the fit.
	R2 float64

	// N is the number of points used in the fit.
	N int
}

// Range restricts a fit to Min <= x <= Max. A nil bound is ignored. For power
// law fits the bounds apply to x itself, not log(x).
type Range struct {
	Min, Max *float64
}

// Linear fits a line to all the points of (x, y) inside r.
func Linear(x, y []float64, r Range) (Line, error) {
	x, y, err := restrict(x, y, r)
	if err != nil {
		return Line{}, err
	}
	return linear(x, y)
}

// PowerLaw fits y = A * x^Slope by fitting a line in log-log space. The
// returned Intercept is log(A). Every point inside r must have x > 0 and
// y > 0.
func PowerLaw(x, y []float64, r Range) (Line, error) {
	x, y, err := restrict(x, y, r)
	if err != nil {
		return Line{}, err
	}

	lx, ly := make([]float64, len(x)), make([]float64, len(y))
	for i := range x {
		if x[i] <= 0 || y[i] <= 0 {
			return Line{}, fmt.Errorf("Point %d, (%g, %g), is not positive "+
				"and cannot be fit in log-log space.", i, x[i], y[i])
		}
		lx[i], ly[i] = math.Log(x[i]), math.Log(y[i])
	}
	return linear(lx, ly)
}

// SpectralIndex returns s for f(p) ~ p^-s, fit over the points of p inside r.
func SpectralIndex(p, f []float64, r Range) (float64, error) {
	line, err := PowerLaw(p, f, r)
	if err != nil {
		return 0, err
	}
	return -line.Slope, nil
}

// ScaleBySpectralIndex returns p^s * f, which is flat wherever f has
// spectral index s.
func ScaleBySpectralIndex(p, f []float64, s float64) []float64 {
	if len(p) != len(f) {
		panic(fmt.Sprintf("len(p) = %d, but len(f) = %d.", len(p), len(f)))
	}
	out := make([]float64, len(f))
	for i := range f {
		out[i] = math.Pow(p[i], s) * f[i]
	}
	return out
}

func linear(x, y []float64) (Line, error) {
	if len(x) < 2 {
		return Line{}, fmt.Errorf("At least two points are needed for a "+
			"fit, but only %d were given.", len(x))
	} else if floats.HasNaN(x) || floats.HasNaN(y) {
		return Line{}, fmt.Errorf("The data being fit contains NaNs.")
	} else if floats.Min(x) == floats.Max(x) {
		return Line{}, fmt.Errorf("All %d points have x = %g, so no slope "+
			"can be fit.", len(x), x[0])
	}

	alpha, beta := stat.LinearRegression(x, y, nil, false)
	return Line{
		Intercept: alpha, Slope: beta,
		R2: stat.RSquared(x, y, nil, alpha, beta),
		N:  len(x),
	}, nil
}

// restrict returns the points of (x, y) that lie within r.
func restrict(x, y []float64, r Range) (xr, yr []float64, err error) {
	if len(x) != len(y) {
		return nil, nil, fmt.Errorf("len(x) = %d, but len(y) = %d.",
			len(x), len(y))
	}
	if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
		return nil, nil, fmt.Errorf("The fit range [%g, %g] is empty.",
			*r.Min, *r.Max)
	}

	xr, yr = make([]float64, 0, len(x)), make([]float64, 0, len(y))
	for i := range x {
		if (r.Min != nil && x[i] < *r.Min) || (r.Max != nil && x[i] > *r.Max) {
			continue
		}
		xr, yr = append(xr, x[i]), append(yr, y[i])
	}
	return xr, yr, nil
}
