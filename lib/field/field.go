/*package field resolves requested field names into per-sample arrays.

Names are parsed once, at the API boundary, into Selectors. A Selector is
either a Scalar, which names a scalar field, or a Component, which names one
axis of a vector field. Vector components are written as the base name plus
"_X", "_Y", or "_Z" (e.g. "E_X" is the first component of "E"). Magnitudes
("E_Magnitude") are derived quantities that cannot be read back from a single
component, so Parse rejects them and no Selector can represent them.
*/
package field

import (
	"errors"
	"fmt"
	"strings"

	"github.com/phil-mansfield/gridify/lib/snapshot"
)

var (
	// ErrUnknownField is returned when a field is neither a scalar nor a
	// vector field of the frame being read.
	ErrUnknownField = snapshot.ErrUnknownField
	// ErrUnsupported is returned when a derived quantity, such as a vector
	// magnitude, is requested.
	ErrUnsupported = errors.New("unsupported field operation")
	// ErrLength is returned when a field does not have one value per point.
	ErrLength = errors.New("field length does not match point count")
)

// ComponentSuffixes are the name suffixes of the x, y, and z components of a
// vector field.
var ComponentSuffixes = [3]string{"_X", "_Y", "_Z"}

// MagnitudeSuffix is the name suffix of a vector field's magnitude.
const MagnitudeSuffix = "_Magnitude"

// Selector is a parsed reference to one channel of per-sample data. It is
// implemented by Scalar and Component only.
type Selector interface {
	// String returns the name the selector was parsed from.
	String() string
	// read reads the selected values from a frame.
	read(frame snapshot.Frame) ([]float64, error)
}

// Scalar selects a scalar field.
type Scalar struct {
	Name string
}

// Component selects one axis (0, 1, or 2) of a vector field.
type Component struct {
	Name string
	Axis int
}

// Type assertions
var (
	_ Selector = Scalar{}
	_ Selector = Component{}
)

func (s Scalar) String() string { return s.Name }

func (c Component) String() string {
	return c.Name + ComponentSuffixes[c.Axis]
}

func (s Scalar) read(frame snapshot.Frame) ([]float64, error) {
	x, err := frame.Scalar(s.Name)
	if err != nil {
		return nil, fmt.Errorf("The field '%s' is not a scalar field of "+
			"this frame: %w", s.Name, err)
	}
	out := make([]float64, len(x))
	copy(out, x)
	return out, nil
}

func (c Component) read(frame snapshot.Frame) ([]float64, error) {
	if c.Axis < 0 || c.Axis > 2 {
		panic(fmt.Sprintf("Internal error: component axis %d of '%s' is "+
			"not 0, 1, or 2.", c.Axis, c.Name))
	}

	v, err := frame.Vector(c.Name)
	if err != nil {
		return nil, fmt.Errorf("The field '%s' cannot be read because '%s' "+
			"is not a vector field of this frame: %w", c, c.Name, err)
	}
	out := make([]float64, len(v))
	for i := range v {
		out[i] = v[i][c.Axis]
	}
	return out, nil
}

// Parse converts a field name into a Selector. Names ending in a component
// suffix become Components, names ending in MagnitudeSuffix are rejected
// with ErrUnsupported, and everything else is a Scalar.
func Parse(name string) (Selector, error) {
	for axis, suffix := range ComponentSuffixes {
		if base, ok := strings.CutSuffix(name, suffix); ok && base != "" {
			return Component{base, axis}, nil
		}
	}

	if strings.HasSuffix(name, MagnitudeSuffix) {
		return nil, fmt.Errorf("'%s' is the magnitude of a vector field, "+
			"which cannot be reconstructed from a single component. "+
			"Request the '%s', '%s', and '%s' components instead: %w", name,
			strings.TrimSuffix(name, MagnitudeSuffix)+ComponentSuffixes[0],
			strings.TrimSuffix(name, MagnitudeSuffix)+ComponentSuffixes[1],
			strings.TrimSuffix(name, MagnitudeSuffix)+ComponentSuffixes[2],
			ErrUnsupported)
	}

	if name == "" {
		return nil, fmt.Errorf("An empty field name was requested: %w",
			ErrUnknownField)
	}

	return Scalar{name}, nil
}

// ParseAll parses a list of names, stopping at the first failure.
func ParseAll(names []string) ([]Selector, error) {
	sels := make([]Selector, len(names))
	for i := range names {
		var err error
		if sels[i], err = Parse(names[i]); err != nil {
			return nil, err
		}
	}
	return sels, nil
}

// Names returns the string form of each selector.
func Names(sels []Selector) []string {
	names := make([]string, len(sels))
	for i := range sels {
		names[i] = sels[i].String()
	}
	return names
}

// Read returns a fresh copy of the values selected by sel, in the frame's
// (unsorted) sample order.
func Read(frame snapshot.Frame, sel Selector) ([]float64, error) {
	return sel.read(frame)
}

// ReadAll reads every selector from frame. Each row of the output has one
// value per point of the frame; a field with any other length is an error
// wrapping ErrLength.
func ReadAll(frame snapshot.Frame, sels []Selector) ([][]float64, error) {
	n := len(frame.Points())
	out := make([][]float64, len(sels))
	for i := range sels {
		x, err := Read(frame, sels[i])
		if err != nil {
			return nil, err
		}
		if len(x) != n {
			return nil, fmt.Errorf("The field '%s' has %d values, but the "+
				"frame has %d points: %w", sels[i], len(x), n, ErrLength)
		}
		out[i] = x
	}
	return out, nil
}
