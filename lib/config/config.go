/*package config reads gridify's TOML run files. A run file names the text
files to read, the fields to extract, the time steps to use, and where to
write the results:

   [source]
   files = ["out_000.csv", "out_001.csv", "out_002.csv"]
   times = [0.0, 0.5, 1.0]
   separator = ","

   [extract]
   fields = ["rho", "E_X"]
   dims = 2
   strict_grid = true

   [time]
   steps = "0..2 - 1"
   start = 0.0
   end = 10.0

   [output]
   file = "rho.grd"
   plot = "rho.png"
   log_y = true

   [fit]
   channel = "rho"
   min = 1.0

Relative file names are interpreted relative to the directory holding the
run file.
*/
package config

import (
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/phil-mansfield/gridify/lib/field"
	"github.com/phil-mansfield/gridify/lib/format"
	"github.com/phil-mansfield/gridify/lib/snapshot"
)

// Run is the contents of a run file.
type Run struct {
	Source  Source  `toml:"source"`
	Extract Extract `toml:"extract"`
	Time    Time    `toml:"time"`
	Output  Output  `toml:"output"`
	Fit     Fit     `toml:"fit"`
}

// Source describes the text files which hold the samples.
type Source struct {
	Files []string `toml:"files"`
	// Times gives the time coordinate of each file. If empty, file i has
	// time i.
	Times     []float64 `toml:"times"`
	Separator string    `toml:"separator"`
	Comment   string    `toml:"comment"`
	SkipLines int       `toml:"skip_lines"`
	// Points names the x, y, and z columns.
	Points []string `toml:"points"`
}

// Extract describes which fields are extracted and how.
type Extract struct {
	Fields []string `toml:"fields"`
	// Dims is 1 for a line extraction, or 2 or 3 for a grid.
	Dims      int      `toml:"dims"`
	Direction int      `toml:"direction"`
	Min       *float64 `toml:"min"`
	Max       *float64 `toml:"max"`
	Strict    bool     `toml:"strict_grid"`
}

// Time selects and rescales time steps.
type Time struct {
	// Steps is a step format. See lib/format.
	Steps string `toml:"steps"`
	// If Start and End are both set, the source's times are mapped linearly
	// onto [Start, End]. If Start and Scale are set, time t is mapped to
	// Start + Scale*t.
	Start *float64 `toml:"start"`
	End   *float64 `toml:"end"`
	Scale *float64 `toml:"scale"`
}

// Output names the files results are written to. Empty names are skipped.
type Output struct {
	File  string `toml:"file"`
	Plot  string `toml:"plot"`
	Title string `toml:"title"`
	LogX  bool   `toml:"log_x"`
	LogY  bool   `toml:"log_y"`
}

// Fit controls spectral index fits.
type Fit struct {
	// Channel is the extracted channel to fit. Defaults to the first one.
	Channel string   `toml:"channel"`
	Min     *float64 `toml:"min"`
	Max     *float64 `toml:"max"`
}

// Default returns a Run with every optional value set to its default.
func Default() *Run {
	return &Run{
		Source: Source{
			Separator: ",",
			Comment:   "#",
			Points:    []string{"x", "y", "z"},
		},
		Extract: Extract{Dims: 1},
		Time:    Time{Steps: format.All},
	}
}

// Load reads the run file at path on top of the defaults, resolves relative
// file names, and validates the result.
func Load(path string) (*Run, error) {
	r := Default()
	md, err := toml.DecodeFile(path, r)
	if err != nil {
		return nil, fmt.Errorf("could not decode TOML config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("The config file %s contains the unknown "+
			"key '%s'.", path, undecoded[0].String())
	}

	r.resolvePaths(filepath.Dir(path))
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// Decode reads a run from a TOML string. Relative paths are left alone.
func Decode(text string) (*Run, error) {
	r := Default()
	if _, err := toml.Decode(text, r); err != nil {
		return nil, fmt.Errorf("could not decode TOML config: %w", err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// resolvePaths converts relative file names to absolute ones, assuming they
// were relative to dir.
func (r *Run) resolvePaths(dir string) {
	abs := func(name string) string {
		if name == "" || filepath.IsAbs(name) {
			return name
		}
		return filepath.Join(dir, name)
	}

	for i := range r.Source.Files {
		r.Source.Files[i] = abs(r.Source.Files[i])
	}
	r.Output.File = abs(r.Output.File)
	r.Output.Plot = abs(r.Output.Plot)
}

// Validate checks that the run is self-consistent. It does not touch the
// file system.
func (r *Run) Validate() error {
	src := &r.Source
	if len(src.Files) == 0 {
		return fmt.Errorf("[source] lists no files.")
	} else if len(src.Times) > 0 && len(src.Times) != len(src.Files) {
		return fmt.Errorf("[source] lists %d times for %d files.",
			len(src.Times), len(src.Files))
	} else if len(src.Separator) != 1 {
		return fmt.Errorf("[source] separator must be one character, not "+
			"'%s'.", src.Separator)
	} else if len(src.Comment) != 1 {
		return fmt.Errorf("[source] comment must be one character, not "+
			"'%s'.", src.Comment)
	} else if len(src.Points) != 3 {
		return fmt.Errorf("[source] points must name 3 columns, not %d.",
			len(src.Points))
	} else if src.SkipLines < 0 {
		return fmt.Errorf("[source] skip_lines is negative.")
	}

	ext := &r.Extract
	if len(ext.Fields) == 0 {
		return fmt.Errorf("[extract] lists no fields.")
	} else if _, err := field.ParseAll(ext.Fields); err != nil {
		return fmt.Errorf("[extract] fields: %w", err)
	} else if ext.Dims < 1 || ext.Dims > 3 {
		return fmt.Errorf("[extract] dims must be 1, 2, or 3, not %d.",
			ext.Dims)
	} else if ext.Direction < 0 || ext.Direction > 2 {
		return fmt.Errorf("[extract] direction must be 0, 1, or 2, not %d.",
			ext.Direction)
	} else if ext.Min != nil && ext.Max != nil && *ext.Min > *ext.Max {
		return fmt.Errorf("[extract] min = %g is larger than max = %g.",
			*ext.Min, *ext.Max)
	}

	tm := &r.Time
	if _, err := format.ExpandSteps(tm.Steps, len(src.Files)); err != nil {
		return fmt.Errorf("[time] steps: %w", err)
	}
	switch {
	case tm.Start == nil && (tm.End != nil || tm.Scale != nil):
		return fmt.Errorf("[time] end and scale require start to be set.")
	case tm.End != nil && tm.Scale != nil:
		return fmt.Errorf("[time] cannot set both end and scale.")
	case tm.End != nil && *tm.End <= *tm.Start:
		return fmt.Errorf("[time] end = %g is not larger than start = %g.",
			*tm.End, *tm.Start)
	case tm.End != nil && len(src.Files) < 2:
		return fmt.Errorf("[time] end needs at least two files to rescale.")
	case tm.Scale != nil && *tm.Scale <= 0:
		return fmt.Errorf("[time] scale = %g is not positive.", *tm.Scale)
	}

	if r.Fit.Min != nil && r.Fit.Max != nil && *r.Fit.Min > *r.Fit.Max {
		return fmt.Errorf("[fit] min = %g is larger than max = %g.",
			*r.Fit.Min, *r.Fit.Max)
	}

	return nil
}

// TextConfig returns the snapshot.TextConfig described by [source].
func (r *Run) TextConfig() snapshot.TextConfig {
	return snapshot.TextConfig{
		Separator:    r.Source.Separator[0],
		Comment:      r.Source.Comment[0],
		SkipLines:    r.Source.SkipLines,
		PointColumns: [3]string{
			r.Source.Points[0], r.Source.Points[1], r.Source.Points[2],
		},
	}
}

// Selectors parses [extract] fields.
func (r *Run) Selectors() ([]field.Selector, error) {
	return field.ParseAll(r.Extract.Fields)
}

// Open opens the text source described by [source], with the rescaling in
// [time] applied.
func (r *Run) Open() (snapshot.Source, error) {
	var times []float64
	if len(r.Source.Times) > 0 {
		times = r.Source.Times
	}
	text, err := snapshot.OpenText(r.Source.Files, times, r.TextConfig())
	if err != nil {
		return nil, err
	}

	tm := &r.Time
	if tm.Start == nil {
		return text, nil
	}

	var scaled *snapshot.Scaled
	switch {
	case tm.End != nil:
		scaled, err = snapshot.ScaleTimes(text, *tm.Start, *tm.End)
	case tm.Scale != nil:
		scaled, err = snapshot.ScaleTimesBy(text, *tm.Start, *tm.Scale)
	default:
		scaled, err = snapshot.ScaleTimesBy(text, *tm.Start, 1)
	}
	if err != nil {
		return nil, err
	}
	return scaled, nil
}

// Steps returns the time indices selected by [time] steps.
func (r *Run) Steps() []int {
	steps, err := format.ExpandSteps(r.Time.Steps, len(r.Source.Files))
	if err != nil {
		panic(fmt.Sprintf("Internal error: Steps() called on an unvalidated "+
			"run: %s", err.Error()))
	}
	return steps
}
