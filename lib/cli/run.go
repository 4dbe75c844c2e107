package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"github.com/phil-mansfield/gridify/lib/config"
	"github.com/phil-mansfield/gridify/lib/export"
	"github.com/phil-mansfield/gridify/lib/extract"
	"github.com/phil-mansfield/gridify/lib/field"
	"github.com/phil-mansfield/gridify/lib/format"
	"github.com/phil-mansfield/gridify/lib/plot"
	"github.com/phil-mansfield/gridify/lib/series"
	"github.com/phil-mansfield/gridify/lib/snapshot"
)

// run is a loaded run file together with the source it describes.
type run struct {
	cfg    *config.Run
	src    snapshot.Source
	sels   []field.Selector
	times  []float64
	logger *log.Logger
}

// loadRun loads the run file at path and opens its source. If steps is
// non-nil it replaces the run file's [time] steps.
func loadRun(ctx context.Context, path string, steps *string) (*run, error) {
	logger := loggerFromContext(ctx)

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if steps != nil {
		if _, err := format.ExpandSteps(*steps, len(cfg.Source.Files)); err != nil {
			return nil, fmt.Errorf("--steps: %w", err)
		}
		cfg.Time.Steps = *steps
	}

	sels, err := cfg.Selectors()
	if err != nil {
		return nil, err
	}
	src, err := cfg.Open()
	if err != nil {
		return nil, err
	}
	times, err := series.Select(src.Times(), cfg.Steps())
	if err != nil {
		return nil, err
	}

	logger.Debug("loaded run", "config", path,
		"files", len(cfg.Source.Files), "steps", len(times),
		"fields", field.Names(sels))

	return &run{cfg: cfg, src: src, sels: sels, times: times, logger: logger}, nil
}

func (r *run) options() extract.Options {
	return extract.Options{
		Direction: r.cfg.Extract.Direction,
		Min:       r.cfg.Extract.Min,
		Max:       r.cfg.Extract.Max,
		Strict:    r.cfg.Extract.Strict,
		Logger:    r.logger,
	}
}

// first returns the frame at the first selected time step.
func (r *run) first(ctx context.Context) (snapshot.Frame, error) {
	if len(r.times) == 0 {
		return nil, fmt.Errorf("No time steps are selected.")
	}
	frame, err := r.src.At(ctx, r.times[0])
	if err != nil {
		return nil, fmt.Errorf("Could not evaluate the source at t = %g: %w",
			r.times[0], err)
	}
	return frame, nil
}

// line runs a 1D extraction on the first selected frame.
func (r *run) line(ctx context.Context) (*extract.LineData, error) {
	frame, err := r.first(ctx)
	if err != nil {
		return nil, err
	}
	return extract.Line(frame, r.sels, r.options())
}

// write writes f to [output] file, if one is set.
func (r *run) write(f *export.File) error {
	fname := r.cfg.Output.File
	if fname == "" {
		r.logger.Debug("no output file set, skipping write")
		return nil
	}
	if err := export.WriteFile(fname, f); err != nil {
		return err
	}
	info, err := os.Stat(fname)
	if err != nil {
		return err
	}
	r.logger.Info("wrote array", "file", fname,
		"shape", []int(f.Array.Shape()),
		"size", humanize.Bytes(uint64(info.Size())))
	return nil
}

func (r *run) plotOptions() plot.Options {
	xLabel := r.cfg.Source.Points[r.cfg.Extract.Direction]
	return plot.Options{
		Title:  r.cfg.Output.Title,
		XLabel: xLabel,
		LogX:   r.cfg.Output.LogX,
		LogY:   r.cfg.Output.LogY,
	}
}

// channel returns the index of the named channel, or 0 if name is empty.
func channel(names []string, name string) (int, error) {
	if name == "" {
		return 0, nil
	}
	for i := range names {
		if names[i] == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("'%s' is not one of the extracted channels, %q.",
		name, names)
}
