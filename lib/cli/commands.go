package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phil-mansfield/gridify/lib/export"
	"github.com/phil-mansfield/gridify/lib/extract"
	"github.com/phil-mansfield/gridify/lib/fit"
	"github.com/phil-mansfield/gridify/lib/grid"
	"github.com/phil-mansfield/gridify/lib/plot"
	"github.com/phil-mansfield/gridify/lib/series"
)

func newLineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "line <run.toml>",
		Short: "Extract the selected fields as flat arrays in grid order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			r, err := loadRun(ctx, args[0], nil)
			if err != nil {
				return err
			}

			prog := newProgress(r.logger)
			ld, err := r.line(ctx)
			if err != nil {
				return err
			}
			prog.done("extracted line", "samples", len(ld.Coords),
				"channels", ld.Names)

			return r.write(&export.File{Names: ld.Names, Array: ld.Data})
		},
	}
}

func newGridCmd() *cobra.Command {
	var dims int

	cmd := &cobra.Command{
		Use:   "grid <run.toml>",
		Short: "Extract the selected fields as a 2D or 3D structured grid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			r, err := loadRun(ctx, args[0], nil)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("dims") && r.cfg.Extract.Dims > 1 {
				dims = r.cfg.Extract.Dims
			}

			frame, err := r.first(ctx)
			if err != nil {
				return err
			}
			prog := newProgress(r.logger)
			gd, err := extract.Grid(frame, r.sels, dims, r.options())
			if err != nil {
				return err
			}
			prog.done("extracted grid", "shape", []int(gd.Shape),
				"channels", gd.Names)

			return r.write(&export.File{Names: gd.Names, Array: gd.Data})
		},
	}

	cmd.Flags().IntVar(&dims, "dims", 2, "grid dimensionality (2 or 3)")
	return cmd
}

func newSeriesCmd() *cobra.Command {
	var (
		dims  int
		steps string
	)

	cmd := &cobra.Command{
		Use:   "series <run.toml>",
		Short: "Extract the selected fields at every selected time step",
		Long: `Extract the selected fields at every selected time step. With ` +
			`--dims 2 or 3 the frames are reshaped onto the grid inferred from ` +
			`the first frame. With --dims 0 each frame is kept as a flat list ` +
			`and frames may have different numbers of samples.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var override *string
			if cmd.Flags().Changed("steps") {
				override = &steps
			}
			r, err := loadRun(ctx, args[0], override)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("dims") {
				dims = r.cfg.Extract.Dims
				if dims == 1 {
					dims = 0
				}
			}

			prog := newProgress(r.logger)
			switch dims {
			case 0:
				s, err := series.Collect(ctx, r.src, r.sels, r.times, r.options())
				if err != nil {
					return err
				}
				prog.done("collected frames", "frames", len(s.Times),
					"channels", s.Names)
				if r.cfg.Output.Plot == "" {
					return nil
				}
				c, err := channel(s.Names, r.cfg.Fit.Channel)
				if err != nil {
					return err
				}
				curves, err := plot.Series(s, c, r.cfg.Extract.Direction)
				if err != nil {
					return err
				}
				return plot.Save(r.cfg.Output.Plot, curves, r.plotOptions())

			case 2, 3:
				gs, err := series.Grid(ctx, r.src, r.sels, dims, r.times,
					r.options())
				if err != nil {
					return err
				}
				prog.done("collected grid frames", "frames", len(gs.Times),
					"shape", []int(gs.Shape), "channels", gs.Names)
				return r.write(&export.File{
					Names: gs.Names, Times: gs.Times, Array: gs.Data,
				})
			}
			return fmt.Errorf("--dims must be 0, 2, or 3, not %d.", dims)
		},
	}

	cmd.Flags().IntVar(&dims, "dims", 2,
		"grid dimensionality (2 or 3), or 0 for flat frames")
	cmd.Flags().StringVar(&steps, "steps", "all",
		`time steps to use, e.g. "0..10 - 3"`)
	return cmd
}

func newPlotCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "plot <run.toml>",
		Short: "Render a line extraction as a chart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			r, err := loadRun(ctx, args[0], nil)
			if err != nil {
				return err
			}
			if out == "" {
				out = r.cfg.Output.Plot
			}
			if out == "" {
				return fmt.Errorf("No plot file was given. Set [output] plot " +
					"or pass --out.")
			}

			ld, err := r.line(ctx)
			if err != nil {
				return err
			}
			if err := plot.Save(out, plot.Line(ld), r.plotOptions()); err != nil {
				return err
			}
			r.logger.Info("wrote plot", "file", out, "curves", len(ld.Names))
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "",
		"output image, overriding [output] plot")
	return cmd
}

func newFitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fit <run.toml>",
		Short: "Fit the spectral index of a line extraction",
		Long: `Fit f ~ x^-s to one channel of a line extraction in log-log ` +
			`space and print s. The channel and the fitting range are set in ` +
			`the run file's [fit] table.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			r, err := loadRun(ctx, args[0], nil)
			if err != nil {
				return err
			}

			ld, err := r.line(ctx)
			if err != nil {
				return err
			}
			c, err := channel(ld.Names, r.cfg.Fit.Channel)
			if err != nil {
				return err
			}

			rng := fit.Range{Min: r.cfg.Fit.Min, Max: r.cfg.Fit.Max}
			line, err := fit.PowerLaw(ld.Coords, ld.Data.Sub(c).Flatten(), rng)
			if err != nil {
				return fmt.Errorf("channel '%s': %w", ld.Names[c], err)
			}
			r.logger.Debug("fit power law", "channel", ld.Names[c],
				"points", line.N, "r2", line.R2)

			fmt.Fprintf(cmd.OutOrStdout(), "%s: spectral index %.6g "+
				"(R^2 = %.4f, %d points)\n", ld.Names[c], -line.Slope,
				line.R2, line.N)
			return nil
		},
	}
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <run.toml>",
		Short: "Check a run file for errors without writing anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			r, err := loadRun(ctx, args[0], nil)
			if err != nil {
				return err
			}

			frame, err := r.first(ctx)
			if err != nil {
				return err
			}
			sorted, _, err := extract.Samples(frame, r.sels)
			if err != nil {
				return err
			}

			if dims := r.cfg.Extract.Dims; dims > 1 {
				shape, err := grid.Infer(sorted, dims)
				if err != nil {
					return err
				}
				if r.cfg.Extract.Strict {
					if err := grid.CheckSeparable(sorted, shape); err != nil {
						return err
					}
				}
				r.logger.Debug("grid shape", "shape", []int(shape))
			}

			fmt.Fprintln(cmd.OutOrStdout(), "No errors detected.")
			return nil
		},
	}
}
