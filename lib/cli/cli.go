/*package cli implements the gridify command line tool. Every command takes a
TOML run file (see lib/config) and reads the text files it names:

   gridify line run.toml            1D extraction along [extract] direction
   gridify grid run.toml --dims 3   2D or 3D structured grid
   gridify series run.toml          every selected time step
   gridify plot run.toml --out f.png
   gridify fit run.toml             spectral index of a line extraction
   gridify check run.toml           validate the run without writing anything

Results are written to [output] file as .grd arrays. All commands accept
--verbose for debug-level logging.
*/
package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  string
)

// SetVersion sets the version information displayed by --version.
func SetVersion(v, c string) {
	version, commit = v, c
}

// Execute runs the gridify command tree with the arguments in os.Args.
func Execute() error {
	return newRootCmd().ExecuteContext(context.Background())
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "gridify",
		Short: "gridify reshapes scattered samples into structured arrays",
		Long: `gridify reads point-indexed field samples, sorts them into grid ` +
			`order and reshapes them into dense 1D, 2D, or 3D arrays, ` +
			`optionally over a series of time steps.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(withLogger(ctx, newLogger(cmd.ErrOrStderr(), level)))
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("gridify %s\ncommit: %s\n",
		version, commit))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"enable verbose logging")

	root.AddCommand(newLineCmd())
	root.AddCommand(newGridCmd())
	root.AddCommand(newSeriesCmd())
	root.AddCommand(newPlotCmd())
	root.AddCommand(newFitCmd())
	root.AddCommand(newCheckCmd())

	return root
}
