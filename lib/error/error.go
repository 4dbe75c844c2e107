/*package error contains simple functions for reporting fatal gridify errors.
*/
package error

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/charmbracelet/log"
)

var (
	logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "gridify"})
	exit   = os.Exit
)

// SetLogger changes the logger that errors are reported through.
func SetLogger(l *log.Logger) { logger = l }

// External reports an error and kills the program. It should be used when an
// error is something a user could reasonably be expected to fix through
// changes in configuration/data/environment. It has the same signature as the
// standard fmt.*printf() functions.
func External(format string, a ...interface{}) {
	logger.Error("gridify exited early with the following error:\n" +
		fmt.Sprintf(format, a...))
	exit(1)
}

// Internal reports an error along with a stack trace and kills the program.
// It should be used when the error requires a code dive to fix. It has the
// same signature as the standard fmt.*printf() functions.
func Internal(format string, a ...interface{}) {
	logger.Error("gridify exited early with the following internal error:\n"+
		fmt.Sprintf(format, a...), "stack", string(debug.Stack()))
	exit(1)
}
