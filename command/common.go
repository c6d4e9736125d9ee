package command

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/frantjc/droidui"
	xslice "github.com/frantjc/x/slice"
	"github.com/spf13/cobra"
)

// VerboseEnv turns on verbose logging when set to a truthy value.
const VerboseEnv = "DROIDUI_VERBOSE"

// SetCommon adds the flags and behavior every droidui command shares:
// a -V count flag controlling how much is logged to stderr and the
// version template.
func SetCommon(cmd *cobra.Command, version string) *cobra.Command {
	var verbosity int
	cmd.PersistentFlags().CountVarP(&verbosity, "verbose", "V", fmt.Sprintf("Verbosity for %s.", cmd.Name()))
	cmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		if verbose := os.Getenv(VerboseEnv); verbose != "" && xslice.Some([]string{"1", "y", "yes", "true", "t"}, func(s string, _ int) bool {
			return strings.EqualFold(s, verbose)
		}) {
			verbosity = max(verbosity, 3)
		}

		cmd.SetContext(
			droidui.WithLogger(
				cmd.Context(), droidui.NewLogger(cmd.ErrOrStderr(), verbosity),
			),
		)
	}

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	cmd.Version = version
	cmd.SetVersionTemplate("{{ .Name }}{{ .Version }} " + runtime.Version() + "\n")

	return cmd
}
