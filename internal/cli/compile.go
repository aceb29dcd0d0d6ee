package cli

import (
	"os"

	"github.com/spf13/cobra"

	"simctl/internal/tui"
)

func newCompileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compile",
		Short: "Compile the simulator's Java sources",
		RunE:  runCompile,
	}
}

func runCompile(cmd *cobra.Command, _ []string) error {
	pc, err := openProject("compile")
	if err != nil {
		return err
	}
	defer pc.Close()

	return doCompile(cmd, pc)
}

// doCompile runs the compiler with a status spinner when the terminal is
// interactive and subprocess output is not being streamed.
func doCompile(cmd *cobra.Command, pc *projectContext) error {
	if tui.DetectMode(cmd.OutOrStdout(), noProgress || verbose, outputJSON) == tui.ModeTUI {
		sw := tui.NewStatusWriter(os.Stderr)
		sw.Update("compiling Java sources")
		defer sw.Stop()
	}

	return pc.compiler().Compile(cmd.Context())
}
