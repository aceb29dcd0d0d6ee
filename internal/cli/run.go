package cli

import (
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Launch the simulator",
		Long: "Launch the JADE controller agent with the project's compiled classes\n" +
			"and library jars, inside the managed Python environment.",
		RunE: runRun,
	}
}

func runRun(cmd *cobra.Command, _ []string) error {
	pc, err := openProject("run")
	if err != nil {
		return err
	}
	defer pc.Close()

	_, err = pc.launcher().Run(cmd.Context())
	return err
}
