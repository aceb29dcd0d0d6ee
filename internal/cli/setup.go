package cli

import (
	"github.com/spf13/cobra"
)

func newSetupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Install dependencies and compile in one step",
		RunE:  runSetup,
	}
}

func runSetup(cmd *cobra.Command, _ []string) error {
	pc, err := openProject("setup")
	if err != nil {
		return err
	}
	defer pc.Close()

	if err := doInstall(cmd, pc); err != nil {
		return err
	}
	return doCompile(cmd, pc)
}
