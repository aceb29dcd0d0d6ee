package cli

import (
	"github.com/spf13/cobra"
)

func newRebuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild",
		Short: "Remove compiled classes and compile from scratch",
		RunE:  runRebuild,
	}
}

func runRebuild(cmd *cobra.Command, _ []string) error {
	pc, err := openProject("rebuild")
	if err != nil {
		return err
	}
	defer pc.Close()

	if err := pc.compiler().Clean(); err != nil {
		return err
	}
	return doCompile(cmd, pc)
}
