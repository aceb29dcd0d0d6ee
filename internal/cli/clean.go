package cli

import (
	"github.com/spf13/cobra"
)

func newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove derived artifacts from the project",
		Long: "Remove the compiled classes directory and the Python venv.\n" +
			"Use the subcommands to remove only one of them.",
		RunE: runCleanAll,
	}

	cmd.AddCommand(newCleanClassesCmd())
	cmd.AddCommand(newCleanVenvCmd())

	return cmd
}

func newCleanClassesCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "classes",
		Aliases: []string{"java"},
		Short:   "Remove only the compiled classes directory",
		RunE:    runCleanClasses,
	}
}

func newCleanVenvCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "venv",
		Aliases: []string{"python"},
		Short:   "Remove only the Python venv",
		RunE:    runCleanVenv,
	}
}

func runCleanAll(cmd *cobra.Command, _ []string) error {
	pc, err := openProject("clean")
	if err != nil {
		return err
	}
	defer pc.Close()

	if err := pc.compiler().Clean(); err != nil {
		return err
	}
	if err := pc.venvManager().Remove(); err != nil {
		return err
	}
	cmd.Println("clean complete")
	return nil
}

func runCleanClasses(cmd *cobra.Command, _ []string) error {
	pc, err := openProject("clean")
	if err != nil {
		return err
	}
	defer pc.Close()

	if err := pc.compiler().Clean(); err != nil {
		return err
	}
	cmd.Println("classes removed")
	return nil
}

func runCleanVenv(cmd *cobra.Command, _ []string) error {
	pc, err := openProject("clean")
	if err != nil {
		return err
	}
	defer pc.Close()

	if err := pc.venvManager().Remove(); err != nil {
		return err
	}
	cmd.Println("venv removed")
	return nil
}
