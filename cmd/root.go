package cmd

import (
	"github.com/grovetools/deck/cli"
	"github.com/grovetools/deck/logging"
	"github.com/grovetools/deck/pkg/profiling"
	"github.com/grovetools/deck/version"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the deck command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := cli.NewStandardCommand(
		"deck",
		"Dashboard state core: projects, workflows and MemSaver",
	)
	cli.SetVersionTemplate(rootCmd, version.GetInfo())
	profiler := profiling.NewCobraProfiler()
	profiler.Attach(rootCmd)
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		logging.SetGlobalOutput(cmd.ErrOrStderr())
		return profiler.PreRun(cmd, args)
	}

	rootCmd.AddCommand(
		cli.NewVersionCommand("deck"),
		NewPathsCmd(),
		NewConfigLayersCmd(),
		NewConfigCmd(),
		NewStateCmd(),
		NewProjectCmd(),
		NewWorkflowCmd(),
		NewMemSaverCmd(),
		NewRunCmd(),
	)
	return rootCmd
}
