package cmd

import (
	"fmt"

	"github.com/grovetools/deck/cli"
	"github.com/grovetools/deck/pkg/paths"
	"github.com/spf13/cobra"
)

// PathsOutput lists the directories deck reads and writes.
type PathsOutput struct {
	ConfigDir  string `json:"config_dir"`
	StateDir   string `json:"state_dir"`
	StorageDir string `json:"storage_dir"`
	LogsDir    string `json:"logs_dir"`
}

func NewPathsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "paths",
		Short: "Print the directories used by deck",
		Long: `Print the directories used by deck.

The paths follow the XDG Base Directory Specification unless DECK_HOME is set:
- config_dir: Configuration files (deck.yml)
- state_dir: Persisted application state and logs
- storage_dir: Default location of the state backend
- logs_dir: Log files`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := PathsOutput{
				ConfigDir:  cli.GetOptions(cmd).ResolveConfigDir(),
				StateDir:   paths.StateDir(),
				StorageDir: paths.StorageDir(),
				LogsDir:    paths.LogsDir(),
			}
			if cli.GetOptions(cmd).JSONOutput {
				return printJSON(cmd.OutOrStdout(), output)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "config:  %s\n", output.ConfigDir)
			fmt.Fprintf(out, "state:   %s\n", output.StateDir)
			fmt.Fprintf(out, "storage: %s\n", output.StorageDir)
			fmt.Fprintf(out, "logs:    %s\n", output.LogsDir)
			return nil
		},
	}

	return cmd
}
