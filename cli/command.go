package cli

import (
	"github.com/grovetools/deck/logging"
	"github.com/grovetools/deck/pkg/paths"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// CommandOptions holds common options for deck commands
type CommandOptions struct {
	ConfigDir  string
	Verbose    bool
	JSONOutput bool
}

// NewStandardCommand creates a new command with standard deck flags
func NewStandardCommand(use, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           use,
		Short:         short,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().AddFlagSet(StandardFlags())

	return cmd
}

// StandardFlags returns the flags every deck command accepts.
func StandardFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("standard", pflag.ContinueOnError)
	fs.BoolP("verbose", "v", false, "Enable verbose logging")
	fs.Bool("json", false, "Output in JSON format")
	fs.StringP("config-dir", "c", "", "Directory holding deck.yml (default: the deck config directory)")
	return fs
}

// GetLogger creates a logger based on command flags
func GetLogger(cmd *cobra.Command) *logrus.Logger {
	entry := logging.NewLogger("deck-cli")
	logger := entry.Logger

	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	return logger
}

// GetOptions extracts common options from a command
func GetOptions(cmd *cobra.Command) CommandOptions {
	return OptionsFromFlags(cmd.Flags())
}

// OptionsFromFlags reads the standard flags from fs.
func OptionsFromFlags(fs *pflag.FlagSet) CommandOptions {
	configDir, _ := fs.GetString("config-dir")
	verbose, _ := fs.GetBool("verbose")
	jsonOutput, _ := fs.GetBool("json")

	return CommandOptions{
		ConfigDir:  configDir,
		Verbose:    verbose,
		JSONOutput: jsonOutput,
	}
}

// ResolveConfigDir returns the config directory a command should read.
func (o CommandOptions) ResolveConfigDir() string {
	if o.ConfigDir != "" {
		return o.ConfigDir
	}
	return paths.ConfigDir()
}
