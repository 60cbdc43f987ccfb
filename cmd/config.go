package cmd

import (
	"fmt"

	"github.com/grovetools/deck/cli"
	"github.com/grovetools/deck/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func NewConfigLayersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config-layers",
		Short: "Display the layered configuration",
		Long: `Shows how the final configuration is built by merging layers:
1. Defaults
2. Global config (deck.yml, deck.yaml or deck.toml in the config directory)
3. Override file (deck.override.yml)
4. Overlay file named by $DECK_CONFIG_OVERLAY
This is useful for debugging configuration issues.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := cli.GetOptions(cmd).ResolveConfigDir()
			layered, err := config.LoadLayered(dir)
			if err != nil {
				return fmt.Errorf("failed to load layered config: %w", err)
			}

			out := cmd.OutOrStdout()
			printLayer := func(title string, path string, cfg *config.Config) {
				if cfg == nil {
					return
				}
				fmt.Fprintf(out, "--- # %s\n", title)
				if path != "" {
					fmt.Fprintf(out, "# Source: %s\n", path)
				}
				data, _ := yaml.Marshal(cfg)
				fmt.Fprintln(out, string(data))
			}

			printLayer("DEFAULTS", "", layered.Default)
			printLayer("GLOBAL CONFIG", layered.FilePaths[config.SourceGlobal], layered.Global)
			if layered.Override != nil {
				printLayer("OVERRIDE CONFIG", layered.Override.Path, layered.Override.Config)
			}
			if layered.EnvOverlay != nil {
				printLayer("OVERLAY CONFIG", layered.EnvOverlay.Path, layered.EnvOverlay.Config)
			}
			printLayer("FINAL MERGED CONFIG", "", layered.Final)

			return nil
		},
	}
	return cmd
}

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect deck configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of deck.yml",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := config.GenerateSchema()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Load and validate the configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, dir, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration in %s is valid (storage: %s)\n", dir, cfg.Storage.Backend)
			return nil
		},
	})

	return cmd
}
