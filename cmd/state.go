package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/grovetools/deck/cli"
	"github.com/grovetools/deck/config"
	"github.com/grovetools/deck/errors"
	"github.com/grovetools/deck/internal/engine"
	"github.com/grovetools/deck/logging"
	"github.com/grovetools/deck/pkg/persist"
	"github.com/grovetools/deck/state"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func NewStateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Inspect or reset persisted application state",
	}
	cmd.AddCommand(newStateShowCmd(), newStateKeysCmd(), newStateClearCmd())
	return cmd
}

// openBackend opens the configured backend without loading state.
func openBackend(cmd *cobra.Command) (persist.Backend, *config.Config, error) {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	backend, err := persist.Open(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrCodePersistenceRead, "failed to open storage backend").
			WithDetail("backend", cfg.Storage.Backend)
	}
	return backend, cfg, nil
}

func newStateShowCmd() *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the persisted application state",
		Long: `Print the persisted application state, migrated to the current version.
With --raw the stored envelope is printed as is.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, cfg, err := openBackend(cmd)
			if err != nil {
				return err
			}
			defer backend.Close()

			out := cmd.OutOrStdout()
			if raw {
				text, ok, err := backend.GetText(cmd.Context(), state.Key)
				if err != nil {
					return errors.PersistenceRead(state.Key, err)
				}
				if !ok {
					fmt.Fprintln(out, "No persisted state")
					return nil
				}
				fmt.Fprintln(out, text)
				return nil
			}

			app, _ := engine.OpenStorage(backend, cfg, nil, logging.NewLogger("statestorage"))
			ps, err := app.LoadState(cmd.Context())
			if err != nil {
				return err
			}
			if ps == nil {
				fmt.Fprintln(out, "No persisted state")
				return nil
			}
			if cli.GetOptions(cmd).JSONOutput {
				return printJSON(out, ps)
			}
			return printYAML(out, ps)
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the stored envelope without decoding it")
	return cmd
}

func newStateKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List the keys held by the storage backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, _, err := openBackend(cmd)
			if err != nil {
				return err
			}
			defer backend.Close()

			keys, err := backend.GetKeys(cmd.Context())
			if err != nil {
				return errors.Wrap(err, errors.ErrCodePersistenceRead, "failed to list keys")
			}
			sort.Strings(keys)
			if cli.GetOptions(cmd).JSONOutput {
				return printJSON(cmd.OutOrStdout(), keys)
			}
			for _, k := range keys {
				fmt.Fprintln(cmd.OutOrStdout(), k)
			}
			return nil
		},
	}
}

func newStateClearCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all persisted state",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				return errors.InvalidInput("refusing to delete persisted state without --force")
			}
			backend, _, err := openBackend(cmd)
			if err != nil {
				return err
			}
			defer backend.Close()

			if err := backend.Clear(cmd.Context()); err != nil {
				return errors.Wrap(err, errors.ErrCodePersistenceWrite, "failed to clear state")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Persisted state cleared")
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Confirm deletion")
	return cmd
}

// printYAML renders v through its JSON encoding, so collection types print
// the same keys in both formats.
func printYAML(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}
