package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/grovetools/deck/cli"
	"github.com/grovetools/deck/config"
	"github.com/grovetools/deck/errors"
	"github.com/grovetools/deck/internal/engine"
	"github.com/grovetools/deck/internal/lifecycle"
	"github.com/grovetools/deck/logging"
	"github.com/grovetools/deck/pkg/entity"
	"github.com/grovetools/deck/pkg/models"
	"github.com/grovetools/deck/state"
	"github.com/spf13/cobra"
)

// loadConfig loads the layered configuration for cmd's --config-dir.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	opts := cli.GetOptions(cmd)
	dir := opts.ResolveConfigDir()
	cfg, err := config.LoadFromWithLogger(dir, cli.ConfigLogger(opts))
	if err != nil {
		return nil, dir, err
	}
	return cfg, dir, nil
}

func openEngine(cmd *cobra.Command, mounter lifecycle.Mounter) (*engine.Engine, error) {
	cfg, dir, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return engine.New(cmd.Context(), engine.Options{
		Config:    cfg,
		ConfigDir: dir,
		Mounter:   mounter,
		Logger:    logging.NewLogger("deck"),
	})
}

// withEngine runs fn on a freshly opened engine and closes it afterwards,
// which flushes any state fn changed.
func withEngine(cmd *cobra.Command, fn func(*engine.Engine) error) (err error) {
	e, err := openEngine(cmd, nil)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := e.Close(context.Background()); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(e)
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// findProject resolves ref as a project id, then as a project name.
func findProject(st *state.State, ref string) (*models.Project, error) {
	if p, ok := st.Project(entity.ID(ref)); ok {
		return p, nil
	}
	for _, p := range st.Projects() {
		if p.Name == ref {
			return p, nil
		}
	}
	return nil, errors.EntityNotFound("project", ref)
}

// projectOrCurrent resolves ref, or the current project when ref is empty.
func projectOrCurrent(st *state.State, ref string) (*models.Project, error) {
	if ref == "" {
		if p, ok := st.CurrentProject(); ok {
			return p, nil
		}
		return nil, errors.EntityNotFound("project", "current")
	}
	return findProject(st, ref)
}

// findWorkflow resolves ref as a workflow id, then as a workflow name in
// project p.
func findWorkflow(st *state.State, p *models.Project, ref string) (*models.Workflow, error) {
	if wf, ok := st.Workflow(entity.ID(ref)); ok {
		return wf, nil
	}
	for _, wf := range st.ProjectWorkflows(p) {
		if wf.Name == ref {
			return wf, nil
		}
	}
	return nil, errors.EntityNotFound("workflow", ref)
}
