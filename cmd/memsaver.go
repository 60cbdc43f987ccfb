package cmd

import (
	"fmt"

	"github.com/grovetools/deck/cli"
	"github.com/grovetools/deck/errors"
	"github.com/grovetools/deck/internal/engine"
	"github.com/grovetools/deck/pkg/entity"
	"github.com/grovetools/deck/pkg/models"
	"github.com/grovetools/deck/tui/theme"
	"github.com/spf13/cobra"
)

// MemSaverStatus is the JSON form of one workflow's MemSaver state.
type MemSaverStatus struct {
	ID                      entity.ID `json:"id"`
	Name                    string    `json:"name"`
	State                   string    `json:"state"`
	InactiveAfter           int       `json:"inactiveAfter"`
	ActivateOnProjectSwitch bool      `json:"activateOnProjectSwitch"`
}

// Workflow lifecycle states as reported by memsaver status.
const (
	StateActive   = "active"
	StatePending  = "pending"
	StateInactive = "inactive"
)

func NewMemSaverCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "memsaver",
		Short: "Show or change when unfocused workflows are released",
	}
	cmd.AddCommand(newMemSaverStatusCmd(), newMemSaverSetCmd())
	return cmd
}

func newMemSaverStatusCmd() *cobra.Command {
	var project string
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the effective MemSaver settings of each workflow",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd, func(e *engine.Engine) error {
				st := e.Store().Get()
				p, err := projectOrCurrent(st, project)
				if err != nil {
					return err
				}
				ms := st.MemSaver()
				var rows []MemSaverStatus
				for _, wf := range st.ProjectWorkflows(p) {
					eff := models.ResolveMemSaver(st.AppMemSaver(), p.MemSaver, wf.MemSaver)
					row := MemSaverStatus{
						ID:                      wf.ID,
						Name:                    wf.Name,
						State:                   StateInactive,
						InactiveAfter:           eff.WorkflowInactiveAfter,
						ActivateOnProjectSwitch: eff.ActivateWorkflowsOnProjectSwitch,
					}
					if _, pending := ms.PendingTimer(wf.ID); pending {
						row.State = StatePending
					} else if ms.IsActive(wf.ID) {
						row.State = StateActive
					}
					rows = append(rows, row)
				}
				if cli.GetOptions(cmd).JSONOutput {
					return printJSON(cmd.OutOrStdout(), rows)
				}

				t := theme.DefaultTheme
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, t.Header.Render(p.Name))
				for _, r := range rows {
					style := t.Inactive
					switch r.State {
					case StateActive:
						style = t.Active
					case StatePending:
						style = t.Pending
					}
					fmt.Fprintf(out, "  %-9s %s %s\n", style.Render(r.State), r.Name,
						t.Muted.Render(fmt.Sprintf("(release: %s, load on switch: %t)", describeDelay(r.InactiveAfter), r.ActivateOnProjectSwitch)))
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&project, "project", "p", "", "Project id or name (default: current project)")
	return cmd
}

func describeDelay(minutes int) string {
	switch {
	case minutes == models.InactiveNever:
		return "never"
	case minutes == models.InactiveImmediately:
		return "immediately"
	default:
		return fmt.Sprintf("after %dm", minutes)
	}
}

func newMemSaverSetCmd() *cobra.Command {
	var (
		project       string
		workflow      string
		inactiveAfter int
		activate      bool
		unset         bool
	)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change MemSaver settings at app, project or workflow level",
		Long: `Change MemSaver settings. Without --project or --workflow the app level
is changed. A workflow setting wins over its project's, which wins over the
app's. Use --unset to clear the layer so the next level up applies.

  --inactive-after -1   never release while the project is open
  --inactive-after 0    release as soon as the workflow loses focus
  --inactive-after N    release N minutes after the workflow loses focus`,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			var cfg models.MemSaverConfig
			if flags.Changed("inactive-after") {
				cfg.WorkflowInactiveAfter = models.Int(inactiveAfter)
			}
			if flags.Changed("activate-on-switch") {
				cfg.ActivateWorkflowsOnProjectSwitch = models.Bool(activate)
			}
			if cfg.IsZero() && !unset {
				return errors.InvalidInput("nothing to set: pass --inactive-after, --activate-on-switch or --unset")
			}

			return withEngine(cmd, func(e *engine.Engine) error {
				st := e.Store().Get()
				uc := e.UseCases()
				switch {
				case workflow != "":
					p, err := projectOrCurrent(st, project)
					if err != nil {
						return err
					}
					wf, err := findWorkflow(st, p, workflow)
					if err != nil {
						return err
					}
					if !unset {
						cfg = wf.MemSaver.Merge(cfg)
					}
					return uc.SetWorkflowMemSaverConfig(wf.ID, cfg)
				case project != "":
					p, err := findProject(st, project)
					if err != nil {
						return err
					}
					if !unset {
						cfg = p.MemSaver.Merge(cfg)
					}
					return uc.SetProjectMemSaverConfig(p.ID, cfg)
				default:
					if !unset {
						cfg = st.AppMemSaver().Merge(cfg)
					}
					return uc.SetAppMemSaverConfig(cfg)
				}
			})
		},
	}
	cmd.Flags().StringVarP(&project, "project", "p", "", "Project id or name")
	cmd.Flags().StringVarP(&workflow, "workflow", "w", "", "Workflow id or name")
	cmd.Flags().IntVar(&inactiveAfter, "inactive-after", 0, "Minutes before an unfocused workflow is released (-1 never, 0 immediately)")
	cmd.Flags().BoolVar(&activate, "activate-on-switch", false, "Load all workflows of the project when it is opened")
	cmd.Flags().BoolVar(&unset, "unset", false, "Clear the settings at this level")
	return cmd
}
