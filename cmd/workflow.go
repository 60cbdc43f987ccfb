package cmd

import (
	"fmt"

	"github.com/grovetools/deck/cli"
	"github.com/grovetools/deck/internal/engine"
	"github.com/grovetools/deck/pkg/entity"
	"github.com/grovetools/deck/tui/theme"
	"github.com/spf13/cobra"
)

// WorkflowOutput is the JSON form of a listed workflow.
type WorkflowOutput struct {
	ID      entity.ID `json:"id"`
	Name    string    `json:"name"`
	Current bool      `json:"current"`
	Active  bool      `json:"active"`
	Widgets int       `json:"widgets"`
}

func NewWorkflowCmd() *cobra.Command {
	var project string
	cmd := &cobra.Command{
		Use:     "workflow",
		Aliases: []string{"wf"},
		Short:   "Manage the workflows of a project",
	}
	cmd.PersistentFlags().StringVarP(&project, "project", "p", "", "Project id or name (default: current project)")
	cmd.AddCommand(
		newWorkflowAddCmd(&project),
		newWorkflowListCmd(&project),
		newWorkflowSwitchCmd(&project),
		newWorkflowRemoveCmd(&project),
	)
	return cmd
}

func newWorkflowAddCmd(project *string) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Append a workflow to a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd, func(e *engine.Engine) error {
				p, err := projectOrCurrent(e.Store().Get(), *project)
				if err != nil {
					return err
				}
				id, err := e.UseCases().AddWorkflow(p.ID, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added workflow %s (%s) to %s\n", args[0], id, p.Name)
				return nil
			})
		},
	}
}

func newWorkflowListCmd(project *string) *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List the workflows of a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd, func(e *engine.Engine) error {
				st := e.Store().Get()
				p, err := projectOrCurrent(st, *project)
				if err != nil {
					return err
				}
				ms := st.MemSaver()
				var rows []WorkflowOutput
				for _, wf := range st.ProjectWorkflows(p) {
					rows = append(rows, WorkflowOutput{
						ID:      wf.ID,
						Name:    wf.Name,
						Current: wf.ID == p.CurrentWorkflowID,
						Active:  ms.IsActive(wf.ID),
						Widgets: len(wf.Layout),
					})
				}
				if cli.GetOptions(cmd).JSONOutput {
					return printJSON(cmd.OutOrStdout(), rows)
				}

				t := theme.DefaultTheme
				fmt.Fprintln(cmd.OutOrStdout(), t.Header.Render(p.Name))
				for _, r := range rows {
					marker := "  "
					if r.Current {
						marker = t.Active.Render("* ")
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s%s %s\n", marker, r.Name,
						t.Muted.Render(fmt.Sprintf("(%s, %d widgets)", r.ID, r.Widgets)))
				}
				return nil
			})
		},
	}
}

func newWorkflowSwitchCmd(project *string) *cobra.Command {
	return &cobra.Command{
		Use:   "switch <workflow>",
		Short: "Focus a workflow, switching project if needed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd, func(e *engine.Engine) error {
				st := e.Store().Get()
				p, err := projectOrCurrent(st, *project)
				if err != nil {
					return err
				}
				wf, err := findWorkflow(st, p, args[0])
				if err != nil {
					return err
				}
				if err := e.UseCases().SwitchWorkflow(wf.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Switched to workflow %s\n", wf.Name)
				return nil
			})
		},
	}
}

func newWorkflowRemoveCmd(project *string) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <workflow>",
		Aliases: []string{"remove"},
		Short:   "Delete a workflow and its widgets",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd, func(e *engine.Engine) error {
				st := e.Store().Get()
				p, err := projectOrCurrent(st, *project)
				if err != nil {
					return err
				}
				wf, err := findWorkflow(st, p, args[0])
				if err != nil {
					return err
				}
				if err := e.UseCases().DeleteWorkflow(wf.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed workflow %s\n", wf.Name)
				return nil
			})
		},
	}
}
