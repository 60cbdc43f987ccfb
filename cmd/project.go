package cmd

import (
	"fmt"

	"github.com/grovetools/deck/cli"
	"github.com/grovetools/deck/internal/engine"
	"github.com/grovetools/deck/pkg/entity"
	"github.com/grovetools/deck/tui/theme"
	"github.com/spf13/cobra"
)

// ProjectOutput is the JSON form of a listed project.
type ProjectOutput struct {
	ID        entity.ID `json:"id"`
	Name      string    `json:"name"`
	Current   bool      `json:"current"`
	Workflows int       `json:"workflows"`
}

func NewProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"p"},
		Short:   "Manage projects",
	}
	cmd.AddCommand(
		newProjectAddCmd(),
		newProjectListCmd(),
		newProjectSwitchCmd(),
		newProjectRemoveCmd(),
		newProjectRenameCmd(),
	)
	return cmd
}

func newProjectAddCmd() *cobra.Command {
	var switchTo bool
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a project with one workflow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd, func(e *engine.Engine) error {
				id, err := e.UseCases().AddProject(args[0])
				if err != nil {
					return err
				}
				if switchTo {
					if err := e.UseCases().SwitchProject(id); err != nil {
						return err
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added project %s (%s)\n", args[0], id)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&switchTo, "switch", "s", false, "Switch to the new project")
	return cmd
}

func newProjectListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List projects in display order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd, func(e *engine.Engine) error {
				st := e.Store().Get()
				var rows []ProjectOutput
				for _, p := range st.Projects() {
					rows = append(rows, ProjectOutput{
						ID:        p.ID,
						Name:      p.Name,
						Current:   p.ID == st.UI.CurrentProjectID,
						Workflows: len(p.WorkflowIDs),
					})
				}
				if cli.GetOptions(cmd).JSONOutput {
					return printJSON(cmd.OutOrStdout(), rows)
				}

				t := theme.DefaultTheme
				for _, r := range rows {
					marker := "  "
					name := r.Name
					if r.Current {
						marker = t.Active.Render("* ")
						name = t.Header.Render(r.Name)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s%s %s\n", marker, name,
						t.Muted.Render(fmt.Sprintf("(%s, %d workflows)", r.ID, r.Workflows)))
				}
				return nil
			})
		},
	}
}

func newProjectSwitchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "switch <project>",
		Short: "Move focus to a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd, func(e *engine.Engine) error {
				p, err := findProject(e.Store().Get(), args[0])
				if err != nil {
					return err
				}
				if err := e.UseCases().SwitchProject(p.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Switched to project %s\n", p.Name)
				return nil
			})
		},
	}
}

func newProjectRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <project>",
		Aliases: []string{"remove"},
		Short:   "Delete a project with its workflows and widgets",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd, func(e *engine.Engine) error {
				p, err := findProject(e.Store().Get(), args[0])
				if err != nil {
					return err
				}
				if err := e.UseCases().DeleteProject(p.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed project %s\n", p.Name)
				return nil
			})
		},
	}
}

func newProjectRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <project> <name>",
		Short: "Rename a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd, func(e *engine.Engine) error {
				p, err := findProject(e.Store().Get(), args[0])
				if err != nil {
					return err
				}
				return e.UseCases().RenameProject(p.ID, args[1])
			})
		},
	}
}
