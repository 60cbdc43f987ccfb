package state

import (
	"github.com/grovetools/deck/internal/memsaver"
	"github.com/grovetools/deck/pkg/entity"
	"github.com/grovetools/deck/pkg/models"
)

// Built-in widget types. They are registered at startup and never persisted.
var DefaultWidgetTypes = []*models.WidgetType{
	{ID: "webview", Name: "Web page", Description: "Embeds a web application"},
	{ID: "note", Name: "Note", Description: "Free-form text"},
	{ID: "terminal", Name: "Terminal", Description: "Shell session"},
}

// Default returns the state used when nothing has been persisted.
func Default() *State {
	return &State{
		Entities: &Entities{
			Projects:    entity.NewCollection(models.ProjectID),
			Workflows:   entity.NewCollection(models.WorkflowID),
			Widgets:     entity.NewCollection(models.WidgetID),
			WidgetTypes: entity.NewCollection(models.WidgetTypeID, DefaultWidgetTypes...),
			Apps:        entity.NewCollection(models.AppID),
			AppSettings: &models.AppSettings{},
		},
		UI: &UI{
			MemSaver: memsaver.NewState(),
		},
	}
}

// FromPersistent merges a loaded snapshot over Default. A nil snapshot
// yields Default. References that do not resolve are dropped: project list
// entries without a project, workflow ids without a workflow, and a current
// project or workflow that no longer exists.
func FromPersistent(ps *PersistentState) *State {
	st := Default()
	if ps == nil {
		return st
	}

	e := *st.Entities
	if ps.Entities.Projects != nil {
		e.Projects = ps.Entities.Projects
	}
	if ps.Entities.Workflows != nil {
		e.Workflows = ps.Entities.Workflows
	}
	if ps.Entities.Widgets != nil {
		e.Widgets = ps.Entities.Widgets
	}
	if ps.Entities.Apps != nil {
		e.Apps = ps.Entities.Apps
	}
	if ps.Entities.AppSettings != nil {
		settings := *ps.Entities.AppSettings
		e.AppSettings = &settings
	}
	e.Projects = normalizeProjects(e.Projects, e.Workflows)

	u := *st.UI
	u.ProjectList = normalizeProjectList(ps.UI.ProjectList, e.Projects)
	u.CurrentProjectID = ps.UI.CurrentProjectID
	if !e.Projects.Has(u.CurrentProjectID) {
		u.CurrentProjectID = ""
		if len(u.ProjectList) > 0 {
			u.CurrentProjectID = u.ProjectList[0]
		}
	}

	return &State{Entities: &e, UI: &u}
}

func normalizeProjects(projects *entity.Collection[models.Project], workflows *entity.Collection[models.Workflow]) *entity.Collection[models.Project] {
	for _, id := range projects.IDs() {
		projects = projects.Update(id, func(p *models.Project) *models.Project {
			ids := p.WorkflowIDs
			for _, wid := range p.WorkflowIDs {
				if !workflows.Has(wid) {
					ids = ids.Remove(wid)
				}
			}
			current := p.CurrentWorkflowID
			if !ids.Contains(current) {
				current = ""
				if len(ids) > 0 {
					current = ids[0]
				}
			}
			if entity.Same(ids, p.WorkflowIDs) && current == p.CurrentWorkflowID {
				return p
			}
			next := *p
			next.WorkflowIDs = ids
			next.CurrentWorkflowID = current
			return &next
		})
	}
	return projects
}

func normalizeProjectList(list entity.List, projects *entity.Collection[models.Project]) entity.List {
	out := make(entity.List, 0, projects.Len())
	for _, id := range list {
		if projects.Has(id) {
			out = out.Append(id)
		}
	}
	for _, id := range projects.IDs() {
		out = out.Append(id)
	}
	return out
}
