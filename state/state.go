// Package state defines the application state tree held by the store.
//
// The tree is immutable by convention: every setter returns a new root that
// shares all untouched branches with the old one, and returns the receiver
// itself when nothing changed. Subscribers rely on that identity to detect
// changes.
package state

import (
	"github.com/grovetools/deck/internal/memsaver"
	"github.com/grovetools/deck/pkg/entity"
	"github.com/grovetools/deck/pkg/models"
)

// State is the root of the application state.
type State struct {
	Entities *Entities `json:"entities"`
	UI       *UI       `json:"ui"`
}

// Entities holds the normalized domain collections.
type Entities struct {
	Projects    *entity.Collection[models.Project]    `json:"projects"`
	Workflows   *entity.Collection[models.Workflow]   `json:"workflows"`
	Widgets     *entity.Collection[models.Widget]     `json:"widgets"`
	WidgetTypes *entity.Collection[models.WidgetType] `json:"widgetTypes"`
	Apps        *entity.Collection[models.App]        `json:"apps"`
	AppSettings *models.AppSettings                   `json:"appSettings"`
}

// UI holds view state.
type UI struct {
	ProjectList      entity.List     `json:"projectList"`
	CurrentProjectID entity.ID       `json:"currentProjectId"`
	MemSaver         *memsaver.State `json:"memSaver"`
}

// CurrentProject returns the project in focus.
func (s *State) CurrentProject() (*models.Project, bool) {
	return s.Entities.Projects.Get(s.UI.CurrentProjectID)
}

// Project returns the project with id.
func (s *State) Project(id entity.ID) (*models.Project, bool) {
	return s.Entities.Projects.Get(id)
}

// Workflow returns the workflow with id.
func (s *State) Workflow(id entity.ID) (*models.Workflow, bool) {
	return s.Entities.Workflows.Get(id)
}

// ProjectWorkflows returns the workflows of p in display order.
func (s *State) ProjectWorkflows(p *models.Project) []*models.Workflow {
	if p == nil {
		return nil
	}
	return s.Entities.Workflows.Select(p.WorkflowIDs)
}

// Projects returns all projects in display order.
func (s *State) Projects() []*models.Project {
	return s.Entities.Projects.Select(s.UI.ProjectList)
}

// AppMemSaver returns the app level MemSaver layer.
func (s *State) AppMemSaver() models.MemSaverConfig {
	if s.Entities.AppSettings == nil {
		return models.MemSaverConfig{}
	}
	return s.Entities.AppSettings.MemSaver
}

// MemSaver returns the MemSaver slice, never nil.
func (s *State) MemSaver() *memsaver.State {
	if s.UI.MemSaver == nil {
		return memsaver.NewState()
	}
	return s.UI.MemSaver
}

func (s *State) withEntities(e *Entities) *State {
	if e == s.Entities {
		return s
	}
	next := *s
	next.Entities = e
	return &next
}

func (s *State) withUI(u *UI) *State {
	if u == s.UI {
		return s
	}
	next := *s
	next.UI = u
	return &next
}

func (s *State) entities() Entities { return *s.Entities }
func (s *State) ui() UI             { return *s.UI }

// SetProjects replaces the project collection.
func (s *State) SetProjects(c *entity.Collection[models.Project]) *State {
	if c == s.Entities.Projects {
		return s
	}
	e := s.entities()
	e.Projects = c
	return s.withEntities(&e)
}

// SetWorkflows replaces the workflow collection.
func (s *State) SetWorkflows(c *entity.Collection[models.Workflow]) *State {
	if c == s.Entities.Workflows {
		return s
	}
	e := s.entities()
	e.Workflows = c
	return s.withEntities(&e)
}

// SetWidgets replaces the widget collection.
func (s *State) SetWidgets(c *entity.Collection[models.Widget]) *State {
	if c == s.Entities.Widgets {
		return s
	}
	e := s.entities()
	e.Widgets = c
	return s.withEntities(&e)
}

// SetWidgetTypes replaces the widget type catalog.
func (s *State) SetWidgetTypes(c *entity.Collection[models.WidgetType]) *State {
	if c == s.Entities.WidgetTypes {
		return s
	}
	e := s.entities()
	e.WidgetTypes = c
	return s.withEntities(&e)
}

// SetAppSettings replaces the application settings.
func (s *State) SetAppSettings(a *models.AppSettings) *State {
	if a == s.Entities.AppSettings {
		return s
	}
	e := s.entities()
	e.AppSettings = a
	return s.withEntities(&e)
}

// SetProjectList replaces the project display order.
func (s *State) SetProjectList(l entity.List) *State {
	if entity.Same(l, s.UI.ProjectList) {
		return s
	}
	u := s.ui()
	u.ProjectList = l
	return s.withUI(&u)
}

// SetCurrentProject moves focus to project id.
func (s *State) SetCurrentProject(id entity.ID) *State {
	if id == s.UI.CurrentProjectID {
		return s
	}
	u := s.ui()
	u.CurrentProjectID = id
	return s.withUI(&u)
}

// SetMemSaver replaces the MemSaver slice.
func (s *State) SetMemSaver(ms *memsaver.State) *State {
	if ms == s.UI.MemSaver {
		return s
	}
	u := s.ui()
	u.MemSaver = ms
	return s.withUI(&u)
}

// Selectors for store subscriptions.

// SelectEntities selects the entities branch.
func SelectEntities(s *State) *Entities { return s.Entities }

// SelectMemSaver selects the MemSaver slice.
func SelectMemSaver(s *State) *memsaver.State { return s.UI.MemSaver }

// SelectActiveWorkflowIDs selects the ids of loaded workflows.
func SelectActiveWorkflowIDs(s *State) entity.List {
	if s.UI.MemSaver == nil {
		return nil
	}
	return s.UI.MemSaver.ActiveWorkflowIDs
}

// SelectCurrentProjectID selects the id of the project in focus.
func SelectCurrentProjectID(s *State) entity.ID { return s.UI.CurrentProjectID }
