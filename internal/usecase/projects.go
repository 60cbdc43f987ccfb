package usecase

import (
	"github.com/grovetools/deck/errors"
	"github.com/grovetools/deck/internal/memsaver"
	"github.com/grovetools/deck/pkg/entity"
	"github.com/grovetools/deck/pkg/models"
	"github.com/grovetools/deck/state"
	"github.com/sirupsen/logrus"
)

// AddProject creates a project with one workflow and appends it to the
// project list. Focus does not move.
func (u *UseCases) AddProject(name string) (entity.ID, error) {
	name, err := validateName("project", name)
	if err != nil {
		return "", err
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	next, id, workflowID := u.addProject(u.store.Get(), name)
	u.commit(next, nil)

	u.logger.WithFields(logrus.Fields{"project": id, "workflow": workflowID, "name": name}).Info("Added project")
	return id, nil
}

func (u *UseCases) addProject(st *state.State, name string) (*state.State, entity.ID, entity.ID) {
	id := u.newID()
	workflowID := u.newID()

	wf := &models.Workflow{ID: workflowID, ProjectID: id, Name: DefaultWorkflowName}
	p := &models.Project{
		ID:                id,
		Name:              name,
		WorkflowIDs:       entity.List{workflowID},
		CurrentWorkflowID: workflowID,
	}

	st = st.SetWorkflows(st.Entities.Workflows.Set(workflowID, wf))
	st = st.SetProjects(st.Entities.Projects.Set(id, p))
	st = st.SetProjectList(st.UI.ProjectList.Append(id))
	return st, id, workflowID
}

// RenameProject changes the name of project id.
func (u *UseCases) RenameProject(id entity.ID, name string) error {
	name, err := validateName("project", name)
	if err != nil {
		return err
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	st := u.store.Get()
	p, ok := st.Project(id)
	if !ok {
		return errors.EntityNotFound("project", string(id))
	}
	if p.Name == name {
		return nil
	}
	next := *p
	next.Name = name
	u.commit(st.SetProjects(st.Entities.Projects.Set(id, &next)), nil)
	return nil
}

// DeleteProject removes project id with its workflows and their widgets.
// Its workflows are deactivated and their timers cancelled. When it was the
// current project, focus moves to the first remaining project.
func (u *UseCases) DeleteProject(id entity.ID) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	st := u.store.Get()
	p, ok := st.Project(id)
	if !ok {
		return errors.EntityNotFound("project", string(id))
	}

	ms := st.MemSaver()
	var cmds, out []memsaver.Command
	var widgetIDs []entity.ID
	for _, wf := range st.ProjectWorkflows(p) {
		ms, out = memsaver.Deactivate(ms, wf.ID)
		cmds = append(cmds, out...)
		widgetIDs = append(widgetIDs, wf.WidgetIDs()...)
	}

	wasCurrent := st.UI.CurrentProjectID == id
	st = st.SetMemSaver(ms)
	st = st.SetWidgets(st.Entities.Widgets.Delete(widgetIDs...))
	st = st.SetWorkflows(st.Entities.Workflows.Delete(p.WorkflowIDs...))
	st = st.SetProjects(st.Entities.Projects.Delete(id))
	st = st.SetProjectList(st.UI.ProjectList.Remove(id))

	if wasCurrent {
		st = st.SetCurrentProject("")
		if len(st.UI.ProjectList) > 0 {
			st, out = u.enterProject(st, st.UI.ProjectList[0])
			cmds = append(cmds, out...)
		}
	}
	u.commit(st, cmds)

	u.logger.WithFields(logrus.Fields{
		"project":   id,
		"workflows": len(p.WorkflowIDs),
		"widgets":   len(widgetIDs),
	}).Info("Deleted project")
	return nil
}

// MoveProject moves project id to position to in the project list.
func (u *UseCases) MoveProject(id entity.ID, to int) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	st := u.store.Get()
	from := st.UI.ProjectList.IndexOf(id)
	if from < 0 {
		return errors.EntityNotFound("project", string(id))
	}
	u.commit(st.SetProjectList(st.UI.ProjectList.Move(from, to)), nil)
	return nil
}
