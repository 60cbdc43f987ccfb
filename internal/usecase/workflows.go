package usecase

import (
	"github.com/grovetools/deck/errors"
	"github.com/grovetools/deck/internal/memsaver"
	"github.com/grovetools/deck/pkg/entity"
	"github.com/grovetools/deck/pkg/models"
	"github.com/sirupsen/logrus"
)

// AddWorkflow appends a workflow to project projectID. A project without a
// current workflow gets the new one as current, and it is activated when
// that project has focus.
func (u *UseCases) AddWorkflow(projectID entity.ID, name string) (entity.ID, error) {
	name, err := validateName("workflow", name)
	if err != nil {
		return "", err
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	st := u.store.Get()
	p, ok := st.Project(projectID)
	if !ok {
		return "", errors.EntityNotFound("project", string(projectID))
	}

	id := u.newID()
	st = st.SetWorkflows(st.Entities.Workflows.Set(id, &models.Workflow{ID: id, ProjectID: projectID, Name: name}))

	np := *p
	np.WorkflowIDs = p.WorkflowIDs.Append(id)
	var cmds []memsaver.Command
	if np.CurrentWorkflowID == "" {
		np.CurrentWorkflowID = id
		if projectID == st.UI.CurrentProjectID {
			var ms *memsaver.State
			ms, cmds = memsaver.Activate(st.MemSaver(), id)
			st = st.SetMemSaver(ms)
		}
	}
	st = st.SetProjects(st.Entities.Projects.Set(projectID, &np))
	u.commit(st, cmds)

	u.logger.WithFields(logrus.Fields{"workflow": id, "project": projectID, "name": name}).Info("Added workflow")
	return id, nil
}

// RenameWorkflow changes the name of workflow id.
func (u *UseCases) RenameWorkflow(id entity.ID, name string) error {
	name, err := validateName("workflow", name)
	if err != nil {
		return err
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	st := u.store.Get()
	wf, ok := st.Workflow(id)
	if !ok {
		return errors.EntityNotFound("workflow", string(id))
	}
	if wf.Name == name {
		return nil
	}
	next := *wf
	next.Name = name
	u.commit(st.SetWorkflows(st.Entities.Workflows.Set(id, &next)), nil)
	return nil
}

// DeleteWorkflow removes workflow id and its widgets after deactivating it.
// When it was its project's current workflow, the first remaining workflow
// becomes current and is activated if the project has focus.
func (u *UseCases) DeleteWorkflow(id entity.ID) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	st := u.store.Get()
	wf, ok := st.Workflow(id)
	if !ok {
		return errors.EntityNotFound("workflow", string(id))
	}

	ms, cmds := memsaver.Deactivate(st.MemSaver(), id)

	st = st.SetWidgets(st.Entities.Widgets.Delete(wf.WidgetIDs()...))
	st = st.SetWorkflows(st.Entities.Workflows.Delete(id))

	if p, ok := st.Project(wf.ProjectID); ok {
		np := *p
		np.WorkflowIDs = p.WorkflowIDs.Remove(id)
		if np.CurrentWorkflowID == id {
			np.CurrentWorkflowID = ""
			if len(np.WorkflowIDs) > 0 {
				np.CurrentWorkflowID = np.WorkflowIDs[0]
				if p.ID == st.UI.CurrentProjectID {
					var out []memsaver.Command
					ms, out = memsaver.Activate(ms, np.CurrentWorkflowID)
					cmds = append(cmds, out...)
				}
			}
		}
		st = st.SetProjects(st.Entities.Projects.Set(p.ID, &np))
	}
	u.commit(st.SetMemSaver(ms), cmds)

	u.logger.WithFields(logrus.Fields{"workflow": id, "project": wf.ProjectID}).Info("Deleted workflow")
	return nil
}

// MoveWorkflow moves workflow id to position to within its project.
func (u *UseCases) MoveWorkflow(id entity.ID, to int) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	st := u.store.Get()
	wf, ok := st.Workflow(id)
	if !ok {
		return errors.EntityNotFound("workflow", string(id))
	}
	p, ok := st.Project(wf.ProjectID)
	if !ok {
		return errors.EntityNotFound("project", string(wf.ProjectID))
	}
	from := p.WorkflowIDs.IndexOf(id)
	moved := p.WorkflowIDs.Move(from, to)
	if entity.Same(moved, p.WorkflowIDs) {
		return nil
	}
	np := *p
	np.WorkflowIDs = moved
	u.commit(st.SetProjects(st.Entities.Projects.Set(p.ID, &np)), nil)
	return nil
}
