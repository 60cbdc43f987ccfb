package usecase

import (
	"github.com/grovetools/deck/errors"
	"github.com/grovetools/deck/internal/memsaver"
	"github.com/grovetools/deck/pkg/entity"
	"github.com/grovetools/deck/pkg/models"
	"github.com/grovetools/deck/state"
	"github.com/sirupsen/logrus"
)

// Default names for the project and workflow created on first start.
const (
	DefaultProjectName  = "Home"
	DefaultWorkflowName = "Main"
)

// Init prepares loaded state for use: it creates a first project when there
// is none, makes sure a project is current, and activates the current
// project's workflows.
func (u *UseCases) Init() error {
	u.mu.Lock()
	defer u.mu.Unlock()

	st := u.store.Get()
	if st.Entities.Projects.Len() == 0 {
		st, _, _ = u.addProject(st, DefaultProjectName)
		u.logger.WithField("project", DefaultProjectName).Info("Created first project")
	}
	current := st.UI.CurrentProjectID
	if !st.Entities.Projects.Has(current) && len(st.UI.ProjectList) > 0 {
		current = st.UI.ProjectList[0]
	}

	st, cmds := u.enterProject(st, current)
	u.commit(st, cmds)

	u.logger.WithFields(logrus.Fields{
		"project": current,
		"active":  len(st.MemSaver().ActiveWorkflowIDs),
	}).Debug("Initialized state")
	return nil
}

// SwitchProject moves focus to project id. The outgoing project's workflows
// are released or scheduled for release; the incoming project's current
// workflow is activated.
func (u *UseCases) SwitchProject(id entity.ID) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	st := u.store.Get()
	if !st.Entities.Projects.Has(id) {
		return errors.EntityNotFound("project", string(id))
	}
	if st.UI.CurrentProjectID == id {
		return nil
	}

	from := st.UI.CurrentProjectID
	next, cmds := u.enterProject(st, id)
	u.commit(next, cmds)

	u.logger.WithFields(logrus.Fields{"from": from, "to": id}).Info("Switched project")
	return nil
}

// SwitchWorkflow focuses workflow id. The workflow that loses focus is
// scheduled for deactivation per its effective MemSaver config. A workflow
// of another project switches that project in as well.
func (u *UseCases) SwitchWorkflow(id entity.ID) error {
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

	previous := p.CurrentWorkflowID
	st = setCurrentWorkflow(st, p, id)

	if p.ID != st.UI.CurrentProjectID {
		next, cmds := u.enterProject(st, p.ID)
		u.commit(next, cmds)
		u.logger.WithFields(logrus.Fields{"workflow": id, "project": p.ID}).Info("Switched workflow and project")
		return nil
	}

	ms, cmds := memsaver.Activate(st.MemSaver(), id)
	if previous != "" && previous != id {
		if prevWf, ok := st.Workflow(previous); ok {
			eff := models.ResolveMemSaver(st.AppMemSaver(), p.MemSaver, prevWf.MemSaver)
			var out []memsaver.Command
			ms, out = memsaver.ScheduleDeactivation(ms, previous, eff)
			cmds = append(cmds, out...)
		}
	}
	u.commit(st.SetMemSaver(ms), cmds)

	u.logger.WithFields(logrus.Fields{"from": previous, "to": id}).Debug("Switched workflow")
	return nil
}

// ActivateWorkflow loads workflow id without moving focus.
func (u *UseCases) ActivateWorkflow(id entity.ID) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	st := u.store.Get()
	if _, ok := st.Workflow(id); !ok {
		return errors.EntityNotFound("workflow", string(id))
	}
	ms, cmds := memsaver.Activate(st.MemSaver(), id)
	u.commit(st.SetMemSaver(ms), cmds)
	return nil
}

// DeactivateWorkflow releases workflow id now, cancelling any pending timer.
// Unknown ids are a no-op.
func (u *UseCases) DeactivateWorkflow(id entity.ID) {
	u.mu.Lock()
	defer u.mu.Unlock()

	st := u.store.Get()
	ms, cmds := memsaver.Deactivate(st.MemSaver(), id)
	u.commit(st.SetMemSaver(ms), cmds)
}

// enterProject makes to the current project. The previous current project,
// if any, has its workflows deactivated first.
func (u *UseCases) enterProject(st *state.State, to entity.ID) (*state.State, []memsaver.Command) {
	app := st.AppMemSaver()
	ms := st.MemSaver()
	var cmds, out []memsaver.Command

	if from, ok := st.CurrentProject(); ok && from.ID != to {
		ms, out = memsaver.DeactivateProjectWorkflows(ms, st.ProjectWorkflows(from), app, from.MemSaver)
		cmds = append(cmds, out...)
	}

	st = st.SetCurrentProject(to)
	if p, ok := st.Project(to); ok {
		ms, out = memsaver.ActivateProjectWorkflows(ms, st.ProjectWorkflows(p), p.CurrentWorkflowID, app, p.MemSaver)
		cmds = append(cmds, out...)
	}
	return st.SetMemSaver(ms), cmds
}

func setCurrentWorkflow(st *state.State, p *models.Project, id entity.ID) *state.State {
	if p.CurrentWorkflowID == id {
		return st
	}
	next := *p
	next.CurrentWorkflowID = id
	return st.SetProjects(st.Entities.Projects.Set(p.ID, &next))
}
