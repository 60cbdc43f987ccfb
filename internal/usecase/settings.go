package usecase

import (
	"fmt"

	"github.com/grovetools/deck/errors"
	"github.com/grovetools/deck/pkg/entity"
	"github.com/grovetools/deck/pkg/models"
	"github.com/sirupsen/logrus"
)

func validateMemSaver(cfg models.MemSaverConfig) error {
	if v := cfg.WorkflowInactiveAfter; v != nil && *v < models.InactiveNever {
		return errors.InvalidInput(fmt.Sprintf("workflowInactiveAfter must be -1 or greater, got %d", *v))
	}
	return nil
}

// SetAppMemSaverConfig replaces the app level MemSaver layer. The new values
// apply from the next focus change on.
func (u *UseCases) SetAppMemSaverConfig(cfg models.MemSaverConfig) error {
	if err := validateMemSaver(cfg); err != nil {
		return err
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	st := u.store.Get()
	if st.Entities.AppSettings != nil && memSaverEqual(st.Entities.AppSettings.MemSaver, cfg) {
		return nil
	}
	settings := models.AppSettings{}
	if st.Entities.AppSettings != nil {
		settings = *st.Entities.AppSettings
	}
	settings.MemSaver = cfg
	u.commit(st.SetAppSettings(&settings), nil)

	u.logger.WithFields(memSaverFields(cfg)).Info("Updated app MemSaver settings")
	return nil
}

// SetProjectMemSaverConfig replaces the MemSaver layer of project id.
func (u *UseCases) SetProjectMemSaverConfig(id entity.ID, cfg models.MemSaverConfig) error {
	if err := validateMemSaver(cfg); err != nil {
		return err
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	st := u.store.Get()
	p, ok := st.Project(id)
	if !ok {
		return errors.EntityNotFound("project", string(id))
	}
	if memSaverEqual(p.MemSaver, cfg) {
		return nil
	}
	np := *p
	np.MemSaver = cfg
	u.commit(st.SetProjects(st.Entities.Projects.Set(id, &np)), nil)

	u.logger.WithFields(memSaverFields(cfg)).WithField("project", id).Info("Updated project MemSaver settings")
	return nil
}

// SetWorkflowMemSaverConfig replaces the MemSaver layer of workflow id.
func (u *UseCases) SetWorkflowMemSaverConfig(id entity.ID, cfg models.MemSaverConfig) error {
	if err := validateMemSaver(cfg); err != nil {
		return err
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	st := u.store.Get()
	wf, ok := st.Workflow(id)
	if !ok {
		return errors.EntityNotFound("workflow", string(id))
	}
	if memSaverEqual(wf.MemSaver, cfg) {
		return nil
	}
	nwf := *wf
	nwf.MemSaver = cfg
	u.commit(st.SetWorkflows(st.Entities.Workflows.Set(id, &nwf)), nil)

	u.logger.WithFields(memSaverFields(cfg)).WithField("workflow", id).Info("Updated workflow MemSaver settings")
	return nil
}

func memSaverEqual(a, b models.MemSaverConfig) bool {
	intEq := a.WorkflowInactiveAfter == nil && b.WorkflowInactiveAfter == nil ||
		a.WorkflowInactiveAfter != nil && b.WorkflowInactiveAfter != nil && *a.WorkflowInactiveAfter == *b.WorkflowInactiveAfter
	boolEq := a.ActivateWorkflowsOnProjectSwitch == nil && b.ActivateWorkflowsOnProjectSwitch == nil ||
		a.ActivateWorkflowsOnProjectSwitch != nil && b.ActivateWorkflowsOnProjectSwitch != nil && *a.ActivateWorkflowsOnProjectSwitch == *b.ActivateWorkflowsOnProjectSwitch
	return intEq && boolEq
}

func memSaverFields(cfg models.MemSaverConfig) logrus.Fields {
	fields := logrus.Fields{}
	if cfg.WorkflowInactiveAfter != nil {
		fields["workflow_inactive_after"] = *cfg.WorkflowInactiveAfter
	}
	if cfg.ActivateWorkflowsOnProjectSwitch != nil {
		fields["activate_on_project_switch"] = *cfg.ActivateWorkflowsOnProjectSwitch
	}
	return fields
}
