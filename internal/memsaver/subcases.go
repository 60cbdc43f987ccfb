package memsaver

import (
	"github.com/grovetools/deck/pkg/entity"
	"github.com/grovetools/deck/pkg/models"
)

// ResetDelayedDeactivation drops id's pending deactivation, if any.
func ResetDelayedDeactivation(st *State, id entity.ID) (*State, []Command) {
	token, ok := st.PendingTimer(id)
	if !ok {
		return st, nil
	}
	next := st.clone()
	next.WorkflowTimeouts = st.withoutTimeout(id)
	return next, []Command{{Kind: CancelTimer, Token: token, WorkflowID: id}}
}

// Activate loads id and cancels its pending deactivation. Idempotent.
func Activate(st *State, id entity.ID) (*State, []Command) {
	next, cmds := ResetDelayedDeactivation(st, id)
	if next.IsActive(id) {
		return next, cmds
	}
	if next == st {
		next = st.clone()
	}
	next.ActiveWorkflowIDs = next.ActiveWorkflowIDs.Append(id)
	return next, cmds
}

// Deactivate releases id and cancels its pending deactivation. Idempotent.
func Deactivate(st *State, id entity.ID) (*State, []Command) {
	next, cmds := ResetDelayedDeactivation(st, id)
	if !next.IsActive(id) {
		return next, cmds
	}
	if next == st {
		next = st.clone()
	}
	next.ActiveWorkflowIDs = next.ActiveWorkflowIDs.Remove(id)
	return next, cmds
}

// ScheduleDeactivation applies eff to a workflow that lost focus:
//   - 0 deactivates it now
//   - N > 0 arms a deactivation N minutes out
//   - -1 leaves it loaded
//
// Inactive workflows, and workflows whose deactivation is already pending,
// are left unchanged.
func ScheduleDeactivation(st *State, id entity.ID, eff models.EffectiveMemSaver) (*State, []Command) {
	if !st.IsActive(id) {
		return st, nil
	}
	switch {
	case eff.WorkflowInactiveAfter == models.InactiveImmediately:
		return Deactivate(st, id)
	case eff.WorkflowInactiveAfter > 0:
		if _, pending := st.PendingTimer(id); pending {
			return st, nil
		}
		next := st.clone()
		next.NextTimerID++
		token := next.NextTimerID
		next.WorkflowTimeouts = st.withTimeout(id, token)
		return next, []Command{{
			Kind:       ArmTimer,
			Token:      token,
			WorkflowID: id,
			Delay:      eff.InactiveDelay(),
		}}
	default:
		return st, nil
	}
}

// DeactivateProjectWorkflows handles leaving a project. Each workflow is
// released now when its effective delay is 0 or -1 (never while the project
// is open), or gets a delayed deactivation when it is positive.
func DeactivateProjectWorkflows(st *State, workflows []*models.Workflow, app, project models.MemSaverConfig) (*State, []Command) {
	var cmds []Command
	for _, wf := range workflows {
		eff := models.ResolveMemSaver(app, project, wf.MemSaver)
		var out []Command
		if eff.WorkflowInactiveAfter > 0 {
			st, out = ScheduleDeactivation(st, wf.ID, eff)
		} else {
			st, out = Deactivate(st, wf.ID)
		}
		cmds = append(cmds, out...)
	}
	return st, cmds
}

// ActivateProjectWorkflows handles entering a project, including at startup.
// The current workflow is activated. Every other workflow is activated too
// when its effective ActivateWorkflowsOnProjectSwitch is set; otherwise it is
// scheduled for deactivation like a workflow that lost focus.
func ActivateProjectWorkflows(st *State, workflows []*models.Workflow, currentID entity.ID, app, project models.MemSaverConfig) (*State, []Command) {
	var cmds []Command
	var out []Command
	if currentID != "" {
		st, out = Activate(st, currentID)
		cmds = append(cmds, out...)
	}
	for _, wf := range workflows {
		if wf.ID == currentID {
			continue
		}
		eff := models.ResolveMemSaver(app, project, wf.MemSaver)
		if eff.ActivateWorkflowsOnProjectSwitch {
			st, out = Activate(st, wf.ID)
		} else {
			st, out = ScheduleDeactivation(st, wf.ID, eff)
		}
		cmds = append(cmds, out...)
	}
	return st, cmds
}
