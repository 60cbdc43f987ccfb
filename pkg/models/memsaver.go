package models

import "time"

// Values understood by MemSaverConfig.WorkflowInactiveAfter.
const (
	// InactiveNever keeps a workflow loaded until its project is switched away.
	InactiveNever = -1
	// InactiveImmediately releases a workflow as soon as it loses focus.
	InactiveImmediately = 0
)

// MemSaverConfig is one layer of MemSaver settings. Nil fields are unset and
// fall through to the next, less specific layer (workflow -> project -> app).
type MemSaverConfig struct {
	// WorkflowInactiveAfter is the number of minutes after losing focus before
	// a workflow is deactivated. -1 means never, 0 means immediately.
	WorkflowInactiveAfter *int `json:"workflowInactiveAfter,omitempty" yaml:"workflow_inactive_after,omitempty" toml:"workflow_inactive_after,omitempty" jsonschema:"minimum=-1,description=Minutes before an unfocused workflow is released (-1 never or 0 immediately)"`

	// ActivateWorkflowsOnProjectSwitch loads every workflow of a project when
	// the project is opened, not only its current one.
	ActivateWorkflowsOnProjectSwitch *bool `json:"activateWorkflowsOnProjectSwitch,omitempty" yaml:"activate_workflows_on_project_switch,omitempty" toml:"activate_workflows_on_project_switch,omitempty" jsonschema:"description=Load all workflows of a project when it is opened"`
}

// IsZero reports whether no field is set.
func (c MemSaverConfig) IsZero() bool {
	return c.WorkflowInactiveAfter == nil && c.ActivateWorkflowsOnProjectSwitch == nil
}

// Merge returns c with every field set in override replacing its own.
func (c MemSaverConfig) Merge(override MemSaverConfig) MemSaverConfig {
	result := c
	if override.WorkflowInactiveAfter != nil {
		result.WorkflowInactiveAfter = override.WorkflowInactiveAfter
	}
	if override.ActivateWorkflowsOnProjectSwitch != nil {
		result.ActivateWorkflowsOnProjectSwitch = override.ActivateWorkflowsOnProjectSwitch
	}
	return result
}

// EffectiveMemSaver is a fully resolved MemSaver configuration.
type EffectiveMemSaver struct {
	WorkflowInactiveAfter            int
	ActivateWorkflowsOnProjectSwitch bool
}

// DefaultMemSaver is the base every resolution starts from.
var DefaultMemSaver = EffectiveMemSaver{
	WorkflowInactiveAfter:            InactiveNever,
	ActivateWorkflowsOnProjectSwitch: false,
}

// ResolveMemSaver merges the app, project and workflow layers, most specific
// wins per field, on top of DefaultMemSaver. Values below -1 are read as -1.
func ResolveMemSaver(app, project, workflow MemSaverConfig) EffectiveMemSaver {
	merged := app.Merge(project).Merge(workflow)
	eff := DefaultMemSaver
	if merged.WorkflowInactiveAfter != nil {
		eff.WorkflowInactiveAfter = *merged.WorkflowInactiveAfter
		if eff.WorkflowInactiveAfter < InactiveNever {
			eff.WorkflowInactiveAfter = InactiveNever
		}
	}
	if merged.ActivateWorkflowsOnProjectSwitch != nil {
		eff.ActivateWorkflowsOnProjectSwitch = *merged.ActivateWorkflowsOnProjectSwitch
	}
	return eff
}

// InactiveDelay converts WorkflowInactiveAfter minutes into a duration. It is
// only meaningful when WorkflowInactiveAfter is positive.
func (e EffectiveMemSaver) InactiveDelay() time.Duration {
	return time.Duration(e.WorkflowInactiveAfter) * time.Minute
}

// Int returns a pointer to v, for building MemSaverConfig literals.
func Int(v int) *int { return &v }

// Bool returns a pointer to v, for building MemSaverConfig literals.
func Bool(v bool) *bool { return &v }
