package models

import "github.com/grovetools/deck/pkg/entity"

// Project is a named collection of workflows. WorkflowIDs carries the
// display order of its workflows.
type Project struct {
	ID                entity.ID      `json:"id"`
	Name              string         `json:"name"`
	WorkflowIDs       entity.List    `json:"workflowIds"`
	CurrentWorkflowID entity.ID      `json:"currentWorkflowId"`
	MemSaver          MemSaverConfig `json:"memSaver"`
}

// ProjectID returns the id of p.
func ProjectID(p *Project) entity.ID { return p.ID }

// Workflow is a named canvas of widgets within a project.
type Workflow struct {
	ID        entity.ID      `json:"id"`
	ProjectID entity.ID      `json:"projectId"`
	Name      string         `json:"name"`
	Layout    []LayoutItem   `json:"layout"`
	MemSaver  MemSaverConfig `json:"memSaver"`
}

// WorkflowID returns the id of w.
func WorkflowID(w *Workflow) entity.ID { return w.ID }

// WidgetIDs returns the ids of the widgets placed in the workflow, in layout
// order.
func (w *Workflow) WidgetIDs() entity.List {
	return entity.ItemIDs(w.Layout)
}

// LayoutItem places a widget on a workflow canvas. Its id is the widget id.
type LayoutItem struct {
	ID     entity.ID `json:"id"`
	X      int       `json:"x"`
	Y      int       `json:"y"`
	Width  int       `json:"w"`
	Height int       `json:"h"`
}

// EntityID implements entity.Identified.
func (l LayoutItem) EntityID() entity.ID { return l.ID }
