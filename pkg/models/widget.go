package models

import "github.com/grovetools/deck/pkg/entity"

// Widget is a single tool instance, such as an embedded web page or a note.
type Widget struct {
	ID       entity.ID      `json:"id"`
	TypeID   entity.ID      `json:"typeId"`
	Name     string         `json:"name"`
	Settings map[string]any `json:"settings,omitempty"`
}

// WidgetID returns the id of w.
func WidgetID(w *Widget) entity.ID { return w.ID }

// WidgetType describes a kind of widget offered by the catalog. Types are
// provided at startup and never persisted.
type WidgetType struct {
	ID          entity.ID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
}

// WidgetTypeID returns the id of t.
func WidgetTypeID(t *WidgetType) entity.ID { return t.ID }
