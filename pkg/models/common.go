// Package models defines the domain entities of the dashboard: projects,
// workflows, widgets and the settings that shape their lifecycle.
package models

import "github.com/grovetools/deck/pkg/entity"

// App is a launcher entry for a web application that widgets can embed.
type App struct {
	ID   entity.ID `json:"id"`
	Name string    `json:"name"`
	URL  string    `json:"url"`
	Icon string    `json:"icon,omitempty"`
}

// AppID returns the id of a.
func AppID(a *App) entity.ID { return a.ID }

// AppSettings holds application-wide preferences.
type AppSettings struct {
	MemSaver MemSaverConfig `json:"memSaver"`
}
