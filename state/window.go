package state

import (
	"encoding/json"
)

// Window geometry persistence.
const (
	WindowKey     = "window"
	WindowVersion = 1
)

// WindowState is the main window geometry.
type WindowState struct {
	X         int  `json:"x"`
	Y         int  `json:"y"`
	Width     int  `json:"width"`
	Height    int  `json:"height"`
	Maximized bool `json:"maximized"`
}

// DefaultWindow is used when no geometry is stored.
var DefaultWindow = WindowState{Width: 1280, Height: 800}

// MigrateWindow maps geometry stored by any other version to DefaultWindow.
func MigrateWindow(json.RawMessage, int) (WindowState, error) {
	return DefaultWindow, nil
}

// WindowPersistent is the identity factory for window storage.
func WindowPersistent(w WindowState) WindowState { return w }
