package state

import (
	"github.com/grovetools/deck/pkg/entity"
	"github.com/grovetools/deck/pkg/models"
)

// Persistence keys and schema versions.
const (
	Key     = "app"
	Version = 3
)

// PersistentState is the subset of State written to storage. Widget types
// and MemSaver runtime state are rebuilt at startup.
type PersistentState struct {
	Entities PersistentEntities `json:"entities"`
	UI       PersistentUI       `json:"ui"`
}

// PersistentEntities are the persisted collections.
type PersistentEntities struct {
	Projects    *entity.Collection[models.Project]  `json:"projects"`
	Workflows   *entity.Collection[models.Workflow] `json:"workflows"`
	Widgets     *entity.Collection[models.Widget]   `json:"widgets"`
	Apps        *entity.Collection[models.App]      `json:"apps"`
	AppSettings *models.AppSettings                 `json:"appSettings"`
}

// PersistentUI is the persisted view state.
type PersistentUI struct {
	ProjectList      entity.List `json:"projectList"`
	CurrentProjectID entity.ID   `json:"currentProjectId"`
}

// ToPersistent derives the persisted subset of s.
func ToPersistent(s *State) PersistentState {
	return PersistentState{
		Entities: PersistentEntities{
			Projects:    s.Entities.Projects,
			Workflows:   s.Entities.Workflows,
			Widgets:     s.Entities.Widgets,
			Apps:        s.Entities.Apps,
			AppSettings: s.Entities.AppSettings,
		},
		UI: PersistentUI{
			ProjectList:      s.UI.ProjectList,
			CurrentProjectID: s.UI.CurrentProjectID,
		},
	}
}
