package state

import (
	"encoding/json"
	"fmt"
)

// Stored layouts by version:
//
//	1: projects list their workflows under "workflows"
//	2: renamed to "workflowIds"; layout items reference widgets by "widgetId"
//	3: layout items carry the widget id as "id"; memSaver on app settings,
//	   projects and workflows
var migrations = map[int]func(doc map[string]json.RawMessage) error{
	1: renameProjectWorkflows,
	2: layoutItemIDs,
}

// Migrate converts a payload stored at version from to the current
// PersistentState. Versions newer than Version, and versions with no known
// layout, are rejected.
func Migrate(obj json.RawMessage, from int) (PersistentState, error) {
	var ps PersistentState
	if from > Version {
		return ps, fmt.Errorf("stored version %d is newer than supported version %d", from, Version)
	}
	if _, ok := migrations[from]; !ok && from != Version {
		return ps, fmt.Errorf("unknown stored version %d", from)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(obj, &doc); err != nil {
		return ps, fmt.Errorf("decode version %d payload: %w", from, err)
	}
	for v := from; v < Version; v++ {
		if err := migrations[v](doc); err != nil {
			return ps, fmt.Errorf("migrate version %d to %d: %w", v, v+1, err)
		}
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return ps, err
	}
	if err := json.Unmarshal(data, &ps); err != nil {
		return ps, fmt.Errorf("decode migrated payload: %w", err)
	}
	return ps, nil
}

func renameProjectWorkflows(doc map[string]json.RawMessage) error {
	return editEntities(doc, "projects", func(item map[string]json.RawMessage) {
		if ids, ok := item["workflows"]; ok {
			if _, exists := item["workflowIds"]; !exists {
				item["workflowIds"] = ids
			}
			delete(item, "workflows")
		}
	})
}

func layoutItemIDs(doc map[string]json.RawMessage) error {
	return editEntities(doc, "workflows", func(item map[string]json.RawMessage) {
		raw, ok := item["layout"]
		if !ok {
			return
		}
		var layout []map[string]json.RawMessage
		if err := json.Unmarshal(raw, &layout); err != nil {
			return
		}
		for _, li := range layout {
			if widgetID, ok := li["widgetId"]; ok {
				if _, exists := li["id"]; !exists {
					li["id"] = widgetID
				}
				delete(li, "widgetId")
			}
		}
		if data, err := json.Marshal(layout); err == nil {
			item["layout"] = data
		}
	})
}

// editEntities applies fn to every item of doc.entities[collection].
func editEntities(doc map[string]json.RawMessage, collection string, fn func(item map[string]json.RawMessage)) error {
	rawEntities, ok := doc["entities"]
	if !ok {
		return nil
	}
	var entities map[string]json.RawMessage
	if err := json.Unmarshal(rawEntities, &entities); err != nil {
		return fmt.Errorf("entities: %w", err)
	}
	rawItems, ok := entities[collection]
	if !ok {
		return nil
	}
	var items map[string]map[string]json.RawMessage
	if err := json.Unmarshal(rawItems, &items); err != nil {
		return fmt.Errorf("%s: %w", collection, err)
	}
	for _, item := range items {
		if item != nil {
			fn(item)
		}
	}

	var err error
	if entities[collection], err = json.Marshal(items); err != nil {
		return err
	}
	doc["entities"], err = json.Marshal(entities)
	return err
}
