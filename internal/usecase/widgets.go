package usecase

import (
	"github.com/grovetools/deck/errors"
	"github.com/grovetools/deck/pkg/entity"
	"github.com/grovetools/deck/pkg/models"
	"github.com/sirupsen/logrus"
)

// AddWidget creates a widget of type typeID and places it on workflow
// workflowID at the geometry of at. The id of at is ignored.
func (u *UseCases) AddWidget(workflowID, typeID entity.ID, name string, at models.LayoutItem) (entity.ID, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	st := u.store.Get()
	wf, ok := st.Workflow(workflowID)
	if !ok {
		return "", errors.EntityNotFound("workflow", string(workflowID))
	}
	wt, ok := st.Entities.WidgetTypes.Get(typeID)
	if !ok {
		return "", errors.EntityNotFound("widget type", string(typeID))
	}
	if name == "" {
		name = wt.Name
	}

	id := u.newID()
	at.ID = id
	nwf := *wf
	nwf.Layout = append(append(make([]models.LayoutItem, 0, len(wf.Layout)+1), wf.Layout...), at)

	st = st.SetWidgets(st.Entities.Widgets.Set(id, &models.Widget{ID: id, TypeID: typeID, Name: name}))
	st = st.SetWorkflows(st.Entities.Workflows.Set(workflowID, &nwf))
	u.commit(st, nil)

	u.logger.WithFields(logrus.Fields{"widget": id, "type": typeID, "workflow": workflowID}).Info("Added widget")
	return id, nil
}

// RemoveWidget removes widget widgetID from workflow workflowID and deletes
// the widget.
func (u *UseCases) RemoveWidget(workflowID, widgetID entity.ID) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	st := u.store.Get()
	wf, ok := st.Workflow(workflowID)
	if !ok {
		return errors.EntityNotFound("workflow", string(workflowID))
	}
	if _, ok := entity.FindItem(wf.Layout, widgetID); !ok {
		return errors.EntityNotFound("widget", string(widgetID))
	}

	nwf := *wf
	nwf.Layout = entity.RemoveItems(wf.Layout, widgetID)
	st = st.SetWorkflows(st.Entities.Workflows.Set(workflowID, &nwf))
	st = st.SetWidgets(st.Entities.Widgets.Delete(widgetID))
	u.commit(st, nil)
	return nil
}

// MoveWidget replaces the geometry of widget widgetID in workflow workflowID.
func (u *UseCases) MoveWidget(workflowID, widgetID entity.ID, at models.LayoutItem) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	st := u.store.Get()
	wf, ok := st.Workflow(workflowID)
	if !ok {
		return errors.EntityNotFound("workflow", string(workflowID))
	}
	cur, ok := entity.FindItem(wf.Layout, widgetID)
	if !ok {
		return errors.EntityNotFound("widget", string(widgetID))
	}
	at.ID = widgetID
	if cur == at {
		return nil
	}

	nwf := *wf
	nwf.Layout = entity.ReplaceItem(wf.Layout, at)
	u.commit(st.SetWorkflows(st.Entities.Workflows.Set(workflowID, &nwf)), nil)
	return nil
}
