// Package lifecycle turns changes of the loaded-workflow set into mount and
// unmount calls on the component that owns workflow resources.
package lifecycle

import (
	"github.com/grovetools/deck/internal/store"
	"github.com/grovetools/deck/pkg/entity"
	"github.com/grovetools/deck/state"
	"github.com/sirupsen/logrus"
)

// Mounter loads and releases the widgets of a workflow.
type Mounter interface {
	Mount(workflowID entity.ID)
	Unmount(workflowID entity.ID)
}

// Watch mounts every currently active workflow, then mounts and unmounts
// exactly the workflows added to or removed from the active set on each
// change. It returns a function that stops watching. Mounter calls run on
// the dispatching goroutine and must not call use-cases synchronously.
func Watch(s *store.Store[*state.State], m Mounter, logger *logrus.Entry) func() {
	return store.SubscribeWithCustomEq(s, state.SelectActiveWorkflowIDs,
		func(next, prev entity.List) {
			if entity.Same(next, prev) {
				for _, id := range next {
					m.Mount(id)
				}
				return
			}
			added, removed := entity.Diff(prev, next)
			for _, id := range removed {
				m.Unmount(id)
			}
			for _, id := range added {
				m.Mount(id)
			}
			if logger != nil && (len(added) > 0 || len(removed) > 0) {
				logger.WithFields(logrus.Fields{
					"mounted":   added,
					"unmounted": removed,
				}).Debug("Workflow resources changed")
			}
		},
		entity.Equal,
		store.WithFireImmediately(),
	)
}

// LogMounter reports mount changes to a logger. The headless run loop
// uses it in place of a widget host.
type LogMounter struct {
	Logger *logrus.Entry
}

// Mount implements Mounter.
func (l LogMounter) Mount(id entity.ID) {
	l.Logger.WithField("workflow", id).Info("Mounted workflow")
}

// Unmount implements Mounter.
func (l LogMounter) Unmount(id entity.ID) {
	l.Logger.WithField("workflow", id).Info("Unmounted workflow")
}
