package testutil

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/grovetools/deck/pkg/entity"
	"github.com/grovetools/deck/pkg/models"
	"github.com/grovetools/deck/state"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

// QuietLogger returns a logger entry that discards all output.
func QuietLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.DebugLevel)
	return logrus.NewEntry(l)
}

// SequentialIDs returns an id generator yielding prefix-1, prefix-2, ...
func SequentialIDs(prefix string) func() entity.ID {
	var n atomic.Int64
	return func() entity.ID {
		return entity.ID(fmt.Sprintf("%s-%d", prefix, n.Add(1)))
	}
}

// RandomString generates a random string of the specified length
func RandomString(length int) string {
	bytes := make([]byte, length/2+1)
	if _, err := rand.Read(bytes); err != nil {
		panic(err)
	}
	return hex.EncodeToString(bytes)[:length]
}

// WriteFile writes content to name under dir and returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// StateBuilder assembles a state tree for tests. Projects are added in
// order; the first one becomes current unless Current is called.
type StateBuilder struct {
	st      *state.State
	current entity.ID
	active  []entity.ID
}

// NewState starts a builder from state.Default.
func NewState() *StateBuilder {
	return &StateBuilder{st: state.Default()}
}

// Project adds project id with the given workflows. The first workflow is
// the project's current one.
func (b *StateBuilder) Project(id entity.ID, cfg models.MemSaverConfig, workflows ...*models.Workflow) *StateBuilder {
	p := &models.Project{ID: id, Name: string(id), MemSaver: cfg}
	wfs := b.st.Entities.Workflows
	for _, wf := range workflows {
		wf.ProjectID = id
		if wf.Name == "" {
			wf.Name = string(wf.ID)
		}
		wfs = wfs.Set(wf.ID, wf)
		p.WorkflowIDs = p.WorkflowIDs.Append(wf.ID)
	}
	if len(p.WorkflowIDs) > 0 {
		p.CurrentWorkflowID = p.WorkflowIDs[0]
	}
	b.st = b.st.SetWorkflows(wfs)
	b.st = b.st.SetProjects(b.st.Entities.Projects.Set(id, p))
	b.st = b.st.SetProjectList(b.st.UI.ProjectList.Append(id))
	if b.current == "" {
		b.current = id
	}
	return b
}

// Current sets the current project.
func (b *StateBuilder) Current(id entity.ID) *StateBuilder {
	b.current = id
	return b
}

// Active marks workflows as loaded.
func (b *StateBuilder) Active(ids ...entity.ID) *StateBuilder {
	b.active = append(b.active, ids...)
	return b
}

// AppMemSaver sets the app level MemSaver layer.
func (b *StateBuilder) AppMemSaver(cfg models.MemSaverConfig) *StateBuilder {
	b.st = b.st.SetAppSettings(&models.AppSettings{MemSaver: cfg})
	return b
}

// Build returns the assembled state.
func (b *StateBuilder) Build() *state.State {
	st := b.st.SetCurrentProject(b.current)
	ms := *st.MemSaver()
	for _, id := range b.active {
		ms.ActiveWorkflowIDs = ms.ActiveWorkflowIDs.Append(id)
	}
	return st.SetMemSaver(&ms)
}

// Workflow returns a workflow with the given MemSaver layer.
func Workflow(id entity.ID, cfg models.MemSaverConfig) *models.Workflow {
	return &models.Workflow{ID: id, MemSaver: cfg}
}
