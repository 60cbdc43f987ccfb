package engine

import (
	"context"
	"testing"
	"time"

	"github.com/grovetools/deck/config"
	"github.com/grovetools/deck/errors"
	"github.com/grovetools/deck/pkg/clock"
	"github.com/grovetools/deck/pkg/entity"
	"github.com/grovetools/deck/pkg/persist"
	"github.com/grovetools/deck/state"
	"github.com/grovetools/deck/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mounts struct {
	mounted entity.List
}

func (m *mounts) Mount(id entity.ID)   { m.mounted = m.mounted.Append(id) }
func (m *mounts) Unmount(id entity.ID) { m.mounted = m.mounted.Remove(id) }

func testConfig(t *testing.T, yaml string) *config.Config {
	t.Helper()
	cfg, err := config.LoadFromBytes([]byte(yaml))
	require.NoError(t, err)
	return cfg
}

func newEngine(t *testing.T, backend persist.Backend, clk *clock.FakeClock, cfg *config.Config, m *mounts) *Engine {
	t.Helper()
	opts := Options{
		Config:  cfg,
		Backend: backend,
		Clock:   clk,
		Logger:  testutil.QuietLogger(),
	}
	if m != nil {
		opts.Mounter = m
	}
	e, err := New(context.Background(), opts)
	require.NoError(t, err)
	return e
}

func TestFirstStartPersistsAfterDebounce(t *testing.T) {
	backend := persist.NewMemoryBackend()
	clk := clock.NewFakeClock(time.Unix(0, 0))
	m := &mounts{}
	e := newEngine(t, backend, clk, testConfig(t, "storage:\n  debounce_ms: 200\n"), m)

	p, ok := e.Store().Get().CurrentProject()
	require.True(t, ok)
	assert.Equal(t, entity.List{p.CurrentWorkflowID}, m.mounted)
	assert.Equal(t, 0, backend.Writes())

	clk.Advance(199 * time.Millisecond)
	assert.Equal(t, 0, backend.Writes())
	clk.Advance(time.Millisecond)
	assert.Equal(t, 1, backend.Writes())

	var env struct {
		Ver int `json:"ver"`
	}
	ok, err := persist.GetJSON(context.Background(), backend, state.Key, &env)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, state.Version, env.Ver)

	require.NoError(t, e.Close(context.Background()))
}

func TestRestartRestoresState(t *testing.T) {
	backend := persist.NewMemoryBackend()
	clk := clock.NewFakeClock(time.Unix(0, 0))
	cfg := testConfig(t, "")

	e := newEngine(t, backend, clk, cfg, nil)
	id, err := e.UseCases().AddProject("Work")
	require.NoError(t, err)
	require.NoError(t, e.UseCases().SwitchProject(id))
	e.SetWindow(state.WindowState{X: 10, Y: 20, Width: 800, Height: 600})
	require.NoError(t, e.Close(context.Background()))
	require.NoError(t, e.Close(context.Background()))

	m := &mounts{}
	e2 := newEngine(t, backend, clk, cfg, m)
	defer e2.Close(context.Background())

	st := e2.Store().Get()
	assert.Equal(t, id, st.UI.CurrentProjectID)
	assert.Len(t, st.UI.ProjectList, 2)
	p, _ := st.Project(id)
	assert.Equal(t, entity.List{p.CurrentWorkflowID}, m.mounted)
	assert.Equal(t, state.WindowState{X: 10, Y: 20, Width: 800, Height: 600}, e2.Window())
}

func TestConfigMemSaverOverridesAppSettings(t *testing.T) {
	cfg := testConfig(t, "memsaver:\n  workflow_inactive_after: 2\n")
	e := newEngine(t, persist.NewMemoryBackend(), clock.NewFakeClock(time.Unix(0, 0)), cfg, nil)
	defer e.Close(context.Background())

	ms := e.Store().Get().AppMemSaver()
	require.NotNil(t, ms.WorkflowInactiveAfter)
	assert.Equal(t, 2, *ms.WorkflowInactiveAfter)
	assert.Nil(t, ms.ActivateWorkflowsOnProjectSwitch)
}

func TestStartupErrors(t *testing.T) {
	tests := []struct {
		name   string
		stored string
		code   errors.ErrorCode
	}{
		{
			name:   "undecodable current version",
			stored: `{"ver":3,"obj":{"entities":{"projects":[1,2]}}}`,
			code:   errors.ErrCodeStateCorrupted,
		},
		{
			name:   "newer version",
			stored: `{"ver":99,"obj":{}}`,
			code:   errors.ErrCodeMigrationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := persist.NewMemoryBackend()
			require.NoError(t, backend.SetText(context.Background(), state.Key, tt.stored))

			_, err := New(context.Background(), Options{
				Config:  testConfig(t, ""),
				Backend: backend,
				Clock:   clock.NewFakeClock(time.Unix(0, 0)),
				Logger:  testutil.QuietLogger(),
			})
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.code), "got %v", err)
		})
	}
}

func TestMalformedEnvelopeFallsBackToDefaults(t *testing.T) {
	backend := persist.NewMemoryBackend()
	require.NoError(t, backend.SetText(context.Background(), state.Key, `[1,2,3]`))

	e := newEngine(t, backend, clock.NewFakeClock(time.Unix(0, 0)), testConfig(t, ""), nil)
	defer e.Close(context.Background())

	assert.Equal(t, 1, e.Store().Get().Entities.Projects.Len())
	assert.Equal(t, state.DefaultWindow, e.Window())
}

func TestMigratesVersionOneSnapshot(t *testing.T) {
	backend := persist.NewMemoryBackend()
	stored := `{"ver":1,"obj":{
		"entities":{
			"projects":{"p1":{"id":"p1","name":"Old","workflows":["w1"],"currentWorkflowId":"w1"}},
			"workflows":{"w1":{"id":"w1","projectId":"p1","name":"Main","layout":[{"widgetId":"x1","x":0,"y":0,"w":2,"h":2}]}},
			"widgets":{"x1":{"id":"x1","typeId":"note","name":"Todo"}}
		},
		"ui":{"projectList":["p1"],"currentProjectId":"p1"}
	}}`
	require.NoError(t, backend.SetText(context.Background(), state.Key, stored))

	e := newEngine(t, backend, clock.NewFakeClock(time.Unix(0, 0)), testConfig(t, ""), nil)
	defer e.Close(context.Background())

	st := e.Store().Get()
	p, ok := st.Project("p1")
	require.True(t, ok)
	assert.Equal(t, entity.List{"w1"}, p.WorkflowIDs)
	wf, ok := st.Workflow("w1")
	require.True(t, ok)
	require.Len(t, wf.Layout, 1)
	assert.Equal(t, entity.ID("x1"), wf.Layout[0].ID)
	assert.True(t, st.MemSaver().IsActive("w1"))
}

func TestReloadAppliesConfig(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "deck.yml", "storage:\n  backend: memory\n")

	e, err := New(context.Background(), Options{
		ConfigDir: dir,
		Clock:     clock.NewFakeClock(time.Unix(0, 0)),
		Logger:    testutil.QuietLogger(),
	})
	require.NoError(t, err)
	defer e.Close(context.Background())
	assert.Equal(t, persist.KindMemory, e.Config().Storage.Backend)
	assert.Nil(t, e.Store().Get().AppMemSaver().WorkflowInactiveAfter)

	testutil.WriteFile(t, dir, "deck.yml", "storage:\n  backend: memory\nmemsaver:\n  workflow_inactive_after: 0\n")
	require.NoError(t, e.Reload())

	ms := e.Store().Get().AppMemSaver()
	require.NotNil(t, ms.WorkflowInactiveAfter)
	assert.Equal(t, 0, *ms.WorkflowInactiveAfter)
}

func TestStartFlushesOnCancel(t *testing.T) {
	backend := persist.NewMemoryBackend()
	e := newEngine(t, backend, clock.NewFakeClock(time.Unix(0, 0)), testConfig(t, ""), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, e.Start(ctx))
	assert.Equal(t, 1, backend.Writes())
}
