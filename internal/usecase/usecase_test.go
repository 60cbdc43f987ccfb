package usecase

import (
	"testing"
	"time"

	"github.com/grovetools/deck/errors"
	"github.com/grovetools/deck/internal/memsaver"
	"github.com/grovetools/deck/internal/store"
	"github.com/grovetools/deck/pkg/clock"
	"github.com/grovetools/deck/pkg/entity"
	"github.com/grovetools/deck/pkg/models"
	"github.com/grovetools/deck/state"
	"github.com/grovetools/deck/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	uc    *UseCases
	clock *clock.FakeClock
	arena *memsaver.TimerArena
}

func newHarness(t *testing.T, initial *state.State) *harness {
	t.Helper()
	clk := clock.NewFakeClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	logger := testutil.QuietLogger()
	arena := memsaver.NewTimerArena(clk, logger)
	uc := New(store.New(initial), arena,
		WithLogger(logger),
		WithIDGenerator(testutil.SequentialIDs("id")),
	)
	t.Cleanup(uc.Shutdown)
	return &harness{uc: uc, clock: clk, arena: arena}
}

func (h *harness) state() *state.State { return h.uc.Store().Get() }

func (h *harness) active() entity.List { return h.state().MemSaver().ActiveWorkflowIDs }

func TestInit(t *testing.T) {
	t.Run("creates first project", func(t *testing.T) {
		h := newHarness(t, state.Default())
		require.NoError(t, h.uc.Init())

		st := h.state()
		p, ok := st.CurrentProject()
		require.True(t, ok)
		assert.Equal(t, DefaultProjectName, p.Name)
		assert.Equal(t, entity.List{p.ID}, st.UI.ProjectList)
		require.Len(t, p.WorkflowIDs, 1)

		wf, ok := st.Workflow(p.CurrentWorkflowID)
		require.True(t, ok)
		assert.Equal(t, DefaultWorkflowName, wf.Name)
		assert.Equal(t, entity.List{wf.ID}, h.active())
	})

	t.Run("activates current project of loaded state", func(t *testing.T) {
		initial := testutil.NewState().
			Project("p1", models.MemSaverConfig{}, testutil.Workflow("w1", models.MemSaverConfig{})).
			Project("p2", models.MemSaverConfig{}, testutil.Workflow("w2", models.MemSaverConfig{})).
			Current("p2").
			Build()
		h := newHarness(t, initial)
		require.NoError(t, h.uc.Init())

		assert.Equal(t, entity.ID("p2"), h.state().UI.CurrentProjectID)
		assert.Equal(t, entity.List{"w2"}, h.active())
		assert.Equal(t, 2, h.state().Entities.Projects.Len())
	})

	t.Run("falls back to first listed project", func(t *testing.T) {
		initial := testutil.NewState().
			Project("p1", models.MemSaverConfig{}, testutil.Workflow("w1", models.MemSaverConfig{})).
			Current("gone").
			Build()
		h := newHarness(t, initial)
		require.NoError(t, h.uc.Init())

		assert.Equal(t, entity.ID("p1"), h.state().UI.CurrentProjectID)
		assert.Equal(t, entity.List{"w1"}, h.active())
	})
}

func TestSwitchProjectDeactivatesOutgoingWorkflows(t *testing.T) {
	initial := testutil.NewState().
		Project("p1", models.MemSaverConfig{
			WorkflowInactiveAfter:            models.Int(0),
			ActivateWorkflowsOnProjectSwitch: models.Bool(false),
		},
			testutil.Workflow("w1", models.MemSaverConfig{}),
			testutil.Workflow("w2", models.MemSaverConfig{}),
		).
		Project("p2", models.MemSaverConfig{}, testutil.Workflow("w3", models.MemSaverConfig{})).
		Active("w1").
		Build()
	h := newHarness(t, initial)

	require.NoError(t, h.uc.SwitchProject("p2"))

	st := h.state()
	assert.Equal(t, entity.ID("p2"), st.UI.CurrentProjectID)
	assert.Equal(t, entity.List{"w3"}, st.MemSaver().ActiveWorkflowIDs)
	_, pending := st.MemSaver().PendingTimer("w1")
	assert.False(t, pending)
	assert.Equal(t, 0, h.arena.Len())
}

func TestSwitchProject(t *testing.T) {
	t.Run("unknown project", func(t *testing.T) {
		h := newHarness(t, testutil.NewState().Build())
		err := h.uc.SwitchProject("nope")
		assert.True(t, errors.Is(err, errors.ErrCodeEntityNotFound))
	})

	t.Run("already current is a no-op", func(t *testing.T) {
		initial := testutil.NewState().
			Project("p1", models.MemSaverConfig{}, testutil.Workflow("w1", models.MemSaverConfig{})).
			Active("w1").
			Build()
		h := newHarness(t, initial)
		require.NoError(t, h.uc.SwitchProject("p1"))
		assert.Same(t, initial, h.state())
	})

	t.Run("positive delay arms timers for outgoing workflows", func(t *testing.T) {
		initial := testutil.NewState().
			Project("p1", models.MemSaverConfig{WorkflowInactiveAfter: models.Int(3)},
				testutil.Workflow("w1", models.MemSaverConfig{}),
			).
			Project("p2", models.MemSaverConfig{}, testutil.Workflow("w2", models.MemSaverConfig{})).
			Active("w1").
			Build()
		h := newHarness(t, initial)
		require.NoError(t, h.uc.SwitchProject("p2"))

		assert.Equal(t, entity.List{"w1", "w2"}, h.active())
		_, pending := h.state().MemSaver().PendingTimer("w1")
		assert.True(t, pending)

		h.clock.Advance(3 * time.Minute)
		assert.Equal(t, entity.List{"w2"}, h.active())
	})

	t.Run("switching back cancels the pending deactivation", func(t *testing.T) {
		initial := testutil.NewState().
			Project("p1", models.MemSaverConfig{WorkflowInactiveAfter: models.Int(3)},
				testutil.Workflow("w1", models.MemSaverConfig{}),
			).
			Project("p2", models.MemSaverConfig{}, testutil.Workflow("w2", models.MemSaverConfig{})).
			Active("w1").
			Build()
		h := newHarness(t, initial)
		require.NoError(t, h.uc.SwitchProject("p2"))
		require.NoError(t, h.uc.SwitchProject("p1"))

		_, pending := h.state().MemSaver().PendingTimer("w1")
		assert.False(t, pending)
		assert.Equal(t, 0, h.arena.Len())

		h.clock.Advance(10 * time.Minute)
		assert.True(t, h.state().MemSaver().IsActive("w1"))
	})

	t.Run("activate on switch loads every workflow", func(t *testing.T) {
		initial := testutil.NewState().
			Project("p1", models.MemSaverConfig{}, testutil.Workflow("w1", models.MemSaverConfig{})).
			Project("p2", models.MemSaverConfig{ActivateWorkflowsOnProjectSwitch: models.Bool(true)},
				testutil.Workflow("w2", models.MemSaverConfig{}),
				testutil.Workflow("w3", models.MemSaverConfig{}),
			).
			Active("w1").
			Build()
		h := newHarness(t, initial)
		require.NoError(t, h.uc.SwitchProject("p2"))
		assert.ElementsMatch(t, entity.List{"w2", "w3"}, h.active())
	})
}

func TestSwitchWorkflowTimer(t *testing.T) {
	initial := testutil.NewState().
		Project("p1", models.MemSaverConfig{},
			testutil.Workflow("w1", models.MemSaverConfig{WorkflowInactiveAfter: models.Int(2)}),
			testutil.Workflow("w2", models.MemSaverConfig{}),
		).
		Active("w1").
		Build()
	h := newHarness(t, initial)

	var deactivations int
	store.SubscribeWithCustomEq(h.uc.Store(), state.SelectActiveWorkflowIDs, func(next, prev entity.List) {
		if prev.Contains("w1") && !next.Contains("w1") {
			deactivations++
		}
	}, entity.Equal)

	require.NoError(t, h.uc.SwitchWorkflow("w2"))
	p, _ := h.state().Project("p1")
	assert.Equal(t, entity.ID("w2"), p.CurrentWorkflowID)
	assert.Equal(t, entity.List{"w1", "w2"}, h.active())
	assert.Equal(t, 1, h.arena.Len())

	h.clock.Advance(119999 * time.Millisecond)
	assert.True(t, h.state().MemSaver().IsActive("w1"))
	assert.Equal(t, 0, deactivations)

	h.clock.Advance(time.Millisecond)
	assert.False(t, h.state().MemSaver().IsActive("w1"))
	assert.Equal(t, 1, deactivations)
	assert.Empty(t, h.state().MemSaver().WorkflowTimeouts)

	h.clock.Advance(10 * time.Minute)
	assert.Equal(t, 1, deactivations)
}

func TestSwitchWorkflow(t *testing.T) {
	t.Run("zero delay releases previous workflow now", func(t *testing.T) {
		initial := testutil.NewState().
			AppMemSaver(models.MemSaverConfig{WorkflowInactiveAfter: models.Int(0)}).
			Project("p1", models.MemSaverConfig{},
				testutil.Workflow("w1", models.MemSaverConfig{}),
				testutil.Workflow("w2", models.MemSaverConfig{}),
			).
			Active("w1").
			Build()
		h := newHarness(t, initial)
		require.NoError(t, h.uc.SwitchWorkflow("w2"))
		assert.Equal(t, entity.List{"w2"}, h.active())
	})

	t.Run("never keeps previous workflow loaded", func(t *testing.T) {
		initial := testutil.NewState().
			Project("p1", models.MemSaverConfig{},
				testutil.Workflow("w1", models.MemSaverConfig{}),
				testutil.Workflow("w2", models.MemSaverConfig{}),
			).
			Active("w1").
			Build()
		h := newHarness(t, initial)
		require.NoError(t, h.uc.SwitchWorkflow("w2"))
		assert.Equal(t, entity.List{"w1", "w2"}, h.active())
		assert.Equal(t, 0, h.arena.Len())
	})

	t.Run("workflow of another project switches project", func(t *testing.T) {
		initial := testutil.NewState().
			Project("p1", models.MemSaverConfig{WorkflowInactiveAfter: models.Int(0)},
				testutil.Workflow("w1", models.MemSaverConfig{}),
			).
			Project("p2", models.MemSaverConfig{},
				testutil.Workflow("w2", models.MemSaverConfig{}),
				testutil.Workflow("w3", models.MemSaverConfig{}),
			).
			Active("w1").
			Build()
		h := newHarness(t, initial)
		require.NoError(t, h.uc.SwitchWorkflow("w3"))

		st := h.state()
		assert.Equal(t, entity.ID("p2"), st.UI.CurrentProjectID)
		p2, _ := st.Project("p2")
		assert.Equal(t, entity.ID("w3"), p2.CurrentWorkflowID)
		assert.Equal(t, entity.List{"w3"}, st.MemSaver().ActiveWorkflowIDs)
	})

	t.Run("unknown workflow", func(t *testing.T) {
		h := newHarness(t, testutil.NewState().Build())
		assert.True(t, errors.Is(h.uc.SwitchWorkflow("nope"), errors.ErrCodeEntityNotFound))
	})
}

func TestTimerGuards(t *testing.T) {
	build := func() *state.State {
		return testutil.NewState().
			Project("p1", models.MemSaverConfig{WorkflowInactiveAfter: models.Int(1)},
				testutil.Workflow("w1", models.MemSaverConfig{}),
				testutil.Workflow("w2", models.MemSaverConfig{}),
			).
			Active("w1").
			Build()
	}

	t.Run("stale token is ignored", func(t *testing.T) {
		h := newHarness(t, build())
		require.NoError(t, h.uc.SwitchWorkflow("w2"))
		token, ok := h.state().MemSaver().PendingTimer("w1")
		require.True(t, ok)

		h.uc.deactivateOnTimer("w1", token+100)
		assert.True(t, h.state().MemSaver().IsActive("w1"))

		h.uc.deactivateOnTimer("w1", token)
		assert.False(t, h.state().MemSaver().IsActive("w1"))
	})

	t.Run("timer of a deleted workflow does nothing", func(t *testing.T) {
		h := newHarness(t, build())
		require.NoError(t, h.uc.SwitchWorkflow("w2"))
		token, ok := h.state().MemSaver().PendingTimer("w1")
		require.True(t, ok)

		require.NoError(t, h.uc.DeleteWorkflow("w1"))
		assert.Equal(t, 0, h.arena.Len())
		before := h.state()

		h.uc.deactivateOnTimer("w1", token)
		h.clock.Advance(time.Hour)
		assert.Same(t, before, h.state())
	})
}

func TestProjects(t *testing.T) {
	t.Run("add rename move", func(t *testing.T) {
		h := newHarness(t, state.Default())
		require.NoError(t, h.uc.Init())
		first := h.state().UI.CurrentProjectID

		id, err := h.uc.AddProject("  Work ")
		require.NoError(t, err)
		p, ok := h.state().Project(id)
		require.True(t, ok)
		assert.Equal(t, "Work", p.Name)
		assert.Len(t, p.WorkflowIDs, 1)
		assert.Equal(t, first, h.state().UI.CurrentProjectID)
		assert.Equal(t, entity.List{first, id}, h.state().UI.ProjectList)

		require.NoError(t, h.uc.RenameProject(id, "Play"))
		p, _ = h.state().Project(id)
		assert.Equal(t, "Play", p.Name)

		require.NoError(t, h.uc.MoveProject(id, 0))
		assert.Equal(t, entity.List{id, first}, h.state().UI.ProjectList)
	})

	t.Run("empty name", func(t *testing.T) {
		h := newHarness(t, state.Default())
		_, err := h.uc.AddProject("   ")
		assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
	})

	t.Run("delete current project moves focus", func(t *testing.T) {
		initial := testutil.NewState().
			Project("p1", models.MemSaverConfig{WorkflowInactiveAfter: models.Int(5)},
				testutil.Workflow("w1", models.MemSaverConfig{}),
				testutil.Workflow("w2", models.MemSaverConfig{}),
			).
			Project("p2", models.MemSaverConfig{}, testutil.Workflow("w3", models.MemSaverConfig{})).
			Build()
		h := newHarness(t, initial)
		require.NoError(t, h.uc.Init())
		require.NoError(t, h.uc.SwitchWorkflow("w2"))
		require.Equal(t, 1, h.arena.Len())

		require.NoError(t, h.uc.DeleteProject("p1"))

		st := h.state()
		assert.False(t, st.Entities.Projects.Has("p1"))
		assert.False(t, st.Entities.Workflows.Has("w1"))
		assert.False(t, st.Entities.Workflows.Has("w2"))
		assert.Equal(t, entity.List{"p2"}, st.UI.ProjectList)
		assert.Equal(t, entity.ID("p2"), st.UI.CurrentProjectID)
		assert.Equal(t, entity.List{"w3"}, st.MemSaver().ActiveWorkflowIDs)
		assert.Empty(t, st.MemSaver().WorkflowTimeouts)
		assert.Equal(t, 0, h.arena.Len())
	})
}

func TestWorkflows(t *testing.T) {
	initial := testutil.NewState().
		Project("p1", models.MemSaverConfig{}, testutil.Workflow("w1", models.MemSaverConfig{})).
		Project("p2", models.MemSaverConfig{}).
		Active("w1").
		Build()

	t.Run("first workflow of the focused project is activated", func(t *testing.T) {
		h := newHarness(t, initial)
		require.NoError(t, h.uc.SwitchProject("p2"))

		id, err := h.uc.AddWorkflow("p2", "Docs")
		require.NoError(t, err)
		p2, _ := h.state().Project("p2")
		assert.Equal(t, id, p2.CurrentWorkflowID)
		assert.True(t, h.state().MemSaver().IsActive(id))
	})

	t.Run("additional workflow stays inactive", func(t *testing.T) {
		h := newHarness(t, initial)
		id, err := h.uc.AddWorkflow("p1", "Mail")
		require.NoError(t, err)
		p1, _ := h.state().Project("p1")
		assert.Equal(t, entity.List{"w1", id}, p1.WorkflowIDs)
		assert.Equal(t, entity.ID("w1"), p1.CurrentWorkflowID)
		assert.False(t, h.state().MemSaver().IsActive(id))

		require.NoError(t, h.uc.MoveWorkflow(id, 0))
		p1, _ = h.state().Project("p1")
		assert.Equal(t, entity.List{id, "w1"}, p1.WorkflowIDs)

		require.NoError(t, h.uc.RenameWorkflow(id, "Inbox"))
		wf, _ := h.state().Workflow(id)
		assert.Equal(t, "Inbox", wf.Name)
	})

	t.Run("deleting the current workflow activates the next", func(t *testing.T) {
		h := newHarness(t, initial)
		id, err := h.uc.AddWorkflow("p1", "Mail")
		require.NoError(t, err)

		require.NoError(t, h.uc.DeleteWorkflow("w1"))
		p1, _ := h.state().Project("p1")
		assert.Equal(t, entity.List{id}, p1.WorkflowIDs)
		assert.Equal(t, id, p1.CurrentWorkflowID)
		assert.Equal(t, entity.List{id}, h.active())
	})

	t.Run("move to the same position keeps state", func(t *testing.T) {
		h := newHarness(t, initial)
		before := h.state()
		require.NoError(t, h.uc.MoveWorkflow("w1", 0))
		assert.Same(t, before, h.state())
	})

	t.Run("add to unknown project", func(t *testing.T) {
		h := newHarness(t, initial)
		_, err := h.uc.AddWorkflow("nope", "x")
		assert.True(t, errors.Is(err, errors.ErrCodeEntityNotFound))
	})
}

func TestWidgets(t *testing.T) {
	initial := testutil.NewState().
		Project("p1", models.MemSaverConfig{}, testutil.Workflow("w1", models.MemSaverConfig{})).
		Build()
	h := newHarness(t, initial)

	id, err := h.uc.AddWidget("w1", "note", "", models.LayoutItem{X: 1, Y: 2, Width: 3, Height: 4})
	require.NoError(t, err)

	w, ok := h.state().Entities.Widgets.Get(id)
	require.True(t, ok)
	assert.Equal(t, "Note", w.Name)
	assert.Equal(t, entity.ID("note"), w.TypeID)

	wf, _ := h.state().Workflow("w1")
	assert.Equal(t, []models.LayoutItem{{ID: id, X: 1, Y: 2, Width: 3, Height: 4}}, wf.Layout)

	require.NoError(t, h.uc.MoveWidget("w1", id, models.LayoutItem{X: 5, Y: 6, Width: 3, Height: 4}))
	wf, _ = h.state().Workflow("w1")
	assert.Equal(t, 5, wf.Layout[0].X)

	_, err = h.uc.AddWidget("w1", "missing", "x", models.LayoutItem{})
	assert.True(t, errors.Is(err, errors.ErrCodeEntityNotFound))

	require.NoError(t, h.uc.RemoveWidget("w1", id))
	wf, _ = h.state().Workflow("w1")
	assert.Empty(t, wf.Layout)
	assert.False(t, h.state().Entities.Widgets.Has(id))

	assert.True(t, errors.Is(h.uc.RemoveWidget("w1", id), errors.ErrCodeEntityNotFound))
}

func TestMemSaverSettings(t *testing.T) {
	initial := testutil.NewState().
		Project("p1", models.MemSaverConfig{}, testutil.Workflow("w1", models.MemSaverConfig{})).
		Build()
	h := newHarness(t, initial)

	cfg := models.MemSaverConfig{WorkflowInactiveAfter: models.Int(5)}
	require.NoError(t, h.uc.SetAppMemSaverConfig(cfg))
	assert.Equal(t, cfg, h.state().AppMemSaver())

	before := h.state()
	require.NoError(t, h.uc.SetAppMemSaverConfig(models.MemSaverConfig{WorkflowInactiveAfter: models.Int(5)}))
	assert.Same(t, before, h.state())

	require.NoError(t, h.uc.SetProjectMemSaverConfig("p1", models.MemSaverConfig{ActivateWorkflowsOnProjectSwitch: models.Bool(true)}))
	p, _ := h.state().Project("p1")
	assert.True(t, *p.MemSaver.ActivateWorkflowsOnProjectSwitch)

	require.NoError(t, h.uc.SetWorkflowMemSaverConfig("w1", models.MemSaverConfig{WorkflowInactiveAfter: models.Int(-1)}))
	wf, _ := h.state().Workflow("w1")
	assert.Equal(t, -1, *wf.MemSaver.WorkflowInactiveAfter)

	err := h.uc.SetWorkflowMemSaverConfig("w1", models.MemSaverConfig{WorkflowInactiveAfter: models.Int(-2)})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
	assert.True(t, errors.Is(h.uc.SetProjectMemSaverConfig("nope", cfg), errors.ErrCodeEntityNotFound))
}
