package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveMemSaver(t *testing.T) {
	tests := []struct {
		name     string
		app      MemSaverConfig
		project  MemSaverConfig
		workflow MemSaverConfig
		expected EffectiveMemSaver
	}{
		{
			name:     "defaults when nothing is set",
			expected: DefaultMemSaver,
		},
		{
			name:     "workflow wins over app",
			app:      MemSaverConfig{WorkflowInactiveAfter: Int(5)},
			workflow: MemSaverConfig{WorkflowInactiveAfter: Int(0)},
			expected: EffectiveMemSaver{WorkflowInactiveAfter: 0},
		},
		{
			name:     "project wins over app when workflow is unset",
			app:      MemSaverConfig{WorkflowInactiveAfter: Int(5)},
			project:  MemSaverConfig{WorkflowInactiveAfter: Int(10)},
			expected: EffectiveMemSaver{WorkflowInactiveAfter: 10},
		},
		{
			name:    "fields resolve independently",
			app:     MemSaverConfig{WorkflowInactiveAfter: Int(5), ActivateWorkflowsOnProjectSwitch: Bool(true)},
			project: MemSaverConfig{ActivateWorkflowsOnProjectSwitch: Bool(false)},
			expected: EffectiveMemSaver{
				WorkflowInactiveAfter:            5,
				ActivateWorkflowsOnProjectSwitch: false,
			},
		},
		{
			name:     "values below -1 read as never",
			app:      MemSaverConfig{WorkflowInactiveAfter: Int(-7)},
			expected: EffectiveMemSaver{WorkflowInactiveAfter: InactiveNever},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveMemSaver(tt.app, tt.project, tt.workflow))
		})
	}
}

func TestInactiveDelay(t *testing.T) {
	eff := EffectiveMemSaver{WorkflowInactiveAfter: 2}
	assert.Equal(t, 120000*time.Millisecond, eff.InactiveDelay())
}

func TestMemSaverConfigIsZero(t *testing.T) {
	assert.True(t, MemSaverConfig{}.IsZero())
	assert.False(t, MemSaverConfig{ActivateWorkflowsOnProjectSwitch: Bool(false)}.IsZero())
}
