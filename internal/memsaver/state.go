// Package memsaver decides which workflows keep their widgets loaded.
//
// The transition functions are pure: each takes a *State and returns the
// next *State plus the timer Commands the caller must execute. An unchanged
// state is returned as the same pointer.
package memsaver

import (
	"time"

	"github.com/grovetools/deck/pkg/entity"
)

// TimerID is an opaque token naming one armed deactivation timer.
type TimerID uint64

// State is the MemSaver slice of the UI state.
type State struct {
	// ActiveWorkflowIDs lists workflows whose widgets are loaded.
	ActiveWorkflowIDs entity.List `json:"activeWorkflowIds"`
	// WorkflowTimeouts maps a workflow to its pending deactivation timer.
	// An id is present only while a delayed deactivation is pending.
	WorkflowTimeouts map[entity.ID]TimerID `json:"-"`
	// NextTimerID is the last token handed out.
	NextTimerID TimerID `json:"-"`
}

// NewState returns an empty State.
func NewState() *State {
	return &State{}
}

// IsActive reports whether id is loaded.
func (s *State) IsActive(id entity.ID) bool {
	return s != nil && s.ActiveWorkflowIDs.Contains(id)
}

// PendingTimer returns the token of id's pending deactivation, if any.
func (s *State) PendingTimer(id entity.ID) (TimerID, bool) {
	if s == nil {
		return 0, false
	}
	token, ok := s.WorkflowTimeouts[id]
	return token, ok
}

func (s *State) clone() *State {
	if s == nil {
		return &State{}
	}
	next := *s
	return &next
}

func (s *State) withoutTimeout(id entity.ID) map[entity.ID]TimerID {
	if len(s.WorkflowTimeouts) <= 1 {
		return nil
	}
	m := make(map[entity.ID]TimerID, len(s.WorkflowTimeouts)-1)
	for k, v := range s.WorkflowTimeouts {
		if k != id {
			m[k] = v
		}
	}
	return m
}

func (s *State) withTimeout(id entity.ID, token TimerID) map[entity.ID]TimerID {
	m := make(map[entity.ID]TimerID, len(s.WorkflowTimeouts)+1)
	for k, v := range s.WorkflowTimeouts {
		m[k] = v
	}
	m[id] = token
	return m
}

// CommandKind names a timer side effect.
type CommandKind int

const (
	// ArmTimer asks for WorkflowID to be deactivated after Delay, under Token.
	ArmTimer CommandKind = iota + 1
	// CancelTimer asks for the timer under Token to be stopped.
	CancelTimer
)

func (k CommandKind) String() string {
	switch k {
	case ArmTimer:
		return "arm"
	case CancelTimer:
		return "cancel"
	default:
		return "unknown"
	}
}

// Command is a timer side effect produced by a transition.
type Command struct {
	Kind       CommandKind
	Token      TimerID
	WorkflowID entity.ID
	Delay      time.Duration
}
