package memsaver

import (
	"sync"
	"time"

	"github.com/grovetools/deck/pkg/clock"
	"github.com/grovetools/deck/pkg/entity"
	"github.com/sirupsen/logrus"
)

// FireFunc is called when an armed deactivation elapses.
type FireFunc func(workflowID entity.ID, token TimerID)

// TimerArena owns the real timers behind the tokens held in State.
type TimerArena struct {
	clock  clock.Clock
	logger *logrus.Entry

	mu     sync.Mutex
	timers map[TimerID]clock.Timer
}

// NewTimerArena creates an arena on c. A nil clock uses the system clock.
func NewTimerArena(c clock.Clock, logger *logrus.Entry) *TimerArena {
	if c == nil {
		c = clock.RealClock{}
	}
	return &TimerArena{
		clock:  c,
		logger: logger,
		timers: make(map[TimerID]clock.Timer),
	}
}

// Arm starts a timer under token. An existing timer with the same token is
// stopped first.
func (a *TimerArena) Arm(token TimerID, delay time.Duration, fn func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if old, ok := a.timers[token]; ok {
		old.Stop()
	}
	a.timers[token] = a.clock.AfterFunc(delay, func() {
		a.mu.Lock()
		delete(a.timers, token)
		a.mu.Unlock()
		fn()
	})
}

// Cancel stops the timer under token. It reports whether one was pending.
func (a *TimerArena) Cancel(token TimerID) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	t, ok := a.timers[token]
	if !ok {
		return false
	}
	delete(a.timers, token)
	return t.Stop()
}

// CancelAll stops every pending timer.
func (a *TimerArena) CancelAll() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for token, t := range a.timers {
		t.Stop()
		delete(a.timers, token)
	}
}

// Len returns the number of pending timers.
func (a *TimerArena) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.timers)
}

// Execute performs cmds in order. Armed timers call fire with the workflow
// and token they were armed for.
func (a *TimerArena) Execute(cmds []Command, fire FireFunc) {
	for _, cmd := range cmds {
		switch cmd.Kind {
		case ArmTimer:
			workflowID, token := cmd.WorkflowID, cmd.Token
			a.Arm(token, cmd.Delay, func() { fire(workflowID, token) })
			if a.logger != nil {
				a.logger.WithFields(logrus.Fields{
					"workflow": workflowID,
					"token":    token,
					"delay":    cmd.Delay,
				}).Debug("Armed workflow deactivation")
			}
		case CancelTimer:
			stopped := a.Cancel(cmd.Token)
			if a.logger != nil {
				a.logger.WithFields(logrus.Fields{
					"workflow": cmd.WorkflowID,
					"token":    cmd.Token,
					"stopped":  stopped,
				}).Debug("Cancelled workflow deactivation")
			}
		}
	}
}
