// Package profiling records nested timing spans for a single CLI run and
// wires pprof CPU and heap profiles into cobra commands.
package profiling

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Stopper ends a span.
type Stopper interface {
	Stop()
}

type span struct {
	name     string
	start    time.Time
	duration time.Duration
	children []*span
}

// Recorder collects spans. Spans nest by call order: a span started while
// another is open becomes its child.
type Recorder struct {
	mu    sync.Mutex
	root  *span
	stack []*span
	now   func() time.Time
}

// NewRecorder creates an enabled recorder.
func NewRecorder() *Recorder {
	r := &Recorder{now: time.Now}
	r.root = &span{name: "total", start: r.now()}
	r.stack = []*span{r.root}
	return r
}

var (
	defaultMu       sync.Mutex
	defaultRecorder *Recorder
)

// Enable turns on the process-wide recorder used by Start.
func Enable() *Recorder {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultRecorder == nil {
		defaultRecorder = NewRecorder()
	}
	return defaultRecorder
}

// Disable drops the process-wide recorder.
func Disable() {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultRecorder = nil
}

// Start opens a span on the process-wide recorder. It is a no-op unless
// Enable was called.
func Start(name string) Stopper {
	defaultMu.Lock()
	r := defaultRecorder
	defaultMu.Unlock()
	if r == nil {
		return noop{}
	}
	return r.Start(name)
}

// Start opens a span named name.
func (r *Recorder) Start(name string) Stopper {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := &span{name: name, start: r.now()}
	parent := r.stack[len(r.stack)-1]
	parent.children = append(parent.children, s)
	r.stack = append(r.stack, s)
	return stopper{r: r, s: s}
}

type stopper struct {
	r *Recorder
	s *span
}

func (st stopper) Stop() {
	r := st.r
	r.mu.Lock()
	defer r.mu.Unlock()
	st.s.duration = r.now().Sub(st.s.start)
	for i := len(r.stack) - 1; i > 0; i-- {
		if r.stack[i] == st.s {
			r.stack = r.stack[:i]
			return
		}
	}
}

// Summarize writes the span tree with each span's share of the total run.
func (r *Recorder) Summarize(w io.Writer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := r.now().Sub(r.root.start)
	fmt.Fprintf(w, "timing: %v total\n", total.Round(100*time.Microsecond))
	for _, child := range r.root.children {
		writeSpan(w, child, 1, total)
	}
}

func writeSpan(w io.Writer, s *span, depth int, total time.Duration) {
	pct := 0.0
	if total > 0 {
		pct = float64(s.duration) / float64(total) * 100
	}
	fmt.Fprintf(w, "%s- %s %v (%.1f%%)\n", strings.Repeat("  ", depth), s.name, s.duration.Round(100*time.Microsecond), pct)
	for _, child := range s.children {
		writeSpan(w, child, depth+1, total)
	}
}

type noop struct{}

func (noop) Stop() {}
