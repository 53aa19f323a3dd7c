package minecode

import (
	"sort"
	"sync"
)

type DebugState int

const (
	StateRunning DebugState = iota
	StatePaused
)

func (s DebugState) String() string {
	if s == StatePaused {
		return "paused"
	}

	return "running"
}

// DebugListener is notified from the interpreter goroutine. Implementations
// must not block in OnBreakpointHit waiting for their own resume; the
// interpreter already parks itself after the call returns.
type DebugListener interface {
	OnBreakpointHit(line int, variables map[string]Value)
	OnLineExecuted(line int, variables map[string]Value)
}

// ListenerFuncs adapts plain functions to a DebugListener. Nil fields are
// ignored.
type ListenerFuncs struct {
	BreakpointHit func(line int, variables map[string]Value)
	LineExecuted  func(line int, variables map[string]Value)
}

func (f ListenerFuncs) OnBreakpointHit(line int, variables map[string]Value) {
	if f.BreakpointHit != nil {
		f.BreakpointHit(line, variables)
	}
}

func (f ListenerFuncs) OnLineExecuted(line int, variables map[string]Value) {
	if f.LineExecuted != nil {
		f.LineExecuted(line, variables)
	}
}

// Debugger holds the state shared between the goroutine running a program
// and the goroutines driving it: the breakpoint set, the debug-mode flag
// and the paused flag. A paused run waits on cond until Resume.
type Debugger struct {
	mu   sync.Mutex
	cond *sync.Cond

	enabled     bool
	breakpoints map[int]struct{}
	state       DebugState
	line        int
	listener    DebugListener
}

func NewDebugger() *Debugger {
	d := &Debugger{
		breakpoints: make(map[int]struct{}),
	}
	d.cond = sync.NewCond(&d.mu)

	return d
}

func (d *Debugger) SetEnabled(enabled bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.enabled = enabled
}

func (d *Debugger) Enabled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.enabled
}

func (d *Debugger) SetListener(l DebugListener) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.listener = l
}

func (d *Debugger) AddBreakpoint(line int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.breakpoints[line] = struct{}{}
}

func (d *Debugger) RemoveBreakpoint(line int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.breakpoints, line)
}

// Breakpoints returns the breakpoint lines in ascending order.
func (d *Debugger) Breakpoints() []int {
	d.mu.Lock()
	defer d.mu.Unlock()

	lines := make([]int, 0, len(d.breakpoints))
	for line := range d.breakpoints {
		lines = append(lines, line)
	}
	sort.Ints(lines)

	return lines
}

// Resume releases a paused run. It does nothing while running.
func (d *Debugger) Resume() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == StatePaused {
		d.state = StateRunning
		d.cond.Broadcast()
	}
}

func (d *Debugger) State() DebugState {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.state
}

// CurrentLine is the line of the last statement seen in debug mode.
func (d *Debugger) CurrentLine() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.line
}

// checkpoint runs before a statement on line. Outside debug mode it returns
// immediately. On a breakpoint it notifies the listener and blocks until
// Resume; otherwise it reports the line as executed. It returns whether the
// run paused.
func (d *Debugger) checkpoint(line int, snapshot func() map[string]Value) bool {
	d.mu.Lock()
	if !d.enabled {
		d.mu.Unlock()
		return false
	}

	d.line = line
	_, hit := d.breakpoints[line]
	if hit {
		d.state = StatePaused
	}
	listener := d.listener
	d.mu.Unlock()

	if !hit {
		if listener != nil {
			listener.OnLineExecuted(line, snapshot())
		}

		return false
	}

	if listener != nil {
		listener.OnBreakpointHit(line, snapshot())
	}

	d.mu.Lock()
	for d.state == StatePaused {
		d.cond.Wait()
	}
	d.mu.Unlock()

	return true
}
