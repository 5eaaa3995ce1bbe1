package trace

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Progress is the position of the script running right now. The driver
// sets the script and phase, the interpreter the step count; the heartbeat
// reads all three from its own goroutine. A nil *Progress ignores writes.
type Progress struct {
	script atomic.Pointer[string]
	phase  atomic.Pointer[string]
	steps  atomic.Int64
}

// Enter marks the start of phase in script. An empty script keeps the
// current one.
func (p *Progress) Enter(script, phase string) {
	if p == nil {
		return
	}
	if script != "" {
		p.script.Store(&script)
		p.steps.Store(0)
	}
	p.phase.Store(&phase)
}

// SetSteps publishes the interpreter's step counter.
func (p *Progress) SetSteps(n int) {
	if p != nil {
		p.steps.Store(int64(n))
	}
}

// Snapshot reads the current position.
func (p *Progress) Snapshot() (script, phase string, steps int64) {
	if p == nil {
		return "", "", 0
	}
	if s := p.script.Load(); s != nil {
		script = *s
	}
	if s := p.phase.Load(); s != nil {
		phase = *s
	}
	return script, phase, p.steps.Load()
}

// Heartbeat emits a driver-scope event on every tick. A beat whose step
// count keeps growing inside one phase is a script stuck in a loop; one
// whose count stands still is a script blocked in a native call.
type Heartbeat struct {
	tracer   Tracer
	progress *Progress
	beats    int
	stop     chan struct{}
	once     sync.Once
	done     sync.WaitGroup
}

// StartHeartbeat starts beating every interval; nil when tracing is off.
func StartHeartbeat(t Tracer, interval time.Duration, progress *Progress) *Heartbeat {
	if t == nil || !t.Enabled() || interval <= 0 {
		return nil
	}
	h := &Heartbeat{tracer: t, progress: progress, stop: make(chan struct{})}
	h.done.Add(1)
	go func() {
		defer h.done.Done()
		tick := time.NewTicker(interval)
		defer tick.Stop()
		for {
			select {
			case <-tick.C:
				h.beat()
			case <-h.stop:
				return
			}
		}
	}()
	return h
}

func (h *Heartbeat) beat() {
	h.beats++
	script, phase, steps := h.progress.Snapshot()
	detail := fmt.Sprintf("#%d", h.beats)
	if phase != "" {
		detail += " " + phase
	}
	h.tracer.Emit(&Event{
		Time:   time.Now(),
		Kind:   KindHeartbeat,
		Scope:  ScopeDriver,
		Name:   "heartbeat",
		Detail: detail,
		Script: script,
		Steps:  steps,
	})
}

// Stop ends the beating and waits for the goroutine. Safe to call twice and
// on nil.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() { close(h.stop) })
	h.done.Wait()
}
