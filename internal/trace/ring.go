package trace

import (
	"io"
	"strings"
	"sync"
)

const defaultRingSize = 4096

// RingTracer keeps the most recent events in memory for a dump at exit.
type RingTracer struct {
	mu    sync.Mutex
	buf   []Event
	total uint64
	level Level
}

func NewRingTracer(size int, level Level) *RingTracer {
	if size <= 0 {
		size = defaultRingSize
	}
	return &RingTracer{buf: make([]Event, size), level: level}
}

// admits is the filter shared by the sinks; heartbeats pass at any level
// above off.
func admits(l Level, ev *Event) bool {
	if ev.Kind == KindHeartbeat {
		return l > LevelOff
	}
	return l.ShouldEmit(ev.Scope)
}

func (t *RingTracer) Emit(ev *Event) {
	if !admits(t.level, ev) {
		return
	}
	t.mu.Lock()
	e := *ev
	e.Seq = nextSeq()
	t.buf[t.total%uint64(len(t.buf))] = e
	t.total++
	t.mu.Unlock()
}

// Snapshot copies the retained events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	size := uint64(len(t.buf))
	from := uint64(0)
	if t.total > size {
		from = t.total - size
	}
	out := make([]Event, 0, t.total-from)
	for i := from; i < t.total; i++ {
		out = append(out, t.buf[i%size])
	}
	return out
}

// Dump writes the retained events with each one tagged by the script whose
// span encloses it, so interleaved check-dir workers stay readable.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	events := t.Snapshot()
	tagScripts(events)
	for i := range events {
		if _, err := w.Write(FormatEvent(&events[i], format)); err != nil {
			return err
		}
	}
	return nil
}

// tagScripts walks each event's ancestry up to a script span. Ancestors
// that fell out of the ring leave the event untagged.
func tagScripts(events []Event) {
	parents := make(map[uint64]uint64)
	scripts := make(map[uint64]string)
	for _, ev := range events {
		if ev.Kind != KindSpanBegin {
			continue
		}
		parents[ev.SpanID] = ev.ParentID
		if ev.Scope == ScopeScript {
			scripts[ev.SpanID] = strings.TrimPrefix(ev.Name, "script:")
		}
	}
	for i := range events {
		ev := &events[i]
		if ev.Script != "" {
			continue
		}
		id := ev.SpanID
		if id == 0 {
			id = ev.ParentID
		}
		for hops := 0; id != 0 && hops < len(parents)+1; hops++ {
			if s, ok := scripts[id]; ok {
				ev.Script = s
				break
			}
			id = parents[id]
		}
	}
}

func (t *RingTracer) Flush() error  { return nil }
func (t *RingTracer) Close() error  { return nil }
func (t *RingTracer) Level() Level  { return t.level }
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }
