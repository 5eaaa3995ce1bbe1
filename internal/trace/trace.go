package trace

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Tracer receives events. Emit must be safe for concurrent use: check-dir
// runs scripts on several goroutines against one tracer.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	Close() error
	Level() Level
	Enabled() bool
}

// Level is how much of the pipeline gets traced.
type Level uint8

const (
	LevelOff    Level = iota
	LevelPhase        // commands and pipeline phases
	LevelDetail       // plus one span per script
	LevelDebug        // plus native calls and custom nodes
)

var levelNames = []string{"off", "phase", "detail", "debug"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel reads a --trace / [trace] level. Empty means off.
func ParseLevel(s string) (Level, error) {
	if s == "" {
		return LevelOff, nil
	}
	if i := slices.Index(levelNames, strings.ToLower(s)); i >= 0 {
		return Level(i), nil
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames, "|"))
}

// ShouldEmit reports whether events of scope pass at this level. Levels and
// scopes line up one to one, so LevelDetail lets through ScopeScript and
// everything coarser.
func (l Level) ShouldEmit(scope Scope) bool {
	return l > LevelOff && uint8(scope) <= uint8(l)+1
}

// Scope is the granularity of an event, coarse to fine.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // hsl run, hsl check-dir, one Engine call
	ScopePhase                   // lex, parse, resolve, interpret
	ScopeScript                  // one .hsl file
	ScopeNode                    // native:<module>.<fn>, custom:<node>
)

var scopeNames = []string{"?", "driver", "phase", "script", "node"}

func (s Scope) String() string {
	if int(s) < len(scopeNames) {
		return scopeNames[s]
	}
	return "unknown"
}

// Kind tells span boundaries from instant events.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
	KindHeartbeat
)

var kindNames = []string{"?", "begin", "end", "point", "heartbeat"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Event is one record in the trace.
type Event struct {
	Time     time.Time
	Seq      uint64 // stamped by the sink
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64
	Name     string // "parse", "script:main.hsl", "native:math.max"
	Detail   string
	// Script is the file the event belongs to. Heartbeats fill it from the
	// running interpreter; ring dumps fill it from the span tree.
	Script string
	Steps  int64 // statements executed, on heartbeats and interpret ends
	Extra  map[string]string
}

type nopTracer struct{}

func (nopTracer) Emit(*Event)   {}
func (nopTracer) Flush() error  { return nil }
func (nopTracer) Close() error  { return nil }
func (nopTracer) Level() Level  { return LevelOff }
func (nopTracer) Enabled() bool { return false }

// Nop drops everything.
var Nop Tracer = nopTracer{}
