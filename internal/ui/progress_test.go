package ui

import (
	"strings"
	"testing"

	"hsl/internal/driver"
)

func TestProgressModelEvents(t *testing.T) {
	files := []string{"a.hsl", "b.hsl"}
	events := make(chan driver.CheckEvent)
	m := NewProgressModel("checking", files, events).(*progressModel)

	m.Update(eventMsg{File: "a.hsl", Status: driver.CheckWorking})
	if got := m.percent(); got != 0.25 {
		t.Errorf("percent after one working file = %v", got)
	}
	m.Update(eventMsg{File: "a.hsl", Status: driver.CheckClean})
	m.Update(eventMsg{File: "b.hsl", Status: driver.CheckFailed})
	m.Update(eventMsg{File: "unknown.hsl", Status: driver.CheckFailed})
	if got := m.finished(); got != 2 {
		t.Errorf("finished = %d", got)
	}

	view := m.View()
	for _, want := range []string{"checking (2/2)", "ok a.hsl", "error b.hsl"} {
		if !strings.Contains(view, want) {
			t.Errorf("view misses %q:\n%s", want, view)
		}
	}

	_, cmd := m.Update(doneMsg{})
	if !m.done || cmd == nil {
		t.Error("doneMsg must finish the model")
	}
	if !strings.HasPrefix(m.View(), "done: ") && !strings.Contains(m.View(), "done: checking") {
		t.Errorf("done header missing:\n%s", m.View())
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short.hsl", 20, "short.hsl"},
		{"very/long/path/script.hsl", 10, "very/lo..."},
		{"abcdef", 3, "abc"},
		{"abc", 0, "abc"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
