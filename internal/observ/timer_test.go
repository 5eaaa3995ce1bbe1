package observ

import (
	"testing"
	"time"
)

// fakeClock сдвигается на step при каждом вызове.
func fakeClock(step time.Duration) func() time.Time {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(step)
		return now
	}
}

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	tm.now = fakeClock(2 * time.Millisecond)

	lex := tm.Begin("lex")
	tm.End(lex, "12 tokens")
	parse := tm.Begin("parse")
	tm.End(parse, "")
	tm.End(parse, "ignored")
	tm.End(42, "out of range")

	r := tm.Report()
	if len(r.Phases) != 2 {
		t.Fatalf("phases = %d, want 2", len(r.Phases))
	}
	if r.TotalMS != 4 {
		t.Errorf("total = %v, want 4", r.TotalMS)
	}
	if p, ok := r.Phase("lex"); !ok || p.Note != "12 tokens" || p.DurationMS != 2 {
		t.Errorf("lex = %+v, %v", p, ok)
	}
	if p, _ := r.Phase("parse"); p.Note != "" {
		t.Errorf("second End overwrote note: %q", p.Note)
	}
	if _, ok := r.Phase("interpret"); ok {
		t.Error("unexpected interpret phase")
	}

	want := "timings:\n" +
		"  lex              2.00 ms  // 12 tokens\n" +
		"  parse            2.00 ms\n" +
		"  total            4.00 ms\n"
	if got := tm.Summary(); got != want {
		t.Errorf("summary:\n%s\nwant:\n%s", got, want)
	}
}

func TestEmptyReport(t *testing.T) {
	r := NewTimer().Report()
	if r.TotalMS != 0 || r.Phases != nil {
		t.Errorf("unexpected report %+v", r)
	}
}
