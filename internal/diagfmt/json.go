package diagfmt

import (
	"encoding/json"
	"io"

	"hsl/internal/diag"
	"hsl/internal/source"
)

// Report is the document `hsl check --format json` and `hsl run` print.
// Errors and Warnings count the whole bag even when Max cut the list.
type Report struct {
	Diagnostics []Entry `json:"diagnostics"`
	Errors      int     `json:"errors"`
	Warnings    int     `json:"warnings"`
	Truncated   bool    `json:"truncated,omitempty"`
}

// Entry is one diagnostic. Runtime errors carry their backtrace as notes,
// innermost call first.
type Entry struct {
	Severity string   `json:"severity"`
	Phase    string   `json:"phase"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	At       Location `json:"at"`
	Notes    []Note   `json:"notes,omitempty"`
}

type Note struct {
	Message string   `json:"message"`
	At      Location `json:"at"`
}

// Location points into a script. Line and column are 1-based and only set
// with IncludePositions; bytes are always present.
type Location struct {
	Script    string `json:"script,omitempty"`
	Start     uint32 `json:"start"`
	End       uint32 `json:"end"`
	Line      uint32 `json:"line,omitempty"`
	Column    uint32 `json:"column,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndColumn uint32 `json:"end_column,omitempty"`
}

func locate(span source.Span, fs *source.FileSet, opts JSONOpts) Location {
	loc := Location{Start: span.Start, End: span.End}
	if !hasFile(fs, span) {
		return loc
	}
	loc.Script = formatPath(fs.Get(span.File), fs, opts.PathMode)
	if opts.IncludePositions {
		start, end := fs.Resolve(span)
		loc.Line, loc.Column = start.Line, start.Col
		loc.EndLine, loc.EndColumn = end.Line, end.Col
	}
	return loc
}

// BuildReport converts bag without encoding it.
func BuildReport(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) Report {
	items := bag.Items()
	shown := items
	if opts.Max > 0 && opts.Max < len(items) {
		shown = items[:opts.Max]
	}
	r := Report{Diagnostics: make([]Entry, 0, len(shown)), Truncated: len(shown) < len(items)}
	for _, d := range items {
		switch d.Severity {
		case diag.SevError:
			r.Errors++
		case diag.SevWarning:
			r.Warnings++
		}
	}
	for _, d := range shown {
		e := Entry{
			Severity: d.Severity.String(),
			Phase:    d.Phase().String(),
			Code:     d.Code.ID(),
			Message:  d.Message,
			At:       locate(d.Primary, fs, opts),
		}
		if opts.IncludeNotes {
			for _, n := range d.Notes {
				e.Notes = append(e.Notes, Note{Message: n.Msg, At: locate(n.Span, fs, opts)})
			}
		}
		r.Diagnostics = append(r.Diagnostics, e)
	}
	return r
}

// JSON writes the report for bag, indented.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildReport(bag, fs, opts))
}
