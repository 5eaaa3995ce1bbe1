package diag

import (
	"hsl/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}

// Phase is a shortcut for d.Code.Phase().
func (d Diagnostic) Phase() Phase {
	return d.Code.Phase()
}
