package diag

// Severity ranks a diagnostic. Errors from any phase keep a script from
// running; warnings such as ResShadowed are printed and ignored.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

var severityLabels = [...]string{"info", "warning", "error"}

// Label is the lowercase name used by the short format and by embedders.
func (s Severity) Label() string {
	if int(s) < len(severityLabels) {
		return severityLabels[s]
	}
	return "unknown"
}

// String is the header word of pretty and JSON output: ERROR, WARNING, INFO.
func (s Severity) String() string {
	switch s {
	case SevError:
		return "ERROR"
	case SevWarning:
		return "WARNING"
	case SevInfo:
		return "INFO"
	}
	return "UNKNOWN"
}

// Blocks reports whether a diagnostic of this severity stops the pipeline
// before the interpreter runs.
func (s Severity) Blocks() bool { return s >= SevError }
