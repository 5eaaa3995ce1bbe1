package diag

// Phase names the pipeline stage that produced a diagnostic.
type Phase uint8

const (
	PhaseUnknown Phase = iota
	PhaseLexical
	PhaseSyntax
	PhaseResolve
	PhaseRuntime
	PhaseNative
)

func (p Phase) String() string {
	switch p {
	case PhaseLexical:
		return "lexical"
	case PhaseSyntax:
		return "syntax"
	case PhaseResolve:
		return "resolve"
	case PhaseRuntime:
		return "runtime"
	case PhaseNative:
		return "native"
	}
	return "unknown"
}

// Gerund is used in "While <gerund> at line L, column C." trailers.
func (p Phase) Gerund() string {
	switch p {
	case PhaseLexical:
		return "scanning"
	case PhaseSyntax:
		return "parsing"
	case PhaseResolve:
		return "resolving"
	case PhaseRuntime, PhaseNative:
		return "interpreting"
	}
	return "processing"
}
