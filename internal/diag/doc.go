// Package diag defines the diagnostic model shared by every pipeline phase
// of the HSL engine.
//
// Each Diagnostic carries a Severity, a numeric Code, a short message, the
// primary source.Span and optional notes. Codes are grouped by phase:
//
//   - 1xxx lexical (LEX)
//   - 2xxx syntax (SYN)
//   - 3xxx resolve (RES)
//   - 4xxx runtime (RUN)
//   - 5xxx native module calls (NAT)
//
// Code.Phase recovers the phase from a code, so a consumer never needs a
// separate phase field. Producers emit through the Reporter interface; the
// driver collects into a Bag. Rendering lives in internal/diagfmt.
package diag
