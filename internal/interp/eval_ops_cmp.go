package interp

import (
	"hsl/internal/token"
)

// evalCompare orders two numbers or two strings.
func (in *Interpreter) evalCompare(at token.Token, kind token.Kind, l, r Value) (Value, error) {
	if ls, ok := l.(string); ok {
		rs, ok := r.(string)
		if !ok {
			return nil, in.operandError(at, l, r)
		}
		return ordered(kind, compareStrings(ls, rs)), nil
	}
	if li, ok := l.(int64); ok {
		if ri, ok := r.(int64); ok {
			return ordered(kind, compareInts(li, ri)), nil
		}
	}
	lf, lok := asFloat(l)
	rf, rok := asFloat(r)
	if !lok || !rok {
		return nil, in.operandError(at, l, r)
	}
	// NaN is unordered: every comparison is false
	if lf != lf || rf != rf {
		return false, nil
	}
	switch {
	case lf < rf:
		return ordered(kind, -1), nil
	case lf > rf:
		return ordered(kind, 1), nil
	}
	return ordered(kind, 0), nil
}

func ordered(kind token.Kind, c int) bool {
	switch kind {
	case token.Lt:
		return c < 0
	case token.LtEq:
		return c <= 0
	case token.Gt:
		return c > 0
	case token.GtEq:
		return c >= 0
	}
	return false
}

func compareInts(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
