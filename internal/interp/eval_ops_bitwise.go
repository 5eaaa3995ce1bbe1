package interp

import (
	"math"

	"hsl/internal/diag"
	"hsl/internal/token"
)

// evalBitwise needs integer operands. Floats with an integral value are
// accepted as ints.
func (in *Interpreter) evalBitwise(at token.Token, kind token.Kind, l, r Value) (Value, error) {
	li, lok := asInt(l)
	ri, rok := asInt(r)
	if !lok || !rok {
		return nil, in.errorf(at, diag.RunTypeMismatch, "Operator '%s' needs integer operands, got %s and %s.",
			at.Text, TypeName(l), TypeName(r))
	}
	switch kind {
	case token.Amp:
		return li & ri, nil
	case token.Pipe:
		return li | ri, nil
	case token.Caret:
		return li ^ ri, nil
	}
	if ri < 0 {
		return nil, in.errorf(at, diag.RunInvalidOperand, "Negative shift count %d.", ri)
	}
	shift := uint64(ri)
	switch kind {
	case token.Shl:
		if shift >= 64 {
			return int64(0), nil
		}
		return li << shift, nil
	case token.Shr:
		if shift >= 64 {
			shift = 63
		}
		return li >> shift, nil
	case token.UShr:
		if shift >= 64 {
			return int64(0), nil
		}
		return asInt64(asUint64(li) >> shift), nil
	}
	return nil, in.operandError(at, l, r)
}

// complement implements unary '~'.
func (in *Interpreter) complement(at token.Token, v Value) (Value, error) {
	n, ok := asInt(v)
	if !ok {
		return nil, in.errorf(at, diag.RunTypeMismatch, "Operand of '~' must be an integer, got %s.", TypeName(v))
	}
	return ^n, nil
}

// asInt accepts ints and floats that hold an integral value in range.
func asInt(v Value) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case float64:
		if n != math.Trunc(n) || n < math.MinInt64 || n >= math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	}
	return 0, false
}
