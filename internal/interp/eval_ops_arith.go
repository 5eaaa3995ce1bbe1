package interp

import (
	"math"
	"strings"

	"fortio.org/safecast"

	"hsl/internal/diag"
	"hsl/internal/token"
)

// binary applies an arithmetic, comparison, equality or bitwise operator.
// at is the operator token; kind may differ from at.Kind for compound
// assignment.
func (in *Interpreter) binary(at token.Token, kind token.Kind, l, r Value) (Value, error) {
	switch kind {
	case token.Plus:
		return in.evalAdd(at, l, r)
	case token.Minus, token.Slash, token.Percent:
		return in.evalArith(at, kind, l, r)
	case token.Star:
		return in.evalMul(at, l, r)
	case token.EqEq:
		return Equal(l, r), nil
	case token.BangEq:
		return !Equal(l, r), nil
	case token.Lt, token.LtEq, token.Gt, token.GtEq:
		return in.evalCompare(at, kind, l, r)
	case token.Amp, token.Pipe, token.Caret, token.Shl, token.Shr, token.UShr:
		return in.evalBitwise(at, kind, l, r)
	}
	return nil, in.errorf(at, diag.RunInvalidOperand, "Unsupported operator '%s'.", at.Text)
}

// evalAdd: numbers add, a string on either side concatenates, two arrays
// concatenate into a new array.
func (in *Interpreter) evalAdd(at token.Token, l, r Value) (Value, error) {
	ls, lok := l.(string)
	rs, rok := r.(string)
	switch {
	case lok && rok:
		return ls + rs, nil
	case lok:
		return ls + Stringify(r), nil
	case rok:
		return Stringify(l) + rs, nil
	}
	if la, ok := l.(*Array); ok {
		if ra, ok := r.(*Array); ok {
			elems := make([]Value, 0, len(la.Elements)+len(ra.Elements))
			elems = append(elems, la.Elements...)
			elems = append(elems, ra.Elements...)
			return NewArray(elems...), nil
		}
	}
	return in.evalArith(at, token.Plus, l, r)
}

// MaxStringBytes caps the result of string repetition.
const MaxStringBytes = 64 << 20

// evalMul repeats strings in either operand order and multiplies numbers.
func (in *Interpreter) evalMul(at token.Token, l, r Value) (Value, error) {
	if s, ok := l.(string); ok {
		return in.repeatString(at, s, r)
	}
	if s, ok := r.(string); ok {
		return in.repeatString(at, s, l)
	}
	return in.evalArith(at, token.Star, l, r)
}

func (in *Interpreter) repeatString(at token.Token, s string, count Value) (Value, error) {
	n, ok := asInt(count)
	if !ok {
		return nil, in.typeMismatch(at, "string", count)
	}
	if n < 0 {
		return nil, in.errorf(at, diag.RunInvalidOperand, "Cannot repeat a string %d times.", n)
	}
	times, err := safecast.Conv[int](n)
	if err != nil || (len(s) > 0 && times > MaxStringBytes/len(s)) {
		return nil, in.errorf(at, diag.RunInvalidOperand,
			"Repeating a string of %d bytes %d times exceeds the %d byte limit.", len(s), n, MaxStringBytes)
	}
	return strings.Repeat(s, times), nil
}

// evalArith: int op int stays int, any float operand widens both to float.
func (in *Interpreter) evalArith(at token.Token, kind token.Kind, l, r Value) (Value, error) {
	li, lInt := l.(int64)
	ri, rInt := r.(int64)
	if lInt && rInt {
		switch kind {
		case token.Plus:
			return li + ri, nil
		case token.Minus:
			return li - ri, nil
		case token.Star:
			return li * ri, nil
		case token.Slash:
			if ri == 0 {
				return nil, in.errorf(at, diag.RunDivisionByZero, "Division by zero.")
			}
			if li == math.MinInt64 && ri == -1 {
				return li, nil
			}
			return li / ri, nil
		case token.Percent:
			if ri == 0 {
				return nil, in.errorf(at, diag.RunDivisionByZero, "Modulo by zero.")
			}
			if ri == -1 {
				return int64(0), nil
			}
			return li % ri, nil
		}
	}
	lf, lok := asFloat(l)
	rf, rok := asFloat(r)
	if !lok || !rok {
		return nil, in.operandError(at, l, r)
	}
	switch kind {
	case token.Plus:
		return lf + rf, nil
	case token.Minus:
		return lf - rf, nil
	case token.Star:
		return lf * rf, nil
	case token.Slash:
		if rf == 0 {
			return nil, in.errorf(at, diag.RunDivisionByZero, "Division by zero.")
		}
		return lf / rf, nil
	case token.Percent:
		if rf == 0 {
			return nil, in.errorf(at, diag.RunDivisionByZero, "Modulo by zero.")
		}
		return math.Mod(lf, rf), nil
	}
	return nil, in.operandError(at, l, r)
}

// negate implements unary minus.
func (in *Interpreter) negate(at token.Token, v Value) (Value, error) {
	switch n := v.(type) {
	case int64:
		return -n, nil
	case float64:
		return -n, nil
	}
	return nil, in.errorf(at, diag.RunTypeMismatch, "Operand of '-' must be a number, got %s.", TypeName(v))
}

func asFloat(v Value) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func isNumber(v Value) bool {
	_, ok := asFloat(v)
	return ok
}

func (in *Interpreter) operandError(at token.Token, l, r Value) *RuntimeError {
	return in.errorf(at, diag.RunTypeMismatch, "Operator '%s' cannot be applied to %s and %s.",
		at.Text, TypeName(l), TypeName(r))
}

func (in *Interpreter) typeMismatch(at token.Token, left string, r Value) *RuntimeError {
	return in.errorf(at, diag.RunTypeMismatch, "Operator '%s' cannot be applied to %s and %s.",
		at.Text, left, TypeName(r))
}
