package stdlib

import (
	"math"
	"math/rand/v2"

	"hsl/internal/diag"
	"hsl/internal/interp"
	"hsl/internal/native"
	"hsl/internal/token"
)

// Math is the "math" native module.
type Math struct {
	*table
}

func NewMath() *Math {
	m := &Math{table: newTable("math")}
	m.add(native.Fn("", "abs", "x").Describe("absolute value, keeps ints as ints"), m.abs)
	m.add(native.Fn("", "min", "a", "b"), m.minmax(false))
	m.add(native.Fn("", "max", "a", "b"), m.minmax(true))
	m.add(native.Fn("", "floor", "x"), m.round(math.Floor))
	m.add(native.Fn("", "ceil", "x"), m.round(math.Ceil))
	m.add(native.Fn("", "round", "x"), m.round(math.Round))
	m.add(native.Fn("", "sqrt", "x"), m.float1("sqrt", math.Sqrt))
	m.add(native.Fn("", "pow", "base", "exp"), m.pow)
	m.add(native.Fn("", "sum", "values").WithVariadic(), m.sum)
	m.add(native.Fn("", "pi"), func(*interp.Interpreter, token.Token, []interp.Value) (interp.Value, error) {
		return math.Pi, nil
	})
	m.add(native.Fn("", "random").Describe("uniform float in [0, 1)"), func(*interp.Interpreter, token.Token, []interp.Value) (interp.Value, error) {
		return rand.Float64(), nil
	})
	return m
}

func (m *Math) Name() string { return "math" }

func (m *Math) abs(in *interp.Interpreter, at token.Token, vals []interp.Value) (interp.Value, error) {
	switch n := vals[0].(type) {
	case int64:
		if n < 0 {
			return -n, nil
		}
		return n, nil
	case float64:
		return math.Abs(n), nil
	}
	return nil, argsOf(in, at, "abs", vals).mismatch(0, "a number")
}

// minmax keeps int results when both operands are ints.
func (m *Math) minmax(wantMax bool) impl {
	name := "min"
	if wantMax {
		name = "max"
	}
	return func(in *interp.Interpreter, at token.Token, vals []interp.Value) (interp.Value, error) {
		a := argsOf(in, at, name, vals)
		li, lInt := vals[0].(int64)
		ri, rInt := vals[1].(int64)
		if lInt && rInt {
			if (li > ri) == wantMax {
				return li, nil
			}
			return ri, nil
		}
		l, err := a.float(0)
		if err != nil {
			return nil, err
		}
		r, err := a.float(1)
		if err != nil {
			return nil, err
		}
		if wantMax {
			return math.Max(l, r), nil
		}
		return math.Min(l, r), nil
	}
}

// round applies f and returns an int when the result fits.
func (m *Math) round(f func(float64) float64) impl {
	return func(in *interp.Interpreter, at token.Token, vals []interp.Value) (interp.Value, error) {
		if n, ok := vals[0].(int64); ok {
			return n, nil
		}
		x, err := argsOf(in, at, "round", vals).float(0)
		if err != nil {
			return nil, err
		}
		r := f(x)
		if r >= math.MinInt64 && r < math.MaxInt64 {
			return int64(r), nil
		}
		return r, nil
	}
}

func (m *Math) float1(name string, f func(float64) float64) impl {
	return func(in *interp.Interpreter, at token.Token, vals []interp.Value) (interp.Value, error) {
		x, err := argsOf(in, at, name, vals).float(0)
		if err != nil {
			return nil, err
		}
		if name == "sqrt" && x < 0 {
			return nil, in.Errorf(at, diag.RunInvalidOperand, "sqrt() of negative number %s.", interp.Stringify(vals[0]))
		}
		return f(x), nil
	}
}

func (m *Math) pow(in *interp.Interpreter, at token.Token, vals []interp.Value) (interp.Value, error) {
	a := argsOf(in, at, "pow", vals)
	base, err := a.float(0)
	if err != nil {
		return nil, err
	}
	exp, err := a.float(1)
	if err != nil {
		return nil, err
	}
	r := math.Pow(base, exp)
	_, bInt := vals[0].(int64)
	e, eInt := vals[1].(int64)
	if bInt && eInt && e >= 0 && math.Abs(r) < 1<<53 {
		return int64(r), nil
	}
	return r, nil
}

// sum adds ints as ints until a float shows up.
func (m *Math) sum(in *interp.Interpreter, at token.Token, vals []interp.Value) (interp.Value, error) {
	a := argsOf(in, at, "sum", vals)
	var total int64
	var ftotal float64
	isFloat := false
	for i, v := range vals {
		switch n := v.(type) {
		case int64:
			total += n
		case float64:
			ftotal += n
			isFloat = true
		default:
			return nil, a.mismatch(i, "a number")
		}
	}
	if isFloat {
		return ftotal + float64(total), nil
	}
	return total, nil
}
