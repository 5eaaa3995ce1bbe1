package stdlib

import (
	"github.com/expr-lang/expr"

	"hsl/internal/interp"
	"hsl/internal/native"
	"hsl/internal/token"
)

// Expr is the "expr" native module: it evaluates expr-lang expressions
// against an optional environment object.
type Expr struct {
	*table
}

func NewExpr() *Expr {
	e := &Expr{table: newTable("expr")}
	e.add(native.Fn("", "eval", "source"), e.eval)
	e.add(native.Fn("", "evalWith", "source", "env").Describe("fields of env become variables"), e.eval)
	e.add(native.Fn("", "valid", "source"), e.valid)
	return e
}

func (e *Expr) Name() string { return "expr" }

func environment(vals []interp.Value) map[string]any {
	env := map[string]any{}
	if len(vals) > 1 {
		if m, ok := interp.Export(vals[1]).(map[string]any); ok {
			env = m
		}
	}
	return env
}

func (e *Expr) eval(in *interp.Interpreter, at token.Token, vals []interp.Value) (interp.Value, error) {
	src, err := argsOf(in, at, "eval", vals).str(0)
	if err != nil {
		return nil, err
	}
	env := environment(vals)
	program, err := expr.Compile(src, expr.Env(env))
	if err != nil {
		return nil, err
	}
	out, err := expr.Run(program, env)
	if err != nil {
		return nil, err
	}
	return interp.Normalize(out), nil
}

func (e *Expr) valid(in *interp.Interpreter, at token.Token, vals []interp.Value) (interp.Value, error) {
	src, err := argsOf(in, at, "valid", vals).str(0)
	if err != nil {
		return nil, err
	}
	_, err = expr.Compile(src)
	return err == nil, nil
}
