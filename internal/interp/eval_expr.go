package interp

import (
	"hsl/internal/ast"
	"hsl/internal/diag"
	"hsl/internal/token"
)

func (in *Interpreter) VisitLiteralExpr(e *ast.LiteralExpr) (any, error) {
	return e.Value, nil
}

func (in *Interpreter) VisitVariableExpr(e *ast.VariableExpr) (any, error) {
	return in.lookUp(e.Name, e)
}

func (in *Interpreter) VisitAssignExpr(e *ast.AssignExpr) (any, error) {
	v, err := in.Evaluate(e.Value)
	if err != nil {
		return nil, err
	}
	if op := e.Op.Kind.BinaryOf(); op != token.Invalid {
		cur, err := in.lookUp(e.Name, e)
		if err != nil {
			return nil, err
		}
		if v, err = in.binary(e.Op, op, cur, v); err != nil {
			return nil, err
		}
	}
	if err := in.assign(e.Name, e, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (in *Interpreter) VisitBinaryExpr(e *ast.BinaryExpr) (any, error) {
	l, err := in.Evaluate(e.Left)
	if err != nil {
		return nil, err
	}
	r, err := in.Evaluate(e.Right)
	if err != nil {
		return nil, err
	}
	return in.binary(e.Operator, e.Operator.Kind, l, r)
}

func (in *Interpreter) VisitBitwiseExpr(e *ast.BitwiseExpr) (any, error) {
	l, err := in.Evaluate(e.Left)
	if err != nil {
		return nil, err
	}
	r, err := in.Evaluate(e.Right)
	if err != nil {
		return nil, err
	}
	return in.evalBitwise(e.Operator, e.Operator.Kind, l, r)
}

// VisitLogicalExpr short-circuits and yields an operand, not a bool.
func (in *Interpreter) VisitLogicalExpr(e *ast.LogicalExpr) (any, error) {
	l, err := in.Evaluate(e.Left)
	if err != nil {
		return nil, err
	}
	switch e.Operator.Kind {
	case token.OrOr, token.KwOr:
		if Truthy(l) {
			return l, nil
		}
	default:
		if !Truthy(l) {
			return l, nil
		}
	}
	return in.Evaluate(e.Right)
}

func (in *Interpreter) VisitUnaryExpr(e *ast.UnaryExpr) (any, error) {
	v, err := in.Evaluate(e.Right)
	if err != nil {
		return nil, err
	}
	switch e.Operator.Kind {
	case token.Minus:
		return in.negate(e.Operator, v)
	case token.Bang:
		return !Truthy(v), nil
	case token.Tilde:
		return in.complement(e.Operator, v)
	case token.Plus:
		if !isNumber(v) {
			return nil, in.errorf(e.Operator, diag.RunTypeMismatch, "Operand of '+' must be a number, got %s.", TypeName(v))
		}
		return v, nil
	}
	return nil, in.errorf(e.Operator, diag.RunInvalidOperand, "Unsupported unary operator '%s'.", e.Operator.Text)
}

// VisitIncrementExpr handles ++/-- on variables, properties and elements.
// Prefix forms yield the new value, postfix forms the old one.
func (in *Interpreter) VisitIncrementExpr(e *ast.IncrementExpr) (any, error) {
	op := token.Plus
	if e.Operator.Kind == token.MinusMinus {
		op = token.Minus
	}
	step := func(old Value) (Value, error) {
		if !isNumber(old) {
			return nil, in.errorf(e.Operator, diag.RunTypeMismatch, "Operand of '%s' must be a number, got %s.", e.Operator.Text, TypeName(old))
		}
		return in.evalArith(e.Operator, op, old, int64(1))
	}
	result := func(old, updated Value) Value {
		if e.Prefix {
			return updated
		}
		return old
	}

	switch t := e.Target.(type) {
	case *ast.VariableExpr:
		old, err := in.lookUp(t.Name, t)
		if err != nil {
			return nil, err
		}
		updated, err := step(old)
		if err != nil {
			return nil, err
		}
		if err := in.assign(t.Name, t, updated); err != nil {
			return nil, err
		}
		return result(old, updated), nil
	case *ast.GetExpr:
		obj, err := in.Evaluate(t.Object)
		if err != nil {
			return nil, err
		}
		inst, ok := obj.(*Instance)
		if !ok {
			return nil, in.errorf(t.Name, diag.RunUndefinedMember, "Only instances have fields, got %s.", TypeName(obj))
		}
		old, err := inst.Get(in, t.Name)
		if err != nil {
			return nil, err
		}
		updated, err := step(old)
		if err != nil {
			return nil, err
		}
		if err := inst.Set(in, t.Name, updated); err != nil {
			return nil, err
		}
		return result(old, updated), nil
	case *ast.IndexExpr:
		arr, idx, err := in.arrayTarget(t.Object, t.Index, t.Bracket)
		if err != nil {
			return nil, err
		}
		old := arr.Elements[idx]
		updated, err := step(old)
		if err != nil {
			return nil, err
		}
		arr.Elements[idx] = updated
		return result(old, updated), nil
	}
	return nil, in.errorf(e.Operator, diag.RunInvalidOperand, "Invalid target for '%s'.", e.Operator.Text)
}

func (in *Interpreter) VisitGroupingExpr(e *ast.GroupingExpr) (any, error) {
	return in.Evaluate(e.Expression)
}

func (in *Interpreter) VisitCallExpr(e *ast.CallExpr) (any, error) {
	callee, err := in.Evaluate(e.Callee)
	if err != nil {
		return nil, err
	}
	args := make([]Value, 0, len(e.Arguments))
	for _, a := range e.Arguments {
		v, err := in.Evaluate(a)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return in.Call(callee, e.Paren, args)
}

func (in *Interpreter) VisitGetExpr(e *ast.GetExpr) (any, error) {
	obj, err := in.Evaluate(e.Object)
	if err != nil {
		return nil, err
	}
	return in.property(obj, e.Name)
}

func (in *Interpreter) VisitSetExpr(e *ast.SetExpr) (any, error) {
	obj, err := in.Evaluate(e.Object)
	if err != nil {
		return nil, err
	}
	inst, ok := obj.(*Instance)
	if !ok {
		return nil, in.errorf(e.Name, diag.RunUndefinedMember, "Only instances have fields, got %s.", TypeName(obj))
	}
	v, err := in.Evaluate(e.Value)
	if err != nil {
		return nil, err
	}
	if op := e.Op.Kind.BinaryOf(); op != token.Invalid {
		cur, err := inst.Get(in, e.Name)
		if err != nil {
			return nil, err
		}
		if v, err = in.binary(e.Op, op, cur, v); err != nil {
			return nil, err
		}
	}
	if err := inst.Set(in, e.Name, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (in *Interpreter) VisitIndexExpr(e *ast.IndexExpr) (any, error) {
	obj, err := in.Evaluate(e.Object)
	if err != nil {
		return nil, err
	}
	idxVal, err := in.Evaluate(e.Index)
	if err != nil {
		return nil, err
	}
	switch o := obj.(type) {
	case *Array:
		i, err := in.index(e.Bracket, idxVal, len(o.Elements))
		if err != nil {
			return nil, err
		}
		return o.Elements[i], nil
	case string:
		r := []rune(o)
		i, err := in.index(e.Bracket, idxVal, len(r))
		if err != nil {
			return nil, err
		}
		return string(r[i]), nil
	}
	return nil, in.errorf(e.Bracket, diag.RunTypeMismatch, "Cannot index a value of type %s.", TypeName(obj))
}

func (in *Interpreter) VisitIndexSetExpr(e *ast.IndexSetExpr) (any, error) {
	arr, i, err := in.arrayTarget(e.Object, e.Index, e.Bracket)
	if err != nil {
		return nil, err
	}
	v, err := in.Evaluate(e.Value)
	if err != nil {
		return nil, err
	}
	if op := e.Op.Kind.BinaryOf(); op != token.Invalid {
		if v, err = in.binary(e.Op, op, arr.Elements[i], v); err != nil {
			return nil, err
		}
	}
	arr.Elements[i] = v
	return v, nil
}

func (in *Interpreter) VisitArrayExpr(e *ast.ArrayExpr) (any, error) {
	elems := make([]Value, 0, len(e.Elements))
	for _, el := range e.Elements {
		v, err := in.Evaluate(el)
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
	}
	return NewArray(elems...), nil
}

func (in *Interpreter) VisitThisExpr(e *ast.ThisExpr) (any, error) {
	return in.lookUp(e.Keyword, e)
}

// VisitSuperExpr finds the method on the superclass and binds it to the
// current 'this', which lives one scope inside 'super'.
func (in *Interpreter) VisitSuperExpr(e *ast.SuperExpr) (any, error) {
	depth, ok := in.locals.Depth(e)
	if !ok || depth < 1 {
		return nil, in.errorf(e.Keyword, diag.RunUndefined, "Cannot use 'super' here.")
	}
	sv, _ := in.scope.GetAt(depth, "super")
	superclass, ok := sv.(*Class)
	if !ok {
		return nil, in.errorf(e.Keyword, diag.RunUndefined, "Cannot use 'super' here.")
	}
	tv, _ := in.scope.GetAt(depth-1, "this")
	inst, ok := tv.(*Instance)
	if !ok {
		return nil, in.errorf(e.Keyword, diag.RunUndefined, "Cannot use 'super' outside of a method.")
	}
	m, ok := superclass.FindMethod(e.Method.Text)
	if !ok {
		return nil, in.errorf(e.Method, diag.RunUndefinedMember, "Undefined method '%s' on superclass '%s'.", e.Method.Text, superclass.Name)
	}
	return m.Bind(inst), nil
}

func (in *Interpreter) VisitTernaryExpr(e *ast.TernaryExpr) (any, error) {
	c, err := in.Evaluate(e.Condition)
	if err != nil {
		return nil, err
	}
	if Truthy(c) {
		return in.Evaluate(e.Then)
	}
	return in.Evaluate(e.Else)
}

func (in *Interpreter) VisitFunctionExpr(e *ast.FunctionExpr) (any, error) {
	return &Function{Params: e.Params, Body: e.Body, Closure: in.scope}, nil
}

func (in *Interpreter) VisitPrefixCallExpr(e *ast.PrefixCallExpr) (any, error) {
	fn, err := in.lookUp(e.Operator, e)
	if err != nil {
		return nil, err
	}
	arg, err := in.Evaluate(e.Operand)
	if err != nil {
		return nil, err
	}
	return in.Call(fn, e.Operator, []Value{arg})
}

func (in *Interpreter) VisitInfixCallExpr(e *ast.InfixCallExpr) (any, error) {
	fn, err := in.lookUp(e.Operator, e)
	if err != nil {
		return nil, err
	}
	l, err := in.Evaluate(e.Left)
	if err != nil {
		return nil, err
	}
	r, err := in.Evaluate(e.Right)
	if err != nil {
		return nil, err
	}
	return in.Call(fn, e.Operator, []Value{l, r})
}

func (in *Interpreter) VisitCustomExpr(e ast.CustomExpr) (any, error) {
	ni, ok := e.Module().(NodeInterpreter)
	if !ok {
		return nil, in.errorf(e.Pos(), diag.RunInvalidOperand,
			"Extension module '%s' cannot interpret its expressions.", e.Module().Name())
	}
	return ni.InterpretExpr(in, e)
}

// arrayTarget evaluates obj[idx] as a writable element slot.
func (in *Interpreter) arrayTarget(objExpr, idxExpr ast.Expr, at token.Token) (*Array, int, error) {
	obj, err := in.Evaluate(objExpr)
	if err != nil {
		return nil, 0, err
	}
	idxVal, err := in.Evaluate(idxExpr)
	if err != nil {
		return nil, 0, err
	}
	arr, ok := obj.(*Array)
	if !ok {
		return nil, 0, in.errorf(at, diag.RunTypeMismatch, "Only array elements can be assigned, got %s.", TypeName(obj))
	}
	i, err := in.index(at, idxVal, len(arr.Elements))
	if err != nil {
		return nil, 0, err
	}
	return arr, i, nil
}

func (in *Interpreter) index(at token.Token, v Value, length int) (int, error) {
	n, ok := asInt(v)
	if !ok {
		return 0, in.errorf(at, diag.RunTypeMismatch, "Index must be an integer, got %s.", TypeName(v))
	}
	if n < 0 || n >= int64(length) {
		return 0, in.errorf(at, diag.RunIndexRange, "Index %d out of range for length %d.", n, length)
	}
	return int(n), nil
}
