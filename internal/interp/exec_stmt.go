package interp

import (
	"hsl/internal/ast"
	"hsl/internal/diag"
)

func (in *Interpreter) VisitExpressionStmt(s *ast.ExpressionStmt) error {
	v, err := in.Evaluate(s.Expression)
	if err != nil {
		return err
	}
	in.last = v
	return nil
}

func (in *Interpreter) VisitVarStmt(s *ast.VarStmt) error {
	v, err := in.Evaluate(s.Initializer)
	if err != nil {
		return err
	}
	in.scope.Define(s.Name.Text, v)
	return nil
}

func (in *Interpreter) VisitBlockStmt(s *ast.BlockStmt) error {
	return in.ExecuteBlock(s.Statements, NewVariableScope(in.scope))
}

func (in *Interpreter) VisitIfStmt(s *ast.IfStmt) error {
	c, err := in.Evaluate(s.Condition)
	if err != nil {
		return err
	}
	if Truthy(c) {
		return in.Execute(s.Then)
	}
	return in.Execute(s.Else)
}

// loopSignal sorts the error of one loop iteration: stop reports a break,
// and err is anything the loop must propagate.
func loopSignal(err error) (stop bool, _ error) {
	if err == nil {
		return false, nil
	}
	if sig, ok := err.(*ControlSignal); ok {
		switch sig.Kind {
		case SignalBreak:
			return true, nil
		case SignalContinue:
			return false, nil
		}
	}
	return true, err
}

func (in *Interpreter) VisitWhileStmt(s *ast.WhileStmt) error {
	for {
		c, err := in.Evaluate(s.Condition)
		if err != nil {
			return err
		}
		if !Truthy(c) {
			return nil
		}
		if stop, err := loopSignal(in.Execute(s.Body)); stop || err != nil {
			return err
		}
	}
}

func (in *Interpreter) VisitDoWhileStmt(s *ast.DoWhileStmt) error {
	for {
		if stop, err := loopSignal(in.Execute(s.Body)); stop || err != nil {
			return err
		}
		c, err := in.Evaluate(s.Condition)
		if err != nil {
			return err
		}
		if !Truthy(c) {
			return nil
		}
	}
}

// VisitForStmt runs the header in its own loop scope; continue still runs
// the increment.
func (in *Interpreter) VisitForStmt(s *ast.ForStmt) error {
	prev := in.scope
	in.scope = NewVariableScope(prev)
	defer func() { in.scope = prev }()

	if err := in.Execute(s.Initializer); err != nil {
		return err
	}
	for {
		if s.Condition != nil {
			c, err := in.Evaluate(s.Condition)
			if err != nil {
				return err
			}
			if !Truthy(c) {
				return nil
			}
		}
		if stop, err := loopSignal(in.Execute(s.Body)); stop || err != nil {
			return err
		}
		if _, err := in.Evaluate(s.Increment); err != nil {
			return err
		}
	}
}

// VisitForEachStmt iterates arrays by element and strings by character.
// Every iteration gets a fresh binding of the loop variable.
func (in *Interpreter) VisitForEachStmt(s *ast.ForEachStmt) error {
	coll, err := in.Evaluate(s.Collection)
	if err != nil {
		return err
	}
	var items []Value
	switch c := coll.(type) {
	case *Array:
		// изменения массива в теле цикла не влияют на обход
		items = append([]Value(nil), c.Elements...)
	case string:
		for _, r := range c {
			items = append(items, string(r))
		}
	default:
		return in.errorf(s.Keyword, diag.RunTypeMismatch, "Cannot iterate over a value of type %s.", TypeName(coll))
	}
	prev := in.scope
	defer func() { in.scope = prev }()
	for _, item := range items {
		in.scope = NewVariableScope(prev)
		in.scope.Define(s.Variable.Text, item)
		if stop, err := loopSignal(in.Execute(s.Body)); stop || err != nil {
			return err
		}
	}
	return nil
}

// VisitRepeatStmt evaluates the count once. Negative counts run zero times.
func (in *Interpreter) VisitRepeatStmt(s *ast.RepeatStmt) error {
	cv, err := in.Evaluate(s.Count)
	if err != nil {
		return err
	}
	n, ok := asInt(cv)
	if !ok {
		return in.errorf(s.Keyword, diag.RunTypeMismatch, "Repeat count must be an integer, got %s.", TypeName(cv))
	}
	if s.Body == nil {
		return nil
	}
	for i := int64(0); i < n; i++ {
		err := in.ExecuteBlock(s.Body.Statements, NewVariableScope(in.scope))
		if stop, err := loopSignal(err); stop || err != nil {
			return err
		}
	}
	return nil
}

func (in *Interpreter) VisitBreakStmt(s *ast.BreakStmt) error {
	return &ControlSignal{Kind: SignalBreak, Token: s.Keyword}
}

func (in *Interpreter) VisitContinueStmt(s *ast.ContinueStmt) error {
	return &ControlSignal{Kind: SignalContinue, Token: s.Keyword}
}

func (in *Interpreter) VisitReturnStmt(s *ast.ReturnStmt) error {
	v, err := in.Evaluate(s.Value)
	if err != nil {
		return err
	}
	return &ControlSignal{Kind: SignalReturn, Value: v, Token: s.Keyword}
}

func (in *Interpreter) VisitFunctionStmt(s *ast.FunctionStmt) error {
	in.scope.Define(s.Name.Text, &Function{
		Name:    s.Name.Text,
		Params:  s.Params,
		Body:    s.Body,
		Closure: in.scope,
	})
	return nil
}

// VisitConstructorStmt only runs for a stray constructor, which the parser
// already reported; class constructors are handled by VisitClassStmt.
func (in *Interpreter) VisitConstructorStmt(*ast.ConstructorStmt) error {
	return nil
}

func (in *Interpreter) VisitNativeFunctionStmt(s *ast.NativeFunctionStmt) error {
	fn, err := in.nativeFunction(s.Module, s.Name)
	if err != nil {
		return err
	}
	in.scope.Define(s.Name.Text, fn)
	return nil
}

func (in *Interpreter) VisitClassStmt(s *ast.ClassStmt) error {
	var superclass *Class
	if s.Superclass != nil {
		sv, err := in.Evaluate(s.Superclass)
		if err != nil {
			return err
		}
		sc, ok := sv.(*Class)
		if !ok || sc == ObjectClass {
			return in.errorf(s.Superclass.Name, diag.RunBadSuperclass, "Superclass must be a class, got %s.", TypeName(sv))
		}
		if sc.Final {
			return in.errorf(s.Superclass.Name, diag.RunBadSuperclass, "Cannot extend final class '%s'.", sc.Name)
		}
		superclass = sc
	}

	env := in.scope
	if superclass != nil {
		env = NewVariableScope(in.scope)
		env.Define("super", superclass)
	}
	class := &Class{
		Name:       s.Name.Text,
		Superclass: superclass,
		Final:      s.Final,
		Fields:     s.Fields,
		Methods:    make(map[string]*Function, len(s.Methods)),
		Closure:    env,
	}
	if c := s.Constructor; c != nil {
		class.Constructor = &Function{Name: s.Name.Text, Params: c.Params, Body: c.Body, Closure: env, IsConstructor: true}
	}
	for _, m := range s.Methods {
		class.Methods[m.Name.Text] = &Function{Name: m.Name.Text, Params: m.Params, Body: m.Body, Closure: env}
	}
	in.scope.Define(s.Name.Text, class)
	return nil
}

func (in *Interpreter) VisitUsingStmt(s *ast.UsingStmt) error {
	m, ok := in.modules[s.Module.Text]
	if !ok {
		return in.unknownModule(s.Module)
	}
	in.scope.Define(s.Module.Text, &ModuleValue{Name: s.Module.Text, Module: m})
	return nil
}

func (in *Interpreter) VisitCustomStmt(s ast.CustomStmt) error {
	ni, ok := s.Module().(NodeInterpreter)
	if !ok {
		return in.errorf(s.Pos(), diag.RunInvalidOperand,
			"Extension module '%s' cannot interpret its statements.", s.Module().Name())
	}
	return ni.InterpretStmt(in, s)
}
