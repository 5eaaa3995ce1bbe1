package interp

import (
	"fmt"

	"hsl/internal/ast"
	"hsl/internal/diag"
	"hsl/internal/token"
)

// Variadic is the Arity of callables that check their own arguments.
const Variadic = -1

// Callable is any value that can appear before '(' in a call.
type Callable interface {
	// Arity is the exact argument count, or Variadic.
	Arity() int
	Call(in *Interpreter, at token.Token, args []Value) (Value, error)
	String() string
}

// Function is a user function, method, constructor or lambda together with
// the scope it closes over.
type Function struct {
	Name          string
	Params        []ast.Parameter
	Body          []ast.Stmt
	Closure       *VariableScope
	IsConstructor bool
}

func (f *Function) Arity() int { return len(f.Params) }

func (f *Function) String() string {
	if f.Name == "" {
		return "<fn>"
	}
	return "<fn " + f.Name + ">"
}

// Bind returns a copy of f whose closure defines 'this' as inst.
func (f *Function) Bind(inst *Instance) *Function {
	env := NewVariableScope(f.Closure)
	env.Define("this", inst)
	bound := *f
	bound.Closure = env
	return &bound
}

// Call runs the body in a fresh scope under the closure, never under the
// caller's scope.
func (f *Function) Call(in *Interpreter, _ token.Token, args []Value) (Value, error) {
	env := NewVariableScope(f.Closure)
	for i, p := range f.Params {
		env.Define(p.Name.Text, args[i])
	}
	err := in.ExecuteBlock(f.Body, env)
	if sig, ok := err.(*ControlSignal); ok && sig.Kind == SignalReturn {
		if f.IsConstructor {
			return f.this(), nil
		}
		return sig.Value, nil
	}
	if err != nil {
		return nil, err
	}
	if f.IsConstructor {
		return f.this(), nil
	}
	return nil, nil
}

func (f *Function) this() Value {
	v, _ := f.Closure.GetAt(0, "this")
	return v
}

// Builtin is a host function living in the global scope.
type Builtin struct {
	Name   string
	Params int // or Variadic
	Fn     func(in *Interpreter, at token.Token, args []Value) (Value, error)
}

func (b *Builtin) Arity() int     { return b.Params }
func (b *Builtin) String() string { return "<builtin " + b.Name + ">" }

func (b *Builtin) Call(in *Interpreter, at token.Token, args []Value) (Value, error) {
	return b.Fn(in, at, args)
}

// Class is a script class. Calling it creates an instance.
type Class struct {
	Name        string
	Superclass  *Class
	Final       bool
	Fields      []*ast.VarStmt
	Constructor *Function
	Methods     map[string]*Function
	Closure     *VariableScope // scope the methods close over
}

func (c *Class) String() string { return "<class " + c.Name + ">" }

// FindMethod looks name up along the inheritance chain.
func (c *Class) FindMethod(name string) (*Function, bool) {
	for cl := c; cl != nil; cl = cl.Superclass {
		if m, ok := cl.Methods[name]; ok {
			return m, true
		}
	}
	return nil, false
}

// FindConstructor returns the nearest declared constructor.
func (c *Class) FindConstructor() *Function {
	for cl := c; cl != nil; cl = cl.Superclass {
		if cl.Constructor != nil {
			return cl.Constructor
		}
	}
	return nil
}

func (c *Class) Arity() int {
	if ctor := c.FindConstructor(); ctor != nil {
		return ctor.Arity()
	}
	return 0
}

func (c *Class) Call(in *Interpreter, at token.Token, args []Value) (Value, error) {
	inst := &Instance{Class: c, Fields: make(map[string]Value)}
	if err := c.initFields(in, inst); err != nil {
		return nil, err
	}
	if ctor := c.FindConstructor(); ctor != nil {
		if _, err := ctor.Bind(inst).Call(in, at, args); err != nil {
			return nil, err
		}
	}
	inst.constructed = true
	return inst, nil
}

// initFields evaluates field initialisers, superclass fields first, each in
// a scope that defines 'this'.
func (c *Class) initFields(in *Interpreter, inst *Instance) error {
	if c.Superclass != nil {
		if err := c.Superclass.initFields(in, inst); err != nil {
			return err
		}
	}
	if len(c.Fields) == 0 {
		return nil
	}
	env := NewVariableScope(c.Closure)
	env.Define("this", inst)
	for _, f := range c.Fields {
		var v Value
		if f.Initializer != nil {
			var err error
			if v, err = in.EvaluateIn(f.Initializer, env); err != nil {
				return err
			}
		}
		inst.Fields[f.Name.Text] = v
		if f.Final {
			if inst.final == nil {
				inst.final = make(map[string]bool)
			}
			// без инициализатора поле можно один раз задать в конструкторе
			inst.final[f.Name.Text] = f.Initializer != nil
		}
	}
	return nil
}

// Instance is an object created from a Class.
type Instance struct {
	Class       *Class
	Fields      map[string]Value
	final       map[string]bool // name -> already assigned
	constructed bool
}

func (i *Instance) String() string { return "<" + i.Class.Name + " instance>" }

// Get returns a field, or a method bound to the instance.
func (i *Instance) Get(in *Interpreter, name token.Token) (Value, error) {
	if v, ok := i.Fields[name.Text]; ok {
		return v, nil
	}
	if m, ok := i.Class.FindMethod(name.Text); ok {
		return m.Bind(i), nil
	}
	return nil, in.errorf(name, diag.RunUndefinedMember, "Undefined property '%s' on %s.", name.Text, i.Class.Name)
}

// Set assigns a field. Final fields accept one assignment, and only while
// the constructor runs when they had no initialiser.
func (i *Instance) Set(in *Interpreter, name token.Token, v Value) error {
	if assigned, isFinal := i.final[name.Text]; isFinal {
		if assigned || i.constructed {
			return in.errorf(name, diag.RunFinalReassign, "Cannot reassign final field '%s'.", name.Text)
		}
		i.final[name.Text] = true
	}
	i.Fields[name.Text] = v
	return nil
}

var (
	_ Callable     = (*Function)(nil)
	_ Callable     = (*Builtin)(nil)
	_ Callable     = (*Class)(nil)
	_ fmt.Stringer = (*Instance)(nil)
)
