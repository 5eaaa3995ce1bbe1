package interp

import (
	"unicode/utf8"

	"hsl/internal/diag"
	"hsl/internal/token"
)

// property resolves obj.name for every value kind that has members.
func (in *Interpreter) property(obj Value, name token.Token) (Value, error) {
	switch o := obj.(type) {
	case *Instance:
		return o.Get(in, name)
	case *ModuleValue:
		return in.moduleFunction(o, name)
	case *Array:
		return in.arrayMember(o, name)
	case string:
		if name.Text == "length" {
			return int64(utf8.RuneCountInString(o)), nil
		}
	}
	return nil, in.errorf(name, diag.RunUndefinedMember, "Undefined property '%s' on %s.", name.Text, TypeName(obj))
}

func (in *Interpreter) arrayMember(a *Array, name token.Token) (Value, error) {
	switch name.Text {
	case "length":
		return int64(len(a.Elements)), nil
	case "push":
		return &Builtin{Name: "push", Params: Variadic, Fn: func(_ *Interpreter, _ token.Token, args []Value) (Value, error) {
			a.Elements = append(a.Elements, args...)
			return int64(len(a.Elements)), nil
		}}, nil
	case "pop":
		return &Builtin{Name: "pop", Params: 0, Fn: func(in *Interpreter, at token.Token, _ []Value) (Value, error) {
			if len(a.Elements) == 0 {
				return nil, in.errorf(at, diag.RunIndexRange, "Cannot pop from an empty array.")
			}
			last := a.Elements[len(a.Elements)-1]
			a.Elements = a.Elements[:len(a.Elements)-1]
			return last, nil
		}}, nil
	}
	return nil, in.errorf(name, diag.RunUndefinedMember, "Undefined property '%s' on array.", name.Text)
}
