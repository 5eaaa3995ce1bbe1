package interp

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"hsl/internal/diag"
	"hsl/internal/token"
)

// BuiltinNames lists the functions every interpreter predefines.
var BuiltinNames = []string{"print", "println", "str", "len", "type", "clock"}

var start = time.Now()

func installBuiltins(globals *VariableScope) {
	for _, b := range []*Builtin{
		{Name: "print", Params: Variadic, Fn: builtinPrint(false)},
		{Name: "println", Params: Variadic, Fn: builtinPrint(true)},
		{Name: "str", Params: 1, Fn: func(_ *Interpreter, _ token.Token, args []Value) (Value, error) {
			return Stringify(args[0]), nil
		}},
		{Name: "len", Params: 1, Fn: builtinLen},
		{Name: "type", Params: 1, Fn: func(_ *Interpreter, _ token.Token, args []Value) (Value, error) {
			return TypeName(args[0]), nil
		}},
		{Name: "clock", Params: 0, Fn: func(*Interpreter, token.Token, []Value) (Value, error) {
			return time.Since(start).Seconds(), nil
		}},
	} {
		globals.Define(b.Name, b)
	}
}

// builtinPrint joins its arguments with spaces.
func builtinPrint(newline bool) func(*Interpreter, token.Token, []Value) (Value, error) {
	return func(in *Interpreter, _ token.Token, args []Value) (Value, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = Stringify(a)
		}
		text := strings.Join(parts, " ")
		if newline {
			text += "\n"
		}
		if _, err := fmt.Fprint(in.out, text); err != nil {
			return nil, err
		}
		return nil, nil
	}
}

func builtinLen(in *Interpreter, at token.Token, args []Value) (Value, error) {
	switch v := args[0].(type) {
	case string:
		return int64(utf8.RuneCountInString(v)), nil
	case *Array:
		return int64(len(v.Elements)), nil
	case *Instance:
		return int64(len(v.Fields)), nil
	}
	return nil, in.errorf(at, diag.RunTypeMismatch, "len() expects a string, array or object, got %s.", TypeName(args[0]))
}
