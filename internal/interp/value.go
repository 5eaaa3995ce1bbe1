// Package interp implements the tree-walking interpreter for HSL programs.
package interp

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Value is any runtime value: nil, bool, int64, float64, string, *Array,
// *Instance, *ModuleValue or a Callable.
type Value = any

// Array is the mutable list value produced by [a, b, c].
type Array struct {
	Elements []Value
}

func NewArray(elems ...Value) *Array {
	return &Array{Elements: elems}
}

// TypeName returns the script-visible type label of v.
func TypeName(v Value) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case bool:
		return "bool"
	case int64:
		return "int"
	case float64:
		return "float"
	case string:
		return "string"
	case *Array:
		return "array"
	case *Instance:
		return v.Class.Name
	case *Class:
		return "class"
	case *ModuleValue:
		return "module"
	case Callable:
		return "function"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// Truthy: null and false are false, everything else is true.
func Truthy(v Value) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	}
	return true
}

// Stringify renders v the way print does.
func Stringify(v Value) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return formatFloat(v)
	case string:
		return v
	case *Array:
		parts := make([]string, len(v.Elements))
		for i, el := range v.Elements {
			if s, ok := el.(string); ok {
				parts[i] = strconv.Quote(s)
				continue
			}
			parts[i] = Stringify(el)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// formatFloat keeps a fractional marker on integral floats so 2.0 does not
// print as the int 2.
func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case math.IsNaN(f):
		return "NaN"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// Equal implements == : numbers compare by value across int and float,
// other values by identity or content for strings and bools.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case int64:
		switch y := b.(type) {
		case int64:
			return x == y
		case float64:
			return float64(x) == y
		}
		return false
	case float64:
		switch y := b.(type) {
		case int64:
			return x == float64(y)
		case float64:
			return x == y
		}
		return false
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	case string:
		y, ok := b.(string)
		return ok && x == y
	}
	return a == b
}

// ObjectClass is the class of plain records created by native modules,
// e.g. decoded YAML mappings.
var ObjectClass = &Class{Name: "Object"}

// NewObject builds an Object instance holding fields.
func NewObject(fields map[string]Value) *Instance {
	if fields == nil {
		fields = make(map[string]Value)
	}
	return &Instance{Class: ObjectClass, Fields: fields, constructed: true}
}

// Export converts a script value into plain Go data: arrays become []any
// and instances map[string]any. Callables and modules export as their
// string form.
func Export(v Value) any {
	switch x := v.(type) {
	case nil, bool, int64, float64, string:
		return x
	case *Array:
		out := make([]any, len(x.Elements))
		for i, el := range x.Elements {
			out[i] = Export(el)
		}
		return out
	case *Instance:
		out := make(map[string]any, len(x.Fields))
		for k, el := range x.Fields {
			out[k] = Export(el)
		}
		return out
	}
	return Stringify(v)
}
