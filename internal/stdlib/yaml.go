package stdlib

import (
	"strings"

	"github.com/goccy/go-yaml"

	"hsl/internal/interp"
	"hsl/internal/native"
	"hsl/internal/token"
)

// YAML is the "yaml" native module. Mappings decode into objects and
// objects encode back into mappings.
type YAML struct {
	*table
}

func NewYAML() *YAML {
	y := &YAML{table: newTable("yaml")}
	y.add(native.Fn("", "encode", "value").Describe("block-style YAML"), y.encode(false))
	y.add(native.Fn("", "flow", "value").Describe("single-line flow-style YAML"), y.encode(true))
	y.add(native.Fn("", "decode", "text"), y.decode)
	return y
}

func (y *YAML) Name() string { return "yaml" }

func (y *YAML) encode(flow bool) impl {
	return func(in *interp.Interpreter, _ token.Token, vals []interp.Value) (interp.Value, error) {
		opts := []yaml.EncodeOption{yaml.Indent(2)}
		if flow {
			opts = append(opts, yaml.Flow(true))
		}
		out, err := yaml.MarshalContext(in.Context(), interp.Export(vals[0]), opts...)
		if err != nil {
			return nil, err
		}
		return strings.TrimSuffix(string(out), "\n"), nil
	}
}

func (y *YAML) decode(in *interp.Interpreter, at token.Token, vals []interp.Value) (interp.Value, error) {
	text, err := argsOf(in, at, "decode", vals).str(0)
	if err != nil {
		return nil, err
	}
	var v any
	if err := yaml.Unmarshal([]byte(text), &v); err != nil {
		return nil, err
	}
	return interp.Normalize(v), nil
}
