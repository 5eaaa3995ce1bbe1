package extension_test

import (
	"strings"
	"testing"

	"hsl/internal/ast"
	"hsl/internal/extension"
	"hsl/internal/interp"
	"hsl/internal/native"
	"hsl/internal/parser"
	"hsl/internal/token"
)

type bare struct{ name string }

func (b bare) Name() string { return b.name }

// echo exposes one native function and one statement strategy.
type echo struct{}

func (echo) Name() string { return "echo" }

func (echo) SupportedFunctions() []native.Signature {
	return []native.Signature{native.Fn("echo", "say", "x")}
}

func (echo) Call(_ token.Token, _ *interp.Interpreter, _ string, args []interp.Value) (interp.Value, error) {
	return args[0], nil
}

func (echo) StatementParsers() []parser.StatementParser {
	return []parser.StatementParser{parser.StatementParserFunc(func(*parser.Parser, *parser.StepValidator) (ast.Stmt, bool) {
		return nil, false
	})}
}

func TestRegistryAdd(t *testing.T) {
	reg, err := extension.NewRegistry(bare{"a"}, echo{})
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(reg.Names(), ","); got != "a,echo" {
		t.Errorf("names = %s", got)
	}
	if err := reg.Add(bare{"a"}); err == nil {
		t.Error("duplicate name must be rejected")
	}
	if err := reg.Add(bare{}); err == nil {
		t.Error("empty name must be rejected")
	}
	if _, ok := reg.Get("echo"); !ok {
		t.Error("echo not found")
	}
}

func TestRegistryWiring(t *testing.T) {
	reg, err := extension.NewRegistry(bare{"a"}, echo{})
	if err != nil {
		t.Fatal(err)
	}
	natives := reg.NativeModules()
	if len(natives) != 1 || natives["echo"] == nil {
		t.Fatalf("native modules: %v", natives)
	}
	if _, ok := reg.Catalog().Lookup("echo", "say"); !ok {
		t.Error("catalog misses echo.say")
	}
	opts := reg.ParserOptions(parser.Options{})
	if want := len(parser.DefaultStatementParsers()) + 1; len(opts.Statements) != want {
		t.Errorf("statement parsers = %d, want %d", len(opts.Statements), want)
	}
}

func TestRegistryOnly(t *testing.T) {
	reg, err := extension.NewRegistry(bare{"a"}, bare{"b"}, echo{})
	if err != nil {
		t.Fatal(err)
	}
	sub, err := reg.Only([]string{"echo", "a"})
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(sub.Names(), ","); got != "a,echo" {
		t.Errorf("names = %s", got)
	}
	if _, err := reg.Only([]string{"zzz"}); err == nil {
		t.Error("unknown name must be rejected")
	}
}

func TestNilRegistry(t *testing.T) {
	var reg *extension.Registry
	if len(reg.Names()) != 0 || len(reg.NativeModules()) != 0 {
		t.Error("nil registry must be empty")
	}
	if opts := reg.ParserOptions(parser.Options{}); len(opts.Statements) == 0 {
		t.Error("nil registry still yields the built-in parsers")
	}
}
