package stdlib_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"hsl/internal/ast"
	"hsl/internal/diag"
	"hsl/internal/extension"
	"hsl/internal/interp"
	"hsl/internal/lexer"
	"hsl/internal/parser"
	"hsl/internal/source"
	"hsl/internal/stdlib"
	"hsl/internal/symbols"
)

func registry(t *testing.T) *extension.Registry {
	t.Helper()
	reg, err := stdlib.Registry()
	if err != nil {
		t.Fatal(err)
	}
	return reg
}

// run прогоняет программу со всеми модулями стандартной библиотеки.
func run(t *testing.T, input string) (string, error) {
	t.Helper()
	reg := registry(t)
	fs := source.NewFileSet()
	id := fs.AddVirtual("std.hsl", []byte(input))
	bag := diag.NewBag(20)
	rep := diag.BagReporter{Bag: bag}
	toks := lexer.New(fs.Get(id), lexer.Options{Reporter: rep}).All()
	stmts, ok := parser.New(toks, reg.ParserOptions(parser.Options{Reporter: rep})).Parse()
	if !ok {
		t.Fatalf("%q: parse failed: %+v", input, bag.Items())
	}
	locals := symbols.NewResolver(symbols.Options{
		Reporter: rep,
		Natives:  reg.Catalog(),
		Prelude:  symbols.Builtins(interp.BuiltinNames...),
	}).Resolve(stmts)
	if bag.HasErrors() {
		t.Fatalf("%q: resolve failed: %+v", input, bag.Items())
	}
	var out bytes.Buffer
	in := interp.New(interp.Options{Stdout: &out, Modules: reg.NativeModules()})
	_, err := in.Interpret(context.Background(), stmts, locals)
	return out.String(), err
}

func TestModules(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"math-ints", "using math; print(math.abs(-3), math.max(2, 7), math.min(2, 7), math.sum(1, 2, 3));", "3 7 2 6"},
		{"math-floats", "using math; print(math.floor(2.7), math.ceil(2.1), math.round(2.5), math.sqrt(16));", "2 3 3 4.0"},
		{"math-pow", "using math; print(math.pow(2, 10), math.pow(4, 0.5), math.sum(1, 0.5));", "1024 2.0 1.5"},
		{"math-random", "using math; var r = math.random(); print(r >= 0 and r < 1);", "true"},
		{"native-decl", "native function math.max(a, b); print(max(4, 9));", "9"},
		{"strings-case", `using strings; print(strings.upper("abc"), strings.lower("ABC"), strings.title("hello world"));`, "ABC abc Hello World"},
		{"strings-split-join", `using strings; var p = strings.split("a,b,c", ","); print(len(p), strings.join(p, "-"));`, "3 a-b-c"},
		{"strings-search", `using strings; print(strings.contains("hsl", "s"), strings.index("привет", "вет"), strings.index("x", "y"));`, "true 3 -1"},
		{"strings-replace", `using strings; print(strings.replace(" a a ", "a", "b"), strings.trim("  x  "));`, " b b  x"},
		{"strings-width", `using strings; print(strings.width("日本"), strings.pad("ab", 4) + "|", strings.truncate("abcdef", 4));`, "4 ab  | abc…"},
		{"strings-normalize", `using strings; print(len(strings.normalize("é", "NFC")));`, "1"},
		{"yaml-encode", "using yaml; class P { var x = 1; } println(yaml.encode(P())); print(yaml.flow([1, 2]));", "x: 1\n[1, 2]"},
		{"yaml-decode", `using yaml; var o = yaml.decode("name: hsl\nn: 3\nxs: [1, 2]"); print(o.name, o.n + 1, o.xs.length);`, "hsl 4 2"},
		{"expr-eval", `using expr; print(expr.eval("1 + 2 * 3"), expr.valid("1 +"), expr.valid("1"));`, "7 false true"},
		{"expr-env", `using expr; using yaml; print(expr.evalWith("a * b", yaml.decode("a: 6\nb: 7")));`, "42"},
		{"assert-ok", "var x = 1; assert x == 1; assert x > 0, \"positive\"; print(nameof(x));", "x"},
		{"assert-native", "using assert; assert.equal(2, 1 + 1); print(\"ok\");", "ok"},
		{"assert-as-name", "var assert = 3; assert = 4; print(assert);", "4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(t, tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestModuleErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  diag.Code
		msg   string
	}{
		{"assert", "assert 1 > 2;", diag.RunAssertion, "Assertion failed."},
		{"assert-message", `assert false, "bad " + 1;`, diag.RunAssertion, "Assertion failed: bad 1"},
		{"assert-equal", "using assert; assert.equal(1, 2);", diag.RunAssertion, "Assertion failed: expected 2, got 1."},
		{"type", `using math; math.abs("x");`, diag.RunTypeMismatch, "abs() expects a number for argument 1, got string."},
		{"sqrt", "using math; math.sqrt(-1);", diag.RunInvalidOperand, "sqrt() of negative number -1."},
		{"form", `using strings; strings.normalize("x", "NFX");`, diag.RunInvalidOperand, "Unknown normalization form 'NFX'."},
		{"pad", `using strings; strings.pad("x", 1.5);`, diag.RunTypeMismatch, "pad() expects an integer for argument 2, got float."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.input)
			var rt *interp.RuntimeError
			if !errors.As(err, &rt) {
				t.Fatalf("want *RuntimeError, got %T (%v)", err, err)
			}
			if rt.Code != tt.code || rt.Message != tt.msg {
				t.Errorf("got %s %q, want %s %q", rt.Code, rt.Message, tt.code, tt.msg)
			}
		})
	}
}

func TestNativeFailures(t *testing.T) {
	tests := []struct {
		name, input, fragment string
	}{
		{"yaml", `using yaml; yaml.decode("a: [1");`, "yaml.decode:"},
		{"expr", `using expr; expr.eval("1 +");`, "expr.eval:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.input)
			var ne *interp.NativeExecutionError
			if !errors.As(err, &ne) {
				t.Fatalf("want *NativeExecutionError, got %T (%v)", err, err)
			}
			if ne.Code != diag.NatFailed || !strings.HasPrefix(ne.Error(), tt.fragment) {
				t.Errorf("got %s %q", ne.Code, ne.Error())
			}
		})
	}
}

func TestAssertSyntaxTree(t *testing.T) {
	reg := registry(t)
	fs := source.NewFileSet()
	id := fs.AddVirtual("tree.hsl", []byte(`assert nameof(a) == "a", "msg";`))
	bag := diag.NewBag(10)
	rep := diag.BagReporter{Bag: bag}
	toks := lexer.New(fs.Get(id), lexer.Options{Reporter: rep}).All()
	stmts, ok := parser.New(toks, reg.ParserOptions(parser.Options{Reporter: rep})).Parse()
	if !ok {
		t.Fatalf("parse failed: %+v", bag.Items())
	}
	want := `(program (assert (binary == (nameof a) (literal "a")) (literal "msg")))`
	if got := ast.Dump(stmts).String(); got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestAssertSyntaxErrors(t *testing.T) {
	reg := registry(t)
	for _, input := range []string{"assert 1", "nameof(1);", "assert true, ;"} {
		fs := source.NewFileSet()
		id := fs.AddVirtual("bad.hsl", []byte(input))
		bag := diag.NewBag(10)
		rep := diag.BagReporter{Bag: bag}
		toks := lexer.New(fs.Get(id), lexer.Options{Reporter: rep}).All()
		if _, ok := parser.New(toks, reg.ParserOptions(parser.Options{Reporter: rep})).Parse(); ok {
			t.Errorf("%q: expected a syntax error", input)
		}
	}
}

func TestRegistryFilter(t *testing.T) {
	reg, err := stdlib.Registry("math", "assert")
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(reg.Names(), ","); got != "math,assert" {
		t.Errorf("names = %s", got)
	}
	if _, err := stdlib.Registry("nope"); err == nil {
		t.Error("unknown module must be rejected")
	}
	if got := len(reg.NativeModules()); got != 2 {
		t.Errorf("native modules = %d", got)
	}
}
