package interp_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"hsl/internal/diag"
	"hsl/internal/interp"
	"hsl/internal/lexer"
	"hsl/internal/parser"
	"hsl/internal/source"
	"hsl/internal/symbols"
)

// runSource прогоняет весь конвейер и возвращает вывод print/println.
func runSource(t *testing.T, input string, opts interp.Options) (string, interp.Value, error) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.hsl", []byte(input))
	bag := diag.NewBag(50)
	rep := diag.BagReporter{Bag: bag}
	toks := lexer.New(fs.Get(id), lexer.Options{Reporter: rep}).All()
	stmts, ok := parser.New(toks, parser.Options{Reporter: rep}).Parse()
	if !ok {
		t.Fatalf("%q: parse failed: %+v", input, bag.Items())
	}
	ropts := symbols.Options{Reporter: rep, Prelude: symbols.Builtins(interp.BuiltinNames...)}
	if opts.Modules != nil {
		ropts.Natives = interp.CatalogOf(opts.Modules)
	}
	res := symbols.NewResolver(ropts)
	locals := res.Resolve(stmts)
	if bag.HasErrors() {
		t.Fatalf("%q: resolve failed: %+v", input, bag.Items())
	}
	var out bytes.Buffer
	opts.Stdout = &out
	v, err := interp.New(opts).Interpret(context.Background(), stmts, locals)
	return out.String(), v, err
}

func expectOutput(t *testing.T, input, want string) {
	t.Helper()
	got, _, err := runSource(t, input, interp.Options{})
	if err != nil {
		t.Fatalf("%q: unexpected error: %v", input, err)
	}
	if got != want {
		t.Errorf("%q\n got: %q\nwant: %q", input, got, want)
	}
}

// expectRuntimeError checks the code and a fragment of the message.
func expectRuntimeError(t *testing.T, input string, code diag.Code, fragment string) *interp.RuntimeError {
	t.Helper()
	_, _, err := runSource(t, input, interp.Options{})
	var rt *interp.RuntimeError
	if !errors.As(err, &rt) {
		t.Fatalf("%q: want *RuntimeError, got %T (%v)", input, err, err)
	}
	if rt.Code != code {
		t.Errorf("%q: code %s (%q), want %s", input, rt.Code, rt.Message, code)
	}
	if !strings.Contains(rt.Message, fragment) {
		t.Errorf("%q: message %q does not contain %q", input, rt.Message, fragment)
	}
	return rt
}

func TestRepeatCounter(t *testing.T) {
	_, v, err := runSource(t, "var counter = 0; repeat 3 { counter = counter + 1; } counter;", interp.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if v != int64(3) {
		t.Fatalf("counter = %v (%T), want 3", v, v)
	}
}

func TestPrograms(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"arith", "println(1 + 2 * 3, 7 / 2, 7.0 / 2, 7 % 3, -4);", "7 3 3.5 1 -4\n"},
		{"float format", "println(2.0, 1.5 + 1.5, 1e21);", "2.0 3.0 1e+21\n"},
		{"concat", `println("a" + 1, 2 + "b", "x" + true + null);`, "a1 2b xtruenull\n"},
		{"repeat string", `println("ab" * 3, 2 * "-");`, "ababab --\n"},
		{"compare", `println(1 < 2, 2.5 >= 2, "a" < "b", 1 == 1.0, "1" == 1);`, "true true true true false\n"},
		{"bitwise", "println(6 & 3, 6 | 3, 6 ^ 3, ~0, 1 << 4, -16 >> 2, -1 >>> 60, 4.0 & 5);", "2 7 5 -1 16 -4 15 4\n"},
		{"logical values", `println(null or "d", 0 and 1, false || "x", 1 && 2, !null);`, "d 1 x 2 true\n"},
		{"ternary", `var x = 5; println(x > 3 ? "big" : "small");`, "big\n"},
		{"compound assign", "var a = 10; a += 5; a -= 3; a *= 2; a /= 4; a %= 4; a <<= 3; println(a);", "16\n"},
		{"increment", "var i = 1; println(i++, i, ++i, i--, --i);", "1 2 3 3 1\n"},
		{"while", "var i = 0; while (i < 3) { print(i); i = i + 1; } println();", "012\n"},
		{"do while", "var i = 5; do { print(i); i++; } while (i < 3); println();", "5\n"},
		{"for", "for (var i = 0; i < 5; i++) { if (i == 1) continue; if (i == 4) break; print(i); } println();", "023\n"},
		{"for in", `for (var x in [1, "a", true]) print(x, ""); println();`, "1 a true \n"},
		{"for in string", `for (var c in "héj") print(c + "."); println();`, "h.é.j.\n"},
		{"repeat break", "var n = 0; repeat 10 { n++; if (n == 4) break; } println(n);", "4\n"},
		{"repeat negative", "var n = 0; repeat -2 { n++; } println(n);", "0\n"},
		{"repeat float count", "var n = 0; repeat 2.0 { n++; } println(n);", "2\n"},
		{"functions", "function add(a, b) { return a + b; } println(add(2, 3));", "5\n"},
		{"recursion", "function fib(n) { if (n < 2) return n; return fib(n - 1) + fib(n - 2); } println(fib(15));", "610\n"},
		{"closures", `
function counter() {
  var n = 0;
  return function() { n = n + 1; return n; };
}
var c = counter();
c(); c();
println(c());
`, "3\n"},
		{"closure captures defining scope", `
var a = "global";
{
  function show() { println(a); }
  show();
  var a = "block";
  show();
}
`, "global\nglobal\n"},
		{"lambda", "var sq = function(x) { return x * x; }; println(sq(7));", "49\n"},
		{"prefix infix", `
prefix function neg(x) { return -x; }
infix function max(a, b) { return a > b ? a : b; }
println(neg 5, 3 max 9);
`, "-5 9\n"},
		{"arrays", "var a = [1, 2]; a.push(3, 4); a[0] = 10; a[1] += 5; println(a, a.length, a.pop(), len(a));", "[10, 7, 3] 4 4 3\n"},
		{"array concat", `println([1] + ["x"]);`, `[1, "x"]` + "\n"},
		{"string index", `var s = "héllo"; println(s[1], s.length, len(s));`, "é 5 5\n"},
		{"builtins", `println(str(1.0) + "!", type(1), type(1.5), type("s"), type(null), type([]), type(println));`, "1.0! int float string null array function\n"},
		{"classes", `
class Point {
  var x = 0;
  var y = 0;
  constructor(x, y) { this.x = x; this.y = y; }
  sum() { return this.x + this.y; }
}
var p = Point(2, 3);
p.x += 10;
println(p.sum(), type(p));
`, "15 Point\n"},
		{"inheritance and super", `
class A {
  greet() { return "A"; }
  name() { return "base"; }
}
class B extends A {
  greet() { return "B" + super.greet(); }
}
var b = B();
println(b.greet(), b.name());
`, "BA base\n"},
		{"inherited constructor and fields", `
class A {
  var tag = "a";
  constructor(v) { this.v = v; }
}
class B extends A {
  var extra = this.tag + "!";
}
var b = B(7);
println(b.v, b.tag, b.extra);
`, "7 a a!\n"},
		{"bound method keeps this", `
class Box { var v = 1; get() { return this.v; } }
var b = Box();
var g = b.get;
b.v = 9;
println(g());
`, "9\n"},
		{"final field set in constructor", `
class User {
  final var id;
  constructor(id) { this.id = id; }
}
println(User(42).id);
`, "42\n"},
		{"global redeclaration", "var a = 1; var a = a + 1; println(a);", "2\n"},
		{"print without newline", `print("a"); print("b", 1); println();`, "ab 1\n"},
		{"nested blocks shadow", "var a = 1; { var a = 2; { var a = 3; print(a); } print(a); } println(a);", "321\n"},
		{"division of floats", "println(1 / 4.0, 10 % 4.5);", "0.25 1.0\n"},
		{"final variable read", "final var limit = 3; println(limit * 2);", "6\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectOutput(t, tt.input, tt.want)
		})
	}
}

func TestRuntimeErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		code     diag.Code
		fragment string
	}{
		{"int division by zero", "1 / 0;", diag.RunDivisionByZero, "Division by zero"},
		{"float division by zero", "1.5 / 0;", diag.RunDivisionByZero, "Division by zero"},
		{"modulo by zero", "5 % 0;", diag.RunDivisionByZero, "Modulo by zero"},
		{"undefined", "println(missing);", diag.RunUndefined, "Undefined variable 'missing'"},
		{"undefined suggestion", "var counter = 1; println(countr);", diag.RunUndefined, "Did you mean 'counter'?"},
		{"assign undefined", "nothing = 1;", diag.RunUndefined, "'nothing'"},
		{"type mismatch", `-"a";`, diag.RunTypeMismatch, "must be a number"},
		{"bad operands", "true - 1;", diag.RunTypeMismatch, "cannot be applied to bool and int"},
		{"compare mismatch", `1 < "a";`, diag.RunTypeMismatch, "cannot be applied to int and string"},
		{"bitwise float", "1.5 | 1;", diag.RunTypeMismatch, "needs integer operands"},
		{"negative shift", "1 << -1;", diag.RunInvalidOperand, "Negative shift"},
		{"not callable", `"s"();`, diag.RunNotCallable, "'string' is not callable"},
		{"arity", "function f(a) {} f(1, 2);", diag.RunArity, "expects 1 arguments, but got 2"},
		{"class arity", "class A { constructor(x) {} } A();", diag.RunArity, "expects 1 arguments"},
		{"index range", "[1, 2][2];", diag.RunIndexRange, "Index 2 out of range"},
		{"negative index", "[1, 2][-1];", diag.RunIndexRange, "Index -1"},
		{"string index range", `"ab"[5];`, diag.RunIndexRange, "out of range"},
		{"index type", `[1]["0"];`, diag.RunTypeMismatch, "Index must be an integer"},
		{"undefined property", "class A {} A().nope;", diag.RunUndefinedMember, "Undefined property 'nope'"},
		{"field on non instance", "var x = 1; x.y = 2;", diag.RunUndefinedMember, "Only instances"},
		{"final class", "final class User {} class Admin extends User {}", diag.RunBadSuperclass, "Cannot extend final class 'User'."},
		{"bad superclass", "var NotAClass = 1; class A extends NotAClass {}", diag.RunBadSuperclass, "Superclass must be a class"},
		{"final field reassigned", `
class User { final var id = 1; }
var u = User();
u.id = 2;
`, diag.RunFinalReassign, "Cannot reassign final field 'id'."},
		{"final field reassigned after constructor", `
class User { final var id; constructor(v) { this.id = v; } }
var u = User(1);
u.id = 2;
`, diag.RunFinalReassign, "final field 'id'"},
		{"iterate non collection", "for (var x in 5) {}", diag.RunTypeMismatch, "Cannot iterate"},
		{"repeat count type", `repeat "3" {}`, diag.RunTypeMismatch, "Repeat count must be an integer"},
		{"repeat fractional count", "repeat 1.5 {}", diag.RunTypeMismatch, "Repeat count"},
		{"pop empty", "[].pop();", diag.RunIndexRange, "empty array"},
		{"repeat past limit", `"ab" * 5000000000000000000;`, diag.RunInvalidOperand, "byte limit"},
		{"repeat past limit reversed", `40000000 * "xy";`, diag.RunInvalidOperand, "byte limit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectRuntimeError(t, tt.input, tt.code, tt.fragment)
		})
	}
}

// intLiteral spells n in source; MinInt64 has no literal form.
func intLiteral(n int64) string {
	if n == math.MinInt64 {
		return "(-9223372036854775807 - 1)"
	}
	return fmt.Sprintf("(%d)", n)
}

func TestIntegerOperatorsMatchGo(t *testing.T) {
	values := []int64{0, 1, -1, 2, -7, 13, 63, 64, 65, math.MaxInt64, math.MinInt64, math.MinInt64 + 1}
	type result struct {
		v    int64
		code diag.Code
	}
	shift := func(b int64, f func(uint64) int64) result {
		if b < 0 {
			return result{code: diag.RunInvalidOperand}
		}
		return result{v: f(uint64(b))}
	}
	ops := []struct {
		op   string
		want func(a, b int64) result
	}{
		{"+", func(a, b int64) result { return result{v: a + b} }},
		{"-", func(a, b int64) result { return result{v: a - b} }},
		{"*", func(a, b int64) result { return result{v: a * b} }},
		{"/", func(a, b int64) result {
			if b == 0 {
				return result{code: diag.RunDivisionByZero}
			}
			return result{v: a / b}
		}},
		{"%", func(a, b int64) result {
			if b == 0 {
				return result{code: diag.RunDivisionByZero}
			}
			return result{v: a % b}
		}},
		{"&", func(a, b int64) result { return result{v: a & b} }},
		{"|", func(a, b int64) result { return result{v: a | b} }},
		{"^", func(a, b int64) result { return result{v: a ^ b} }},
		{"<<", func(a, b int64) result { return shift(b, func(n uint64) int64 { return a << n }) }},
		{">>", func(a, b int64) result { return shift(b, func(n uint64) int64 { return a >> n }) }},
		{">>>", func(a, b int64) result { return shift(b, func(n uint64) int64 { return int64(uint64(a) >> n) }) }},
	}
	for _, op := range ops {
		for _, a := range values {
			for _, b := range values {
				src := intLiteral(a) + " " + op.op + " " + intLiteral(b) + ";"
				want := op.want(a, b)
				_, v, err := runSource(t, src, interp.Options{})
				if want.code != 0 {
					var rt *interp.RuntimeError
					if !errors.As(err, &rt) || rt.Code != want.code {
						t.Errorf("%s: got %v, %v; want %s", src, v, err, want.code)
					}
					continue
				}
				if err != nil || v != want.v {
					t.Errorf("%s = %v, %v; want %d", src, v, err, want.v)
				}
			}
		}
	}
}

func TestRuntimeErrorPositionAndBacktrace(t *testing.T) {
	src := "function inner() {\n  return 1 / 0;\n}\nfunction outer() { return inner(); }\nouter();\n"
	rt := expectRuntimeError(t, src, diag.RunDivisionByZero, "Division by zero")
	if rt.Token.Line != 2 {
		t.Errorf("error line = %d, want 2", rt.Token.Line)
	}
	if len(rt.Backtrace) != 2 {
		t.Fatalf("backtrace = %+v, want 2 frames", rt.Backtrace)
	}
	if rt.Backtrace[0].Function != "<fn inner>" || rt.Backtrace[1].Function != "<fn outer>" {
		t.Errorf("unexpected frames %+v", rt.Backtrace)
	}
	if rt.Phase() != diag.PhaseRuntime {
		t.Errorf("phase = %v", rt.Phase())
	}
}

func TestLastExpressionValue(t *testing.T) {
	tests := []struct {
		input string
		want  interp.Value
	}{
		{"1 + 1;", int64(2)},
		{`"a" + "b"; var x = 1;`, "ab"},
		{"var x = 1;", nil},
		{"2.5 * 2;", 5.0},
	}
	for _, tt := range tests {
		_, v, err := runSource(t, tt.input, interp.Options{})
		if err != nil {
			t.Fatalf("%q: %v", tt.input, err)
		}
		if !interp.Equal(v, tt.want) || interp.TypeName(v) != interp.TypeName(tt.want) {
			t.Errorf("%q = %v (%T), want %v", tt.input, v, v, tt.want)
		}
	}
}

func TestLimits(t *testing.T) {
	_, _, err := runSource(t, "while (true) {}", interp.Options{MaxSteps: 100})
	var rt *interp.RuntimeError
	if !errors.As(err, &rt) || rt.Code != diag.RunStepLimit {
		t.Fatalf("want step limit error, got %v", err)
	}

	_, _, err = runSource(t, "function f(n) { return f(n + 1); } f(0);", interp.Options{MaxCallDepth: 50})
	if !errors.As(err, &rt) || rt.Code != diag.RunCallDepth {
		t.Fatalf("want call depth error, got %v", err)
	}
	if len(rt.Backtrace) != 50 {
		t.Errorf("backtrace has %d frames, want 50", len(rt.Backtrace))
	}
}

func TestCancellation(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("loop.hsl", []byte("while (true) {}"))
	toks := lexer.New(fs.Get(id), lexer.Options{}).All()
	stmts, ok := parser.New(toks, parser.Options{}).Parse()
	if !ok {
		t.Fatal("parse failed")
	}
	locals := symbols.NewResolver(symbols.Options{}).Resolve(stmts)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := interp.New(interp.Options{}).Interpret(ctx, stmts, locals)
	var rt *interp.RuntimeError
	if !errors.As(err, &rt) || rt.Code != diag.RunCancelled {
		t.Fatalf("want cancellation error, got %v", err)
	}
}

func TestFormatWithFiles(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("main.hsl", []byte("var a = 1;\nprintln(a / 0);\n"))
	toks := lexer.New(fs.Get(id), lexer.Options{}).All()
	stmts, _ := parser.New(toks, parser.Options{}).Parse()
	locals := symbols.NewResolver(symbols.Options{}).Resolve(stmts)
	_, err := interp.New(interp.Options{Stdout: &bytes.Buffer{}}).Interpret(context.Background(), stmts, locals)
	var rt *interp.RuntimeError
	if !errors.As(err, &rt) {
		t.Fatalf("want runtime error, got %v", err)
	}
	got := rt.FormatWithFiles(fs)
	want := "error RUN4003: Division by zero.\nat main.hsl:2:11\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
