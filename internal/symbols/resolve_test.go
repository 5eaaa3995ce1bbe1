package symbols_test

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strings"
	"testing"

	"hsl/internal/ast"
	"hsl/internal/diag"
	"hsl/internal/interp"
	"hsl/internal/lexer"
	"hsl/internal/native"
	"hsl/internal/parser"
	"hsl/internal/source"
	"hsl/internal/symbols"
	"hsl/internal/token"
)

func parseProgram(t *testing.T, input string) []ast.Stmt {
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
	return stmts
}

func resolveSource(t *testing.T, input string, opts symbols.Options) (*symbols.Locals, *diag.Bag) {
	t.Helper()
	stmts := parseProgram(t, input)
	bag := diag.NewBag(50)
	opts.Reporter = diag.BagReporter{Bag: bag}
	return symbols.NewResolver(opts).Resolve(stmts), bag
}

// depthsByName groups recorded depths by the referenced name, sorted.
func depthsByName(l *symbols.Locals) map[string][]int {
	out := make(map[string][]int)
	l.Each(func(e ast.Expr, d int) {
		var name string
		switch v := e.(type) {
		case *ast.VariableExpr:
			name = v.Name.Text
		case *ast.AssignExpr:
			name = v.Name.Text + "="
		case *ast.ThisExpr:
			name = "this"
		case *ast.SuperExpr:
			name = "super"
		case *ast.PrefixCallExpr:
			name = v.Operator.Text
		case *ast.InfixCallExpr:
			name = v.Operator.Text
		default:
			name = "?"
		}
		out[name] = append(out[name], d)
	})
	for _, ds := range out {
		slices.Sort(ds)
	}
	return out
}

func expectDepths(t *testing.T, input string, want map[string][]int) {
	t.Helper()
	locals, bag := resolveSource(t, input, symbols.Options{})
	if bag.HasErrors() {
		t.Fatalf("%q: unexpected diagnostics %+v", input, bag.Items())
	}
	got := depthsByName(locals)
	for name, ds := range want {
		if !slices.Equal(got[name], ds) {
			t.Errorf("%q: depths of %s = %v, want %v", input, name, got[name], ds)
		}
	}
	if len(got) != len(want) {
		t.Errorf("%q: resolved names %v, want %v", input, got, want)
	}
}

func TestDistances(t *testing.T) {
	expectDepths(t, `var a = 1;
{ var b = 2; { print(a + b); } }`, map[string][]int{
		"a":     {symbols.Global},
		"b":     {1},
		"print": {symbols.Global},
	})

	expectDepths(t, `function outer() {
	var x = 1;
	function inner(y) { return x + y; }
	return inner;
}`, map[string][]int{
		"x":     {1},
		"y":     {0},
		"inner": {0},
	})

	expectDepths(t, `for (var i = 0; i < 3; i++) { i = i + 1; }`, map[string][]int{
		"i":  {0, 0, 1},
		"i=": {1},
	})

	expectDepths(t, `repeat 2 { var c = 0; c = c + 1; }`, map[string][]int{
		"c":  {0},
		"c=": {0},
	})

	expectDepths(t, `class A { m() { return this; } }
class B extends A { m() { return super.m(); } }`, map[string][]int{
		"A":     {symbols.Global},
		"this":  {1},
		"super": {2},
	})

	expectDepths(t, `{ infix function max(a, b) { return a; } 1 max 2; }`, map[string][]int{
		"a":   {0},
		"max": {0},
	})
}

func TestNestedBlocks(t *testing.T) {
	for n := 1; n <= 20; n++ {
		var b strings.Builder
		b.WriteString("var outer = -1;\n")
		for i := 1; i <= n; i++ {
			fmt.Fprintf(&b, "{ var x = %d;\n", i)
		}
		b.WriteString("println(x, outer);\n")
		b.WriteString(strings.Repeat("}", n))
		src := b.String()

		expectDepths(t, src, map[string][]int{
			"x":       {0},
			"outer":   {symbols.Global},
			"println": {symbols.Global},
		})

		stmts := parseProgram(t, src)
		locals := symbols.NewResolver(symbols.Options{}).Resolve(stmts)
		var out bytes.Buffer
		if _, err := interp.New(interp.Options{Stdout: &out}).Interpret(context.Background(), stmts, locals); err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}
		if want := fmt.Sprintf("%d -1\n", n); out.String() != want {
			t.Errorf("n=%d: printed %q, want %q", n, out.String(), want)
		}
	}
}

func TestUndeclaredNameIsGlobal(t *testing.T) {
	expectDepths(t, "{ missing = 1; missing; }", map[string][]int{
		"missing":  {symbols.Global},
		"missing=": {symbols.Global},
	})
}

func TestResolveIsIdempotent(t *testing.T) {
	stmts := parseProgram(t, `var g = 1;
function f(a) { var b = a; return function () { return a + b + g; }; }`)
	r := symbols.NewResolver(symbols.Options{})
	first := r.Resolve(stmts)
	second := r.Resolve(stmts)
	if first.Len() != second.Len() || first.Len() == 0 {
		t.Fatalf("len %d vs %d", first.Len(), second.Len())
	}
	first.Each(func(e ast.Expr, d int) {
		if d2, ok := second.Depth(e); !ok || d2 != d {
			t.Errorf("record changed: %d -> %d (%v)", d, d2, ok)
		}
	})
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		input string
		code  diag.Code
		msg   string
	}{
		{"{ var a = 1; var a = 2; }", diag.ResRedeclared, "Variable 'a' is already declared in this scope."},
		{"function f(a, a) {}", diag.ResRedeclared, "Parameter 'a' is already declared in this scope."},
		{"class A { var f; var f; }", diag.ResRedeclared, "Field 'f' is already declared in class 'A'."},
		{"{ var a = a; }", diag.ResSelfReference, "Cannot read local variable 'a' in its own initializer."},
		{"var fresh = fresh;", diag.ResSelfReference, "Cannot read local variable 'fresh' in its own initializer."},
		{"final var x = 1;\nx = 2;", diag.ResFinalReassign, "Cannot reassign variable 'x'."},
		{"final var x = 1; x++;", diag.ResFinalReassign, "Cannot reassign variable 'x'."},
		{"function x() { }\nfunction x() { }", diag.ResFinalReassign, "Cannot reassign function 'x'."},
		{"class User { }\nclass User { }", diag.ResFinalReassign, "Cannot reassign class 'User'."},
		{"native function a.x();\nfunction x() { }", diag.ResFinalReassign, "Cannot reassign native function 'x'."},
		{"break;", diag.ResLoopControlOutside, "Cannot use 'break' outside of a loop."},
		{"while (true) { function f() { continue; } }", diag.ResLoopControlOutside, "Cannot use 'continue' outside of a loop."},
		{"return 1;", diag.ResReturnOutside, "Cannot return from top-level code."},
		{"class A { constructor() { return 1; } }", diag.ResReturnFromConstructor, "Cannot return a value from a constructor."},
		{"this;", diag.ResThisOutsideClass, "Cannot use 'this' outside of a class."},
		{"super.m();", diag.ResSuperMisuse, "Cannot use 'super' outside of a class."},
		{"class A { m() { return super.m(); } }", diag.ResSuperMisuse, "Cannot use 'super' in a class with no superclass."},
		{"class A extends A { }", diag.ResSelfInheritance, "A class can't inherit from itself."},
	}
	for _, tt := range tests {
		_, bag := resolveSource(t, tt.input, symbols.Options{})
		items := bag.Items()
		if len(items) != 1 {
			t.Errorf("%q: got %d diagnostics %+v", tt.input, len(items), items)
			continue
		}
		if items[0].Code != tt.code || items[0].Message != tt.msg {
			t.Errorf("%q: got %s %q, want %s %q", tt.input, items[0].Code, items[0].Message, tt.code, tt.msg)
		}
	}
}

// Top-level var may be declared again so REPL lines can redefine a name;
// any nested scope treats it as a mistake.
func TestRedeclarationByScope(t *testing.T) {
	tests := []struct {
		name, input string
		code        diag.Code // 0: accepted
	}{
		{"top level", "var a = 1; var a = 2;", 0},
		{"block", "{ var a = 1; var a = 2; }", diag.ResRedeclared},
		{"function body", "function f() { var a = 1; var a = 2; }", diag.ResRedeclared},
		{"loop body", "while (false) { var a = 1; var a = 2; }", diag.ResRedeclared},
		{"top level final", "final var a = 1; var a = 2;", diag.ResFinalReassign},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, bag := resolveSource(t, tt.input, symbols.Options{})
			items := bag.Items()
			if tt.code == 0 {
				if len(items) != 0 {
					t.Fatalf("unexpected diagnostics %+v", items)
				}
				return
			}
			if len(items) != 1 || items[0].Code != tt.code {
				t.Fatalf("got %+v, want one %s", items, tt.code)
			}
			if tt.code == diag.ResRedeclared && (len(items[0].Notes) != 1 || items[0].Notes[0].Msg != "previous declaration here") {
				t.Errorf("notes %+v", items[0].Notes)
			}
		})
	}
}

func TestAllowedForms(t *testing.T) {
	for _, src := range []string{
		"var a = 1; var a = a + 1;",
		"{ var a = 1; { var b = a; } }",
		"function f() { return; } class A { constructor() { return; } }",
		"while (true) { repeat 2 { break; } continue; }",
		"for (var x in [1, 2]) { if (x) break; }",
		"do { break; } while (false);",
		"var f = function (n) { return n <= 1 ? 1 : n * f(n - 1); };",
	} {
		if _, bag := resolveSource(t, src, symbols.Options{}); bag.Len() != 0 {
			t.Errorf("%q: unexpected diagnostics %+v", src, bag.Items())
		}
	}
}

func mathCatalog() *native.Catalog {
	c := native.NewCatalog()
	c.Add("math", []native.Signature{
		native.Fn("math", "max", "a", "b"),
		native.Fn("math", "abs", "x"),
		native.Fn("math", "sum", "values").WithVariadic(),
	})
	return c
}

func TestNativeChecks(t *testing.T) {
	tests := []struct {
		input string
		code  diag.Code
		msg   string
	}{
		{"native function math.max(a, b); max(1);", diag.ResNativeArity, "Native function math.max(a, b) expects 2 arguments, but got 1."},
		{"native function math.max(a);", diag.ResNativeArity, "Native function math.max(a, b) expects 2 arguments, but was declared with 1."},
		{"native function math.mx(a, b);", diag.ResUnknownNative, "Native module 'math' has no function 'mx'. Did you mean 'max'?"},
		{"native function maths.max(a, b);", diag.ResUnknownModule, "Unknown native module 'maths'."},
		{"using mth;", diag.ResUnknownModule, "Unknown native module 'mth'. Did you mean 'math'?"},
		{"using math; math.max(1, 2, 3);", diag.ResNativeArity, "Native function math.max(a, b) expects 2 arguments, but got 3."},
		{"using math; math.floor(1);", diag.ResUnknownNative, "Native module 'math' has no function 'floor'."},
		{"using math; math = 1;", diag.ResFinalReassign, "Cannot reassign module 'math'."},
	}
	for _, tt := range tests {
		_, bag := resolveSource(t, tt.input, symbols.Options{Natives: mathCatalog()})
		items := bag.Items()
		if len(items) != 1 {
			t.Errorf("%q: got %d diagnostics %+v", tt.input, len(items), items)
			continue
		}
		if items[0].Code != tt.code || items[0].Message != tt.msg {
			t.Errorf("%q: got %s %q, want %s %q", tt.input, items[0].Code, items[0].Message, tt.code, tt.msg)
		}
	}
}

func TestNativeCallsThatPass(t *testing.T) {
	src := `using math;
native function math.abs(x);
math.max(1, 2); abs(-1); math.sum(1, 2, 3); math.sum();
{ var abs = function (a, b) { return a; }; abs(1, 2); }`
	if _, bag := resolveSource(t, src, symbols.Options{Natives: mathCatalog()}); bag.Len() != 0 {
		t.Errorf("unexpected diagnostics %+v", bag.Items())
	}
}

func TestShadowingWarning(t *testing.T) {
	_, bag := resolveSource(t, "var a; { var a; }", symbols.Options{WarnShadowing: true})
	if bag.HasErrors() || bag.Len() != 1 || bag.Items()[0].Code != diag.ResShadowed {
		t.Fatalf("diagnostics: %+v", bag.Items())
	}
}

func TestPreludeCarriesFinality(t *testing.T) {
	first := symbols.NewResolver(symbols.Options{Prelude: symbols.Builtins("print")})
	first.Resolve(parseProgram(t, "final var k = 1; function f() {} var plain = 2;"))
	globals := first.Globals()
	if len(globals) != 4 {
		t.Fatalf("globals: %+v", globals)
	}

	bag := diag.NewBag(10)
	second := symbols.NewResolver(symbols.Options{Reporter: diag.BagReporter{Bag: bag}, Prelude: globals})
	second.Resolve(parseProgram(t, "plain = 3; var plain = 4; print(plain); k = 2;"))
	if bag.Len() != 1 || bag.Items()[0].Message != "Cannot reassign variable 'k'." {
		t.Fatalf("diagnostics: %+v", bag.Items())
	}
}

// --- extension nodes ---

type countModule struct{ resolved int }

func (m *countModule) Name() string { return "count" }

func (m *countModule) ResolveExpr(r *symbols.Resolver, e ast.CustomExpr) error {
	m.resolved++
	r.ResolveName(e, "counter")
	return nil
}

func (m *countModule) ResolveStmt(r *symbols.Resolver, s ast.CustomStmt) error {
	m.resolved++
	r.Enter(symbols.ScopeBlock, s.Pos().Span)
	r.Declare(token.Token{Kind: token.Ident, Text: "counter"}, symbols.SymbolVar, symbols.SymbolFlagDefined)
	r.ResolveExpr(s.(*countStmt).body)
	r.Leave()
	return nil
}

type plainModule struct{}

func (plainModule) Name() string { return "plain" }

type countStmt struct {
	mod  ast.ExtensionModule
	body ast.Expr
}

func (s *countStmt) Pos() token.Token               { return token.Token{Kind: token.Ident, Text: "count"} }
func (s *countStmt) Accept(v ast.StmtVisitor) error { return v.VisitCustomStmt(s) }
func (s *countStmt) Module() ast.ExtensionModule    { return s.mod }

type counterExpr struct{ mod ast.ExtensionModule }

func (e *counterExpr) Pos() token.Token                       { return token.Token{Kind: token.Ident, Text: "counter"} }
func (e *counterExpr) Accept(v ast.ExprVisitor) (any, error) { return v.VisitCustomExpr(e) }
func (e *counterExpr) Module() ast.ExtensionModule            { return e.mod }

func TestCustomNodesDelegateToModule(t *testing.T) {
	mod := &countModule{}
	inner := &counterExpr{mod: mod}
	prog := []ast.Stmt{&countStmt{mod: mod, body: inner}}

	bag := diag.NewBag(10)
	locals := symbols.NewResolver(symbols.Options{Reporter: diag.BagReporter{Bag: bag}}).Resolve(prog)
	if bag.Len() != 0 {
		t.Fatalf("diagnostics: %+v", bag.Items())
	}
	if mod.resolved != 2 {
		t.Errorf("module resolved %d nodes, want 2", mod.resolved)
	}
	if d, ok := locals.Depth(inner); !ok || d != 0 {
		t.Errorf("depth = %d, %v", d, ok)
	}

	bag = diag.NewBag(10)
	symbols.NewResolver(symbols.Options{Reporter: diag.BagReporter{Bag: bag}}).
		Resolve([]ast.Stmt{&countStmt{mod: plainModule{}}})
	if bag.Len() != 1 || bag.Items()[0].Code != diag.ResUnsupportedExtension {
		t.Fatalf("diagnostics: %+v", bag.Items())
	}
}
