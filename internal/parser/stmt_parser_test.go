package parser_test

import (
	"fmt"
	"strings"
	"testing"

	"hsl/internal/ast"
	"hsl/internal/diag"
	"hsl/internal/parser"
	"hsl/internal/token"
)

func TestStatements(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"var", "var a; final var b = 1;", "(program (var a) (final b (literal 1)))"},
		{"block", "{ var a = 1; { a; } }", "(program (block (var a (literal 1)) (block (expr (var a)))))"},
		{"if-else", "if (a) b(); else { c(); }",
			"(program (if (var a) (expr (call (var b))) (block (expr (call (var c))))))"},
		{"while", "while (i < 3) i++;", "(program (while (binary < (var i) (literal 3)) (expr (postfix ++ (var i)))))"},
		{"do-while", "do { x; } while (false);", "(program (do-while (block (expr (var x))) (literal false)))"},
		{"for", "for (var i = 0; i < 3; i++) print(i);",
			"(program (for (var i (literal 0)) (binary < (var i) (literal 3)) (postfix ++ (var i)) (expr (call (var print) (var i)))))"},
		{"for-empty", "for (;;) break;", "(program (for (break)))"},
		{"for-in", "for (var x in xs) {}", "(program (for-in x (var xs) (block)))"},
		{"repeat", "repeat 3 { counter = counter + 1 }",
			"(program (repeat (literal 3) (block (expr (assign = (var counter) (binary + (var counter) (literal 1)))))))"},
		{"repeat-paren", "repeat (n) { continue; }", "(program (repeat (group (var n)) (block (continue))))"},
		{"return", "function f() { return; } function g(a) { return a * 2; }",
			"(program (function f (params) (return)) (function g (params a) (return (binary * (var a) (literal 2)))))"},
		{"native", "native function math.max(a, b);", "(program (native math.max (params a b)))"},
		{"using", "using math;", "(program (using math))"},
		{"empty", ";;", "(program)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectTree(t, tt.input, tt.want)
		})
	}
}

func TestClassDeclaration(t *testing.T) {
	src := `final class B extends A {
		var f = 1;
		final var g;
		constructor(x) { this.f = x; }
		get() { return this.f; }
		function twice() { return this.f * 2; }
	}`
	want := "(program (class final B (extends A) (var f (literal 1)) (final g) " +
		"(constructor (params x) (expr (set f = (this) (var x)))) " +
		"(method get (params) (return (get f (this)))) " +
		"(method twice (params) (return (binary * (get f (this)) (literal 2))))))"
	expectTree(t, src, want)
}

func TestPrefixAndInfixFunctions(t *testing.T) {
	src := `prefix function neg(a) { return -a; }
infix function max(a, b) { return a; }
neg 3 max 2;
neg(4);`
	want := "(program (prefix neg (params a) (return (unary - (var a)))) " +
		"(infix max (params a b) (return (var a))) " +
		"(expr (infix-call max (prefix-call neg (literal 3)) (literal 2))) " +
		"(expr (call (var neg) (literal 4))))"
	expectTree(t, src, want)
}

func TestInfixBindsLooserThanArithmetic(t *testing.T) {
	src := "infix function pow(a, b) { return a; } 1 + 2 pow 3 * 4 == x;"
	want := "(program (infix pow (params a b) (return (var a))) " +
		"(expr (binary == (infix-call pow (binary + (literal 1) (literal 2)) (binary * (literal 3) (literal 4))) (var x))))"
	expectTree(t, src, want)
}

func TestFunctionContextIsShared(t *testing.T) {
	ctx := parser.NewFunctionParserContext()
	if _, ok, _ := parseSource(t, "infix function add(a, b) { return a + b; }", parser.Options{Functions: ctx}); !ok {
		t.Fatal("declaration failed")
	}
	stmts, ok, _ := parseSource(t, "1 add 2;", parser.Options{Functions: ctx})
	if !ok {
		t.Fatal("second input failed")
	}
	if got := ast.Dump(stmts).String(); got != "(program (expr (infix-call add (literal 1) (literal 2))))" {
		t.Errorf("got %s", got)
	}
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		input string
		codes []diag.Code
		msg   string
	}{
		{"var = 1;", []diag.Code{diag.SynExpectIdentifier}, "Expected variable name, but found '='."},
		{"var a = 1 var b = 2;", []diag.Code{diag.SynExpectSemicolon}, "Expected ';' after variable declaration, but found 'var'."},
		{"(1 + 2;", []diag.Code{diag.SynUnclosedParen}, "Expected ')' after expression, but found ';'."},
		{"1 = 2;", []diag.Code{diag.SynInvalidAssignment}, "Invalid assignment target."},
		{"final function f() {}", []diag.Code{diag.SynModifierNotHere}, "The 'final' modifier cannot be applied to 'function'."},
		{"prefix function f(a, b) {}", []diag.Code{diag.SynTooManyParameters}, "Cannot have more than 1 parameters in prefix function."},
		{"infix function f(a, b, c) {}", []diag.Code{diag.SynTooManyParameters}, "Cannot have more than 2 parameters in infix function."},
		{"constructor() {}", []diag.Code{diag.SynUnexpectedToken}, "Constructors can only be declared inside a class body."},
		{"if (a { }", []diag.Code{diag.SynUnclosedParen}, "Expected ')' after if condition, but found '{'."},
		{"{ var a;", []diag.Code{diag.SynUnclosedBrace}, "Expected '}' after block, but found end of file."},
		{"class A { 1; }", []diag.Code{diag.SynUnexpectedToken}, "Expected field, constructor or method in class body, but found '1'."},
	}
	for _, tt := range tests {
		bag := expectErrors(t, tt.input, tt.codes...)
		if got := bag.Items()[0].Message; got != tt.msg {
			t.Errorf("%q: message %q, want %q", tt.input, got, tt.msg)
		}
	}
}

func TestRecoveryReportsEveryStatement(t *testing.T) {
	stmts, ok, bag := parseSource(t, "var a = ; var b = 2; print(; var c = 3;", parser.Options{})
	if ok {
		t.Fatal("expected failure")
	}
	if bag.Len() != 2 {
		t.Fatalf("got %d diagnostics: %+v", bag.Len(), bag.Items())
	}
	if got := ast.Dump(stmts).String(); got != "(program (var b (literal 2)) (var c (literal 3)))" {
		t.Errorf("recovered program: %s", got)
	}
}

func TestMaxErrorsStopsParsing(t *testing.T) {
	_, ok, bag := parseSource(t, "var = 1; var = 2; var = 3;", parser.Options{MaxErrors: 2})
	if ok {
		t.Fatal("expected failure")
	}
	if bag.Len() != 2 {
		t.Fatalf("got %d diagnostics, want 2", bag.Len())
	}
}

func TestLexicalErrorIsNotReportedTwice(t *testing.T) {
	_, ok, bag := parseSource(t, "var a = 1 @ 2;", parser.Options{})
	if ok {
		t.Fatal("Invalid token must fail the parse")
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.LexUnknownChar {
		t.Fatalf("diagnostics: %+v", bag.Items())
	}
}

func TestParametersLimit(t *testing.T) {
	names := make([]string, 256)
	for i := range names {
		names[i] = fmt.Sprintf("p%d", i)
	}
	expectErrors(t, "function f("+strings.Join(names, ", ")+") {}", diag.SynTooManyParameters)

	ctor := "class A { constructor(" + strings.Join(names, ", ") + ") {} }"
	if got := mustParse(t, ctor); !strings.HasPrefix(got, "(program (class A (constructor (params") {
		t.Errorf("constructor: %s", got)
	}
}

// --- extension strategies ---

type echoModule struct{}

func (echoModule) Name() string { return "echo" }

type echoStmt struct {
	at    token.Token
	value ast.Expr
}

func (s *echoStmt) Pos() token.Token               { return s.at }
func (s *echoStmt) Accept(v ast.StmtVisitor) error { return v.VisitCustomStmt(s) }
func (s *echoStmt) Module() ast.ExtensionModule    { return echoModule{} }

type nowExpr struct{ at token.Token }

func (e *nowExpr) Pos() token.Token                     { return e.at }
func (e *nowExpr) Accept(v ast.ExprVisitor) (any, error) { return v.VisitCustomExpr(e) }
func (e *nowExpr) Module() ast.ExtensionModule          { return echoModule{} }

func echoParser(p *parser.Parser, v *parser.StepValidator) (ast.Stmt, bool) {
	if !p.CheckIdent("echo") || p.PeekAt(1).Kind == token.LParen {
		return nil, false
	}
	at := p.Advance()
	value, ok := p.Expression()
	if !ok {
		return nil, true
	}
	if _, ok := v.ExpectAfter(token.Semicolon, "echo value"); !ok {
		return nil, true
	}
	return &echoStmt{at: at, value: value}, true
}

func nowParser(p *parser.Parser, _ *parser.StepValidator) (ast.Expr, bool) {
	if !p.CheckIdent("now") || p.PeekAt(1).Kind != token.Bang {
		return nil, false
	}
	at := p.Advance()
	p.Advance()
	return &nowExpr{at: at}, true
}

func TestExtensionStrategies(t *testing.T) {
	opts := parser.Options{
		Statements: append(parser.DefaultStatementParsers(), parser.StatementParserFunc(echoParser)),
		Prefixes:   []parser.PrefixParser{parser.PrefixParserFunc(nowParser)},
	}
	stmts, ok, bag := parseSource(t, "echo now! + 1; echo(2); var now = 1;", opts)
	if !ok {
		t.Fatalf("diagnostics: %+v", bag.Items())
	}
	if len(stmts) != 3 {
		t.Fatalf("got %d statements", len(stmts))
	}
	echo, isEcho := stmts[0].(*echoStmt)
	if !isEcho {
		t.Fatalf("first statement is %T", stmts[0])
	}
	bin, isBin := echo.value.(*ast.BinaryExpr)
	if !isBin {
		t.Fatalf("echo value is %T", echo.value)
	}
	if _, isNow := bin.Left.(*nowExpr); !isNow {
		t.Errorf("left operand is %T", bin.Left)
	}
	// echo( ... ) остаётся обычным вызовом
	if got := ast.DumpStmt(stmts[1]).String(); got != "(expr (call (var echo) (literal 2)))" {
		t.Errorf("call fallback: %s", got)
	}
}

func TestStrategyOrderFirstMatchWins(t *testing.T) {
	shadow := parser.StatementParserFunc(func(p *parser.Parser, _ *parser.StepValidator) (ast.Stmt, bool) {
		if !p.Check(token.KwUsing) {
			return nil, false
		}
		at := p.Advance()
		p.Advance()
		p.Advance()
		return &echoStmt{at: at}, true
	})
	opts := parser.Options{Statements: append([]parser.StatementParser{shadow}, parser.DefaultStatementParsers()...)}
	stmts, ok, _ := parseSource(t, "using math;", opts)
	if !ok || len(stmts) != 1 {
		t.Fatalf("ok=%v stmts=%d", ok, len(stmts))
	}
	if _, isEcho := stmts[0].(*echoStmt); !isEcho {
		t.Errorf("got %T, want the first registered strategy", stmts[0])
	}
}
