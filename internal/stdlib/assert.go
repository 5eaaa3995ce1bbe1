package stdlib

import (
	"fmt"

	"hsl/internal/ast"
	"hsl/internal/diag"
	"hsl/internal/interp"
	"hsl/internal/native"
	"hsl/internal/parser"
	"hsl/internal/symbols"
	"hsl/internal/token"
)

// Assert adds two pieces of syntax and a small native library:
//
//	assert cond;            fails with RUN4013 when cond is falsy
//	assert cond, message;
//	nameof(x)               the string "x", after resolving x
//	assert.equal(a, b)      needs `using assert;`
type Assert struct {
	*table
}

func NewAssert() *Assert {
	a := &Assert{table: newTable("assert")}
	a.add(native.Fn("", "equal", "actual", "expected"), a.equal)
	a.add(native.Fn("", "fail", "message"), a.fail)
	return a
}

func (a *Assert) Name() string { return "assert" }

// AssertStmt is `assert cond[, message];`.
type AssertStmt struct {
	Keyword   token.Token
	Condition ast.Expr
	Message   ast.Expr
	mod       *Assert
}

func (s *AssertStmt) Pos() token.Token               { return s.Keyword }
func (s *AssertStmt) Accept(v ast.StmtVisitor) error { return v.VisitCustomStmt(s) }
func (s *AssertStmt) Module() ast.ExtensionModule    { return s.mod }

func (s *AssertStmt) Tree() *ast.Tree {
	t := &ast.Tree{Kind: "assert", Line: s.Keyword.Line, Children: []*ast.Tree{ast.DumpExpr(s.Condition)}}
	if s.Message != nil {
		t.Children = append(t.Children, ast.DumpExpr(s.Message))
	}
	return t
}

// NameofExpr is `nameof(x)`.
type NameofExpr struct {
	Keyword token.Token
	Target  *ast.VariableExpr
	mod     *Assert
}

func (e *NameofExpr) Pos() token.Token                      { return e.Keyword }
func (e *NameofExpr) Accept(v ast.ExprVisitor) (any, error) { return v.VisitCustomExpr(e) }
func (e *NameofExpr) Module() ast.ExtensionModule           { return e.mod }

func (e *NameofExpr) Tree() *ast.Tree {
	return &ast.Tree{Kind: "nameof", Text: e.Target.Name.Text, Line: e.Keyword.Line}
}

// notStatement lists tokens that make `assert` an ordinary identifier.
var notStatement = []token.Kind{token.Dot, token.Semicolon, token.LBracket, token.PlusPlus, token.MinusMinus}

func (a *Assert) StatementParsers() []parser.StatementParser {
	return []parser.StatementParser{parser.StatementParserFunc(a.parseAssert)}
}

func (a *Assert) parseAssert(p *parser.Parser, v *parser.StepValidator) (ast.Stmt, bool) {
	if !p.CheckIdent("assert") {
		return nil, false
	}
	next := p.PeekAt(1).Kind
	if next.IsAssignOp() {
		return nil, false
	}
	for _, k := range notStatement {
		if next == k {
			return nil, false
		}
	}
	s := &AssertStmt{Keyword: p.Advance(), mod: a}
	var ok bool
	if s.Condition, ok = p.Expression(); !ok {
		return nil, true
	}
	if p.Match(token.Comma) {
		if s.Message, ok = p.Expression(); !ok {
			return nil, true
		}
	}
	if _, ok := v.ExpectAfter(token.Semicolon, "assertion"); !ok {
		return nil, true
	}
	return s, true
}

func (a *Assert) PrefixParsers() []parser.PrefixParser {
	return []parser.PrefixParser{parser.PrefixParserFunc(a.parseNameof)}
}

func (a *Assert) parseNameof(p *parser.Parser, v *parser.StepValidator) (ast.Expr, bool) {
	if !p.CheckIdent("nameof") || p.PeekAt(1).Kind != token.LParen {
		return nil, false
	}
	kw := p.Advance()
	p.Advance()
	name, ok := v.ExpectIdent("variable name in nameof")
	if !ok {
		return nil, true
	}
	if _, ok := v.ExpectAfter(token.RParen, "nameof argument"); !ok {
		return nil, true
	}
	return &NameofExpr{Keyword: kw, Target: &ast.VariableExpr{Name: name}, mod: a}, true
}

func (a *Assert) ResolveStmt(r *symbols.Resolver, s ast.CustomStmt) error {
	st, ok := s.(*AssertStmt)
	if !ok {
		return fmt.Errorf("assert: unexpected statement %T", s)
	}
	r.ResolveExpr(st.Condition)
	r.ResolveExpr(st.Message)
	return nil
}

func (a *Assert) ResolveExpr(r *symbols.Resolver, e ast.CustomExpr) error {
	ne, ok := e.(*NameofExpr)
	if !ok {
		return fmt.Errorf("assert: unexpected expression %T", e)
	}
	r.ResolveExpr(ne.Target)
	return nil
}

func (a *Assert) InterpretStmt(in *interp.Interpreter, s ast.CustomStmt) error {
	st, ok := s.(*AssertStmt)
	if !ok {
		return in.Errorf(s.Pos(), diag.RunInvalidOperand, "Unexpected assert node.")
	}
	cond, err := in.Evaluate(st.Condition)
	if err != nil {
		return err
	}
	if interp.Truthy(cond) {
		return nil
	}
	if st.Message == nil {
		return in.Errorf(st.Keyword, diag.RunAssertion, "Assertion failed.")
	}
	msg, err := in.Evaluate(st.Message)
	if err != nil {
		return err
	}
	return in.Errorf(st.Keyword, diag.RunAssertion, "Assertion failed: %s", interp.Stringify(msg))
}

// InterpretExpr evaluates the target first so an undefined name still
// fails at runtime.
func (a *Assert) InterpretExpr(in *interp.Interpreter, e ast.CustomExpr) (interp.Value, error) {
	ne, ok := e.(*NameofExpr)
	if !ok {
		return nil, in.Errorf(e.Pos(), diag.RunInvalidOperand, "Unexpected assert node.")
	}
	if _, err := in.Evaluate(ne.Target); err != nil {
		return nil, err
	}
	return ne.Target.Name.Text, nil
}

func (a *Assert) equal(in *interp.Interpreter, at token.Token, vals []interp.Value) (interp.Value, error) {
	if interp.Equal(vals[0], vals[1]) {
		return nil, nil
	}
	return nil, in.Errorf(at, diag.RunAssertion, "Assertion failed: expected %s, got %s.",
		interp.Stringify(vals[1]), interp.Stringify(vals[0]))
}

func (a *Assert) fail(in *interp.Interpreter, at token.Token, vals []interp.Value) (interp.Value, error) {
	return nil, in.Errorf(at, diag.RunAssertion, "Assertion failed: %s", interp.Stringify(vals[0]))
}

var (
	_ symbols.NodeResolver   = (*Assert)(nil)
	_ interp.NodeInterpreter = (*Assert)(nil)
	_ interp.NativeModule    = (*Assert)(nil)
)
