package parser

import (
	"fmt"

	"hsl/internal/ast"
	"hsl/internal/diag"
	"hsl/internal/token"
)

// VarStatementParser handles `var name [= value];`.
type VarStatementParser struct{}

func (VarStatementParser) Parse(p *Parser, v *StepValidator) (ast.Stmt, bool) {
	if !p.Check(token.KwVar) {
		return nil, false
	}
	stmt, ok := parseVar(p, v, p.Advance(), false)
	if !ok {
		return fail()
	}
	return stmt, true
}

func parseVar(p *Parser, v *StepValidator, kw token.Token, final bool) (*ast.VarStmt, bool) {
	name, ok := v.ExpectIdent("variable name")
	if !ok {
		return nil, false
	}
	stmt := &ast.VarStmt{Keyword: kw, Name: name, Final: final}
	if p.Match(token.Assign) {
		init, ok := p.Expression()
		if !ok {
			return nil, false
		}
		stmt.Initializer = init
	}
	if _, ok := v.ExpectAfter(token.Semicolon, "variable declaration"); !ok {
		return nil, false
	}
	return stmt, true
}

// FinalStatementParser handles the `final` modifier on variables and classes.
type FinalStatementParser struct{}

func (FinalStatementParser) Parse(p *Parser, v *StepValidator) (ast.Stmt, bool) {
	if !p.Check(token.KwFinal) {
		return nil, false
	}
	mod := p.Advance()
	switch {
	case p.Check(token.KwVar):
		stmt, ok := parseVar(p, v, p.Advance(), true)
		if !ok {
			return fail()
		}
		return stmt, true
	case p.Check(token.KwClass):
		stmt, ok := parseClass(p, v, true)
		if !ok {
			return fail()
		}
		return stmt, true
	}
	p.ErrorAt(mod, diag.SynModifierNotHere,
		fmt.Sprintf("The 'final' modifier cannot be applied to %s.", found(p.Peek())))
	// модификатор отброшен, сама декларация разбирается как обычно
	stmt, ok := p.Declaration()
	if !ok {
		return fail()
	}
	return stmt, true
}

// FunctionStatementParser handles `function name(...)`, `prefix function`
// and `infix function` declarations. A bare `function (` is a lambda and is
// left to the expression parser.
type FunctionStatementParser struct{}

func (FunctionStatementParser) Parse(p *Parser, v *StepValidator) (ast.Stmt, bool) {
	kind := ast.FunctionPlain
	switch {
	case p.Check(token.KwFunction) && p.PeekAt(1).Kind == token.Ident:
	case p.Check(token.KwPrefix):
		kind = ast.FunctionPrefix
	case p.Check(token.KwInfix):
		kind = ast.FunctionInfix
	default:
		return nil, false
	}
	kw := p.Advance()
	if kind != ast.FunctionPlain {
		if _, ok := v.ExpectAfter(token.KwFunction, "'"+kw.Text+"'"); !ok {
			return fail()
		}
	}
	stmt, ok := parseFunction(p, v, kw, kind)
	if !ok {
		return fail()
	}
	return stmt, true
}

func parseFunction(p *Parser, v *StepValidator, kw token.Token, kind ast.FunctionKind) (*ast.FunctionStmt, bool) {
	name, ok := v.ExpectIdent(kind.String() + " name")
	if !ok {
		return nil, false
	}
	construct, arity := "function", maxArguments
	switch kind {
	case ast.FunctionPrefix:
		construct, arity = "prefix function", 1
	case ast.FunctionInfix:
		construct, arity = "infix function", 2
	case ast.FunctionMethod:
		construct = "method"
	}
	params, ok := p.Parameters(construct, arity, token.LParen, token.RParen)
	if !ok {
		return nil, false
	}
	// регистрируем до тела, чтобы работала рекурсия в операторной форме
	switch kind {
	case ast.FunctionPrefix:
		p.functions.AddPrefix(name.Text)
	case ast.FunctionInfix:
		p.functions.AddInfix(name.Text)
	}
	body, ok := p.functionBody(construct)
	if !ok {
		return nil, false
	}
	return &ast.FunctionStmt{Keyword: kw, Name: name, Params: params, Body: body, Kind: kind}, true
}

// ConstructorStatementParser handles `constructor(...) { ... }` inside a class body.
type ConstructorStatementParser struct{}

func (ConstructorStatementParser) Parse(p *Parser, _ *StepValidator) (ast.Stmt, bool) {
	if !p.Check(token.KwConstructor) {
		return nil, false
	}
	kw := p.Advance()
	if !p.InClass() {
		// репортим, но разбираем дальше, чтобы не терять синхронизацию на теле
		p.ErrorAt(kw, diag.SynUnexpectedToken, "Constructors can only be declared inside a class body.")
	}
	params, ok := p.Parameters("constructor", Unlimited, token.LParen, token.RParen)
	if !ok {
		return fail()
	}
	body, ok := p.functionBody("constructor")
	if !ok {
		return fail()
	}
	return &ast.ConstructorStmt{Keyword: kw, Params: params, Body: body}, true
}

// NativeFunctionStatementParser handles `native function module.name(params);`.
type NativeFunctionStatementParser struct{}

func (NativeFunctionStatementParser) Parse(p *Parser, v *StepValidator) (ast.Stmt, bool) {
	if !p.Check(token.KwNative) {
		return nil, false
	}
	kw := p.Advance()
	if _, ok := v.ExpectAfter(token.KwFunction, "'native'"); !ok {
		return fail()
	}
	module, ok := v.ExpectIdent("native module name")
	if !ok {
		return fail()
	}
	if _, ok := v.ExpectAfter(token.Dot, "native module name"); !ok {
		return fail()
	}
	name, ok := v.ExpectIdent("native function name")
	if !ok {
		return fail()
	}
	params, ok := p.Parameters("native function", Unlimited, token.LParen, token.RParen)
	if !ok {
		return fail()
	}
	if _, ok := v.ExpectAfter(token.Semicolon, "native function declaration"); !ok {
		return fail()
	}
	return &ast.NativeFunctionStmt{Keyword: kw, Module: module, Name: name, Params: params}, true
}

// ClassStatementParser handles `class Name [extends Super] { members }`.
type ClassStatementParser struct{}

func (ClassStatementParser) Parse(p *Parser, v *StepValidator) (ast.Stmt, bool) {
	if !p.Check(token.KwClass) {
		return nil, false
	}
	stmt, ok := parseClass(p, v, false)
	if !ok {
		return fail()
	}
	return stmt, true
}

func parseClass(p *Parser, v *StepValidator, final bool) (*ast.ClassStmt, bool) {
	kw := p.Advance()
	name, ok := v.ExpectIdent("class name")
	if !ok {
		return nil, false
	}
	stmt := &ast.ClassStmt{Keyword: kw, Name: name, Final: final}
	if p.Match(token.KwExtends) {
		super, ok := v.ExpectIdent("superclass name")
		if !ok {
			return nil, false
		}
		stmt.Superclass = &ast.VariableExpr{Name: super}
	}
	if _, ok := v.ExpectBefore(token.LBrace, "class body"); !ok {
		return nil, false
	}

	p.classes++
	defer func() { p.classes-- }()

	for !p.Check(token.RBrace) && !p.AtEnd() {
		if !classMember(p, v, stmt) {
			p.synchronize()
		}
	}
	if _, ok := v.ExpectAfter(token.RBrace, "class body"); !ok {
		return nil, false
	}
	return stmt, true
}

// classMember parses one field, constructor or method into class.
func classMember(p *Parser, v *StepValidator, class *ast.ClassStmt) bool {
	switch {
	case p.Check(token.KwVar):
		field, ok := parseVar(p, v, p.Advance(), false)
		if ok {
			class.Fields = append(class.Fields, field)
		}
		return ok

	case p.Check(token.KwFinal) && p.PeekAt(1).Kind == token.KwVar:
		p.Advance()
		field, ok := parseVar(p, v, p.Advance(), true)
		if ok {
			class.Fields = append(class.Fields, field)
		}
		return ok

	case p.Check(token.KwConstructor):
		kw := p.Peek()
		stmt, _ := ConstructorStatementParser{}.Parse(p, v)
		ctor, ok := stmt.(*ast.ConstructorStmt)
		if !ok {
			return false
		}
		if class.Constructor != nil {
			p.ErrorAt(kw, diag.SynUnexpectedToken,
				fmt.Sprintf("Class '%s' already declares a constructor.", class.Name.Text))
			return true
		}
		class.Constructor = ctor
		return true

	case p.Check(token.KwFunction) && p.PeekAt(1).Kind == token.Ident:
		kw := p.Advance()
		method, ok := parseFunction(p, v, kw, ast.FunctionMethod)
		if ok {
			class.Methods = append(class.Methods, method)
		}
		return ok

	case p.Check(token.Ident) && p.PeekAt(1).Kind == token.LParen:
		method, ok := parseFunction(p, v, p.Peek(), ast.FunctionMethod)
		if ok {
			class.Methods = append(class.Methods, method)
		}
		return ok

	case p.Match(token.Semicolon):
		return true
	}
	p.Error(diag.SynUnexpectedToken,
		fmt.Sprintf("Expected field, constructor or method in class body, but found %s.", found(p.Peek())))
	return false
}

// UsingStatementParser handles `using module;`.
type UsingStatementParser struct{}

func (UsingStatementParser) Parse(p *Parser, v *StepValidator) (ast.Stmt, bool) {
	if !p.Check(token.KwUsing) {
		return nil, false
	}
	kw := p.Advance()
	module, ok := v.ExpectIdent("module name")
	if !ok {
		return fail()
	}
	if _, ok := v.ExpectAfter(token.Semicolon, "using declaration"); !ok {
		return fail()
	}
	return &ast.UsingStmt{Keyword: kw, Module: module}, true
}
