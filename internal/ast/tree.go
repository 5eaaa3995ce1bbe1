package ast

import (
	"fmt"
	"strings"
)

// Tree is a generic, printable view of a syntax tree.
type Tree struct {
	Kind     string  `yaml:"kind" json:"kind"`
	Text     string  `yaml:"text,omitempty" json:"text,omitempty"`
	Line     int     `yaml:"line,omitempty" json:"line,omitempty"`
	Children []*Tree `yaml:"children,omitempty" json:"children,omitempty"`
}

// TreeNode lets custom nodes describe themselves to Dump.
type TreeNode interface {
	Tree() *Tree
}

// String renders the tree as an S-expression: (kind text child...).
func (t *Tree) String() string {
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t *Tree) write(b *strings.Builder) {
	if t == nil {
		b.WriteString("nil")
		return
	}
	b.WriteByte('(')
	b.WriteString(t.Kind)
	if t.Text != "" {
		b.WriteByte(' ')
		b.WriteString(t.Text)
	}
	for _, c := range t.Children {
		b.WriteByte(' ')
		c.write(b)
	}
	b.WriteByte(')')
}

// Dump converts a program into a Tree rooted at a "program" node.
func Dump(stmts []Stmt) *Tree {
	root := &Tree{Kind: "program"}
	for _, s := range stmts {
		root.Children = append(root.Children, DumpStmt(s))
	}
	return root
}

// DumpStmt converts one statement.
func DumpStmt(s Stmt) *Tree {
	if s == nil {
		return nil
	}
	d := dumper{}
	_ = s.Accept(&d)
	return d.out
}

// DumpExpr converts one expression.
func DumpExpr(e Expr) *Tree {
	if e == nil {
		return nil
	}
	t, _ := e.Accept(&dumper{})
	if tree, ok := t.(*Tree); ok {
		return tree
	}
	return nil
}

type dumper struct {
	out *Tree
}

func node(kind, text string, line int, children ...*Tree) *Tree {
	t := &Tree{Kind: kind, Text: text, Line: line}
	for _, c := range children {
		if c != nil {
			t.Children = append(t.Children, c)
		}
	}
	return t
}

func exprs(list []Expr) []*Tree {
	out := make([]*Tree, 0, len(list))
	for _, e := range list {
		out = append(out, DumpExpr(e))
	}
	return out
}

func stmts(list []Stmt) []*Tree {
	out := make([]*Tree, 0, len(list))
	for _, s := range list {
		out = append(out, DumpStmt(s))
	}
	return out
}

func params(list []Parameter) *Tree {
	return node("params", strings.Join(ParamNames(list), " "), 0)
}

func (d *dumper) VisitLiteralExpr(e *LiteralExpr) (any, error) {
	text := "null"
	switch v := e.Value.(type) {
	case string:
		text = fmt.Sprintf("%q", v)
	case nil:
	default:
		text = fmt.Sprint(v)
	}
	return node("literal", text, e.Token.Line), nil
}

func (d *dumper) VisitVariableExpr(e *VariableExpr) (any, error) {
	return node("var", e.Name.Text, e.Name.Line), nil
}

func (d *dumper) VisitAssignExpr(e *AssignExpr) (any, error) {
	return node("assign", e.Op.Text, e.Name.Line, node("var", e.Name.Text, e.Name.Line), DumpExpr(e.Value)), nil
}

func (d *dumper) VisitBinaryExpr(e *BinaryExpr) (any, error) {
	return node("binary", e.Operator.Text, e.Operator.Line, DumpExpr(e.Left), DumpExpr(e.Right)), nil
}

func (d *dumper) VisitBitwiseExpr(e *BitwiseExpr) (any, error) {
	return node("bitwise", e.Operator.Text, e.Operator.Line, DumpExpr(e.Left), DumpExpr(e.Right)), nil
}

func (d *dumper) VisitLogicalExpr(e *LogicalExpr) (any, error) {
	return node("logical", e.Operator.Text, e.Operator.Line, DumpExpr(e.Left), DumpExpr(e.Right)), nil
}

func (d *dumper) VisitUnaryExpr(e *UnaryExpr) (any, error) {
	return node("unary", e.Operator.Text, e.Operator.Line, DumpExpr(e.Right)), nil
}

func (d *dumper) VisitIncrementExpr(e *IncrementExpr) (any, error) {
	kind := "postfix"
	if e.Prefix {
		kind = "prefix"
	}
	return node(kind, e.Operator.Text, e.Operator.Line, DumpExpr(e.Target)), nil
}

func (d *dumper) VisitGroupingExpr(e *GroupingExpr) (any, error) {
	return node("group", "", e.Paren.Line, DumpExpr(e.Expression)), nil
}

func (d *dumper) VisitCallExpr(e *CallExpr) (any, error) {
	return node("call", "", e.Paren.Line, append([]*Tree{DumpExpr(e.Callee)}, exprs(e.Arguments)...)...), nil
}

func (d *dumper) VisitGetExpr(e *GetExpr) (any, error) {
	return node("get", e.Name.Text, e.Name.Line, DumpExpr(e.Object)), nil
}

func (d *dumper) VisitSetExpr(e *SetExpr) (any, error) {
	return node("set", e.Name.Text+" "+e.Op.Text, e.Name.Line, DumpExpr(e.Object), DumpExpr(e.Value)), nil
}

func (d *dumper) VisitIndexExpr(e *IndexExpr) (any, error) {
	return node("index", "", e.Bracket.Line, DumpExpr(e.Object), DumpExpr(e.Index)), nil
}

func (d *dumper) VisitIndexSetExpr(e *IndexSetExpr) (any, error) {
	return node("index-set", e.Op.Text, e.Bracket.Line, DumpExpr(e.Object), DumpExpr(e.Index), DumpExpr(e.Value)), nil
}

func (d *dumper) VisitArrayExpr(e *ArrayExpr) (any, error) {
	return node("array", "", e.Bracket.Line, exprs(e.Elements)...), nil
}

func (d *dumper) VisitThisExpr(e *ThisExpr) (any, error) {
	return node("this", "", e.Keyword.Line), nil
}

func (d *dumper) VisitSuperExpr(e *SuperExpr) (any, error) {
	return node("super", e.Method.Text, e.Keyword.Line), nil
}

func (d *dumper) VisitTernaryExpr(e *TernaryExpr) (any, error) {
	return node("ternary", "", e.Question.Line, DumpExpr(e.Condition), DumpExpr(e.Then), DumpExpr(e.Else)), nil
}

func (d *dumper) VisitFunctionExpr(e *FunctionExpr) (any, error) {
	return node("lambda", "", e.Keyword.Line, append([]*Tree{params(e.Params)}, stmts(e.Body)...)...), nil
}

func (d *dumper) VisitPrefixCallExpr(e *PrefixCallExpr) (any, error) {
	return node("prefix-call", e.Operator.Text, e.Operator.Line, DumpExpr(e.Operand)), nil
}

func (d *dumper) VisitInfixCallExpr(e *InfixCallExpr) (any, error) {
	return node("infix-call", e.Operator.Text, e.Operator.Line, DumpExpr(e.Left), DumpExpr(e.Right)), nil
}

func (d *dumper) VisitCustomExpr(e CustomExpr) (any, error) {
	if tn, ok := e.(TreeNode); ok {
		return tn.Tree(), nil
	}
	return node("custom:"+e.Module().Name(), e.Pos().Text, e.Pos().Line), nil
}

func (d *dumper) VisitExpressionStmt(s *ExpressionStmt) error {
	d.out = node("expr", "", 0, DumpExpr(s.Expression))
	return nil
}

func (d *dumper) VisitVarStmt(s *VarStmt) error {
	kind := "var"
	if s.Final {
		kind = "final"
	}
	d.out = node(kind, s.Name.Text, s.Name.Line, DumpExpr(s.Initializer))
	return nil
}

func (d *dumper) VisitBlockStmt(s *BlockStmt) error {
	d.out = node("block", "", s.Brace.Line, stmts(s.Statements)...)
	return nil
}

func (d *dumper) VisitIfStmt(s *IfStmt) error {
	d.out = node("if", "", s.Keyword.Line, DumpExpr(s.Condition), DumpStmt(s.Then), DumpStmt(s.Else))
	return nil
}

func (d *dumper) VisitWhileStmt(s *WhileStmt) error {
	d.out = node("while", "", s.Keyword.Line, DumpExpr(s.Condition), DumpStmt(s.Body))
	return nil
}

func (d *dumper) VisitDoWhileStmt(s *DoWhileStmt) error {
	d.out = node("do-while", "", s.Keyword.Line, DumpStmt(s.Body), DumpExpr(s.Condition))
	return nil
}

func (d *dumper) VisitForStmt(s *ForStmt) error {
	d.out = node("for", "", s.Keyword.Line, DumpStmt(s.Initializer), DumpExpr(s.Condition), DumpExpr(s.Increment), DumpStmt(s.Body))
	return nil
}

func (d *dumper) VisitForEachStmt(s *ForEachStmt) error {
	d.out = node("for-in", s.Variable.Text, s.Keyword.Line, DumpExpr(s.Collection), DumpStmt(s.Body))
	return nil
}

func (d *dumper) VisitRepeatStmt(s *RepeatStmt) error {
	d.out = node("repeat", "", s.Keyword.Line, DumpExpr(s.Count), DumpStmt(s.Body))
	return nil
}

func (d *dumper) VisitBreakStmt(s *BreakStmt) error {
	d.out = node("break", "", s.Keyword.Line)
	return nil
}

func (d *dumper) VisitContinueStmt(s *ContinueStmt) error {
	d.out = node("continue", "", s.Keyword.Line)
	return nil
}

func (d *dumper) VisitReturnStmt(s *ReturnStmt) error {
	d.out = node("return", "", s.Keyword.Line, DumpExpr(s.Value))
	return nil
}

func (d *dumper) VisitFunctionStmt(s *FunctionStmt) error {
	d.out = node(s.Kind.String(), s.Name.Text, s.Name.Line, append([]*Tree{params(s.Params)}, stmts(s.Body)...)...)
	return nil
}

func (d *dumper) VisitConstructorStmt(s *ConstructorStmt) error {
	d.out = node("constructor", "", s.Keyword.Line, append([]*Tree{params(s.Params)}, stmts(s.Body)...)...)
	return nil
}

func (d *dumper) VisitNativeFunctionStmt(s *NativeFunctionStmt) error {
	d.out = node("native", s.Module.Text+"."+s.Name.Text, s.Name.Line, params(s.Params))
	return nil
}

func (d *dumper) VisitClassStmt(s *ClassStmt) error {
	text := s.Name.Text
	if s.Final {
		text = "final " + text
	}
	t := node("class", text, s.Name.Line)
	if s.Superclass != nil {
		t.Children = append(t.Children, node("extends", s.Superclass.Name.Text, s.Superclass.Name.Line))
	}
	for _, f := range s.Fields {
		t.Children = append(t.Children, DumpStmt(f))
	}
	if s.Constructor != nil {
		t.Children = append(t.Children, DumpStmt(s.Constructor))
	}
	for _, m := range s.Methods {
		t.Children = append(t.Children, DumpStmt(m))
	}
	d.out = t
	return nil
}

func (d *dumper) VisitUsingStmt(s *UsingStmt) error {
	d.out = node("using", s.Module.Text, s.Module.Line)
	return nil
}

func (d *dumper) VisitCustomStmt(s CustomStmt) error {
	if tn, ok := s.(TreeNode); ok {
		d.out = tn.Tree()
		return nil
	}
	d.out = node("custom:"+s.Module().Name(), s.Pos().Text, s.Pos().Line)
	return nil
}
