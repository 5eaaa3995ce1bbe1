package parser

import (
	"slices"

	"hsl/internal/ast"
	"hsl/internal/diag"
	"hsl/internal/source"
	"hsl/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter

	// Statements is the ordered strategy list; nil means DefaultStatementParsers().
	Statements []StatementParser
	// Prefixes are consulted before the built-in primary expressions.
	Prefixes []PrefixParser
	// Functions carries prefix/infix names across inputs (REPL); nil starts empty.
	Functions *FunctionParserContext
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

// Parser - состояние парсера на один набор токенов
type Parser struct {
	tokens    []token.Token
	pos       int
	opts      Options
	stmts     []StatementParser
	prefixes  []PrefixParser
	functions *FunctionParserContext
	validator *StepValidator
	lastSpan  source.Span // span последнего съеденного токена для лучшей диагностики
	classes   int         // глубина вложенности тел классов
}

// New creates a parser over tokens. The slice must end with an EOF token.
func New(tokens []token.Token, opts Options) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != token.EOF {
		var sp source.Span
		if len(tokens) > 0 {
			sp = tokens[len(tokens)-1].Span.ZeroideToEnd()
		}
		tokens = append(slices.Clip(tokens), token.Token{Kind: token.EOF, Span: sp})
	}
	p := &Parser{
		tokens:    tokens,
		opts:      opts,
		stmts:     opts.Statements,
		prefixes:  opts.Prefixes,
		functions: opts.Functions,
	}
	if p.stmts == nil {
		p.stmts = DefaultStatementParsers()
	}
	if p.functions == nil {
		p.functions = NewFunctionParserContext()
	}
	p.validator = &StepValidator{p: p}
	return p
}

// Parse reads every top-level statement. ok is false when any syntax error was reported.
func (p *Parser) Parse() (stmts []ast.Stmt, ok bool) {
	start := p.opts.CurrentErrors
	for !p.AtEnd() && !p.opts.Enough() {
		stmt, good := p.Declaration()
		if !good {
			p.synchronize()
			// закрывающие скобки сломанной конструкции
			for p.Check(token.RBrace) {
				p.Advance()
			}
			continue
		}
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return stmts, p.opts.CurrentErrors == start
}

// Errors reports how many syntax errors were recorded so far.
func (p *Parser) Errors() uint { return p.opts.CurrentErrors }

// Functions exposes the prefix/infix registry.
func (p *Parser) Functions() *FunctionParserContext { return p.functions }

// Validator returns the shared step validator.
func (p *Parser) Validator() *StepValidator { return p.validator }

// InClass reports whether the parser is inside a class body.
func (p *Parser) InClass() bool { return p.classes > 0 }

// Peek returns the current token without consuming it.
func (p *Parser) Peek() token.Token {
	return p.tokens[p.pos]
}

// PeekAt looks n tokens ahead; past the end it returns EOF.
func (p *Parser) PeekAt(n int) token.Token {
	if p.pos+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+n]
}

// Previous returns the last consumed token.
func (p *Parser) Previous() token.Token {
	if p.pos == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.pos-1]
}

func (p *Parser) AtEnd() bool {
	return p.Peek().Kind == token.EOF
}

// Check reports whether the current token has kind k.
func (p *Parser) Check(k token.Kind) bool {
	return p.Peek().Kind == k
}

// CheckAny reports whether the current token is one of kinds.
func (p *Parser) CheckAny(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.Peek().Kind)
}

// CheckIdent reports whether the current token is the identifier text.
// Extensions use it for contextual keywords.
func (p *Parser) CheckIdent(text string) bool {
	tok := p.Peek()
	return tok.Kind == token.Ident && tok.Text == text
}

// Match consumes the current token when it is one of kinds.
func (p *Parser) Match(kinds ...token.Kind) bool {
	if p.CheckAny(kinds...) {
		p.Advance()
		return true
	}
	return false
}

// Advance - съедает текущий токен и обновляет lastSpan
func (p *Parser) Advance() token.Token {
	tok := p.tokens[p.pos]
	if tok.Kind != token.EOF {
		p.pos++
		if tok.Kind != token.Invalid {
			p.lastSpan = tok.Span
		}
	}
	return tok
}
