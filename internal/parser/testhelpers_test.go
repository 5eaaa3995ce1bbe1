package parser_test

import (
	"testing"

	"hsl/internal/ast"
	"hsl/internal/diag"
	"hsl/internal/lexer"
	"hsl/internal/parser"
	"hsl/internal/source"
)

// parseSource прогоняет lexer+parser над строкой и возвращает AST и собранные диагностики.
func parseSource(t *testing.T, input string, opts parser.Options) ([]ast.Stmt, bool, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.hsl", []byte(input))
	bag := diag.NewBag(100)
	rep := diag.BagReporter{Bag: bag}
	toks := lexer.New(fs.Get(id), lexer.Options{Reporter: rep}).All()
	if opts.Reporter == nil {
		opts.Reporter = rep
	}
	stmts, ok := parser.New(toks, opts).Parse()
	return stmts, ok, bag
}

// mustParse fails the test on any diagnostic and returns the S-expression form.
func mustParse(t *testing.T, input string) string {
	t.Helper()
	stmts, ok, bag := parseSource(t, input, parser.Options{})
	if !ok || bag.HasErrors() {
		t.Fatalf("%q: unexpected diagnostics: %+v", input, bag.Items())
	}
	return ast.Dump(stmts).String()
}

func expectTree(t *testing.T, input, want string) {
	t.Helper()
	if got := mustParse(t, input); got != want {
		t.Errorf("%q\n got: %s\nwant: %s", input, got, want)
	}
}

// expectErrors checks the produced diagnostic codes in order.
func expectErrors(t *testing.T, input string, want ...diag.Code) *diag.Bag {
	t.Helper()
	_, ok, bag := parseSource(t, input, parser.Options{})
	if ok && len(want) > 0 {
		t.Errorf("%q: Parse reported success", input)
	}
	items := bag.Items()
	if len(items) != len(want) {
		t.Fatalf("%q: got %d diagnostics %+v, want %v", input, len(items), items, want)
	}
	for i, code := range want {
		if items[i].Code != code {
			t.Errorf("%q: diagnostic %d is %s (%q), want %s", input, i, items[i].Code, items[i].Message, code)
		}
	}
	return bag
}
