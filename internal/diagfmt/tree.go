package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"

	"hsl/internal/ast"
)

// TreeFormat selects how FormatTree renders a syntax tree.
type TreeFormat string

const (
	TreeText  TreeFormat = "text"
	TreeSExpr TreeFormat = "sexpr"
	TreeJSON  TreeFormat = "json"
	TreeYAML  TreeFormat = "yaml"
)

// ParseTreeFormat принимает имя формата из командной строки.
func ParseTreeFormat(s string) (TreeFormat, error) {
	switch f := TreeFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "", TreeText:
		return TreeText, nil
	case TreeSExpr, TreeJSON, TreeYAML:
		return f, nil
	}
	return "", fmt.Errorf("unknown tree format %q (want text, sexpr, json or yaml)", s)
}

// FormatTree writes the tree of a parsed program.
func FormatTree(w io.Writer, stmts []ast.Stmt, format TreeFormat) error {
	tree := ast.Dump(stmts)
	switch format {
	case TreeSExpr:
		_, err := fmt.Fprintln(w, tree.String())
		return err
	case TreeJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(tree)
	case TreeYAML:
		out, err := yaml.MarshalWithOptions(tree, yaml.Indent(2), yaml.IndentSequence(true))
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	default:
		return writeTreeText(w, tree, 0)
	}
}

// writeTreeText prints one node per line, children indented by two spaces.
func writeTreeText(w io.Writer, t *ast.Tree, depth int) error {
	if t == nil {
		return nil
	}
	line := strings.Repeat("  ", depth) + t.Kind
	if t.Text != "" {
		line += " " + t.Text
	}
	if t.Line > 0 {
		line += fmt.Sprintf(" @%d", t.Line)
	}
	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}
	for _, c := range t.Children {
		if err := writeTreeText(w, c, depth+1); err != nil {
			return err
		}
	}
	return nil
}
