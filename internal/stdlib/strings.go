package stdlib

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"hsl/internal/diag"
	"hsl/internal/interp"
	"hsl/internal/native"
	"hsl/internal/token"
)

// Strings is the "strings" native module. Indices and lengths count
// characters, not bytes; width counts terminal cells.
type Strings struct {
	*table
	title cases.Caser
}

func NewStrings() *Strings {
	s := &Strings{table: newTable("strings"), title: cases.Title(language.Und)}
	s.add(native.Fn("", "upper", "s"), s.unary("upper", strings.ToUpper))
	s.add(native.Fn("", "lower", "s"), s.unary("lower", strings.ToLower))
	s.add(native.Fn("", "title", "s"), s.unary("title", func(v string) string { return s.title.String(v) }))
	s.add(native.Fn("", "trim", "s"), s.unary("trim", strings.TrimSpace))
	s.add(native.Fn("", "split", "s", "sep"), s.split)
	s.add(native.Fn("", "join", "parts", "sep"), s.join)
	s.add(native.Fn("", "contains", "s", "sub"), s.contains)
	s.add(native.Fn("", "replace", "s", "old", "new"), s.replace)
	s.add(native.Fn("", "index", "s", "sub").Describe("character index of sub, -1 when absent"), s.index)
	s.add(native.Fn("", "normalize", "s", "form").Describe("unicode normalization: NFC, NFD, NFKC or NFKD"), s.normalize)
	s.add(native.Fn("", "width", "s").Describe("display width in terminal cells"), s.width)
	s.add(native.Fn("", "pad", "s", "width"), s.pad)
	s.add(native.Fn("", "truncate", "s", "width"), s.truncate)
	return s
}

func (s *Strings) Name() string { return "strings" }

func (s *Strings) unary(name string, f func(string) string) impl {
	return func(in *interp.Interpreter, at token.Token, vals []interp.Value) (interp.Value, error) {
		v, err := argsOf(in, at, name, vals).str(0)
		if err != nil {
			return nil, err
		}
		return f(v), nil
	}
}

// two reads two string arguments.
func two(in *interp.Interpreter, at token.Token, name string, vals []interp.Value) (string, string, error) {
	a := argsOf(in, at, name, vals)
	x, err := a.str(0)
	if err != nil {
		return "", "", err
	}
	y, err := a.str(1)
	if err != nil {
		return "", "", err
	}
	return x, y, nil
}

func (s *Strings) split(in *interp.Interpreter, at token.Token, vals []interp.Value) (interp.Value, error) {
	str, sep, err := two(in, at, "split", vals)
	if err != nil {
		return nil, err
	}
	return strings.Split(str, sep), nil
}

func (s *Strings) join(in *interp.Interpreter, at token.Token, vals []interp.Value) (interp.Value, error) {
	a := argsOf(in, at, "join", vals)
	arr, err := a.array(0)
	if err != nil {
		return nil, err
	}
	sep, err := a.str(1)
	if err != nil {
		return nil, err
	}
	parts := make([]string, len(arr.Elements))
	for i, el := range arr.Elements {
		parts[i] = interp.Stringify(el)
	}
	return strings.Join(parts, sep), nil
}

func (s *Strings) contains(in *interp.Interpreter, at token.Token, vals []interp.Value) (interp.Value, error) {
	str, sub, err := two(in, at, "contains", vals)
	if err != nil {
		return nil, err
	}
	return strings.Contains(str, sub), nil
}

func (s *Strings) replace(in *interp.Interpreter, at token.Token, vals []interp.Value) (interp.Value, error) {
	str, old, err := two(in, at, "replace", vals)
	if err != nil {
		return nil, err
	}
	repl, err := argsOf(in, at, "replace", vals).str(2)
	if err != nil {
		return nil, err
	}
	return strings.ReplaceAll(str, old, repl), nil
}

func (s *Strings) index(in *interp.Interpreter, at token.Token, vals []interp.Value) (interp.Value, error) {
	str, sub, err := two(in, at, "index", vals)
	if err != nil {
		return nil, err
	}
	i := strings.Index(str, sub)
	if i < 0 {
		return int64(-1), nil
	}
	return int64(utf8.RuneCountInString(str[:i])), nil
}

func (s *Strings) normalize(in *interp.Interpreter, at token.Token, vals []interp.Value) (interp.Value, error) {
	str, form, err := two(in, at, "normalize", vals)
	if err != nil {
		return nil, err
	}
	var f norm.Form
	switch strings.ToUpper(form) {
	case "NFC":
		f = norm.NFC
	case "NFD":
		f = norm.NFD
	case "NFKC":
		f = norm.NFKC
	case "NFKD":
		f = norm.NFKD
	default:
		return nil, in.Errorf(at, diag.RunInvalidOperand, "Unknown normalization form '%s'.", form)
	}
	return f.String(str), nil
}

func (s *Strings) width(in *interp.Interpreter, at token.Token, vals []interp.Value) (interp.Value, error) {
	str, err := argsOf(in, at, "width", vals).str(0)
	if err != nil {
		return nil, err
	}
	return runewidth.StringWidth(str), nil
}

// cells reads a string and a non-negative width.
func cells(in *interp.Interpreter, at token.Token, name string, vals []interp.Value) (string, int, error) {
	a := argsOf(in, at, name, vals)
	str, err := a.str(0)
	if err != nil {
		return "", 0, err
	}
	w, err := a.int(1)
	if err != nil {
		return "", 0, err
	}
	if w < 0 || w > 1<<16 {
		return "", 0, in.Errorf(at, diag.RunInvalidOperand, "%s() width %d out of range.", name, w)
	}
	return str, int(w), nil
}

func (s *Strings) pad(in *interp.Interpreter, at token.Token, vals []interp.Value) (interp.Value, error) {
	str, w, err := cells(in, at, "pad", vals)
	if err != nil {
		return nil, err
	}
	return runewidth.FillRight(str, w), nil
}

func (s *Strings) truncate(in *interp.Interpreter, at token.Token, vals []interp.Value) (interp.Value, error) {
	str, w, err := cells(in, at, "truncate", vals)
	if err != nil {
		return nil, err
	}
	return runewidth.Truncate(str, w, "…"), nil
}
