package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"hsl/internal/diag"
	"hsl/internal/source"
)

func TestPrettyLayout(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("main.hsl", []byte("var a = 1;\nvar x = @;\n"))

	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.LexUnknownChar, source.Span{File: id, Start: 19, End: 20}, "Unexpected character '@'."))

	tests := []struct {
		name string
		opts PrettyOpts
		want string
	}{
		{
			name: "no context",
			opts: PrettyOpts{},
			want: "main.hsl:2:9: ERROR LEX1001: Unexpected character '@'.\n" +
				"2 | var x = @;\n" +
				"  |         ^\n",
		},
		{
			name: "context and phase",
			opts: PrettyOpts{Context: 1, ShowPhase: true},
			want: "main.hsl:2:9: ERROR LEX1001: Unexpected character '@'.\n" +
				"While scanning at line 2, column 9.\n" +
				"1 | var a = 1;\n" +
				"2 | var x = @;\n" +
				"  |         ^\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, tt.opts)
			if got := buf.String(); got != tt.want {
				t.Errorf("output mismatch\n got:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestPrettyUnderline(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("u.hsl", []byte("\tprint(\"héllo\" / 2);\n"))

	bag := diag.NewBag(10)
	// "héllo" в кавычках занимает байты 7..15, é двухбайтовая
	bag.Add(diag.NewError(diag.RunTypeMismatch, source.Span{File: id, Start: 7, End: 15}, "Operands must be numbers."))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{ShowPhase: true})
	lines := strings.Split(buf.String(), "\n")
	if len(lines) < 4 {
		t.Fatalf("too few lines:\n%s", buf.String())
	}
	if lines[1] != "While interpreting at line 1, column 8." {
		t.Errorf("trailer = %q", lines[1])
	}
	if want := "1 |     print(\"héllo\" / 2);"; lines[2] != want {
		t.Errorf("source line = %q, want %q", lines[2], want)
	}
	if want := "  |" + strings.Repeat(" ", 11) + "^~~~~~~"; lines[3] != want {
		t.Errorf("caret line = %q, want %q", lines[3], want)
	}
}

func TestPrettyNotes(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("n.hsl", []byte("function f() { return 1 / 0; }\nf();\n"))

	d := diag.NewError(diag.RunDivisionByZero, source.Span{File: id, Start: 22, End: 27}, "Division by zero.").
		WithNote(source.Span{File: id, Start: 31, End: 34}, "f called here")
	bag := diag.NewBag(10)
	bag.Add(d)

	var withNotes, without bytes.Buffer
	Pretty(&withNotes, bag, fs, PrettyOpts{ShowNotes: true})
	Pretty(&without, bag, fs, PrettyOpts{})

	if !strings.Contains(withNotes.String(), "  note: n.hsl:2:1: f called here\n") {
		t.Errorf("missing note:\n%s", withNotes.String())
	}
	if strings.Contains(without.String(), "note:") {
		t.Errorf("notes printed while disabled:\n%s", without.String())
	}
}

func TestPrettyColor(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("c.hsl", []byte("x;\n"))
	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevWarning, diag.ResShadowed, source.Span{File: id, Start: 0, End: 1}, "Shadowed."))

	var plain, colored bytes.Buffer
	Pretty(&plain, bag, fs, PrettyOpts{})
	Pretty(&colored, bag, fs, PrettyOpts{Color: true})

	if strings.Contains(plain.String(), "\x1b[") {
		t.Errorf("plain output has escape codes: %q", plain.String())
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Errorf("colored output has no escape codes: %q", colored.String())
	}
}

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("/home/user/project/src/test.hsl", []byte("var x = \"unterminated string\n"))
	fs.SetBaseDir("/home/user/project")

	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevError, diag.LexUnterminatedString,
		source.Span{File: fileID, Start: 8, End: 28}, "Unterminated string."))

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"absolute", PathModeAbsolute, "/home/user/project/src/test.hsl:1:9:"},
		{"relative", PathModeRelative, "/home/user/project/src/test.hsl:1:9:"},
		{"basename", PathModeBasename, "test.hsl:1:9:"},
		{"auto", PathModeAuto, "/home/user/project/src/test.hsl:1:9:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode})
			output := buf.String()
			if !strings.HasPrefix(output, tt.contains) {
				t.Errorf("expected output to start with %q, got:\n%s", tt.contains, output)
			}
			if !strings.Contains(output, "ERROR LEX1002: Unterminated string.") {
				t.Errorf("missing header:\n%s", output)
			}
		})
	}
}

func TestPrettyWithoutFile(t *testing.T) {
	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.UnknownCode, source.Span{File: 3}, "open missing.hsl: no such file or directory"))

	var buf bytes.Buffer
	Pretty(&buf, bag, source.NewFileSet(), PrettyOpts{})
	if want := "ERROR E0000: open missing.hsl: no such file or directory\n"; buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}
