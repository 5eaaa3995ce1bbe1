package lexer

import (
	"testing"

	"hsl/internal/source"
)

func createFile(content string) *source.File {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.hsl", []byte(content))
	return fs.Get(id)
}

func TestSequentialReading(t *testing.T) {
	cursor := NewCursor(createFile("a\nb"))
	for _, want := range []byte{'a', '\n', 'b'} {
		if cursor.EOF() {
			t.Fatalf("unexpected EOF before %q", want)
		}
		if got := cursor.Bump(); got != want {
			t.Fatalf("Bump() = %q, want %q", got, want)
		}
	}
	if !cursor.EOF() || cursor.Peek() != 0 || cursor.Bump() != 0 {
		t.Fatal("expected EOF state after the last byte")
	}
}

func TestMarkResetAndMatch(t *testing.T) {
	cursor := NewCursor(createFile(">>>= x"))
	m := cursor.Mark()
	if !cursor.Match(">>>=") {
		t.Fatal("expected >>>= to match")
	}
	if sp := cursor.SpanFrom(m); sp.Start != 0 || sp.End != 4 {
		t.Fatalf("unexpected span %v", sp)
	}
	cursor.Reset(m)
	if cursor.Match(">>>>") || cursor.Off != 0 {
		t.Fatal("failed match must not move the cursor")
	}
	if cursor.PeekAt(5) != 'x' || cursor.PeekAt(6) != 0 {
		t.Fatal("PeekAt out of expected range")
	}
	b0, b1, ok := cursor.Peek2()
	if !ok || b0 != '>' || b1 != '>' {
		t.Fatal("Peek2 mismatch")
	}
	if !cursor.Eat('>') || cursor.Eat('x') {
		t.Fatal("Eat mismatch")
	}
}
