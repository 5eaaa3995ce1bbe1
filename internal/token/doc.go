// Package token defines lexical token kinds and trivia for HSL scripts.
// Invariants:
//   - Token.Text is the exact source text of the token.
//   - Token.Span matches Text exactly (Start..End).
//   - Comments never appear in the token stream; they are kept as leading
//     Trivia of the next significant token.
//   - Literal holds the decoded value of IntLit (int64), FloatLit (float64),
//     StringLit (string) and the true/false keywords (bool).
package token
