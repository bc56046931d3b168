// Package token defines lexical token kinds and trivia for JSON and JSONC.
// Invariants:
//   - Token.Text is the exact source slice covered by Token.Span.
//   - Whitespace and comments never appear in the main token stream; they
//     travel as Leading trivia of the next significant token, and whatever
//     trivia precedes end of input is attached to the EOF token.
//   - Bare words other than true, false and null are lexed as Ident so the
//     parser can report them instead of the lexer.
package token
