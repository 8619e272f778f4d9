package lexer_test

import (
	"testing"

	"github.com/cobra-lang/cobrac/internal/lexer"
	"github.com/cobra-lang/cobrac/internal/token"
)

func types(toks []token.Token) []token.Type {
	out := make([]token.Type, len(toks))
	for i, t := range toks {
		out[i] = t.Type
	}
	return out
}

func TestTokenizeOperators(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  []token.Type
	}{
		{"assign", "x = 1", []token.Type{token.IDENT, token.ASSIGN, token.INT, token.EOF}},
		{"eq", "a == b", []token.Type{token.IDENT, token.EQ, token.IDENT, token.EOF}},
		{"neq", "a != b", []token.Type{token.IDENT, token.NEQ, token.IDENT, token.EOF}},
		{"arrow_thin", "->", []token.Type{token.ARROW, token.EOF}},
		{"arrow_fat", "=>", []token.Type{token.ARROW, token.EOF}},
		{"destructure_bind", ":-", []token.Type{token.ASSIGN, token.EOF}},
		{"coloncolon", "a::b", []token.Type{token.IDENT, token.COLONCOLON, token.IDENT, token.EOF}},
		{"and_or", "a && b || c", []token.Type{token.IDENT, token.AMP_AMP, token.IDENT, token.PIPE_PIPE, token.IDENT, token.EOF}},
		{"comparisons", "a <= b >= c", []token.Type{token.IDENT, token.LTE, token.IDENT, token.GTE, token.IDENT, token.EOF}},
		{"generic_ident", "$T", []token.Type{token.GENERIC_IDENT, token.EOF}},
		{"line_comment", "1 // trailing\n2", []token.Type{token.INT, token.INT, token.EOF}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := types(lexer.Tokenize("t.cobra", tc.input))
			if len(got) != len(tc.want) {
				t.Fatalf("token count mismatch: got %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("token %d: got %v, want %v", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestTokenizeArrowLexemesDiffer(t *testing.T) {
	thin := lexer.Tokenize("t.cobra", "->")[0]
	fat := lexer.Tokenize("t.cobra", "=>")[0]
	if thin.Type != fat.Type {
		t.Fatalf("expected -> and => to share a token type, got %v and %v", thin.Type, fat.Type)
	}
	if thin.Lexeme == fat.Lexeme {
		t.Fatalf("expected -> and => to carry distinct lexemes, got %q for both", thin.Lexeme)
	}
}

func TestTokenizeStringEscapes(t *testing.T) {
	toks := lexer.Tokenize("t.cobra", `"a\nb"`)
	if toks[0].Type != token.STRING {
		t.Fatalf("expected STRING, got %v", toks[0].Type)
	}
	if toks[0].Lexeme != "a\nb" {
		t.Fatalf("expected unescaped newline, got %q", toks[0].Lexeme)
	}
}

func TestTokenizeKeywords(t *testing.T) {
	src := "let in if then else match with fn struct sum enum interface external new delete cast while for nil true false mut"
	toks := lexer.Tokenize("t.cobra", src)
	want := []token.Type{
		token.LET, token.IN, token.IF, token.THEN, token.ELSE, token.MATCH, token.WITH,
		token.FN, token.STRUCT, token.SUM, token.ENUM, token.INTERFACE, token.EXTERNAL,
		token.NEW, token.DELETE, token.CAST, token.WHILE, token.FOR, token.NIL, token.TRUE,
		token.FALSE, token.MUT, token.EOF,
	}
	got := types(toks)
	if len(got) != len(want) {
		t.Fatalf("token count mismatch: got %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTokenizeUnderscoreIsNotIdent(t *testing.T) {
	toks := lexer.Tokenize("t.cobra", "_")
	if toks[0].Type != token.UNDERSCORE {
		t.Fatalf("expected UNDERSCORE, got %v", toks[0].Type)
	}
}
