package lexer

import "testing"

func tokenTypes(t *testing.T, input string) []TokenType {
	t.Helper()
	l := New(string(Normalize([]byte(input))), "test.sf")
	toks, err := l.Tokenize()
	if err != nil {
		t.Fatalf("unexpected lex error: %v", err)
	}
	types := make([]TokenType, len(toks))
	for i, tok := range toks {
		types[i] = tok.Type
	}
	return types
}

func TestBasicTokens(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []TokenType
	}{
		{"ident and arrow", "x -> y", []TokenType{IDENT, ARROW, IDENT, EOF}},
		{"unicode arrow", "x → y", []TokenType{IDENT, ARROW, IDENT, EOF}},
		{"lambda ascii", `\x. x`, []TokenType{LAMBDA, IDENT, DOT, IDENT, EOF}},
		{"lambda unicode", "λx. x", []TokenType{LAMBDA, IDENT, DOT, IDENT, EOF}},
		{"biglam ascii", `/\a. x`, []TokenType{BIGLAM, IDENT, DOT, IDENT, EOF}},
		{"biglam unicode", "Λa. x", []TokenType{BIGLAM, IDENT, DOT, IDENT, EOF}},
		{"forall keyword", "forall a. a", []TokenType{FORALL, IDENT, DOT, IDENT, EOF}},
		{"forall unicode", "∀a. a", []TokenType{FORALL, IDENT, DOT, IDENT, EOF}},
		{"constructor", "Just x", []TokenType{CONID, IDENT, EOF}},
		{"data decl", "data Bool = True | False", []TokenType{DATA, CONID, ASSIGN, CONID, PIPE, CONID, EOF}},
		{"int literal", "42", []TokenType{INT, EOF}},
		{"string literal", `"hi\n"`, []TokenType{STRING, EOF}},
		{"operators", "1 + 2 * 3", []TokenType{INT, PLUS, INT, STAR, INT, EOF}},
		{"type app bracket", "f [Int]", []TokenType{IDENT, LBRACKET, CONID, RBRACKET, EOF}},
		{"type app at", "f @Int", []TokenType{IDENT, AT, CONID, EOF}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tokenTypes(t, tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("token count = %d, want %d (%v vs %v)", len(got), len(tt.want), got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("token %d = %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestStringEscapes(t *testing.T) {
	l := New(`"a\nb\tc\\d\"e"`, "test.sf")
	tok, err := l.NextToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "a\nb\tc\\d\"e"
	if tok.Literal != want {
		t.Errorf("got %q, want %q", tok.Literal, want)
	}
}

func TestUnterminatedString(t *testing.T) {
	l := New(`"unterminated`, "test.sf")
	_, err := l.NextToken()
	if err == nil {
		t.Fatal("expected an unterminated-string error")
	}
	lexErr, ok := err.(*Error)
	if !ok || lexErr.Code != "LEX002" {
		t.Errorf("got %v, want LEX002", err)
	}
}

func TestIllegalCharacter(t *testing.T) {
	l := New("x ` y", "test.sf")
	l.NextToken() // x
	_, err := l.NextToken()
	if err == nil {
		t.Fatal("expected an illegal-character error")
	}
}

func TestDocstringCapture(t *testing.T) {
	input := "-- | adds two numbers\n-- ^ the first argument\nx"
	l := New(input, "test.sf")
	doc, err := l.NextToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Type != DOCSTRING || doc.Literal != "adds two numbers" {
		t.Errorf("got %v", doc)
	}
	param, err := l.NextToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if param.Type != PARAM_DOC || param.Literal != "the first argument" {
		t.Errorf("got %v", param)
	}
}

func TestPlainCommentDiscarded(t *testing.T) {
	input := "-- just a comment\nx"
	got := tokenTypes(t, input)
	want := []TokenType{IDENT, EOF}
	if len(got) != len(want) || got[0] != IDENT {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestPragmaCapture(t *testing.T) {
	input := `{-# LLM model=gpt-4, temperature=0.2 #-} prim_op translate : Int`
	l := New(input, "test.sf")
	tok, err := l.NextToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Type != PRAGMA {
		t.Fatalf("got %v, want PRAGMA", tok.Type)
	}
	if tok.Pragma["_tag"] != "LLM" || tok.Pragma["model"] != "gpt-4" || tok.Pragma["temperature"] != "0.2" {
		t.Errorf("pragma map = %#v", tok.Pragma)
	}
}

func TestUnterminatedPragma(t *testing.T) {
	l := New("{-# LLM model=gpt-4", "test.sf")
	_, err := l.NextToken()
	if err == nil {
		t.Fatal("expected unterminated-pragma error")
	}
}
