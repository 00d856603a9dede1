package token

import (
	"testing"
)

func TestCreateToken(t *testing.T) {
	tests := []struct {
		name      string
		tokenType TokenType
		lexeme    string
		want      Token
	}{
		{
			name:      "Create ASSIGN token",
			tokenType: ASSIGN,
			lexeme:    "=",
			want:      Token{TokenType: ASSIGN, Lexeme: "="},
		},
		{
			name:      "Create NAME token",
			tokenType: NAME,
			lexeme:    "myVar",
			want:      Token{TokenType: NAME, Lexeme: "myVar"},
		},
		{
			name:      "Create PLUS token",
			tokenType: PLUS,
			lexeme:    "+",
			want:      Token{TokenType: PLUS, Lexeme: "+"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CreateToken(tt.tokenType, tt.lexeme, 0, 0)
			if got != tt.want {
				t.Errorf("CreateToken() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestArithOf(t *testing.T) {
	tests := []struct {
		kind   TokenType
		want   TokenType
		wantOk bool
	}{
		{PLUS_ASSIGN, PLUS, true},
		{MINUS_ASSIGN, MINUS, true},
		{TIMES_ASSIGN, TIMES, true},
		{SLASH_ASSIGN, SLASH, true},
		{ASSIGN, "", false},
	}

	for _, tt := range tests {
		got, ok := ArithOf(tt.kind)
		if got != tt.want || ok != tt.wantOk {
			t.Errorf("ArithOf(%s) = (%s, %v), want (%s, %v)", tt.kind, got, ok, tt.want, tt.wantOk)
		}
	}
}

func TestReservedTable(t *testing.T) {
	for word, kind := range Reserved {
		tok := CreateLiteralToken(NAME, nil, word, 1, 0)
		if tok.TokenType != NAME {
			t.Fatalf("sanity: expected NAME before reclassification")
		}
		if _, ok := Reserved[tok.Lexeme]; !ok {
			t.Fatalf("expected %q to be reserved, resolving to %s", word, kind)
		}
	}
}
