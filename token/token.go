package token

import "fmt"

//go:generate go run golang.org/x/tools/cmd/stringer@v0.13.0 -type=Kind
type Kind int

const (
	EOF Kind = iota

	// Single-character tokens.
	LEFTPAREN
	RIGHTPAREN
	LEFTBRACE
	RIGHTBRACE
	LEFTBRACKET
	RIGHTBRACKET
	COMMA
	DOT
	SEMICOLON
	BAR
	PLUS
	MINUS
	STAR
	SLASH
	CARET
	ASSIGN
	LESS
	GREATER

	// Two-character tokens.
	LESSEQUAL
	GREATEREQUAL
	EQUALEQUAL
	NOTEQUAL
	PIPE

	// Literals and identifiers.
	IDENT
	SCALAR
	STRING
	BOOL

	// Keywords.
	AND
	OR
	NOT
	VAR
	MUT
	RETURN
	FUNCTION
	IF
	ELSE
	WHILE
)

// Pos is a 1-based source position.
type Pos struct {
	Line   int
	Column int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is produced by the lexer and never modified afterwards.
// Literal holds a float64 for SCALAR, a string for STRING and a bool for BOOL.
type Token struct {
	Kind    Kind
	Lexeme  string
	Line    int
	Column  int
	Literal any
}

func (t Token) Pos() Pos {
	return Pos{Line: t.Line, Column: t.Column}
}

func (t Token) String() string {
	return fmt.Sprintf("{%v, %q, %d:%d, %v}", t.Kind, t.Lexeme, t.Line, t.Column, t.Literal)
}

// Keywords maps reserved words to their kinds.
// True and False are reserved words that produce BOOL literals.
var Keywords = map[string]Kind{
	"and":      AND,
	"or":       OR,
	"not":      NOT,
	"var":      VAR,
	"mut":      MUT,
	"True":     BOOL,
	"False":    BOOL,
	"return":   RETURN,
	"function": FUNCTION,
	"func":     FUNCTION,
	"if":       IF,
	"else":     ELSE,
	"while":    WHILE,
}

// Singles maps one-character punctuation and operators to their kinds.
var Singles = map[rune]Kind{
	'(': LEFTPAREN,
	')': RIGHTPAREN,
	'{': LEFTBRACE,
	'}': RIGHTBRACE,
	'[': LEFTBRACKET,
	']': RIGHTBRACKET,
	',': COMMA,
	'.': DOT,
	';': SEMICOLON,
	'|': BAR,
	'+': PLUS,
	'-': MINUS,
	'*': STAR,
	'/': SLASH,
	'^': CARET,
	'=': ASSIGN,
	'<': LESS,
	'>': GREATER,
}

// Doubles maps two-character operators to their kinds.
var Doubles = map[string]Kind{
	"<=": LESSEQUAL,
	">=": GREATEREQUAL,
	"==": EQUALEQUAL,
	"!=": NOTEQUAL,
	"|>": PIPE,
}

// StartsDouble reports whether c is the first character of a two-character operator.
func StartsDouble(c rune) bool {
	for op := range Doubles {
		if rune(op[0]) == c {
			return true
		}
	}
	return false
}
