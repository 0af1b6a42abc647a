package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/takoeight0821/neo/source"
	"github.com/takoeight0821/neo/token"
	"github.com/takoeight0821/neo/utils"
)

const (
	DefaultMaxIdentifierLength = 100
	DefaultMaxStringLength     = 500
)

type ErrorCode string

const (
	ExceedMaxIdentifierLength ErrorCode = "Exceeded max length of an identifier"
	ExceedMaxStringLength     ErrorCode = "Exceeded max length of a string"
	StringBuildFailed         ErrorCode = "Failed to build a string. No matching right quotation mark"
	CantIdentifyToken         ErrorCode = "Cannot identify token. There is no match"
)

// Error is a lexical error located at the start of the offending token.
type Error struct {
	Code  ErrorCode
	Where token.Pos
	Char  rune
}

func (e Error) Error() string {
	return e.Unwrap().Error()
}

func (e Error) Unwrap() error {
	if e.Code == CantIdentifyToken {
		return utils.Errorf(e.Where, "%s for %q", e.Code, e.Char)
	}
	return utils.ErrorAt(e.Where, string(e.Code))
}

type Option func(*Lexer)

func WithMaxIdentifierLength(n int) Option {
	return func(l *Lexer) {
		if n > 0 {
			l.maxIdentifier = n
		}
	}
}

func WithMaxStringLength(n int) Option {
	return func(l *Lexer) {
		if n > 0 {
			l.maxString = n
		}
	}
}

// Lexer turns a character cursor into tokens on demand.
// It is single pass: once EOF has been produced every further call returns EOF again.
type Lexer struct {
	src *source.Reader

	maxIdentifier int
	maxString     int

	start token.Pos // position of the token being built
}

func New(src *source.Reader, opts ...Option) *Lexer {
	l := &Lexer{
		src:           src,
		maxIdentifier: DefaultMaxIdentifierLength,
		maxString:     DefaultMaxStringLength,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Lex scans the whole input and returns every token up to and including EOF.
// It stops at the first lexical error.
func Lex(input string, opts ...Option) ([]token.Token, error) {
	l := New(source.FromString(input), opts...)
	var tokens []token.Token
	for {
		tok, err := l.Next()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			return tokens, nil
		}
	}
}

// Next builds the next token.
func (l *Lexer) Next() (token.Token, error) {
	for l.skipComment() || l.skipWhitespace() {
	}

	l.start = token.Pos{Line: l.src.Line(), Column: l.src.Column()}
	c := l.src.Current()

	switch {
	case c == source.EOF:
		return l.make(token.EOF, "", nil), nil
	case isAlpha(c):
		return l.identifier()
	case c == '"':
		return l.string()
	case isDigit(c):
		return l.scalar()
	case token.StartsDouble(c):
		return l.double()
	}

	if k, ok := token.Singles[c]; ok {
		l.src.Advance()
		return l.make(k, string(c), nil), nil
	}

	return token.Token{}, Error{Code: CantIdentifyToken, Where: l.start, Char: c}
}

func (l *Lexer) make(kind token.Kind, lexeme string, literal any) token.Token {
	return token.Token{Kind: kind, Lexeme: lexeme, Line: l.start.Line, Column: l.start.Column, Literal: literal}
}

func (l *Lexer) fail(code ErrorCode) error {
	return Error{Code: code, Where: l.start}
}

// skipComment skips from '#' to the end of the line.
func (l *Lexer) skipComment() bool {
	if l.src.Current() != '#' {
		return false
	}
	for c := l.src.Current(); c != '\n' && c != source.EOF; c = l.src.Advance() {
	}
	l.src.Advance()
	return true
}

func (l *Lexer) skipWhitespace() bool {
	if !unicode.IsSpace(l.src.Current()) {
		return false
	}
	for unicode.IsSpace(l.src.Current()) {
		l.src.Advance()
	}
	return true
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c rune) bool {
	return c != source.EOF && unicode.IsLetter(c)
}

func (l *Lexer) identifier() (token.Token, error) {
	var b strings.Builder
	n := 0
	for c := l.src.Current(); isAlpha(c) || isDigit(c) || c == '_'; c = l.src.Advance() {
		if n >= l.maxIdentifier {
			return token.Token{}, l.fail(ExceedMaxIdentifierLength)
		}
		b.WriteRune(c)
		n++
	}

	word := b.String()
	if k, ok := token.Keywords[word]; ok {
		if k == token.BOOL {
			return l.make(k, word, word == "True"), nil
		}
		return l.make(k, word, nil), nil
	}

	return l.make(token.IDENT, word, nil), nil
}

func (l *Lexer) string() (token.Token, error) {
	var b strings.Builder
	n := 0
	for c := l.src.Advance(); c != '"'; c = l.src.Advance() {
		if c == source.EOF {
			return token.Token{}, l.fail(StringBuildFailed)
		}
		if n >= l.maxString {
			return token.Token{}, l.fail(ExceedMaxStringLength)
		}
		if c == '\\' {
			switch next := l.src.Advance(); next {
			case '\\', '"':
				b.WriteRune(next)
			case source.EOF:
				return token.Token{}, l.fail(StringBuildFailed)
			default:
				b.WriteRune(c)
				b.WriteRune(next)
			}
		} else {
			b.WriteRune(c)
		}
		n++
	}
	l.src.Advance() // closing quote

	value := b.String()
	return l.make(token.STRING, value, value), nil
}

func (l *Lexer) scalar() (token.Token, error) {
	var b strings.Builder
	for c := l.src.Current(); isDigit(c); c = l.src.Advance() {
		b.WriteRune(c)
	}
	if l.src.Current() == '.' {
		b.WriteRune('.')
		for c := l.src.Advance(); isDigit(c); c = l.src.Advance() {
			b.WriteRune(c)
		}
	}

	text := b.String()
	value, err := strconv.ParseFloat(strings.TrimSuffix(text, "."), 64)
	if err != nil {
		return token.Token{}, utils.ErrorAt(l.start, fmt.Sprintf("invalid number %q: %v", text, err))
	}
	return l.make(token.SCALAR, text, value), nil
}

// double emits a two-character operator when the pair is known, and falls back to
// the single-character token otherwise.
func (l *Lexer) double() (token.Token, error) {
	first := l.src.Current()
	second := l.src.Advance()
	pair := string([]rune{first, second})
	if k, ok := token.Doubles[pair]; ok {
		l.src.Advance()
		return l.make(k, pair, nil), nil
	}
	if k, ok := token.Singles[first]; ok {
		return l.make(k, string(first), nil), nil
	}
	return token.Token{}, Error{Code: CantIdentifyToken, Where: l.start, Char: first}
}
