package lexer_test

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sebdah/goldie/v2"
	"github.com/takoeight0821/neo/lexer"
	"github.com/takoeight0821/neo/token"
	"github.com/takoeight0821/neo/utils"
)

func TestGolden(t *testing.T) {
	t.Parallel()

	testfiles, err := utils.FindSourceFiles("../testdata")
	if err != nil {
		t.Errorf("failed to find test files: %v", err)
		return
	}

	for _, testfile := range testfiles {
		source, err := os.ReadFile(testfile)
		if err != nil {
			t.Errorf("failed to read %s: %v", testfile, err)
			return
		}

		tokens, err := lexer.Lex(string(source))
		if err != nil {
			t.Errorf("%s returned error: %v", testfile, err)
			return
		}

		var builder strings.Builder
		for _, token := range tokens {
			builder.WriteString(token.String())
			builder.WriteString("\n")
		}

		g := goldie.New(t)
		g.Assert(t, testfile, []byte(builder.String()))
	}
}

func kinds(tokens []token.Token) []token.Kind {
	ks := make([]token.Kind, len(tokens))
	for i, tok := range tokens {
		ks[i] = tok.Kind
	}
	return ks
}

func TestOperators(t *testing.T) {
	t.Parallel()
	tokens, err := lexer.Lex("<= < >= > == = != |> | . ^")
	if err != nil {
		t.Fatalf("Lex returned error: %v", err)
	}
	want := []token.Kind{
		token.LESSEQUAL, token.LESS, token.GREATEREQUAL, token.GREATER,
		token.EQUALEQUAL, token.ASSIGN, token.NOTEQUAL, token.PIPE, token.BAR,
		token.DOT, token.CARET, token.EOF,
	}
	if diff := cmp.Diff(want, kinds(tokens)); diff != "" {
		t.Errorf("kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestScalars(t *testing.T) {
	t.Parallel()
	tokens, err := lexer.Lex("0 0.001 12.5 3.")
	if err != nil {
		t.Fatalf("Lex returned error: %v", err)
	}
	var got []any
	for _, tok := range tokens[:len(tokens)-1] {
		got = append(got, tok.Literal)
	}
	want := []any{0.0, 0.001, 12.5, 3.0}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("literals mismatch (-want +got):\n%s", diff)
	}
}

func TestStrings(t *testing.T) {
	t.Parallel()
	testcases := []struct {
		input    string
		expected string
	}{
		{`""`, ""},
		{`"hello world"`, "hello world"},
		{`"a\"b"`, `a"b`},
		{`"a\\b"`, `a\b`},
		{`"a\nb"`, `a\nb`},
		{`"\"quoted\""`, `"quoted"`},
	}
	for _, testcase := range testcases {
		tokens, err := lexer.Lex(testcase.input)
		if err != nil {
			t.Errorf("Lex(%s) returned error: %v", testcase.input, err)
			continue
		}
		if tokens[0].Kind != token.STRING {
			t.Errorf("Lex(%s): expected STRING, got %v", testcase.input, tokens[0].Kind)
			continue
		}
		if diff := cmp.Diff(testcase.expected, tokens[0].Literal); diff != "" {
			t.Errorf("Lex(%s): literal mismatch (-want +got):\n%s", testcase.input, diff)
		}
	}
}

func TestCommentsAndPositions(t *testing.T) {
	t.Parallel()
	tokens, err := lexer.Lex("# comment\n  x # trailing\ny")
	if err != nil {
		t.Fatalf("Lex returned error: %v", err)
	}
	want := []token.Token{
		{Kind: token.IDENT, Lexeme: "x", Line: 2, Column: 3},
		{Kind: token.IDENT, Lexeme: "y", Line: 3, Column: 1},
		{Kind: token.EOF, Lexeme: "", Line: 3, Column: 2},
	}
	if diff := cmp.Diff(want, tokens); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestErrors(t *testing.T) {
	t.Parallel()
	testcases := []struct {
		input    string
		opts     []lexer.Option
		code     lexer.ErrorCode
		expected string
	}{
		{
			input:    "var abcdef = 1;",
			opts:     []lexer.Option{lexer.WithMaxIdentifierLength(5)},
			code:     lexer.ExceedMaxIdentifierLength,
			expected: "Error at line: 1, column: 5. Exceeded max length of an identifier",
		},
		{
			input:    `print("abcdef");`,
			opts:     []lexer.Option{lexer.WithMaxStringLength(3)},
			code:     lexer.ExceedMaxStringLength,
			expected: "Error at line: 1, column: 7. Exceeded max length of a string",
		},
		{
			input:    "\n  \"open",
			code:     lexer.StringBuildFailed,
			expected: "Error at line: 2, column: 3. Failed to build a string. No matching right quotation mark",
		},
		{
			input:    "x ! y",
			code:     lexer.CantIdentifyToken,
			expected: "Error at line: 1, column: 3. Cannot identify token. There is no match for '!'",
		},
	}

	for _, testcase := range testcases {
		_, err := lexer.Lex(testcase.input, testcase.opts...)
		var lexErr lexer.Error
		if !errors.As(err, &lexErr) {
			t.Errorf("Lex(%q): expected lexer.Error, got %v", testcase.input, err)
			continue
		}
		if lexErr.Code != testcase.code {
			t.Errorf("Lex(%q): expected code %q, got %q", testcase.input, testcase.code, lexErr.Code)
		}
		if diff := cmp.Diff(testcase.expected, err.Error()); diff != "" {
			t.Errorf("Lex(%q) mismatch (-want +got):\n%s", testcase.input, diff)
		}
	}
}

func TestDefaultLimits(t *testing.T) {
	t.Parallel()
	if _, err := lexer.Lex(strings.Repeat("a", lexer.DefaultMaxIdentifierLength)); err != nil {
		t.Errorf("identifier at the limit: unexpected error %v", err)
	}
	if _, err := lexer.Lex(strings.Repeat("a", lexer.DefaultMaxIdentifierLength+1)); err == nil {
		t.Errorf("identifier over the limit: expected an error")
	}
}
