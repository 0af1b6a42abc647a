package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/takoeight0821/neo/config"
	"github.com/takoeight0821/neo/lexer"
)

func TestParseKeepsDefaults(t *testing.T) {
	t.Parallel()
	cfg, err := config.Parse([]byte("lexer:\n  max_string_length: 20\nserver:\n  addr: \":9000\"\n"))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	want := config.Default()
	want.Lexer.MaxStringLength = 20
	want.Server.Addr = ":9000"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestParseExpandsEnv(t *testing.T) {
	t.Setenv("NEO_TEST_LEVEL", "debug")
	cfg, err := config.Parse([]byte("log:\n  level: ${NEO_TEST_LEVEL}\n"))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected debug, got %q", cfg.Log.Level)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()
	testcases := []struct {
		input string
		err   error
	}{
		{"lexer:\n  max_identifier_length: 0\n", config.ErrNonPositiveLimit},
		{"server:\n  cache_size: -1\n", config.ErrCacheSize},
	}
	for _, testcase := range testcases {
		_, err := config.Parse([]byte(testcase.input))
		if !errors.Is(err, testcase.err) {
			t.Errorf("Parse(%q): expected %v, got %v", testcase.input, testcase.err, err)
		}
	}

	if _, err := config.Parse([]byte("lexer: [")); err == nil {
		t.Errorf("expected a yaml error")
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()
	logger := config.Default().Logger()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("repl:\n  history: /tmp/neo_history\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(path, logger)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.REPL.History != "/tmp/neo_history" {
		t.Errorf("expected history override, got %q", cfg.REPL.History)
	}

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"), logger)
	if !config.IsNotExist(err) {
		t.Errorf("expected a not-exist error, got %v", err)
	}
}

func TestLexerOptions(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	cfg.Lexer.MaxIdentifierLength = 3

	_, err := lexer.Lex("abcd", cfg.LexerOptions()...)
	var lexErr lexer.Error
	if !errors.As(err, &lexErr) || lexErr.Code != lexer.ExceedMaxIdentifierLength {
		t.Errorf("expected ExceedMaxIdentifierLength, got %v", err)
	}
}
