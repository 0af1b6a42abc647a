package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/takoeight0821/neo/config"
	"github.com/takoeight0821/neo/driver"
	"github.com/takoeight0821/neo/eval"
)

func TestPrinter(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	runner := driver.NewPassRunner(driver.WithLogger(config.Default().Logger()))
	runner.AddPass(printer{out: &out})

	if _, err := runner.RunSource("print(m.det ^ 2);"); err != nil {
		t.Fatalf("RunSource returned error: %v", err)
	}
	expected := "(program (call (var print) (binary (property (var m) det) ^ (scalar 2))))\n"
	if diff := cmp.Diff(expected, out.String()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestRunFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "prog.neo")
	if err := os.WriteFile(path, []byte("var x = 2;\nprint(x ^ 3);\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	runner := driver.NewPassRunner(driver.WithLogger(config.Default().Logger()))
	runner.AddPass(eval.NewEvaluator(&out))
	if err := RunFile(runner, path); err != nil {
		t.Fatalf("RunFile returned error: %v", err)
	}
	if diff := cmp.Diff("8\n", out.String()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	if err := RunFile(runner, filepath.Join(t.TempDir(), "missing.neo")); err == nil {
		t.Errorf("expected an error for a missing file")
	}
}
