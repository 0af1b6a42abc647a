package eval_test

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/takoeight0821/neo/config"
	"github.com/takoeight0821/neo/driver"
	"github.com/takoeight0821/neo/eval"
	"github.com/takoeight0821/neo/lexer"
	"github.com/takoeight0821/neo/parser"
	"github.com/takoeight0821/neo/source"
	"github.com/takoeight0821/neo/utils"
)

// run executes input as a program and returns what it printed and the error text.
func run(t *testing.T, input string) (string, string) {
	t.Helper()
	var out bytes.Buffer
	runner := driver.NewPassRunner(driver.WithLogger(config.Default().Logger()))
	runner.AddPass(eval.NewEvaluator(&out))
	_, err := runner.RunSource(input)
	if err != nil {
		return out.String(), err.Error()
	}
	return out.String(), ""
}

func TestEvalFromTestData(t *testing.T) {
	t.Parallel()
	s, err := os.ReadFile("../testdata/testcase.yaml")
	if err != nil {
		panic(err)
	}
	for _, testcase := range utils.ReadTestData(s) {
		wantOutput, hasOutput := testcase.Expected["output"]
		wantError, hasError := testcase.Expected["error"]
		if !hasOutput && !hasError {
			continue
		}

		output, errText := run(t, testcase.Input)
		if hasOutput {
			if diff := cmp.Diff(wantOutput, output); diff != "" {
				t.Errorf("%s: output mismatch (-want +got):\n%s", testcase.Label, diff)
			}
		}
		if diff := cmp.Diff(wantError, errText); diff != "" {
			t.Errorf("%s: error mismatch (-want +got):\n%s", testcase.Label, diff)
		}
	}
}

func TestMatrixProperties(t *testing.T) {
	t.Parallel()
	testcases := []struct {
		label string
		input string
	}{
		{"power is repeated multiplication", "var m = [1, 2 | 3, 4]; print(m ^ 3 == m * m * m);"},
		{"power zero is identity", "var m = [1, 2, 3 | 4, 5, 6 | 7, 8, 9]; print(m ^ 0 == [1, 0, 0 | 0, 1, 0 | 0, 0, 1]);"},
		{"addition commutes", "var a = [1, 2.5 | -3, 4]; var b = [0.5, 7 | 8, -9]; print(a + b == b + a);"},
		{"subtraction undoes addition", "var a = [1, 2 | 3, 4]; var b = [5, 6 | 7, 8]; print((a + b) - b == a);"},
		{"transpose is an involution", "var m = [1, 2 | 3, 4]; print(m.transposed.transposed == m);"},
		{"copy is equal", "var m = [1, 2 | 3, 4]; print(m.copy == m);"},
		{"2x2 determinant", "var a = 3; var b = 7; var c = -2; var d = 5; print([a, b | c, d].det == a * d - b * c);"},
		{"determinant alias", "var m = [2, 0 | 0, 2]; print(m.determinant == m.det);"},
		{"1x1 determinant", "print([7].det == 7);"},
	}

	for _, testcase := range testcases {
		output, errText := run(t, testcase.input)
		if errText != "" {
			t.Errorf("%s: unexpected error %s", testcase.label, errText)
			continue
		}
		if output != "True\n" {
			t.Errorf("%s: expected True, got %q", testcase.label, output)
		}
	}
}

func TestImmutableBindingUnchanged(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	ev := eval.NewEvaluator(&out)

	program, err := parser.NewParser(lexer.New(source.FromString("var m = [1, 2]; var x = 1;"))).ParseProgram()
	if err != nil {
		t.Fatalf("ParseProgram returned error: %v", err)
	}
	if err := ev.Exec(program); err != nil {
		t.Fatalf("Exec returned error: %v", err)
	}

	for _, input := range []string{"x = 2;", "m[0, 0] = 5;", "m = [3, 4];"} {
		program, err := parser.NewParser(lexer.New(source.FromString(input))).ParseProgram()
		if err != nil {
			t.Fatalf("ParseProgram(%q) returned error: %v", input, err)
		}
		if err := ev.Exec(program); err == nil || !strings.Contains(err.Error(), "immutable") {
			t.Errorf("%q: expected an immutability error, got %v", input, err)
		}
	}

	expr, err := parser.NewParser(lexer.New(source.FromString("print(x, m)"))).ParseExpr()
	if err != nil {
		t.Fatalf("ParseExpr returned error: %v", err)
	}
	if _, err := ev.Eval(expr); err != nil {
		t.Fatalf("Eval returned error: %v", err)
	}
	if diff := cmp.Diff("1 ---------\n| 1   2 |\n---------\n", out.String()); diff != "" {
		t.Errorf("bindings changed (-want +got):\n%s", diff)
	}
}

func TestEvalExpression(t *testing.T) {
	t.Parallel()
	testcases := []struct {
		input    string
		expected string
	}{
		{"1 + 2", "3"},
		{"\"neo\" + \"!\"", "neo!"},
		{"2 ^ 0.5 * 2 ^ 0.5 == 2.0000000000000004", "True"},
		{"[1, 2 | 3, 4] * [5 | 6]", "------\n| 17 |\n| 39 |\n------"},
		{"print", "<built-in function print>"},
		{"func(x) { return x; }", "<anonymous function>"},
		{"not [0, 0]", "True"},
		{"zeros(1, 2) == [0, 0]", "True"},
		{"ones(2).collen", "2"},
	}

	for _, testcase := range testcases {
		expr, err := parser.NewParser(lexer.New(source.FromString(testcase.input))).ParseExpr()
		if err != nil {
			t.Errorf("ParseExpr(%q) returned error: %v", testcase.input, err)
			continue
		}
		v, err := eval.NewEvaluator(&bytes.Buffer{}).Eval(expr)
		if err != nil {
			t.Errorf("Eval(%q) returned error: %v", testcase.input, err)
			continue
		}
		if diff := cmp.Diff(testcase.expected, v.String()); diff != "" {
			t.Errorf("Eval(%q) mismatch (-want +got):\n%s", testcase.input, diff)
		}
	}
}

func TestNestedMatrix(t *testing.T) {
	t.Parallel()
	output, errText := run(t, "var m = [[1, 2], 3]; print(m);")
	if errText != "" {
		t.Fatalf("unexpected error %s", errText)
	}
	expected := strings.Join([]string{
		"-----------------",
		"| ---------   3 |",
		"| | 1   2 |     |",
		"| ---------     |",
		"-----------------",
	}, "\n") + "\n"
	if diff := cmp.Diff(expected, output); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestREPLState(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	ev := eval.NewEvaluator(&out)
	runner := driver.NewPassRunner(driver.WithLogger(config.Default().Logger()), driver.WithExprFallback())
	runner.AddPass(ev)

	for _, line := range []string{"var mut n = 20", "n = n + 1", "n * 2"} {
		if _, err := runner.RunSource(line); err != nil {
			t.Fatalf("RunSource(%q) returned error: %v", line, err)
		}
	}
	if diff := cmp.Diff("42\n", out.String()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(ev.Globals(), "mut n:21") {
		t.Errorf("expected n in globals, got %s", ev.Globals())
	}
}
