package driver_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sebdah/goldie/v2"
	"github.com/takoeight0821/neo/ast"
	"github.com/takoeight0821/neo/config"
	"github.com/takoeight0821/neo/driver"
	"github.com/takoeight0821/neo/eval"
	"github.com/takoeight0821/neo/lexer"
	"github.com/takoeight0821/neo/parser"
	"github.com/takoeight0821/neo/source"
	"github.com/takoeight0821/neo/utils"
)

var quiet = driver.WithLogger(config.Default().Logger())

func TestGoldenOutput(t *testing.T) {
	t.Parallel()

	testfiles, err := utils.FindSourceFiles("../testdata")
	if err != nil {
		t.Fatalf("failed to find test files: %v", err)
	}

	for _, testfile := range testfiles {
		src, closer, err := source.Open(testfile)
		if err != nil {
			t.Fatalf("failed to open %s: %v", testfile, err)
		}

		var out bytes.Buffer
		runner := driver.NewPassRunner(quiet)
		runner.AddPass(eval.NewEvaluator(&out))
		_, err = runner.RunReader(src)
		closer.Close()
		if err != nil {
			t.Errorf("%s returned error: %v", testfile, err)
			continue
		}

		g := goldie.New(t)
		g.Assert(t, testfile+".out", out.Bytes())
	}
}

type countPass struct {
	inits, runs int
}

func (p *countPass) Init([]ast.Node) error {
	p.inits++
	return nil
}

func (p *countPass) Run(nodes []ast.Node) ([]ast.Node, error) {
	p.runs++
	return nodes, nil
}

var errStop = errors.New("stop")

type failPass struct{}

func (failPass) Init([]ast.Node) error { return nil }

func (failPass) Run(nodes []ast.Node) ([]ast.Node, error) { return nodes, errStop }

func TestPassOrder(t *testing.T) {
	t.Parallel()
	first, last := &countPass{}, &countPass{}
	runner := driver.NewPassRunner(quiet)
	runner.AddPass(first)
	runner.AddPass(failPass{})
	runner.AddPass(last)

	_, err := runner.RunSource("print(1);")
	if !errors.Is(err, errStop) {
		t.Errorf("expected errStop, got %v", err)
	}
	if first.inits != 1 || first.runs != 1 {
		t.Errorf("first pass ran %d/%d times", first.inits, first.runs)
	}
	if last.inits != 0 || last.runs != 0 {
		t.Errorf("pass after a failure ran %d/%d times", last.inits, last.runs)
	}
}

func TestCache(t *testing.T) {
	t.Parallel()
	cache, err := driver.NewCache(16)
	if err != nil {
		t.Fatalf("NewCache returned error: %v", err)
	}
	defer cache.Close()

	runner := driver.NewPassRunner(quiet, driver.WithCache(cache))
	const src = "var m = [1, 2 | 3, 4]; print(m.det);"
	first, err := runner.Parse(src)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	// A cached program can be evaluated repeatedly.
	for i := 0; i < 2; i++ {
		nodes, err := runner.Parse(src)
		if err != nil {
			t.Fatalf("Parse returned error: %v", err)
		}
		if diff := cmp.Diff(first[0].String(), nodes[0].String()); diff != "" {
			t.Errorf("cached program differs (-want +got):\n%s", diff)
		}
		var out bytes.Buffer
		if _, err := eval.NewEvaluator(&out).Run(nodes); err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
		if out.String() != "-2\n" {
			t.Errorf("expected -2, got %q", out.String())
		}
	}

	if _, err := runner.Parse("var = ;"); err == nil {
		t.Errorf("expected a parse error")
	}
}

func TestExprFallback(t *testing.T) {
	t.Parallel()

	_, err := driver.NewPassRunner(quiet).Parse("1 + 2")
	var unexpected parser.UnexpectedTokenError
	if !errors.As(err, &unexpected) {
		t.Errorf("expected UnexpectedTokenError without fallback, got %v", err)
	}

	nodes, err := driver.NewPassRunner(quiet, driver.WithExprFallback()).Parse("1 + 2")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if diff := cmp.Diff("(binary (scalar 1) + (scalar 2))", nodes[0].String()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	// When neither parse succeeds the program error is reported.
	_, err = driver.NewPassRunner(quiet, driver.WithExprFallback()).Parse("var x 1")
	if diff := cmp.Diff(`Error at line: 1, column: 7. Expected ASSIGN, got SCALAR with value "1"`, err.Error()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestLexerOptions(t *testing.T) {
	t.Parallel()
	runner := driver.NewPassRunner(quiet, driver.WithLexerOptions(lexer.WithMaxStringLength(2)))
	_, err := runner.Parse(`print("abc");`)
	var lexErr lexer.Error
	if !errors.As(err, &lexErr) || lexErr.Code != lexer.ExceedMaxStringLength {
		t.Errorf("expected ExceedMaxStringLength, got %v", err)
	}
}
