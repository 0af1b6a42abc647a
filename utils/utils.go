package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/takoeight0821/neo/ast"
	"github.com/takoeight0821/neo/token"
	"gopkg.in/yaml.v3"
)

// PosError is the single error shape shared by the lexer, the parser and the evaluator.
// Its text is part of the observable behaviour of the interpreter.
type PosError struct {
	Line   int
	Column int
	Msg    string
}

func (e PosError) Error() string {
	return fmt.Sprintf("Error at line: %d, column: %d. %s", e.Line, e.Column, e.Msg)
}

func (e PosError) Pos() token.Pos {
	return token.Pos{Line: e.Line, Column: e.Column}
}

// ErrorAt builds a PosError located at where.
func ErrorAt(where token.Pos, msg string) error {
	return PosError{Line: where.Line, Column: where.Column, Msg: msg}
}

// Errorf is ErrorAt with formatting.
func Errorf(where token.Pos, format string, args ...any) error {
	return ErrorAt(where, fmt.Sprintf(format, args...))
}

// AsPosError reports whether err carries a source position.
func AsPosError(err error) (PosError, bool) {
	var pe PosError
	if errors.As(err, &pe) {
		return pe, true
	}
	return PosError{}, false
}

type TestData struct {
	Label    string
	Enable   bool
	Input    string
	Expected map[string]string
}

func ReadTestData(s []byte) []TestData {
	var data []TestData
	if err := yaml.Unmarshal(s, &data); err != nil {
		panic(err)
	}

	// Remove disabled test cases.
	i := 0
	for _, d := range data {
		if d.Enable {
			data[i] = d
			i++
		}
	}
	data = data[:i]

	return data
}

// Runner is satisfied by driver.PassRunner.
type Runner interface {
	RunSource(source string) ([]ast.Node, error)
}

// RunTest runs input through runner and compares the printed nodes, or the
// error text when running fails, with expected.
func RunTest(runner Runner, t testing.TB, label, input, expected string) {
	t.Helper()
	nodes, err := runner.RunSource(input)
	var got string
	if err != nil {
		got = err.Error()
	} else {
		parts := make([]string, len(nodes))
		for i, node := range nodes {
			parts[i] = node.String()
		}
		got = strings.Join(parts, "\n")
	}
	if diff := cmp.Diff(strings.TrimSpace(expected), got); diff != "" {
		t.Errorf("%s: RunSource mismatch (-want +got):\n%s", label, diff)
	}
}

// FindSourceFiles returns every .neo file under root in lexical order.
func FindSourceFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == ".neo" {
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}
