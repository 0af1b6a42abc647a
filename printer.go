package main

import (
	"fmt"
	"io"

	"github.com/takoeight0821/neo/ast"
)

// printer is a pass that writes the parsed program as an s-expression.
type printer struct {
	out io.Writer
}

func (printer) Init([]ast.Node) error { return nil }

func (p printer) Run(program []ast.Node) ([]ast.Node, error) {
	for _, node := range program {
		if _, err := fmt.Fprintln(p.out, node); err != nil {
			return program, err
		}
	}
	return program, nil
}
