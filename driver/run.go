package driver

import (
	"time"

	"github.com/oarkflow/log"

	"github.com/takoeight0821/neo/ast"
	"github.com/takoeight0821/neo/lexer"
	"github.com/takoeight0821/neo/parser"
	"github.com/takoeight0821/neo/source"
)

type Pass interface {
	Init([]ast.Node) error
	Run([]ast.Node) ([]ast.Node, error)
}

type PassRunner struct {
	passes       []Pass
	lexerOptions []lexer.Option
	logger       *log.Logger
	cache        *Cache
	exprFallback bool
}

type Option func(*PassRunner)

func WithLexerOptions(opts ...lexer.Option) Option {
	return func(r *PassRunner) {
		r.lexerOptions = append(r.lexerOptions, opts...)
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(r *PassRunner) {
		r.logger = logger
	}
}

// WithCache makes Parse reuse programs parsed from the same source text.
func WithCache(cache *Cache) Option {
	return func(r *PassRunner) {
		r.cache = cache
	}
}

// WithExprFallback makes input that is not a valid program parse as a single
// expression instead, as the REPL does.
func WithExprFallback() Option {
	return func(r *PassRunner) {
		r.exprFallback = true
	}
}

func NewPassRunner(opts ...Option) *PassRunner {
	r := &PassRunner{logger: &log.DefaultLogger}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// AddPass adds a pass to the end of the pass list.
func (r *PassRunner) AddPass(pass Pass) {
	r.passes = append(r.passes, pass)
}

// Run executes passes in order.
// If an error occurs, it stops the execution and returns the current program.
func (r *PassRunner) Run(program []ast.Node) ([]ast.Node, error) {
	for _, pass := range r.passes {
		err := pass.Init(program)
		if err != nil {
			r.logger.Debug().Err(err).Msg("init failed")
			return program, err
		}
		start := time.Now()
		program, err = pass.Run(program)
		r.logger.Debug().Str("elapsed", time.Since(start).String()).Msg("pass finished")
		if err != nil {
			r.logger.Debug().Err(err).Msg("run failed")
			return program, err
		}
	}

	return program, nil
}

// Parse parses source into a program. Errors are returned exactly as the
// lexer or parser produced them.
func (r *PassRunner) Parse(src string) ([]ast.Node, error) {
	if r.cache != nil {
		if nodes, ok := r.cache.Get(src); ok {
			r.logger.Debug().Msg("parse cache hit")
			return nodes, nil
		}
	}

	start := time.Now()
	program, errProgram := r.parser(source.FromString(src)).ParseProgram()
	var nodes []ast.Node
	switch {
	case errProgram == nil:
		nodes = []ast.Node{program}
	case r.exprFallback:
		expr, errExpr := r.parser(source.FromString(src)).ParseExpr()
		if errExpr != nil {
			r.logger.Debug().Err(errExpr).Msg("expression fallback failed")
			return nil, errProgram
		}
		nodes = []ast.Node{expr}
	default:
		r.logger.Debug().Err(errProgram).Msg("parse failed")
		return nil, errProgram
	}
	r.logger.Debug().Str("elapsed", time.Since(start).String()).Msg("parsed")

	if r.cache != nil {
		r.cache.Put(src, nodes)
	}
	return nodes, nil
}

// ParseReader parses a program streamed from src. Results are not cached.
func (r *PassRunner) ParseReader(src *source.Reader) ([]ast.Node, error) {
	program, err := r.parser(src).ParseProgram()
	if err != nil {
		r.logger.Debug().Err(err).Msg("parse failed")
		return nil, err
	}
	return []ast.Node{program}, nil
}

func (r *PassRunner) parser(src *source.Reader) *parser.Parser {
	return parser.NewParser(lexer.New(src, r.lexerOptions...))
}

// RunSource parses the source code and executes passes in order.
func (r *PassRunner) RunSource(src string) ([]ast.Node, error) {
	nodes, err := r.Parse(src)
	if err != nil {
		return nil, err
	}
	return r.Run(nodes)
}

// RunReader is RunSource for a streamed program.
func (r *PassRunner) RunReader(src *source.Reader) ([]ast.Node, error) {
	nodes, err := r.ParseReader(src)
	if err != nil {
		return nil, err
	}
	return r.Run(nodes)
}
