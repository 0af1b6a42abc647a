package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/mattn/go-isatty"
	"github.com/oarkflow/log"
	"github.com/peterh/liner"

	"github.com/takoeight0821/neo/config"
	"github.com/takoeight0821/neo/driver"
	"github.com/takoeight0821/neo/eval"
	"github.com/takoeight0821/neo/nameresolve"
	"github.com/takoeight0821/neo/server"
	"github.com/takoeight0821/neo/source"
)

func main() {
	const (
		inputUsage = "input file path"
	)
	var (
		inputPath  string
		configPath string
		serveAddr  string
		printAST   bool
		check      bool
	)
	flag.StringVar(&inputPath, "input", "", inputUsage)
	flag.StringVar(&inputPath, "i", "", inputUsage+" (shorthand)")
	flag.StringVar(&configPath, "config", "", "config file path")
	flag.StringVar(&serveAddr, "serve", "", "serve the HTTP API on this address")
	flag.BoolVar(&printAST, "ast", false, "print the parsed program instead of running it")
	flag.BoolVar(&check, "check", false, "report undefined names instead of running")

	flag.Parse()

	cfg, err := config.Load(configPath, &log.DefaultLogger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := cfg.Logger()

	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
		if err := Serve(cfg, logger); err != nil {
			logger.Error().Err(err).Msg("server stopped")
			os.Exit(1)
		}
		return
	}

	runner := driver.NewPassRunner(
		driver.WithLexerOptions(cfg.LexerOptions()...),
		driver.WithLogger(logger),
	)
	switch {
	case printAST:
		runner.AddPass(printer{out: os.Stdout})
	case check:
		runner.AddPass(nameresolve.NewResolver())
	default:
		runner.AddPass(eval.NewEvaluator(os.Stdout))
	}

	switch {
	case inputPath != "":
		err = RunFile(runner, inputPath)
	case !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()):
		_, err = runner.RunReader(source.FromReader(os.Stdin))
	default:
		err = RunPrompt(cfg, logger)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func RunFile(runner *driver.PassRunner, path string) error {
	src, closer, err := source.Open(path)
	if err != nil {
		return err
	}
	defer closer.Close()

	_, err = runner.RunReader(src)
	return err
}

func Serve(cfg *config.Config, logger *log.Logger) error {
	s, err := server.New(cfg, logger)
	if err != nil {
		return err
	}
	defer s.Stop()
	return s.Start()
}

// RunPrompt reads lines until EOF. Bindings persist between lines, and a line
// that is not a program is evaluated and printed as an expression.
func RunPrompt(cfg *config.Config, logger *log.Logger) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	history := cfg.REPL.History
	lock := flock.New(history + ".lock")
	if err := os.MkdirAll(filepath.Dir(history), os.ModePerm); err != nil {
		logger.Warn().Err(err).Msg("history directory unavailable")
	}
	locked, err := lock.TryLock()
	if err != nil {
		logger.Warn().Err(err).Str("path", history).Msg("failed to lock history")
	}
	if locked {
		defer func() {
			saveHistory(line, history, logger)
			_ = lock.Unlock()
		}()
	} else {
		logger.Warn().Str("path", history).Msg("history is used by another session and will not be saved")
	}

	if f, err := os.Open(history); err == nil {
		if _, err := line.ReadHistory(f); err != nil {
			logger.Warn().Err(err).Msg("failed to read history")
		}
		f.Close()
	}

	r := driver.NewPassRunner(
		driver.WithLexerOptions(cfg.LexerOptions()...),
		driver.WithLogger(logger),
		driver.WithExprFallback(),
	)
	r.AddPass(eval.NewEvaluator(os.Stdout))
	for {
		input, err := line.Prompt("> ")
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			return nil
		}
		if err != nil {
			return err
		}
		if input == "" {
			continue
		}
		line.AppendHistory(input)
		if _, err := r.RunSource(input); err != nil {
			fmt.Println(err)
		}
	}
}

func saveHistory(line *liner.State, path string, logger *log.Logger) {
	f, err := os.Create(path)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to save history")
		return
	}
	defer f.Close()
	if _, err := line.WriteHistory(f); err != nil {
		logger.Warn().Err(err).Msg("failed to save history")
	}
}
