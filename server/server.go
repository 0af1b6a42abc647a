// Package server exposes the interpreter over HTTP.
package server

import (
	"bytes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/oarkflow/json"
	"github.com/oarkflow/log"
	"github.com/oarkflow/xid"

	"github.com/takoeight0821/neo/config"
	"github.com/takoeight0821/neo/driver"
	"github.com/takoeight0821/neo/eval"
)

type RunRequest struct {
	Code string `json:"code"`
}

// RunResponse carries what the program printed and, if it failed, the
// interpreter error text. Output printed before a failure is kept.
type RunResponse struct {
	ID     string `json:"id"`
	Output string `json:"output"`
	Error  string `json:"error,omitempty"`
}

type Server struct {
	app    *fiber.App
	cfg    *config.Config
	logger *log.Logger
	cache  *driver.Cache
}

func New(cfg *config.Config, logger *log.Logger) (*Server, error) {
	cache, err := driver.NewCache(cfg.Server.CacheSize)
	if err != nil {
		return nil, err
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		JSONEncoder:           func(v interface{}) ([]byte, error) { return json.Marshal(v) },
		JSONDecoder:           func(data []byte, v interface{}) error { return json.Unmarshal(data, v) },
	})

	app.Use(recover.New())

	s := &Server{
		app:    app,
		cfg:    cfg,
		logger: logger,
		cache:  cache,
	}

	app.Get("/api/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Post("/api/run", s.handleRun)

	return s, nil
}

func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.cfg.Server.Addr).Msg("starting server")
	return s.app.Listen(s.cfg.Server.Addr)
}

func (s *Server) Stop() error {
	defer s.cache.Close()
	return s.app.Shutdown()
}

// Run executes code with a fresh evaluator. Parsed programs are shared through the cache.
func (s *Server) Run(code string) RunResponse {
	resp := RunResponse{ID: xid.New().String()}

	var out bytes.Buffer
	runner := driver.NewPassRunner(
		driver.WithLexerOptions(s.cfg.LexerOptions()...),
		driver.WithLogger(s.logger),
		driver.WithCache(s.cache),
	)
	runner.AddPass(eval.NewEvaluator(&out))
	if _, err := runner.RunSource(code); err != nil {
		resp.Error = err.Error()
	}
	resp.Output = out.String()
	return resp
}

func (s *Server) handleRun(c *fiber.Ctx) error {
	var req RunRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	resp := s.Run(req.Code)
	if resp.Error != "" {
		s.logger.Info().Str("id", resp.ID).Str("error", resp.Error).Msg("program failed")
	} else {
		s.logger.Info().Str("id", resp.ID).Msg("program finished")
	}
	return c.JSON(resp)
}
