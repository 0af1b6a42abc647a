// Package config loads interpreter settings from YAML.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/oarkflow/log"
	"gopkg.in/yaml.v3"

	"github.com/takoeight0821/neo/lexer"
)

// RelPath is where the config file is searched for under the XDG config directories.
const RelPath = "neo/config.yaml"

type Config struct {
	Lexer  LexerConfig  `yaml:"lexer"`
	Log    LogConfig    `yaml:"log"`
	Server ServerConfig `yaml:"server"`
	REPL   REPLConfig   `yaml:"repl"`
}

type LexerConfig struct {
	MaxIdentifierLength int `yaml:"max_identifier_length"`
	MaxStringLength     int `yaml:"max_string_length"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
	// CacheSize is the number of parsed programs kept by the server.
	CacheSize int `yaml:"cache_size"`
}

type REPLConfig struct {
	History string `yaml:"history"`
}

func Default() *Config {
	return &Config{
		Lexer: LexerConfig{
			MaxIdentifierLength: lexer.DefaultMaxIdentifierLength,
			MaxStringLength:     lexer.DefaultMaxStringLength,
		},
		Log:    LogConfig{Level: "info"},
		Server: ServerConfig{Addr: ":8080", CacheSize: 1024},
		REPL:   REPLConfig{History: filepath.Join(xdg.DataHome, "neo", "history")},
	}
}

// Load reads the config at path. With an empty path the XDG config directories
// are searched and a missing file yields the defaults.
func Load(path string, logger *log.Logger) (*Config, error) {
	if path == "" {
		found, err := xdg.SearchConfigFile(RelPath)
		if err != nil {
			return Default(), nil
		}
		path = found
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error().Err(err).Str("path", path).Msg("failed to read config file")
		return nil, err
	}
	cfg, err := Parse(data)
	if err != nil {
		logger.Error().Err(err).Str("path", path).Msg("failed to unmarshal config")
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults. Environment variables are expanded first.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	content := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(content), cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var (
	ErrNonPositiveLimit = errors.New("lexer limits must be positive")
	ErrCacheSize        = errors.New("server.cache_size must be positive")
)

func (c *Config) Validate() error {
	if c.Lexer.MaxIdentifierLength <= 0 || c.Lexer.MaxStringLength <= 0 {
		return ErrNonPositiveLimit
	}
	if c.Server.CacheSize <= 0 {
		return ErrCacheSize
	}
	return nil
}

// LexerOptions turns the lexer section into lexer options.
func (c *Config) LexerOptions() []lexer.Option {
	return []lexer.Option{
		lexer.WithMaxIdentifierLength(c.Lexer.MaxIdentifierLength),
		lexer.WithMaxStringLength(c.Lexer.MaxStringLength),
	}
}

// Logger returns the default logger at the configured level.
func (c *Config) Logger() *log.Logger {
	logger := log.DefaultLogger
	logger.Level = log.ParseLevel(c.Log.Level)
	return &logger
}

// IsNotExist reports whether err means the config file is missing.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
