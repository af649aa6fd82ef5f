// Package config loads CLI configuration for the mdpipe command from YAML
// files. File values sit below environment variables and flags in the
// override order; Default provides the base layer.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/alnah/go-mdpipe/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrInvalidFormat   = errors.New("invalid output format")
	ErrInvalidEngine   = errors.New("invalid block engine")
	ErrInvalidNesting  = errors.New("invalid max nesting")
	ErrEmptyConfigPath = errors.New("config path cannot be empty")
)

// Output format and engine names accepted in config files and flags.
const (
	FormatHTML   = "html"
	FormatTokens = "tokens"

	EngineMarkdown = "markdown"
	EngineGoldmark = "goldmark"
)

// Config holds all configuration for the mdpipe command.
type Config struct {
	Output OutputConfig `yaml:"output"`
	Render RenderConfig `yaml:"render"`
	Limits LimitsConfig `yaml:"limits"`
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	Format string `yaml:"format"` // "html" or "tokens" (resolved token JSON)
	Path   string `yaml:"path"`   // output file (empty = stdout)
}

// RenderConfig defines parsing and rendering options.
type RenderConfig struct {
	Engine      string `yaml:"engine"`      // block engine: "markdown" or "goldmark"
	Encoding    string `yaml:"encoding"`    // input charset (empty = utf-8)
	ChromaStyle string `yaml:"chromaStyle"` // chroma style for code blocks
}

// LimitsConfig defines resource limits.
type LimitsConfig struct {
	MaxNesting int `yaml:"maxNesting"` // token tree depth limit (0 = library default)
}

// Default returns the base configuration.
func Default() *Config {
	return &Config{
		Output: OutputConfig{Format: FormatHTML},
		Render: RenderConfig{Engine: EngineMarkdown, Encoding: "utf-8"},
	}
}

// Load reads and validates a config file.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, ErrEmptyConfigPath
	}

	data, err := os.ReadFile(path) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that config values are within accepted ranges.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Output.Format) {
	case FormatHTML, FormatTokens:
	default:
		return fmt.Errorf("%w: %q (must be html or tokens)", ErrInvalidFormat, c.Output.Format)
	}

	switch strings.ToLower(c.Render.Engine) {
	case EngineMarkdown, EngineGoldmark:
	default:
		return fmt.Errorf("%w: %q (must be markdown or goldmark)", ErrInvalidEngine, c.Render.Engine)
	}

	if c.Limits.MaxNesting < 0 {
		return fmt.Errorf("%w: %d (must be >= 0)", ErrInvalidNesting, c.Limits.MaxNesting)
	}
	return nil
}
