package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// envConfig holds configuration from environment variables. Provides
// CI/CD-friendly overrides without requiring YAML files; flags still win.
type envConfig struct {
	ConfigPath  string // MDPIPE_CONFIG: config file path
	Format      string // MDPIPE_FORMAT: html or tokens
	Encoding    string // MDPIPE_ENCODING: input charset
	Engine      string // MDPIPE_ENGINE: markdown or goldmark
	ChromaStyle string // MDPIPE_CHROMA_STYLE: code block style
	MaxNesting  int    // MDPIPE_MAX_NESTING: token tree depth limit
}

// knownEnvVars lists valid MDPIPE_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MDPIPE_CONFIG":       true,
	"MDPIPE_FORMAT":       true,
	"MDPIPE_ENCODING":     true,
	"MDPIPE_ENGINE":       true,
	"MDPIPE_CHROMA_STYLE": true,
	"MDPIPE_MAX_NESTING":  true,
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:  os.Getenv("MDPIPE_CONFIG"),
		Format:      os.Getenv("MDPIPE_FORMAT"),
		Encoding:    os.Getenv("MDPIPE_ENCODING"),
		Engine:      os.Getenv("MDPIPE_ENGINE"),
		ChromaStyle: os.Getenv("MDPIPE_CHROMA_STYLE"),
	}
	if v := os.Getenv("MDPIPE_MAX_NESTING"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxNesting = n
		}
	}
	return cfg
}

// warnUnknownEnvVars writes a warning for every MDPIPE_* variable that is
// not recognized, catching typos like MDPIPE_ENCODNIG.
func warnUnknownEnvVars(w io.Writer) {
	for _, kv := range os.Environ() {
		name, _, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, "MDPIPE_") {
			continue
		}
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s\n", name)
		}
	}
}
