package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	mdpipe "github.com/alnah/go-mdpipe"
	"github.com/alnah/go-mdpipe/internal/config"
)

var errUsage = errors.New("usage: mdpipe [flags] <input.md | ->")

// run executes one conversion: resolve configuration, build the pipeline,
// parse the input, write the result.
func run(args []string, stdout, stderr io.Writer) error {
	flags, rest, err := parseFlags(args)
	if err != nil {
		return err
	}

	if flags.version {
		fmt.Fprintln(stdout, Version)
		return nil
	}

	warnUnknownEnvVars(stderr)

	cfg, err := resolveConfig(flags)
	if err != nil {
		return err
	}

	if len(rest) != 1 {
		return errUsage
	}
	input := rest[0]

	p := mdpipe.New(pipelineOptions(cfg)...)

	var result any
	if input == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		result, _, err = p.Parse(string(data), nil)
		if err != nil {
			return err
		}
	} else {
		if flags.verbose {
			fmt.Fprintf(stderr, "parsing %s (%s)\n", input, cfg.Render.Encoding)
		}
		result, _, err = p.Read(input, cfg.Render.Encoding, nil)
		if err != nil {
			return err
		}
	}

	output, err := formatResult(cfg, result)
	if err != nil {
		return err
	}

	return writeOutput(cfg.Output.Path, output, stdout)
}

// resolveConfig merges the three configuration layers: defaults and config
// file at the bottom, then environment variables, then flags.
func resolveConfig(flags *cliFlags) (*config.Config, error) {
	env := loadEnvConfig()

	cfg := config.Default()
	if path := firstNonEmpty(flags.config, env.ConfigPath); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	applyString(&cfg.Output.Format, env.Format, flags.format)
	applyString(&cfg.Output.Path, "", flags.out)
	applyString(&cfg.Render.Encoding, env.Encoding, flags.encoding)
	applyString(&cfg.Render.Engine, env.Engine, flags.engine)
	applyString(&cfg.Render.ChromaStyle, env.ChromaStyle, flags.style)
	if env.MaxNesting > 0 {
		cfg.Limits.MaxNesting = env.MaxNesting
	}
	if flags.maxNesting > 0 {
		cfg.Limits.MaxNesting = flags.maxNesting
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// pipelineOptions translates resolved config into pipeline options.
func pipelineOptions(cfg *config.Config) []mdpipe.Option {
	var opts []mdpipe.Option

	if strings.ToLower(cfg.Render.Engine) == config.EngineGoldmark {
		opts = append(opts, mdpipe.WithBlockEngine(mdpipe.NewGoldmarkBlockEngine()))
	}
	if cfg.Limits.MaxNesting > 0 {
		opts = append(opts, mdpipe.WithMaxNesting(cfg.Limits.MaxNesting))
	}
	if strings.ToLower(cfg.Output.Format) == config.FormatHTML {
		var ropts []mdpipe.HTMLOption
		if cfg.Render.ChromaStyle != "" {
			ropts = append(ropts, mdpipe.WithChromaStyle(cfg.Render.ChromaStyle))
		}
		opts = append(opts, mdpipe.WithRenderer(mdpipe.NewHTMLRenderer(ropts...)))
	}

	return opts
}

// formatResult turns the pipeline result into output bytes: HTML passes
// through, token trees serialize as indented JSON.
func formatResult(cfg *config.Config, result any) ([]byte, error) {
	if html, ok := result.(string); ok {
		return []byte(html), nil
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding tokens: %w", err)
	}
	return append(data, '\n'), nil
}

func writeOutput(path string, data []byte, stdout io.Writer) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// applyString overwrites dst with the last non-empty override, preserving
// the env-then-flag precedence order.
func applyString(dst *string, overrides ...string) {
	for _, v := range overrides {
		if v != "" {
			*dst = v
		}
	}
}
