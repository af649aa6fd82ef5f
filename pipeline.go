package mdpipe

import (
	"regexp"
	"strings"
)

// Line ending normalization: \r\n and bare \r collapse to \n.
var crlfOrCR = regexp.MustCompile(`\r\n?`)

// defaultMaxNesting bounds the token tree depth the resolver will walk.
// Deep enough for any real document, small enough to fail with
// ErrNestingTooDeep long before the call stack is at risk.
const defaultMaxNesting = 256

// pipelineConfig holds internal configuration for Pipeline.
type pipelineConfig struct {
	maxNesting int
	plugins    []Plugin
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithBlockEngine replaces the default markdown block engine.
func WithBlockEngine(engine BlockEngine) Option {
	return func(p *Pipeline) { p.block = engine }
}

// WithInlineEngine replaces the default markdown inline engine.
func WithInlineEngine(engine InlineEngine) Option {
	return func(p *Pipeline) { p.inline = engine }
}

// WithRenderer sets the renderer. Without one, Parse returns the resolved
// token slice as its result.
func WithRenderer(r Renderer) Option {
	return func(p *Pipeline) { p.renderer = r }
}

// WithMaxNesting sets the maximum token tree depth the resolver accepts.
// Panics if n <= 0 (programmer error, similar to time.NewTicker).
func WithMaxNesting(n int) Option {
	if n <= 0 {
		panic("mdpipe: WithMaxNesting depth must be positive")
	}
	return func(p *Pipeline) { p.cfg.maxNesting = n }
}

// WithPlugins installs plugins after all other options have been applied.
func WithPlugins(plugins ...Plugin) Option {
	return func(p *Pipeline) { p.cfg.plugins = append(p.cfg.plugins, plugins...) }
}

// Pipeline orchestrates the markdown-to-result pipeline: block parsing,
// hook execution, inline resolution, and rendering.
type Pipeline struct {
	cfg      pipelineConfig
	block    BlockEngine
	inline   InlineEngine
	renderer Renderer
	hooks    hookRegistry
}

// New creates a Pipeline with the built-in markdown engines and no renderer.
// Use options to customize behavior (e.g., WithRenderer, WithMaxNesting).
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:    pipelineConfig{maxNesting: defaultMaxNesting},
		block:  NewMarkdownBlockEngine(),
		inline: NewMarkdownInlineEngine(),
	}

	for _, opt := range opts {
		opt(p)
	}

	for _, plugin := range p.cfg.plugins {
		plugin(p)
	}

	return p
}

// Block returns the block engine, so plugins can reconfigure it.
func (p *Pipeline) Block() BlockEngine { return p.block }

// Inline returns the inline engine, so plugins can reconfigure it.
func (p *Pipeline) Inline() InlineEngine { return p.inline }

// Use installs a plugin by invoking it with the pipeline. Side effects only.
func (p *Pipeline) Use(plugin Plugin) {
	plugin(p)
}

// BeforeParse registers a hook that runs after the normalized source has
// been loaded into the state but before block parsing.
func (p *Pipeline) BeforeParse(hook StateHook) {
	p.hooks.beforeParse = append(p.hooks.beforeParse, hook)
}

// BeforeRender registers a hook that runs after block parsing has finished,
// before resolution and rendering.
func (p *Pipeline) BeforeRender(hook StateHook) {
	p.hooks.beforeRender = append(p.hooks.beforeRender, hook)
}

// AfterRender registers a hook that transforms the rendered result. Hooks
// chain in registration order.
func (p *Pipeline) AfterRender(hook RenderHook) {
	p.hooks.afterRender = append(p.hooks.afterRender, hook)
}

// Parse runs the full pipeline over source and returns the result together
// with the (possibly caller-supplied, now mutated) state.
//
// Source may use any line ending convention and need not end with a newline;
// it is normalized before any stage sees it. Failures in engines, the
// renderer, or hooks propagate to the caller unmodified: no retries, no
// partial results.
func (p *Pipeline) Parse(source string, st *ParseState) (any, *ParseState, error) {
	if st == nil {
		st = p.block.NewState()
	}
	if st.Env == nil {
		st.Env = Env{}
	}

	st.Process(normalizeNewlines(source))

	if err := runState(p.hooks.beforeParse, p, st); err != nil {
		return nil, st, err
	}

	if err := p.block.Parse(st); err != nil {
		return nil, st, err
	}

	if err := runState(p.hooks.beforeRender, p, st); err != nil {
		return nil, st, err
	}

	result, err := p.renderState(st)
	if err != nil {
		return nil, st, err
	}

	result, err = p.hooks.runRender(p, result, st)
	if err != nil {
		return nil, st, err
	}

	return result, st, nil
}

// Convert is the whole-document shorthand: it parses source with a fresh
// state and returns only the result. Empty source is treated as a single
// newline.
func (p *Pipeline) Convert(source string) (any, error) {
	if source == "" {
		source = "\n"
	}
	result, _, err := p.Parse(source, nil)
	return result, err
}

// renderState resolves the token tree and hands the lazy stream to the
// renderer. Without a renderer the drained token slice is the result.
func (p *Pipeline) renderState(st *ParseState) (any, error) {
	resolved := p.Resolve(st.Tokens, st.Env)

	if p.renderer != nil {
		return p.renderer.Render(resolved, st)
	}

	tokens := []*Token{}
	for tok, err := range resolved {
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}

// normalizeNewlines collapses all line endings to \n and guarantees a
// trailing newline, so the block engine always receives newline-terminated,
// uniformly delimited text.
func normalizeNewlines(s string) string {
	s = crlfOrCR.ReplaceAllString(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	return s
}
