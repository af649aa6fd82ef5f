package mdpipe

import "iter"

// BlockEngine segments raw source text into the initial token tree. The
// pipeline calls NewState once per document (unless the caller supplies a
// state), loads the normalized source with ParseState.Process, and then
// calls Parse exactly once.
type BlockEngine interface {
	// NewState returns a fresh ParseState for one document.
	NewState() *ParseState

	// Parse populates st.Tokens from the source previously loaded into st
	// via Process. Text-bearing blocks are emitted as raw leaves; nested
	// structures as containers.
	Parse(st *ParseState) error
}

// InlineEngine converts one span of markup text into an ordered sequence of
// inline tokens. It must not depend on any state beyond its arguments; it
// may read and write env. Empty input is valid and yields an empty sequence.
type InlineEngine interface {
	Tokenize(text string, env Env) ([]*Token, error)
}

// Renderer consumes the resolved token stream and produces the final result.
// The stream is lazy and single-pass; a renderer must drain it within one
// Render call. When a pipeline has no renderer, the collected token slice is
// the result.
type Renderer interface {
	Render(tokens iter.Seq2[*Token, error], st *ParseState) (any, error)
}

// Plugin mutates a Pipeline during installation: registering hooks, or
// reconfiguring the engine instances reachable from it. Plugins run
// synchronously and return nothing.
type Plugin func(*Pipeline)
