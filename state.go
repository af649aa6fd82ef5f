package mdpipe

// EnvSourceFile is the reserved Env key under which Read records the path of
// the file being parsed, before decoding begins.
const EnvSourceFile = "__file__"

// Env is the cross-stage environment mapping shared by block parsing, inline
// tokenization, and hooks within one document parse. Callers may reuse the
// same Env across documents, e.g. to share a link-reference registry.
type Env map[string]any

// ParseState is the per-document container of the token tree and the
// environment. It is created once per Parse invocation, mutated in place by
// every stage, and returned to the caller.
//
// A ParseState is exclusively owned by one in-flight Parse call. Sharing one
// state between concurrent calls is undefined behavior; callers needing
// parallelism must use one state per document.
type ParseState struct {
	// Tokens is the top-level token sequence, populated by the block engine
	// and freely mutable by hooks.
	Tokens []*Token

	// Env carries values across stages for the lifetime of the parse.
	Env Env

	src string
}

// NewParseState returns an empty state with an initialized environment.
func NewParseState() *ParseState {
	return &ParseState{Env: Env{}}
}

// Process loads normalized source text into the state for block parsing.
func (s *ParseState) Process(source string) {
	s.src = source
}

// Source returns the text loaded by Process.
func (s *ParseState) Source() string {
	return s.src
}
