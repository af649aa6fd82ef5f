package mdpipe

import "errors"

// Sentinel errors for pipeline operations.
var (
	// Resolution errors.
	ErrNestingTooDeep = errors.New("token tree nesting too deep")

	// File reading errors.
	ErrDecode          = errors.New("source decoding failed")
	ErrUnknownEncoding = errors.New("unknown encoding")

	// Rendering errors.
	ErrUnknownTokenKind = errors.New("unknown token kind")
	ErrHighlight        = errors.New("syntax highlighting failed")

	// Block engine errors.
	ErrUnsupportedNode = errors.New("unsupported syntax node")
)
