package mdpipe

import "encoding/json"

// Attrs holds auxiliary token metadata such as a heading level or a link
// destination. The pipeline core never interprets its contents; attr keys
// are a contract between engines and renderers.
type Attrs map[string]any

// Token is one node of the document tree. Before resolution a token is in
// exactly one of three shapes: a container holding child tokens, a raw leaf
// holding markup text not yet tokenized at the inline level, or a plain leaf
// with neither. Resolution turns raw leaves into containers by handing their
// text to the inline engine; plain leaves pass through untouched.
//
// Raw presence is tracked separately from the raw string so that an empty
// raw text still counts as "raw present" and still reaches the inline
// engine.
type Token struct {
	Kind     string
	Attrs    Attrs
	Children []*Token

	raw    string
	hasRaw bool
}

// NewRawLeaf creates a raw-leaf token carrying untokenized markup text.
func NewRawLeaf(kind, raw string) *Token {
	return &Token{Kind: kind, raw: raw, hasRaw: true}
}

// NewContainer creates a container token holding the given children.
// A container always has a non-nil child slice, even when empty.
func NewContainer(kind string, children ...*Token) *Token {
	if children == nil {
		children = []*Token{}
	}
	return &Token{Kind: kind, Children: children}
}

// NewLeaf creates a plain leaf token with neither raw text nor children.
func NewLeaf(kind string) *Token {
	return &Token{Kind: kind}
}

// WithAttr sets one attr and returns the token for chained construction.
func (t *Token) WithAttr(key string, value any) *Token {
	if t.Attrs == nil {
		t.Attrs = Attrs{}
	}
	t.Attrs[key] = value
	return t
}

// Raw returns the raw markup text and whether the token is a raw leaf.
func (t *Token) Raw() (string, bool) {
	return t.raw, t.hasRaw
}

// SetRaw turns the token into a raw leaf, discarding any children.
func (t *Token) SetRaw(raw string) {
	t.raw = raw
	t.hasRaw = true
	t.Children = nil
}

// takeRaw removes and returns the raw text. Resolution calls this exactly
// once per raw leaf; afterwards the token no longer counts as raw.
func (t *Token) takeRaw() string {
	raw := t.raw
	t.raw = ""
	t.hasRaw = false
	return raw
}

// AttrString returns the named attr as a string, or "" when absent or not
// a string.
func (t *Token) AttrString(key string) string {
	s, _ := t.Attrs[key].(string)
	return s
}

// AttrInt returns the named attr as an int, or 0 when absent or not an int.
func (t *Token) AttrInt(key string) int {
	n, _ := t.Attrs[key].(int)
	return n
}

// AttrBool returns the named attr as a bool, or false when absent.
func (t *Token) AttrBool(key string) bool {
	b, _ := t.Attrs[key].(bool)
	return b
}

// tokenJSON is the wire shape used by MarshalJSON.
type tokenJSON struct {
	Kind     string   `json:"kind"`
	Raw      *string  `json:"raw,omitempty"`
	Attrs    Attrs    `json:"attrs,omitempty"`
	Children []*Token `json:"children,omitempty"`
}

// MarshalJSON serializes the token including its unexported raw text, so
// token trees can be dumped before as well as after resolution.
func (t *Token) MarshalJSON() ([]byte, error) {
	out := tokenJSON{
		Kind:     t.Kind,
		Attrs:    t.Attrs,
		Children: t.Children,
	}
	if t.hasRaw {
		out.Raw = &t.raw
	}
	return json.Marshal(out)
}
