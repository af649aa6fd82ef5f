package mdpipe

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// recordingInline tokenizes any span into a single text token and records
// exactly what reached the inline engine.
func recordingInline(record *[]string) *stubInlineEngine {
	return &stubInlineEngine{tokenize: func(text string, env Env) ([]*Token, error) {
		*record = append(*record, text)
		return []*Token{NewLeaf(KindText).WithAttr(AttrValue, text)}, nil
	}}
}

func collect(t *testing.T, p *Pipeline, tokens []*Token, env Env) []*Token {
	t.Helper()
	out := []*Token{}
	for tok, err := range p.Resolve(tokens, env) {
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		out = append(out, tok)
	}
	return out
}

func TestResolve_RawLeafGetsChildren(t *testing.T) {
	t.Parallel()

	var spans []string
	p := New(WithInlineEngine(recordingInline(&spans)))

	tokens := []*Token{NewRawLeaf(KindParagraph, "  hello  ")}
	out := collect(t, p, tokens, Env{})

	if len(out) != 1 {
		t.Fatalf("Resolve() yielded %d tokens, want 1", len(out))
	}
	if _, hasRaw := out[0].Raw(); hasRaw {
		t.Error("resolved token still carries raw text")
	}
	if out[0].Children == nil {
		t.Fatal("resolved token has no children")
	}
	// Whitespace is stripped from the text handed to the inline engine.
	if want := []string{"hello"}; !cmp.Equal(want, spans) {
		t.Errorf("inline engine saw spans %v, want %v", spans, want)
	}
}

func TestResolve_EmptyRawStillReachesInlineEngine(t *testing.T) {
	t.Parallel()

	var spans []string
	p := New(WithInlineEngine(recordingInline(&spans)))

	collect(t, p, []*Token{NewRawLeaf(KindParagraph, "   ")}, Env{})

	if len(spans) != 1 || spans[0] != "" {
		t.Errorf("inline engine saw spans %v, want one empty span", spans)
	}
}

func TestResolve_PlainLeafUntouched(t *testing.T) {
	t.Parallel()

	inline := &stubInlineEngine{tokenize: func(string, Env) ([]*Token, error) {
		return []*Token{}, nil
	}}
	p := New(WithInlineEngine(inline))

	leaf := NewLeaf(KindThematicBreak)
	out := collect(t, p, []*Token{leaf}, Env{})

	if out[0] != leaf {
		t.Error("plain leaf was replaced instead of passed through")
	}
	if leaf.Children != nil {
		t.Error("plain leaf gained children")
	}
	if inline.calls != 0 {
		t.Errorf("inline engine called %d times for a plain leaf", inline.calls)
	}
}

// TestResolve_PostOrder checks that a container's descendants are resolved
// before the container is yielded.
func TestResolve_PostOrder(t *testing.T) {
	t.Parallel()

	var spans []string
	p := New(WithInlineEngine(recordingInline(&spans)))

	inner := NewRawLeaf(KindParagraph, "inner")
	container := NewContainer(KindBlockQuote, inner)
	after := NewRawLeaf(KindParagraph, "after")

	var order []string
	for tok, err := range p.Resolve([]*Token{container, after}, Env{}) {
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		// By the time a token is yielded its whole subtree must be resolved.
		if tok == container {
			if _, hasRaw := inner.Raw(); hasRaw {
				t.Error("container yielded before its child was resolved")
			}
		}
		order = append(order, tok.Kind)
	}

	if want := []string{KindBlockQuote, KindParagraph}; !cmp.Equal(want, order) {
		t.Errorf("yield order = %v, want %v", order, want)
	}
	if want := []string{"inner", "after"}; !cmp.Equal(want, spans) {
		t.Errorf("inline span order = %v, want %v", spans, want)
	}
}

// TestResolve_Idempotent runs the resolver twice; the second pass must not
// re-tokenize anything because no raw text remains.
func TestResolve_Idempotent(t *testing.T) {
	t.Parallel()

	var spans []string
	inline := recordingInline(&spans)
	p := New(WithInlineEngine(inline))

	tokens := []*Token{
		NewContainer(KindBlockQuote, NewRawLeaf(KindParagraph, "a")),
		NewRawLeaf(KindParagraph, "b"),
	}

	first := collect(t, p, tokens, Env{})
	callsAfterFirst := inline.calls

	second := collect(t, p, tokens, Env{})
	if inline.calls != callsAfterFirst {
		t.Errorf("second resolve made %d extra inline calls", inline.calls-callsAfterFirst)
	}
	if diff := cmp.Diff(first, second, cmpTokens); diff != "" {
		t.Errorf("second resolve changed the tree (-first +second):\n%s", diff)
	}
}

// TestResolve_MutatesInPlace: later stages observe resolution through the
// original tree, not only through the yielded sequence.
func TestResolve_MutatesInPlace(t *testing.T) {
	t.Parallel()

	var spans []string
	p := New(WithInlineEngine(recordingInline(&spans)))

	tok := NewRawLeaf(KindParagraph, "text")
	collect(t, p, []*Token{tok}, Env{})

	if _, hasRaw := tok.Raw(); hasRaw {
		t.Error("original token still raw after resolution")
	}
	if len(tok.Children) != 1 {
		t.Errorf("original token has %d children, want 1", len(tok.Children))
	}
}

func TestResolve_NestingTooDeep(t *testing.T) {
	t.Parallel()

	p := New(WithMaxNesting(4), WithInlineEngine(&stubInlineEngine{}))

	// Chain of containers deeper than the limit.
	leaf := NewLeaf(KindThematicBreak)
	tok := leaf
	for range 10 {
		tok = NewContainer(KindBlockQuote, tok)
	}

	var got error
	for _, err := range p.Resolve([]*Token{tok}, Env{}) {
		if err != nil {
			got = err
			break
		}
	}
	if !errors.Is(got, ErrNestingTooDeep) {
		t.Errorf("Resolve() error = %v, want ErrNestingTooDeep", got)
	}
}

func TestResolve_DepthWithinLimit(t *testing.T) {
	t.Parallel()

	var spans []string
	p := New(WithMaxNesting(16), WithInlineEngine(recordingInline(&spans)))

	tok := NewRawLeaf(KindParagraph, "deep")
	wrapped := tok
	for range 10 {
		wrapped = NewContainer(KindBlockQuote, wrapped)
	}

	out := collect(t, p, []*Token{wrapped}, Env{})
	if len(out) != 1 {
		t.Fatalf("Resolve() yielded %d tokens, want 1", len(out))
	}
	if len(spans) != 1 {
		t.Errorf("inline engine saw %d spans, want 1", len(spans))
	}
}

// TestResolve_Lazy: stopping the consumer early leaves later tokens
// unresolved.
func TestResolve_Lazy(t *testing.T) {
	t.Parallel()

	var spans []string
	p := New(WithInlineEngine(recordingInline(&spans)))

	first := NewRawLeaf(KindParagraph, "first")
	second := NewRawLeaf(KindParagraph, "second")

	for tok, err := range p.Resolve([]*Token{first, second}, Env{}) {
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if tok == first {
			break
		}
	}

	if _, hasRaw := second.Raw(); !hasRaw {
		t.Error("second token was resolved although the consumer stopped early")
	}
	if want := []string{"first"}; !cmp.Equal(want, spans) {
		t.Errorf("inline engine saw %v, want %v", spans, want)
	}
}

func TestResolve_EnvSharedAcrossSpans(t *testing.T) {
	t.Parallel()

	inline := &stubInlineEngine{tokenize: func(text string, env Env) ([]*Token, error) {
		n, _ := env["count"].(int)
		env["count"] = n + 1
		return []*Token{}, nil
	}}
	p := New(WithInlineEngine(inline))

	env := Env{}
	collect(t, p, []*Token{
		NewRawLeaf(KindParagraph, "a"),
		NewRawLeaf(KindParagraph, "b"),
	}, env)

	if env["count"] != 2 {
		t.Errorf("env count = %v, want 2", env["count"])
	}
}
