package mdpipe

import (
	"fmt"
	"html"
	"iter"
	"strconv"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// defaultChromaStyle is used when no style is configured.
const defaultChromaStyle = "github"

// HTMLRenderer renders the resolved token stream as an HTML fragment.
// Fenced code blocks with a language info string are syntax-highlighted
// with chroma; all other text content is escaped.
var _ Renderer = (*HTMLRenderer)(nil)

type HTMLRenderer struct {
	chromaStyle string
}

// HTMLOption configures an HTMLRenderer.
type HTMLOption func(*HTMLRenderer)

// WithChromaStyle sets the chroma style used for highlighted code blocks.
func WithChromaStyle(name string) HTMLOption {
	return func(r *HTMLRenderer) { r.chromaStyle = name }
}

// NewHTMLRenderer creates an HTMLRenderer with default configuration.
func NewHTMLRenderer(opts ...HTMLOption) *HTMLRenderer {
	r := &HTMLRenderer{chromaStyle: defaultChromaStyle}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render drains the resolved stream and returns the HTML fragment as a
// string. The first error in the stream or an unknown token kind aborts
// rendering.
func (r *HTMLRenderer) Render(tokens iter.Seq2[*Token, error], st *ParseState) (any, error) {
	var b strings.Builder
	for tok, err := range tokens {
		if err != nil {
			return nil, err
		}
		if err := r.renderToken(&b, tok); err != nil {
			return nil, err
		}
	}
	return b.String(), nil
}

func (r *HTMLRenderer) renderToken(b *strings.Builder, tok *Token) error {
	switch tok.Kind {
	case KindParagraph:
		b.WriteString("<p>")
		if err := r.renderChildren(b, tok); err != nil {
			return err
		}
		b.WriteString("</p>\n")

	case KindHeading:
		level := tok.AttrInt(AttrLevel)
		if level < 1 || level > 6 {
			level = 1
		}
		tag := "h" + strconv.Itoa(level)
		b.WriteString("<" + tag + ">")
		if err := r.renderChildren(b, tok); err != nil {
			return err
		}
		b.WriteString("</" + tag + ">\n")

	case KindBlockQuote:
		b.WriteString("<blockquote>\n")
		if err := r.renderChildren(b, tok); err != nil {
			return err
		}
		b.WriteString("</blockquote>\n")

	case KindList:
		return r.renderList(b, tok)

	case KindListItem:
		b.WriteString("<li>")
		if err := r.renderChildren(b, tok); err != nil {
			return err
		}
		b.WriteString("</li>\n")

	case KindBlockCode:
		return r.renderCode(b, tok)

	case KindBlockHTML:
		// Raw HTML passes through verbatim.
		b.WriteString(tok.AttrString(AttrValue))

	case KindThematicBreak:
		b.WriteString("<hr />\n")

	case KindText:
		b.WriteString(html.EscapeString(tok.AttrString(AttrValue)))

	case KindCodeSpan:
		b.WriteString("<code>")
		b.WriteString(html.EscapeString(tok.AttrString(AttrCode)))
		b.WriteString("</code>")

	case KindStrong:
		b.WriteString("<strong>")
		if err := r.renderChildren(b, tok); err != nil {
			return err
		}
		b.WriteString("</strong>")

	case KindEmphasis:
		b.WriteString("<em>")
		if err := r.renderChildren(b, tok); err != nil {
			return err
		}
		b.WriteString("</em>")

	case KindLink:
		b.WriteString(`<a href="` + html.EscapeString(tok.AttrString(AttrURL)) + `"`)
		if title := tok.AttrString(AttrTitle); title != "" {
			b.WriteString(` title="` + html.EscapeString(title) + `"`)
		}
		b.WriteString(">")
		if err := r.renderChildren(b, tok); err != nil {
			return err
		}
		b.WriteString("</a>")

	case KindImage:
		b.WriteString(`<img src="` + html.EscapeString(tok.AttrString(AttrURL)) + `"`)
		b.WriteString(` alt="` + html.EscapeString(plainText(tok)) + `"`)
		if title := tok.AttrString(AttrTitle); title != "" {
			b.WriteString(` title="` + html.EscapeString(title) + `"`)
		}
		b.WriteString(" />")

	case KindLineBreak:
		b.WriteString("<br />\n")

	case KindSoftBreak:
		b.WriteString("\n")

	default:
		return fmt.Errorf("%w: %q", ErrUnknownTokenKind, tok.Kind)
	}
	return nil
}

func (r *HTMLRenderer) renderChildren(b *strings.Builder, tok *Token) error {
	for _, child := range tok.Children {
		if err := r.renderToken(b, child); err != nil {
			return err
		}
	}
	return nil
}

func (r *HTMLRenderer) renderList(b *strings.Builder, tok *Token) error {
	tag := "ul"
	open := "<ul>\n"
	if tok.AttrBool(AttrOrdered) {
		tag = "ol"
		open = "<ol>\n"
		if start := tok.AttrInt(AttrStart); start > 1 {
			open = `<ol start="` + strconv.Itoa(start) + "\">\n"
		}
	}
	b.WriteString(open)
	if err := r.renderChildren(b, tok); err != nil {
		return err
	}
	b.WriteString("</" + tag + ">\n")
	return nil
}

// renderCode emits a fenced code block, highlighted via chroma when the
// fence names a language chroma knows.
func (r *HTMLRenderer) renderCode(b *strings.Builder, tok *Token) error {
	code := tok.AttrString(AttrCode)
	info := tok.AttrString(AttrInfo)

	lexer := lexers.Get(info)
	if info == "" || lexer == nil {
		b.WriteString("<pre><code")
		if info != "" {
			b.WriteString(` class="language-` + html.EscapeString(info) + `"`)
		}
		b.WriteString(">")
		b.WriteString(html.EscapeString(code))
		b.WriteString("</code></pre>\n")
		return nil
	}

	style := styles.Get(r.chromaStyle)
	if style == nil {
		style = styles.Fallback
	}

	iterator, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrHighlight, err)
	}
	if err := chromahtml.New().Format(b, style, iterator); err != nil {
		return fmt.Errorf("%w: %v", ErrHighlight, err)
	}
	b.WriteString("\n")
	return nil
}

// plainText flattens a token subtree to its visible text, used for image
// alt attributes.
func plainText(tok *Token) string {
	var b strings.Builder
	appendPlainText(&b, tok)
	return b.String()
}

func appendPlainText(b *strings.Builder, tok *Token) {
	switch tok.Kind {
	case KindText:
		b.WriteString(tok.AttrString(AttrValue))
	case KindCodeSpan:
		b.WriteString(tok.AttrString(AttrCode))
	case KindSoftBreak, KindLineBreak:
		b.WriteString(" ")
	default:
		for _, child := range tok.Children {
			appendPlainText(b, child)
		}
	}
}
