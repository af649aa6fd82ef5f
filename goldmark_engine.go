package mdpipe

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// GoldmarkBlockEngine adapts goldmark's block parser to the BlockEngine
// interface. Block structure comes from goldmark's CommonMark segmenter;
// inline markup stays as raw text for whatever InlineEngine the pipeline
// carries, so the two stages remain independently replaceable.
var _ BlockEngine = (*GoldmarkBlockEngine)(nil)

type GoldmarkBlockEngine struct {
	parser parser.Parser
}

// NewGoldmarkBlockEngine creates a block engine backed by goldmark's
// default block parsers only (no inline parsing).
func NewGoldmarkBlockEngine() *GoldmarkBlockEngine {
	return &GoldmarkBlockEngine{
		parser: parser.NewParser(
			parser.WithBlockParsers(parser.DefaultBlockParsers()...),
			parser.WithParagraphTransformers(parser.DefaultParagraphTransformers()...),
		),
	}
}

func (e *GoldmarkBlockEngine) NewState() *ParseState {
	return NewParseState()
}

func (e *GoldmarkBlockEngine) Parse(st *ParseState) error {
	source := []byte(st.Source())
	doc := e.parser.Parse(text.NewReader(source))

	tokens, err := convertNodes(doc, source)
	if err != nil {
		return err
	}
	st.Tokens = tokens
	return nil
}

// convertNodes converts the children of a goldmark node into tokens.
func convertNodes(parent ast.Node, source []byte) ([]*Token, error) {
	tokens := []*Token{}
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		tok, err := convertNode(n, source)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}

// convertNode maps one goldmark AST node onto the pipeline token
// vocabulary. Text-bearing blocks become raw leaves, nested structures
// containers, literal blocks plain leaves.
func convertNode(n ast.Node, source []byte) (*Token, error) {
	switch n := n.(type) {
	case *ast.Heading:
		return NewRawLeaf(KindHeading, nodeText(n, source)).WithAttr(AttrLevel, n.Level), nil

	case *ast.Paragraph:
		return NewRawLeaf(KindParagraph, nodeText(n, source)), nil

	case *ast.TextBlock:
		return NewRawLeaf(KindParagraph, nodeText(n, source)), nil

	case *ast.Blockquote:
		children, err := convertNodes(n, source)
		if err != nil {
			return nil, err
		}
		return NewContainer(KindBlockQuote, children...), nil

	case *ast.List:
		children, err := convertNodes(n, source)
		if err != nil {
			return nil, err
		}
		tok := NewContainer(KindList, children...).WithAttr(AttrOrdered, n.IsOrdered())
		if n.IsOrdered() {
			tok.WithAttr(AttrStart, n.Start)
		}
		return tok, nil

	case *ast.ListItem:
		children, err := convertNodes(n, source)
		if err != nil {
			return nil, err
		}
		return NewContainer(KindListItem, children...), nil

	case *ast.FencedCodeBlock:
		tok := NewLeaf(KindBlockCode).WithAttr(AttrCode, nodeLines(n, source))
		if lang := n.Language(source); len(lang) > 0 {
			tok.WithAttr(AttrInfo, string(lang))
		}
		return tok, nil

	case *ast.CodeBlock:
		return NewLeaf(KindBlockCode).WithAttr(AttrCode, nodeLines(n, source)), nil

	case *ast.ThematicBreak:
		return NewLeaf(KindThematicBreak), nil

	case *ast.HTMLBlock:
		return NewLeaf(KindBlockHTML).WithAttr(AttrValue, nodeLines(n, source)), nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedNode, n.Kind())
	}
}

// nodeLines concatenates a node's line segments verbatim, keeping the
// per-line newlines (code block content).
func nodeLines(n ast.Node, source []byte) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(source))
	}
	return b.String()
}

// nodeText joins a node's line segments as raw inline text, trimming the
// trailing newline goldmark keeps on each segment.
func nodeText(n ast.Node, source []byte) string {
	var parts []string
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		parts = append(parts, strings.TrimRight(string(seg.Value(source)), "\n"))
	}
	return strings.Join(parts, "\n")
}
