package mdpipe

import (
	"regexp"
	"strconv"
	"strings"
)

// Block-level token kinds produced by the built-in engines.
const (
	KindParagraph     = "paragraph"
	KindHeading       = "heading"
	KindBlockQuote    = "block_quote"
	KindList          = "list"
	KindListItem      = "list_item"
	KindBlockCode     = "block_code"
	KindBlockHTML     = "block_html"
	KindThematicBreak = "thematic_break"
)

// Attr keys shared by the built-in engines and the HTML renderer.
const (
	AttrLevel   = "level"   // heading level, int 1..6
	AttrInfo    = "info"    // fence info string
	AttrCode    = "code"    // literal code text
	AttrOrdered = "ordered" // list order flag, bool
	AttrStart   = "start"   // ordered list start number, int
	AttrValue   = "value"   // text content
	AttrURL     = "url"     // link/image destination
	AttrTitle   = "title"   // link/image title
)

// Precompiled block-level patterns.
var (
	atxHeading     = regexp.MustCompile(`^ {0,3}(#{1,6})(?:\s+(.*?))?\s*#*\s*$`)
	fencedOpen     = regexp.MustCompile("^ {0,3}(`{3,}|~{3,})\\s*([^`\\s]*)\\s*$")
	thematicBreak  = regexp.MustCompile(`^ {0,3}(?:(?:\*\s*){3,}|(?:-\s*){3,}|(?:_\s*){3,})$`)
	blockQuoteLine = regexp.MustCompile(`^ {0,3}> ?(.*)$`)
	unorderedItem  = regexp.MustCompile(`^ {0,3}([-*+])\s+(.*)$`)
	orderedItem    = regexp.MustCompile(`^ {0,3}(\d{1,9})[.)]\s+(.*)$`)
	itemIndent     = regexp.MustCompile(`^(?:    |\t)(.*)$`)
)

// markdownBlockEngine is the default BlockEngine: a line-oriented segmenter
// covering ATX headings, fenced code, thematic breaks, block quotes, lists,
// and paragraphs. Inline markup inside text-bearing blocks is left as raw
// text for the resolver.
type markdownBlockEngine struct{}

// NewMarkdownBlockEngine creates the built-in markdown block engine.
func NewMarkdownBlockEngine() BlockEngine {
	return &markdownBlockEngine{}
}

func (e *markdownBlockEngine) NewState() *ParseState {
	return NewParseState()
}

func (e *markdownBlockEngine) Parse(st *ParseState) error {
	lines := strings.Split(st.Source(), "\n")
	// Source is newline-terminated, so the split leaves one empty tail.
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	st.Tokens = e.parseBlocks(lines)
	return nil
}

// parseBlocks segments lines into a token sequence, recursing for block
// quote and list item content.
func (e *markdownBlockEngine) parseBlocks(lines []string) []*Token {
	tokens := []*Token{}
	i := 0
	for i < len(lines) {
		line := lines[i]
		switch {
		case isBlankLine(line):
			i++

		case atxHeading.MatchString(line):
			m := atxHeading.FindStringSubmatch(line)
			tokens = append(tokens, NewRawLeaf(KindHeading, m[2]).WithAttr(AttrLevel, len(m[1])))
			i++

		case fencedOpen.MatchString(line):
			var tok *Token
			tok, i = e.parseFence(lines, i)
			tokens = append(tokens, tok)

		case thematicBreak.MatchString(line):
			tokens = append(tokens, NewLeaf(KindThematicBreak))
			i++

		case blockQuoteLine.MatchString(line):
			var tok *Token
			tok, i = e.parseBlockQuote(lines, i)
			tokens = append(tokens, tok)

		case unorderedItem.MatchString(line), orderedItem.MatchString(line):
			var tok *Token
			tok, i = e.parseList(lines, i)
			tokens = append(tokens, tok)

		default:
			var tok *Token
			tok, i = e.parseParagraph(lines, i)
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// parseFence consumes a fenced code block starting at lines[start]. An
// unclosed fence runs to the end of input.
func (e *markdownBlockEngine) parseFence(lines []string, start int) (*Token, int) {
	m := fencedOpen.FindStringSubmatch(lines[start])
	marker, info := m[1], m[2]

	var code strings.Builder
	i := start + 1
	for ; i < len(lines); i++ {
		if isFenceClose(lines[i], marker) {
			i++
			break
		}
		code.WriteString(lines[i])
		code.WriteString("\n")
	}

	tok := NewLeaf(KindBlockCode).WithAttr(AttrCode, code.String())
	if info != "" {
		tok.WithAttr(AttrInfo, info)
	}
	return tok, i
}

// isFenceClose reports whether line closes a fence opened by marker: same
// fence character, at least as long, nothing else on the line.
func isFenceClose(line, marker string) bool {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) < len(marker) {
		return false
	}
	return strings.Trim(trimmed, marker[:1]) == ""
}

// parseBlockQuote consumes consecutive quoted lines and parses the stripped
// content recursively into a container token.
func (e *markdownBlockEngine) parseBlockQuote(lines []string, start int) (*Token, int) {
	var inner []string
	i := start
	for ; i < len(lines); i++ {
		m := blockQuoteLine.FindStringSubmatch(lines[i])
		if m == nil {
			break
		}
		inner = append(inner, m[1])
	}
	return NewContainer(KindBlockQuote, e.parseBlocks(inner)...), i
}

// parseList consumes a run of same-flavor list items. Each item's first line
// plus its indented continuation lines are parsed recursively, so items can
// hold paragraphs, nested lists, or quotes.
func (e *markdownBlockEngine) parseList(lines []string, start int) (*Token, int) {
	ordered := orderedItem.MatchString(lines[start])
	itemPat := unorderedItem
	if ordered {
		itemPat = orderedItem
	}

	var items []*Token
	startNum := 1
	i := start
	for i < len(lines) {
		m := itemPat.FindStringSubmatch(lines[i])
		if m == nil {
			break
		}
		if ordered && len(items) == 0 {
			if n, err := strconv.Atoi(m[1]); err == nil {
				startNum = n
			}
		}

		inner := []string{m[2]}
		i++
		for i < len(lines) {
			if cont := itemIndent.FindStringSubmatch(lines[i]); cont != nil {
				inner = append(inner, cont[1])
				i++
				continue
			}
			// A blank line stays inside the item only when an indented
			// continuation or another item follows.
			if isBlankLine(lines[i]) && i+1 < len(lines) &&
				(itemIndent.MatchString(lines[i+1]) || itemPat.MatchString(lines[i+1])) {
				inner = append(inner, "")
				i++
				continue
			}
			break
		}
		items = append(items, NewContainer(KindListItem, e.parseBlocks(inner)...))
	}

	list := NewContainer(KindList, items...).WithAttr(AttrOrdered, ordered)
	if ordered {
		list.WithAttr(AttrStart, startNum)
	}
	return list, i
}

// parseParagraph gathers lines until a blank line or the start of another
// block construct, joining them into one raw leaf.
func (e *markdownBlockEngine) parseParagraph(lines []string, start int) (*Token, int) {
	var text []string
	i := start
	for ; i < len(lines); i++ {
		if isBlankLine(lines[i]) || (i > start && interruptsParagraph(lines[i])) {
			break
		}
		text = append(text, lines[i])
	}
	return NewRawLeaf(KindParagraph, strings.Join(text, "\n")), i
}

// interruptsParagraph reports whether line starts a construct that ends a
// running paragraph without a blank line in between.
func interruptsParagraph(line string) bool {
	return atxHeading.MatchString(line) ||
		fencedOpen.MatchString(line) ||
		thematicBreak.MatchString(line) ||
		blockQuoteLine.MatchString(line) ||
		unorderedItem.MatchString(line)
}

func isBlankLine(line string) bool {
	return strings.TrimSpace(line) == ""
}
