package mdpipe

import (
	"regexp"
	"strings"
)

// Inline-level token kinds produced by the built-in inline engine.
const (
	KindText      = "text"
	KindCodeSpan  = "codespan"
	KindStrong    = "strong"
	KindEmphasis  = "emphasis"
	KindLink      = "link"
	KindImage     = "image"
	KindLineBreak = "linebreak"
	KindSoftBreak = "softbreak"
)

// Precompiled inline-level patterns. Rule order decides ties when two
// patterns match at the same position, so strong is tried before emphasis
// and images before links.
var (
	codeSpanPat = regexp.MustCompile("`([^`\n]*)`")
	imagePat    = regexp.MustCompile(`!\[([^\]]*)\]\(([^()\s]*)(?:\s+"([^"]*)")?\)`)
	linkPat     = regexp.MustCompile(`\[([^\]]*)\]\(([^()\s]*)(?:\s+"([^"]*)")?\)`)
	autolinkPat = regexp.MustCompile(`<(https?://[^<>\s]+)>`)
	strongPat   = regexp.MustCompile(`\*\*(.+?)\*\*|__(.+?)__`)
	emphasisPat = regexp.MustCompile(`\*([^*\n]+)\*|_([^_\n]+)_`)
	hardBreak   = regexp.MustCompile(` {2,}\n`)
)

// inlineRule pairs a pattern with the token it emits. The emit callback
// receives the submatch indexes into text.
type inlineRule struct {
	pat  *regexp.Regexp
	emit func(e *markdownInlineEngine, text string, m []int, env Env) (*Token, error)
}

// markdownInlineEngine is the default InlineEngine: a scanner over a fixed
// rule table covering code spans, images, links, autolinks, strong,
// emphasis, and hard/soft line breaks. Emitted tokens are fully resolved;
// nested emphasis comes from re-tokenizing the matched interior.
type markdownInlineEngine struct {
	rules []inlineRule
}

// NewMarkdownInlineEngine creates the built-in markdown inline engine.
func NewMarkdownInlineEngine() InlineEngine {
	return &markdownInlineEngine{rules: []inlineRule{
		{codeSpanPat, emitCodeSpan},
		{imagePat, emitImage},
		{linkPat, emitLink},
		{autolinkPat, emitAutolink},
		{strongPat, emitStrong},
		{emphasisPat, emitEmphasis},
		{hardBreak, emitLineBreak},
	}}
}

// Tokenize scans text left to right, emitting the earliest-matching rule
// each step and plain text tokens for the spans in between. Empty input
// yields an empty, non-nil sequence.
func (e *markdownInlineEngine) Tokenize(text string, env Env) ([]*Token, error) {
	tokens := []*Token{}
	rest := text
	for rest != "" {
		rule, m := e.earliestMatch(rest)
		if rule == nil {
			tokens = appendText(tokens, rest)
			break
		}

		tokens = appendText(tokens, rest[:m[0]])
		tok, err := rule.emit(e, rest, m, env)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		rest = rest[m[1]:]
	}
	return tokens, nil
}

// earliestMatch returns the rule matching closest to the start of text,
// with rule table order breaking ties.
func (e *markdownInlineEngine) earliestMatch(text string) (*inlineRule, []int) {
	var best *inlineRule
	var bestLoc []int
	for i := range e.rules {
		loc := e.rules[i].pat.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}
		if bestLoc == nil || loc[0] < bestLoc[0] {
			best = &e.rules[i]
			bestLoc = loc
		}
	}
	return best, bestLoc
}

// appendText splits a plain span on newlines, emitting text tokens
// interleaved with soft breaks. Empty spans emit nothing.
func appendText(tokens []*Token, span string) []*Token {
	for span != "" {
		nl := strings.IndexByte(span, '\n')
		if nl < 0 {
			return append(tokens, textToken(span))
		}
		if nl > 0 {
			tokens = append(tokens, textToken(span[:nl]))
		}
		tokens = append(tokens, NewLeaf(KindSoftBreak))
		span = span[nl+1:]
	}
	return tokens
}

func textToken(value string) *Token {
	return NewLeaf(KindText).WithAttr(AttrValue, value)
}

// group returns the text of submatch n, or "" when it did not participate.
func group(text string, m []int, n int) string {
	if m[2*n] < 0 {
		return ""
	}
	return text[m[2*n]:m[2*n+1]]
}

func emitCodeSpan(_ *markdownInlineEngine, text string, m []int, _ Env) (*Token, error) {
	return NewLeaf(KindCodeSpan).WithAttr(AttrCode, group(text, m, 1)), nil
}

func emitImage(e *markdownInlineEngine, text string, m []int, env Env) (*Token, error) {
	children, err := e.Tokenize(group(text, m, 1), env)
	if err != nil {
		return nil, err
	}
	tok := NewContainer(KindImage, children...).WithAttr(AttrURL, group(text, m, 2))
	if title := group(text, m, 3); title != "" {
		tok.WithAttr(AttrTitle, title)
	}
	return tok, nil
}

func emitLink(e *markdownInlineEngine, text string, m []int, env Env) (*Token, error) {
	children, err := e.Tokenize(group(text, m, 1), env)
	if err != nil {
		return nil, err
	}
	tok := NewContainer(KindLink, children...).WithAttr(AttrURL, group(text, m, 2))
	if title := group(text, m, 3); title != "" {
		tok.WithAttr(AttrTitle, title)
	}
	return tok, nil
}

func emitAutolink(_ *markdownInlineEngine, text string, m []int, _ Env) (*Token, error) {
	url := group(text, m, 1)
	return NewContainer(KindLink, textToken(url)).WithAttr(AttrURL, url), nil
}

func emitStrong(e *markdownInlineEngine, text string, m []int, env Env) (*Token, error) {
	inner := group(text, m, 1)
	if inner == "" {
		inner = group(text, m, 2)
	}
	children, err := e.Tokenize(inner, env)
	if err != nil {
		return nil, err
	}
	return NewContainer(KindStrong, children...), nil
}

func emitEmphasis(e *markdownInlineEngine, text string, m []int, env Env) (*Token, error) {
	inner := group(text, m, 1)
	if inner == "" {
		inner = group(text, m, 2)
	}
	children, err := e.Tokenize(inner, env)
	if err != nil {
		return nil, err
	}
	return NewContainer(KindEmphasis, children...), nil
}

func emitLineBreak(_ *markdownInlineEngine, _ string, _ []int, _ Env) (*Token, error) {
	return NewLeaf(KindLineBreak), nil
}
