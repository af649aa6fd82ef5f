package mdpipe

import (
	"strings"
	"testing"
)

// renderHTML runs the full default pipeline with the HTML renderer.
func renderHTML(t *testing.T, source string, opts ...HTMLOption) string {
	t.Helper()
	p := New(WithRenderer(NewHTMLRenderer(opts...)))
	result, err := p.Convert(source)
	if err != nil {
		t.Fatalf("Convert(%q) error = %v", source, err)
	}
	html, ok := result.(string)
	if !ok {
		t.Fatalf("result type = %T, want string", result)
	}
	return html
}

func TestHTMLRenderer_Fragments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		input        string
		wantContains []string
		wantNot      []string
	}{
		{
			name:         "paragraph",
			input:        "hello world",
			wantContains: []string{"<p>hello world</p>"},
		},
		{
			name:         "heading",
			input:        "## Section",
			wantContains: []string{"<h2>Section</h2>"},
		},
		{
			name:         "strong and emphasis",
			input:        "a **b** *c*",
			wantContains: []string{"<strong>b</strong>", "<em>c</em>"},
		},
		{
			name:         "code span",
			input:        "run `ls -la` now",
			wantContains: []string{"<code>ls -la</code>"},
		},
		{
			name:         "link",
			input:        "[home](https://example.com)",
			wantContains: []string{`<a href="https://example.com">home</a>`},
		},
		{
			name:         "link with title",
			input:        `[home](https://example.com "Home page")`,
			wantContains: []string{`title="Home page"`},
		},
		{
			name:         "image alt from label",
			input:        "![the logo](logo.png)",
			wantContains: []string{`<img src="logo.png"`, `alt="the logo"`},
		},
		{
			name:         "blockquote",
			input:        "> quoted",
			wantContains: []string{"<blockquote>", "<p>quoted</p>", "</blockquote>"},
		},
		{
			name:         "unordered list",
			input:        "- one\n- two",
			wantContains: []string{"<ul>", "<li>", "one", "two", "</ul>"},
			wantNot:      []string{"<ol>"},
		},
		{
			name:         "ordered list with start",
			input:        "3. three\n4. four",
			wantContains: []string{`<ol start="3">`, "</ol>"},
		},
		{
			name:         "thematic break",
			input:        "---",
			wantContains: []string{"<hr />"},
		},
		{
			name:         "hard break",
			input:        "one  \ntwo",
			wantContains: []string{"<br />"},
		},
		{
			name:         "text is escaped",
			input:        "a < b & c",
			wantContains: []string{"a &lt; b &amp; c"},
			wantNot:      []string{"a < b & c"},
		},
		{
			name:         "code without language",
			input:        "```\n<raw>\n```",
			wantContains: []string{"<pre><code>", "&lt;raw&gt;"},
			wantNot:      []string{"<raw>"},
		},
		{
			name:         "code with unknown language keeps class",
			input:        "```nosuchlang\nx\n```",
			wantContains: []string{`class="language-nosuchlang"`},
		},
		{
			name:         "code with known language is highlighted",
			input:        "```go\nfunc main() {}\n```",
			wantContains: []string{"<pre", "func", "main"},
			wantNot:      []string{"language-go"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := renderHTML(t, tt.input)
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("output missing %q:\n%s", want, got)
				}
			}
			for _, not := range tt.wantNot {
				if strings.Contains(got, not) {
					t.Errorf("output should not contain %q:\n%s", not, got)
				}
			}
		})
	}
}

func TestHTMLRenderer_ChromaStyleOption(t *testing.T) {
	t.Parallel()

	// An unknown style falls back rather than failing.
	got := renderHTML(t, "```go\nx := 1\n```", WithChromaStyle("no-such-style"))
	if !strings.Contains(got, "<pre") {
		t.Errorf("fallback style produced no code block:\n%s", got)
	}
}

func TestHTMLRenderer_UnknownKind(t *testing.T) {
	t.Parallel()

	p := New(
		WithBlockEngine(staticBlock(NewLeaf("mystery"))),
		WithRenderer(NewHTMLRenderer()),
	)
	_, _, err := p.Parse("x\n", nil)
	if err == nil || !strings.Contains(err.Error(), "unknown token kind") {
		t.Errorf("Parse() error = %v, want unknown token kind", err)
	}
}

func TestHTMLRenderer_WholeDocument(t *testing.T) {
	t.Parallel()

	source := "# Title\n\nIntro with **bold**.\n\n- a\n- b\n"
	got := renderHTML(t, source)

	wantOrder := []string{"<h1>Title</h1>", "<p>Intro with <strong>bold</strong>.</p>", "<ul>"}
	pos := 0
	for _, want := range wantOrder {
		idx := strings.Index(got[pos:], want)
		if idx < 0 {
			t.Fatalf("output missing %q in order:\n%s", want, got)
		}
		pos += idx
	}
}
