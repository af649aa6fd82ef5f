// Package mdpipe is a document-transformation pipeline: raw markup text
// goes through block segmentation, inline tokenization, and rendering, with
// registrable hooks between the stages.
//
// # Quick Start
//
// Create a pipeline and convert a document:
//
//	p := mdpipe.New(mdpipe.WithRenderer(mdpipe.NewHTMLRenderer()))
//	result, err := p.Convert("# Hello\n\nworld **bold**")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(result.(string))
//
// Without a renderer, the result is the resolved token tree ([]*Token),
// useful for tooling that consumes the document structure directly.
//
// # Pipeline Stages
//
// One Parse call runs these stages in a fixed order:
//
//  1. Line-ending normalization (\r\n and \r to \n, trailing \n ensured)
//  2. Block parsing: the BlockEngine populates the state's token tree
//  3. Resolution: raw text inside the tree is tokenized by the InlineEngine
//  4. Rendering: the Renderer consumes the resolved token stream
//
// Hooks registered via BeforeParse, BeforeRender, and AfterRender run
// between the stages in registration order; plugins installed with Use can
// register hooks or reconfigure the engines. Any failure in an engine, a
// hook, or the renderer aborts the pipeline and surfaces to the caller.
//
// # Engines
//
// The built-in engines cover a practical markdown subset. Both stages are
// replaceable: WithBlockEngine and WithInlineEngine accept any
// implementation of the small per-stage interfaces, and
// NewGoldmarkBlockEngine provides a CommonMark-grade block stage backed by
// goldmark.
//
// # Concurrency
//
// A Pipeline is safe for concurrent Parse calls once configured, as long as
// each call uses its own ParseState (pass nil to get a fresh one). Register
// hooks and plugins before sharing the pipeline; sharing one state between
// concurrent calls is undefined behavior.
package mdpipe
