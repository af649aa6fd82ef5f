package mdpipe

import (
	"fmt"
	"iter"
	"strings"
)

// Resolve walks tokens depth-first and post-order, replacing each raw leaf's
// text with the inline tokens the inline engine produces for it. Containers
// are recursed into and their children fully materialized before the parent
// is considered resolved; plain leaves pass through untouched.
//
// The returned sequence is lazy, finite, and single-pass: each top-level
// token is yielded once, immediately after its whole subtree is resolved.
// It is not restartable; traversing again requires calling Resolve on the
// (now mutated) tree a second time. Resolution mutates the tokens in place,
// so later stages observe the resolved tree through the state as well.
//
// A tree nested deeper than the configured maximum yields ErrNestingTooDeep.
func (p *Pipeline) Resolve(tokens []*Token, env Env) iter.Seq2[*Token, error] {
	return func(yield func(*Token, error) bool) {
		for _, tok := range tokens {
			if err := p.resolveToken(tok, env, 0); err != nil {
				yield(nil, err)
				return
			}
			if !yield(tok, nil) {
				return
			}
		}
	}
}

// resolveToken resolves one token and its subtree in place.
func (p *Pipeline) resolveToken(tok *Token, env Env, depth int) error {
	if depth >= p.cfg.maxNesting {
		return fmt.Errorf("%w: depth %d exceeds limit %d", ErrNestingTooDeep, depth+1, p.cfg.maxNesting)
	}

	switch {
	case tok.Children != nil:
		for _, child := range tok.Children {
			if err := p.resolveToken(child, env, depth+1); err != nil {
				return err
			}
		}

	case tok.hasRaw:
		// Stripping applies only to the text handed to the inline engine.
		// An empty span still goes through: the engine owns that case.
		text := strings.TrimSpace(tok.takeRaw())
		children, err := p.inline.Tokenize(text, env)
		if err != nil {
			return err
		}
		if children == nil {
			children = []*Token{}
		}
		tok.Children = children
	}

	return nil
}
