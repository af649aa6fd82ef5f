package mdpipe

// StateHook runs at a fixed pipeline point and may freely mutate the parse
// state. A non-nil error aborts the remainder of the pipeline.
type StateHook func(p *Pipeline, st *ParseState) error

// RenderHook transforms the pipeline result after rendering. Hooks run as a
// left-to-right fold: each receives the previous hook's output and its
// return value feeds the next.
type RenderHook func(p *Pipeline, result any, st *ParseState) (any, error)

// hookRegistry holds the three ordered hook lists. Registration appends, no
// deduplication, no priorities; invocation is strict FIFO.
type hookRegistry struct {
	beforeParse  []StateHook
	beforeRender []StateHook
	afterRender  []RenderHook
}

// runState invokes state hooks in registration order, stopping at the first
// error.
func runState(hooks []StateHook, p *Pipeline, st *ParseState) error {
	for _, hook := range hooks {
		if err := hook(p, st); err != nil {
			return err
		}
	}
	return nil
}

// runRender folds the result through the after-render hooks in registration
// order. The last hook's return value is the pipeline result.
func (r *hookRegistry) runRender(p *Pipeline, result any, st *ParseState) (any, error) {
	for _, hook := range r.afterRender {
		var err error
		result, err = hook(p, result, st)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}
