package analytics

import "sync/atomic"

// Holder publishes the current engine. Readers never observe a partially
// built engine; a refresh builds a new one and swaps it in.
type Holder struct {
	p atomic.Pointer[Engine]
}

// NewHolder returns a holder publishing e, which may be nil.
func NewHolder(e *Engine) *Holder {
	h := &Holder{}
	if e != nil {
		h.p.Store(e)
	}
	return h
}

// Current returns the published engine or ErrNotLoaded.
func (h *Holder) Current() (*Engine, error) {
	e := h.p.Load()
	if e == nil {
		return nil, ErrNotLoaded
	}
	return e, nil
}

// Swap publishes e and returns the engine it replaced, if any.
func (h *Holder) Swap(e *Engine) *Engine {
	return h.p.Swap(e)
}

// Loaded reports whether an engine has been published.
func (h *Holder) Loaded() bool {
	return h.p.Load() != nil
}
