package primitives

import (
	"errors"
	"fmt"
)

// HandlerSet maps handler names, as written in table files, to callbacks.
type HandlerSet map[string]Callback

// Bind resolves every handler name in t to a callback. Names that are not
// in the set are reported together; already-bound callbacks are kept.
func (h HandlerSet) Bind(t *TableConfig) error {
	var errs []error
	lookup := func(owner, name string, dst *Callback) {
		if name == "" || *dst != nil {
			return
		}
		cb, ok := h[name]
		if !ok {
			errs = append(errs, fmt.Errorf("%s: handler %q not registered", owner, name))
			return
		}
		*dst = cb
	}

	for i := range t.States {
		s := &t.States[i]
		owner := fmt.Sprintf("state %q", s.Name)
		lookup(owner, s.Enter, &s.OnEnter)
		lookup(owner, s.Exit, &s.OnExit)
		lookup(owner, s.Rejected, &s.OnEventRejected)
	}
	for i := range t.FreeEvents {
		fe := &t.FreeEvents[i]
		lookup(fmt.Sprintf("free event %q", fe.Name), fe.Handler, &fe.Callback)
	}

	return errors.Join(errs...)
}
