package primitives

import "errors"

// FreeEventConfig describes an event handled independently of the current
// state. Its callback always fires when the trigger is observed and the
// machine's state is left untouched.
type FreeEventConfig struct {
	Name    string  `json:"name" yaml:"name"`
	Trigger EventID `json:"trigger" yaml:"trigger"`
	Handler string  `json:"handler,omitempty" yaml:"handler,omitempty"`

	Callback Callback `json:"-" yaml:"-"`
}

// NewFreeEvent creates a free-event descriptor.
func NewFreeEvent(name string, trigger EventID, cb Callback) FreeEventConfig {
	return FreeEventConfig{Name: name, Trigger: trigger, Callback: cb}
}

// Validate checks the descriptor. The callback is mandatory.
func (f *FreeEventConfig) Validate() error {
	if f.Trigger == NoEvent {
		return errors.New("trigger 0 is reserved")
	}
	if f.Callback == nil {
		return errors.New("callback is required")
	}
	return nil
}
