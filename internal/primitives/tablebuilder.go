// Package primitives includes builder helpers for TableConfig.
package primitives

// TableBuilder builds a TableConfig fluently. Entries keep the order in
// which they are added.
type TableBuilder struct {
	config TableConfig
}

// NewTableBuilder creates a new TableBuilder.
func NewTableBuilder(id string, initial StateID) *TableBuilder {
	return &TableBuilder{config: TableConfig{ID: id, Initial: initial}}
}

// State registers a state.
func (b *TableBuilder) State(name string, id StateID, opts ...StateOption) *TableBuilder {
	b.config.States = append(b.config.States, NewStateConfig(name, id, opts...))
	return b
}

// Transition registers an ordinary transition.
func (b *TableBuilder) Transition(name string, from, to StateID, trigger EventID) *TableBuilder {
	b.config.Transitions = append(b.config.Transitions, NewTransition(name, from, to, trigger))
	return b
}

// AnyStateTransition registers a transition that fires from any state.
func (b *TableBuilder) AnyStateTransition(name string, to StateID, trigger EventID) *TableBuilder {
	return b.Transition(name, AnyState, to, trigger)
}

// ReturnPrevious registers a return-to-previous transition.
func (b *TableBuilder) ReturnPrevious(name string, trigger EventID) *TableBuilder {
	b.config.Transitions = append(b.config.Transitions, NewReturnPrevious(name, trigger))
	return b
}

// FreeEvent registers a state-independent event handler.
func (b *TableBuilder) FreeEvent(name string, trigger EventID, cb Callback) *TableBuilder {
	b.config.FreeEvents = append(b.config.FreeEvents, NewFreeEvent(name, trigger, cb))
	return b
}

// Build finalizes and validates the table.
func (b *TableBuilder) Build() (TableConfig, error) {
	config := b.config.Clone()
	if err := config.Validate(); err != nil {
		return TableConfig{}, err
	}
	return config, nil
}

// MustBuild is Build for tables declared at package level; it panics on an
// invalid table.
func (b *TableBuilder) MustBuild() TableConfig {
	config, err := b.Build()
	if err != nil {
		panic(err)
	}
	return config
}
