package cast

import (
	"fmt"
)

// Handler processes one node with a table-specific context.
type Handler[C, R any] func(node Node, ctx C) (R, error)

// Table maps node kinds to handlers. Tables are populated once, at package
// init, and read-only afterwards.
type Table[C, R any] struct {
	name     string
	handlers map[Kind]Handler[C, R]
}

func NewTable[C, R any](name string) *Table[C, R] {
	return &Table[C, R]{
		name:     name,
		handlers: map[Kind]Handler[C, R]{},
	}
}

func (t *Table[C, R]) Name() string { return t.name }

// Register installs the handler for kind. Registering a kind twice is a
// programming error and panics.
func (t *Table[C, R]) Register(kind Kind, h Handler[C, R]) {
	if _, exists := t.handlers[kind]; exists {
		panic(fmt.Sprintf("%s: handler for %q registered twice", t.name, kind))
	}
	t.handlers[kind] = h
}

// Dispatch invokes the handler registered for the node's kind.
func (t *Table[C, R]) Dispatch(node Node, ctx C) (R, error) {
	var zero R
	if node == nil {
		return zero, fmt.Errorf("%s: cannot dispatch nil node", t.name)
	}
	h, ok := t.handlers[node.Kind()]
	if !ok {
		return zero, &MissingHandlerError{Table: t.name, Kind: node.Kind()}
	}
	return h(node, ctx)
}

// Check returns an error for the first of kinds with no handler.
func (t *Table[C, R]) Check(kinds ...Kind) error {
	for _, k := range kinds {
		if _, ok := t.handlers[k]; !ok {
			return &MissingHandlerError{Table: t.name, Kind: k}
		}
	}
	return nil
}
