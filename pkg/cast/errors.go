package cast

import (
	"fmt"
)

// ScopeError reports a builder operation used outside the structural
// context it requires.
type ScopeError struct {
	Op     string
	Reason string
}

func (e *ScopeError) Error() string {
	return fmt.Sprintf("scope error: %s: %s", e.Op, e.Reason)
}

// InvalidTypeSpecError reports a malformed or conflicting type specification.
type InvalidTypeSpecError struct {
	Spec   string
	Reason string
}

func (e *InvalidTypeSpecError) Error() string {
	return fmt.Sprintf("invalid type spec %q: %s", e.Spec, e.Reason)
}

// InvalidExpressionError reports a value that cannot be coerced into an
// expression.
type InvalidExpressionError struct {
	Op    string
	Value any
}

func (e *InvalidExpressionError) Error() string {
	return fmt.Sprintf("%s: invalid expression: %#v (%T)", e.Op, e.Value, e.Value)
}

// MissingHandlerError means a node kind reached a dispatch table with no
// handler registered for it. It indicates an incomplete registry rather
// than a usage error.
type MissingHandlerError struct {
	Table string
	Kind  Kind
}

func (e *MissingHandlerError) Error() string {
	return fmt.Sprintf("%s: missing handler for node kind %q", e.Table, e.Kind)
}

// buildPanic carries a builder error up to the enclosing Build call.
type buildPanic struct {
	err error
}

func (p buildPanic) Error() string { return p.err.Error() }

func fail(err error) {
	panic(buildPanic{err})
}

func failScope(op, reason string) {
	fail(&ScopeError{Op: op, Reason: reason})
}
