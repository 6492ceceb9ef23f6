package types

import (
	"errors"
	"fmt"
)

// ErrUnbound is returned when an erasure operation reaches a type
// variable that has not been bound to its declaring type parameter.
var ErrUnbound = errors.New("types: signature contains unbound type variable")

// ParseError reports that a public parse entry point could not consume
// the entire expected production.
type ParseError struct {
	Input  string
	Offset int
	Expect string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("types: invalid %s at offset %d in %q", e.Expect, e.Offset, e.Input)
}

// UnboundError reports a type variable whose name has no matching type
// parameter in the binding scope. This is a programmer-error class of
// failure: the caller supplied an incomplete scope.
type UnboundError struct {
	Name string
}

func (e *UnboundError) Error() string {
	return fmt.Sprintf("types: no type parameter in scope for variable %q", e.Name)
}
