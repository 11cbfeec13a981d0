// Package guard provides ConstructorGuard, a marker embedded in commands,
// queries and aggregates so that zero values can be told apart from values
// built by their constructors.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is given.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is set only by NewConstructorGuard; its zero value fails Validate.
//
// Example:
//
//	var ErrCompleteStepCommandIsNotConstructed = errors.New("CompleteStepCommand must be created via NewCompleteStepCommand")
//
//	type CompleteStepCommand struct {
//	    loadID string
//	    guard  guard.ConstructorGuard
//	}
//
//	func (c CompleteStepCommand) Validate() error {
//	    return c.guard.Validate(ErrCompleteStepCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marked as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the guard is a zero value.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
