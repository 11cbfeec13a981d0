// Package errs provides the shared error types of the freight service.
//
// Every type follows the same shape: a sentinel variable (ErrObjectNotFound,
// ErrValueIsRequired, ...), a struct carrying the offending parameter and an
// optional Cause, constructors with and without cause, and an Unwrap method
// returning the sentinel so callers can branch with errors.Is.
//
// Repositories return ObjectNotFoundError for absent workflows and loads;
// command constructors return ValueIsRequiredError / ValueIsInvalidError for
// malformed input.
package errs
