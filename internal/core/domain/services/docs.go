// Package services provides domain services that hold load workflow business
// rules which do not belong to the LoadWorkflow aggregate itself.
//
// The package includes:
//   - StepValidator: pure, per-step structural checks of submitted step data
//
// Validators never touch persistence or notification and never mutate the
// payload they inspect.
package services
