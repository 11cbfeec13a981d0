// Package workflow models the load workflow: the ordered custody, paperwork
// and possession milestones a driver walks through for one freight load.
//
// The package includes:
//   - StepKind: the fixed, ordered enumeration of milestones
//   - Status: the derived workflow status
//   - LoadWorkflow: the aggregate root owning the step sequence
//   - Snapshot: the immutable, deep-copied view handed outside the engine
//   - Event, Action, StepDocument: values exchanged with the collaborators
//
// Key business rules:
//   - Steps are completed in template order; a required step blocks every later step
//   - Optional steps never block but still count toward completion and progress
//   - CurrentStep is the index of the first incomplete step and is never stored
//   - Status is derived from step state and the pending override request
//   - An override must be requested and then approved before a step may be
//     completed with overrideApproved=true
package workflow
