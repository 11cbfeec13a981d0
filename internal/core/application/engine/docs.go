// Package engine is the load workflow engine: the single owner of cached
// workflows, the place where ordering guards, step validators and
// mutations run, and the origin of every persistence and notification side
// effect.
//
// Mutations of one load are serialised by a per-load mutex held across
// guard check, validation and mutation. Side effects run after the mutation
// on a per-load FIFO chain in tracked goroutines; they are bounded by a
// timeout and retried with exponential backoff, and their failures are
// logged and counted, never returned to the caller. A workflow whose
// durable copy missed a write is flagged dirty until Reconcile pushes its
// full snapshot again.
package engine
