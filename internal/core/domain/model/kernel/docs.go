// Package kernel holds the value objects shared by the freight domain model.
//
// UUID identifies records the service mints itself: workflow records, audit
// actions, step documents and EDI messages. Load, driver and dispatcher
// identifiers come from the dispatch console and stay opaque strings.
package kernel
