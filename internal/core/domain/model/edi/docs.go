// Package edi holds the value types exchanged with the EDI service boundary:
// transaction and AT7 status codes, trading partners, generated messages and
// the event → transaction table that drives outbound EDI.
//
// Segment encoding is not modelled; a Message carries its fields as a flat
// key/value envelope.
package edi
