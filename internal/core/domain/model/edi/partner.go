package edi

import "slices"

// Partner is a trading partner registered to receive EDI for some transaction sets.
type Partner struct {
	ID           string            `yaml:"id"`
	Name         string            `yaml:"name"`
	Active       bool              `yaml:"active"`
	Transactions []TransactionCode `yaml:"transactions"`
}

// Supports reports whether the partner is active and accepts code.
func (p Partner) Supports(code TransactionCode) bool {
	return p.Active && slices.Contains(p.Transactions, code)
}
