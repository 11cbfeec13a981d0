package partners

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freight/internal/core/domain/model/edi"
	"freight/internal/pkg/errs"
)

const sample = `
partners:
  - id: P1
    name: Acme Logistics
    transactions: ["204", "214"]
  - id: P2
    name: Globex Freight
    active: false
    transactions: ["214", "214"]
`

func TestParse(t *testing.T) {
	r, err := Parse([]byte(sample))
	require.NoError(t, err)

	p1, err := r.GetTradingPartner(t.Context(), "P1")
	require.NoError(t, err)
	assert.Equal(t, "Acme Logistics", p1.Name)
	assert.True(t, p1.Active)
	assert.True(t, p1.Supports(edi.Tx204))
	assert.False(t, p1.Supports(edi.Tx990))

	p2, err := r.GetTradingPartner(t.Context(), "P2")
	require.NoError(t, err)
	assert.False(t, p2.Active)
	assert.Equal(t, []edi.TransactionCode{edi.Tx214}, p2.Transactions)
	assert.False(t, p2.Supports(edi.Tx214), "inactive partners support nothing")

	_, err = r.GetTradingPartner(t.Context(), "P3")
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)

	ids := []string{}
	for _, p := range r.List() {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"P1", "P2"}, ids)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"malformed yaml", "partners: [", errs.ErrValueIsInvalid},
		{"missing id", "partners:\n  - name: x\n", errs.ErrValueIsRequired},
		{"unknown transaction", "partners:\n  - id: P1\n    transactions: [\"850\"]\n", errs.ErrValueIsInvalid},
		{"duplicate id", "partners:\n  - id: P1\n  - id: P1\n", errs.ErrValueIsInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partners.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	r, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, r.List(), 2)

	empty, err := LoadFile("")
	require.NoError(t, err)
	assert.Empty(t, empty.List())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestRegistry_ReturnsCopies(t *testing.T) {
	r := NewRegistry(edi.Partner{ID: "P1", Active: true, Transactions: []edi.TransactionCode{edi.Tx214}})

	p, err := r.GetTradingPartner(t.Context(), "P1")
	require.NoError(t, err)
	p.Transactions[0] = edi.Tx990

	again, err := r.GetTradingPartner(t.Context(), "P1")
	require.NoError(t, err)
	assert.Equal(t, []edi.TransactionCode{edi.Tx214}, again.Transactions)

	r.Put(edi.Partner{ID: "P1", Active: false})
	again, err = r.GetTradingPartner(t.Context(), "P1")
	require.NoError(t, err)
	assert.False(t, again.Active)
}
