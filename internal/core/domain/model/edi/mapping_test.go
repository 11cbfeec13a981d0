package edi_test

import (
	"testing"

	"freight/internal/core/domain/model/edi"
	"freight/internal/core/domain/model/workflow"
	"freight/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTriggerFor(t *testing.T) {
	tests := []struct {
		event  workflow.EventType
		tx     edi.TransactionCode
		status edi.StatusCode
	}{
		{workflow.EventRateConfirmed, edi.Tx204, ""},
		{workflow.EventArrivedAtPickup, edi.Tx214, edi.StatusArrivedAtPickup},
		{workflow.EventPickupCompleted, edi.Tx214, edi.StatusDepartedPickup},
		{workflow.EventInTransit, edi.Tx214, edi.StatusEnRoute},
		{workflow.EventArrivedAtDelivery, edi.Tx214, edi.StatusArrivedAtDelivery},
		{workflow.EventDelivered, edi.Tx214, edi.StatusDelivered},
	}

	for _, tt := range tests {
		t.Run(string(tt.event), func(t *testing.T) {
			trigger, ok := edi.TriggerFor(tt.event)

			require.True(t, ok)
			assert.Equal(t, tt.tx, trigger.Transaction)
			assert.Equal(t, tt.status, trigger.Status)
			assert.NotEmpty(t, trigger.Required)
		})
	}

	t.Run("other events produce no EDI", func(t *testing.T) {
		for _, ev := range []workflow.EventType{workflow.EventLoadAccepted, workflow.EventPODSubmitted, workflow.EventOverrideRequested} {
			_, ok := edi.TriggerFor(ev)
			assert.False(t, ok, ev)
		}
	})

	t.Run("pickup completion requires a seal number", func(t *testing.T) {
		trigger, _ := edi.TriggerFor(workflow.EventPickupCompleted)
		other, _ := edi.TriggerFor(workflow.EventArrivedAtPickup)

		assert.Contains(t, trigger.Required, edi.FieldSealNumber)
		assert.NotContains(t, other.Required, edi.FieldSealNumber)
	})
}

func TestTrigger_Missing(t *testing.T) {
	trigger, _ := edi.TriggerFor(workflow.EventRateConfirmed)

	missing := trigger.Missing(edi.Fields{edi.FieldLoadID: "L1", edi.FieldShipper: "ACME", edi.FieldOrigin: ""})

	assert.Equal(t, []string{edi.FieldConsignee, edi.FieldOrigin, edi.FieldDestination}, missing)
	assert.Empty(t, trigger.Missing(edi.Fields{
		edi.FieldLoadID: "L1", edi.FieldShipper: "a", edi.FieldConsignee: "b", edi.FieldOrigin: "c", edi.FieldDestination: "d",
	}))
}

func TestPartner_Supports(t *testing.T) {
	p := edi.Partner{ID: "p1", Active: true, Transactions: []edi.TransactionCode{edi.Tx214}}

	assert.True(t, p.Supports(edi.Tx214))
	assert.False(t, p.Supports(edi.Tx204))

	p.Active = false
	assert.False(t, p.Supports(edi.Tx214))
}

func TestParseTransactionCode(t *testing.T) {
	code, err := edi.ParseTransactionCode("990")
	require.NoError(t, err)
	assert.Equal(t, edi.Tx990, code)

	_, err = edi.ParseTransactionCode("850")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
