package edi

import (
	"fmt"

	"freight/internal/pkg/errs"
)

// TransactionCode is an X12 transaction set id.
type TransactionCode string

const (
	// Tx204 is the motor carrier load tender.
	Tx204 TransactionCode = "204"
	// Tx214 is the shipment status message.
	Tx214 TransactionCode = "214"
	// Tx990 is the response to a load tender.
	Tx990 TransactionCode = "990"
)

func ParseTransactionCode(s string) (TransactionCode, error) {
	switch c := TransactionCode(s); c {
	case Tx204, Tx214, Tx990:
		return c, nil
	}
	return "", errs.NewValueIsInvalidErrorWithCause("transaction", fmt.Errorf("%q is not a supported transaction set", s))
}

// StatusCode is an X12 AT7 shipment status code carried by a 214.
type StatusCode string

const (
	StatusArrivedAtPickup   StatusCode = "X3"
	StatusDepartedPickup    StatusCode = "AF"
	StatusEnRoute           StatusCode = "X6"
	StatusArrivedAtDelivery StatusCode = "X1"
	StatusDelivered         StatusCode = "D1"
)
