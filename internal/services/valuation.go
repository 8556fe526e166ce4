package services

import (
	"fmt"
)

// ValuationInput carries the raw monetary terms of a booking.
type ValuationInput struct {
	Area          float64
	Rate          float64
	Discount      float64
	PLC           float64
	AssociateRate *float64
	HasBroker     bool
}

// Valuation holds the derived monetary terms.
type Valuation struct {
	EffectiveRate    float64
	TotalAmount      float64
	BrokerCommission float64
}

// ComputeValuation derives the booking's monetary terms, rejecting
// inconsistent inputs before anything is written.
func ComputeValuation(in ValuationInput) (Valuation, error) {
	if in.Area <= 0 {
		return Valuation{}, fmt.Errorf("area must be greater than zero")
	}
	if in.Rate <= 0 {
		return Valuation{}, fmt.Errorf("rate must be greater than zero")
	}
	if in.Discount < 0 {
		return Valuation{}, fmt.Errorf("discount cannot be negative")
	}
	if in.Discount > in.Rate {
		return Valuation{}, fmt.Errorf("discount cannot exceed rate")
	}
	if in.PLC < 0 {
		return Valuation{}, fmt.Errorf("plc cannot be negative")
	}
	if in.AssociateRate != nil && *in.AssociateRate < 0 {
		return Valuation{}, fmt.Errorf("associate rate cannot be negative")
	}

	v := Valuation{
		EffectiveRate: in.Rate - in.Discount,
	}
	v.TotalAmount = in.Area*v.EffectiveRate + in.PLC
	if v.TotalAmount <= 0 {
		return Valuation{}, fmt.Errorf("total amount must be greater than zero")
	}

	if in.HasBroker && in.AssociateRate != nil && *in.AssociateRate > 0 {
		commission := (in.Rate - *in.AssociateRate) * in.Area
		if commission > 0 {
			v.BrokerCommission = commission
		}
	}

	return v, nil
}

// ValidateLedgerAmount checks a payment amount against the booking ledger.
// alreadyPaid is the sum of the other non-deleted payments; for a new payment
// that is the full current sum, for an edit it excludes the payment being
// changed. Returns ErrInvalidAmount or *ExceedsBalanceError.
func ValidateLedgerAmount(amount, alreadyPaid, totalAmount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if alreadyPaid+amount > totalAmount {
		return &ExceedsBalanceError{MaxAllowed: totalAmount - alreadyPaid}
	}
	return nil
}
