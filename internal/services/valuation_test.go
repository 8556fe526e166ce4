package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeValuation(t *testing.T) {
	v, err := ComputeValuation(ValuationInput{
		Area:     1200,
		Rate:     3500,
		Discount: 100,
		PLC:      50000,
	})
	assert.NoError(t, err)
	assert.Equal(t, 3400.0, v.EffectiveRate)
	assert.Equal(t, 4130000.0, v.TotalAmount)
	assert.Equal(t, 0.0, v.BrokerCommission)
}

func TestComputeValuationWithCommission(t *testing.T) {
	associateRate := 20000.0
	v, err := ComputeValuation(ValuationInput{
		Area:          200,
		Rate:          21000,
		AssociateRate: &associateRate,
		HasBroker:     true,
	})
	assert.NoError(t, err)
	assert.Equal(t, 200000.0, v.BrokerCommission)
}

func TestComputeValuationCommissionFloorsAtZero(t *testing.T) {
	// Associate rate above the booking rate earns nothing, never a negative.
	associateRate := 3800.0
	v, err := ComputeValuation(ValuationInput{
		Area:          1200,
		Rate:          3500,
		AssociateRate: &associateRate,
		HasBroker:     true,
	})
	assert.NoError(t, err)
	assert.Equal(t, 0.0, v.BrokerCommission)
}

func TestComputeValuationRejectsBadInput(t *testing.T) {
	cases := []struct {
		name  string
		input ValuationInput
	}{
		{"zero area", ValuationInput{Area: 0, Rate: 3500}},
		{"zero rate", ValuationInput{Area: 1200, Rate: 0}},
		{"negative discount", ValuationInput{Area: 1200, Rate: 3500, Discount: -1}},
		{"discount above rate", ValuationInput{Area: 1200, Rate: 3500, Discount: 3600}},
		{"negative plc", ValuationInput{Area: 1200, Rate: 3500, PLC: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ComputeValuation(tc.input)
			assert.Error(t, err)
		})
	}
}

func TestValidateLedgerAmount(t *testing.T) {
	// Booking worth 4,130,000 with 500,000 already collected.
	total := 4130000.0
	paid := 500000.0

	assert.NoError(t, ValidateLedgerAmount(3630000, paid, total))
	assert.NoError(t, ValidateLedgerAmount(100000, paid, total))
}

func TestValidateLedgerAmountRejectsNonPositive(t *testing.T) {
	assert.ErrorIs(t, ValidateLedgerAmount(0, 0, 4130000), ErrInvalidAmount)
	assert.ErrorIs(t, ValidateLedgerAmount(-50, 0, 4130000), ErrInvalidAmount)
}

func TestValidateLedgerAmountExceedsBalance(t *testing.T) {
	err := ValidateLedgerAmount(3700000, 500000, 4130000)

	var exceeds *ExceedsBalanceError
	assert.True(t, errors.As(err, &exceeds))
	assert.Equal(t, 3630000.0, exceeds.MaxAllowed)
}

func TestValidateLedgerAmountEditExclusion(t *testing.T) {
	// Editing a 500,000 payment up to 4,200,000: the other payments sum to
	// zero, so the cap is the full total amount.
	err := ValidateLedgerAmount(4200000, 0, 4130000)

	var exceeds *ExceedsBalanceError
	assert.True(t, errors.As(err, &exceeds))
	assert.Equal(t, 4130000.0, exceeds.MaxAllowed)
}
