package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func uintPtr(v uint) *uint      { return &v }
func f64Ptr(v float64) *float64 { return &v }

func TestBookingValuation(t *testing.T) {
	b := Booking{
		Area:     1200,
		Rate:     3500,
		Discount: 100,
		PLC:      50000,
	}

	assert.Equal(t, 3400.0, b.EffectiveRate())
	assert.Equal(t, 4130000.0, b.TotalAmount())
}

func TestBookingValuationNoExtras(t *testing.T) {
	b := Booking{Area: 100, Rate: 15000}

	assert.Equal(t, 15000.0, b.EffectiveRate())
	assert.Equal(t, 1500000.0, b.TotalAmount())
}

func TestBrokerCommission(t *testing.T) {
	b := Booking{
		Area:          200,
		Rate:          21000,
		BrokerID:      uintPtr(3),
		AssociateRate: f64Ptr(20000),
	}

	assert.Equal(t, 200000.0, b.BrokerCommission())
}

func TestBrokerCommissionNeverNegative(t *testing.T) {
	b := Booking{
		Area:          1200,
		Rate:          3500,
		BrokerID:      uintPtr(3),
		AssociateRate: f64Ptr(3800),
	}

	assert.Equal(t, 0.0, b.BrokerCommission())
}

func TestBrokerCommissionWithoutBroker(t *testing.T) {
	b := Booking{Area: 200, Rate: 21000, AssociateRate: f64Ptr(20000)}
	assert.Equal(t, 0.0, b.BrokerCommission())

	b = Booking{Area: 200, Rate: 21000, BrokerID: uintPtr(3)}
	assert.Equal(t, 0.0, b.BrokerCommission())

	b = Booking{Area: 200, Rate: 21000, BrokerID: uintPtr(3), AssociateRate: f64Ptr(0)}
	assert.Equal(t, 0.0, b.BrokerCommission())
}

func TestRemainingAmountIgnoresDeletedPayments(t *testing.T) {
	b := Booking{
		Area:     200,
		Rate:     21000,
		Discount: 500,
		PLC:      30000,
		Payments: []Payment{
			{Amount: 500000},
			{Amount: 300000, IsDeleted: true},
			{Amount: 200000},
		},
	}

	assert.Equal(t, 700000.0, b.TotalPaid())
	assert.Equal(t, 3430000.0, b.RemainingAmount())
}

func TestBookingStatusPredicates(t *testing.T) {
	b := Booking{Status: BookingStatusActive}
	assert.True(t, b.IsActive())
	assert.True(t, b.MayCancel())
	assert.False(t, b.MayReinstate())

	b.Status = BookingStatusCancelled
	assert.False(t, b.IsActive())
	assert.False(t, b.MayCancel())
	assert.True(t, b.MayReinstate())

	b = Booking{Status: BookingStatusActive, IsDeleted: true}
	assert.False(t, b.IsActive())
}

func TestBookingToResponseDerivedFields(t *testing.T) {
	b := Booking{
		ID:            1,
		BookingNumber: "DS/25/08-1001",
		BookingDate:   time.Date(2025, 8, 14, 0, 0, 0, 0, time.UTC),
		Area:          200,
		Rate:          21000,
		Discount:      500,
		PLC:           30000,
		BrokerID:      uintPtr(3),
		AssociateRate: f64Ptr(20000),
		Status:        BookingStatusActive,
		Payments:      []Payment{{Amount: 500000}},
	}

	resp := b.ToResponse()
	assert.Equal(t, 20500.0, resp.EffectiveRate)
	assert.Equal(t, 4130000.0, resp.TotalAmount)
	assert.Equal(t, 200000.0, resp.BrokerCommission)
	assert.Equal(t, 500000.0, resp.TotalPaid)
	assert.Equal(t, 3630000.0, resp.RemainingAmount)
	assert.Len(t, resp.Payments, 1)
}

func TestProjectAvailablePlots(t *testing.T) {
	p := Project{
		TotalPlots: 50,
		Bookings: []Booking{
			{Status: BookingStatusActive},
			{Status: BookingStatusActive},
			{Status: BookingStatusCancelled},
			{Status: BookingStatusActive, IsDeleted: true},
		},
	}

	assert.Equal(t, 2, p.BookedPlots())
	assert.Equal(t, 48, p.AvailablePlots())
}

func TestBrokerPendingCommission(t *testing.T) {
	br := Broker{
		ID: 3,
		Bookings: []Booking{
			{Area: 200, Rate: 21000, BrokerID: uintPtr(3), AssociateRate: f64Ptr(20000), Status: BookingStatusActive},
			{Area: 100, Rate: 18000, BrokerID: uintPtr(3), AssociateRate: f64Ptr(17000), Status: BookingStatusCancelled},
		},
		Payouts: []BrokerPayment{
			{Amount: 50000},
			{Amount: 25000, IsDeleted: true},
		},
	}

	assert.Equal(t, 200000.0, br.AccruedCommission())
	assert.Equal(t, 50000.0, br.DisbursedAmount())

	resp := br.ToResponse()
	assert.Equal(t, 150000.0, resp.PendingCommission)
}
