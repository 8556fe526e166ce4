package statemachine

import (
	"context"
	"testing"

	"github.com/dsrealty/estate-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestCancelActiveBooking(t *testing.T) {
	booking := &models.Booking{Status: models.BookingStatusActive}
	bfsm := NewBookingFSM(booking)

	assert.True(t, bfsm.Can("cancel"))
	assert.NoError(t, bfsm.Cancel(context.Background()))
	assert.Equal(t, models.BookingStatusCancelled, booking.Status)
}

func TestCancelCancelledBookingFails(t *testing.T) {
	booking := &models.Booking{Status: models.BookingStatusCancelled}
	bfsm := NewBookingFSM(booking)

	err := bfsm.Cancel(context.Background())
	assert.Error(t, err)
	assert.Equal(t, models.BookingStatusCancelled, booking.Status)
}

func TestReinstateCancelledBooking(t *testing.T) {
	booking := &models.Booking{Status: models.BookingStatusCancelled}
	bfsm := NewBookingFSM(booking)

	assert.NoError(t, bfsm.Reinstate(context.Background()))
	assert.Equal(t, models.BookingStatusActive, booking.Status)
}

func TestReinstateActiveBookingFails(t *testing.T) {
	booking := &models.Booking{Status: models.BookingStatusActive}
	bfsm := NewBookingFSM(booking)

	err := bfsm.Reinstate(context.Background())
	assert.Error(t, err)
	assert.Equal(t, models.BookingStatusActive, booking.Status)
}
