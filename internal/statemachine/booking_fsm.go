package statemachine

import (
	"context"
	"fmt"

	"github.com/dsrealty/estate-api/internal/models"
	"github.com/looplab/fsm"
)

// BookingFSM wraps a booking with its state machine
type BookingFSM struct {
	booking *models.Booking
	fsm     *fsm.FSM
}

// NewBookingFSM creates a new booking state machine
func NewBookingFSM(booking *models.Booking) *BookingFSM {
	bfsm := &BookingFSM{
		booking: booking,
	}

	bfsm.fsm = fsm.NewFSM(
		booking.Status,
		fsm.Events{
			// active → cancelled
			{Name: "cancel", Src: []string{models.BookingStatusActive}, Dst: models.BookingStatusCancelled},

			// cancelled → active (reinstate a cancelled booking)
			{Name: "reinstate", Src: []string{models.BookingStatusCancelled}, Dst: models.BookingStatusActive},
		},
		fsm.Callbacks{},
	)

	return bfsm
}

// Cancel transitions booking to cancelled state
func (b *BookingFSM) Cancel(ctx context.Context) error {
	if !b.booking.MayCancel() {
		return fmt.Errorf("booking cannot be cancelled in current state: %s", b.booking.Status)
	}

	if err := b.fsm.Event(ctx, "cancel"); err != nil {
		return fmt.Errorf("failed to cancel booking: %w", err)
	}

	b.booking.Status = b.fsm.Current()
	return nil
}

// Reinstate transitions a cancelled booking back to active
func (b *BookingFSM) Reinstate(ctx context.Context) error {
	if !b.booking.MayReinstate() {
		return fmt.Errorf("booking cannot be reinstated in current state: %s", b.booking.Status)
	}

	if err := b.fsm.Event(ctx, "reinstate"); err != nil {
		return fmt.Errorf("failed to reinstate booking: %w", err)
	}

	b.booking.Status = b.fsm.Current()
	return nil
}

// Current returns the current state
func (b *BookingFSM) Current() string {
	return b.fsm.Current()
}

// Can checks if a transition is possible
func (b *BookingFSM) Can(event string) bool {
	return b.fsm.Can(event)
}
