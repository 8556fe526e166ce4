package models

import (
	"fmt"
	"time"
)

// Sequence is a named atomic counter backing document number generation.
// One row per document family; Value is the last issued counter value.
// Counters are global and never reset, so numbers issued for soft-deleted
// rows are never reused.
type Sequence struct {
	Name      string    `gorm:"primaryKey;size:40" json:"name"`
	Value     int64     `gorm:"not null;default:0" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Sequence
func (Sequence) TableName() string {
	return "sequences"
}

// Sequence name constants
const (
	SequenceBooking       = "bookings"
	SequenceReceipt       = "receipts"
	SequenceBroker        = "brokers"
	SequenceCustomer      = "customers"
	SequenceBrokerPayment = "broker_payments"
)

// FormatBookingNumber renders a booking number for the nth issued counter
// value. The year/month of the booking date is embedded for display, but the
// numeric tail is the global counter and does not reset monthly.
// Example: n=1, August 2025 -> "DS/25/08-1001".
func FormatBookingNumber(n int64, bookingDate time.Time) string {
	return fmt.Sprintf("DS/%02d/%02d-%d", bookingDate.Year()%100, int(bookingDate.Month()), 1000+n)
}

// FormatReceiptNumber renders a payment receipt number.
// Example: n=1 -> "DSPAY/IN/1001".
func FormatReceiptNumber(n int64) string {
	return fmt.Sprintf("DSPAY/IN/%d", 1000+n)
}

// FormatBrokerNumber renders a broker number. Example: n=1, 2025 -> "BRK202500001".
func FormatBrokerNumber(n int64, year int) string {
	return fmt.Sprintf("BRK%04d%05d", year, n)
}

// FormatCustomerNumber renders a customer number. Example: n=12, 2025 -> "CUST202500012".
func FormatCustomerNumber(n int64, year int) string {
	return fmt.Sprintf("CUST%04d%05d", year, n)
}

// FormatBrokerPaymentNumber renders a broker disbursement number.
// Example: n=3, 2025 -> "BPAY202500003".
func FormatBrokerPaymentNumber(n int64, year int) string {
	return fmt.Sprintf("BPAY%04d%05d", year, n)
}
