package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatBookingNumber(t *testing.T) {
	date := time.Date(2025, 8, 14, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "DS/25/08-1001", FormatBookingNumber(1, date))
	assert.Equal(t, "DS/25/08-1042", FormatBookingNumber(42, date))

	jan := time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "DS/26/01-1100", FormatBookingNumber(100, jan))
}

func TestFormatReceiptNumber(t *testing.T) {
	assert.Equal(t, "DSPAY/IN/1001", FormatReceiptNumber(1))
	assert.Equal(t, "DSPAY/IN/1999", FormatReceiptNumber(999))
	assert.Equal(t, "DSPAY/IN/11000", FormatReceiptNumber(10000))
}

func TestFormatYearCodedNumbers(t *testing.T) {
	assert.Equal(t, "BRK202500001", FormatBrokerNumber(1, 2025))
	assert.Equal(t, "BRK202512345", FormatBrokerNumber(12345, 2025))
	assert.Equal(t, "CUST202600042", FormatCustomerNumber(42, 2026))
	assert.Equal(t, "BPAY202500007", FormatBrokerPaymentNumber(7, 2025))
}

func TestSequenceTableName(t *testing.T) {
	assert.Equal(t, "sequences", Sequence{}.TableName())
}
