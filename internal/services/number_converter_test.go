package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAmountToWords(t *testing.T) {
	cases := []struct {
		amount   float64
		expected string
	}{
		{0, "RUPEES ZERO ONLY"},
		{1, "RUPEES ONE ONLY"},
		{19, "RUPEES NINETEEN ONLY"},
		{42, "RUPEES FORTY TWO ONLY"},
		{100, "RUPEES ONE HUNDRED ONLY"},
		{105, "RUPEES ONE HUNDRED FIVE ONLY"},
		{999, "RUPEES NINE HUNDRED NINETY NINE ONLY"},
		{1000, "RUPEES ONE THOUSAND ONLY"},
		{50000, "RUPEES FIFTY THOUSAND ONLY"},
		{100000, "RUPEES ONE LAKH ONLY"},
		{500000, "RUPEES FIVE LAKH ONLY"},
		{3630000, "RUPEES THIRTY SIX LAKH THIRTY THOUSAND ONLY"},
		{4130000, "RUPEES FORTY ONE LAKH THIRTY THOUSAND ONLY"},
		{10000000, "RUPEES ONE CRORE ONLY"},
		{12345678, "RUPEES ONE CRORE TWENTY THREE LAKH FORTY FIVE THOUSAND SIX HUNDRED SEVENTY EIGHT ONLY"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.expected, AmountToWords(tc.amount), "amount %.2f", tc.amount)
	}
}

func TestAmountToWordsWithPaise(t *testing.T) {
	assert.Equal(t, "RUPEES ONE HUNDRED AND FIFTY PAISE ONLY", AmountToWords(100.50))
	assert.Equal(t, "RUPEES ONE AND ONE PAISE ONLY", AmountToWords(1.01))
}
