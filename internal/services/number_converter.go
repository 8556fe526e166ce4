package services

import (
	"fmt"
	"math"
	"strings"
)

// AmountToWords converts a rupee amount to words in the Indian numbering
// system, for printing on receipts.
// Example: 4130000 -> "RUPEES FORTY ONE LAKH THIRTY THOUSAND ONLY"
func AmountToWords(amount float64) string {
	if amount == 0 {
		return "RUPEES ZERO ONLY"
	}

	integerPart := int64(amount)
	paise := int64(math.Round((amount - float64(integerPart)) * 100))

	words := convertIndianNumber(integerPart)
	if paise > 0 {
		return fmt.Sprintf("RUPEES %s AND %s PAISE ONLY", words, convertIndianNumber(paise))
	}
	return fmt.Sprintf("RUPEES %s ONLY", words)
}

// convertIndianNumber spells n using the lakh/crore grouping:
// crore (10^7), lakh (10^5), thousand (10^3), then hundreds.
func convertIndianNumber(n int64) string {
	if n == 0 {
		return "ZERO"
	}
	if n < 0 {
		return "MINUS " + convertIndianNumber(-n)
	}

	var parts []string

	if crores := n / 10000000; crores > 0 {
		parts = append(parts, convertIndianNumber(crores)+" CRORE")
		n %= 10000000
	}
	if lakhs := n / 100000; lakhs > 0 {
		parts = append(parts, belowThousand(lakhs)+" LAKH")
		n %= 100000
	}
	if thousands := n / 1000; thousands > 0 {
		parts = append(parts, belowThousand(thousands)+" THOUSAND")
		n %= 1000
	}
	if n > 0 {
		parts = append(parts, belowThousand(n))
	}

	return strings.Join(parts, " ")
}

func belowThousand(n int64) string {
	if n >= 100 {
		h := wordUnits[n/100] + " HUNDRED"
		if n%100 == 0 {
			return h
		}
		return h + " " + belowHundred(n%100)
	}
	return belowHundred(n)
}

func belowHundred(n int64) string {
	if n < 20 {
		return wordUnits[n]
	}
	t := wordTens[n/10]
	if n%10 == 0 {
		return t
	}
	return t + " " + wordUnits[n%10]
}

var wordUnits = []string{
	"", "ONE", "TWO", "THREE", "FOUR", "FIVE", "SIX", "SEVEN", "EIGHT", "NINE",
	"TEN", "ELEVEN", "TWELVE", "THIRTEEN", "FOURTEEN", "FIFTEEN", "SIXTEEN",
	"SEVENTEEN", "EIGHTEEN", "NINETEEN",
}

var wordTens = []string{
	"", "", "TWENTY", "THIRTY", "FORTY", "FIFTY", "SIXTY", "SEVENTY", "EIGHTY", "NINETY",
}
