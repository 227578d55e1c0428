package pricing

import (
	"math"
	"strings"
)

var onesWords = []string{
	"", "ONE", "TWO", "THREE", "FOUR", "FIVE", "SIX", "SEVEN", "EIGHT", "NINE",
	"TEN", "ELEVEN", "TWELVE", "THIRTEEN", "FOURTEEN", "FIFTEEN", "SIXTEEN",
	"SEVENTEEN", "EIGHTEEN", "NINETEEN",
}

var tensWords = []string{
	"", "", "TWENTY", "THIRTY", "FORTY", "FIFTY", "SIXTY", "SEVENTY", "EIGHTY", "NINETY",
}

// scaleWords covers every three-digit group an int64 can produce
var scaleWords = []string{"", "THOUSAND", "MILLION", "BILLION", "TRILLION", "QUADRILLION", "QUINTILLION"}

// AmountInWords renders a total as upper-case English words in the house
// invoice style, e.g. 10600 -> "TEN THOUSAND AND SIX HUNDRED QATAR RIYALS ONLY."
// The amount is rounded to the nearest riyal; "AND" joins the last two
// non-zero three-digit groups.
func AmountInWords(amount float64) string {
	n := int64(math.Round(math.Abs(amount)))
	return numberToWords(n) + " QATAR RIYALS ONLY."
}

func numberToWords(n int64) string {
	if n == 0 {
		return "ZERO"
	}

	// Split into three-digit groups, least significant first.
	var groups []int64
	for n > 0 {
		groups = append(groups, n%1000)
		n /= 1000
	}

	var parts []string
	for i := len(groups) - 1; i >= 0; i-- {
		if groups[i] == 0 {
			continue
		}
		part := groupToWords(groups[i])
		if i > 0 {
			part += " " + scaleWords[i]
		}
		parts = append(parts, part)
	}

	if len(parts) >= 2 {
		last := len(parts) - 1
		return strings.Join(parts[:last], " ") + " AND " + parts[last]
	}
	return parts[0]
}

func groupToWords(g int64) string {
	var parts []string
	if h := g / 100; h > 0 {
		parts = append(parts, onesWords[h]+" HUNDRED")
	}
	switch r := g % 100; {
	case r == 0:
	case r < 20:
		parts = append(parts, onesWords[r])
	default:
		word := tensWords[r/10]
		if r%10 > 0 {
			word += " " + onesWords[r%10]
		}
		parts = append(parts, word)
	}
	return strings.Join(parts, " ")
}
