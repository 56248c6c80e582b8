package report

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatBRL renders a monetary value in the Brazilian locale with the fixed
// currency prefix: FormatBRL(1234.5) == "R$ 1.234,50".
func FormatBRL(v float64) string {
	d := decimal.NewFromFloat(v)
	fixed := d.StringFixed(2)

	negative := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	parts := strings.SplitN(fixed, ".", 2)
	intPart, decPart := parts[0], parts[1]

	var grouped strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(digit)
	}

	sign := ""
	if negative {
		sign = "-"
	}
	return fmt.Sprintf("R$ %s%s,%s", sign, grouped.String(), decPart)
}

// FormatPercent renders a percentage with two decimals and a trailing "%".
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}
