package importer

import (
	"strings"

	"github.com/shopspring/decimal"
)

var amountNoise = strings.NewReplacer(
	" ", "",
	"\u00a0", "",
	"€", "",
	"$", "",
	"£", "",
	"EUR", "",
	"USD", "",
)

// parseAmount accepts both "1,234.56" and "1.234,56". The right-most
// separator is the decimal one; a lone separator that repeats is a thousands
// separator.
func parseAmount(s string) (decimal.Decimal, error) {
	clean := amountNoise.Replace(s)

	lastDot := strings.LastIndex(clean, ".")
	lastComma := strings.LastIndex(clean, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			clean = strings.ReplaceAll(clean, ".", "")
			clean = strings.ReplaceAll(clean, ",", ".")
		} else {
			clean = strings.ReplaceAll(clean, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(clean, ",") > 1 {
			clean = strings.ReplaceAll(clean, ",", "")
		} else {
			clean = strings.ReplaceAll(clean, ",", ".")
		}
	case lastDot >= 0 && strings.Count(clean, ".") > 1:
		clean = strings.ReplaceAll(clean, ".", "")
	}

	return decimal.NewFromString(clean)
}
