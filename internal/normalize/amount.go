package normalize

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Amount parses a Chilean-formatted currency string: "$" and whitespace are
// stripped, "." is assumed a thousands separator, "," the decimal separator.
// Anything else non-numeric is dropped before parsing. Empty or unparseable
// input yields zero; the function never errors.
//
// Known limitation: a source that uses "." as its decimal mark is parsed
// wrong ("1.50" becomes 150). The heuristic is irreversible, so the
// ambiguity stays documented rather than guessed at.
func Amount(raw string) decimal.Decimal {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")

	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	s = b.String()
	if s == "" || s == "-" {
		return decimal.Zero
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
