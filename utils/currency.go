package utils

import (
	"fmt"
	"strings"
)

// FormatMinorUnits formats an amount in minor currency units (cents/paise)
// as a display string with thousands separators.
// Example: 1500050 -> "15.000,50"
func FormatMinorUnits(amount int64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	integerPart := fmt.Sprintf("%d", amount/100)
	decimalPart := fmt.Sprintf("%02d", amount%100)

	var groups []string
	for i := len(integerPart); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		groups = append([]string{integerPart[start:i]}, groups...)
	}

	formatted := strings.Join(groups, ".") + "," + decimalPart
	if negative {
		return "-" + formatted
	}
	return formatted
}
