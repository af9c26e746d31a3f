package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatGatewayAmount renders an amount in minor units (paisa) as the
// zero-padded fixed-width string the gateway contract mandates.
func FormatGatewayAmount(amountPaisa int64) string {
	return fmt.Sprintf("%012d", amountPaisa)
}

// ParseGatewayAmount accepts both the padded and the plain form.
func ParseGatewayAmount(value string) (int64, error) {
	trimmed := strings.TrimLeft(strings.TrimSpace(value), "0")
	if trimmed == "" {
		if strings.TrimSpace(value) == "" {
			return 0, fmt.Errorf("empty amount")
		}
		return 0, nil
	}

	return strconv.ParseInt(trimmed, 10, 64)
}

// PaisaToRupees formats paisa for display, last two digits are decimals.
func PaisaToRupees(amountPaisa int64) string {
	return fmt.Sprintf("%d.%02d", amountPaisa/100, amountPaisa%100)
}
