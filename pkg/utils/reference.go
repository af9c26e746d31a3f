package utils

import (
	"fmt"
	"math/rand"
	"time"
)

const txnRefMaxLen = 20

// GenerateTxnRefNo builds a merchant transaction reference in the gateway's
// documented format: T + yyyyMMddHHmmss (PKT) + 2 random digits, capped at
// 20 characters. Uniqueness is enforced by the store, not here.
func GenerateTxnRefNo() (string, error) {
	now, err := FormatGatewayDateTime(time.Now())
	if err != nil {
		return "", err
	}

	ref := fmt.Sprintf("T%s%02d", now, rand.Intn(100))
	if len(ref) > txnRefMaxLen {
		ref = ref[:txnRefMaxLen]
	}

	return ref, nil
}
