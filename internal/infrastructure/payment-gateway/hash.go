package paymentgateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sort"
	"strings"
)

var (
	ErrMissingIntegritySalt = errors.New("integrity salt is required")
	ErrEmptyFieldSet        = errors.New("no signable fields in payload")
)

// SecureHash computes the gateway's HMAC-SHA256 signature over a message.
// The canonical string is the non-empty pp_-prefixed field values sorted by
// field name and joined with '&', with the integrity salt prepended; the
// salt is also the HMAC key. Output is uppercase hex, matching the vectors
// published in the integration guide.
func SecureHash(fields map[string]string, integritySalt string) (string, error) {
	if integritySalt == "" {
		return "", ErrMissingIntegritySalt
	}

	keys := make([]string, 0, len(fields))
	for key, value := range fields {
		if !strings.HasPrefix(strings.ToLower(key), "pp_") {
			continue
		}
		if isHashField(key) {
			continue
		}
		if strings.TrimSpace(value) == "" {
			continue
		}
		keys = append(keys, key)
	}

	if len(keys) == 0 {
		return "", ErrEmptyFieldSet
	}

	sort.Strings(keys)

	values := make([]string, 0, len(keys))
	for _, key := range keys {
		values = append(values, strings.TrimSpace(fields[key]))
	}

	message := integritySalt + "&" + strings.Join(values, "&")

	mac := hmac.New(sha256.New, []byte(integritySalt))
	mac.Write([]byte(message))

	return strings.ToUpper(hex.EncodeToString(mac.Sum(nil))), nil
}

// VerifySecureHash recomputes the signature over the inbound fields and
// compares it against the received one in constant time. Any failure mode
// is a plain false: callers branch, they never proceed on a mismatch.
func VerifySecureHash(fields map[string]string, receivedHash string, integritySalt string) bool {
	if receivedHash == "" {
		return false
	}

	calculated, err := SecureHash(fields, integritySalt)
	if err != nil {
		return false
	}

	return hmac.Equal([]byte(calculated), []byte(strings.ToUpper(receivedHash)))
}

func isHashField(key string) bool {
	switch strings.ToLower(key) {
	case "pp_securehash", "pp_secure_hash", "securehash":
		return true
	}
	return false
}
