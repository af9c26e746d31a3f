package paymentgateway

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Vectors published in the gateway's integration guide
// ("How is HMAC-SHA256 calculated").
func TestSecureHashDocumentedVectors(t *testing.T) {
	t.Run("basic field set", func(t *testing.T) {
		fields := map[string]string{
			"pp_Amount":       "25000",
			"pp_MerchantID":   "MC25041",
			"pp_MerchantMPIN": "1234",
			"pp_Password":     "sz1v4agvyf",
			"pp_TxnCurrency":  "PKR",
			"pp_TxnRefNo":     "T20220518150213",
		}

		hash, err := SecureHash(fields, "3vv9wu3a18")
		require.NoError(t, err)
		assert.Equal(t, "2C595361C2DA0E502D18BFBAA92CF4740330215E5E8AD0CF4489A64E7400B117", hash)
	})

	t.Run("empty fields are excluded from the signed string", func(t *testing.T) {
		fields := map[string]string{
			"pp_amount":            "100",
			"pp_bankID":            "",
			"pp_billRef":           "billRef3781",
			"pp_cnic":              "345678",
			"pp_description":       "Test case description",
			"pp_language":          "EN",
			"pp_merchantID":        "MC32084",
			"pp_mobile":            "03123456789",
			"pp_password":          "yy41w5f10e",
			"pp_productID":         "",
			"pp_txnCurrency":       "PKR",
			"pp_txnDateTime":       "20220124224204",
			"pp_txnExpiryDateTime": "20220125224204",
			"pp_txnRefNo":          "T71608120",
			"ppmpf_1":              "",
			"ppmpf_2":              "",
			"ppmpf_3":              "",
			"ppmpf_4":              "",
			"ppmpf_5":              "",
		}

		hash, err := SecureHash(fields, "9208s6wx05")
		require.NoError(t, err)
		assert.Equal(t, "39ECAACFC30F9AFA1763B7E61EA33AC75977FB2E849A5EE1EDC4016791F3438F", hash)
	})
}

func TestSecureHashConfigurationErrors(t *testing.T) {
	_, err := SecureHash(map[string]string{"pp_Amount": "100"}, "")
	assert.ErrorIs(t, err, ErrMissingIntegritySalt)

	_, err = SecureHash(map[string]string{}, "salt")
	assert.ErrorIs(t, err, ErrEmptyFieldSet)

	// only empty or non-pp fields leaves nothing to sign
	_, err = SecureHash(map[string]string{"pp_BankID": "", "other": "x"}, "salt")
	assert.ErrorIs(t, err, ErrEmptyFieldSet)
}

func TestVerifySecureHashRoundTrip(t *testing.T) {
	fields := map[string]string{
		"pp_Amount":          "000000100000",
		"pp_MerchantID":      "MC392933",
		"pp_ResponseCode":    "000",
		"pp_ResponseMessage": "Success",
		"pp_TxnCurrency":     "PKR",
		"pp_TxnRefNo":        "T2025101413560940",
	}

	hash, err := SecureHash(fields, "salt123")
	require.NoError(t, err)

	assert.True(t, VerifySecureHash(fields, hash, "salt123"))
	assert.True(t, VerifySecureHash(fields, strings.ToLower(hash), "salt123"), "received hash comparison is case-insensitive")
}

func TestVerifySecureHashRejectsMutations(t *testing.T) {
	fields := map[string]string{
		"pp_Amount":       "000000100000",
		"pp_MerchantID":   "MC392933",
		"pp_ResponseCode": "000",
		"pp_TxnRefNo":     "T2025101413560940",
	}

	hash, err := SecureHash(fields, "salt123")
	require.NoError(t, err)

	for key := range fields {
		mutated := map[string]string{}
		for k, v := range fields {
			mutated[k] = v
		}
		mutated[key] = mutated[key] + "x"

		assert.False(t, VerifySecureHash(mutated, hash, "salt123"), "mutation of %s must fail verification", key)
	}

	assert.False(t, VerifySecureHash(fields, hash, "othersalt"))
	assert.False(t, VerifySecureHash(fields, "", "salt123"))
}

func TestVerifySecureHashIgnoresHashFieldInPayload(t *testing.T) {
	fields := map[string]string{
		"pp_ResponseCode": "000",
		"pp_TxnRefNo":     "T1",
	}

	hash, err := SecureHash(fields, "salt123")
	require.NoError(t, err)

	// inbound payloads carry their own hash field; it must not participate
	// in the recomputation
	fields["pp_SecureHash"] = hash
	assert.True(t, VerifySecureHash(fields, hash, "salt123"))
}
