package utils

import (
	"regexp"
	"testing"
	"time"

	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatGatewayAmount(t *testing.T) {
	assert.Equal(t, "000000000001", FormatGatewayAmount(1))
	assert.Equal(t, "000000150000", FormatGatewayAmount(150000))
	assert.Equal(t, "999999999999", FormatGatewayAmount(999999999999))
}

func TestParseGatewayAmount(t *testing.T) {
	testCases := []struct {
		input    string
		expected int64
		wantErr  bool
	}{
		{input: "000000150000", expected: 150000},
		{input: "150000", expected: 150000},
		{input: "000000000000", expected: 0},
		{input: " 25000 ", expected: 25000},
		{input: "", wantErr: true},
		{input: "12x4", wantErr: true},
	}

	for _, tc := range testCases {
		got, err := ParseGatewayAmount(tc.input)
		if tc.wantErr {
			assert.Error(t, err, "input %q", tc.input)
			continue
		}
		require.NoError(t, err, "input %q", tc.input)
		assert.Equal(t, tc.expected, got, "input %q", tc.input)
	}
}

func TestAmountRoundTrip(t *testing.T) {
	for _, amount := range []int64{1, 99, 100, 150000, 123456789} {
		parsed, err := ParseGatewayAmount(FormatGatewayAmount(amount))
		require.NoError(t, err)
		assert.Equal(t, amount, parsed)
	}
}

func TestPaisaToRupees(t *testing.T) {
	assert.Equal(t, "1500.00", PaisaToRupees(150000))
	assert.Equal(t, "0.05", PaisaToRupees(5))
	assert.Equal(t, "12.34", PaisaToRupees(1234))
}

func TestGenerateTxnRefNo(t *testing.T) {
	pattern := regexp.MustCompile(`^T\d{16}$`)

	for i := 0; i < 10; i++ {
		ref, err := GenerateTxnRefNo()
		require.NoError(t, err)
		assert.LessOrEqual(t, len(ref), 20)
		assert.Regexp(t, pattern, ref)
	}
}

func TestGatewayDateTimeRoundTrip(t *testing.T) {
	formatted, err := FormatGatewayDateTime(time.Unix(1755000000, 0))
	require.NoError(t, err)
	assert.Len(t, formatted, 14)

	ts, err := GatewayDateTimeToUnixTimestamp(formatted)
	require.NoError(t, err)
	assert.Equal(t, int64(1755000000), ts)
}

func TestGetExpiryDateTimeIsAfterStart(t *testing.T) {
	now := time.Now()

	start, err := FormatGatewayDateTime(now)
	require.NoError(t, err)

	expiry, err := GetExpiryDateTime(now, 24)
	require.NoError(t, err)

	assert.Greater(t, expiry, start, "yyyyMMddHHmmss compares chronologically as a string")
}
