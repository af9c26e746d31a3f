package errs

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetErrorStatusCode(t *testing.T) {
	testCases := []struct {
		err      error
		expected int
	}{
		{err: ErrInternalServer, expected: http.StatusInternalServerError},
		{err: ErrClient, expected: http.StatusBadRequest},
		{err: ErrNotFound, expected: http.StatusNotFound},
		{err: ErrInvalidAmount, expected: http.StatusBadRequest},
		{err: ErrUnsupportedCurrency, expected: http.StatusBadRequest},
		{err: ErrSignatureInvalid, expected: http.StatusBadRequest},
		{err: ErrUnknownReference, expected: http.StatusNotFound},
		{err: ErrGatewayUnavailable, expected: http.StatusBadGateway},
		{err: errors.New("something unexpected"), expected: http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, GetErrorStatusCode(tc.err), "error %q", tc.err)
	}
}
