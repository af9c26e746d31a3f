package errs

import (
	"errors"
	"net/http"
)

const (
	ErrStatusInternalServer = http.StatusInternalServerError
	ErrStatusClient         = http.StatusBadRequest
	ErrStatusNotFound       = http.StatusNotFound
	ErrBadGateway           = http.StatusBadGateway
)

var (
	ErrInternalServer      = errors.New("Internal server error")
	ErrClient              = errors.New("Bad request")
	ErrNotFound            = errors.New("Resource not found")
	ErrInvalidAmount       = errors.New("Amount must be greater than zero")
	ErrUnsupportedCurrency = errors.New("Currency is not supported")
	ErrSignatureInvalid    = errors.New("Security verification failed")
	ErrUnknownReference    = errors.New("Transaction reference not found")
	ErrGatewayUnavailable  = errors.New("Payment gateway is unavailable")
)

var errorMap = map[error]int{
	ErrInternalServer:      ErrStatusInternalServer,
	ErrClient:              ErrStatusClient,
	ErrNotFound:            ErrStatusNotFound,
	ErrInvalidAmount:       ErrStatusClient,
	ErrUnsupportedCurrency: ErrStatusClient,
	ErrSignatureInvalid:    ErrStatusClient,
	ErrUnknownReference:    ErrStatusNotFound,
	ErrGatewayUnavailable:  ErrBadGateway,
}

func GetErrorStatusCode(err error) int {
	errStatusCode, ok := errorMap[err]
	if !ok {
		errStatusCode = errorMap[ErrInternalServer]
	}
	return errStatusCode
}
