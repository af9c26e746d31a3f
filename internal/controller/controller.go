package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/alimikegami/event-management/payment-service/internal/dto"
	"github.com/alimikegami/event-management/payment-service/internal/service"
	pkgdto "github.com/alimikegami/event-management/payment-service/pkg/dto"
	"github.com/alimikegami/event-management/payment-service/pkg/errs"
	"github.com/alimikegami/event-management/payment-service/pkg/response"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type Controller struct {
	service service.PaymentService
}

func CreatePaymentController(e *echo.Group, service service.PaymentService) {
	c := Controller{
		service: service,
	}

	e.POST("/payments", c.InitiatePayment)
	e.GET("/payments", c.GetPayments)
	e.GET("/payments/return", c.PaymentReturn)
	e.POST("/payments/return", c.PaymentReturn)
	e.POST("/payments/notifications", c.IPNListener)
	e.GET("/payments/:reference", c.GetPaymentByReference)
	e.POST("/payments/:reference/inquiry", c.InquireStatus)
}

func (c *Controller) InitiatePayment(e echo.Context) error {
	payload := dto.PaymentRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "InitiatePayment").Msg("")
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	resp, err := c.service.InitiatePayment(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

// PaymentReturn handles the gateway redirecting the payer's browser back.
// The page always reflects the stored transaction status after
// reconciliation; an unverifiable payload gets a generic failure page and
// touches nothing.
func (c *Controller) PaymentReturn(e echo.Context) error {
	payload, err := gatewayPayload(e)
	if err != nil {
		log.Error().Err(err).Str("component", "PaymentReturn").Msg("")
		return e.HTML(http.StatusBadRequest, verificationFailedPage)
	}

	result, err := c.service.HandleReturn(e.Request().Context(), payload)
	if err != nil {
		if err == errs.ErrSignatureInvalid || err == errs.ErrUnknownReference {
			return e.HTML(http.StatusOK, verificationFailedPage)
		}
		return e.HTML(http.StatusInternalServerError, technicalErrorPage)
	}

	return e.HTML(http.StatusOK, resultPage(result))
}

// IPNListener receives the gateway's server-to-server notifications. A
// hash-valid delivery is acknowledged with the signed receipt body whether
// or not it changed state; anything else gets a non-success status so the
// gateway's retry policy engages.
func (c *Controller) IPNListener(e echo.Context) error {
	payload, err := gatewayPayload(e)
	if err != nil {
		log.Error().Err(err).Str("component", "IPNListener").Msg("")
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	ack, err := c.service.HandleIPN(e.Request().Context(), e.RealIP(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return e.JSON(http.StatusOK, ack)
}

func (c *Controller) GetPayments(e echo.Context) error {
	filter := pkgdto.Filter{}
	err := e.Bind(&filter)
	if err != nil {
		log.Error().Err(err).Str("component", "GetPayments").Msg("")
	}

	responsePayload, err := c.service.GetPayments(e.Request().Context(), filter)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "successfully retrieved payment records", responsePayload)
}

func (c *Controller) GetPaymentByReference(e echo.Context) error {
	resp, err := c.service.GetPaymentByReference(e.Request().Context(), e.Param("reference"))
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func (c *Controller) InquireStatus(e echo.Context) error {
	resp, err := c.service.InquireStatus(e.Request().Context(), e.Param("reference"))
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

// gatewayPayload flattens the gateway's form or JSON body (plus query
// parameters on the return redirect) into a field map.
func gatewayPayload(e echo.Context) (map[string]string, error) {
	payload := map[string]string{}

	contentType := e.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(contentType, echo.MIMEApplicationJSON) {
		if err := json.NewDecoder(e.Request().Body).Decode(&payload); err != nil {
			return nil, err
		}
	} else {
		params, err := e.FormParams()
		if err != nil {
			return nil, err
		}
		for key, values := range params {
			if len(values) > 0 {
				payload[key] = values[0]
			}
		}
	}

	for key, values := range e.QueryParams() {
		if _, ok := payload[key]; !ok && len(values) > 0 {
			payload[key] = values[0]
		}
	}

	return payload, nil
}

const verificationFailedPage = `<!DOCTYPE html>
<html><head><title>Payment verification failed</title></head>
<body><h1>Payment verification failed</h1>
<p>We could not verify the response from the payment gateway. If you completed a payment, it will be reconciled automatically; please check your registration status in a few minutes.</p>
</body></html>`

const technicalErrorPage = `<!DOCTYPE html>
<html><head><title>Payment status unavailable</title></head>
<body><h1>Payment status unavailable</h1>
<p>Something went wrong while checking your payment. Please try again shortly.</p>
</body></html>`

func resultPage(result dto.PaymentResult) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html><head><title>Payment %s</title></head>
<body><h1>Payment %s</h1>
<p>%s</p>
<p>Transaction reference: %s</p>
</body></html>`, result.Status, result.Status, result.Message, result.TxnRefNo)
}
