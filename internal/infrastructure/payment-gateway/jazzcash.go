package paymentgateway

import (
	"time"

	"github.com/alimikegami/event-management/payment-service/config"
	"github.com/alimikegami/event-management/payment-service/internal/dto"
	"github.com/alimikegami/event-management/payment-service/pkg/utils"
	"github.com/sony/gobreaker/v2"
)

const (
	TxnTypeCard    = "MPAY"
	gatewayVersion = "1.1"
)

// Client speaks the JazzCash page-redirection contract: it signs outbound
// payloads, verifies inbound ones and performs server-to-server status
// inquiries. It holds no mutable state beyond the breaker.
type Client struct {
	config *config.Config
	cb     *gobreaker.CircuitBreaker[[]byte]
}

func CreateJazzCashClient(config *config.Config, cb *gobreaker.CircuitBreaker[[]byte]) *Client {
	return &Client{
		config: config,
		cb:     cb,
	}
}

// BuildCheckoutFields assembles the gateway's full page-redirection v1.1
// field set for a hosted-checkout POST, including the secure hash. The
// empty fields stay on the wire; only the signed string omits them.
func (c *Client) BuildCheckoutFields(txnRefNo string, amountPaisa int64, billReference string, description string, now time.Time) (map[string]string, error) {
	gwConf := c.config.JazzCashConfig

	txnDateTime, err := utils.FormatGatewayDateTime(now)
	if err != nil {
		return nil, err
	}

	txnExpiryDateTime, err := utils.GetExpiryDateTime(now, gwConf.ExpiryHours)
	if err != nil {
		return nil, err
	}

	if len(description) > 200 {
		description = description[:200]
	}

	fields := map[string]string{
		"pp_Version":           gatewayVersion,
		"pp_TxnType":           TxnTypeCard,
		"pp_Language":          gwConf.Language,
		"pp_MerchantID":        gwConf.MerchantID,
		"pp_SubMerchantID":     "",
		"pp_Password":          gwConf.Password,
		"pp_TxnRefNo":          txnRefNo,
		"pp_Amount":            utils.FormatGatewayAmount(amountPaisa),
		"pp_TxnCurrency":       gwConf.Currency,
		"pp_TxnDateTime":       txnDateTime,
		"pp_BillReference":     billReference,
		"pp_Description":       description,
		"pp_TxnExpiryDateTime": txnExpiryDateTime,
		"pp_ReturnURL":         gwConf.ReturnURL,
		"pp_BankID":            "",
		"pp_ProductID":         "",
		"ppmpf_1":              "",
		"ppmpf_2":              "",
		"ppmpf_3":              "",
		"ppmpf_4":              "",
		"ppmpf_5":              "",
	}

	secureHash, err := SecureHash(fields, gwConf.IntegritySalt)
	if err != nil {
		return nil, err
	}
	fields["pp_SecureHash"] = secureHash

	return fields, nil
}

// Verify checks an inbound return/IPN payload against its own hash field.
func (c *Client) Verify(fields map[string]string) bool {
	return VerifySecureHash(fields, fields["pp_SecureHash"], c.config.JazzCashConfig.IntegritySalt)
}

// BuildAcknowledgement produces the signed receipt body the gateway expects
// from the IPN endpoint.
func (c *Client) BuildAcknowledgement() (dto.IPNAcknowledgement, error) {
	ack := map[string]string{
		"pp_ResponseCode":    "000",
		"pp_ResponseMessage": "Success",
	}

	secureHash, err := SecureHash(ack, c.config.JazzCashConfig.IntegritySalt)
	if err != nil {
		return dto.IPNAcknowledgement{}, err
	}

	return dto.IPNAcknowledgement{
		ResponseCode:    ack["pp_ResponseCode"],
		ResponseMessage: ack["pp_ResponseMessage"],
		SecureHash:      secureHash,
	}, nil
}

func (c *Client) CheckoutURL() string {
	return c.config.JazzCashConfig.CheckoutURL
}
