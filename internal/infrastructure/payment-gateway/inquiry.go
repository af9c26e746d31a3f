package paymentgateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/alimikegami/event-management/payment-service/internal/dto"
	"github.com/alimikegami/event-management/payment-service/pkg/errs"
	"github.com/alimikegami/event-management/payment-service/pkg/httpclient"
	"github.com/alimikegami/event-management/payment-service/pkg/utils"
	"github.com/rs/zerolog/log"
)

// StatusInquiry asks the gateway for its view of a transaction. Read-only:
// callers must not apply the result as a state transition, the two delivery
// channels own that.
func (c *Client) StatusInquiry(ctx context.Context, txnRefNo string) (dto.StatusInquiryResult, error) {
	gwConf := c.config.JazzCashConfig

	txnDateTime, err := utils.FormatGatewayDateTime(time.Now())
	if err != nil {
		return dto.StatusInquiryResult{}, err
	}

	params := map[string]string{
		"pp_MerchantID":  gwConf.MerchantID,
		"pp_Password":    gwConf.Password,
		"pp_TxnRefNo":    txnRefNo,
		"pp_TxnDateTime": txnDateTime,
	}

	secureHash, err := SecureHash(params, gwConf.IntegritySalt)
	if err != nil {
		return dto.StatusInquiryResult{}, err
	}
	params["pp_SecureHash"] = secureHash

	jsonBody, err := json.Marshal(params)
	if err != nil {
		return dto.StatusInquiryResult{}, fmt.Errorf("error marshalling status inquiry request: %v", err)
	}

	body, err := c.cb.Execute(func() ([]byte, error) {
		statusCode, respBody, err := httpclient.SendRequest(ctx, httpclient.HttpRequest{
			URL:    gwConf.StatusInquiryURL,
			Method: "POST",
			Body:   jsonBody,
			Headers: map[string]string{
				"Content-Type": "application/json",
			},
		})
		if err != nil {
			return nil, err
		}

		if statusCode != http.StatusOK {
			return nil, fmt.Errorf("status inquiry returned non-OK status: %d", statusCode)
		}

		return respBody, nil
	})
	if err != nil {
		log.Error().Err(err).Str("component", "StatusInquiry").Msg("")
		return dto.StatusInquiryResult{}, errs.ErrGatewayUnavailable
	}

	var result dto.StatusInquiryResult
	if err := json.Unmarshal(body, &result); err != nil {
		log.Error().Err(err).Str("component", "StatusInquiry").Msg("")
		return dto.StatusInquiryResult{}, errs.ErrGatewayUnavailable
	}

	return result, nil
}
