package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/alimikegami/event-management/payment-service/config"
	"github.com/alimikegami/event-management/payment-service/internal/domain"
	"github.com/alimikegami/event-management/payment-service/internal/dto"
	paymentgateway "github.com/alimikegami/event-management/payment-service/internal/infrastructure/payment-gateway"
	"github.com/alimikegami/event-management/payment-service/internal/repository"
	pkgdto "github.com/alimikegami/event-management/payment-service/pkg/dto"
	"github.com/alimikegami/event-management/payment-service/pkg/errs"
	"github.com/alimikegami/event-management/payment-service/pkg/utils"
	"github.com/oklog/ulid/v2"
	"github.com/segmentio/kafka-go"
	"gopkg.in/gomail.v2"
)

// A collision after this many attempts means the reference generator is
// broken, not unlucky.
const maxReferenceAttempts = 5

const (
	eventPaymentConfirmed = "payment_confirmed"
	eventPaymentFailed    = "payment_failed"
)

// EventPublisher is the producer half of the kafka connection; satisfied by
// *kafka.Conn.
type EventPublisher interface {
	WriteMessages(msgs ...kafka.Message) (int, error)
}

type PaymentServiceImpl struct {
	repository    repository.PaymentRepository
	gateway       *paymentgateway.Client
	kafkaProducer EventPublisher
	config        *config.Config
}

func CreatePaymentService(repository repository.PaymentRepository, gateway *paymentgateway.Client, kafkaProducer EventPublisher, config *config.Config) PaymentService {
	return &PaymentServiceImpl{
		repository:    repository,
		gateway:       gateway,
		kafkaProducer: kafkaProducer,
		config:        config,
	}
}

func (s *PaymentServiceImpl) InitiatePayment(ctx context.Context, req dto.PaymentRequest) (resp dto.CheckoutResponse, err error) {
	if req.AmountPaisa <= 0 {
		return resp, errs.ErrInvalidAmount
	}

	if req.Currency != s.config.JazzCashConfig.Currency {
		return resp, errs.ErrUnsupportedCurrency
	}

	if req.RegistrationNumber == "" {
		return resp, errs.ErrClient
	}

	description := req.Description
	if description == "" {
		description = fmt.Sprintf("Payment for registration %s", req.RegistrationNumber)
	}

	now := time.Now()

	for attempt := 0; attempt < maxReferenceAttempts; attempt++ {
		txnRefNo, err := utils.GenerateTxnRefNo()
		if err != nil {
			return resp, err
		}

		fields, err := s.gateway.BuildCheckoutFields(txnRefNo, req.AmountPaisa, req.RegistrationNumber, description, now)
		if err != nil {
			return resp, err
		}

		_, err = s.repository.AddTransaction(ctx, domain.Transaction{
			RegistrationNumber: req.RegistrationNumber,
			PayerEmail:         req.PayerEmail,
			TxnRefNo:           txnRefNo,
			AmountPaisa:        req.AmountPaisa,
			Currency:           req.Currency,
			Description:        description,
			Status:             domain.StatusPending,
			ExpiredAt:          now.Add(time.Duration(s.config.JazzCashConfig.ExpiryHours) * time.Hour).Unix(),
			CreatedAt:          now.Unix(),
			UpdatedAt:          now.Unix(),
		})
		if err == repository.ErrDuplicateReference {
			log.Warn().Str("component", "InitiatePayment").Str("txn_ref_no", txnRefNo).Msg("reference collision, regenerating")
			continue
		}
		if err != nil {
			return resp, err
		}

		return dto.CheckoutResponse{
			TxnRefNo: txnRefNo,
			Action:   s.gateway.CheckoutURL(),
			Method:   "POST",
			Fields:   fields,
		}, nil
	}

	log.Error().Str("component", "InitiatePayment").Msgf("could not allocate a unique transaction reference after %d attempts", maxReferenceAttempts)
	return resp, errs.ErrInternalServer
}

// applyGatewayResult runs one verified inbound result through the state
// machine under the row lock. It returns the transaction as stored after
// the call plus the reconciliation outcome.
func (s *PaymentServiceImpl) applyGatewayResult(ctx context.Context, txnRefNo, responseCode, responseMessage, rawPayload string) (result domain.Transaction, outcome string, err error) {
	err = s.repository.HandleTrx(ctx, func(ctx context.Context, repo repository.PaymentRepository) error {
		trx, err := repo.LockTransactionByReference(ctx, txnRefNo)
		if err != nil {
			if err == errs.ErrNotFound {
				return errs.ErrUnknownReference
			}
			return err
		}

		proposed := domain.StatusForResponseCode(responseCode)
		next, applied, conflict := domain.ApplyOutcome(trx.Status, proposed)

		if conflict {
			outcome = domain.IPNOutcomeConflict
			result = trx
			log.Error().
				Str("component", "applyGatewayResult").
				Str("txn_ref_no", txnRefNo).
				Str("current_status", trx.Status).
				Str("proposed_status", proposed).
				Str("response_code", responseCode).
				Msg("conflicting terminal outcome, keeping first-applied state; flagged for review")
			return nil
		}

		if !applied {
			outcome = domain.IPNOutcomeDuplicateIgnored
			result = trx
			return nil
		}

		trx.Status = next
		trx.ResponseCode = responseCode
		trx.ResponseMessage = responseMessage
		trx.RawPayload = rawPayload
		if next == domain.StatusConfirmed {
			paidAt := time.Now().Unix()
			trx.PaidAt = &paidAt
		}

		if err := repo.UpdateTransactionResult(ctx, trx); err != nil {
			return err
		}

		outcome = domain.IPNOutcomeApplied
		result = trx
		return nil
	})

	return result, outcome, err
}

func (s *PaymentServiceImpl) HandleReturn(ctx context.Context, payload map[string]string) (result dto.PaymentResult, err error) {
	if !s.gateway.Verify(payload) {
		log.Error().
			Str("component", "HandleReturn").
			Interface("payload", payload).
			Msg("hash verification failed on browser return")
		return result, errs.ErrSignatureInvalid
	}

	rawPayload, err := json.Marshal(payload)
	if err != nil {
		return result, err
	}

	trx, outcome, err := s.applyGatewayResult(ctx, payload["pp_TxnRefNo"], payload["pp_ResponseCode"], payload["pp_ResponseMessage"], string(rawPayload))
	if err != nil {
		return result, err
	}

	if outcome == domain.IPNOutcomeApplied && domain.IsTerminal(trx.Status) {
		s.notifyRegistration(trx)
	}

	return dto.PaymentResult{
		TxnRefNo: trx.TxnRefNo,
		Status:   trx.Status,
		Message:  messageForStatus(trx.Status),
	}, nil
}

func (s *PaymentServiceImpl) HandleIPN(ctx context.Context, sourceIP string, payload map[string]string) (ack dto.IPNAcknowledgement, err error) {
	rawPayload, err := json.Marshal(payload)
	if err != nil {
		return ack, err
	}

	// Every delivery is logged before any decision is taken on it; the log
	// is the audit trail for gateway retries.
	logEntry := domain.IPNDeliveryLog{
		ID:              ulid.Make().String(),
		TxnRefNo:        payload["pp_TxnRefNo"],
		SourceIP:        sourceIP,
		ResponseCode:    payload["pp_ResponseCode"],
		ResponseMessage: payload["pp_ResponseMessage"],
		RawPayload:      string(rawPayload),
		HashVerified:    s.gateway.Verify(payload),
		Outcome:         domain.IPNOutcomeReceived,
		ReceivedAt:      time.Now().Unix(),
	}

	if err := s.repository.AddIPNDeliveryLog(ctx, logEntry); err != nil {
		return ack, err
	}

	if !logEntry.HashVerified {
		log.Error().
			Str("component", "HandleIPN").
			Str("ipn_log_id", logEntry.ID).
			Str("source_ip", sourceIP).
			Interface("payload", payload).
			Msg("IPN hash verification failed")
		s.finalizeIPNLog(ctx, logEntry.ID, nil, domain.IPNOutcomeRejectedInvalidHash)
		return ack, errs.ErrSignatureInvalid
	}

	trx, outcome, err := s.applyGatewayResult(ctx, logEntry.TxnRefNo, logEntry.ResponseCode, logEntry.ResponseMessage, logEntry.RawPayload)
	if err == errs.ErrUnknownReference {
		// Acknowledge anyway: the gateway would otherwise retry forever for
		// a reference that will never exist here.
		log.Warn().
			Str("component", "HandleIPN").
			Str("txn_ref_no", logEntry.TxnRefNo).
			Msg("IPN for unknown transaction reference")
		s.finalizeIPNLog(ctx, logEntry.ID, nil, domain.IPNOutcomeRejectedUnknownReference)
		return s.gateway.BuildAcknowledgement()
	}
	if err != nil {
		// Leave the log entry in its received state; the gateway's retry is
		// the recovery path and this handler is safe to re-invoke.
		return ack, err
	}

	if err := s.repository.IncrementIPNDeliveryCount(ctx, trx.TxnRefNo); err != nil {
		log.Error().Err(err).Str("component", "HandleIPN").Msg("")
	}

	s.finalizeIPNLog(ctx, logEntry.ID, &trx.TxnRefNo, outcome)

	if outcome == domain.IPNOutcomeApplied && domain.IsTerminal(trx.Status) {
		s.notifyRegistration(trx)
	}

	return s.gateway.BuildAcknowledgement()
}

func (s *PaymentServiceImpl) finalizeIPNLog(ctx context.Context, id string, matchedTxnRefNo *string, outcome string) {
	if err := s.repository.FinalizeIPNDeliveryLog(ctx, id, matchedTxnRefNo, outcome, time.Now().Unix()); err != nil {
		log.Error().Err(err).Str("component", "finalizeIPNLog").Str("ipn_log_id", id).Msg("")
	}
}

func (s *PaymentServiceImpl) GetPayments(ctx context.Context, filter pkgdto.Filter) (response pkgdto.Pagination, err error) {
	var paymentResponses []dto.PaymentResponse
	datas, err := s.repository.GetTransactions(ctx, filter)
	if err != nil {
		return response, err
	}

	for _, data := range datas {
		paymentResponses = append(paymentResponses, toPaymentResponse(data))
	}

	response.Records = paymentResponses

	return
}

func (s *PaymentServiceImpl) GetPaymentByReference(ctx context.Context, txnRefNo string) (resp dto.PaymentResponse, err error) {
	data, err := s.repository.GetTransactionByReference(ctx, txnRefNo)
	if err != nil {
		return resp, err
	}

	return toPaymentResponse(data), nil
}

func (s *PaymentServiceImpl) InquireStatus(ctx context.Context, txnRefNo string) (resp dto.StatusInquiryResponse, err error) {
	trx, err := s.repository.GetTransactionByReference(ctx, txnRefNo)
	if err != nil {
		return resp, err
	}

	result, err := s.gateway.StatusInquiry(ctx, txnRefNo)
	if err != nil {
		return resp, err
	}

	return dto.StatusInquiryResponse{
		TxnRefNo:        trx.TxnRefNo,
		ResponseCode:    result.ResponseCode,
		ResponseMessage: result.ResponseMessage,
		PaymentCode:     result.PaymentResponseCode,
		PaymentMessage:  result.PaymentResponseMessage,
		Status:          trx.Status,
	}, nil
}

// ExpireStalePayments is the local safety net for transactions the gateway
// never reported back on. It goes through the same state machine as the
// delivery channels, so a late IPN against an expired transaction is
// handled as the conflict it is.
func (s *PaymentServiceImpl) ExpireStalePayments() {
	log.Info().Str("component", "ExpireStalePayments").Msg("cron starts")

	trxs, err := s.repository.GetTransactions(context.Background(), pkgdto.Filter{
		Status:  domain.StatusPending,
		Expired: true,
	})
	if err != nil {
		log.Error().Err(err).Str("component", "ExpireStalePayments").Msg("could not list stale pending transactions")
		return
	}

	for _, trx := range trxs {
		var expired domain.Transaction
		applied := false

		err := s.repository.HandleTrx(context.Background(), func(ctx context.Context, repo repository.PaymentRepository) error {
			locked, err := repo.LockTransactionByReference(ctx, trx.TxnRefNo)
			if err != nil {
				return err
			}

			next, ok, _ := domain.ApplyOutcome(locked.Status, domain.StatusExpired)
			if !ok {
				return nil
			}

			locked.Status = next
			if err := repo.UpdateTransactionResult(ctx, locked); err != nil {
				return err
			}

			expired = locked
			applied = true
			return nil
		})
		if err != nil {
			log.Error().Err(err).Str("component", "ExpireStalePayments").Str("txn_ref_no", trx.TxnRefNo).Msg("")
			continue
		}

		if applied {
			s.notifyRegistration(expired)
		}
	}

	log.Info().Str("component", "ExpireStalePayments").Msg("cron ends")
}

// notifyRegistration tells the registration service about the one
// transition into a terminal state. Only ever called when the state machine
// reported the transition as applied, which makes it exactly-once per
// transaction.
func (s *PaymentServiceImpl) notifyRegistration(trx domain.Transaction) {
	eventType := eventPaymentFailed
	if trx.Status == domain.StatusConfirmed {
		eventType = eventPaymentConfirmed
	}

	kafkaMsg := dto.KafkaMessage{
		EventType: eventType,
		Data: dto.RegistrationPaymentUpdate{
			TransactionNumber:  trx.TxnRefNo,
			RegistrationNumber: trx.RegistrationNumber,
			AmountPaisa:        trx.AmountPaisa,
			Currency:           trx.Currency,
			Status:             trx.Status,
			ResponseCode:       trx.ResponseCode,
		},
	}

	jsonMsg, err := json.Marshal(kafkaMsg)
	if err != nil {
		log.Error().Err(err).Str("component", "notifyRegistration").Msg("")
		return
	}

	maxRetries := 3
	for i := 0; i < maxRetries; i++ {
		err = s.writeKafkaMessageWithKey(jsonMsg, trx.TxnRefNo)
		if err == nil {
			break
		}
		log.Error().Err(err).Str("component", "notifyRegistration").Msg("")
		time.Sleep(time.Second * time.Duration(i+1)) // Exponential backoff
	}

	if err != nil {
		log.Error().Err(err).Str("component", "notifyRegistration").Msgf("failed to write Kafka message after %d attempts", maxRetries)
		return
	}

	if trx.Status == domain.StatusConfirmed {
		s.sendReceiptEmail(trx)
	}
}

func (s *PaymentServiceImpl) sendReceiptEmail(trx domain.Transaction) {
	if trx.PayerEmail == "" || s.config.SMTPConfig.Server == "" {
		return
	}

	paidAt := trx.CreatedAt
	if trx.PaidAt != nil {
		paidAt = *trx.PaidAt
	}

	paidAtDisplay, err := utils.ConvertDateTimeToHumanReadableFormat(paidAt)
	if err != nil {
		log.Error().Err(err).Str("component", "sendReceiptEmail").Msg("")
		return
	}

	message := gomail.NewMessage()
	message.SetHeader("From", s.config.SMTPConfig.Sender)
	message.SetHeader("To", trx.PayerEmail)
	message.SetHeader("Subject", fmt.Sprintf("Payment receipt %s", trx.TxnRefNo))
	message.SetBody("text/plain", fmt.Sprintf(
		"Your payment of %s %s for registration %s was received on %s.\nTransaction reference: %s",
		utils.PaisaToRupees(trx.AmountPaisa), trx.Currency, trx.RegistrationNumber, paidAtDisplay, trx.TxnRefNo,
	))

	if err := utils.SendEmail(message, s.config.SMTPConfig.Sender, s.config.SMTPConfig.Password, s.config.SMTPConfig.Server, s.config.SMTPConfig.Port); err != nil {
		log.Error().Err(err).Str("component", "sendReceiptEmail").Msg("")
	}
}

func (s *PaymentServiceImpl) writeKafkaMessageWithKey(msg []byte, key string) error {
	_, err := s.kafkaProducer.WriteMessages(
		kafka.Message{
			Key:   []byte(key),
			Value: msg,
		},
	)
	return err
}

func toPaymentResponse(data domain.Transaction) dto.PaymentResponse {
	return dto.PaymentResponse{
		TxnRefNo:           data.TxnRefNo,
		RegistrationNumber: data.RegistrationNumber,
		AmountPaisa:        data.AmountPaisa,
		Currency:           data.Currency,
		Status:             data.Status,
		ResponseCode:       data.ResponseCode,
		ResponseMessage:    data.ResponseMessage,
		IPNDeliveryCount:   data.IPNDeliveryCount,
		PaidAt:             data.PaidAt,
		CreatedAt:          data.CreatedAt,
	}
}

func messageForStatus(status string) string {
	switch status {
	case domain.StatusConfirmed:
		return "Payment received. Your registration is confirmed."
	case domain.StatusDeclined:
		return "Payment was declined by the gateway."
	case domain.StatusExpired:
		return "The payment window has expired. Please start a new payment."
	case domain.StatusError:
		return "Payment could not be completed due to a technical error."
	default:
		return "Payment is being processed, please wait."
	}
}
