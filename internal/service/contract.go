package service

import (
	"context"

	"github.com/alimikegami/event-management/payment-service/internal/dto"
	pkgdto "github.com/alimikegami/event-management/payment-service/pkg/dto"
)

type PaymentService interface {
	InitiatePayment(ctx context.Context, req dto.PaymentRequest) (resp dto.CheckoutResponse, err error)
	HandleReturn(ctx context.Context, payload map[string]string) (result dto.PaymentResult, err error)
	HandleIPN(ctx context.Context, sourceIP string, payload map[string]string) (ack dto.IPNAcknowledgement, err error)
	GetPayments(ctx context.Context, filter pkgdto.Filter) (response pkgdto.Pagination, err error)
	GetPaymentByReference(ctx context.Context, txnRefNo string) (resp dto.PaymentResponse, err error)
	InquireStatus(ctx context.Context, txnRefNo string) (resp dto.StatusInquiryResponse, err error)
	ExpireStalePayments()
}
