package repository

import (
	"context"

	"github.com/alimikegami/event-management/payment-service/internal/domain"
	pkgdto "github.com/alimikegami/event-management/payment-service/pkg/dto"
)

type PaymentRepository interface {
	HandleTrx(ctx context.Context, fn func(ctx context.Context, repo PaymentRepository) error) error

	AddTransaction(ctx context.Context, data domain.Transaction) (id int64, err error)
	GetTransactionByReference(ctx context.Context, txnRefNo string) (data domain.Transaction, err error)
	// LockTransactionByReference takes the row lock that serializes the two
	// delivery channels; only meaningful inside HandleTrx.
	LockTransactionByReference(ctx context.Context, txnRefNo string) (data domain.Transaction, err error)
	UpdateTransactionResult(ctx context.Context, data domain.Transaction) (err error)
	GetTransactions(ctx context.Context, filter pkgdto.Filter) (data []domain.Transaction, err error)
	IncrementIPNDeliveryCount(ctx context.Context, txnRefNo string) (err error)

	AddIPNDeliveryLog(ctx context.Context, data domain.IPNDeliveryLog) (err error)
	FinalizeIPNDeliveryLog(ctx context.Context, id string, matchedTxnRefNo *string, outcome string, processedAt int64) (err error)
}
