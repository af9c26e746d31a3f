package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/alimikegami/event-management/payment-service/internal/domain"
	pkgdto "github.com/alimikegami/event-management/payment-service/pkg/dto"
	"github.com/alimikegami/event-management/payment-service/pkg/errs"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

// ErrDuplicateReference surfaces the unique constraint on txn_ref_no so the
// service's bounded collision-retry loop can distinguish it from real
// failures.
var ErrDuplicateReference = errors.New("transaction reference already exists")

type PaymentRepositoryImpl struct {
	db *sqlx.DB
	tx *sqlx.Tx
}

func CreatePaymentRepository(db *sqlx.DB) PaymentRepository {
	return &PaymentRepositoryImpl{
		db: db,
	}
}

func (r *PaymentRepositoryImpl) ext() sqlx.ExtContext {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *PaymentRepositoryImpl) AddTransaction(ctx context.Context, data domain.Transaction) (id int64, err error) {
	rows, err := sqlx.NamedQueryContext(ctx, r.ext(), `INSERT INTO transactions(registration_number, payer_email, txn_ref_no, amount_paisa, currency, description, status, response_code, response_message, raw_payload, ipn_delivery_count, expired_at, created_at, updated_at) VALUES (:registration_number, :payer_email, :txn_ref_no, :amount_paisa, :currency, :description, :status, :response_code, :response_message, :raw_payload, :ipn_delivery_count, :expired_at, :created_at, :updated_at) RETURNING id`, data)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return 0, ErrDuplicateReference
		}
		log.Error().Err(err).Str("component", "AddTransaction").Msg("")
		return 0, err
	}
	defer rows.Close()

	if rows.Next() {
		if err = rows.Scan(&id); err != nil {
			log.Error().Err(err).Str("component", "AddTransaction").Msg("")
			return 0, err
		}
	}

	return id, nil
}

func (r *PaymentRepositoryImpl) GetTransactionByReference(ctx context.Context, txnRefNo string) (data domain.Transaction, err error) {
	err = sqlx.GetContext(ctx, r.ext(), &data, "SELECT * FROM transactions WHERE txn_ref_no = $1", txnRefNo)
	if err != nil {
		if err == sql.ErrNoRows {
			return data, errs.ErrNotFound
		}
		log.Error().Err(err).Str("component", "GetTransactionByReference").Msg("")
		return data, errs.ErrInternalServer
	}

	return
}

func (r *PaymentRepositoryImpl) LockTransactionByReference(ctx context.Context, txnRefNo string) (data domain.Transaction, err error) {
	if r.tx == nil {
		log.Error().Str("component", "LockTransactionByReference").Msg("called outside of a transaction")
		return data, errs.ErrInternalServer
	}

	err = sqlx.GetContext(ctx, r.tx, &data, "SELECT * FROM transactions WHERE txn_ref_no = $1 FOR UPDATE", txnRefNo)
	if err != nil {
		if err == sql.ErrNoRows {
			return data, errs.ErrNotFound
		}
		log.Error().Err(err).Str("component", "LockTransactionByReference").Msg("")
		return data, errs.ErrInternalServer
	}

	return
}

func (r *PaymentRepositoryImpl) UpdateTransactionResult(ctx context.Context, data domain.Transaction) (err error) {
	data.UpdatedAt = time.Now().Unix()
	_, err = sqlx.NamedExecContext(ctx, r.ext(), "UPDATE transactions SET status = :status, response_code = :response_code, response_message = :response_message, raw_payload = :raw_payload, paid_at = :paid_at, updated_at = :updated_at WHERE id = :id", data)
	if err != nil {
		log.Error().Err(err).Str("component", "UpdateTransactionResult").Msg("")
		return errs.ErrInternalServer
	}

	return nil
}

func (r *PaymentRepositoryImpl) GetTransactions(ctx context.Context, filter pkgdto.Filter) (data []domain.Transaction, err error) {
	query := "SELECT * FROM transactions WHERE 1=1"

	args := make(map[string]interface{})

	if filter.Status != "" {
		query += " AND status = :status"
		args["status"] = filter.Status
	}

	if filter.Expired {
		query += " AND expired_at < :now"
		args["now"] = time.Now().Unix()
	}

	query += " ORDER BY created_at DESC"

	if filter.Limit != 0 && filter.Page != 0 {
		offset := (filter.Page - 1) * filter.Limit
		query += " LIMIT :limit OFFSET :offset"
		args["limit"] = filter.Limit
		args["offset"] = offset
	}

	query, argList, err := sqlx.Named(query, args)
	if err != nil {
		log.Error().Err(err).Str("component", "GetTransactions").Msg("")
		return nil, errs.ErrInternalServer
	}

	err = sqlx.SelectContext(ctx, r.ext(), &data, r.ext().Rebind(query), argList...)
	if err != nil {
		log.Error().Err(err).Str("component", "GetTransactions").Msg("")
		return nil, errs.ErrInternalServer
	}

	return
}

func (r *PaymentRepositoryImpl) IncrementIPNDeliveryCount(ctx context.Context, txnRefNo string) (err error) {
	_, err = r.ext().ExecContext(ctx, "UPDATE transactions SET ipn_delivery_count = ipn_delivery_count + 1, updated_at = $1 WHERE txn_ref_no = $2", time.Now().Unix(), txnRefNo)
	if err != nil {
		log.Error().Err(err).Str("component", "IncrementIPNDeliveryCount").Msg("")
		return errs.ErrInternalServer
	}

	return nil
}

func (r *PaymentRepositoryImpl) AddIPNDeliveryLog(ctx context.Context, data domain.IPNDeliveryLog) (err error) {
	_, err = sqlx.NamedExecContext(ctx, r.ext(), "INSERT INTO ipn_delivery_logs(id, txn_ref_no, matched_txn_ref_no, source_ip, response_code, response_message, raw_payload, hash_verified, outcome, received_at, processed_at) VALUES (:id, :txn_ref_no, :matched_txn_ref_no, :source_ip, :response_code, :response_message, :raw_payload, :hash_verified, :outcome, :received_at, :processed_at)", data)
	if err != nil {
		log.Error().Err(err).Str("component", "AddIPNDeliveryLog").Msg("")
		return errs.ErrInternalServer
	}

	return nil
}

func (r *PaymentRepositoryImpl) FinalizeIPNDeliveryLog(ctx context.Context, id string, matchedTxnRefNo *string, outcome string, processedAt int64) (err error) {
	_, err = r.ext().ExecContext(ctx, "UPDATE ipn_delivery_logs SET matched_txn_ref_no = $1, outcome = $2, processed_at = $3 WHERE id = $4", matchedTxnRefNo, outcome, processedAt, id)
	if err != nil {
		log.Error().Err(err).Str("component", "FinalizeIPNDeliveryLog").Msg("")
		return errs.ErrInternalServer
	}

	return nil
}

// HandleTrx runs fn inside one database transaction. The result must be
// named: the deferred commit assigns to it, and a commit failure has to
// reach the caller — an acknowledged-but-unpersisted transition would stop
// the gateway's retries with the transaction still pending.
func (r *PaymentRepositoryImpl) HandleTrx(ctx context.Context, fn func(ctx context.Context, repo PaymentRepository) error) (err error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	trxRepo := &PaymentRepositoryImpl{
		db: r.db,
		tx: tx,
	}

	err = fn(ctx, trxRepo)

	return err
}
