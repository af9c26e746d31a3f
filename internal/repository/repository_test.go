package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errCommitFailed = errors.New("commit failed: connection reset")

// flakyCommitDriver hands out connections whose transactions fail at commit
// time, the one database fault HandleTrx cannot see before its callback has
// already succeeded.
type flakyCommitDriver struct{}

func (d *flakyCommitDriver) Open(name string) (driver.Conn, error) {
	return &flakyCommitConn{}, nil
}

type flakyCommitConn struct{}

func (c *flakyCommitConn) Prepare(query string) (driver.Stmt, error) {
	return nil, errors.New("prepare not supported")
}

func (c *flakyCommitConn) Close() error {
	return nil
}

func (c *flakyCommitConn) Begin() (driver.Tx, error) {
	return &flakyCommitTx{}, nil
}

type flakyCommitTx struct{}

func (t *flakyCommitTx) Commit() error {
	return errCommitFailed
}

func (t *flakyCommitTx) Rollback() error {
	return nil
}

func init() {
	sql.Register("flakycommit", &flakyCommitDriver{})
}

func newFlakyCommitRepository(t *testing.T) PaymentRepository {
	t.Helper()

	sqlDB, err := sql.Open("flakycommit", "")
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	return CreatePaymentRepository(sqlx.NewDb(sqlDB, "postgres"))
}

func TestHandleTrxPropagatesCommitFailure(t *testing.T) {
	repo := newFlakyCommitRepository(t)

	called := false
	err := repo.HandleTrx(context.Background(), func(ctx context.Context, repo PaymentRepository) error {
		called = true
		return nil
	})

	assert.True(t, called)
	assert.ErrorIs(t, err, errCommitFailed, "a failed commit must reach the caller, not read as a persisted transition")
}

func TestHandleTrxPropagatesCallbackError(t *testing.T) {
	repo := newFlakyCommitRepository(t)

	errCallback := errors.New("callback failed")
	err := repo.HandleTrx(context.Background(), func(ctx context.Context, repo PaymentRepository) error {
		return errCallback
	})

	assert.ErrorIs(t, err, errCallback, "the callback error wins; commit is never attempted")
}

func TestLockTransactionByReferenceRequiresTransaction(t *testing.T) {
	repo := newFlakyCommitRepository(t)

	_, err := repo.LockTransactionByReference(context.Background(), "T2025101413560940")
	assert.Error(t, err, "the row lock is only meaningful inside HandleTrx")
}
