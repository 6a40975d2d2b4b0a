package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dan9191/bank-cards/internal/models"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// Postgres error codes the repositories translate
const (
	pqUniqueViolation      = "23505"
	pqForeignKeyViolation  = "23503"
	pqSerializationFailure = "40001"
	pqDeadlockDetected     = "40P01"
)

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txKey struct{}

// TxManager runs units of work in a database transaction carried by the context
type TxManager struct {
	db     *sql.DB
	logger *logrus.Logger
}

// NewTxManager initializes a new transaction manager
func NewTxManager(db *sql.DB, logger *logrus.Logger) *TxManager {
	return &TxManager{db: db, logger: logger}
}

// WithinTx runs fn in a transaction. A nested call joins the outer transaction.
// The transaction is rolled back if fn fails or ctx is cancelled before commit.
func (m *TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	tx, err := m.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return translateError(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		m.logger.WithError(err).Error("Failed to commit transaction")
		return translateError(err, "failed to commit transaction")
	}
	return nil
}

func txFrom(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(*sql.Tx)
	return tx, ok
}

// conn returns the transaction carried by ctx, or db outside a transaction
func conn(ctx context.Context, db *sql.DB) querier {
	if tx, ok := txFrom(ctx); ok {
		return tx
	}
	return db
}

// translateError maps driver failures onto the error taxonomy
func translateError(err error, op string) error {
	var pqErr *pq.Error
	switch {
	case errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation:
		return models.ErrDuplicateCardNumber
	case errors.As(err, &pqErr) && (pqErr.Code == pqSerializationFailure || pqErr.Code == pqDeadlockDetected):
		return models.ErrVersionConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w", op, err)
	default:
		return models.Internal(fmt.Errorf("%s: %w", op, err))
	}
}

type scanner interface {
	Scan(dest ...any) error
}
