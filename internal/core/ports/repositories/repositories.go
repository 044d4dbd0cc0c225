// Package repositories defines the persistence contracts consumed by the core
// services. Implementations live under internal/repositories/database.
package repositories

import (
	"context"
	"time"

	"github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// TransactionManager exposes database transaction control to services that
// need several statements to observe and mutate the ledger atomically.
type TransactionManager interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Commit(ctx context.Context, tx pgx.Tx) error
	// Rollback is safe to defer; rolling back a committed transaction is a no-op.
	Rollback(ctx context.Context, tx pgx.Tx)
}

// AccountRepository persists and retrieves Account records.
type AccountRepository interface {
	// SaveAccount persists a new account under the ID already assigned to it.
	SaveAccount(ctx context.Context, account domain.Account) error

	// FindAccountByID returns the account or apperrors.ErrNotFound.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountsByCustomer returns zero or more accounts owned by the
	// customer of the given type.
	FindAccountsByCustomer(ctx context.Context, customerID string, customerType domain.CustomerType) ([]domain.Account, error)

	// LockAccount takes a row lock on the account inside tx, serializing
	// concurrent ledger appends against the same account.
	LockAccount(ctx context.Context, tx pgx.Tx, accountID string) error
}

// TransactionRepository is the append-only store of ledger entries.
// Methods accepting a tx run inside it when tx is non-nil and directly against
// the pool otherwise.
type TransactionRepository interface {
	TransactionManager

	// SaveTransaction appends one ledger entry.
	SaveTransaction(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error

	// SumAmountByAccount returns the account balance, zero if it has no entries.
	SumAmountByAccount(ctx context.Context, tx pgx.Tx, accountID string) (decimal.Decimal, error)

	// CountByAccountAndDateRange counts entries registered in the half-open
	// window [start, end).
	CountByAccountAndDateRange(ctx context.Context, tx pgx.Tx, accountID string, start, end time.Time) (int64, error)

	// FindByAccountAndDateRange returns the entries registered in [start, end).
	FindByAccountAndDateRange(ctx context.Context, accountID string, start, end time.Time) ([]domain.Transaction, error)

	// DeleteTransactionByID removes one entry. The ledger is append-only;
	// this exists solely for transfer compensation.
	DeleteTransactionByID(ctx context.Context, transactionID string) error
}

// SequenceRepository issues globally unique, strictly increasing integers per
// named counter. Implementations must serialize concurrent callers, including
// callers in other processes. Next runs inside tx when non-nil; callers that
// already hold an open transaction must pass it so the draw does not need a
// second pooled connection.
type SequenceRepository interface {
	Next(ctx context.Context, tx pgx.Tx, counterName string) (int64, error)
}
