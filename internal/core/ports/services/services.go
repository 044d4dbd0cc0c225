// Package services defines the facades the handlers program against and the
// seams the flows use to compose each other.
package services

import (
	"context"
	"time"

	"github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/core/domain"
	"github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/dto"
)

// AccountSvc covers account opening and the read-side queries.
type AccountSvc interface {
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error)
	GetAccountsByCustomer(ctx context.Context, customerID string, customerType domain.CustomerType) ([]domain.Account, error)
	GetBalanceByAccountID(ctx context.Context, accountID string) (*domain.Balance, error)
	GetBalancesByCustomer(ctx context.Context, customerID string, customerType domain.CustomerType) ([]domain.Balance, error)
	GetTransactionsByAccountAndPeriod(ctx context.Context, accountID string, period time.Time) ([]domain.Transaction, error)
}

// TransactionSvc appends ledger entries with balance and commission rules
// applied. The transfer flow reuses it for the local debit leg.
type TransactionSvc interface {
	CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest) (*domain.Transaction, error)
}

// TransferSvc orchestrates the two-leg transfer saga and returns the source
// debit's operation number.
type TransferSvc interface {
	Transfer(ctx context.Context, req dto.TransferRequest) (int64, error)
}
