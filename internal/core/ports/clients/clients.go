// Package clients defines the contracts for the remote collaborators this
// service depends on. Both are reached over HTTP behind a circuit breaker; the
// implementations live under internal/clients.
package clients

import (
	"context"

	"github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/core/domain"
	"github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/dto"
)

// CreditGateway queries the credit-products service about a customer's
// exposure.
type CreditGateway interface {
	// GetAllBalances returns the customer's credit balances. When the breaker
	// is open or the call times out it returns an empty slice: "no credit
	// products" is the conservative default for eligibility checks.
	GetAllBalances(ctx context.Context, customerID string) ([]dto.CreditBalance, error)

	// HasOverdueDebt reports whether the customer has overdue debt. There is
	// no safe fallback: when the answer cannot be obtained the error is
	// apperrors.ErrUnavailable, never a default of false.
	HasOverdueDebt(ctx context.Context, customerID string, customerType domain.CustomerType) (bool, error)
}

// PeerAccountGateway posts a transaction against an account hosted by a
// sibling account-product service, selected by account type. It returns the
// remote operation number.
type PeerAccountGateway interface {
	CreateTransaction(ctx context.Context, accountType domain.AccountType, req dto.CreateTransactionRequest) (int64, error)
}
