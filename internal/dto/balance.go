package dto

import (
	"github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceResponse is the derived balance view returned by the balance queries.
type BalanceResponse struct {
	AccountID      string          `json:"accountId"`
	Type           string          `json:"type"`
	Amount         decimal.Decimal `json:"amount"`
	MaintenanceFee decimal.Decimal `json:"maintenanceFee"`
}

// ToBalanceResponse converts a domain.Balance to its response shape.
func ToBalanceResponse(balance domain.Balance) BalanceResponse {
	return BalanceResponse{
		AccountID:      balance.AccountID,
		Type:           balance.Type,
		Amount:         balance.Amount,
		MaintenanceFee: balance.MaintenanceFee,
	}
}

// CreditBalance is the balance shape reported by the credit-products service
// for one credit product.
type CreditBalance struct {
	AccountID string          `json:"accountId"`
	Type      string          `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
}
