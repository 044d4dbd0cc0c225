package domain

import "github.com/shopspring/decimal"

// Balance is the derived view of an account's funds. It is recomputed from the
// ledger on every query and never persisted.
type Balance struct {
	AccountID      string          `json:"accountID"`
	Type           string          `json:"type"`
	Amount         decimal.Decimal `json:"amount"`
	MaintenanceFee decimal.Decimal `json:"maintenanceFee"`
}

// ProductName is the label the balance view reports for this account kind.
const ProductName = "Current Account"
