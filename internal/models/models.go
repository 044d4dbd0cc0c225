// Package models holds the database-shape structs the pgsql repositories scan
// into. They are mapped to and from the domain types at the repository
// boundary.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is the row shape of the accounts table.
type Account struct {
	AccountID      string
	CustomerID     string
	CustomerType   string
	MaintenanceFee decimal.Decimal
}

// Transaction is the row shape of the transactions table.
type Transaction struct {
	TransactionID          string
	AccountID              string
	Agent                  string
	Description            string
	Amount                 decimal.Decimal
	OperationNumber        int64
	RegisterDate           time.Time
	CreateByMaintenanceFee bool
	CreateByComission      bool
}
