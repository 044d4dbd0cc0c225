package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is an immutable ledger entry attached to an account.
// Positive amounts are credits, negative amounts are debits. The balance of an
// account is always the sum of its entries; it is never stored.
type Transaction struct {
	TransactionID          string          `json:"transactionID"`
	AccountID              string          `json:"accountID"`
	Agent                  string          `json:"agent"`
	Description            string          `json:"description"`
	Amount                 decimal.Decimal `json:"amount"`
	OperationNumber        int64           `json:"operationNumber"` // globally unique, strictly increasing
	RegisterDate           time.Time       `json:"registerDate"`    // assigned at persist time
	CreateByMaintenanceFee bool            `json:"createByMaintenanceFee"`
	CreateByComission      bool            `json:"createByComission"`
}

// SystemAgent marks ledger entries generated by the service itself rather than
// a channel or teller (opening deposits, commissions, transfer legs).
const SystemAgent = "-"
