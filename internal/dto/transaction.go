package dto

import (
	"time"

	"github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest carries the data for one ledger append. It is also
// the payload posted to a peer account service for the credit leg of a
// transfer, so its JSON shape is shared across the account-product services.
type CreateTransactionRequest struct {
	AccountID              string           `json:"accountId"`
	Agent                  string           `json:"agent"`
	Description            string           `json:"description"`
	Amount                 *decimal.Decimal `json:"amount"`
	CreateByMaintenanceFee bool             `json:"createByMaintenanceFee"`
	CreateByComission      bool             `json:"createByComission"`
}

// TransactionResponse mirrors domain.Transaction for the HTTP surface.
type TransactionResponse struct {
	TransactionID          string          `json:"transactionID"`
	AccountID              string          `json:"accountID"`
	Agent                  string          `json:"agent"`
	Description            string          `json:"description"`
	Amount                 decimal.Decimal `json:"amount"`
	OperationNumber        int64           `json:"operationNumber"`
	RegisterDate           time.Time       `json:"registerDate"`
	CreateByMaintenanceFee bool            `json:"createByMaintenanceFee"`
	CreateByComission      bool            `json:"createByComission"`
}

// ToTransactionResponse converts a domain.Transaction to its response shape.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:          txn.TransactionID,
		AccountID:              txn.AccountID,
		Agent:                  txn.Agent,
		Description:            txn.Description,
		Amount:                 txn.Amount,
		OperationNumber:        txn.OperationNumber,
		RegisterDate:           txn.RegisterDate,
		CreateByMaintenanceFee: txn.CreateByMaintenanceFee,
		CreateByComission:      txn.CreateByComission,
	}
}

// ToListTransactionResponse converts a slice of transactions.
func ToListTransactionResponse(txns []domain.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i := range txns {
		res[i] = ToTransactionResponse(&txns[i])
	}
	return res
}
