package dto

import (
	"github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransferRequest describes a cross-account transfer: a debit against the
// local source account and a credit posted to the target account's service.
type TransferRequest struct {
	SourceAccountID   string             `json:"sourceAccountId"`
	TargetAccountType domain.AccountType `json:"targetAccountType" binding:"omitempty,oneof=CURRENT SAVING FIXED"`
	TargetAccountID   string             `json:"targetAccountId"`
	Amount            *decimal.Decimal   `json:"amount"`
}

// TransferResponse returns the operation number of the source debit.
type TransferResponse struct {
	OperationNumber int64 `json:"operationNumber"`
}
