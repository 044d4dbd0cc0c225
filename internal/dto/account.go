package dto

import (
	"github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest carries the data needed to open a current account.
// Monetary fields are pointers so a missing field can be told apart from an
// explicit zero.
type CreateAccountRequest struct {
	CustomerID     string              `json:"customerId"`
	CustomerType   domain.CustomerType `json:"customerType" binding:"omitempty,oneof=PERSONAL BUSINESS"`
	MaintenanceFee *decimal.Decimal    `json:"maintenanceFee"`
	OpeningAmount  *decimal.Decimal    `json:"openingAmount"`
	// Profile marks a small/medium-enterprise opening ("PYME"), which requires
	// the customer to already hold a credit product.
	Profile string `json:"profile"`
}

// ToAccount builds the domain account to persist. The account ID is assigned
// by the service.
func (r CreateAccountRequest) ToAccount() domain.Account {
	account := domain.Account{
		CustomerID:   r.CustomerID,
		CustomerType: r.CustomerType,
	}
	if r.MaintenanceFee != nil {
		account.MaintenanceFee = *r.MaintenanceFee
	}
	return account
}

// AccountResponse mirrors domain.Account for the HTTP surface.
type AccountResponse struct {
	AccountID      string              `json:"accountID"`
	CustomerID     string              `json:"customerID"`
	CustomerType   domain.CustomerType `json:"customerType"`
	MaintenanceFee decimal.Decimal     `json:"maintenanceFee"`
}

// ToAccountResponse converts a domain.Account to its response shape.
func ToAccountResponse(account *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:      account.AccountID,
		CustomerID:     account.CustomerID,
		CustomerType:   account.CustomerType,
		MaintenanceFee: account.MaintenanceFee,
	}
}

// ToListAccountResponse converts a slice of accounts.
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}
