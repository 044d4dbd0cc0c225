package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CustomerType distinguishes the two customer segments the product serves.
type CustomerType string

const (
	Personal CustomerType = "PERSONAL"
	Business CustomerType = "BUSINESS"
)

// ParseCustomerType validates a raw customer type coming from a path parameter.
func ParseCustomerType(raw string) (CustomerType, error) {
	switch CustomerType(raw) {
	case Personal, Business:
		return CustomerType(raw), nil
	default:
		return "", fmt.Errorf("unknown customer type %q", raw)
	}
}

// AccountType identifies a sibling account-product service. Transfers name the
// target side by product type so the credit leg can be routed to the right service.
type AccountType string

const (
	CurrentAccount AccountType = "CURRENT"
	SavingAccount  AccountType = "SAVING"
	FixedAccount   AccountType = "FIXED"
)

// Account represents a current account within the core domain.
// A PERSONAL customer may own at most one; a BUSINESS customer may own many.
type Account struct {
	AccountID      string          `json:"accountID"`
	CustomerID     string          `json:"customerID"`
	CustomerType   CustomerType    `json:"customerType"`
	MaintenanceFee decimal.Decimal `json:"maintenanceFee"`
}
