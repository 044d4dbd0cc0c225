package handlers

import (
	"errors"
	"fmt"
	"strings"

	portssvc "github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/core/ports/services"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// RegisterRoutes wires the HTTP surface onto the router.
func RegisterRoutes(
	r *gin.Engine,
	accountSvc portssvc.AccountSvc,
	transactionSvc portssvc.TransactionSvc,
	transferSvc portssvc.TransferSvc,
) {
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	h := newAccountHandler(accountSvc, transactionSvc, transferSvc)

	accounts := r.Group("/currentAccounts")
	{
		accounts.POST("", h.createAccount)
		accounts.POST("/transaction", h.createTransaction)
		accounts.POST("/transfer", h.transfer)
		accounts.GET("/balance/:accountId", h.getBalance)
		accounts.GET("/balance/byCustomer/:customerType/:customerId", h.getBalancesByCustomer)
		accounts.GET("/byCustomer/:customerType/:customerId", h.getAccountsByCustomer)
		accounts.GET("/movements/:accountId/:year/:month", h.getMovements)
	}
}

// bindingErrorMessage flattens gin binding failures into one readable message.
func bindingErrorMessage(err error) string {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		reasons := make([]string, len(validationErrs))
		for i, fieldErr := range validationErrs {
			reasons[i] = fmt.Sprintf("field %s failed on rule %s", fieldErr.Field(), fieldErr.Tag())
		}
		return strings.Join(reasons, "; ")
	}
	return "Invalid request format: " + err.Error()
}
