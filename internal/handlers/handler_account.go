package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/apperrors"
	"github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/core/domain"
	portssvc "github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/core/ports/services"
	"github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/dto"
	"github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles the HTTP surface of the current-accounts product.
type accountHandler struct {
	accountSvc     portssvc.AccountSvc
	transactionSvc portssvc.TransactionSvc
	transferSvc    portssvc.TransferSvc
}

func newAccountHandler(accountSvc portssvc.AccountSvc, transactionSvc portssvc.TransactionSvc, transferSvc portssvc.TransferSvc) *accountHandler {
	return &accountHandler{
		accountSvc:     accountSvc,
		transactionSvc: transactionSvc,
		transferSvc:    transferSvc,
	}
}

// createAccount handles POST /currentAccounts.
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	account, err := h.accountSvc.CreateAccount(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to create account")
		return
	}

	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// createTransaction handles POST /currentAccounts/transaction.
func (h *accountHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	txn, err := h.transactionSvc.CreateTransaction(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to create transaction")
		return
	}

	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// transfer handles POST /currentAccounts/transfer.
func (h *accountHandler) transfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for transfer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	operationNumber, err := h.transferSvc.Transfer(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to transfer")
		return
	}

	c.JSON(http.StatusOK, dto.TransferResponse{OperationNumber: operationNumber})
}

// getBalance handles GET /currentAccounts/balance/:accountId.
func (h *accountHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	balance, err := h.accountSvc.GetBalanceByAccountID(c.Request.Context(), c.Param("accountId"))
	if err != nil {
		respondError(c, logger, err, "Failed to get balance")
		return
	}

	c.JSON(http.StatusOK, dto.ToBalanceResponse(*balance))
}

// getBalancesByCustomer handles GET /currentAccounts/balance/byCustomer/:customerType/:customerId.
func (h *accountHandler) getBalancesByCustomer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	customerType, err := domain.ParseCustomerType(c.Param("customerType"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	balances, err := h.accountSvc.GetBalancesByCustomer(c.Request.Context(), c.Param("customerId"), customerType)
	if err != nil {
		respondError(c, logger, err, "Failed to get balances by customer")
		return
	}

	res := make([]dto.BalanceResponse, len(balances))
	for i, balance := range balances {
		res[i] = dto.ToBalanceResponse(balance)
	}
	c.JSON(http.StatusOK, res)
}

// getAccountsByCustomer handles GET /currentAccounts/byCustomer/:customerType/:customerId.
func (h *accountHandler) getAccountsByCustomer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	customerType, err := domain.ParseCustomerType(c.Param("customerType"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	accounts, err := h.accountSvc.GetAccountsByCustomer(c.Request.Context(), c.Param("customerId"), customerType)
	if err != nil {
		respondError(c, logger, err, "Failed to get accounts by customer")
		return
	}

	c.JSON(http.StatusOK, dto.ToListAccountResponse(accounts))
}

// getMovements handles GET /currentAccounts/movements/:accountId/:year/:month.
func (h *accountHandler) getMovements(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Year must be a number"})
		return
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Month must be a number between 1 and 12"})
		return
	}

	period := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	txns, err := h.accountSvc.GetTransactionsByAccountAndPeriod(c.Request.Context(), c.Param("accountId"), period)
	if err != nil {
		respondError(c, logger, err, "Failed to get movements")
		return
	}

	c.JSON(http.StatusOK, dto.ToListTransactionResponse(txns))
}

// respondError maps the error taxonomy to HTTP statuses: validation failures
// to 400, missing resources to 404, dead remote dependencies to 503.
func respondError(c *gin.Context, logger *slog.Logger, err error, logMsg string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn(logMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn(logMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrUnavailable):
		logger.Error(logMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		logger.Error(logMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
