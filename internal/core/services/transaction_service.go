package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/apperrors"
	"github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/core/domain"
	portsrepo "github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/core/ports/repositories"
	portssvc "github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/core/ports/services"
	"github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/core/rules"
	"github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/dto"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// comissionRate is the maintenance commission charged on each transaction past
// the monthly commission-free quota, as a fraction of the transaction amount.
var comissionRate = decimal.RequireFromString("0.005")

// comissionDescription labels the auto-injected commission ledger entries.
const comissionDescription = "Maintenance commission by limit transactions"

// transactionService appends ledger entries, enforcing the balance sufficiency
// rule and the monthly commission policy.
type transactionService struct {
	BaseService
	accountRepo     portsrepo.AccountRepository
	transactionRepo portsrepo.TransactionRepository
	sequenceRepo    portsrepo.SequenceRepository
	// comissionFreeLimit is the number of commission-free transactions per
	// calendar month.
	comissionFreeLimit int64
}

// NewTransactionService creates the transaction service.
func NewTransactionService(
	accountRepo portsrepo.AccountRepository,
	transactionRepo portsrepo.TransactionRepository,
	sequenceRepo portsrepo.SequenceRepository,
	comissionFreeLimit int64,
) portssvc.TransactionSvc {
	return &transactionService{
		accountRepo:        accountRepo,
		transactionRepo:    transactionRepo,
		sequenceRepo:       sequenceRepo,
		comissionFreeLimit: comissionFreeLimit,
	}
}

var _ portssvc.TransactionSvc = (*transactionService)(nil)

// CreateTransaction appends one ledger entry, plus a commission entry when the
// account has exhausted its monthly commission-free quota. The sufficiency
// check, the quota count and the inserts run inside one database transaction
// holding a row lock on the account, so concurrent appends against the same
// account cannot both pass the check on a stale balance.
func (s *transactionService) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	chain := []rules.Rule[dto.CreateTransactionRequest]{
		{Broken: func(r dto.CreateTransactionRequest) bool { return r.AccountID == "" }, Reason: "Account ID is required"},
		{Broken: func(r dto.CreateTransactionRequest) bool { return r.Agent == "" }, Reason: "Agent is required"},
		{Broken: func(r dto.CreateTransactionRequest) bool { return r.Amount == nil }, Reason: "Amount is required"},
		{Broken: func(r dto.CreateTransactionRequest) bool { return r.Description == "" }, Reason: "Description is required"},
	}
	if err := rules.Check(req, chain); err != nil {
		return nil, err
	}

	if _, err := s.accountRepo.FindAccountByID(ctx, req.AccountID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFound("Account not found")
		}
		return nil, err
	}

	tx, err := s.transactionRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.transactionRepo.Rollback(ctx, tx)

	if err := s.accountRepo.LockAccount(ctx, tx, req.AccountID); err != nil {
		return nil, err
	}

	balance, err := s.transactionRepo.SumAmountByAccount(ctx, tx, req.AccountID)
	if err != nil {
		return nil, err
	}

	amount := *req.Amount
	if balance.Add(amount).IsNegative() {
		return nil, apperrors.NewValidation("Insufficient balance")
	}

	now := time.Now().UTC()
	monthStart, monthEnd := monthRange(now)
	monthCount, err := s.transactionRepo.CountByAccountAndDateRange(ctx, tx, req.AccountID, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}

	applyComission := monthCount >= s.comissionFreeLimit
	comissionAmount := amount.Abs().Mul(comissionRate).Neg()
	if applyComission && balance.Add(amount).Add(comissionAmount).IsNegative() {
		// The commission must never overdraw the account; the primary
		// transaction is rejected along with it.
		return nil, apperrors.NewValidation("Insufficient balance, cannot apply the commission")
	}

	txn, err := s.persistEntry(ctx, tx, req, now)
	if err != nil {
		return nil, err
	}

	if applyComission {
		comissionReq := dto.CreateTransactionRequest{
			AccountID:         req.AccountID,
			Agent:             domain.SystemAgent,
			Description:       comissionDescription,
			Amount:            &comissionAmount,
			CreateByComission: true,
		}
		comissionTxn, err := s.persistEntry(ctx, tx, comissionReq, now)
		if err != nil {
			return nil, err
		}
		s.LogInfo(ctx, "Maintenance commission applied",
			slog.String("account_id", req.AccountID),
			slog.String("comission_amount", comissionAmount.String()),
			slog.Int64("operation_number", comissionTxn.OperationNumber))
	}

	if err := s.transactionRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return txn, nil
}

// persistEntry stamps a ledger entry with the next operation number and the
// register date, then appends it inside tx.
func (s *transactionService) persistEntry(ctx context.Context, tx pgx.Tx, req dto.CreateTransactionRequest, now time.Time) (*domain.Transaction, error) {
	operationNumber, err := s.sequenceRepo.Next(ctx, tx, sequenceCounterName)
	if err != nil {
		return nil, err
	}

	txn := domain.Transaction{
		TransactionID:          uuid.NewString(),
		AccountID:              req.AccountID,
		Agent:                  req.Agent,
		Description:            req.Description,
		Amount:                 *req.Amount,
		OperationNumber:        operationNumber,
		RegisterDate:           now,
		CreateByMaintenanceFee: req.CreateByMaintenanceFee,
		CreateByComission:      req.CreateByComission,
	}
	if err := s.transactionRepo.SaveTransaction(ctx, tx, txn); err != nil {
		return nil, err
	}
	return &txn, nil
}
