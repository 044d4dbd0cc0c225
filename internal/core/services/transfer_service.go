package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/apperrors"
	"github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/core/domain"
	portsclients "github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/core/ports/clients"
	portsrepo "github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/core/ports/repositories"
	portssvc "github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/core/ports/services"
	"github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/core/rules"
	"github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/dto"
)

// transferService orchestrates the two-leg transfer saga: a local debit, a
// remote credit, and a compensating delete of the debit when the credit leg
// fails. The saga is not atomic; compensation is best-effort.
type transferService struct {
	BaseService
	accountRepo     portsrepo.AccountRepository
	transactionRepo portsrepo.TransactionRepository
	transactionSvc  portssvc.TransactionSvc
	peerGateway     portsclients.PeerAccountGateway
}

// NewTransferService creates the transfer service.
func NewTransferService(
	accountRepo portsrepo.AccountRepository,
	transactionRepo portsrepo.TransactionRepository,
	transactionSvc portssvc.TransactionSvc,
	peerGateway portsclients.PeerAccountGateway,
) portssvc.TransferSvc {
	return &transferService{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		transactionSvc:  transactionSvc,
		peerGateway:     peerGateway,
	}
}

var _ portssvc.TransferSvc = (*transferService)(nil)

// Transfer debits the source account through the full transaction flow
// (balance and commission rules included), then posts the credit to the
// service owning the target account. On a failed credit leg the debit is
// deleted and the transfer fails. Returns the source debit's operation number.
func (s *transferService) Transfer(ctx context.Context, req dto.TransferRequest) (int64, error) {
	chain := []rules.Rule[dto.TransferRequest]{
		{Broken: func(r dto.TransferRequest) bool { return r.Amount == nil }, Reason: "Transfer amount is required"},
		{Broken: func(r dto.TransferRequest) bool { return !r.Amount.IsPositive() }, Reason: "Transfer amount must be greater than zero"},
		{Broken: func(r dto.TransferRequest) bool { return r.SourceAccountID == "" }, Reason: "Transfer source account ID is required"},
		{Broken: func(r dto.TransferRequest) bool { return r.TargetAccountType == "" }, Reason: "Transfer account type is required"},
		{Broken: func(r dto.TransferRequest) bool { return r.TargetAccountID == "" }, Reason: "Transfer account ID is required"},
	}
	if err := rules.Check(req, chain); err != nil {
		return 0, err
	}

	if _, err := s.accountRepo.FindAccountByID(ctx, req.SourceAccountID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return 0, apperrors.NewNotFound("Source account not found")
		}
		return 0, err
	}

	amount := *req.Amount
	debitAmount := amount.Neg()
	debitTxn, err := s.transactionSvc.CreateTransaction(ctx, dto.CreateTransactionRequest{
		AccountID:   req.SourceAccountID,
		Agent:       domain.SystemAgent,
		Description: "Transfer sent",
		Amount:      &debitAmount,
	})
	if err != nil {
		return 0, err
	}

	creditReq := dto.CreateTransactionRequest{
		AccountID:   req.TargetAccountID,
		Agent:       domain.SystemAgent,
		Description: fmt.Sprintf("Transfer incoming %d", debitTxn.OperationNumber),
		Amount:      &amount,
	}
	if _, err := s.peerGateway.CreateTransaction(ctx, req.TargetAccountType, creditReq); err != nil {
		s.LogWarn(ctx, "Credit leg failed, compensating source debit",
			slog.String("source_account_id", req.SourceAccountID),
			slog.String("target_account_id", req.TargetAccountID),
			slog.String("error", err.Error()))
		s.compensateDebit(ctx, debitTxn)
		return 0, apperrors.NewValidation("The operation could not be completed")
	}

	s.LogInfo(ctx, "Transfer completed",
		slog.String("source_account_id", req.SourceAccountID),
		slog.String("target_account_id", req.TargetAccountID),
		slog.Int64("operation_number", debitTxn.OperationNumber))
	return debitTxn.OperationNumber, nil
}

// compensateDebit deletes the debit-leg transaction. When the delete itself
// fails the source account stays debited with no matching credit; that stuck
// debit is raised as an operational alarm, while the caller still sees the
// transfer's terminal error.
func (s *transferService) compensateDebit(ctx context.Context, debitTxn *domain.Transaction) {
	if err := s.transactionRepo.DeleteTransactionByID(ctx, debitTxn.TransactionID); err != nil {
		s.LogError(ctx, err, "ALARM stuck debit: compensation delete failed, manual reconciliation required",
			slog.String("transaction_id", debitTxn.TransactionID),
			slog.String("account_id", debitTxn.AccountID),
			slog.Int64("operation_number", debitTxn.OperationNumber),
			slog.String("amount", debitTxn.Amount.String()))
	}
}
