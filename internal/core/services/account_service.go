package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/apperrors"
	"github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/core/domain"
	portsclients "github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/core/ports/clients"
	portsrepo "github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/core/ports/repositories"
	portssvc "github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/core/ports/services"
	"github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/core/rules"
	"github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// pymeProfile is the opening-profile marker for small/medium enterprises.
// A PYME opening requires the customer to already hold a credit product.
const pymeProfile = "PYME"

// accountService implements account opening and the read-side queries.
type accountService struct {
	BaseService
	accountRepo          portsrepo.AccountRepository
	transactionRepo      portsrepo.TransactionRepository
	sequenceRepo         portsrepo.SequenceRepository
	creditGateway        portsclients.CreditGateway
	minimumOpeningAmount decimal.Decimal
}

// NewAccountService creates the account service.
func NewAccountService(
	accountRepo portsrepo.AccountRepository,
	transactionRepo portsrepo.TransactionRepository,
	sequenceRepo portsrepo.SequenceRepository,
	creditGateway portsclients.CreditGateway,
	minimumOpeningAmount decimal.Decimal,
) portssvc.AccountSvc {
	return &accountService{
		accountRepo:          accountRepo,
		transactionRepo:      transactionRepo,
		sequenceRepo:         sequenceRepo,
		creditGateway:        creditGateway,
		minimumOpeningAmount: minimumOpeningAmount,
	}
}

var _ portssvc.AccountSvc = (*accountService)(nil)

// CreateAccount opens a current account after local validation and the remote
// eligibility checks, then funds it with an opening ledger entry.
func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	chain := []rules.Rule[dto.CreateAccountRequest]{
		{Broken: func(r dto.CreateAccountRequest) bool { return r.CustomerType == "" }, Reason: "Customer Type is required"},
		{Broken: func(r dto.CreateAccountRequest) bool { return r.CustomerID == "" }, Reason: "Customer ID is required"},
		{Broken: func(r dto.CreateAccountRequest) bool { return r.MaintenanceFee == nil }, Reason: "Maintenance fee is required"},
		{Broken: func(r dto.CreateAccountRequest) bool { return !r.MaintenanceFee.IsPositive() }, Reason: "Maintenance fee must be greater than zero"},
		{Broken: func(r dto.CreateAccountRequest) bool { return r.OpeningAmount == nil }, Reason: "Opening amount is required"},
		{
			Broken: func(r dto.CreateAccountRequest) bool { return r.OpeningAmount.LessThan(s.minimumOpeningAmount) },
			Reason: fmt.Sprintf("The minimum opening amount is %s", s.minimumOpeningAmount),
		},
	}
	if err := rules.Check(req, chain); err != nil {
		return nil, err
	}

	existing, err := s.accountRepo.FindAccountsByCustomer(ctx, req.CustomerID, req.CustomerType)
	if err != nil {
		s.LogError(ctx, err, "Failed to look up existing accounts", slog.String("customer_id", req.CustomerID))
		return nil, err
	}
	if len(existing) > 0 && req.CustomerType == domain.Personal {
		return nil, apperrors.NewValidation("Customer already has a current account")
	}

	// Remote eligibility checks run after local validation, before persistence.
	if strings.EqualFold(req.Profile, pymeProfile) {
		balances, err := s.creditGateway.GetAllBalances(ctx, req.CustomerID)
		if err != nil {
			return nil, err
		}
		if len(balances) == 0 {
			return nil, apperrors.NewValidation("Customer has no credit product for PYME profile")
		}
	}

	hasDebt, err := s.creditGateway.HasOverdueDebt(ctx, req.CustomerID, req.CustomerType)
	if err != nil {
		return nil, err
	}
	if hasDebt {
		return nil, apperrors.NewValidation("Cannot open product: overdue debt")
	}

	account := req.ToAccount()
	account.AccountID = uuid.NewString()
	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account", slog.String("account_id", account.AccountID))
		return nil, err
	}

	// The opening deposit is a second, independent write. If it fails the
	// account exists without funding; that state is reported, not repaired.
	if err := s.persistOpeningTransaction(ctx, account.AccountID, *req.OpeningAmount); err != nil {
		s.LogError(ctx, err, "Opening transaction failed, account left unfunded",
			slog.String("account_id", account.AccountID))
		return nil, err
	}

	s.LogInfo(ctx, "Account created",
		slog.String("account_id", account.AccountID),
		slog.String("customer_id", account.CustomerID),
		slog.String("customer_type", string(account.CustomerType)))
	return &account, nil
}

func (s *accountService) persistOpeningTransaction(ctx context.Context, accountID string, openingAmount decimal.Decimal) error {
	operationNumber, err := s.sequenceRepo.Next(ctx, nil, sequenceCounterName)
	if err != nil {
		return err
	}

	openingTxn := domain.Transaction{
		TransactionID:   uuid.NewString(),
		AccountID:       accountID,
		Agent:           domain.SystemAgent,
		Description:     "Opening account",
		Amount:          openingAmount,
		OperationNumber: operationNumber,
		RegisterDate:    time.Now().UTC(),
	}
	return s.transactionRepo.SaveTransaction(ctx, nil, openingTxn)
}

// GetBalanceByAccountID derives the balance view for one account. The amount
// is recomputed from the ledger on every call.
func (s *accountService) GetBalanceByAccountID(ctx context.Context, accountID string) (*domain.Balance, error) {
	if accountID == "" {
		return nil, apperrors.NewValidation("Account ID is required")
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFound("Account not found")
		}
		return nil, err
	}

	amount, err := s.transactionRepo.SumAmountByAccount(ctx, nil, account.AccountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum ledger amounts", slog.String("account_id", account.AccountID))
		return nil, err
	}

	return &domain.Balance{
		AccountID:      account.AccountID,
		Type:           domain.ProductName,
		Amount:         amount,
		MaintenanceFee: account.MaintenanceFee,
	}, nil
}

// GetBalancesByCustomer fans out over all accounts owned by the customer and
// derives each balance concurrently.
func (s *accountService) GetBalancesByCustomer(ctx context.Context, customerID string, customerType domain.CustomerType) ([]domain.Balance, error) {
	if customerID == "" {
		return nil, apperrors.NewValidation("Customer ID is required")
	}

	accounts, err := s.accountRepo.FindAccountsByCustomer(ctx, customerID, customerType)
	if err != nil {
		return nil, err
	}

	balances := make([]domain.Balance, len(accounts))
	g, gctx := errgroup.WithContext(ctx)
	for i, account := range accounts {
		i, account := i, account
		g.Go(func() error {
			balance, err := s.GetBalanceByAccountID(gctx, account.AccountID)
			if err != nil {
				return err
			}
			balances[i] = *balance
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return balances, nil
}

// GetAccountsByCustomer lists the accounts owned by a customer of that type.
func (s *accountService) GetAccountsByCustomer(ctx context.Context, customerID string, customerType domain.CustomerType) ([]domain.Account, error) {
	if customerID == "" {
		return nil, apperrors.NewValidation("Customer ID is required")
	}
	if customerType == "" {
		return nil, apperrors.NewValidation("Customer Type is required")
	}
	return s.accountRepo.FindAccountsByCustomer(ctx, customerID, customerType)
}

// GetTransactionsByAccountAndPeriod returns the ledger entries registered in
// the calendar month containing period.
func (s *accountService) GetTransactionsByAccountAndPeriod(ctx context.Context, accountID string, period time.Time) ([]domain.Transaction, error) {
	if accountID == "" {
		return nil, apperrors.NewValidation("Account ID is required")
	}
	if period.IsZero() {
		return nil, apperrors.NewValidation("Period is required")
	}

	start, end := monthRange(period)
	return s.transactionRepo.FindByAccountAndDateRange(ctx, accountID, start, end)
}
