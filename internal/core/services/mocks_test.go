package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/core/domain"
	"github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/dto"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock for the AccountRepository port.
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByCustomer(ctx context.Context, customerID string, customerType domain.CustomerType) ([]domain.Account, error) {
	args := m.Called(ctx, customerID, customerType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) LockAccount(ctx context.Context, tx pgx.Tx, accountID string) error {
	args := m.Called(ctx, tx, accountID)
	return args.Error(0)
}

// MockTransactionRepository is a mock for the TransactionRepository port.
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockTransactionRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) Rollback(ctx context.Context, tx pgx.Tx) {
	m.Called(ctx, tx)
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	args := m.Called(ctx, tx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) SumAmountByAccount(ctx context.Context, tx pgx.Tx, accountID string) (decimal.Decimal, error) {
	args := m.Called(ctx, tx, accountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockTransactionRepository) CountByAccountAndDateRange(ctx context.Context, tx pgx.Tx, accountID string, start, end time.Time) (int64, error) {
	args := m.Called(ctx, tx, accountID, start, end)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) FindByAccountAndDateRange(ctx context.Context, accountID string, start, end time.Time) ([]domain.Transaction, error) {
	args := m.Called(ctx, accountID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) DeleteTransactionByID(ctx context.Context, transactionID string) error {
	args := m.Called(ctx, transactionID)
	return args.Error(0)
}

// MockSequenceRepository is a mock for the SequenceRepository port.
type MockSequenceRepository struct {
	mock.Mock
}

func (m *MockSequenceRepository) Next(ctx context.Context, tx pgx.Tx, counterName string) (int64, error) {
	args := m.Called(ctx, tx, counterName)
	return args.Get(0).(int64), args.Error(1)
}

// FakeSequenceRepository is an in-memory generator with real atomic-increment
// semantics, for tests exercising operation number ordering.
type FakeSequenceRepository struct {
	mu       sync.Mutex
	counters map[string]int64
}

func NewFakeSequenceRepository() *FakeSequenceRepository {
	return &FakeSequenceRepository{counters: make(map[string]int64)}
}

func (f *FakeSequenceRepository) Next(ctx context.Context, tx pgx.Tx, counterName string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counters[counterName]++
	return f.counters[counterName], nil
}

// stubTx is a non-nil pgx.Tx placeholder for asserting that repository calls
// share the caller's database transaction. None of its methods are invoked.
type stubTx struct {
	pgx.Tx
}

// MockCreditGateway is a mock for the CreditGateway port.
type MockCreditGateway struct {
	mock.Mock
}

func (m *MockCreditGateway) GetAllBalances(ctx context.Context, customerID string) ([]dto.CreditBalance, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.CreditBalance), args.Error(1)
}

func (m *MockCreditGateway) HasOverdueDebt(ctx context.Context, customerID string, customerType domain.CustomerType) (bool, error) {
	args := m.Called(ctx, customerID, customerType)
	return args.Bool(0), args.Error(1)
}

// MockPeerAccountGateway is a mock for the PeerAccountGateway port.
type MockPeerAccountGateway struct {
	mock.Mock
}

func (m *MockPeerAccountGateway) CreateTransaction(ctx context.Context, accountType domain.AccountType, req dto.CreateTransactionRequest) (int64, error) {
	args := m.Called(ctx, accountType, req)
	return args.Get(0).(int64), args.Error(1)
}

// MockTransactionSvc is a mock for the TransactionSvc facade.
type MockTransactionSvc struct {
	mock.Mock
}

func (m *MockTransactionSvc) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

// decimalPtr is a convenience for request literals in tests.
func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}
