package services_test

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/apperrors"
	"github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/core/domain"
	portssvc "github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/core/ports/services"
	"github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/core/services"
	"github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const comissionFreeLimit = 3

type TransactionServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	mockTxnRepo     *MockTransactionRepository
	mockSeqRepo     *MockSequenceRepository
	service         portssvc.TransactionSvc
}

func (suite *TransactionServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockSeqRepo = new(MockSequenceRepository)
	suite.service = services.NewTransactionService(
		suite.mockAccountRepo,
		suite.mockTxnRepo,
		suite.mockSeqRepo,
		comissionFreeLimit,
	)
}

func depositRequest(amount decimal.Decimal) dto.CreateTransactionRequest {
	return dto.CreateTransactionRequest{
		AccountID:   "acc-1",
		Agent:       "teller-9",
		Description: "Cash deposit",
		Amount:      decimalPtr(amount),
	}
}

func (suite *TransactionServiceTestSuite) expectAccount() {
	suite.mockAccountRepo.On("FindAccountByID", mock.Anything, "acc-1").
		Return(&domain.Account{AccountID: "acc-1", CustomerID: "id123456", CustomerType: domain.Personal}, nil).Once()
}

func (suite *TransactionServiceTestSuite) expectLockedLedger(balance decimal.Decimal, monthCount int64) {
	suite.mockTxnRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	suite.mockTxnRepo.On("Rollback", mock.Anything, mock.Anything).Return().Once()
	suite.mockAccountRepo.On("LockAccount", mock.Anything, mock.Anything, "acc-1").Return(nil).Once()
	suite.mockTxnRepo.On("SumAmountByAccount", mock.Anything, mock.Anything, "acc-1").
		Return(balance, nil).Once()
	suite.mockTxnRepo.On("CountByAccountAndDateRange", mock.Anything, mock.Anything, "acc-1", mock.Anything, mock.Anything).
		Return(monthCount, nil).Once()
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_HappyPath() {
	ctx := context.Background()
	req := depositRequest(decimal.NewFromInt(50))

	suite.expectAccount()
	suite.expectLockedLedger(decimal.NewFromInt(100), 0)
	suite.mockSeqRepo.On("Next", mock.Anything, mock.Anything, "TransactionSequences").Return(int64(42), nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", mock.Anything, mock.Anything, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.AccountID == "acc-1" &&
			txn.Agent == "teller-9" &&
			txn.Amount.Equal(decimal.NewFromInt(50)) &&
			txn.OperationNumber == 42 &&
			!txn.CreateByComission
	})).Return(nil).Once()
	suite.mockTxnRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()

	txn, err := suite.service.CreateTransaction(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(txn)
	suite.Equal(int64(42), txn.OperationNumber)
	suite.False(txn.RegisterDate.IsZero())
	suite.mockTxnRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_MissingAgent() {
	req := depositRequest(decimal.NewFromInt(50))
	req.Agent = ""

	txn, err := suite.service.CreateTransaction(context.Background(), req)

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.ErrorContains(err, "Agent is required")
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountByID", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_AccountNotFound() {
	ctx := context.Background()
	req := depositRequest(decimal.NewFromInt(50))

	suite.mockAccountRepo.On("FindAccountByID", mock.Anything, "acc-1").
		Return(nil, apperrors.ErrNotFound).Once()

	txn, err := suite.service.CreateTransaction(ctx, req)

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.ErrorContains(err, "Account not found")
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_InsufficientBalance() {
	ctx := context.Background()
	req := depositRequest(decimal.NewFromInt(-200))

	suite.expectAccount()
	suite.mockTxnRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	suite.mockTxnRepo.On("Rollback", mock.Anything, mock.Anything).Return().Once()
	suite.mockAccountRepo.On("LockAccount", mock.Anything, mock.Anything, "acc-1").Return(nil).Once()
	suite.mockTxnRepo.On("SumAmountByAccount", mock.Anything, mock.Anything, "acc-1").
		Return(decimal.NewFromInt(100), nil).Once()

	txn, err := suite.service.CreateTransaction(ctx, req)

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.ErrorContains(err, "Insufficient balance")
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything, mock.Anything)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_ComissionInjectedPastQuota() {
	ctx := context.Background()
	req := depositRequest(decimal.NewFromInt(-100))

	suite.expectAccount()
	suite.expectLockedLedger(decimal.NewFromInt(1000), comissionFreeLimit)
	suite.mockSeqRepo.On("Next", mock.Anything, mock.Anything, "TransactionSequences").Return(int64(10), nil).Once()
	suite.mockSeqRepo.On("Next", mock.Anything, mock.Anything, "TransactionSequences").Return(int64(11), nil).Once()

	// -100 * 0.005 = 0.5 charged as a negative commission entry
	expectedComission := decimal.RequireFromString("-0.5")
	suite.mockTxnRepo.On("SaveTransaction", mock.Anything, mock.Anything, mock.MatchedBy(func(txn domain.Transaction) bool {
		return !txn.CreateByComission && txn.Amount.Equal(decimal.NewFromInt(-100)) && txn.OperationNumber == 10
	})).Return(nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", mock.Anything, mock.Anything, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.CreateByComission &&
			txn.Agent == domain.SystemAgent &&
			txn.Description == "Maintenance commission by limit transactions" &&
			txn.Amount.Equal(expectedComission) &&
			txn.OperationNumber == 11
	})).Return(nil).Once()
	suite.mockTxnRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()

	txn, err := suite.service.CreateTransaction(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(txn)
	suite.Equal(int64(10), txn.OperationNumber)
	suite.mockTxnRepo.AssertExpectations(suite.T())
	suite.mockSeqRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_NoComissionWithinQuota() {
	ctx := context.Background()
	req := depositRequest(decimal.NewFromInt(-100))

	suite.expectAccount()
	suite.expectLockedLedger(decimal.NewFromInt(1000), comissionFreeLimit-1)
	suite.mockSeqRepo.On("Next", mock.Anything, mock.Anything, "TransactionSequences").Return(int64(10), nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", mock.Anything, mock.Anything, mock.AnythingOfType("domain.Transaction")).
		Return(nil).Once()
	suite.mockTxnRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()

	txn, err := suite.service.CreateTransaction(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(txn)
	suite.mockTxnRepo.AssertNumberOfCalls(suite.T(), "SaveTransaction", 1)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_ComissionWouldOverdraw() {
	ctx := context.Background()
	req := depositRequest(decimal.NewFromInt(-100))

	suite.expectAccount()
	// balance 100, withdrawal -100 leaves 0, commission -0.5 overdraws
	suite.expectLockedLedger(decimal.NewFromInt(100), comissionFreeLimit)

	txn, err := suite.service.CreateTransaction(ctx, req)

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.ErrorContains(err, "Insufficient balance, cannot apply the commission")
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_SequenceDrawSharesLedgerTransaction() {
	ctx := context.Background()
	req := depositRequest(decimal.NewFromInt(50))
	tx := &stubTx{}

	suite.expectAccount()
	// Every statement must ride the one transaction Begin handed out; a draw
	// against the pool would need a second connection while this one is held.
	suite.mockTxnRepo.On("Begin", mock.Anything).Return(tx, nil).Once()
	suite.mockTxnRepo.On("Rollback", mock.Anything, tx).Return().Once()
	suite.mockAccountRepo.On("LockAccount", mock.Anything, tx, "acc-1").Return(nil).Once()
	suite.mockTxnRepo.On("SumAmountByAccount", mock.Anything, tx, "acc-1").
		Return(decimal.NewFromInt(100), nil).Once()
	suite.mockTxnRepo.On("CountByAccountAndDateRange", mock.Anything, tx, "acc-1", mock.Anything, mock.Anything).
		Return(int64(0), nil).Once()
	suite.mockSeqRepo.On("Next", mock.Anything, tx, "TransactionSequences").Return(int64(42), nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", mock.Anything, tx, mock.AnythingOfType("domain.Transaction")).
		Return(nil).Once()
	suite.mockTxnRepo.On("Commit", mock.Anything, tx).Return(nil).Once()

	txn, err := suite.service.CreateTransaction(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(txn)
	suite.mockTxnRepo.AssertExpectations(suite.T())
	suite.mockSeqRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_OperationNumbersStrictlyIncrease() {
	ctx := context.Background()
	fakeSeq := NewFakeSequenceRepository()

	accountRepo := new(MockAccountRepository)
	txnRepo := new(MockTransactionRepository)
	accountRepo.On("FindAccountByID", mock.Anything, "acc-1").
		Return(&domain.Account{AccountID: "acc-1", CustomerType: domain.Personal}, nil)
	accountRepo.On("LockAccount", mock.Anything, mock.Anything, "acc-1").Return(nil)
	txnRepo.On("Begin", mock.Anything).Return(nil, nil)
	txnRepo.On("Rollback", mock.Anything, mock.Anything).Return()
	txnRepo.On("SumAmountByAccount", mock.Anything, mock.Anything, "acc-1").
		Return(decimal.NewFromInt(1000), nil)
	txnRepo.On("CountByAccountAndDateRange", mock.Anything, mock.Anything, "acc-1", mock.Anything, mock.Anything).
		Return(int64(0), nil)
	txnRepo.On("SaveTransaction", mock.Anything, mock.Anything, mock.AnythingOfType("domain.Transaction")).
		Return(nil)
	txnRepo.On("Commit", mock.Anything, mock.Anything).Return(nil)

	service := services.NewTransactionService(accountRepo, txnRepo, fakeSeq, comissionFreeLimit)

	const callers = 8
	var wg sync.WaitGroup
	numbers := make([]int64, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			txn, err := service.CreateTransaction(ctx, depositRequest(decimal.NewFromInt(10)))
			if err == nil {
				numbers[slot] = txn.OperationNumber
			}
		}(i)
	}
	wg.Wait()

	sort.Slice(numbers, func(i, j int) bool { return numbers[i] < numbers[j] })
	for i, n := range numbers {
		suite.Equal(int64(i+1), n, "operation numbers must be dense and strictly increasing")
	}
}

func TestTransactionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}
