package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/core/domain"
	portsrepo "github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/core/ports/repositories"
	"github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxTransactionRepository struct {
	BaseRepository
}

// NewTransactionRepository creates a new repository for ledger entries.
func NewTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepository {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepository = (*PgxTransactionRepository)(nil)

func toModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:          d.TransactionID,
		AccountID:              d.AccountID,
		Agent:                  d.Agent,
		Description:            d.Description,
		Amount:                 d.Amount,
		OperationNumber:        d.OperationNumber,
		RegisterDate:           d.RegisterDate,
		CreateByMaintenanceFee: d.CreateByMaintenanceFee,
		CreateByComission:      d.CreateByComission,
	}
}

func toDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:          m.TransactionID,
		AccountID:              m.AccountID,
		Agent:                  m.Agent,
		Description:            m.Description,
		Amount:                 m.Amount,
		OperationNumber:        m.OperationNumber,
		RegisterDate:           m.RegisterDate,
		CreateByMaintenanceFee: m.CreateByMaintenanceFee,
		CreateByComission:      m.CreateByComission,
	}
}

// SaveTransaction appends one ledger entry, inside tx when non-nil.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	modelTxn := toModelTransaction(txn)

	query := `
		INSERT INTO transactions (
			transaction_id, account_id, agent, description, amount,
			operation_number, register_date, create_by_maintenance_fee, create_by_comission
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.conn(tx).Exec(ctx, query,
		modelTxn.TransactionID,
		modelTxn.AccountID,
		modelTxn.Agent,
		modelTxn.Description,
		modelTxn.Amount,
		modelTxn.OperationNumber,
		modelTxn.RegisterDate,
		modelTxn.CreateByMaintenanceFee,
		modelTxn.CreateByComission,
	)
	if err != nil {
		return fmt.Errorf("failed to save transaction %s: %w", modelTxn.TransactionID, err)
	}
	return nil
}

// SumAmountByAccount returns the account balance as the sum of its entries,
// zero when the account has no entries.
func (r *PgxTransactionRepository) SumAmountByAccount(ctx context.Context, tx pgx.Tx, accountID string) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE account_id = $1;`

	var balance decimal.Decimal
	if err := r.conn(tx).QueryRow(ctx, query, accountID).Scan(&balance); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum amounts for account %s: %w", accountID, err)
	}
	return balance, nil
}

// CountByAccountAndDateRange counts entries registered in [start, end).
func (r *PgxTransactionRepository) CountByAccountAndDateRange(ctx context.Context, tx pgx.Tx, accountID string, start, end time.Time) (int64, error) {
	query := `
		SELECT COUNT(*) FROM transactions
		WHERE account_id = $1 AND register_date >= $2 AND register_date < $3;
	`
	var count int64
	if err := r.conn(tx).QueryRow(ctx, query, accountID, start, end).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count transactions for account %s: %w", accountID, err)
	}
	return count, nil
}

// FindByAccountAndDateRange returns the entries registered in [start, end).
func (r *PgxTransactionRepository) FindByAccountAndDateRange(ctx context.Context, accountID string, start, end time.Time) ([]domain.Transaction, error) {
	query := `
		SELECT transaction_id, account_id, agent, description, amount,
		       operation_number, register_date, create_by_maintenance_fee, create_by_comission
		FROM transactions
		WHERE account_id = $1 AND register_date >= $2 AND register_date < $3
		ORDER BY operation_number;
	`
	rows, err := r.Pool.Query(ctx, query, accountID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions for account %s: %w", accountID, err)
	}
	defer rows.Close()

	txns := make([]domain.Transaction, 0)
	for rows.Next() {
		var modelTxn models.Transaction
		if err := rows.Scan(
			&modelTxn.TransactionID,
			&modelTxn.AccountID,
			&modelTxn.Agent,
			&modelTxn.Description,
			&modelTxn.Amount,
			&modelTxn.OperationNumber,
			&modelTxn.RegisterDate,
			&modelTxn.CreateByMaintenanceFee,
			&modelTxn.CreateByComission,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txns = append(txns, toDomainTransaction(modelTxn))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transaction rows: %w", err)
	}
	return txns, nil
}

// DeleteTransactionByID removes one entry. Used only to compensate the debit
// leg of a failed transfer.
func (r *PgxTransactionRepository) DeleteTransactionByID(ctx context.Context, transactionID string) error {
	query := `DELETE FROM transactions WHERE transaction_id = $1;`
	if _, err := r.Pool.Exec(ctx, query, transactionID); err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", transactionID, err)
	}
	return nil
}
