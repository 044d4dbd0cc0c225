package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/apperrors"
	"github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/core/domain"
	portsrepo "github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/core/ports/repositories"
	"github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxAccountRepository struct {
	BaseRepository
}

// NewAccountRepository creates a new repository for account data.
func NewAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepository = (*PgxAccountRepository)(nil)

func toModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:      d.AccountID,
		CustomerID:     d.CustomerID,
		CustomerType:   string(d.CustomerType),
		MaintenanceFee: d.MaintenanceFee,
	}
}

func toDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:      m.AccountID,
		CustomerID:     m.CustomerID,
		CustomerType:   domain.CustomerType(m.CustomerType),
		MaintenanceFee: m.MaintenanceFee,
	}
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	modelAcc := toModelAccount(account)

	query := `
		INSERT INTO accounts (account_id, customer_id, customer_type, maintenance_fee)
		VALUES ($1, $2, $3, $4);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelAcc.AccountID,
		modelAcc.CustomerID,
		modelAcc.CustomerType,
		modelAcc.MaintenanceFee,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique violation
			return fmt.Errorf("account with ID %s already exists: %w", modelAcc.AccountID, apperrors.ErrValidation)
		}
		return fmt.Errorf("failed to save account %s: %w", modelAcc.AccountID, err)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `
		SELECT account_id, customer_id, customer_type, maintenance_fee
		FROM accounts
		WHERE account_id = $1;
	`
	var modelAcc models.Account
	err := r.Pool.QueryRow(ctx, query, accountID).Scan(
		&modelAcc.AccountID,
		&modelAcc.CustomerID,
		&modelAcc.CustomerType,
		&modelAcc.MaintenanceFee,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}

	account := toDomainAccount(modelAcc)
	return &account, nil
}

// FindAccountsByCustomer retrieves all accounts owned by a customer of the
// given type.
func (r *PgxAccountRepository) FindAccountsByCustomer(ctx context.Context, customerID string, customerType domain.CustomerType) ([]domain.Account, error) {
	query := `
		SELECT account_id, customer_id, customer_type, maintenance_fee
		FROM accounts
		WHERE customer_id = $1 AND customer_type = $2
		ORDER BY account_id;
	`
	rows, err := r.Pool.Query(ctx, query, customerID, string(customerType))
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts for customer %s: %w", customerID, err)
	}
	defer rows.Close()

	accounts := make([]domain.Account, 0)
	for rows.Next() {
		var modelAcc models.Account
		if err := rows.Scan(
			&modelAcc.AccountID,
			&modelAcc.CustomerID,
			&modelAcc.CustomerType,
			&modelAcc.MaintenanceFee,
		); err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, toDomainAccount(modelAcc))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read account rows: %w", err)
	}
	return accounts, nil
}

// LockAccount takes a row lock on the account inside tx. Concurrent ledger
// appends against the same account queue here, which closes the
// check-then-act window on the balance sufficiency rule.
func (r *PgxAccountRepository) LockAccount(ctx context.Context, tx pgx.Tx, accountID string) error {
	query := `SELECT account_id FROM accounts WHERE account_id = $1 FOR UPDATE;`
	var id string
	if err := tx.QueryRow(ctx, query, accountID).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to lock account %s: %w", accountID, err)
	}
	return nil
}
