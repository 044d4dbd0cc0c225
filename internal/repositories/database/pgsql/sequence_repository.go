package pgsql

import (
	"context"
	"fmt"

	portsrepo "github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxSequenceRepository struct {
	BaseRepository
}

// NewSequenceRepository creates the store-backed sequence generator.
func NewSequenceRepository(pool *pgxpool.Pool) portsrepo.SequenceRepository {
	return &PgxSequenceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.SequenceRepository = (*PgxSequenceRepository)(nil)

// Next atomically advances the named counter and returns its new value,
// starting at 1. The upsert is a single atomic read-modify-write, so the
// numbers are strictly increasing and duplicate-free across all service
// instances sharing the database. It runs inside tx when non-nil, so a caller
// holding an open transaction never blocks waiting for a second pooled
// connection.
func (r *PgxSequenceRepository) Next(ctx context.Context, tx pgx.Tx, counterName string) (int64, error) {
	query := `
		INSERT INTO transaction_sequences (name, value)
		VALUES ($1, 1)
		ON CONFLICT (name) DO UPDATE SET value = transaction_sequences.value + 1
		RETURNING value;
	`
	var value int64
	if err := r.conn(tx).QueryRow(ctx, query, counterName).Scan(&value); err != nil {
		return 0, fmt.Errorf("failed to advance sequence %s: %w", counterName, err)
	}
	return value, nil
}
