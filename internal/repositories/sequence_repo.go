package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SequenceRepository hands out per-tenant counters for human-readable
// numbers (ORD-00001, INV-00001, SKU suffixes). The upsert is atomic, so
// concurrent creators never observe the same value.
type SequenceRepository interface {
	Next(ctx context.Context, tenantID uuid.UUID, name string) (int, error)
	NextTx(ctx context.Context, tx pgx.Tx, tenantID uuid.UUID, name string) (int, error)
	NextFormatted(ctx context.Context, tenantID uuid.UUID, name, prefix string) (string, error)
}

type sequenceRepo struct {
	db DBTX
}

func NewSequenceRepo(db DBTX) SequenceRepository {
	return &sequenceRepo{db: db}
}

const nextSequenceQuery = `
	INSERT INTO sequences (tenant_id, name, value)
	VALUES ($1, $2, 1)
	ON CONFLICT (tenant_id, name) DO UPDATE SET value = sequences.value + 1
	RETURNING value
`

func (r *sequenceRepo) Next(ctx context.Context, tenantID uuid.UUID, name string) (int, error) {
	var value int
	if err := r.db.QueryRow(ctx, nextSequenceQuery, tenantID, name).Scan(&value); err != nil {
		return 0, err
	}
	return value, nil
}

func (r *sequenceRepo) NextTx(ctx context.Context, tx pgx.Tx, tenantID uuid.UUID, name string) (int, error) {
	var value int
	if err := tx.QueryRow(ctx, nextSequenceQuery, tenantID, name).Scan(&value); err != nil {
		return 0, err
	}
	return value, nil
}

// NextFormatted returns the next value as "<prefix>-00042".
func (r *sequenceRepo) NextFormatted(ctx context.Context, tenantID uuid.UUID, name, prefix string) (string, error) {
	value, err := r.Next(ctx, tenantID, name)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%05d", prefix, value), nil
}
