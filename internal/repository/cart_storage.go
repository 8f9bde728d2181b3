package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/ghostshop/internal/port"
)

const (
	getSnapshotSQL = `SELECT payload FROM cart_snapshots WHERE key = $1`

	setSnapshotSQL = `INSERT INTO cart_snapshots (key, payload, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`

	deleteSnapshotSQL = `DELETE FROM cart_snapshots WHERE key = $1`
)

// dbtx is satisfied by both *pgxpool.Pool and pgx.Tx.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type cartStorage struct {
	db dbtx
}

func NewCartStorage(pool *pgxpool.Pool) port.CartStorage {
	return &cartStorage{db: pool}
}

func NewCartStorageWithTx(tx pgx.Tx) port.CartStorage {
	return &cartStorage{db: tx}
}

func (r *cartStorage) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, fmt.Errorf("key is empty")
	}

	var payload []byte
	err := r.db.QueryRow(ctx, getSnapshotSQL, key).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("db.QueryRow: %w", err)
	}

	return payload, true, nil
}

func (r *cartStorage) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	if _, err := r.db.Exec(ctx, setSnapshotSQL, key, value); err != nil {
		return fmt.Errorf("db.Exec: %w", err)
	}

	return nil
}

func (r *cartStorage) Delete(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, fmt.Errorf("key is empty")
	}

	tag, err := r.db.Exec(ctx, deleteSnapshotSQL, key)
	if err != nil {
		return false, fmt.Errorf("db.Exec: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}
