package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/smart-locker-kiosk/internal/domain/repository"
)

var _ repository.StorageRepository = (*StorageRepo)(nil)

// StorageRepo almacenamiento clave/valor del kiosco sobre PostgreSQL.
type StorageRepo struct {
	pool *pgxpool.Pool
	tx   *TxRunner
}

// NewStorageRepository construye el adaptador.
func NewStorageRepository(pool *pgxpool.Pool) *StorageRepo {
	return &StorageRepo{pool: pool, tx: NewTxRunner(pool)}
}

// Get devuelve el valor o (nil, nil) si la clave no existe.
func (r *StorageRepo) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.pool.QueryRow(ctx, `SELECT value FROM client_storage WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get storage key: %w", err)
	}
	return value, nil
}

// SetMany escribe todas las claves en una transacción.
func (r *StorageRepo) SetMany(ctx context.Context, values map[string][]byte) error {
	if len(values) == 0 {
		return nil
	}
	return r.tx.Run(ctx, func(q Querier) error {
		batch := &pgx.Batch{}
		for k, v := range values {
			batch.Queue(`
				INSERT INTO client_storage (key, value, updated_at) VALUES ($1, $2, NOW())
				ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
				k, v,
			)
		}
		if err := q.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("set storage keys: %w", err)
		}
		return nil
	})
}

// Delete borra las claves en una sola sentencia.
func (r *StorageRepo) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if _, err := r.pool.Exec(ctx, `DELETE FROM client_storage WHERE key = ANY($1)`, keys); err != nil {
		return fmt.Errorf("delete storage keys: %w", err)
	}
	return nil
}
