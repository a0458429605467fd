package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/smart-locker-kiosk/internal/domain/entity"
	"github.com/jhoicas/smart-locker-kiosk/internal/domain/repository"
)

var _ repository.CartRepository = (*CartRepo)(nil)

// CartRepo implementación del puerto CartRepository sobre PostgreSQL.
type CartRepo struct {
	pool *pgxpool.Pool
	tx   *TxRunner
}

// NewCartRepository construye el adaptador de persistencia del carrito.
func NewCartRepository(pool *pgxpool.Pool) *CartRepo {
	return &CartRepo{pool: pool, tx: NewTxRunner(pool)}
}

// Load devuelve las entradas en orden de inserción (vacío si no hay carrito).
func (r *CartRepo) Load(ctx context.Context, key string) ([]entity.CartItem, error) {
	query := `
		SELECT product_id, name, price, quantity, max_quantity
		FROM cart_entries WHERE storage_key = $1
		ORDER BY position`
	rows, err := r.pool.Query(ctx, query, key)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	defer rows.Close()

	var items []entity.CartItem
	for rows.Next() {
		var it entity.CartItem
		if err := rows.Scan(&it.ID, &it.Name, &it.Price, &it.Quantity, &it.MaxQuantity); err != nil {
			return nil, fmt.Errorf("scan cart entry: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return items, nil
}

// Save reemplaza el carrito completo en una transacción: o queda el nuevo contenido o el anterior.
func (r *CartRepo) Save(ctx context.Context, key string, items []entity.CartItem) error {
	return r.tx.Run(ctx, func(q Querier) error {
		if _, err := q.Exec(ctx, `DELETE FROM cart_entries WHERE storage_key = $1`, key); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		if len(items) == 0 {
			return nil
		}
		batch := &pgx.Batch{}
		for i, it := range items {
			batch.Queue(`
				INSERT INTO cart_entries (storage_key, product_id, position, name, price, quantity, max_quantity)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				key, it.ID, i, it.Name, it.Price, it.Quantity, it.MaxQuantity,
			)
		}
		if err := q.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert cart entries: %w", err)
		}
		return nil
	})
}

// Delete borra el carrito persistido.
func (r *CartRepo) Delete(ctx context.Context, key string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM cart_entries WHERE storage_key = $1`, key); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}
