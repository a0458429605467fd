package postgres

import (
	"context"
	"fmt"
)

// schema tablas del almacenamiento local del kiosco. Idempotente.
const schema = `
	-- 1. CARRITO (una fila por producto; position conserva el orden de inserción)
	CREATE TABLE IF NOT EXISTS cart_entries (
		storage_key  TEXT          NOT NULL,
		product_id   TEXT          NOT NULL,
		position     INT           NOT NULL,
		name         TEXT          NOT NULL DEFAULT '',
		price        NUMERIC(18,4) NOT NULL DEFAULT 0,
		quantity     INT           NOT NULL CHECK (quantity >= 1),
		max_quantity INT           NOT NULL CHECK (max_quantity >= quantity),
		updated_at   TIMESTAMPTZ   NOT NULL DEFAULT NOW(),
		PRIMARY KEY (storage_key, product_id)
	);

	-- 2. CREDENCIALES Y DATOS DE SESIÓN (jwt, user)
	CREATE TABLE IF NOT EXISTS client_storage (
		key        TEXT PRIMARY KEY,
		value      BYTEA       NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
`

// Migrate crea las tablas si no existen.
func Migrate(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}
