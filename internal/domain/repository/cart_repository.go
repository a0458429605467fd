package repository

import (
	"context"

	"github.com/jhoicas/smart-locker-kiosk/internal/domain/entity"
)

// CartRepository persiste el contenido del carrito bajo una clave de almacenamiento fija.
// Save reemplaza el contenido completo de la clave (orden incluido).
type CartRepository interface {
	Load(ctx context.Context, key string) ([]entity.CartItem, error)
	Save(ctx context.Context, key string, items []entity.CartItem) error
	Delete(ctx context.Context, key string) error
}
