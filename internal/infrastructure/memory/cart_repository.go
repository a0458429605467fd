// Package memory implementa los repositorios del kiosco en memoria (desarrollo y tests).
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/jhoicas/smart-locker-kiosk/internal/domain/entity"
	"github.com/jhoicas/smart-locker-kiosk/internal/domain/repository"
)

var _ repository.CartRepository = (*CartRepo)(nil)

// CartRepo carritos persistidos en un mapa protegido por mutex.
type CartRepo struct {
	mu    sync.RWMutex
	carts map[string][]entity.CartItem
}

// NewCartRepository construye el repositorio vacío.
func NewCartRepository() *CartRepo {
	return &CartRepo{carts: make(map[string][]entity.CartItem)}
}

// Load devuelve una copia del carrito guardado (nil si no existe).
func (r *CartRepo) Load(_ context.Context, key string) ([]entity.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.carts[key]), nil
}

// Save reemplaza el carrito de la clave.
func (r *CartRepo) Save(_ context.Context, key string, items []entity.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(items) == 0 {
		delete(r.carts, key)
		return nil
	}
	r.carts[key] = slices.Clone(items)
	return nil
}

// Delete borra el carrito de la clave.
func (r *CartRepo) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, key)
	return nil
}
