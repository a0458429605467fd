package ports

import (
	"context"

	"github.com/jhoicas/smart-locker-kiosk/internal/domain/entity"
)

// PickupItemUpdate línea de conciliación enviada al backend al cerrar un pickup.
type PickupItemUpdate struct {
	Product  string `json:"product"` // DocumentID del producto
	Required int    `json:"required"`
	Shipped  int    `json:"shipped"`
}

// PickupUpdate cuerpo de PUT /pickups/{id}. Items vacío significa "no tocar líneas".
type PickupUpdate struct {
	PickupID string
	Progress entity.PickupProgress
	Items    []PickupItemUpdate
}

// AuthGateway autenticación contra el backend (/auth/local, /auth/register).
type AuthGateway interface {
	Login(ctx context.Context, identifier, password string) (*entity.Credentials, error)
	Register(ctx context.Context, username, email, password string) (*entity.Credentials, error)
}

// MachineCatalog lectura de máquinas con lockers, stock, productos y precios.
type MachineCatalog interface {
	ListMachines(ctx context.Context) ([]entity.Machine, error)
}

// PickupService servicio externo de órdenes.
// GetPickup devuelve domain.ErrNotFound si el pickup no existe.
type PickupService interface {
	GetPickup(ctx context.Context, documentID string) (*entity.Pickup, error)
	UpdatePickup(ctx context.Context, update PickupUpdate) error
}

// Backend vista autenticada del backend para una sesión.
type Backend interface {
	MachineCatalog
	PickupService
}

// BackendDialer entrega un Backend que firma las peticiones con el token del usuario.
type BackendDialer interface {
	ForToken(token string) Backend
}
