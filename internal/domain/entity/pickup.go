package entity

import "slices"

// PickupProgress ciclo de vida de un pickup: pending → started → finished, sin retroceso.
type PickupProgress string

const (
	PickupPending  PickupProgress = "pending"
	PickupStarted  PickupProgress = "started"
	PickupFinished PickupProgress = "finished"
)

func (p PickupProgress) rank() int {
	switch p {
	case PickupPending:
		return 0
	case PickupStarted:
		return 1
	case PickupFinished:
		return 2
	default:
		return -1
	}
}

// Valid true si es uno de los tres estados conocidos.
func (p PickupProgress) Valid() bool { return p.rank() >= 0 }

// CanAdvanceTo true si next es el mismo estado o el siguiente.
// Repetir "started" se permite para retomar un pickup tras recargar el kiosco;
// un pickup terminado no admite más transiciones.
func (p PickupProgress) CanAdvanceTo(next PickupProgress) bool {
	if !p.Valid() || !next.Valid() || p == PickupFinished {
		return false
	}
	return next.rank() == p.rank() || next.rank() == p.rank()+1
}

// PickupItem línea de un pickup: Required es lo pactado, Shipped lo entregado.
type PickupItem struct {
	ID       int
	Product  Product
	Required int
	Shipped  int
}

// OrderItem línea de la orden asociada al pickup.
type OrderItem struct {
	ID       int
	Quantity int
	Product  *Product
	Price    Price
}

// Order orden de compra del backend.
type Order struct {
	ID          int
	DocumentID  string
	Issue       bool
	OrderStatus string
	Items       []OrderItem
}

// Pickup transacción de entrega que concilia lo requerido con lo entregado.
type Pickup struct {
	ID         int
	DocumentID string
	Progress   PickupProgress
	Order      *Order
	Items      []PickupItem
}

// Item busca la línea del producto (por DocumentID).
func (p Pickup) Item(productID string) (PickupItem, bool) {
	idx := slices.IndexFunc(p.Items, func(it PickupItem) bool {
		return it.Product.DocumentID == productID
	})
	if idx < 0 {
		return PickupItem{}, false
	}
	return p.Items[idx], true
}

// ProductIDs DocumentIDs de los productos del pickup, en orden.
func (p Pickup) ProductIDs() []string {
	ids := make([]string, 0, len(p.Items))
	for _, it := range p.Items {
		ids = append(ids, it.Product.DocumentID)
	}
	return ids
}
