package cart

import (
	"context"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/smart-locker-kiosk/internal/application/ports"
	"github.com/jhoicas/smart-locker-kiosk/internal/domain"
	"github.com/jhoicas/smart-locker-kiosk/internal/domain/entity"
	"github.com/jhoicas/smart-locker-kiosk/internal/domain/repository"
)

// StorageName nombre fijo bajo el que se persiste el carrito.
const StorageName = "cart-storage"

// StorageKey clave de almacenamiento del carrito para un namespace (usuario del kiosco).
func StorageKey(namespace string) string {
	if namespace == "" {
		return StorageName
	}
	return StorageName + ":" + namespace
}

// Ledger carrito de la sesión: cantidades seleccionadas por producto con tope por ítem.
// No es seguro para uso concurrente; el dueño (la sesión) serializa las llamadas.
//
// Cada mutación se escribe primero en el repositorio y solo después se aplica en memoria,
// así un fallo de persistencia deja el carrito exactamente como estaba.
type Ledger struct {
	repo     repository.CartRepository
	notifier ports.Notifier
	key      string
	items    []entity.CartItem
}

// NewLedger construye el carrito vacío. Llamar Load para restaurar lo persistido.
func NewLedger(repo repository.CartRepository, notifier ports.Notifier, namespace string) *Ledger {
	return &Ledger{repo: repo, notifier: notifier, key: StorageKey(namespace)}
}

// Key clave de almacenamiento usada por este carrito.
func (l *Ledger) Key() string { return l.key }

// Load restaura el carrito persistido. Las entradas que violan el invariante se descartan.
func (l *Ledger) Load(ctx context.Context) error {
	items, err := l.repo.Load(ctx, l.key)
	if err != nil {
		return fmt.Errorf("%w: cargar carrito: %w", domain.ErrStorage, err)
	}
	l.items = slices.DeleteFunc(items, func(it entity.CartItem) bool {
		return it.ID == "" || it.Quantity < 1 || it.Quantity > it.MaxQuantity
	})
	return nil
}

// CanAdd valida sin mutar que el producto acepte una unidad más.
func (l *Ledger) CanAdd(id string) error {
	if idx := l.index(id); idx >= 0 && l.items[idx].Quantity >= l.items[idx].MaxQuantity {
		return domain.ErrCapacityExceeded
	}
	return nil
}

// Add suma una unidad a la entrada existente o inserta una nueva con cantidad 1.
// MaxQuantity se toma de item solo al insertar y no cambia después.
func (l *Ledger) Add(ctx context.Context, item entity.CartItem) error {
	next := slices.Clone(l.items)
	if idx := l.index(item.ID); idx >= 0 {
		if next[idx].Quantity >= next[idx].MaxQuantity {
			return l.fail(domain.ErrCapacityExceeded)
		}
		next[idx].Quantity++
		item = next[idx]
	} else {
		if item.ID == "" {
			return l.fail(domain.ErrInvalidInput)
		}
		if item.MaxQuantity < 1 {
			return l.fail(domain.ErrCapacityExceeded)
		}
		item.Quantity = 1
		next = append(next, item)
	}
	if err := l.commit(ctx, next); err != nil {
		return l.fail(err)
	}
	l.notifier.Notify(ports.Success("Added to cart", item.Name))
	return nil
}

// Remove elimina la entrada completa (no decrementa) y devuelve la cantidad que tenía.
func (l *Ledger) Remove(ctx context.Context, id string) (int, error) {
	idx := l.index(id)
	if idx < 0 {
		return 0, l.fail(domain.ErrNotInCart)
	}
	removed := l.items[idx]
	next := slices.Delete(slices.Clone(l.items), idx, idx+1)
	if err := l.commit(ctx, next); err != nil {
		return 0, l.fail(err)
	}
	l.notifier.Notify(ports.Success("Removed from cart", removed.Name))
	return removed.Quantity, nil
}

// Reset vacía el carrito. La memoria se limpia aunque falle el borrado persistido;
// el error se devuelve para que el llamador lo reporte.
func (l *Ledger) Reset(ctx context.Context) error {
	l.items = nil
	if err := l.repo.Delete(ctx, l.key); err != nil {
		return fmt.Errorf("%w: vaciar carrito: %w", domain.ErrStorage, err)
	}
	return nil
}

// Total suma de precio * cantidad, recalculada en cada llamada.
func (l *Ledger) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range l.items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// Quantity cantidad en carrito del producto.
func (l *Ledger) Quantity(id string) (int, bool) {
	if idx := l.index(id); idx >= 0 {
		return l.items[idx].Quantity, true
	}
	return 0, false
}

// Quantities mapa DocumentID -> cantidad, usado al conciliar el pickup.
func (l *Ledger) Quantities() map[string]int {
	out := make(map[string]int, len(l.items))
	for _, it := range l.items {
		out[it.ID] = it.Quantity
	}
	return out
}

// Items copia de las entradas en orden de inserción.
func (l *Ledger) Items() []entity.CartItem {
	return slices.Clone(l.items)
}

// Len número de productos distintos en el carrito.
func (l *Ledger) Len() int { return len(l.items) }

func (l *Ledger) index(id string) int {
	return slices.IndexFunc(l.items, func(it entity.CartItem) bool { return it.ID == id })
}

func (l *Ledger) commit(ctx context.Context, next []entity.CartItem) error {
	if err := l.repo.Save(ctx, l.key, next); err != nil {
		return fmt.Errorf("%w: guardar carrito: %w", domain.ErrStorage, err)
	}
	l.items = next
	return nil
}

func (l *Ledger) fail(err error) error {
	l.notifier.Notify(ports.Failure(err))
	return err
}
