package entity

import (
	"slices"

	"github.com/jhoicas/smart-locker-kiosk/internal/domain"
)

// Locker compartimento de una máquina. Un locker cerrado no acepta cambios de cantidad.
type Locker struct {
	ID         int
	IsOpen     bool
	IsOccupied bool
	Stocks     []Stock
}

// Clone copia profunda (los stocks no se comparten entre snapshots).
func (l Locker) Clone() Locker {
	l.Stocks = slices.Clone(l.Stocks)
	return l
}

// WithOpen devuelve el locker con la puerta en el estado indicado.
func (l Locker) WithOpen(open bool) Locker {
	l = l.Clone()
	l.IsOpen = open
	return l
}

// StockIndex posición del stock del producto (por DocumentID) o -1.
func (l Locker) StockIndex(productID string) int {
	return slices.IndexFunc(l.Stocks, func(s Stock) bool {
		return s.Product.DocumentID == productID
	})
}

// WithStock reemplaza el stock del mismo producto. ErrProductNotFound si el locker no lo tiene.
func (l Locker) WithStock(st Stock) (Locker, error) {
	idx := l.StockIndex(st.Product.DocumentID)
	if idx < 0 {
		return l, domain.ErrProductNotFound
	}
	if st.Quantity < 0 || st.Quantity > st.OriginalQuantity {
		return l, domain.ErrInvalidInput
	}
	l = l.Clone()
	l.Stocks[idx] = st
	return l, nil
}

// Holds indica si el locker guarda alguno de los productos del conjunto.
func (l Locker) Holds(productIDs map[string]struct{}) bool {
	for _, s := range l.Stocks {
		if _, ok := productIDs[s.Product.DocumentID]; ok {
			return true
		}
	}
	return false
}
