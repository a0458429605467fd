package entity

import "github.com/shopspring/decimal"

// CartItem entrada del carrito. ID es el DocumentID del producto.
// Invariante: 0 <= Quantity <= MaxQuantity; MaxQuantity se fija al insertar.
type CartItem struct {
	ID          string
	Name        string
	Price       decimal.Decimal
	Quantity    int
	MaxQuantity int
}

// Subtotal precio * cantidad.
func (c CartItem) Subtotal() decimal.Decimal {
	return c.Price.Mul(decimal.NewFromInt(int64(c.Quantity)))
}
