package entity

import "github.com/shopspring/decimal"

// Price precio neto de un producto en el catálogo del backend.
type Price struct {
	ID       int
	NetPrice decimal.Decimal
	Currency string
	VatRate  decimal.Decimal // porcentaje, ej: 19
}

// Product hecho de catálogo inmutable. DocumentID es la referencia estable usada
// por carrito, pickups y stock.
type Product struct {
	ID          int
	DocumentID  string
	Name        string
	Description string
	Price       Price
	Status      string
}
