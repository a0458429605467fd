package entity

// Stock cantidad de un producto dentro de un locker.
// Quantity es lo que queda por retirar; OriginalQuantity es el techo fijado al cargar.
// Invariante: 0 <= Quantity <= OriginalQuantity.
type Stock struct {
	ID               int
	Quantity         int
	OriginalQuantity int
	Product          Product
}

// Normalize fuerza el invariante sobre datos recién cargados.
// Si el backend no envía techo, se toma la cantidad actual.
func (s Stock) Normalize() Stock {
	if s.Quantity < 0 {
		s.Quantity = 0
	}
	if s.OriginalQuantity <= 0 {
		s.OriginalQuantity = s.Quantity
	}
	if s.Quantity > s.OriginalQuantity {
		s.Quantity = s.OriginalQuantity
	}
	return s
}

// Adjust devuelve una copia con una unidad más o menos, acotada a [0, OriginalQuantity].
// changed es false cuando el acotamiento deja la cantidad igual.
func (s Stock) Adjust(increment bool) (next Stock, changed bool) {
	q := s.Quantity
	if increment {
		q = min(s.Quantity+1, s.OriginalQuantity)
	} else {
		q = max(s.Quantity-1, 0)
	}
	if q == s.Quantity {
		return s, false
	}
	s.Quantity = q
	return s, true
}
