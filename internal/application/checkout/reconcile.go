package checkout

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/smart-locker-kiosk/internal/application/ports"
	"github.com/jhoicas/smart-locker-kiosk/internal/domain/entity"
)

// BuildReconciliation arma las líneas del PUT final: shipped sale del carrito si el
// producto está en él y del valor previo del pickup si no. Required nunca cambia.
// Función pura: no toca el pickup ni el mapa recibido.
func BuildReconciliation(pickup entity.Pickup, cartQty map[string]int) []ports.PickupItemUpdate {
	out := make([]ports.PickupItemUpdate, 0, len(pickup.Items))
	for _, it := range pickup.Items {
		shipped := it.Shipped
		if q, ok := cartQty[it.Product.DocumentID]; ok {
			shipped = q
		}
		out = append(out, ports.PickupItemUpdate{
			Product:  it.Product.DocumentID,
			Required: it.Required,
			Shipped:  shipped,
		})
	}
	return out
}

// ReceiptLine línea del comprobante de retiro.
type ReceiptLine struct {
	ProductID string
	Name      string
	Required  int
	Shipped   int
	UnitPrice decimal.Decimal
	Currency  string
}

// Subtotal precio unitario por unidades entregadas.
func (l ReceiptLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Shipped)))
}

// Receipt comprobante del último pickup cerrado en la sesión.
type Receipt struct {
	PickupDocumentID string
	MachineID        string
	MachineName      string
	Lines            []ReceiptLine
	FinishedAt       time.Time
}

// Total suma de subtotales.
func (r Receipt) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range r.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// ReceiptRenderer genera la representación imprimible del comprobante.
type ReceiptRenderer interface {
	RenderReceipt(r Receipt) ([]byte, error)
}

func buildReceipt(pickup entity.Pickup, machine entity.Machine, items []ports.PickupItemUpdate, at time.Time) Receipt {
	r := Receipt{
		PickupDocumentID: pickup.DocumentID,
		MachineID:        machine.DocumentID,
		MachineName:      machine.Name,
		FinishedAt:       at,
	}
	for _, u := range items {
		line := ReceiptLine{ProductID: u.Product, Required: u.Required, Shipped: u.Shipped}
		if it, ok := pickup.Item(u.Product); ok {
			line.Name = it.Product.Name
			line.UnitPrice = it.Product.Price.NetPrice
			line.Currency = it.Product.Price.Currency
		}
		r.Lines = append(r.Lines, line)
	}
	return r
}
