package checkout_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/smart-locker-kiosk/internal/application/checkout"
	"github.com/jhoicas/smart-locker-kiosk/internal/application/ports"
	"github.com/jhoicas/smart-locker-kiosk/internal/domain/entity"
)

// Un ítem que nunca pasó por el carrito conserva su shipped original.
func TestBuildReconciliation_ItemSinTocarConservaShipped(t *testing.T) {
	p := pickup("code-1", entity.PickupStarted,
		entity.PickupItem{Product: product("p1", 100), Required: 2, Shipped: 0},
		entity.PickupItem{Product: product("p2", 50), Required: 4, Shipped: 3},
	)
	cartQty := map[string]int{"p1": 1}

	got := checkout.BuildReconciliation(p, cartQty)
	assert.Equal(t, []ports.PickupItemUpdate{
		{Product: "p1", Required: 2, Shipped: 1},
		{Product: "p2", Required: 4, Shipped: 3},
	}, got)

	assert.Equal(t, 3, p.Items[1].Shipped)
	assert.Equal(t, map[string]int{"p1": 1}, cartQty)
}

func TestBuildReconciliation_PickupVacio(t *testing.T) {
	got := checkout.BuildReconciliation(entity.Pickup{}, nil)
	assert.Empty(t, got)
}

func TestReceipt_Total(t *testing.T) {
	r := checkout.Receipt{Lines: []checkout.ReceiptLine{
		{UnitPrice: decimal.RequireFromString("12.50"), Shipped: 2},
		{UnitPrice: decimal.NewFromInt(3), Shipped: 0},
	}}
	assert.True(t, decimal.RequireFromString("25").Equal(r.Total()))
	assert.True(t, decimal.RequireFromString("25").Equal(r.Lines[0].Subtotal()))
}
