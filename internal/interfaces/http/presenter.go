package http

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/smart-locker-kiosk/internal/application/auth"
	"github.com/jhoicas/smart-locker-kiosk/internal/application/checkout"
	"github.com/jhoicas/smart-locker-kiosk/internal/application/dto"
	"github.com/jhoicas/smart-locker-kiosk/internal/application/machine"
	"github.com/jhoicas/smart-locker-kiosk/internal/application/ports"
	"github.com/jhoicas/smart-locker-kiosk/internal/application/session"
	"github.com/jhoicas/smart-locker-kiosk/internal/domain/entity"
)

func toSessionResponse(v session.View) dto.SessionResponse {
	out := dto.SessionResponse{
		SessionID:         v.SessionID,
		User:              auth.ToUserResponse(v.User),
		Mode:              string(v.Machine.Mode),
		Phase:             string(v.Machine.Phase),
		Machines:          toMachines(v.Machine.Machines),
		SelectedMachineID: v.Machine.SelectedMachineID,
		SelectedLockerID:  v.Machine.SelectedLockerID,
		ScannerOpen:       v.Machine.ScannerOpen,
		ShowQRCodes:       v.Machine.ShowQRCodes,
		ShowLockers:       v.Machine.ShowLockers,
		AllDoorsClosed:    v.Machine.AllDoorsClosed,
		Cart:              toCartItems(v.Cart),
		Total:             v.Total,
		PickupPending:     v.PickupPending,
		Notifications:     toNotifications(v.Notifications),
	}
	if v.ActivePickup != nil {
		p := toPickup(*v.ActivePickup)
		out.ActivePickup = &p
	}
	return out
}

func toMachines(in []entity.Machine) []dto.MachineResponse {
	out := make([]dto.MachineResponse, 0, len(in))
	for _, m := range in {
		lockers := make([]dto.LockerResponse, 0, len(m.Lockers))
		for _, l := range m.Lockers {
			stocks := make([]dto.StockResponse, 0, len(l.Stocks))
			for _, s := range l.Stocks {
				stocks = append(stocks, dto.StockResponse{
					ID:               s.ID,
					Quantity:         s.Quantity,
					OriginalQuantity: s.OriginalQuantity,
					Product:          toProduct(s.Product),
				})
			}
			lockers = append(lockers, dto.LockerResponse{
				ID:         l.ID,
				IsOpen:     l.IsOpen,
				IsOccupied: l.IsOccupied,
				Stocks:     stocks,
			})
		}
		out = append(out, dto.MachineResponse{
			DocumentID:    m.DocumentID,
			Name:          m.Name,
			Available:     m.Available,
			MachineStatus: string(m.MachineStatus),
			QRCode:        m.QRCode,
			Lockers:       lockers,
		})
	}
	return out
}

func toProduct(p entity.Product) dto.ProductResponse {
	return dto.ProductResponse{
		DocumentID:  p.DocumentID,
		Name:        p.Name,
		Description: p.Description,
		NetPrice:    p.Price.NetPrice,
		Currency:    p.Price.Currency,
		VatRate:     p.Price.VatRate,
	}
}

func toCartItems(in []entity.CartItem) []dto.CartItemResponse {
	out := make([]dto.CartItemResponse, 0, len(in))
	for _, it := range in {
		out = append(out, dto.CartItemResponse{
			ID:          it.ID,
			Name:        it.Name,
			Price:       it.Price,
			Quantity:    it.Quantity,
			MaxQuantity: it.MaxQuantity,
			Subtotal:    it.Subtotal(),
		})
	}
	return out
}

func toCart(items []entity.CartItem, total decimal.Decimal, notes []ports.Notification) dto.CartResponse {
	return dto.CartResponse{Items: toCartItems(items), Total: total, Notifications: toNotifications(notes)}
}

func toPickup(p entity.Pickup) dto.PickupResponse {
	out := dto.PickupResponse{DocumentID: p.DocumentID, Progress: string(p.Progress)}
	for _, it := range p.Items {
		out.Items = append(out.Items, dto.PickupItemResponse{
			ProductID: it.Product.DocumentID,
			Name:      it.Product.Name,
			Required:  it.Required,
			Shipped:   it.Shipped,
		})
	}
	return out
}

func toScan(r machine.ScanResult, notes []ports.Notification) dto.ScanResponse {
	return dto.ScanResponse{
		MachineID:       r.MachineID,
		OpenedLockers:   r.OpenedLockers,
		MissingProducts: r.MissingProducts,
		Notifications:   toNotifications(notes),
	}
}

func toCheckout(r checkout.Receipt, notes []ports.Notification) dto.CheckoutResponse {
	out := dto.CheckoutResponse{
		PickupID:      r.PickupDocumentID,
		MachineID:     r.MachineID,
		Total:         r.Total(),
		FinishedAt:    r.FinishedAt,
		Notifications: toNotifications(notes),
	}
	for _, l := range r.Lines {
		out.Lines = append(out.Lines, dto.ReceiptLineResponse{
			ProductID: l.ProductID,
			Name:      l.Name,
			Required:  l.Required,
			Shipped:   l.Shipped,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.Subtotal(),
		})
	}
	return out
}

func toNotifications(in []ports.Notification) []dto.NotificationResponse {
	if len(in) == 0 {
		return nil
	}
	out := make([]dto.NotificationResponse, 0, len(in))
	for _, n := range in {
		out = append(out, dto.NotificationResponse{Level: string(n.Level), Title: n.Title, Description: n.Description})
	}
	return out
}
