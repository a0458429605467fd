package backend

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/smart-locker-kiosk/internal/application/ports"
	"github.com/jhoicas/smart-locker-kiosk/internal/domain"
	"github.com/jhoicas/smart-locker-kiosk/internal/domain/entity"
)

// ── Estructuras internas del protocolo del backend ────────────────────────────

type envelope[T any] struct {
	Data T `json:"data"`
}

type errorBody struct {
	Error *struct {
		Status  int    `json:"status"`
		Name    string `json:"name"`
		Message string `json:"message"`
	} `json:"error"`
}

type userDTO struct {
	ID         int    `json:"id"`
	DocumentID string `json:"documentId"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Confirmed  bool   `json:"confirmed"`
	Blocked    bool   `json:"blocked"`
}

type authResponse struct {
	JWT  string   `json:"jwt"`
	User *userDTO `json:"user"`
}

func (r authResponse) toEntity() (*entity.Credentials, error) {
	if r.JWT == "" || r.User == nil {
		return nil, fmt.Errorf("%w: respuesta de auth incompleta", domain.ErrBackendUnavailable)
	}
	return &entity.Credentials{
		JWT: r.JWT,
		User: entity.User{
			ID:         r.User.ID,
			DocumentID: r.User.DocumentID,
			Username:   r.User.Username,
			Email:      r.User.Email,
			Confirmed:  r.User.Confirmed,
			Blocked:    r.User.Blocked,
		},
	}, nil
}

type priceDTO struct {
	ID       int             `json:"id"`
	NetPrice decimal.Decimal `json:"netPrice"`
	Currency string          `json:"currency"`
	VatRate  decimal.Decimal `json:"vatRate"`
}

type productDTO struct {
	ID            int       `json:"id"`
	DocumentID    string    `json:"documentId"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	ProductStatus string    `json:"productStatus"`
	Price         *priceDTO `json:"price"`
}

func (p *productDTO) toEntity() entity.Product {
	if p == nil {
		return entity.Product{}
	}
	out := entity.Product{
		ID:          p.ID,
		DocumentID:  p.DocumentID,
		Name:        p.Name,
		Description: p.Description,
		Status:      p.ProductStatus,
	}
	if p.Price != nil {
		out.Price = entity.Price{
			ID:       p.Price.ID,
			NetPrice: p.Price.NetPrice,
			Currency: p.Price.Currency,
			VatRate:  p.Price.VatRate,
		}
	}
	return out
}

type stockDTO struct {
	ID               int         `json:"id"`
	Quantity         int         `json:"quantity"`
	OriginalQuantity int         `json:"originalQuantity"`
	Product          *productDTO `json:"product"`
}

type lockerDTO struct {
	ID         int        `json:"id"`
	IsOpen     bool       `json:"isOpen"`
	IsOccupied bool       `json:"isOccupied"`
	Stocks     []stockDTO `json:"stocks"`
}

type machineDTO struct {
	ID            int         `json:"id"`
	DocumentID    string      `json:"documentId"`
	Name          string      `json:"name"`
	Available     bool        `json:"available"`
	MachineStatus string      `json:"machineStatus"`
	QRCode        string      `json:"qrCode"`
	Lockers       []lockerDTO `json:"lockers"`
	Stocks        []stockDTO  `json:"stocks"`
}

// toEntity normaliza la máquina. Si el backend no envía lockers, el stock de la máquina
// se reparte entre lockerCount compartimentos. Las puertas siempre arrancan cerradas.
func (m machineDTO) toEntity(lockerCount int) entity.Machine {
	out := entity.Machine{
		ID:            m.ID,
		DocumentID:    m.DocumentID,
		Name:          m.Name,
		Available:     m.Available,
		MachineStatus: entity.MachineStatus(m.MachineStatus),
		QRCode:        m.QRCode,
	}
	if len(m.Lockers) == 0 {
		out.Lockers = entity.DistributeStocks(toStocks(m.Stocks), lockerCount)
		return out
	}
	out.Lockers = make([]entity.Locker, 0, len(m.Lockers))
	for _, l := range m.Lockers {
		stocks := toStocks(l.Stocks)
		out.Lockers = append(out.Lockers, entity.Locker{
			ID:         l.ID,
			IsOccupied: l.IsOccupied || len(stocks) > 0,
			Stocks:     stocks,
		})
	}
	return out
}

func toStocks(in []stockDTO) []entity.Stock {
	out := make([]entity.Stock, 0, len(in))
	for _, s := range in {
		if s.Product == nil || s.Product.DocumentID == "" {
			continue
		}
		out = append(out, entity.Stock{
			ID:               s.ID,
			Quantity:         s.Quantity,
			OriginalQuantity: s.OriginalQuantity,
			Product:          s.Product.toEntity(),
		}.Normalize())
	}
	return out
}

type pickupItemDTO struct {
	ID       int         `json:"id"`
	Required int         `json:"required"`
	Shipped  int         `json:"shipped"`
	Product  *productDTO `json:"product"`
}

type orderItemDTO struct {
	ID       int         `json:"id"`
	Quantity int         `json:"quantity"`
	Product  *productDTO `json:"product"`
	Price    *priceDTO   `json:"price"`
}

type orderDTO struct {
	ID          int            `json:"id"`
	DocumentID  string         `json:"documentId"`
	Issue       bool           `json:"issue"`
	OrderStatus string         `json:"orderStatus"`
	Items       []orderItemDTO `json:"items"`
}

type pickupDTO struct {
	ID         int             `json:"id"`
	DocumentID string          `json:"documentId"`
	Progress   string          `json:"progress"`
	Order      *orderDTO       `json:"order"`
	Items      []pickupItemDTO `json:"items"`
}

func (p pickupDTO) toEntity() entity.Pickup {
	out := entity.Pickup{
		ID:         p.ID,
		DocumentID: p.DocumentID,
		Progress:   entity.PickupProgress(p.Progress),
	}
	for _, it := range p.Items {
		if it.Product == nil {
			continue
		}
		out.Items = append(out.Items, entity.PickupItem{
			ID:       it.ID,
			Product:  it.Product.toEntity(),
			Required: it.Required,
			Shipped:  it.Shipped,
		})
	}
	if p.Order != nil {
		order := &entity.Order{
			ID:          p.Order.ID,
			DocumentID:  p.Order.DocumentID,
			Issue:       p.Order.Issue,
			OrderStatus: p.Order.OrderStatus,
		}
		for _, oi := range p.Order.Items {
			item := entity.OrderItem{ID: oi.ID, Quantity: oi.Quantity}
			if oi.Product != nil {
				prod := oi.Product.toEntity()
				item.Product = &prod
			}
			if oi.Price != nil {
				item.Price = entity.Price{ID: oi.Price.ID, NetPrice: oi.Price.NetPrice, Currency: oi.Price.Currency, VatRate: oi.Price.VatRate}
			}
			order.Items = append(order.Items, item)
		}
		out.Order = order
	}
	return out
}

type pickupUpdateData struct {
	Progress string                   `json:"progress"`
	Items    []ports.PickupItemUpdate `json:"items,omitempty"`
}
