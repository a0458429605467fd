package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ModeRequest cambio de modo de transacción: "pickup" | "purchase".
type ModeRequest struct {
	Mode string `json:"mode" validate:"required,oneof=pickup purchase"`
}

// SelectMachineRequest elección de máquina (documentId).
type SelectMachineRequest struct {
	MachineID string `json:"machine_id" validate:"required"`
}

// ScannerRequest abre o cierra el escáner.
type ScannerRequest struct {
	Open bool `json:"open"`
}

// ScanRequest código escaneado (QR de máquina o código de pickup).
type ScanRequest struct {
	Code string `json:"code" validate:"required"`
}

// AdjustStockRequest suma (true) o resta (false) una unidad.
type AdjustStockRequest struct {
	Increment bool `json:"increment"`
}

// AddCartItemRequest producto a pasar del locker al carrito.
type AddCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

// ProductResponse producto de catálogo.
type ProductResponse struct {
	DocumentID  string          `json:"documentId"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	NetPrice    decimal.Decimal `json:"net_price"`
	Currency    string          `json:"currency,omitempty"`
	VatRate     decimal.Decimal `json:"vat_rate"`
}

// StockResponse stock de un producto en un locker.
type StockResponse struct {
	ID               int             `json:"id"`
	Quantity         int             `json:"quantity"`
	OriginalQuantity int             `json:"original_quantity"`
	Product          ProductResponse `json:"product"`
}

// LockerResponse locker con sus stocks.
type LockerResponse struct {
	ID         int             `json:"id"`
	IsOpen     bool            `json:"is_open"`
	IsOccupied bool            `json:"is_occupied"`
	Stocks     []StockResponse `json:"stocks"`
}

// MachineResponse máquina con sus lockers.
type MachineResponse struct {
	DocumentID    string           `json:"documentId"`
	Name          string           `json:"name"`
	Available     bool             `json:"available"`
	MachineStatus string           `json:"machine_status"`
	QRCode        string           `json:"qr_code"`
	Lockers       []LockerResponse `json:"lockers"`
}

// CartItemResponse entrada del carrito.
type CartItemResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	MaxQuantity int             `json:"max_quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// CartResponse carrito con total recalculado.
type CartResponse struct {
	Items         []CartItemResponse     `json:"items"`
	Total         decimal.Decimal        `json:"total"`
	Notifications []NotificationResponse `json:"notifications,omitempty"`
}

// PickupItemResponse línea de pickup.
type PickupItemResponse struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Required  int    `json:"required"`
	Shipped   int    `json:"shipped"`
}

// PickupResponse pickup activo.
type PickupResponse struct {
	DocumentID string               `json:"documentId"`
	Progress   string               `json:"progress"`
	Items      []PickupItemResponse `json:"items"`
}

// SessionResponse snapshot completo de la sesión de kiosco.
type SessionResponse struct {
	SessionID         string                 `json:"session_id"`
	User              UserResponse           `json:"user"`
	Mode              string                 `json:"mode"`
	Phase             string                 `json:"phase"`
	Machines          []MachineResponse      `json:"machines"`
	SelectedMachineID string                 `json:"selected_machine_id,omitempty"`
	SelectedLockerID  *int                   `json:"selected_locker_id,omitempty"`
	ScannerOpen       bool                   `json:"scanner_open"`
	ShowQRCodes       bool                   `json:"show_qr_codes"`
	ShowLockers       bool                   `json:"show_lockers"`
	AllDoorsClosed    bool                   `json:"all_doors_closed"`
	Cart              []CartItemResponse     `json:"cart"`
	Total             decimal.Decimal        `json:"total"`
	ActivePickup      *PickupResponse        `json:"active_pickup,omitempty"`
	PickupPending     bool                   `json:"pickup_pending"`
	Notifications     []NotificationResponse `json:"notifications,omitempty"`
}

// ScanResponse resultado de un escaneo de máquina.
type ScanResponse struct {
	MachineID       string                 `json:"machine_id"`
	OpenedLockers   []int                  `json:"opened_lockers"`
	MissingProducts []string               `json:"missing_products,omitempty"`
	Notifications   []NotificationResponse `json:"notifications,omitempty"`
}

// ReceiptLineResponse línea del comprobante.
type ReceiptLineResponse struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Required  int             `json:"required"`
	Shipped   int             `json:"shipped"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// CheckoutResponse comprobante del pickup cerrado.
type CheckoutResponse struct {
	PickupID      string                 `json:"pickup_id"`
	MachineID     string                 `json:"machine_id"`
	Lines         []ReceiptLineResponse  `json:"lines"`
	Total         decimal.Decimal        `json:"total"`
	FinishedAt    time.Time              `json:"finished_at"`
	Notifications []NotificationResponse `json:"notifications,omitempty"`
}
