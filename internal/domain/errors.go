package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Los mensajes se muestran tal cual al usuario del kiosco.
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrSessionExpired = errors.New("kiosk session not found or expired")

	// Selección
	ErrNoMachineSelected = errors.New("please select a machine first")
	ErrInvalidMachine    = errors.New("invalid machine selection")
	ErrInvalidLocker     = errors.New("invalid locker selection")
	ErrNoSelection       = errors.New("please select both machine and locker")
	ErrLockerClosed      = errors.New("locker is closed")
	ErrInvalidCode       = errors.New("invalid QR code")
	ErrMachineInactive   = errors.New("machine is not available")
	ErrProductNotFound   = errors.New("product not found")
	ErrNotInCart         = errors.New("product is not in the cart")

	// Capacidad
	ErrCapacityExceeded = errors.New("maximum quantity reached for this item")
	ErrStockExhausted   = errors.New("no stock left for this product")

	// Consistencia
	ErrAlreadyBusy     = errors.New("please close the locker before selecting another machine")
	ErrNotInPickup     = errors.New("can't add to cart")
	ErrDoorsOpen       = errors.New("please close all lockers before checking out")
	ErrNoPickup        = errors.New("please select a pickup order")
	ErrPickupNotFound  = errors.New("pickup not found")
	ErrPickupFinished  = errors.New("pickup already finished")
	ErrPickupActive    = errors.New("finish the current pickup first")
	ErrPickupBusy      = errors.New("pickup update already in progress")
	ErrStaleResponse   = errors.New("pickup changed while the request was in flight")
	ErrNoReceipt       = errors.New("no finished pickup to print")
	ErrInvalidProgress = errors.New("invalid pickup progress transition")

	// Red
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrPickupStartFailed  = errors.New("failed to start order pickup")
	ErrPickupFinishFailed = errors.New("failed to finish order pickup")
	ErrStorage            = errors.New("local storage failure")
)

// ErrorKind clasifica un error según la taxonomía de recuperación del kiosco.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindSelection
	KindCapacity
	KindConsistency
	KindNetwork
)

func (k ErrorKind) String() string {
	switch k {
	case KindSelection:
		return "selection"
	case KindCapacity:
		return "capacity"
	case KindConsistency:
		return "consistency"
	case KindNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// El orden importa: un ErrPickupStartFailed puede envolver un ErrNotFound del backend
// y debe clasificarse como error de red.
var kindTable = []struct {
	err  error
	kind ErrorKind
}{
	{ErrPickupStartFailed, KindNetwork},
	{ErrPickupFinishFailed, KindNetwork},
	{ErrBackendUnavailable, KindNetwork},
	{ErrStorage, KindNetwork},
	{ErrNoMachineSelected, KindSelection},
	{ErrInvalidMachine, KindSelection},
	{ErrInvalidLocker, KindSelection},
	{ErrNoSelection, KindSelection},
	{ErrLockerClosed, KindSelection},
	{ErrInvalidCode, KindSelection},
	{ErrMachineInactive, KindSelection},
	{ErrProductNotFound, KindSelection},
	{ErrNotInCart, KindSelection},
	{ErrCapacityExceeded, KindCapacity},
	{ErrStockExhausted, KindCapacity},
	{ErrAlreadyBusy, KindConsistency},
	{ErrNotInPickup, KindConsistency},
	{ErrDoorsOpen, KindConsistency},
	{ErrNoPickup, KindConsistency},
	{ErrPickupNotFound, KindConsistency},
	{ErrPickupFinished, KindConsistency},
	{ErrPickupActive, KindConsistency},
	{ErrPickupBusy, KindConsistency},
	{ErrStaleResponse, KindConsistency},
	{ErrNoReceipt, KindConsistency},
	{ErrInvalidProgress, KindConsistency},
}

// KindOf devuelve la categoría del error (KindUnknown si no es un error de dominio).
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}
	for _, e := range kindTable {
		if errors.Is(err, e.err) {
			return e.kind
		}
	}
	return KindUnknown
}
