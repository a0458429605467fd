// Package session compone por kiosco un store de máquinas, un carrito y un orquestador
// de pickups detrás de un único candado, para que los handlers HTTP concurrentes vean
// las operaciones en el mismo orden en que llegan.
package session

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/smart-locker-kiosk/internal/application/cart"
	"github.com/jhoicas/smart-locker-kiosk/internal/application/checkout"
	"github.com/jhoicas/smart-locker-kiosk/internal/application/machine"
	"github.com/jhoicas/smart-locker-kiosk/internal/application/notify"
	"github.com/jhoicas/smart-locker-kiosk/internal/application/ports"
	"github.com/jhoicas/smart-locker-kiosk/internal/domain"
	"github.com/jhoicas/smart-locker-kiosk/internal/domain/entity"
)

// View snapshot completo de la sesión para la UI.
type View struct {
	SessionID     string
	User          entity.User
	Machine       machine.State
	Cart          []entity.CartItem
	Total         decimal.Decimal
	ActivePickup  *entity.Pickup
	PickupPending bool
	Notifications []ports.Notification
}

// Session estado de un kiosco autenticado.
type Session struct {
	ID        string
	User      entity.User
	CreatedAt time.Time

	backend  ports.Backend
	store    *machine.Store
	ledger   *cart.Ledger
	orch     *checkout.Orchestrator
	buffer   *notify.Buffer
	observer ports.OperationObserver
}

// Backend token-scoped del usuario de la sesión.
func (s *Session) Backend() ports.Backend { return s.backend }

// ── Máquinas y lockers ────────────────────────────────────────────────────────

// SetMode cambia el modo de transacción (pickup / purchase).
func (s *Session) SetMode(mode machine.Mode) {
	s.orch.Do(func() { s.store.SetMode(mode) })
	s.observe("set_mode", nil)
}

// SelectMachine elige la máquina de trabajo.
func (s *Session) SelectMachine(machineID string) error {
	var err error
	s.orch.Do(func() { err = s.store.SelectMachine(strings.TrimSpace(machineID)) })
	return s.observe("select_machine", err)
}

// ClearMachineSelection suelta la máquina elegida. No se permite con un pickup activo.
func (s *Session) ClearMachineSelection() error {
	var err error
	s.orch.Do(func() {
		if _, active := s.orch.Active(); active {
			err = s.fail(domain.ErrPickupActive)
			return
		}
		s.store.ClearMachineSelection()
	})
	return s.observe("clear_machine", err)
}

// SelectLocker selecciona un locker de la máquina elegida.
func (s *Session) SelectLocker(lockerID int) error {
	var err error
	s.orch.Do(func() { err = s.store.SelectLocker(lockerID) })
	return s.observe("select_locker", err)
}

// ClearLockerSelection cierra el detalle del locker.
func (s *Session) ClearLockerSelection() {
	s.orch.Do(s.store.ClearLockerSelection)
	s.observe("clear_locker", nil)
}

// OpenLocker abre la puerta del locker.
func (s *Session) OpenLocker(lockerID int) error {
	var err error
	s.orch.Do(func() { err = s.store.OpenLocker(lockerID) })
	return s.observe("open_locker", err)
}

// CloseAllLockers cierra todas las puertas de la máquina elegida.
func (s *Session) CloseAllLockers() error {
	var err error
	s.orch.Do(func() { err = s.store.CloseAllLockers() })
	return s.observe("close_all_lockers", err)
}

// ToggleScanner abre o cierra el escáner.
func (s *Session) ToggleScanner(open bool) {
	s.orch.Do(func() { s.store.ToggleScanner(open) })
	s.observe("toggle_scanner", nil)
}

// ToggleQRCodes alterna la vista de QR de máquinas.
func (s *Session) ToggleQRCodes() {
	s.orch.Do(s.store.ToggleQRCodes)
	s.observe("toggle_qr_codes", nil)
}

// ScanMachine procesa un QR de máquina escaneado fuera del flujo de pickup.
// Con un pickup activo los productos esperados son los del pickup.
func (s *Session) ScanMachine(code string) (machine.ScanResult, error) {
	var (
		res machine.ScanResult
		err error
	)
	s.orch.Do(func() {
		var expected []string
		if p, ok := s.orch.Active(); ok {
			expected = p.ProductIDs()
		}
		res, err = s.store.HandleQRScan(code, expected)
	})
	return res, s.observe("scan_machine", err)
}

// AdjustStock suma o resta una unidad al stock del locker seleccionado.
func (s *Session) AdjustStock(productID string, increment bool) error {
	var err error
	s.orch.Do(func() { err = s.store.UpdateProductQuantity(productID, increment) })
	return s.observe("adjust_stock", err)
}

// ReloadMachines vuelve a leer el catálogo del backend. No se permite con un pickup
// activo o esperando respuesta, porque borraría las puertas abiertas.
func (s *Session) ReloadMachines(ctx context.Context) error {
	var err error
	s.orch.Do(func() { err = s.ensureIdle() })
	if err != nil {
		return s.observe("reload_machines", s.fail(err))
	}
	machines, err := s.backend.ListMachines(ctx)
	if err != nil {
		return s.observe("reload_machines", s.fail(err))
	}
	s.orch.Do(func() {
		if err = s.ensureIdle(); err != nil {
			s.fail(err)
			return
		}
		s.store.Load(machines)
	})
	return s.observe("reload_machines", err)
}

// Reset descarta todo el estado local de la sesión: máquinas, modo, carrito y pickup.
// La respuesta de una llamada al backend en curso se descartará al llegar.
func (s *Session) Reset(ctx context.Context) error {
	var err error
	s.orch.Do(func() {
		s.orch.Abandon()
		s.store.ResetMachines()
		s.store.ResetMode()
		if err = s.ledger.Reset(ctx); err != nil {
			s.fail(err)
		}
	})
	return s.observe("reset", err)
}

// ── Pickup y carrito ──────────────────────────────────────────────────────────

// StartPickup inicia el pickup escaneado en la máquina elegida.
func (s *Session) StartPickup(ctx context.Context, code string) (entity.Pickup, error) {
	p, err := s.orch.StartPickup(ctx, code)
	return p, s.observe("start_pickup", err)
}

// CancelPickup cierra el escáner y descarta la espera en curso.
func (s *Session) CancelPickup() {
	s.orch.Cancel()
	s.observe("cancel_pickup", nil)
}

// AddToCart pasa una unidad del locker al carrito.
func (s *Session) AddToCart(ctx context.Context, productID string) error {
	return s.observe("add_to_cart", s.orch.AddToCart(ctx, strings.TrimSpace(productID)))
}

// RemoveFromCart quita el producto del carrito.
func (s *Session) RemoveFromCart(ctx context.Context, productID string) (int, error) {
	n, err := s.orch.RemoveFromCart(ctx, productID)
	return n, s.observe("remove_from_cart", err)
}

// Checkout cierra el pickup activo.
func (s *Session) Checkout(ctx context.Context) (checkout.Receipt, error) {
	r, err := s.orch.Checkout(ctx)
	return r, s.observe("checkout", err)
}

// Receipt comprobante del último checkout.
func (s *Session) Receipt() (checkout.Receipt, error) {
	return s.orch.Receipt()
}

// Cart contenido del carrito y total.
func (s *Session) Cart() ([]entity.CartItem, decimal.Decimal) {
	var (
		items []entity.CartItem
		total decimal.Decimal
	)
	s.orch.Do(func() {
		items = s.ledger.Items()
		total = s.ledger.Total()
	})
	return items, total
}

// Snapshot estado completo; consume los avisos pendientes.
func (s *Session) Snapshot() View {
	v := View{SessionID: s.ID, User: s.User}
	s.orch.Do(func() {
		v.Machine = s.store.Snapshot()
		v.Cart = s.ledger.Items()
		v.Total = s.ledger.Total()
		if p, ok := s.orch.Active(); ok {
			v.ActivePickup = &p
		}
		v.PickupPending = s.orch.InFlight()
	})
	v.Notifications = s.buffer.Drain()
	return v
}

// Notifications consume los avisos pendientes.
func (s *Session) Notifications() []ports.Notification {
	return s.buffer.Drain()
}

func (s *Session) ensureIdle() error {
	if _, active := s.orch.Active(); active {
		return domain.ErrPickupActive
	}
	if s.orch.InFlight() {
		return domain.ErrPickupBusy
	}
	return nil
}

func (s *Session) fail(err error) error {
	s.buffer.Notify(ports.Failure(err))
	return err
}

func (s *Session) observe(op string, err error) error {
	s.observer.ObserveOperation(op, err)
	return err
}
