// Package checkout orquesta el ciclo de vida de un pickup contra el backend:
// inicio (scan-to-open), carga del carrito desde el locker y cierre con conciliación.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/smart-locker-kiosk/internal/application/cart"
	"github.com/jhoicas/smart-locker-kiosk/internal/application/machine"
	"github.com/jhoicas/smart-locker-kiosk/internal/application/ports"
	"github.com/jhoicas/smart-locker-kiosk/internal/domain"
	"github.com/jhoicas/smart-locker-kiosk/internal/domain/entity"
)

// Orchestrator coordina store, carrito y backend para una sesión.
//
// mu es el candado de la sesión: toda mutación de store y ledger ocurre con él tomado.
// Mientras espera al backend el orquestador lo suelta. Al volver, un inicio se descarta
// si epoch cambió o la máquina elegida ya no es la misma; un cierre se descarta si el
// pickup activo ya no es el que se envió. Solo quien marcó inFlight lo limpia, así las
// llamadas de estado de un pickup nunca se solapan.
type Orchestrator struct {
	mu       sync.Locker
	store    *machine.Store
	ledger   *cart.Ledger
	pickups  ports.PickupService
	events   ports.EventPublisher
	notifier ports.Notifier
	now      func() time.Time

	active   *entity.Pickup
	inFlight bool
	epoch    uint64
	receipt  *Receipt
}

// NewOrchestrator construye el orquestador. events puede ser nil.
func NewOrchestrator(
	mu sync.Locker,
	store *machine.Store,
	ledger *cart.Ledger,
	pickups ports.PickupService,
	events ports.EventPublisher,
	notifier ports.Notifier,
) *Orchestrator {
	return &Orchestrator{
		mu:       mu,
		store:    store,
		ledger:   ledger,
		pickups:  pickups,
		events:   events,
		notifier: notifier,
		now:      time.Now,
	}
}

// Do ejecuta fn con el candado de la sesión tomado.
func (o *Orchestrator) Do(fn func()) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fn()
}

// Active pickup en curso. Llamar dentro de Do.
func (o *Orchestrator) Active() (entity.Pickup, bool) {
	if o.active == nil {
		return entity.Pickup{}, false
	}
	return clonePickup(*o.active), true
}

// InFlight true si hay un inicio o cierre esperando al backend. Llamar dentro de Do.
func (o *Orchestrator) InFlight() bool { return o.inFlight }

// StartPickup valida el código de retiro contra el backend, lo marca "started" y abre
// en la máquina elegida los lockers con productos del pickup. Si el backend falla no
// cambia nada local ni se abre ningún locker.
func (o *Orchestrator) StartPickup(ctx context.Context, code string) (entity.Pickup, error) {
	code = strings.TrimSpace(code)

	o.mu.Lock()
	m, epoch, err := o.prepareStart(code)
	if err != nil {
		o.mu.Unlock()
		return entity.Pickup{}, o.fail(err)
	}
	o.inFlight = true
	o.mu.Unlock()

	pickup, err := o.fetchAndStart(ctx, code)

	o.mu.Lock()
	o.inFlight = false
	if o.epoch != epoch || !o.stillSelected(m.DocumentID) {
		o.mu.Unlock()
		return entity.Pickup{}, o.fail(domain.ErrStaleResponse)
	}
	if err != nil {
		o.mu.Unlock()
		return entity.Pickup{}, o.fail(err)
	}

	// Primero la máquina: si el escaneo falla el carrito sigue intacto.
	if _, err := o.store.HandleQRScan(m.QRCode, pickup.ProductIDs()); err != nil {
		o.mu.Unlock()
		return entity.Pickup{}, err
	}
	if err := o.ledger.Reset(ctx); err != nil {
		o.notifier.Notify(ports.Failure(err))
	}
	pickup.Progress = entity.PickupStarted
	o.active = &pickup
	o.mu.Unlock()

	o.publish(ctx, ports.EventPickupStarted, pickup.DocumentID, m.DocumentID, nil)
	return clonePickup(pickup), nil
}

func (o *Orchestrator) prepareStart(code string) (entity.Machine, uint64, error) {
	if code == "" {
		return entity.Machine{}, 0, domain.ErrInvalidCode
	}
	if o.inFlight {
		return entity.Machine{}, 0, domain.ErrPickupBusy
	}
	if o.active != nil {
		return entity.Machine{}, 0, domain.ErrPickupActive
	}
	m, ok := o.store.SelectedMachine()
	if !ok {
		return entity.Machine{}, 0, domain.ErrNoMachineSelected
	}
	if !m.IsActive() {
		return entity.Machine{}, 0, domain.ErrMachineInactive
	}
	return m, o.epoch, nil
}

func (o *Orchestrator) stillSelected(machineID string) bool {
	m, ok := o.store.SelectedMachine()
	return ok && m.DocumentID == machineID
}

func (o *Orchestrator) fetchAndStart(ctx context.Context, code string) (entity.Pickup, error) {
	pickup, err := o.pickups.GetPickup(ctx, code)
	if errors.Is(err, domain.ErrNotFound) {
		return entity.Pickup{}, domain.ErrPickupNotFound
	}
	if err != nil {
		return entity.Pickup{}, fmt.Errorf("%w: %w", domain.ErrPickupStartFailed, err)
	}
	if pickup.Progress == entity.PickupFinished {
		return entity.Pickup{}, domain.ErrPickupFinished
	}
	if !pickup.Progress.CanAdvanceTo(entity.PickupStarted) {
		return entity.Pickup{}, domain.ErrInvalidProgress
	}
	update := ports.PickupUpdate{PickupID: pickup.DocumentID, Progress: entity.PickupStarted}
	if err := o.pickups.UpdatePickup(ctx, update); err != nil {
		return entity.Pickup{}, fmt.Errorf("%w: %w", domain.ErrPickupStartFailed, err)
	}
	return *pickup, nil
}

// AddToCart pasa una unidad del locker seleccionado al carrito. El tope del ítem es
// min(requerido, stock) al momento de insertarlo.
func (o *Orchestrator) AddToCart(ctx context.Context, productID string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.active == nil {
		return o.fail(domain.ErrNotInPickup)
	}
	item, ok := o.active.Item(productID)
	if !ok {
		return o.fail(domain.ErrNotInPickup)
	}
	stock, err := o.store.SelectedStock(productID)
	if err != nil {
		return o.fail(err)
	}
	if err := o.ledger.CanAdd(productID); err != nil {
		return o.fail(err)
	}
	if stock.Quantity <= 0 {
		return o.fail(domain.ErrStockExhausted)
	}

	err = o.ledger.Add(ctx, entity.CartItem{
		ID:          productID,
		Name:        item.Product.Name,
		Price:       item.Product.Price.NetPrice,
		MaxQuantity: min(item.Required, stock.Quantity),
	})
	if err != nil {
		return err
	}
	return o.store.UpdateProductQuantity(productID, false)
}

// RemoveFromCart elimina el producto del carrito y devuelve sus unidades al locker
// seleccionado si sigue abierto. Devuelve la cantidad quitada del carrito.
func (o *Orchestrator) RemoveFromCart(ctx context.Context, productID string) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	removed, err := o.ledger.Remove(ctx, productID)
	if err != nil {
		return 0, err
	}
	if _, err := o.store.SelectedStock(productID); err == nil {
		if _, err := o.store.ReturnStock(productID, removed); err != nil {
			return removed, err
		}
	}
	return removed, nil
}

// Checkout cierra el pickup activo: envía shipped por producto y, si el backend
// confirma, restaura máquinas, vacía el carrito y guarda el comprobante.
// Si el backend falla todo queda como estaba para reintentar.
func (o *Orchestrator) Checkout(ctx context.Context) (Receipt, error) {
	o.mu.Lock()
	if err := o.prepareCheckout(); err != nil {
		o.mu.Unlock()
		return Receipt{}, o.fail(err)
	}
	pickup := clonePickup(*o.active)
	m, _ := o.store.SelectedMachine()
	items := BuildReconciliation(pickup, o.ledger.Quantities())
	o.inFlight = true
	o.mu.Unlock()

	err := o.pickups.UpdatePickup(ctx, ports.PickupUpdate{
		PickupID: pickup.DocumentID,
		Progress: entity.PickupFinished,
		Items:    items,
	})

	o.mu.Lock()
	o.inFlight = false
	if o.active == nil || o.active.DocumentID != pickup.DocumentID {
		o.mu.Unlock()
		return Receipt{}, o.fail(domain.ErrStaleResponse)
	}
	if err != nil {
		o.mu.Unlock()
		return Receipt{}, o.fail(fmt.Errorf("%w: %w", domain.ErrPickupFinishFailed, err))
	}

	o.store.ResetMachines()
	if err := o.ledger.Reset(ctx); err != nil {
		o.notifier.Notify(ports.Failure(err))
	}
	receipt := buildReceipt(pickup, m, items, o.now())
	o.receipt = &receipt
	o.active = nil
	o.notifier.Notify(ports.Success("Checkout Successful", "Thanks for shopping with us!"))
	o.mu.Unlock()

	o.publish(ctx, ports.EventPickupFinished, pickup.DocumentID, m.DocumentID, items)
	return receipt, nil
}

func (o *Orchestrator) prepareCheckout() error {
	if !o.store.CheckAllDoorsClosed() {
		return domain.ErrDoorsOpen
	}
	if o.active == nil {
		return domain.ErrNoPickup
	}
	if o.inFlight {
		return domain.ErrPickupBusy
	}
	return nil
}

// Cancel cierra el escáner. Con un pickup activo no toca nada más: un cierre en curso
// sigue su curso. Sin pickup activo suelta la máquina elegida y el inicio en espera se
// descartará al volver (la llamada al backend no se cancela).
func (o *Orchestrator) Cancel() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.store.ToggleScanner(false)
	if o.active != nil {
		return
	}
	o.epoch++
	o.store.ClearMachineSelection()
}

// Abandon olvida el pickup activo y el comprobante. Una llamada en curso se descartará
// al volver. Llamar dentro de Do.
func (o *Orchestrator) Abandon() {
	o.epoch++
	o.active = nil
	o.receipt = nil
}

// Receipt comprobante del último checkout de la sesión.
func (o *Orchestrator) Receipt() (Receipt, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.receipt == nil {
		return Receipt{}, domain.ErrNoReceipt
	}
	r := *o.receipt
	r.Lines = append([]ReceiptLine(nil), r.Lines...)
	return r, nil
}

func (o *Orchestrator) publish(ctx context.Context, kind, pickupID, machineID string, items []ports.PickupItemUpdate) {
	if o.events == nil {
		return
	}
	// Los fallos de publicación no afectan al usuario; el publicador los registra.
	_ = o.events.Publish(ctx, ports.PickupEvent{
		EventID:    uuid.NewString(),
		Type:       kind,
		PickupID:   pickupID,
		MachineID:  machineID,
		Items:      items,
		OccurredAt: o.now().UTC(),
	})
}

func (o *Orchestrator) fail(err error) error {
	o.notifier.Notify(ports.Failure(err))
	return err
}

func clonePickup(p entity.Pickup) entity.Pickup {
	p.Items = append([]entity.PickupItem(nil), p.Items...)
	return p
}
