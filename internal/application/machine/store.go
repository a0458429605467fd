// Package machine contiene el store de máquinas y lockers de una sesión de kiosco:
// única fuente de verdad de la selección, del estado de las puertas y del stock restante.
package machine

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jhoicas/smart-locker-kiosk/internal/application/ports"
	"github.com/jhoicas/smart-locker-kiosk/internal/domain"
	"github.com/jhoicas/smart-locker-kiosk/internal/domain/entity"
)

// Mode modo de transacción elegido en el kiosco.
type Mode string

const (
	ModeNone Mode = ""
	// ModePickup retiro de orden: al elegir máquina se abre el escáner (scan-to-open).
	ModePickup Mode = "pickup"
	// ModePurchase compra en máquina: se muestra el QR de la máquina para escanearlo desde el teléfono.
	ModePurchase Mode = "purchase"
)

// ParseMode convierte el valor de configuración/petición. ok=false si no es un modo conocido.
func ParseMode(s string) (Mode, bool) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeNone:
		return ModeNone, true
	case ModePickup:
		return ModePickup, true
	case ModePurchase:
		return ModePurchase, true
	}
	return ModeNone, false
}

// Phase estado derivado de la sesión.
type Phase string

const (
	PhaseNoMachineSelected Phase = "NO_MACHINE_SELECTED"
	PhaseMachineSelected   Phase = "MACHINE_SELECTED"
	PhaseScannerOpen       Phase = "SCANNER_OPEN"
	PhaseLockerOpen        Phase = "LOCKER_OPEN"
	PhaseAllClosed         Phase = "ALL_CLOSED"
)

// State snapshot inmutable del store para la UI.
type State struct {
	Mode              Mode
	Phase             Phase
	Machines          []entity.Machine
	SelectedMachineID string
	SelectedLockerID  *int
	ScannerOpen       bool
	ShowQRCodes       bool
	ShowLockers       bool
	AllDoorsClosed    bool
}

// ScanResult efecto de un escaneo válido.
type ScanResult struct {
	MachineID       string
	OpenedLockers   []int
	MissingProducts []string
}

// Store estado de máquinas/lockers de una sesión. La selección se guarda por ID;
// el slice machines es el único dueño del estado de puertas y stock.
// No es seguro para uso concurrente: la sesión serializa las llamadas.
type Store struct {
	notifier ports.Notifier

	initial     []entity.Machine
	machines    []entity.Machine
	defaultMode Mode
	mode        Mode

	selectedMachine string
	selectedLocker  int
	lockerSelected  bool
	scannerOpen     bool
	showQRCodes     bool
	showLockers     bool
}

// NewStore construye el store con el snapshot inicial cargado del backend.
func NewStore(notifier ports.Notifier, machines []entity.Machine, mode Mode) *Store {
	s := &Store{notifier: notifier, defaultMode: mode, mode: mode}
	s.Load(machines)
	return s
}

// Load reemplaza el snapshot inicial y vuelve a él.
func (s *Store) Load(machines []entity.Machine) {
	s.initial = cloneMachines(machines)
	s.ResetMachines()
}

// ResetMachines descarta aperturas, cierres y ediciones de cantidad de la sesión
// y restaura el snapshot inicial. El modo no se toca.
func (s *Store) ResetMachines() {
	s.machines = cloneMachines(s.initial)
	s.selectedMachine = ""
	s.clearLocker()
	s.scannerOpen = false
	s.showQRCodes = false
	s.showLockers = false
}

// Mode modo actual.
func (s *Store) Mode() Mode { return s.mode }

// SetMode cambia el modo de transacción.
func (s *Store) SetMode(mode Mode) { s.mode = mode }

// ResetMode vuelve al modo configurado por defecto.
func (s *Store) ResetMode() { s.mode = s.defaultMode }

// SelectMachine elige la máquina de trabajo. Falla con ErrAlreadyBusy si alguna máquina
// ya está tomada por una transacción en curso.
func (s *Store) SelectMachine(machineID string) error {
	if slices.ContainsFunc(s.machines, func(m entity.Machine) bool { return m.Available }) {
		return s.fail(domain.ErrAlreadyBusy)
	}
	if s.machineIndex(machineID) < 0 {
		return s.fail(domain.ErrInvalidMachine)
	}
	s.selectedMachine = machineID
	s.clearLocker()
	if s.mode == ModePickup {
		s.scannerOpen = true
	}
	return nil
}

// ClearMachineSelection deja el kiosco sin máquina elegida.
func (s *Store) ClearMachineSelection() {
	s.selectedMachine = ""
	s.clearLocker()
	s.scannerOpen = false
}

// SelectedMachine copia de la máquina elegida.
func (s *Store) SelectedMachine() (entity.Machine, bool) {
	idx := s.selectedIndex()
	if idx < 0 {
		return entity.Machine{}, false
	}
	return s.machines[idx].Clone(), true
}

// SelectLocker marca el locker como seleccionado.
func (s *Store) SelectLocker(lockerID int) error {
	mi, err := s.requireMachine()
	if err != nil {
		return s.fail(err)
	}
	if s.machines[mi].LockerIndex(lockerID) < 0 {
		return s.fail(domain.ErrInvalidLocker)
	}
	s.selectedLocker = lockerID
	s.lockerSelected = true
	return nil
}

// ClearLockerSelection cierra el detalle del locker (la puerta no cambia).
func (s *Store) ClearLockerSelection() { s.clearLocker() }

// OpenLocker abre la puerta y selecciona el locker. Abrir uno ya abierto solo lo reselecciona.
func (s *Store) OpenLocker(lockerID int) error {
	mi, err := s.requireMachine()
	if err != nil {
		return s.fail(err)
	}
	m := s.machines[mi]
	li := m.LockerIndex(lockerID)
	if li < 0 {
		return s.fail(domain.ErrInvalidLocker)
	}
	if !m.Lockers[li].IsOpen {
		next, err := m.WithLocker(m.Lockers[li].WithOpen(true))
		if err != nil {
			return s.fail(err)
		}
		s.machines[mi] = next
	}
	s.selectedLocker = lockerID
	s.lockerSelected = true
	return nil
}

// CloseAllLockers cierra todas las puertas de la máquina elegida.
func (s *Store) CloseAllLockers() error {
	mi, err := s.requireMachine()
	if err != nil {
		return s.fail(err)
	}
	s.machines[mi] = s.machines[mi].WithAllClosed()
	s.clearLocker()
	s.notifier.Notify(ports.Success("All lockers closed successfully!", ""))
	return nil
}

// CheckAllDoorsClosed true si no hay máquina elegida o ninguna puerta está abierta.
func (s *Store) CheckAllDoorsClosed() bool {
	mi := s.selectedIndex()
	return mi < 0 || s.machines[mi].AllClosed()
}

// ToggleScanner abre o cierra el panel del escáner.
func (s *Store) ToggleScanner(open bool) { s.scannerOpen = open }

// ToggleQRCodes alterna la visualización de los QR de las máquinas.
func (s *Store) ToggleQRCodes() { s.showQRCodes = !s.showQRCodes }

// SetShowLockers muestra u oculta la grilla de lockers.
func (s *Store) SetShowLockers(show bool) { s.showLockers = show }

// HandleQRScan procesa el QR de una máquina: la toma para la transacción (liberando
// el resto de la flota) y abre exactamente los lockers que guardan alguno de los
// productos esperados. Los productos que no están en ningún locker generan una advertencia
// que no bloquea el checkout.
func (s *Store) HandleQRScan(code string, expectedProductIDs []string) (ScanResult, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return ScanResult{}, s.fail(domain.ErrInvalidCode)
	}
	sel := s.selectedIndex()
	if sel < 0 {
		return ScanResult{}, s.fail(domain.ErrNoMachineSelected)
	}
	idx := slices.IndexFunc(s.machines, func(m entity.Machine) bool { return m.QRCode == code })
	if idx < 0 {
		return ScanResult{}, s.fail(domain.ErrInvalidCode)
	}
	if idx != sel {
		return ScanResult{}, s.fail(fmt.Errorf("%w: QR de otra máquina (%s)", domain.ErrInvalidCode, s.machines[idx].Name))
	}
	m := s.machines[idx]
	if !m.IsActive() {
		return ScanResult{}, s.fail(domain.ErrMachineInactive)
	}

	want := make(map[string]struct{}, len(expectedProductIDs))
	for _, id := range expectedProductIDs {
		want[id] = struct{}{}
	}
	res := ScanResult{MachineID: m.DocumentID}
	lockers := make([]entity.Locker, len(m.Lockers))
	for i, l := range m.Lockers {
		open := l.Holds(want)
		lockers[i] = l.WithOpen(open)
		if open {
			res.OpenedLockers = append(res.OpenedLockers, l.ID)
		}
	}
	for _, id := range expectedProductIDs {
		if !m.HasProduct(id) {
			res.MissingProducts = append(res.MissingProducts, id)
		}
	}

	next := make([]entity.Machine, len(s.machines))
	for i, other := range s.machines {
		next[i] = other.WithAvailable(i == idx)
	}
	m.Lockers = lockers
	next[idx] = m.WithAvailable(true)
	s.machines = next
	s.scannerOpen = false
	s.showLockers = true

	s.notifier.Notify(ports.Success("Machine opened!", "Pick your items from the locker"))
	if len(res.MissingProducts) > 0 {
		s.notifier.Notify(ports.Warning("Some products are missing in the locker",
			"Please select another machine or contact support"))
	}
	return res, nil
}

// UpdateProductQuantity suma o resta una unidad al stock del producto en el locker
// seleccionado, acotado a [0, OriginalQuantity]. Si el acotamiento no cambia nada,
// no hay actualización ni aviso.
func (s *Store) UpdateProductQuantity(productID string, increment bool) error {
	mi, li, si, err := s.locate(productID)
	if err != nil {
		return s.fail(err)
	}
	_, err = s.apply(mi, li, si, increment)
	return err
}

// SelectedStock stock del producto en el locker seleccionado (abierto).
func (s *Store) SelectedStock(productID string) (entity.Stock, error) {
	mi, li, si, err := s.locate(productID)
	if err != nil {
		return entity.Stock{}, err
	}
	return s.machines[mi].Lockers[li].Stocks[si], nil
}

// ReturnStock devuelve hasta units unidades al stock del locker seleccionado, sin pasar
// del techo original. Devuelve cuántas se repusieron.
func (s *Store) ReturnStock(productID string, units int) (int, error) {
	mi, li, si, err := s.locate(productID)
	if err != nil {
		return 0, s.fail(err)
	}
	restored := 0
	for range units {
		changed, err := s.apply(mi, li, si, true)
		if err != nil {
			return restored, err
		}
		if !changed {
			break
		}
		restored++
	}
	return restored, nil
}

// Phase estado derivado para la UI.
func (s *Store) Phase() Phase {
	mi := s.selectedIndex()
	switch {
	case mi < 0:
		return PhaseNoMachineSelected
	case s.scannerOpen:
		return PhaseScannerOpen
	case !s.machines[mi].AllClosed():
		return PhaseLockerOpen
	case s.machines[mi].Available:
		return PhaseAllClosed
	default:
		return PhaseMachineSelected
	}
}

// Snapshot copia profunda del estado.
func (s *Store) Snapshot() State {
	st := State{
		Mode:              s.mode,
		Phase:             s.Phase(),
		Machines:          cloneMachines(s.machines),
		SelectedMachineID: s.selectedMachine,
		ScannerOpen:       s.scannerOpen,
		ShowQRCodes:       s.showQRCodes,
		ShowLockers:       s.showLockers,
		AllDoorsClosed:    s.CheckAllDoorsClosed(),
	}
	if s.lockerSelected {
		id := s.selectedLocker
		st.SelectedLockerID = &id
	}
	return st
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (s *Store) apply(mi, li, si int, increment bool) (bool, error) {
	m := s.machines[mi]
	locker := m.Lockers[li]
	st, changed := locker.Stocks[si].Adjust(increment)
	if !changed {
		return false, nil
	}
	nextLocker, err := locker.WithStock(st)
	if err != nil {
		return false, s.fail(err)
	}
	nextMachine, err := m.WithLocker(nextLocker)
	if err != nil {
		return false, s.fail(err)
	}
	s.machines[mi] = nextMachine
	return true, nil
}

// locate valida selección de máquina y locker, puerta abierta y presencia del producto.
func (s *Store) locate(productID string) (mi, li, si int, err error) {
	mi = s.selectedIndex()
	if mi < 0 || !s.lockerSelected {
		return -1, -1, -1, domain.ErrNoSelection
	}
	li = s.machines[mi].LockerIndex(s.selectedLocker)
	if li < 0 {
		return -1, -1, -1, domain.ErrInvalidLocker
	}
	locker := s.machines[mi].Lockers[li]
	if !locker.IsOpen {
		return -1, -1, -1, domain.ErrLockerClosed
	}
	si = locker.StockIndex(productID)
	if si < 0 {
		return -1, -1, -1, domain.ErrProductNotFound
	}
	return mi, li, si, nil
}

func (s *Store) requireMachine() (int, error) {
	mi := s.selectedIndex()
	if mi < 0 {
		return -1, domain.ErrNoMachineSelected
	}
	return mi, nil
}

func (s *Store) selectedIndex() int {
	if s.selectedMachine == "" {
		return -1
	}
	return s.machineIndex(s.selectedMachine)
}

func (s *Store) machineIndex(id string) int {
	return slices.IndexFunc(s.machines, func(m entity.Machine) bool { return m.DocumentID == id })
}

func (s *Store) clearLocker() {
	s.selectedLocker = 0
	s.lockerSelected = false
}

func (s *Store) fail(err error) error {
	s.notifier.Notify(ports.Failure(err))
	return err
}

func cloneMachines(in []entity.Machine) []entity.Machine {
	out := make([]entity.Machine, len(in))
	for i, m := range in {
		out[i] = m.Clone()
	}
	return out
}
