package entity

import (
	"slices"

	"github.com/jhoicas/smart-locker-kiosk/internal/domain"
)

// MachineStatus estado operativo de la máquina (ortogonal a Available).
type MachineStatus string

const (
	MachineStatusActive              MachineStatus = "ACTIVE"
	MachineStatusTemporarilyInactive MachineStatus = "TEMPORARILY_INACTIVE"
	MachineStatusPermanently         MachineStatus = "PERMANENTLY"
)

// Machine unidad física de lockers identificada por un código QR.
// Available=true significa "tomada por una transacción en curso", no "en línea".
type Machine struct {
	ID            int
	DocumentID    string
	Name          string
	Available     bool
	MachineStatus MachineStatus
	QRCode        string
	Lockers       []Locker
}

// Clone copia profunda de lockers y stocks.
func (m Machine) Clone() Machine {
	lockers := make([]Locker, len(m.Lockers))
	for i, l := range m.Lockers {
		lockers[i] = l.Clone()
	}
	m.Lockers = lockers
	return m
}

// IsActive true si la máquina puede abrir lockers.
func (m Machine) IsActive() bool {
	return m.MachineStatus == MachineStatusActive
}

// LockerIndex posición del locker o -1.
func (m Machine) LockerIndex(lockerID int) int {
	return slices.IndexFunc(m.Lockers, func(l Locker) bool { return l.ID == lockerID })
}

// WithLocker reemplaza el locker con el mismo ID. ErrInvalidLocker si no pertenece a la máquina.
func (m Machine) WithLocker(l Locker) (Machine, error) {
	idx := m.LockerIndex(l.ID)
	if idx < 0 {
		return m, domain.ErrInvalidLocker
	}
	lockers := slices.Clone(m.Lockers)
	lockers[idx] = l
	m.Lockers = lockers
	return m, nil
}

// WithAllClosed cierra todas las puertas.
func (m Machine) WithAllClosed() Machine {
	lockers := make([]Locker, len(m.Lockers))
	for i, l := range m.Lockers {
		lockers[i] = l.WithOpen(false)
	}
	m.Lockers = lockers
	return m
}

// WithAvailable marca o libera la máquina como tomada por una transacción.
func (m Machine) WithAvailable(available bool) Machine {
	m.Available = available
	return m
}

// AllClosed true si ninguna puerta está abierta.
func (m Machine) AllClosed() bool {
	return !slices.ContainsFunc(m.Lockers, func(l Locker) bool { return l.IsOpen })
}

// HasProduct true si algún locker guarda el producto.
func (m Machine) HasProduct(productID string) bool {
	return slices.ContainsFunc(m.Lockers, func(l Locker) bool { return l.StockIndex(productID) >= 0 })
}
