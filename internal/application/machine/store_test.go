package machine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/smart-locker-kiosk/internal/application/machine"
	"github.com/jhoicas/smart-locker-kiosk/internal/application/notify"
	"github.com/jhoicas/smart-locker-kiosk/internal/application/ports"
	"github.com/jhoicas/smart-locker-kiosk/internal/domain"
	"github.com/jhoicas/smart-locker-kiosk/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixtures: m1 con L1 (p1 x3) y L2 (p2 x1), L3 vacío; m2 con L1 (p1 x1).
// ──────────────────────────────────────────────────────────────────────────────

func stock(id string, qty int) entity.Stock {
	return entity.Stock{Quantity: qty, OriginalQuantity: qty, Product: entity.Product{DocumentID: id, Name: id}}
}

func fleet() []entity.Machine {
	return []entity.Machine{
		{
			DocumentID:    "m1",
			Name:          "Lobby",
			QRCode:        "qr-m1",
			MachineStatus: entity.MachineStatusActive,
			Lockers: []entity.Locker{
				{ID: 1, IsOccupied: true, Stocks: []entity.Stock{stock("p1", 3)}},
				{ID: 2, IsOccupied: true, Stocks: []entity.Stock{stock("p2", 1)}},
				{ID: 3},
			},
		},
		{
			DocumentID:    "m2",
			Name:          "Parking",
			QRCode:        "qr-m2",
			MachineStatus: entity.MachineStatusTemporarilyInactive,
			Lockers:       []entity.Locker{{ID: 1, Stocks: []entity.Stock{stock("p1", 1)}}},
		},
	}
}

func newStore(t *testing.T, mode machine.Mode) (*machine.Store, *notify.Buffer) {
	t.Helper()
	buf := notify.NewBuffer(nil)
	return machine.NewStore(buf, fleet(), mode), buf
}

func lockerOf(t *testing.T, st machine.State, machineID string, lockerID int) entity.Locker {
	t.Helper()
	for _, m := range st.Machines {
		if m.DocumentID != machineID {
			continue
		}
		for _, l := range m.Lockers {
			if l.ID == lockerID {
				return l
			}
		}
	}
	t.Fatalf("locker %s/%d no encontrado", machineID, lockerID)
	return entity.Locker{}
}

func TestParseMode(t *testing.T) {
	m, ok := machine.ParseMode(" Pickup ")
	assert.True(t, ok)
	assert.Equal(t, machine.ModePickup, m)

	_, ok = machine.ParseMode("rental")
	assert.False(t, ok)
}

// ──────────────────────────────────────────────────────────────────────────────
// Selección
// ──────────────────────────────────────────────────────────────────────────────

func TestStore_SelectMachineEnModoPickupAbreEscaner(t *testing.T) {
	s, _ := newStore(t, machine.ModePickup)
	assert.Equal(t, machine.PhaseNoMachineSelected, s.Phase())

	require.NoError(t, s.SelectMachine("m1"))
	st := s.Snapshot()
	assert.Equal(t, "m1", st.SelectedMachineID)
	assert.True(t, st.ScannerOpen)
	assert.Equal(t, machine.PhaseScannerOpen, st.Phase)
}

func TestStore_SelectMachineDesconocida(t *testing.T) {
	s, buf := newStore(t, machine.ModePurchase)
	err := s.SelectMachine("nope")
	assert.ErrorIs(t, err, domain.ErrInvalidMachine)

	notes := buf.Drain()
	require.Len(t, notes, 1)
	assert.Equal(t, ports.LevelError, notes[0].Level)
}

func TestStore_SelectLockerSinMaquina(t *testing.T) {
	s, _ := newStore(t, machine.ModePurchase)
	assert.ErrorIs(t, s.SelectLocker(1), domain.ErrNoMachineSelected)

	require.NoError(t, s.SelectMachine("m1"))
	assert.ErrorIs(t, s.SelectLocker(42), domain.ErrInvalidLocker)
	require.NoError(t, s.SelectLocker(2))

	st := s.Snapshot()
	require.NotNil(t, st.SelectedLockerID)
	assert.Equal(t, 2, *st.SelectedLockerID)
	assert.False(t, lockerOf(t, st, "m1", 2).IsOpen, "seleccionar no abre la puerta")
}

// ──────────────────────────────────────────────────────────────────────────────
// Escaneo de QR
// ──────────────────────────────────────────────────────────────────────────────

// Caso D: un código que no coincide con ninguna máquina no cambia Available.
func TestStore_HandleQRScanCodigoDesconocido(t *testing.T) {
	s, _ := newStore(t, machine.ModePickup)
	require.NoError(t, s.SelectMachine("m1"))

	_, err := s.HandleQRScan("qr-nadie", []string{"p1"})
	assert.ErrorIs(t, err, domain.ErrInvalidCode)

	for _, m := range s.Snapshot().Machines {
		assert.False(t, m.Available, "la máquina %s no debe quedar tomada", m.DocumentID)
	}
}

func TestStore_HandleQRScanVacio(t *testing.T) {
	s, _ := newStore(t, machine.ModePickup)
	_, err := s.HandleQRScan("   ", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidCode)
}

// El QR de otra máquina sigue siendo un código inválido, pero el aviso lo distingue
// de un código desconocido.
func TestStore_HandleQRScanDeOtraMaquina(t *testing.T) {
	s, buf := newStore(t, machine.ModePickup)
	require.NoError(t, s.SelectMachine("m1"))
	buf.Drain()

	_, err := s.HandleQRScan("qr-m2", []string{"p1"})
	assert.ErrorIs(t, err, domain.ErrInvalidCode)
	assert.Equal(t, domain.KindSelection, domain.KindOf(err))
	assert.Contains(t, err.Error(), "QR de otra máquina")

	notes := buf.Drain()
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0].Title, "Parking", "el aviso nombra la máquina del QR")

	_, err = s.HandleQRScan("qr-nadie", nil)
	assert.NotContains(t, err.Error(), "otra máquina")
}

func TestStore_HandleQRScanMaquinaInactiva(t *testing.T) {
	s, _ := newStore(t, machine.ModePickup)
	require.NoError(t, s.SelectMachine("m2"))
	_, err := s.HandleQRScan("qr-m2", []string{"p1"})
	assert.ErrorIs(t, err, domain.ErrMachineInactive)
}

// Caso A (parte store): solo se abren los lockers con productos esperados.
func TestStore_HandleQRScanAbreSoloLockersEsperados(t *testing.T) {
	s, buf := newStore(t, machine.ModePickup)
	require.NoError(t, s.SelectMachine("m1"))
	buf.Drain()

	res, err := s.HandleQRScan("qr-m1", []string{"p1", "p9"})
	require.NoError(t, err)
	assert.Equal(t, "m1", res.MachineID)
	assert.Equal(t, []int{1}, res.OpenedLockers)
	assert.Equal(t, []string{"p9"}, res.MissingProducts)

	st := s.Snapshot()
	assert.True(t, lockerOf(t, st, "m1", 1).IsOpen)
	assert.False(t, lockerOf(t, st, "m1", 2).IsOpen)
	assert.False(t, lockerOf(t, st, "m1", 3).IsOpen)
	assert.False(t, st.ScannerOpen)
	assert.True(t, st.ShowLockers)
	assert.Equal(t, machine.PhaseLockerOpen, st.Phase)
	assert.True(t, st.Machines[0].Available)
	assert.False(t, st.Machines[1].Available)

	notes := buf.Drain()
	require.Len(t, notes, 2)
	assert.Equal(t, "Machine opened!", notes[0].Title)
	assert.Equal(t, ports.LevelWarning, notes[1].Level)
}

func TestStore_MaquinaTomadaBloqueaOtraSeleccion(t *testing.T) {
	s, _ := newStore(t, machine.ModePickup)
	require.NoError(t, s.SelectMachine("m1"))
	_, err := s.HandleQRScan("qr-m1", []string{"p1"})
	require.NoError(t, err)

	assert.ErrorIs(t, s.SelectMachine("m2"), domain.ErrAlreadyBusy)
	assert.Equal(t, "m1", s.Snapshot().SelectedMachineID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Puertas y stock
// ──────────────────────────────────────────────────────────────────────────────

func TestStore_CloseAllLockers(t *testing.T) {
	s, buf := newStore(t, machine.ModePurchase)
	assert.ErrorIs(t, s.CloseAllLockers(), domain.ErrNoMachineSelected)

	require.NoError(t, s.SelectMachine("m1"))
	require.NoError(t, s.OpenLocker(1))
	require.NoError(t, s.OpenLocker(2))
	assert.False(t, s.CheckAllDoorsClosed())
	buf.Drain()

	require.NoError(t, s.CloseAllLockers())
	st := s.Snapshot()
	assert.True(t, st.AllDoorsClosed)
	assert.Nil(t, st.SelectedLockerID)
	assert.Equal(t, machine.PhaseMachineSelected, st.Phase)

	notes := buf.Drain()
	require.Len(t, notes, 1)
	assert.Equal(t, "All lockers closed successfully!", notes[0].Title)
}

func TestStore_UpdateProductQuantity(t *testing.T) {
	s, buf := newStore(t, machine.ModePurchase)
	require.NoError(t, s.SelectMachine("m1"))
	require.NoError(t, s.SelectLocker(1))

	// Locker cerrado: no se aceptan cambios.
	assert.ErrorIs(t, s.UpdateProductQuantity("p1", false), domain.ErrLockerClosed)

	require.NoError(t, s.OpenLocker(1))
	require.NoError(t, s.UpdateProductQuantity("p1", false))
	assert.Equal(t, 2, lockerOf(t, s.Snapshot(), "m1", 1).Stocks[0].Quantity)

	// En el techo el incremento es un no-op silencioso.
	require.NoError(t, s.UpdateProductQuantity("p1", true))
	buf.Drain()
	require.NoError(t, s.UpdateProductQuantity("p1", true))
	assert.Equal(t, 3, lockerOf(t, s.Snapshot(), "m1", 1).Stocks[0].Quantity)
	assert.Empty(t, buf.Drain())

	assert.ErrorIs(t, s.UpdateProductQuantity("p2", false), domain.ErrProductNotFound)
}

func TestStore_ReturnStockAcotadoAlTecho(t *testing.T) {
	s, _ := newStore(t, machine.ModePurchase)
	require.NoError(t, s.SelectMachine("m1"))
	require.NoError(t, s.OpenLocker(1))
	require.NoError(t, s.UpdateProductQuantity("p1", false))

	n, err := s.ReturnStock("p1", 5)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 3, lockerOf(t, s.Snapshot(), "m1", 1).Stocks[0].Quantity)
}

func TestStore_ResetMachinesRestauraSnapshot(t *testing.T) {
	s, _ := newStore(t, machine.ModePurchase)
	require.NoError(t, s.SelectMachine("m1"))
	require.NoError(t, s.OpenLocker(1))
	require.NoError(t, s.UpdateProductQuantity("p1", false))
	s.SetMode(machine.ModePickup)

	s.ResetMachines()
	st := s.Snapshot()
	assert.Empty(t, st.SelectedMachineID)
	assert.False(t, lockerOf(t, st, "m1", 1).IsOpen)
	assert.Equal(t, 3, lockerOf(t, st, "m1", 1).Stocks[0].Quantity)
	assert.Equal(t, machine.ModePickup, st.Mode, "ResetMachines no toca el modo")

	s.ResetMode()
	assert.Equal(t, machine.ModePurchase, s.Mode())
}

func TestStore_SnapshotEsCopiaProfunda(t *testing.T) {
	s, _ := newStore(t, machine.ModePurchase)
	st := s.Snapshot()
	st.Machines[0].Lockers[0].Stocks[0].Quantity = 0
	assert.Equal(t, 3, lockerOf(t, s.Snapshot(), "m1", 1).Stocks[0].Quantity)
}

func TestStore_ToggleQRCodes(t *testing.T) {
	s, _ := newStore(t, machine.ModePurchase)
	s.ToggleQRCodes()
	assert.True(t, s.Snapshot().ShowQRCodes)
	s.ToggleQRCodes()
	assert.False(t, s.Snapshot().ShowQRCodes)
}
