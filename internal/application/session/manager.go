package session

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/smart-locker-kiosk/internal/application/cart"
	"github.com/jhoicas/smart-locker-kiosk/internal/application/checkout"
	"github.com/jhoicas/smart-locker-kiosk/internal/application/machine"
	"github.com/jhoicas/smart-locker-kiosk/internal/application/notify"
	"github.com/jhoicas/smart-locker-kiosk/internal/application/ports"
	"github.com/jhoicas/smart-locker-kiosk/internal/domain"
	"github.com/jhoicas/smart-locker-kiosk/internal/domain/entity"
	"github.com/jhoicas/smart-locker-kiosk/internal/domain/repository"
)

// Manager registro en memoria de las sesiones de kiosco activas.
type Manager struct {
	dialer   ports.BackendDialer
	carts    repository.CartRepository
	events   ports.EventPublisher
	sink     ports.Notifier
	observer ports.OperationObserver
	mode     machine.Mode

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager construye el registro. sink recibe copia de cada aviso (puede ser nil);
// observer puede ser nil.
func NewManager(
	dialer ports.BackendDialer,
	carts repository.CartRepository,
	events ports.EventPublisher,
	sink ports.Notifier,
	observer ports.OperationObserver,
	mode machine.Mode,
) *Manager {
	if observer == nil {
		observer = ports.NopObserver{}
	}
	return &Manager{
		dialer:   dialer,
		carts:    carts,
		events:   events,
		sink:     sink,
		observer: observer,
		mode:     mode,
		sessions: make(map[string]*Session),
	}
}

// Create abre una sesión para el usuario: carga las máquinas del backend con su token
// y restaura el carrito persistido bajo su namespace.
func (m *Manager) Create(ctx context.Context, user entity.User, backendToken string) (*Session, error) {
	backend := m.dialer.ForToken(backendToken)
	machines, err := backend.ListMachines(ctx)
	if err != nil {
		return nil, err
	}

	buffer := notify.NewBuffer(m.sink)
	store := machine.NewStore(buffer, machines, m.mode)
	ledger := cart.NewLedger(m.carts, buffer, strconv.Itoa(user.ID))
	if err := ledger.Load(ctx); err != nil {
		buffer.Notify(ports.Failure(err))
	}

	s := &Session{
		ID:        uuid.NewString(),
		User:      user,
		CreatedAt: time.Now().UTC(),
		backend:   backend,
		store:     store,
		ledger:    ledger,
		orch:      checkout.NewOrchestrator(&sync.Mutex{}, store, ledger, backend, m.events, buffer),
		buffer:    buffer,
		observer:  m.observer,
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s, nil
}

// Get busca la sesión. ErrSessionExpired si no existe.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrSessionExpired
	}
	return s, nil
}

// End elimina la sesión del registro. Idempotente.
func (m *Manager) End(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Len número de sesiones activas.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
