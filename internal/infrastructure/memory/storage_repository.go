package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/jhoicas/smart-locker-kiosk/internal/domain/repository"
)

var _ repository.StorageRepository = (*StorageRepo)(nil)

// StorageRepo almacenamiento clave/valor en memoria.
type StorageRepo struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewStorageRepository construye el almacenamiento vacío.
func NewStorageRepository() *StorageRepo {
	return &StorageRepo{values: make(map[string][]byte)}
}

func (r *StorageRepo) Get(_ context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.values[key]
	if !ok {
		return nil, nil
	}
	return slices.Clone(v), nil
}

func (r *StorageRepo) SetMany(_ context.Context, values map[string][]byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, v := range values {
		r.values[k] = slices.Clone(v)
	}
	return nil
}

func (r *StorageRepo) Delete(_ context.Context, keys ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range keys {
		delete(r.values, k)
	}
	return nil
}
