package repository

import "context"

// StorageRepository almacenamiento clave/valor del cliente del kiosco (token, usuario).
// Get devuelve (nil, nil) si la clave no existe.
type StorageRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// SetMany escribe todas las claves de forma atómica.
	SetMany(ctx context.Context, values map[string][]byte) error
	// Delete borra todas las claves juntas.
	Delete(ctx context.Context, keys ...string) error
}
