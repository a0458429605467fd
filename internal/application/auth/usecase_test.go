package auth_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/smart-locker-kiosk/internal/application/auth"
	"github.com/jhoicas/smart-locker-kiosk/internal/application/dto"
	"github.com/jhoicas/smart-locker-kiosk/internal/application/machine"
	"github.com/jhoicas/smart-locker-kiosk/internal/application/ports"
	"github.com/jhoicas/smart-locker-kiosk/internal/application/session"
	"github.com/jhoicas/smart-locker-kiosk/internal/domain"
	"github.com/jhoicas/smart-locker-kiosk/internal/domain/entity"
	"github.com/jhoicas/smart-locker-kiosk/internal/infrastructure/memory"
	"github.com/jhoicas/smart-locker-kiosk/pkg/jwt"
)

const secret = "test-secret"

type fakeGateway struct{ calls int }

func (g *fakeGateway) Login(_ context.Context, identifier, password string) (*entity.Credentials, error) {
	g.calls++
	if password != "secreto" {
		return nil, domain.ErrUnauthorized
	}
	return &entity.Credentials{JWT: "backend-jwt", User: entity.User{ID: 7, Username: identifier}}, nil
}

func (g *fakeGateway) Register(_ context.Context, username, email, _ string) (*entity.Credentials, error) {
	g.calls++
	return &entity.Credentials{JWT: "backend-jwt-2", User: entity.User{ID: 8, Username: username, Email: email}}, nil
}

type emptyBackend struct{}

func (b emptyBackend) ForToken(string) ports.Backend { return b }

func (emptyBackend) ListMachines(context.Context) ([]entity.Machine, error) { return nil, nil }

func (emptyBackend) GetPickup(context.Context, string) (*entity.Pickup, error) {
	return nil, domain.ErrNotFound
}

func (emptyBackend) UpdatePickup(context.Context, ports.PickupUpdate) error { return nil }

func newUseCase() (*auth.AuthUseCase, *fakeGateway, *memory.StorageRepo, *session.Manager) {
	gw := &fakeGateway{}
	storage := memory.NewStorageRepository()
	sessions := session.NewManager(emptyBackend{}, memory.NewCartRepository(), nil, nil, nil, machine.ModePickup)
	uc := auth.NewAuthUseCase(gw, storage, sessions, auth.JWTConfig{Secret: secret, ExpMinutes: 60, Issuer: "test"})
	return uc, gw, storage, sessions
}

func TestLogin_GuardaCredencialesYAbreSesion(t *testing.T) {
	ctx := context.Background()
	uc, _, storage, sessions := newUseCase()

	out, err := uc.Login(ctx, dto.LoginRequest{Identifier: " ana ", Password: "secreto"})
	require.NoError(t, err)
	assert.Equal(t, "ana", out.User.Username)
	assert.Equal(t, 1, sessions.Len())

	userID, sessionID, err := jwt.Parse(secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, 7, userID)
	assert.Equal(t, out.SessionID, sessionID)

	raw, err := storage.Get(ctx, auth.StorageKey(out.SessionID, auth.KeyJWT))
	require.NoError(t, err)
	assert.Equal(t, "backend-jwt", string(raw))

	raw, err = storage.Get(ctx, auth.StorageKey(out.SessionID, auth.KeyUser))
	require.NoError(t, err)
	var user dto.UserResponse
	require.NoError(t, json.Unmarshal(raw, &user))
	assert.Equal(t, 7, user.ID)
}

func TestLogin_Validaciones(t *testing.T) {
	uc, gw, _, sessions := newUseCase()

	_, err := uc.Login(context.Background(), dto.LoginRequest{Identifier: "  ", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 0, gw.calls, "no se llama al backend con entrada inválida")

	_, err = uc.Login(context.Background(), dto.LoginRequest{Identifier: "ana", Password: "mal"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, 0, sessions.Len())
}

func TestRegister(t *testing.T) {
	uc, _, _, _ := newUseCase()
	out, err := uc.Register(context.Background(), dto.RegisterRequest{Username: "beto", Email: "beto@x.co", Password: "secreto"})
	require.NoError(t, err)
	assert.Equal(t, 8, out.User.ID)
	assert.Equal(t, "beto@x.co", out.User.Email)

	_, err = uc.Register(context.Background(), dto.RegisterRequest{Username: "beto"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Logout borra jwt y user juntos y cierra la sesión.
func TestLogout_BorraAmbasClaves(t *testing.T) {
	ctx := context.Background()
	uc, _, storage, sessions := newUseCase()
	out, err := uc.Login(ctx, dto.LoginRequest{Identifier: "ana", Password: "secreto"})
	require.NoError(t, err)

	require.NoError(t, uc.Logout(ctx, out.SessionID))
	for _, key := range []string{auth.KeyJWT, auth.KeyUser} {
		raw, err := storage.Get(ctx, auth.StorageKey(out.SessionID, key))
		require.NoError(t, err)
		assert.Nil(t, raw, key)
	}
	assert.Equal(t, 0, sessions.Len())

	assert.ErrorIs(t, uc.Logout(ctx, out.SessionID), domain.ErrSessionExpired)
}
