package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jhoicas/smart-locker-kiosk/internal/application/dto"
	"github.com/jhoicas/smart-locker-kiosk/internal/application/ports"
	"github.com/jhoicas/smart-locker-kiosk/internal/application/session"
	"github.com/jhoicas/smart-locker-kiosk/internal/domain"
	"github.com/jhoicas/smart-locker-kiosk/internal/domain/entity"
	"github.com/jhoicas/smart-locker-kiosk/internal/domain/repository"
	"github.com/jhoicas/smart-locker-kiosk/pkg/jwt"
)

// Claves fijas bajo las que se guardan las credenciales del backend.
const (
	KeyJWT  = "jwt"
	KeyUser = "user"
)

// StorageKey clave de almacenamiento de name para la sesión.
func StorageKey(sessionID, name string) string {
	return sessionID + ":" + name
}

// JWTConfig configuración para generación de tokens de kiosco.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase login/registro contra el backend y ciclo de vida de la sesión de kiosco.
type AuthUseCase struct {
	gateway  ports.AuthGateway
	storage  repository.StorageRepository
	sessions *session.Manager
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(gateway ports.AuthGateway, storage repository.StorageRepository, sessions *session.Manager, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{gateway: gateway, storage: storage, sessions: sessions, jwtCfg: jwtCfg}
}

// Login autentica con el backend (/auth/local), abre la sesión y devuelve el token de kiosco.
// Los mensajes de error del backend se propagan tal cual.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if strings.TrimSpace(in.Identifier) == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	creds, err := uc.gateway.Login(ctx, strings.TrimSpace(in.Identifier), in.Password)
	if err != nil {
		return nil, err
	}
	return uc.open(ctx, creds)
}

// Register crea el usuario en el backend (/auth/register) y abre la sesión.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.LoginResponse, error) {
	if strings.TrimSpace(in.Username) == "" || strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	creds, err := uc.gateway.Register(ctx, strings.TrimSpace(in.Username), strings.TrimSpace(in.Email), in.Password)
	if err != nil {
		return nil, err
	}
	return uc.open(ctx, creds)
}

// Logout borra jwt y user juntos, vacía el carrito y cierra la sesión.
func (uc *AuthUseCase) Logout(ctx context.Context, sessionID string) error {
	sess, err := uc.sessions.Get(sessionID)
	if err != nil {
		return err
	}
	if err := sess.Reset(ctx); err != nil {
		return err
	}
	if err := uc.storage.Delete(ctx, StorageKey(sessionID, KeyJWT), StorageKey(sessionID, KeyUser)); err != nil {
		return fmt.Errorf("%w: borrar credenciales: %w", domain.ErrStorage, err)
	}
	uc.sessions.End(sessionID)
	return nil
}

func (uc *AuthUseCase) open(ctx context.Context, creds *entity.Credentials) (*dto.LoginResponse, error) {
	sess, err := uc.sessions.Create(ctx, creds.User, creds.JWT)
	if err != nil {
		return nil, err
	}
	user := ToUserResponse(creds.User)
	raw, err := json.Marshal(user)
	if err != nil {
		uc.sessions.End(sess.ID)
		return nil, err
	}
	err = uc.storage.SetMany(ctx, map[string][]byte{
		StorageKey(sess.ID, KeyJWT):  []byte(creds.JWT),
		StorageKey(sess.ID, KeyUser): raw,
	})
	if err != nil {
		uc.sessions.End(sess.ID)
		return nil, fmt.Errorf("%w: guardar credenciales: %w", domain.ErrStorage, err)
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, creds.User.ID, sess.ID, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		uc.sessions.End(sess.ID)
		return nil, err
	}
	return &dto.LoginResponse{Token: token, SessionID: sess.ID, User: user}, nil
}

// ToUserResponse mapea el usuario del backend a su DTO.
func ToUserResponse(u entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:         u.ID,
		DocumentID: u.DocumentID,
		Username:   u.Username,
		Email:      u.Email,
		Confirmed:  u.Confirmed,
		Blocked:    u.Blocked,
	}
}
