// Package backend implementa los puertos de auth, catálogo de máquinas y pickups
// contra la API REST del backend (Strapi v5: envoltorio {data, meta} y errores {error}).
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jhoicas/smart-locker-kiosk/internal/application/ports"
	"github.com/jhoicas/smart-locker-kiosk/internal/domain"
	"github.com/jhoicas/smart-locker-kiosk/internal/domain/entity"
)

// Verificar en tiempo de compilación que Client implementa los puertos.
var (
	_ ports.AuthGateway   = (*Client)(nil)
	_ ports.Backend       = (*Client)(nil)
	_ ports.BackendDialer = (*Client)(nil)
)

const (
	pathLogin    = "/auth/local"
	pathRegister = "/auth/register"
	pathMachines = "/vending-machines?populate[stocks][populate][product][populate]=price&populate[lockers][populate][stocks][populate][product][populate]=price"
	pathPickup   = "/pickups/%s?populate=order.items.product&populate=items.product.price"

	maxBodyBytes = 1 << 20
)

// Client adaptador HTTP del backend. Usa net/http; las peticiones privadas llevan
// el JWT del usuario como Bearer (ver ForToken).
type Client struct {
	baseURL     string
	httpClient  *http.Client
	lockerCount int
	token       string
}

// NewClient construye el cliente. lockerCount es el número de compartimentos por máquina
// usado cuando el backend no envía lockers explícitos.
func NewClient(baseURL string, timeout time.Duration, lockerCount int) *Client {
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  &http.Client{Timeout: timeout},
		lockerCount: lockerCount,
	}
}

// ForToken devuelve una copia del cliente que firma con token.
func (c *Client) ForToken(token string) ports.Backend {
	cp := *c
	cp.token = token
	return &cp
}

// ── Auth ──────────────────────────────────────────────────────────────────────

// Login POST /auth/local.
func (c *Client) Login(ctx context.Context, identifier, password string) (*entity.Credentials, error) {
	body := map[string]string{"identifier": identifier, "password": password}
	var out authResponse
	if err := c.do(ctx, http.MethodPost, pathLogin, body, &out, false); err != nil {
		return nil, err
	}
	return out.toEntity()
}

// Register POST /auth/register.
func (c *Client) Register(ctx context.Context, username, email, password string) (*entity.Credentials, error) {
	body := map[string]string{"username": username, "email": email, "password": password}
	var out authResponse
	if err := c.do(ctx, http.MethodPost, pathRegister, body, &out, false); err != nil {
		return nil, err
	}
	return out.toEntity()
}

// ── Catálogo ──────────────────────────────────────────────────────────────────

// ListMachines GET /vending-machines con stock, producto y precio poblados.
func (c *Client) ListMachines(ctx context.Context) ([]entity.Machine, error) {
	var out envelope[[]machineDTO]
	if err := c.do(ctx, http.MethodGet, pathMachines, nil, &out, true); err != nil {
		return nil, err
	}
	machines := make([]entity.Machine, 0, len(out.Data))
	for _, m := range out.Data {
		machines = append(machines, m.toEntity(c.lockerCount))
	}
	return machines, nil
}

// ── Pickups ───────────────────────────────────────────────────────────────────

// GetPickup GET /pickups/{documentId}. domain.ErrNotFound si no existe.
func (c *Client) GetPickup(ctx context.Context, documentID string) (*entity.Pickup, error) {
	var out envelope[*pickupDTO]
	path := fmt.Sprintf(pathPickup, url.PathEscape(documentID))
	if err := c.do(ctx, http.MethodGet, path, nil, &out, true); err != nil {
		return nil, err
	}
	if out.Data == nil {
		return nil, domain.ErrNotFound
	}
	p := out.Data.toEntity()
	return &p, nil
}

// UpdatePickup PUT /pickups/{documentId} con {data: {progress, items?}}.
func (c *Client) UpdatePickup(ctx context.Context, update ports.PickupUpdate) error {
	if !update.Progress.Valid() {
		return domain.ErrInvalidProgress
	}
	body := map[string]pickupUpdateData{"data": {Progress: string(update.Progress), Items: update.Items}}
	path := "/pickups/" + url.PathEscape(update.PickupID)
	return c.do(ctx, http.MethodPut, path, body, nil, true)
}

// ── Transporte ────────────────────────────────────────────────────────────────

func (c *Client) do(ctx context.Context, method, path string, in, out any, private bool) error {
	var reader io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("backend: serializar request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("backend: crear HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if private && c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: timeout o cancelación: %w", domain.ErrBackendUnavailable, ctx.Err())
		}
		return fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return fmt.Errorf("%w: leer respuesta: %w", domain.ErrBackendUnavailable, err)
	}
	if len(raw) > maxBodyBytes {
		return fmt.Errorf("%w: respuesta demasiado grande (más de %d bytes)", domain.ErrBackendUnavailable, maxBodyBytes)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode, raw)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: deserializar respuesta: %w", domain.ErrBackendUnavailable, err)
	}
	return nil
}

// statusError traduce el status HTTP a un error de dominio conservando el mensaje del backend.
func statusError(status int, raw []byte) error {
	var sentinel error
	switch status {
	case http.StatusBadRequest:
		sentinel = domain.ErrInvalidInput
	case http.StatusUnauthorized, http.StatusForbidden:
		sentinel = domain.ErrUnauthorized
	case http.StatusNotFound:
		sentinel = domain.ErrNotFound
	default:
		sentinel = domain.ErrBackendUnavailable
	}
	var body errorBody
	if err := json.Unmarshal(raw, &body); err == nil && body.Error != nil && body.Error.Message != "" {
		return fmt.Errorf("%w: %s", sentinel, body.Error.Message)
	}
	return fmt.Errorf("%w: HTTP %d", sentinel, status)
}
