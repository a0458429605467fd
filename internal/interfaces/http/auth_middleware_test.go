package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/smart-locker-kiosk/internal/application/session"
	"github.com/jhoicas/smart-locker-kiosk/internal/domain"
	apphttp "github.com/jhoicas/smart-locker-kiosk/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/smart-locker-kiosk/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = 7
	testSessionID = "00000000-0000-0000-0000-000000000001"
	testIssuer    = "smart-locker-test"
	testExpMin    = 60
)

// noSessions lookup que nunca encuentra la sesión.
type noSessions struct{}

func (noSessions) Get(string) (*session.Session, error) { return nil, domain.ErrSessionExpired }

// buildTestApp construye una aplicación Fiber mínima con AuthMiddleware y un
// handler dummy que devuelve los locals si pasa el middleware.
func buildTestApp() *fiber.App {
	app := fiber.New(fiber.Config{
		// Silenciar errores internos en los tests
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})
	app.Get("/protected", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"user_id":    apphttp.GetUserID(c),
			"session_id": apphttp.GetSessionID(c),
		})
	})
	app.Get("/session", apphttp.AuthMiddleware(testJWTSecret), apphttp.SessionMiddleware(noSessions{}), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func bearer(t *testing.T) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testSessionID, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func doRequest(t *testing.T, app *fiber.App, path, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: token válido → HTTP 200 con user_id y session_id en locals.
func TestAuthMiddleware_ExtraeClaims(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, "/protected", bearer(t))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, float64(testUserID), body["user_id"])
	assert.Equal(t, testSessionID, body["session_id"])
}

// Caso 2: sin header Authorization → HTTP 401 MISSING_TOKEN.
func TestAuthMiddleware_SinAuthHeader_Retorna401(t *testing.T) {
	resp := doRequest(t, buildTestApp(), "/protected", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_TOKEN")
}

// Caso 3: token malformado o esquema distinto → HTTP 401 INVALID_TOKEN.
func TestAuthMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	for _, header := range []string{"Bearer token.invalido.aqui", "Basic abc"} {
		resp := doRequest(t, buildTestApp(), "/protected", header)
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, header)
		assert.Contains(t, string(body), "INVALID_TOKEN", header)
	}
}

// Caso 4: token válido pero la sesión ya no existe → HTTP 401 SESSION_EXPIRED.
func TestSessionMiddleware_SesionInexistente_Retorna401(t *testing.T) {
	resp := doRequest(t, buildTestApp(), "/session", bearer(t))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "SESSION_EXPIRED")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests JWT pkg : integridad del generate/parse
// ──────────────────────────────────────────────────────────────────────────────

func TestJWT_GenerateAndParse(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testSessionID, testIssuer, testExpMin)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	userID, sessionID, err := pkgjwt.Parse(testJWTSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, testUserID, userID)
	assert.Equal(t, testSessionID, sessionID)
}

func TestJWT_SinSesion_RetornaError(t *testing.T) {
	_, err := pkgjwt.Generate(testJWTSecret, testUserID, "", testIssuer, testExpMin)
	assert.Error(t, err, "un token de kiosco siempre pertenece a una sesión")
}

func TestJWT_TokenExpirado_RetornaError(t *testing.T) {
	// Token con expiración -1 minuto (ya expirado)
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testSessionID, testIssuer, -1)
	require.NoError(t, err)

	_, _, err = pkgjwt.Parse(testJWTSecret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestJWT_SecretIncorrecto_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testSessionID, testIssuer, testExpMin)
	require.NoError(t, err)

	_, _, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err, "secret incorrecto debe invalidar el token")
}
