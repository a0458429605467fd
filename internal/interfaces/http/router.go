package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/jhoicas/smart-locker-kiosk/internal/application/auth"
	"github.com/jhoicas/smart-locker-kiosk/internal/application/checkout"
	"github.com/jhoicas/smart-locker-kiosk/internal/infrastructure/metrics"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	Sessions  SessionLookup
	Receipts  checkout.ReceiptRenderer
	Metrics   *metrics.Metrics // opcional
	JWTSecret string
	// AuthRateLimit peticiones por minuto e IP en /api/auth; 0 desactiva el límite.
	AuthRateLimit int
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Metrics != nil {
		app.Use(MetricsMiddleware(deps.Metrics))
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Auth (público, con límite por IP)
	authGroup := api.Group("/auth")
	if deps.AuthRateLimit > 0 {
		authGroup.Use(limiter.New(limiter.Config{
			Max:        deps.AuthRateLimit,
			Expiration: time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"code": "RATE_LIMITED", "message": "demasiados intentos, espere un minuto"})
			},
		}))
	}
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token y sesión viva)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), SessionMiddleware(deps.Sessions))
	protected.Post("/auth/logout", authHandler.Logout)

	sess := protected.Group("/session")
	sessionHandler := NewSessionHandler()
	sess.Get("/", sessionHandler.Get)
	sess.Post("/mode", sessionHandler.SetMode)
	sess.Post("/machines/reload", sessionHandler.ReloadMachines)
	sess.Post("/machines/selection", sessionHandler.SelectMachine)
	sess.Delete("/machines/selection", sessionHandler.ClearMachine)
	sess.Post("/lockers/close-all", sessionHandler.CloseAll)
	sess.Delete("/lockers/selection", sessionHandler.ClearLocker)
	sess.Post("/lockers/:id/select", sessionHandler.SelectLocker)
	sess.Post("/lockers/:id/open", sessionHandler.OpenLocker)
	sess.Post("/scanner", sessionHandler.Scanner)
	sess.Post("/qr-codes", sessionHandler.QRCodes)
	sess.Post("/scan", sessionHandler.Scan)
	sess.Post("/stocks/:productId/adjust", sessionHandler.AdjustStock)
	sess.Post("/reset", sessionHandler.Reset)

	cartHandler := NewCartHandler()
	sess.Get("/cart", cartHandler.Get)
	sess.Post("/cart/items", cartHandler.Add)
	sess.Delete("/cart/items/:productId", cartHandler.Remove)

	checkoutHandler := NewCheckoutHandler(deps.Receipts)
	sess.Post("/pickup/scan", checkoutHandler.ScanPickup)
	sess.Post("/pickup/cancel", checkoutHandler.CancelPickup)
	sess.Post("/checkout", checkoutHandler.Checkout)
	sess.Get("/checkout/receipt", checkoutHandler.Receipt)
}
