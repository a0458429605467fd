package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/smart-locker-kiosk/internal/application/dto"
	"github.com/jhoicas/smart-locker-kiosk/internal/application/ports"
	"github.com/jhoicas/smart-locker-kiosk/internal/domain"
)

// errorCodes código estable por error de dominio. El primero que coincide gana,
// por eso los errores que envuelven a otros van antes.
var errorCodes = []struct {
	err    error
	code   string
	status int
}{
	{domain.ErrPickupStartFailed, "PICKUP_START_FAILED", fiber.StatusBadGateway},
	{domain.ErrPickupFinishFailed, "PICKUP_FINISH_FAILED", fiber.StatusBadGateway},
	{domain.ErrStorage, "STORAGE_FAILURE", fiber.StatusServiceUnavailable},
	{domain.ErrBackendUnavailable, "BACKEND_UNAVAILABLE", fiber.StatusBadGateway},
	{domain.ErrUnauthorized, "UNAUTHORIZED", fiber.StatusUnauthorized},
	{domain.ErrSessionExpired, "SESSION_EXPIRED", fiber.StatusUnauthorized},
	{domain.ErrInvalidInput, "VALIDATION", fiber.StatusBadRequest},
	{domain.ErrNotFound, "NOT_FOUND", fiber.StatusNotFound},
	{domain.ErrNoMachineSelected, "NO_MACHINE_SELECTED", fiber.StatusBadRequest},
	{domain.ErrInvalidMachine, "INVALID_MACHINE", fiber.StatusBadRequest},
	{domain.ErrInvalidLocker, "INVALID_LOCKER", fiber.StatusBadRequest},
	{domain.ErrNoSelection, "NO_SELECTION", fiber.StatusBadRequest},
	{domain.ErrLockerClosed, "LOCKER_CLOSED", fiber.StatusBadRequest},
	{domain.ErrInvalidCode, "INVALID_CODE", fiber.StatusBadRequest},
	{domain.ErrMachineInactive, "MACHINE_INACTIVE", fiber.StatusBadRequest},
	{domain.ErrProductNotFound, "PRODUCT_NOT_FOUND", fiber.StatusNotFound},
	{domain.ErrNotInCart, "NOT_IN_CART", fiber.StatusNotFound},
	{domain.ErrCapacityExceeded, "CAPACITY_EXCEEDED", fiber.StatusConflict},
	{domain.ErrStockExhausted, "STOCK_EXHAUSTED", fiber.StatusConflict},
	{domain.ErrAlreadyBusy, "MACHINE_BUSY", fiber.StatusConflict},
	{domain.ErrNotInPickup, "NOT_IN_PICKUP", fiber.StatusConflict},
	{domain.ErrDoorsOpen, "DOORS_OPEN", fiber.StatusConflict},
	{domain.ErrNoPickup, "NO_PICKUP", fiber.StatusConflict},
	{domain.ErrPickupNotFound, "PICKUP_NOT_FOUND", fiber.StatusNotFound},
	{domain.ErrPickupFinished, "PICKUP_FINISHED", fiber.StatusConflict},
	{domain.ErrPickupActive, "PICKUP_ACTIVE", fiber.StatusConflict},
	{domain.ErrPickupBusy, "PICKUP_BUSY", fiber.StatusConflict},
	{domain.ErrStaleResponse, "STALE_RESPONSE", fiber.StatusConflict},
	{domain.ErrNoReceipt, "NO_RECEIPT", fiber.StatusNotFound},
	{domain.ErrInvalidProgress, "INVALID_PROGRESS", fiber.StatusConflict},
}

// writeError responde con el status y código del error de dominio, más los avisos pendientes.
func writeError(c *fiber.Ctx, err error, notes []ports.Notification) error {
	status, code := fiber.StatusInternalServerError, "INTERNAL"
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			status, code = e.status, e.code
			break
		}
	}
	body := dto.ErrorResponse{Code: code, Message: err.Error(), Notifications: toNotifications(notes)}
	if kind := domain.KindOf(err); kind != domain.KindUnknown {
		body.Kind = kind.String()
	}
	return c.Status(status).JSON(body)
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
