package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/smart-locker-kiosk/internal/application/dto"
	"github.com/jhoicas/smart-locker-kiosk/internal/application/machine"
	"github.com/jhoicas/smart-locker-kiosk/internal/application/session"
)

// SessionHandler expone el store de máquinas y lockers de la sesión.
// Cada operación exitosa devuelve el snapshot completo con los avisos generados.
type SessionHandler struct{}

// NewSessionHandler construye el handler.
func NewSessionHandler() *SessionHandler { return &SessionHandler{} }

// snapshot responde con el estado actual o con el error y sus avisos.
func snapshot(c *fiber.Ctx, s *session.Session, err error) error {
	if err != nil {
		return writeError(c, err, s.Notifications())
	}
	return c.JSON(toSessionResponse(s.Snapshot()))
}

// Get godoc
// @Summary      Estado de la sesión de kiosco
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.SessionResponse
// @Router       /api/session [get]
func (h *SessionHandler) Get(c *fiber.Ctx) error {
	return snapshot(c, GetSession(c), nil)
}

// SetMode godoc
// @Summary      Cambiar modo de transacción
// @Tags         session
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.ModeRequest  true  "pickup | purchase"
// @Success      200  {object}  dto.SessionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/session/mode [post]
func (h *SessionHandler) SetMode(c *fiber.Ctx) error {
	var in dto.ModeRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	mode, ok := machine.ParseMode(in.Mode)
	if !ok || mode == machine.ModeNone {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "mode debe ser pickup o purchase"})
	}
	s := GetSession(c)
	s.SetMode(mode)
	return snapshot(c, s, nil)
}

// ReloadMachines godoc
// @Summary      Recargar máquinas desde el backend
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.SessionResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/session/machines/reload [post]
func (h *SessionHandler) ReloadMachines(c *fiber.Ctx) error {
	s := GetSession(c)
	return snapshot(c, s, s.ReloadMachines(c.UserContext()))
}

// SelectMachine godoc
// @Summary      Elegir máquina
// @Tags         session
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.SelectMachineRequest  true  "machine_id"
// @Success      200  {object}  dto.SessionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/session/machines/selection [post]
func (h *SessionHandler) SelectMachine(c *fiber.Ctx) error {
	var in dto.SelectMachineRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	s := GetSession(c)
	return snapshot(c, s, s.SelectMachine(in.MachineID))
}

// ClearMachine godoc
// @Summary      Soltar la máquina elegida
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.SessionResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/session/machines/selection [delete]
func (h *SessionHandler) ClearMachine(c *fiber.Ctx) error {
	s := GetSession(c)
	return snapshot(c, s, s.ClearMachineSelection())
}

// SelectLocker godoc
// @Summary      Seleccionar locker
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  int  true  "ID del locker"
// @Success      200  {object}  dto.SessionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/session/lockers/{id}/select [post]
func (h *SessionHandler) SelectLocker(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id de locker inválido"})
	}
	s := GetSession(c)
	return snapshot(c, s, s.SelectLocker(id))
}

// ClearLocker godoc
// @Summary      Cerrar el detalle del locker seleccionado
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.SessionResponse
// @Router       /api/session/lockers/selection [delete]
func (h *SessionHandler) ClearLocker(c *fiber.Ctx) error {
	s := GetSession(c)
	s.ClearLockerSelection()
	return snapshot(c, s, nil)
}

// OpenLocker godoc
// @Summary      Abrir locker
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  int  true  "ID del locker"
// @Success      200  {object}  dto.SessionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/session/lockers/{id}/open [post]
func (h *SessionHandler) OpenLocker(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id de locker inválido"})
	}
	s := GetSession(c)
	return snapshot(c, s, s.OpenLocker(id))
}

// CloseAll godoc
// @Summary      Cerrar todos los lockers de la máquina elegida
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.SessionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/session/lockers/close-all [post]
func (h *SessionHandler) CloseAll(c *fiber.Ctx) error {
	s := GetSession(c)
	return snapshot(c, s, s.CloseAllLockers())
}

// Scanner godoc
// @Summary      Abrir o cerrar el escáner
// @Tags         session
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.ScannerRequest  true  "open"
// @Success      200  {object}  dto.SessionResponse
// @Router       /api/session/scanner [post]
func (h *SessionHandler) Scanner(c *fiber.Ctx) error {
	var in dto.ScannerRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	s := GetSession(c)
	s.ToggleScanner(in.Open)
	return snapshot(c, s, nil)
}

// QRCodes godoc
// @Summary      Alternar la vista de códigos QR de máquinas
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.SessionResponse
// @Router       /api/session/qr-codes [post]
func (h *SessionHandler) QRCodes(c *fiber.Ctx) error {
	s := GetSession(c)
	s.ToggleQRCodes()
	return snapshot(c, s, nil)
}

// Scan godoc
// @Summary      Procesar QR de máquina
// @Tags         session
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.ScanRequest  true  "code"
// @Success      200  {object}  dto.ScanResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/session/scan [post]
func (h *SessionHandler) Scan(c *fiber.Ctx) error {
	var in dto.ScanRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	s := GetSession(c)
	res, err := s.ScanMachine(in.Code)
	if err != nil {
		return writeError(c, err, s.Notifications())
	}
	return c.JSON(toScan(res, s.Notifications()))
}

// AdjustStock godoc
// @Summary      Sumar o restar una unidad del stock del locker seleccionado
// @Tags         session
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        productId  path  string                  true  "documentId del producto"
// @Param        body       body  dto.AdjustStockRequest  true  "increment"
// @Success      200  {object}  dto.SessionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/session/stocks/{productId}/adjust [post]
func (h *SessionHandler) AdjustStock(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	s := GetSession(c)
	return snapshot(c, s, s.AdjustStock(c.Params("productId"), in.Increment))
}

// Reset godoc
// @Summary      Descartar el estado local de la sesión
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.SessionResponse
// @Router       /api/session/reset [post]
func (h *SessionHandler) Reset(c *fiber.Ctx) error {
	s := GetSession(c)
	return snapshot(c, s, s.Reset(c.UserContext()))
}
