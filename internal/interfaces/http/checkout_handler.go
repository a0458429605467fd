package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/smart-locker-kiosk/internal/application/checkout"
	"github.com/jhoicas/smart-locker-kiosk/internal/application/dto"
)

// CheckoutHandler ciclo de vida del pickup: escaneo, cancelación, cierre y comprobante.
type CheckoutHandler struct {
	receipts checkout.ReceiptRenderer
}

// NewCheckoutHandler construye el handler. receipts puede ser nil (sin PDF).
func NewCheckoutHandler(receipts checkout.ReceiptRenderer) *CheckoutHandler {
	return &CheckoutHandler{receipts: receipts}
}

// ScanPickup godoc
// @Summary      Iniciar pickup escaneando su código
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.ScanRequest  true  "code (documentId del pickup)"
// @Success      200  {object}  dto.SessionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/session/pickup/scan [post]
func (h *CheckoutHandler) ScanPickup(c *fiber.Ctx) error {
	var in dto.ScanRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	s := GetSession(c)
	_, err := s.StartPickup(c.UserContext(), in.Code)
	return snapshot(c, s, err)
}

// CancelPickup godoc
// @Summary      Cancelar la espera del escáner
// @Tags         checkout
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.SessionResponse
// @Router       /api/session/pickup/cancel [post]
func (h *CheckoutHandler) CancelPickup(c *fiber.Ctx) error {
	s := GetSession(c)
	s.CancelPickup()
	return snapshot(c, s, nil)
}

// Checkout godoc
// @Summary      Cerrar el pickup activo
// @Tags         checkout
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.CheckoutResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/session/checkout [post]
func (h *CheckoutHandler) Checkout(c *fiber.Ctx) error {
	s := GetSession(c)
	r, err := s.Checkout(c.UserContext())
	if err != nil {
		return writeError(c, err, s.Notifications())
	}
	return c.JSON(toCheckout(r, s.Notifications()))
}

// Receipt godoc
// @Summary      Comprobante PDF del último pickup cerrado
// @Tags         checkout
// @Produce      application/pdf
// @Security     BearerAuth
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/session/checkout/receipt [get]
func (h *CheckoutHandler) Receipt(c *fiber.Ctx) error {
	s := GetSession(c)
	r, err := s.Receipt()
	if err != nil {
		return writeError(c, err, nil)
	}
	if h.receipts == nil {
		return c.JSON(toCheckout(r, nil))
	}
	pdf, err := h.receipts.RenderReceipt(r)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "PDF_ERROR", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="pickup-%s.pdf"`, r.PickupDocumentID))
	return c.Send(pdf)
}
