package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/smart-locker-kiosk/internal/application/dto"
)

// CartHandler carrito de la sesión.
type CartHandler struct{}

// NewCartHandler construye el handler.
func NewCartHandler() *CartHandler { return &CartHandler{} }

// Get godoc
// @Summary      Contenido del carrito
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.CartResponse
// @Router       /api/session/cart [get]
func (h *CartHandler) Get(c *fiber.Ctx) error {
	s := GetSession(c)
	items, total := s.Cart()
	return c.JSON(toCart(items, total, s.Notifications()))
}

// Add godoc
// @Summary      Pasar una unidad del locker al carrito
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.AddCartItemRequest  true  "product_id"
// @Success      200  {object}  dto.CartResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/session/cart/items [post]
func (h *CartHandler) Add(c *fiber.Ctx) error {
	var in dto.AddCartItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	s := GetSession(c)
	if err := s.AddToCart(c.UserContext(), in.ProductID); err != nil {
		return writeError(c, err, s.Notifications())
	}
	items, total := s.Cart()
	return c.JSON(toCart(items, total, s.Notifications()))
}

// Remove godoc
// @Summary      Quitar un producto del carrito
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Param        productId  path  string  true  "documentId del producto"
// @Success      200  {object}  dto.CartResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/session/cart/items/{productId} [delete]
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	s := GetSession(c)
	if _, err := s.RemoveFromCart(c.UserContext(), c.Params("productId")); err != nil {
		return writeError(c, err, s.Notifications())
	}
	items, total := s.Cart()
	return c.JSON(toCart(items, total, s.Notifications()))
}
