package handlers

import (
	"alliedparts/internal/models"
	"alliedparts/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the order routes.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, guards Guards) {
	router.Post("/order/:itemId", h.HandleCreateOrder)
	router.Get("/order/:orderId", guards.Authenticated, h.HandleGetOrderByID)
	router.Get("/my-order", guards.Authenticated, h.HandleGetMyOrders)
	router.Put("/payment/:orderId", guards.Authenticated, h.HandleMarkPaid)
	router.Delete("/delete/:orderId", guards.Authenticated, h.HandleDeleteOrder)

	router.Get("/orders", append(guards.admin(), h.HandleGetOrders)...)
	router.Put("/shift/:orderId", append(guards.admin(), h.HandleMarkShifted)...)
}

// HandleCreateOrder stores the posted order details unchanged.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var details models.Document
	if err := bindJSON(c, nil, &details); err != nil {
		return err
	}
	res, err := h.service.CreateOrder(c.UserContext(), c.Params("itemId"), details)
	return sendResult(c, res, err)
}

// HandleGetOrderByID returns a single order, or null.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	order, err := h.service.GetOrderByID(c.UserContext(), c.Params("orderId"))
	return sendDocument(c, order, err)
}

// HandleGetMyOrders lists the orders of the uid given in the query string.
func (h *OrderHandler) HandleGetMyOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetOrdersByUser(c.UserContext(), c.Query("uid"))
	return sendResult(c, orders, err)
}

// HandleGetOrders lists every order, newest first.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetAllOrders(c.UserContext())
	return sendResult(c, orders, err)
}

type markPaidRequest struct {
	TransactionID string `json:"transactionId" validate:"required"`
}

// HandleMarkPaid records the payment transaction on an order.
func (h *OrderHandler) HandleMarkPaid(c *fiber.Ctx) error {
	var req markPaidRequest
	if err := bindJSON(c, h.validate, &req); err != nil {
		return err
	}
	res, err := h.service.MarkPaid(c.UserContext(), c.Params("orderId"), req.TransactionID)
	return sendResult(c, res, err)
}

// HandleMarkShifted marks an order as shipped.
func (h *OrderHandler) HandleMarkShifted(c *fiber.Ctx) error {
	res, err := h.service.MarkShifted(c.UserContext(), c.Params("orderId"))
	return sendResult(c, res, err)
}

// HandleDeleteOrder removes an order.
func (h *OrderHandler) HandleDeleteOrder(c *fiber.Ctx) error {
	res, err := h.service.DeleteOrder(c.UserContext(), c.Params("orderId"))
	return sendResult(c, res, err)
}
