package handlers

import (
	"alliedparts/internal/payment"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// PaymentHandler handles payment intent requests.
type PaymentHandler struct {
	gateway  payment.Gateway
	validate *validator.Validate
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(gateway payment.Gateway) *PaymentHandler {
	return &PaymentHandler{
		gateway:  gateway,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the payment routes.
func (h *PaymentHandler) RegisterRoutes(router fiber.Router, guards Guards) {
	router.Post("/create-payment-intent", guards.Authenticated, h.HandleCreatePaymentIntent)
}

type paymentIntentRequest struct {
	Price float64 `json:"price" validate:"required,gt=0"`
}

// HandleCreatePaymentIntent returns the client secret of a new payment intent.
func (h *PaymentHandler) HandleCreatePaymentIntent(c *fiber.Ctx) error {
	var req paymentIntentRequest
	if err := bindJSON(c, h.validate, &req); err != nil {
		return err
	}
	if payment.ToMinorUnits(req.Price) <= 0 {
		return &requestError{message: "Price is below the smallest currency unit"}
	}
	secret, err := h.gateway.CreatePaymentIntent(c.UserContext(), req.Price)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"clientSecret": secret})
}
