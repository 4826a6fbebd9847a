package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/pinledger/internal/payments"
)

// RegisterPaymentRoutes wires payment endpoints behind the given middleware.
func RegisterPaymentRoutes(r fiber.Router, h *payments.Handler, mw ...fiber.Handler) {
	r.Group("/payments", mw...).Post("/transfers", h.Transfer)
}
