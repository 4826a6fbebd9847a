package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/pinledger/internal/account"
)

// RegisterAccountRoutes wires the public account opening endpoint.
func RegisterAccountRoutes(r fiber.Router, h *account.Handler) {
	r.Post("/accounts", h.Open)
}

// RegisterAccountMeRoutes wires endpoints acting on the authenticated account
// behind the given middleware.
func RegisterAccountMeRoutes(r fiber.Router, h *account.Handler, mw ...fiber.Handler) {
	me := r.Group("/accounts/me", mw...)
	me.Get("", h.Details)
	me.Get("/balance", h.Balance)
	me.Get("/statement", h.Statement)
	me.Post("/deposits", h.Deposit)
	me.Post("/withdrawals", h.Withdraw)
}
