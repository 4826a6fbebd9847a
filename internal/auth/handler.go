package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/pinledger/internal/apierr"
)

// Handler exposes auth endpoints.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type loginRequest struct {
	AccountID int64  `json:"account_id" validate:"required"`
	PIN       string `json:"pin" validate:"required"`
}

// Login validates credentials and returns an access token.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := apierr.Bind(c, &req); err != nil {
		return err
	}
	token, err := h.svc.Login(c.UserContext(), req.AccountID, req.PIN)
	if err != nil {
		return apierr.FromLedger(err)
	}
	return c.Status(http.StatusOK).JSON(token)
}
