package payments

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/congo-pay/pinledger/internal/apierr"
	"github.com/congo-pay/pinledger/internal/middleware"
)

// Handler exposes payment endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a payment handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type transferRequest struct {
	ToAccountID int64           `json:"to_account_id" validate:"required,gt=0"`
	Amount      decimal.Decimal `json:"amount"`
}

// Transfer moves funds from the authenticated account to another account.
func (h *Handler) Transfer(c *fiber.Ctx) error {
	fromID, ok := middleware.AccountID(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	var req transferRequest
	if err := apierr.Bind(c, &req); err != nil {
		return err
	}

	res, err := h.service.Transfer(c.UserContext(), TransferInput{
		FromAccountID: fromID,
		ToAccountID:   req.ToAccountID,
		Amount:        req.Amount,
	})
	if err != nil {
		return apierr.FromLedger(err)
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"from_account_id": res.FromAccountID,
		"to_account_id":   res.ToAccountID,
		"amount":          res.Debit.Amount.StringFixed(2),
		"from_balance":    res.FromBalance.StringFixed(2),
		"note":            res.Debit.Note,
		"completed_at":    res.Debit.Timestamp.UTC().Format(time.RFC3339Nano),
	})
}
