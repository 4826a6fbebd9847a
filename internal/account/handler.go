package account

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/congo-pay/pinledger/internal/apierr"
	"github.com/congo-pay/pinledger/internal/ledger"
	"github.com/congo-pay/pinledger/internal/middleware"
)

// Handler exposes account HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds an account HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type openRequest struct {
	HolderName     string          `json:"holder_name" validate:"required"`
	PIN            string          `json:"pin" validate:"required"`
	InitialDeposit decimal.Decimal `json:"initial_deposit"`
}

type amountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type accountResponse struct {
	AccountID  int64  `json:"account_id"`
	HolderName string `json:"holder_name"`
	Balance    string `json:"balance"`
}

type transactionResponse struct {
	Kind         string    `json:"kind"`
	Amount       string    `json:"amount"`
	SignedAmount string    `json:"signed_amount"`
	Note         string    `json:"note"`
	Timestamp    time.Time `json:"timestamp"`
}

type postingResponse struct {
	AccountID   int64               `json:"account_id"`
	Transaction transactionResponse `json:"transaction"`
	Balance     string              `json:"balance"`
}

func toAccountResponse(d ledger.Details) accountResponse {
	return accountResponse{AccountID: d.AccountID, HolderName: d.HolderName, Balance: d.Balance.StringFixed(2)}
}

func toTransactionResponse(tx ledger.Transaction) transactionResponse {
	return transactionResponse{
		Kind:         string(tx.Kind),
		Amount:       tx.Amount.StringFixed(2),
		SignedAmount: tx.Signed().StringFixed(2),
		Note:         tx.Note,
		Timestamp:    tx.Timestamp,
	}
}

// Open creates a new account. The route is public.
func (h *Handler) Open(c *fiber.Ctx) error {
	var req openRequest
	if err := apierr.Bind(c, &req); err != nil {
		return err
	}
	details, err := h.service.Open(c.UserContext(), OpenInput{
		HolderName:     req.HolderName,
		PIN:            req.PIN,
		InitialDeposit: req.InitialDeposit,
	})
	if err != nil {
		return apierr.FromLedger(err)
	}
	return c.Status(http.StatusCreated).JSON(toAccountResponse(details))
}

// Details returns the authenticated holder's account summary.
func (h *Handler) Details(c *fiber.Ctx) error {
	id, err := callerID(c)
	if err != nil {
		return err
	}
	details, err := h.service.Details(c.UserContext(), id)
	if err != nil {
		return apierr.FromLedger(err)
	}
	return c.Status(http.StatusOK).JSON(toAccountResponse(details))
}

// Balance returns the authenticated holder's balance.
func (h *Handler) Balance(c *fiber.Ctx) error {
	id, err := callerID(c)
	if err != nil {
		return err
	}
	balance, err := h.service.Balance(c.UserContext(), id)
	if err != nil {
		return apierr.FromLedger(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"account_id": balance.AccountID,
		"balance":    balance.Amount.StringFixed(2),
		"timestamp":  balance.AsOf,
	})
}

// Statement returns the most recent entries, oldest first.
func (h *Handler) Statement(c *fiber.Ctx) error {
	id, err := callerID(c)
	if err != nil {
		return err
	}
	stmt, err := h.service.Statement(c.UserContext(), id, c.QueryInt("limit", 0))
	if err != nil {
		return apierr.FromLedger(err)
	}
	entries := make([]transactionResponse, 0, len(stmt.Entries))
	for _, tx := range stmt.Entries {
		entries = append(entries, toTransactionResponse(tx))
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"account_id": stmt.AccountID,
		"entries":    entries,
	})
}

// Deposit credits the authenticated holder's account.
func (h *Handler) Deposit(c *fiber.Ctx) error {
	return h.post(c, h.service.Deposit)
}

// Withdraw debits the authenticated holder's account.
func (h *Handler) Withdraw(c *fiber.Ctx) error {
	return h.post(c, h.service.Withdraw)
}

type postFunc func(ctx context.Context, id int64, amount decimal.Decimal) (ledger.Posting, error)

func (h *Handler) post(c *fiber.Ctx, op postFunc) error {
	id, err := callerID(c)
	if err != nil {
		return err
	}
	var req amountRequest
	if err := apierr.Bind(c, &req); err != nil {
		return err
	}
	posting, err := op(c.UserContext(), id, req.Amount)
	if err != nil {
		return apierr.FromLedger(err)
	}
	return c.Status(http.StatusCreated).JSON(postingResponse{
		AccountID:   id,
		Transaction: toTransactionResponse(posting.Transaction),
		Balance:     posting.Balance.StringFixed(2),
	})
}

func callerID(c *fiber.Ctx) (int64, error) {
	id, ok := middleware.AccountID(c)
	if !ok {
		return 0, fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	return id, nil
}
