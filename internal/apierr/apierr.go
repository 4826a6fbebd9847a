// Package apierr binds request bodies and maps ledger errors onto HTTP
// responses.
package apierr

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/pinledger/internal/ledger"
)

// FromLedger converts a ledger error into a fiber error with the matching
// status code. Unknown errors become 500s without leaking their text.
func FromLedger(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrInvalidPIN),
		errors.Is(err, ledger.ErrInvalidHolderName),
		errors.Is(err, ledger.ErrSelfTransfer):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ledger.ErrInsufficientFunds),
		errors.Is(err, ledger.ErrBalanceLimit):
		return fiber.NewError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ledger.ErrTargetNotFound),
		errors.Is(err, ledger.ErrAccountNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, ledger.ErrAuthFailure):
		return fiber.NewError(http.StatusUnauthorized, ledger.ErrAuthFailure.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, "internal error")
	}
}

// Handler renders every error as {"error": message} with its status code.
func Handler(c *fiber.Ctx, err error) error {
	code := http.StatusInternalServerError
	msg := "internal error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	}
	return c.Status(code).JSON(fiber.Map{"error": msg})
}

var validate = validator.New()

// Bind parses the request body into out and runs its validate tags.
func Bind(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(out); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fiber.NewError(http.StatusBadRequest, verrs[0].Field()+" failed "+verrs[0].Tag()+" validation")
		}
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return nil
}
