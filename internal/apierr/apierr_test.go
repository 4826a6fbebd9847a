package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/congo-pay/pinledger/internal/ledger"
)

func TestFromLedger(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{ledger.ErrInvalidAmount, http.StatusBadRequest},
		{ledger.ErrInvalidPIN, http.StatusBadRequest},
		{ledger.ErrInvalidHolderName, http.StatusBadRequest},
		{ledger.ErrSelfTransfer, http.StatusBadRequest},
		{fmt.Errorf("withdraw: %w", ledger.ErrInsufficientFunds), http.StatusUnprocessableEntity},
		{ledger.ErrBalanceLimit, http.StatusUnprocessableEntity},
		{ledger.ErrTargetNotFound, http.StatusNotFound},
		{ledger.ErrAccountNotFound, http.StatusNotFound},
		{ledger.ErrAuthFailure, http.StatusUnauthorized},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		var fe *fiber.Error
		require.True(t, errors.As(FromLedger(tc.err), &fe), tc.err.Error())
		assert.Equal(t, tc.want, fe.Code, tc.err.Error())
	}
	assert.NoError(t, FromLedger(nil))
}

func TestFromLedgerHidesInternalText(t *testing.T) {
	var fe *fiber.Error
	require.True(t, errors.As(FromLedger(errors.New("pq: secret detail")), &fe))
	assert.Equal(t, "internal error", fe.Message)
}

func TestBind(t *testing.T) {
	type payload struct {
		Name string `json:"name" validate:"required"`
	}
	app := fiber.New(fiber.Config{ErrorHandler: Handler})
	app.Post("/", func(c *fiber.Ctx) error {
		var p payload
		if err := Bind(c, &p); err != nil {
			return err
		}
		return c.SendString(p.Name)
	})

	cases := []struct {
		body string
		want int
	}{
		{`{"name":"asha"}`, http.StatusOK},
		{`{"name":""}`, http.StatusBadRequest},
		{`{"name":`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, tc.want, resp.StatusCode, tc.body)
	}
}
