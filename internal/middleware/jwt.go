package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/pinledger/internal/auth"
)

const accountIDLocal = "account_id"

// TokenParser resolves a bearer token to an account number.
type TokenParser interface {
	ParseAccessToken(token string) (int64, error)
}

var _ TokenParser = (*auth.Service)(nil)

// JWTAuth returns a middleware that validates bearer access tokens and stores
// the authenticated account number in the request locals.
func JWTAuth(parser TokenParser) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return fiber.NewError(http.StatusUnauthorized, "missing bearer token")
		}
		tokenStr := strings.TrimSpace(authz[len("Bearer "):])
		accountID, err := parser.ParseAccessToken(tokenStr)
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "invalid token")
		}

		c.Locals(accountIDLocal, accountID)
		return c.Next()
	}
}

// AccountID returns the account number stored by JWTAuth.
func AccountID(c *fiber.Ctx) (int64, bool) {
	id, ok := c.Locals(accountIDLocal).(int64)
	return id, ok
}
