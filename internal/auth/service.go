package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/congo-pay/pinledger/internal/ledger"
	"github.com/congo-pay/pinledger/internal/metrics"
)

// ErrInvalidToken is returned for malformed, expired or wrongly signed tokens.
var ErrInvalidToken = errors.New("invalid token")

// Service authenticates account holders and issues access tokens.
type Service struct {
	ledger  *ledger.Ledger
	secret  []byte
	ttl     time.Duration
	issuer  string
	metrics *metrics.Collector
	now     func() time.Time
}

// NewService constructs an auth service.
func NewService(led *ledger.Ledger, secret string, ttl time.Duration, issuer string, collector *metrics.Collector) *Service {
	return &Service{
		ledger:  led,
		secret:  []byte(secret),
		ttl:     ttl,
		issuer:  issuer,
		metrics: collector,
		now:     time.Now,
	}
}

type Token struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	AccountID   int64  `json:"account_id"`
	HolderName  string `json:"holder_name"`
}

// Login validates the account number and PIN and issues an access token.
func (s *Service) Login(ctx context.Context, accountID int64, pin string) (Token, error) {
	start := time.Now()
	acc, err := s.ledger.Authenticate(ctx, accountID, pin)
	s.metrics.Observe(metrics.OpAuthenticate, start, err)
	if err != nil {
		return Token{}, err
	}

	signed, err := s.sign(acc.ID())
	if err != nil {
		return Token{}, err
	}
	return Token{
		AccessToken: signed,
		ExpiresIn:   int64(s.ttl.Seconds()),
		AccountID:   acc.ID(),
		HolderName:  acc.HolderName(),
	}, nil
}

func (s *Service) sign(accountID int64) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    s.issuer,
		Subject:   strconv.FormatInt(accountID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseAccessToken verifies the token and returns the account number it was
// issued for.
func (s *Service) ParseAccessToken(token string) (int64, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return 0, ErrInvalidToken
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return id, nil
}
