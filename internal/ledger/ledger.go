package ledger

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// DefaultFirstAccountID is the account number handed to the first account.
const DefaultFirstAccountID int64 = 1001

// dummyPIN never validates (it is not all digits) and only feeds the decoy hash.
const dummyPIN = "decoy-pin"

// Ledger is the registry owning every Account, keyed by account number.
// It is safe for concurrent use.
type Ledger struct {
	mu       sync.RWMutex
	nextID   int64
	accounts map[int64]*Account

	pinCost int
	now     func() time.Time

	decoyHash []byte
}

// Option customises a Ledger.
type Option func(*Ledger)

// WithFirstAccountID sets the first account number assigned by the ledger.
func WithFirstAccountID(id int64) Option {
	return func(l *Ledger) {
		if id > 0 {
			l.nextID = id
		}
	}
}

// WithPINCost sets the bcrypt cost used to hash PINs.
func WithPINCost(cost int) Option {
	return func(l *Ledger) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			l.pinCost = cost
		}
	}
}

// WithClock overrides the time source used for transaction timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		if now != nil {
			l.now = now
		}
	}
}

// New creates an empty, concurrency-safe in-memory ledger.
func New(opts ...Option) *Ledger {
	l := &Ledger{
		nextID:   DefaultFirstAccountID,
		accounts: make(map[int64]*Account),
		pinCost:  bcrypt.DefaultCost,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	hash, err := hashPIN(dummyPIN, l.pinCost)
	if err != nil {
		// WithPINCost only admits valid costs and dummyPIN is short.
		panic("ledger: decoy hash: " + err.Error())
	}
	l.decoyHash = hash
	return l
}

// CreateAccount opens an account with the next account number. The opening
// deposit may be zero but not negative.
func (l *Ledger) CreateAccount(_ context.Context, holderName, pin string, initialDeposit decimal.Decimal) (*Account, error) {
	if initialDeposit.IsNegative() {
		return nil, ErrInvalidAmount
	}
	if err := checkAmount(initialDeposit); err != nil {
		return nil, err
	}
	holderName = strings.TrimSpace(holderName)
	if holderName == "" {
		return nil, ErrInvalidHolderName
	}
	if err := validatePIN(pin); err != nil {
		return nil, err
	}

	hash, err := hashPIN(pin, l.pinCost)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	id := l.nextID
	l.nextID++
	acc := openAccount(id, holderName, hash, initialDeposit, l.now)
	l.accounts[id] = acc
	return acc, nil
}

// Lookup returns the account registered under id.
func (l *Ledger) Lookup(_ context.Context, id int64) (*Account, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	acc, ok := l.accounts[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return acc, nil
}

// Authenticate returns the account when pin matches. Unknown accounts and
// wrong PINs both yield ErrAuthFailure and both cost one bcrypt comparison.
func (l *Ledger) Authenticate(ctx context.Context, id int64, pin string) (*Account, error) {
	acc, err := l.Lookup(ctx, id)
	if err != nil {
		comparePIN(l.decoyHash, pin)
		return nil, ErrAuthFailure
	}
	if !acc.VerifyPIN(pin) {
		return nil, ErrAuthFailure
	}
	return acc, nil
}

// Transfer moves amount between two registered accounts.
func (l *Ledger) Transfer(ctx context.Context, fromID, toID int64, amount decimal.Decimal) (TransferResult, error) {
	from, err := l.Lookup(ctx, fromID)
	if err != nil {
		return TransferResult{}, err
	}
	to, err := l.Lookup(ctx, toID)
	if err != nil {
		return TransferResult{}, ErrTargetNotFound
	}
	return from.TransferTo(to, amount)
}

// Len returns the number of registered accounts.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.accounts)
}
