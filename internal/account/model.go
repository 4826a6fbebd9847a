package account

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/congo-pay/pinledger/internal/ledger"
)

// Balance encapsulates available funds for an account.
type Balance struct {
	AccountID int64
	Amount    decimal.Decimal
	AsOf      time.Time
}

// Statement is a mini statement: the most recent entries, oldest first.
type Statement struct {
	AccountID int64
	Entries   []ledger.Transaction
}

// OpenInput captures data required to open an account.
type OpenInput struct {
	HolderName     string
	PIN            string
	InitialDeposit decimal.Decimal
}
