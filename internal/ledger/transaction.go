package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind classifies a balance-affecting event.
type Kind string

const (
	KindDeposit         Kind = "DEPOSIT"
	KindWithdraw        Kind = "WITHDRAW"
	KindTransferOut     Kind = "TRANSFER_OUT"
	KindTransferReceive Kind = "TRANSFER_RECEIVE"
)

// Credit reports whether the kind increases the balance.
func (k Kind) Credit() bool {
	return k == KindDeposit || k == KindTransferReceive
}

const (
	noteInitialDeposit = "Initial Deposit"
	noteSelfDeposit    = "Self Deposit"
	noteSelfWithdrawal = "Self Withdrawal"
)

// Transaction is an immutable record of one balance-affecting event. Values
// are handed out by copy; the owning Account never rewrites an appended entry.
type Transaction struct {
	Kind      Kind
	Amount    decimal.Decimal
	Note      string
	Timestamp time.Time
}

// Signed returns the amount with the sign it applies to the balance.
func (t Transaction) Signed() decimal.Decimal {
	if t.Kind.Credit() {
		return t.Amount
	}
	return t.Amount.Neg()
}

// Posting captures the outcome of a single-account mutation.
type Posting struct {
	Transaction Transaction
	Balance     decimal.Decimal
}

// TransferResult captures both sides of a completed transfer.
type TransferResult struct {
	FromAccountID int64
	ToAccountID   int64
	Debit         Transaction
	Credit        Transaction
	FromBalance   decimal.Decimal
	ToBalance     decimal.Decimal
}
