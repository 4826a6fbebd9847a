package ledger

import (
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultStatementSize is the number of entries in a mini statement.
const DefaultStatementSize = 5

// Account holds a balance and its append-only transaction history. The
// balance only changes through Deposit, Withdraw and TransferTo, and every
// change appends exactly one Transaction under the same lock.
type Account struct {
	id         int64
	holderName string
	pinHash    []byte
	now        func() time.Time

	mu      sync.Mutex
	balance decimal.Decimal
	history []Transaction
}

// Details is the read-only account summary shown to its holder.
type Details struct {
	AccountID  int64
	HolderName string
	Balance    decimal.Decimal
}

func openAccount(id int64, holderName string, pinHash []byte, initial decimal.Decimal, now func() time.Time) *Account {
	a := &Account{
		id:         id,
		holderName: holderName,
		pinHash:    pinHash,
		now:        now,
		balance:    decimal.Zero,
	}
	// A zero opening deposit leaves the history empty; recorded amounts are
	// always positive.
	if initial.IsPositive() {
		a.apply(KindDeposit, initial, noteInitialDeposit)
	}
	return a
}

// ID returns the account number.
func (a *Account) ID() int64 { return a.id }

// HolderName returns the name the account was opened with.
func (a *Account) HolderName() string { return a.holderName }

// VerifyPIN reports whether pin matches the stored credential.
func (a *Account) VerifyPIN(pin string) bool {
	return comparePIN(a.pinHash, pin)
}

// Balance returns the current balance.
func (a *Account) Balance() decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance
}

// Details returns the holder name, account number and balance.
func (a *Account) Details() Details {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Details{AccountID: a.id, HolderName: a.holderName, Balance: a.balance}
}

// Deposit credits amount to the account.
func (a *Account) Deposit(amount decimal.Decimal) (Posting, error) {
	if err := checkPositive(amount); err != nil {
		return Posting{}, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.canCredit(amount) {
		return Posting{}, ErrBalanceLimit
	}
	tx := a.apply(KindDeposit, amount, noteSelfDeposit)
	return Posting{Transaction: tx, Balance: a.balance}, nil
}

// Withdraw debits amount from the account. The amount check runs before the
// funds check.
func (a *Account) Withdraw(amount decimal.Decimal) (Posting, error) {
	if err := checkPositive(amount); err != nil {
		return Posting{}, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if amount.GreaterThan(a.balance) {
		return Posting{}, ErrInsufficientFunds
	}
	tx := a.apply(KindWithdraw, amount, noteSelfWithdrawal)
	return Posting{Transaction: tx, Balance: a.balance}, nil
}

// TransferTo moves amount from a to target. Both account locks are held, lower
// id first, while the two balances and the two history entries change, so no
// reader observes the debit without the credit.
func (a *Account) TransferTo(target *Account, amount decimal.Decimal) (TransferResult, error) {
	if err := checkPositive(amount); err != nil {
		return TransferResult{}, err
	}
	if target == nil {
		return TransferResult{}, ErrTargetNotFound
	}
	if target == a || target.id == a.id {
		return TransferResult{}, ErrSelfTransfer
	}

	first, second := a, target
	if second.id < first.id {
		first, second = second, first
	}
	first.mu.Lock()
	defer first.mu.Unlock()
	second.mu.Lock()
	defer second.mu.Unlock()

	if amount.GreaterThan(a.balance) {
		return TransferResult{}, ErrInsufficientFunds
	}
	if !target.canCredit(amount) {
		return TransferResult{}, ErrBalanceLimit
	}

	debit := a.apply(KindTransferOut, amount, fmt.Sprintf("To Acc %d", target.id))
	credit := target.apply(KindTransferReceive, amount, fmt.Sprintf("From Acc %d", a.id))

	return TransferResult{
		FromAccountID: a.id,
		ToAccountID:   target.id,
		Debit:         debit,
		Credit:        credit,
		FromBalance:   a.balance,
		ToBalance:     target.balance,
	}, nil
}

// RecentHistory returns the last min(n, len(history)) entries, oldest first.
func (a *Account) RecentHistory(n int) []Transaction {
	a.mu.Lock()
	defer a.mu.Unlock()
	if n <= 0 {
		return []Transaction{}
	}
	start := len(a.history) - n
	if start < 0 {
		start = 0
	}
	out := make([]Transaction, len(a.history)-start)
	copy(out, a.history[start:])
	return out
}

// History returns a copy of the full history.
func (a *Account) History() []Transaction {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Transaction, len(a.history))
	copy(out, a.history)
	return out
}

// apply must be called with a.mu held (or before the account is shared).
// canCredit reports whether amount fits under MaxAmount. Callers hold a.mu.
func (a *Account) canCredit(amount decimal.Decimal) bool {
	return a.balance.Add(amount).LessThan(MaxAmount)
}

func (a *Account) apply(kind Kind, amount decimal.Decimal, note string) Transaction {
	tx := Transaction{
		Kind:      kind,
		Amount:    amount,
		Note:      note,
		Timestamp: a.now().UTC(),
	}
	if kind.Credit() {
		a.balance = a.balance.Add(amount)
	} else {
		a.balance = a.balance.Sub(amount)
	}
	a.history = append(a.history, tx)
	return tx
}
