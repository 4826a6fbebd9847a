package ledger

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestLedger(t *testing.T, opts ...Option) *Ledger {
	t.Helper()
	return New(append([]Option{WithPINCost(bcrypt.MinCost)}, opts...)...)
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func open(t *testing.T, l *Ledger, name, initial string) *Account {
	t.Helper()
	acc, err := l.CreateAccount(context.Background(), name, "1234", dec(t, initial))
	require.NoError(t, err)
	return acc
}

// reconciled recomputes the balance from history.
func reconciled(acc *Account) decimal.Decimal {
	sum := decimal.Zero
	for _, tx := range acc.History() {
		sum = sum.Add(tx.Signed())
	}
	return sum
}

func TestCreateAccount_InitialDeposit(t *testing.T) {
	l := newTestLedger(t)
	acc := open(t, l, "Asha", "500.00")

	assert.True(t, acc.Balance().Equal(dec(t, "500.00")))
	history := acc.History()
	require.Len(t, history, 1)
	assert.Equal(t, KindDeposit, history[0].Kind)
	assert.True(t, history[0].Amount.Equal(dec(t, "500")))
	assert.Equal(t, "Initial Deposit", history[0].Note)
}

func TestCreateAccount_ZeroInitialDepositRecordsNothing(t *testing.T) {
	l := newTestLedger(t)
	acc := open(t, l, "Bo", "0")

	assert.True(t, acc.Balance().IsZero())
	assert.Empty(t, acc.History())
}

func TestCreateAccount_Validation(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	_, err := l.CreateAccount(ctx, "Asha", "1234", dec(t, "-0.01"))
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = l.CreateAccount(ctx, "   ", "1234", decimal.Zero)
	assert.ErrorIs(t, err, ErrInvalidHolderName)

	for _, pin := range []string{"", "123", "12345", "12a4"} {
		_, err = l.CreateAccount(ctx, "Asha", pin, decimal.Zero)
		assert.ErrorIs(t, err, ErrInvalidPIN, "pin %q", pin)
	}
	assert.Equal(t, 0, l.Len())
}

func TestCreateAccount_SequentialIDsPerLedger(t *testing.T) {
	l1 := newTestLedger(t)
	l2 := newTestLedger(t, WithFirstAccountID(5000))

	a := open(t, l1, "A", "0")
	b := open(t, l1, "B", "0")
	c := open(t, l2, "C", "0")

	assert.Equal(t, int64(1001), a.ID())
	assert.Equal(t, int64(1002), b.ID())
	assert.Equal(t, int64(5000), c.ID())

	// a fresh ledger starts over; the counter is not shared
	assert.Equal(t, int64(1001), open(t, newTestLedger(t), "D", "0").ID())
}

func TestDeposit(t *testing.T) {
	l := newTestLedger(t)
	acc := open(t, l, "Asha", "500")

	posting, err := acc.Deposit(dec(t, "100.00"))
	require.NoError(t, err)
	assert.True(t, posting.Balance.Equal(dec(t, "600")))
	assert.Equal(t, KindDeposit, posting.Transaction.Kind)
	assert.Equal(t, "Self Deposit", posting.Transaction.Note)

	for _, amt := range []string{"0", "-5"} {
		_, err := acc.Deposit(dec(t, amt))
		assert.ErrorIs(t, err, ErrInvalidAmount)
	}
	assert.True(t, acc.Balance().Equal(dec(t, "600")))
	assert.Len(t, acc.History(), 2)
}

func TestWithdraw_InsufficientFundsLeavesStateUntouched(t *testing.T) {
	l := newTestLedger(t)
	acc := open(t, l, "Asha", "500")
	_, err := acc.Deposit(dec(t, "100"))
	require.NoError(t, err)

	_, err = acc.Withdraw(dec(t, "700.00"))
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.True(t, acc.Balance().Equal(dec(t, "600")))
	assert.Len(t, acc.History(), 2)

	// amount validation wins over the funds check
	_, err = acc.Withdraw(dec(t, "-700"))
	assert.ErrorIs(t, err, ErrInvalidAmount)

	posting, err := acc.Withdraw(dec(t, "600"))
	require.NoError(t, err)
	assert.True(t, posting.Balance.IsZero())
	assert.Equal(t, "Self Withdrawal", posting.Transaction.Note)
}

func TestTransfer(t *testing.T) {
	l := newTestLedger(t)
	a := open(t, l, "A", "600.00")
	b := open(t, l, "B", "0")

	res, err := l.Transfer(context.Background(), a.ID(), b.ID(), dec(t, "200.00"))
	require.NoError(t, err)

	assert.True(t, a.Balance().Equal(dec(t, "400")))
	assert.True(t, b.Balance().Equal(dec(t, "200")))
	assert.True(t, res.FromBalance.Equal(dec(t, "400")))
	assert.True(t, res.ToBalance.Equal(dec(t, "200")))

	out := a.History()
	require.Len(t, out, 2)
	assert.Equal(t, KindTransferOut, out[1].Kind)
	assert.Equal(t, fmt.Sprintf("To Acc %d", b.ID()), out[1].Note)

	in := b.History()
	require.Len(t, in, 1)
	assert.Equal(t, KindTransferReceive, in[0].Kind)
	assert.True(t, in[0].Amount.Equal(dec(t, "200")))
	assert.Equal(t, fmt.Sprintf("From Acc %d", a.ID()), in[0].Note)
}

func TestTransfer_Failures(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	a := open(t, l, "A", "100")
	b := open(t, l, "B", "0")

	cases := []struct {
		name   string
		from   int64
		to     int64
		amount string
		want   error
	}{
		{"zero amount", a.ID(), b.ID(), "0", ErrInvalidAmount},
		{"negative amount", a.ID(), b.ID(), "-1", ErrInvalidAmount},
		{"insufficient", a.ID(), b.ID(), "100.01", ErrInsufficientFunds},
		{"unknown target", a.ID(), 9999, "1", ErrTargetNotFound},
		{"unknown source", 9999, b.ID(), "1", ErrAccountNotFound},
		{"self transfer", a.ID(), a.ID(), "1", ErrSelfTransfer},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := l.Transfer(ctx, tc.from, tc.to, dec(t, tc.amount))
			assert.ErrorIs(t, err, tc.want)
		})
	}

	assert.True(t, a.Balance().Equal(dec(t, "100")))
	assert.True(t, b.Balance().IsZero())
	assert.Len(t, a.History(), 1)
	assert.Empty(t, b.History())

	_, err := a.TransferTo(nil, dec(t, "1"))
	assert.ErrorIs(t, err, ErrTargetNotFound)
}

func TestAmountPrecisionAndMagnitudeBounds(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	a := open(t, l, "A", "10")
	b := open(t, l, "B", "0")

	for _, raw := range []string{"1e-3000000", "0.00001", "1e20", "10000000000000000"} {
		t.Run(raw, func(t *testing.T) {
			amount := dec(t, raw)

			_, err := l.CreateAccount(ctx, "C", "1234", amount)
			assert.ErrorIs(t, err, ErrInvalidAmount)
			_, err = a.Deposit(amount)
			assert.ErrorIs(t, err, ErrInvalidAmount)
			_, err = a.Withdraw(amount)
			assert.ErrorIs(t, err, ErrInvalidAmount)
			_, err = l.Transfer(ctx, a.ID(), b.ID(), amount)
			assert.ErrorIs(t, err, ErrInvalidAmount)
		})
	}

	assert.Equal(t, 2, l.Len())
	assert.True(t, a.Balance().Equal(dec(t, "10")))
	assert.GreaterOrEqual(t, a.Balance().Exponent(), int32(-AmountScale))
	assert.Len(t, a.History(), 1)
	assert.Empty(t, b.History())

	p, err := a.Deposit(dec(t, "0.0001"))
	require.NoError(t, err)
	assert.True(t, p.Balance.Equal(dec(t, "10.0001")))
}

func TestBalanceLimit(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	rich := open(t, l, "Rich", "9999999999999999")
	other := open(t, l, "Other", "1")

	_, err := rich.Deposit(dec(t, "1"))
	assert.ErrorIs(t, err, ErrBalanceLimit)

	_, err = l.Transfer(ctx, other.ID(), rich.ID(), dec(t, "1"))
	assert.ErrorIs(t, err, ErrBalanceLimit)

	assert.True(t, rich.Balance().Equal(dec(t, "9999999999999999")))
	assert.True(t, other.Balance().Equal(dec(t, "1")))
	assert.Len(t, other.History(), 1)

	_, err = rich.Deposit(dec(t, "0.9999"))
	assert.NoError(t, err)
}

func TestNewPrecomputesDecoyHash(t *testing.T) {
	l := newTestLedger(t)
	require.NotEmpty(t, l.decoyHash)
	assert.False(t, comparePIN(l.decoyHash, "1234"))
}

func TestAuthenticate(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	acc := open(t, l, "Asha", "10")

	got, err := l.Authenticate(ctx, acc.ID(), "1234")
	require.NoError(t, err)
	assert.Same(t, acc, got)

	_, wrongPIN := l.Authenticate(ctx, acc.ID(), "4321")
	_, unknown := l.Authenticate(ctx, 424242, "1234")
	require.ErrorIs(t, wrongPIN, ErrAuthFailure)
	require.ErrorIs(t, unknown, ErrAuthFailure)
	assert.Equal(t, wrongPIN.Error(), unknown.Error())

	assert.True(t, acc.VerifyPIN("1234"))
	assert.False(t, acc.VerifyPIN("0000"))
}

func TestRecentHistory(t *testing.T) {
	l := newTestLedger(t)
	acc := open(t, l, "Asha", "50")
	_, err := acc.Deposit(dec(t, "25"))
	require.NoError(t, err)

	stmt := acc.RecentHistory(DefaultStatementSize)
	require.Len(t, stmt, 2)
	assert.Equal(t, "Initial Deposit", stmt[0].Note)
	assert.Equal(t, "Self Deposit", stmt[1].Note)

	// repeat reads without mutation are identical
	assert.Equal(t, stmt, acc.RecentHistory(DefaultStatementSize))

	for i := 0; i < 6; i++ {
		_, err := acc.Deposit(decimal.NewFromInt(int64(i + 1)))
		require.NoError(t, err)
	}
	stmt = acc.RecentHistory(DefaultStatementSize)
	require.Len(t, stmt, 5)
	assert.True(t, stmt[0].Amount.Equal(decimal.NewFromInt(2)))
	assert.True(t, stmt[4].Amount.Equal(decimal.NewFromInt(6)))

	assert.Empty(t, acc.RecentHistory(0))
	assert.Empty(t, acc.RecentHistory(-3))
}

func TestRecentHistory_ReturnsCopy(t *testing.T) {
	l := newTestLedger(t)
	acc := open(t, l, "Asha", "50")

	stmt := acc.RecentHistory(5)
	stmt[0].Note = "tampered"
	assert.Equal(t, "Initial Deposit", acc.History()[0].Note)
}

func TestDetails(t *testing.T) {
	l := newTestLedger(t)
	acc := open(t, l, "  Asha  ", "12.5")

	d := acc.Details()
	assert.Equal(t, "Asha", d.HolderName)
	assert.Equal(t, acc.ID(), d.AccountID)
	assert.True(t, d.Balance.Equal(dec(t, "12.50")))
}

func TestTimestampsUseClock(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 10, 0, 0, 0, time.FixedZone("WAT", 3600))
	l := newTestLedger(t, WithClock(func() time.Time { return fixed }))
	acc := open(t, l, "Asha", "1")

	assert.True(t, acc.History()[0].Timestamp.Equal(fixed))
	assert.Equal(t, time.UTC, acc.History()[0].Timestamp.Location())
}

func TestConcurrentOppositeTransfersKeepInvariants(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	a := open(t, l, "A", "1000")
	b := open(t, l, "B", "1000")

	const n = 200
	var wg sync.WaitGroup
	wg.Add(2 * n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			if _, err := l.Transfer(ctx, a.ID(), b.ID(), decimal.NewFromInt(1)); err != nil {
				t.Errorf("a->b: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := l.Transfer(ctx, b.ID(), a.ID(), decimal.NewFromInt(1)); err != nil {
				t.Errorf("b->a: %v", err)
			}
		}()
	}
	wg.Wait()

	total := a.Balance().Add(b.Balance())
	assert.True(t, total.Equal(decimal.NewFromInt(2000)), "total=%s", total)
	assert.True(t, a.Balance().Equal(reconciled(a)))
	assert.True(t, b.Balance().Equal(reconciled(b)))
	assert.Len(t, a.History(), 1+2*n)
	assert.Len(t, b.History(), 1+2*n)
}

func TestConcurrentWithdrawalsNeverOverdraw(t *testing.T) {
	l := newTestLedger(t)
	acc := open(t, l, "A", "100")

	const workers = 50
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := acc.Withdraw(decimal.NewFromInt(3))
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			if err != ErrInsufficientFunds {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 33, succeeded)
	assert.True(t, acc.Balance().Equal(decimal.NewFromInt(1)))
	assert.False(t, acc.Balance().IsNegative())
	assert.True(t, acc.Balance().Equal(reconciled(acc)))
}

func TestConcurrentCreateAssignsUniqueIDs(t *testing.T) {
	l := newTestLedger(t)
	const n = 20

	ids := make(chan int64, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			acc, err := l.CreateAccount(context.Background(), fmt.Sprintf("holder-%d", i), "0000", decimal.Zero)
			if err != nil {
				t.Errorf("create: %v", err)
				return
			}
			ids <- acc.ID()
		}(i)
	}
	wg.Wait()
	close(ids)

	seen := map[int64]bool{}
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		assert.GreaterOrEqual(t, id, DefaultFirstAccountID)
		assert.Less(t, id, DefaultFirstAccountID+n)
		seen[id] = true
	}
	assert.Equal(t, n, l.Len())
}
