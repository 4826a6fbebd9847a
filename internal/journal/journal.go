package journal

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/congo-pay/pinledger/internal/ledger"
)

// Entry is the exported copy of one committed history record.
type Entry struct {
	ID           uuid.UUID
	AccountID    int64
	Kind         ledger.Kind
	Amount       decimal.Decimal
	Note         string
	Timestamp    time.Time
	BalanceAfter decimal.Decimal
}

// Sink receives committed entries. Entries passed in one call belong to the
// same ledger operation.
type Sink interface {
	Record(ctx context.Context, entries ...Entry) error
}

// NewEntry builds an Entry for a transaction appended to accountID.
func NewEntry(accountID int64, tx ledger.Transaction, balanceAfter decimal.Decimal) Entry {
	return Entry{
		ID:           uuid.New(),
		AccountID:    accountID,
		Kind:         tx.Kind,
		Amount:       tx.Amount,
		Note:         tx.Note,
		Timestamp:    tx.Timestamp,
		BalanceAfter: balanceAfter,
	}
}

// FromPosting converts a single-account posting.
func FromPosting(accountID int64, p ledger.Posting) Entry {
	return NewEntry(accountID, p.Transaction, p.Balance)
}

// FromTransfer converts both sides of a transfer, debit first.
func FromTransfer(res ledger.TransferResult) []Entry {
	return []Entry{
		NewEntry(res.FromAccountID, res.Debit, res.FromBalance),
		NewEntry(res.ToAccountID, res.Credit, res.ToBalance),
	}
}

// LogSink writes entries to the structured logger.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink constructs a logging sink.
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Record logs every entry at info level.
func (s *LogSink) Record(ctx context.Context, entries ...Entry) error {
	if s == nil || s.logger == nil {
		return nil
	}
	for _, e := range entries {
		s.logger.InfoContext(ctx, "journal entry",
			slog.String("entry_id", e.ID.String()),
			slog.Int64("account_id", e.AccountID),
			slog.String("kind", string(e.Kind)),
			slog.String("amount", e.Amount.StringFixed(2)),
			slog.String("note", e.Note),
			slog.String("balance_after", e.BalanceAfter.StringFixed(2)),
			slog.Time("timestamp", e.Timestamp),
		)
	}
	return nil
}
