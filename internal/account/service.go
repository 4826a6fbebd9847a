package account

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/congo-pay/pinledger/internal/journal"
	"github.com/congo-pay/pinledger/internal/ledger"
	"github.com/congo-pay/pinledger/internal/metrics"
)

// MaxStatementSize caps the number of entries a statement request may ask for.
const MaxStatementSize = 100

// Service exposes single-account operations backed by the ledger.
type Service struct {
	ledger        *ledger.Ledger
	journal       journal.Sink
	metrics       *metrics.Collector
	logger        *slog.Logger
	statementSize int
}

// NewService builds an account service. sink, collector and logger may be nil.
func NewService(led *ledger.Ledger, sink journal.Sink, collector *metrics.Collector, logger *slog.Logger, statementSize int) *Service {
	if statementSize <= 0 {
		statementSize = ledger.DefaultStatementSize
	}
	return &Service{ledger: led, journal: sink, metrics: collector, logger: logger, statementSize: statementSize}
}

// Open creates an account and journals its opening deposit.
func (s *Service) Open(ctx context.Context, input OpenInput) (ledger.Details, error) {
	start := time.Now()
	acc, err := s.ledger.CreateAccount(ctx, input.HolderName, input.PIN, input.InitialDeposit)
	s.metrics.Observe(metrics.OpOpen, start, err)
	if err != nil {
		return ledger.Details{}, err
	}
	s.metrics.SetAccounts(s.ledger.Len())

	details := acc.Details()
	if history := acc.History(); len(history) > 0 {
		s.record(ctx, journal.NewEntry(acc.ID(), history[0], history[0].Amount))
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "account opened", slog.Int64("account_id", acc.ID()))
	}
	return details, nil
}

// Details returns the holder name, account number and balance.
func (s *Service) Details(ctx context.Context, id int64) (ledger.Details, error) {
	acc, err := s.ledger.Lookup(ctx, id)
	if err != nil {
		return ledger.Details{}, err
	}
	return acc.Details(), nil
}

// Balance returns the current balance for the account.
func (s *Service) Balance(ctx context.Context, id int64) (Balance, error) {
	acc, err := s.ledger.Lookup(ctx, id)
	if err != nil {
		return Balance{}, err
	}
	return Balance{AccountID: id, Amount: acc.Balance(), AsOf: time.Now().UTC()}, nil
}

// Statement returns the last limit entries. A non-positive limit selects the
// configured default; larger requests are capped at MaxStatementSize.
func (s *Service) Statement(ctx context.Context, id int64, limit int) (Statement, error) {
	acc, err := s.ledger.Lookup(ctx, id)
	if err != nil {
		return Statement{}, err
	}
	if limit <= 0 {
		limit = s.statementSize
	}
	if limit > MaxStatementSize {
		limit = MaxStatementSize
	}
	return Statement{AccountID: id, Entries: acc.RecentHistory(limit)}, nil
}

// Deposit credits the account.
func (s *Service) Deposit(ctx context.Context, id int64, amount decimal.Decimal) (ledger.Posting, error) {
	start := time.Now()
	posting, err := s.deposit(ctx, id, amount)
	s.metrics.Observe(metrics.OpDeposit, start, err)
	if err != nil {
		return ledger.Posting{}, err
	}
	s.record(ctx, journal.FromPosting(id, posting))
	return posting, nil
}

func (s *Service) deposit(ctx context.Context, id int64, amount decimal.Decimal) (ledger.Posting, error) {
	acc, err := s.ledger.Lookup(ctx, id)
	if err != nil {
		return ledger.Posting{}, err
	}
	return acc.Deposit(amount)
}

// Withdraw debits the account.
func (s *Service) Withdraw(ctx context.Context, id int64, amount decimal.Decimal) (ledger.Posting, error) {
	start := time.Now()
	posting, err := s.withdraw(ctx, id, amount)
	s.metrics.Observe(metrics.OpWithdraw, start, err)
	if err != nil {
		return ledger.Posting{}, err
	}
	s.record(ctx, journal.FromPosting(id, posting))
	return posting, nil
}

func (s *Service) withdraw(ctx context.Context, id int64, amount decimal.Decimal) (ledger.Posting, error) {
	acc, err := s.ledger.Lookup(ctx, id)
	if err != nil {
		return ledger.Posting{}, err
	}
	return acc.Withdraw(amount)
}

// record forwards entries to the journal. The ledger change is already
// committed, so a journal failure is only logged.
func (s *Service) record(ctx context.Context, entries ...journal.Entry) {
	if s.journal == nil {
		return
	}
	if err := s.journal.Record(ctx, entries...); err != nil && s.logger != nil {
		s.logger.ErrorContext(ctx, "journal record failed", slog.Any("error", err))
	}
}
