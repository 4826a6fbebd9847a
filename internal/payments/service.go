package payments

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/congo-pay/pinledger/internal/journal"
	"github.com/congo-pay/pinledger/internal/ledger"
	"github.com/congo-pay/pinledger/internal/metrics"
	"github.com/congo-pay/pinledger/internal/notification"
)

// Service runs account-to-account transfers on the ledger.
type Service struct {
	ledger   *ledger.Ledger
	journal  journal.Sink
	notifier notification.Notifier
	metrics  *metrics.Collector
	logger   *slog.Logger
}

// NewService constructs a payment service. Every dependency but the ledger
// may be nil.
func NewService(led *ledger.Ledger, sink journal.Sink, notifier notification.Notifier, collector *metrics.Collector, logger *slog.Logger) *Service {
	return &Service{ledger: led, journal: sink, notifier: notifier, metrics: collector, logger: logger}
}

// TransferInput captures the data needed to move funds between accounts.
type TransferInput struct {
	FromAccountID int64
	ToAccountID   int64
	Amount        decimal.Decimal
}

// Transfer debits the source and credits the target in one ledger operation,
// then journals both records and notifies the receiving holder.
func (s *Service) Transfer(ctx context.Context, input TransferInput) (ledger.TransferResult, error) {
	start := time.Now()
	res, err := s.ledger.Transfer(ctx, input.FromAccountID, input.ToAccountID, input.Amount)
	s.metrics.Observe(metrics.OpTransfer, start, err)
	if err != nil {
		return ledger.TransferResult{}, err
	}

	if s.journal != nil {
		if err := s.journal.Record(ctx, journal.FromTransfer(res)...); err != nil {
			s.logError(ctx, "journal record failed", err)
		}
	}

	if s.notifier != nil {
		target, err := s.ledger.Lookup(ctx, res.ToAccountID)
		if err == nil {
			err = s.notifier.Send(ctx, notification.Message{
				Kind:      notification.KindTransferReceived,
				AccountID: res.ToAccountID,
				Holder:    target.HolderName(),
				Body:      fmt.Sprintf("You received %s from account %d", res.Credit.Amount.StringFixed(2), res.FromAccountID),
			})
		}
		if err != nil {
			s.logError(ctx, "transfer notification failed", err)
		}
	}

	return res, nil
}

func (s *Service) logError(ctx context.Context, msg string, err error) {
	if s.logger == nil {
		return
	}
	s.logger.ErrorContext(ctx, msg, slog.Any("error", err))
}
