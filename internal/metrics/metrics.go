package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/congo-pay/pinledger/internal/ledger"
)

// Operation names used as the "operation" label.
const (
	OpOpen         = "open"
	OpAuthenticate = "authenticate"
	OpDeposit      = "deposit"
	OpWithdraw     = "withdraw"
	OpTransfer     = "transfer"
)

// Collector records ledger operation metrics on its own registry.
type Collector struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	accounts   prometheus.Gauge
}

// NewCollector builds a collector with a private registry.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Collector{
		registry: registry,
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_operations_total",
			Help: "Ledger operations by outcome",
		}, []string{"operation", "result"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ledger_operation_duration_seconds",
			Help:    "Time taken by ledger operations",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		accounts: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ledger_accounts",
			Help: "Number of open accounts",
		}),
	}
}

// Observe records one operation. A nil collector is a no-op.
func (c *Collector) Observe(operation string, started time.Time, err error) {
	if c == nil {
		return
	}
	c.operations.WithLabelValues(operation, ResultLabel(err)).Inc()
	c.duration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

// SetAccounts sets the open accounts gauge.
func (c *Collector) SetAccounts(n int) {
	if c == nil {
		return
	}
	c.accounts.Set(float64(n))
}

// Handler exposes the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ResultLabel maps an operation error to a bounded label value.
func ResultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ledger.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ledger.ErrBalanceLimit):
		return "balance_limit"
	case errors.Is(err, ledger.ErrTargetNotFound):
		return "target_not_found"
	case errors.Is(err, ledger.ErrAccountNotFound):
		return "account_not_found"
	case errors.Is(err, ledger.ErrAuthFailure):
		return "auth_failure"
	case errors.Is(err, ledger.ErrSelfTransfer):
		return "self_transfer"
	case errors.Is(err, ledger.ErrInvalidPIN), errors.Is(err, ledger.ErrInvalidHolderName):
		return "invalid_request"
	default:
		return "error"
	}
}
