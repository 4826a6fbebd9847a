package journal

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS account_transactions (
    id            UUID PRIMARY KEY,
    account_id    BIGINT NOT NULL,
    kind          TEXT NOT NULL,
    amount        NUMERIC(20, 4) NOT NULL CHECK (amount > 0),
    note          TEXT NOT NULL,
    balance_after NUMERIC(20, 4) NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS account_transactions_account_idx
    ON account_transactions (account_id, created_at);`

const insertSQL = `INSERT INTO account_transactions (id, account_id, kind, amount, note, balance_after, created_at)
        VALUES ($1, $2, $3, $4::numeric, $5, $6::numeric, $7)`

// DB is the subset of *pgxpool.Pool used by PostgresSink.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// PostgresSink appends journal entries to PostgreSQL. Entries of one call are
// sent as a single batch, which PostgreSQL runs in one implicit transaction.
type PostgresSink struct {
	db DB
}

// NewPostgresSink constructs a Postgres-backed sink.
func NewPostgresSink(db DB) *PostgresSink {
	return &PostgresSink{db: db}
}

// EnsureSchema creates the journal table when missing.
func (s *PostgresSink) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure journal schema: %w", err)
	}
	return nil
}

// Record inserts entries atomically.
func (s *PostgresSink) Record(ctx context.Context, entries ...Entry) error {
	if len(entries) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(insertSQL,
			e.ID,
			e.AccountID,
			string(e.Kind),
			e.Amount.String(),
			e.Note,
			e.BalanceAfter.String(),
			e.Timestamp.UTC(),
		)
	}

	results := s.db.SendBatch(ctx, batch)
	defer results.Close() // nolint:errcheck

	for i := range entries {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("insert journal entry %s: %w", entries[i].ID, err)
		}
	}
	return results.Close()
}
