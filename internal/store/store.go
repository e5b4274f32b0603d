package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a lookup by id/hash finds no row.
var ErrNotFound = errors.New("store: not found")

// Store is the persistence contract the Ledger, Escrow, and RAL
// components depend on. PostgresStore is the only production
// implementation; tests substitute an in-memory fake.
type Store interface {
	// FetchOrInitBalance returns a client's current Balance, creating a
	// zeroed row on first reference. It does not take a row lock; callers
	// that intend to mutate the balance afterward must do so through
	// ApplyLedgerEntries, which locks and upserts the row itself.
	FetchOrInitBalance(ctx context.Context, clientID string) (*Balance, error)

	// ApplyLedgerEntries atomically inserts entries and applies the
	// paired balance deltas, locking each distinct balance row (in
	// ascending client_id order when more than one is touched) for the
	// duration of the transaction. It fails the whole unit if any
	// resulting balance would go negative or would leave
	// withdrawable_cents > balance_cents.
	ApplyLedgerEntries(ctx context.Context, entries []LedgerEntry, deltas []BalanceDelta) ([]*Balance, error)

	// CreatePayment inserts a Payment row. If message_hash already has a
	// row, it returns that existing row and created=false instead of
	// erroring — the UNIQUE constraint is the idempotency guarantee.
	CreatePayment(ctx context.Context, p *Payment) (created bool, existing *Payment, err error)

	// TakePayment deletes and returns the Payment row matching
	// messageHash atomically. If clientIDTo on the row is nil, it is
	// bound to the caller-supplied clientIDTo as part of the same
	// statement. Returns ErrNotFound if no Held payment matches.
	TakePayment(ctx context.Context, clientIDTo string, messageHash []byte) (*Payment, error)

	// ListTransactions returns a client's most-recent-first ledger page.
	ListTransactions(ctx context.Context, clientID string, limit int) ([]*Transaction, error)

	// ListReadCredits returns the amount_cents of a client's most recent
	// MESSAGE_READ credits, most-recent-first, capped at limit rows.
	ListReadCredits(ctx context.Context, clientID string, limit int) ([]int64, error)

	// Stats returns platform-wide aggregates for GetStats.
	Stats(ctx context.Context) (*Stats, error)

	// GetConnectAccount returns a client's Connect account row, or
	// ErrNotFound if none exists yet.
	GetConnectAccount(ctx context.Context, clientID string) (*ConnectAccount, error)

	// CreateConnectAccount inserts a fresh INACTIVE Connect account row
	// with the given oauth_state, returning it. Safe to call concurrently
	// for the same client: a pre-existing row wins (ON CONFLICT DO NOTHING
	// semantics), and the winning row is returned either way.
	CreateConnectAccount(ctx context.Context, a *ConnectAccount) (*ConnectAccount, error)

	// CompleteConnectAccount persists the result of a successful OAuth
	// exchange: stripe_user_id and the opaque account/credentials blobs.
	CompleteConnectAccount(ctx context.Context, clientID, stripeUserID string, connectAccount, connectCredentials []byte) (*ConnectAccount, error)

	// UpdateConnectAccountPrefs updates the automatic-payout preference
	// fields without touching onboarding state.
	UpdateConnectAccountPrefs(ctx context.Context, clientID string, enableAutomaticPayouts bool, thresholdCents int64) (*ConnectAccount, error)

	// RecordConnectTransfer writes an immutable audit row for a
	// completed outbound payout.
	RecordConnectTransfer(ctx context.Context, t *ConnectTransfer) error

	// Ping verifies the underlying connection pool is reachable. The health
	// check behind the Check RPC pings the *sql.DB directly through
	// monitoring.DatabaseHealthCheck rather than calling this method.
	Ping(ctx context.Context) error
}
