package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// PostgresStore is the database/sql + lib/pq implementation of Store.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore wraps an already-connected pool.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) FetchOrInitBalance(ctx context.Context, clientID string) (*Balance, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT balance_cents, promo_cents, withdrawable_cents, created_at, updated_at
		FROM balances WHERE client_id = $1
	`, clientID)

	b := &Balance{ClientID: clientID}
	err := row.Scan(&b.BalanceCents, &b.PromoCents, &b.WithdrawableCents, &b.CreatedAt, &b.UpdatedAt)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("fetch balance for %s: %w", clientID, err)
	}

	row = s.db.QueryRowContext(ctx, `
		INSERT INTO balances (client_id, balance_cents, promo_cents, withdrawable_cents, created_at, updated_at)
		VALUES ($1, 0, 0, 0, NOW(), NOW())
		ON CONFLICT (client_id) DO UPDATE SET client_id = balances.client_id
		RETURNING balance_cents, promo_cents, withdrawable_cents, created_at, updated_at
	`, clientID)
	if err := row.Scan(&b.BalanceCents, &b.PromoCents, &b.WithdrawableCents, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, fmt.Errorf("init balance for %s: %w", clientID, err)
	}
	return b, nil
}

// ApplyLedgerEntries locks every distinct balance row touched by deltas
// (ascending client_id order avoids deadlocks with a concurrent two-client
// operation taking the same two locks), applies the deltas, validates the
// at-rest invariants, then inserts the ledger entries. All in one
// transaction.
func (s *PostgresStore) ApplyLedgerEntries(ctx context.Context, entries []LedgerEntry, deltas []BalanceDelta) ([]*Balance, error) {
	if len(deltas) == 0 {
		return nil, nil
	}

	clientIDs := make([]string, 0, len(deltas))
	seen := make(map[string]bool, len(deltas))
	for _, d := range deltas {
		if !seen[d.ClientID] {
			seen[d.ClientID] = true
			clientIDs = append(clientIDs, d.ClientID)
		}
	}
	sort.Strings(clientIDs)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin ledger transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback is a no-op after commit

	balances := make(map[string]*Balance, len(clientIDs))
	for _, id := range clientIDs {
		b, err := s.lockOrInitBalance(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		balances[id] = b
	}

	for _, d := range deltas {
		b := balances[d.ClientID]
		b.BalanceCents += d.BalanceCentsDelta
		b.PromoCents += d.PromoCentsDelta
		b.WithdrawableCents += d.WithdrawableCentsDelta

		if b.BalanceCents < 0 || b.PromoCents < 0 || b.WithdrawableCents < 0 {
			return nil, fmt.Errorf("ledger posting would drive client %s negative", d.ClientID)
		}
		if b.WithdrawableCents > b.BalanceCents {
			return nil, fmt.Errorf("ledger posting would leave withdrawable_cents > balance_cents for client %s", d.ClientID)
		}
	}

	for _, id := range clientIDs {
		b := balances[id]
		_, err := tx.ExecContext(ctx, `
			UPDATE balances
			SET balance_cents = $1, promo_cents = $2, withdrawable_cents = $3, updated_at = NOW()
			WHERE client_id = $4
		`, b.BalanceCents, b.PromoCents, b.WithdrawableCents, id)
		if err != nil {
			return nil, fmt.Errorf("update balance for %s: %w", id, err)
		}
	}

	for _, e := range entries {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO transactions (created_at, client_id, tx_type, tx_reason, amount_cents)
			VALUES (NOW(), $1, $2, $3, $4)
		`, e.ClientID, string(e.TxType), string(e.TxReason), e.AmountCents)
		if err != nil {
			return nil, fmt.Errorf("insert ledger entry for %s: %w", e.ClientID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit ledger transaction: %w", err)
	}

	result := make([]*Balance, 0, len(deltas))
	for _, d := range deltas {
		b := *balances[d.ClientID]
		result = append(result, &b)
	}
	return result, nil
}

func (s *PostgresStore) lockOrInitBalance(ctx context.Context, tx *sql.Tx, clientID string) (*Balance, error) {
	b := &Balance{ClientID: clientID}
	row := tx.QueryRowContext(ctx, `
		SELECT balance_cents, promo_cents, withdrawable_cents, created_at, updated_at
		FROM balances WHERE client_id = $1
		FOR UPDATE
	`, clientID)
	err := row.Scan(&b.BalanceCents, &b.PromoCents, &b.WithdrawableCents, &b.CreatedAt, &b.UpdatedAt)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("lock balance for %s: %w", clientID, err)
	}

	row = tx.QueryRowContext(ctx, `
		INSERT INTO balances (client_id, balance_cents, promo_cents, withdrawable_cents, created_at, updated_at)
		VALUES ($1, 0, 0, 0, NOW(), NOW())
		RETURNING balance_cents, promo_cents, withdrawable_cents, created_at, updated_at
	`, clientID)
	if err := row.Scan(&b.BalanceCents, &b.PromoCents, &b.WithdrawableCents, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, fmt.Errorf("init balance for %s: %w", clientID, err)
	}
	return b, nil
}

func (s *PostgresStore) CreatePayment(ctx context.Context, p *Payment) (bool, *Payment, error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO payments (id, created_at, client_id_from, client_id_to, payment_cents, message_hash, is_promo)
		VALUES ($1, NOW(), $2, $3, $4, $5, $6)
	`, p.ID, p.ClientIDFrom, p.ClientIDTo, p.PaymentCents, p.MessageHash, p.IsPromo)
	if err == nil {
		return true, p, nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		existing, findErr := s.findPaymentByHash(ctx, p.MessageHash)
		if findErr != nil {
			return false, nil, findErr
		}
		return false, existing, nil
	}
	return false, nil, fmt.Errorf("insert payment: %w", err)
}

func (s *PostgresStore) findPaymentByHash(ctx context.Context, messageHash []byte) (*Payment, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, client_id_from, client_id_to, payment_cents, message_hash, is_promo
		FROM payments WHERE message_hash = $1
	`, messageHash)
	p := &Payment{}
	if err := row.Scan(&p.ID, &p.CreatedAt, &p.ClientIDFrom, &p.ClientIDTo, &p.PaymentCents, &p.MessageHash, &p.IsPromo); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find payment by hash: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) TakePayment(ctx context.Context, clientIDTo string, messageHash []byte) (*Payment, error) {
	row := s.db.QueryRowContext(ctx, `
		DELETE FROM payments
		WHERE message_hash = $1 AND (client_id_to IS NULL OR client_id_to = $2)
		RETURNING id, created_at, client_id_from, client_id_to, payment_cents, message_hash, is_promo
	`, messageHash, clientIDTo)

	p := &Payment{}
	if err := row.Scan(&p.ID, &p.CreatedAt, &p.ClientIDFrom, &p.ClientIDTo, &p.PaymentCents, &p.MessageHash, &p.IsPromo); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("take payment: %w", err)
	}
	if p.ClientIDTo == nil {
		p.ClientIDTo = &clientIDTo
	}
	return p, nil
}

func (s *PostgresStore) ListTransactions(ctx context.Context, clientID string, limit int) ([]*Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, client_id, tx_type, tx_reason, amount_cents
		FROM transactions
		WHERE client_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, clientID, limit)
	if err != nil {
		return nil, fmt.Errorf("list transactions for %s: %w", clientID, err)
	}
	defer rows.Close()

	var out []*Transaction
	for rows.Next() {
		t := &Transaction{}
		var txType, txReason string
		if err := rows.Scan(&t.ID, &t.CreatedAt, &t.ClientID, &txType, &txReason, &t.AmountCents); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.TxType = TransactionType(txType)
		t.TxReason = TransactionReason(txReason)
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *PostgresStore) ListReadCredits(ctx context.Context, clientID string, limit int) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT amount_cents FROM transactions
		WHERE client_id = $1 AND tx_reason = $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3
	`, clientID, string(ReasonMessageRead), limit)
	if err != nil {
		return nil, fmt.Errorf("list read credits for %s: %w", clientID, err)
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var amt int64
		if err := rows.Scan(&amt); err != nil {
			return nil, fmt.Errorf("scan read credit: %w", err)
		}
		out = append(out, amt)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Stats(ctx context.Context) (*Stats, error) {
	dailyRows, err := s.db.QueryContext(ctx, `
		SELECT to_char(date_trunc('day', created_at), 'YYYY-MM-DD') AS day, tx_reason, SUM(amount_cents)
		FROM transactions
		GROUP BY day, tx_reason
		ORDER BY day DESC, tx_reason ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("daily stats: %w", err)
	}
	defer dailyRows.Close()

	stats := &Stats{}
	for dailyRows.Next() {
		var rs ReasonSum
		var reason string
		if err := dailyRows.Scan(&rs.Date, &reason, &rs.AmountCents); err != nil {
			return nil, fmt.Errorf("scan daily stat: %w", err)
		}
		rs.TxReason = TransactionReason(reason)
		stats.DailySums = append(stats.DailySums, rs)
	}
	if err := dailyRows.Err(); err != nil {
		return nil, err
	}

	clientRows, err := s.db.QueryContext(ctx, `
		SELECT client_id, SUM(amount_cents) AS total
		FROM transactions
		GROUP BY client_id
		ORDER BY total DESC
		LIMIT 10
	`)
	if err != nil {
		return nil, fmt.Errorf("top clients: %w", err)
	}
	defer clientRows.Close()

	for clientRows.Next() {
		var cs ClientSum
		if err := clientRows.Scan(&cs.ClientID, &cs.AmountCents); err != nil {
			return nil, fmt.Errorf("scan client stat: %w", err)
		}
		stats.TopClients = append(stats.TopClients, cs)
	}
	return stats, clientRows.Err()
}

func (s *PostgresStore) GetConnectAccount(ctx context.Context, clientID string) (*ConnectAccount, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT client_id, oauth_state, stripe_user_id, connect_account, connect_credentials,
		       enable_automatic_payouts, automatic_payout_threshold_cents, created_at, updated_at
		FROM stripe_connect_accounts WHERE client_id = $1
	`, clientID)

	a := &ConnectAccount{}
	err := row.Scan(&a.ClientID, &a.OauthState, &a.StripeUserID, &a.ConnectAccount, &a.ConnectCredentials,
		&a.EnableAutomaticPayouts, &a.AutomaticPayoutThresholdCents, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get connect account for %s: %w", clientID, err)
	}
	return a, nil
}

func (s *PostgresStore) CreateConnectAccount(ctx context.Context, a *ConnectAccount) (*ConnectAccount, error) {
	if a.OauthState == "" {
		a.OauthState = uuid.New().String()
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO stripe_connect_accounts (client_id, oauth_state, enable_automatic_payouts, automatic_payout_threshold_cents, created_at, updated_at)
		VALUES ($1, $2, false, 0, NOW(), NOW())
		ON CONFLICT (client_id) DO UPDATE SET client_id = stripe_connect_accounts.client_id
		RETURNING client_id, oauth_state, stripe_user_id, connect_account, connect_credentials,
		          enable_automatic_payouts, automatic_payout_threshold_cents, created_at, updated_at
	`, a.ClientID, a.OauthState)

	out := &ConnectAccount{}
	if err := row.Scan(&out.ClientID, &out.OauthState, &out.StripeUserID, &out.ConnectAccount, &out.ConnectCredentials,
		&out.EnableAutomaticPayouts, &out.AutomaticPayoutThresholdCents, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return nil, fmt.Errorf("create connect account for %s: %w", a.ClientID, err)
	}
	return out, nil
}

func (s *PostgresStore) CompleteConnectAccount(ctx context.Context, clientID, stripeUserID string, connectAccount, connectCredentials []byte) (*ConnectAccount, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE stripe_connect_accounts
		SET stripe_user_id = $2, connect_account = $3, connect_credentials = $4, updated_at = NOW()
		WHERE client_id = $1
		RETURNING client_id, oauth_state, stripe_user_id, connect_account, connect_credentials,
		          enable_automatic_payouts, automatic_payout_threshold_cents, created_at, updated_at
	`, clientID, stripeUserID, connectAccount, connectCredentials)

	out := &ConnectAccount{}
	err := row.Scan(&out.ClientID, &out.OauthState, &out.StripeUserID, &out.ConnectAccount, &out.ConnectCredentials,
		&out.EnableAutomaticPayouts, &out.AutomaticPayoutThresholdCents, &out.CreatedAt, &out.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("complete connect account for %s: %w", clientID, err)
	}
	return out, nil
}

func (s *PostgresStore) UpdateConnectAccountPrefs(ctx context.Context, clientID string, enableAutomaticPayouts bool, thresholdCents int64) (*ConnectAccount, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE stripe_connect_accounts
		SET enable_automatic_payouts = $2, automatic_payout_threshold_cents = $3, updated_at = NOW()
		WHERE client_id = $1
		RETURNING client_id, oauth_state, stripe_user_id, connect_account, connect_credentials,
		          enable_automatic_payouts, automatic_payout_threshold_cents, created_at, updated_at
	`, clientID, enableAutomaticPayouts, thresholdCents)

	out := &ConnectAccount{}
	err := row.Scan(&out.ClientID, &out.OauthState, &out.StripeUserID, &out.ConnectAccount, &out.ConnectCredentials,
		&out.EnableAutomaticPayouts, &out.AutomaticPayoutThresholdCents, &out.CreatedAt, &out.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update connect prefs for %s: %w", clientID, err)
	}
	return out, nil
}

func (s *PostgresStore) RecordConnectTransfer(ctx context.Context, t *ConnectTransfer) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO stripe_connect_transfers (id, created_at, client_id, amount_cents, provider_ref)
		VALUES ($1, NOW(), $2, $3, $4)
	`, t.ID, t.ClientID, t.AmountCents, t.ProviderRef)
	if err != nil {
		return fmt.Errorf("record connect transfer for %s: %w", t.ClientID, err)
	}
	return nil
}
