package escrow

import (
	"context"
	"testing"

	"github.com/umpyre-code/beancounter/internal/ledger"
	"github.com/umpyre-code/beancounter/internal/store"
)

// fakeStore is a minimal in-memory store.Store for escrow state-machine
// tests: it needs real balance arithmetic (delegated to Ledger) plus a
// map of payment rows keyed by message hash string.
type fakeStore struct {
	balances map[string]*store.Balance
	payments map[string]*store.Payment
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		balances: map[string]*store.Balance{},
		payments: map[string]*store.Payment{},
	}
}

func (f *fakeStore) FetchOrInitBalance(ctx context.Context, clientID string) (*store.Balance, error) {
	b, ok := f.balances[clientID]
	if !ok {
		b = &store.Balance{ClientID: clientID}
		f.balances[clientID] = b
	}
	cp := *b
	return &cp, nil
}

func (f *fakeStore) ApplyLedgerEntries(ctx context.Context, entries []store.LedgerEntry, deltas []store.BalanceDelta) ([]*store.Balance, error) {
	touched := map[string]*store.Balance{}
	for _, d := range deltas {
		b, ok := touched[d.ClientID]
		if !ok {
			cur, _ := f.FetchOrInitBalance(ctx, d.ClientID)
			b = cur
			touched[d.ClientID] = b
		}
		b.BalanceCents += d.BalanceCentsDelta
		b.PromoCents += d.PromoCentsDelta
		b.WithdrawableCents += d.WithdrawableCentsDelta
	}
	for id, b := range touched {
		cp := *b
		f.balances[id] = &cp
	}
	result := make([]*store.Balance, 0, len(deltas))
	for _, d := range deltas {
		cp := *touched[d.ClientID]
		result = append(result, &cp)
	}
	return result, nil
}

func (f *fakeStore) CreatePayment(ctx context.Context, p *store.Payment) (bool, *store.Payment, error) {
	key := string(p.MessageHash)
	if existing, ok := f.payments[key]; ok {
		return false, existing, nil
	}
	f.payments[key] = p
	return true, p, nil
}

func (f *fakeStore) TakePayment(ctx context.Context, clientIDTo string, messageHash []byte) (*store.Payment, error) {
	key := string(messageHash)
	p, ok := f.payments[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	if p.ClientIDTo != nil && *p.ClientIDTo != clientIDTo {
		return nil, store.ErrNotFound
	}
	delete(f.payments, key)
	return p, nil
}

func (f *fakeStore) ListTransactions(ctx context.Context, clientID string, limit int) ([]*store.Transaction, error) {
	return nil, nil
}
func (f *fakeStore) ListReadCredits(ctx context.Context, clientID string, limit int) ([]int64, error) {
	return nil, nil
}
func (f *fakeStore) Stats(ctx context.Context) (*store.Stats, error) { return &store.Stats{}, nil }
func (f *fakeStore) GetConnectAccount(ctx context.Context, clientID string) (*store.ConnectAccount, error) {
	return nil, store.ErrNotFound
}
func (f *fakeStore) CreateConnectAccount(ctx context.Context, a *store.ConnectAccount) (*store.ConnectAccount, error) {
	return a, nil
}
func (f *fakeStore) CompleteConnectAccount(ctx context.Context, clientID, stripeUserID string, connectAccount, connectCredentials []byte) (*store.ConnectAccount, error) {
	return nil, store.ErrNotFound
}
func (f *fakeStore) UpdateConnectAccountPrefs(ctx context.Context, clientID string, enableAutomaticPayouts bool, thresholdCents int64) (*store.ConnectAccount, error) {
	return nil, store.ErrNotFound
}
func (f *fakeStore) RecordConnectTransfer(ctx context.Context, t *store.ConnectTransfer) error {
	return nil
}
func (f *fakeStore) Ping(ctx context.Context) error { return nil }

func TestAddPayment_InvalidAmount(t *testing.T) {
	fs := newFakeStore()
	e := New(ledger.New(fs, ledger.DefaultFeeRateBPS), fs)

	out, err := e.AddPayment(context.Background(), "alice", "bob", []byte("h1"), 0, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Result != ResultInvalidAmount {
		t.Fatalf("expected ResultInvalidAmount, got %v", out.Result)
	}
}

func TestAddPayment_InsufficientBalance(t *testing.T) {
	fs := newFakeStore()
	e := New(ledger.New(fs, ledger.DefaultFeeRateBPS), fs)

	out, err := e.AddPayment(context.Background(), "alice", "bob", []byte("h1"), 100, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Result != ResultInsufficientBalance {
		t.Fatalf("expected ResultInsufficientBalance, got %v", out.Result)
	}
}

func TestAddPayment_DuplicateHashDoesNotDoubleHold(t *testing.T) {
	fs := newFakeStore()
	l := ledger.New(fs, ledger.DefaultFeeRateBPS)
	e := New(l, fs)
	ctx := context.Background()

	if _, err := l.AddCredits(ctx, "alice", 1000); err != nil {
		t.Fatal(err)
	}

	hash := []byte("h1")
	first, err := e.AddPayment(ctx, "alice", "bob", hash, 100, false)
	if err != nil {
		t.Fatal(err)
	}
	if first.Result != ResultSuccess || first.Balance.BalanceCents != 900 {
		t.Fatalf("expected first hold to succeed at 900, got %+v", first)
	}

	second, err := e.AddPayment(ctx, "alice", "bob", hash, 100, false)
	if err != nil {
		t.Fatal(err)
	}
	if second.Result != ResultSuccess {
		t.Fatalf("expected duplicate submit to report SUCCESS, got %v", second.Result)
	}
	if second.Balance.BalanceCents != 900 {
		t.Fatalf("expected sender debited exactly once (900), got %d", second.Balance.BalanceCents)
	}
}

func TestSettlePayment_NotFound(t *testing.T) {
	fs := newFakeStore()
	e := New(ledger.New(fs, ledger.DefaultFeeRateBPS), fs)

	_, err := e.SettlePayment(context.Background(), "bob", []byte("missing"))
	if err != ErrPaymentNotFound {
		t.Fatalf("expected ErrPaymentNotFound, got %v", err)
	}
}

func TestRoundTrip_HoldThenSettle(t *testing.T) {
	fs := newFakeStore()
	l := ledger.New(fs, ledger.DefaultFeeRateBPS)
	e := New(l, fs)
	ctx := context.Background()

	if _, err := l.AddCredits(ctx, "alice", 1000); err != nil {
		t.Fatal(err)
	}

	hash := []byte("h1")
	hold, err := e.AddPayment(ctx, "alice", "bob", hash, 100, false)
	if err != nil {
		t.Fatal(err)
	}
	if hold.Balance.BalanceCents != 900 {
		t.Fatalf("expected alice at 900 after hold, got %d", hold.Balance.BalanceCents)
	}

	settle, err := e.SettlePayment(ctx, "bob", hash)
	if err != nil {
		t.Fatal(err)
	}
	if settle.FeeCents != 3 {
		t.Fatalf("expected fee 3, got %d", settle.FeeCents)
	}
	if settle.ClientIDFrom != "alice" {
		t.Fatalf("expected sender alice, got %s", settle.ClientIDFrom)
	}
	if settle.Balance.BalanceCents != 97 || settle.Balance.WithdrawableCents != 97 {
		t.Fatalf("expected bob balance=withdrawable=97, got %+v", settle.Balance)
	}
}

func TestSettlePayment_OnlyOnce(t *testing.T) {
	fs := newFakeStore()
	l := ledger.New(fs, ledger.DefaultFeeRateBPS)
	e := New(l, fs)
	ctx := context.Background()

	if _, err := l.AddCredits(ctx, "alice", 1000); err != nil {
		t.Fatal(err)
	}
	hash := []byte("h1")
	if _, err := e.AddPayment(ctx, "alice", "bob", hash, 100, false); err != nil {
		t.Fatal(err)
	}
	if _, err := e.SettlePayment(ctx, "bob", hash); err != nil {
		t.Fatal(err)
	}
	if _, err := e.SettlePayment(ctx, "bob", hash); err != ErrPaymentNotFound {
		t.Fatalf("expected second settle to fail with ErrPaymentNotFound, got %v", err)
	}
}
