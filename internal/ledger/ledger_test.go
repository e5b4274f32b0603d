package ledger

import (
	"context"
	"testing"

	"github.com/umpyre-code/beancounter/internal/store"
)

// fakeStore is a minimal in-memory store.Store used to test Ledger's
// arithmetic and sequencing without a database.
type fakeStore struct {
	balances map[string]*store.Balance
	entries  []store.LedgerEntry
}

func newFakeStore() *fakeStore {
	return &fakeStore{balances: map[string]*store.Balance{}}
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
		if b.BalanceCents < 0 || b.PromoCents < 0 || b.WithdrawableCents < 0 {
			return nil, errInvariant("negative balance")
		}
		if b.WithdrawableCents > b.BalanceCents {
			return nil, errInvariant("withdrawable exceeds balance")
		}
	}
	for id, b := range touched {
		cp := *b
		f.balances[id] = &cp
	}
	f.entries = append(f.entries, entries...)

	result := make([]*store.Balance, 0, len(deltas))
	for _, d := range deltas {
		cp := *touched[d.ClientID]
		result = append(result, &cp)
	}
	return result, nil
}

func (f *fakeStore) CreatePayment(ctx context.Context, p *store.Payment) (bool, *store.Payment, error) {
	panic("not used by ledger tests")
}
func (f *fakeStore) TakePayment(ctx context.Context, clientIDTo string, messageHash []byte) (*store.Payment, error) {
	panic("not used by ledger tests")
}
func (f *fakeStore) ListTransactions(ctx context.Context, clientID string, limit int) ([]*store.Transaction, error) {
	panic("not used by ledger tests")
}
func (f *fakeStore) ListReadCredits(ctx context.Context, clientID string, limit int) ([]int64, error) {
	panic("not used by ledger tests")
}
func (f *fakeStore) Stats(ctx context.Context) (*store.Stats, error) { panic("not used by ledger tests") }
func (f *fakeStore) GetConnectAccount(ctx context.Context, clientID string) (*store.ConnectAccount, error) {
	panic("not used by ledger tests")
}
func (f *fakeStore) CreateConnectAccount(ctx context.Context, a *store.ConnectAccount) (*store.ConnectAccount, error) {
	panic("not used by ledger tests")
}
func (f *fakeStore) CompleteConnectAccount(ctx context.Context, clientID, stripeUserID string, connectAccount, connectCredentials []byte) (*store.ConnectAccount, error) {
	panic("not used by ledger tests")
}
func (f *fakeStore) UpdateConnectAccountPrefs(ctx context.Context, clientID string, enableAutomaticPayouts bool, thresholdCents int64) (*store.ConnectAccount, error) {
	panic("not used by ledger tests")
}
func (f *fakeStore) RecordConnectTransfer(ctx context.Context, t *store.ConnectTransfer) error {
	panic("not used by ledger tests")
}
func (f *fakeStore) Ping(ctx context.Context) error { return nil }

type invariantError string

func errInvariant(msg string) error { return invariantError(msg) }
func (e invariantError) Error() string { return string(e) }

func TestFeeCents(t *testing.T) {
	l := New(newFakeStore(), DefaultFeeRateBPS)

	cases := []struct {
		payment int64
		wantFee int64
	}{
		{payment: 100, wantFee: 3},
		{payment: 10, wantFee: 1},   // floor(10*0.03)=0, clamped to 1
		{payment: 1, wantFee: 1},    // fee <= p
		{payment: 33, wantFee: 1},   // floor(33*0.03)=0 -> clamp
		{payment: 10000, wantFee: 300},
	}
	for _, c := range cases {
		if got := l.FeeCents(c.payment); got != c.wantFee {
			t.Errorf("FeeCents(%d) = %d, want %d", c.payment, got, c.wantFee)
		}
	}
}

func TestAddCredits_DoesNotIncreaseWithdrawable(t *testing.T) {
	fs := newFakeStore()
	l := New(fs, DefaultFeeRateBPS)

	b, err := l.AddCredits(context.Background(), "alice", 5000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.BalanceCents != 5000 {
		t.Fatalf("expected balance 5000, got %d", b.BalanceCents)
	}
	if b.WithdrawableCents != 0 {
		t.Fatalf("expected withdrawable 0 after a top-up, got %d", b.WithdrawableCents)
	}
}

func TestHoldPayment_InsufficientBalance(t *testing.T) {
	fs := newFakeStore()
	l := New(fs, DefaultFeeRateBPS)

	_, err := l.HoldPayment(context.Background(), "alice", 100, false)
	if err != ErrInsufficientFunds {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
}

func TestHoldPayment_ClampsWithdrawable(t *testing.T) {
	fs := newFakeStore()
	l := New(fs, DefaultFeeRateBPS)
	ctx := context.Background()

	// Give alice 1000 balance, then manually mark 400 as withdrawable as
	// if she'd already completed a message cycle.
	if _, err := l.AddCredits(ctx, "alice", 1000); err != nil {
		t.Fatal(err)
	}
	fs.balances["alice"].WithdrawableCents = 400

	b, err := l.HoldPayment(ctx, "alice", 700, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.BalanceCents != 300 {
		t.Fatalf("expected balance 300, got %d", b.BalanceCents)
	}
	if b.WithdrawableCents != 300 {
		t.Fatalf("expected withdrawable clamped to 300, got %d", b.WithdrawableCents)
	}
}

func TestReleasePayment_RealRail(t *testing.T) {
	fs := newFakeStore()
	l := New(fs, DefaultFeeRateBPS)

	b, fee, err := l.ReleasePayment(context.Background(), "bob", 100, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fee != 3 {
		t.Fatalf("expected fee 3, got %d", fee)
	}
	if b.BalanceCents != 97 || b.WithdrawableCents != 97 {
		t.Fatalf("expected balance=withdrawable=97, got %+v", b)
	}
}

func TestReleasePayment_PromoRail(t *testing.T) {
	fs := newFakeStore()
	l := New(fs, DefaultFeeRateBPS)

	b, fee, err := l.ReleasePayment(context.Background(), "bob", 40, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fee != 0 {
		t.Fatalf("expected no fee on the promo rail, got %d", fee)
	}
	if b.PromoCents != 40 {
		t.Fatalf("expected promo 40, got %d", b.PromoCents)
	}
	if b.WithdrawableCents != 0 {
		t.Fatalf("promo settlements must not become withdrawable, got %d", b.WithdrawableCents)
	}
}

func TestPayout_RequiresWithdrawable(t *testing.T) {
	fs := newFakeStore()
	l := New(fs, DefaultFeeRateBPS)
	ctx := context.Background()

	if _, err := l.AddCredits(ctx, "alice", 5000); err != nil {
		t.Fatal(err)
	}
	if _, err := l.Payout(ctx, "alice", 1000); err != ErrInsufficientFunds {
		t.Fatalf("expected ErrInsufficientFunds for a top-up with nothing withdrawable, got %v", err)
	}
}

func TestPayout_DebitsBothFields(t *testing.T) {
	fs := newFakeStore()
	l := New(fs, DefaultFeeRateBPS)

	fs.balances["alice"] = &store.Balance{ClientID: "alice", BalanceCents: 1000, WithdrawableCents: 1000}

	b, err := l.Payout(context.Background(), "alice", 500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.BalanceCents != 500 || b.WithdrawableCents != 500 {
		t.Fatalf("expected balance=withdrawable=500, got %+v", b)
	}
}

func TestCompensatePayout_RestoresBothFields(t *testing.T) {
	fs := newFakeStore()
	l := New(fs, DefaultFeeRateBPS)
	ctx := context.Background()

	fs.balances["alice"] = &store.Balance{ClientID: "alice", BalanceCents: 1000, WithdrawableCents: 1000}
	if _, err := l.Payout(ctx, "alice", 500); err != nil {
		t.Fatal(err)
	}

	b, err := l.CompensatePayout(ctx, "alice", 500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.BalanceCents != 1000 || b.WithdrawableCents != 1000 {
		t.Fatalf("expected payout fully reversed, got %+v", b)
	}
}

func TestRoundTrip_AddPaymentThenSettle(t *testing.T) {
	fs := newFakeStore()
	l := New(fs, DefaultFeeRateBPS)
	ctx := context.Background()

	if _, err := l.AddCredits(ctx, "alice", 1000); err != nil {
		t.Fatal(err)
	}
	aliceAfterHold, err := l.HoldPayment(ctx, "alice", 100, false)
	if err != nil {
		t.Fatal(err)
	}
	if aliceAfterHold.BalanceCents != 900 {
		t.Fatalf("expected alice balance 900 after hold, got %d", aliceAfterHold.BalanceCents)
	}

	bob, fee, err := l.ReleasePayment(ctx, "bob", 100, false)
	if err != nil {
		t.Fatal(err)
	}
	if fee != 3 {
		t.Fatalf("expected fee 3, got %d", fee)
	}
	if bob.BalanceCents != 97 || bob.WithdrawableCents != 97 {
		t.Fatalf("expected bob balance=withdrawable=97, got %+v", bob)
	}
}
