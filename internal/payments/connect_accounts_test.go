package payments

import (
	"context"
	"testing"

	"github.com/umpyre-code/beancounter/internal/store"
)

type fakeExchanger struct {
	authorizeURL string
	result       *OAuthResult
	err          error
}

func (f *fakeExchanger) AuthorizeURL(state string) string { return f.authorizeURL + "?state=" + state }
func (f *fakeExchanger) ExchangeCode(ctx context.Context, code string) (*OAuthResult, error) {
	return f.result, f.err
}

type fakeStore struct {
	accounts map[string]*store.ConnectAccount
}

func newFakeStore() *fakeStore {
	return &fakeStore{accounts: map[string]*store.ConnectAccount{}}
}

func (f *fakeStore) GetConnectAccount(ctx context.Context, clientID string) (*store.ConnectAccount, error) {
	a, ok := f.accounts[clientID]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeStore) CreateConnectAccount(ctx context.Context, a *store.ConnectAccount) (*store.ConnectAccount, error) {
	if existing, ok := f.accounts[a.ClientID]; ok {
		cp := *existing
		return &cp, nil
	}
	if a.OauthState == "" {
		a.OauthState = "state-" + a.ClientID
	}
	f.accounts[a.ClientID] = a
	cp := *a
	return &cp, nil
}

func (f *fakeStore) CompleteConnectAccount(ctx context.Context, clientID, stripeUserID string, connectAccount, connectCredentials []byte) (*store.ConnectAccount, error) {
	a, ok := f.accounts[clientID]
	if !ok {
		return nil, store.ErrNotFound
	}
	a.StripeUserID = &stripeUserID
	a.ConnectAccount = connectAccount
	a.ConnectCredentials = connectCredentials
	cp := *a
	return &cp, nil
}

func (f *fakeStore) UpdateConnectAccountPrefs(ctx context.Context, clientID string, enableAutomaticPayouts bool, thresholdCents int64) (*store.ConnectAccount, error) {
	a, ok := f.accounts[clientID]
	if !ok {
		return nil, store.ErrNotFound
	}
	a.EnableAutomaticPayouts = enableAutomaticPayouts
	a.AutomaticPayoutThresholdCents = thresholdCents
	cp := *a
	return &cp, nil
}

func (f *fakeStore) RecordConnectTransfer(ctx context.Context, t *store.ConnectTransfer) error { return nil }
func (f *fakeStore) FetchOrInitBalance(ctx context.Context, clientID string) (*store.Balance, error) {
	return &store.Balance{ClientID: clientID}, nil
}
func (f *fakeStore) ApplyLedgerEntries(ctx context.Context, entries []store.LedgerEntry, deltas []store.BalanceDelta) ([]*store.Balance, error) {
	return nil, nil
}
func (f *fakeStore) CreatePayment(ctx context.Context, p *store.Payment) (bool, *store.Payment, error) {
	return false, nil, nil
}
func (f *fakeStore) TakePayment(ctx context.Context, clientIDTo string, messageHash []byte) (*store.Payment, error) {
	return nil, store.ErrNotFound
}
func (f *fakeStore) ListTransactions(ctx context.Context, clientID string, limit int) ([]*store.Transaction, error) {
	return nil, nil
}
func (f *fakeStore) ListReadCredits(ctx context.Context, clientID string, limit int) ([]int64, error) {
	return nil, nil
}
func (f *fakeStore) Stats(ctx context.Context) (*store.Stats, error) { return &store.Stats{}, nil }
func (f *fakeStore) Ping(ctx context.Context) error                  { return nil }

func TestGetAccount_LazyCreateReturnsInactive(t *testing.T) {
	fs := newFakeStore()
	ca := NewConnectAccounts(fs, &fakeExchanger{authorizeURL: "https://connect.example/authorize"})

	info, err := ca.GetAccount(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.State != AccountInactive {
		t.Fatalf("expected INACTIVE for a fresh account, got %v", info.State)
	}
	if info.OauthURL == nil || info.LoginLinkURL != nil {
		t.Fatalf("expected only OauthURL set, got %+v", info)
	}
}

func TestCompleteOauth_StateMismatch(t *testing.T) {
	fs := newFakeStore()
	ca := NewConnectAccounts(fs, &fakeExchanger{authorizeURL: "https://connect.example/authorize"})

	if _, err := ca.GetAccount(context.Background(), "alice"); err != nil {
		t.Fatal(err)
	}

	_, err := ca.CompleteOauth(context.Background(), "alice", "code", "wrong-state")
	if err != ErrOauthStateMismatch {
		t.Fatalf("expected ErrOauthStateMismatch, got %v", err)
	}
}

func TestCompleteOauth_Success(t *testing.T) {
	fs := newFakeStore()
	exchanger := &fakeExchanger{
		authorizeURL: "https://connect.example/authorize",
		result:       &OAuthResult{StripeUserID: "acct_123"},
	}
	ca := NewConnectAccounts(fs, exchanger)
	ctx := context.Background()

	info, err := ca.GetAccount(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	state := fs.accounts["alice"].OauthState

	info, err = ca.CompleteOauth(ctx, "alice", "auth-code", state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.State != AccountActive {
		t.Fatalf("expected ACTIVE after completing oauth, got %v", info.State)
	}
	if info.LoginLinkURL == nil || info.OauthURL != nil {
		t.Fatalf("expected only LoginLinkURL set, got %+v", info)
	}

	again, err := ca.GetAccount(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if again.State != AccountActive {
		t.Fatalf("expected account to remain ACTIVE on re-fetch, got %v", again.State)
	}
}

func TestUpdatePrefs_NoStateChange(t *testing.T) {
	fs := newFakeStore()
	ca := NewConnectAccounts(fs, &fakeExchanger{authorizeURL: "https://connect.example/authorize"})
	ctx := context.Background()

	if _, err := ca.GetAccount(ctx, "alice"); err != nil {
		t.Fatal(err)
	}

	info, err := ca.UpdatePrefs(ctx, "alice", true, 5000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.State != AccountInactive {
		t.Fatalf("prefs update must not change onboarding state, got %v", info.State)
	}
	if !fs.accounts["alice"].EnableAutomaticPayouts || fs.accounts["alice"].AutomaticPayoutThresholdCents != 5000 {
		t.Fatalf("expected prefs persisted, got %+v", fs.accounts["alice"])
	}
}
