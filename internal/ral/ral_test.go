package ral

import (
	"context"
	"errors"
	"testing"

	"github.com/umpyre-code/beancounter/internal/logging"
	"github.com/umpyre-code/beancounter/internal/store"
)

type fakeStore struct {
	amounts []int64
	err     error
}

func (f *fakeStore) ListReadCredits(ctx context.Context, clientID string, limit int) ([]int64, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit < len(f.amounts) {
		return f.amounts[:limit], nil
	}
	return f.amounts, nil
}

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

func TestCompute_BelowMinSamples(t *testing.T) {
	fs := &fakeStore{amounts: []int64{10, 20}}
	c := New(fs, DefaultWindowSize, DefaultMinSamples, logging.NewLogger(), nil)

	if got := c.Compute(context.Background(), "alice"); got != Undefined {
		t.Fatalf("expected Undefined with 2 samples, got %d", got)
	}
}

func TestCompute_QueryError(t *testing.T) {
	fs := &fakeStore{err: errors.New("boom")}
	c := New(fs, DefaultWindowSize, DefaultMinSamples, logging.NewLogger(), nil)

	if got := c.Compute(context.Background(), "alice"); got != Undefined {
		t.Fatalf("expected Undefined on query error, got %d", got)
	}
}

func TestCompute_OddCountMedian(t *testing.T) {
	fs := &fakeStore{amounts: []int64{30, 10, 20}}
	c := New(fs, DefaultWindowSize, DefaultMinSamples, logging.NewLogger(), nil)

	if got := c.Compute(context.Background(), "alice"); got != 20 {
		t.Fatalf("expected median 20, got %d", got)
	}
}

func TestCompute_EvenCountMedian(t *testing.T) {
	fs := &fakeStore{amounts: []int64{10, 20, 30, 40}}
	c := New(fs, DefaultWindowSize, DefaultMinSamples, logging.NewLogger(), nil)

	if got := c.Compute(context.Background(), "alice"); got != 25 {
		t.Fatalf("expected median 25, got %d", got)
	}
}

func TestCompute_WindowCapsSampleCount(t *testing.T) {
	fs := &fakeStore{amounts: []int64{1, 2, 3, 4, 5}}
	c := New(fs, 3, 1, logging.NewLogger(), nil)

	// store truncation happens inside ListReadCredits(limit=3): {1,2,3}
	if got := c.Compute(context.Background(), "alice"); got != 2 {
		t.Fatalf("expected median 2 over the first 3 samples, got %d", got)
	}
}
