// Package escrow implements the per-message payment state machine:
// Absent -> Held -> Settled, keyed by message_hash. AddPayment and
// SettlePayment are the only two transitions; both are idempotent at
// the storage layer (spec.md §4.3).
package escrow

import (
	"context"
	"errors"
	"fmt"

	"github.com/umpyre-code/beancounter/internal/ledger"
	"github.com/umpyre-code/beancounter/internal/store"
)

// Result mirrors the PaymentResult enum on the wire: a business
// pre-condition outcome, never a transport error.
type Result int

const (
	ResultSuccess Result = iota
	ResultInsufficientBalance
	ResultInvalidAmount
)

// ErrPaymentNotFound is returned by SettlePayment when no Held payment
// matches the given message hash (or the recipient doesn't match).
var ErrPaymentNotFound = errors.New("escrow: payment not found")

// AddPaymentOutcome is the result of a Hold attempt.
type AddPaymentOutcome struct {
	Result  Result
	Balance *store.Balance
}

// SettlePaymentOutcome is the result of a successful settlement.
type SettlePaymentOutcome struct {
	ClientIDFrom string
	FeeCents     int64
	PaymentCents int64
	Balance      *store.Balance
}

// Escrow wraps a Ledger and a Store to implement the Held/Settled
// transitions. It never mutates Balance rows directly: all fund
// movement flows through the Ledger.
type Escrow struct {
	ledger *ledger.Ledger
	store  store.Store
}

// New constructs an Escrow.
func New(l *ledger.Ledger, s store.Store) *Escrow {
	return &Escrow{ledger: l, store: s}
}

// AddPayment holds funds on the sender and inserts a Payment row keyed
// by messageHash. A duplicate messageHash is a no-op that returns
// SUCCESS with the sender's current balance: the store's UNIQUE
// constraint is the idempotency guarantee, not an in-process check.
func (e *Escrow) AddPayment(ctx context.Context, clientIDFrom, clientIDTo string, messageHash []byte, paymentCents int64, isPromo bool) (*AddPaymentOutcome, error) {
	if paymentCents < 1 {
		return &AddPaymentOutcome{Result: ResultInvalidAmount}, nil
	}

	balance, err := e.ledger.HoldPayment(ctx, clientIDFrom, paymentCents, isPromo)
	if errors.Is(err, ledger.ErrInsufficientFunds) {
		return &AddPaymentOutcome{Result: ResultInsufficientBalance}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("add payment: hold: %w", err)
	}

	var clientIDToPtr *string
	if clientIDTo != "" {
		clientIDToPtr = &clientIDTo
	}

	created, existing, err := e.store.CreatePayment(ctx, &store.Payment{
		ClientIDFrom: clientIDFrom,
		ClientIDTo:   clientIDToPtr,
		PaymentCents: paymentCents,
		MessageHash:  messageHash,
		IsPromo:      isPromo,
	})
	if err != nil {
		return nil, fmt.Errorf("add payment: create: %w", err)
	}
	if !created {
		// A duplicate submit raced us to the UNIQUE index: the first
		// submit already holds the funds and owns the Payment row. Undo
		// the hold we just took so the sender is debited at most once.
		if _, refundErr := e.ledger.RefundPayment(ctx, clientIDFrom, paymentCents, isPromo); refundErr != nil {
			return nil, fmt.Errorf("add payment: compensate duplicate hold: %w", refundErr)
		}
		_ = existing
		currentBalance, err := e.store.FetchOrInitBalance(ctx, clientIDFrom)
		if err != nil {
			return nil, fmt.Errorf("add payment: fetch balance after duplicate: %w", err)
		}
		return &AddPaymentOutcome{Result: ResultSuccess, Balance: currentBalance}, nil
	}

	return &AddPaymentOutcome{Result: ResultSuccess, Balance: balance}, nil
}

// SettlePayment releases an escrowed payment to its recipient, net of
// fee, and is the only caller of the Ledger's release path for this
// message hash.
func (e *Escrow) SettlePayment(ctx context.Context, clientIDTo string, messageHash []byte) (*SettlePaymentOutcome, error) {
	payment, err := e.store.TakePayment(ctx, clientIDTo, messageHash)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("settle payment: take: %w", err)
	}

	balance, fee, err := e.ledger.ReleasePayment(ctx, clientIDTo, payment.PaymentCents, payment.IsPromo)
	if err != nil {
		return nil, fmt.Errorf("settle payment: release: %w", err)
	}

	return &SettlePaymentOutcome{
		ClientIDFrom: payment.ClientIDFrom,
		FeeCents:     fee,
		PaymentCents: payment.PaymentCents,
		Balance:      balance,
	}, nil
}
