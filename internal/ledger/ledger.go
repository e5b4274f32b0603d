// Package ledger is the double-entry posting engine: it is the sole
// mutator of Balance rows, enforcing the fee policy and the
// promo/balance/withdrawable partition rules on every posting.
package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/umpyre-code/beancounter/internal/store"
)

// ErrInvalidAmount is returned when an operation is asked to move a
// non-positive amount of cents.
var ErrInvalidAmount = errors.New("ledger: amount must be positive")

// ErrInsufficientFunds is returned when a hold or payout would require
// more than the relevant fund partition currently holds.
var ErrInsufficientFunds = errors.New("ledger: insufficient funds")

// DefaultFeeRateBPS is the default platform fee rate in basis points (300 = 3.00%).
const DefaultFeeRateBPS = 300

// Ledger posts fund movements against store.Store, keeping the real and
// promo rails independent and the withdrawable sub-pool bounded by
// balance_cents.
type Ledger struct {
	store      store.Store
	feeRateBPS int64
}

// New constructs a Ledger. feeRateBPS of 0 falls back to DefaultFeeRateBPS.
func New(s store.Store, feeRateBPS int64) *Ledger {
	if feeRateBPS <= 0 {
		feeRateBPS = DefaultFeeRateBPS
	}
	return &Ledger{store: s, feeRateBPS: feeRateBPS}
}

// FeeCents computes the platform fee for a real-money payment of p
// cents: max(1, floor(p * rate)), capped at p itself.
func (l *Ledger) FeeCents(paymentCents int64) int64 {
	if paymentCents <= 0 {
		return 0
	}
	fee := (paymentCents * l.feeRateBPS) / 10000
	if fee < 1 {
		fee = 1
	}
	if fee > paymentCents {
		fee = paymentCents
	}
	return fee
}

// AddCredits posts a real-money top-up. Withdrawable is untouched: topped
// up funds are spendable but not cashable.
func (l *Ledger) AddCredits(ctx context.Context, clientID string, amountCents int64) (*store.Balance, error) {
	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}
	balances, err := l.store.ApplyLedgerEntries(ctx,
		[]store.LedgerEntry{{ClientID: clientID, TxType: store.TxTypeCredit, TxReason: store.ReasonCreditAdded, AmountCents: amountCents}},
		[]store.BalanceDelta{{ClientID: clientID, BalanceCentsDelta: amountCents}},
	)
	if err != nil {
		return nil, fmt.Errorf("add credits: %w", err)
	}
	return balances[0], nil
}

// AddPromo posts a promotional top-up.
func (l *Ledger) AddPromo(ctx context.Context, clientID string, amountCents int64) (*store.Balance, error) {
	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}
	balances, err := l.store.ApplyLedgerEntries(ctx,
		[]store.LedgerEntry{{ClientID: clientID, TxType: store.TxTypePromoCredit, TxReason: store.ReasonCreditAdded, AmountCents: amountCents}},
		[]store.BalanceDelta{{ClientID: clientID, PromoCentsDelta: amountCents}},
	)
	if err != nil {
		return nil, fmt.Errorf("add promo: %w", err)
	}
	return balances[0], nil
}

// HoldPayment debits the sender to escrow a message payment. On the real
// rail, withdrawable_cents is clamped down if the post-debit balance
// falls below it; it is never increased here.
func (l *Ledger) HoldPayment(ctx context.Context, senderID string, amountCents int64, isPromo bool) (*store.Balance, error) {
	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}

	current, err := l.store.FetchOrInitBalance(ctx, senderID)
	if err != nil {
		return nil, fmt.Errorf("hold payment: fetch sender balance: %w", err)
	}

	if isPromo {
		if current.PromoCents < amountCents {
			return nil, ErrInsufficientFunds
		}
		balances, err := l.store.ApplyLedgerEntries(ctx,
			[]store.LedgerEntry{{ClientID: senderID, TxType: store.TxTypePromoDebit, TxReason: store.ReasonMessageSent, AmountCents: amountCents}},
			[]store.BalanceDelta{{ClientID: senderID, PromoCentsDelta: -amountCents}},
		)
		if err != nil {
			return nil, fmt.Errorf("hold payment: %w", err)
		}
		return balances[0], nil
	}

	if current.BalanceCents < amountCents {
		return nil, ErrInsufficientFunds
	}
	withdrawableDelta := int64(0)
	newBalanceCents := current.BalanceCents - amountCents
	if newBalanceCents < current.WithdrawableCents {
		withdrawableDelta = newBalanceCents - current.WithdrawableCents
	}
	balances, err := l.store.ApplyLedgerEntries(ctx,
		[]store.LedgerEntry{{ClientID: senderID, TxType: store.TxTypeDebit, TxReason: store.ReasonMessageSent, AmountCents: amountCents}},
		[]store.BalanceDelta{{ClientID: senderID, BalanceCentsDelta: -amountCents, WithdrawableCentsDelta: withdrawableDelta}},
	)
	if err != nil {
		return nil, fmt.Errorf("hold payment: %w", err)
	}
	return balances[0], nil
}

// ReleasePayment credits the recipient net of fee (real rail) or in full
// (promo rail) on a MESSAGE_READ settlement.
func (l *Ledger) ReleasePayment(ctx context.Context, recipientID string, amountCents int64, isPromo bool) (*store.Balance, int64, error) {
	if amountCents <= 0 {
		return nil, 0, ErrInvalidAmount
	}

	if isPromo {
		balances, err := l.store.ApplyLedgerEntries(ctx,
			[]store.LedgerEntry{{ClientID: recipientID, TxType: store.TxTypePromoCredit, TxReason: store.ReasonMessageRead, AmountCents: amountCents}},
			[]store.BalanceDelta{{ClientID: recipientID, PromoCentsDelta: amountCents}},
		)
		if err != nil {
			return nil, 0, fmt.Errorf("release payment: %w", err)
		}
		return balances[0], 0, nil
	}

	fee := l.FeeCents(amountCents)
	net := amountCents - fee
	balances, err := l.store.ApplyLedgerEntries(ctx,
		[]store.LedgerEntry{{ClientID: recipientID, TxType: store.TxTypeCredit, TxReason: store.ReasonMessageRead, AmountCents: net}},
		[]store.BalanceDelta{{ClientID: recipientID, BalanceCentsDelta: net, WithdrawableCentsDelta: net}},
	)
	if err != nil {
		return nil, 0, fmt.Errorf("release payment: %w", err)
	}
	return balances[0], fee, nil
}

// RefundPayment restores a held amount to the sender's balance_cents
// (or promo_cents), posted with reason MESSAGE_UNREAD. A withdrawable_cents
// clamp made by HoldPayment is not reversed. Its only caller is
// escrow.AddPayment, which uses it to undo the hold taken by a duplicate
// submit; no RPC drives a MESSAGE_UNREAD transition of a Held payment.
func (l *Ledger) RefundPayment(ctx context.Context, senderID string, amountCents int64, isPromo bool) (*store.Balance, error) {
	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}

	if isPromo {
		balances, err := l.store.ApplyLedgerEntries(ctx,
			[]store.LedgerEntry{{ClientID: senderID, TxType: store.TxTypePromoCredit, TxReason: store.ReasonMessageUnread, AmountCents: amountCents}},
			[]store.BalanceDelta{{ClientID: senderID, PromoCentsDelta: amountCents}},
		)
		if err != nil {
			return nil, fmt.Errorf("refund payment: %w", err)
		}
		return balances[0], nil
	}

	balances, err := l.store.ApplyLedgerEntries(ctx,
		[]store.LedgerEntry{{ClientID: senderID, TxType: store.TxTypeCredit, TxReason: store.ReasonMessageUnread, AmountCents: amountCents}},
		[]store.BalanceDelta{{ClientID: senderID, BalanceCentsDelta: amountCents}},
	)
	if err != nil {
		return nil, fmt.Errorf("refund payment: %w", err)
	}
	return balances[0], nil
}

// CompensatePayout reverses a Payout whose external transfer failed
// after the local debit committed. Unlike AddCredits it restores both
// balance_cents and withdrawable_cents, the exact mirror of Payout's
// debit, per spec.md §4.5.
func (l *Ledger) CompensatePayout(ctx context.Context, clientID string, amountCents int64) (*store.Balance, error) {
	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}
	balances, err := l.store.ApplyLedgerEntries(ctx,
		[]store.LedgerEntry{{ClientID: clientID, TxType: store.TxTypeCredit, TxReason: store.ReasonCreditAdded, AmountCents: amountCents}},
		[]store.BalanceDelta{{ClientID: clientID, BalanceCentsDelta: amountCents, WithdrawableCentsDelta: amountCents}},
	)
	if err != nil {
		return nil, fmt.Errorf("compensate payout: %w", err)
	}
	return balances[0], nil
}

// Payout debits withdrawable funds ahead of an external Connect
// transfer. Callers must post a compensating CompensatePayout if the
// external transfer subsequently fails.
func (l *Ledger) Payout(ctx context.Context, clientID string, amountCents int64) (*store.Balance, error) {
	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}

	current, err := l.store.FetchOrInitBalance(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("payout: fetch balance: %w", err)
	}
	if current.WithdrawableCents < amountCents {
		return nil, ErrInsufficientFunds
	}

	balances, err := l.store.ApplyLedgerEntries(ctx,
		[]store.LedgerEntry{{ClientID: clientID, TxType: store.TxTypeDebit, TxReason: store.ReasonPayout, AmountCents: amountCents}},
		[]store.BalanceDelta{{ClientID: clientID, BalanceCentsDelta: -amountCents, WithdrawableCentsDelta: -amountCents}},
	)
	if err != nil {
		return nil, fmt.Errorf("payout: %w", err)
	}
	return balances[0], nil
}
