// Package store is BeanCounter's persistence layer: balances, the
// append-only transaction ledger, payment escrow rows, and Stripe
// Connect account/transfer records. Every mutating operation runs
// inside a single database transaction with row-level locks on the
// balance rows it touches.
package store

import "time"

// Balance is the one-per-client triple of fund partitions.
type Balance struct {
	ClientID          string
	BalanceCents      int64
	PromoCents        int64
	WithdrawableCents int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TransactionType is the ledger rail+direction a Transaction posted against.
type TransactionType string

const (
	TxTypeDebit       TransactionType = "debit"
	TxTypeCredit      TransactionType = "credit"
	TxTypePromoCredit TransactionType = "promo_credit"
	TxTypePromoDebit  TransactionType = "promo_debit"
)

// TransactionReason is why a Transaction was posted.
type TransactionReason string

const (
	ReasonMessageRead   TransactionReason = "message_read"
	ReasonMessageUnread TransactionReason = "message_unread"
	ReasonMessageSent   TransactionReason = "message_sent"
	ReasonCreditAdded   TransactionReason = "credit_added"
	ReasonPayout        TransactionReason = "payout"
)

// Transaction is one append-only ledger entry.
type Transaction struct {
	ID          int64
	CreatedAt   time.Time
	ClientID    string
	TxType      TransactionType
	TxReason    TransactionReason
	AmountCents int64
}

// LedgerEntry is a single posting the Ledger asks the Store to apply
// atomically along with its balance delta.
type LedgerEntry struct {
	ClientID    string
	TxType      TransactionType
	TxReason    TransactionReason
	AmountCents int64
}

// BalanceDelta is the change to apply to one client's Balance row,
// paired 1:1 with the LedgerEntry slice passed to ApplyLedgerEntries.
type BalanceDelta struct {
	ClientID               string
	BalanceCentsDelta      int64
	PromoCentsDelta        int64
	WithdrawableCentsDelta int64
}

// Payment is an escrow row for an unsettled message payment.
type Payment struct {
	ID           string
	CreatedAt    time.Time
	ClientIDFrom string
	ClientIDTo   *string
	PaymentCents int64
	MessageHash  []byte
	IsPromo      bool
}

// ConnectAccount is a client's Stripe Connect onboarding record.
type ConnectAccount struct {
	ClientID                      string
	OauthState                    string
	StripeUserID                  *string
	ConnectAccount                []byte
	ConnectCredentials            []byte
	EnableAutomaticPayouts        bool
	AutomaticPayoutThresholdCents int64
	CreatedAt                     time.Time
	UpdatedAt                     time.Time
}

// ConnectTransfer is an immutable audit row for a completed outbound payout.
type ConnectTransfer struct {
	ID          string
	CreatedAt   time.Time
	ClientID    string
	AmountCents int64
	ProviderRef string
}

// ReasonSum is the total amount_cents posted under one reason on one day.
type ReasonSum struct {
	Date        string
	TxReason    TransactionReason
	AmountCents int64
}

// ClientSum is one client's total amount_cents in a top-clients ranking.
type ClientSum struct {
	ClientID    string
	AmountCents int64
}

// Stats is the aggregation GetStats reports.
type Stats struct {
	DailySums  []ReasonSum
	TopClients []ClientSum
}
