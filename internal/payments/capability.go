// Package payments defines the capability interfaces the RPC facade
// uses to reach the external payments provider (spec.md §4.5/§4.6),
// plus the Stripe-backed implementation of all three. The core ledger
// and escrow packages never import this package or any concrete
// provider SDK.
package payments

import "context"

// ChargeOutcome is the result of a CardCharger.Charge call.
type ChargeOutcome struct {
	OK          bool
	APIResponse string
	Message     string
}

// CardCharger captures funds from an external card via an opaque,
// provider-issued token. On success the caller posts an add_credits
// ledger entry; on failure no ledger mutation occurs.
type CardCharger interface {
	Charge(ctx context.Context, clientID string, amountCents int64, token string) (*ChargeOutcome, error)
}

// TransferOutcome is the result of a ConnectTransfers.Transfer call.
type TransferOutcome struct {
	OK          bool
	ProviderRef string
}

// ConnectTransfers disburses withdrawable funds to a client's external
// Connect account. Invoked only after payout has been posted locally;
// on failure the caller compensates with ledger.CompensatePayout, which
// restores both balance_cents and withdrawable_cents.
type ConnectTransfers interface {
	Transfer(ctx context.Context, stripeUserID string, amountCents int64) (*TransferOutcome, error)
}

// OAuthResult is the outcome of a successful OAuth code exchange.
type OAuthResult struct {
	StripeUserID       string
	ConnectAccount     []byte
	ConnectCredentials []byte
}

// OAuthExchanger completes the Connect OAuth handshake: builds the
// authorize URL a client is sent to, and exchanges the returned code
// for a provider account.
type OAuthExchanger interface {
	AuthorizeURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*OAuthResult, error)
}
