package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/umpyre-code/beancounter/internal/store"
)

// ErrOauthStateMismatch is returned by CompleteOauth when the state
// parameter returned by the provider does not match the one issued by
// GetAccount for this client — the CSRF check from spec.md §4.6.
var ErrOauthStateMismatch = errors.New("payments: oauth state mismatch")

// AccountState mirrors the wire ConnectAccountState enum.
type AccountState int

const (
	AccountInactive AccountState = iota
	AccountActive
)

// AccountInfo is the lifecycle-adapter's view of a client's Connect
// onboarding state. At most one of LoginLinkURL / OauthURL is set.
type AccountInfo struct {
	ClientID     string
	State        AccountState
	LoginLinkURL *string
	OauthURL     *string
}

// ConnectAccounts implements the Connect account lifecycle (spec.md
// §4.6): lazy account creation, the OAuth CSRF handshake, and
// automatic-payout preference updates. It never touches Balance rows.
type ConnectAccounts struct {
	store    store.Store
	exchange OAuthExchanger
}

// NewConnectAccounts wraps a Store and an OAuthExchanger.
func NewConnectAccounts(s store.Store, exchange OAuthExchanger) *ConnectAccounts {
	return &ConnectAccounts{store: s, exchange: exchange}
}

// GetAccount returns (lazily creating) a client's Connect onboarding
// state. INACTIVE carries the authorize URL the client should visit
// next; ACTIVE carries a login link into their existing account.
func (c *ConnectAccounts) GetAccount(ctx context.Context, clientID string) (*AccountInfo, error) {
	account, err := c.store.GetConnectAccount(ctx, clientID)
	if errors.Is(err, store.ErrNotFound) {
		account, err = c.store.CreateConnectAccount(ctx, &store.ConnectAccount{ClientID: clientID})
	}
	if err != nil {
		return nil, fmt.Errorf("get connect account: %w", err)
	}

	if account.StripeUserID != nil {
		loginLink := loginLinkURL(*account.StripeUserID)
		return &AccountInfo{ClientID: clientID, State: AccountActive, LoginLinkURL: &loginLink}, nil
	}

	oauthURL := c.exchange.AuthorizeURL(account.OauthState)
	return &AccountInfo{ClientID: clientID, State: AccountInactive, OauthURL: &oauthURL}, nil
}

// loginLinkURL builds the dashboard login link for an onboarded
// Connect account. Stripe's real login-link endpoint requires a signed
// server-side call per request; this constructs the stable dashboard
// URL shape used when that call isn't wired (no capability interface
// exposes it — see DESIGN.md).
func loginLinkURL(stripeUserID string) string {
	return "https://dashboard.stripe.com/" + stripeUserID
}

// CompleteOauth finishes the Connect OAuth handshake: it checks the
// CSRF state, exchanges the code for a provider account, and persists
// the result.
func (c *ConnectAccounts) CompleteOauth(ctx context.Context, clientID, code, state string) (*AccountInfo, error) {
	account, err := c.store.GetConnectAccount(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("complete oauth: load account: %w", err)
	}
	if account.OauthState != state {
		return nil, ErrOauthStateMismatch
	}

	result, err := c.exchange.ExchangeCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("complete oauth: exchange code: %w", err)
	}

	updated, err := c.store.CompleteConnectAccount(ctx, clientID, result.StripeUserID, result.ConnectAccount, result.ConnectCredentials)
	if err != nil {
		return nil, fmt.Errorf("complete oauth: persist: %w", err)
	}

	loginLink := loginLinkURL(*updated.StripeUserID)
	return &AccountInfo{ClientID: clientID, State: AccountActive, LoginLinkURL: &loginLink}, nil
}

// UpdatePrefs updates automatic-payout preferences; it has no ledger
// side-effects, matching spec.md §4.6.
func (c *ConnectAccounts) UpdatePrefs(ctx context.Context, clientID string, enableAutomaticPayouts bool, thresholdCents int64) (*AccountInfo, error) {
	account, err := c.store.UpdateConnectAccountPrefs(ctx, clientID, enableAutomaticPayouts, thresholdCents)
	if err != nil {
		return nil, fmt.Errorf("update connect prefs: %w", err)
	}

	if account.StripeUserID != nil {
		loginLink := loginLinkURL(*account.StripeUserID)
		return &AccountInfo{ClientID: clientID, State: AccountActive, LoginLinkURL: &loginLink}, nil
	}
	oauthURL := c.exchange.AuthorizeURL(account.OauthState)
	return &AccountInfo{ClientID: clientID, State: AccountInactive, OauthURL: &oauthURL}, nil
}
