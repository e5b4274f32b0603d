package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/charge"
	"github.com/stripe/stripe-go/v82/oauth"
	"github.com/stripe/stripe-go/v82/transfer"

	"github.com/umpyre-code/beancounter/internal/logging"
)

// Config holds the credentials and redirect target for the Connect
// OAuth flow, and the secret key for charges/transfers.
type Config struct {
	SecretKey           string // STRIPE_SECRET_KEY
	ConnectClientID     string // STRIPE_CONNECT_CLIENT_ID
	ConnectClientSecret string // STRIPE_CONNECT_CLIENT_SECRET
	ConnectRedirectURI  string // STRIPE_CONNECT_REDIRECT_URI
	Logger              logging.Logger
}

// Stripe implements CardCharger, ConnectTransfers, and OAuthExchanger
// against github.com/stripe/stripe-go/v82.
type Stripe struct {
	cfg Config
}

// NewStripe sets the package-global Stripe API key and returns an
// adapter bound to cfg.
func NewStripe(cfg Config) *Stripe {
	stripe.Key = cfg.SecretKey
	return &Stripe{cfg: cfg}
}

// Charge captures amountCents from the card represented by token.
// client_id travels in the charge metadata so the provider's own
// dashboard can be cross-referenced against our ledger.
func (s *Stripe) Charge(ctx context.Context, clientID string, amountCents int64, token string) (*ChargeOutcome, error) {
	params := &stripe.ChargeParams{
		Amount:      stripe.Int64(amountCents),
		Currency:    stripe.String(string(stripe.CurrencyUSD)),
		Source:      &stripe.PaymentSourceSourceParams{Token: stripe.String(token)},
		Description: stripe.String(fmt.Sprintf("beancounter add_credits for %s", clientID)),
	}
	params.Params.Context = ctx
	params.AddMetadata("client_id", clientID)

	ch, err := charge.New(params)
	if err != nil {
		s.cfg.Logger.WithError(err).WithField("client_id", clientID).Warn("Stripe charge failed")
		return &ChargeOutcome{OK: false, Message: err.Error()}, nil
	}

	s.cfg.Logger.WithFields(logging.Fields{
		"client_id": clientID,
		"charge_id": ch.ID,
	}).Info("Stripe charge captured")

	return &ChargeOutcome{OK: ch.Status == "succeeded" || ch.Paid, APIResponse: ch.ID}, nil
}

// Transfer moves amountCents to a connected account via Stripe
// Connect, called only after the local payout debit has committed.
func (s *Stripe) Transfer(ctx context.Context, stripeUserID string, amountCents int64) (*TransferOutcome, error) {
	params := &stripe.TransferParams{
		Amount:      stripe.Int64(amountCents),
		Currency:    stripe.String(string(stripe.CurrencyUSD)),
		Destination: stripe.String(stripeUserID),
	}
	params.Params.Context = ctx

	tr, err := transfer.New(params)
	if err != nil {
		s.cfg.Logger.WithError(err).WithField("stripe_user_id", stripeUserID).Warn("Stripe connect transfer failed")
		return &TransferOutcome{OK: false}, nil
	}

	s.cfg.Logger.WithFields(logging.Fields{
		"stripe_user_id": stripeUserID,
		"transfer_id":    tr.ID,
	}).Info("Stripe connect transfer completed")

	return &TransferOutcome{OK: true, ProviderRef: tr.ID}, nil
}

// AuthorizeURL builds the Stripe Connect OAuth authorize link a client
// is sent to, carrying state as the CSRF token returned by GetConnectAccount.
func (s *Stripe) AuthorizeURL(state string) string {
	v := url.Values{}
	v.Set("response_type", "code")
	v.Set("client_id", s.cfg.ConnectClientID)
	v.Set("scope", "read_write")
	v.Set("redirect_uri", s.cfg.ConnectRedirectURI)
	v.Set("state", state)
	return "https://connect.stripe.com/oauth/authorize?" + v.Encode()
}

// ExchangeCode trades an OAuth authorization code for a connected
// account id, persisting the provider's token response as the opaque
// connect_credentials blob.
func (s *Stripe) ExchangeCode(ctx context.Context, code string) (*OAuthResult, error) {
	params := &stripe.OAuthTokenParams{
		GrantType: stripe.String("authorization_code"),
		Code:      stripe.String(code),
	}
	params.Params.Context = ctx

	resp, err := oauth.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe oauth exchange: %w", err)
	}

	credentials, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("marshal oauth credentials: %w", err)
	}
	account, err := json.Marshal(map[string]string{"stripe_user_id": resp.StripeUserID})
	if err != nil {
		return nil, fmt.Errorf("marshal connect account: %w", err)
	}

	return &OAuthResult{
		StripeUserID:       resp.StripeUserID,
		ConnectAccount:     account,
		ConnectCredentials: credentials,
	}, nil
}
