package pb

import "context"

// BeanCounterServer is the service interface grpcserver.Server implements.
type BeanCounterServer interface {
	GetBalance(context.Context, *GetBalanceRequest) (*BalanceResponse, error)
	GetTransactions(context.Context, *GetTransactionsRequest) (*GetTransactionsResponse, error)
	AddPayment(context.Context, *AddPaymentRequest) (*AddPaymentResponse, error)
	SettlePayment(context.Context, *SettlePaymentRequest) (*SettlePaymentResponse, error)
	AddCredits(context.Context, *AddCreditsRequest) (*BalanceResponse, error)
	AddPromo(context.Context, *AddPromoRequest) (*BalanceResponse, error)
	ConnectPayout(context.Context, *ConnectPayoutRequest) (*ConnectPayoutResponse, error)
	StripeCharge(context.Context, *StripeChargeRequest) (*StripeChargeResponse, error)
	CompleteConnectOauth(context.Context, *CompleteConnectOauthRequest) (*ConnectAccountInfo, error)
	GetConnectAccount(context.Context, *GetConnectAccountRequest) (*ConnectAccountInfo, error)
	UpdateConnectAccountPrefs(context.Context, *UpdateConnectAccountPrefsRequest) (*ConnectAccountInfo, error)
	GetStats(context.Context, *GetStatsRequest) (*GetStatsResponse, error)
	Check(context.Context, *CheckRequest) (*CheckResponse, error)
}
