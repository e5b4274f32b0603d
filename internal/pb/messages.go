// Package pb defines the wire contract between BeanCounter and its
// callers: the BeanCounter gRPC service and the request/response
// messages it exchanges. It is maintained by hand in the shape a
// protoc-gen-go output would take (GetXxx accessors, enums as typed
// int32s) since this repository has no protobuf compiler step.
package pb

import "google.golang.org/protobuf/types/known/timestamppb"

// TransactionType is the ledger rail+direction a Transaction posted against.
type TransactionType int32

const (
	TransactionType_DEBIT        TransactionType = 0
	TransactionType_CREDIT       TransactionType = 1
	TransactionType_PROMO_CREDIT TransactionType = 2
	TransactionType_PROMO_DEBIT  TransactionType = 3
)

func (t TransactionType) String() string {
	switch t {
	case TransactionType_DEBIT:
		return "debit"
	case TransactionType_CREDIT:
		return "credit"
	case TransactionType_PROMO_CREDIT:
		return "promo_credit"
	case TransactionType_PROMO_DEBIT:
		return "promo_debit"
	default:
		return "unknown"
	}
}

// TransactionReason is why a Transaction was posted.
type TransactionReason int32

const (
	TransactionReason_MESSAGE_READ   TransactionReason = 0
	TransactionReason_MESSAGE_UNREAD TransactionReason = 1
	TransactionReason_MESSAGE_SENT   TransactionReason = 2
	TransactionReason_CREDIT_ADDED   TransactionReason = 3
	TransactionReason_PAYOUT         TransactionReason = 4
)

func (r TransactionReason) String() string {
	switch r {
	case TransactionReason_MESSAGE_READ:
		return "message_read"
	case TransactionReason_MESSAGE_UNREAD:
		return "message_unread"
	case TransactionReason_MESSAGE_SENT:
		return "message_sent"
	case TransactionReason_CREDIT_ADDED:
		return "credit_added"
	case TransactionReason_PAYOUT:
		return "payout"
	default:
		return "unknown"
	}
}

// PaymentResult is the in-band outcome of AddPayment / ConnectPayout.
type PaymentResult int32

const (
	PaymentResult_SUCCESS               PaymentResult = 0
	PaymentResult_INSUFFICIENT_BALANCE  PaymentResult = 1
	PaymentResult_INVALID_AMOUNT        PaymentResult = 2
)

// ChargeResult is the in-band outcome of StripeCharge.
type ChargeResult int32

const (
	ChargeResult_SUCCESS ChargeResult = 0
	ChargeResult_FAILURE ChargeResult = 1
)

// ConnectAccountState reflects whether a Stripe Connect account has completed onboarding.
type ConnectAccountState int32

const (
	ConnectAccountState_INACTIVE ConnectAccountState = 0
	ConnectAccountState_ACTIVE   ConnectAccountState = 1
)

// ServingStatus mirrors grpc.health.v1's serving states, carried on our own Check RPC.
type ServingStatus int32

const (
	ServingStatus_NOT_SERVING ServingStatus = 0
	ServingStatus_SERVING     ServingStatus = 1
)

// GetBalanceRequest requests a client's current balance partition.
type GetBalanceRequest struct {
	ClientId string
}

func (m *GetBalanceRequest) GetClientId() string {
	if m == nil {
		return ""
	}
	return m.ClientId
}

// BalanceResponse is the current balance partition for one client.
type BalanceResponse struct {
	ClientId          string
	BalanceCents      int64
	PromoCents        int64
	WithdrawableCents int64
	UpdatedAt         *timestamppb.Timestamp
}

// GetTransactionsRequest lists recent ledger entries for a client.
type GetTransactionsRequest struct {
	ClientId string
	Limit    int32
}

func (m *GetTransactionsRequest) GetClientId() string {
	if m == nil {
		return ""
	}
	return m.ClientId
}

func (m *GetTransactionsRequest) GetLimit() int32 {
	if m == nil {
		return 0
	}
	return m.Limit
}

// Transaction is one append-only ledger entry.
type Transaction struct {
	Id          int64
	CreatedAt   *timestamppb.Timestamp
	ClientId    string
	TxType      TransactionType
	TxReason    TransactionReason
	AmountCents int64
}

// GetTransactionsResponse is the most-recent-first page of a client's ledger.
type GetTransactionsResponse struct {
	Transactions []*Transaction
}

// AddPaymentRequest escrows funds from the sender against a message hash.
type AddPaymentRequest struct {
	ClientIdFrom string
	ClientIdTo   string
	MessageHash  []byte
	PaymentCents int32
	IsPromo      bool
}

func (m *AddPaymentRequest) GetClientIdFrom() string {
	if m == nil {
		return ""
	}
	return m.ClientIdFrom
}

func (m *AddPaymentRequest) GetClientIdTo() string {
	if m == nil {
		return ""
	}
	return m.ClientIdTo
}

func (m *AddPaymentRequest) GetMessageHash() []byte {
	if m == nil {
		return nil
	}
	return m.MessageHash
}

func (m *AddPaymentRequest) GetPaymentCents() int32 {
	if m == nil {
		return 0
	}
	return m.PaymentCents
}

func (m *AddPaymentRequest) GetIsPromo() bool {
	if m == nil {
		return false
	}
	return m.IsPromo
}

// AddPaymentResponse carries the sender's balance after a successful hold.
type AddPaymentResponse struct {
	Result            PaymentResult
	BalanceCents      int64
	PromoCents        int64
	WithdrawableCents int64
}

// SettlePaymentRequest releases an escrowed payment to its recipient.
type SettlePaymentRequest struct {
	ClientIdTo  string
	MessageHash []byte
}

func (m *SettlePaymentRequest) GetClientIdTo() string {
	if m == nil {
		return ""
	}
	return m.ClientIdTo
}

func (m *SettlePaymentRequest) GetMessageHash() []byte {
	if m == nil {
		return nil
	}
	return m.MessageHash
}

// SettlePaymentResponse carries the settlement outcome and the recipient's RAL.
type SettlePaymentResponse struct {
	Result            PaymentResult
	ClientIdFrom      string
	FeeCents          int64
	PaymentCents      int64
	BalanceCents      int64
	WithdrawableCents int64
	Ral               int64
}

// AddCreditsRequest is an external top-up landing in a client's spendable balance.
type AddCreditsRequest struct {
	ClientId    string
	AmountCents int32
}

func (m *AddCreditsRequest) GetClientId() string {
	if m == nil {
		return ""
	}
	return m.ClientId
}

func (m *AddCreditsRequest) GetAmountCents() int32 {
	if m == nil {
		return 0
	}
	return m.AmountCents
}

// AddPromoRequest credits a client's promotional balance.
type AddPromoRequest struct {
	ClientId    string
	AmountCents int32
}

func (m *AddPromoRequest) GetClientId() string {
	if m == nil {
		return ""
	}
	return m.ClientId
}

func (m *AddPromoRequest) GetAmountCents() int32 {
	if m == nil {
		return 0
	}
	return m.AmountCents
}

// ConnectPayoutRequest disburses withdrawable funds via Stripe Connect.
type ConnectPayoutRequest struct {
	ClientId    string
	AmountCents int32
}

func (m *ConnectPayoutRequest) GetClientId() string {
	if m == nil {
		return ""
	}
	return m.ClientId
}

func (m *ConnectPayoutRequest) GetAmountCents() int32 {
	if m == nil {
		return 0
	}
	return m.AmountCents
}

// ConnectPayoutResponse carries the payout outcome and the client's post-payout balance.
type ConnectPayoutResponse struct {
	Result            PaymentResult
	BalanceCents      int64
	WithdrawableCents int64
}

// StripeChargeRequest captures a card charge via an opaque provider token.
type StripeChargeRequest struct {
	ClientId    string
	AmountCents int32
	Token       string
}

func (m *StripeChargeRequest) GetClientId() string {
	if m == nil {
		return ""
	}
	return m.ClientId
}

func (m *StripeChargeRequest) GetAmountCents() int32 {
	if m == nil {
		return 0
	}
	return m.AmountCents
}

func (m *StripeChargeRequest) GetToken() string {
	if m == nil {
		return ""
	}
	return m.Token
}

// StripeChargeResponse carries the charge outcome.
type StripeChargeResponse struct {
	Result      ChargeResult
	ApiResponse string
	Message     string
	BalanceCents int64
}

// CompleteConnectOauthRequest finishes the Stripe Connect OAuth exchange.
type CompleteConnectOauthRequest struct {
	ClientId string
	Code     string
	State    string
}

func (m *CompleteConnectOauthRequest) GetClientId() string {
	if m == nil {
		return ""
	}
	return m.ClientId
}

func (m *CompleteConnectOauthRequest) GetCode() string {
	if m == nil {
		return ""
	}
	return m.Code
}

func (m *CompleteConnectOauthRequest) GetState() string {
	if m == nil {
		return ""
	}
	return m.State
}

// GetConnectAccountRequest fetches (and lazily creates) a client's Connect account record.
type GetConnectAccountRequest struct {
	ClientId string
}

func (m *GetConnectAccountRequest) GetClientId() string {
	if m == nil {
		return ""
	}
	return m.ClientId
}

// ConnectAccountInfo describes a client's Stripe Connect onboarding state.
// At most one of LoginLinkUrl / OauthUrl is set, mirroring a oneof.
type ConnectAccountInfo struct {
	ClientId     string
	State        ConnectAccountState
	LoginLinkUrl *string
	OauthUrl     *string
}

// UpdateConnectAccountPrefsRequest updates automatic-payout preferences.
type UpdateConnectAccountPrefsRequest struct {
	ClientId                      string
	EnableAutomaticPayouts        bool
	AutomaticPayoutThresholdCents int64
}

func (m *UpdateConnectAccountPrefsRequest) GetClientId() string {
	if m == nil {
		return ""
	}
	return m.ClientId
}

// GetStatsRequest has no parameters; GetStats reports platform-wide aggregates.
type GetStatsRequest struct{}

// ReasonSum is the total amount_cents posted under one tx_reason on one day.
type ReasonSum struct {
	Date        string
	TxReason    TransactionReason
	AmountCents int64
}

// ClientSum is one client's total amount_cents in the top-clients ranking.
type ClientSum struct {
	ClientId    string
	AmountCents int64
}

// GetStatsResponse carries the daily-sums and top-clients aggregations.
type GetStatsResponse struct {
	DailySums  []*ReasonSum
	TopClients []*ClientSum
}

// CheckRequest is the health-probe request; it carries no parameters.
type CheckRequest struct{}

// CheckResponse carries the service's current serving status.
type CheckResponse struct {
	Status ServingStatus
}
