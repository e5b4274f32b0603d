package grpcserver

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/umpyre-code/beancounter/internal/ledger"
	"github.com/umpyre-code/beancounter/internal/payments"
	"github.com/umpyre-code/beancounter/internal/pb"
	"github.com/umpyre-code/beancounter/internal/store"
)

// ConnectPayout disburses withdrawable funds via Stripe Connect. It
// debits locally first, then calls out to the provider; a failed or
// rejected transfer is compensated with a reversing ledger posting so
// the local debit never survives a failed external leg (spec.md §4.5).
func (s *Server) ConnectPayout(ctx context.Context, req *pb.ConnectPayoutRequest) (*pb.ConnectPayoutResponse, error) {
	clientID := req.GetClientId()
	if clientID == "" {
		return nil, status.Error(codes.InvalidArgument, "client_id is required")
	}
	if req.GetAmountCents() <= 0 {
		return &pb.ConnectPayoutResponse{Result: pb.PaymentResult_INVALID_AMOUNT}, nil
	}
	amountCents := int64(req.GetAmountCents())

	account, err := s.store.GetConnectAccount(ctx, clientID)
	if errors.Is(err, store.ErrNotFound) || (err == nil && account.StripeUserID == nil) {
		return nil, status.Error(codes.FailedPrecondition, "client has no active connect account")
	}
	if err != nil {
		s.logger.WithError(err).WithField("client_id", clientID).Error("ConnectPayout failed to load account")
		return nil, status.Error(codes.Internal, "failed to load connect account")
	}

	balance, err := s.ledger.Payout(ctx, clientID, amountCents)
	if errors.Is(err, ledger.ErrInsufficientFunds) {
		current, fetchErr := s.store.FetchOrInitBalance(ctx, clientID)
		if fetchErr != nil {
			return nil, status.Error(codes.Internal, "failed to fetch balance")
		}
		return &pb.ConnectPayoutResponse{
			Result:            pb.PaymentResult_INSUFFICIENT_BALANCE,
			BalanceCents:      current.BalanceCents,
			WithdrawableCents: current.WithdrawableCents,
		}, nil
	}
	if err != nil {
		s.logger.WithError(err).WithField("client_id", clientID).Error("ConnectPayout debit failed")
		return nil, status.Error(codes.Internal, "failed to debit payout")
	}

	outcome, transferErr := s.transfer.Transfer(ctx, *account.StripeUserID, amountCents)
	if transferErr != nil || !outcome.OK {
		balance, err = s.ledger.CompensatePayout(ctx, clientID, amountCents)
		if err != nil {
			s.logger.WithError(err).WithField("client_id", clientID).Error("ConnectPayout compensation failed")
			return nil, status.Error(codes.Internal, "payout transfer failed and could not be reversed")
		}
		s.logger.WithField("client_id", clientID).Warn("Connect transfer failed; payout reversed")
		return &pb.ConnectPayoutResponse{
			Result:            pb.PaymentResult_INSUFFICIENT_BALANCE,
			BalanceCents:      balance.BalanceCents,
			WithdrawableCents: balance.WithdrawableCents,
		}, nil
	}

	if err := s.store.RecordConnectTransfer(ctx, &store.ConnectTransfer{
		ClientID:    clientID,
		AmountCents: amountCents,
		ProviderRef: outcome.ProviderRef,
	}); err != nil {
		s.logger.WithError(err).WithField("client_id", clientID).Warn("failed to record connect transfer audit row")
	}

	return &pb.ConnectPayoutResponse{
		Result:            pb.PaymentResult_SUCCESS,
		BalanceCents:      balance.BalanceCents,
		WithdrawableCents: balance.WithdrawableCents,
	}, nil
}

// StripeCharge captures a card charge and, on success, posts the
// proceeds as a real-money top-up. A provider-side decline is an
// in-band FAILURE; only a malformed amount is an RPC-level error, since
// ChargeResult has no INVALID_AMOUNT slot.
func (s *Server) StripeCharge(ctx context.Context, req *pb.StripeChargeRequest) (*pb.StripeChargeResponse, error) {
	clientID := req.GetClientId()
	if clientID == "" {
		return nil, status.Error(codes.InvalidArgument, "client_id is required")
	}
	if req.GetAmountCents() <= 0 {
		return nil, status.Error(codes.InvalidArgument, "amount_cents must be positive")
	}
	amountCents := int64(req.GetAmountCents())

	outcome, err := s.charger.Charge(ctx, clientID, amountCents, req.GetToken())
	if err != nil {
		s.logger.WithError(err).WithField("client_id", clientID).Error("StripeCharge transport failure")
		return nil, status.Error(codes.Unavailable, "charge provider unavailable")
	}
	if !outcome.OK {
		return &pb.StripeChargeResponse{Result: pb.ChargeResult_FAILURE, Message: outcome.Message}, nil
	}

	balance, err := s.ledger.AddCredits(ctx, clientID, amountCents)
	if err != nil {
		s.logger.WithError(err).WithField("client_id", clientID).Error("StripeCharge succeeded but credit posting failed")
		return nil, status.Error(codes.Internal, "charge captured but could not be credited")
	}

	return &pb.StripeChargeResponse{
		Result:       pb.ChargeResult_SUCCESS,
		ApiResponse:  outcome.APIResponse,
		BalanceCents: balance.BalanceCents,
	}, nil
}

// CompleteConnectOauth finishes the Connect OAuth handshake.
func (s *Server) CompleteConnectOauth(ctx context.Context, req *pb.CompleteConnectOauthRequest) (*pb.ConnectAccountInfo, error) {
	clientID := req.GetClientId()
	if clientID == "" || req.GetCode() == "" || req.GetState() == "" {
		return nil, status.Error(codes.InvalidArgument, "client_id, code, and state are all required")
	}

	info, err := s.connect.CompleteOauth(ctx, clientID, req.GetCode(), req.GetState())
	if err == payments.ErrOauthStateMismatch {
		return nil, status.Error(codes.FailedPrecondition, "oauth state does not match")
	}
	if err != nil {
		s.logger.WithError(err).WithField("client_id", clientID).Error("CompleteConnectOauth failed")
		return nil, status.Error(codes.Internal, "failed to complete connect oauth")
	}
	return accountInfoToPB(info), nil
}

// GetConnectAccount returns (lazily creating) a client's Connect
// onboarding state.
func (s *Server) GetConnectAccount(ctx context.Context, req *pb.GetConnectAccountRequest) (*pb.ConnectAccountInfo, error) {
	clientID := req.GetClientId()
	if clientID == "" {
		return nil, status.Error(codes.InvalidArgument, "client_id is required")
	}

	info, err := s.connect.GetAccount(ctx, clientID)
	if err != nil {
		s.logger.WithError(err).WithField("client_id", clientID).Error("GetConnectAccount failed")
		return nil, status.Error(codes.Internal, "failed to get connect account")
	}
	return accountInfoToPB(info), nil
}

// UpdateConnectAccountPrefs updates automatic-payout preferences.
func (s *Server) UpdateConnectAccountPrefs(ctx context.Context, req *pb.UpdateConnectAccountPrefsRequest) (*pb.ConnectAccountInfo, error) {
	clientID := req.GetClientId()
	if clientID == "" {
		return nil, status.Error(codes.InvalidArgument, "client_id is required")
	}

	info, err := s.connect.UpdatePrefs(ctx, clientID, req.EnableAutomaticPayouts, req.AutomaticPayoutThresholdCents)
	if err != nil {
		s.logger.WithError(err).WithField("client_id", clientID).Error("UpdateConnectAccountPrefs failed")
		return nil, status.Error(codes.Internal, "failed to update connect account preferences")
	}
	return accountInfoToPB(info), nil
}
