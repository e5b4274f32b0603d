package grpcserver

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/umpyre-code/beancounter/internal/escrow"
	"github.com/umpyre-code/beancounter/internal/pb"
)

// AddPayment holds funds in escrow against messageHash. Invalid amounts
// and insufficient balance are reported in-band via Result, never as a
// transport error — only malformed identifiers are RPC-level failures.
func (s *Server) AddPayment(ctx context.Context, req *pb.AddPaymentRequest) (*pb.AddPaymentResponse, error) {
	clientIDFrom := req.GetClientIdFrom()
	if clientIDFrom == "" {
		return nil, status.Error(codes.InvalidArgument, "client_id_from is required")
	}
	if len(req.GetMessageHash()) == 0 {
		return nil, status.Error(codes.InvalidArgument, "message_hash is required")
	}

	outcome, err := s.escrow.AddPayment(ctx, clientIDFrom, req.GetClientIdTo(), req.GetMessageHash(), int64(req.GetPaymentCents()), req.GetIsPromo())
	if err != nil {
		s.logger.WithError(err).WithField("client_id_from", clientIDFrom).Error("AddPayment failed")
		return nil, status.Error(codes.Internal, "failed to add payment")
	}

	resp := &pb.AddPaymentResponse{Result: paymentResultToPB(outcome.Result)}
	if outcome.Balance != nil {
		resp.BalanceCents = outcome.Balance.BalanceCents
		resp.PromoCents = outcome.Balance.PromoCents
		resp.WithdrawableCents = outcome.Balance.WithdrawableCents
	}
	return resp, nil
}

// SettlePayment releases an escrowed payment to its recipient.
// Settling an unknown message hash is reported as NotFound: spec.md
// §4.3 calls this out explicitly, and PaymentResult carries no slot for
// it (SUCCESS/INSUFFICIENT_BALANCE/INVALID_AMOUNT all describe an
// AddPayment-side precondition, not a missing escrow row).
func (s *Server) SettlePayment(ctx context.Context, req *pb.SettlePaymentRequest) (*pb.SettlePaymentResponse, error) {
	clientIDTo := req.GetClientIdTo()
	if clientIDTo == "" {
		return nil, status.Error(codes.InvalidArgument, "client_id_to is required")
	}
	if len(req.GetMessageHash()) == 0 {
		return nil, status.Error(codes.InvalidArgument, "message_hash is required")
	}

	outcome, err := s.escrow.SettlePayment(ctx, clientIDTo, req.GetMessageHash())
	if err == escrow.ErrPaymentNotFound {
		return nil, status.Error(codes.NotFound, "no held payment matches this message hash and recipient")
	}
	if err != nil {
		s.logger.WithError(err).WithField("client_id_to", clientIDTo).Error("SettlePayment failed")
		return nil, status.Error(codes.Internal, "failed to settle payment")
	}

	return &pb.SettlePaymentResponse{
		Result:            pb.PaymentResult_SUCCESS,
		ClientIdFrom:      outcome.ClientIDFrom,
		FeeCents:          outcome.FeeCents,
		PaymentCents:      outcome.PaymentCents,
		BalanceCents:      outcome.Balance.BalanceCents,
		WithdrawableCents: outcome.Balance.WithdrawableCents,
		Ral:               s.ral.Compute(ctx, clientIDTo),
	}, nil
}

// AddCredits posts a real-money top-up. BalanceResponse has no in-band
// result slot, so a non-positive amount is an RPC-level InvalidArgument.
func (s *Server) AddCredits(ctx context.Context, req *pb.AddCreditsRequest) (*pb.BalanceResponse, error) {
	clientID := req.GetClientId()
	if clientID == "" {
		return nil, status.Error(codes.InvalidArgument, "client_id is required")
	}
	if req.GetAmountCents() <= 0 {
		return nil, status.Error(codes.InvalidArgument, "amount_cents must be positive")
	}

	balance, err := s.ledger.AddCredits(ctx, clientID, int64(req.GetAmountCents()))
	if err != nil {
		s.logger.WithError(err).WithField("client_id", clientID).Error("AddCredits failed")
		return nil, status.Error(codes.Internal, "failed to add credits")
	}
	return balanceToPB(balance), nil
}

// AddPromo credits a client's promotional balance.
func (s *Server) AddPromo(ctx context.Context, req *pb.AddPromoRequest) (*pb.BalanceResponse, error) {
	clientID := req.GetClientId()
	if clientID == "" {
		return nil, status.Error(codes.InvalidArgument, "client_id is required")
	}
	if req.GetAmountCents() <= 0 {
		return nil, status.Error(codes.InvalidArgument, "amount_cents must be positive")
	}

	balance, err := s.ledger.AddPromo(ctx, clientID, int64(req.GetAmountCents()))
	if err != nil {
		s.logger.WithError(err).WithField("client_id", clientID).Error("AddPromo failed")
		return nil, status.Error(codes.Internal, "failed to add promo credits")
	}
	return balanceToPB(balance), nil
}

func paymentResultToPB(r escrow.Result) pb.PaymentResult {
	switch r {
	case escrow.ResultSuccess:
		return pb.PaymentResult_SUCCESS
	case escrow.ResultInsufficientBalance:
		return pb.PaymentResult_INSUFFICIENT_BALANCE
	default:
		return pb.PaymentResult_INVALID_AMOUNT
	}
}
