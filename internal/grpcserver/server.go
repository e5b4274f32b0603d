// Package grpcserver is the RPC facade: it implements pb.BeanCounterServer
// by translating wire requests into calls against the ledger, escrow,
// ral, and payments packages, and translating their outcomes back into
// wire responses or gRPC status errors per spec.md §7's error taxonomy.
package grpcserver

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/umpyre-code/beancounter/internal/escrow"
	"github.com/umpyre-code/beancounter/internal/ledger"
	"github.com/umpyre-code/beancounter/internal/logging"
	"github.com/umpyre-code/beancounter/internal/monitoring"
	"github.com/umpyre-code/beancounter/internal/payments"
	"github.com/umpyre-code/beancounter/internal/pb"
	"github.com/umpyre-code/beancounter/internal/ral"
	"github.com/umpyre-code/beancounter/internal/store"
)

// Server implements pb.BeanCounterServer.
type Server struct {
	store    store.Store
	ledger   *ledger.Ledger
	escrow   *escrow.Escrow
	ral      *ral.Computer
	charger  payments.CardCharger
	transfer payments.ConnectTransfers
	connect  *payments.ConnectAccounts
	health   *monitoring.HealthChecker
	logger   logging.Logger
}

// New wires the RPC facade to its dependencies.
func New(
	s store.Store,
	l *ledger.Ledger,
	e *escrow.Escrow,
	r *ral.Computer,
	charger payments.CardCharger,
	transfer payments.ConnectTransfers,
	connect *payments.ConnectAccounts,
	health *monitoring.HealthChecker,
	logger logging.Logger,
) *Server {
	return &Server{
		store:    s,
		ledger:   l,
		escrow:   e,
		ral:      r,
		charger:  charger,
		transfer: transfer,
		connect:  connect,
		health:   health,
		logger:   logger,
	}
}

// GetBalance returns a client's current balance partition.
func (s *Server) GetBalance(ctx context.Context, req *pb.GetBalanceRequest) (*pb.BalanceResponse, error) {
	clientID := req.GetClientId()
	if clientID == "" {
		return nil, status.Error(codes.InvalidArgument, "client_id is required")
	}

	balance, err := s.store.FetchOrInitBalance(ctx, clientID)
	if err != nil {
		s.logger.WithError(err).WithField("client_id", clientID).Error("GetBalance failed")
		return nil, status.Error(codes.Internal, "failed to fetch balance")
	}
	return balanceToPB(balance), nil
}

// GetTransactions returns a client's most-recent-first ledger page.
func (s *Server) GetTransactions(ctx context.Context, req *pb.GetTransactionsRequest) (*pb.GetTransactionsResponse, error) {
	clientID := req.GetClientId()
	if clientID == "" {
		return nil, status.Error(codes.InvalidArgument, "client_id is required")
	}

	limit := int(req.GetLimit())
	if limit <= 0 {
		limit = defaultTransactionsLimit
	}

	txs, err := s.store.ListTransactions(ctx, clientID, limit)
	if err != nil {
		s.logger.WithError(err).WithField("client_id", clientID).Error("GetTransactions failed")
		return nil, status.Error(codes.Internal, "failed to list transactions")
	}

	out := make([]*pb.Transaction, 0, len(txs))
	for _, tx := range txs {
		out = append(out, transactionToPB(tx))
	}
	return &pb.GetTransactionsResponse{Transactions: out}, nil
}

// Check backs the service's own health-probe RPC, alongside the
// standard grpc.health.v1 service registered in cmd/beancounter.
func (s *Server) Check(ctx context.Context, req *pb.CheckRequest) (*pb.CheckResponse, error) {
	if s.health != nil && s.health.Serving() {
		return &pb.CheckResponse{Status: pb.ServingStatus_SERVING}, nil
	}
	return &pb.CheckResponse{Status: pb.ServingStatus_NOT_SERVING}, nil
}

const defaultTransactionsLimit = 50
