package grpcserver

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/umpyre-code/beancounter/internal/pb"
)

// GetStats reports platform-wide daily-sum and top-client aggregates.
func (s *Server) GetStats(ctx context.Context, req *pb.GetStatsRequest) (*pb.GetStatsResponse, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		s.logger.WithError(err).Error("GetStats failed")
		return nil, status.Error(codes.Internal, "failed to compute stats")
	}

	resp := &pb.GetStatsResponse{
		DailySums:  make([]*pb.ReasonSum, 0, len(stats.DailySums)),
		TopClients: make([]*pb.ClientSum, 0, len(stats.TopClients)),
	}
	for _, rs := range stats.DailySums {
		resp.DailySums = append(resp.DailySums, &pb.ReasonSum{
			Date:        rs.Date,
			TxReason:    txReasonToPB(rs.TxReason),
			AmountCents: rs.AmountCents,
		})
	}
	for _, cs := range stats.TopClients {
		resp.TopClients = append(resp.TopClients, &pb.ClientSum{
			ClientId:    cs.ClientID,
			AmountCents: cs.AmountCents,
		})
	}
	return resp, nil
}
