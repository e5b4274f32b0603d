package grpcutil

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var grpcCodeMessages = map[codes.Code]string{
	codes.InvalidArgument:    "invalid request",
	codes.NotFound:           "resource not found",
	codes.FailedPrecondition: "precondition failed",
	codes.AlreadyExists:      "resource already exists",
	codes.Unavailable:        "service temporarily unavailable",
	codes.DeadlineExceeded:   "request timed out",
	codes.Internal:           "internal error",
}

// SanitizeError collapses an internal error to a status code plus a
// fixed per-code message, so storage/transport detail never reaches
// callers (spec.md kind-3 errors).
func SanitizeError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return status.Error(codes.Internal, grpcCodeMessages[codes.Internal])
	}
	msg, known := grpcCodeMessages[st.Code()]
	if !known {
		msg = grpcCodeMessages[codes.Internal]
	}
	return status.Error(st.Code(), msg)
}

// SanitizeUnaryServerInterceptor applies SanitizeError to every RPC response.
func SanitizeUnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		resp, err := handler(ctx, req)
		return resp, SanitizeError(err)
	}
}
