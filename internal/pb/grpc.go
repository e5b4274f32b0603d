package pb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// RegisterBeanCounterServer registers a BeanCounterServer implementation
// with a gRPC server, in the shape protoc-gen-go-grpc would produce.
func RegisterBeanCounterServer(s *grpc.Server, srv BeanCounterServer) {
	s.RegisterService(&beanCounterServiceDesc, srv)
}

var beanCounterServiceDesc = grpc.ServiceDesc{
	ServiceName: "beancounter.BeanCounter",
	HandlerType: (*BeanCounterServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetBalance", Handler: handleGetBalance},
		{MethodName: "GetTransactions", Handler: handleGetTransactions},
		{MethodName: "AddPayment", Handler: handleAddPayment},
		{MethodName: "SettlePayment", Handler: handleSettlePayment},
		{MethodName: "AddCredits", Handler: handleAddCredits},
		{MethodName: "AddPromo", Handler: handleAddPromo},
		{MethodName: "ConnectPayout", Handler: handleConnectPayout},
		{MethodName: "StripeCharge", Handler: handleStripeCharge},
		{MethodName: "CompleteConnectOauth", Handler: handleCompleteConnectOauth},
		{MethodName: "GetConnectAccount", Handler: handleGetConnectAccount},
		{MethodName: "UpdateConnectAccountPrefs", Handler: handleUpdateConnectAccountPrefs},
		{MethodName: "GetStats", Handler: handleGetStats},
		{MethodName: "Check", Handler: handleCheck},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "beancounter.proto",
}

func handleGetBalance(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	req := new(GetBalanceRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BeanCounterServer).GetBalance(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/beancounter.BeanCounter/GetBalance"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(BeanCounterServer).GetBalance(ctx, req.(*GetBalanceRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func handleGetTransactions(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	req := new(GetTransactionsRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BeanCounterServer).GetTransactions(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/beancounter.BeanCounter/GetTransactions"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(BeanCounterServer).GetTransactions(ctx, req.(*GetTransactionsRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func handleAddPayment(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	req := new(AddPaymentRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BeanCounterServer).AddPayment(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/beancounter.BeanCounter/AddPayment"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(BeanCounterServer).AddPayment(ctx, req.(*AddPaymentRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func handleSettlePayment(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	req := new(SettlePaymentRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BeanCounterServer).SettlePayment(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/beancounter.BeanCounter/SettlePayment"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(BeanCounterServer).SettlePayment(ctx, req.(*SettlePaymentRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func handleAddCredits(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	req := new(AddCreditsRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BeanCounterServer).AddCredits(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/beancounter.BeanCounter/AddCredits"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(BeanCounterServer).AddCredits(ctx, req.(*AddCreditsRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func handleAddPromo(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	req := new(AddPromoRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BeanCounterServer).AddPromo(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/beancounter.BeanCounter/AddPromo"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(BeanCounterServer).AddPromo(ctx, req.(*AddPromoRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func handleConnectPayout(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	req := new(ConnectPayoutRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BeanCounterServer).ConnectPayout(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/beancounter.BeanCounter/ConnectPayout"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(BeanCounterServer).ConnectPayout(ctx, req.(*ConnectPayoutRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func handleStripeCharge(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	req := new(StripeChargeRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BeanCounterServer).StripeCharge(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/beancounter.BeanCounter/StripeCharge"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(BeanCounterServer).StripeCharge(ctx, req.(*StripeChargeRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func handleCompleteConnectOauth(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	req := new(CompleteConnectOauthRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BeanCounterServer).CompleteConnectOauth(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/beancounter.BeanCounter/CompleteConnectOauth"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(BeanCounterServer).CompleteConnectOauth(ctx, req.(*CompleteConnectOauthRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func handleGetConnectAccount(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	req := new(GetConnectAccountRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BeanCounterServer).GetConnectAccount(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/beancounter.BeanCounter/GetConnectAccount"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(BeanCounterServer).GetConnectAccount(ctx, req.(*GetConnectAccountRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func handleUpdateConnectAccountPrefs(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	req := new(UpdateConnectAccountPrefsRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BeanCounterServer).UpdateConnectAccountPrefs(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/beancounter.BeanCounter/UpdateConnectAccountPrefs"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(BeanCounterServer).UpdateConnectAccountPrefs(ctx, req.(*UpdateConnectAccountPrefsRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func handleGetStats(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	req := new(GetStatsRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BeanCounterServer).GetStats(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/beancounter.BeanCounter/GetStats"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(BeanCounterServer).GetStats(ctx, req.(*GetStatsRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func handleCheck(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	req := new(CheckRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BeanCounterServer).Check(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/beancounter.BeanCounter/Check"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(BeanCounterServer).Check(ctx, req.(*CheckRequest))
	}
	return interceptor(ctx, req, info, handler)
}
