package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "leaseanalyzer.v1.Analyzer"

// Method names. Every request and response is a google.protobuf.Struct.
const (
	MethodAnalyze       = "Analyze"
	MethodEstimate      = "Estimate"
	MethodEstimateRange = "EstimateRange"
	MethodAsk           = "Ask"
	MethodExport        = "Export"
	MethodReset         = "Reset"
	MethodHistory       = "History"
)

// AnalyzerServer is the server API for the Analyzer service.
type AnalyzerServer interface {
	Analyze(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Estimate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	EstimateRange(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Ask(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Export(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Reset(context.Context, *structpb.Struct) (*structpb.Struct, error)
	History(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(AnalyzerServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unary(method string, call unaryCall) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(AnalyzerServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(method)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(AnalyzerServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

func fullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// AnalyzerServiceDesc describes the Analyzer service for grpc.Server.RegisterService.
var AnalyzerServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AnalyzerServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodAnalyze, AnalyzerServer.Analyze),
		unary(MethodEstimate, AnalyzerServer.Estimate),
		unary(MethodEstimateRange, AnalyzerServer.EstimateRange),
		unary(MethodAsk, AnalyzerServer.Ask),
		unary(MethodExport, AnalyzerServer.Export),
		unary(MethodReset, AnalyzerServer.Reset),
		unary(MethodHistory, AnalyzerServer.History),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: AnalyzerProtoFile,
}

func RegisterAnalyzerServer(s grpc.ServiceRegistrar, srv AnalyzerServer) {
	s.RegisterService(&AnalyzerServiceDesc, srv)
}

// AnalyzerClient calls the Analyzer service over a client connection.
type AnalyzerClient struct {
	cc grpc.ClientConnInterface
}

func NewAnalyzerClient(cc grpc.ClientConnInterface) *AnalyzerClient {
	return &AnalyzerClient{cc: cc}
}

// Call invokes method with a request built from fields.
func (c *AnalyzerClient) Call(ctx context.Context, method string, fields map[string]any, opts ...grpc.CallOption) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, fullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
