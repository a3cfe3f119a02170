package exposegrpc

import (
	"context"

	"github.com/mapprotocol/stateproof/internal/proof"
	"google.golang.org/grpc"
)

const serviceName = "stateproof.v1.StateProofService"

// StateProofServiceServer is the server side of the gRPC API.
type StateProofServiceServer interface {
	GetStateProof(context.Context, *ProofRequest) (*proof.Envelope, error)
}

func RegisterStateProofServiceServer(s *grpc.Server, srv StateProofServiceServer) {
	s.RegisterService(&serviceDesc, srv)
}

func handlerGetStateProof(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	req := new(ProofRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StateProofServiceServer).GetStateProof(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod("GetStateProof")}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(StateProofServiceServer).GetStateProof(ctx, req.(*ProofRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func fullMethod(method string) string {
	return "/" + serviceName + "/" + method
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*StateProofServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetStateProof", Handler: handlerGetStateProof},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "stateproof/v1/service.cram",
}
