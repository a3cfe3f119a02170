package exposegrpc

import (
	"context"

	"github.com/mapprotocol/stateproof/internal/expose/metrics"
	"github.com/mapprotocol/stateproof/internal/expose/service"
	"github.com/mapprotocol/stateproof/internal/proof"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Compile-time interface check.
var _ StateProofServiceServer = (*GRPCServer)(nil)

// GRPCServer exposes a ProofSrv over gRPC. Envelopes travel as cramberry
// messages, the same bytes ?encoding=cramberry returns over HTTP.
type GRPCServer struct {
	srv     *service.ProofSrv
	metrics *metrics.Metrics
}

func NewGRPCServer(srv *service.ProofSrv, m *metrics.Metrics) *GRPCServer {
	return &GRPCServer{srv: srv, metrics: m}
}

// Register adds the service to a gRPC server.
func (s *GRPCServer) Register(gs *grpc.Server) {
	RegisterStateProofServiceServer(gs, s)
}

func (s *GRPCServer) GetStateProof(ctx context.Context, req *ProofRequest) (*proof.Envelope, error) {
	env, err := s.srv.Handle(ctx, req.Request())
	if err != nil {
		s.metrics.Request(metrics.GRPC, outcome(err))
		return nil, status.Error(CodeOf(err), err.Error())
	}
	s.metrics.Request(metrics.GRPC, "ok")
	return env, nil
}

// CodeOf maps a pipeline error to its gRPC status code.
func CodeOf(err error) codes.Code {
	switch proof.StageOf(err) {
	case proof.StageValidation:
		return codes.InvalidArgument
	case proof.StageBackend:
		return codes.Unavailable
	default:
		return codes.Internal
	}
}

func outcome(err error) string {
	if stage := proof.StageOf(err); stage != proof.StageUnknown {
		return string(stage)
	}
	return "unknown"
}
