package exposegrpc

import (
	"context"
	"fmt"

	"github.com/mapprotocol/stateproof/internal/proof"
	"google.golang.org/grpc"
)

// Client calls a remote StateProofService.
type Client struct {
	cc *grpc.ClientConn
}

// Dial connects to addr. Callers supply transport credentials.
func Dial(ctx context.Context, addr string, opts ...grpc.DialOption) (*Client, error) {
	opts = append(opts, grpc.WithDefaultCallOptions(
		grpc.ForceCodec(CramberryCodec{}),
	))
	cc, err := grpc.DialContext(ctx, addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("stateproof client: dial %s: %w", addr, err)
	}
	return &Client{cc: cc}, nil
}

func (c *Client) Close() error {
	return c.cc.Close()
}

func (c *Client) GetStateProof(ctx context.Context, req *proof.Request) (*proof.Envelope, error) {
	resp := new(proof.Envelope)
	if err := c.cc.Invoke(ctx, fullMethod("GetStateProof"), NewProofRequest(req), resp); err != nil {
		return nil, err
	}
	if resp.Payload == nil {
		resp.Payload = []byte{}
	}
	return resp, nil
}
