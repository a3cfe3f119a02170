package exposegrpc

import "github.com/mapprotocol/stateproof/internal/proof"

// ProofRequest is the gRPC form of proof.Request. Cramberry omits zero
// values, so presence of the height travels in its own field; height 0 is a
// valid block.
type ProofRequest struct {
	Address     string `cramberry:"1"`
	EthereumURL string `cramberry:"2"`
	Height      uint64 `cramberry:"3"`
	HasHeight   bool   `cramberry:"4"`
	Key         string `cramberry:"5"`
}

func NewProofRequest(req *proof.Request) *ProofRequest {
	m := new(ProofRequest)
	if req.Address != nil {
		m.Address = *req.Address
	}
	if req.EthereumURL != nil {
		m.EthereumURL = *req.EthereumURL
	}
	if req.Height != nil {
		m.Height, m.HasHeight = *req.Height, true
	}
	if req.Key != nil {
		m.Key = *req.Key
	}
	return m
}

// Request converts back. Empty strings read as absent fields.
func (m *ProofRequest) Request() *proof.Request {
	req := new(proof.Request)
	if m.Address != "" {
		req.Address = &m.Address
	}
	if m.EthereumURL != "" {
		req.EthereumURL = &m.EthereumURL
	}
	if m.HasHeight {
		req.Height = &m.Height
	}
	if m.Key != "" {
		req.Key = &m.Key
	}
	return req
}
