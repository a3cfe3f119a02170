package proof

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
)

// Request is the wire form of a state proof request. Fields are pointers so
// that a missing field can be told apart from a zero value.
type Request struct {
	Address     *string `json:"address,omitempty"`
	EthereumURL *string `json:"ethereum_url,omitempty"`
	Height      *uint64 `json:"height,omitempty"`
	Key         *string `json:"key,omitempty"`
}

// Query is a validated Request.
type Query struct {
	Address  common.Address
	Endpoint string
	Height   uint64
	// Key is nil when no storage slot was asked for.
	Key *common.Hash
}

// NewRequest builds a Request from plain values. An empty key is left out.
func NewRequest(address, endpoint string, height uint64, key string) *Request {
	req := &Request{Address: &address, EthereumURL: &endpoint, Height: &height}
	if key != "" {
		req.Key = &key
	}
	return req
}

// DecodeRequest reads exactly one JSON object from r.
func DecodeRequest(r io.Reader) (*Request, error) {
	dec := json.NewDecoder(r)
	var req Request
	if err := dec.Decode(&req); err != nil {
		return nil, decodeError(err)
	}
	if _, err := dec.Token(); err != io.EOF {
		if err != nil {
			return nil, decodeError(err)
		}
		return nil, NewValidationError("unexpected data after JSON object")
	}
	return &req, nil
}

func decodeError(err error) error {
	var (
		typeErr *json.UnmarshalTypeError
		sizeErr *http.MaxBytesError
	)
	switch {
	case err == io.EOF:
		return NewValidationError("empty request body")
	case errors.As(err, &typeErr) && typeErr.Field == "":
		return NewValidationError("cannot parse %s as a request object", typeErr.Value)
	case errors.As(err, &typeErr):
		return NewValidationError("field %q: cannot parse %s as %s", typeErr.Field, typeErr.Value, typeErr.Type)
	case errors.As(err, &sizeErr):
		return NewValidationError("request body exceeds %d bytes", sizeErr.Limit)
	default:
		return &ValidationError{Err: errors.Wrap(err, "malformed JSON body")}
	}
}

// Query validates the request. Empty and absent keys are the same thing.
func (r *Request) Query() (*Query, error) {
	switch {
	case r.Address == nil:
		return nil, NewValidationError("missing field %q", "address")
	case r.EthereumURL == nil:
		return nil, NewValidationError("missing field %q", "ethereum_url")
	case r.Height == nil:
		return nil, NewValidationError("missing field %q", "height")
	}

	addr, err := decodeFixedHex("address", *r.Address, common.AddressLength)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(*r.EthereumURL) == "" {
		return nil, NewValidationError("field %q must not be empty", "ethereum_url")
	}

	q := &Query{
		Address:  common.BytesToAddress(addr),
		Endpoint: *r.EthereumURL,
		Height:   *r.Height,
	}
	if r.Key != nil && *r.Key != "" {
		key, err := decodeFixedHex("key", *r.Key, common.HashLength)
		if err != nil {
			return nil, err
		}
		h := common.BytesToHash(key)
		q.Key = &h
	}
	return q, nil
}

func decodeFixedHex(field, s string, size int) ([]byte, error) {
	b, err := hexutil.Decode(s)
	if err != nil {
		return nil, NewValidationError("field %q: %v", field, err)
	}
	if len(b) != size {
		return nil, NewValidationError("field %q: want %d bytes, got %d", field, size, len(b))
	}
	return b, nil
}
