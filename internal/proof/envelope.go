package proof

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/blockberries/cramberry/pkg/cramberry"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// Envelope is the artifact handed to verifiers.
//
// In JSON, root is 0x-prefixed hex and payload and proof are standard base64.
// Proof always holds exactly one EncodeVariant output.
type Envelope struct {
	Domain string `json:"domain" cramberry:"1"`
	// Root is always zero until the block header state root is fetched.
	Root common.Hash `json:"root" cramberry:"2"`
	// Payload is reserved and always empty.
	Payload []byte `json:"payload" cramberry:"3"`
	Proof   []byte `json:"proof" cramberry:"4"`
}

// Seal encodes v and wraps it for domain.
func Seal(domain string, v Variant) (*Envelope, error) {
	if domain == "" {
		return nil, NewSerializationError("empty envelope domain")
	}
	data, err := EncodeVariant(v)
	if err != nil {
		return nil, err
	}
	return &Envelope{
		Domain: domain,
		// TODO: set to the state root of the header at the queried height once
		// the backend exposes eth_getBlockByNumber.
		Root:    common.Hash{},
		Payload: []byte{},
		Proof:   data,
	}, nil
}

// Variant decodes the proof carried by the envelope.
func (e *Envelope) Variant() (Variant, error) {
	return DecodeVariant(e.Proof)
}

// Encoding selects the envelope wire format.
type Encoding int

const (
	EncodingJSON Encoding = iota
	EncodingCramberry
)

const (
	ContentTypeJSON      = "application/json"
	ContentTypeCramberry = "application/x-cramberry"
)

// ParseEncoding accepts "json" or "cramberry"; empty means json.
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(s) {
	case "", "json":
		return EncodingJSON, nil
	case "cramberry":
		return EncodingCramberry, nil
	}
	return 0, NewValidationError("unknown encoding %q", s)
}

func (enc Encoding) String() string {
	if enc == EncodingCramberry {
		return "cramberry"
	}
	return "json"
}

func (enc Encoding) ContentType() string {
	if enc == EncodingCramberry {
		return ContentTypeCramberry
	}
	return ContentTypeJSON
}

// MarshalEnvelope encodes env. Equal envelopes give equal bytes.
func MarshalEnvelope(env *Envelope, enc Encoding) ([]byte, error) {
	if env == nil {
		return nil, NewSerializationError("nil envelope")
	}
	var (
		data []byte
		err  error
	)
	switch enc {
	case EncodingJSON:
		data, err = json.Marshal(env)
	case EncodingCramberry:
		data, err = cramberry.Marshal(env)
	default:
		return nil, NewSerializationError("unsupported encoding %d", enc)
	}
	if err != nil {
		return nil, &SerializationError{Err: errors.Wrapf(err, "encode envelope as %s", enc)}
	}
	return data, nil
}

// UnmarshalEnvelope decodes an envelope and checks that its proof decodes.
func UnmarshalEnvelope(data []byte, enc Encoding) (*Envelope, error) {
	env := new(Envelope)
	switch enc {
	case EncodingJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(env); err != nil {
			return nil, errors.Wrap(err, "decode envelope")
		}
	case EncodingCramberry:
		if err := cramberry.Unmarshal(data, env); err != nil {
			return nil, errors.Wrap(err, "decode envelope")
		}
	default:
		return nil, errors.Errorf("unsupported encoding %d", enc)
	}
	if env.Payload == nil {
		env.Payload = []byte{}
	}
	if _, err := env.Variant(); err != nil {
		return nil, err
	}
	return env, nil
}
