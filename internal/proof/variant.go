package proof

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

// Tag discriminates the proof variants on the wire.
type Tag string

const (
	TagAccount  Tag = "Account"
	TagCombined Tag = "Combined"
)

// Variant is one of *Account or *Combined. The set is closed; switch on the
// concrete type to handle it.
type Variant interface {
	Tag() Tag
	isVariant()
}

// Account carries an account-only proof.
type Account struct {
	Proof *AccountProof
}

// Combined carries an account proof together with a storage slot proof.
type Combined struct {
	Proof *CombinedProof
}

func NewAccount(p *AccountProof) *Account    { return &Account{Proof: p} }
func NewCombined(p *CombinedProof) *Combined { return &Combined{Proof: p} }

func (*Account) Tag() Tag  { return TagAccount }
func (*Combined) Tag() Tag { return TagCombined }

func (*Account) isVariant()  {}
func (*Combined) isVariant() {}

// taggedVariant is the externally tagged wire form: exactly one member set.
type taggedVariant struct {
	Account  *AccountProof  `json:"Account,omitempty"`
	Combined *CombinedProof `json:"Combined,omitempty"`
}

// EncodeVariant encodes v as {"<Tag>": <proof>}.
func EncodeVariant(v Variant) ([]byte, error) {
	var t taggedVariant
	switch v := v.(type) {
	case *Account:
		if v == nil || v.Proof == nil {
			return nil, NewSerializationError("account variant without proof")
		}
		t.Account = v.Proof
	case *Combined:
		if v == nil || v.Proof == nil {
			return nil, NewSerializationError("combined variant without proof")
		}
		t.Combined = v.Proof
	default:
		return nil, NewSerializationError("unknown proof variant %T", v)
	}
	data, err := json.Marshal(&t)
	if err != nil {
		return nil, &SerializationError{Err: errors.Wrapf(err, "encode %s proof", v.Tag())}
	}
	return data, nil
}

// DecodeVariant is the inverse of EncodeVariant. The tag is read from the
// bytes alone. Object keys must be spelled exactly and appear at most once.
func DecodeVariant(data []byte) (Variant, error) {
	members, isObject, err := objectMembers(data)
	if err != nil {
		return nil, errors.Wrap(err, "decode proof variant")
	}
	if !isObject {
		return nil, errors.New("proof variant must be a JSON object")
	}
	if len(members) != 1 {
		return nil, errors.Errorf("proof variant must have exactly one tag, got %d", len(members))
	}
	var (
		tag string
		raw json.RawMessage
	)
	for tag, raw = range members {
	}
	var v Variant
	switch Tag(tag) {
	case TagAccount:
		p := new(AccountProof)
		if err := strictUnmarshal(raw, p); err != nil {
			return nil, errors.Wrap(err, "decode account proof")
		}
		v = NewAccount(p)
		err = exactKeysOf(raw, p)
	case TagCombined:
		p := new(CombinedProof)
		if err := strictUnmarshal(raw, p); err != nil {
			return nil, errors.Wrap(err, "decode combined proof")
		}
		v = NewCombined(p)
		err = exactKeysOf(raw, p)
	default:
		return nil, errors.Errorf("unknown proof variant tag %q", tag)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s proof", tag)
	}
	return v, nil
}

// exactKeysOf rejects keys in raw that encoding/json matched only by case
// folding. decoded is the value raw was unmarshalled into.
func exactKeysOf(raw json.RawMessage, decoded interface{}) error {
	canonical, err := json.Marshal(decoded)
	if err != nil {
		return err
	}
	return exactKeys(raw, canonical)
}

func exactKeys(in, canonical []byte) error {
	inMembers, isObject, err := objectMembers(in)
	if err != nil {
		return err
	}
	if !isObject {
		var inItems, outItems []json.RawMessage
		if json.Unmarshal(in, &inItems) != nil || json.Unmarshal(canonical, &outItems) != nil ||
			len(inItems) != len(outItems) {
			return nil
		}
		for i := range inItems {
			if err := exactKeys(inItems[i], outItems[i]); err != nil {
				return err
			}
		}
		return nil
	}
	outMembers, _, err := objectMembers(canonical)
	if err != nil {
		return err
	}
	for key, v := range inMembers {
		w, ok := outMembers[key]
		if !ok {
			return errors.Errorf("unexpected field %q", key)
		}
		if err := exactKeys(v, w); err != nil {
			return errors.Wrapf(err, "field %q", key)
		}
	}
	return nil
}

// objectMembers splits a JSON object into its members, rejecting repeated
// keys and trailing data. isObject is false when data holds another value.
func objectMembers(data []byte) (members map[string]json.RawMessage, isObject bool, err error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, false, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, false, nil
	}
	members = make(map[string]json.RawMessage)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, true, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, true, errors.Errorf("unexpected token %v", tok)
		}
		if _, dup := members[key]; dup {
			return nil, true, errors.Errorf("duplicate field %q", key)
		}
		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return nil, true, err
		}
		members[key] = v
	}
	if _, err := dec.Token(); err != nil {
		return nil, true, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, true, errors.New("trailing data")
	}
	return members, true, nil
}

func strictUnmarshal(data []byte, v interface{}) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return errors.New("null value")
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("trailing data")
	}
	return nil
}
