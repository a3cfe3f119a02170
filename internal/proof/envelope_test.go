package proof

import (
	"bytes"
	"encoding/json"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleAccount() *AccountProof {
	return &AccountProof{
		Address:      common.HexToAddress(testAddress),
		AccountProof: []hexutil.Bytes{{0xf8, 0x71, 0xa0}, {0xf8, 0x51, 0x80}},
		Balance:      (*hexutil.Big)(big.NewInt(1_000_000_007)),
		CodeHash:     common.HexToHash("0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"),
		Nonce:        42,
		StorageHash:  common.HexToHash("0x56e81f171bcc55a6ff8345e692c0f86e5b48e01b996cadc001622fb5e363b421"),
	}
}

func sampleCombined() *CombinedProof {
	return &CombinedProof{
		Account: *sampleAccount(),
		Storage: StorageProof{
			Key:   common.HexToHash("0x01"),
			Value: (*hexutil.Big)(big.NewInt(99)),
			Proof: []hexutil.Bytes{{0xe2, 0xa0, 0x20}},
		},
	}
}

func TestEncodeVariant_Tagged(t *testing.T) {
	data, err := EncodeVariant(NewAccount(sampleAccount()))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte(`{"Account":{`)), string(data))

	data, err = EncodeVariant(NewCombined(sampleCombined()))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte(`{"Combined":{`)), string(data))
}

func TestEncodeVariant_Rejects(t *testing.T) {
	for _, v := range []Variant{nil, &Account{}, &Combined{}, (*Account)(nil)} {
		_, err := EncodeVariant(v)
		require.Error(t, err)
		assert.Equal(t, StageSerialization, StageOf(err))
	}
}

func TestDecodeVariant_RecoversTag(t *testing.T) {
	for _, v := range []Variant{NewAccount(sampleAccount()), NewCombined(sampleCombined())} {
		data, err := EncodeVariant(v)
		require.NoError(t, err)

		got, err := DecodeVariant(data)
		require.NoError(t, err)
		assert.Equal(t, v.Tag(), got.Tag())
		assert.IsType(t, v, got)

		again, err := EncodeVariant(got)
		require.NoError(t, err)
		assert.Equal(t, data, again)
	}
}

func TestDecodeVariant_Rejects(t *testing.T) {
	account, err := json.Marshal(sampleAccount())
	require.NoError(t, err)

	cases := map[string]string{
		"not json":          `nope`,
		"null":              `null`,
		"no tag":            `{}`,
		"two tags":          `{"Account":` + string(account) + `,"Combined":{}}`,
		"unknown tag":       `{"Simple":` + string(account) + `}`,
		"null proof":        `{"Account":null}`,
		"extra field":       `{"Account":{"address":"` + testAddress + `","bogus":1}}`,
		"repeated tag":      `{"Account":` + string(account) + `,"Account":` + string(account) + `}`,
		"lowercase tag":     `{"account":` + string(account) + `}`,
		"trailing data":     `{"Account":` + string(account) + `} {}`,
		"case-folded field": `{"Account":{"ADDRESS":"` + testAddress + `"}}`,
		"repeated field":    `{"Account":{"address":"` + testAddress + `","address":"` + testAddress + `"}}`,
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeVariant([]byte(in))
			assert.Error(t, err)
		})
	}
}

func TestSeal(t *testing.T) {
	env, err := Seal("ethereum", NewAccount(sampleAccount()))
	require.NoError(t, err)

	assert.Equal(t, "ethereum", env.Domain)
	assert.Equal(t, common.Hash{}, env.Root)
	assert.NotNil(t, env.Payload)
	assert.Empty(t, env.Payload)

	v, err := env.Variant()
	require.NoError(t, err)
	assert.Equal(t, TagAccount, v.Tag())

	_, err = Seal("", NewAccount(sampleAccount()))
	assert.Equal(t, StageSerialization, StageOf(err))
}

func TestEnvelope_JSONLayout(t *testing.T) {
	env, err := Seal("ethereum", NewCombined(sampleCombined()))
	require.NoError(t, err)

	data, err := MarshalEnvelope(env, EncodingJSON)
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Len(t, fields, 4)
	assert.Equal(t, "ethereum", fields["domain"])
	assert.Equal(t, "0x0000000000000000000000000000000000000000000000000000000000000000", fields["root"])
	assert.Equal(t, "", fields["payload"])
	assert.IsType(t, "", fields["proof"])
}

func TestEnvelope_RoundTrip(t *testing.T) {
	for _, enc := range []Encoding{EncodingJSON, EncodingCramberry} {
		for _, v := range []Variant{NewAccount(sampleAccount()), NewCombined(sampleCombined())} {
			t.Run(enc.String()+"/"+string(v.Tag()), func(t *testing.T) {
				env, err := Seal("ethereum", v)
				require.NoError(t, err)

				data, err := MarshalEnvelope(env, enc)
				require.NoError(t, err)
				got, err := UnmarshalEnvelope(data, enc)
				require.NoError(t, err)

				assert.Equal(t, env, got)

				gv, err := got.Variant()
				require.NoError(t, err)
				assert.Equal(t, v.Tag(), gv.Tag())
			})
		}
	}
}

func TestEnvelope_Deterministic(t *testing.T) {
	for _, enc := range []Encoding{EncodingJSON, EncodingCramberry} {
		a, err := Seal("ethereum", NewCombined(sampleCombined()))
		require.NoError(t, err)
		b, err := Seal("ethereum", NewCombined(sampleCombined()))
		require.NoError(t, err)

		da, err := MarshalEnvelope(a, enc)
		require.NoError(t, err)
		db, err := MarshalEnvelope(b, enc)
		require.NoError(t, err)
		assert.Equal(t, da, db, enc.String())
	}
}

func TestUnmarshalEnvelope_BadProof(t *testing.T) {
	env := &Envelope{Domain: "ethereum", Payload: []byte{}, Proof: []byte(`{"Nope":{}}`)}
	data, err := MarshalEnvelope(env, EncodingJSON)
	require.NoError(t, err)

	_, err = UnmarshalEnvelope(data, EncodingJSON)
	assert.Error(t, err)
}

func TestParseEncoding(t *testing.T) {
	enc, err := ParseEncoding("")
	require.NoError(t, err)
	assert.Equal(t, EncodingJSON, enc)

	enc, err = ParseEncoding("Cramberry")
	require.NoError(t, err)
	assert.Equal(t, EncodingCramberry, enc)
	assert.Equal(t, ContentTypeCramberry, enc.ContentType())

	_, err = ParseEncoding("xml")
	_, ok := IsValidation(err)
	assert.True(t, ok)
}
