package main

import (
	"bytes"
	"context"
	"math/big"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/mapprotocol/stateproof/internal/expose"
	"github.com/mapprotocol/stateproof/internal/expose/handler"
	"github.com/mapprotocol/stateproof/internal/expose/service"
	"github.com/mapprotocol/stateproof/internal/proof"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAddress = "0x07ae8551be970cb1cca11dd7a11f47ae82e70e67"
	testNode    = "https://erigon-tw-rpc.polkachu.com"
	zeroSlot    = "0x0000000000000000000000000000000000000000000000000000000000000000"
)

type stubProffer struct{}

func (stubProffer) Domain() string { return "ethereum" }

func (stubProffer) AccountProof(_ context.Context, _ string, address common.Address, _ uint64) (*proof.AccountProof, error) {
	return &proof.AccountProof{
		Address:      address,
		AccountProof: []hexutil.Bytes{{0xf8, 0x51}},
		Balance:      (*hexutil.Big)(big.NewInt(1)),
	}, nil
}

func (p stubProffer) AccountAndStorageProof(ctx context.Context, endpoint string, key common.Hash, address common.Address,
	height uint64) (*proof.CombinedProof, error) {
	ap, _ := p.AccountProof(ctx, endpoint, address, height)
	return &proof.CombinedProof{
		Account: *ap,
		Storage: proof.StorageProof{Key: key, Value: (*hexutil.Big)(big.NewInt(4)), Proof: []hexutil.Bytes{{0xe2}}},
	}, nil
}

func startService(t *testing.T) string {
	t.Helper()
	cfg := expose.Default()
	hs := httptest.NewServer(handler.NewRouter(cfg, handler.New(cfg, service.NewProof(cfg, stubProffer{}, nil, nil), nil)))
	t.Cleanup(hs.Close)
	return hs.URL + "/"
}

func TestFetchHTTP(t *testing.T) {
	svc := startService(t)
	cases := []struct {
		key string
		enc proof.Encoding
		tag proof.Tag
	}{
		{"", proof.EncodingJSON, proof.TagAccount},
		{zeroSlot, proof.EncodingJSON, proof.TagCombined},
		{zeroSlot, proof.EncodingCramberry, proof.TagCombined},
	}
	for _, c := range cases {
		env, err := fetchHTTP(context.Background(), svc, proof.NewRequest(testAddress, testNode, 22545713, c.key), c.enc)
		require.NoError(t, err)

		var out bytes.Buffer
		require.NoError(t, printEnvelope(&out, env))
		assert.Contains(t, out.String(), "domain:  ethereum")
		assert.Contains(t, out.String(), "root:    "+common.Hash{}.Hex())
		assert.Contains(t, out.String(), "variant: "+string(c.tag))
	}
}

func TestFetchHTTP_ErrorStatus(t *testing.T) {
	_, err := fetchHTTP(context.Background(), startService(t), proof.NewRequest("0x01", testNode, 1, ""), proof.EncodingJSON)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Contains(t, err.Error(), "invalid request")
}
