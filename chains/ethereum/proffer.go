package ethereum

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mapprotocol/stateproof/internal/constant"
	"github.com/mapprotocol/stateproof/internal/proof"
	"github.com/mapprotocol/stateproof/pkg/ethclient"
	"github.com/pkg/errors"
)

// Proffer fetches Merkle proofs from an Ethereum JSON-RPC node with
// eth_getProof. It holds no connection; every call dials the endpoint it is
// given and closes the client before returning.
type Proffer struct {
	dial func(ctx context.Context, endpoint string) (*ethclient.Client, error)
}

func New() *Proffer {
	return &Proffer{dial: ethclient.DialContext}
}

func (p *Proffer) Domain() string {
	return constant.Ethereum
}

func (p *Proffer) AccountProof(ctx context.Context, endpoint string, address common.Address, height uint64) (*proof.AccountProof, error) {
	res, err := p.getProof(ctx, endpoint, address, nil, height)
	if err != nil {
		return nil, err
	}
	ap := toAccountProof(res)
	return &ap, nil
}

func (p *Proffer) AccountAndStorageProof(ctx context.Context, endpoint string, key common.Hash, address common.Address,
	height uint64) (*proof.CombinedProof, error) {
	res, err := p.getProof(ctx, endpoint, address, []common.Hash{key}, height)
	if err != nil {
		return nil, err
	}
	if len(res.StorageProof) != 1 {
		return nil, errors.Errorf("node returned %d storage proofs, want 1", len(res.StorageProof))
	}
	sp := res.StorageProof[0]
	if sp.Key != key {
		return nil, errors.Errorf("node returned storage proof for slot %s, want %s", sp.Key.Hex(), key.Hex())
	}
	return &proof.CombinedProof{
		Account: toAccountProof(res),
		Storage: proof.StorageProof{
			Key:   sp.Key,
			Value: sp.Value,
			Proof: sp.Proof,
		},
	}, nil
}

func (p *Proffer) getProof(ctx context.Context, endpoint string, address common.Address, keys []common.Hash,
	height uint64) (*ethclient.AccountResult, error) {
	client, err := p.dial(ctx, endpoint)
	if err != nil {
		return nil, errors.Wrap(err, "dial node")
	}
	defer client.Close()

	res, err := client.GetProof(ctx, address, keys, new(big.Int).SetUint64(height))
	if err != nil {
		return nil, errors.Wrap(err, "eth_getProof")
	}
	if res.Address != address {
		return nil, errors.Errorf("node returned proof for %s, want %s", res.Address.Hex(), address.Hex())
	}
	if len(res.AccountProof) == 0 {
		return nil, errors.New("node returned an empty account proof")
	}
	return res, nil
}

func toAccountProof(res *ethclient.AccountResult) proof.AccountProof {
	return proof.AccountProof{
		Address:      res.Address,
		AccountProof: res.AccountProof,
		Balance:      res.Balance,
		CodeHash:     res.CodeHash,
		Nonce:        res.Nonce,
		StorageHash:  res.StorageHash,
	}
}
