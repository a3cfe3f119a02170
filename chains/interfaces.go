package chains

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mapprotocol/stateproof/chains/ethereum"
	"github.com/mapprotocol/stateproof/internal/constant"
	"github.com/mapprotocol/stateproof/internal/proof"
)

var (
	proofMap = map[string]Proffer{
		constant.Ethereum: ethereum.New(),
	}
)

// CreateProffer returns the backend registered for the chain type.
func CreateProffer(_type string) (Proffer, bool) {
	if chain, ok := proofMap[_type]; ok {
		return chain, true
	}
	return nil, false
}

// Proffer is the Merkle proof backend of one chain type. Implementations
// must be safe for concurrent use and must not keep per-request state.
type Proffer interface {
	// Domain names the chain namespace written into envelopes.
	Domain() string
	AccountProof(ctx context.Context, endpoint string, address common.Address, height uint64) (*proof.AccountProof, error)
	AccountAndStorageProof(ctx context.Context, endpoint string, key common.Hash, address common.Address,
		height uint64) (*proof.CombinedProof, error)
}
