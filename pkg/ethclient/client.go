package ethclient

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

// Client is a thin typed wrapper over an RPC connection to one node.
type Client struct {
	c *rpc.Client
}

// DialContext connects a client to the given URL. For HTTP endpoints no
// connection is made until the first call.
func DialContext(ctx context.Context, rawurl string) (*Client, error) {
	c, err := rpc.DialContext(ctx, rawurl)
	if err != nil {
		return nil, err
	}
	return NewClient(c), nil
}

// NewClient creates a client that uses the given RPC client.
func NewClient(c *rpc.Client) *Client {
	return &Client{c: c}
}

// Close releases the underlying connection.
func (ec *Client) Close() {
	ec.c.Close()
}

// AccountResult is the eth_getProof response.
type AccountResult struct {
	Address      common.Address  `json:"address"`
	AccountProof []hexutil.Bytes `json:"accountProof"`
	Balance      *hexutil.Big    `json:"balance"`
	CodeHash     common.Hash     `json:"codeHash"`
	Nonce        hexutil.Uint64  `json:"nonce"`
	StorageHash  common.Hash     `json:"storageHash"`
	StorageProof []StorageResult `json:"storageProof"`
}

// StorageResult is one entry of AccountResult.StorageProof.
type StorageResult struct {
	Key   common.Hash     `json:"key"`
	Value *hexutil.Big    `json:"value"`
	Proof []hexutil.Bytes `json:"proof"`
}

// GetProof returns the account and storage proofs of account at the given
// block. A nil number means the latest block.
func (ec *Client) GetProof(ctx context.Context, account common.Address, keys []common.Hash, number *big.Int) (*AccountResult, error) {
	storageKeys := make([]string, 0, len(keys))
	for _, k := range keys {
		storageKeys = append(storageKeys, k.Hex())
	}

	var res *AccountResult
	err := ec.c.CallContext(ctx, &res, "eth_getProof", account, storageKeys, toBlockNumArg(number))
	if err == nil && res == nil {
		err = ethereum.NotFound
	}
	return res, err
}

func toBlockNumArg(number *big.Int) string {
	if number == nil {
		return "latest"
	}
	return hexutil.EncodeBig(number)
}
