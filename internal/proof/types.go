package proof

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// AccountProof is the account half of an eth_getProof result: the account
// fields and the trie nodes from the state root down to the account leaf.
type AccountProof struct {
	Address      common.Address  `json:"address"`
	AccountProof []hexutil.Bytes `json:"accountProof"`
	Balance      *hexutil.Big    `json:"balance"`
	CodeHash     common.Hash     `json:"codeHash"`
	Nonce        hexutil.Uint64  `json:"nonce"`
	StorageHash  common.Hash     `json:"storageHash"`
}

// StorageProof proves one slot against the account's storage root.
type StorageProof struct {
	Key   common.Hash     `json:"key"`
	Value *hexutil.Big    `json:"value"`
	Proof []hexutil.Bytes `json:"proof"`
}

// CombinedProof is an account proof plus the proof of one of its slots.
type CombinedProof struct {
	Account AccountProof `json:"account"`
	Storage StorageProof `json:"storage"`
}
