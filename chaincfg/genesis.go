package chaincfg

import (
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/children0001/inchain/wire"
)

// genesisRewardTx is the single transaction of the genesis block. It pays
// the base reward to an unspendable script.
var genesisRewardTx = wire.MsgTx{
	Version: 1,
	Type:    wire.TxTypeReward,
	TxIn: []*wire.TxIn{{
		PreviousOutpoint: wire.OutPoint{Index: 0xffffffff},
		SignatureScript:  []byte("inchain genesis"),
	}},
	TxOut: []*wire.TxOut{{
		Value:    baseReward,
		PkScript: []byte{0x6a}, // OP_RETURN, provably unspendable
	}},
}

// genesisMerkleRoot is the merkle root of the genesis block. With a single
// transaction the root is that transaction's hash.
var genesisMerkleRoot = genesisRewardTx.TxHash()

var genesisBlock = wire.MsgBlock{
	Header: wire.BlockHeader{
		Version:    1,
		PrevBlock:  chainhash.Hash{},
		MerkleRoot: genesisMerkleRoot,
		Timestamp:  time.Unix(1500537600, 0), // 2017-07-20 08:00:00 +0000 UTC
		Height:     0,
	},
	Transactions: []*wire.MsgTx{&genesisRewardTx},
}

// genesisHash is derived from the serialized genesis header rather than
// pinned as a literal. The header is fixed, so the derivation is stable.
var genesisHash = genesisBlock.BlockHash()
