package util

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/children0001/inchain/wire"
)

// Tx provides easier and more efficient manipulation of raw transactions.
// It memoizes the transaction hash on first access.
type Tx struct {
	msgTx  *wire.MsgTx
	txHash *chainhash.Hash
}

// NewTx returns a new instance of a transaction given an underlying
// wire.MsgTx.
func NewTx(msgTx *wire.MsgTx) *Tx {
	return &Tx{msgTx: msgTx}
}

// MsgTx returns the underlying wire.MsgTx for the transaction.
func (t *Tx) MsgTx() *wire.MsgTx {
	return t.msgTx
}

// Hash returns the transaction hash, generating it on first access and
// caching it afterwards.
func (t *Tx) Hash() *chainhash.Hash {
	if t.txHash != nil {
		return t.txHash
	}
	hash := t.msgTx.TxHash()
	t.txHash = &hash
	return t.txHash
}

// IsReward returns whether the transaction is of the reward kind.
func (t *Tx) IsReward() bool {
	return t.msgTx.IsReward()
}
