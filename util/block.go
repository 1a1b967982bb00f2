package util

import (
	"bytes"
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/children0001/inchain/wire"
)

// Block provides easier and more efficient manipulation of raw blocks. It
// memoizes the block hash and the wrapped transactions on first access.
type Block struct {
	msgBlock  *wire.MsgBlock
	blockHash *chainhash.Hash
	txs       []*Tx
}

// NewBlock returns a new instance of a block given an underlying
// wire.MsgBlock.
func NewBlock(msgBlock *wire.MsgBlock) *Block {
	return &Block{msgBlock: msgBlock}
}

// NewBlockFromBytes returns a block deserialized from raw bytes.
func NewBlockFromBytes(serializedBlock []byte) (*Block, error) {
	msgBlock := new(wire.MsgBlock)
	err := msgBlock.Deserialize(bytes.NewReader(serializedBlock))
	if err != nil {
		return nil, err
	}
	return NewBlock(msgBlock), nil
}

// MsgBlock returns the underlying wire.MsgBlock for the Block.
func (b *Block) MsgBlock() *wire.MsgBlock {
	return b.msgBlock
}

// Hash returns the block identifier hash, generating it on first access and
// caching it afterwards.
func (b *Block) Hash() *chainhash.Hash {
	if b.blockHash != nil {
		return b.blockHash
	}
	hash := b.msgBlock.BlockHash()
	b.blockHash = &hash
	return b.blockHash
}

// Height returns the block's height as committed in its header.
func (b *Block) Height() uint64 {
	return b.msgBlock.Header.Height
}

// Transactions returns the block's transactions wrapped as Tx, generating
// the wrappers on first access and caching them afterwards.
func (b *Block) Transactions() []*Tx {
	if b.txs == nil {
		b.txs = make([]*Tx, len(b.msgBlock.Transactions))
		for i, msgTx := range b.msgBlock.Transactions {
			b.txs[i] = NewTx(msgTx)
		}
	}
	return b.txs
}

// Bytes returns the serialized bytes for the Block.
func (b *Block) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	err := b.msgBlock.Serialize(&buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Serialize writes the block to w.
func (b *Block) Serialize(w io.Writer) error {
	return b.msgBlock.Serialize(w)
}
