package wire

import (
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/pkg/errors"
)

// MaxTxPerBlock is the maximum number of transactions a block may declare on
// the wire.
const MaxTxPerBlock = 1 << 16

// MsgBlock implements a block: a header plus an ordered transaction
// sequence. The order is semantically significant - position 0 must hold the
// reward transaction.
type MsgBlock struct {
	Header       BlockHeader
	Transactions []*MsgTx
}

// NewMsgBlock returns a block with the given header and no transactions.
func NewMsgBlock(header *BlockHeader) *MsgBlock {
	return &MsgBlock{Header: *header}
}

// AddTransaction appends a transaction to the block.
func (msg *MsgBlock) AddTransaction(tx *MsgTx) {
	msg.Transactions = append(msg.Transactions, tx)
}

// BlockHash computes the block identifier hash.
func (msg *MsgBlock) BlockHash() chainhash.Hash {
	return msg.Header.BlockHash()
}

// Serialize encodes the block to w using the canonical wire format.
func (msg *MsgBlock) Serialize(w io.Writer) error {
	if err := msg.Header.Serialize(w); err != nil {
		return err
	}
	if err := writeUint32(w, uint32(len(msg.Transactions))); err != nil {
		return err
	}
	for _, tx := range msg.Transactions {
		if err := tx.Serialize(w); err != nil {
			return err
		}
	}
	return nil
}

// Deserialize decodes a block from r.
func (msg *MsgBlock) Deserialize(r io.Reader) error {
	if err := msg.Header.Deserialize(r); err != nil {
		return err
	}
	txCount, err := readUint32(r)
	if err != nil {
		return err
	}
	if txCount > MaxTxPerBlock {
		return errors.Errorf("block declares %d transactions, max %d",
			txCount, MaxTxPerBlock)
	}
	msg.Transactions = make([]*MsgTx, 0, txCount)
	for i := uint32(0); i < txCount; i++ {
		tx := new(MsgTx)
		if err := tx.Deserialize(r); err != nil {
			return err
		}
		msg.Transactions = append(msg.Transactions, tx)
	}
	return nil
}
