package wire

import (
	"bytes"
	"io"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// BlockHeader defines information about a block. The height is part of the
// header: this chain is strictly linear and every block commits to its
// position.
type BlockHeader struct {
	// Version of the block.
	Version int32

	// PrevBlock is the hash of the previous block header in the chain.
	PrevBlock chainhash.Hash

	// MerkleRoot is the merkle tree root over the block's transactions.
	MerkleRoot chainhash.Hash

	// Timestamp is the time the block was created, with second precision
	// on the wire.
	Timestamp time.Time

	// Height is the position of the block in the chain. The genesis block
	// is at height 0.
	Height uint64

	// ScriptSig is the block producer's unlocking script over the block
	// hash. It is excluded from the hash itself.
	ScriptSig []byte
}

// BlockHash computes the block identifier hash. The producer's ScriptSig is
// not part of the hashed data, since it signs this very hash.
func (h *BlockHeader) BlockHash() chainhash.Hash {
	var buf bytes.Buffer
	_ = h.serializeHashable(&buf)
	return chainhash.DoubleHashH(buf.Bytes())
}

// serializeHashable writes the header fields covered by the block hash.
func (h *BlockHeader) serializeHashable(w io.Writer) error {
	if err := writeUint32(w, uint32(h.Version)); err != nil {
		return err
	}
	if err := writeHash(w, &h.PrevBlock); err != nil {
		return err
	}
	if err := writeHash(w, &h.MerkleRoot); err != nil {
		return err
	}
	if err := writeTimestamp(w, h.Timestamp); err != nil {
		return err
	}
	return writeUint64(w, h.Height)
}

// Serialize encodes the full header, including the producer script.
func (h *BlockHeader) Serialize(w io.Writer) error {
	if err := h.serializeHashable(w); err != nil {
		return err
	}
	return writeVarBytes(w, h.ScriptSig)
}

// Deserialize decodes a header from r.
func (h *BlockHeader) Deserialize(r io.Reader) error {
	version, err := readUint32(r)
	if err != nil {
		return err
	}
	h.Version = int32(version)

	h.PrevBlock, err = readHash(r)
	if err != nil {
		return err
	}
	h.MerkleRoot, err = readHash(r)
	if err != nil {
		return err
	}
	h.Timestamp, err = readTimestamp(r)
	if err != nil {
		return err
	}
	h.Height, err = readUint64(r)
	if err != nil {
		return err
	}
	h.ScriptSig, err = readVarBytes(r)
	return err
}
