package wire

import (
	"bytes"
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/pkg/errors"
)

// TxType tags a transaction with its kind. The enumeration is deliberately
// closed: validation dispatches on it with explicit branches and unknown
// kinds are rejected rather than silently accepted.
type TxType uint16

// The supported transaction kinds.
const (
	// TxTypeReward is the mandatory first transaction of every block,
	// paying out the block reward plus the collected fees.
	TxTypeReward TxType = 1

	// TxTypePay is an ordinary payment transaction.
	TxTypePay TxType = 2

	// TxTypeCreditGrant awards a credit value to an identity, gated by a
	// same-block payment proof and a time-window anti-abuse rule.
	TxTypeCreditGrant TxType = 3

	// TxTypeCreditViolation revokes credit from a misbehaving identity.
	TxTypeCreditViolation TxType = 4
)

// String returns the TxType in human-readable form.
func (t TxType) String() string {
	switch t {
	case TxTypeReward:
		return "reward"
	case TxTypePay:
		return "pay"
	case TxTypeCreditGrant:
		return "credit-grant"
	case TxTypeCreditViolation:
		return "credit-violation"
	}
	return "unknown"
}

// CreditReasonType identifies why a credit grant was issued. Only the
// payment reason is currently implemented; all other values must be rejected
// by validation.
type CreditReasonType uint8

// CreditReasonPay is a credit grant awarded for a confirmed payment.
const CreditReasonPay CreditReasonType = 1

// OutPoint references an output of a previous transaction.
type OutPoint struct {
	TxID  chainhash.Hash
	Index uint32
}

// TxIn is a transaction input: a reference to a prior output plus the
// unlocking proof for it.
type TxIn struct {
	PreviousOutpoint OutPoint
	SignatureScript  []byte
}

// TxOut is a transaction output: a destination script and an amount.
type TxOut struct {
	Value    uint64
	PkScript []byte
}

// MsgTx implements a transaction. A transaction is immutable once
// constructed; it is shared by reference within one block's validation pass
// and never mutated afterwards.
type MsgTx struct {
	Version int32
	Type    TxType
	TxIn    []*TxIn
	TxOut   []*TxOut

	// The following fields are meaningful only when Type is
	// TxTypeCreditGrant.

	// CreditAmount is the credit value awarded by the grant.
	CreditAmount uint64

	// ReasonType identifies why the grant was issued.
	ReasonType CreditReasonType

	// Reason is the hash of the same-block transaction serving as
	// evidence for the grant. Nil means no reference was supplied.
	Reason *chainhash.Hash

	// OwnerHash160 is the hash160 of the beneficiary's public key.
	OwnerHash160 []byte
}

// NewMsgTx returns a transaction of the given kind with no inputs or
// outputs.
func NewMsgTx(txType TxType) *MsgTx {
	return &MsgTx{Version: 1, Type: txType}
}

// AddTxIn appends a transaction input.
func (msg *MsgTx) AddTxIn(ti *TxIn) {
	msg.TxIn = append(msg.TxIn, ti)
}

// AddTxOut appends a transaction output.
func (msg *MsgTx) AddTxOut(to *TxOut) {
	msg.TxOut = append(msg.TxOut, to)
}

// IsReward returns whether the transaction is of the reward kind.
func (msg *MsgTx) IsReward() bool {
	return msg.Type == TxTypeReward
}

// TxHash generates the hash for the transaction.
func (msg *MsgTx) TxHash() chainhash.Hash {
	var buf bytes.Buffer
	_ = msg.Serialize(&buf)
	return chainhash.DoubleHashH(buf.Bytes())
}

// Serialize encodes the transaction to w using the canonical wire format.
func (msg *MsgTx) Serialize(w io.Writer) error {
	if err := writeUint32(w, uint32(msg.Version)); err != nil {
		return err
	}
	if err := writeUint16(w, uint16(msg.Type)); err != nil {
		return err
	}

	if err := writeUint32(w, uint32(len(msg.TxIn))); err != nil {
		return err
	}
	for _, ti := range msg.TxIn {
		if err := writeHash(w, &ti.PreviousOutpoint.TxID); err != nil {
			return err
		}
		if err := writeUint32(w, ti.PreviousOutpoint.Index); err != nil {
			return err
		}
		if err := writeVarBytes(w, ti.SignatureScript); err != nil {
			return err
		}
	}

	if err := writeUint32(w, uint32(len(msg.TxOut))); err != nil {
		return err
	}
	for _, to := range msg.TxOut {
		if err := writeUint64(w, to.Value); err != nil {
			return err
		}
		if err := writeVarBytes(w, to.PkScript); err != nil {
			return err
		}
	}

	if msg.Type != TxTypeCreditGrant {
		return nil
	}
	if err := writeUint64(w, msg.CreditAmount); err != nil {
		return err
	}
	if err := writeUint8(w, uint8(msg.ReasonType)); err != nil {
		return err
	}
	hasReason := uint8(0)
	if msg.Reason != nil {
		hasReason = 1
	}
	if err := writeUint8(w, hasReason); err != nil {
		return err
	}
	if msg.Reason != nil {
		if err := writeHash(w, msg.Reason); err != nil {
			return err
		}
	}
	return writeVarBytes(w, msg.OwnerHash160)
}

// Deserialize decodes a transaction from r.
func (msg *MsgTx) Deserialize(r io.Reader) error {
	version, err := readUint32(r)
	if err != nil {
		return err
	}
	msg.Version = int32(version)

	txType, err := readUint16(r)
	if err != nil {
		return err
	}
	msg.Type = TxType(txType)

	inCount, err := readUint32(r)
	if err != nil {
		return err
	}
	if inCount > maxTxInPerTransaction {
		return errors.Errorf("transaction declares %d inputs, max %d",
			inCount, maxTxInPerTransaction)
	}
	msg.TxIn = make([]*TxIn, 0, inCount)
	for i := uint32(0); i < inCount; i++ {
		txID, err := readHash(r)
		if err != nil {
			return err
		}
		index, err := readUint32(r)
		if err != nil {
			return err
		}
		sigScript, err := readVarBytes(r)
		if err != nil {
			return err
		}
		msg.TxIn = append(msg.TxIn, &TxIn{
			PreviousOutpoint: OutPoint{TxID: txID, Index: index},
			SignatureScript:  sigScript,
		})
	}

	outCount, err := readUint32(r)
	if err != nil {
		return err
	}
	if outCount > maxTxOutPerTransaction {
		return errors.Errorf("transaction declares %d outputs, max %d",
			outCount, maxTxOutPerTransaction)
	}
	msg.TxOut = make([]*TxOut, 0, outCount)
	for i := uint32(0); i < outCount; i++ {
		value, err := readUint64(r)
		if err != nil {
			return err
		}
		pkScript, err := readVarBytes(r)
		if err != nil {
			return err
		}
		msg.TxOut = append(msg.TxOut, &TxOut{Value: value, PkScript: pkScript})
	}

	if msg.Type != TxTypeCreditGrant {
		return nil
	}
	msg.CreditAmount, err = readUint64(r)
	if err != nil {
		return err
	}
	reasonType, err := readUint8(r)
	if err != nil {
		return err
	}
	msg.ReasonType = CreditReasonType(reasonType)

	hasReason, err := readUint8(r)
	if err != nil {
		return err
	}
	if hasReason != 0 {
		reason, err := readHash(r)
		if err != nil {
			return err
		}
		msg.Reason = &reason
	}
	msg.OwnerHash160, err = readVarBytes(r)
	return err
}

const (
	maxTxInPerTransaction  = 1 << 16
	maxTxOutPerTransaction = 1 << 16
)
