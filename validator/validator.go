package validator

import (
	"fmt"

	"github.com/btcsuite/btcutil"

	"github.com/children0001/inchain/blockchain"
	"github.com/children0001/inchain/chaincfg"
	"github.com/children0001/inchain/util"
	"github.com/children0001/inchain/wire"
)

// maxUnits is the maximum value a single output or an output total may
// carry.
const maxUnits = 21e6 * chaincfg.UnitsPerCoin

// TxValidator is the default blockchain.TransactionValidator. It performs
// the context-free sanity rules plus a same-block double-spend scan. Fees
// require resolving prior outputs against a ledger this core does not own,
// so the reported fee is always zero; a fee-aware validator slots in behind
// the same interface.
type TxValidator struct{}

// New returns the default transaction validator.
func New() *TxValidator {
	return &TxValidator{}
}

// ValidateTransaction validates one transaction in the context of its
// sibling transactions in the same block.
func (v *TxValidator) ValidateTransaction(tx *util.Tx, siblingTxs []*util.Tx) *blockchain.TxValidationResult {
	msgTx := tx.MsgTx()

	// The transaction kind enumeration is closed: anything unknown fails
	// loudly.
	switch msgTx.Type {
	case wire.TxTypeReward, wire.TxTypePay, wire.TxTypeCreditGrant, wire.TxTypeCreditViolation:
	default:
		return failure(fmt.Sprintf("transaction type %d is not implemented", msgTx.Type))
	}

	// A transaction must have at least one input.
	if len(msgTx.TxIn) == 0 {
		return failure("transaction has no inputs")
	}

	// Ensure the transaction amounts are in range. Each transaction
	// output must not be more than the max allowed per transaction. Also,
	// the total of all outputs must abide by the same restriction.
	var totalUnits uint64
	for _, txOut := range msgTx.TxOut {
		if txOut.Value > maxUnits {
			return failure(fmt.Sprintf("transaction output value of %s is higher than max allowed value of %s",
				btcutil.Amount(txOut.Value), btcutil.Amount(maxUnits)))
		}
		newTotalUnits := totalUnits + txOut.Value
		if newTotalUnits < totalUnits || newTotalUnits > maxUnits {
			return failure(fmt.Sprintf("total value of all transaction outputs exceeds max allowed value of %s",
				btcutil.Amount(maxUnits)))
		}
		totalUnits = newTotalUnits
	}

	// Check for duplicate transaction inputs.
	existingOutpoints := make(map[wire.OutPoint]struct{})
	for _, txIn := range msgTx.TxIn {
		if _, exists := existingOutpoints[txIn.PreviousOutpoint]; exists {
			return failure("transaction contains duplicate inputs")
		}
		existingOutpoints[txIn.PreviousOutpoint] = struct{}{}
	}

	// Reward transactions reference no real prior outputs; the remaining
	// rules do not apply to them.
	if msgTx.IsReward() {
		return &blockchain.TxValidationResult{Success: true}
	}

	// No sibling transaction may spend the same prior output.
	if err := checkNoSameBlockDoubleSpend(tx, siblingTxs); err != "" {
		return failure(err)
	}

	return &blockchain.TxValidationResult{Success: true}
}

// checkNoSameBlockDoubleSpend scans the sibling list for another
// transaction spending any of tx's prior outputs. Returns a non-empty
// message on conflict.
func checkNoSameBlockDoubleSpend(tx *util.Tx, siblingTxs []*util.Tx) string {
	msgTx := tx.MsgTx()
	for _, siblingTx := range siblingTxs {
		if siblingTx.Hash().IsEqual(tx.Hash()) || siblingTx.IsReward() {
			continue
		}
		for _, siblingTxIn := range siblingTx.MsgTx().TxIn {
			for _, txIn := range msgTx.TxIn {
				if siblingTxIn.PreviousOutpoint == txIn.PreviousOutpoint {
					return fmt.Sprintf("output %s:%d is spent by sibling transaction %s",
						&txIn.PreviousOutpoint.TxID, txIn.PreviousOutpoint.Index, siblingTx.Hash())
				}
			}
		}
	}
	return ""
}

func failure(message string) *blockchain.TxValidationResult {
	log.Debugf("Transaction rejected: %s", message)
	return &blockchain.TxValidationResult{Success: false, Message: message}
}
