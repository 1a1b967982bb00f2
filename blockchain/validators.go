package blockchain

import (
	"time"

	"github.com/children0001/inchain/util"
)

// TxValidationResult is the outcome of validating one transaction in the
// context of its sibling transactions. Fee must only be trusted when Success
// is true.
type TxValidationResult struct {
	Success bool
	Message string
	Fee     uint64
}

// TransactionValidator validates one transaction in the context of its
// sibling transactions in the same block. Its internal rules are a
// collaborator concern; the chain only requires the contract.
type TransactionValidator interface {
	ValidateTransaction(tx *util.Tx, siblingTxs []*util.Tx) *TxValidationResult
}

// CreditValidator validates credit-grant transactions against same-block
// evidence and a time-windowed anti-double-grant ledger, and records
// accepted grants. RecordGrant must only be called after the whole block has
// been committed, so that rejected blocks leave no ledger trace.
type CreditValidator interface {
	ValidateGrant(creditTx *util.Tx, siblingTxs []*util.Tx, blockTime time.Time) error
	RecordGrant(creditTx *util.Tx, blockTime time.Time) error
}

// ScriptVerifier verifies the block producer's embedded unlocking script.
// The cryptographic machinery behind it is assumed correct and invoked as a
// black box.
type ScriptVerifier interface {
	VerifyBlockScript(block *util.Block) error
}

// ForkTracker records blocks that fail linkage or validation for later
// reconciliation. Record must be idempotent by block hash and must never
// mutate committed chain state.
type ForkTracker interface {
	Record(block *util.Block) error
}
