package blockchain

import (
	"fmt"
)

// ErrorCode identifies a kind of rule violation.
type ErrorCode int

// These constants are used to identify a specific RuleError.
const (
	// ErrDuplicateBlock indicates a block with the same hash already
	// exists in the chain. Not an attack: callers reply politely and no
	// fork entry is created.
	ErrDuplicateBlock ErrorCode = iota

	// ErrNoTransactions indicates the block does not have at least one
	// transaction. A valid block must have at least the reward
	// transaction.
	ErrNoTransactions

	// ErrInvalidBlockScript indicates the block producer's unlocking
	// script failed verification.
	ErrInvalidBlockScript

	// ErrBadMerkleRoot indicates the calculated merkle root does not
	// match the expected value.
	ErrBadMerkleRoot

	// ErrFirstTxNotReward indicates the first transaction in a block is
	// not a reward transaction.
	ErrFirstTxNotReward

	// ErrMultipleRewardTxs indicates a block contains more than one
	// reward transaction.
	ErrMultipleRewardTxs

	// ErrTxValidation indicates a transaction in the block failed
	// validation against its sibling transactions.
	ErrTxValidation

	// ErrFeeOverflow indicates the accumulated transaction fees of a
	// block overflow the amount type.
	ErrFeeOverflow

	// ErrBadRewardValue indicates the reward transaction does not pay
	// exactly the collected fees plus the scheduled reward.
	ErrBadRewardValue

	// ErrNotCanonical indicates a block that does not extend the current
	// best tip. Not necessarily malicious; the block is handed to the
	// fork tracker for possible future reconciliation.
	ErrNotCanonical

	// ErrBadCreditAmount indicates a credit-grant transaction carries a
	// credit value other than the single configured grant amount.
	ErrBadCreditAmount

	// ErrCreditReasonUnknown indicates a credit-grant transaction with a
	// reason type that is not implemented. Unknown reasons must be
	// rejected, never silently accepted.
	ErrCreditReasonUnknown

	// ErrCreditReasonMissing indicates a credit-grant transaction with no
	// reference to its same-block reason transaction.
	ErrCreditReasonMissing

	// ErrCreditReasonNotFound indicates the referenced reason transaction
	// is not present in the same block.
	ErrCreditReasonNotFound

	// ErrCreditReasonWrongKind indicates the referenced reason
	// transaction is not a payment transaction.
	ErrCreditReasonWrongKind

	// ErrCreditWrongBeneficiary indicates the reason transaction's
	// resolved owner identity differs from the grant's beneficiary.
	ErrCreditWrongBeneficiary

	// ErrCreditWindow indicates a grant of the same reason type was
	// already issued to the beneficiary within the configured window.
	ErrCreditWindow
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrDuplicateBlock:         "ErrDuplicateBlock",
	ErrNoTransactions:         "ErrNoTransactions",
	ErrInvalidBlockScript:     "ErrInvalidBlockScript",
	ErrBadMerkleRoot:          "ErrBadMerkleRoot",
	ErrFirstTxNotReward:       "ErrFirstTxNotReward",
	ErrMultipleRewardTxs:      "ErrMultipleRewardTxs",
	ErrTxValidation:           "ErrTxValidation",
	ErrFeeOverflow:            "ErrFeeOverflow",
	ErrBadRewardValue:         "ErrBadRewardValue",
	ErrNotCanonical:           "ErrNotCanonical",
	ErrBadCreditAmount:        "ErrBadCreditAmount",
	ErrCreditReasonUnknown:    "ErrCreditReasonUnknown",
	ErrCreditReasonMissing:    "ErrCreditReasonMissing",
	ErrCreditReasonNotFound:   "ErrCreditReasonNotFound",
	ErrCreditReasonWrongKind:  "ErrCreditReasonWrongKind",
	ErrCreditWrongBeneficiary: "ErrCreditWrongBeneficiary",
	ErrCreditWindow:           "ErrCreditWindow",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// RejectCategory classifies rule errors for reporting back to peers.
type RejectCategory int

// The rejection categories.
const (
	// RejectDuplicate - the block is already stored. No fork entry.
	RejectDuplicate RejectCategory = iota

	// RejectStructural - bad signature or merkle root. Hard reject.
	RejectStructural

	// RejectConsensus - per-transaction failure, reward arithmetic or
	// reward-position violation. Hard reject.
	RejectConsensus

	// RejectNotCanonical - a valid block that does not extend the current
	// tip. Soft reject.
	RejectNotCanonical
)

// Category returns the rejection category of the error code.
func (e ErrorCode) Category() RejectCategory {
	switch e {
	case ErrDuplicateBlock:
		return RejectDuplicate
	case ErrInvalidBlockScript, ErrBadMerkleRoot:
		return RejectStructural
	case ErrNotCanonical:
		return RejectNotCanonical
	}
	return RejectConsensus
}

// RuleError identifies a rule violation. It is used to indicate that
// processing of a block failed due to one of the many validation rules. The
// caller can use type assertion to access the ErrorCode field to ascertain
// the specific reason for the rule violation.
type RuleError struct {
	ErrorCode   ErrorCode // Describes the kind of error
	Description string    // Human readable description of the issue
}

// Error satisfies the error interface and prints human-readable errors.
func (e RuleError) Error() string {
	return e.Description
}

// ruleError creates a RuleError given a set of arguments.
func ruleError(c ErrorCode, desc string) RuleError {
	return RuleError{ErrorCode: c, Description: desc}
}

// NewRuleError creates a RuleError. It exists so collaborator packages (the
// credit rule engine) can produce rule violations in the same taxonomy.
func NewRuleError(c ErrorCode, desc string) RuleError {
	return ruleError(c, desc)
}
