package credit

import (
	"bytes"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/children0001/inchain/blockchain"
	"github.com/children0001/inchain/chaincfg"
	"github.com/children0001/inchain/util"
	"github.com/children0001/inchain/wire"
)

// Engine validates credit-grant transactions against same-block evidence
// and a time-windowed anti-double-grant ledger. It implements
// blockchain.CreditValidator.
type Engine struct {
	grantAmount uint64
	ledger      Ledger
}

// NewEngine returns a credit rule engine for the given chain params, backed
// by the given ledger.
func NewEngine(params *chaincfg.Params, ledger Ledger) *Engine {
	return &Engine{grantAmount: params.CreditGrantAmount, ledger: ledger}
}

// ValidateGrant checks a credit-grant transaction. The grant must:
//   - be of an implemented reason type (only the payment reason exists;
//     anything else is rejected, never silently accepted)
//   - carry exactly the configured grant amount
//   - reference a sibling transaction that exists in the same block, is a
//     payment, and whose first input resolves to the grant's beneficiary
//   - pass the ledger's time-window check
//
// The ledger is not updated here; RecordGrant is called by the chain after
// the whole block commits.
func (e *Engine) ValidateGrant(creditTx *util.Tx, siblingTxs []*util.Tx, blockTime time.Time) error {
	msgTx := creditTx.MsgTx()

	if msgTx.ReasonType != wire.CreditReasonPay {
		str := fmt.Sprintf("credit reason type %d is not implemented", msgTx.ReasonType)
		return blockchain.NewRuleError(blockchain.ErrCreditReasonUnknown, str)
	}

	if msgTx.CreditAmount != e.grantAmount {
		str := fmt.Sprintf("credit grant %s awards %d, the configured grant amount is %d",
			creditTx.Hash(), msgTx.CreditAmount, e.grantAmount)
		return blockchain.NewRuleError(blockchain.ErrBadCreditAmount, str)
	}

	// The evidence must live in the same block as the grant.
	if msgTx.Reason == nil {
		str := fmt.Sprintf("credit grant %s carries no reason reference", creditTx.Hash())
		return blockchain.NewRuleError(blockchain.ErrCreditReasonMissing, str)
	}
	var reasonTx *util.Tx
	for _, siblingTx := range siblingTxs {
		if siblingTx.Hash().IsEqual(msgTx.Reason) {
			reasonTx = siblingTx
			break
		}
	}
	if reasonTx == nil {
		str := fmt.Sprintf("credit grant %s references transaction %s, which is not in the block",
			creditTx.Hash(), msgTx.Reason)
		return blockchain.NewRuleError(blockchain.ErrCreditReasonNotFound, str)
	}
	if reasonTx.MsgTx().Type != wire.TxTypePay {
		str := fmt.Sprintf("credit grant %s references a %s transaction, expected a payment",
			creditTx.Hash(), reasonTx.MsgTx().Type)
		return blockchain.NewRuleError(blockchain.ErrCreditReasonWrongKind, str)
	}

	// The credit must go to the identity that made the payment.
	owner, err := resolveOwnerHash160(reasonTx.MsgTx())
	if err != nil {
		str := fmt.Sprintf("cannot resolve the owner of reason transaction %s: %s",
			reasonTx.Hash(), err)
		return blockchain.NewRuleError(blockchain.ErrCreditWrongBeneficiary, str)
	}
	if !bytes.Equal(owner, msgTx.OwnerHash160) {
		str := fmt.Sprintf("credit grant %s names beneficiary %x, the reason transaction's owner is %x",
			creditTx.Hash(), msgTx.OwnerHash160, owner)
		return blockchain.NewRuleError(blockchain.ErrCreditWrongBeneficiary, str)
	}

	if !e.ledger.GrantAllowed(msgTx.ReasonType, msgTx.OwnerHash160, blockTime) {
		str := fmt.Sprintf("beneficiary %x was already granted credit of reason type %d within the window",
			msgTx.OwnerHash160, msgTx.ReasonType)
		return blockchain.NewRuleError(blockchain.ErrCreditWindow, str)
	}

	return nil
}

// RecordGrant records an accepted grant into the ledger. Must only be
// called for grants of blocks that have been fully committed.
func (e *Engine) RecordGrant(creditTx *util.Tx, blockTime time.Time) error {
	msgTx := creditTx.MsgTx()
	if msgTx.Type != wire.TxTypeCreditGrant {
		return errors.Errorf("transaction %s is not a credit grant", creditTx.Hash())
	}
	return e.ledger.RecordGrant(msgTx.ReasonType, msgTx.OwnerHash160, blockTime)
}
