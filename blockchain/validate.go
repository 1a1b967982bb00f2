package blockchain

import (
	"fmt"

	"github.com/btcsuite/btcutil"

	"github.com/children0001/inchain/util"
	"github.com/children0001/inchain/wire"
)

// verifyBlock runs the full rule set against a block, short-circuiting on
// the first failure. On success it returns the block's credit-grant
// transactions, to be recorded into the credit ledger after the block
// commits.
//
// The order of checks, each with its own rejection code:
//  1. producer unlocking script (structural)
//  2. merkle root recomputation (structural)
//  3. per-transaction pass with sibling context, the reward-position rule
//     and fee accumulation (consensus)
//  4. reward accounting: rewardOutput == fees + scheduledReward, exactly
//     (consensus)
//  5. linkage against the current best header (not canonical)
//
// This function MUST be called with the chain lock held (for writes).
func (chain *BlockChain) verifyBlock(block *util.Block) ([]*util.Tx, error) {
	header := &block.MsgBlock().Header

	// Verify the block producer's embedded unlocking script. The
	// cryptography itself is a collaborator concern.
	if chain.scriptVerifier != nil {
		err := chain.scriptVerifier.VerifyBlockScript(block)
		if err != nil {
			str := fmt.Sprintf("block script verification failed: %s", err)
			return nil, ruleError(ErrInvalidBlockScript, str)
		}
	}

	transactions := block.Transactions()
	if len(transactions) == 0 {
		return nil, ruleError(ErrNoTransactions, "block does not contain any transactions")
	}

	// The merkle root recomputed from the transaction sequence must equal
	// the header's recorded merkle root.
	merkles := BuildHashMerkleTreeStore(transactions)
	calculatedMerkleRoot := merkles[len(merkles)-1]
	if !header.MerkleRoot.IsEqual(calculatedMerkleRoot) {
		str := fmt.Sprintf("block merkle root is invalid - block header indicates %s, "+
			"but calculated value is %s", &header.MerkleRoot, calculatedMerkleRoot)
		return nil, ruleError(ErrBadMerkleRoot, str)
	}

	pendingGrants, totalFees, rewardOutputValue, err := chain.checkBlockTransactions(block, transactions)
	if err != nil {
		return nil, err
	}

	// The reward transaction's output value must equal the collected fees
	// plus the scheduled reward, with no rounding tolerance.
	scheduledReward := chain.rewardSchedule.RewardFor(header.Height)
	expectedRewardOutput := totalFees + scheduledReward
	if rewardOutputValue != expectedRewardOutput {
		str := fmt.Sprintf("reward transaction pays %s, expected %s (fees %s + scheduled reward %s)",
			btcutil.Amount(rewardOutputValue), btcutil.Amount(expectedRewardOutput),
			btcutil.Amount(totalFees), btcutil.Amount(scheduledReward))
		return nil, ruleError(ErrBadRewardValue, str)
	}

	// The block must extend the current best tip: no gaps, no forks
	// accepted as canonical. The tip is read here, not cached from an
	// earlier invocation.
	if !header.PrevBlock.IsEqual(&chain.bestHash) || header.Height != chain.bestHeader.Height+1 {
		str := fmt.Sprintf("block %s (height %d, previous %s) does not extend the best tip %s (height %d)",
			block.Hash(), header.Height, &header.PrevBlock, &chain.bestHash, chain.bestHeader.Height)
		return nil, ruleError(ErrNotCanonical, str)
	}

	return pendingGrants, nil
}

// checkBlockTransactions iterates the block's transactions in order,
// validating each with the full sibling list as context, enforcing the
// reward-position rule and accumulating fees. It returns the credit-grant
// transactions encountered, the accumulated fees and the reward
// transaction's output value.
func (chain *BlockChain) checkBlockTransactions(block *util.Block, transactions []*util.Tx) (
	pendingGrants []*util.Tx, totalFees uint64, rewardOutputValue uint64, err error) {

	blockTime := block.MsgBlock().Header.Timestamp
	seenReward := false
	for _, tx := range transactions {
		result := chain.txValidator.ValidateTransaction(tx, transactions)
		if !result.Success {
			str := fmt.Sprintf("transaction %s failed validation: %s", tx.Hash(), result.Message)
			return nil, 0, 0, ruleError(ErrTxValidation, str)
		}

		// Credit grants carry extra same-block and time-window rules;
		// an engine failure is fatal to the whole block.
		if tx.MsgTx().Type == wire.TxTypeCreditGrant {
			err := chain.creditValidator.ValidateGrant(tx, transactions, blockTime)
			if err != nil {
				return nil, 0, 0, err
			}
			pendingGrants = append(pendingGrants, tx)
		}

		// The first transaction must be the reward transaction; any
		// later reward transaction is fatal.
		if !seenReward {
			if !tx.IsReward() {
				return nil, 0, 0, ruleError(ErrFirstTxNotReward,
					"the first transaction of the block is not a reward transaction")
			}
			for _, txOut := range tx.MsgTx().TxOut {
				rewardOutputValue += txOut.Value
			}
			seenReward = true
			continue
		}
		if tx.IsReward() {
			str := fmt.Sprintf("the block contains a second reward transaction %s", tx.Hash())
			return nil, 0, 0, ruleError(ErrMultipleRewardTxs, str)
		}

		newTotalFees := totalFees + result.Fee
		if newTotalFees < totalFees {
			str := fmt.Sprintf("accumulated fees overflow after transaction %s", tx.Hash())
			return nil, 0, 0, ruleError(ErrFeeOverflow, str)
		}
		totalFees = newTotalFees
	}

	return pendingGrants, totalFees, rewardOutputValue, nil
}
