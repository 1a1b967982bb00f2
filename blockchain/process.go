package blockchain

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/children0001/inchain/dbaccess"
	"github.com/children0001/inchain/util"
)

// ProcessBlock is the main workhorse for handling insertion of new blocks
// into the chain. It includes functionality such as rejecting duplicate
// blocks, ensuring blocks follow all rules, fork handoff, and insertion into
// the chain.
//
// A nil return means the block was accepted and the chain tip advanced. A
// RuleError describes why the block was rejected; any other error denotes an
// internal failure (such as a persistence error after validation passed).
// Every non-duplicate rejection records the block into the fork tracker
// before returning.
//
// This function is safe for concurrent access: a single exclusive region
// covers the whole duplicate-check -> validate -> persist -> advance-tip
// sequence.
func (chain *BlockChain) ProcessBlock(block *util.Block) error {
	chain.chainLock.Lock()
	defer chain.chainLock.Unlock()
	return chain.processBlockNoLock(block)
}

func (chain *BlockChain) processBlockNoLock(block *util.Block) error {
	blockHash := block.Hash()
	log.Tracef("Processing block %s", blockHash)

	// The block must not already exist in the chain. A duplicate is not
	// an attack: the caller replies politely and no fork entry is
	// created.
	exists, err := dbaccess.HasBlock(chain.db, blockHash)
	if err != nil {
		return err
	}
	if exists {
		str := fmt.Sprintf("already have block %s", blockHash)
		return ruleError(ErrDuplicateBlock, str)
	}

	pendingGrants, err := chain.verifyBlock(block)
	if err != nil {
		return chain.handleRejectedBlock(block, err)
	}

	// Validation passed. Persist the block and advance the tip. A
	// persistence failure is surfaced as a rejection even though the
	// block was semantically valid; the fork record keeps it from being
	// silently lost.
	err = chain.connectBlock(block)
	if err != nil {
		return chain.handleRejectedBlock(block, err)
	}

	// Record credit grants only now that the whole block is committed, so
	// blocks rejected for unrelated later reasons leave no ledger trace.
	blockTime := block.MsgBlock().Header.Timestamp
	for _, grantTx := range pendingGrants {
		err := chain.creditValidator.RecordGrant(grantTx, blockTime)
		if err != nil {
			return errors.Wrapf(err, "failed recording credit grant %s of committed block %s",
				grantTx.Hash(), blockHash)
		}
	}

	chain.notifyBlockAccepted(block)

	log.Debugf("Accepted block %s", blockHash)
	return nil
}

// connectBlock persists the block and advances the best tip to it.
//
// This function MUST be called with the chain lock held (for writes).
func (chain *BlockChain) connectBlock(block *util.Block) error {
	err := chain.storeBlock(block)
	if err != nil {
		return err
	}
	err = dbaccess.StoreBestHeaderHash(chain.db, block.Hash())
	if err != nil {
		return err
	}
	chain.bestHeader = block.MsgBlock().Header
	chain.bestHash = *block.Hash()
	return nil
}

// handleRejectedBlock records the rejected block into the fork tracker and
// passes the rejection through. Recording is idempotent by hash, so repeat
// delivery of an identical bad block creates no second entry.
func (chain *BlockChain) handleRejectedBlock(block *util.Block, rejection error) error {
	var ruleErr RuleError
	if errors.As(rejection, &ruleErr) {
		log.Debugf("Rejected block %s: %s (%s)", block.Hash(), ruleErr.Description, ruleErr.ErrorCode)
	} else {
		log.Errorf("Failed processing block %s: %s", block.Hash(), rejection)
	}

	err := chain.forkTracker.Record(block)
	if err != nil {
		log.Errorf("Failed recording block %s into the fork tracker: %s", block.Hash(), err)
	}
	return rejection
}

// notifyBlockAccepted notifies the caller that the new block was accepted
// into the chain. The caller would typically want to react by relaying the
// block to other peers.
//
// This function assumes that the chain lock is currently held.
func (chain *BlockChain) notifyBlockAccepted(block *util.Block) {
	// Notifications run caller code; release the exclusive region for
	// their duration.
	chain.chainLock.Unlock()
	defer chain.chainLock.Lock()

	chain.sendNotification(NTBlockAdded, &BlockAddedNotificationData{
		Block: block,
	})
	chain.sendNotification(NTChainChanged, &ChainChangedNotificationData{
		Height:         block.Height(),
		PreviousHeight: -1,
		Hash:           block.Hash(),
		OldHash:        nil,
	})
}
