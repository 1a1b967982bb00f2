package blockchain

import (
	"testing"
	"time"

	"github.com/children0001/inchain/util"
	"github.com/children0001/inchain/wire"
)

func TestDuplicateBlock(t *testing.T) {
	harness := newTestHarness(t)

	block := harness.buildBlock(1)
	if err := harness.chain.ProcessBlock(block); err != nil {
		t.Fatalf("ProcessBlock: unexpected error: %+v", err)
	}

	// Redelivery of an already-accepted block is rejected politely and
	// creates no fork entry.
	err := harness.chain.ProcessBlock(block)
	if err := checkRuleError(err, RuleError{ErrorCode: ErrDuplicateBlock}); err != nil {
		t.Fatal(err)
	}
	if n := forkEntryCount(t, harness.forkTracker, block.Hash()); n != 0 {
		t.Errorf("duplicate block has %d fork entries, want 0", n)
	}

	header, _ := harness.chain.BestHeader()
	if header.Height != 1 {
		t.Errorf("tip height is %d after duplicate delivery, want 1", header.Height)
	}

	// The genesis block is a duplicate too.
	genesis := util.NewBlock(harness.params.GenesisBlock)
	err = harness.chain.ProcessBlock(genesis)
	if err := checkRuleError(err, RuleError{ErrorCode: ErrDuplicateBlock}); err != nil {
		t.Fatal(err)
	}
}

func TestRejectedBlockRedelivery(t *testing.T) {
	harness := newTestHarness(t)

	// A non-canonical block: it skips a height.
	block := harness.buildBlock(0, func(msgBlock *wire.MsgBlock) {
		msgBlock.Header.Height += 5
	})

	for i := 0; i < 3; i++ {
		err := harness.chain.ProcessBlock(block)
		if err := checkRuleError(err, RuleError{ErrorCode: ErrNotCanonical}); err != nil {
			t.Fatalf("delivery %d: %s", i, err)
		}
	}

	// Repeat deliveries of the same bad block leave exactly one fork
	// entry.
	if n := forkEntryCount(t, harness.forkTracker, block.Hash()); n != 1 {
		t.Errorf("bad block has %d fork entries after redelivery, want 1", n)
	}
	entry, exists, err := harness.forkTracker.Entry(block.Hash())
	if err != nil {
		t.Fatalf("Entry: unexpected error: %+v", err)
	}
	if !exists {
		t.Fatal("Entry: fork entry missing")
	}
	if !entry.Hash().IsEqual(block.Hash()) {
		t.Errorf("fork entry hashes to %s, want %s", entry.Hash(), block.Hash())
	}
}

func TestAcceptanceNotifications(t *testing.T) {
	harness := newTestHarness(t)

	var added []*BlockAddedNotificationData
	var changed []*ChainChangedNotificationData
	harness.chain.Subscribe(func(notification *Notification) {
		switch notification.Type {
		case NTBlockAdded:
			added = append(added, notification.Data.(*BlockAddedNotificationData))
		case NTChainChanged:
			changed = append(changed, notification.Data.(*ChainChangedNotificationData))
		}
	})

	// A rejected block must not notify.
	bad := harness.buildBlock(0, func(msgBlock *wire.MsgBlock) {
		msgBlock.Transactions[0].TxOut[0].Value++
	})
	err := harness.chain.ProcessBlock(bad)
	if err := checkRuleError(err, RuleError{ErrorCode: ErrBadRewardValue}); err != nil {
		t.Fatal(err)
	}
	if len(added) != 0 || len(changed) != 0 {
		t.Fatalf("rejected block sent %d/%d notifications, want none",
			len(added), len(changed))
	}

	block := harness.buildBlock(1)
	if err := harness.chain.ProcessBlock(block); err != nil {
		t.Fatalf("ProcessBlock: unexpected error: %+v", err)
	}

	if len(added) != 1 {
		t.Fatalf("got %d block-added notifications, want 1", len(added))
	}
	if !added[0].Block.Hash().IsEqual(block.Hash()) {
		t.Errorf("block-added notification carries %s, want %s",
			added[0].Block.Hash(), block.Hash())
	}

	if len(changed) != 1 {
		t.Fatalf("got %d chain-changed notifications, want 1", len(changed))
	}
	data := changed[0]
	if data.Height != 1 {
		t.Errorf("chain-changed height is %d, want 1", data.Height)
	}
	if data.PreviousHeight != -1 {
		t.Errorf("chain-changed previous height is %d, want -1", data.PreviousHeight)
	}
	if !data.Hash.IsEqual(block.Hash()) {
		t.Errorf("chain-changed hash is %s, want %s", data.Hash, block.Hash())
	}
	if data.OldHash != nil {
		t.Errorf("chain-changed old hash is %s, want nil", data.OldHash)
	}
}

func TestSequentialChainGrowth(t *testing.T) {
	harness := newTestHarness(t)
	harness.txValidator.feePerTx = 123

	const numBlocks = 25
	for i := 0; i < numBlocks; i++ {
		block := harness.buildBlock(i % 4)
		if err := harness.chain.ProcessBlock(block); err != nil {
			t.Fatalf("block %d: unexpected error: %+v", i, err)
		}
	}

	header, _ := harness.chain.BestHeader()
	if header.Height != numBlocks {
		t.Errorf("tip height is %d, want %d", header.Height, numBlocks)
	}
}

// TestConcurrentCompetingBlocks delivers many distinct blocks for the same
// next height from concurrent goroutines. Exactly one must win; every loser
// must be rejected as non-canonical and recorded as a fork entry.
func TestConcurrentCompetingBlocks(t *testing.T) {
	harness := newTestHarness(t)

	const numCompeting = 8
	blocks := make([]*util.Block, numCompeting)
	for i := 0; i < numCompeting; i++ {
		offset := time.Duration(i) * time.Second
		blocks[i] = harness.buildBlock(0, func(msgBlock *wire.MsgBlock) {
			msgBlock.Header.Timestamp = msgBlock.Header.Timestamp.Add(offset)
		})
	}

	results := processConcurrently(harness.chain, blocks)

	accepted := 0
	for i, result := range results {
		if result == nil {
			accepted++
			continue
		}
		if err := checkRuleError(result, RuleError{ErrorCode: ErrNotCanonical}); err != nil {
			t.Errorf("block %d: %s", i, err)
		}
	}
	if accepted != 1 {
		t.Fatalf("%d competing blocks were accepted, want exactly 1", accepted)
	}

	header, hash := harness.chain.BestHeader()
	if header.Height != 1 {
		t.Errorf("tip height is %d, want 1", header.Height)
	}

	forkEntries := 0
	for _, block := range blocks {
		if block.Hash().IsEqual(hash) {
			continue
		}
		forkEntries += forkEntryCount(t, harness.forkTracker, block.Hash())
	}
	if forkEntries != numCompeting-1 {
		t.Errorf("losers left %d fork entries, want %d", forkEntries, numCompeting-1)
	}
	if n := forkEntryCount(t, harness.forkTracker, hash); n != 0 {
		t.Errorf("winner has %d fork entries, want 0", n)
	}
}
