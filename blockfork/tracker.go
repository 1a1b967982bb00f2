package blockfork

import (
	"sync"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/children0001/inchain/dbaccess"
	"github.com/children0001/inchain/util"
)

// Tracker retains blocks that failed validation or did not extend the
// canonical chain, keyed by hash, for later reconciliation. Entries are
// write-once and never promoted to canonical state by the tracker itself.
type Tracker struct {
	mtx     sync.RWMutex
	entries map[chainhash.Hash]*util.Block
	db      *dbaccess.DatabaseContext
}

// NewTracker returns a fork tracker writing through to the given database.
// db may be nil for a purely in-memory tracker.
func NewTracker(db *dbaccess.DatabaseContext) *Tracker {
	return &Tracker{
		entries: make(map[chainhash.Hash]*util.Block),
		db:      db,
	}
}

// Record stores the block verbatim. Idempotent by hash: repeat delivery of
// an identical block creates no second entry.
func (t *Tracker) Record(block *util.Block) error {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	blockHash := block.Hash()
	if _, exists := t.entries[*blockHash]; exists {
		return nil
	}
	if t.db != nil {
		exists, err := dbaccess.HasForkEntry(t.db, blockHash)
		if err != nil {
			return err
		}
		if !exists {
			blockBytes, err := block.Bytes()
			if err != nil {
				return err
			}
			err = dbaccess.StoreForkEntry(t.db, blockHash, blockBytes)
			if err != nil {
				return err
			}
		}
	}
	t.entries[*blockHash] = block

	log.Infof("Recorded fork entry %s (height %d)", blockHash, block.Height())
	return nil
}

// Has returns whether a fork entry exists for the given hash.
func (t *Tracker) Has(hash *chainhash.Hash) (bool, error) {
	t.mtx.RLock()
	defer t.mtx.RUnlock()

	if _, exists := t.entries[*hash]; exists {
		return true, nil
	}
	if t.db == nil {
		return false, nil
	}
	return dbaccess.HasForkEntry(t.db, hash)
}

// Entry returns the retained block for the given hash, or exists=false when
// no entry was recorded.
func (t *Tracker) Entry(hash *chainhash.Hash) (block *util.Block, exists bool, err error) {
	t.mtx.RLock()
	defer t.mtx.RUnlock()

	if block, ok := t.entries[*hash]; ok {
		return block, true, nil
	}
	if t.db == nil {
		return nil, false, nil
	}
	has, err := dbaccess.HasForkEntry(t.db, hash)
	if err != nil || !has {
		return nil, false, err
	}
	blockBytes, err := dbaccess.FetchForkEntry(t.db, hash)
	if err != nil {
		return nil, false, err
	}
	block, err = util.NewBlockFromBytes(blockBytes)
	if err != nil {
		return nil, false, err
	}
	return block, true, nil
}

// Count returns the number of fork entries recorded by this tracker
// instance since it was created.
func (t *Tracker) Count() int {
	t.mtx.RLock()
	defer t.mtx.RUnlock()
	return len(t.entries)
}
