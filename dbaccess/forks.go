package dbaccess

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/children0001/inchain/database"
)

var forkEntriesBucket = []byte("fork-entries")

// StoreForkEntry stores a rejected or non-canonical block verbatim for later
// reconciliation. Write-once: storing an already-present hash is a no-op.
func StoreForkEntry(ctx *DatabaseContext, hash *chainhash.Hash, blockBytes []byte) error {
	key := database.BuildKey(forkEntriesBucket, hash[:])
	exists, err := ctx.db.Has(key)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return ctx.db.Put(key, blockBytes)
}

// HasForkEntry returns whether a fork entry exists for the given hash.
func HasForkEntry(ctx *DatabaseContext, hash *chainhash.Hash) (bool, error) {
	return ctx.db.Has(database.BuildKey(forkEntriesBucket, hash[:]))
}

// FetchForkEntry returns the verbatim block bytes of a fork entry. Returns
// database.ErrNotFound if no entry exists for the hash.
func FetchForkEntry(ctx *DatabaseContext, hash *chainhash.Hash) ([]byte, error) {
	return ctx.db.Get(database.BuildKey(forkEntriesBucket, hash[:]))
}
