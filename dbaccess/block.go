package dbaccess

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/pkg/errors"

	"github.com/children0001/inchain/database"
)

var (
	blocksBucket  = []byte("blocks")
	headersBucket = []byte("headers")
)

// StoreBlock stores the given block bytes under its hash and indexes its
// serialized header for by-hash header lookups.
func StoreBlock(ctx *DatabaseContext, hash *chainhash.Hash, blockBytes, headerBytes []byte) error {
	exists, err := HasBlock(ctx, hash)
	if err != nil {
		return err
	}
	if exists {
		return errors.Errorf("block %s already exists", hash)
	}

	err = ctx.db.Put(database.BuildKey(blocksBucket, hash[:]), blockBytes)
	if err != nil {
		return err
	}
	return ctx.db.Put(database.BuildKey(headersBucket, hash[:]), headerBytes)
}

// HasBlock returns whether the block of the given hash has been previously
// inserted into the database.
func HasBlock(ctx *DatabaseContext, hash *chainhash.Hash) (bool, error) {
	return ctx.db.Has(database.BuildKey(blocksBucket, hash[:]))
}

// FetchBlock returns the block bytes of the given hash. Returns
// database.ErrNotFound if the block does not exist.
func FetchBlock(ctx *DatabaseContext, hash *chainhash.Hash) ([]byte, error) {
	return ctx.db.Get(database.BuildKey(blocksBucket, hash[:]))
}

// FetchBlockHeader returns the serialized header of the given block hash.
// Returns database.ErrNotFound if no header is indexed for the hash.
func FetchBlockHeader(ctx *DatabaseContext, hash *chainhash.Hash) ([]byte, error) {
	return ctx.db.Get(database.BuildKey(headersBucket, hash[:]))
}

// HasBlockHeader returns whether a header is indexed for the given hash.
func HasBlockHeader(ctx *DatabaseContext, hash *chainhash.Hash) (bool, error) {
	return ctx.db.Has(database.BuildKey(headersBucket, hash[:]))
}
