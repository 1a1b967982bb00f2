package dbaccess

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/children0001/inchain/database"
)

var bestHeaderKey = database.BuildKey([]byte("chainstate"), []byte("best-header"))

// StoreBestHeaderHash updates the hash of the chain's best header.
func StoreBestHeaderHash(ctx *DatabaseContext, hash *chainhash.Hash) error {
	return ctx.db.Put(bestHeaderKey, hash[:])
}

// FetchBestHeaderHash returns the hash of the chain's best header. Returns
// database.ErrNotFound when the chain state was never initialized.
func FetchBestHeaderHash(ctx *DatabaseContext) (*chainhash.Hash, error) {
	hashBytes, err := ctx.db.Get(bestHeaderKey)
	if err != nil {
		return nil, err
	}
	return chainhash.NewHash(hashBytes)
}
