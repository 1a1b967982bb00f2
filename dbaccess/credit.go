package dbaccess

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/children0001/inchain/database"
)

var creditGrantsBucket = []byte("credit-grants")

func creditGrantKey(reasonType uint8, owner []byte) []byte {
	return database.BuildKey(creditGrantsBucket, []byte{reasonType}, owner)
}

// StoreCreditGrant records the time of the most recent credit grant of the
// given reason type for the given owner identity, overwriting any previous
// record.
func StoreCreditGrant(ctx *DatabaseContext, reasonType uint8, owner []byte, grantTimeUnix int64) error {
	var value [8]byte
	binary.LittleEndian.PutUint64(value[:], uint64(grantTimeUnix))
	return ctx.db.Put(creditGrantKey(reasonType, owner), value[:])
}

// FetchCreditGrantTime returns the time of the most recent credit grant of
// the given reason type for the given owner identity. Returns
// database.ErrNotFound when no grant was ever recorded.
func FetchCreditGrantTime(ctx *DatabaseContext, reasonType uint8, owner []byte) (int64, error) {
	value, err := ctx.db.Get(creditGrantKey(reasonType, owner))
	if err != nil {
		return 0, err
	}
	if len(value) != 8 {
		return 0, errors.Errorf("corrupt credit grant record for owner %x", owner)
	}
	return int64(binary.LittleEndian.Uint64(value)), nil
}

// ForEachCreditGrant iterates over every stored credit grant record. Used to
// warm the in-memory ledger on startup.
func ForEachCreditGrant(ctx *DatabaseContext,
	fn func(reasonType uint8, owner []byte, grantTimeUnix int64) error) error {

	prefix := database.BuildBucketKey(creditGrantsBucket)
	return ctx.db.ForEach(prefix, func(key, value []byte) error {
		// Strip the bucket prefix: the remainder is "<reason>/<owner>".
		suffix := key[len(prefix):]
		if len(suffix) < 3 || len(value) != 8 {
			return errors.Errorf("corrupt credit grant key %x", key)
		}
		reasonType := suffix[0]
		owner := suffix[2:] // skip the reason byte and the separator
		return fn(reasonType, owner, int64(binary.LittleEndian.Uint64(value)))
	})
}
