package credit

import (
	"sync"
	"time"

	"github.com/children0001/inchain/dbaccess"
	"github.com/children0001/inchain/infrastructure/logger"
	"github.com/children0001/inchain/wire"
)

// Ledger is the time-windowed anti-double-grant store: a keyed lookup of the
// most recent grant per (reason type, owner identity). Its physical layout
// is an implementation choice, not part of the contract.
type Ledger interface {
	// GrantAllowed reports whether a grant of the given reason type may
	// be issued to the owner at blockTime, i.e. no prior grant of the
	// same reason type falls within the configured window.
	GrantAllowed(reasonType wire.CreditReasonType, owner []byte, blockTime time.Time) bool

	// RecordGrant records a grant issued at blockTime. Called exactly
	// once per accepted block containing the grant.
	RecordGrant(reasonType wire.CreditReasonType, owner []byte, blockTime time.Time) error
}

// Collection is the default Ledger: grant times are held in memory for fast
// window checks (space traded for time) and written through to the database
// so the ledger survives restarts. All chain-driven access happens inside
// the block-acceptance exclusive region; the mutex additionally covers
// out-of-band readers.
type Collection struct {
	mtx    sync.RWMutex
	window time.Duration
	db     *dbaccess.DatabaseContext
	grants map[grantKey]time.Time
}

type grantKey struct {
	reasonType wire.CreditReasonType
	owner      string
}

// NewCollection returns a Collection enforcing the given window, warmed from
// the database. db may be nil for a purely in-memory ledger.
func NewCollection(window time.Duration, db *dbaccess.DatabaseContext) (*Collection, error) {
	c := &Collection{
		window: window,
		db:     db,
		grants: make(map[grantKey]time.Time),
	}
	if db == nil {
		return c, nil
	}

	// Warming the ledger walks every stored grant record.
	defer logger.LogAndMeasureExecutionTime(log, "credit.NewCollection")()

	err := dbaccess.ForEachCreditGrant(db, func(reasonType uint8, owner []byte, grantTimeUnix int64) error {
		key := grantKey{reasonType: wire.CreditReasonType(reasonType), owner: string(owner)}
		c.grants[key] = time.Unix(grantTimeUnix, 0)
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Debugf("Loaded %d credit grant records", len(c.grants))
	return c, nil
}

// GrantAllowed reports whether no prior grant of the same reason type to
// the same owner falls within the window before blockTime.
func (c *Collection) GrantAllowed(reasonType wire.CreditReasonType, owner []byte, blockTime time.Time) bool {
	c.mtx.RLock()
	defer c.mtx.RUnlock()

	last, ok := c.grants[grantKey{reasonType: reasonType, owner: string(owner)}]
	if !ok {
		return true
	}
	return blockTime.Sub(last) >= c.window
}

// RecordGrant records the grant in memory and writes it through to the
// database.
func (c *Collection) RecordGrant(reasonType wire.CreditReasonType, owner []byte, blockTime time.Time) error {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if c.db != nil {
		err := dbaccess.StoreCreditGrant(c.db, uint8(reasonType), owner, blockTime.Unix())
		if err != nil {
			return err
		}
	}
	c.grants[grantKey{reasonType: reasonType, owner: string(owner)}] = blockTime
	return nil
}
