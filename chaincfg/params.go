package chaincfg

import (
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/children0001/inchain/wire"
)

const (
	// UnitsPerCoin is the number of base units in one coin.
	UnitsPerCoin = 1e8

	// baseReward is the starting reward amount for accepted blocks. This
	// value is halved every RewardHalvingInterval blocks.
	baseReward = 50 * UnitsPerCoin
)

// Params defines an inchain network by its parameters.
type Params struct {
	// Name defines a human-readable identifier for the network.
	Name string

	// GenesisBlock is the first block of the chain.
	GenesisBlock *wire.MsgBlock

	// GenesisHash is the genesis block hash.
	GenesisHash *chainhash.Hash

	// BaseReward is the reward paid by blocks before the first halving.
	BaseReward uint64

	// RewardHalvingInterval is the number of blocks between reward
	// halvings. Zero disables halving.
	RewardHalvingInterval uint64

	// CreditGrantAmount is the only credit value a credit-grant
	// transaction of the payment reason may carry.
	CreditGrantAmount uint64

	// CreditWindow is the minimum time that must pass between two credit
	// grants of the same reason type to the same identity.
	CreditWindow time.Duration
}

// MainNetParams defines the network parameters for the main inchain network.
var MainNetParams = Params{
	Name:                  "mainnet",
	GenesisBlock:          &genesisBlock,
	GenesisHash:           &genesisHash,
	BaseReward:            baseReward,
	RewardHalvingInterval: 420480,
	CreditGrantAmount:     1,
	CreditWindow:          24 * time.Hour,
}

// SimNetParams defines the network parameters for the simulation test
// network, used by the package tests. It shares the mainnet genesis but
// shortens the credit window so window expiry is testable.
var SimNetParams = Params{
	Name:                  "simnet",
	GenesisBlock:          &genesisBlock,
	GenesisHash:           &genesisHash,
	BaseReward:            baseReward,
	RewardHalvingInterval: 420480,
	CreditGrantAmount:     1,
	CreditWindow:          time.Hour,
}
