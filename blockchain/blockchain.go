package blockchain

import (
	"bytes"
	"sync"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/pkg/errors"

	"github.com/children0001/inchain/chaincfg"
	"github.com/children0001/inchain/database"
	"github.com/children0001/inchain/dbaccess"
	"github.com/children0001/inchain/util"
	"github.com/children0001/inchain/wire"
)

// BlockChain is the block-acceptance core: it decides whether a block
// received from a peer is valid and may be committed to local chain state.
// The chainLock serializes the whole duplicate-check -> validate -> persist
// -> advance-tip sequence, so at most one block is evaluated-and-committed
// at a time.
type BlockChain struct {
	chainLock sync.RWMutex

	db              *dbaccess.DatabaseContext
	params          *chaincfg.Params
	txValidator     TransactionValidator
	creditValidator CreditValidator
	scriptVerifier  ScriptVerifier
	forkTracker     ForkTracker
	rewardSchedule  RewardSchedule

	// bestHeader/bestHash hold the chain tip. Advanced only by the commit
	// step under chainLock.
	bestHeader wire.BlockHeader
	bestHash   chainhash.Hash

	notificationsLock sync.RWMutex
	notifications     []NotificationCallback
}

// Config is a descriptor which specifies the blockchain instance
// configuration.
type Config struct {
	// DatabaseContext is the database in which blocks, headers and chain
	// state are persisted.
	DatabaseContext *dbaccess.DatabaseContext

	// Params identifies the chain the instance is associated with.
	Params *chaincfg.Params

	// TxValidator validates individual transactions with their sibling
	// context.
	TxValidator TransactionValidator

	// CreditValidator validates and records credit-grant transactions.
	CreditValidator CreditValidator

	// ScriptVerifier verifies the block producer's unlocking script. May
	// be nil, in which case the check is delegated entirely to the (out
	// of process) crypto collaborator and skipped here.
	ScriptVerifier ScriptVerifier

	// ForkTracker records rejected and non-canonical blocks.
	ForkTracker ForkTracker

	// RewardSchedule yields the scheduled reward per height. May be nil,
	// in which case the params' halving schedule is used.
	RewardSchedule RewardSchedule
}

// New returns a BlockChain instance using the provided configuration
// details. If the database holds no chain state yet, the genesis block is
// inserted.
func New(config *Config) (*BlockChain, error) {
	if config.DatabaseContext == nil {
		return nil, errors.New("blockchain.New requires a database context")
	}
	if config.Params == nil {
		return nil, errors.New("blockchain.New requires chain params")
	}
	if config.TxValidator == nil {
		return nil, errors.New("blockchain.New requires a transaction validator")
	}
	if config.CreditValidator == nil {
		return nil, errors.New("blockchain.New requires a credit validator")
	}
	if config.ForkTracker == nil {
		return nil, errors.New("blockchain.New requires a fork tracker")
	}

	rewardSchedule := config.RewardSchedule
	if rewardSchedule == nil {
		rewardSchedule = NewHalvingRewardSchedule(config.Params)
	}

	chain := &BlockChain{
		db:              config.DatabaseContext,
		params:          config.Params,
		txValidator:     config.TxValidator,
		creditValidator: config.CreditValidator,
		scriptVerifier:  config.ScriptVerifier,
		forkTracker:     config.ForkTracker,
		rewardSchedule:  rewardSchedule,
	}

	err := chain.initChainState()
	if err != nil {
		return nil, err
	}

	log.Infof("Chain state (height %d, hash %s)", chain.bestHeader.Height, chain.bestHash)
	return chain, nil
}

// initChainState loads the best header from the database, inserting the
// genesis block on a fresh database.
func (chain *BlockChain) initChainState() error {
	bestHash, err := dbaccess.FetchBestHeaderHash(chain.db)
	if database.IsNotFoundError(err) {
		return chain.createChainState()
	}
	if err != nil {
		return err
	}

	header, err := chain.fetchHeader(bestHash)
	if err != nil {
		return errors.Wrapf(err, "could not load best header %s", bestHash)
	}
	chain.bestHeader = *header
	chain.bestHash = *bestHash
	return nil
}

// createChainState initializes a fresh database with the genesis block.
func (chain *BlockChain) createChainState() error {
	genesis := util.NewBlock(chain.params.GenesisBlock)
	log.Infof("Initializing chain state with genesis block %s", genesis.Hash())

	err := chain.storeBlock(genesis)
	if err != nil {
		return err
	}
	err = dbaccess.StoreBestHeaderHash(chain.db, genesis.Hash())
	if err != nil {
		return err
	}
	chain.bestHeader = genesis.MsgBlock().Header
	chain.bestHash = *genesis.Hash()
	return nil
}

// storeBlock persists the block's bytes and its header index entry.
func (chain *BlockChain) storeBlock(block *util.Block) error {
	blockBytes, err := block.Bytes()
	if err != nil {
		return err
	}
	var headerBuf bytes.Buffer
	err = block.MsgBlock().Header.Serialize(&headerBuf)
	if err != nil {
		return err
	}
	return dbaccess.StoreBlock(chain.db, block.Hash(), blockBytes, headerBuf.Bytes())
}

// fetchHeader loads and deserializes a stored header by hash.
func (chain *BlockChain) fetchHeader(hash *chainhash.Hash) (*wire.BlockHeader, error) {
	headerBytes, err := dbaccess.FetchBlockHeader(chain.db, hash)
	if err != nil {
		return nil, err
	}
	header := new(wire.BlockHeader)
	err = header.Deserialize(bytes.NewReader(headerBytes))
	if err != nil {
		return nil, err
	}
	return header, nil
}

// BestHeader returns the header of the current best chain tip together with
// its hash.
//
// This function is safe for concurrent access.
func (chain *BlockChain) BestHeader() (*wire.BlockHeader, *chainhash.Hash) {
	chain.chainLock.RLock()
	defer chain.chainLock.RUnlock()
	header := chain.bestHeader
	hash := chain.bestHash
	return &header, &hash
}

// HeaderByHash returns the stored header with the given hash, or
// exists=false when no such header is stored.
//
// This function is safe for concurrent access.
func (chain *BlockChain) HeaderByHash(hash *chainhash.Hash) (header *wire.BlockHeader, exists bool, err error) {
	chain.chainLock.RLock()
	defer chain.chainLock.RUnlock()

	header, err = chain.fetchHeader(hash)
	if database.IsNotFoundError(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return header, true, nil
}

// BlockByHash returns the stored block with the given hash, or exists=false
// when no such block is stored.
//
// This function is safe for concurrent access.
func (chain *BlockChain) BlockByHash(hash *chainhash.Hash) (block *util.Block, exists bool, err error) {
	chain.chainLock.RLock()
	defer chain.chainLock.RUnlock()

	blockBytes, err := dbaccess.FetchBlock(chain.db, hash)
	if database.IsNotFoundError(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	block, err = util.NewBlockFromBytes(blockBytes)
	if err != nil {
		return nil, false, err
	}
	return block, true, nil
}
