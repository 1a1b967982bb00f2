package blockchain

import (
	"encoding/binary"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/pkg/errors"

	"github.com/children0001/inchain/blockfork"
	"github.com/children0001/inchain/chaincfg"
	"github.com/children0001/inchain/dbaccess"
	"github.com/children0001/inchain/util"
	"github.com/children0001/inchain/wire"
)

// testTxValidator approves every transaction and reports a fixed fee for
// every non-reward transaction. Set failHash to make a specific transaction
// fail.
type testTxValidator struct {
	feePerTx    uint64
	failHash    *chainhash.Hash
	failMessage string
}

func (v *testTxValidator) ValidateTransaction(tx *util.Tx, siblingTxs []*util.Tx) *TxValidationResult {
	if v.failHash != nil && tx.Hash().IsEqual(v.failHash) {
		return &TxValidationResult{Success: false, Message: v.failMessage}
	}
	if tx.IsReward() {
		return &TxValidationResult{Success: true}
	}
	return &TxValidationResult{Success: true, Fee: v.feePerTx}
}

// testCreditValidator returns a configurable verdict for every grant and
// remembers which grants were recorded.
type testCreditValidator struct {
	validateErr error
	recorded    []*util.Tx
}

func (v *testCreditValidator) ValidateGrant(creditTx *util.Tx, siblingTxs []*util.Tx, blockTime time.Time) error {
	return v.validateErr
}

func (v *testCreditValidator) RecordGrant(creditTx *util.Tx, blockTime time.Time) error {
	v.recorded = append(v.recorded, creditTx)
	return nil
}

// testScriptVerifier returns a configurable verdict for every block.
type testScriptVerifier struct {
	err error
}

func (v *testScriptVerifier) VerifyBlockScript(block *util.Block) error {
	return v.err
}

// testHarness bundles a chain over a throwaway database with its stub
// collaborators.
type testHarness struct {
	chain           *BlockChain
	params          *chaincfg.Params
	txValidator     *testTxValidator
	creditValidator *testCreditValidator
	scriptVerifier  *testScriptVerifier
	forkTracker     *blockfork.Tracker

	// txSeed makes every generated payment transaction spend a unique
	// prior output.
	txSeed uint64
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()

	databaseContext, err := dbaccess.New(t.TempDir())
	if err != nil {
		t.Fatalf("error creating database: %+v", err)
	}
	t.Cleanup(func() {
		if err := databaseContext.Close(); err != nil {
			t.Errorf("error closing database: %+v", err)
		}
	})

	params := chaincfg.SimNetParams
	harness := &testHarness{
		params:          &params,
		txValidator:     &testTxValidator{},
		creditValidator: &testCreditValidator{},
		scriptVerifier:  &testScriptVerifier{},
		forkTracker:     blockfork.NewTracker(nil),
	}

	harness.chain, err = New(&Config{
		DatabaseContext: databaseContext,
		Params:          &params,
		TxValidator:     harness.txValidator,
		CreditValidator: harness.creditValidator,
		ScriptVerifier:  harness.scriptVerifier,
		ForkTracker:     harness.forkTracker,
	})
	if err != nil {
		t.Fatalf("error creating chain: %+v", err)
	}
	return harness
}

// newPaymentTx builds a payment transaction spending a unique prior output.
func (harness *testHarness) newPaymentTx() *wire.MsgTx {
	harness.txSeed++
	var seed [8]byte
	binary.LittleEndian.PutUint64(seed[:], harness.txSeed)
	prevTxID := chainhash.DoubleHashH(seed[:])

	tx := wire.NewMsgTx(wire.TxTypePay)
	tx.AddTxIn(&wire.TxIn{
		PreviousOutpoint: wire.OutPoint{TxID: prevTxID, Index: 0},
		SignatureScript:  []byte{2, 0x01, 0x02, 3, 0x0a, 0x0b, 0x0c},
	})
	tx.AddTxOut(&wire.TxOut{Value: 10 * chaincfg.UnitsPerCoin, PkScript: []byte{0x51}})
	return tx
}

// newRewardTx builds a reward transaction paying the given value.
func newRewardTx(value uint64) *wire.MsgTx {
	tx := wire.NewMsgTx(wire.TxTypeReward)
	tx.AddTxIn(&wire.TxIn{
		PreviousOutpoint: wire.OutPoint{Index: 0xffffffff},
		SignatureScript:  []byte{0x00},
	})
	tx.AddTxOut(&wire.TxOut{Value: value, PkScript: []byte{0x51}})
	return tx
}

// setMerkleRoot recomputes the header merkle root over the block's current
// transaction sequence.
func setMerkleRoot(msgBlock *wire.MsgBlock) {
	if len(msgBlock.Transactions) == 0 {
		msgBlock.Header.MerkleRoot = chainhash.Hash{}
		return
	}
	txs := make([]*util.Tx, len(msgBlock.Transactions))
	for i, msgTx := range msgBlock.Transactions {
		txs[i] = util.NewTx(msgTx)
	}
	merkles := BuildHashMerkleTreeStore(txs)
	msgBlock.Header.MerkleRoot = *merkles[len(merkles)-1]
}

// buildBlock builds a block extending the current best tip with the given
// number of payment transactions, a correctly funded reward transaction in
// position 0, and a valid merkle root. Mutators run before the merkle root
// is computed; use a mutator that overwrites Header.MerkleRoot afterwards to
// break it deliberately.
func (harness *testHarness) buildBlock(numPayments int, mutators ...func(*wire.MsgBlock)) *util.Block {
	bestHeader, bestHash := harness.chain.BestHeader()
	height := bestHeader.Height + 1

	totalFees := harness.txValidator.feePerTx * uint64(numPayments)
	rewardValue := harness.chain.rewardSchedule.RewardFor(height) + totalFees

	msgBlock := &wire.MsgBlock{
		Header: wire.BlockHeader{
			Version:   1,
			PrevBlock: *bestHash,
			Timestamp: bestHeader.Timestamp.Add(10 * time.Second),
			Height:    height,
			ScriptSig: []byte{0x01, 0x02},
		},
	}
	msgBlock.AddTransaction(newRewardTx(rewardValue))
	for i := 0; i < numPayments; i++ {
		msgBlock.AddTransaction(harness.newPaymentTx())
	}

	for _, mutator := range mutators {
		mutator(msgBlock)
	}
	setMerkleRoot(msgBlock)
	return util.NewBlock(msgBlock)
}

// checkRuleError ensures the two passed errors are of the same type (either
// both nil or both of type RuleError) and their error codes match when not
// nil.
func checkRuleError(gotErr, wantErr error) error {
	if reflect.TypeOf(gotErr) != reflect.TypeOf(wantErr) {
		return errors.Errorf("wrong error - got %T (%[1]v), want %T", gotErr, wantErr)
	}
	if gotErr == nil {
		return nil
	}

	werr, ok := wantErr.(RuleError)
	if !ok {
		return errors.Errorf("unexpected test error type %T", wantErr)
	}

	gotErrorCode := gotErr.(RuleError).ErrorCode
	if gotErrorCode != werr.ErrorCode {
		return errors.Errorf("mismatched error code - got %v (%v), want %v",
			gotErrorCode, gotErr, werr.ErrorCode)
	}
	return nil
}

// forkEntryCount returns the number of fork entries recorded for the hash,
// as observed through the tracker's idempotent API.
func forkEntryCount(t *testing.T, tracker *blockfork.Tracker, hash *chainhash.Hash) int {
	t.Helper()
	has, err := tracker.Has(hash)
	if err != nil {
		t.Fatalf("error querying fork tracker: %+v", err)
	}
	if !has {
		return 0
	}
	return 1
}

// processConcurrently submits all the blocks from different goroutines and
// returns the per-block results.
func processConcurrently(chain *BlockChain, blocks []*util.Block) []error {
	results := make([]error, len(blocks))
	var wg sync.WaitGroup
	for i := range blocks {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = chain.ProcessBlock(blocks[i])
		}(i)
	}
	wg.Wait()
	return results
}
