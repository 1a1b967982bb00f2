package blockchain

import (
	"testing"

	"github.com/children0001/inchain/util"
)

// merkleTestTx builds a distinct transaction per value. The merkle tree only
// cares about hashes, so a reward skeleton is good enough.
func merkleTestTx(value uint64) *util.Tx {
	return util.NewTx(newRewardTx(value))
}

// TestMerkleSingleTx ensures the merkle root of a single-transaction
// sequence is that transaction's hash. The genesis block relies on this.
func TestMerkleSingleTx(t *testing.T) {
	tx := merkleTestTx(50 * 1e8)
	merkles := BuildHashMerkleTreeStore([]*util.Tx{tx})
	root := merkles[len(merkles)-1]
	if !root.IsEqual(tx.Hash()) {
		t.Errorf("single-tx merkle root is %s, want the tx hash %s", root, tx.Hash())
	}
}

// TestMerkleTwoTxs ensures a two-transaction root is the hash of the
// concatenated leaf hashes.
func TestMerkleTwoTxs(t *testing.T) {
	tx1 := merkleTestTx(1)
	tx2 := merkleTestTx(2)

	merkles := BuildHashMerkleTreeStore([]*util.Tx{tx1, tx2})
	root := merkles[len(merkles)-1]

	want := hashMerkleBranches(tx1.Hash(), tx2.Hash())
	if !root.IsEqual(want) {
		t.Errorf("two-tx merkle root is %s, want %s", root, want)
	}
}

// TestMerkleOddTxs ensures a lone right-most leaf is paired with itself.
func TestMerkleOddTxs(t *testing.T) {
	txs := []*util.Tx{merkleTestTx(1), merkleTestTx(2), merkleTestTx(3)}

	merkles := BuildHashMerkleTreeStore(txs)
	root := merkles[len(merkles)-1]

	left := hashMerkleBranches(txs[0].Hash(), txs[1].Hash())
	right := hashMerkleBranches(txs[2].Hash(), txs[2].Hash())
	want := hashMerkleBranches(left, right)
	if !root.IsEqual(want) {
		t.Errorf("three-tx merkle root is %s, want %s", root, want)
	}
}

// TestMerkleOrderSensitivity ensures reordering transactions changes the
// root. The merkle check is what pins a block's transaction sequence.
func TestMerkleOrderSensitivity(t *testing.T) {
	tx1 := merkleTestTx(1)
	tx2 := merkleTestTx(2)

	forward := BuildHashMerkleTreeStore([]*util.Tx{tx1, tx2})
	reversed := BuildHashMerkleTreeStore([]*util.Tx{tx2, tx1})
	if forward[len(forward)-1].IsEqual(reversed[len(reversed)-1]) {
		t.Error("merkle root did not change when the transaction order did")
	}
}
