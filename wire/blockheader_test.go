package wire

import (
	"bytes"
	"reflect"
	"testing"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/davecgh/go-spew/spew"
)

func testHeader() BlockHeader {
	return BlockHeader{
		Version:    1,
		PrevBlock:  chainhash.DoubleHashH([]byte("prev")),
		MerkleRoot: chainhash.DoubleHashH([]byte("merkle")),
		Timestamp:  time.Unix(1600000000, 0),
		Height:     42,
		ScriptSig:  []byte{0x01, 0x02, 0x03},
	}
}

// TestBlockHashExcludesScriptSig ensures the producer script does not change
// the block hash: the script signs the hash, so it cannot be part of it.
func TestBlockHashExcludesScriptSig(t *testing.T) {
	header := testHeader()
	signed := testHeader()
	signed.ScriptSig = []byte{0xff, 0xfe}

	if header.BlockHash() != signed.BlockHash() {
		t.Error("changing ScriptSig changed the block hash")
	}

	changed := testHeader()
	changed.Height++
	if header.BlockHash() == changed.BlockHash() {
		t.Error("changing the height did not change the block hash")
	}
}

func TestBlockHeaderSerialize(t *testing.T) {
	header := testHeader()

	var buf bytes.Buffer
	if err := header.Serialize(&buf); err != nil {
		t.Fatalf("Serialize: unexpected error: %+v", err)
	}

	var decoded BlockHeader
	if err := decoded.Deserialize(bytes.NewReader(buf.Bytes())); err != nil {
		t.Fatalf("Deserialize: unexpected error: %+v", err)
	}
	if !reflect.DeepEqual(decoded, header) {
		t.Errorf("round trip mismatch - got %v, want %v",
			spew.Sdump(decoded), spew.Sdump(header))
	}
}

// TestTimestampPrecision ensures sub-second precision is dropped on the
// wire, so a hash computed before serialization matches one computed after.
func TestTimestampPrecision(t *testing.T) {
	header := testHeader()
	header.Timestamp = time.Unix(1600000000, 999999999)

	var buf bytes.Buffer
	if err := header.Serialize(&buf); err != nil {
		t.Fatalf("Serialize: unexpected error: %+v", err)
	}
	var decoded BlockHeader
	if err := decoded.Deserialize(bytes.NewReader(buf.Bytes())); err != nil {
		t.Fatalf("Deserialize: unexpected error: %+v", err)
	}
	if !decoded.Timestamp.Equal(time.Unix(1600000000, 0)) {
		t.Errorf("timestamp decoded as %s, want second precision", decoded.Timestamp)
	}
}
