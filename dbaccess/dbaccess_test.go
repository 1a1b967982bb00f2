package dbaccess

import (
	"bytes"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/children0001/inchain/database"
)

func newTestContext(t *testing.T) *DatabaseContext {
	t.Helper()
	ctx, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("error creating database: %+v", err)
	}
	t.Cleanup(func() {
		if err := ctx.Close(); err != nil {
			t.Errorf("error closing database: %+v", err)
		}
	})
	return ctx
}

func TestStoreBlock(t *testing.T) {
	ctx := newTestContext(t)
	hash := chainhash.DoubleHashH([]byte("block"))
	blockBytes := []byte("block bytes")
	headerBytes := []byte("header bytes")

	exists, err := HasBlock(ctx, &hash)
	if err != nil {
		t.Fatalf("HasBlock: unexpected error: %+v", err)
	}
	if exists {
		t.Fatal("HasBlock reported a missing block as present")
	}

	if err := StoreBlock(ctx, &hash, blockBytes, headerBytes); err != nil {
		t.Fatalf("StoreBlock: unexpected error: %+v", err)
	}

	gotBlock, err := FetchBlock(ctx, &hash)
	if err != nil {
		t.Fatalf("FetchBlock: unexpected error: %+v", err)
	}
	if !bytes.Equal(gotBlock, blockBytes) {
		t.Errorf("FetchBlock = %q, want %q", gotBlock, blockBytes)
	}
	gotHeader, err := FetchBlockHeader(ctx, &hash)
	if err != nil {
		t.Fatalf("FetchBlockHeader: unexpected error: %+v", err)
	}
	if !bytes.Equal(gotHeader, headerBytes) {
		t.Errorf("FetchBlockHeader = %q, want %q", gotHeader, headerBytes)
	}

	// Blocks are immutable: storing the same hash twice is an error.
	if err := StoreBlock(ctx, &hash, blockBytes, headerBytes); err == nil {
		t.Fatal("StoreBlock accepted a duplicate hash")
	}
}

func TestBestHeaderHash(t *testing.T) {
	ctx := newTestContext(t)

	_, err := FetchBestHeaderHash(ctx)
	if !database.IsNotFoundError(err) {
		t.Fatalf("FetchBestHeaderHash on a fresh database returned %v, want ErrNotFound", err)
	}

	first := chainhash.DoubleHashH([]byte("first"))
	if err := StoreBestHeaderHash(ctx, &first); err != nil {
		t.Fatalf("StoreBestHeaderHash: unexpected error: %+v", err)
	}
	got, err := FetchBestHeaderHash(ctx)
	if err != nil {
		t.Fatalf("FetchBestHeaderHash: unexpected error: %+v", err)
	}
	if !got.IsEqual(&first) {
		t.Errorf("best header is %s, want %s", got, &first)
	}

	// The tip advances by overwrite.
	second := chainhash.DoubleHashH([]byte("second"))
	if err := StoreBestHeaderHash(ctx, &second); err != nil {
		t.Fatalf("StoreBestHeaderHash: unexpected error: %+v", err)
	}
	got, err = FetchBestHeaderHash(ctx)
	if err != nil {
		t.Fatalf("FetchBestHeaderHash: unexpected error: %+v", err)
	}
	if !got.IsEqual(&second) {
		t.Errorf("best header is %s, want %s", got, &second)
	}
}

func TestCreditGrants(t *testing.T) {
	ctx := newTestContext(t)
	owner := []byte("some-owner-identity")

	_, err := FetchCreditGrantTime(ctx, 1, owner)
	if !database.IsNotFoundError(err) {
		t.Fatalf("FetchCreditGrantTime on a fresh database returned %v, want ErrNotFound", err)
	}

	if err := StoreCreditGrant(ctx, 1, owner, 1600000000); err != nil {
		t.Fatalf("StoreCreditGrant: unexpected error: %+v", err)
	}
	got, err := FetchCreditGrantTime(ctx, 1, owner)
	if err != nil {
		t.Fatalf("FetchCreditGrantTime: unexpected error: %+v", err)
	}
	if got != 1600000000 {
		t.Errorf("grant time is %d, want 1600000000", got)
	}

	// A newer grant overwrites the record.
	if err := StoreCreditGrant(ctx, 1, owner, 1600086400); err != nil {
		t.Fatalf("StoreCreditGrant: unexpected error: %+v", err)
	}

	type record struct {
		reasonType uint8
		owner      string
		timeUnix   int64
	}
	var records []record
	err = ForEachCreditGrant(ctx, func(reasonType uint8, owner []byte, grantTimeUnix int64) error {
		records = append(records, record{reasonType, string(owner), grantTimeUnix})
		return nil
	})
	if err != nil {
		t.Fatalf("ForEachCreditGrant: unexpected error: %+v", err)
	}
	if len(records) != 1 {
		t.Fatalf("ForEachCreditGrant visited %d records, want 1: %v", len(records), records)
	}
	want := record{1, string(owner), 1600086400}
	if records[0] != want {
		t.Errorf("visited record %v, want %v", records[0], want)
	}
}

func TestForkEntries(t *testing.T) {
	ctx := newTestContext(t)
	hash := chainhash.DoubleHashH([]byte("rejected block"))
	blockBytes := []byte("rejected block bytes")

	exists, err := HasForkEntry(ctx, &hash)
	if err != nil {
		t.Fatalf("HasForkEntry: unexpected error: %+v", err)
	}
	if exists {
		t.Fatal("HasForkEntry reported a missing entry as present")
	}

	if err := StoreForkEntry(ctx, &hash, blockBytes); err != nil {
		t.Fatalf("StoreForkEntry: unexpected error: %+v", err)
	}
	// Write-once: a second store of the same hash is a silent no-op, even
	// with different bytes.
	if err := StoreForkEntry(ctx, &hash, []byte("other bytes")); err != nil {
		t.Fatalf("StoreForkEntry repeat: unexpected error: %+v", err)
	}

	got, err := FetchForkEntry(ctx, &hash)
	if err != nil {
		t.Fatalf("FetchForkEntry: unexpected error: %+v", err)
	}
	if !bytes.Equal(got, blockBytes) {
		t.Errorf("FetchForkEntry = %q, want the original bytes %q", got, blockBytes)
	}
}
