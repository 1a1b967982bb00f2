package wire

import (
	"encoding/binary"
	"io"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/pkg/errors"
)

// maxVarBytesLength is the maximum length a variable-length byte field is
// allowed to declare on the wire. Keeps a malformed length prefix from
// triggering a huge allocation.
const maxVarBytesLength = 1 << 20

var littleEndian = binary.LittleEndian

func writeUint8(w io.Writer, val uint8) error {
	_, err := w.Write([]byte{val})
	return errors.WithStack(err)
}

func readUint8(r io.Reader) (uint8, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, errors.WithStack(err)
	}
	return buf[0], nil
}

func writeUint16(w io.Writer, val uint16) error {
	var buf [2]byte
	littleEndian.PutUint16(buf[:], val)
	_, err := w.Write(buf[:])
	return errors.WithStack(err)
}

func readUint16(r io.Reader) (uint16, error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, errors.WithStack(err)
	}
	return littleEndian.Uint16(buf[:]), nil
}

func writeUint32(w io.Writer, val uint32) error {
	var buf [4]byte
	littleEndian.PutUint32(buf[:], val)
	_, err := w.Write(buf[:])
	return errors.WithStack(err)
}

func readUint32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, errors.WithStack(err)
	}
	return littleEndian.Uint32(buf[:]), nil
}

func writeUint64(w io.Writer, val uint64) error {
	var buf [8]byte
	littleEndian.PutUint64(buf[:], val)
	_, err := w.Write(buf[:])
	return errors.WithStack(err)
}

func readUint64(r io.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, errors.WithStack(err)
	}
	return littleEndian.Uint64(buf[:]), nil
}

// writeVarBytes writes a length-prefixed byte slice.
func writeVarBytes(w io.Writer, b []byte) error {
	if err := writeUint32(w, uint32(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return errors.WithStack(err)
}

// readVarBytes reads a length-prefixed byte slice written by writeVarBytes.
func readVarBytes(r io.Reader) ([]byte, error) {
	length, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	if length > maxVarBytesLength {
		return nil, errors.Errorf("variable-length field declares %d bytes, max %d",
			length, maxVarBytesLength)
	}
	if length == 0 {
		return nil, nil
	}
	b := make([]byte, length)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, errors.WithStack(err)
	}
	return b, nil
}

func writeHash(w io.Writer, hash *chainhash.Hash) error {
	_, err := w.Write(hash[:])
	return errors.WithStack(err)
}

func readHash(r io.Reader) (chainhash.Hash, error) {
	var hash chainhash.Hash
	if _, err := io.ReadFull(r, hash[:]); err != nil {
		return hash, errors.WithStack(err)
	}
	return hash, nil
}

// writeTimestamp writes a timestamp with second precision.
func writeTimestamp(w io.Writer, t time.Time) error {
	return writeUint64(w, uint64(t.Unix()))
}

func readTimestamp(r io.Reader) (time.Time, error) {
	unix, err := readUint64(r)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(int64(unix), 0), nil
}
