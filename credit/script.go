package credit

import (
	"github.com/btcsuite/btcutil"
	"github.com/pkg/errors"

	"github.com/children0001/inchain/wire"
)

// maxScriptElementSize is the largest single data push a signature script
// element may use.
const maxScriptElementSize = 75

// resolveOwnerHash160 resolves the owner identity of a transaction: the
// hash160 of the public key carried by its first input's signature script.
// The script is the standard pay-to-pubkey-hash unlocking form, a sequence
// of length-prefixed data pushes ending with the public key.
func resolveOwnerHash160(msgTx *wire.MsgTx) ([]byte, error) {
	if len(msgTx.TxIn) == 0 {
		return nil, errors.New("transaction has no inputs")
	}
	pubKey, err := lastScriptElement(msgTx.TxIn[0].SignatureScript)
	if err != nil {
		return nil, err
	}
	return btcutil.Hash160(pubKey), nil
}

// lastScriptElement returns the final data push of a signature script.
func lastScriptElement(script []byte) ([]byte, error) {
	if len(script) == 0 {
		return nil, errors.New("empty signature script")
	}
	var element []byte
	for offset := 0; offset < len(script); {
		size := int(script[offset])
		if size == 0 || size > maxScriptElementSize {
			return nil, errors.Errorf("malformed push of %d bytes at offset %d", size, offset)
		}
		offset++
		if offset+size > len(script) {
			return nil, errors.Errorf("push of %d bytes overruns the script", size)
		}
		element = script[offset : offset+size]
		offset += size
	}
	return element, nil
}
