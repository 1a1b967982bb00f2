package validator

import (
	"github.com/pkg/errors"

	"github.com/children0001/inchain/util"
)

// BlockScriptVerifier is the default blockchain.ScriptVerifier. The
// signature cryptography is an external collaborator; what this verifier
// owns is the structural requirement that a producer script is present at
// all.
type BlockScriptVerifier struct{}

// NewBlockScriptVerifier returns the default block script verifier.
func NewBlockScriptVerifier() *BlockScriptVerifier {
	return &BlockScriptVerifier{}
}

// VerifyBlockScript checks the block producer's unlocking script.
func (v *BlockScriptVerifier) VerifyBlockScript(block *util.Block) error {
	if len(block.MsgBlock().Header.ScriptSig) == 0 {
		return errors.Errorf("block %s carries no producer script", block.Hash())
	}
	return nil
}
