package key

import (
	"github.com/streamdao/streamcore/common"
	"github.com/streamdao/streamcore/common/hash"
)

// Key defines crypto key functions
type Key interface {
	Sign(h hash.Hash256) (common.Signature, error)
	Verify(h hash.Hash256, sig common.Signature) bool
	PublicKey() common.PublicKey
	Clear()
}
