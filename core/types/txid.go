package types

import (
	"encoding/hex"

	"github.com/pkg/errors"

	"github.com/streamdao/streamcore/common/bin"
)

// TransactionID returns the id of the transaction at the height and the index
func TransactionID(Height uint32, Index uint16) string {
	bs := make([]byte, 6)
	bin.PutUint32(bs, Height)
	bin.PutUint16(bs[4:], Index)
	return hex.EncodeToString(bs)
}

// ParseTransactionID parses the height and the index from the id
func ParseTransactionID(TXID string) (uint32, uint16, error) {
	bs, err := hex.DecodeString(TXID)
	if err != nil {
		return 0, 0, errors.WithStack(err)
	}
	if len(bs) != 6 {
		return 0, 0, errors.WithStack(ErrInvalidTransactionCount)
	}
	return bin.Uint32(bs), bin.Uint16(bs[4:]), nil
}
