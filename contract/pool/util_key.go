package pool

import (
	"github.com/streamdao/streamcore/common"
)

const (
	// minimumLiquidity is locked at the zero address on the first deposit.
	minimumLiquidity = 1000
)

var (
	//lp share ledger
	tagTokenName        = byte(0x01)
	tagTokenSymbol      = byte(0x02)
	tagTokenTotalSupply = byte(0x03)
	tagTokenAmount      = byte(0x04)
	tagTokenApprove     = byte(0x05)

	//pair
	tagPoolToken     = byte(0x21)
	tagReserveStrm   = byte(0x22)
	tagReserveNative = byte(0x23)
)

func makeTokenKey(addr common.Address, key byte) []byte {
	bs := make([]byte, 1+common.AddressLength)
	bs[0] = key
	copy(bs[1:], addr[:])
	return bs
}
