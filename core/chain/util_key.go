package chain

import (
	"encoding/binary"

	"github.com/streamdao/streamcore/common"
)

const (
	tagHeight      = byte(0x01)
	tagHeightHash  = byte(0x02)
	tagHeightBlock = byte(0x03)
	tagAddressSeq  = byte(0x10)
	tagContract    = byte(0x11)
	tagData        = byte(0x12)
	tagCoin        = byte(0x13)
)

func toHeightHashKey(height uint32) []byte {
	bs := make([]byte, 5)
	bs[0] = tagHeightHash
	binary.BigEndian.PutUint32(bs[1:], height)
	return bs
}

func toHeightBlockKey(height uint32) []byte {
	bs := make([]byte, 5)
	bs[0] = tagHeightBlock
	binary.BigEndian.PutUint32(bs[1:], height)
	return bs
}

func toAddressSeqKey(addr common.Address) []byte {
	bs := make([]byte, 1+common.AddressLength)
	bs[0] = tagAddressSeq
	copy(bs[1:], addr[:])
	return bs
}

func toContractKey(addr common.Address) []byte {
	bs := make([]byte, 1+common.AddressLength)
	bs[0] = tagContract
	copy(bs[1:], addr[:])
	return bs
}

func toDataKey(key string) []byte {
	bs := make([]byte, 1+len(key))
	bs[0] = tagData
	copy(bs[1:], []byte(key))
	return bs
}

func toCoinKey(addr common.Address) []byte {
	bs := make([]byte, 1+common.AddressLength)
	bs[0] = tagCoin
	copy(bs[1:], addr[:])
	return bs
}
