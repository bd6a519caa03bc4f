package hash

import (
	"math/big"

	ecommon "github.com/ethereum/go-ethereum/common"
	ecrypto "github.com/ethereum/go-ethereum/crypto"
)

type Hash256 = ecommon.Hash

// Lengths of hashes in bytes.
const (
	// HashLength is the expected length of the hash
	HashLength = ecommon.HashLength
)

// BigToHash sets byte representation of b to hash.
// If b is larger than len(h), b will be cropped from the left.
func BigToHash(b *big.Int) Hash256 {
	return Hash256(ecommon.BigToHash(b))
}

// HexToHash sets byte representation of s to hash.
// If b is larger than len(h), b will be cropped from the left.
func HexToHash(s string) Hash256 {
	return Hash256(ecommon.HexToHash(s))
}

// Hash calculates and returns the keccak hash of the input data.
func Hash(data ...[]byte) Hash256 {
	return Hash256(ecrypto.Keccak256Hash(data...))
}

// DoubleHash hashes twice the input data
func DoubleHash(data []byte) Hash256 {
	h := Hash(data)
	return Hash(h[:])
}

// Hashes hashes the concatenation of the given hashes
func Hashes(hs ...Hash256) Hash256 {
	data := make([]byte, 0, HashLength*len(hs))
	for _, h := range hs {
		data = append(data, h[:]...)
	}
	return Hash(data)
}
