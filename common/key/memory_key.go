package key

import (
	"crypto/ecdsa"
	"encoding/hex"

	ecrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/streamdao/streamcore/common"
	"github.com/streamdao/streamcore/common/hash"
)

// MemoryKey is the in-memory private key
type MemoryKey struct {
	privKey *ecdsa.PrivateKey
}

// NewMemoryKey returns a random MemoryKey
func NewMemoryKey() (*MemoryKey, error) {
	privKey, err := ecrypto.GenerateKey()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &MemoryKey{
		privKey: privKey,
	}, nil
}

// NewMemoryKeyFromBytes parses the private key from the byte array
func NewMemoryKeyFromBytes(bs []byte) (*MemoryKey, error) {
	privKey, err := ecrypto.ToECDSA(bs)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &MemoryKey{
		privKey: privKey,
	}, nil
}

// NewMemoryKeyFromString parses the private key from the hex string
func NewMemoryKeyFromString(str string) (*MemoryKey, error) {
	bs, err := hex.DecodeString(str)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return NewMemoryKeyFromBytes(bs)
}

// Sign signs the hash with the key
func (ac *MemoryKey) Sign(h hash.Hash256) (common.Signature, error) {
	bs, err := ecrypto.Sign(h.Bytes(), ac.privKey)
	if err != nil {
		return common.Signature{}, errors.WithStack(err)
	}
	var sig common.Signature
	copy(sig[:], bs)
	return sig, nil
}

// Verify checks that the signature is made by the key of the hash
func (ac *MemoryKey) Verify(h hash.Hash256, sig common.Signature) bool {
	pubkey, err := common.RecoverPubkey(h.Bytes(), sig)
	if err != nil {
		return false
	}
	return pubkey == ac.PublicKey()
}

// PublicKey returns the public key of the key
func (ac *MemoryKey) PublicKey() common.PublicKey {
	var pubkey common.PublicKey
	copy(pubkey[:], ecrypto.CompressPubkey(&ac.privKey.PublicKey))
	return pubkey
}

// Clear removes the private key from the memory
func (ac *MemoryKey) Clear() {
	ac.privKey = nil
}
