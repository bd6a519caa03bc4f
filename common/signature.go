package common

import (
	"encoding/hex"

	ecrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// SignatureSize is 65 bytes (r33, s32 with recovery id)
const SignatureSize = 65

// Signature is the [SignatureSize]byte with methods
type Signature [SignatureSize]byte

// MarshalJSON is a marshaler function
func (sig Signature) MarshalJSON() ([]byte, error) {
	return []byte(`"` + hex.EncodeToString(sig[:]) + `"`), nil
}

// UnmarshalJSON is a unmarshaler function
func (sig *Signature) UnmarshalJSON(bs []byte) error {
	if len(bs) < 3 {
		return errors.WithStack(ErrInvalidSignatureFormat)
	}
	if bs[0] != '"' || bs[len(bs)-1] != '"' {
		return errors.WithStack(ErrInvalidSignatureFormat)
	}
	v, err := hex.DecodeString(string(bs[1 : len(bs)-1]))
	if err != nil {
		return errors.WithStack(err)
	}
	if len(v) != SignatureSize {
		return errors.WithStack(ErrInvalidSignatureFormat)
	}
	copy(sig[:], v)
	return nil
}

// String returns the hex string of the signature
func (sig Signature) String() string {
	return hex.EncodeToString(sig[:])
}

// PublicKey is the compressed public key with methods
type PublicKey [33]byte

// Address converts the public key to the account address
func (pubkey PublicKey) Address() Address {
	pk, err := ecrypto.DecompressPubkey(pubkey[:])
	if err != nil {
		panic(err)
	}
	return ecrypto.PubkeyToAddress(*pk)
}

// String returns the hex string of the public key
func (pubkey PublicKey) String() string {
	return hex.EncodeToString(pubkey[:])
}

// RecoverPubkey recovers the public key from the hash and the signature
func RecoverPubkey(h []byte, sig Signature) (PublicKey, error) {
	pk, err := ecrypto.SigToPub(h, sig[:])
	if err != nil {
		return PublicKey{}, errors.WithStack(err)
	}
	var pubkey PublicKey
	copy(pubkey[:], ecrypto.CompressPubkey(pk))
	return pubkey, nil
}
