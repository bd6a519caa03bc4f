package common

import "github.com/pkg/errors"

var (
	// ErrInvalidAddressFormat is returned when the address format is invalid
	ErrInvalidAddressFormat = errors.New("invalid address format")
	// ErrInvalidSignatureFormat is returned when the signature format is invalid
	ErrInvalidSignatureFormat = errors.New("invalid signature format")
	// ErrInvalidPublicKeyFormat is returned when the public key format is invalid
	ErrInvalidPublicKeyFormat = errors.New("invalid public key format")
)
