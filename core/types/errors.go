package types

import "errors"

var (
	ErrInvalidClassID          = errors.New("invalid class id")
	ErrDirtyContext            = errors.New("dirty context")
	ErrExistContractType       = errors.New("exist contract type")
	ErrNotExistContract        = errors.New("not exist contract")
	ErrInvalidSequence         = errors.New("invalid sequence")
	ErrInvalidTransactionCount = errors.New("invalid transaction count")
	ErrInsufficientCoin        = errors.New("insufficient coin")
	ErrInvalidSignature        = errors.New("invalid signature")
	ErrInvalidTimestamp        = errors.New("invalid timestamp")
)
