package chain

import "errors"

// errors
var (
	ErrInvalidChainID       = errors.New("invalid chain id")
	ErrInvalidVersion       = errors.New("invalid version")
	ErrInvalidHeight        = errors.New("invalid height")
	ErrInvalidPrevHash      = errors.New("invalid prev hash")
	ErrInvalidContextHash   = errors.New("invalid context hash")
	ErrInvalidLevelRootHash = errors.New("invalid level root hash")
	ErrInvalidTimestamp     = errors.New("invalid timestamp")
	ErrInvalidGenerator     = errors.New("invalid generator")
	ErrExceedHashCount      = errors.New("exceed hash count")
	ErrInvalidHashCount     = errors.New("invalid hash count")
	ErrInvalidGenesisHash   = errors.New("invalid genesis hash")
	ErrChainClosed          = errors.New("chain closed")
	ErrStoreClosed          = errors.New("store closed")
	ErrAlreadyGenesised     = errors.New("already genesised")
	ErrNotExistContract     = errors.New("not exist contract")
	ErrNotExistBlock        = errors.New("not exist block")
	ErrNotExistService      = errors.New("not exist service")
	ErrExistServiceName     = errors.New("exist service name")
	ErrAddBeforeChainInit   = errors.New("add before chain init")
	ErrInvalidTxMethod      = errors.New("invalid tx method")
)
