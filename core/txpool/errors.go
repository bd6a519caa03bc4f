package txpool

import "errors"

// TransactionPool errors
var (
	ErrExistTransaction          = errors.New("exist transaction")
	ErrPastSeq                   = errors.New("past seq")
	ErrTooFarSeq                 = errors.New("too far seq")
	ErrTransactionPoolOverflowed = errors.New("transaction pool overflowed")
)
