package txpool

import "github.com/streamdao/streamcore/common"

// SeqCache acquires the next expected sequence of the address
type SeqCache interface {
	Seq(addr common.Address) uint64
}
