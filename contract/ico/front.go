package ico

import (
	"github.com/streamdao/streamcore/common"
	"github.com/streamdao/streamcore/common/amount"
	"github.com/streamdao/streamcore/core/types"
)

func (cont *IcoContract) Front() interface{} {
	return &front{
		cont: cont,
	}
}

type front struct {
	cont *IcoContract
}

func (f *front) BuyStrm(cc *types.ContractContext) (*amount.Amount, error) {
	return f.cont.BuyStrm(cc)
}

func (f *front) ClaimStrm(cc *types.ContractContext) (*amount.Amount, error) {
	return f.cont.ClaimStrm(cc)
}

func (f *front) AdvancePhase(cc *types.ContractContext, target uint8) error {
	return f.cont.AdvancePhase(cc, target)
}

func (f *front) SetWhitelist(cc *types.ContractContext, addr common.Address, Is bool) error {
	return f.cont.SetWhitelist(cc, addr, Is)
}

func (f *front) Pause(cc *types.ContractContext) error {
	return f.cont.Pause(cc)
}

func (f *front) Unpause(cc *types.ContractContext) error {
	return f.cont.Unpause(cc)
}

func (f *front) WithdrawToTreasury(cc *types.ContractContext, Amount *amount.Amount) error {
	return f.cont.WithdrawToTreasury(cc, Amount)
}

//////////////////////////////////////////////////
// Public Reader Functions
//////////////////////////////////////////////////

func (f *front) Phase(cc types.ContractLoader) uint8 {
	return f.cont.Phase(cc)
}

func (f *front) IsPaused(cc types.ContractLoader) bool {
	return f.cont.IsPaused(cc)
}

func (f *front) Token(cc types.ContractLoader) common.Address {
	return f.cont.Token(cc)
}

func (f *front) Treasury(cc types.ContractLoader) common.Address {
	return f.cont.Treasury(cc)
}

func (f *front) IsWhitelisted(cc types.ContractLoader, addr common.Address) bool {
	return f.cont.IsWhitelisted(cc, addr)
}

func (f *front) TotalContributions(cc types.ContractLoader) *amount.Amount {
	return f.cont.TotalContributions(cc)
}

func (f *front) ContributionOf(cc types.ContractLoader, addr common.Address) *amount.Amount {
	return f.cont.ContributionOf(cc, addr)
}

func (f *front) TokensPurchased(cc types.ContractLoader, addr common.Address) *amount.Amount {
	return f.cont.TokensPurchased(cc, addr)
}

func (f *front) TokensClaimed(cc types.ContractLoader, addr common.Address) *amount.Amount {
	return f.cont.TokensClaimed(cc, addr)
}

func (f *front) AvailableFunds(cc types.ContractLoader) *amount.Amount {
	return f.cont.AvailableFunds(cc)
}
