package ico

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/streamdao/streamcore/common"
	"github.com/streamdao/streamcore/common/amount"
	"github.com/streamdao/streamcore/contract/util"
	"github.com/streamdao/streamcore/core/types"
)

// Sale phases in order. AdvancePhase only moves forward one step at a time.
const (
	PhaseSeed    = uint8(0)
	PhaseGeneral = uint8(1)
	PhaseOpen    = uint8(2)
)

// tokensPerCoin STRM are credited for every native coin contributed.
const tokensPerCoin = 5

var (
	seedIndividualCap    = amount.NewAmount(1500, 0)
	seedTotalCap         = amount.NewAmount(15000, 0)
	generalIndividualCap = amount.NewAmount(1000, 0)
	totalCap             = amount.NewAmount(30000, 0)
)

type IcoContract struct {
	addr   common.Address
	master common.Address
}

func (cont *IcoContract) Address() common.Address {
	return cont.addr
}

func (cont *IcoContract) Master() common.Address {
	return cont.master
}

func (cont *IcoContract) Init(addr common.Address, master common.Address) {
	cont.addr = addr
	cont.master = master
}

func (cont *IcoContract) OnCreate(cc *types.ContractContext, Args []byte) error {
	data := &IcoContractConstruction{}
	if _, err := data.ReadFrom(bytes.NewReader(Args)); err != nil {
		return err
	}
	cc.SetContractData([]byte{tagToken}, data.Token[:])
	cc.SetContractData([]byte{tagTreasury}, data.Treasury[:])
	for _, addr := range data.Whitelist {
		cc.SetAccountData(addr, []byte{tagWhitelist}, []byte{1})
	}
	return nil
}

//////////////////////////////////////////////////
// Private Functions
//////////////////////////////////////////////////

func (cont *IcoContract) setAccountAmount(cc *types.ContractContext, addr common.Address, tag byte, am *amount.Amount) {
	if am.IsZero() {
		cc.SetAccountData(addr, []byte{tag}, nil)
	} else {
		cc.SetAccountData(addr, []byte{tag}, am.Bytes())
	}
}

func (cont *IcoContract) accountAmount(cc types.ContractLoader, addr common.Address, tag byte) *amount.Amount {
	return amount.NewAmountFromBytes(cc.AccountData(addr, []byte{tag}))
}

func (cont *IcoContract) deliver(cc *types.ContractContext, to common.Address, am *amount.Amount) error {
	token := cont.Token(cc)
	if err := util.TokenMint(cc, token, to, am.Int); err != nil {
		return err
	}
	claimed := cont.accountAmount(cc, to, tagClaimed)
	cont.setAccountAmount(cc, to, tagClaimed, claimed.Add(am))
	return nil
}

//////////////////////////////////////////////////
// Public Writer Functions
//////////////////////////////////////////////////

func (cont *IcoContract) BuyStrm(cc *types.ContractContext) (*amount.Amount, error) {
	if cont.IsPaused(cc) {
		return nil, errors.New("PAUSED")
	}
	value := cc.Value()
	if !value.IsPlus() {
		return nil, errors.New("INVALID_AMOUNT")
	}

	from := cc.From()
	total := cont.TotalContributions(cc)
	contributed := cont.accountAmount(cc, from, tagContribution)

	phase := cont.Phase(cc)
	switch phase {
	case PhaseSeed:
		if !cont.IsWhitelisted(cc, from) {
			return nil, errors.New("NOT_WHITELISTED")
		}
		if seedTotalCap.Less(total.Add(value)) {
			return nil, errors.New("TOTAL_CONTRIBUTION_EXCEEDED")
		}
		if seedIndividualCap.Less(contributed.Add(value)) {
			return nil, errors.New("INDIVIDUAL_CONTRIBUTION_EXCEEDED")
		}
	case PhaseGeneral:
		if totalCap.Less(total.Add(value)) {
			return nil, errors.New("TOTAL_CONTRIBUTION_EXCEEDED")
		}
		if generalIndividualCap.Less(contributed.Add(value)) {
			return nil, errors.New("INDIVIDUAL_CONTRIBUTION_EXCEEDED")
		}
	case PhaseOpen:
		if totalCap.Less(total.Add(value)) {
			return nil, errors.New("TOTAL_CONTRIBUTION_EXCEEDED")
		}
	default:
		return nil, errors.New("INVALID_PHASE")
	}

	cc.SetContractData([]byte{tagTotalContributions}, total.Add(value).Bytes())
	cont.setAccountAmount(cc, from, tagContribution, contributed.Add(value))

	tokens := value.MulC(tokensPerCoin)
	purchased := cont.accountAmount(cc, from, tagPurchased)
	cont.setAccountAmount(cc, from, tagPurchased, purchased.Add(tokens))

	if phase == PhaseOpen {
		if err := cont.deliver(cc, from, tokens); err != nil {
			return nil, err
		}
	}

	if err := cc.EmitEvent("TokensPurchased", from, value, tokens); err != nil {
		return nil, err
	}
	return tokens, nil
}

func (cont *IcoContract) ClaimStrm(cc *types.ContractContext) (*amount.Amount, error) {
	if cont.Phase(cc) != PhaseOpen {
		return nil, errors.New("INVALID_PHASE")
	}
	from := cc.From()
	purchased := cont.accountAmount(cc, from, tagPurchased)
	claimed := cont.accountAmount(cc, from, tagClaimed)
	remaining := purchased.Sub(claimed)
	if !remaining.IsPlus() {
		return nil, errors.New("INVALID_AMOUNT")
	}
	if err := cont.deliver(cc, from, remaining); err != nil {
		return nil, err
	}
	if err := cc.EmitEvent("TokensClaimed", from, remaining); err != nil {
		return nil, err
	}
	return remaining, nil
}

func (cont *IcoContract) AdvancePhase(cc *types.ContractContext, target uint8) error {
	if cc.From() != cont.Master() {
		return errors.New("NOT_OWNER")
	}
	phase := cont.Phase(cc)
	if target != phase+1 || target > PhaseOpen {
		return errors.New("INVALID_PHASE")
	}
	cc.SetContractData([]byte{tagPhase}, []byte{target})
	return cc.EmitEvent("PhaseAdvanced", target)
}

func (cont *IcoContract) SetWhitelist(cc *types.ContractContext, addr common.Address, Is bool) error {
	if cc.From() != cont.Master() {
		return errors.New("NOT_OWNER")
	}
	if Is {
		cc.SetAccountData(addr, []byte{tagWhitelist}, []byte{1})
	} else {
		cc.SetAccountData(addr, []byte{tagWhitelist}, nil)
	}
	return nil
}

func (cont *IcoContract) Pause(cc *types.ContractContext) error {
	if cc.From() != cont.Master() {
		return errors.New("NOT_OWNER")
	}
	cc.SetContractData([]byte{tagPause}, []byte{1})
	return nil
}

func (cont *IcoContract) Unpause(cc *types.ContractContext) error {
	if cc.From() != cont.Master() {
		return errors.New("NOT_OWNER")
	}
	cc.SetContractData([]byte{tagPause}, nil)
	return nil
}

func (cont *IcoContract) WithdrawToTreasury(cc *types.ContractContext, Amount *amount.Amount) error {
	treasury := cont.Treasury(cc)
	if cc.From() != treasury {
		return errors.New("NOT_TREASURY")
	}
	if cont.Phase(cc) != PhaseOpen {
		return errors.New("NOT_OPEN")
	}
	if !Amount.IsPlus() || cont.AvailableFunds(cc).Less(Amount) {
		return errors.New("INVALID_AMOUNT")
	}
	if err := cc.SendValue(treasury, Amount); err != nil {
		return err
	}
	return cc.EmitEvent("Withdrawal", treasury, Amount)
}

//////////////////////////////////////////////////
// Public Reader Functions
//////////////////////////////////////////////////

func (cont *IcoContract) Phase(cc types.ContractLoader) uint8 {
	bs := cc.ContractData([]byte{tagPhase})
	if len(bs) == 1 {
		return bs[0]
	}
	return PhaseSeed
}

func (cont *IcoContract) IsPaused(cc types.ContractLoader) bool {
	bs := cc.ContractData([]byte{tagPause})
	if len(bs) == 1 && bs[0] == 1 {
		return true
	}
	return false
}

func (cont *IcoContract) Token(cc types.ContractLoader) common.Address {
	var addr common.Address
	copy(addr[:], cc.ContractData([]byte{tagToken}))
	return addr
}

func (cont *IcoContract) Treasury(cc types.ContractLoader) common.Address {
	var addr common.Address
	copy(addr[:], cc.ContractData([]byte{tagTreasury}))
	return addr
}

func (cont *IcoContract) IsWhitelisted(cc types.ContractLoader, addr common.Address) bool {
	bs := cc.AccountData(addr, []byte{tagWhitelist})
	if len(bs) == 1 && bs[0] == 1 {
		return true
	}
	return false
}

func (cont *IcoContract) TotalContributions(cc types.ContractLoader) *amount.Amount {
	return amount.NewAmountFromBytes(cc.ContractData([]byte{tagTotalContributions}))
}

func (cont *IcoContract) ContributionOf(cc types.ContractLoader, addr common.Address) *amount.Amount {
	return cont.accountAmount(cc, addr, tagContribution)
}

func (cont *IcoContract) TokensPurchased(cc types.ContractLoader, addr common.Address) *amount.Amount {
	return cont.accountAmount(cc, addr, tagPurchased)
}

func (cont *IcoContract) TokensClaimed(cc types.ContractLoader, addr common.Address) *amount.Amount {
	return cont.accountAmount(cc, addr, tagClaimed)
}

func (cont *IcoContract) AvailableFunds(cc types.ContractLoader) *amount.Amount {
	return cc.NativeBalanceOf(cont.addr)
}
