package test

import (
	"github.com/streamdao/streamcore/common/amount"
	"github.com/streamdao/streamcore/contract/ico"

	testutil "github.com/streamdao/streamcore/extern/test/util"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Ico", func() {

	BeforeEach(func() {
		beforeEach()
	})

	advanceTo := func(target uint8) {
		for p := view(icoAddr, "Phase")[0].(uint8); p < target; p++ {
			_, err := send(admin, icoAddr, "AdvancePhase", p+1)
			Expect(err).To(Succeed())
		}
	}

	Describe("seed phase", func() {

		It("starts in the seed phase unpaused", func() {
			Expect(view(icoAddr, "Phase")[0].(uint8)).To(Equal(ico.PhaseSeed))
			Expect(view(icoAddr, "IsPaused")[0].(bool)).To(BeFalse())
		})

		It("credits five STRM per coin contributed", func() {
			Expect(buy(alice, 100)).To(Succeed())

			Expect(view(icoAddr, "ContributionOf", alice)[0].(*amount.Amount)).To(Equal(amount.NewAmount(100, 0)))
			Expect(view(icoAddr, "TokensPurchased", alice)[0].(*amount.Amount)).To(Equal(amount.NewAmount(500, 0)))
			Expect(view(icoAddr, "TotalContributions")[0].(*amount.Amount)).To(Equal(amount.NewAmount(100, 0)))
			Expect(view(icoAddr, "AvailableFunds")[0].(*amount.Amount)).To(Equal(amount.NewAmount(100, 0)))
		})

		It("rejects buyers outside the whitelist", func() {
			Expect(buy(admin, 1)).To(MatchError("NOT_WHITELISTED"))
		})

		It("rejects zero value contributions", func() {
			_, err := sendValue(alice, icoAddr, "BuyStrm", amount.NewAmount(0, 0))
			Expect(err).To(MatchError("INVALID_AMOUNT"))
		})

		It("enforces the individual cap", func() {
			Expect(buy(alice, 1500)).To(Succeed())
			Expect(buy(alice, 1)).To(MatchError("INDIVIDUAL_CONTRIBUTION_EXCEEDED"))
		})

		It("enforces the phase total cap", func() {
			for _, user := range testutil.Users {
				Expect(buy(user, 1500)).To(Succeed())
			}
			// 10 x 1500 fills the 15000 cap
			Expect(view(icoAddr, "TotalContributions")[0].(*amount.Amount)).To(Equal(amount.NewAmount(15000, 0)))

			_, err := send(admin, icoAddr, "SetWhitelist", admin, true)
			Expect(err).To(Succeed())
			Expect(buy(admin, 1)).To(MatchError("TOTAL_CONTRIBUTION_EXCEEDED"))
		})

		It("does not deliver tokens before the open phase", func() {
			Expect(buy(alice, 100)).To(Succeed())
			Expect(tokenBalanceOf(alice).IsZero()).To(BeTrue())

			_, err := send(alice, icoAddr, "ClaimStrm")
			Expect(err).To(MatchError("INVALID_PHASE"))
		})
	})

	Describe("pause", func() {

		It("blocks purchases while paused", func() {
			_, err := send(admin, icoAddr, "Pause")
			Expect(err).To(Succeed())
			Expect(view(icoAddr, "IsPaused")[0].(bool)).To(BeTrue())

			Expect(buy(alice, 1)).To(MatchError("PAUSED"))

			_, err = send(admin, icoAddr, "Unpause")
			Expect(err).To(Succeed())
			Expect(buy(alice, 1)).To(Succeed())
		})

		It("is owner only", func() {
			_, err := send(alice, icoAddr, "Pause")
			Expect(err).To(MatchError("NOT_OWNER"))
			_, err = send(alice, icoAddr, "Unpause")
			Expect(err).To(MatchError("NOT_OWNER"))
		})
	})

	Describe("phase advancement", func() {

		It("is owner only", func() {
			_, err := send(alice, icoAddr, "AdvancePhase", ico.PhaseGeneral)
			Expect(err).To(MatchError("NOT_OWNER"))
		})

		It("cannot skip a phase", func() {
			_, err := send(admin, icoAddr, "AdvancePhase", ico.PhaseOpen)
			Expect(err).To(MatchError("INVALID_PHASE"))
		})

		It("cannot move backwards or repeat", func() {
			advanceTo(ico.PhaseGeneral)
			_, err := send(admin, icoAddr, "AdvancePhase", ico.PhaseGeneral)
			Expect(err).To(MatchError("INVALID_PHASE"))
			_, err = send(admin, icoAddr, "AdvancePhase", ico.PhaseSeed)
			Expect(err).To(MatchError("INVALID_PHASE"))
		})

		It("cannot advance past the open phase", func() {
			advanceTo(ico.PhaseOpen)
			_, err := send(admin, icoAddr, "AdvancePhase", ico.PhaseOpen+1)
			Expect(err).To(MatchError("INVALID_PHASE"))
		})
	})

	Describe("general phase", func() {

		BeforeEach(func() {
			advanceTo(ico.PhaseGeneral)
		})

		It("accepts buyers outside the whitelist", func() {
			Expect(buy(admin, 10)).To(Succeed())
		})

		It("lowers the individual cap to 1000", func() {
			Expect(buy(alice, 1000)).To(Succeed())
			Expect(buy(alice, 1)).To(MatchError("INDIVIDUAL_CONTRIBUTION_EXCEEDED"))
		})

		It("counts seed contributions against the general cap", func() {
			// rebuild with a seed contribution first
			beforeEach()
			Expect(buy(alice, 1500)).To(Succeed())
			advanceTo(ico.PhaseGeneral)

			Expect(buy(alice, 1)).To(MatchError("INDIVIDUAL_CONTRIBUTION_EXCEEDED"))
		})
	})

	Describe("open phase", func() {

		BeforeEach(func() {
			Expect(buy(alice, 100)).To(Succeed())
			advanceTo(ico.PhaseOpen)
		})

		It("has no individual cap", func() {
			Expect(buy(bob, 5000)).To(Succeed())
		})

		It("keeps the cumulative total cap", func() {
			Expect(buy(bob, 29900)).To(Succeed())
			Expect(buy(charlie, 1)).To(MatchError("TOTAL_CONTRIBUTION_EXCEEDED"))
		})

		It("delivers open phase purchases immediately", func() {
			Expect(buy(bob, 100)).To(Succeed())
			Expect(tokenBalanceOf(bob)).To(Equal(amount.NewAmount(500, 0)))
		})

		It("claims earlier purchases once", func() {
			_, err := send(alice, icoAddr, "ClaimStrm")
			Expect(err).To(Succeed())
			Expect(tokenBalanceOf(alice)).To(Equal(amount.NewAmount(500, 0)))

			_, err = send(alice, icoAddr, "ClaimStrm")
			Expect(err).To(MatchError("INVALID_AMOUNT"))
		})

		It("grows the token supply as purchases are delivered", func() {
			before := view(tokenAddr, "TotalSupply")[0].(*amount.Amount)
			_, err := send(alice, icoAddr, "ClaimStrm")
			Expect(err).To(Succeed())
			after := view(tokenAddr, "TotalSupply")[0].(*amount.Amount)
			Expect(after).To(Equal(before.Add(amount.NewAmount(500, 0))))
		})
	})

	Describe("treasury withdrawal", func() {

		BeforeEach(func() {
			Expect(buy(alice, 1000)).To(Succeed())
		})

		It("is treasury only", func() {
			_, err := send(alice, icoAddr, "WithdrawToTreasury", amount.NewAmount(1, 0))
			Expect(err).To(MatchError("NOT_TREASURY"))
			_, err = send(admin, icoAddr, "WithdrawToTreasury", amount.NewAmount(1, 0))
			Expect(err).To(MatchError("NOT_TREASURY"))
		})

		It("requires the open phase", func() {
			_, err := send(treasury, icoAddr, "WithdrawToTreasury", amount.NewAmount(1, 0))
			Expect(err).To(MatchError("NOT_OPEN"))
		})

		It("moves the raised funds to the treasury", func() {
			advanceTo(ico.PhaseOpen)
			before := coinOf(treasury)

			_, err := send(treasury, icoAddr, "WithdrawToTreasury", amount.NewAmount(600, 0))
			Expect(err).To(Succeed())

			Expect(coinOf(treasury)).To(Equal(before.Add(amount.NewAmount(600, 0))))
			Expect(view(icoAddr, "AvailableFunds")[0].(*amount.Amount)).To(Equal(amount.NewAmount(400, 0)))
		})

		It("rejects zero and overdrawn amounts", func() {
			advanceTo(ico.PhaseOpen)

			_, err := send(treasury, icoAddr, "WithdrawToTreasury", amount.NewAmount(0, 0))
			Expect(err).To(MatchError("INVALID_AMOUNT"))

			_, err = send(treasury, icoAddr, "WithdrawToTreasury", amount.NewAmount(1001, 0))
			Expect(err).To(MatchError("INVALID_AMOUNT"))

			_, err = send(treasury, icoAddr, "WithdrawToTreasury", amount.NewAmount(1000, 0))
			Expect(err).To(Succeed())

			_, err = send(treasury, icoAddr, "WithdrawToTreasury", amount.NewAmount(1, 0))
			Expect(err).To(MatchError("INVALID_AMOUNT"))
		})
	})
})
