package test

import (
	"math/big"

	"github.com/streamdao/streamcore/common"
	"github.com/streamdao/streamcore/common/amount"

	. "github.com/streamdao/streamcore/contract/util"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func approveToken(user common.Address, spender common.Address, am *amount.Amount) {
	_, err := send(user, tokenAddr, "Approve", spender, am)
	Expect(err).To(Succeed())
}

// addLiquidity routes a deposit of strm STRM and eth native coin into the pool.
func addLiquidity(user common.Address, strm, eth uint64) *amount.Amount {
	approveToken(user, routerAddr, amount.NewAmount(strm, 0))
	is, err := sendValue(user, routerAddr, "AddLiquidity", amount.NewAmount(eth, 0), amount.NewAmount(strm, 0), user)
	Expect(err).To(Succeed())
	return is[0].(*amount.Amount)
}

func poolReserves() (*amount.Amount, *amount.Amount) {
	is := view(poolAddr, "Reserves")
	rs := is[0].([]*amount.Amount)
	return rs[0], rs[1]
}

func lpBalanceOf(owner common.Address) *amount.Amount {
	return view(poolAddr, "BalanceOf", owner)[0].(*amount.Amount)
}

func lpTotalSupply() *amount.Amount {
	return view(poolAddr, "TotalSupply")[0].(*amount.Amount)
}

var _ = Describe("Pool", func() {

	BeforeEach(func() {
		beforeEach()
	})

	It("carries the share token metadata", func() {
		Expect(view(poolAddr, "Name")[0].(string)).To(Equal("StreamSwap LP Token"))
		Expect(view(poolAddr, "Symbol")[0].(string)).To(Equal("STRM-LP"))
		Expect(view(poolAddr, "Decimals")[0].(*big.Int)).To(Equal(big.NewInt(18)))
		Expect(view(poolAddr, "Token")[0].(common.Address)).To(Equal(tokenAddr))
	})

	Describe("first deposit", func() {

		It("mints sqrt(strm*eth) shares and locks the minimum", func() {
			liquidity := addLiquidity(admin, 500, 100)

			expected := Sub(Sqrt(Mul(amount.NewAmount(500, 0).Int, amount.NewAmount(100, 0).Int)), big.NewInt(1000))
			Expect(liquidity.Int).To(Equal(expected))
			Expect(lpBalanceOf(admin).Int).To(Equal(expected))
			Expect(lpBalanceOf(ZeroAddress).Int).To(Equal(big.NewInt(1000)))
			Expect(lpTotalSupply().Int).To(Equal(AddC(expected, 1000)))
		})

		It("tracks the deposited reserves", func() {
			addLiquidity(admin, 500, 100)

			strm, native := poolReserves()
			Expect(strm).To(Equal(amount.NewAmount(500, 0)))
			Expect(native).To(Equal(amount.NewAmount(100, 0)))
			Expect(tokenBalanceOf(poolAddr)).To(Equal(amount.NewAmount(500, 0)))
			Expect(coinOf(poolAddr)).To(Equal(amount.NewAmount(100, 0)))
		})

		It("rejects an empty deposit", func() {
			_, err := send(admin, poolAddr, "Mint", admin)
			Expect(err).To(MatchError("INSUFFICIENT_LIQUIDITY_MINTED"))
		})

		It("rejects a burn before any shares exist", func() {
			_, err := send(admin, poolAddr, "Burn", admin)
			Expect(err).To(MatchError("INSUFFICIENT_LIQUIDITY_BURNED"))
		})
	})

	Describe("later deposits", func() {

		BeforeEach(func() {
			addLiquidity(admin, 500, 100)
		})

		It("mints shares pro rata", func() {
			_, err := send(admin, tokenAddr, "Transfer", bob, amount.NewAmount(250, 0))
			Expect(err).To(Succeed())

			supply := lpTotalSupply()
			liquidity := addLiquidity(bob, 250, 50)

			Expect(liquidity.Int).To(Equal(Div(Mul(amount.NewAmount(250, 0).Int, supply.Int), amount.NewAmount(500, 0).Int)))

			strm, native := poolReserves()
			Expect(strm).To(Equal(amount.NewAmount(750, 0)))
			Expect(native).To(Equal(amount.NewAmount(150, 0)))
		})

		It("mints nothing for a dust deposit", func() {
			_, err := send(admin, tokenAddr, "Transfer", poolAddr, amount.NewAmount(1, 0))
			Expect(err).To(Succeed())

			// no native side arrived, Min picks zero
			_, err = send(admin, poolAddr, "Mint", admin)
			Expect(err).To(MatchError("INSUFFICIENT_LIQUIDITY_MINTED"))
		})
	})

	Describe("withdrawal", func() {

		var liquidity *amount.Amount

		BeforeEach(func() {
			liquidity = addLiquidity(admin, 500, 100)
		})

		It("returns both sides pro rata", func() {
			supply := lpTotalSupply()
			strmBefore := tokenBalanceOf(admin)
			coinBefore := coinOf(admin)

			_, err := send(admin, poolAddr, "Approve", routerAddr, liquidity)
			Expect(err).To(Succeed())
			is, err := send(admin, routerAddr, "RemoveLiquidity", liquidity, ZeroAmount, ZeroAmount, admin)
			Expect(err).To(Succeed())

			strmOut := is[0].(*amount.Amount)
			nativeOut := is[1].(*amount.Amount)
			Expect(strmOut.Int).To(Equal(Div(Mul(liquidity.Int, amount.NewAmount(500, 0).Int), supply.Int)))
			Expect(nativeOut.Int).To(Equal(Div(Mul(liquidity.Int, amount.NewAmount(100, 0).Int), supply.Int)))

			Expect(tokenBalanceOf(admin)).To(Equal(strmBefore.Add(strmOut)))
			Expect(coinOf(admin)).To(Equal(coinBefore.Add(nativeOut)))

			// only the locked minimum survives
			Expect(lpTotalSupply().Int).To(Equal(big.NewInt(1000)))
		})

		It("enforces the minimum returns", func() {
			_, err := send(admin, poolAddr, "Approve", routerAddr, liquidity)
			Expect(err).To(Succeed())
			_, err = send(admin, routerAddr, "RemoveLiquidity", liquidity, amount.NewAmount(500, 0), ZeroAmount, admin)
			Expect(err).To(MatchError("UNMET_MIN_RETURN"))
		})

		It("rejects a burn without shares", func() {
			_, err := send(bob, poolAddr, "Burn", bob)
			Expect(err).To(MatchError("INSUFFICIENT_LIQUIDITY_BURNED"))
		})
	})

	Describe("swap", func() {

		BeforeEach(func() {
			addLiquidity(admin, 500, 100)
		})

		It("rejects an output draining the reserve", func() {
			_, err := send(admin, poolAddr, "Swap", ZeroAmount, amount.NewAmount(100, 0), admin)
			Expect(err).To(MatchError("NO_LIQUIDITY"))
		})

		It("rejects a swap without input", func() {
			_, err := send(admin, poolAddr, "Swap", ZeroAmount, amount.NewAmount(1, 0), admin)
			Expect(err).To(MatchError("INVALID_AMOUNT"))
		})

		It("rejects an output above the fee adjusted price", func() {
			_, err := send(admin, tokenAddr, "Transfer", poolAddr, amount.NewAmount(10, 0))
			Expect(err).To(Succeed())

			fair := getAmountOut(amount.NewAmount(10, 0).Int, amount.NewAmount(500, 0).Int, amount.NewAmount(100, 0).Int)
			_, err = send(admin, poolAddr, "Swap", ZeroAmount, ToAmount(AddC(fair, 1)), admin)
			Expect(err).To(MatchError("INVALID_K"))
		})

		It("honors the fee adjusted price exactly", func() {
			_, err := send(admin, tokenAddr, "Transfer", poolAddr, amount.NewAmount(10, 0))
			Expect(err).To(Succeed())

			fair := getAmountOut(amount.NewAmount(10, 0).Int, amount.NewAmount(500, 0).Int, amount.NewAmount(100, 0).Int)
			coinBefore := coinOf(bob)
			_, err = send(admin, poolAddr, "Swap", ZeroAmount, ToAmount(fair), bob)
			Expect(err).To(Succeed())
			Expect(coinOf(bob).Int).To(Equal(Add(coinBefore.Int, fair)))

			strm, native := poolReserves()
			Expect(strm).To(Equal(amount.NewAmount(510, 0)))
			Expect(native.Int).To(Equal(Sub(amount.NewAmount(100, 0).Int, fair)))
		})
	})

	Describe("sync", func() {

		It("folds stray balances into the reserves", func() {
			addLiquidity(admin, 500, 100)

			_, err := send(admin, tokenAddr, "Transfer", poolAddr, amount.NewAmount(25, 0))
			Expect(err).To(Succeed())
			_, err = send(admin, poolAddr, "Sync")
			Expect(err).To(Succeed())

			strm, _ := poolReserves()
			Expect(strm).To(Equal(amount.NewAmount(525, 0)))
		})

		It("is idempotent once the reserves match the balances", func() {
			addLiquidity(admin, 500, 100)

			_, err := send(admin, tokenAddr, "Transfer", poolAddr, amount.NewAmount(25, 0))
			Expect(err).To(Succeed())
			_, err = send(admin, poolAddr, "Sync")
			Expect(err).To(Succeed())

			strm, native := poolReserves()
			_, err = send(admin, poolAddr, "Sync")
			Expect(err).To(Succeed())

			strmAgain, nativeAgain := poolReserves()
			Expect(strmAgain).To(Equal(strm))
			Expect(nativeAgain).To(Equal(native))
		})
	})
})
