package test

import (
	"math/big"

	"github.com/streamdao/streamcore/common"
	"github.com/streamdao/streamcore/common/amount"

	. "github.com/streamdao/streamcore/contract/util"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Router", func() {

	BeforeEach(func() {
		beforeEach()
	})

	It("knows its pair", func() {
		Expect(view(routerAddr, "Token")[0].(common.Address)).To(Equal(tokenAddr))
		Expect(view(routerAddr, "Pool")[0].(common.Address)).To(Equal(poolAddr))
	})

	Describe("quotes", func() {

		It("has nothing to quote on an empty pool", func() {
			_, err := send(admin, routerAddr, "QuoteStrmToNative", amount.NewAmount(10, 0))
			Expect(err).To(MatchError("NO_LIQUIDITY"))
			_, err = send(admin, routerAddr, "QuoteNativeToStrm", amount.NewAmount(10, 0))
			Expect(err).To(MatchError("NO_LIQUIDITY"))
		})

		It("prices against the current reserves", func() {
			addLiquidity(admin, 500, 100)

			in := amount.NewAmount(10, 0)
			quote := view(routerAddr, "QuoteStrmToNative", in)[0].(*amount.Amount)
			Expect(quote.Int).To(Equal(getAmountOut(in.Int, amount.NewAmount(500, 0).Int, amount.NewAmount(100, 0).Int)))

			quote = view(routerAddr, "QuoteNativeToStrm", in)[0].(*amount.Amount)
			Expect(quote.Int).To(Equal(getAmountOut(in.Int, amount.NewAmount(100, 0).Int, amount.NewAmount(500, 0).Int)))
		})

		It("rejects a zero input", func() {
			addLiquidity(admin, 500, 100)
			_, err := send(admin, routerAddr, "QuoteStrmToNative", ZeroAmount)
			Expect(err).To(MatchError("INVALID_AMOUNT"))
		})
	})

	Describe("selling STRM", func() {

		BeforeEach(func() {
			addLiquidity(admin, 500, 100)
			_, err := send(admin, tokenAddr, "Transfer", bob, amount.NewAmount(100, 0))
			Expect(err).To(Succeed())
		})

		It("pays out the quoted native coin", func() {
			in := amount.NewAmount(10, 0)
			expected := getAmountOut(in.Int, amount.NewAmount(500, 0).Int, amount.NewAmount(100, 0).Int)
			coinBefore := coinOf(bob)

			approveToken(bob, routerAddr, in)
			is, err := send(bob, routerAddr, "SwapStrmForNative", in, ZeroAmount, bob)
			Expect(err).To(Succeed())

			Expect(is[0].(*amount.Amount).Int).To(Equal(expected))
			Expect(coinOf(bob).Int).To(Equal(Add(coinBefore.Int, expected)))
			Expect(tokenBalanceOf(bob)).To(Equal(amount.NewAmount(90, 0)))

			strm, native := poolReserves()
			Expect(strm).To(Equal(amount.NewAmount(510, 0)))
			Expect(native.Int).To(Equal(Sub(amount.NewAmount(100, 0).Int, expected)))
		})

		It("enforces the minimum return", func() {
			in := amount.NewAmount(10, 0)
			expected := getAmountOut(in.Int, amount.NewAmount(500, 0).Int, amount.NewAmount(100, 0).Int)

			approveToken(bob, routerAddr, in)
			_, err := send(bob, routerAddr, "SwapStrmForNative", in, ToAmount(AddC(expected, 1)), bob)
			Expect(err).To(MatchError("UNMET_MIN_RETURN"))
		})

		It("rejects a zero input", func() {
			_, err := send(bob, routerAddr, "SwapStrmForNative", ZeroAmount, ZeroAmount, bob)
			Expect(err).To(MatchError("INVALID_AMOUNT"))
		})

		It("charges the transfer tax to the trader", func() {
			_, err := send(treasury, tokenAddr, "EnableTax", true)
			Expect(err).To(Succeed())

			in := amount.NewAmount(10, 0)
			// the pool only receives 98% of the input
			actualIn := MulDivC(in.Int, big.NewInt(98), 100)
			expected := getAmountOut(actualIn, amount.NewAmount(500, 0).Int, amount.NewAmount(100, 0).Int)
			treasuryBefore := tokenBalanceOf(treasury)

			approveToken(bob, routerAddr, in)
			is, err := send(bob, routerAddr, "SwapStrmForNative", in, ZeroAmount, bob)
			Expect(err).To(Succeed())

			Expect(is[0].(*amount.Amount).Int).To(Equal(expected))
			Expect(tokenBalanceOf(treasury).Int).To(Equal(Add(treasuryBefore.Int, MulDivC(in.Int, big.NewInt(2), 100))))
		})
	})

	Describe("buying STRM", func() {

		BeforeEach(func() {
			addLiquidity(admin, 500, 100)
		})

		It("pays out the quoted STRM", func() {
			in := amount.NewAmount(10, 0)
			expected := getAmountOut(in.Int, amount.NewAmount(100, 0).Int, amount.NewAmount(500, 0).Int)

			is, err := sendValue(bob, routerAddr, "SwapNativeForStrm", in, ZeroAmount, bob)
			Expect(err).To(Succeed())

			Expect(is[0].(*amount.Amount).Int).To(Equal(expected))
			Expect(tokenBalanceOf(bob).Int).To(Equal(expected))

			strm, native := poolReserves()
			Expect(strm.Int).To(Equal(Sub(amount.NewAmount(500, 0).Int, expected)))
			Expect(native).To(Equal(amount.NewAmount(110, 0)))
		})

		It("enforces the minimum return", func() {
			in := amount.NewAmount(10, 0)
			expected := getAmountOut(in.Int, amount.NewAmount(100, 0).Int, amount.NewAmount(500, 0).Int)

			_, err := sendValue(bob, routerAddr, "SwapNativeForStrm", in, ToAmount(AddC(expected, 1)), bob)
			Expect(err).To(MatchError("UNMET_MIN_RETURN"))
		})

		It("rejects a zero value", func() {
			_, err := sendValue(bob, routerAddr, "SwapNativeForStrm", ZeroAmount, ZeroAmount, bob)
			Expect(err).To(MatchError("INVALID_AMOUNT"))
		})

		It("taxes the payout when the tax is on", func() {
			_, err := send(treasury, tokenAddr, "EnableTax", true)
			Expect(err).To(Succeed())

			in := amount.NewAmount(10, 0)
			expected := getAmountOut(in.Int, amount.NewAmount(100, 0).Int, amount.NewAmount(500, 0).Int)

			_, err = sendValue(bob, routerAddr, "SwapNativeForStrm", in, ZeroAmount, bob)
			Expect(err).To(Succeed())

			// 2% of the pool payout lands at the treasury
			received := Sub(expected, MulDivC(expected, big.NewInt(2), 100))
			Expect(tokenBalanceOf(bob).Int).To(Equal(received))
		})
	})
})
