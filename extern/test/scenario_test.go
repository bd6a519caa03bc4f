package test

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"

	"github.com/streamdao/streamcore/common"
	"github.com/streamdao/streamcore/common/amount"
	"github.com/streamdao/streamcore/core/chain"
	"github.com/streamdao/streamcore/core/types"

	testutil "github.com/streamdao/streamcore/extern/test/util"
)

func view(t *testing.T, tc *testutil.TestContext, to common.Address, method string, args ...interface{}) []interface{} {
	t.Helper()
	is, err := testutil.Exec(tc.Ctx, testutil.Admin, to, method, args)
	if err != nil {
		t.Fatalf("%v %v: %v", to, method, err)
	}
	tc.Ctx = tc.Cn.NewContext()
	return is
}

func viewAmount(t *testing.T, tc *testutil.TestContext, to common.Address, method string, args ...interface{}) *amount.Amount {
	t.Helper()
	return view(t, tc, to, method, args...)[0].(*amount.Amount)
}

func TestNativeTransferThroughBlocks(t *testing.T) {
	tc := testutil.NewTestContext()
	defer tc.Cn.Close()

	alice := testutil.Users[0]
	bob := testutil.Users[1]
	before := tc.Ctx.Coin(bob)

	if err := tc.SendCoin(testutil.UserKeys[0], bob, amount.NewAmount(100, 0)); err != nil {
		t.Fatal(err)
	}

	if tc.Cn.Store().Height() != 1 {
		t.Fatalf("height %v, want 1", tc.Cn.Store().Height())
	}
	if !tc.Ctx.Coin(bob).Equal(before.Add(amount.NewAmount(100, 0))) {
		t.Fatalf("bob coin %v", tc.Ctx.Coin(bob))
	}
	if !tc.Ctx.Coin(alice).Equal(amount.NewAmount(100000, 0).Sub(amount.NewAmount(100, 0))) {
		t.Fatalf("alice coin %v", tc.Ctx.Coin(alice))
	}
}

func TestSeedPurchaseThroughBlocks(t *testing.T) {
	tc := testutil.NewTestContext()
	defer tc.Cn.Close()

	alice := testutil.Users[0]
	ens := tc.MustSendTx(testutil.UserKeys[0], tc.Ico, "BuyStrm", amount.NewAmount(100, 0))

	if !viewAmount(t, tc, tc.Ico, "ContributionOf", alice).Equal(amount.NewAmount(100, 0)) {
		t.Fatal("contribution not recorded")
	}
	if !viewAmount(t, tc, tc.Ico, "TokensPurchased", alice).Equal(amount.NewAmount(500, 0)) {
		t.Fatal("purchase not credited at five per coin")
	}
	if !tc.Ctx.Coin(tc.Ico).Equal(amount.NewAmount(100, 0)) {
		t.Fatalf("sale coin %v", tc.Ctx.Coin(tc.Ico))
	}

	var purchased *types.ContractEvent
	for _, en := range ens {
		if en.Type != types.EventTagContract {
			continue
		}
		ev := &types.ContractEvent{}
		if _, err := ev.ReadFrom(bytes.NewReader(en.Result)); err != nil {
			t.Fatal(err)
		}
		if ev.Name == "TokensPurchased" {
			purchased = ev
		}
	}
	if purchased == nil {
		t.Fatal("TokensPurchased event missing from the block")
	}
	if purchased.To != tc.Ico {
		t.Fatalf("event contract %v", purchased.To)
	}
}

func TestSaleDeliveryInOpenPhase(t *testing.T) {
	tc := testutil.NewTestContext()
	defer tc.Cn.Close()

	alice := testutil.Users[0]
	tc.MustSendTx(testutil.UserKeys[0], tc.Ico, "BuyStrm", amount.NewAmount(200, 0))

	tc.MustSendTx(testutil.AdminKey, tc.Ico, "AdvancePhase", nil, uint8(1))
	tc.MustSendTx(testutil.AdminKey, tc.Ico, "AdvancePhase", nil, uint8(2))

	// open phase delivery is immediate, seed purchases become claimable
	balBefore := viewAmount(t, tc, tc.Token, "BalanceOf", alice)
	tc.MustSendTx(testutil.UserKeys[0], tc.Ico, "BuyStrm", amount.NewAmount(100, 0))
	balAfter := viewAmount(t, tc, tc.Token, "BalanceOf", alice)
	if !balAfter.Equal(balBefore.Add(amount.NewAmount(500, 0))) {
		t.Fatalf("open purchase delivered %v", balAfter.Sub(balBefore))
	}

	tc.MustSendTx(testutil.UserKeys[0], tc.Ico, "ClaimStrm", nil)
	if !viewAmount(t, tc, tc.Token, "BalanceOf", alice).Equal(balAfter.Add(amount.NewAmount(1000, 0))) {
		t.Fatal("seed purchase claim not delivered")
	}

	// the sale proceeds belong to the treasury once the sale is open
	treasuryBefore := tc.Ctx.Coin(testutil.Treasury)
	tc.MustSendTx(testutil.TreasuryKey, tc.Ico, "WithdrawToTreasury", nil, amount.NewAmount(300, 0))
	if !tc.Ctx.Coin(testutil.Treasury).Equal(treasuryBefore.Add(amount.NewAmount(300, 0))) {
		t.Fatal("withdrawn funds did not reach the treasury")
	}
	if !viewAmount(t, tc, tc.Ico, "AvailableFunds").IsZero() {
		t.Fatal("available funds not drained")
	}
}

func TestFailedTxLeavesNoTrace(t *testing.T) {
	tc := testutil.NewTestContext()
	defer tc.Cn.Close()

	// admin is not on the whitelist, the purchase must revert fully
	if _, err := tc.SendTx(testutil.AdminKey, tc.Ico, "BuyStrm", amount.NewAmount(10, 0)); err == nil {
		t.Fatal("expected NOT_WHITELISTED")
	} else if err.Error() != "NOT_WHITELISTED" {
		t.Fatalf("unexpected error %v", err)
	}

	if tc.Cn.Store().Height() != 0 {
		t.Fatalf("height %v after rejected block", tc.Cn.Store().Height())
	}
	if !viewAmount(t, tc, tc.Ico, "TotalContributions").IsZero() {
		t.Fatal("contribution leaked from the reverted tx")
	}
}

func TestSwapThroughBlocks(t *testing.T) {
	tc := testutil.NewTestContext()
	defer tc.Cn.Close()

	tc.MustSendTx(testutil.AdminKey, tc.Token, "Approve", nil, tc.Router, amount.NewAmount(100000, 0))
	tc.MustSendTx(testutil.AdminKey, tc.Router, "AddLiquidity", amount.NewAmount(100, 0), amount.NewAmount(500, 0), testutil.Admin)

	reserves := view(t, tc, tc.Pool, "Reserves")[0].([]*amount.Amount)
	if !reserves[0].Equal(amount.NewAmount(500, 0)) {
		t.Fatalf("strm reserve %v", reserves[0])
	}
	if !reserves[1].Equal(amount.NewAmount(100, 0)) {
		t.Fatalf("native reserve %v", reserves[1])
	}

	bob := testutil.Users[1]
	quote := viewAmount(t, tc, tc.Router, "QuoteNativeToStrm", amount.NewAmount(10, 0))
	tc.MustSendTx(testutil.UserKeys[1], tc.Router, "SwapNativeForStrm", amount.NewAmount(10, 0), amount.NewAmount(0, 0), bob)

	if !viewAmount(t, tc, tc.Token, "BalanceOf", bob).Equal(quote) {
		t.Fatalf("swap payout %v, want %v", viewAmount(t, tc, tc.Token, "BalanceOf", bob), quote)
	}
}

func TestChainReloadKeepsState(t *testing.T) {
	tc := testutil.NewTestContext()

	alice := testutil.Users[0]
	tc.MustSendTx(testutil.UserKeys[0], tc.Ico, "BuyStrm", amount.NewAmount(100, 0))
	tc.MustSendTx(testutil.UserKeys[0], tc.Ico, "BuyStrm", amount.NewAmount(50, 0))

	height := tc.Cn.Store().Height()
	lastHash, err := tc.Cn.Store().Hash(height)
	if err != nil {
		t.Fatal(err)
	}
	tc.Cn.Close()

	if err := tc.OpenChain(); err != nil {
		t.Fatal(err)
	}
	defer tc.Cn.Close()
	tc.Ctx = tc.Cn.NewContext()

	if tc.Cn.Store().Height() != height {
		t.Fatalf("height %v after reload, want %v", tc.Cn.Store().Height(), height)
	}
	if h, err := tc.Cn.Store().Hash(height); err != nil {
		t.Fatal(err)
	} else if h != lastHash {
		t.Fatal("block hash changed across reload")
	}
	if !viewAmount(t, tc, tc.Ico, "ContributionOf", alice).Equal(amount.NewAmount(150, 0)) {
		t.Fatal("contribution lost across reload")
	}
}

func TestFinalizeRejectsDirtyContext(t *testing.T) {
	tc := testutil.NewTestContext()
	defer tc.Cn.Close()

	ctx := tc.Cn.NewContext()
	ctx.Snapshot()

	bc := chain.NewBlockCreator(tc.Cn, ctx, testutil.Admin, ctx.LastTimestamp()+1)
	if _, err := bc.Finalize(); errors.Cause(err) != types.ErrDirtyContext {
		t.Fatalf("finalize over an open snapshot returned %v", err)
	}
}
