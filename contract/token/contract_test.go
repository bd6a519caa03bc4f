package token_test

import (
	"math/big"
	"testing"

	"github.com/streamdao/streamcore/common/amount"
	util "github.com/streamdao/streamcore/extern/test/util"
)

func TestTokenInitialAllocation(t *testing.T) {
	tc := util.NewTestContext()
	defer tc.Close()

	is := tc.MustView(tc.Token, "Name")
	if is[0].(string) != "Stream Token" {
		t.Fatalf("name = %v", is[0])
	}
	is = tc.MustView(tc.Token, "Symbol")
	if is[0].(string) != "STRM" {
		t.Fatalf("symbol = %v", is[0])
	}
	is = tc.MustView(tc.Token, "Decimals")
	if is[0].(*big.Int).Cmp(big.NewInt(18)) != 0 {
		t.Fatalf("decimals = %v", is[0])
	}

	is = tc.MustView(tc.Token, "BalanceOf", util.Admin)
	if !is[0].(*amount.Amount).Equal(amount.NewAmount(150000, 0)) {
		t.Fatalf("admin balance = %v", is[0])
	}
	is = tc.MustView(tc.Token, "BalanceOf", util.Treasury)
	if !is[0].(*amount.Amount).Equal(amount.NewAmount(350000, 0)) {
		t.Fatalf("treasury balance = %v", is[0])
	}
	is = tc.MustView(tc.Token, "TotalSupply")
	if !is[0].(*amount.Amount).Equal(amount.NewAmount(500000, 0)) {
		t.Fatalf("total supply = %v", is[0])
	}
}

func TestTokenTransfer(t *testing.T) {
	tc := util.NewTestContext()
	defer tc.Close()

	tc.MustSendTx(util.AdminKey, tc.Token, "Transfer", nil, util.Users[0], amount.NewAmount(100, 0))

	is := tc.MustView(tc.Token, "BalanceOf", util.Users[0])
	if !is[0].(*amount.Amount).Equal(amount.NewAmount(100, 0)) {
		t.Fatalf("recipient balance = %v", is[0])
	}
	is = tc.MustView(tc.Token, "BalanceOf", util.Admin)
	if !is[0].(*amount.Amount).Equal(amount.NewAmount(149900, 0)) {
		t.Fatalf("sender balance = %v", is[0])
	}
}

func TestTokenTransferInsufficientBalance(t *testing.T) {
	tc := util.NewTestContext()
	defer tc.Close()

	_, err := tc.SendTx(util.UserKeys[0], tc.Token, "Transfer", nil, util.Users[1], amount.NewAmount(1, 0))
	if err == nil || err.Error() != "INSUFFICIENT_BALANCE" {
		t.Fatalf("err = %v", err)
	}
}

func TestTokenApproveTransferFrom(t *testing.T) {
	tc := util.NewTestContext()
	defer tc.Close()

	tc.MustSendTx(util.AdminKey, tc.Token, "Approve", nil, util.Users[0], amount.NewAmount(50, 0))

	is := tc.MustView(tc.Token, "Allowance", util.Admin, util.Users[0])
	if !is[0].(*amount.Amount).Equal(amount.NewAmount(50, 0)) {
		t.Fatalf("allowance = %v", is[0])
	}

	tc.MustSendTx(util.UserKeys[0], tc.Token, "TransferFrom", nil, util.Admin, util.Users[1], amount.NewAmount(30, 0))

	is = tc.MustView(tc.Token, "BalanceOf", util.Users[1])
	if !is[0].(*amount.Amount).Equal(amount.NewAmount(30, 0)) {
		t.Fatalf("recipient balance = %v", is[0])
	}
	is = tc.MustView(tc.Token, "Allowance", util.Admin, util.Users[0])
	if !is[0].(*amount.Amount).Equal(amount.NewAmount(20, 0)) {
		t.Fatalf("allowance = %v", is[0])
	}

	_, err := tc.SendTx(util.UserKeys[0], tc.Token, "TransferFrom", nil, util.Admin, util.Users[1], amount.NewAmount(30, 0))
	if err == nil || err.Error() != "INSUFFICIENT_ALLOWANCE" {
		t.Fatalf("err = %v", err)
	}
}

func TestTokenIncreaseAllowance(t *testing.T) {
	tc := util.NewTestContext()
	defer tc.Close()

	tc.MustSendTx(util.AdminKey, tc.Token, "Approve", nil, util.Users[0], amount.NewAmount(50, 0))
	tc.MustSendTx(util.AdminKey, tc.Token, "IncreaseAllowance", nil, util.Users[0], amount.NewAmount(25, 0))

	is := tc.MustView(tc.Token, "Allowance", util.Admin, util.Users[0])
	if !is[0].(*amount.Amount).Equal(amount.NewAmount(75, 0)) {
		t.Fatalf("allowance = %v", is[0])
	}
}

func TestTokenMintOnlyMinter(t *testing.T) {
	tc := util.NewTestContext()
	defer tc.Close()

	_, err := tc.SendTx(util.UserKeys[0], tc.Token, "Mint", nil, util.Users[0], amount.NewAmount(100, 0))
	if err == nil {
		t.Fatal("mint by non-minter must fail")
	}

	is := tc.MustView(tc.Token, "IsMinter", tc.Ico)
	if !is[0].(bool) {
		t.Fatal("ico is not a minter")
	}
}

func TestTokenSetMinterOnlyOwner(t *testing.T) {
	tc := util.NewTestContext()
	defer tc.Close()

	_, err := tc.SendTx(util.UserKeys[0], tc.Token, "SetMinter", nil, util.Users[0], true)
	if err == nil || err.Error() != "NOT_OWNER" {
		t.Fatalf("err = %v", err)
	}
}

func TestTokenTax(t *testing.T) {
	tc := util.NewTestContext()
	defer tc.Close()

	is := tc.MustView(tc.Token, "CurrentTaxPercent")
	if is[0].(*big.Int).Cmp(big.NewInt(0)) != 0 {
		t.Fatalf("tax percent = %v", is[0])
	}

	_, err := tc.SendTx(util.UserKeys[0], tc.Token, "EnableTax", nil, true)
	if err == nil || err.Error() != "ONLY_TREASURY" {
		t.Fatalf("err = %v", err)
	}

	tc.MustSendTx(util.TreasuryKey, tc.Token, "EnableTax", nil, true)
	is = tc.MustView(tc.Token, "CurrentTaxPercent")
	if is[0].(*big.Int).Cmp(big.NewInt(2)) != 0 {
		t.Fatalf("tax percent = %v", is[0])
	}

	treasuryBefore := tc.MustView(tc.Token, "BalanceOf", util.Treasury)[0].(*amount.Amount)
	tc.MustSendTx(util.AdminKey, tc.Token, "Transfer", nil, util.Users[0], amount.NewAmount(100, 0))

	is = tc.MustView(tc.Token, "BalanceOf", util.Users[0])
	if !is[0].(*amount.Amount).Equal(amount.NewAmount(98, 0)) {
		t.Fatalf("recipient balance = %v", is[0])
	}
	is = tc.MustView(tc.Token, "BalanceOf", util.Treasury)
	if !is[0].(*amount.Amount).Equal(treasuryBefore.Add(amount.NewAmount(2, 0))) {
		t.Fatalf("treasury balance = %v", is[0])
	}

	tc.MustSendTx(util.TreasuryKey, tc.Token, "EnableTax", nil, false)
	is = tc.MustView(tc.Token, "CurrentTaxPercent")
	if is[0].(*big.Int).Cmp(big.NewInt(0)) != 0 {
		t.Fatalf("tax percent = %v", is[0])
	}
}

func TestTokenPause(t *testing.T) {
	tc := util.NewTestContext()
	defer tc.Close()

	_, err := tc.SendTx(util.UserKeys[0], tc.Token, "Pause", nil)
	if err == nil || err.Error() != "NOT_OWNER" {
		t.Fatalf("err = %v", err)
	}

	tc.MustSendTx(util.AdminKey, tc.Token, "Pause", nil)
	_, err = tc.SendTx(util.AdminKey, tc.Token, "Transfer", nil, util.Users[0], amount.NewAmount(1, 0))
	if err == nil || err.Error() != "PAUSED" {
		t.Fatalf("err = %v", err)
	}

	tc.MustSendTx(util.AdminKey, tc.Token, "Unpause", nil)
	tc.MustSendTx(util.AdminKey, tc.Token, "Transfer", nil, util.Users[0], amount.NewAmount(1, 0))
}
