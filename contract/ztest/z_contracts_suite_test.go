package test

import (
	"io"
	"math/big"
	"testing"

	"github.com/streamdao/streamcore/common"
	"github.com/streamdao/streamcore/common/amount"
	"github.com/streamdao/streamcore/common/bin"
	"github.com/streamdao/streamcore/contract/ico"
	"github.com/streamdao/streamcore/contract/pool"
	"github.com/streamdao/streamcore/contract/router"
	"github.com/streamdao/streamcore/contract/token"
	"github.com/streamdao/streamcore/core/types"

	testutil "github.com/streamdao/streamcore/extern/test/util"

	. "github.com/streamdao/streamcore/contract/util"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var (
	genesis *types.Context

	admin    common.Address
	treasury common.Address
	alice    common.Address
	bob      common.Address
	charlie  common.Address

	tokenAddr  common.Address
	icoAddr    common.Address
	poolAddr   common.Address
	routerAddr common.Address
)

func TestStreamContracts(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Stream Contracts Suite")
}

// beforeEach builds a fresh genesis context carrying the four contracts,
// with every test account funded and whitelisted for the seed phase.
func beforeEach() {
	genesis = types.NewEmptyContext()

	admin = testutil.Admin
	treasury = testutil.Treasury
	alice = testutil.Users[0]
	bob = testutil.Users[1]
	charlie = testutil.Users[2]

	genesis.AddCoin(admin, amount.NewAmount(100000, 0))
	genesis.AddCoin(treasury, amount.NewAmount(100000, 0))
	for _, user := range testutil.Users {
		genesis.AddCoin(user, amount.NewAmount(100000, 0))
	}

	tokenAddr = deploy(testutil.ClassMap["Token"], &token.TokenContractConstruction{
		Name:     "Stream Token",
		Symbol:   "STRM",
		Treasury: treasury,
		InitialSupplyMap: map[common.Address]*amount.Amount{
			admin:    amount.NewAmount(150000, 0),
			treasury: amount.NewAmount(350000, 0),
		},
	})

	icoAddr = deploy(testutil.ClassMap["Ico"], &ico.IcoContractConstruction{
		Token:     tokenAddr,
		Treasury:  treasury,
		Whitelist: testutil.Users,
	})

	_, err := testutil.Exec(genesis, admin, tokenAddr, "SetMinter", []interface{}{icoAddr, true})
	Expect(err).To(Succeed())

	poolAddr = deploy(testutil.ClassMap["Pool"], &pool.PoolContractConstruction{
		Name:   "StreamSwap LP Token",
		Symbol: "STRM-LP",
		Token:  tokenAddr,
	})

	routerAddr = deploy(testutil.ClassMap["Router"], &router.RouterContractConstruction{
		Token: tokenAddr,
		Pool:  poolAddr,
	})
}

func deploy(classID uint64, contArgs io.WriterTo) common.Address {
	bs, _, err := bin.WriterToBytes(contArgs)
	if err != nil {
		panic(err)
	}
	cont, err := genesis.DeployContract(admin, classID, bs)
	if err != nil {
		panic(err)
	}
	return cont.Address()
}

/////////// helpers ///////////

func view(cont common.Address, method string, args ...interface{}) []interface{} {
	is, err := testutil.Exec(genesis, admin, cont, method, args)
	Expect(err).To(Succeed())
	return is
}

func send(user common.Address, cont common.Address, method string, args ...interface{}) ([]interface{}, error) {
	return testutil.Exec(genesis, user, cont, method, args)
}

func sendValue(user common.Address, cont common.Address, method string, value *amount.Amount, args ...interface{}) ([]interface{}, error) {
	return testutil.ExecWithValue(genesis, user, cont, method, value, args)
}

func tokenBalanceOf(owner common.Address) *amount.Amount {
	return view(tokenAddr, "BalanceOf", owner)[0].(*amount.Amount)
}

func coinOf(addr common.Address) *amount.Amount {
	return genesis.Coin(addr)
}

func buy(user common.Address, eth uint64) error {
	_, err := sendValue(user, icoAddr, "BuyStrm", amount.NewAmount(eth, 0))
	return err
}

// getAmountOut mirrors the pool pricing with the 0.3% fee applied.
func getAmountOut(amountIn, reserveIn, reserveOut *big.Int) *big.Int {
	amountInWithFee := MulC(amountIn, 997)
	return Div(Mul(amountInWithFee, reserveOut), Add(MulC(reserveIn, 1000), amountInWithFee))
}
