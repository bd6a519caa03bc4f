package main // import "github.com/streamdao/streamcore"

import (
	"io"
	"log"
	"math/big"
	"os"
	"os/signal"
	"syscall"

	"github.com/streamdao/streamcore/common"
	"github.com/streamdao/streamcore/common/amount"
	"github.com/streamdao/streamcore/common/bin"
	"github.com/streamdao/streamcore/common/key"
	"github.com/streamdao/streamcore/contract/ico"
	"github.com/streamdao/streamcore/contract/pool"
	"github.com/streamdao/streamcore/contract/router"
	"github.com/streamdao/streamcore/contract/token"
	"github.com/streamdao/streamcore/core/chain"
	"github.com/streamdao/streamcore/core/types"
	"github.com/streamdao/streamcore/node"
	"github.com/streamdao/streamcore/service/apiserver"
	"github.com/streamdao/streamcore/service/apiserver/viewchain"

	_ "github.com/streamdao/streamcore/core/backend/keydb_driver"
	_ "github.com/streamdao/streamcore/core/backend/leveldb_driver"
)

var (
	ChainID = big.NewInt(1)
	Version = uint16(0x0001)
)

func main() {
	cfg, err := LoadConfig("config.toml")
	if err != nil {
		log.Fatalln("config:", err)
	}

	generatorKey, err := key.NewMemoryKeyFromString(cfg.GeneratorKey)
	if err != nil {
		log.Fatalln("generator key:", err)
	}

	classMap := map[string]uint64{}
	registerContractClass(classMap, &token.TokenContract{}, "Token")
	registerContractClass(classMap, &ico.IcoContract{}, "Ico")
	registerContractClass(classMap, &pool.PoolContract{}, "Pool")
	registerContractClass(classMap, &router.RouterContract{}, "Router")

	st, err := chain.NewStore(cfg.Backend, cfg.StorePath, ChainID, Version)
	if err != nil {
		log.Fatalln("store:", err)
	}

	genesis, conts, err := buildGenesis(cfg, classMap)
	if err != nil {
		log.Fatalln("genesis:", err)
	}

	cn := chain.NewChain(st)
	api := apiserver.NewAPIServer()
	cn.MustAddService(api)
	if err := cn.Init(genesis.Top()); err != nil {
		log.Fatalln("chain init:", err)
	}

	nd := node.NewNode(generatorKey, cn, cfg.BlockInterval())
	viewchain.NewViewchain(api, cn, nd, conts)

	go nd.Run()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		nd.Close()
		api.Close()
		cn.Close()
		os.Exit(0)
	}()

	log.Println("streamcore node listening on", cfg.BindAddress)
	if err := api.Run(cfg.BindAddress); err != nil {
		log.Fatalln("apiserver:", err)
	}
}

// buildGenesis funds the configured accounts and deploys the token, the
// sale, the pair and its router. Deployment is deterministic, so a restart
// over an existing store derives the same contract addresses the chain was
// initialized with.
func buildGenesis(cfg *Config, classMap map[string]uint64) (*types.Context, viewchain.ContractSet, error) {
	var conts viewchain.ContractSet

	admin, err := common.ParseAddress(cfg.AdminAddress)
	if err != nil {
		return nil, conts, err
	}
	treasury, err := common.ParseAddress(cfg.TreasuryAddress)
	if err != nil {
		return nil, conts, err
	}
	whitelist := []common.Address{}
	for _, s := range cfg.Whitelist {
		addr, err := common.ParseAddress(s)
		if err != nil {
			return nil, conts, err
		}
		whitelist = append(whitelist, addr)
	}
	ownerSupply, err := amount.ParseAmount(cfg.OwnerSupply)
	if err != nil {
		return nil, conts, err
	}
	treasurySupply, err := amount.ParseAmount(cfg.TreasurySupply)
	if err != nil {
		return nil, conts, err
	}

	ctx := types.NewEmptyContext()
	for addrStr, coinStr := range cfg.GenesisCoins {
		addr, err := common.ParseAddress(addrStr)
		if err != nil {
			return nil, conts, err
		}
		coin, err := amount.ParseAmount(coinStr)
		if err != nil {
			return nil, conts, err
		}
		ctx.AddCoin(addr, coin)
	}

	conts.Token, err = deployContract(ctx, admin, classMap["Token"], &token.TokenContractConstruction{
		Name:     "Stream Token",
		Symbol:   "STRM",
		Treasury: treasury,
		InitialSupplyMap: map[common.Address]*amount.Amount{
			admin:    ownerSupply,
			treasury: treasurySupply,
		},
	})
	if err != nil {
		return nil, conts, err
	}

	conts.Ico, err = deployContract(ctx, admin, classMap["Ico"], &ico.IcoContractConstruction{
		Token:     conts.Token,
		Treasury:  treasury,
		Whitelist: whitelist,
	})
	if err != nil {
		return nil, conts, err
	}

	// the sale delivers purchased tokens by minting
	if err := execContract(ctx, admin, conts.Token, "SetMinter", []interface{}{conts.Ico, true}); err != nil {
		return nil, conts, err
	}

	conts.Pool, err = deployContract(ctx, admin, classMap["Pool"], &pool.PoolContractConstruction{
		Name:   "StreamSwap LP Token",
		Symbol: "STRM-LP",
		Token:  conts.Token,
	})
	if err != nil {
		return nil, conts, err
	}

	conts.Router, err = deployContract(ctx, admin, classMap["Router"], &router.RouterContractConstruction{
		Token: conts.Token,
		Pool:  conts.Pool,
	})
	if err != nil {
		return nil, conts, err
	}
	return ctx, conts, nil
}

func deployContract(ctx *types.Context, master common.Address, classID uint64, contArgs io.WriterTo) (common.Address, error) {
	bs, _, err := bin.WriterToBytes(contArgs)
	if err != nil {
		return common.Address{}, err
	}
	cont, err := ctx.DeployContract(master, classID, bs)
	if err != nil {
		return common.Address{}, err
	}
	return cont.Address(), nil
}

func execContract(ctx *types.Context, from common.Address, contAddr common.Address, method string, args []interface{}) error {
	cont, err := ctx.Contract(contAddr)
	if err != nil {
		return err
	}
	cc := ctx.ContractContext(cont, from)
	intr := types.NewInteractor(ctx, cont, cc, "000000000000", false)
	cc.Exec = intr.Exec
	_, err = cc.Exec(cc, contAddr, method, args)
	return err
}

func registerContractClass(classMap map[string]uint64, cont types.Contract, className string) {
	classID, err := types.RegisterContractType(cont)
	if err != nil {
		panic(err)
	}
	classMap[className] = classID
}
