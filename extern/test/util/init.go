package util

import (
	"fmt"
	"math/big"
	"os"

	"github.com/streamdao/streamcore/common"
	"github.com/streamdao/streamcore/common/key"
	"github.com/streamdao/streamcore/contract/ico"
	"github.com/streamdao/streamcore/contract/pool"
	"github.com/streamdao/streamcore/contract/router"
	"github.com/streamdao/streamcore/contract/token"
	"github.com/streamdao/streamcore/core/types"

	_ "github.com/streamdao/streamcore/core/backend/keydb_driver"
)

var (
	ChainID = big.NewInt(1)
	Version = uint16(0x0001)

	AdminKey    key.Key
	Admin       common.Address
	TreasuryKey key.Key
	Treasury    common.Address
	Users       []common.Address
	UserKeys    []key.Key
)

var ClassMap map[string]uint64

func init() {
	err := RemoveTestData()
	if err != nil {
		panic(err)
	}

	ClassMap = map[string]uint64{}
	RegisterContractClass(&token.TokenContract{}, "Token")
	RegisterContractClass(&ico.IcoContract{}, "Ico")
	RegisterContractClass(&pool.PoolContract{}, "Pool")
	RegisterContractClass(&router.RouterContract{}, "Router")

	AdminKey, err = key.NewMemoryKeyFromString("a000000000000000000000000000000000000000000000000000000000000999")
	if err != nil {
		panic(err)
	}
	Admin = AdminKey.PublicKey().Address()

	TreasuryKey, err = key.NewMemoryKeyFromString("a000000000000000000000000000000000000000000000000000000000000777")
	if err != nil {
		panic(err)
	}
	Treasury = TreasuryKey.PublicKey().Address()

	UserKeys = []key.Key{}
	for i := 998; i > 988; i-- {
		pk := fmt.Sprintf("a000000000000000000000000000000000000000000000000000000000000%3v", i)
		k, err := key.NewMemoryKeyFromString(pk)
		if err != nil {
			panic(err)
		}
		UserKeys = append(UserKeys, k)
	}
	Users = []common.Address{}
	for _, k := range UserKeys {
		Users = append(Users, k.PublicKey().Address())
	}
}

func RemoveTestData() error {
	return os.RemoveAll("tdata/")
}

func RegisterContractClass(cont types.Contract, className string) uint64 {
	ClassID, err := types.RegisterContractType(cont)
	if err != nil {
		panic(err)
	}
	ClassMap[className] = ClassID
	return ClassID
}
