package types

import (
	"bytes"
	"sort"

	"github.com/streamdao/streamcore/common"
	"github.com/streamdao/streamcore/common/amount"
)

// EachAllAddressUint64 iterates the map in the address order
func EachAllAddressUint64(mp map[common.Address]uint64, fn func(key common.Address, value uint64) error) error {
	keys := make([]common.Address, 0, len(mp))
	for k := range mp {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i][:], keys[j][:]) < 0
	})
	for _, k := range keys {
		if err := fn(k, mp[k]); err != nil {
			return err
		}
	}
	return nil
}

// EachAllAddressAmount iterates the map in the address order
func EachAllAddressAmount(mp map[common.Address]*amount.Amount, fn func(key common.Address, value *amount.Amount) error) error {
	keys := make([]common.Address, 0, len(mp))
	for k := range mp {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i][:], keys[j][:]) < 0
	})
	for _, k := range keys {
		if err := fn(k, mp[k]); err != nil {
			return err
		}
	}
	return nil
}

// EachAllContractDefine iterates the map in the address order
func EachAllContractDefine(mp map[common.Address]*ContractDefine, fn func(key common.Address, value *ContractDefine) error) error {
	keys := make([]common.Address, 0, len(mp))
	for k := range mp {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i][:], keys[j][:]) < 0
	})
	for _, k := range keys {
		if err := fn(k, mp[k]); err != nil {
			return err
		}
	}
	return nil
}

// EachAllStringBytes iterates the map in the key order
func EachAllStringBytes(mp map[string][]byte, fn func(key string, value []byte) error) error {
	keys := make([]string, 0, len(mp))
	for k := range mp {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := fn(k, mp[k]); err != nil {
			return err
		}
	}
	return nil
}

// EachAllStringBool iterates the map in the key order
func EachAllStringBool(mp map[string]bool, fn func(key string, value bool) error) error {
	keys := make([]string, 0, len(mp))
	for k := range mp {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := fn(k, mp[k]); err != nil {
			return err
		}
	}
	return nil
}
