// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package system

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/near/borsh-go"

	"github.com/ava-labs/vaultvm/codec"
	"github.com/ava-labs/vaultvm/consts"
	"github.com/ava-labs/vaultvm/keys"
	"github.com/ava-labs/vaultvm/state"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

// State
// 0x0/ (balance)
//   -> [address] => balance
// 0x1/ (account)
//   -> [address] => borsh(Account)
// 0x2/ (transaction)
//   -> [txID] => result

const (
	balancePrefix byte = 0x0
	accountPrefix byte = 0x1
	txPrefix      byte = 0x2

	BalanceChunks uint16 = 1
	AccountChunks uint16 = 1
	TxChunks      uint16 = 5

	// MaxSpace is the largest data region an account may reserve.
	MaxSpace = 10 * 1024
)

// Account is the record kept for an allocated account. An address without
// a record may still hold a native balance.
type Account struct {
	Owner codec.Address
	Space uint32
}

// [balancePrefix] + [address]
func BalanceKey(addr codec.Address) []byte {
	return prefixedKey(balancePrefix, addr[:], BalanceChunks)
}

// [accountPrefix] + [address]
func AccountKey(addr codec.Address) []byte {
	return prefixedKey(accountPrefix, addr[:], AccountChunks)
}

// [txPrefix] + [txID]
func TxKey(id ids.ID) []byte {
	return prefixedKey(txPrefix, id[:], TxChunks)
}

func prefixedKey(prefix byte, body []byte, chunks uint16) []byte {
	k := make([]byte, 0, consts.ByteLen+len(body)+consts.Uint16Len)
	k = append(k, prefix)
	k = append(k, body...)
	return keys.EncodeChunks(k, chunks)
}

// GetBalance returns the native balance of [addr]. Addresses that were never
// credited have a zero balance.
func GetBalance(ctx context.Context, im state.Immutable, addr codec.Address) (uint64, error) {
	bal, _, err := innerGetBalance(im.GetValue(ctx, BalanceKey(addr)))
	return bal, err
}

func innerGetBalance(
	v []byte,
	err error,
) (uint64, bool, error) {
	if errors.Is(err, database.ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	val, err := database.ParseUInt64(v)
	if err != nil {
		return 0, false, err
	}
	return val, true, nil
}

func setBalance(ctx context.Context, mu state.Mutable, addr codec.Address, balance uint64) error {
	k := BalanceKey(addr)
	if balance == 0 {
		return mu.Remove(ctx, k)
	}
	return mu.Insert(ctx, k, database.PackUInt64(balance))
}

func addBalance(ctx context.Context, mu state.Mutable, addr codec.Address, amount uint64) (uint64, error) {
	bal, err := GetBalance(ctx, mu, addr)
	if err != nil {
		return 0, err
	}
	nbal, err := smath.Add64(bal, amount)
	if err != nil {
		return 0, fmt.Errorf(
			"%w: could not add balance (bal=%d, addr=%s, amount=%d)",
			ErrOverflow,
			bal,
			addr,
			amount,
		)
	}
	return nbal, setBalance(ctx, mu, addr, nbal)
}

func subBalance(ctx context.Context, mu state.Mutable, addr codec.Address, amount uint64) (uint64, error) {
	bal, err := GetBalance(ctx, mu, addr)
	if err != nil {
		return 0, err
	}
	nbal, err := smath.Sub(bal, amount)
	if err != nil {
		return 0, fmt.Errorf(
			"%w: could not subtract balance (bal=%d, addr=%s, amount=%d)",
			ErrInsufficientFunds,
			bal,
			addr,
			amount,
		)
	}
	return nbal, setBalance(ctx, mu, addr, nbal)
}

// Mint credits [amount] to [addr] out of thin air. It is only used to apply
// genesis allocations.
func Mint(ctx context.Context, mu state.Mutable, addr codec.Address, amount uint64) (uint64, error) {
	return addBalance(ctx, mu, addr, amount)
}

// GetAccount returns the account record at [addr], if one was allocated.
func GetAccount(ctx context.Context, im state.Immutable, addr codec.Address) (*Account, bool, error) {
	v, err := im.GetValue(ctx, AccountKey(addr))
	if errors.Is(err, database.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var account Account
	if err := borsh.Deserialize(&account, v); err != nil {
		return nil, false, err
	}
	return &account, true, nil
}

func putAccount(ctx context.Context, mu state.Mutable, addr codec.Address, account *Account) error {
	b, err := borsh.Serialize(*account)
	if err != nil {
		return err
	}
	return mu.Insert(ctx, AccountKey(addr), b)
}
