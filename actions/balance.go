// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"fmt"

	"github.com/ava-labs/vaultvm/codec"
	"github.com/ava-labs/vaultvm/state"
	"github.com/ava-labs/vaultvm/system"
)

// BalanceStateKeys are the keys [BalanceOf] reads.
func BalanceStateKeys(vaultAddr codec.Address) state.Keys {
	return state.Keys{
		string(system.BalanceKey(vaultAddr)): state.Read,
		string(system.AccountKey(vaultAddr)): state.Read,
	}
}

// BalanceOf returns the funds held by the vault of [identity]. A vault that
// was never deposited into does not exist.
func BalanceOf(ctx context.Context, im state.Immutable, identity codec.Address, vaultAddr codec.Address) (uint64, error) {
	if _, err := authenticate(vaultAddr, identity); err != nil {
		return 0, err
	}
	_, exists, err := system.GetAccount(ctx, im, vaultAddr)
	if err != nil {
		return 0, hostError(err)
	}
	if !exists {
		return 0, fmt.Errorf("%w: %s", ErrVaultNotFound, vaultAddr)
	}
	bal, err := system.GetBalance(ctx, im, vaultAddr)
	if err != nil {
		return 0, hostError(err)
	}
	return bal, nil
}
