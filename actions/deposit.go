// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/vaultvm/chain"
	"github.com/ava-labs/vaultvm/codec"
	"github.com/ava-labs/vaultvm/consts"
	"github.com/ava-labs/vaultvm/state"
	"github.com/ava-labs/vaultvm/system"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

var _ chain.Action = (*Deposit)(nil)

const DepositSize = codec.AddressLen + consts.Uint64Len

// Deposit moves [Amount] from the actor into the actor's vault, creating the
// vault on first use.
type Deposit struct {
	// Vault must be the actor's own vault.
	Vault codec.Address `json:"vault"`

	Amount uint64 `json:"amount"`
}

func (*Deposit) GetTypeID() uint8 {
	return consts.DepositID
}

func (d *Deposit) StateKeys(actor codec.Address) state.Keys {
	return state.Keys{
		string(system.BalanceKey(actor)):   state.Read | state.Write,
		string(system.BalanceKey(d.Vault)): state.All,
		string(system.AccountKey(d.Vault)): state.Read | state.Allocate,
	}
}

func (d *Deposit) Execute(
	ctx context.Context,
	_ chain.Rules,
	mu state.Mutable,
	_ int64,
	actor codec.Address,
	_ ids.ID,
) (codec.Typed, error) {
	if d.Amount == 0 {
		return nil, ErrZeroAmount
	}
	capability, err := authenticate(d.Vault, actor)
	if err != nil {
		return nil, err
	}
	vaultBalance, err := system.GetBalance(ctx, mu, d.Vault)
	if err != nil {
		return nil, hostError(err)
	}
	if _, err := smath.Add64(vaultBalance, d.Amount); err != nil {
		return nil, fmt.Errorf("%w: vault holds %d, deposit %d", ErrOverflow, vaultBalance, d.Amount)
	}
	identityBalance, err := system.GetBalance(ctx, mu, actor)
	if err != nil {
		return nil, hostError(err)
	}
	if identityBalance < d.Amount {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrInsufficientFunds, identityBalance, d.Amount)
	}
	_, exists, err := system.GetAccount(ctx, mu, d.Vault)
	if err != nil {
		return nil, hostError(err)
	}

	signers := system.NewSigners(actor)
	if !exists {
		signed, err := signers.InvokeSigned(capability)
		if err != nil {
			return nil, hostError(err)
		}
		if err := system.Allocate(ctx, mu, signed, d.Vault, VaultSpace, ProgramAddress, actor); err != nil {
			return nil, hostError(err)
		}
	}
	// the depositor moves their own funds, no capability needed
	if err := system.Transfer(ctx, mu, signers, actor, d.Vault, d.Amount); err != nil {
		return nil, hostError(err)
	}

	result := &DepositResult{Created: !exists}
	if result.VaultBalance, err = system.GetBalance(ctx, mu, d.Vault); err != nil {
		return nil, hostError(err)
	}
	if result.IdentityBalance, err = system.GetBalance(ctx, mu, actor); err != nil {
		return nil, hostError(err)
	}
	return result, nil
}

func (*Deposit) Size() int {
	return DepositSize
}

func (d *Deposit) Marshal(p *codec.Packer) {
	p.PackAddress(d.Vault)
	p.PackUint64(d.Amount)
}

func UnmarshalDeposit(p *codec.Packer) (chain.Action, error) {
	var deposit Deposit
	p.UnpackAddress(&deposit.Vault)
	deposit.Amount = p.UnpackUint64(false)
	return &deposit, p.Err()
}

var _ codec.Typed = (*DepositResult)(nil)

type DepositResult struct {
	VaultBalance    uint64 `json:"vaultBalance"`
	IdentityBalance uint64 `json:"identityBalance"`
	Created         bool   `json:"created"`
}

func (*DepositResult) GetTypeID() uint8 {
	return consts.DepositID
}
