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
)

var _ chain.Action = (*Withdraw)(nil)

const WithdrawSize = codec.AddressLen + consts.Uint64Len

// Withdraw moves [Amount] out of the actor's vault back to the actor.
type Withdraw struct {
	Vault codec.Address `json:"vault"`

	Amount uint64 `json:"amount"`
}

func (*Withdraw) GetTypeID() uint8 {
	return consts.WithdrawID
}

func (w *Withdraw) StateKeys(actor codec.Address) state.Keys {
	return state.Keys{
		string(system.BalanceKey(w.Vault)): state.Read | state.Write,
		string(system.AccountKey(w.Vault)): state.Read,
		string(system.BalanceKey(actor)):   state.All,
	}
}

func (w *Withdraw) Execute(
	ctx context.Context,
	_ chain.Rules,
	mu state.Mutable,
	_ int64,
	actor codec.Address,
	_ ids.ID,
) (codec.Typed, error) {
	if w.Amount == 0 {
		return nil, ErrZeroAmount
	}
	capability, err := authenticate(w.Vault, actor)
	if err != nil {
		return nil, err
	}
	_, exists, err := system.GetAccount(ctx, mu, w.Vault)
	if err != nil {
		return nil, hostError(err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrVaultNotFound, w.Vault)
	}
	vaultBalance, err := system.GetBalance(ctx, mu, w.Vault)
	if err != nil {
		return nil, hostError(err)
	}
	if vaultBalance < w.Amount {
		return nil, fmt.Errorf("%w: vault holds %d, withdraw %d", ErrInsufficientFunds, vaultBalance, w.Amount)
	}

	// The vault has no key. The host only accepts it as a signer when the
	// capability re-derives to exactly this address.
	signed, err := system.NewSigners(actor).InvokeSigned(capability)
	if err != nil {
		return nil, hostError(err)
	}
	if err := system.Transfer(ctx, mu, signed, w.Vault, actor, w.Amount); err != nil {
		return nil, hostError(err)
	}

	result := &WithdrawResult{}
	if result.VaultBalance, err = system.GetBalance(ctx, mu, w.Vault); err != nil {
		return nil, hostError(err)
	}
	if result.IdentityBalance, err = system.GetBalance(ctx, mu, actor); err != nil {
		return nil, hostError(err)
	}
	return result, nil
}

func (*Withdraw) Size() int {
	return WithdrawSize
}

func (w *Withdraw) Marshal(p *codec.Packer) {
	p.PackAddress(w.Vault)
	p.PackUint64(w.Amount)
}

func UnmarshalWithdraw(p *codec.Packer) (chain.Action, error) {
	var withdraw Withdraw
	p.UnpackAddress(&withdraw.Vault)
	withdraw.Amount = p.UnpackUint64(false)
	return &withdraw, p.Err()
}

var _ codec.Typed = (*WithdrawResult)(nil)

type WithdrawResult struct {
	VaultBalance    uint64 `json:"vaultBalance"`
	IdentityBalance uint64 `json:"identityBalance"`
}

func (*WithdrawResult) GetTypeID() uint8 {
	return consts.WithdrawID
}
