// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package system is the native program of the ledger. It owns every native
// balance and account record and only moves funds out of addresses that
// signed the current instruction.
package system

import (
	"context"
	"fmt"

	"github.com/ava-labs/vaultvm/codec"
	"github.com/ava-labs/vaultvm/state"
)

// Transfer moves [amount] of the native token from [from] to [to]. [from]
// must be in [signers].
//
// The debit is applied before the credit. If the credit fails the debit has
// already been written to [mu] and the error wraps [ErrCreditFailed]; the
// caller must discard [mu].
func Transfer(
	ctx context.Context,
	mu state.Mutable,
	signers *Signers,
	from codec.Address,
	to codec.Address,
	amount uint64,
) error {
	if !signers.Contains(from) {
		return fmt.Errorf("%w: %s", ErrMissingSignature, from)
	}
	if _, err := subBalance(ctx, mu, from, amount); err != nil {
		return err
	}
	if _, err := addBalance(ctx, mu, to, amount); err != nil {
		return fmt.Errorf("%w: %w", ErrCreditFailed, err)
	}
	return nil
}

// Allocate creates the account record for [addr] with [space] bytes of data
// owned by [owner]. Both [addr] and [payer] must be in [signers].
func Allocate(
	ctx context.Context,
	mu state.Mutable,
	signers *Signers,
	addr codec.Address,
	space uint32,
	owner codec.Address,
	payer codec.Address,
) error {
	if !signers.Contains(addr) {
		return fmt.Errorf("%w: %s", ErrMissingSignature, addr)
	}
	if !signers.Contains(payer) {
		return fmt.Errorf("%w: %s", ErrMissingSignature, payer)
	}
	if space > MaxSpace {
		return fmt.Errorf("%w: %d > %d", ErrInvalidSpace, space, MaxSpace)
	}
	_, exists, err := GetAccount(ctx, mu, addr)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrAccountExists, addr)
	}
	return putAccount(ctx, mu, addr, &Account{Owner: owner, Space: space})
}
