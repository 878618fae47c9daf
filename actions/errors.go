// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"errors"
	"fmt"

	"github.com/ava-labs/vaultvm/codec"
	"github.com/ava-labs/vaultvm/system"
	"github.com/ava-labs/vaultvm/vault"
)

var (
	ErrZeroAmount        = errors.New("amount is zero")
	ErrAddressMismatch   = errors.New("vault address mismatch")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrOverflow          = errors.New("balance overflow")
	ErrVaultNotFound     = errors.New("vault not found")
	ErrHostFailure       = errors.New("host failure")

	// ErrReconciliationRequired is returned when the host debited the
	// source but could not credit the destination.
	ErrReconciliationRequired = errors.New("reconciliation required")
)

// hostError classifies an error returned by the system program.
func hostError(err error) error {
	switch {
	case errors.Is(err, system.ErrCreditFailed):
		return fmt.Errorf("%w: %w", ErrReconciliationRequired, err)
	case errors.Is(err, system.ErrInsufficientFunds):
		return fmt.Errorf("%w: %w", ErrInsufficientFunds, err)
	case errors.Is(err, system.ErrOverflow):
		return fmt.Errorf("%w: %w", ErrOverflow, err)
	default:
		return fmt.Errorf("%w: %w", ErrHostFailure, err)
	}
}

func authenticate(claimed, identity codec.Address) (vault.Capability, error) {
	capability, err := vault.Authenticate(claimed, []byte(vault.DomainLabel), identity)
	switch {
	case err == nil:
		return capability, nil
	case errors.Is(err, vault.ErrAddressMismatch):
		return vault.Capability{}, fmt.Errorf("%w: %w", ErrAddressMismatch, err)
	default:
		return vault.Capability{}, err
	}
}
