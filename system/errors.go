// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package system

import "errors"

var (
	ErrMissingSignature  = errors.New("missing required signature")
	ErrInvalidCapability = errors.New("invalid capability")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrOverflow          = errors.New("balance overflow")
	ErrCreditFailed      = errors.New("credit failed after debit")
	ErrAccountExists     = errors.New("account already exists")
	ErrInvalidSpace      = errors.New("invalid account space")
)
