// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

// Note: IDs are assigned explicitly to avoid accidental remapping when new
// types are added.
const (
	// Address TypeIDs
	ED25519ID uint8 = 0
	DerivedID uint8 = 1
	ProgramID uint8 = 2

	// Action TypeIDs
	DepositID  uint8 = 0
	WithdrawID uint8 = 1
)

const (
	HRP      = "vault"
	Name     = "vaultvm"
	Symbol   = "VLT"
	Decimals = 9
)
