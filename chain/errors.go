// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import "errors"

var (
	ErrMissingAction  = errors.New("missing action")
	ErrMissingAuth    = errors.New("missing auth")
	ErrUnknownAction  = errors.New("unknown action")
	ErrInvalidObject  = errors.New("invalid object")
	ErrTxNotSigned    = errors.New("transaction not signed")
	ErrTxModified     = errors.New("transaction modified after signing")
	ErrInvalidChainID = errors.New("invalid chain id")
)
