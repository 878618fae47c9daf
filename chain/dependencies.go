// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/vaultvm/codec"
	"github.com/ava-labs/vaultvm/state"
)

type Rules interface {
	GetChainID() ids.ID
}

type Action interface {
	codec.Typed

	// StateKeys is a full enumeration of all database keys that could be
	// touched during execution of an [Action] by [actor]. Keys outside of
	// this set cannot be read or written.
	StateKeys(actor codec.Address) state.Keys

	// Execute actually runs the [Action]. Any state changes that the [Action]
	// performs are discarded by the caller if an error is returned.
	//
	// An error should only be returned if a fatal error was encountered,
	// otherwise [output] should be returned.
	Execute(
		ctx context.Context,
		r Rules,
		mu state.Mutable,
		timestamp int64,
		actor codec.Address,
		txID ids.ID,
	) (output codec.Typed, err error)

	// Size is the number of bytes Marshal writes, excluding the type ID.
	Size() int
	Marshal(p *codec.Packer)
}

type Auth interface {
	codec.Typed

	// Verify is responsible for verifying the [Auth] over the transaction
	// digest [msg].
	Verify(ctx context.Context, msg []byte) error

	// Actor is the subject of the [Action] signed.
	//
	// To avoid duplicating the address in every signature, it is expected
	// to be derived from the public key.
	Actor() codec.Address

	Size() int
	Marshal(p *codec.Packer)
}

type AuthFactory interface {
	// Sign is used by helpers, auth object should store internally to be ready for marshaling
	Sign(msg []byte) (Auth, error)
	Address() codec.Address
}
