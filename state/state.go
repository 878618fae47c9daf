// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"

	"github.com/ava-labs/avalanchego/utils/maybe"
)

type Immutable interface {
	GetValue(ctx context.Context, key []byte) (value []byte, err error)
}

type Mutable interface {
	Immutable

	Insert(ctx context.Context, key []byte, value []byte) error
	Remove(ctx context.Context, key []byte) error
}

// Database is the persistent store the ledger commits into. Commit must
// apply all [changes] atomically: either every insert/delete is persisted or
// none is.
type Database interface {
	Immutable

	Commit(ctx context.Context, changes map[string]maybe.Maybe[[]byte]) error
	Close() error
}
