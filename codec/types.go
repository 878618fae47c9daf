// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

// Typed is implemented by anything that is tagged with a one byte type ID
// on the wire (actions, action results, auth).
type Typed interface {
	GetTypeID() uint8
}
