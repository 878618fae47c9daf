// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/vaultvm/codec"
	"github.com/ava-labs/vaultvm/consts"
)

const BaseSize = consts.Int64Len + consts.IDLen

type Base struct {
	// Timestamp is the unix time in milliseconds the transaction was created
	// at. It also makes otherwise identical transactions distinct.
	Timestamp int64 `json:"timestamp"`

	// ChainID protects against replay attacks on other ledgers.
	ChainID ids.ID `json:"chainId"`
}

func (b *Base) Execute(r Rules) error {
	if b.ChainID != r.GetChainID() {
		return ErrInvalidChainID
	}
	return nil
}

func (*Base) Size() int {
	return BaseSize
}

func (b *Base) Marshal(p *codec.Packer) {
	p.PackInt64(b.Timestamp)
	p.PackID(b.ChainID)
}

func UnmarshalBase(p *codec.Packer) (*Base, error) {
	var base Base
	base.Timestamp = p.UnpackInt64()
	p.UnpackID(true, &base.ChainID)
	return &base, p.Err()
}
