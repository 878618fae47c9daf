// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"fmt"

	"github.com/ava-labs/vaultvm/chain"
	"github.com/ava-labs/vaultvm/codec"
	"github.com/ava-labs/vaultvm/consts"
)

// Unmarshal parses a type-prefixed action.
func Unmarshal(p *codec.Packer) (chain.Action, error) {
	switch typeID := p.UnpackByte(); typeID {
	case consts.DepositID:
		return UnmarshalDeposit(p)
	case consts.WithdrawID:
		return UnmarshalWithdraw(p)
	default:
		if err := p.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %d", chain.ErrUnknownAction, typeID)
	}
}
