// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package genesis

import (
	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/vaultvm/chain"
	"github.com/ava-labs/vaultvm/utils"
)

var _ chain.Rules = (*Rules)(nil)

// DefaultChainID is used when a genesis does not name its chain.
var DefaultChainID = utils.ToID([]byte("vaultvm"))

type Rules struct {
	ChainID ids.ID `json:"chainId"`
}

func NewDefaultRules() *Rules {
	return &Rules{ChainID: DefaultChainID}
}

func (r *Rules) GetChainID() ids.ID {
	return r.ChainID
}
