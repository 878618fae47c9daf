// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package genesis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/trace"

	"github.com/ava-labs/vaultvm/codec"
	"github.com/ava-labs/vaultvm/consts"
	"github.com/ava-labs/vaultvm/state"
	"github.com/ava-labs/vaultvm/system"

	safemath "github.com/ava-labs/avalanchego/utils/math"
)

var (
	ErrMissingRules        = errors.New("missing initial rules")
	ErrDuplicateAllocation = errors.New("duplicate allocation")
)

type CustomAllocation struct {
	Address string `json:"address"` // bech32 address
	Balance uint64 `json:"balance"`
}

type Genesis struct {
	CustomAllocation []*CustomAllocation `json:"customAllocation"`
	Rules            *Rules              `json:"initialRules"`
}

func NewDefaultGenesis(customAllocations []*CustomAllocation) *Genesis {
	return &Genesis{
		CustomAllocation: customAllocations,
		Rules:            NewDefaultRules(),
	}
}

// Load parses and validates a JSON genesis.
func Load(genesisBytes []byte) (*Genesis, error) {
	g := &Genesis{}
	if err := json.Unmarshal(genesisBytes, g); err != nil {
		return nil, err
	}
	if g.Rules == nil {
		return nil, ErrMissingRules
	}
	if _, err := g.allocations(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Genesis) allocations() (map[codec.Address]uint64, error) {
	allocs := make(map[codec.Address]uint64, len(g.CustomAllocation))
	supply := uint64(0)
	for _, alloc := range g.CustomAllocation {
		addr, err := codec.ParseAddressBech32(consts.HRP, alloc.Address)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", err, alloc.Address)
		}
		if _, ok := allocs[addr]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateAllocation, alloc.Address)
		}
		supply, err = safemath.Add64(supply, alloc.Balance)
		if err != nil {
			return nil, err
		}
		allocs[addr] = alloc.Balance
	}
	return allocs, nil
}

// StateKeys returns the keys [InitializeState] writes.
func (g *Genesis) StateKeys() (state.Keys, error) {
	allocs, err := g.allocations()
	if err != nil {
		return nil, err
	}
	keys := make(state.Keys, len(allocs))
	for addr := range allocs {
		keys.Add(string(system.BalanceKey(addr)), state.All)
	}
	return keys, nil
}

func (g *Genesis) InitializeState(ctx context.Context, tracer trace.Tracer, mu state.Mutable) error {
	ctx, span := tracer.Start(ctx, "Genesis.InitializeState")
	defer span.End()

	allocs, err := g.allocations()
	if err != nil {
		return err
	}
	for addr, bal := range allocs {
		if _, err := system.Mint(ctx, mu, addr, bal); err != nil {
			return fmt.Errorf("%w: addr=%s, bal=%d", err, addr, bal)
		}
	}
	return nil
}
