// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package system

import (
	"fmt"

	"github.com/ava-labs/avalanchego/utils/set"

	"github.com/ava-labs/vaultvm/codec"
	"github.com/ava-labs/vaultvm/vault"
)

// Signers is the set of addresses that have authorized the current
// instruction.
type Signers struct {
	s set.Set[codec.Address]
}

// NewSigners returns the signer set of a transaction whose signature by
// [actor] has already been verified.
func NewSigners(actor codec.Address) *Signers {
	return &Signers{s: set.Of(actor)}
}

func (s *Signers) Contains(addr codec.Address) bool {
	return s.s.Contains(addr)
}

func (s *Signers) Len() int {
	return s.s.Len()
}

// InvokeSigned returns a copy of [s] that additionally contains the address
// [c] derives. The address is recomputed from the exact capability inputs,
// so a capability only ever signs for the keyless account it was derived
// for.
func (s *Signers) InvokeSigned(c vault.Capability) (*Signers, error) {
	addr, err := c.Address()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCapability, err)
	}
	n := set.NewSet[codec.Address](s.s.Len() + 1)
	n.Union(s.s)
	n.Add(addr)
	return &Signers{s: n}, nil
}
