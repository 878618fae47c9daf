// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package vault derives the keyless account that holds an identity's
// deposits and authenticates addresses presented as that account.
package vault

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"filippo.io/edwards25519"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"

	"github.com/ava-labs/vaultvm/codec"
	"github.com/ava-labs/vaultvm/consts"
)

const (
	// DomainLabel separates vault derivations from any other derived
	// account the ledger may host.
	DomainLabel = "vault"

	MaxDiscriminant = math.MaxUint8
)

var (
	ErrNoValidDiscriminant = errors.New("no off-curve discriminant found")
	ErrOnCurve             = errors.New("derived address is on the ed25519 curve")
	ErrAddressMismatch     = errors.New("address does not match derivation")
	ErrLabelTooLong        = errors.New("label too long")
)

// Capability is the proof a program presents to move funds out of a vault.
// It is the exact input triple used to derive the vault address.
type Capability struct {
	Label        []byte
	Identity     codec.Address
	Discriminant uint8
}

// Address recomputes the address the capability proves authority over. No
// discriminant search is performed.
func (c Capability) Address() (codec.Address, error) {
	return CreateAddress(c.Label, c.Identity, c.Discriminant)
}

func (c Capability) String() string {
	return fmt.Sprintf("%s/%s/%d", c.Label, c.Identity, c.Discriminant)
}

func digest(label []byte, identity codec.Address, discriminant uint8) (ids.ID, error) {
	if len(label) > math.MaxUint16 {
		return ids.Empty, ErrLabelTooLong
	}
	b := make([]byte, consts.Uint16Len+len(label)+codec.AddressLen+consts.ByteLen)
	binary.BigEndian.PutUint16(b, uint16(len(label)))
	copy(b[consts.Uint16Len:], label)
	copy(b[consts.Uint16Len+len(label):], identity[:])
	b[len(b)-1] = discriminant
	return ids.ID(hashing.ComputeHash256Array(b)), nil
}

// OnCurve reports whether [b] decodes as an ed25519 point, i.e. whether a
// private key could in principle sign for it.
func OnCurve(b ids.ID) bool {
	_, err := new(edwards25519.Point).SetBytes(b[:])
	return err == nil
}

// CreateAddress derives the address for one specific discriminant. It
// fails with [ErrOnCurve] if the digest is a signable point.
func CreateAddress(label []byte, identity codec.Address, discriminant uint8) (codec.Address, error) {
	h, err := digest(label, identity, discriminant)
	if err != nil {
		return codec.EmptyAddress, err
	}
	if OnCurve(h) {
		return codec.EmptyAddress, ErrOnCurve
	}
	return codec.CreateAddress(consts.DerivedID, h), nil
}

// Resolve returns the canonical vault address of [identity] under [label]
// and the smallest discriminant that produces it.
func Resolve(label []byte, identity codec.Address) (codec.Address, uint8, error) {
	for d := 0; d <= MaxDiscriminant; d++ {
		addr, err := CreateAddress(label, identity, uint8(d))
		switch {
		case err == nil:
			return addr, uint8(d), nil
		case errors.Is(err, ErrOnCurve):
			continue
		default:
			return codec.EmptyAddress, 0, err
		}
	}
	return codec.EmptyAddress, 0, ErrNoValidDiscriminant
}

// Verify reports whether [claimed] is the vault of [identity] under [label].
func Verify(claimed codec.Address, label []byte, identity codec.Address) bool {
	_, err := Authenticate(claimed, label, identity)
	return err == nil
}

// Authenticate re-derives the vault of [identity] and returns the capability
// for it if [claimed] matches.
func Authenticate(claimed codec.Address, label []byte, identity codec.Address) (Capability, error) {
	addr, d, err := Resolve(label, identity)
	if err != nil {
		return Capability{}, err
	}
	if addr != claimed {
		return Capability{}, fmt.Errorf("%w: expected %s, got %s", ErrAddressMismatch, addr, claimed)
	}
	return Capability{
		Label:        bytes.Clone(label),
		Identity:     identity,
		Discriminant: d,
	}, nil
}
