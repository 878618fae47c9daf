// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package system

import (
	"context"
	"math"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/near/borsh-go"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/vaultvm/chain/chaintest"
	"github.com/ava-labs/vaultvm/codec"
	"github.com/ava-labs/vaultvm/consts"
	"github.com/ava-labs/vaultvm/vault"
)

var program = codec.CreateAddress(consts.ProgramID, ids.GenerateTestID())

func newIdentity() codec.Address {
	return codec.CreateAddress(consts.ED25519ID, ids.GenerateTestID())
}

func vaultOf(t *testing.T, identity codec.Address) (codec.Address, vault.Capability) {
	addr, _, err := vault.Resolve([]byte(vault.DomainLabel), identity)
	require.NoError(t, err)
	capability, err := vault.Authenticate(addr, []byte(vault.DomainLabel), identity)
	require.NoError(t, err)
	return addr, capability
}

func TestKeys(t *testing.T) {
	require := require.New(t)

	addr := newIdentity()
	require.Len(BalanceKey(addr), 1+codec.AddressLen+consts.Uint16Len)
	require.NotEqual(BalanceKey(addr), AccountKey(addr))
	require.Equal(byte(0x2), TxKey(ids.GenerateTestID())[0])
}

func TestMintAndBalance(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := chaintest.NewInMemoryStore()

	addr := newIdentity()
	bal, err := GetBalance(ctx, mu, addr)
	require.NoError(err)
	require.Zero(bal)

	bal, err = Mint(ctx, mu, addr, 10)
	require.NoError(err)
	require.Equal(uint64(10), bal)

	_, err = Mint(ctx, mu, addr, math.MaxUint64)
	require.ErrorIs(err, ErrOverflow)
	bal, err = GetBalance(ctx, mu, addr)
	require.NoError(err)
	require.Equal(uint64(10), bal)
}

func TestTransfer(t *testing.T) {
	ctx := context.Background()
	alice := newIdentity()
	bob := newIdentity()

	tests := []struct {
		name        string
		signer      codec.Address
		amount      uint64
		toBalance   uint64
		expectedErr error
		fromAfter   uint64
		toAfter     uint64
	}{
		{name: "ok", signer: alice, amount: 4, fromAfter: 6, toAfter: 4},
		{name: "whole balance", signer: alice, amount: 10, fromAfter: 0, toAfter: 10},
		{name: "not signed", signer: bob, amount: 1, expectedErr: ErrMissingSignature, fromAfter: 10},
		{name: "insufficient", signer: alice, amount: 11, expectedErr: ErrInsufficientFunds, fromAfter: 10},
		{
			name:        "credit overflow",
			signer:      alice,
			amount:      1,
			toBalance:   math.MaxUint64,
			expectedErr: ErrCreditFailed,
			// debit already applied, the caller discards state
			fromAfter: 9,
			toAfter:   math.MaxUint64,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			mu := chaintest.NewInMemoryStore()
			_, err := Mint(ctx, mu, alice, 10)
			require.NoError(err)
			if tt.toBalance > 0 {
				_, err = Mint(ctx, mu, bob, tt.toBalance)
				require.NoError(err)
			}

			err = Transfer(ctx, mu, NewSigners(tt.signer), alice, bob, tt.amount)
			require.ErrorIs(err, tt.expectedErr)

			bal, err := GetBalance(ctx, mu, alice)
			require.NoError(err)
			require.Equal(tt.fromAfter, bal)
			bal, err = GetBalance(ctx, mu, bob)
			require.NoError(err)
			require.Equal(tt.toAfter, bal)
		})
	}
}

func TestZeroBalanceRemovesKey(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := chaintest.NewInMemoryStore()

	alice := newIdentity()
	_, err := Mint(ctx, mu, alice, 5)
	require.NoError(err)
	require.NoError(Transfer(ctx, mu, NewSigners(alice), alice, newIdentity(), 5))
	_, ok := mu.Storage[string(BalanceKey(alice))]
	require.False(ok)
}

func TestInvokeSigned(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := chaintest.NewInMemoryStore()

	alice := newIdentity()
	aliceVault, capability := vaultOf(t, alice)
	_, err := Mint(ctx, mu, aliceVault, 10)
	require.NoError(err)

	signers := NewSigners(alice)
	require.ErrorIs(Transfer(ctx, mu, signers, aliceVault, alice, 1), ErrMissingSignature)

	signed, err := signers.InvokeSigned(capability)
	require.NoError(err)
	require.True(signed.Contains(aliceVault))
	require.Equal(2, signed.Len())
	// the original set is not widened
	require.False(signers.Contains(aliceVault))
	require.NoError(Transfer(ctx, mu, signed, aliceVault, alice, 1))

	// a capability for another identity does not sign for alice's vault
	_, bobCapability := vaultOf(t, newIdentity())
	wrong, err := signers.InvokeSigned(bobCapability)
	require.NoError(err)
	require.ErrorIs(Transfer(ctx, mu, wrong, aliceVault, alice, 1), ErrMissingSignature)
}

func TestInvokeSignedOnCurve(t *testing.T) {
	require := require.New(t)

	// find a discriminant that lands on the curve
	identity := newIdentity()
	for d := 0; d <= vault.MaxDiscriminant; d++ {
		c := vault.Capability{Label: []byte(vault.DomainLabel), Identity: identity, Discriminant: uint8(d)}
		if _, err := c.Address(); err == nil {
			continue
		}
		_, err := NewSigners(identity).InvokeSigned(c)
		require.ErrorIs(err, ErrInvalidCapability)
		require.ErrorIs(err, vault.ErrOnCurve)
		return
	}
	t.Skip("no on-curve discriminant for this identity")
}

func TestAllocate(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := chaintest.NewInMemoryStore()

	alice := newIdentity()
	aliceVault, capability := vaultOf(t, alice)

	signers := NewSigners(alice)
	require.ErrorIs(Allocate(ctx, mu, signers, aliceVault, 8, program, alice), ErrMissingSignature)

	signed, err := signers.InvokeSigned(capability)
	require.NoError(err)
	require.ErrorIs(Allocate(ctx, mu, signed, aliceVault, 8, program, newIdentity()), ErrMissingSignature)
	require.ErrorIs(Allocate(ctx, mu, signed, aliceVault, MaxSpace+1, program, alice), ErrInvalidSpace)

	_, exists, err := GetAccount(ctx, mu, aliceVault)
	require.NoError(err)
	require.False(exists)

	require.NoError(Allocate(ctx, mu, signed, aliceVault, 8, program, alice))
	account, exists, err := GetAccount(ctx, mu, aliceVault)
	require.NoError(err)
	require.True(exists)
	require.Equal(&Account{Owner: program, Space: 8}, account)

	raw, err := borsh.Serialize(Account{Owner: program, Space: 8})
	require.NoError(err)
	require.Equal(raw, mu.Storage[string(AccountKey(aliceVault))])

	require.ErrorIs(Allocate(ctx, mu, signed, aliceVault, 8, program, alice), ErrAccountExists)
}
