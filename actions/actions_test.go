// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/vaultvm/auth"
	"github.com/ava-labs/vaultvm/chain/chaintest"
	"github.com/ava-labs/vaultvm/codec"
	"github.com/ava-labs/vaultvm/consts"
	"github.com/ava-labs/vaultvm/state"
	"github.com/ava-labs/vaultvm/system"
	"github.com/ava-labs/vaultvm/vault"
)

type user struct {
	identity codec.Address
	vault    codec.Address
}

func newUser(t testing.TB) user {
	pk, err := auth.NewED25519PrivateKey()
	require.NoError(t, err)
	addr, _, err := vault.Resolve([]byte(vault.DomainLabel), pk.Address)
	require.NoError(t, err)
	return user{identity: pk.Address, vault: addr}
}

// newState returns a store where [u] holds [identityBalance] and, if
// [active], an allocated vault holding [vaultBalance].
func newState(t testing.TB, u user, identityBalance uint64, active bool, vaultBalance uint64) *chaintest.InMemoryStore {
	require := require.New(t)
	ctx := context.Background()

	store := chaintest.NewInMemoryStore()
	if identityBalance > 0 {
		_, err := system.Mint(ctx, store, u.identity, identityBalance)
		require.NoError(err)
	}
	if active {
		capability, err := vault.Authenticate(u.vault, []byte(vault.DomainLabel), u.identity)
		require.NoError(err)
		signed, err := system.NewSigners(u.identity).InvokeSigned(capability)
		require.NoError(err)
		require.NoError(system.Allocate(ctx, store, signed, u.vault, VaultSpace, ProgramAddress, u.identity))
	}
	if vaultBalance > 0 {
		_, err := system.Mint(ctx, store, u.vault, vaultBalance)
		require.NoError(err)
	}
	return store
}

func requireBalance(ctx context.Context, t *testing.T, im state.Immutable, addr codec.Address, expected uint64) {
	bal, err := system.GetBalance(ctx, im, addr)
	require.NoError(t, err)
	require.Equal(t, expected, bal)
}

func requireActive(ctx context.Context, t *testing.T, im state.Immutable, addr codec.Address, expected bool) {
	account, exists, err := system.GetAccount(ctx, im, addr)
	require.NoError(t, err)
	require.Equal(t, expected, exists)
	if exists {
		require.Equal(t, ProgramAddress, account.Owner)
		require.Equal(t, uint32(VaultSpace), account.Space)
	}
}

func TestDepositAction(t *testing.T) {
	alice := newUser(t)
	bob := newUser(t)

	tests := []chaintest.ActionTest{
		{
			Name:        "ZeroAmount",
			Actor:       alice.identity,
			Action:      &Deposit{Vault: alice.vault, Amount: 0},
			State:       newState(t, alice, 100, false, 0),
			ExpectedErr: ErrZeroAmount,
		},
		{
			Name:        "OtherIdentityVault",
			Actor:       alice.identity,
			Action:      &Deposit{Vault: bob.vault, Amount: 1},
			State:       newState(t, alice, 100, false, 0),
			ExpectedErr: ErrAddressMismatch,
			Assertion: func(ctx context.Context, t *testing.T, m state.Mutable) {
				requireActive(ctx, t, m, bob.vault, false)
				requireBalance(ctx, t, m, alice.identity, 100)
			},
		},
		{
			Name:        "IdentityAsVault",
			Actor:       alice.identity,
			Action:      &Deposit{Vault: alice.identity, Amount: 1},
			State:       newState(t, alice, 100, false, 0),
			ExpectedErr: ErrAddressMismatch,
		},
		{
			Name:        "InsufficientFunds",
			Actor:       alice.identity,
			Action:      &Deposit{Vault: alice.vault, Amount: 101},
			State:       newState(t, alice, 100, false, 0),
			ExpectedErr: ErrInsufficientFunds,
			Assertion: func(ctx context.Context, t *testing.T, m state.Mutable) {
				requireActive(ctx, t, m, alice.vault, false)
				requireBalance(ctx, t, m, alice.identity, 100)
				requireBalance(ctx, t, m, alice.vault, 0)
			},
		},
		{
			Name:            "FirstDepositCreatesVault",
			Actor:           alice.identity,
			Action:          &Deposit{Vault: alice.vault, Amount: 40},
			State:           newState(t, alice, 100, false, 0),
			ExpectedOutputs: &DepositResult{VaultBalance: 40, IdentityBalance: 60, Created: true},
			Assertion: func(ctx context.Context, t *testing.T, m state.Mutable) {
				requireActive(ctx, t, m, alice.vault, true)
				requireBalance(ctx, t, m, alice.vault, 40)
				requireBalance(ctx, t, m, alice.identity, 60)
			},
		},
		{
			Name:            "DepositIntoActiveVault",
			Actor:           alice.identity,
			Action:          &Deposit{Vault: alice.vault, Amount: 100},
			State:           newState(t, alice, 100, true, 5),
			ExpectedOutputs: &DepositResult{VaultBalance: 105, IdentityBalance: 0, Created: false},
			Assertion: func(ctx context.Context, t *testing.T, m state.Mutable) {
				requireActive(ctx, t, m, alice.vault, true)
				requireBalance(ctx, t, m, alice.identity, 0)
			},
		},
		{
			Name:        "Overflow",
			Actor:       alice.identity,
			Action:      &Deposit{Vault: alice.vault, Amount: 1},
			State:       newState(t, alice, 100, true, math.MaxUint64),
			ExpectedErr: ErrOverflow,
			Assertion: func(ctx context.Context, t *testing.T, m state.Mutable) {
				requireBalance(ctx, t, m, alice.identity, 100)
				requireBalance(ctx, t, m, alice.vault, math.MaxUint64)
			},
		},
	}

	ctx := context.Background()
	for _, tt := range tests {
		tt.Run(ctx, t)
	}
}

func TestWithdrawAction(t *testing.T) {
	alice := newUser(t)
	bob := newUser(t)

	tests := []chaintest.ActionTest{
		{
			Name:        "ZeroAmount",
			Actor:       alice.identity,
			Action:      &Withdraw{Vault: alice.vault, Amount: 0},
			State:       newState(t, alice, 0, true, 10),
			ExpectedErr: ErrZeroAmount,
		},
		{
			Name:        "OtherIdentityVault",
			Actor:       alice.identity,
			Action:      &Withdraw{Vault: bob.vault, Amount: 1},
			State:       newState(t, bob, 0, true, 10),
			ExpectedErr: ErrAddressMismatch,
			Assertion: func(ctx context.Context, t *testing.T, m state.Mutable) {
				requireBalance(ctx, t, m, bob.vault, 10)
				requireBalance(ctx, t, m, alice.identity, 0)
			},
		},
		{
			Name:        "VaultNotFound",
			Actor:       alice.identity,
			Action:      &Withdraw{Vault: alice.vault, Amount: 1},
			State:       newState(t, alice, 100, false, 0),
			ExpectedErr: ErrVaultNotFound,
		},
		{
			Name:        "InsufficientFunds",
			Actor:       alice.identity,
			Action:      &Withdraw{Vault: alice.vault, Amount: 11},
			State:       newState(t, alice, 0, true, 10),
			ExpectedErr: ErrInsufficientFunds,
			Assertion: func(ctx context.Context, t *testing.T, m state.Mutable) {
				requireBalance(ctx, t, m, alice.vault, 10)
				requireBalance(ctx, t, m, alice.identity, 0)
			},
		},
		{
			Name:            "Partial",
			Actor:           alice.identity,
			Action:          &Withdraw{Vault: alice.vault, Amount: 3},
			State:           newState(t, alice, 5, true, 10),
			ExpectedOutputs: &WithdrawResult{VaultBalance: 7, IdentityBalance: 8},
		},
		{
			Name:            "EntireBalance",
			Actor:           alice.identity,
			Action:          &Withdraw{Vault: alice.vault, Amount: 10},
			State:           newState(t, alice, 0, true, 10),
			ExpectedOutputs: &WithdrawResult{VaultBalance: 0, IdentityBalance: 10},
			Assertion: func(ctx context.Context, t *testing.T, m state.Mutable) {
				// an emptied vault stays active
				requireActive(ctx, t, m, alice.vault, true)
				bal, err := BalanceOf(ctx, m, alice.identity, alice.vault)
				require.NoError(t, err)
				require.Zero(t, bal)
			},
		},
		{
			Name:        "CreditFailure",
			Actor:       alice.identity,
			Action:      &Withdraw{Vault: alice.vault, Amount: 1},
			State:       newState(t, alice, math.MaxUint64, true, 1),
			ExpectedErr: ErrReconciliationRequired,
		},
	}

	ctx := context.Background()
	for _, tt := range tests {
		tt.Run(ctx, t)
	}
}

func TestBalanceOf(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	alice := newUser(t)
	bob := newUser(t)
	store := newState(t, alice, 0, true, 42)

	bal, err := BalanceOf(ctx, store, alice.identity, alice.vault)
	require.NoError(err)
	require.Equal(uint64(42), bal)

	// reads are idempotent
	bal2, err := BalanceOf(ctx, store, alice.identity, alice.vault)
	require.NoError(err)
	require.Equal(bal, bal2)

	_, err = BalanceOf(ctx, store, bob.identity, alice.vault)
	require.ErrorIs(err, ErrAddressMismatch)

	_, err = BalanceOf(ctx, store, bob.identity, bob.vault)
	require.ErrorIs(err, ErrVaultNotFound)
}

func TestStateKeysCoverExecution(t *testing.T) {
	require := require.New(t)

	alice := newUser(t)
	deposit := &Deposit{Vault: alice.vault, Amount: 1}
	keys := deposit.StateKeys(alice.identity)
	require.Len(keys, 3)
	require.True(keys[string(system.AccountKey(alice.vault))].Has(state.Allocate))

	withdraw := &Withdraw{Vault: alice.vault, Amount: 1}
	keys = withdraw.StateKeys(alice.identity)
	require.Len(keys, 3)
	require.False(keys[string(system.AccountKey(alice.vault))].Has(state.Write))
	require.Equal(BalanceStateKeys(alice.vault)[string(system.BalanceKey(alice.vault))], state.Read)
}

func TestUnmarshal(t *testing.T) {
	require := require.New(t)

	alice := newUser(t)
	for _, action := range []interface {
		GetTypeID() uint8
		Size() int
		Marshal(*codec.Packer)
	}{
		&Deposit{Vault: alice.vault, Amount: 7},
		&Withdraw{Vault: alice.vault, Amount: 9},
	} {
		p := codec.NewWriter(action.Size()+1, action.Size()+1)
		p.PackByte(action.GetTypeID())
		action.Marshal(p)
		require.NoError(p.Err())

		parsed, err := Unmarshal(codec.NewReader(p.Bytes(), consts.MaxInt))
		require.NoError(err)
		require.Equal(action, parsed)
	}

	_, err := Unmarshal(codec.NewReader([]byte{0xff}, consts.MaxInt))
	require.Error(err)
}

func BenchmarkDeposit(b *testing.B) {
	u := newUser(b)

	bench := &chaintest.ActionBenchmark{
		Name:   "FirstDeposit",
		Actor:  u.identity,
		Action: &Deposit{Vault: u.vault, Amount: 10},
		CreateState: func() state.Mutable {
			return newState(b, u, 100, false, 0)
		},
		ExpectedOutputs: &DepositResult{VaultBalance: 10, IdentityBalance: 90, Created: true},
		Assertion: func(ctx context.Context, b *testing.B, m state.Mutable) {
			bal, err := system.GetBalance(ctx, m, u.vault)
			require.NoError(b, err)
			require.Equal(b, uint64(10), bal)
		},
	}
	bench.Run(context.Background(), b)
}

func BenchmarkWithdraw(b *testing.B) {
	u := newUser(b)

	bench := &chaintest.ActionBenchmark{
		Name:   "PartialWithdraw",
		Actor:  u.identity,
		Action: &Withdraw{Vault: u.vault, Amount: 4},
		CreateState: func() state.Mutable {
			return newState(b, u, 0, true, 10)
		},
		ExpectedOutputs: &WithdrawResult{VaultBalance: 6, IdentityBalance: 4},
	}
	bench.Run(context.Background(), b)
}
