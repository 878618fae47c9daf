// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/vaultvm/actions"
	"github.com/ava-labs/vaultvm/auth"
	"github.com/ava-labs/vaultvm/codec"
	"github.com/ava-labs/vaultvm/consts"
	"github.com/ava-labs/vaultvm/crypto/ed25519"
	"github.com/ava-labs/vaultvm/vault"
)

func run(ctx context.Context, args ...string) error {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

func TestDepositWithdrawRoundTrip(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	home := t.TempDir()

	require.NoError(run(ctx, "--home", home, "key", "generate"))
	require.ErrorIs(run(ctx, "--home", home, "key", "generate"), ErrKeyExists)

	priv, err := ed25519.LoadKey(filepath.Join(home, keyFile))
	require.NoError(err)
	identity := auth.NewED25519Address(priv.PublicKey())
	alloc := codec.MustAddressBech32(consts.HRP, identity) + ":10"

	require.ErrorIs(run(ctx, "--home", home, "deposit", "--amount", "1"), ErrMissingGenesis)
	require.NoError(run(ctx, "--home", home, "genesis", "generate", "--alloc", alloc))
	require.ErrorIs(run(ctx, "--home", home, "genesis", "generate"), ErrGenesisExists)

	require.NoError(run(ctx, "--home", home, "deposit", "--amount", "0.5"))
	require.NoError(run(ctx, "--home", home, "withdraw", "--amount", "0.3", "--print-metrics"))
	require.ErrorIs(run(ctx, "--home", home, "withdraw", "--amount", "1"), actions.ErrInsufficientFunds)
	require.NoError(run(ctx, "--home", home, "balance"))

	vaultAddr, _, err := vault.Resolve([]byte(vault.DomainLabel), identity)
	require.NoError(err)
	require.NoError(run(ctx, "--home", home, "account", codec.MustAddressBech32(consts.HRP, vaultAddr)))
	require.ErrorIs(run(ctx, "--home", home, "account", codec.MustAddressBech32(consts.HRP, identity)), ErrAccountNotFound)

	c := &cli{home: home}
	s, err := c.openLedger(ctx)
	require.NoError(err)
	defer s.close()

	vaultBalance, err := s.ledger.BalanceOf(ctx, identity, vaultAddr)
	require.NoError(err)
	require.Equal(uint64(200_000_000), vaultBalance)
	identityBalance, err := s.ledger.Balance(ctx, identity)
	require.NoError(err)
	require.Equal(uint64(9_800_000_000), identityBalance)
	require.Equal(uint64(0), s.ledger.Processed())
}

func TestParseAllocations(t *testing.T) {
	require := require.New(t)

	priv, err := ed25519.GeneratePrivateKey()
	require.NoError(err)
	addr := codec.MustAddressBech32(consts.HRP, auth.NewED25519Address(priv.PublicKey()))

	custom, err := parseAllocations([]string{addr + ":1.5"})
	require.NoError(err)
	require.Len(custom, 1)
	require.Equal(addr, custom[0].Address)
	require.Equal(uint64(1_500_000_000), custom[0].Balance)

	_, err = parseAllocations([]string{addr})
	require.ErrorIs(err, ErrInvalidAllocation)
	_, err = parseAllocations([]string{"nope:1"})
	require.ErrorIs(err, ErrInvalidAllocation)
}
