// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"errors"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/spf13/cobra"

	"github.com/ava-labs/vaultvm/auth"
	"github.com/ava-labs/vaultvm/codec"
	"github.com/ava-labs/vaultvm/consts"
	"github.com/ava-labs/vaultvm/utils"
	"github.com/ava-labs/vaultvm/vault"
)

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrTransactionNotFound = errors.New("transaction not found")
)

func newBalanceCmd(c *cli) *cobra.Command {
	var (
		keyPath  string
		identity string
	)
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Print the balance of an identity's vault",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				id  codec.Address
				err error
			)
			if len(identity) > 0 {
				id, err = codec.ParseAddressBech32(consts.HRP, identity)
			} else {
				priv, lerr := c.loadKey(keyPath)
				if lerr != nil {
					return lerr
				}
				id = auth.NewED25519Address(priv.PublicKey())
			}
			if err != nil {
				return err
			}
			vaultAddr, _, err := vault.Resolve([]byte(vault.DomainLabel), id)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			s, err := c.openLedger(ctx)
			if err != nil {
				return err
			}
			defer s.close()

			vaultBalance, err := s.ledger.BalanceOf(ctx, id, vaultAddr)
			if err != nil {
				return err
			}
			identityBalance, err := s.ledger.Balance(ctx, id)
			if err != nil {
				return err
			}
			utils.Outf("{{yellow}}vault:{{/}} %s\n", codec.MustAddressBech32(consts.HRP, vaultAddr))
			printBalances(vaultBalance, identityBalance)
			if c.metrics {
				return s.printMetrics()
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&keyPath, "key", "", "key file (defaults to <home>/key.pk)")
	cmd.Flags().StringVar(&identity, "identity", "", "identity address, used instead of --key")
	return cmd
}

func newAccountCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "account <address>",
		Short: "Print the account record stored at an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := codec.ParseAddressBech32(consts.HRP, args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			s, err := c.openLedger(ctx)
			if err != nil {
				return err
			}
			defer s.close()

			account, ok, err := s.ledger.Account(ctx, addr)
			if err != nil {
				return err
			}
			if !ok {
				return ErrAccountNotFound
			}
			balance, err := s.ledger.Balance(ctx, addr)
			if err != nil {
				return err
			}
			utils.Outf("{{yellow}}owner:{{/}}   %s\n", codec.MustAddressBech32(consts.HRP, account.Owner))
			utils.Outf("{{yellow}}space:{{/}}   %d\n", account.Space)
			utils.Outf("{{yellow}}balance:{{/}} %s %s\n", utils.FormatBalance(balance), consts.Symbol)
			return nil
		},
	}
}

func newTxCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "tx <txID>",
		Short: "Print the recorded result of a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			txID, err := ids.FromString(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			s, err := c.openLedger(ctx)
			if err != nil {
				return err
			}
			defer s.close()

			result, ok, err := s.ledger.GetTransaction(ctx, txID)
			if err != nil {
				return err
			}
			if !ok {
				return ErrTransactionNotFound
			}
			utils.Outf("{{yellow}}actor:{{/}}     %s\n", codec.MustAddressBech32(consts.HRP, result.Actor))
			utils.Outf("{{yellow}}timestamp:{{/}} %d\n", result.Timestamp)
			if result.Success {
				utils.Outf("{{green}}success{{/}}\n")
				return nil
			}
			utils.Outf("{{red}}failed:{{/}} %s\n", result.Error)
			return nil
		},
	}
}
