// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ava-labs/vaultvm/actions"
	"github.com/ava-labs/vaultvm/auth"
	"github.com/ava-labs/vaultvm/chain"
	"github.com/ava-labs/vaultvm/codec"
	"github.com/ava-labs/vaultvm/consts"
	"github.com/ava-labs/vaultvm/utils"
)

// actionFlags are shared by deposit and withdraw.
type actionFlags struct {
	keyPath string
	amount  string
	vault   string
}

func (f *actionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.keyPath, "key", "", "key file (defaults to <home>/key.pk)")
	cmd.Flags().StringVar(&f.amount, "amount", "", "amount to move")
	cmd.Flags().StringVar(&f.vault, "vault", "", "vault address (defaults to the key's canonical vault)")
	_ = cmd.MarkFlagRequired("amount")
}

func newDepositCmd(c *cli) *cobra.Command {
	f := &actionFlags{}
	cmd := &cobra.Command{
		Use:   "deposit",
		Short: "Move funds from the key into its vault",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.submit(cmd.Context(), f, func(vaultAddr codec.Address, amount uint64) chain.Action {
				return &actions.Deposit{Vault: vaultAddr, Amount: amount}
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newWithdrawCmd(c *cli) *cobra.Command {
	f := &actionFlags{}
	cmd := &cobra.Command{
		Use:   "withdraw",
		Short: "Move funds from the key's vault back to the key",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.submit(cmd.Context(), f, func(vaultAddr codec.Address, amount uint64) chain.Action {
				return &actions.Withdraw{Vault: vaultAddr, Amount: amount}
			})
		},
	}
	f.register(cmd)
	return cmd
}

func (c *cli) submit(
	ctx context.Context,
	f *actionFlags,
	build func(codec.Address, uint64) chain.Action,
) error {
	priv, err := c.loadKey(f.keyPath)
	if err != nil {
		return err
	}
	amount, err := utils.ParseBalance(f.amount)
	if err != nil {
		return err
	}
	_, vaultAddr, _, err := identityOf(priv)
	if err != nil {
		return err
	}
	if len(f.vault) > 0 {
		vaultAddr, err = codec.ParseAddressBech32(consts.HRP, f.vault)
		if err != nil {
			return err
		}
	}

	s, err := c.openLedger(ctx)
	if err != nil {
		return err
	}
	defer s.close()

	base := &chain.Base{
		Timestamp: time.Now().UnixMilli(),
		ChainID:   s.ledger.Rules().GetChainID(),
	}
	tx, err := chain.NewTx(base, build(vaultAddr, amount)).Sign(auth.NewED25519Factory(priv))
	if err != nil {
		return err
	}
	result, err := s.ledger.SubmitBytes(ctx, tx.Bytes())
	if result == nil {
		return err
	}
	if err != nil {
		utils.Outf("{{red}}transaction failed:{{/}} %s {{light-gray}}(%s){{/}}\n", err, tx.ID())
		s.log.Debug("submitted failing transaction", zap.Stringer("txID", tx.ID()))
		return err
	}
	utils.Outf("{{green}}transaction succeeded:{{/}} %s\n", tx.ID())
	switch out := result.Output.(type) {
	case *actions.DepositResult:
		if out.Created {
			utils.Outf("{{cyan}}vault created:{{/}} %s\n", codec.MustAddressBech32(consts.HRP, vaultAddr))
		}
		printBalances(out.VaultBalance, out.IdentityBalance)
	case *actions.WithdrawResult:
		printBalances(out.VaultBalance, out.IdentityBalance)
	}
	if c.metrics {
		return s.printMetrics()
	}
	return nil
}

func printBalances(vaultBalance, identityBalance uint64) {
	utils.Outf("{{yellow}}vault balance:{{/}}    %s %s\n", utils.FormatBalance(vaultBalance), consts.Symbol)
	utils.Outf("{{yellow}}identity balance:{{/}} %s %s\n", utils.FormatBalance(identityBalance), consts.Symbol)
}
