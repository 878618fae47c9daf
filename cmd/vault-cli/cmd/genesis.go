// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/spf13/cobra"

	"github.com/ava-labs/vaultvm/codec"
	"github.com/ava-labs/vaultvm/consts"
	"github.com/ava-labs/vaultvm/genesis"
	"github.com/ava-labs/vaultvm/utils"
)

var (
	ErrGenesisExists     = errors.New("genesis already exists")
	ErrInvalidAllocation = errors.New("allocation must be <address>:<amount>")
)

func newGenesisCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "genesis",
		Short: "Manage the ledger genesis",
	}
	cmd.AddCommand(newGenesisGenerateCmd(c))
	return cmd
}

func newGenesisGenerateCmd(c *cli) *cobra.Command {
	var (
		allocs  []string
		chainID string
		force   bool
	)
	cmd := &cobra.Command{
		Use:     "generate",
		Short:   "Write a genesis with the given allocations",
		Example: "  vault-cli genesis generate --alloc vault1...:10.5",
		RunE: func(*cobra.Command, []string) error {
			out := c.path(genesisFile)
			if _, err := os.Stat(out); err == nil && !force {
				return fmt.Errorf("%w: %s", ErrGenesisExists, out)
			}
			custom, err := parseAllocations(allocs)
			if err != nil {
				return err
			}
			g := genesis.NewDefaultGenesis(custom)
			if len(chainID) > 0 {
				id, err := ids.FromString(chainID)
				if err != nil {
					return err
				}
				g.Rules.ChainID = id
			}
			b, err := json.MarshalIndent(g, "", "  ")
			if err != nil {
				return err
			}
			// validate before writing
			if _, err := genesis.Load(b); err != nil {
				return err
			}
			if _, err := utils.InitSubDirectory(c.home, ""); err != nil {
				return err
			}
			if err := utils.SaveBytes(out, b); err != nil {
				return err
			}
			utils.Outf("{{green}}created genesis:{{/}} %s {{light-gray}}(chain %s){{/}}\n", out, g.Rules.ChainID)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&allocs, "alloc", nil, "initial balance as <address>:<amount>, repeatable")
	cmd.Flags().StringVar(&chainID, "chain-id", "", "chain ID (cb58)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing genesis")
	return cmd
}

func parseAllocations(raw []string) ([]*genesis.CustomAllocation, error) {
	custom := make([]*genesis.CustomAllocation, 0, len(raw))
	for _, r := range raw {
		addr, amount, ok := strings.Cut(r, ":")
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidAllocation, r)
		}
		if _, err := codec.ParseAddressBech32(consts.HRP, addr); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidAllocation, err)
		}
		bal, err := utils.ParseBalance(amount)
		if err != nil {
			return nil, err
		}
		custom = append(custom, &genesis.CustomAllocation{Address: addr, Balance: bal})
	}
	return custom, nil
}
