// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ava-labs/vaultvm/auth"
	"github.com/ava-labs/vaultvm/codec"
	"github.com/ava-labs/vaultvm/consts"
	"github.com/ava-labs/vaultvm/crypto/ed25519"
	"github.com/ava-labs/vaultvm/utils"
	"github.com/ava-labs/vaultvm/vault"
)

var ErrKeyExists = errors.New("key file already exists")

func newKeyCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage the signing key",
	}
	cmd.AddCommand(newKeyGenerateCmd(c), newKeyAddressCmd(c))
	return cmd
}

func newKeyGenerateCmd(c *cli) *cobra.Command {
	var (
		out   string
		force bool
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a new ed25519 key",
		RunE: func(*cobra.Command, []string) error {
			if len(out) == 0 {
				if _, err := utils.InitSubDirectory(c.home, ""); err != nil {
					return err
				}
				out = c.path(keyFile)
			}
			if _, err := os.Stat(out); err == nil && !force {
				return fmt.Errorf("%w: %s", ErrKeyExists, out)
			}
			priv, err := ed25519.GeneratePrivateKey()
			if err != nil {
				return err
			}
			if err := priv.Save(out); err != nil {
				return err
			}
			utils.Outf("{{green}}created key:{{/}} %s\n", out)
			return printAddresses(priv)
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "key file (defaults to <home>/key.pk)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing key file")
	return cmd
}

func newKeyAddressCmd(c *cli) *cobra.Command {
	var keyPath string
	cmd := &cobra.Command{
		Use:   "address",
		Short: "Print the identity and vault address of a key",
		RunE: func(*cobra.Command, []string) error {
			priv, err := c.loadKey(keyPath)
			if err != nil {
				return err
			}
			return printAddresses(priv)
		},
	}
	cmd.Flags().StringVar(&keyPath, "key", "", "key file (defaults to <home>/key.pk)")
	return cmd
}

func (c *cli) loadKey(keyPath string) (ed25519.PrivateKey, error) {
	if len(keyPath) == 0 {
		keyPath = c.path(keyFile)
	}
	return ed25519.LoadKey(keyPath)
}

// identityOf returns the identity of [priv] and its canonical vault.
func identityOf(priv ed25519.PrivateKey) (codec.Address, codec.Address, uint8, error) {
	identity := auth.NewED25519Address(priv.PublicKey())
	vaultAddr, discriminant, err := vault.Resolve([]byte(vault.DomainLabel), identity)
	return identity, vaultAddr, discriminant, err
}

func printAddresses(priv ed25519.PrivateKey) error {
	identity, vaultAddr, discriminant, err := identityOf(priv)
	if err != nil {
		return err
	}
	utils.Outf("{{yellow}}identity:{{/}} %s\n", codec.MustAddressBech32(consts.HRP, identity))
	utils.Outf("{{yellow}}vault:{{/}}    %s {{light-gray}}(discriminant %d){{/}}\n", codec.MustAddressBech32(consts.HRP, vaultAddr), discriminant)
	return nil
}
