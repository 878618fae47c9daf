// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// vault-cli drives a local vault ledger.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ava-labs/vaultvm/cmd/vault-cli/cmd"
)

func main() {
	if err := cmd.NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
