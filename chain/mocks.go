// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

//go:generate go run go.uber.org/mock/mockgen -package=${GOPACKAGE} -destination=mock_auth.go . Auth
