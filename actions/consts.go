// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"github.com/ava-labs/vaultvm/codec"
	"github.com/ava-labs/vaultvm/consts"
	"github.com/ava-labs/vaultvm/utils"
)

// VaultSpace is the data region reserved by every vault account record.
const VaultSpace = 8

// ProgramAddress owns every vault account record.
var ProgramAddress = codec.CreateAddress(consts.ProgramID, utils.ToID([]byte(consts.Name)))
