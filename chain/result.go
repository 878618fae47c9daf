// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"unicode/utf8"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/vaultvm/codec"
	"github.com/ava-labs/vaultvm/consts"
)

// MaxErrorSize bounds the error message kept with a stored result.
const MaxErrorSize = 256

type Result struct {
	TxID      ids.ID
	Success   bool
	Error     []byte
	Timestamp int64
	Actor     codec.Address

	// Output is only populated for the submitter and is not persisted.
	Output codec.Typed
}

func (r *Result) Size() int {
	return consts.BoolLen + consts.Int64Len + codec.AddressLen + consts.IntLen + len(r.Error)
}

func (r *Result) Marshal(p *codec.Packer) {
	p.PackBool(r.Success)
	p.PackInt64(r.Timestamp)
	p.PackAddress(r.Actor)
	p.PackBytes(r.Error)
}

func (r *Result) Bytes() ([]byte, error) {
	p := codec.NewWriter(r.Size(), r.Size())
	r.Marshal(p)
	return p.Bytes(), p.Err()
}

func UnmarshalResult(txID ids.ID, b []byte) (*Result, error) {
	p := codec.NewReader(b, consts.MaxInt)
	result := &Result{
		TxID:      txID,
		Success:   p.UnpackBool(),
		Timestamp: p.UnpackInt64(),
	}
	p.UnpackAddress(&result.Actor)
	p.UnpackBytes(MaxErrorSize, false, &result.Error)
	if err := p.Err(); err != nil {
		return nil, err
	}
	if !p.Empty() {
		return nil, ErrInvalidObject
	}
	return result, nil
}

// TruncateError caps [err]'s message at [MaxErrorSize] bytes without
// splitting a rune.
func TruncateError(err error) []byte {
	b := []byte(err.Error())
	if len(b) <= MaxErrorSize {
		return b
	}
	end := MaxErrorSize
	for end > 0 && !utf8.RuneStart(b[end]) {
		end--
	}
	return b[:end]
}
