// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/vaultvm/codec"
	"github.com/ava-labs/vaultvm/consts"
	"github.com/ava-labs/vaultvm/state"
	"github.com/ava-labs/vaultvm/utils"
)

// MaxTxSize bounds the encoding of a single transaction.
const MaxTxSize = 4 * 1024

type Transaction struct {
	Base   *Base  `json:"base"`
	Action Action `json:"action"`
	Auth   Auth   `json:"auth,omitempty"`

	bytes []byte
	id    ids.ID
}

// ActionParser decodes a type-prefixed action.
type ActionParser func(*codec.Packer) (Action, error)

// AuthParser decodes a type-prefixed auth.
type AuthParser func(*codec.Packer) (Auth, error)

func NewTx(base *Base, action Action) *Transaction {
	return &Transaction{
		Base:   base,
		Action: action,
	}
}

// Digest is the message signed by [Auth]: the base followed by the typed
// action. It is encoded from the current fields on every call.
func (t *Transaction) Digest() ([]byte, error) {
	if t.Action == nil {
		return nil, ErrMissingAction
	}
	size := t.Base.Size() + consts.ByteLen + t.Action.Size()
	p := codec.NewWriter(size, MaxTxSize)
	t.Base.Marshal(p)
	p.PackByte(t.Action.GetTypeID())
	t.Action.Marshal(p)
	if err := p.Err(); err != nil {
		return nil, err
	}
	return p.Bytes(), nil
}

// Sign returns a copy of [t] authorized by [factory].
func (t *Transaction) Sign(factory AuthFactory) (*Transaction, error) {
	msg, err := t.Digest()
	if err != nil {
		return nil, err
	}
	auth, err := factory.Sign(msg)
	if err != nil {
		return nil, err
	}
	signed := &Transaction{
		Base:   t.Base,
		Action: t.Action,
		Auth:   auth,
	}
	if err := signed.init(); err != nil {
		return nil, err
	}
	return signed, nil
}

func (t *Transaction) init() error {
	b, _, err := t.encode()
	if err != nil {
		return err
	}
	t.bytes = b
	t.id = utils.ToID(b)
	return nil
}

// encode returns the signed encoding of the current fields and the digest
// it starts with.
func (t *Transaction) encode() ([]byte, []byte, error) {
	if t.Auth == nil {
		return nil, nil, ErrMissingAuth
	}
	msg, err := t.Digest()
	if err != nil {
		return nil, nil, err
	}
	p := codec.NewWriter(len(msg)+consts.ByteLen+t.Auth.Size(), MaxTxSize)
	p.PackFixedBytes(msg)
	p.PackByte(t.Auth.GetTypeID())
	t.Auth.Marshal(p)
	if err := p.Err(); err != nil {
		return nil, nil, err
	}
	return p.Bytes(), msg, nil
}

// Bytes returns the signed encoding of [t]. It is empty until [t] is signed.
func (t *Transaction) Bytes() []byte { return t.bytes }

// ID is the hash of the signed encoding.
func (t *Transaction) ID() ids.ID { return t.id }

// Verify checks [t] is signed, that its fields still encode to the signed
// bytes and that the signature covers their digest.
func (t *Transaction) Verify(ctx context.Context) error {
	if t.Auth == nil || len(t.bytes) == 0 {
		return ErrTxNotSigned
	}
	b, msg, err := t.encode()
	if err != nil {
		return err
	}
	if !bytes.Equal(b, t.bytes) {
		return ErrTxModified
	}
	return t.Auth.Verify(ctx, msg)
}

// StateKeys returns the keys the transaction may touch, including those
// needed to record it.
func (t *Transaction) StateKeys() state.Keys {
	return t.Action.StateKeys(t.Auth.Actor())
}

// UnmarshalTx decodes a signed transaction. [b] must be the canonical
// encoding of the result.
func UnmarshalTx(b []byte, parseAction ActionParser, parseAuth AuthParser) (*Transaction, error) {
	if len(b) > MaxTxSize {
		return nil, ErrInvalidObject
	}
	p := codec.NewReader(b, MaxTxSize)
	base, err := UnmarshalBase(p)
	if err != nil {
		return nil, fmt.Errorf("%w: could not unmarshal base", err)
	}
	action, err := parseAction(p)
	if err != nil {
		return nil, fmt.Errorf("%w: could not unmarshal action", err)
	}
	auth, err := parseAuth(p)
	if err != nil {
		return nil, fmt.Errorf("%w: could not unmarshal auth", err)
	}
	if !p.Empty() {
		return nil, ErrInvalidObject
	}
	tx := &Transaction{
		Base:   base,
		Action: action,
		Auth:   auth,
	}
	if err := tx.init(); err != nil {
		return nil, err
	}
	if !bytes.Equal(tx.bytes, b) {
		return nil, ErrInvalidObject
	}
	return tx, nil
}
