// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ledger executes vault transactions against a persistent store.
// Each transaction runs in its own transaction-scoped view and is committed
// to the database in a single batch, so a failed action never leaves a
// partial effect behind.
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/ava-labs/vaultvm/actions"
	"github.com/ava-labs/vaultvm/auth"
	"github.com/ava-labs/vaultvm/chain"
	"github.com/ava-labs/vaultvm/codec"
	"github.com/ava-labs/vaultvm/consts"
	"github.com/ava-labs/vaultvm/genesis"
	"github.com/ava-labs/vaultvm/keys"
	"github.com/ava-labs/vaultvm/lockmap"
	"github.com/ava-labs/vaultvm/state"
	"github.com/ava-labs/vaultvm/system"
	"github.com/ava-labs/vaultvm/tstate"
	"github.com/ava-labs/vaultvm/utils"
)

// 0x3/ (metadata)
//
//	-> genesis => hash of the applied genesis
const metadataPrefix byte = 0x3

var genesisKey = keys.EncodeChunks([]byte{metadataPrefix, 'g'}, 1)

type Ledger struct {
	log    logging.Logger
	tracer trace.Tracer
	db     state.Database
	rules  *genesis.Rules

	locks     *lockmap.Lockmap
	metrics   *metrics
	processed atomic.Uint64
}

// New returns a ledger over [db]. The genesis allocations are applied the
// first time [db] is used; reopening a database with a different genesis
// fails with [ErrGenesisMismatch].
func New(
	ctx context.Context,
	log logging.Logger,
	tracer trace.Tracer,
	db state.Database,
	g *genesis.Genesis,
	registerer prometheus.Registerer,
) (*Ledger, error) {
	if g.Rules == nil {
		return nil, genesis.ErrMissingRules
	}
	m, err := newMetrics(registerer)
	if err != nil {
		return nil, err
	}
	l := &Ledger{
		log:     log,
		tracer:  tracer,
		db:      db,
		rules:   g.Rules,
		locks:   lockmap.New(1_024),
		metrics: m,
	}
	if err := l.initialize(ctx, g); err != nil {
		return nil, err
	}
	l.log.Info("ledger initialized",
		zap.Stringer("chainID", g.Rules.ChainID),
	)
	return l, nil
}

func (l *Ledger) initialize(ctx context.Context, g *genesis.Genesis) error {
	ctx, span := l.tracer.Start(ctx, "Ledger.initialize")
	defer span.End()

	raw, err := json.Marshal(g)
	if err != nil {
		return err
	}
	hash := utils.ToID(raw)

	v, err := l.db.GetValue(ctx, genesisKey)
	switch {
	case err == nil:
		if !bytes.Equal(v, hash[:]) {
			return fmt.Errorf("%w: stored %x, provided %s", ErrGenesisMismatch, v, hash)
		}
		return nil
	case !errors.Is(err, database.ErrNotFound):
		return err
	}

	scope, err := g.StateKeys()
	if err != nil {
		return err
	}
	scope.Add(string(genesisKey), state.All)
	storage, err := l.readScope(ctx, scope)
	if err != nil {
		return err
	}
	ts := tstate.New(len(scope))
	view := ts.NewView(scope, storage)
	if err := g.InitializeState(ctx, l.tracer, view); err != nil {
		return err
	}
	if err := view.Insert(ctx, genesisKey, hash[:]); err != nil {
		return err
	}
	view.Commit()
	if err := l.db.Commit(ctx, ts.ChangedKeys()); err != nil {
		return err
	}
	l.log.Info("applied genesis",
		zap.Int("allocations", len(g.CustomAllocation)),
		zap.Stringer("hash", hash),
	)
	return nil
}

func (l *Ledger) Rules() chain.Rules {
	return l.rules
}

// Processed returns the number of transactions recorded since the ledger
// was opened.
func (l *Ledger) Processed() uint64 {
	return l.processed.Load()
}

// lock acquires [scope] in sorted order so concurrent callers never
// deadlock. The returned func releases them.
func (l *Ledger) lock(scope state.Keys, write bool) func() {
	ks := maps.Keys(scope)
	slices.Sort(ks)
	for _, k := range ks {
		if write {
			l.locks.Lock(k)
		} else {
			l.locks.RLock(k)
		}
	}
	return func() {
		for _, k := range ks {
			if write {
				l.locks.Unlock(k)
			} else {
				l.locks.RUnlock(k)
			}
		}
	}
}

func (l *Ledger) readScope(ctx context.Context, scope state.Keys) (map[string][]byte, error) {
	storage := make(map[string][]byte, len(scope))
	for k := range scope {
		v, err := l.db.GetValue(ctx, []byte(k))
		if errors.Is(err, database.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		storage[k] = v
	}
	return storage, nil
}

// Submit verifies, executes, and records [tx].
//
// A transaction that passes verification is always recorded, even if its
// action fails. In that case the returned [chain.Result] is non-nil and
// unsuccessful, none of the action's changes are persisted, and the
// action's error is returned alongside it. A nil result means [tx] was
// rejected and nothing was written.
// SubmitBytes decodes a signed transaction and submits it.
func (l *Ledger) SubmitBytes(ctx context.Context, b []byte) (*chain.Result, error) {
	tx, err := chain.UnmarshalTx(b, actions.Unmarshal, auth.Unmarshal)
	if err != nil {
		l.metrics.txsSubmitted.Inc()
		l.metrics.txsRejected.Inc()
		return nil, err
	}
	return l.Submit(ctx, tx)
}

func (l *Ledger) Submit(ctx context.Context, tx *chain.Transaction) (*chain.Result, error) {
	ctx, span := l.tracer.Start(ctx, "Ledger.Submit")
	defer span.End()

	start := time.Now()
	l.metrics.txsSubmitted.Inc()
	if err := tx.Verify(ctx); err != nil {
		l.metrics.txsRejected.Inc()
		return nil, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}
	if err := tx.Base.Execute(l.rules); err != nil {
		l.metrics.txsRejected.Inc()
		return nil, err
	}

	var (
		txID  = tx.ID()
		actor = tx.Auth.Actor()
		txKey = system.TxKey(txID)
		scope = tx.StateKeys()
	)
	scope.Add(string(txKey), state.All)
	unlock := l.lock(scope, true)
	defer unlock()

	storage, err := l.readScope(ctx, scope)
	if err != nil {
		l.metrics.txsRejected.Inc()
		return nil, err
	}
	if _, ok := storage[string(txKey)]; ok {
		l.metrics.txsRejected.Inc()
		return nil, fmt.Errorf("%w: %s", ErrDuplicateTx, txID)
	}

	ts := tstate.New(len(scope))
	view := ts.NewView(scope, storage)
	output, execErr := tx.Action.Execute(ctx, l.rules, view, tx.Base.Timestamp, actor, txID)
	result := &chain.Result{
		TxID:      txID,
		Success:   execErr == nil,
		Timestamp: tx.Base.Timestamp,
		Actor:     actor,
	}
	if execErr != nil {
		view.Rollback(ctx, 0)
		result.Error = chain.TruncateError(execErr)
		l.logFailure(txID, actor, tx.Action, execErr)
	}

	b, err := result.Bytes()
	if err != nil {
		return nil, err
	}
	if err := view.Insert(ctx, txKey, b); err != nil {
		return nil, err
	}
	view.Commit()
	if err := l.db.Commit(ctx, ts.ChangedKeys()); err != nil {
		l.log.Error("failed to commit transaction",
			zap.Stringer("txID", txID),
			zap.Error(err),
		)
		return nil, err
	}

	l.processed.Inc()
	l.metrics.actions.WithLabelValues(actionName(tx.Action.GetTypeID())).Inc()
	l.metrics.executeTime.Observe(time.Since(start).Seconds())
	if execErr != nil {
		l.metrics.txsFailed.Inc()
		return result, execErr
	}
	l.metrics.txsSucceeded.Inc()
	result.Output = output
	l.log.Debug("transaction succeeded",
		zap.Stringer("txID", txID),
		zap.Stringer("actor", actor),
		zap.String("action", actionName(tx.Action.GetTypeID())),
	)
	return result, nil
}

func (l *Ledger) logFailure(txID ids.ID, actor codec.Address, action chain.Action, err error) {
	fields := []zap.Field{
		zap.Stringer("txID", txID),
		zap.Stringer("actor", actor),
		zap.String("action", actionName(action.GetTypeID())),
		zap.Error(err),
	}
	if errors.Is(err, actions.ErrReconciliationRequired) {
		l.metrics.reconcile.Inc()
		l.log.Error("transfer debited without credit, transaction discarded", fields...)
		return
	}
	l.log.Debug("transaction failed", fields...)
}

// BalanceOf returns the balance of the vault of [identity]. [vaultAddr] must
// be that vault.
func (l *Ledger) BalanceOf(ctx context.Context, identity codec.Address, vaultAddr codec.Address) (uint64, error) {
	ctx, span := l.tracer.Start(ctx, "Ledger.BalanceOf")
	defer span.End()

	l.metrics.queries.Inc()
	unlock := l.lock(actions.BalanceStateKeys(vaultAddr), false)
	defer unlock()
	return actions.BalanceOf(ctx, l.db, identity, vaultAddr)
}

// Balance returns the native balance of any address.
func (l *Ledger) Balance(ctx context.Context, addr codec.Address) (uint64, error) {
	k := string(system.BalanceKey(addr))
	l.locks.RLock(k)
	defer l.locks.RUnlock(k)
	return system.GetBalance(ctx, l.db, addr)
}

// Account returns the account record at [addr], if any.
func (l *Ledger) Account(ctx context.Context, addr codec.Address) (*system.Account, bool, error) {
	k := string(system.AccountKey(addr))
	l.locks.RLock(k)
	defer l.locks.RUnlock(k)
	return system.GetAccount(ctx, l.db, addr)
}

// GetTransaction returns the recorded result of [txID].
func (l *Ledger) GetTransaction(ctx context.Context, txID ids.ID) (*chain.Result, bool, error) {
	v, err := l.db.GetValue(ctx, system.TxKey(txID))
	if errors.Is(err, database.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	result, err := chain.UnmarshalResult(txID, v)
	if err != nil {
		return nil, false, err
	}
	return result, true, nil
}

func actionName(typeID uint8) string {
	switch typeID {
	case consts.DepositID:
		return "deposit"
	case consts.WithdrawID:
		return "withdraw"
	default:
		return "unknown"
	}
}
