// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/maybe"
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/vaultvm/state"
)

var (
	_ state.Database = (*Database)(nil)

	ErrClosed = errors.New("database closed")
)

type Config struct {
	CacheSize                int  `json:"cacheSize" yaml:"cacheSize"`
	BytesPerSync             int  `json:"bytesPerSync" yaml:"bytesPerSync"`
	WALBytesPerSync          int  `json:"walBytesPerSync" yaml:"walBytesPerSync"`
	MaxOpenFiles             int  `json:"maxOpenFiles" yaml:"maxOpenFiles"`
	L0CompactionThreshold    int  `json:"l0CompactionThreshold" yaml:"l0CompactionThreshold"`
	L0StopWritesThreshold    int  `json:"l0StopWritesThreshold" yaml:"l0StopWritesThreshold"`
	MaxConcurrentCompactions int  `json:"maxConcurrentCompactions" yaml:"maxConcurrentCompactions"`
	Sync                     bool `json:"sync" yaml:"sync"`
	DisableMetricsCollection bool `json:"disableMetricsCollection" yaml:"disableMetricsCollection"`
}

func NewDefaultConfig() Config {
	return Config{
		CacheSize:                16 * 1024 * 1024,
		BytesPerSync:             1024 * 1024,
		WALBytesPerSync:          1024 * 1024,
		MaxOpenFiles:             4_096,
		L0CompactionThreshold:    8,
		L0StopWritesThreshold:    1_000,
		MaxConcurrentCompactions: 4,
		Sync:                     true,
	}
}

// Database persists ledger state on disk. Every [Commit] is applied with a
// single pebble batch.
type Database struct {
	db      *pebble.DB
	metrics *metrics

	writeOpts *pebble.WriteOptions

	closed  bool
	l       sync.RWMutex
	closing chan struct{}
	wg      sync.WaitGroup
}

// New opens (or creates) a pebble database at [file]. The returned registry
// holds the database metrics.
func New(file string, cfg Config) (*Database, *prometheus.Registry, error) {
	// These default settings are based on https://github.com/ethereum/go-ethereum/blob/master/ethdb/pebble/pebble.go
	d := &Database{
		writeOpts: &pebble.WriteOptions{Sync: cfg.Sync},
		closing:   make(chan struct{}),
	}
	registry, metrics, err := newMetrics()
	if err != nil {
		return nil, nil, err
	}
	d.metrics = metrics

	cache := pebble.NewCache(int64(cfg.CacheSize))
	defer cache.Unref()
	opts := &pebble.Options{
		Cache:                    cache,
		BytesPerSync:             cfg.BytesPerSync,
		WALBytesPerSync:          cfg.WALBytesPerSync,
		MaxOpenFiles:             cfg.MaxOpenFiles,
		L0CompactionThreshold:    cfg.L0CompactionThreshold,
		L0StopWritesThreshold:    cfg.L0StopWritesThreshold,
		MaxConcurrentCompactions: func() int { return cfg.MaxConcurrentCompactions },
		EventListener: &pebble.EventListener{
			CompactionBegin: d.onCompactionBegin,
			CompactionEnd:   d.onCompactionEnd,
			WriteStallBegin: d.onWriteStallBegin,
			WriteStallEnd:   d.onWriteStallEnd,
		},
	}
	db, err := pebble.Open(file, opts)
	if err != nil {
		return nil, nil, err
	}
	d.db = db
	if !cfg.DisableMetricsCollection {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			d.collectMetrics()
		}()
	}
	return d, registry, nil
}

func (db *Database) GetValue(_ context.Context, key []byte) ([]byte, error) {
	db.l.RLock()
	defer db.l.RUnlock()

	if db.closed {
		return nil, ErrClosed
	}
	start := time.Now()
	defer func() {
		db.metrics.getLatency.Observe(float64(time.Since(start)))
	}()
	data, closer, err := db.db.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, database.ErrNotFound
		}
		return nil, err
	}
	ret := make([]byte, len(data))
	copy(ret, data)
	return ret, closer.Close()
}

func (db *Database) Commit(_ context.Context, changes map[string]maybe.Maybe[[]byte]) error {
	db.l.RLock()
	defer db.l.RUnlock()

	if db.closed {
		return ErrClosed
	}
	batch := db.db.NewBatch()
	defer batch.Close()
	for k, v := range changes {
		if v.IsNothing() {
			if err := batch.Delete([]byte(k), nil); err != nil {
				return err
			}
			continue
		}
		if err := batch.Set([]byte(k), v.Value(), nil); err != nil {
			return err
		}
	}
	start := time.Now()
	if err := batch.Commit(db.writeOpts); err != nil {
		return err
	}
	db.metrics.commitLatency.Observe(float64(time.Since(start)))
	db.metrics.committedKeys.Add(float64(len(changes)))
	return nil
}

func (db *Database) Close() error {
	db.l.Lock()
	if db.closed {
		db.l.Unlock()
		return ErrClosed
	}
	db.closed = true
	close(db.closing)
	db.l.Unlock()

	db.wg.Wait()
	return db.db.Close()
}
