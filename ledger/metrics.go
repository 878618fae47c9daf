// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	txsSubmitted prometheus.Counter
	txsSucceeded prometheus.Counter
	txsFailed    prometheus.Counter
	txsRejected  prometheus.Counter
	actions      *prometheus.CounterVec
	reconcile    prometheus.Counter
	queries      prometheus.Counter
	executeTime  prometheus.Histogram
}

func newMetrics(r prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		txsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "txs_submitted",
			Help:      "number of transactions submitted",
		}),
		txsSucceeded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "txs_succeeded",
			Help:      "number of transactions whose action succeeded",
		}),
		txsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "txs_failed",
			Help:      "number of recorded transactions whose action failed",
		}),
		txsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "txs_rejected",
			Help:      "number of transactions rejected before execution",
		}),
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "actions",
			Help:      "number of executed actions by type",
		}, []string{"action"}),
		reconcile: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "reconciliation_required",
			Help:      "number of transfers debited without a matching credit",
		}),
		queries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "balance_queries",
			Help:      "number of vault balance queries",
		}),
		executeTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ledger",
			Name:      "execute_seconds",
			Help:      "time spent executing and committing a transaction",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12),
		}),
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.txsSubmitted),
		r.Register(m.txsSucceeded),
		r.Register(m.txsFailed),
		r.Register(m.txsRejected),
		r.Register(m.actions),
		r.Register(m.reconcile),
		r.Register(m.queries),
		r.Register(m.executeTime),
	)
	return m, errs.Err
}
