// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ava-labs/vaultvm/config"
	"github.com/ava-labs/vaultvm/genesis"
	"github.com/ava-labs/vaultvm/ledger"
	"github.com/ava-labs/vaultvm/pebble"
	"github.com/ava-labs/vaultvm/trace"
	"github.com/ava-labs/vaultvm/utils"
)

const (
	homeFolder  = ".vault-cli"
	genesisFile = "genesis.json"
	keyFile     = "key.pk"
)

var ErrMissingGenesis = errors.New("genesis not found, run `genesis generate` first")

type cli struct {
	home       string
	configPath string
	logLevel   string
	metrics    bool
}

func NewRootCmd() *cobra.Command {
	c := &cli{}
	cmd := &cobra.Command{
		Use:   "vault-cli",
		Short: "Custodial vault ledger CLI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.DisableAutoGenTag = true
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.PersistentFlags().StringVar(&c.home, "home", filepath.Join(home, homeFolder), "directory holding keys, genesis and the ledger database")
	cmd.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (.json, .yaml or .yml)")
	cmd.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "overrides the configured log level")
	cmd.PersistentFlags().BoolVar(&c.metrics, "print-metrics", false, "print ledger and database metrics before exiting")

	cmd.AddCommand(
		newKeyCmd(c),
		newGenesisCmd(c),
		newDepositCmd(c),
		newWithdrawCmd(c),
		newBalanceCmd(c),
		newAccountCmd(c),
		newTxCmd(c),
	)
	return cmd
}

func (c *cli) path(name string) string {
	return filepath.Join(c.home, name)
}

func (c *cli) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if len(c.logLevel) > 0 {
		cfg.LogLevel = c.logLevel
		if _, err := cfg.GetLogLevel(); err != nil {
			return config.Config{}, err
		}
	}
	return cfg, nil
}

// session is an open ledger together with everything needed to tear it
// down.
type session struct {
	ledger  *ledger.Ledger
	log     logging.Logger
	metrics prometheus.Gatherers
	close   func()
}

// printMetrics writes every gathered metric to stdout in the text
// exposition format.
func (s *session) printMetrics() error {
	families, err := s.metrics.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(os.Stdout, mf); err != nil {
			return err
		}
	}
	return nil
}

// openLedger opens the ledger stored under the home directory.
func (c *cli) openLedger(ctx context.Context) (*session, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	genesisBytes, err := utils.LoadBytes(c.path(genesisFile), -1)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrMissingGenesis
	}
	if err != nil {
		return nil, err
	}
	g, err := genesis.Load(genesisBytes)
	if err != nil {
		return nil, err
	}

	loggingConfig, err := cfg.LoggingConfig(c.home)
	if err != nil {
		return nil, err
	}
	logs := newLogFactory(loggingConfig)
	log, err := logs.Make("vault-cli")
	if err != nil {
		logs.Close()
		return nil, err
	}

	tracer, err := trace.New(&cfg.Trace)
	if err != nil {
		logs.Close()
		return nil, err
	}
	db, dbRegistry, err := pebble.New(cfg.DatabasePath(c.home), cfg.Pebble)
	if err != nil {
		_ = tracer.Close()
		logs.Close()
		return nil, err
	}
	closeAll := func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close database", zap.Error(err))
		}
		if err := tracer.Close(); err != nil {
			log.Debug("failed to close tracer", zap.Error(err))
		}
		logs.Close()
	}

	registry := prometheus.NewRegistry()
	l, err := ledger.New(ctx, log, tracer, db, g, registry)
	if err != nil {
		closeAll()
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	return &session{
		ledger:  l,
		log:     log,
		metrics: prometheus.Gatherers{registry, dbRegistry},
		close:   closeAll,
	}, nil
}
