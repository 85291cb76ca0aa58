package cmd

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-multierror"
	"github.com/prometheus/client_golang/prometheus"

	"fogchess/contract"
	"fogchess/metrics"
	"fogchess/privstate"
	"fogchess/sdk"
	"fogchess/storage"
)

// node wires the ledger, the contract and the private store of one
// invocation.
type node struct {
	chain    *sdk.Chain
	contract *contract.Contract
	private  *privstate.Store
	registry *prometheus.Registry
	closers  []io.Closer
}

func openNode() (*node, error) {
	n := &node{registry: prometheus.NewRegistry()}

	ledgerDB, err := storage.OpenBadger(cfg.LedgerDir(), log)
	if err != nil {
		return nil, fmt.Errorf("could not open ledger: %w", err)
	}
	n.closers = append(n.closers, ledgerDB)

	privateDB, err := storage.OpenBadger(cfg.PrivateDir(), log)
	if err != nil {
		_ = n.close()
		return nil, fmt.Errorf("could not open private store: %w", err)
	}
	n.closers = append(n.closers, privateDB)

	cached, err := storage.NewCached(ledgerDB, cfg.CacheSize)
	if err != nil {
		_ = n.close()
		return nil, err
	}
	n.chain, err = sdk.NewChain(cached, log)
	if err != nil {
		_ = n.close()
		return nil, fmt.Errorf("could not open chain: %w", err)
	}

	var m metrics.GameMetrics = metrics.NewNoopCollector()
	if cfg.MetricsFile != "" {
		m = metrics.NewGameCollector(n.registry)
	}
	n.contract = contract.New(log, m, contract.Config{MoveTimeout: cfg.MoveTimeout})
	n.private = privstate.New(privateDB)
	return n, nil
}

func (n *node) close() error {
	var result *multierror.Error
	if cfg.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(cfg.MetricsFile, n.registry); err != nil {
			result = multierror.Append(result, fmt.Errorf("could not write metrics: %w", err))
		}
	}
	for i := len(n.closers) - 1; i >= 0; i-- {
		if err := n.closers[i].Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// withNode runs fn against an open node and closes it afterwards.
func withNode(fn func(n *node) error) (err error) {
	n, err := openNode()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := n.close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(n)
}

func (n *node) game(sender sdk.Address, gameID uint64) (contract.GameState, error) {
	var gs contract.GameState
	err := n.chain.Simulate(sender, func(tx sdk.Tx) error {
		var err error
		gs, err = n.contract.GetGame(tx, gameID)
		return err
	})
	return gs, err
}
