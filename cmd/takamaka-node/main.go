// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/takamaka/node/genesis"
	"github.com/takamaka/node/instrumenter"
	"github.com/takamaka/node/kv"
	"github.com/takamaka/node/log"
	"github.com/takamaka/node/node/local"
	"github.com/takamaka/node/runtime"
	"github.com/takamaka/node/store"
	"github.com/takamaka/node/txpool"
	cli "gopkg.in/urfave/cli.v1"
)

// checkableDepth is how many past commits keep their tries checkable;
// older trie nodes unreachable from those roots are garbage-collected
// from the backing kv.Store.
const checkableDepth = 256

var (
	version   string
	gitCommit string

	logger = log.For("cmd")
)

var (
	dataDirFlag = cli.StringFlag{
		Name:  "datadir",
		Usage: "directory for node state; empty uses an in-memory store",
	}
	genesisFlag = cli.StringFlag{
		Name:  "genesis",
		Usage: "path to the YAML genesis config",
		Value: "genesis.yaml",
	}
	jarFlag = cli.StringFlag{
		Name:  "jar",
		Usage: "path to the bootstrap classfile.Jar (already structurally encoded)",
		Value: "takamaka-base.jar",
	}
	poolLimitFlag = cli.IntFlag{
		Name:  "pool.limit",
		Usage: "maximum pending requests held in the pool",
		Value: 10000,
	}
	poolLimitPerAccountFlag = cli.IntFlag{
		Name:  "pool.limitperaccount",
		Usage: "maximum pending requests held per caller",
		Value: 16,
	}
	verbosityFlag = cli.StringFlag{
		Name:  "verbosity",
		Usage: "log level: crit, error, warn, info, debug, trace",
		Value: "info",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "emit logs as JSON instead of the human-readable terminal form",
	}
)

func fullVersion() string {
	if gitCommit == "" {
		return version + "-dev"
	}
	return fmt.Sprintf("%s-%s", version, gitCommit)
}

func main() {
	app := cli.App{
		Version: fullVersion(),
		Name:    "takamaka-node",
		Usage:   "single-process node for a deterministic smart-contract execution engine",
		Flags: []cli.Flag{
			dataDirFlag,
			genesisFlag,
			jarFlag,
			poolLimitFlag,
			poolLimitPerAccountFlag,
			verbosityFlag,
			jsonLogsFlag,
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctxCli *cli.Context) error {
	level, err := parseLevel(ctxCli.String(verbosityFlag.Name))
	if err != nil {
		return err
	}
	log.Init(level, ctxCli.Bool(jsonLogsFlag.Name))

	backing, err := openStore(ctxCli.String(dataDirFlag.Name))
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}

	genesisFile, err := os.Open(ctxCli.String(genesisFlag.Name))
	if err != nil {
		return fmt.Errorf("opening genesis config: %w", err)
	}
	defer genesisFile.Close()

	jarBytes, err := os.ReadFile(ctxCli.String(jarFlag.Name))
	if err != nil {
		return fmt.Errorf("reading bootstrap jar: %w", err)
	}

	g, err := genesis.FromYAML(genesisFile, jarBytes)
	if err != nil {
		return fmt.Errorf("parsing genesis config: %w", err)
	}
	consensus, err := g.Config.Consensus()
	if err != nil {
		return fmt.Errorf("building consensus parameters: %w", err)
	}

	st := store.New(backing, checkableDepth)
	rtCtx := runtime.NewContext(st, consensus, instrumenter.DefaultCostModel())

	if _, ok, err := st.GetManifest(); err != nil {
		return fmt.Errorf("checking for existing manifest: %w", err)
	} else if ok {
		logger.Info("store already initialized, skipping genesis")
	} else {
		result, err := genesis.Build(rtCtx, g)
		if err != nil {
			return fmt.Errorf("building genesis: %w", err)
		}
		logger.Info("genesis built", "classpath", fmt.Sprintf("%x", result.Classpath), "gamete", result.Gamete.String())
	}

	pool := txpool.New(txpool.Options{
		Limit:           ctxCli.Int(poolLimitFlag.Name),
		LimitPerAccount: ctxCli.Int(poolLimitPerAccountFlag.Name),
	})
	n := local.New(rtCtx, pool)
	defer n.Close()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("node ready")
	<-quit
	logger.Info("shutting down")
	return nil
}

func parseLevel(s string) (log.Level, error) {
	switch s {
	case "crit":
		return log.LevelCrit, nil
	case "error":
		return log.LevelError, nil
	case "warn":
		return log.LevelWarn, nil
	case "info":
		return log.LevelInfo, nil
	case "debug":
		return log.LevelDebug, nil
	case "trace":
		return log.LevelTrace, nil
	default:
		return 0, fmt.Errorf("unknown verbosity %q", s)
	}
}

func openStore(dataDir string) (kv.Store, error) {
	if dataDir == "" {
		return kv.NewMem(), nil
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	return kv.NewLevelDB(filepath.Join(dataDir, "chaindata"))
}
