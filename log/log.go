// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log is a thin wrapper around go-ethereum's structured logger,
// adding a "component" attribute every call site sets once via For and
// carries on every subsequent log line.
package log

import (
	"log/slog"
	"os"

	gethlog "github.com/ethereum/go-ethereum/log"
)

// Logger is go-ethereum's leveled, structured logger.
type Logger = gethlog.Logger

// Level names a verbosity threshold, matching gethlog's slog-based levels.
type Level = slog.Level

const (
	LevelCrit  = gethlog.LevelCrit
	LevelError = gethlog.LevelError
	LevelWarn  = gethlog.LevelWarn
	LevelInfo  = gethlog.LevelInfo
	LevelDebug = gethlog.LevelDebug
	LevelTrace = gethlog.LevelTrace
)

// Init installs the process-wide default handler: a human-readable
// terminal handler, or a JSON handler when jsonOutput is set (for piping
// logs into an aggregator rather than a human's terminal).
func Init(level Level, jsonOutput bool) {
	var lvar slog.LevelVar
	lvar.Set(level)

	var handler slog.Handler
	if jsonOutput {
		handler = gethlog.JSONHandlerWithLevel(os.Stderr, &lvar)
	} else {
		handler = gethlog.NewTerminalHandlerWithLevel(os.Stderr, &lvar, true)
	}
	gethlog.SetDefault(gethlog.NewLogger(handler))
}

// For returns a logger tagged with the given component name, the single
// attribute every call site sets once and every subsequent log line
// carries (§5's node components: store, runtime, txpool, node, genesis).
func For(component string) Logger {
	return gethlog.Root().With("component", component)
}
