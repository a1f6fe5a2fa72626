// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package node defines the ten-contract Node API of §6: the surface a
// client submits requests through and reads committed state back from,
// independent of whether a concrete Node is backed directly by a store
// (node/local) or by a replicated ordered-request log (node/logged).
package node

import (
	"context"
	"time"

	"github.com/takamaka/node/request"
	"github.com/takamaka/node/response"
	"github.com/takamaka/node/takamaka"
)

// Future is what a post_*_transaction call hands back: the eventual
// outcome of a request admitted into the pool, resolved once execution
// and commit complete.
type Future interface {
	// Wait blocks until the outcome is known or ctx is done.
	Wait(ctx context.Context) (*Outcome, error)
}

// Outcome is the result an add_*/post_*/run_* call reports: a committed
// response plus the reference it was committed under, or a rejection
// reason when admission itself failed (§4.H — a Rejected result commits
// nothing and carries no transaction reference).
type Outcome struct {
	TxRef    takamaka.Bytes32
	Response response.Response
	Rejected bool
	Reason   string
}

// Node reproduces the ten contracts of §6. The three verbs generic over
// request kind (Add/Post/Run) dispatch by the concrete type of req, the
// same way runtime.Run itself does — a node is, from the outside, simply
// "a thing you can run any request kind against", so one method per verb
// mirrors the sum type rather than multiplying into ten-times-however-
// many request kinds exist.
type Node interface {
	// GetTakamakaCode returns the classpath installed at genesis.
	GetTakamakaCode() (takamaka.Bytes32, bool, error)
	// GetManifest returns the node's manifest reference.
	GetManifest() (takamaka.StorageRef, bool, error)
	// GetClassTag returns the runtime class and defining jar of ref.
	GetClassTag(ref takamaka.StorageRef) (takamaka.ClassTag, bool, error)
	// GetState returns every field update ref's history records, most
	// recent per field, including its class tag.
	GetState(ref takamaka.StorageRef) ([]takamaka.Update, error)
	// GetRequest returns the request committed under txRef, if any.
	GetRequest(txRef takamaka.Bytes32) (request.Request, bool, error)
	// GetResponse returns the response committed under txRef, if any.
	GetResponse(txRef takamaka.Bytes32) (response.Response, bool, error)
	// GetPolledResponse blocks, up to timeout, until txRef's response is
	// committed.
	GetPolledResponse(ctx context.Context, txRef takamaka.Bytes32, timeout time.Duration) (response.Response, error)

	// AddTransaction runs req synchronously and, unless rejected, applies
	// and commits its outcome before returning.
	AddTransaction(req request.Request) (*Outcome, error)
	// PostTransaction admits req into the pool and returns a Future
	// resolved once a consumer executes and commits it.
	PostTransaction(req request.Request) (Future, error)
	// RunTransaction executes an instance or static method call request
	// without ever committing its outcome (§4.H's "view calls").
	RunTransaction(req request.Request) (takamaka.Value, error)
}
