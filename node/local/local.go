// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package local is the single-process Node backend: requests run
// directly against one store.Store through runtime.Run/Apply, with
// post_*_transaction's asynchrony provided by a txpool consumer loop
// running on an errgroup-managed goroutine.
package local

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/takamaka/node/log"
	"github.com/takamaka/node/node"
	"github.com/takamaka/node/request"
	"github.com/takamaka/node/response"
	"github.com/takamaka/node/runtime"
	"github.com/takamaka/node/takamaka"
	"github.com/takamaka/node/txpool"
	"golang.org/x/sync/errgroup"
)

var logger = log.For("node/local")

// Node is the single-process node.Node implementation.
type Node struct {
	ctx  *runtime.Context
	pool *txpool.TxPool

	mu      sync.Mutex
	pending map[takamaka.Bytes32]chan *node.Outcome

	classTags *node.ClassTagCache

	group  *errgroup.Group
	cancel context.CancelFunc
}

// New starts a local Node consuming requests out of pool against ctx.
func New(ctx *runtime.Context, pool *txpool.TxPool) *Node {
	runCtx, cancel := context.WithCancel(context.Background())
	group, runCtx := errgroup.WithContext(runCtx)

	n := &Node{
		ctx:       ctx,
		pool:      pool,
		pending:   make(map[takamaka.Bytes32]chan *node.Outcome),
		classTags: node.NewClassTagCache(node.DefaultClassTagCacheSize),
		group:     group,
		cancel:    cancel,
	}
	group.Go(func() error {
		n.consume(runCtx)
		return nil
	})
	return n
}

// Close stops the consumer loop and waits for it to exit.
func (n *Node) Close() {
	n.cancel()
	_ = n.group.Wait()
}

func (n *Node) consume(ctx context.Context) {
	stop := ctx.Done()
	for {
		req, ok := n.pool.Next(stop)
		if !ok {
			return
		}
		outcome, err := n.execute(req)
		if err != nil {
			logger.Error("executing pooled request failed", "err", err)
			continue
		}
		n.deliver(req, outcome)
	}
}

func (n *Node) deliver(req request.Request, outcome *node.Outcome) {
	key := pendingKey(req)
	n.mu.Lock()
	ch, ok := n.pending[key]
	if ok {
		delete(n.pending, key)
	}
	n.mu.Unlock()
	if ok {
		ch <- outcome
		close(ch)
	}
}

// pendingKey identifies a queued request before it has a committed
// transaction reference: the signing bytes hash uniquely identifies it
// the same way request.Hash does for a fully signed request.
func pendingKey(req request.Request) takamaka.Bytes32 {
	return takamaka.SHA256(request.SigningBytes(req))
}

func (n *Node) execute(req request.Request) (*node.Outcome, error) {
	result, err := runtime.Run(n.ctx, req)
	if err != nil {
		return nil, err
	}
	if result.State == runtime.Rejected {
		return &node.Outcome{Rejected: true, Reason: result.Reason}, nil
	}
	if err := runtime.Apply(n.ctx.Store, result.TxRef, req, result.Response); err != nil {
		return nil, err
	}
	if _, err := n.ctx.Store.Commit(); err != nil {
		return nil, err
	}
	return &node.Outcome{TxRef: result.TxRef, Response: result.Response}, nil
}

func (n *Node) GetTakamakaCode() (takamaka.Bytes32, bool, error) {
	return n.ctx.Store.GetTakamakaCode()
}

func (n *Node) GetManifest() (takamaka.StorageRef, bool, error) {
	return n.ctx.Store.GetManifest()
}

func (n *Node) GetClassTag(ref takamaka.StorageRef) (takamaka.ClassTag, bool, error) {
	return node.ClassTagFromHistory(n.ctx.Store, n.classTags, ref)
}

func (n *Node) GetState(ref takamaka.StorageRef) ([]takamaka.Update, error) {
	return node.GetStateFromHistory(n.ctx.Store, ref)
}

func (n *Node) GetRequest(txRef takamaka.Bytes32) (request.Request, bool, error) {
	return n.ctx.Store.GetRequest(txRef)
}

func (n *Node) GetResponse(txRef takamaka.Bytes32) (response.Response, bool, error) {
	return n.ctx.Store.GetResponse(txRef)
}

func (n *Node) GetPolledResponse(ctx context.Context, txRef takamaka.Bytes32, timeout time.Duration) (response.Response, error) {
	deadline := time.Now().Add(timeout)
	const pollInterval = 20 * time.Millisecond
	for {
		resp, ok, err := n.ctx.Store.GetResponse(txRef)
		if err != nil {
			return nil, err
		}
		if ok {
			return resp, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("node: timed out polling for response of %x", txRef)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

func (n *Node) AddTransaction(req request.Request) (*node.Outcome, error) {
	return n.execute(req)
}

func (n *Node) PostTransaction(req request.Request) (node.Future, error) {
	ch := make(chan *node.Outcome, 1)
	key := pendingKey(req)

	n.mu.Lock()
	n.pending[key] = ch
	n.mu.Unlock()

	if err := n.pool.Add(req); err != nil {
		n.mu.Lock()
		delete(n.pending, key)
		n.mu.Unlock()
		return nil, err
	}
	return &future{ch: ch}, nil
}

type future struct {
	ch     chan *node.Outcome
	once   sync.Once
	result *node.Outcome
}

func (f *future) Wait(ctx context.Context) (*node.Outcome, error) {
	select {
	case outcome, ok := <-f.ch:
		if !ok {
			return f.result, nil
		}
		f.once.Do(func() { f.result = outcome })
		return outcome, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// RunTransaction executes an instance or static method call's builder
// without ever calling Apply/Commit (§4.H's view-call path): the
// response's own Result/UpdatesList still get computed (so a view-method
// contract violation is still caught), but nothing reaches the store.
func (n *Node) RunTransaction(req request.Request) (takamaka.Value, error) {
	var result *runtime.Result
	var err error
	switch req.(type) {
	case *request.InstanceMethodCallRequest, *request.StaticMethodCallRequest:
		result, err = runtime.Run(n.ctx, req)
	default:
		return nil, fmt.Errorf("node: run_transaction only supports method calls, got %T", req)
	}
	if err != nil {
		return nil, err
	}
	if result.State == runtime.Rejected {
		return nil, fmt.Errorf("node: rejected: %s", result.Reason)
	}
	switch r := result.Response.(type) {
	case *response.MethodCallSuccessfulResponse:
		return r.Result, nil
	case *response.VoidMethodCallSuccessfulResponse:
		return nil, nil
	case *response.MethodCallExceptionResponse:
		return nil, fmt.Errorf("node: %s: %s", r.Exception.ClassNameOfCause, r.Exception.Message)
	case *response.MethodCallFailedResponse:
		return nil, fmt.Errorf("node: %s: %s", r.Cause.ClassNameOfCause, r.Cause.Message)
	default:
		return nil, fmt.Errorf("node: unexpected response type %T", result.Response)
	}
}

var _ node.Node = (*Node)(nil)
