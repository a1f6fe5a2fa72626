// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package logged is the replicated Node backend: every admitted request
// is appended to an ordered request Log rather than run immediately, and
// a single consumer goroutine — the only writer a correct replicated
// deployment ever has, one per replica applying the same log in the same
// order — drives runtime.Run/Apply/Commit from what the log delivers.
// The consensus/replication protocol that keeps multiple replicas' logs
// in agreement is out of scope (§1); Log is the opaque interface this
// node talks to, and MemLog is an in-process implementation of it for
// tests and single-replica deployments.
package logged

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
)

var logger = log.For("node/logged")

// Log is the ordered, durable sequence of admitted requests a replicated
// deployment's consensus layer provides; this repository only consumes
// it, never implements the replication itself.
type Log interface {
	// Append adds req to the log and returns its sequence position.
	Append(req request.Request) (uint64, error)
	// Subscribe returns every entry appended from position 0 onward,
	// followed by everything appended after the call, and a function to
	// stop delivery and release the subscription.
	Subscribe() (<-chan LogEntry, func())
}

// LogEntry is one appended, sequenced request.
type LogEntry struct {
	Position uint64
	Request  request.Request
}

// MemLog is an in-process Log: a growable slice plus fan-out channels,
// the same producer/consumer shape txpool.TxPool uses for its own queue.
type MemLog struct {
	mu      sync.Mutex
	entries []request.Request
	subs    map[int]chan LogEntry
	nextSub int
}

// NewMemLog builds an empty in-process log.
func NewMemLog() *MemLog {
	return &MemLog{subs: make(map[int]chan LogEntry)}
}

func (l *MemLog) Append(req request.Request) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	pos := uint64(len(l.entries))
	l.entries = append(l.entries, req)
	entry := LogEntry{Position: pos, Request: req}
	for _, ch := range l.subs {
		ch <- entry
	}
	return pos, nil
}

func (l *MemLog) Subscribe() (<-chan LogEntry, func()) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ch := make(chan LogEntry, len(l.entries)+16)
	for i, req := range l.entries {
		ch <- LogEntry{Position: uint64(i), Request: req}
	}
	id := l.nextSub
	l.nextSub++
	l.subs[id] = ch

	stop := func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if ch, ok := l.subs[id]; ok {
			delete(l.subs, id)
			close(ch)
		}
	}
	return ch, stop
}

// Node is the log-backed node.Node implementation.
type Node struct {
	ctx *runtime.Context
	log Log

	mu      sync.Mutex
	pending map[takamaka.Bytes32]chan *node.Outcome

	classTags *node.ClassTagCache

	unsubscribe func()
	done        chan struct{}
}

// New starts a Node replaying log from its current state forward.
func New(ctx *runtime.Context, l Log) *Node {
	entries, stop := l.Subscribe()
	n := &Node{
		ctx:         ctx,
		log:         l,
		pending:     make(map[takamaka.Bytes32]chan *node.Outcome),
		classTags:   node.NewClassTagCache(node.DefaultClassTagCacheSize),
		unsubscribe: stop,
		done:        make(chan struct{}),
	}
	go n.consume(entries)
	return n
}

// Close stops consuming the log.
func (n *Node) Close() {
	n.unsubscribe()
	<-n.done
}

func (n *Node) consume(entries <-chan LogEntry) {
	defer close(n.done)
	for e := range entries {
		outcome, err := n.execute(e.Request)
		if err != nil {
			logger.Error("applying logged request failed", "position", e.Position, "err", err)
			continue
		}
		n.deliver(e.Request, outcome)
	}
}

func pendingKey(req request.Request) takamaka.Bytes32 {
	return takamaka.SHA256(request.SigningBytes(req))
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

// await registers a pending channel for req and blocks until the consumer
// goroutine delivers req's outcome.
func (n *Node) await(req request.Request) (*node.Outcome, error) {
	ch := make(chan *node.Outcome, 1)
	key := pendingKey(req)
	n.mu.Lock()
	n.pending[key] = ch
	n.mu.Unlock()

	if _, err := n.log.Append(req); err != nil {
		n.mu.Lock()
		delete(n.pending, key)
		n.mu.Unlock()
		return nil, err
	}
	return <-ch, nil
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

// AddTransaction appends req to the log and blocks for its outcome,
// giving a replicated deployment the same synchronous add_*_transaction
// contract node/local provides directly.
func (n *Node) AddTransaction(req request.Request) (*node.Outcome, error) {
	return n.await(req)
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

// PostTransaction appends req to the log and returns immediately with a
// Future resolved once the consumer goroutine replays it.
func (n *Node) PostTransaction(req request.Request) (node.Future, error) {
	ch := make(chan *node.Outcome, 1)
	key := pendingKey(req)
	n.mu.Lock()
	n.pending[key] = ch
	n.mu.Unlock()

	if _, err := n.log.Append(req); err != nil {
		n.mu.Lock()
		delete(n.pending, key)
		n.mu.Unlock()
		return nil, err
	}
	return &future{ch: ch}, nil
}

// RunTransaction never touches the log: a view call's whole point is that
// it is never committed, so there is nothing to replicate (§4.H).
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
