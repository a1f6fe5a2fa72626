// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package txpool is a bounded, caller-fair request queue sitting between
// add_*_transaction's admission into the pool and run_*_transaction's
// actual execution (§6): producers enqueue via Add, a single consumer
// drains in FIFO order via Next.
package txpool

import (
	"container/list"
	"fmt"
	"sync"
	"time"

	"github.com/takamaka/node/request"
	"github.com/takamaka/node/takamaka"
)

// Options bounds the pool's size and per-account share, and ages out
// entries that sat unconsumed too long.
type Options struct {
	Limit           int
	LimitPerAccount int
	MaxLifetime     time.Duration
}

type entry struct {
	req      request.Request
	caller   takamaka.StorageRef
	hasAcct  bool
	received time.Time
}

// TxPool queues admitted requests for execution, rejecting what would
// overflow Limit or a single caller's LimitPerAccount share, and
// discarding whatever has aged past MaxLifetime before a consumer ever
// reaches it.
type TxPool struct {
	opts Options

	mu      sync.Mutex
	queue   *list.List // of *entry, oldest at Front
	byAcct  map[takamaka.StorageRef]int
	notify  chan struct{}
	closeCh chan struct{}
	closed  bool
	done    chan struct{}
}

// New builds an empty pool and starts its background expiry sweep.
func New(opts Options) *TxPool {
	p := &TxPool{
		opts:    opts,
		queue:   list.New(),
		byAcct:  make(map[takamaka.StorageRef]int),
		notify:  make(chan struct{}, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go p.sweep()
	return p
}

// callerOf extracts the caller a request bills against, for the
// per-account limit; initial requests (no caller of their own) never
// pass through the pool, so they have no case here.
func callerOf(req request.Request) (takamaka.StorageRef, bool) {
	switch r := req.(type) {
	case *request.JarStoreRequest:
		return r.Caller, true
	case *request.ConstructorCallRequest:
		return r.Caller, true
	case *request.InstanceMethodCallRequest:
		return r.Caller, true
	case *request.StaticMethodCallRequest:
		return r.Caller, true
	case *request.TransferRequest:
		return r.Caller, true
	default:
		return takamaka.StorageRef{}, false
	}
}

// Add admits req into the pool, rejecting it outright if the pool is at
// capacity or the caller is already at its per-account share — the same
// two rejection shapes the teacher's pool reports ("pool is full",
// per-account cap), generalized from per-address to per-caller-storage-ref.
func (p *TxPool) Add(req request.Request) error {
	caller, hasAcct := callerOf(req)

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return fmt.Errorf("txpool: closed")
	}
	if p.opts.Limit > 0 && p.queue.Len() >= p.opts.Limit {
		return fmt.Errorf("txpool: request rejected: pool is full")
	}
	if hasAcct && p.opts.LimitPerAccount > 0 && p.byAcct[caller] >= p.opts.LimitPerAccount {
		return fmt.Errorf("txpool: request rejected: account has too many pending requests")
	}

	p.queue.PushBack(&entry{req: req, caller: caller, hasAcct: hasAcct, received: time.Now()})
	if hasAcct {
		p.byAcct[caller]++
	}
	select {
	case p.notify <- struct{}{}:
	default:
	}
	return nil
}

// Next blocks until a request is available or stop fires, popping the
// oldest queued entry.
func (p *TxPool) Next(stop <-chan struct{}) (request.Request, bool) {
	for {
		if req, ok := p.tryPop(); ok {
			return req, true
		}
		select {
		case <-p.notify:
			continue
		case <-p.closeCh:
			if req, ok := p.tryPop(); ok {
				return req, true
			}
			return nil, false
		case <-stop:
			return nil, false
		}
	}
}

func (p *TxPool) tryPop() (request.Request, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	front := p.queue.Front()
	if front == nil {
		return nil, false
	}
	p.queue.Remove(front)
	e := front.Value.(*entry)
	if e.hasAcct {
		p.byAcct[e.caller]--
		if p.byAcct[e.caller] <= 0 {
			delete(p.byAcct, e.caller)
		}
	}
	return e.req, true
}

// Len reports how many requests are currently queued.
func (p *TxPool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queue.Len()
}

// Close stops the expiry sweep; Next keeps draining whatever is already
// queued before reporting no more work.
func (p *TxPool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()
	close(p.closeCh)
	<-p.done
}

func (p *TxPool) sweep() {
	defer close(p.done)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.evictExpired()
		case <-p.closeCh:
			return
		}
	}
}

func (p *TxPool) evictExpired() {
	if p.opts.MaxLifetime <= 0 {
		return
	}
	cutoff := time.Now().Add(-p.opts.MaxLifetime)

	p.mu.Lock()
	defer p.mu.Unlock()
	for e := p.queue.Front(); e != nil; {
		next := e.Next()
		ent := e.Value.(*entry)
		if ent.received.After(cutoff) {
			break
		}
		p.queue.Remove(e)
		if ent.hasAcct {
			p.byAcct[ent.caller]--
			if p.byAcct[ent.caller] <= 0 {
				delete(p.byAcct, ent.caller)
			}
		}
		e = next
	}
}
