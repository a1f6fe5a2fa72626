// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package xenv is the per-transaction execution context threaded through
// instrumented contract code: the gas meter, the event log, the
// from_contract/payable prologue helpers, and lazy field resolution
// (§4.F). A response builder is the sole mutator of its Environment; two
// builders never share one.
package xenv

import (
	"errors"
	"fmt"

	"github.com/takamaka/node/takamaka"
)

// ErrOutOfGas is returned by UseGas once the reserved gas is exhausted. The
// response builder treats it as the GasReserved → Failed transition with
// penalty charge (§4.H); it is never a CodeExecutionException.
var ErrOutOfGas = errors.New("xenv: out of gas")

// LazyResolver loads the most recent value of a non-primitive storage
// field on demand, from the object's history. It is implemented by
// package state; xenv only needs the read side, avoiding an import cycle.
type LazyResolver interface {
	DeserializeLastLazyUpdateFor(object takamaka.StorageRef, definingClass, name, fieldType string) (takamaka.Value, error)
}

// BalanceUpdater applies a payable transfer's balance effects; implemented
// by package state alongside LazyResolver.
type BalanceUpdater interface {
	Transfer(from, to takamaka.StorageRef, amount takamaka.Value) error
}

// Environment is the execution context for exactly one transaction.
type Environment struct {
	gasRemaining uint64
	events       []takamaka.StorageRefValue

	resolver LazyResolver
	balances BalanceUpdater

	caller takamaka.StorageRef
}

// New creates an Environment with gasLimit available to spend.
func New(gasLimit uint64, resolver LazyResolver, balances BalanceUpdater) *Environment {
	return &Environment{gasRemaining: gasLimit, resolver: resolver, balances: balances}
}

// GasRemaining reports the gas left to spend.
func (e *Environment) GasRemaining() uint64 {
	return e.gasRemaining
}

// UseGas is the runtime.charge_cpu / runtime.charge_ram call site the
// instrumenter's prologues invoke before each basic block and before heap
// allocation (§4.F.1).
func (e *Environment) UseGas(amount uint64) error {
	if amount > e.gasRemaining {
		e.gasRemaining = 0
		return ErrOutOfGas
	}
	e.gasRemaining -= amount
	return nil
}

// Event records an event object raised during execution (to be carried by
// the response's event list, §6).
func (e *Environment) Event(ref takamaka.StorageRefValue) {
	e.events = append(e.events, ref)
}

// Events returns the events raised so far, in emission order.
func (e *Environment) Events() []takamaka.StorageRefValue {
	return e.events
}

// FromContract is the runtime.from_contract prologue call site: it records
// which contract object is calling a from_contract-annotated member (§4.F.2).
func (e *Environment) FromContract(callee, caller takamaka.StorageRef) {
	e.caller = caller
}

// PayableFromContract is runtime.payable_from_contract: the prologue for
// payable members, which transfers amount from caller to callee before the
// body executes.
func (e *Environment) PayableFromContract(callee, caller takamaka.StorageRef, amount takamaka.Value) error {
	e.FromContract(callee, caller)
	if e.balances == nil {
		return fmt.Errorf("xenv: payable_from_contract without a balance updater")
	}
	return e.balances.Transfer(caller, callee, amount)
}

// Caller returns the caller recorded by the innermost FromContract call.
func (e *Environment) Caller() takamaka.StorageRef {
	return e.caller
}

// DeserializeLastLazyUpdateFor is the runtime helper every read of a
// non-primitive storage field is instrumented to call (§4.F.3).
func (e *Environment) DeserializeLastLazyUpdateFor(object takamaka.StorageRef, definingClass, name, fieldType string) (takamaka.Value, error) {
	if e.resolver == nil {
		return nil, fmt.Errorf("xenv: deserialize_last_lazy_update_for without a resolver")
	}
	return e.resolver.DeserializeLastLazyUpdateFor(object, definingClass, name, fieldType)
}
