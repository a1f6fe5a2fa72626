// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"math/big"

	"github.com/takamaka/node/response"
	"github.com/takamaka/node/state"
	"github.com/takamaka/node/takamaka"
	"github.com/takamaka/node/xenv"
)

func toStorageRefs(events []takamaka.StorageRefValue) []takamaka.StorageRef {
	out := make([]takamaka.StorageRef, len(events))
	for i, e := range events {
		out[i] = e.Ref
	}
	return out
}

// settle runs the storage-charge and refund steps shared by every
// successful (or declared-exception) call response (§4.H step 4): it
// prices the updates reachable from roots, charges that as additional
// gas, refunds whatever remains to caller, then re-extracts the update
// set so the refunded balance is reflected in what gets committed.
func settle(env *xenv.Environment, arena *state.Arena, rank takamaka.ClassRank, caller *state.Object, gasLimit uint64, gasPrice *big.Int, roots ...takamaka.StorageRef) (response.GasConsumption, []takamaka.Update, []takamaka.StorageRef, error) {
	events := toStorageRefs(env.Events())
	cpuUsed := gasLimit - env.GasRemaining()

	provisional := state.ExtractUpdates(arena, rank, roots...)
	storageCost := uint64(len(provisional))*takamaka.GasPerUpdate + uint64(len(events))*32*takamaka.GasPerEventByte
	if err := env.UseGas(storageCost); err != nil {
		return response.GasConsumption{}, nil, nil, err
	}

	unused := env.GasRemaining()
	refundGas(caller, unused, gasPrice)

	final := state.ExtractUpdates(arena, rank, roots...)
	gc := response.GasConsumption{
		ForCPU:     cpuUsed,
		ForStorage: storageCost,
		Refund:     gasCost(unused, gasPrice),
		Penalty:    big.NewInt(0),
	}
	return gc, final, events, nil
}

// settleSimple is settle's counterpart for responses that never touch an
// object graph (jar-store): only caller's balance and nonce are ever
// committed.
func settleSimple(caller *state.Object, env *xenv.Environment, gasPrice *big.Int) (response.GasConsumption, []takamaka.Update) {
	unused := env.GasRemaining()
	refundGas(caller, unused, gasPrice)
	gc := response.GasConsumption{Refund: gasCost(unused, gasPrice), Penalty: big.NewInt(0)}
	return gc, callerOnlyUpdates(caller)
}

// applyPenalty resets caller's balance to its pre-reservation value minus
// the full gas cost (the unused-gas refund never happens on the failure
// branch, §4.H step 5 — "charge a penalty equal to the unused gas" reduces
// to "do not refund" since reserveGas already deducted the whole amount)
// and returns the two updates every failed transaction still commits.
func applyPenalty(caller *state.Object, preReserveBalance *big.Int, gasLimit uint64, gasPrice *big.Int) (response.GasConsumption, []takamaka.Update) {
	penalty := gasCost(gasLimit, gasPrice)
	setBalance(caller, new(big.Int).Sub(preReserveBalance, penalty))
	gc := response.GasConsumption{Refund: big.NewInt(0), Penalty: penalty}
	return gc, callerOnlyUpdates(caller)
}

func callerOnlyUpdates(caller *state.Object) []takamaka.Update {
	updates := []takamaka.Update{
		takamaka.UpdateOfBalance{Obj: caller.Ref, Balance: balanceOf(caller)},
	}
	if v, ok := caller.Get(nonceField); ok {
		if bi, ok2 := v.(takamaka.BigIntegerValue); ok2 {
			updates = append(updates, takamaka.BigIntegerUpdate{Obj: caller.Ref, Fld: nonceField, Value: bi.Int})
		}
	}
	return updates
}

// viewRespectsContract reports whether updates only touch caller's own
// balance and nonce fields, the tie-break rule a view-annotated call must
// satisfy (§4.H).
func viewRespectsContract(updates []takamaka.Update, caller takamaka.StorageRef) bool {
	for _, u := range updates {
		if u.Object() != caller {
			return false
		}
		f := u.Field()
		if f == nonceField {
			continue
		}
		if f.DefiningClass == "io.takamaka.code.lang.Contract" && f.Name == "balance" {
			continue
		}
		return false
	}
	return true
}

func outOfGasFailure() response.Failure {
	return response.Failure{ClassNameOfCause: "io.takamaka.code.engine.OutOfGasError", Message: "out of gas"}
}
