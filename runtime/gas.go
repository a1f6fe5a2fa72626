// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"fmt"
	"math/big"

	"github.com/takamaka/node/state"
	"github.com/takamaka/node/takamaka"
)

// gasCost is gasUnits priced at gasPrice, used by reserve/refund/penalty
// (§4.H step 2: "reserve full gas cost from caller balance").
func gasCost(gasUnits uint64, gasPrice *big.Int) *big.Int {
	return new(big.Int).Mul(new(big.Int).SetUint64(gasUnits), gasPrice)
}

func balanceOf(o *state.Object) *big.Int {
	v, ok := o.Get(state.BalanceField)
	if !ok {
		return big.NewInt(0)
	}
	bi, ok := v.(takamaka.BigIntegerValue)
	if !ok {
		return big.NewInt(0)
	}
	return bi.Int
}

func setBalance(o *state.Object, v *big.Int) {
	o.Set(state.BalanceField, takamaka.NewBigIntegerValue(v))
}

// reserveGas deducts gasLimit*gasPrice from caller's balance (pessimistic
// charge, §4.H step 2), returning an error if the caller cannot afford it
// (an admission failure per invariant U2's gas accounting).
func reserveGas(caller *state.Object, gasLimit uint64, gasPrice *big.Int) error {
	cost := gasCost(gasLimit, gasPrice)
	bal := balanceOf(caller)
	if bal.Cmp(cost) < 0 {
		return fmt.Errorf("runtime: caller balance %s insufficient for gas cost %s", bal, cost)
	}
	setBalance(caller, new(big.Int).Sub(bal, cost))
	return nil
}

// refundGas credits back gasUnused*gasPrice on a successful completion
// (§4.H step 4).
func refundGas(caller *state.Object, gasUnused uint64, gasPrice *big.Int) {
	setBalance(caller, new(big.Int).Add(balanceOf(caller), gasCost(gasUnused, gasPrice)))
}

// chargePenalty returns the cost of gasUnused at gasPrice: on the failure
// branch the reserved-but-unused gas stays charged, to deter spam
// (§4.H step 5, "charge a penalty (= unused gas)"). Since reserveGas
// already deducted the full amount up front, the penalty branch is simply
// "do not refund"; no builder calls this function.
func chargePenalty(gasUnused uint64, gasPrice *big.Int) *big.Int {
	return gasCost(gasUnused, gasPrice)
}

// bumpNonce advances caller's nonce by one, the only update every
// admitted transaction is guaranteed to produce (§4.H step 5: "keep only
// caller-balance/nonce updates").
func bumpNonce(caller *state.Object, currentNonce *big.Int) {
	caller.Set(nonceField, takamaka.NewBigIntegerValue(new(big.Int).Add(currentNonce, big.NewInt(1))))
}
