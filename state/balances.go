// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"
	"math/big"

	"github.com/takamaka/node/takamaka"
)

var balanceField = takamaka.FieldSignature{
	DefiningClass: "io.takamaka.code.lang.Contract",
	Name:          "balance",
	Type:          "java.math.BigInteger",
}

// BalanceField exposes the contract balance field signature to callers
// outside this package (the runtime's gas reservation/refund/penalty
// accounting mutates it directly, bypassing Balances.Transfer since there
// is no paired counterparty object for a gas charge).
var BalanceField = balanceField

// Balances implements xenv.BalanceUpdater over an Arena: it is the
// payable_from_contract prologue's transfer effect (§4.F.2), mutating
// both contracts' in-memory balance fields so the updates extractor picks
// up the change via the ordinary dirty-field diff.
type Balances struct {
	arena *Arena
}

// NewBalances wraps arena for balance transfers.
func NewBalances(arena *Arena) *Balances {
	return &Balances{arena: arena}
}

// Transfer moves amount (an integer-valued Value) from from's balance to
// to's balance. Both objects must already be present in the arena
// (deserialized as part of admission checking).
func (b *Balances) Transfer(from, to takamaka.StorageRef, amount takamaka.Value) error {
	amt, err := asBigInt(amount)
	if err != nil {
		return err
	}
	if amt.Sign() < 0 {
		return fmt.Errorf("state: transfer amount must not be negative")
	}

	fromObj, ok := b.arena.get(from)
	if !ok {
		return fmt.Errorf("state: transfer from undeserialized object %s", from)
	}
	toObj, ok := b.arena.get(to)
	if !ok {
		return fmt.Errorf("state: transfer to undeserialized object %s", to)
	}

	fromBalance := balanceOf(fromObj)
	if fromBalance.Cmp(amt) < 0 {
		return fmt.Errorf("state: insufficient balance for transfer from %s", from)
	}

	fromObj.Set(balanceField, takamaka.NewBigIntegerValue(new(big.Int).Sub(fromBalance, amt)))
	toObj.Set(balanceField, takamaka.NewBigIntegerValue(new(big.Int).Add(balanceOf(toObj), amt)))
	return nil
}

func balanceOf(o *Object) *big.Int {
	v, ok := o.Get(balanceField)
	if !ok {
		return big.NewInt(0)
	}
	bi, ok := v.(takamaka.BigIntegerValue)
	if !ok {
		return big.NewInt(0)
	}
	return bi.Int
}

func asBigInt(v takamaka.Value) (*big.Int, error) {
	switch val := v.(type) {
	case takamaka.BigIntegerValue:
		return val.Int, nil
	case takamaka.IntValue:
		return big.NewInt(int64(val)), nil
	case takamaka.LongValue:
		return big.NewInt(int64(val)), nil
	default:
		return nil, fmt.Errorf("state: amount value %v is not an integer type", v)
	}
}
