// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"math/big"

	"github.com/takamaka/node/takamaka"
)

// ExtractUpdates performs the BFS of §4.I from the given roots (deserialized
// caller, receiver, actuals, result — whichever apply to the response kind
// in play) over objects cached in arena, and returns every update implied by
// a dirty field or a newly allocated object, sorted into the canonical
// order §4.I requires (matching the deserialization constructor's field
// order).
func ExtractUpdates(arena *Arena, rank takamaka.ClassRank, roots ...takamaka.StorageRef) []takamaka.Update {
	visited := make(map[takamaka.StorageRef]bool)
	queue := append([]takamaka.StorageRef(nil), roots...)
	var updates []takamaka.Update

	for len(queue) > 0 {
		ref := queue[0]
		queue = queue[1:]
		if visited[ref] {
			continue
		}
		visited[ref] = true

		o, ok := arena.get(ref)
		if !ok {
			continue
		}

		if o.new {
			updates = append(updates, takamaka.ClassTagUpdate{Tag: o.Class})
		}

		for _, field := range o.Fields() {
			if !o.Dirty(field) {
				continue
			}
			v := o.current[field]
			updates = append(updates, updateFor(ref, field, v))
			if refVal, isRef := v.(takamaka.StorageRefValue); isRef {
				queue = append(queue, refVal.Ref)
			}
		}
	}

	takamaka.SortUpdates(updates, rank)
	return updates
}

// updateFor wraps a field's new value in the Update shape §4.I prescribes:
// UpdateOfBalance for the two distinguished contract balance fields, the
// matching primitive/string/enum/reference shape otherwise.
func updateFor(obj takamaka.StorageRef, field takamaka.FieldSignature, v takamaka.Value) takamaka.Update {
	if field.DefiningClass == "io.takamaka.code.lang.Contract" && (field.Name == "balance" || field.Name == "balanceRed") {
		big := bigIntOf(v)
		return takamaka.UpdateOfBalance{Obj: obj, Balance: big, Red: field.Name == "balanceRed"}
	}

	switch val := v.(type) {
	case takamaka.BigIntegerValue:
		return takamaka.BigIntegerUpdate{Obj: obj, Fld: field, Value: val.Int}
	case takamaka.StringValue:
		return takamaka.StringUpdate{Obj: obj, Fld: field, Value: string(val)}
	case takamaka.EnumValue:
		return takamaka.EnumUpdate{Obj: obj, Fld: field, Value: val}
	case takamaka.NullValue:
		return takamaka.ReferenceUpdate{Obj: obj, Fld: field, ToNull: true, EagerKind: field.Eager()}
	case takamaka.StorageRefValue:
		return takamaka.ReferenceUpdate{Obj: obj, Fld: field, Value: val.Ref, EagerKind: field.Eager()}
	default:
		return takamaka.PrimitiveUpdate{Obj: obj, Fld: field, Value: v}
	}
}

func bigIntOf(v takamaka.Value) *big.Int {
	if bi, ok := v.(takamaka.BigIntegerValue); ok {
		return bi.Int
	}
	return big.NewInt(0)
}
