// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/takamaka/node/classfile"
	"github.com/takamaka/node/classloader"
	"github.com/takamaka/node/kv"
	"github.com/takamaka/node/response"
	"github.com/takamaka/node/state"
	"github.com/takamaka/node/store"
	"github.com/takamaka/node/takamaka"
)

type singleJarSource struct{ jar *classfile.Jar }

func (s singleJarSource) ResolveJar(ref takamaka.Bytes32) (*classfile.Jar, []takamaka.Bytes32, bool, error) {
	return s.jar, nil, false, nil
}

func contractField(name string) takamaka.FieldSignature {
	return takamaka.FieldSignature{DefiningClass: "C", Name: name, Type: "int"}
}

func TestDeserializeScansHistoryForEagerFields(t *testing.T) {
	backing := kv.NewMem()
	defer backing.Close()
	st := store.New(backing, -1)

	creationTx := takamaka.SHA256([]byte("create"))
	obj := takamaka.NewStorageRef(creationTx, 0)

	creationResp := &response.ConstructorCallSuccessfulResponse{
		UpdatesList: []takamaka.Update{
			takamaka.ClassTagUpdate{Tag: takamaka.ClassTag{Object: obj, ClassName: "C"}},
			takamaka.PrimitiveUpdate{Obj: obj, Fld: contractField("count"), Value: takamaka.IntValue(1)},
		},
		NewObject: obj,
	}
	require.NoError(t, st.PutResponse(creationTx, creationResp))
	require.NoError(t, st.PutHistory(obj, []takamaka.Bytes32{creationTx}))

	updateTx := takamaka.SHA256([]byte("update"))
	updateResp := &response.VoidMethodCallSuccessfulResponse{
		UpdatesList: []takamaka.Update{
			takamaka.PrimitiveUpdate{Obj: obj, Fld: contractField("count"), Value: takamaka.IntValue(42)},
		},
	}
	require.NoError(t, st.PutResponse(updateTx, updateResp))
	require.NoError(t, st.PutHistory(obj, []takamaka.Bytes32{updateTx, creationTx}))

	jar := &classfile.Jar{Classes: map[string]*classfile.Class{
		"C": {Name: "C", Fields: []classfile.Field{{Name: "count", Type: "int"}}},
	}}
	loader, err := classloader.Build(singleJarSource{jar: jar}, takamaka.Bytes32{})
	require.NoError(t, err)

	arena := state.NewArena()
	deserializer := state.NewDeserializer(st, loader, arena)

	o, err := deserializer.Deserialize(obj)
	require.NoError(t, err)
	v, ok := o.Get(contractField("count"))
	require.True(t, ok)
	assert.Equal(t, takamaka.IntValue(42), v)
	assert.Equal(t, "C", o.Class.ClassName)
}

func TestExtractUpdatesEmitsOnlyDirtyFields(t *testing.T) {
	arena := state.NewArena()
	ref := takamaka.NewStorageRef(takamaka.SHA256([]byte("o")), 0)
	o := arena.New(ref, "C", takamaka.Bytes32{})
	o.Load(contractField("count"), takamaka.IntValue(1))
	o.Load(contractField("untouched"), takamaka.IntValue(9))
	o.Set(contractField("count"), takamaka.IntValue(2))

	rank := func(string) int { return 0 }
	updates := state.ExtractUpdates(arena, rank, ref)

	var sawClassTag, sawCount, sawUntouched bool
	for _, u := range updates {
		switch up := u.(type) {
		case takamaka.ClassTagUpdate:
			sawClassTag = true
		case takamaka.PrimitiveUpdate:
			if up.Fld.Name == "count" {
				sawCount = true
				assert.Equal(t, takamaka.IntValue(2), up.Value)
			}
			if up.Fld.Name == "untouched" {
				sawUntouched = true
			}
		}
	}
	assert.True(t, sawClassTag)
	assert.True(t, sawCount)
	assert.False(t, sawUntouched)
}

func TestBalancesTransfer(t *testing.T) {
	arena := state.NewArena()
	from := arena.New(takamaka.NewStorageRef(takamaka.SHA256([]byte("from")), 0), "io.takamaka.code.lang.Contract", takamaka.Bytes32{})
	to := arena.New(takamaka.NewStorageRef(takamaka.SHA256([]byte("to")), 0), "io.takamaka.code.lang.Contract", takamaka.Bytes32{})

	balField := takamaka.FieldSignature{DefiningClass: "io.takamaka.code.lang.Contract", Name: "balance", Type: "java.math.BigInteger"}
	from.Load(balField, takamaka.NewBigIntegerValue(big.NewInt(100)))
	to.Load(balField, takamaka.NewBigIntegerValue(big.NewInt(0)))

	balances := state.NewBalances(arena)
	require.NoError(t, balances.Transfer(from.Ref, to.Ref, takamaka.IntValue(30)))

	fv, _ := from.Get(balField)
	tv, _ := to.Get(balField)
	assert.Equal(t, "70", fv.(takamaka.BigIntegerValue).Int.String())
	assert.Equal(t, "30", tv.(takamaka.BigIntegerValue).Int.String())

	err := balances.Transfer(from.Ref, to.Ref, takamaka.IntValue(1000))
	assert.Error(t, err)

	fv, _ = from.Get(balField)
	tv, _ = to.Get(balField)
	err = balances.Transfer(from.Ref, to.Ref, takamaka.IntValue(-1))
	assert.Error(t, err)
	fvAfter, _ := from.Get(balField)
	tvAfter, _ := to.Get(balField)
	assert.Equal(t, fv, fvAfter, "a rejected negative transfer must not touch either balance")
	assert.Equal(t, tv, tvAfter, "a rejected negative transfer must not touch either balance")
}
