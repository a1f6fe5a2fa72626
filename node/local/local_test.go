// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package local_test

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/takamaka/node/classfile"
	"github.com/takamaka/node/crypto"
	"github.com/takamaka/node/instrumenter"
	"github.com/takamaka/node/kv"
	"github.com/takamaka/node/node"
	"github.com/takamaka/node/node/local"
	"github.com/takamaka/node/request"
	"github.com/takamaka/node/response"
	"github.com/takamaka/node/runtime"
	"github.com/takamaka/node/state"
	"github.com/takamaka/node/store"
	"github.com/takamaka/node/takamaka"
	"github.com/takamaka/node/txpool"
	"github.com/takamaka/node/xenv"
)

var counterValue = takamaka.FieldSignature{DefiningClass: "org.example.Counter", Name: "value", Type: "int"}

func init() {
	runtime.RegisterNative("org.example.Counter", "<init>", 0, func(_ *xenv.Environment, receiver *state.Object, _ []takamaka.Value) (takamaka.Value, error) {
		receiver.Set(counterValue, takamaka.IntValue(0))
		return nil, nil
	})
	runtime.RegisterNative("org.example.Counter", "getValue", 0, func(_ *xenv.Environment, receiver *state.Object, _ []takamaka.Value) (takamaka.Value, error) {
		v, _ := receiver.Get(counterValue)
		return v, nil
	})
}

func testJar() *classfile.Jar {
	contract := &classfile.Class{
		Name: "io.takamaka.code.lang.Contract",
		Fields: []classfile.Field{
			{Name: "balance", Type: "java.math.BigInteger"},
			{Name: "balanceRed", Type: "java.math.BigInteger"},
		},
	}
	eoa := &classfile.Class{
		Name:  "io.takamaka.code.lang.ExternallyOwnedAccount",
		Super: contract.Name,
		Fields: []classfile.Field{
			{Name: "nonce", Type: "java.math.BigInteger"},
			{Name: "publicKey", Type: "java.lang.String"},
		},
	}
	gamete := &classfile.Class{Name: "io.takamaka.code.lang.Gamete", Super: eoa.Name}
	counter := &classfile.Class{
		Name:  "org.example.Counter",
		Super: contract.Name,
		Fields: []classfile.Field{
			{Name: "value", Type: "int"},
		},
		Constructors: []classfile.Method{
			{Name: "<init>", FromContract: true},
		},
		Methods: []classfile.Method{
			{Name: "getValue", ReturnType: "int", View: true},
		},
	}
	return &classfile.Jar{Classes: map[string]*classfile.Class{
		contract.Name: contract,
		eoa.Name:      eoa,
		gamete.Name:   gamete,
		counter.Name:  counter,
	}}
}

type fixture struct {
	t         *testing.T
	node      *local.Node
	classpath takamaka.Bytes32
	caller    takamaka.StorageRef
	signer    crypto.Signer
	priv      []byte
	chainID   string
	gasPrice  *big.Int
	nonce     *big.Int
}

func newFixture(t *testing.T) *fixture {
	st := store.New(kv.NewMem(), -1)
	consensus := runtime.Consensus{ChainID: "test-chain", Signature: crypto.SchemeEd25519Det, MaxGasPerView: 10_000_000}
	ctx := runtime.NewContext(st, consensus, instrumenter.DefaultCostModel())

	jarData, err := testJar().Encode()
	require.NoError(t, err)

	jarResult, err := runtime.Run(ctx, &request.JarStoreInitialRequest{Jar: jarData})
	require.NoError(t, err)
	require.Equal(t, runtime.Succeeded, jarResult.State)
	require.NoError(t, runtime.Apply(st, jarResult.TxRef, &request.JarStoreInitialRequest{Jar: jarData}, jarResult.Response))
	require.NoError(t, st.PutTakamakaCode(jarResult.TxRef))

	signer, err := crypto.ForScheme(crypto.SchemeEd25519Det)
	require.NoError(t, err)
	pub, priv, err := signer.GenerateKeyPair()
	require.NoError(t, err)

	gameteReq := &request.GameteCreationRequest{
		Classpath:        jarResult.TxRef,
		InitialSupply:    big.NewInt(1_000_000_000),
		InitialRedSupply: big.NewInt(0),
		PublicKey:        pub,
	}
	gameteResult, err := runtime.Run(ctx, gameteReq)
	require.NoError(t, err)
	require.Equal(t, runtime.Succeeded, gameteResult.State)
	require.NoError(t, runtime.Apply(st, gameteResult.TxRef, gameteReq, gameteResult.Response))
	gameteResp := gameteResult.Response.(*response.GameteCreationResponse)
	require.NoError(t, st.PutGamete(gameteResp.Gamete))
	require.NoError(t, st.PutManifest(gameteResp.Gamete))

	_, err = st.Commit()
	require.NoError(t, err)

	pool := txpool.New(txpool.Options{Limit: 100, LimitPerAccount: 100, MaxLifetime: time.Minute})
	n := local.New(ctx, pool)
	t.Cleanup(n.Close)

	return &fixture{
		t:         t,
		node:      n,
		classpath: jarResult.TxRef,
		caller:    gameteResp.Gamete,
		signer:    signer,
		priv:      priv,
		chainID:   "test-chain",
		gasPrice:  big.NewInt(1),
		nonce:     big.NewInt(0),
	}
}

func (fx *fixture) sign(req request.Request) []byte {
	sig, err := fx.signer.Sign(fx.priv, request.SigningBytes(req))
	require.NoError(fx.t, err)
	return sig
}

func (fx *fixture) buildCounter() takamaka.StorageRef {
	req := &request.ConstructorCallRequest{
		Common: request.Common{
			Caller:    fx.caller,
			Nonce:     new(big.Int).Set(fx.nonce),
			ChainID:   fx.chainID,
			GasLimit:  takamaka.GasMinimum,
			GasPrice:  fx.gasPrice,
			Classpath: fx.classpath,
		},
		Constructor: request.ConstructorSignature{DefiningClass: "org.example.Counter"},
	}
	req.Signature = fx.sign(req)
	fx.nonce.Add(fx.nonce, big.NewInt(1))

	outcome, err := fx.node.AddTransaction(req)
	require.NoError(fx.t, err)
	require.False(fx.t, outcome.Rejected, outcome.Reason)
	resp := outcome.Response.(*response.ConstructorCallSuccessfulResponse)
	return resp.NewObject
}

func TestGetTakamakaCodeManifestAndGamete(t *testing.T) {
	fx := newFixture(t)

	code, ok, err := fx.node.GetTakamakaCode()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, fx.classpath, code)

	manifest, ok, err := fx.node.GetManifest()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, fx.caller, manifest)
}

func TestAddConstructorThenGetStateAndClassTag(t *testing.T) {
	fx := newFixture(t)
	counter := fx.buildCounter()

	tag, ok, err := fx.node.GetClassTag(counter)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "org.example.Counter", tag.ClassName)

	updates, err := fx.node.GetState(counter)
	require.NoError(t, err)
	require.NotEmpty(t, updates)
}

func TestGetRequestAndResponseRoundTrip(t *testing.T) {
	fx := newFixture(t)
	counter := fx.buildCounter()

	txRef := counter.TxRef
	req, ok, err := fx.node.GetRequest(txRef)
	require.NoError(t, err)
	require.True(t, ok)
	require.IsType(t, &request.ConstructorCallRequest{}, req)

	resp, ok, err := fx.node.GetResponse(txRef)
	require.NoError(t, err)
	require.True(t, ok)
	require.IsType(t, &response.ConstructorCallSuccessfulResponse{}, resp)
}

func TestRunTransactionNeverCommits(t *testing.T) {
	fx := newFixture(t)
	counter := fx.buildCounter()

	before, err := fx.node.GetState(counter)
	require.NoError(t, err)

	req := &request.InstanceMethodCallRequest{
		Common: request.Common{
			Caller:    fx.caller,
			Nonce:     new(big.Int).Set(fx.nonce),
			ChainID:   fx.chainID,
			GasLimit:  takamaka.GasMinimum,
			GasPrice:  fx.gasPrice,
			Classpath: fx.classpath,
		},
		Receiver: counter,
		Method:   request.MethodSignature{DefiningClass: "org.example.Counter", Name: "getValue", Returns: "int"},
	}
	req.Signature = fx.sign(req)

	result, err := fx.node.RunTransaction(req)
	require.NoError(t, err)
	iv, ok := result.(takamaka.IntValue)
	require.True(t, ok)
	require.Equal(t, takamaka.IntValue(0), iv)

	after, err := fx.node.GetState(counter)
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestPostTransactionResolvesViaFuture(t *testing.T) {
	fx := newFixture(t)
	counter := fx.buildCounter()

	req := &request.InstanceMethodCallRequest{
		Common: request.Common{
			Caller:    fx.caller,
			Nonce:     new(big.Int).Set(fx.nonce),
			ChainID:   fx.chainID,
			GasLimit:  takamaka.GasMinimum,
			GasPrice:  fx.gasPrice,
			Classpath: fx.classpath,
		},
		Receiver: counter,
		Method:   request.MethodSignature{DefiningClass: "org.example.Counter", Name: "getValue", Returns: "int"},
	}
	req.Signature = fx.sign(req)

	future, err := fx.node.PostTransaction(req)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	outcome, err := future.Wait(ctx)
	require.NoError(t, err)
	require.False(t, outcome.Rejected, outcome.Reason)

	resp, err := fx.node.GetPolledResponse(ctx, outcome.TxRef, time.Second)
	require.NoError(t, err)
	require.NotNil(t, resp)
}

var _ node.Node = (*local.Node)(nil)
