// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/takamaka/node/classfile"
	"github.com/takamaka/node/crypto"
	"github.com/takamaka/node/instrumenter"
	"github.com/takamaka/node/kv"
	"github.com/takamaka/node/request"
	"github.com/takamaka/node/response"
	"github.com/takamaka/node/runtime"
	"github.com/takamaka/node/state"
	"github.com/takamaka/node/store"
	"github.com/takamaka/node/takamaka"
	"github.com/takamaka/node/xenv"
)

// valueField is org.example.Counter's only declared field, shared between
// the native bodies registered below and the test assertions that read it
// back out of a response's update list.
var valueField = takamaka.FieldSignature{DefiningClass: "org.example.Counter", Name: "value", Type: "int"}

func init() {
	runtime.RegisterNative("org.example.Counter", "<init>", 0, func(_ *xenv.Environment, receiver *state.Object, _ []takamaka.Value) (takamaka.Value, error) {
		receiver.Set(valueField, takamaka.IntValue(0))
		return nil, nil
	})
	runtime.RegisterNative("org.example.Counter", "increment", 0, func(_ *xenv.Environment, receiver *state.Object, _ []takamaka.Value) (takamaka.Value, error) {
		v, _ := receiver.Get(valueField)
		iv, _ := v.(takamaka.IntValue)
		receiver.Set(valueField, iv+1)
		return nil, nil
	})
	runtime.RegisterNative("org.example.Counter", "getValue", 0, func(_ *xenv.Environment, receiver *state.Object, _ []takamaka.Value) (takamaka.Value, error) {
		v, _ := receiver.Get(valueField)
		return v, nil
	})
	runtime.RegisterNative("org.example.Counter", "badView", 0, func(_ *xenv.Environment, receiver *state.Object, _ []takamaka.Value) (takamaka.Value, error) {
		v, _ := receiver.Get(valueField)
		iv, _ := v.(takamaka.IntValue)
		receiver.Set(valueField, iv+1)
		return nil, nil
	})
	runtime.RegisterNative("org.example.Counter", "pay", 1, func(_ *xenv.Environment, _ *state.Object, _ []takamaka.Value) (takamaka.Value, error) {
		return nil, nil
	})
	runtime.RegisterNative("org.example.Counter", "fail", 0, func(_ *xenv.Environment, _ *state.Object, _ []takamaka.Value) (takamaka.Value, error) {
		return nil, &runtime.DeclaredException{ClassName: "org.example.InsufficientFundsException", Message: "not enough funds", Where: "org.example.Counter.fail"}
	})
	runtime.RegisterNative("org.example.Counter", "failUndeclared", 0, func(_ *xenv.Environment, _ *state.Object, _ []takamaka.Value) (takamaka.Value, error) {
		return nil, &runtime.DeclaredException{ClassName: "org.example.InsufficientFundsException", Message: "not enough funds", Where: "org.example.Counter.failUndeclared"}
	})
	runtime.RegisterNative("org.example.Counter", "count", 0, func(_ *xenv.Environment, _ *state.Object, _ []takamaka.Value) (takamaka.Value, error) {
		return takamaka.IntValue(42), nil
	})
}

// fixture bundles a fresh in-memory store, a single installed jar and the
// signer every non-initial request in a test signs with.
type fixture struct {
	t         *testing.T
	ctx       *runtime.Context
	store     *store.Store
	classpath takamaka.Bytes32
	signer    crypto.Signer
	priv      []byte
	pub       []byte
	chainID   string
	gasPrice  *big.Int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st := store.New(kv.NewMem(), -1)
	consensus := runtime.Consensus{ChainID: "test-chain", Signature: crypto.SchemeEd25519Det}
	ctx := runtime.NewContext(st, consensus, instrumenter.DefaultCostModel())

	signer, err := crypto.ForScheme(crypto.SchemeEd25519Det)
	require.NoError(t, err)
	pub, priv, err := signer.GenerateKeyPair()
	require.NoError(t, err)

	jar := testJar()
	encoded, err := jar.Encode()
	require.NoError(t, err)

	result, err := runtime.Run(ctx, &request.JarStoreInitialRequest{Jar: encoded})
	require.NoError(t, err)
	require.Equal(t, runtime.Succeeded, result.State)
	require.NoError(t, runtime.Apply(st, result.TxRef, &request.JarStoreInitialRequest{Jar: encoded}, result.Response))
	_, err = st.Commit()
	require.NoError(t, err)

	return &fixture{
		t: t, ctx: ctx, store: st, classpath: result.TxRef,
		signer: signer, priv: priv, pub: pub,
		chainID: "test-chain", gasPrice: big.NewInt(1),
	}
}

// testJar declares the small runtime class hierarchy every test transacts
// against: Contract/ExternallyOwnedAccount/Gamete mirror the fields
// runtime/fields.go reads during admission and gamete creation, and
// org.example.Counter exercises constructor calls, instance and static
// method calls, declared exceptions and out-of-gas failure.
func testJar() *classfile.Jar {
	contract := &classfile.Class{
		Name: "io.takamaka.code.lang.Contract",
		Fields: []classfile.Field{
			{Name: "balance", Type: "java.math.BigInteger"},
			{Name: "balanceRed", Type: "java.math.BigInteger"},
		},
		Methods: []classfile.Method{
			{Name: "receive", ParamTypes: []string{"java.math.BigInteger"}, Payable: true, FromContract: true},
		},
	}
	eoa := &classfile.Class{
		Name:  "io.takamaka.code.lang.ExternallyOwnedAccount",
		Super: "io.takamaka.code.lang.Contract",
		Fields: []classfile.Field{
			{Name: "nonce", Type: "java.math.BigInteger"},
			{Name: "publicKey", Type: "java.lang.String"},
		},
	}
	gamete := &classfile.Class{
		Name:  "io.takamaka.code.lang.Gamete",
		Super: "io.takamaka.code.lang.ExternallyOwnedAccount",
	}
	counter := &classfile.Class{
		Name:  "org.example.Counter",
		Super: "io.takamaka.code.lang.Contract",
		Fields: []classfile.Field{
			{Name: "value", Type: "int"},
		},
		Constructors: []classfile.Method{
			{Name: "<init>", FromContract: true},
		},
		Methods: []classfile.Method{
			{Name: "increment"},
			{Name: "getValue", ReturnType: "int", View: true},
			{Name: "badView", View: true},
			{Name: "pay", ParamTypes: []string{"java.math.BigInteger"}, Payable: true, FromContract: true},
			{Name: "fail", ThrowsExceptions: true},
			{Name: "failUndeclared"},
			{Name: "count", Static: true, ReturnType: "int"},
			{Name: "heavy", Body: []classfile.Instruction{{Op: classfile.OpOther, Cost: 50_000}}},
		},
	}
	return &classfile.Jar{Classes: map[string]*classfile.Class{
		contract.Name: contract,
		eoa.Name:      eoa,
		gamete.Name:   gamete,
		counter.Name:  counter,
	}}
}

// newAccount runs a GameteCreationRequest and returns its storage reference
// together with a fresh, independently-owned nonce counter.
func (fx *fixture) newAccount(supply int64) (takamaka.StorageRef, *big.Int) {
	req := &request.GameteCreationRequest{
		Classpath: fx.classpath, InitialSupply: big.NewInt(supply), InitialRedSupply: big.NewInt(0), PublicKey: fx.pub,
	}
	result := fx.run(req)
	require.Equal(fx.t, runtime.Succeeded, result.State)
	gc, ok := result.Response.(*response.GameteCreationResponse)
	require.True(fx.t, ok)
	return gc.Gamete, big.NewInt(0)
}

// sign renders req's signature over its canonical, signature-less payload.
func (fx *fixture) sign(req request.Request) []byte {
	sig, err := fx.signer.Sign(fx.priv, request.SigningBytes(req))
	require.NoError(fx.t, err)
	return sig
}

// run executes req and, unless rejected, stages and commits its outcome —
// mirroring what a node does with every non-initial Run result.
func (fx *fixture) run(req request.Request) *runtime.Result {
	fx.t.Helper()
	result, err := runtime.Run(fx.ctx, req)
	require.NoError(fx.t, err)
	if result.State != runtime.Rejected {
		require.NoError(fx.t, runtime.Apply(fx.store, result.TxRef, req, result.Response))
		_, err = fx.store.Commit()
		require.NoError(fx.t, err)
	}
	return result
}

func TestJarStoreInitialAndGameteCreation(t *testing.T) {
	fx := newFixture(t)
	gamete, _ := fx.newAccount(1_000_000)
	require.False(t, gamete.TxRef.IsZero())
}

func TestJarStoreNonInitial(t *testing.T) {
	fx := newFixture(t)
	gamete, nonce := fx.newAccount(1_000_000)

	req := &request.JarStoreRequest{
		Common: request.Common{
			Caller: gamete, Nonce: new(big.Int).Set(nonce), ChainID: fx.chainID,
			GasLimit: takamaka.GasMinimum, GasPrice: fx.gasPrice, Classpath: fx.classpath,
		},
		Jar: mustEncode(t, &classfile.Jar{Classes: map[string]*classfile.Class{}}),
	}
	req.Signature = fx.sign(req)

	result := fx.run(req)
	require.Equal(t, runtime.Succeeded, result.State)
	resp, ok := result.Response.(*response.JarStoreSuccessfulResponse)
	require.True(t, ok)
	require.NotEmpty(t, resp.InstrumentedJar)
}

func TestConstructorCallAllocatesObject(t *testing.T) {
	fx := newFixture(t)
	gamete, nonce := fx.newAccount(1_000_000)

	req := &request.ConstructorCallRequest{
		Common: request.Common{
			Caller: gamete, Nonce: new(big.Int).Set(nonce), ChainID: fx.chainID,
			GasLimit: takamaka.GasMinimum, GasPrice: fx.gasPrice, Classpath: fx.classpath,
		},
		Constructor: request.ConstructorSignature{DefiningClass: "org.example.Counter"},
	}
	req.Signature = fx.sign(req)

	result := fx.run(req)
	require.Equal(t, runtime.Succeeded, result.State)
	resp, ok := result.Response.(*response.ConstructorCallSuccessfulResponse)
	require.True(t, ok)
	require.False(t, resp.NewObject.TxRef.IsZero())

	var sawClassTag, sawValue bool
	for _, u := range resp.UpdatesList {
		if ct, isTag := u.(takamaka.ClassTagUpdate); isTag {
			sawClassTag = true
			require.Equal(t, "org.example.Counter", ct.Tag.ClassName)
		}
		if pu, isPrim := u.(takamaka.PrimitiveUpdate); isPrim && pu.Fld == valueField {
			sawValue = true
			require.Equal(t, takamaka.IntValue(0), pu.Value)
		}
	}
	require.True(t, sawClassTag, "expected a ClassTagUpdate for the newly allocated object")
	require.True(t, sawValue, "expected the constructor's native body to have set value=0")
}

func TestInstanceMethodCallIncrementsAcrossTransactions(t *testing.T) {
	fx := newFixture(t)
	gamete, nonce := fx.newAccount(1_000_000)

	counter := fx.buildCounter(gamete, nonce)

	incReq := &request.InstanceMethodCallRequest{
		Common: request.Common{
			Caller: gamete, Nonce: new(big.Int).Set(nonce), ChainID: fx.chainID,
			GasLimit: takamaka.GasMinimum, GasPrice: fx.gasPrice, Classpath: fx.classpath,
		},
		Receiver: counter,
		Method:   request.MethodSignature{DefiningClass: "org.example.Counter", Name: "increment"},
	}
	incReq.Signature = fx.sign(incReq)
	result := fx.run(incReq)
	require.Equal(t, runtime.Succeeded, result.State)
	nonce.Add(nonce, big.NewInt(1))

	getReq := &request.InstanceMethodCallRequest{
		Common: request.Common{
			Caller: gamete, Nonce: new(big.Int).Set(nonce), ChainID: fx.chainID,
			GasLimit: takamaka.GasMinimum, GasPrice: fx.gasPrice, Classpath: fx.classpath,
		},
		Receiver: counter,
		Method:   request.MethodSignature{DefiningClass: "org.example.Counter", Name: "getValue", Returns: "int"},
	}
	getReq.Signature = fx.sign(getReq)
	result = fx.run(getReq)
	require.Equal(t, runtime.Succeeded, result.State)
	resp, ok := result.Response.(*response.MethodCallSuccessfulResponse)
	require.True(t, ok)
	require.Equal(t, takamaka.IntValue(1), resp.Result)
}

func TestStaticMethodCall(t *testing.T) {
	fx := newFixture(t)
	gamete, nonce := fx.newAccount(1_000_000)

	req := &request.StaticMethodCallRequest{
		Common: request.Common{
			Caller: gamete, Nonce: new(big.Int).Set(nonce), ChainID: fx.chainID,
			GasLimit: takamaka.GasMinimum, GasPrice: fx.gasPrice, Classpath: fx.classpath,
		},
		Method: request.MethodSignature{DefiningClass: "org.example.Counter", Name: "count", Returns: "int"},
	}
	req.Signature = fx.sign(req)

	result := fx.run(req)
	require.Equal(t, runtime.Succeeded, result.State)
	resp, ok := result.Response.(*response.MethodCallSuccessfulResponse)
	require.True(t, ok)
	require.Equal(t, takamaka.IntValue(42), resp.Result)
}

func TestDeclaredExceptionIsASuccessfulOutcome(t *testing.T) {
	fx := newFixture(t)
	gamete, nonce := fx.newAccount(1_000_000)
	counter := fx.buildCounter(gamete, nonce)

	req := &request.InstanceMethodCallRequest{
		Common: request.Common{
			Caller: gamete, Nonce: new(big.Int).Set(nonce), ChainID: fx.chainID,
			GasLimit: takamaka.GasMinimum, GasPrice: fx.gasPrice, Classpath: fx.classpath,
		},
		Receiver: counter,
		Method:   request.MethodSignature{DefiningClass: "org.example.Counter", Name: "fail"},
	}
	req.Signature = fx.sign(req)

	result := fx.run(req)
	require.Equal(t, runtime.Succeeded, result.State)
	resp, ok := result.Response.(*response.MethodCallExceptionResponse)
	require.True(t, ok)
	require.Equal(t, "org.example.InsufficientFundsException", resp.Exception.ClassNameOfCause)
}

func TestUndeclaredExceptionIsAFailure(t *testing.T) {
	fx := newFixture(t)
	gamete, nonce := fx.newAccount(1_000_000)
	counter := fx.buildCounter(gamete, nonce)

	req := &request.InstanceMethodCallRequest{
		Common: request.Common{
			Caller: gamete, Nonce: new(big.Int).Set(nonce), ChainID: fx.chainID,
			GasLimit: takamaka.GasMinimum, GasPrice: fx.gasPrice, Classpath: fx.classpath,
		},
		Receiver: counter,
		Method:   request.MethodSignature{DefiningClass: "org.example.Counter", Name: "failUndeclared"},
	}
	req.Signature = fx.sign(req)

	result := fx.run(req)
	require.Equal(t, runtime.Failed, result.State)
	resp, ok := result.Response.(*response.MethodCallFailedResponse)
	require.True(t, ok)
	require.Equal(t, "org.example.InsufficientFundsException", resp.Cause.ClassNameOfCause)
	assertCallerOnlyUpdates(t, resp.UpdatesList, gamete)
}

func TestOutOfGasKeepsOnlyCallerUpdates(t *testing.T) {
	fx := newFixture(t)
	gamete, nonce := fx.newAccount(1_000_000)
	counter := fx.buildCounter(gamete, nonce)

	req := &request.InstanceMethodCallRequest{
		Common: request.Common{
			Caller: gamete, Nonce: new(big.Int).Set(nonce), ChainID: fx.chainID,
			GasLimit: takamaka.GasMinimum, GasPrice: fx.gasPrice, Classpath: fx.classpath,
		},
		Receiver: counter,
		Method:   request.MethodSignature{DefiningClass: "org.example.Counter", Name: "heavy"},
	}
	req.Signature = fx.sign(req)

	result := fx.run(req)
	require.Equal(t, runtime.Failed, result.State)
	resp, ok := result.Response.(*response.MethodCallFailedResponse)
	require.True(t, ok)
	require.Equal(t, "io.takamaka.code.engine.OutOfGasError", resp.Cause.ClassNameOfCause)
	assertCallerOnlyUpdates(t, resp.UpdatesList, gamete)
	require.Equal(t, 0, resp.Gas.Penalty.Cmp(big.NewInt(int64(takamaka.GasMinimum))))
}

func TestViewMethodSideEffectIsRejectedAsFailure(t *testing.T) {
	fx := newFixture(t)
	gamete, nonce := fx.newAccount(1_000_000)
	counter := fx.buildCounter(gamete, nonce)

	req := &request.InstanceMethodCallRequest{
		Common: request.Common{
			Caller: gamete, Nonce: new(big.Int).Set(nonce), ChainID: fx.chainID,
			GasLimit: takamaka.GasMinimum, GasPrice: fx.gasPrice, Classpath: fx.classpath,
		},
		Receiver: counter,
		Method:   request.MethodSignature{DefiningClass: "org.example.Counter", Name: "badView"},
	}
	req.Signature = fx.sign(req)

	result := fx.run(req)
	require.Equal(t, runtime.Failed, result.State)
	resp, ok := result.Response.(*response.MethodCallFailedResponse)
	require.True(t, ok)
	require.Contains(t, resp.Cause.Message, "side effects")
}

func TestMaxGasPerViewRejectsAnOversizedViewCall(t *testing.T) {
	fx := newFixture(t)
	fx.ctx.Consensus.MaxGasPerView = takamaka.GasMinimum
	gamete, nonce := fx.newAccount(1_000_000)
	counter := fx.buildCounter(gamete, nonce)

	req := &request.InstanceMethodCallRequest{
		Common: request.Common{
			Caller: gamete, Nonce: new(big.Int).Set(nonce), ChainID: fx.chainID,
			GasLimit: takamaka.GasMinimum * 2, GasPrice: fx.gasPrice, Classpath: fx.classpath,
		},
		Receiver: counter,
		Method:   request.MethodSignature{DefiningClass: "org.example.Counter", Name: "getValue", Returns: "int"},
	}
	req.Signature = fx.sign(req)

	result := fx.run(req)
	require.Equal(t, runtime.Rejected, result.State)
	require.Nil(t, result.Response)
	require.Contains(t, result.Reason, "consensus maximum")
}

func TestTransferRequestRoundTrip(t *testing.T) {
	fx := newFixture(t)
	sender, nonce := fx.newAccount(1_000_000)
	receiver, _ := fx.newAccount(0)

	req := &request.TransferRequest{
		Caller: sender, Receiver: receiver, Nonce: new(big.Int).Set(nonce),
		ChainID: fx.chainID, GasPrice: fx.gasPrice, Classpath: fx.classpath,
		Amount: big.NewInt(500),
	}
	req.Signature = fx.sign(req)

	result := fx.run(req)
	require.Equal(t, runtime.Succeeded, result.State)
	resp, ok := result.Response.(*response.VoidMethodCallSuccessfulResponse)
	require.True(t, ok)

	var sawReceiverCredit bool
	for _, u := range resp.UpdatesList {
		if bal, isBal := u.(takamaka.UpdateOfBalance); isBal && bal.Obj == receiver {
			sawReceiverCredit = true
			require.Equal(t, 0, bal.Balance.Cmp(big.NewInt(500)))
		}
	}
	require.True(t, sawReceiverCredit, "expected the receiver's balance update to be committed")
}

func TestTransferRequestRejectsNegativeAmount(t *testing.T) {
	fx := newFixture(t)
	sender, nonce := fx.newAccount(1_000_000)
	receiver, _ := fx.newAccount(0)

	req := &request.TransferRequest{
		Caller: sender, Receiver: receiver, Nonce: new(big.Int).Set(nonce),
		ChainID: fx.chainID, GasPrice: fx.gasPrice, Classpath: fx.classpath,
		Amount: big.NewInt(-500),
	}
	req.Signature = fx.sign(req)

	result := fx.run(req)
	require.Equal(t, runtime.Rejected, result.State)
	require.Nil(t, result.Response, "a rejected negative transfer must not touch the receiver")
	require.True(t, result.TxRef.IsZero())
	require.Contains(t, result.Reason, "negative")
}

func TestGameteCreationRejectsNegativeInitialSupply(t *testing.T) {
	fx := newFixture(t)

	req := &request.GameteCreationRequest{
		Classpath: fx.classpath, InitialSupply: big.NewInt(-1), InitialRedSupply: big.NewInt(0), PublicKey: fx.pub,
	}
	result, err := runtime.Run(fx.ctx, req)
	require.NoError(t, err)
	require.Equal(t, runtime.Rejected, result.State)
}

func TestAdmissionRejectsUnknownClasspath(t *testing.T) {
	fx := newFixture(t)
	gamete, nonce := fx.newAccount(1_000_000)

	req := &request.ConstructorCallRequest{
		Common: request.Common{
			Caller: gamete, Nonce: new(big.Int).Set(nonce), ChainID: fx.chainID,
			GasLimit: takamaka.GasMinimum, GasPrice: fx.gasPrice, Classpath: takamaka.MustParseBytes32("0xdeadbeef"),
		},
		Constructor: request.ConstructorSignature{DefiningClass: "org.example.Counter"},
	}
	req.Signature = fx.sign(req)

	result := fx.run(req)
	require.Equal(t, runtime.Rejected, result.State)
	require.NotEmpty(t, result.Reason)
}

func TestAdmissionRejectsBadNonce(t *testing.T) {
	fx := newFixture(t)
	gamete, nonce := fx.newAccount(1_000_000)

	req := &request.ConstructorCallRequest{
		Common: request.Common{
			Caller: gamete, Nonce: new(big.Int).Add(nonce, big.NewInt(7)), ChainID: fx.chainID,
			GasLimit: takamaka.GasMinimum, GasPrice: fx.gasPrice, Classpath: fx.classpath,
		},
		Constructor: request.ConstructorSignature{DefiningClass: "org.example.Counter"},
	}
	req.Signature = fx.sign(req)

	result := fx.run(req)
	require.Equal(t, runtime.Rejected, result.State)
}

func TestAdmissionRejectsBadSignature(t *testing.T) {
	fx := newFixture(t)
	gamete, nonce := fx.newAccount(1_000_000)

	req := &request.ConstructorCallRequest{
		Common: request.Common{
			Caller: gamete, Nonce: new(big.Int).Set(nonce), ChainID: fx.chainID,
			GasLimit: takamaka.GasMinimum, GasPrice: fx.gasPrice, Classpath: fx.classpath,
		},
		Constructor: request.ConstructorSignature{DefiningClass: "org.example.Counter"},
	}
	req.Signature = fx.sign(req)
	req.Signature[0] ^= 0xff

	result := fx.run(req)
	require.Equal(t, runtime.Rejected, result.State)
}

func TestAdmissionRejectsGasLimitBelowMinimum(t *testing.T) {
	fx := newFixture(t)
	gamete, nonce := fx.newAccount(1_000_000)

	req := &request.ConstructorCallRequest{
		Common: request.Common{
			Caller: gamete, Nonce: new(big.Int).Set(nonce), ChainID: fx.chainID,
			GasLimit: takamaka.GasMinimum - 1, GasPrice: fx.gasPrice, Classpath: fx.classpath,
		},
		Constructor: request.ConstructorSignature{DefiningClass: "org.example.Counter"},
	}
	req.Signature = fx.sign(req)

	result := fx.run(req)
	require.Equal(t, runtime.Rejected, result.State)
}

// buildCounter runs a constructor call for org.example.Counter and bumps
// nonce, returning the new object's storage reference.
func (fx *fixture) buildCounter(gamete takamaka.StorageRef, nonce *big.Int) takamaka.StorageRef {
	req := &request.ConstructorCallRequest{
		Common: request.Common{
			Caller: gamete, Nonce: new(big.Int).Set(nonce), ChainID: fx.chainID,
			GasLimit: takamaka.GasMinimum, GasPrice: fx.gasPrice, Classpath: fx.classpath,
		},
		Constructor: request.ConstructorSignature{DefiningClass: "org.example.Counter"},
	}
	req.Signature = fx.sign(req)
	result := fx.run(req)
	require.Equal(fx.t, runtime.Succeeded, result.State)
	nonce.Add(nonce, big.NewInt(1))
	return result.Response.(*response.ConstructorCallSuccessfulResponse).NewObject
}

// assertCallerOnlyUpdates checks that updates touches only caller's own
// balance and nonce fields, the shape every failure-branch response commits.
func assertCallerOnlyUpdates(t *testing.T, updates []takamaka.Update, caller takamaka.StorageRef) {
	t.Helper()
	require.Len(t, updates, 2)
	for _, u := range updates {
		require.Equal(t, caller, u.Object())
	}
}

func mustEncode(t *testing.T, jar *classfile.Jar) []byte {
	t.Helper()
	data, err := jar.Encode()
	require.NoError(t, err)
	return data
}
