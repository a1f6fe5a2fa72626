// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package request

import (
	"math/big"

	"github.com/takamaka/node/marshal"
	"github.com/takamaka/node/takamaka"
)

func writeMethodSignature(w *marshal.Writer, m MethodSignature) {
	w.String(m.DefiningClass)
	w.String(m.Name)
	w.CompactInt(len(m.Params))
	for _, p := range m.Params {
		w.String(p)
	}
	w.Bool(m.Returns != "")
	if m.Returns != "" {
		w.String(m.Returns)
	}
}

func readMethodSignature(r *marshal.Reader) MethodSignature {
	class := r.String()
	name := r.String()
	n := r.CompactInt()
	params := make([]string, n)
	for i := range params {
		params[i] = r.String()
	}
	var returns string
	if r.Bool() {
		returns = r.String()
	}
	return MethodSignature{DefiningClass: class, Name: name, Params: params, Returns: returns}
}

func writeConstructorSignature(w *marshal.Writer, c ConstructorSignature) {
	w.String(c.DefiningClass)
	w.CompactInt(len(c.Params))
	for _, p := range c.Params {
		w.String(p)
	}
}

func readConstructorSignature(r *marshal.Reader) ConstructorSignature {
	class := r.String()
	n := r.CompactInt()
	params := make([]string, n)
	for i := range params {
		params[i] = r.String()
	}
	return ConstructorSignature{DefiningClass: class, Params: params}
}

func writeActuals(w *marshal.Writer, actuals []takamaka.Value) {
	w.CompactInt(len(actuals))
	for _, a := range actuals {
		w.WriteValue(a)
	}
}

func readActuals(r *marshal.Reader) []takamaka.Value {
	n := r.CompactInt()
	out := make([]takamaka.Value, n)
	for i := range out {
		out[i] = r.ReadValue()
	}
	return out
}

// --- Initial requests (no caller, no signature) ---

// JarStoreInitialRequest installs the very first jar(s) of a node (the
// Takamaka runtime classes themselves).
type JarStoreInitialRequest struct {
	Jar []byte
}

func (r *JarStoreInitialRequest) Kind() Kind { return KindJarStoreInitial }
func (req *JarStoreInitialRequest) Into(w *marshal.Writer) {
	w.Byte(marshal.SelectorRequestJarStoreInitial)
	w.LengthPrefixedBytes(req.Jar)
}
func (req *JarStoreInitialRequest) IntoWithoutSignature(w *marshal.Writer) { req.Into(w) }

// GameteCreationRequest is the initial transaction creating the gamete.
type GameteCreationRequest struct {
	Classpath        takamaka.Bytes32
	InitialSupply    *big.Int
	InitialRedSupply *big.Int
	PublicKey        []byte
}

func (r *GameteCreationRequest) Kind() Kind { return KindGameteCreation }
func (req *GameteCreationRequest) Into(w *marshal.Writer) {
	w.Byte(marshal.SelectorRequestGameteCreation)
	w.Bytes(req.Classpath.Bytes())
	w.BigInteger(req.InitialSupply)
	w.BigInteger(req.InitialRedSupply)
	w.LengthPrefixedBytes(req.PublicKey)
}
func (req *GameteCreationRequest) IntoWithoutSignature(w *marshal.Writer) { req.Into(w) }

// InitializationRequest records that the node is initialized; it may run
// at most once (§3 lifecycles).
type InitializationRequest struct {
	Classpath takamaka.Bytes32
	Manifest  takamaka.StorageRef
}

func (r *InitializationRequest) Kind() Kind { return KindInitialization }
func (req *InitializationRequest) Into(w *marshal.Writer) {
	w.Byte(marshal.SelectorRequestInitialization)
	w.Bytes(req.Classpath.Bytes())
	w.WriteStorageRefWithoutSelector(req.Manifest)
}
func (req *InitializationRequest) IntoWithoutSignature(w *marshal.Writer) { req.Into(w) }

// --- Non-initial requests ---

// JarStoreRequest installs a jar, signed by an already-funded account.
type JarStoreRequest struct {
	Common
	Jar []byte
}

func (r *JarStoreRequest) Kind() Kind { return KindJarStore }
func (req *JarStoreRequest) IntoWithoutSignature(w *marshal.Writer) {
	w.Byte(marshal.SelectorRequestJarStore)
	req.writeCommonWithoutSignature(w)
	w.LengthPrefixedBytes(req.Jar)
}
func (req *JarStoreRequest) Into(w *marshal.Writer) {
	req.IntoWithoutSignature(w)
	w.LengthPrefixedBytes(req.Signature)
}

// ConstructorCallRequest invokes a constructor of a storage class.
type ConstructorCallRequest struct {
	Common
	Constructor ConstructorSignature
	Actuals     []takamaka.Value
}

func (r *ConstructorCallRequest) Kind() Kind { return KindConstructorCall }
func (req *ConstructorCallRequest) IntoWithoutSignature(w *marshal.Writer) {
	w.Byte(marshal.SelectorRequestConstructorCall)
	req.writeCommonWithoutSignature(w)
	writeConstructorSignature(w, req.Constructor)
	writeActuals(w, req.Actuals)
}
func (req *ConstructorCallRequest) Into(w *marshal.Writer) {
	req.IntoWithoutSignature(w)
	w.LengthPrefixedBytes(req.Signature)
}

// InstanceMethodCallRequest invokes an instance method on a receiver.
type InstanceMethodCallRequest struct {
	Common
	Receiver takamaka.StorageRef
	Method   MethodSignature
	Actuals  []takamaka.Value
}

func (r *InstanceMethodCallRequest) Kind() Kind { return KindInstanceMethodCall }
func (req *InstanceMethodCallRequest) IntoWithoutSignature(w *marshal.Writer) {
	w.Byte(marshal.SelectorRequestInstanceMethodCall)
	req.writeCommonWithoutSignature(w)
	w.WriteStorageRefWithoutSelector(req.Receiver)
	writeMethodSignature(w, req.Method)
	writeActuals(w, req.Actuals)
}
func (req *InstanceMethodCallRequest) Into(w *marshal.Writer) {
	req.IntoWithoutSignature(w)
	w.LengthPrefixedBytes(req.Signature)
}

// StaticMethodCallRequest invokes a static method.
type StaticMethodCallRequest struct {
	Common
	Method  MethodSignature
	Actuals []takamaka.Value
}

func (r *StaticMethodCallRequest) Kind() Kind { return KindStaticMethodCall }
func (req *StaticMethodCallRequest) IntoWithoutSignature(w *marshal.Writer) {
	w.Byte(marshal.SelectorRequestStaticMethodCall)
	req.writeCommonWithoutSignature(w)
	writeMethodSignature(w, req.Method)
	writeActuals(w, req.Actuals)
}
func (req *StaticMethodCallRequest) Into(w *marshal.Writer) {
	req.IntoWithoutSignature(w)
	w.LengthPrefixedBytes(req.Signature)
}

// TransferRequest is the compact form of an instance method call invoking
// the implicit `receive(T)` method, per §4.A. It elides the method
// signature and fixes the gas limit at takamaka.GasTransfer.
type TransferRequest struct {
	Caller    takamaka.StorageRef
	Receiver  takamaka.StorageRef
	Nonce     *big.Int
	ChainID   string
	GasPrice  *big.Int
	Classpath takamaka.Bytes32
	Signature []byte
	Amount    *big.Int
}

func (r *TransferRequest) Kind() Kind { return KindTransfer }

// amountSelector picks 7/8/9 depending on the minimal width the amount
// fits in, per spec.md §4.A and the worked example in §8 scenario 2.
func (req *TransferRequest) amountSelector() byte {
	if req.Amount.IsInt64() {
		v := req.Amount.Int64()
		if v >= -(1<<31) && v < (1<<31) {
			return marshal.SelectorRequestTransferInt
		}
		return marshal.SelectorRequestTransferLong
	}
	return marshal.SelectorRequestTransferBigInt
}

func (req *TransferRequest) IntoWithoutSignature(w *marshal.Writer) {
	sel := req.amountSelector()
	w.Byte(sel)
	w.WriteStorageRefWithoutSelector(req.Caller)
	w.BigInteger(req.Nonce)
	w.String(req.ChainID)
	w.BigInteger(req.GasPrice)
	w.Bytes(req.Classpath.Bytes())
	w.WriteStorageRefWithoutSelector(req.Receiver)
	switch sel {
	case marshal.SelectorRequestTransferInt:
		w.Int32(int32(req.Amount.Int64()))
	case marshal.SelectorRequestTransferLong:
		w.Int64(req.Amount.Int64())
	default:
		w.BigInteger(req.Amount)
	}
}
func (req *TransferRequest) Into(w *marshal.Writer) {
	req.IntoWithoutSignature(w)
	w.LengthPrefixedBytes(req.Signature)
}

// GasLimit is fixed for the compact transfer form.
func (req *TransferRequest) GasLimit() uint64 { return takamaka.GasTransfer }

// AsInstanceMethodCall expands the compact transfer form into the general
// InstanceMethodCallRequest shape the runtime builders operate on, so that
// only one code path needs to implement method-call semantics.
func (req *TransferRequest) AsInstanceMethodCall() *InstanceMethodCallRequest {
	return &InstanceMethodCallRequest{
		Common: Common{
			Caller:    req.Caller,
			Nonce:     req.Nonce,
			ChainID:   req.ChainID,
			GasLimit:  takamaka.GasTransfer,
			GasPrice:  req.GasPrice,
			Classpath: req.Classpath,
			Signature: req.Signature,
		},
		Receiver: req.Receiver,
		Method: MethodSignature{
			DefiningClass: "io.takamaka.code.lang.Contract",
			Name:          "receive",
			Params:        []string{"java.math.BigInteger"},
		},
		Actuals: []takamaka.Value{takamaka.NewBigIntegerValue(req.Amount)},
	}
}

func decodeBySelector(sel int, r *marshal.Reader) Request {
	switch sel {
	case marshal.SelectorRequestJarStoreInitial:
		return &JarStoreInitialRequest{Jar: r.LengthPrefixedBytes()}
	case marshal.SelectorRequestGameteCreation:
		var cp takamaka.Bytes32
		copy(cp[:], r.Bytes(32))
		supply := r.BigInteger()
		red := r.BigInteger()
		pk := r.LengthPrefixedBytes()
		return &GameteCreationRequest{Classpath: cp, InitialSupply: supply, InitialRedSupply: red, PublicKey: pk}
	case marshal.SelectorRequestInitialization:
		var cp takamaka.Bytes32
		copy(cp[:], r.Bytes(32))
		manifest := r.ReadStorageRefWithoutSelector()
		return &InitializationRequest{Classpath: cp, Manifest: manifest}
	case marshal.SelectorRequestJarStore:
		common := readCommonWithoutSignature(r)
		jar := r.LengthPrefixedBytes()
		common.Signature = r.LengthPrefixedBytes()
		return &JarStoreRequest{Common: common, Jar: jar}
	case marshal.SelectorRequestConstructorCall:
		common := readCommonWithoutSignature(r)
		ctor := readConstructorSignature(r)
		actuals := readActuals(r)
		common.Signature = r.LengthPrefixedBytes()
		return &ConstructorCallRequest{Common: common, Constructor: ctor, Actuals: actuals}
	case marshal.SelectorRequestInstanceMethodCall:
		common := readCommonWithoutSignature(r)
		receiver := r.ReadStorageRefWithoutSelector()
		method := readMethodSignature(r)
		actuals := readActuals(r)
		common.Signature = r.LengthPrefixedBytes()
		return &InstanceMethodCallRequest{Common: common, Receiver: receiver, Method: method, Actuals: actuals}
	case marshal.SelectorRequestStaticMethodCall:
		common := readCommonWithoutSignature(r)
		method := readMethodSignature(r)
		actuals := readActuals(r)
		common.Signature = r.LengthPrefixedBytes()
		return &StaticMethodCallRequest{Common: common, Method: method, Actuals: actuals}
	case marshal.SelectorRequestTransferInt, marshal.SelectorRequestTransferLong, marshal.SelectorRequestTransferBigInt:
		caller := r.ReadStorageRefWithoutSelector()
		nonce := r.BigInteger()
		chainID := r.String()
		gasPrice := r.BigInteger()
		var cp takamaka.Bytes32
		copy(cp[:], r.Bytes(32))
		receiver := r.ReadStorageRefWithoutSelector()
		var amount *big.Int
		switch sel {
		case marshal.SelectorRequestTransferInt:
			amount = big.NewInt(int64(r.Int32()))
		case marshal.SelectorRequestTransferLong:
			amount = big.NewInt(r.Int64())
		default:
			amount = r.BigInteger()
		}
		sig := r.LengthPrefixedBytes()
		return &TransferRequest{Caller: caller, Receiver: receiver, Nonce: nonce, ChainID: chainID, GasPrice: gasPrice, Classpath: cp, Amount: amount, Signature: sig}
	default:
		return nil
	}
}
