// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"math/big"

	"github.com/takamaka/node/state"
	"github.com/takamaka/node/takamaka"
	"github.com/takamaka/node/xenv"
)

// NativeFunc is the body of one runtime-known method or constructor: the
// piece of "bytecode execution" this engine actually performs, since there
// is no general-purpose sandbox for native code (§1 Non-goals) and no JVM
// interpreter in this repository (see classfile's package doc). It is
// handed the execution environment, the receiver (nil for a static method
// or a not-yet-populated fresh object for a constructor) and the
// deserialized actual arguments, and returns the method's result.
type NativeFunc func(env *xenv.Environment, receiver *state.Object, actuals []takamaka.Value) (takamaka.Value, error)

type nativeKey struct {
	class  string
	method string
	arity  int
}

// nativeMethods mirrors the teacher's own privateMethods dispatch table
// (builtin/native_calls.go): every contract-visible runtime behavior this
// engine can actually run is registered here by (class, method, arity),
// exactly the way the teacher keys its native call handlers by
// (address, methodID).
var nativeMethods = make(map[nativeKey]NativeFunc)

// RegisterNative installs fn as the body of class.method with the given
// declared (pre from_contract-augmentation) arity. Intended to be called
// from an init() in a package that defines the Takamaka runtime classes'
// behavior (e.g. io.takamaka.code.lang.Contract.receive).
func RegisterNative(class, method string, arity int, fn NativeFunc) {
	nativeMethods[nativeKey{class: class, method: method, arity: arity}] = fn
}

func lookupNative(class, method string, arity int) (NativeFunc, bool) {
	fn, ok := nativeMethods[nativeKey{class: class, method: method, arity: arity}]
	return fn, ok
}

func init() {
	// Contract.receive(BigInteger) is the implicit payable method the
	// compact transfer request form expands to (request.TransferRequest
	// .AsInstanceMethodCall); the payable_from_contract prologue already
	// performs the balance transfer, so the body itself is a no-op void
	// return.
	RegisterNative("io.takamaka.code.lang.Contract", "receive", 1, func(_ *xenv.Environment, _ *state.Object, _ []takamaka.Value) (takamaka.Value, error) {
		return nil, nil
	})
}

// zeroValueFor returns the default value §3's eager-type table assigns a
// declared return type, used when no native body is registered for a
// resolved method: a deterministic, side-effect-free stub consistent with
// "no general-purpose sandboxing of native code".
func zeroValueFor(returnType string) takamaka.Value {
	switch returnType {
	case "":
		return nil
	case "boolean":
		return takamaka.BoolValue(false)
	case "byte":
		return takamaka.ByteValue(0)
	case "char":
		return takamaka.CharValue(0)
	case "short":
		return takamaka.ShortValue(0)
	case "int":
		return takamaka.IntValue(0)
	case "long":
		return takamaka.LongValue(0)
	case "float":
		return takamaka.FloatValue(0)
	case "double":
		return takamaka.DoubleValue(0)
	case "java.math.BigInteger":
		return takamaka.NewBigIntegerValue(big.NewInt(0))
	case "java.lang.String":
		return takamaka.StringValue("")
	default:
		return takamaka.NullValue{}
	}
}
