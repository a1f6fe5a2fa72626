// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"fmt"

	"github.com/takamaka/node/classfile"
	"github.com/takamaka/node/classloader"
	"github.com/takamaka/node/state"
	"github.com/takamaka/node/takamaka"
	"github.com/takamaka/node/xenv"
)

// resolveMethod looks up name among class's (and its ancestors') methods
// with exactly params formal parameter types and the given return type,
// per §4.H's "first the declared signature, then the from_contract
// signature" tie-break; in this structural representation a from_contract
// method's declared ParamTypes never include the instrumented trailing
// (caller, dummy) pair, so a single arity-and-name match already covers
// both cases.
func resolveMethod(loader *classloader.ClassLoader, className, name string, params []string, returns string) (*classfile.Class, *classfile.Method, bool) {
	for cn := className; cn != ""; {
		c, ok := loader.Resolve(cn)
		if !ok {
			return nil, nil, false
		}
		for i := range c.Methods {
			m := &c.Methods[i]
			if m.Name == name && m.ReturnType == returns && sameParams(m.ParamTypes, params) {
				return c, m, true
			}
		}
		cn = c.Super
	}
	return nil, nil, false
}

func resolveConstructor(loader *classloader.ClassLoader, className string, params []string) (*classfile.Class, *classfile.Method, bool) {
	c, ok := loader.Resolve(className)
	if !ok {
		return nil, nil, false
	}
	for i := range c.Constructors {
		m := &c.Constructors[i]
		if sameParams(m.ParamTypes, params) {
			return c, m, true
		}
	}
	return nil, nil, false
}

func sameParams(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// targetOf renders the "Class.member" form the verifier's WhiteList and
// the cost model's instrumented call instructions use.
func targetOf(class, member string) string {
	if member == "" {
		return class
	}
	return fmt.Sprintf("%s.%s", class, member)
}

// executeBody runs the (already instrumented) instruction stream of m: the
// runtime.charge_cpu / runtime.from_contract / runtime.payable_from_contract
// prologue call sites have real effects on env; every other instruction is
// structural bookkeeping already folded into the prologue's static cost
// and is otherwise a no-op here (§1 Non-goals: no general-purpose
// sandboxing of native code). Once the prologue has run, execution
// dispatches to whatever NativeFunc is registered for (class, m.Name,
// arity), or a deterministic zero value if none is.
func executeBody(env *xenv.Environment, definingClass string, m *classfile.Method, callerRef, calleeRef takamaka.StorageRef, receiver *state.Object, actuals []takamaka.Value) (takamaka.Value, error) {
	for _, instr := range m.Body {
		if instr.Op != classfile.OpCall {
			continue
		}
		switch instr.Target {
		case "runtime.charge_cpu", "runtime.charge_ram":
			if err := env.UseGas(uint64(instr.Cost)); err != nil {
				return nil, err
			}
		case "runtime.from_contract":
			env.FromContract(calleeRef, callerRef)
		case "runtime.payable_from_contract":
			amount := payableAmount(m, actuals)
			if err := env.PayableFromContract(calleeRef, callerRef, amount); err != nil {
				return nil, err
			}
		}
	}

	arity := m.Arity()
	if fn, ok := lookupNative(definingClass, m.Name, arity); ok {
		return fn(env, receiver, actuals)
	}
	return zeroValueFor(m.ReturnType), nil
}

// payableAmount is the first actual of a payable method/constructor, the
// Takamaka convention for where the transferred amount is declared.
func payableAmount(m *classfile.Method, actuals []takamaka.Value) takamaka.Value {
	if !m.Payable || len(actuals) == 0 {
		return takamaka.IntValue(0)
	}
	return actuals[0]
}
