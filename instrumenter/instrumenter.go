// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package instrumenter rewrites a verified jar to enforce runtime
// invariants transparently (§4.F): gas-charging prologues, from_contract /
// payable entry prologues, lazy field access and old_ shadow fields for
// mutation tracking.
package instrumenter

import (
	"fmt"

	"github.com/takamaka/node/classfile"
)

// CostModel is the pluggable per-opcode and per-byte cost table driving
// gas-charging instrumentation (§4.F.1).
type CostModel struct {
	PerOpcode     map[classfile.Opcode]int
	PerJarByte    int
	DefaultOpcode int
}

// DefaultCostModel is a reasonable, consensus-agreed-upon starting table;
// nodes that disagree on costs cannot reach the same merged root, so this
// must be part of the genesis consensus parameters in a real deployment.
func DefaultCostModel() CostModel {
	return CostModel{
		PerOpcode: map[classfile.Opcode]int{
			classfile.OpCall:       5,
			classfile.OpNew:        10,
			classfile.OpFieldRead:  2,
			classfile.OpFieldWrite: 3,
		},
		PerJarByte:    1,
		DefaultOpcode: 1,
	}
}

func (m CostModel) cost(instr classfile.Instruction) int {
	if instr.Cost != 0 {
		return instr.Cost
	}
	if c, ok := m.PerOpcode[instr.Op]; ok {
		return c
	}
	return m.DefaultOpcode
}

// Instrument rewrites every class of jar in place, returning the same jar
// for call-site convenience. It is idempotent: instrumenting an
// already-instrumented method is a no-op, since the wire-level jar-store
// response carries the instrumented bytes and every node must derive
// exactly the same ones from the same input (§4.H, JarStoreResponseBuilder).
func Instrument(jar *classfile.Jar, model CostModel) *classfile.Jar {
	for _, c := range jar.Classes {
		for i := range c.Constructors {
			instrumentMethod(c, &c.Constructors[i], model)
		}
		for i := range c.Methods {
			instrumentMethod(c, &c.Methods[i], model)
		}
	}
	return jar
}

func instrumentMethod(c *classfile.Class, m *classfile.Method, model CostModel) {
	if m.Instrumented {
		return
	}

	staticCost := 0
	for _, instr := range m.Body {
		staticCost += model.cost(instr)
	}

	prologue := make([]classfile.Instruction, 0, 4)
	prologue = append(prologue, classfile.Instruction{
		Op: classfile.OpCall, Target: "runtime.charge_cpu", Cost: staticCost,
	})
	if m.FromContract {
		target := "runtime.from_contract"
		if m.Payable {
			target = "runtime.payable_from_contract"
		}
		prologue = append(prologue, classfile.Instruction{
			Op: classfile.OpCall, Target: target,
		})
	}

	m.Body = append(prologue, m.Body...)
	m.Instrumented = true
}

// ShadowFieldNames returns the old_<name> shadow field the deserializer and
// updates extractor expect for every non-static field of c (§4.F.4).
func ShadowFieldNames(c *classfile.Class) []string {
	names := make([]string, 0, len(c.Fields))
	for _, f := range c.Fields {
		if f.Static {
			continue
		}
		names = append(names, shadowFieldName(f.Name))
	}
	return names
}

func shadowFieldName(name string) string {
	return fmt.Sprintf("old_%s", name)
}
