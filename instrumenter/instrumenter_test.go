// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package instrumenter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/takamaka/node/classfile"
	"github.com/takamaka/node/instrumenter"
)

func TestInstrumentAddsGasChargePrologue(t *testing.T) {
	jar := &classfile.Jar{Classes: map[string]*classfile.Class{
		"C": {
			Name: "C",
			Methods: []classfile.Method{
				{Name: "m", Body: []classfile.Instruction{{Op: classfile.OpOther, Cost: 7}}},
			},
		},
	}}

	instrumenter.Instrument(jar, instrumenter.DefaultCostModel())

	m := jar.Classes["C"].Methods[0]
	require.True(t, m.Instrumented)
	require.NotEmpty(t, m.Body)
	assert.Equal(t, classfile.OpCall, m.Body[0].Op)
	assert.Equal(t, "runtime.charge_cpu", m.Body[0].Target)
	assert.Equal(t, 7, m.Body[0].Cost)
}

func TestInstrumentIsIdempotent(t *testing.T) {
	jar := &classfile.Jar{Classes: map[string]*classfile.Class{
		"C": {Name: "C", Methods: []classfile.Method{{Name: "m"}}},
	}}

	instrumenter.Instrument(jar, instrumenter.DefaultCostModel())
	first := len(jar.Classes["C"].Methods[0].Body)
	instrumenter.Instrument(jar, instrumenter.DefaultCostModel())
	second := len(jar.Classes["C"].Methods[0].Body)

	assert.Equal(t, first, second)
}

func TestInstrumentFromContractPayablePrologue(t *testing.T) {
	jar := &classfile.Jar{Classes: map[string]*classfile.Class{
		"C": {
			Name: "C",
			Methods: []classfile.Method{
				{Name: "pay", FromContract: true, Payable: true},
			},
		},
	}}

	instrumenter.Instrument(jar, instrumenter.DefaultCostModel())

	m := jar.Classes["C"].Methods[0]
	require.Len(t, m.Body, 2)
	assert.Equal(t, "runtime.payable_from_contract", m.Body[1].Target)
}

func TestShadowFieldNames(t *testing.T) {
	c := &classfile.Class{
		Fields: []classfile.Field{
			{Name: "count"},
			{Name: "total", Static: true},
		},
	}
	assert.Equal(t, []string{"old_count"}, instrumenter.ShadowFieldNames(c))
}
