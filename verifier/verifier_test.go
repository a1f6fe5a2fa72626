// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package verifier_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/takamaka/node/classfile"
	"github.com/takamaka/node/verifier"
)

type fakeWhiteList struct{ allowed map[string]bool }

func (w fakeWhiteList) IsWhitelisted(target string) bool { return w.allowed[target] }

type fakeStorageTypes struct{}

func (fakeStorageTypes) IsStoragePermitted(typeName string) bool {
	switch typeName {
	case "int", "long", "java.math.BigInteger", "java.lang.String":
		return true
	default:
		return false
	}
}

func TestVerifyForbiddenOpcode(t *testing.T) {
	jar := &classfile.Jar{Classes: map[string]*classfile.Class{
		"C": {
			Name: "C",
			Methods: []classfile.Method{
				{Name: "m", Body: []classfile.Instruction{{Op: classfile.OpJsr}}},
			},
		},
	}}

	issues := verifier.Verify(jar, jar, fakeWhiteList{}, fakeStorageTypes{}, verifier.Options{})
	assert.True(t, verifier.HasErrors(issues))
}

func TestVerifyPayableRequiresFromContract(t *testing.T) {
	jar := &classfile.Jar{Classes: map[string]*classfile.Class{
		"C": {
			Name:    "C",
			Methods: []classfile.Method{{Name: "pay", Payable: true}},
		},
	}}

	issues := verifier.Verify(jar, jar, fakeWhiteList{}, fakeStorageTypes{}, verifier.Options{})
	assert.True(t, verifier.HasErrors(issues))
}

func TestVerifyWhitelistedCallPasses(t *testing.T) {
	jar := &classfile.Jar{Classes: map[string]*classfile.Class{
		"C": {
			Name: "C",
			Methods: []classfile.Method{
				{Name: "m", Body: []classfile.Instruction{
					{Op: classfile.OpCall, Target: "java.lang.Object.toString"},
				}},
			},
		},
	}}
	wl := fakeWhiteList{allowed: map[string]bool{"java.lang.Object.toString": true}}

	issues := verifier.Verify(jar, jar, wl, fakeStorageTypes{}, verifier.Options{})
	assert.False(t, verifier.HasErrors(issues))
}

func TestVerifyUnresolvedCallFails(t *testing.T) {
	jar := &classfile.Jar{Classes: map[string]*classfile.Class{
		"C": {
			Name: "C",
			Methods: []classfile.Method{
				{Name: "m", Body: []classfile.Instruction{
					{Op: classfile.OpCall, Target: "some.Unknown.method"},
				}},
			},
		},
	}}

	issues := verifier.Verify(jar, jar, fakeWhiteList{}, fakeStorageTypes{}, verifier.Options{})
	assert.True(t, verifier.HasErrors(issues))
}

func TestVerifyStorageFieldType(t *testing.T) {
	jar := &classfile.Jar{Classes: map[string]*classfile.Class{
		"C": {
			Name:   "C",
			Fields: []classfile.Field{{Name: "bad", Type: "java.io.File"}},
		},
	}}

	issues := verifier.Verify(jar, jar, fakeWhiteList{}, fakeStorageTypes{}, verifier.Options{})
	assert.True(t, verifier.HasErrors(issues))
}

func TestVerifyFromContractRequiresInstanceReceiver(t *testing.T) {
	jar := &classfile.Jar{Classes: map[string]*classfile.Class{
		"C": {
			Name:    "C",
			Methods: []classfile.Method{{Name: "m", Static: true, FromContract: true}},
		},
	}}

	issues := verifier.Verify(jar, jar, fakeWhiteList{}, fakeStorageTypes{}, verifier.Options{})
	assert.True(t, verifier.HasErrors(issues))
}

func TestVerifySelfChargedRequiresConsensus(t *testing.T) {
	jar := &classfile.Jar{Classes: map[string]*classfile.Class{
		"C": {
			Name:    "C",
			Methods: []classfile.Method{{Name: "m", SelfCharged: true}},
		},
	}}

	issues := verifier.Verify(jar, jar, fakeWhiteList{}, fakeStorageTypes{}, verifier.Options{AllowSelfCharged: false})
	assert.True(t, verifier.HasErrors(issues))

	issues = verifier.Verify(jar, jar, fakeWhiteList{}, fakeStorageTypes{}, verifier.Options{AllowSelfCharged: true})
	assert.False(t, verifier.HasErrors(issues))
}
