// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package classfile is the structural, post-parse representation of an
// uploaded contract jar (§4.E/4.F): a set of classes with their fields,
// methods and constructors, annotated the way the verifier and
// instrumenter need. There is no JVM bytecode parser in this repository —
// a jar is decoded directly into this structural form, which the verifier
// checks and the instrumenter rewrites in place.
package classfile

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Opcode names the small set of instruction shapes the verifier and
// instrumenter care about; everything else in a method body is opaque
// "other" work that only contributes to the static gas cost.
type Opcode string

const (
	OpCall         Opcode = "call"
	OpFieldRead    Opcode = "fieldread"
	OpFieldWrite   Opcode = "fieldwrite"
	OpPutStatic    Opcode = "putstatic"
	OpJsr          Opcode = "jsr"
	OpRet          Opcode = "ret"
	OpMonitorEnter Opcode = "monitorenter"
	OpMonitorExit  Opcode = "monitorexit"
	OpStoreSlot0   Opcode = "store_slot0"
	OpNew          Opcode = "new"
	OpOther        Opcode = "other"
)

// Instruction is one structural step of a method body.
type Instruction struct {
	Op     Opcode
	Target string // for OpCall/OpFieldRead/OpFieldWrite/OpNew: "Class.member" or "Class"
	Cost   int    // static per-instruction cost contribution, in gas units
}

// Field is a declared field of a class.
type Field struct {
	Name   string
	Type   string
	Static bool
}

// Method is a method or constructor (Name == "<init>") of a class.
type Method struct {
	Name             string
	ParamTypes       []string
	ReturnType       string // "" denotes void
	Static           bool
	FromContract     bool
	Payable          bool
	ThrowsExceptions bool
	SelfCharged      bool
	View             bool
	Body             []Instruction

	// Set by the instrumenter; zero value means "not yet instrumented".
	Instrumented bool
}

// Arity is the number of formal parameters as declared in the jar, before
// any from_contract prologue augmentation.
func (m *Method) Arity() int { return len(m.ParamTypes) }

// FromContractArity is the arity once the two from_contract trailing
// parameters (caller, dummy) have been added by the instrumenter (§4.F.2).
func (m *Method) FromContractArity() int {
	if m.FromContract {
		return len(m.ParamTypes) + 2
	}
	return len(m.ParamTypes)
}

// Class is one class defined by a jar.
type Class struct {
	Name         string
	Super        string // "" denotes the root of the storage hierarchy
	Fields       []Field
	Methods      []Method
	Constructors []Method
}

// Field looks up a declared field by name.
func (c *Class) Field(name string) (Field, bool) {
	for _, f := range c.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Jar is the structural decoding of an uploaded contract jar: the unit
// verified as a whole and instrumented as a whole (§4.E/4.F).
type Jar struct {
	Classes map[string]*Class
	// SizeBytes is the original jar's byte length, used by the instrumenter
	// to size the linear jar-install gas charge (§4.F.1).
	SizeBytes int
}

// Class looks up a class by its fully qualified name.
func (j *Jar) Class(name string) (*Class, bool) {
	c, ok := j.Classes[name]
	return c, ok
}

// Encode renders the jar to its canonical byte form. There is no bytecode
// format to preserve here, so the wire form is the structural
// representation itself, JSON-encoded for readability and stability across
// versions of this repository; determinism only requires that the same
// Jar value always encodes to the same bytes, which json.Marshal gives us
// because Go map iteration order doesn't leak into its key-sorted output.
func (j *Jar) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(j); err != nil {
		return nil, fmt.Errorf("classfile: encode jar: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses a jar previously produced by Encode (or, for JarStore
// requests, supplied directly by the submitter in this structural form).
func Decode(data []byte) (*Jar, error) {
	var j Jar
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("classfile: decode jar: %w", err)
	}
	if j.Classes == nil {
		j.Classes = make(map[string]*Class)
	}
	j.SizeBytes = len(data)
	return &j, nil
}
