// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package takamaka

import "math/big"

// ClassTag records the runtime class and defining jar of a newly created
// storage object. Exactly one ClassTag exists per storage reference's
// history (invariant U1).
type ClassTag struct {
	Object    StorageRef
	ClassName string
	Jar       Bytes32 // transaction that installed the defining jar
}

// Update is the atomic change unit of §3: one of the five field-update
// shapes, or a ClassTag. The sum type is expressed as a closed interface,
// mirroring how Value is closed in this package.
type Update interface {
	// Object is the storage reference the update applies to.
	Object() StorageRef
	// Field returns the updated field, or the zero FieldSignature for a
	// ClassTag (which has none).
	Field() FieldSignature
	// Eager reports whether the update concerns an eager field; ClassTag
	// updates are always eager (they must be visible without a lazy
	// dereference, since they carry the runtime type).
	Eager() bool
	isUpdate()
}

// ClassTagUpdate wraps a ClassTag as an Update.
type ClassTagUpdate struct {
	Tag ClassTag
}

func (u ClassTagUpdate) Object() StorageRef      { return u.Tag.Object }
func (u ClassTagUpdate) Field() FieldSignature   { return FieldSignature{} }
func (u ClassTagUpdate) Eager() bool             { return true }
func (ClassTagUpdate) isUpdate()                 {}

// PrimitiveUpdate updates a primitive-valued eager field.
type PrimitiveUpdate struct {
	Obj   StorageRef
	Fld   FieldSignature
	Value Value // one of Bool/Byte/Char/Short/Int/Long/Float/DoubleValue
}

func (u PrimitiveUpdate) Object() StorageRef    { return u.Obj }
func (u PrimitiveUpdate) Field() FieldSignature { return u.Fld }
func (u PrimitiveUpdate) Eager() bool           { return true }
func (PrimitiveUpdate) isUpdate()               {}

// BigIntegerUpdate updates a java.math.BigInteger-valued field. Contract
// balance fields use the dedicated UpdateOfBalance shape instead (see
// balance.go) because the engine's accounting code needs to recognize
// balance changes without string-matching field names.
type BigIntegerUpdate struct {
	Obj   StorageRef
	Fld   FieldSignature
	Value *big.Int
}

func (u BigIntegerUpdate) Object() StorageRef    { return u.Obj }
func (u BigIntegerUpdate) Field() FieldSignature { return u.Fld }
func (u BigIntegerUpdate) Eager() bool           { return true }
func (BigIntegerUpdate) isUpdate()               {}

// StringUpdate updates a java.lang.String-valued field.
type StringUpdate struct {
	Obj   StorageRef
	Fld   FieldSignature
	Value string
}

func (u StringUpdate) Object() StorageRef    { return u.Obj }
func (u StringUpdate) Field() FieldSignature { return u.Fld }
func (u StringUpdate) Eager() bool           { return true }
func (StringUpdate) isUpdate()               {}

// EnumUpdate updates an enum-constant-valued field.
type EnumUpdate struct {
	Obj   StorageRef
	Fld   FieldSignature
	Value EnumValue
}

func (u EnumUpdate) Object() StorageRef    { return u.Obj }
func (u EnumUpdate) Field() FieldSignature { return u.Fld }
func (u EnumUpdate) Eager() bool           { return true }
func (EnumUpdate) isUpdate()               {}

// ReferenceUpdate updates a reference-typed field, eager or lazy. A nil
// Value (or explicit ToNull) represents the field being set to null.
type ReferenceUpdate struct {
	Obj    StorageRef
	Fld    FieldSignature
	Value  StorageRef // meaningless when ToNull is true
	ToNull bool
	// EagerKind distinguishes the "to null, eager" from "to null, lazy"
	// variants named in §3; for non-null updates this mirrors Fld.Eager().
	EagerKind bool
}

func (u ReferenceUpdate) Object() StorageRef    { return u.Obj }
func (u ReferenceUpdate) Field() FieldSignature { return u.Fld }
func (u ReferenceUpdate) Eager() bool           { return u.EagerKind }
func (ReferenceUpdate) isUpdate()               {}

// UpdateOfBalance is the compact shape used for a contract's big-integer
// balance field (§4.I), so that the engine's gas/transfer accounting can
// recognize balance changes structurally rather than by field name.
type UpdateOfBalance struct {
	Obj     StorageRef
	Balance *big.Int
	Red     bool // true for the "red" balance field of a contract, if any
}

func (u UpdateOfBalance) Object() StorageRef { return u.Obj }
func (u UpdateOfBalance) Field() FieldSignature {
	name := "balance"
	if u.Red {
		name = "balanceRed"
	}
	return FieldSignature{DefiningClass: "io.takamaka.code.lang.Contract", Name: name, Type: "java.math.BigInteger"}
}
func (u UpdateOfBalance) Eager() bool { return true }
func (UpdateOfBalance) isUpdate()     {}
