// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package takamaka

import "fmt"

// StorageRef identifies a storage object: the transaction that created it
// plus a progressive number disambiguating objects created by that same
// transaction.
type StorageRef struct {
	TxRef       Bytes32
	Progressive uint64
}

// NewStorageRef builds a StorageRef.
func NewStorageRef(tx Bytes32, progressive uint64) StorageRef {
	return StorageRef{TxRef: tx, Progressive: progressive}
}

// String renders "txref#progressive".
func (r StorageRef) String() string {
	return fmt.Sprintf("%s#%d", r.TxRef, r.Progressive)
}

// Compare orders two storage references lexicographically on
// (transaction, progressive), per the data model in §3.
func (r StorageRef) Compare(other StorageRef) int {
	if c := r.TxRef.Compare(other.TxRef); c != 0 {
		return c
	}
	switch {
	case r.Progressive < other.Progressive:
		return -1
	case r.Progressive > other.Progressive:
		return 1
	default:
		return 0
	}
}

// FieldSignature identifies a single field of a storage class.
type FieldSignature struct {
	DefiningClass string
	Name          string
	Type          string // fully-qualified storage-permitted type name
}

func (f FieldSignature) String() string {
	return fmt.Sprintf("%s.%s:%s", f.DefiningClass, f.Name, f.Type)
}

// Eager reports whether the field's declared type is an eager type
// (primitives, string, big-integer); enum fields are eager too but that
// can only be determined by resolving IsEnum against the class loader, so
// callers with class-resolution available should use IsEagerField instead.
func (f FieldSignature) Eager() bool {
	return IsEagerType(f.Type)
}

// IsEagerType classifies a declared field type as eager or lazy per §3,
// for the part of the classification decidable from the type name alone.
func IsEagerType(typeName string) bool {
	switch typeName {
	case "boolean", "byte", "char", "short", "int", "long", "float", "double",
		"java.math.BigInteger", "java.lang.String":
		return true
	}
	return false
}

// IsEagerField classifies a field as eager, additionally consulting isEnum
// (typically backed by the class loader) to catch enum-typed fields, which
// are eager per §3 but not detectable from the type name in isolation.
func IsEagerField(f FieldSignature, isEnum func(typeName string) bool) bool {
	return IsEagerType(f.Type) || isEnum(f.Type)
}
