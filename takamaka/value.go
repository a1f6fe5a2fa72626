// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package takamaka

import (
	"fmt"
	"math/big"
)

// Value is the tagged union of §3: primitives, null, enum constants and
// storage references. Concrete implementations are the *Value types below.
type Value interface {
	// isValue is unexported so that Value can only be implemented within
	// this package; the marshal package switches on concrete type.
	isValue()
	String() string
}

type BoolValue bool

func (BoolValue) isValue()        {}
func (v BoolValue) String() string { return fmt.Sprintf("%t", bool(v)) }

type ByteValue int8

func (ByteValue) isValue()        {}
func (v ByteValue) String() string { return fmt.Sprintf("%d", int8(v)) }

type CharValue rune

func (CharValue) isValue()        {}
func (v CharValue) String() string { return string(rune(v)) }

type ShortValue int16

func (ShortValue) isValue()        {}
func (v ShortValue) String() string { return fmt.Sprintf("%d", int16(v)) }

type IntValue int32

func (IntValue) isValue()        {}
func (v IntValue) String() string { return fmt.Sprintf("%d", int32(v)) }

type LongValue int64

func (LongValue) isValue()        {}
func (v LongValue) String() string { return fmt.Sprintf("%d", int64(v)) }

type FloatValue float32

func (FloatValue) isValue()        {}
func (v FloatValue) String() string { return fmt.Sprintf("%g", float32(v)) }

type DoubleValue float64

func (DoubleValue) isValue()        {}
func (v DoubleValue) String() string { return fmt.Sprintf("%g", float64(v)) }

// BigIntegerValue wraps an arbitrary-precision integer, used for contract
// balances and user-declared BigInteger fields.
type BigIntegerValue struct {
	*big.Int
}

func NewBigIntegerValue(v *big.Int) BigIntegerValue {
	return BigIntegerValue{new(big.Int).Set(v)}
}

func (BigIntegerValue) isValue() {}
func (v BigIntegerValue) String() string {
	return v.Int.String()
}

// StringValue wraps a UTF-8 string.
type StringValue string

func (StringValue) isValue()        {}
func (v StringValue) String() string { return string(v) }

// NullValue is the singleton null reference.
type NullValue struct{}

func (NullValue) isValue()        {}
func (NullValue) String() string { return "null" }

// EnumValue names an enum constant by its declaring class and constant name.
type EnumValue struct {
	EnumClass string
	Name      string
}

func (EnumValue) isValue() {}
func (v EnumValue) String() string {
	return fmt.Sprintf("%s.%s", v.EnumClass, v.Name)
}

// StorageRefValue wraps a reference to a storage object.
type StorageRefValue struct {
	Ref StorageRef
}

func (StorageRefValue) isValue() {}
func (v StorageRefValue) String() string {
	return v.Ref.String()
}
