// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package marshal

import (
	"bytes"
	"fmt"

	"github.com/takamaka/node/takamaka"
)

// WriteValue encodes a takamaka.Value using the selector scheme of
// selectors.go. IntValue in [0, IntValueDirectMax] is folded into the
// selector byte itself, per §4.A's optimized encoding.
func (w *Writer) WriteValue(v takamaka.Value) {
	switch t := v.(type) {
	case takamaka.BoolValue:
		if t {
			w.Byte(SelectorBoolTrue)
		} else {
			w.Byte(SelectorBoolFalse)
		}
	case takamaka.ByteValue:
		w.Byte(SelectorByte)
		w.Byte(byte(t))
	case takamaka.CharValue:
		w.Byte(SelectorChar)
		w.Uint16(uint16(t))
	case takamaka.ShortValue:
		w.Byte(SelectorShort)
		var b [2]byte
		b[0] = byte(t >> 8)
		b[1] = byte(t)
		w.Bytes(b[:])
	case takamaka.IntValue:
		n := int32(t)
		if n >= 0 && n <= IntValueDirectMax {
			w.Byte(byte(IntValueBase + n))
			return
		}
		w.Byte(SelectorIntFull)
		w.Int32(n)
	case takamaka.LongValue:
		w.Byte(SelectorLong)
		w.Int64(int64(t))
	case takamaka.FloatValue:
		w.Byte(SelectorFloat)
		w.Uint32(float32bits(float32(t)))
	case takamaka.DoubleValue:
		w.Byte(SelectorDouble)
		w.Uint64(float64bits(float64(t)))
	case takamaka.BigIntegerValue:
		w.Byte(SelectorBigInteger)
		w.BigInteger(t.Int)
	case takamaka.StringValue:
		w.Byte(SelectorString)
		w.String(string(t))
	case takamaka.NullValue:
		w.Byte(SelectorNull)
	case takamaka.EnumValue:
		w.Byte(SelectorEnum)
		w.String(t.EnumClass)
		w.String(t.Name)
	case takamaka.StorageRefValue:
		w.Byte(SelectorStorageRef)
		w.WriteStorageRefWithoutSelector(t.Ref)
	default:
		if w.err == nil {
			w.err = fmt.Errorf("marshal: unknown value type %T", v)
		}
	}
}

// ReadValue decodes a takamaka.Value.
func (r *Reader) ReadValue() takamaka.Value {
	sel := int(r.Byte())
	if r.err != nil {
		return nil
	}
	switch {
	case sel >= IntValueBase:
		return takamaka.IntValue(sel - IntValueBase)
	case sel == SelectorBoolTrue:
		return takamaka.BoolValue(true)
	case sel == SelectorBoolFalse:
		return takamaka.BoolValue(false)
	case sel == SelectorByte:
		return takamaka.ByteValue(int8(r.Byte()))
	case sel == SelectorChar:
		return takamaka.CharValue(rune(r.Uint16()))
	case sel == SelectorShort:
		b := r.Bytes(2)
		if b == nil {
			return nil
		}
		return takamaka.ShortValue(int16(b[0])<<8 | int16(b[1]))
	case sel == SelectorIntFull:
		return takamaka.IntValue(r.Int32())
	case sel == SelectorLong:
		return takamaka.LongValue(r.Int64())
	case sel == SelectorFloat:
		return takamaka.FloatValue(float32frombits(r.Uint32()))
	case sel == SelectorDouble:
		return takamaka.DoubleValue(float64frombits(r.Uint64()))
	case sel == SelectorBigInteger:
		return takamaka.NewBigIntegerValue(r.BigInteger())
	case sel == SelectorString:
		return takamaka.StringValue(r.String())
	case sel == SelectorNull:
		return takamaka.NullValue{}
	case sel == SelectorEnum:
		class := r.String()
		name := r.String()
		return takamaka.EnumValue{EnumClass: class, Name: name}
	case sel == SelectorStorageRef:
		return takamaka.StorageRefValue{Ref: r.ReadStorageRefWithoutSelector()}
	default:
		if r.err == nil {
			r.err = fmt.Errorf("marshal: unknown value selector %d", sel)
		}
		return nil
	}
}

// WriteStorageRefWithoutSelector writes a storage reference without its
// leading SelectorStorageRef byte, used whenever a reference is nested
// inside a composite encoding that already carries its own discriminator
// (e.g. the storage reference of a ClassTag update).
func (w *Writer) WriteStorageRefWithoutSelector(ref takamaka.StorageRef) {
	w.Bytes(ref.TxRef.Bytes())
	w.CompactInt(int(ref.Progressive))
}

// ReadStorageRefWithoutSelector is the dual of WriteStorageRefWithoutSelector.
func (r *Reader) ReadStorageRefWithoutSelector() takamaka.StorageRef {
	var tx takamaka.Bytes32
	copy(tx[:], r.Bytes(32))
	prog := r.CompactInt()
	return takamaka.StorageRef{TxRef: tx, Progressive: uint64(prog)}
}

// WriteStorageRef writes a storage reference with its selector byte, for
// use at the top level of an encoding (e.g. a request's caller field).
func (w *Writer) WriteStorageRef(ref takamaka.StorageRef) {
	w.Byte(SelectorStorageRef)
	w.WriteStorageRefWithoutSelector(ref)
}

// ReadStorageRef reads a selector-prefixed storage reference.
func (r *Reader) ReadStorageRef() takamaka.StorageRef {
	sel := r.Byte()
	if r.err == nil && sel != SelectorStorageRef {
		r.err = fmt.Errorf("marshal: expected storage-reference selector %d, got %d", SelectorStorageRef, sel)
		return takamaka.StorageRef{}
	}
	return r.ReadStorageRefWithoutSelector()
}

// EncodeStorageRef renders ref as a standalone byte slice (no selector),
// the compact form used for the well-known info-trie slots of §4.D.
func EncodeStorageRef(ref takamaka.StorageRef) []byte {
	var buf bytes.Buffer
	NewWriter(&buf).WriteStorageRefWithoutSelector(ref)
	return buf.Bytes()
}

// DecodeStorageRef is the dual of EncodeStorageRef.
func DecodeStorageRef(data []byte) (takamaka.StorageRef, error) {
	r := NewReader(bytes.NewReader(data))
	ref := r.ReadStorageRefWithoutSelector()
	if err := r.Err(); err != nil {
		return takamaka.StorageRef{}, err
	}
	return ref, nil
}
